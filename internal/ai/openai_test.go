package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model          string  `json:"model"`
	MaxTokens      int     `json:"max_tokens"`
	Temperature    float64 `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

const chatCompletion = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-3.5-turbo",
	"choices": [{
		"index": 0,
		"finish_reason": "stop",
		"message": {"role": "assistant", "content": "{\"text\": \"Luke 15:4-6\"}"}
	}]
}`

func TestOpenAICompleter(t *testing.T) {
	var got chatRequest
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletion))
	}))
	defer srv.Close()

	c := NewOpenAICompleter("sk-test", "", srv.URL+"/v1/", srv.Client())
	raw, err := c.Complete(context.Background(), Instruction, "lost sheep")
	require.NoError(t, err)

	assert.Equal(t, `{"text": "Luke 15:4-6"}`, raw)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.Equal(t, maxOutputTokens, got.MaxTokens)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, Instruction, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "lost sheep", got.Messages[1].Content)
}

func TestOpenAICompleter_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantStatus  int
		malformed   bool
	}{
		{name: "bad key", status: http.StatusUnauthorized, contentType: "application/json", body: `{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`, wantStatus: http.StatusUnauthorized},
		{name: "rate limited", status: http.StatusTooManyRequests, contentType: "application/json", body: `{"error":{"message":"slow down","type":"rate_limit"}}`, wantStatus: http.StatusTooManyRequests},
		{name: "outage", status: http.StatusBadGateway, contentType: "text/plain", body: `upstream connect error`, wantStatus: http.StatusBadGateway},
		{name: "no choices", status: http.StatusOK, contentType: "application/json", body: `{"id":"chatcmpl-1","object":"chat.completion","choices":[]}`, malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewOpenAICompleter("sk-test", "gpt-4o-mini", srv.URL+"/v1/", srv.Client())
			_, err := c.Complete(context.Background(), Instruction, "story")
			require.Error(t, err)
			assert.Equal(t, 1, calls, "failed calls are not retried")

			if tt.malformed {
				assert.ErrorIs(t, err, ErrMalformedCompletion)
				return
			}
			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.wantStatus, genErr.Status)
		})
	}
}
