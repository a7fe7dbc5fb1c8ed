package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	oaoption "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// OpenAICompleter runs completions against the OpenAI chat completions API.
type OpenAICompleter struct {
	client openai.Client
	model  string
}

// NewOpenAICompleter creates a completer. An empty baseURL uses the public
// API and a nil httpClient an instrumented default. The SDK's own retries
// are disabled: a failed call is reported once to the user.
func NewOpenAICompleter(apiKey, model, baseURL string, httpClient *http.Client) *OpenAICompleter {
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	opts := []oaoption.RequestOption{
		oaoption.WithAPIKey(apiKey),
		oaoption.WithHTTPClient(httpClient),
		oaoption.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, oaoption.WithBaseURL(baseURL))
	}

	return &OpenAICompleter{client: openai.NewClient(opts...), model: model}
}

func (o *OpenAICompleter) Name() string { return "OpenAI" }

// Complete sends story with the system instruction in JSON-object mode and
// returns the raw content of the first choice.
func (o *OpenAICompleter) Complete(ctx context.Context, instruction, story string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instruction),
			openai.UserMessage(story),
		},
		MaxTokens:   openai.Int(maxOutputTokens),
		Temperature: openai.Float(0),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", classifyStatus("OpenAI", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("openai: request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", ErrMalformedCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}
