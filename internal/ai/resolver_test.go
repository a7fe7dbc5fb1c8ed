package ai

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	raw   string
	err   error
	delay time.Duration

	gotInstruction string
	gotStory       string
}

func (f *fakeCompleter) Name() string { return "Fake" }

func (f *fakeCompleter) Complete(ctx context.Context, instruction, story string) (string, error) {
	f.gotInstruction = instruction
	f.gotStory = story
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.raw, f.err
}

func TestResolve_Found(t *testing.T) {
	fc := &fakeCompleter{raw: `{"text":"Luke 15:4-6"}`}
	r := NewResolver(fc, time.Second, zap.NewNop())

	outcome, err := r.Resolve(context.Background(), "a shepherd leaves 99 sheep")
	require.NoError(t, err)

	ref, ok := outcome.Reference()
	assert.True(t, ok)
	assert.Equal(t, "Luke 15:4-6", ref)
	assert.Equal(t, Instruction, fc.gotInstruction)
	assert.Equal(t, "a shepherd leaves 99 sheep", fc.gotStory)
}

func TestResolve_Failures(t *testing.T) {
	tests := []struct {
		name        string
		completer   *fakeCompleter
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "provider rate limit",
			completer:   &fakeCompleter{err: classifyStatus("Fake", http.StatusTooManyRequests, errors.New("quota"))},
			wantStatus:  http.StatusTooManyRequests,
			wantMessage: "Fake API rate limit exceeded. Please try again later.",
		},
		{
			name:        "timeout",
			completer:   &fakeCompleter{raw: `{"text":"Luke 15:4"}`, delay: time.Second},
			wantMessage: "Fake request timed out. Please try again.",
		},
		{
			name:        "connection",
			completer:   &fakeCompleter{err: errors.New("dial tcp: connection refused")},
			wantMessage: "Fake connection error: dial tcp: connection refused",
		},
		{
			name:        "unusable answer",
			completer:   &fakeCompleter{raw: `{"text":`},
			wantMessage: "Fake returned an unusable response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.completer, 50*time.Millisecond, zap.NewNop())

			_, err := r.Resolve(context.Background(), "story")
			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.wantStatus, genErr.Status)
			assert.Equal(t, tt.wantMessage, genErr.Message)
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, "P API key is invalid or expired"},
		{http.StatusForbidden, "P API key is invalid or expired"},
		{http.StatusTooManyRequests, "P API rate limit exceeded. Please try again later."},
		{http.StatusInternalServerError, "P API is currently experiencing issues. Please try again later."},
		{http.StatusServiceUnavailable, "P API is currently experiencing issues. Please try again later."},
		{http.StatusBadRequest, "P API error: 400"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyStatus("P", tt.status, nil).Message)
	}
}
