package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
)

// GeminiCompleter runs completions against the Gemini API.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiCompleter initializes the Gemini client.
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiCompleter{client: client, model: model}, nil
}

func (g *GeminiCompleter) Name() string { return "Gemini" }

func (g *GeminiCompleter) Close() error { return g.client.Close() }

// Complete sends story with the system instruction and returns the raw
// JSON text of the first candidate.
func (g *GeminiCompleter) Complete(ctx context.Context, instruction, story string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(instruction)},
	}
	model.SetMaxOutputTokens(maxOutputTokens)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"text": {
				Type:        genai.TypeString,
				Description: `A Bible reference such as "Luke 15:4-6", or "not found".`,
			},
		},
		Required: []string{"text"},
	}

	res, err := model.GenerateContent(ctx, genai.Text(story))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", nil
	}
	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// classifyGeminiError maps Gemini API failures onto provider status codes.
// Errors that carry no status (transport failures, timeouts) are returned
// unchanged for the resolver to classify.
func classifyGeminiError(err error) error {
	var status int

	var apiErr *apierror.APIError
	var gErr *googleapi.Error
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPCode()
		if status <= 0 {
			status = grpcToHTTP(apiErr.GRPCStatus().Code())
		}
	case errors.As(err, &gErr):
		status = gErr.Code
	}

	if status <= 0 {
		return err
	}
	return classifyStatus("Gemini", status, err)
}

func grpcToHTTP(code codes.Code) int {
	switch code {
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.InvalidArgument, codes.FailedPrecondition:
		return http.StatusBadRequest
	case codes.Internal, codes.Unknown, codes.Unavailable, codes.DataLoss:
		return http.StatusInternalServerError
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return 0
	}
}
