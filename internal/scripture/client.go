// Package scripture resolves reference strings to verse text via bible-api.com.
package scripture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrLookup is returned for every failure to obtain verse text.
var ErrLookup = errors.New("scripture lookup failed")

// Config configures a Client.
type Config struct {
	BaseURL     string
	Translation string
	MaxWords    int
	Timeout     time.Duration

	// Limiter throttles outbound requests. bible-api.com allows 15 requests
	// per 30 seconds per client; nil uses that budget.
	Limiter *rate.Limiter

	HTTPClient *http.Client
}

// Client fetches verse text from a bible-api.com compatible service.
type Client struct {
	baseURL     string
	translation string
	maxWords    int
	timeout     time.Duration
	limiter     *rate.Limiter
	http        *http.Client
	log         *zap.Logger
}

type apiResponse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
	Error     string `json:"error"`
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(2*time.Second), 15)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		translation: cfg.Translation,
		maxWords:    cfg.MaxWords,
		timeout:     cfg.Timeout,
		limiter:     limiter,
		http:        httpClient,
		log:         log.Named("scripture"),
	}
}

// FetchText returns the verse text for reference, truncated to the
// configured word limit. Every failure wraps ErrLookup.
func (c *Client) FetchText(ctx context.Context, reference string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limit wait: %v", ErrLookup, err)
	}

	endpoint := c.baseURL + "/" + url.PathEscape(reference)
	if c.translation != "" {
		endpoint += "?translation=" + url.QueryEscape(c.translation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookup, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("lookup request failed",
			zap.String("reference", reference),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrLookup, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrLookup, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decoding body (status %d): %v", ErrLookup, resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := parsed.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrLookup, resp.StatusCode, msg)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrLookup, parsed.Error)
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return "", fmt.Errorf("%w: empty text for %q", ErrLookup, reference)
	}

	c.log.Debug("lookup completed",
		zap.String("reference", reference),
		zap.String("resolved", parsed.Reference),
		zap.Duration("latency", time.Since(start)))

	return Truncate(parsed.Text, c.maxWords), nil
}
