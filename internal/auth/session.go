// Package auth verifies bearer identity tokens and turns them into sessions.
package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrMissingToken means the request carried no bearer token at all.
	ErrMissingToken = errors.New("no authentication token provided")
	// ErrUnauthenticated means a token was present but not accepted.
	ErrUnauthenticated = errors.New("authentication failed")
)

// Session is the signed-in user a request acts for. It is created from a
// verified token at the start of each request and passed explicitly to
// the code that needs it.
type Session struct {
	UserID  string
	Email   string
	Name    string
	Picture string
}

// Verifier validates a bearer token and returns the session it identifies.
type Verifier interface {
	Verify(ctx context.Context, token string) (Session, error)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" || header == "Bearer" {
		return "", ErrMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" {
		return "", ErrUnauthenticated
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
