package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims is the payload of the HS256 tokens issued by HMACVerifier.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// HMACVerifier issues and verifies HS256 tokens signed with a shared secret.
// It stands in for the identity provider in local development and tests.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// GenerateToken creates a signed token for session that expires after ttl.
func (v *HMACVerifier) GenerateToken(session Session, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:   session.Email,
		Name:    session.Name,
		Picture: session.Picture,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// Verify parses and validates tokenString and returns its session.
func (v *HMACVerifier) Verify(_ context.Context, tokenString string) (Session, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	if claims.Subject == "" {
		return Session{}, fmt.Errorf("%w: missing subject claim", ErrUnauthenticated)
	}

	return Session{
		UserID:  claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
