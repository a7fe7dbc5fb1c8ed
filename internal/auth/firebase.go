package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// idTokenVerifier is the part of the Firebase Admin auth client we use.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier verifies Firebase Authentication ID tokens for one
// project. Signature, audience, issuer and expiry checks and the rotation
// of Google's signing keys are done by the Admin SDK.
type FirebaseVerifier struct {
	tokens idTokenVerifier
}

// NewFirebaseVerifier creates a verifier for projectID. opts are passed to
// the Firebase app (credentials, HTTP client).
func NewFirebaseVerifier(ctx context.Context, projectID string, opts ...option.ClientOption) (*FirebaseVerifier, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}
	return &FirebaseVerifier{tokens: client}, nil
}

// Verify checks an ID token and returns the session of its user.
func (v *FirebaseVerifier) Verify(ctx context.Context, tokenString string) (Session, error) {
	token, err := v.tokens.VerifyIDToken(ctx, tokenString)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if token.UID == "" {
		return Session{}, fmt.Errorf("%w: missing subject claim", ErrUnauthenticated)
	}

	return Session{
		UserID:  token.UID,
		Email:   stringClaim(token.Claims, "email"),
		Name:    stringClaim(token.Claims, "name"),
		Picture: stringClaim(token.Claims, "picture"),
	}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
