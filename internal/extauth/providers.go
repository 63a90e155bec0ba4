package extauth

import "context"

// Issuer URLs for the hosted providers the platform supports out of the box.
const (
	GoogleIssuer = "https://accounts.google.com"
	AppleIssuer  = "https://appleid.apple.com"
)

// NewGoogleVerifier returns a verifier for Google ID tokens issued to clientID.
func NewGoogleVerifier(ctx context.Context, clientID string) (*OIDCVerifier, error) {
	return NewOIDCVerifier(ctx, "google", GoogleIssuer, clientID)
}

// NewAppleVerifier returns a verifier for Apple ID tokens issued to clientID.
func NewAppleVerifier(ctx context.Context, clientID string) (*OIDCVerifier, error) {
	return NewOIDCVerifier(ctx, "apple", AppleIssuer, clientID)
}
