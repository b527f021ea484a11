package driven

import (
	"context"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
)

// TokenProvider provides access tokens for authenticated API calls.
// Implementations handle token refresh transparently.
//
// Service clients hold a TokenProvider rather than a fixed token, so a
// long-lived session keeps working after the access token expires.
type TokenProvider interface {
	// GetToken returns a copy of a valid token.
	// If the current token is expired, it will be refreshed automatically.
	GetToken(ctx context.Context) (domain.Token, error)
}
