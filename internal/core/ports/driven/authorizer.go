package driven

import (
	"context"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
)

// Authorizer obtains tokens from the OAuth provider.
type Authorizer interface {
	// Refresh exchanges the token's refresh token for a new access token.
	// The returned token only carries what the provider sent back; callers
	// merge it into the existing token.
	Refresh(ctx context.Context, token domain.Token) (*domain.Token, error)

	// Grant runs the interactive authorisation flow for the given scopes.
	// It blocks until the user completes or abandons the flow.
	Grant(ctx context.Context, scopes []string) (*domain.Token, error)
}
