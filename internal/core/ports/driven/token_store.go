package driven

import (
	"context"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
)

// TokenStore persists the token bundle between runs.
type TokenStore interface {
	// Load reads the persisted token.
	// Returns domain.ErrTokenNotFound if nothing has been persisted.
	Load(ctx context.Context) (*domain.Token, error)

	// Save persists the token, replacing any previous one.
	Save(ctx context.Context, token domain.Token) error

	// Location describes where tokens are persisted, for log messages.
	Location() string
}
