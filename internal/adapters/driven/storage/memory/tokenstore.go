// Package memory provides in-memory implementations of driven ports.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore keeps the token bundle for the lifetime of the process.
type TokenStore struct {
	mu    sync.RWMutex
	token *domain.Token
}

// NewTokenStore creates an empty in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Load returns a copy of the stored token.
// Returns domain.ErrTokenNotFound if nothing was saved yet.
func (s *TokenStore) Load(_ context.Context) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil, domain.ErrTokenNotFound
	}
	return clone(*s.token), nil
}

// Save replaces the stored token.
func (s *TokenStore) Save(_ context.Context, token domain.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = clone(token)
	return nil
}

// Location returns a placeholder, there is no file.
func (s *TokenStore) Location() string {
	return ":memory:"
}

func clone(t domain.Token) *domain.Token {
	t.Scopes = slices.Clone(t.Scopes)
	return &t
}
