package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// naiveExpiryLayout matches expiries written without a zone, which older
// tooling emits in UTC.
const naiveExpiryLayout = "2006-01-02T15:04:05.999999999"

// authorizedUser is the on-disk token layout. refresh_token, client_id and
// client_secret are always written: Google's loaders reject a file
// missing any of them.
type authorizedUser struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	TokenURI     string   `json:"token_uri,omitempty"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes,omitempty"`
	Expiry       string   `json:"expiry,omitempty"`
	TokenType    string   `json:"token_type,omitempty"`
}

// TokenStore persists the token bundle in a single JSON file.
type TokenStore struct {
	mu   sync.Mutex
	path string
}

// NewTokenStore creates a store for path. If path is empty, defaults to
// domain.DefaultTokenFile in the working directory.
func NewTokenStore(path string) *TokenStore {
	if path == "" {
		path = domain.DefaultTokenFile
	}
	return &TokenStore{path: path}
}

// Location returns the token file path.
func (s *TokenStore) Location() string {
	return s.path
}

// Load reads the token file.
// Returns domain.ErrTokenNotFound if the file does not exist.
func (s *TokenStore) Load(_ context.Context) (*domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var raw authorizedUser
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", s.path, err)
	}

	expiry, err := parseExpiry(raw.Expiry)
	if err != nil {
		return nil, fmt.Errorf("parse token expiry %q: %w", raw.Expiry, err)
	}

	return &domain.Token{
		AccessToken:  raw.Token,
		RefreshToken: raw.RefreshToken,
		TokenType:    raw.TokenType,
		Expiry:       expiry,
		Scopes:       raw.Scopes,
		ClientID:     raw.ClientID,
		ClientSecret: raw.ClientSecret,
		TokenURI:     raw.TokenURI,
	}, nil
}

// Save writes the token file, creating its directory if needed.
func (s *TokenStore) Save(_ context.Context, token domain.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := authorizedUser{
		Token:        token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenURI:     token.TokenURI,
		ClientID:     token.ClientID,
		ClientSecret: token.ClientSecret,
		Scopes:       token.Scopes,
		TokenType:    token.TokenType,
	}
	if !token.Expiry.IsZero() {
		raw.Expiry = token.Expiry.UTC().Format(time.RFC3339Nano)
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create token directory: %w", err)
		}
	}

	// Write with restricted permissions
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return os.Chmod(s.path, 0600)
}

func parseExpiry(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(naiveExpiryLayout, s, time.UTC)
}
