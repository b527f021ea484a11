package domain

import (
	"slices"
	"time"
)

// expiryDelta is how early a token is treated as expired, so a request
// issued just before expiry does not race the server clock.
const expiryDelta = 10 * time.Second

// Token is the OAuth2 token bundle owned by a Connector.
//
// The client fields mirror the "authorized user" token files written by
// Google's own tooling, so a token file produced elsewhere can be reused.
type Token struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type,omitempty"`
	// Expiry is when the access token expires. Zero means unknown.
	Expiry time.Time `json:"expiry,omitempty"`
	// Scopes are the scopes granted to this token.
	Scopes []string `json:"scopes,omitempty"`

	// ClientID is the OAuth client the token was issued to.
	ClientID string `json:"client_id,omitempty"`
	// ClientSecret is the secret of that client.
	ClientSecret string `json:"client_secret,omitempty"`
	// TokenURI is the endpoint used to refresh the token.
	TokenURI string `json:"token_uri,omitempty"`
}

// Expired returns true if the access token has an expiry that has passed.
// A zero expiry is never expired.
func (t *Token) Expired() bool {
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().Add(expiryDelta).After(t.Expiry)
}

// Valid returns true if the token carries an access token that has not expired.
func (t *Token) Valid() bool {
	return t != nil && t.AccessToken != "" && !t.Expired()
}

// HasRefreshToken returns true if a refresh token is available.
func (t *Token) HasRefreshToken() bool {
	return t != nil && t.RefreshToken != ""
}

// CoversScopes reports whether every scope in want was granted.
// A token that does not record its scopes is assumed to cover them.
func (t *Token) CoversScopes(want []string) bool {
	if len(t.Scopes) == 0 {
		return true
	}
	for _, s := range want {
		if !slices.Contains(t.Scopes, s) {
			return false
		}
	}
	return true
}

// Merge applies a refreshed token on top of t. Fields the refresh response
// leaves empty, such as the refresh token itself, keep their current value.
func (t *Token) Merge(refreshed Token) {
	t.AccessToken = refreshed.AccessToken
	if refreshed.RefreshToken != "" {
		t.RefreshToken = refreshed.RefreshToken
	}
	if refreshed.TokenType != "" {
		t.TokenType = refreshed.TokenType
	}
	t.Expiry = refreshed.Expiry
	if len(refreshed.Scopes) > 0 {
		t.Scopes = refreshed.Scopes
	}
}
