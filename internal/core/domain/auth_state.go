package domain

// AuthState is a step of the authentication flow.
//
// A Connector starts in AuthStateUnknown, classifies the persisted token
// into one of the three middle states and ends in AuthStateReady.
type AuthState int

const (
	// AuthStateUnknown means no token has been inspected yet.
	AuthStateUnknown AuthState = iota
	// AuthStateCachedValid means the persisted token can be used as is.
	AuthStateCachedValid
	// AuthStateNeedsRefresh means the token expired but a refresh token exists.
	AuthStateNeedsRefresh
	// AuthStateNeedsGrant means the user must authorise the app interactively.
	AuthStateNeedsGrant
	// AuthStateReady means credentials are resolved and services are built.
	AuthStateReady
)

// String returns the state name.
func (s AuthState) String() string {
	switch s {
	case AuthStateUnknown:
		return "unknown"
	case AuthStateCachedValid:
		return "cached_valid"
	case AuthStateNeedsRefresh:
		return "needs_refresh"
	case AuthStateNeedsGrant:
		return "needs_grant"
	case AuthStateReady:
		return "ready"
	default:
		return "invalid"
	}
}

// ClassifyToken decides the first recovery step for a persisted token.
// Granted scopes are not considered: Google may grant fewer scopes than
// requested, and a valid token is always used as is.
func ClassifyToken(tok *Token) AuthState {
	if tok == nil {
		return AuthStateNeedsGrant
	}
	if tok.Valid() {
		return AuthStateCachedValid
	}
	if tok.HasRefreshToken() {
		return AuthStateNeedsRefresh
	}
	return AuthStateNeedsGrant
}
