package domain

import "errors"

// Domain errors represent connector failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidConfig indicates the configuration cannot produce a session.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownService indicates a service name with no known client.
	ErrUnknownService = errors.New("unknown service")

	// ErrTokenNotFound indicates no token has been persisted yet.
	ErrTokenNotFound = errors.New("token not found")

	// ErrNoRefreshToken indicates a refresh was attempted without a refresh token.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrTokenRefreshFailed indicates the token refresh operation failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// ErrGrantFailed indicates the interactive authorisation did not complete.
	ErrGrantFailed = errors.New("authorisation grant failed")

	// ErrConnectorClosed indicates the connector has been closed.
	ErrConnectorClosed = errors.New("connector closed")

	// Execution errors. ExecutionError matches exactly one of these
	// through errors.Is, depending on its Kind.

	// ErrScriptFailed indicates the script ran and reported an error.
	ErrScriptFailed = errors.New("script execution failed")

	// ErrTransport indicates the request did not get a usable response.
	ErrTransport = errors.New("script request failed")

	// ErrNotAuthenticated indicates Execute was called before Authenticate.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidRequest indicates the request could not be built.
	ErrInvalidRequest = errors.New("invalid execution request")

	// ErrUnexpectedResult indicates the script result has an unexpected shape.
	ErrUnexpectedResult = errors.New("unexpected script result")
)
