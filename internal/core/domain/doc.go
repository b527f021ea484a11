// Package domain defines the core entities of the Apps Script connector.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Token: The OAuth2 token bundle persisted between runs
//   - Config: Construction-time configuration with named defaults
//   - ExecutionRequest / ExecutionResult: One remote function call
//   - ExecutionError: A failed call, tagged with its kind
//   - AuthState: The states of the authentication flow
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
