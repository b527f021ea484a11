package driven

import (
	"context"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
)

// ServiceClient is an initialised handle to one Google API surface.
type ServiceClient interface {
	// Name returns the service identifier the client was built for.
	Name() domain.ServiceName

	// Version returns the API version the client speaks.
	Version() string
}

// ScriptRunner runs functions of a deployed Apps Script project.
// The client registered under domain.ServiceScript implements it.
type ScriptRunner interface {
	ServiceClient

	// Run executes req in the script identified by scriptID.
	// A script that reports an error yields a *domain.ExecutionError of kind
	// ErrorKindScript; any other failure yields kind ErrorKindTransport.
	Run(ctx context.Context, scriptID string, req domain.ExecutionRequest) (*domain.ExecutionResult, error)
}

// ServiceFactory builds service clients bound to a token provider.
type ServiceFactory interface {
	// NewClient builds the client for one service at the given API version.
	// Returns domain.ErrUnknownService for services it cannot build.
	NewClient(
		ctx context.Context,
		name domain.ServiceName,
		version string,
		tokens TokenProvider,
	) (ServiceClient, error)
}
