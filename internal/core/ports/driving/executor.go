package driving

import (
	"context"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
)

// ExecuteOptions holds per-call options for ScriptExecutor.Execute.
type ExecuteOptions struct {
	// ScriptID overrides the configured default script for one call.
	ScriptID string
}

// ExecuteOption configures a single Execute call.
type ExecuteOption func(*ExecuteOptions)

// WithScriptID targets a script other than the configured default.
func WithScriptID(id string) ExecuteOption {
	return func(o *ExecuteOptions) {
		o.ScriptID = id
	}
}

// ScriptExecutor is the single choke-point for remote function execution.
type ScriptExecutor interface {
	// Execute runs function with parameters in the target script.
	// An empty function name runs domain.DefaultFunction; nil parameters are
	// sent as an empty list. Failures return a nil result and a
	// *domain.ExecutionError.
	Execute(ctx context.Context, function string, parameters []any, opts ...ExecuteOption) (*domain.ExecutionResult, error)
}
