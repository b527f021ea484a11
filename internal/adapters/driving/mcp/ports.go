package mcp

import (
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Sheets wraps the remote Sheets functions.
	Sheets driving.SheetsService

	// Executor runs arbitrary script functions. Optional; the
	// execute_function tool is only offered when set.
	Executor driving.ScriptExecutor
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Sheets == nil {
		return ErrMissingSheetsService
	}
	return nil
}
