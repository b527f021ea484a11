// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// connector. It lets AI assistants read and write Google Sheets and call
// functions of the deployed Apps Script project.
package mcp

import "errors"

// ErrMissingSheetsService is returned when the sheets service is not provided.
var ErrMissingSheetsService = errors.New("mcp: sheets service is required")
