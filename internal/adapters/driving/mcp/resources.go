package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for connector resources.
	uriScheme = "gdp://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing spreadsheets.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "spreadsheets",
		Name:        "spreadsheets",
		Description: "Spreadsheets visible to the authenticated account",
		MIMEType:    "application/json",
	}, s.handleSpreadsheetsResource)

	// Template for the sheet names of a spreadsheet.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "spreadsheets/{spreadsheetId}/sheets",
		Name:        "spreadsheet-sheets",
		Description: "Sheet names of a specific spreadsheet",
		MIMEType:    "application/json",
	}, s.handleSheetNamesResource)
}

// handleSpreadsheetsResource returns the list of spreadsheets.
func (s *Server) handleSpreadsheetsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sheets, err := s.ports.Sheets.ListSpreadsheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing spreadsheets: %w", err)
	}

	infos := make([]SpreadsheetOutput, len(sheets))
	for i, sheet := range sheets {
		infos[i] = SpreadsheetOutput{ID: sheet.ID, Name: sheet.Name}
	}

	return jsonResource(req.Params.URI, infos)
}

// handleSheetNamesResource returns the sheet names of one spreadsheet.
func (s *Server) handleSheetNamesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract spreadsheetId from URI: gdp://spreadsheets/{spreadsheetId}/sheets
	spreadsheetID := extractSpreadsheetID(req.Params.URI)
	if spreadsheetID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	names, err := s.ports.Sheets.GetSheetNames(ctx, spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("getting sheet names: %w", err)
	}
	if names == nil {
		names = []string{}
	}

	return jsonResource(req.Params.URI, names)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSpreadsheetID extracts the spreadsheet ID from a URI like
// gdp://spreadsheets/{spreadsheetId}/sheets.
func extractSpreadsheetID(uri string) string {
	const prefix = uriScheme + "spreadsheets/"
	const suffix = "/sheets"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
