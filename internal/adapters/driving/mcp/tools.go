package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driving"
)

// ListSpreadsheetsInput is the input schema for the list_spreadsheets tool.
type ListSpreadsheetsInput struct{}

// ListSpreadsheetsOutput is the output schema for the list_spreadsheets tool.
type ListSpreadsheetsOutput struct {
	Spreadsheets []SpreadsheetOutput `json:"spreadsheets"`
	Count        int                 `json:"count"`
}

// SpreadsheetOutput represents a single spreadsheet.
type SpreadsheetOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetSheetNamesInput is the input schema for the get_sheet_names tool.
type GetSheetNamesInput struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"the ID of the spreadsheet"`
}

// GetSheetNamesOutput is the output schema for the get_sheet_names tool.
type GetSheetNamesOutput struct {
	SheetNames []string `json:"sheet_names"`
	Count      int      `json:"count"`
}

// ReadSheetDataInput is the input schema for the read_sheet_data tool.
type ReadSheetDataInput struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"the ID of the spreadsheet"`
	SheetName     string `json:"sheet_name" jsonschema:"the name of the sheet to read"`
	StartRow      int    `json:"start_row,omitempty" jsonschema:"first row to read, 1-based (default 1)"`
	StartCol      int    `json:"start_col,omitempty" jsonschema:"first column to read, 1-based (default 1)"`
	EndRow        int    `json:"end_row,omitempty" jsonschema:"last row to read (default: last row with data)"`
	EndCol        int    `json:"end_col,omitempty" jsonschema:"last column to read (default: last column with data)"`
}

// ReadSheetDataOutput is the output schema for the read_sheet_data tool.
type ReadSheetDataOutput struct {
	Rows     [][]any `json:"rows"`
	RowCount int     `json:"row_count"`
}

// WriteSheetDataInput is the input schema for the write_sheet_data tool.
type WriteSheetDataInput struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"the ID of the spreadsheet"`
	SheetName     string `json:"sheet_name" jsonschema:"the name of the sheet to write"`
	Data          any    `json:"data" jsonschema:"a JSON string of row objects (format json) or a list of rows (format array)"`
	StartRow      int    `json:"start_row,omitempty" jsonschema:"first row to write, 1-based (default 1)"`
	StartCol      int    `json:"start_col,omitempty" jsonschema:"first column to write, 1-based (default 1)"`
	Format        string `json:"format,omitempty" jsonschema:"json or array (default json)"`
}

// ExecutionOutput is the output schema of tools that return a raw script result.
type ExecutionOutput struct {
	Done   bool `json:"done"`
	Result any  `json:"result,omitempty"`
}

// ExecuteFunctionInput is the input schema for the execute_function tool.
type ExecuteFunctionInput struct {
	Function   string `json:"function" jsonschema:"the name of the Apps Script function to run"`
	Parameters []any  `json:"parameters,omitempty" jsonschema:"positional parameters passed to the function"`
	ScriptID   string `json:"script_id,omitempty" jsonschema:"target script ID (default: the configured script)"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_spreadsheets",
		Description: "List the Google Sheets spreadsheets visible to the authenticated account",
	}, s.handleListSpreadsheets)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_sheet_names",
		Description: "List the sheet (tab) names of a spreadsheet",
	}, s.handleGetSheetNames)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_sheet_data",
		Description: "Read a range of cells from a sheet as rows of values",
	}, s.handleReadSheetData)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "write_sheet_data",
		Description: "Write rows of data into a sheet starting at a given cell",
	}, s.handleWriteSheetData)

	if s.ports.Executor != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "execute_function",
			Description: "Run a function of the deployed Apps Script project",
		}, s.handleExecuteFunction)
	}
}

// handleListSpreadsheets handles the list_spreadsheets tool invocation.
func (s *Server) handleListSpreadsheets(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListSpreadsheetsInput,
) (*mcp.CallToolResult, ListSpreadsheetsOutput, error) {
	sheets, err := s.ports.Sheets.ListSpreadsheets(ctx)
	if err != nil {
		return nil, ListSpreadsheetsOutput{}, err
	}

	output := ListSpreadsheetsOutput{
		Spreadsheets: make([]SpreadsheetOutput, len(sheets)),
		Count:        len(sheets),
	}
	for i, sheet := range sheets {
		output.Spreadsheets[i] = SpreadsheetOutput{ID: sheet.ID, Name: sheet.Name}
	}
	return nil, output, nil
}

// handleGetSheetNames handles the get_sheet_names tool invocation.
func (s *Server) handleGetSheetNames(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetSheetNamesInput,
) (*mcp.CallToolResult, GetSheetNamesOutput, error) {
	names, err := s.ports.Sheets.GetSheetNames(ctx, input.SpreadsheetID)
	if err != nil {
		return nil, GetSheetNamesOutput{}, err
	}
	if names == nil {
		names = []string{}
	}
	return nil, GetSheetNamesOutput{SheetNames: names, Count: len(names)}, nil
}

// handleReadSheetData handles the read_sheet_data tool invocation.
// Zero bounds fall back to the helper's defaults.
func (s *Server) handleReadSheetData(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReadSheetDataInput,
) (*mcp.CallToolResult, ReadSheetDataOutput, error) {
	var opts []driving.ReadOption
	if input.StartRow > 0 || input.StartCol > 0 {
		opts = append(opts, driving.WithStart(max(input.StartRow, 1), max(input.StartCol, 1)))
	}
	if input.EndRow > 0 {
		opts = append(opts, driving.WithEndRow(input.EndRow))
	}
	if input.EndCol > 0 {
		opts = append(opts, driving.WithEndCol(input.EndCol))
	}

	rows, err := s.ports.Sheets.ReadData(ctx, input.SpreadsheetID, input.SheetName, opts...)
	if err != nil {
		return nil, ReadSheetDataOutput{}, err
	}
	if rows == nil {
		rows = [][]any{}
	}
	return nil, ReadSheetDataOutput{Rows: rows, RowCount: len(rows)}, nil
}

// handleWriteSheetData handles the write_sheet_data tool invocation.
func (s *Server) handleWriteSheetData(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input WriteSheetDataInput,
) (*mcp.CallToolResult, ExecutionOutput, error) {
	format := domain.DataFormat(input.Format)
	if format == "" {
		format = domain.DataFormatJSON
	}

	res, err := s.ports.Sheets.WriteData(ctx,
		input.SpreadsheetID, input.SheetName, input.Data,
		max(input.StartRow, 1), max(input.StartCol, 1), format)
	if err != nil {
		return nil, ExecutionOutput{}, err
	}
	return nil, toExecutionOutput(res), nil
}

// handleExecuteFunction handles the execute_function tool invocation.
func (s *Server) handleExecuteFunction(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExecuteFunctionInput,
) (*mcp.CallToolResult, ExecutionOutput, error) {
	var opts []driving.ExecuteOption
	if input.ScriptID != "" {
		opts = append(opts, driving.WithScriptID(input.ScriptID))
	}

	res, err := s.ports.Executor.Execute(ctx, input.Function, input.Parameters, opts...)
	if err != nil {
		return nil, ExecutionOutput{}, err
	}
	return nil, toExecutionOutput(res), nil
}

func toExecutionOutput(res *domain.ExecutionResult) ExecutionOutput {
	if res == nil {
		return ExecutionOutput{}
	}
	return ExecutionOutput{Done: res.Done, Result: res.Result}
}
