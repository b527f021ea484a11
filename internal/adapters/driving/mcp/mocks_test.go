package mcp

import (
	"context"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driving"
)

// mockSheetsService is a mock implementation of driving.SheetsService.
type mockSheetsService struct {
	spreadsheets []domain.Spreadsheet
	names        []string
	rows         [][]any
	result       *domain.ExecutionResult
	err          error

	// Recorded arguments
	spreadsheetID string
	sheetName     string
	data          any
	startRow      int
	startCol      int
	format        domain.DataFormat
	readOpts      driving.ReadOptions
}

func (m *mockSheetsService) WriteData(
	_ context.Context,
	spreadsheetID, sheetName string,
	data any,
	startRow, startCol int,
	format domain.DataFormat,
) (*domain.ExecutionResult, error) {
	m.spreadsheetID = spreadsheetID
	m.sheetName = sheetName
	m.data = data
	m.startRow = startRow
	m.startCol = startCol
	m.format = format
	return m.result, m.err
}

func (m *mockSheetsService) ListSpreadsheets(_ context.Context) ([]domain.Spreadsheet, error) {
	return m.spreadsheets, m.err
}

func (m *mockSheetsService) GetSheetNames(_ context.Context, spreadsheetID string) ([]string, error) {
	m.spreadsheetID = spreadsheetID
	return m.names, m.err
}

func (m *mockSheetsService) ReadData(
	_ context.Context,
	spreadsheetID, sheetName string,
	opts ...driving.ReadOption,
) ([][]any, error) {
	m.spreadsheetID = spreadsheetID
	m.sheetName = sheetName
	m.readOpts = driving.ReadOptions{StartRow: 1, StartCol: 1}
	for _, opt := range opts {
		opt(&m.readOpts)
	}
	return m.rows, m.err
}

// mockExecutor is a mock implementation of driving.ScriptExecutor.
type mockExecutor struct {
	result *domain.ExecutionResult
	err    error

	function   string
	parameters []any
	options    driving.ExecuteOptions
}

func (m *mockExecutor) Execute(
	_ context.Context,
	function string,
	parameters []any,
	opts ...driving.ExecuteOption,
) (*domain.ExecutionResult, error) {
	m.function = function
	m.parameters = parameters
	m.options = driving.ExecuteOptions{}
	for _, opt := range opts {
		opt(&m.options)
	}
	return m.result, m.err
}
