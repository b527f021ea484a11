package driving

import (
	"context"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
)

// ReadOptions bounds the range read by SheetsService.ReadData.
// Rows and columns are 1-based; a nil end leaves the range open.
type ReadOptions struct {
	StartRow int
	StartCol int
	EndRow   *int
	EndCol   *int
}

// ReadOption configures a ReadData call.
type ReadOption func(*ReadOptions)

// WithStart sets the first row and column to read.
func WithStart(row, col int) ReadOption {
	return func(o *ReadOptions) {
		o.StartRow = row
		o.StartCol = col
	}
}

// WithEnd sets the last row and column to read.
func WithEnd(row, col int) ReadOption {
	return func(o *ReadOptions) {
		WithEndRow(row)(o)
		WithEndCol(col)(o)
	}
}

// WithEndRow sets the last row to read. The end column is left as is.
func WithEndRow(row int) ReadOption {
	return func(o *ReadOptions) {
		o.EndRow = &row
	}
}

// WithEndCol sets the last column to read. The end row is left as is.
func WithEndCol(col int) ReadOption {
	return func(o *ReadOptions) {
		o.EndCol = &col
	}
}

// SheetsService provides shortcuts for the remote Sheets functions.
type SheetsService interface {
	// WriteData writes data into a sheet starting at the given 1-based cell.
	// format tells the remote side how to interpret data.
	WriteData(
		ctx context.Context,
		spreadsheetID, sheetName string,
		data any,
		startRow, startCol int,
		format domain.DataFormat,
	) (*domain.ExecutionResult, error)

	// ListSpreadsheets lists every spreadsheet visible to the account.
	ListSpreadsheets(ctx context.Context) ([]domain.Spreadsheet, error)

	// GetSheetNames lists the sheet names of a spreadsheet.
	GetSheetNames(ctx context.Context, spreadsheetID string) ([]string, error)

	// ReadData reads a range of cells as rows of values.
	ReadData(ctx context.Context, spreadsheetID, sheetName string, opts ...ReadOption) ([][]any, error)
}
