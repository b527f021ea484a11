package services

import (
	"context"
	"fmt"

	"github.com/spf13/cast"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driving"
)

// Ensure Sheets implements the interface.
var _ driving.SheetsService = (*Sheets)(nil)

// Sheets wraps the remote Sheets functions of the deployed script.
// Each method only builds the parameter list; validation is left to the
// remote side.
type Sheets struct {
	executor driving.ScriptExecutor
}

// NewSheets creates a Sheets helper that executes through executor.
func NewSheets(executor driving.ScriptExecutor) *Sheets {
	return &Sheets{executor: executor}
}

// WriteData writes data into sheetName starting at the 1-based cell
// (startRow, startCol). data is either a JSON string (DataFormatJSON) or a
// nested list of rows (DataFormatArray).
func (s *Sheets) WriteData(
	ctx context.Context,
	spreadsheetID, sheetName string,
	data any,
	startRow, startCol int,
	format domain.DataFormat,
) (*domain.ExecutionResult, error) {
	params := []any{spreadsheetID, sheetName, data, startRow, startCol, string(format)}
	return s.executor.Execute(ctx, domain.FunctionWriteData, params)
}

// WriteDataDefault writes JSON data starting at A1.
func (s *Sheets) WriteDataDefault(
	ctx context.Context,
	spreadsheetID, sheetName string,
	data any,
) (*domain.ExecutionResult, error) {
	return s.WriteData(ctx, spreadsheetID, sheetName, data, 1, 1, domain.DataFormatJSON)
}

// ListSpreadsheets returns the id and name of every spreadsheet visible to
// the authenticated account.
func (s *Sheets) ListSpreadsheets(ctx context.Context) ([]domain.Spreadsheet, error) {
	res, err := s.executor.Execute(ctx, domain.FunctionListGoogleSheets, []any{})
	if err != nil {
		return nil, err
	}

	items, err := resultSlice(res)
	if err != nil {
		return nil, unexpected(domain.FunctionListGoogleSheets, err)
	}

	sheets := make([]domain.Spreadsheet, 0, len(items))
	for _, item := range items {
		m, err := cast.ToStringMapE(item)
		if err != nil {
			return nil, unexpected(domain.FunctionListGoogleSheets, err)
		}
		sheets = append(sheets, domain.Spreadsheet{
			ID:   cast.ToString(m["id"]),
			Name: cast.ToString(m["name"]),
		})
	}
	return sheets, nil
}

// GetSheetNames returns the sheet names of a spreadsheet.
func (s *Sheets) GetSheetNames(ctx context.Context, spreadsheetID string) ([]string, error) {
	res, err := s.executor.Execute(ctx, domain.FunctionGetSheetNames, []any{spreadsheetID})
	if err != nil {
		return nil, err
	}

	items, err := resultSlice(res)
	if err != nil {
		return nil, unexpected(domain.FunctionGetSheetNames, err)
	}
	names, err := cast.ToStringSliceE(items)
	if err != nil {
		return nil, unexpected(domain.FunctionGetSheetNames, err)
	}
	return names, nil
}

// ReadData reads a range of sheetName as rows of cell values. The range
// starts at A1 and is open-ended unless WithStart/WithEndRow/WithEndCol say otherwise;
// how an open end is resolved is up to the remote function.
func (s *Sheets) ReadData(
	ctx context.Context,
	spreadsheetID, sheetName string,
	opts ...driving.ReadOption,
) ([][]any, error) {
	o := driving.ReadOptions{StartRow: 1, StartCol: 1}
	for _, opt := range opts {
		opt(&o)
	}

	var endRow, endCol any
	if o.EndRow != nil {
		endRow = *o.EndRow
	}
	if o.EndCol != nil {
		endCol = *o.EndCol
	}

	params := []any{spreadsheetID, sheetName, o.StartRow, o.StartCol, endRow, endCol}
	res, err := s.executor.Execute(ctx, domain.FunctionReadData, params)
	if err != nil {
		return nil, err
	}

	items, err := resultSlice(res)
	if err != nil {
		return nil, unexpected(domain.FunctionReadData, err)
	}

	rows := make([][]any, 0, len(items))
	for i, item := range items {
		row, err := cast.ToSliceE(item)
		if err != nil {
			return nil, unexpected(domain.FunctionReadData, fmt.Errorf("row %d: %w", i+1, err))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// resultSlice returns the script result as a list. A function that
// returned nothing yields an empty list.
func resultSlice(res *domain.ExecutionResult) ([]any, error) {
	if res == nil || res.Result == nil {
		return []any{}, nil
	}
	return cast.ToSliceE(res.Result)
}

func unexpected(function string, err error) *domain.ExecutionError {
	return &domain.ExecutionError{
		Kind:     domain.ErrorKindUnexpectedResult,
		Function: function,
		Err:      err,
	}
}
