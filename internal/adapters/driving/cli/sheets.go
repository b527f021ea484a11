package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driving"
	"github.com/custodia-labs/gdp-connector/internal/core/services"
)

// Flags for sheets subcommands.
var (
	sheetsJSON     bool
	sheetsStartRow int
	sheetsStartCol int
	sheetsEndRow   int
	sheetsEndCol   int
	sheetsFormat   string
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Read and write Google Sheets through the deployed script",
	Long: `Shortcuts for the Sheets functions of the deployed script.

Rows and columns are 1-based.

Examples:
  gdpconnector sheets list
  gdpconnector sheets names 1AbC...
  gdpconnector sheets read 1AbC... Sheet1 --start-row 2 --end-row 10 --end-col 3
  gdpconnector sheets write 1AbC... Sheet1 '[{"name":"Alice","age":30}]'
  gdpconnector sheets write 1AbC... Sheet1 '[["a","b"],["c","d"]]' --format array --start-row 5`,
}

var sheetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List spreadsheets visible to the account",
	Args:  cobra.NoArgs,
	RunE:  runSheetsList,
}

var sheetsNamesCmd = &cobra.Command{
	Use:   "names [spreadsheet-id]",
	Short: "List the sheet names of a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runSheetsNames,
}

var sheetsReadCmd = &cobra.Command{
	Use:   "read [spreadsheet-id] [sheet-name]",
	Short: "Read a range of a sheet",
	Args:  cobra.ExactArgs(2),
	RunE:  runSheetsRead,
}

var sheetsWriteCmd = &cobra.Command{
	Use:   "write [spreadsheet-id] [sheet-name] [data]",
	Short: `Write data into a sheet ("-" reads data from stdin)`,
	Args:  cobra.ExactArgs(3),
	RunE:  runSheetsWrite,
}

func init() {
	sheetsCmd.PersistentFlags().BoolVar(&sheetsJSON, "json", false, "output results as JSON")

	sheetsReadCmd.Flags().IntVar(&sheetsStartRow, "start-row", 1, "first row")
	sheetsReadCmd.Flags().IntVar(&sheetsStartCol, "start-col", 1, "first column")
	sheetsReadCmd.Flags().IntVar(&sheetsEndRow, "end-row", 0, "last row (0 = last row with data)")
	sheetsReadCmd.Flags().IntVar(&sheetsEndCol, "end-col", 0, "last column (0 = last column with data)")

	sheetsWriteCmd.Flags().IntVar(&sheetsStartRow, "start-row", 1, "first row")
	sheetsWriteCmd.Flags().IntVar(&sheetsStartCol, "start-col", 1, "first column")
	sheetsWriteCmd.Flags().StringVar(&sheetsFormat, "format", string(domain.DataFormatJSON), "data format (json, array)")

	sheetsCmd.AddCommand(sheetsListCmd)
	sheetsCmd.AddCommand(sheetsNamesCmd)
	sheetsCmd.AddCommand(sheetsReadCmd)
	sheetsCmd.AddCommand(sheetsWriteCmd)
	rootCmd.AddCommand(sheetsCmd)
}

func runSheetsList(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, s session) error {
		sheets, err := services.NewSheets(s).ListSpreadsheets(ctx)
		if err != nil {
			return err
		}
		if sheetsJSON {
			return printJSON(cmd, sheets)
		}
		if len(sheets) == 0 {
			cmd.Println("No spreadsheets found.")
			return nil
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"Name", "ID"})
		for _, sheet := range sheets {
			t.AppendRow(table.Row{sheet.Name, sheet.ID})
		}
		t.Render()
		return nil
	})
}

func runSheetsNames(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s session) error {
		names, err := services.NewSheets(s).GetSheetNames(ctx, args[0])
		if err != nil {
			return err
		}
		if sheetsJSON {
			return printJSON(cmd, names)
		}
		for _, name := range names {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	})
}

func runSheetsRead(cmd *cobra.Command, args []string) error {
	opts := []driving.ReadOption{driving.WithStart(sheetsStartRow, sheetsStartCol)}
	if sheetsEndRow > 0 {
		opts = append(opts, driving.WithEndRow(sheetsEndRow))
	}
	if sheetsEndCol > 0 {
		opts = append(opts, driving.WithEndCol(sheetsEndCol))
	}

	return withSession(cmd, func(ctx context.Context, s session) error {
		rows, err := services.NewSheets(s).ReadData(ctx, args[0], args[1], opts...)
		if err != nil {
			return err
		}
		if sheetsJSON {
			return printJSON(cmd, rows)
		}
		if len(rows) == 0 {
			cmd.Println("No data.")
			return nil
		}

		t := newTable(cmd)
		for _, row := range rows {
			cells := make(table.Row, len(row))
			for i, v := range row {
				cells[i] = cast.ToString(v)
			}
			t.AppendRow(cells)
		}
		t.Render()
		return nil
	})
}

func runSheetsWrite(cmd *cobra.Command, args []string) error {
	format := domain.DataFormat(sheetsFormat)
	data, err := readData(args[2], format, cmd.InOrStdin())
	if err != nil {
		return err
	}

	return withSession(cmd, func(ctx context.Context, s session) error {
		res, err := services.NewSheets(s).WriteData(ctx, args[0], args[1], data, sheetsStartRow, sheetsStartCol, format)
		if err != nil {
			return err
		}
		if sheetsJSON {
			return printJSON(cmd, res.Result)
		}
		if res.Result != nil {
			cmd.Println(cast.ToString(res.Result))
		} else {
			cmd.Println("Data written.")
		}
		return nil
	})
}

// readData returns the write payload. JSON data is passed through as a
// string for the script to parse; array data is decoded into rows.
func readData(arg string, format domain.DataFormat, stdin io.Reader) (any, error) {
	if arg == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read data: %w", err)
		}
		arg = string(b)
	}

	if format != domain.DataFormatArray {
		return arg, nil
	}

	var rows []any
	if err := json.Unmarshal([]byte(arg), &rows); err != nil {
		return nil, fmt.Errorf("array data must be a JSON list of rows: %w", err)
	}
	return rows, nil
}
