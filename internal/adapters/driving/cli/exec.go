package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var execRaw bool

var execCmd = &cobra.Command{
	Use:   "exec [function] [parameters]",
	Short: "Run a function of the deployed script",
	Long: `Run a function of the deployed Apps Script project and print its result
as JSON.

The function defaults to inputReceiver. Parameters are a JSON array passed
positionally; use "-" to read them from stdin.

Examples:
  gdpconnector exec
  gdpconnector exec getSheetNames '["1AbC..."]'
  echo '["1AbC...", "Sheet1", 1, 1, null, null]' | gdpconnector exec readData -
  gdpconnector exec myFunction '[]' --script-id AKfycb...`,
	Args: cobra.MaximumNArgs(2),
	RunE: runExec,
}

func init() {
	execCmd.Flags().BoolVar(&execRaw, "raw", false, "print the complete response object")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	var function string
	if len(args) > 0 {
		function = args[0]
	}

	var params []any
	if len(args) > 1 {
		p, err := parseParams(args[1], cmd.InOrStdin())
		if err != nil {
			return err
		}
		params = p
	}

	return withSession(cmd, func(ctx context.Context, s session) error {
		res, err := s.Execute(ctx, function, params)
		if err != nil {
			return err
		}

		if execRaw {
			return printJSON(cmd, res.Raw)
		}
		return printJSON(cmd, res.Result)
	})
}

// parseParams decodes a JSON array argument, or stdin when arg is "-".
func parseParams(arg string, stdin io.Reader) ([]any, error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read parameters: %w", err)
		}
		arg = string(data)
	}

	var params []any
	if err := json.Unmarshal([]byte(strings.TrimSpace(arg)), &params); err != nil {
		return nil, fmt.Errorf("parameters must be a JSON array: %w", err)
	}
	return params, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
