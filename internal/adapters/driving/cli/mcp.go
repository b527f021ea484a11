package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gdp-connector/internal/adapters/driving/mcp"
	"github.com/custodia-labs/gdp-connector/internal/core/services"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can read and
write Google Sheets through the deployed script.

Authentication happens before the server starts, so run
"gdpconnector auth login" once from a terminal first.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  gdpconnector mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  gdpconnector mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "gdpconnector": {
        "command": "/path/to/gdpconnector",
        "args": ["mcp", "serve", "--script-id", "AKfycb..."]
      }
    }
  }`,
	RunE: runMCPServe,
}

// runMCPServer serves until ctx is done. Tests replace it to avoid
// blocking on stdio.
var runMCPServer = func(ctx context.Context, server *mcp.Server, port int) error {
	if port > 0 {
		return server.RunHTTP(ctx, fmt.Sprintf(":%d", port))
	}
	return server.Run(ctx)
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	return withSession(cmd, func(ctx context.Context, s session) error {
		server, err := mcp.NewServer(&mcp.Ports{
			Sheets:   services.NewSheets(s),
			Executor: s,
		})
		if err != nil {
			return err
		}

		if port > 0 {
			cmd.PrintErrf("MCP server listening on http://localhost:%d\n", port)
		}
		return runMCPServer(ctx, server, port)
	})
}
