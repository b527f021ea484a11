package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/gdp-connector/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

const sheetsInstructions = `Reads and writes Google Sheets through a deployed Apps Script project.
Call list_spreadsheets to find a spreadsheet ID, then get_sheet_names for its tabs.
Rows and columns are 1-based. read_sheet_data leaves an end bound open when it is omitted.
write_sheet_data takes a JSON string (format "json") or a list of rows (format "array").`

const executeInstructions = `
execute_function runs any function of the script by name with positional parameters.`

// instructions describes the tools offered for ports.
func instructions(ports *Ports) string {
	if ports.Executor != nil {
		return sheetsInstructions + executeInstructions
	}
	return sheetsInstructions
}

// Server is the MCP server for the connector.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "gdpconnector",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{
			Instructions: instructions(ports),
		}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("Serving MCP over stdio (script functions: %t)", s.ports.Executor != nil)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Serving MCP over HTTP on %s (script functions: %t)", addr, s.ports.Executor != nil)

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
