package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driving"
	"github.com/custodia-labs/gdp-connector/internal/core/services"
)

type execCall struct {
	function string
	params   []any
}

// mockSession records Execute calls and answers from a queue of results.
type mockSession struct {
	calls    []execCall
	results  []*domain.ExecutionResult
	err      error
	state    domain.AuthState
	registry *services.Registry
	closed   bool
}

func (m *mockSession) Execute(
	_ context.Context,
	function string,
	params []any,
	_ ...driving.ExecuteOption,
) (*domain.ExecutionResult, error) {
	m.calls = append(m.calls, execCall{function: function, params: params})
	if m.err != nil {
		return nil, m.err
	}
	if len(m.results) == 0 {
		return &domain.ExecutionResult{Done: true}, nil
	}
	res := m.results[0]
	m.results = m.results[1:]
	return res, nil
}

func (m *mockSession) State() domain.AuthState {
	return m.state
}

func (m *mockSession) Services() *services.Registry {
	if m.registry == nil {
		return services.NewRegistry()
	}
	return m.registry
}

func (m *mockSession) Close() error {
	m.closed = true
	return nil
}

// mockClient is a registry entry without behaviour.
type mockClient struct {
	name domain.ServiceName
}

func (c *mockClient) Name() domain.ServiceName { return c.name }
func (c *mockClient) Version() string          { return domain.DefaultVersions[c.name] }

// setupTestSession makes every command use s and records the config it
// was opened with.
func setupTestSession(t *testing.T, s *mockSession) *domain.Config {
	t.Helper()

	var got domain.Config
	original := openSession
	openSession = func(_ context.Context, _ *cobra.Command, cfg domain.Config) (session, error) {
		got = cfg
		return s, nil
	}
	t.Cleanup(func() { openSession = original })
	return &got
}

// runCLI executes the root command with a config file in a temp dir and
// returns what was written to stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.toml")}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag in the tree to its default, since the
// command tree is package state shared by all tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
