package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	oauthflow "github.com/custodia-labs/gdp-connector/internal/adapters/driven/oauth"
	"github.com/custodia-labs/gdp-connector/internal/adapters/driven/storage/memory"
	tokenfile "github.com/custodia-labs/gdp-connector/internal/adapters/driven/token/file"
	callback "github.com/custodia-labs/gdp-connector/internal/adapters/driving/oauth"
	"github.com/custodia-labs/gdp-connector/internal/connectors/google"
	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driven"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driving"
	"github.com/custodia-labs/gdp-connector/internal/core/services"
)

// session is an authenticated connector as seen by the commands.
type session interface {
	driving.ScriptExecutor
	State() domain.AuthState
	Services() *services.Registry
	Close() error
}

// openSession builds and authenticates a connector. Tests replace it.
var openSession = defaultOpenSession

func defaultOpenSession(ctx context.Context, cmd *cobra.Command, cfg domain.Config) (session, error) {
	opts := []oauthflow.Option{
		oauthflow.WithTimeout(cfg.CallbackTimeout),
		oauthflow.WithOutput(cmd.ErrOrStderr()),
		oauthflow.WithListener(func(state string) (oauthflow.Receiver, error) {
			srv := callback.NewCallbackServer(0, state)
			if err := srv.Start(); err != nil {
				return nil, err
			}
			return srv, nil
		}),
	}
	// Only pop a browser for someone sitting at a terminal
	if term.IsTerminal(int(os.Stdin.Fd())) {
		opts = append(opts, oauthflow.WithBrowser(callback.OpenBrowser))
	}

	conn, err := services.NewConnector(
		cfg,
		newTokenStore(cfg),
		oauthflow.NewInstalledAppFlow(cfg.CredentialsFile, opts...),
		google.NewFactory(google.WithRateLimit(cfg.RateLimit)),
	)
	if err != nil {
		return nil, err
	}
	if err := conn.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	return conn, nil
}

func newTokenStore(cfg domain.Config) driven.TokenStore {
	if ephemeral {
		return memory.NewTokenStore()
	}
	return tokenfile.NewTokenStore(cfg.TokenFile)
}

// withSession loads the config, opens a session and runs fn with it.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s session) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := openSession(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck

	return fn(ctx, s)
}

// newTable creates a borderless table writing to the command's output.
func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.Style{
		Box: table.BoxStyle{
			PaddingLeft:  " ",
			PaddingRight: " ",
		},
		Format: table.FormatOptions{
			Footer: text.FormatUpper,
			Header: text.FormatUpper,
			Row:    text.FormatDefault,
		},
		Options: table.Options{
			DrawBorder:      false,
			SeparateColumns: false,
			SeparateFooter:  false,
			SeparateHeader:  false,
			SeparateRows:    false,
		},
	})
	t.SetOutputMirror(cmd.OutOrStdout())
	return t
}
