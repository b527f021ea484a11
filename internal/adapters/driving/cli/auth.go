package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	tokenfile "github.com/custodia-labs/gdp-connector/internal/adapters/driven/token/file"
	"github.com/custodia-labs/gdp-connector/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Google authentication",
	Long: `Authenticate with Google and inspect the cached token.

The OAuth client is read from the credentials file downloaded from the
Google Cloud console (Desktop app type). The resulting token is cached in
the token file and refreshed automatically.

Examples:
  # Sign in (opens a browser when run from a terminal)
  gdpconnector auth login

  # Use a different client and token cache
  gdpconnector auth login --credentials ./client.json --token ./token.json

  # Show the cached token without contacting Google
  gdpconnector auth status`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and cache the token",
	RunE:  runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the cached token state",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(_ context.Context, s session) error {
		cmd.Printf("Authenticated (%s)\n", s.State())
		cmd.Printf("Services: %s\n", joinNames(s.Services().Names()))
		return nil
	})
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store := tokenfile.NewTokenStore(cfg.TokenFile)
	tok, err := store.Load(cmd.Context())
	if errors.Is(err, domain.ErrTokenNotFound) {
		cmd.Printf("No token at %s. Run 'gdpconnector auth login'.\n", store.Location())
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	state := domain.ClassifyToken(tok)

	t := newTable(cmd)
	t.AppendRow([]any{"Token file", store.Location()})
	t.AppendRow([]any{"State", state})
	t.AppendRow([]any{"Expiry", formatExpiry(tok.Expiry)})
	t.AppendRow([]any{"Refresh token", tok.HasRefreshToken()})
	t.AppendRow([]any{"Scopes", strings.Join(tok.Scopes, "\n")})
	t.Render()

	if missing := missingScopes(tok, cfg.Scopes); len(missing) > 0 {
		cmd.Printf("\nMissing scopes (delete the token file and log in again to request them):\n  %s\n", strings.Join(missing, "\n  "))
	}
	return nil
}

func formatExpiry(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format(time.RFC1123)
}

func missingScopes(tok *domain.Token, want []string) []string {
	if tok.CoversScopes(want) {
		return nil
	}
	return lo.Without(want, tok.Scopes...)
}

func joinNames(names []domain.ServiceName) string {
	return strings.Join(lo.Map(names, func(n domain.ServiceName, _ int) string {
		return string(n)
	}), ", ")
}
