package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after the config file, GDP_* environment
variables and flags have been applied.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := openConfigStore()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	t := newTable(cmd)
	t.AppendHeader(table.Row{"Key", "Value"})
	t.AppendRow(table.Row{"config file", store.Path()})
	t.AppendRow(table.Row{"credentials_file", cfg.CredentialsFile})
	t.AppendRow(table.Row{"token_file", cfg.TokenFile})
	t.AppendRow(table.Row{"script_id", orNone(cfg.ScriptID)})
	t.AppendRow(table.Row{"services", joinNames(cfg.Services)})
	t.AppendRow(table.Row{"versions", formatVersions(cfg)})
	t.AppendRow(table.Row{"scopes", strings.Join(cfg.Scopes, "\n")})
	t.AppendRow(table.Row{"callback_timeout", cfg.CallbackTimeout.String()})
	if cfg.RateLimit.RequestsPerSecond > 0 {
		t.AppendRow(table.Row{"rate_limit", fmt.Sprintf("%g/s, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)})
	} else {
		t.AppendRow(table.Row{"rate_limit", "off"})
	}
	t.Render()
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	store, err := openConfigStore()
	if err != nil {
		return err
	}

	if _, err := os.Stat(store.Path()); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists, use --force to overwrite", store.Path())
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := store.Save(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	cmd.Printf("Wrote %s\n", store.Path())
	return nil
}

func formatVersions(cfg domain.Config) string {
	lines := make([]string, 0, len(cfg.Services))
	for _, s := range cfg.Services {
		lines = append(lines, fmt.Sprintf("%s %s", s, cfg.VersionFor(s)))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
