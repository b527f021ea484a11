// Package cli provides the cobra command tree of the gdpconnector binary.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/gdp-connector/internal/adapters/driven/config/file"
	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Persistent flags.
var (
	cfgFile         string
	verbose         bool
	credentialsFile string
	tokenFile       string
	scriptID        string
	serviceNames    []string
	scopes          []string
	ephemeral       bool
)

var rootCmd = &cobra.Command{
	Use:   "gdpconnector",
	Short: "Run Google Apps Script functions from the command line",
	Long: `gdpconnector authenticates with Google and runs functions of a deployed
Apps Script project through the Apps Script Execution API.

It ships shortcuts for the Sheets functions of the companion script
(writeData, listGoogleSheets, getSheetNames, readData) and can expose them
to AI assistants as an MCP server.

Configuration is read from ~/.gdpconnector/config.toml, then GDP_*
environment variables, then flags.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetOutput(cmd.ErrOrStderr())
		logger.SetVerbose(verbose)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ~/.gdpconnector/config.toml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&credentialsFile, "credentials", "", "OAuth client secrets file")
	flags.StringVar(&tokenFile, "token", "", "token cache file")
	flags.StringVar(&scriptID, "script-id", "", "Apps Script project ID")
	flags.StringSliceVar(&serviceNames, "services", nil, "services to initialise (script, drive, sheets, forms)")
	flags.StringSliceVar(&scopes, "scopes", nil, "OAuth scopes to request")
	flags.BoolVar(&ephemeral, "ephemeral", false, "keep the token in memory only, never read or write the token file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// loadConfig resolves the configuration for a command: defaults, the config
// file, GDP_* environment variables and finally explicit flags.
func loadConfig(cmd *cobra.Command) (domain.Config, error) {
	store, err := openConfigStore()
	if err != nil {
		return domain.Config{}, err
	}

	cfg, err := store.Load(cmd.Context())
	if err != nil {
		return domain.Config{}, fmt.Errorf("load config: %w", err)
	}
	logger.Debug("Loaded config from %s", store.Path())

	flags := cmd.Flags()
	if flags.Changed("credentials") {
		cfg.CredentialsFile = credentialsFile
	}
	if flags.Changed("token") {
		cfg.TokenFile = tokenFile
	}
	if flags.Changed("script-id") {
		cfg.ScriptID = scriptID
	}
	if flags.Changed("services") {
		cfg.Services = make([]domain.ServiceName, 0, len(serviceNames))
		for _, s := range serviceNames {
			cfg.Services = append(cfg.Services, domain.ServiceName(s))
		}
	}
	if flags.Changed("scopes") {
		cfg.Scopes = scopes
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func openConfigStore() (*configfile.ConfigStore, error) {
	store, err := configfile.NewConfigStore(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return store, nil
}
