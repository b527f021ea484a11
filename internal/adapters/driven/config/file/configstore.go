package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-envconfig"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// fileConfig is the TOML layout. Unset keys keep their defaults.
//
//	credentials_file = "credentials.json"
//	token_file = "token.json"
//	script_id = "AKfycb..."
//	services = ["script", "sheets"]
//	callback_timeout = "5m"
//
//	[versions]
//	drive = "v3"
//
//	[rate_limit]
//	requests_per_second = 2.0
//	burst = 5
type fileConfig struct {
	CredentialsFile string            `toml:"credentials_file,omitempty"`
	TokenFile       string            `toml:"token_file,omitempty"`
	ScriptID        string            `toml:"script_id,omitempty"`
	Scopes          []string          `toml:"scopes,omitempty"`
	Services        []string          `toml:"services,omitempty"`
	CallbackTimeout string            `toml:"callback_timeout,omitempty"`
	Versions        map[string]string `toml:"versions,omitempty"`
	RateLimit       *rateLimitConfig  `toml:"rate_limit,omitempty"`
}

type rateLimitConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// envConfig holds the environment overrides. Empty values are ignored.
type envConfig struct {
	CredentialsFile   string        `env:"GDP_CREDENTIALS_FILE"`
	TokenFile         string        `env:"GDP_TOKEN_FILE"`
	ScriptID          string        `env:"GDP_SCRIPT_ID"`
	Scopes            []string      `env:"GDP_SCOPES"`
	Services          []string      `env:"GDP_SERVICES"`
	CallbackTimeout   time.Duration `env:"GDP_CALLBACK_TIMEOUT"`
	RequestsPerSecond float64       `env:"GDP_RATE_LIMIT_RPS"`
	Burst             int           `env:"GDP_RATE_LIMIT_BURST"`
}

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	lookuper envconfig.Lookuper
}

// Option configures a ConfigStore.
type Option func(*ConfigStore)

// WithLookuper replaces the process environment as the source of overrides.
func WithLookuper(l envconfig.Lookuper) Option {
	return func(s *ConfigStore) {
		s.lookuper = l
	}
}

// DefaultPath returns ~/.gdpconnector/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gdpconnector", "config.toml"), nil
}

// NewConfigStore creates a new TOML-based config store.
// If filePath is empty, defaults to DefaultPath.
func NewConfigStore(filePath string, opts ...Option) (*ConfigStore, error) {
	if filePath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		filePath = p
	}

	s := &ConfigStore{
		filePath: filePath,
		lookuper: envconfig.OsLookuper(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Load reads domain.DefaultConfig, then the TOML file, then the GDP_*
// environment variables, each overriding the previous.
func (s *ConfigStore) Load(ctx context.Context) (domain.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(s.filePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No config file yet - defaults apply
	case err != nil:
		return domain.Config{}, err
	default:
		var fc fileConfig
		if err := toml.Unmarshal(data, &fc); err != nil {
			return domain.Config{}, fmt.Errorf("parse %s: %w", s.filePath, err)
		}
		if err := fc.apply(&cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parse %s: %w", s.filePath, err)
		}
	}

	var env envConfig
	if err := envconfig.ProcessWith(ctx, &env, s.lookuper); err != nil {
		return domain.Config{}, fmt.Errorf("read environment: %w", err)
	}
	env.apply(&cfg)

	return cfg, nil
}

// Save writes cfg to the TOML file with restricted permissions.
func (s *ConfigStore) Save(_ context.Context, cfg domain.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(toFileConfig(cfg))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0600)
}

func (fc fileConfig) apply(cfg *domain.Config) error {
	if fc.CredentialsFile != "" {
		cfg.CredentialsFile = fc.CredentialsFile
	}
	if fc.TokenFile != "" {
		cfg.TokenFile = fc.TokenFile
	}
	if fc.ScriptID != "" {
		cfg.ScriptID = fc.ScriptID
	}
	if len(fc.Scopes) > 0 {
		cfg.Scopes = fc.Scopes
	}
	if len(fc.Services) > 0 {
		cfg.Services = toServiceNames(fc.Services)
	}
	if fc.CallbackTimeout != "" {
		d, err := time.ParseDuration(fc.CallbackTimeout)
		if err != nil {
			return fmt.Errorf("callback_timeout: %w", err)
		}
		cfg.CallbackTimeout = d
	}
	for name, version := range fc.Versions {
		cfg.Versions[domain.ServiceName(name)] = version
	}
	if fc.RateLimit != nil {
		cfg.RateLimit = domain.RateLimit{
			RequestsPerSecond: fc.RateLimit.RequestsPerSecond,
			BurstSize:         fc.RateLimit.Burst,
		}
	}
	return nil
}

func (e envConfig) apply(cfg *domain.Config) {
	if e.CredentialsFile != "" {
		cfg.CredentialsFile = e.CredentialsFile
	}
	if e.TokenFile != "" {
		cfg.TokenFile = e.TokenFile
	}
	if e.ScriptID != "" {
		cfg.ScriptID = e.ScriptID
	}
	if len(e.Scopes) > 0 {
		cfg.Scopes = e.Scopes
	}
	if len(e.Services) > 0 {
		cfg.Services = toServiceNames(e.Services)
	}
	if e.CallbackTimeout > 0 {
		cfg.CallbackTimeout = e.CallbackTimeout
	}
	if e.RequestsPerSecond > 0 {
		cfg.RateLimit.RequestsPerSecond = e.RequestsPerSecond
	}
	if e.Burst > 0 {
		cfg.RateLimit.BurstSize = e.Burst
	}
}

func toFileConfig(cfg domain.Config) fileConfig {
	fc := fileConfig{
		CredentialsFile: cfg.CredentialsFile,
		TokenFile:       cfg.TokenFile,
		ScriptID:        cfg.ScriptID,
		Scopes:          cfg.Scopes,
	}
	for _, s := range cfg.Services {
		fc.Services = append(fc.Services, string(s))
	}
	if cfg.CallbackTimeout > 0 {
		fc.CallbackTimeout = cfg.CallbackTimeout.String()
	}
	if len(cfg.Versions) > 0 {
		fc.Versions = make(map[string]string, len(cfg.Versions))
		for name, version := range cfg.Versions {
			fc.Versions[string(name)] = version
		}
	}
	if cfg.RateLimit.RequestsPerSecond > 0 {
		fc.RateLimit = &rateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.BurstSize,
		}
	}
	return fc
}

func toServiceNames(names []string) []domain.ServiceName {
	out := make([]domain.ServiceName, 0, len(names))
	for _, n := range names {
		out = append(out, domain.ServiceName(n))
	}
	return out
}
