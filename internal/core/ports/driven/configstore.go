package driven

import (
	"context"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
)

// ConfigStore provides access to the connector configuration.
// Implementations handle persistence (e.g., TOML files) and overrides.
type ConfigStore interface {
	// Load returns the defaults overlaid with the persisted configuration
	// and any environment overrides. A missing file is not an error.
	Load(ctx context.Context) (domain.Config, error)

	// Save persists cfg, replacing the file.
	Save(ctx context.Context, cfg domain.Config) error

	// Path returns the configuration file path.
	Path() string
}
