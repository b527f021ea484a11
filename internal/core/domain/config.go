package domain

import (
	"fmt"
	"time"
)

// Default file locations, relative to the working directory.
const (
	// DefaultCredentialsFile holds the OAuth client secrets downloaded from the
	// Google Cloud console.
	DefaultCredentialsFile = "credentials.json"
	// DefaultTokenFile holds the cached token bundle.
	DefaultTokenFile = "token.json"
	// DefaultFunction is called when Execute is given no function name.
	DefaultFunction = "inputReceiver"
	// DefaultCallbackTimeout bounds how long the interactive grant waits for
	// the browser redirect.
	DefaultCallbackTimeout = 5 * time.Minute
)

// DefaultScopes are the OAuth scopes requested when none are configured.
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/script.projects",
	"https://www.googleapis.com/auth/drive",
	"https://www.googleapis.com/auth/forms",
	"https://www.googleapis.com/auth/spreadsheets",
}

// DefaultServices are the services initialised when none are configured.
var DefaultServices = []ServiceName{ServiceScript}

// RateLimit throttles outbound script executions. A zero RequestsPerSecond
// disables throttling.
type RateLimit struct {
	RequestsPerSecond float64
	BurstSize         int
}

// Config is the construction-time configuration of a Connector.
// Each Connector owns its own copy, so independent sessions do not interfere.
type Config struct {
	// CredentialsFile is the path to the OAuth client secrets JSON file.
	CredentialsFile string
	// TokenFile is the path the token bundle is read from and written to.
	TokenFile string
	// Scopes are the OAuth scope URIs to request.
	Scopes []string
	// Services lists the services to initialise after authentication.
	Services []ServiceName
	// Versions overrides the API version per service.
	Versions map[ServiceName]string
	// ScriptID is the default Apps Script project targeted by Execute.
	ScriptID string
	// CallbackTimeout bounds the interactive grant.
	CallbackTimeout time.Duration
	// RateLimit throttles script executions.
	RateLimit RateLimit
}

// DefaultConfig returns a Config populated with the named defaults.
func DefaultConfig() Config {
	return Config{
		CredentialsFile: DefaultCredentialsFile,
		TokenFile:       DefaultTokenFile,
		Scopes:          append([]string(nil), DefaultScopes...),
		Services:        append([]ServiceName(nil), DefaultServices...),
		Versions:        map[ServiceName]string{},
		CallbackTimeout: DefaultCallbackTimeout,
	}
}

// VersionFor returns the API version to build a service with.
func (c Config) VersionFor(name ServiceName) string {
	if v, ok := c.Versions[name]; ok && v != "" {
		return v
	}
	return DefaultVersions[name]
}

// Validate checks that the configuration can produce a working session.
func (c Config) Validate() error {
	if c.CredentialsFile == "" {
		return fmt.Errorf("%w: credentials file is required", ErrInvalidConfig)
	}
	if c.TokenFile == "" {
		return fmt.Errorf("%w: token file is required", ErrInvalidConfig)
	}
	if len(c.Scopes) == 0 {
		return fmt.Errorf("%w: at least one scope is required", ErrInvalidConfig)
	}
	if len(c.Services) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidConfig)
	}
	for _, s := range c.Services {
		if !s.IsKnown() {
			return fmt.Errorf("%w: %q", ErrUnknownService, s)
		}
	}
	return nil
}
