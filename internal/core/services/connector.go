package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driven"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driving"
	"github.com/custodia-labs/gdp-connector/internal/logger"
)

// Ensure Connector implements the interfaces.
var (
	_ driving.ScriptExecutor = (*Connector)(nil)
	_ driven.TokenProvider   = (*Connector)(nil)
)

// ErrMissingPort is returned when a Connector is built without one of its ports.
var ErrMissingPort = errors.New("connector: token store, authorizer and service factory are required")

// authHandler resolves one authentication state and names the next one.
type authHandler func(ctx context.Context, token *domain.Token) (domain.AuthState, *domain.Token, error)

// Connector owns an authenticated session: the token, the service registry
// and the script execution entry point.
//
// A Connector serves one caller. The token is guarded so service clients can
// refresh it from their transport, but Authenticate and Execute are not meant
// to be called concurrently on the same instance.
type Connector struct {
	cfg     domain.Config
	tokens  driven.TokenStore
	auth    driven.Authorizer
	factory driven.ServiceFactory

	mu       sync.Mutex
	state    domain.AuthState
	token    *domain.Token
	registry *Registry
	closed   bool
}

// NewConnector creates a Connector. It does not authenticate; call
// Authenticate before Execute.
func NewConnector(
	cfg domain.Config,
	tokens driven.TokenStore,
	auth driven.Authorizer,
	factory driven.ServiceFactory,
) (*Connector, error) {
	if tokens == nil || auth == nil || factory == nil {
		return nil, ErrMissingPort
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Services = lo.Uniq(cfg.Services)
	cfg.Scopes = lo.Uniq(cfg.Scopes)

	return &Connector{
		cfg:     cfg,
		tokens:  tokens,
		auth:    auth,
		factory: factory,
	}, nil
}

// Authenticate resolves credentials and builds the service registry.
//
// The persisted token is used if still valid, even when it covers fewer
// scopes than configured (a warning is logged). Otherwise it is refreshed, and
// if that is impossible or fails, the interactive grant runs. Load and
// refresh failures are logged and fall through to the next step; a failed
// grant is returned since nothing is left to try.
func (c *Connector) Authenticate(ctx context.Context) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return domain.ErrConnectorClosed
	}

	logger.Section("Authentication")

	token, err := c.tokens.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			logger.Debug("No token at %s", c.tokens.Location())
		} else {
			logger.Warn("Failed to load credentials from %s: %v", c.tokens.Location(), err)
		}
		token = nil
	}

	handlers := map[domain.AuthState]authHandler{
		domain.AuthStateCachedValid:  c.useCached,
		domain.AuthStateNeedsRefresh: c.refresh,
		domain.AuthStateNeedsGrant:   c.grant,
	}

	if token != nil && !token.CoversScopes(c.cfg.Scopes) {
		logger.Warn("Token at %s does not cover all configured scopes: %v",
			c.tokens.Location(), lo.Without(c.cfg.Scopes, token.Scopes...))
	}

	state := domain.ClassifyToken(token)
	for state != domain.AuthStateReady {
		logger.Debug("Authentication state: %s", state)
		c.setState(state)

		handler, ok := handlers[state]
		if !ok {
			return fmt.Errorf("no handler for authentication state %s", state)
		}
		state, token, err = handler(ctx, token)
		if err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	registry, err := c.buildRegistry(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.registry = registry
	c.state = domain.AuthStateReady
	c.mu.Unlock()

	logger.Info("Authenticated with services: %v", registry.Names())
	return nil
}

func (c *Connector) useCached(_ context.Context, token *domain.Token) (domain.AuthState, *domain.Token, error) {
	return domain.AuthStateReady, token, nil
}

func (c *Connector) refresh(ctx context.Context, token *domain.Token) (domain.AuthState, *domain.Token, error) {
	refreshed, err := c.auth.Refresh(ctx, *token)
	if err != nil {
		logger.Warn("Failed to refresh access token: %v", err)
		return domain.AuthStateNeedsGrant, nil, nil
	}

	merged := *token
	merged.Merge(*refreshed)
	if err := c.tokens.Save(ctx, merged); err != nil {
		logger.Warn("Failed to save refreshed token to %s: %v", c.tokens.Location(), err)
	}
	return domain.AuthStateReady, &merged, nil
}

func (c *Connector) grant(ctx context.Context, _ *domain.Token) (domain.AuthState, *domain.Token, error) {
	granted, err := c.auth.Grant(ctx, c.cfg.Scopes)
	if err != nil {
		return domain.AuthStateNeedsGrant, nil, fmt.Errorf("%w: %w", domain.ErrGrantFailed, err)
	}
	if len(granted.Scopes) == 0 {
		granted.Scopes = append([]string(nil), c.cfg.Scopes...)
	}

	if err := c.tokens.Save(ctx, *granted); err != nil {
		return domain.AuthStateNeedsGrant, nil, fmt.Errorf("save token to %s: %w", c.tokens.Location(), err)
	}
	logger.Debug("Saved new token to %s", c.tokens.Location())
	return domain.AuthStateReady, granted, nil
}

func (c *Connector) buildRegistry(ctx context.Context) (*Registry, error) {
	clients := make([]driven.ServiceClient, 0, len(c.cfg.Services))
	for _, name := range c.cfg.Services {
		version := c.cfg.VersionFor(name)
		client, err := c.factory.NewClient(ctx, name, version, c)
		if err != nil {
			return nil, fmt.Errorf("build %s %s client: %w", name, version, err)
		}
		logger.Debug("Built %s %s client", name, version)
		clients = append(clients, client)
	}
	return NewRegistry(clients...), nil
}

// GetToken returns a valid token, refreshing and persisting it if the access
// token has expired. Service clients call this from their transport.
func (c *Connector) GetToken(ctx context.Context) (domain.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == nil {
		return domain.Token{}, domain.ErrNotAuthenticated
	}
	if c.token.Valid() {
		return *c.token, nil
	}
	if !c.token.HasRefreshToken() {
		return domain.Token{}, fmt.Errorf("access token expired: %w", domain.ErrNoRefreshToken)
	}

	refreshed, err := c.auth.Refresh(ctx, *c.token)
	if err != nil {
		return domain.Token{}, fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, err)
	}
	c.token.Merge(*refreshed)
	if err := c.tokens.Save(ctx, *c.token); err != nil {
		logger.Warn("Failed to save refreshed token to %s: %v", c.tokens.Location(), err)
	}
	return *c.token, nil
}

// Execute runs a function of the deployed script.
//
// function defaults to domain.DefaultFunction and parameters to an empty
// list. The script is the configured default unless WithScriptID is given.
// Every failure is logged and returned as a nil result with a
// *domain.ExecutionError; Execute never panics on a remote failure.
func (c *Connector) Execute(
	ctx context.Context,
	function string,
	parameters []any,
	opts ...driving.ExecuteOption,
) (*domain.ExecutionResult, error) {
	req := domain.NewExecutionRequest(function, parameters)

	var options driving.ExecuteOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.ScriptID == "" {
		options.ScriptID = c.cfg.ScriptID
	}
	if options.ScriptID == "" {
		return nil, c.fail(&domain.ExecutionError{
			Kind:     domain.ErrorKindInvalidRequest,
			Function: req.Function,
			Message:  "no script ID configured",
		})
	}

	c.mu.Lock()
	runner, ok := c.registry.Script()
	c.mu.Unlock()
	if !ok {
		return nil, c.fail(&domain.ExecutionError{
			Kind:     domain.ErrorKindNotAuthenticated,
			Function: req.Function,
			Message:  "no script service available, authenticate first",
		})
	}

	logger.Debug("Executing %s(%d parameters) in script %s", req.Function, len(req.Parameters), options.ScriptID)
	result, err := runner.Run(ctx, options.ScriptID, req)
	if err != nil {
		var execErr *domain.ExecutionError
		if !errors.As(err, &execErr) {
			execErr = &domain.ExecutionError{Kind: domain.ErrorKindTransport, Err: err}
		}
		if execErr.Function == "" {
			execErr.Function = req.Function
		}
		return nil, c.fail(execErr)
	}
	return result, nil
}

// fail logs an execution error and returns it.
func (c *Connector) fail(err *domain.ExecutionError) *domain.ExecutionError {
	switch err.Kind {
	case domain.ErrorKindScript:
		logger.Error("Script error: %s", err.Message)
	case domain.ErrorKindTransport:
		logger.Error("Failed to execute script function '%s': %v", err.Function, err.Err)
	default:
		logger.Error("Cannot execute script function '%s': %s", err.Function, err.Message)
	}
	return err
}

// Sheets returns the Sheets helper bound to this connector.
func (c *Connector) Sheets() *Sheets {
	return NewSheets(c)
}

// State returns the current authentication state.
func (c *Connector) State() domain.AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Connector) setState(s domain.AuthState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Services returns the service registry, nil before authentication.
func (c *Connector) Services() *Registry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry
}

// Config returns the connector's configuration.
func (c *Connector) Config() domain.Config {
	return c.cfg
}

// Close drops the in-memory session. The persisted token is kept.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.registry = nil
	c.token = nil
	c.state = domain.AuthStateUnknown
	return nil
}
