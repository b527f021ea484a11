package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driving"
)

func testConfig(services ...domain.ServiceName) domain.Config {
	cfg := domain.DefaultConfig()
	cfg.ScriptID = "script-123"
	if len(services) > 0 {
		cfg.Services = services
	}
	return cfg
}

func validToken() *domain.Token {
	return &domain.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}
}

func expiredToken() *domain.Token {
	return &domain.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}
}

func newTestConnector(
	t *testing.T,
	cfg domain.Config,
	store *mockTokenStore,
	auth *mockAuthorizer,
	factory *mockFactory,
) *Connector {
	t.Helper()
	c, err := NewConnector(cfg, store, auth, factory)
	require.NoError(t, err)
	return c
}

func TestNewConnector_MissingPorts(t *testing.T) {
	_, err := NewConnector(testConfig(), nil, &mockAuthorizer{}, &mockFactory{})
	assert.ErrorIs(t, err, ErrMissingPort)

	_, err = NewConnector(testConfig(), &mockTokenStore{}, nil, &mockFactory{})
	assert.ErrorIs(t, err, ErrMissingPort)

	_, err = NewConnector(testConfig(), &mockTokenStore{}, &mockAuthorizer{}, nil)
	assert.ErrorIs(t, err, ErrMissingPort)
}

func TestNewConnector_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Services = []domain.ServiceName{"gmail"}

	_, err := NewConnector(cfg, &mockTokenStore{}, &mockAuthorizer{}, &mockFactory{})
	assert.ErrorIs(t, err, domain.ErrUnknownService)
}

func TestConnector_Authenticate_CachedValid(t *testing.T) {
	store := &mockTokenStore{token: validToken()}
	auth := &mockAuthorizer{}
	factory := &mockFactory{}
	c := newTestConnector(t, testConfig(), store, auth, factory)

	require.NoError(t, c.Authenticate(context.Background()))

	assert.Equal(t, 0, auth.grantCalls, "valid cached token must not trigger the grant")
	assert.Equal(t, 0, auth.refreshCalls)
	assert.Empty(t, store.saved)
	assert.Equal(t, domain.AuthStateReady, c.State())
}

func TestConnector_Authenticate_RegistryMatchesConfiguredServices(t *testing.T) {
	tests := []struct {
		name     string
		services []domain.ServiceName
		want     []domain.ServiceName
	}{
		{"script only", []domain.ServiceName{domain.ServiceScript}, []domain.ServiceName{domain.ServiceScript}},
		{
			"all services",
			domain.KnownServices(),
			[]domain.ServiceName{domain.ServiceDrive, domain.ServiceForms, domain.ServiceScript, domain.ServiceSheets},
		},
		{
			"duplicates collapse",
			[]domain.ServiceName{domain.ServiceDrive, domain.ServiceScript, domain.ServiceDrive},
			[]domain.ServiceName{domain.ServiceDrive, domain.ServiceScript},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := &mockFactory{}
			c := newTestConnector(t, testConfig(tt.services...), &mockTokenStore{token: validToken()}, &mockAuthorizer{}, factory)

			require.NoError(t, c.Authenticate(context.Background()))

			registry := c.Services()
			assert.Equal(t, tt.want, registry.Names())
			assert.Equal(t, len(tt.want), registry.Len())
			assert.Len(t, factory.built, len(tt.want), "one client per configured service")
		})
	}
}

func TestConnector_Authenticate_UsesServiceVersions(t *testing.T) {
	cfg := testConfig(domain.KnownServices()...)
	cfg.Versions[domain.ServiceDrive] = "v2"
	factory := &mockFactory{}
	c := newTestConnector(t, cfg, &mockTokenStore{token: validToken()}, &mockAuthorizer{}, factory)

	require.NoError(t, c.Authenticate(context.Background()))

	assert.Equal(t, "v1", factory.versions[domain.ServiceScript])
	assert.Equal(t, "v2", factory.versions[domain.ServiceDrive])
	assert.Equal(t, "v4", factory.versions[domain.ServiceSheets])
	assert.Equal(t, "v1", factory.versions[domain.ServiceForms])
	assert.Same(t, c, factory.tokens, "clients draw tokens from the connector")
}

func TestConnector_Authenticate_RefreshesExpiredToken(t *testing.T) {
	store := &mockTokenStore{token: expiredToken()}
	auth := &mockAuthorizer{
		refreshed: &domain.Token{AccessToken: "fresh", Expiry: time.Now().Add(time.Hour)},
	}
	c := newTestConnector(t, testConfig(), store, auth, &mockFactory{})

	require.NoError(t, c.Authenticate(context.Background()))

	assert.Equal(t, 1, auth.refreshCalls)
	assert.Equal(t, 0, auth.grantCalls)
	require.Len(t, store.saved, 1, "refreshed token is persisted")
	assert.Equal(t, "fresh", store.saved[0].AccessToken)
	assert.Equal(t, "refresh", store.saved[0].RefreshToken, "refresh token survives the refresh")
}

func TestConnector_Authenticate_RefreshFailureFallsBackToGrant(t *testing.T) {
	store := &mockTokenStore{token: expiredToken()}
	auth := &mockAuthorizer{
		refreshErr: errors.New("invalid_grant"),
		granted:    &domain.Token{AccessToken: "granted", RefreshToken: "new-refresh"},
	}
	c := newTestConnector(t, testConfig(), store, auth, &mockFactory{})

	require.NoError(t, c.Authenticate(context.Background()))

	assert.Equal(t, 1, auth.refreshCalls)
	assert.Equal(t, 1, auth.grantCalls)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "granted", store.saved[0].AccessToken)
}

func TestConnector_Authenticate_RefreshSaveFailureIsNotFatal(t *testing.T) {
	store := &mockTokenStore{token: expiredToken(), saveErr: errors.New("read-only filesystem")}
	auth := &mockAuthorizer{refreshed: &domain.Token{AccessToken: "fresh"}}
	c := newTestConnector(t, testConfig(), store, auth, &mockFactory{})

	require.NoError(t, c.Authenticate(context.Background()))
	assert.Equal(t, domain.AuthStateReady, c.State())
}

func TestConnector_Authenticate_MissingTokenGrantsOnce(t *testing.T) {
	store := &mockTokenStore{}
	auth := &mockAuthorizer{granted: &domain.Token{AccessToken: "granted"}}
	cfg := testConfig()
	c := newTestConnector(t, cfg, store, auth, &mockFactory{})

	require.NoError(t, c.Authenticate(context.Background()))

	assert.Equal(t, 1, auth.grantCalls)
	assert.Equal(t, 0, auth.refreshCalls, "no refresh token, no refresh attempt")
	assert.Equal(t, cfg.Scopes, auth.grantScopes)
	require.Len(t, store.saved, 1, "granted token is persisted")
	assert.Equal(t, "granted", store.saved[0].AccessToken)
	assert.Equal(t, cfg.Scopes, store.saved[0].Scopes, "configured scopes are recorded when the grant omits them")
}

func TestConnector_Authenticate_CorruptTokenGrantsOnce(t *testing.T) {
	store := &mockTokenStore{loadErr: errors.New("invalid character '}'")}
	auth := &mockAuthorizer{granted: &domain.Token{AccessToken: "granted"}}
	c := newTestConnector(t, testConfig(), store, auth, &mockFactory{})

	require.NoError(t, c.Authenticate(context.Background()))

	assert.Equal(t, 1, auth.grantCalls)
	assert.Len(t, store.saved, 1)
}

func TestConnector_Authenticate_ExpiredWithoutRefreshTokenGrants(t *testing.T) {
	store := &mockTokenStore{token: &domain.Token{AccessToken: "stale", Expiry: time.Now().Add(-time.Hour)}}
	auth := &mockAuthorizer{granted: &domain.Token{AccessToken: "granted"}}
	c := newTestConnector(t, testConfig(), store, auth, &mockFactory{})

	require.NoError(t, c.Authenticate(context.Background()))

	assert.Equal(t, 0, auth.refreshCalls)
	assert.Equal(t, 1, auth.grantCalls)
}

func TestConnector_Authenticate_FewerScopesUsesCached(t *testing.T) {
	token := validToken()
	token.Scopes = []string{"https://www.googleapis.com/auth/drive"}
	auth := &mockAuthorizer{granted: &domain.Token{AccessToken: "granted"}}
	c := newTestConnector(t, testConfig(), &mockTokenStore{token: token}, auth, &mockFactory{})

	require.NoError(t, c.Authenticate(context.Background()))

	assert.Equal(t, 0, auth.grantCalls)
	assert.Equal(t, domain.AuthStateReady, c.State())
}

func TestConnector_Authenticate_PartialGrantNotRepeated(t *testing.T) {
	cfg := testConfig()
	partial := validToken()
	partial.Scopes = cfg.Scopes[:1]
	store := &mockTokenStore{}
	auth := &mockAuthorizer{granted: partial}

	for i := 0; i < 3; i++ {
		c := newTestConnector(t, cfg, store, auth, &mockFactory{})
		require.NoError(t, c.Authenticate(context.Background()))
	}

	assert.Equal(t, 1, auth.grantCalls)
}

func TestConnector_Authenticate_GrantFailurePropagates(t *testing.T) {
	store := &mockTokenStore{}
	auth := &mockAuthorizer{grantErr: errors.New("user closed the browser")}
	factory := &mockFactory{}
	c := newTestConnector(t, testConfig(), store, auth, factory)

	err := c.Authenticate(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGrantFailed)
	assert.Contains(t, err.Error(), "user closed the browser")
	assert.Empty(t, store.saved)
	assert.Empty(t, factory.built, "no clients without credentials")
	assert.Nil(t, c.Services())
}

func TestConnector_Authenticate_GrantSaveFailurePropagates(t *testing.T) {
	store := &mockTokenStore{saveErr: errors.New("permission denied")}
	auth := &mockAuthorizer{granted: &domain.Token{AccessToken: "granted"}}
	c := newTestConnector(t, testConfig(), store, auth, &mockFactory{})

	err := c.Authenticate(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestConnector_Authenticate_FactoryFailurePropagates(t *testing.T) {
	factory := &mockFactory{err: domain.ErrUnknownService}
	c := newTestConnector(t, testConfig(), &mockTokenStore{token: validToken()}, &mockAuthorizer{}, factory)

	err := c.Authenticate(context.Background())

	assert.ErrorIs(t, err, domain.ErrUnknownService)
	assert.Nil(t, c.Services())
}

func TestConnector_Authenticate_AfterClose(t *testing.T) {
	c := newTestConnector(t, testConfig(), &mockTokenStore{token: validToken()}, &mockAuthorizer{}, &mockFactory{})
	require.NoError(t, c.Close())

	assert.ErrorIs(t, c.Authenticate(context.Background()), domain.ErrConnectorClosed)
}

func TestConnector_GetToken(t *testing.T) {
	ctx := context.Background()

	t.Run("before authentication", func(t *testing.T) {
		c := newTestConnector(t, testConfig(), &mockTokenStore{}, &mockAuthorizer{}, &mockFactory{})

		_, err := c.GetToken(ctx)
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("valid token is returned as is", func(t *testing.T) {
		auth := &mockAuthorizer{}
		c := newTestConnector(t, testConfig(), &mockTokenStore{token: validToken()}, auth, &mockFactory{})
		require.NoError(t, c.Authenticate(ctx))

		tok, err := c.GetToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "access", tok.AccessToken)
		assert.Equal(t, 0, auth.refreshCalls)
	})

	t.Run("expired token is refreshed and persisted", func(t *testing.T) {
		store := &mockTokenStore{token: validToken()}
		auth := &mockAuthorizer{refreshed: &domain.Token{AccessToken: "fresh", Expiry: time.Now().Add(time.Hour)}}
		c := newTestConnector(t, testConfig(), store, auth, &mockFactory{})
		require.NoError(t, c.Authenticate(ctx))

		c.token.Expiry = time.Now().Add(-time.Minute)

		tok, err := c.GetToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "fresh", tok.AccessToken)
		assert.Equal(t, 1, auth.refreshCalls)
		require.Len(t, store.saved, 1)
		assert.Equal(t, "fresh", store.saved[0].AccessToken)
	})

	t.Run("refresh failure is returned", func(t *testing.T) {
		auth := &mockAuthorizer{refreshErr: errors.New("revoked")}
		c := newTestConnector(t, testConfig(), &mockTokenStore{token: validToken()}, auth, &mockFactory{})
		require.NoError(t, c.Authenticate(ctx))

		c.token.Expiry = time.Now().Add(-time.Minute)

		_, err := c.GetToken(ctx)
		assert.ErrorIs(t, err, domain.ErrTokenRefreshFailed)
	})
}

func TestConnector_Execute_SendsRequestToConfiguredScript(t *testing.T) {
	runner := &mockRunner{result: &domain.ExecutionResult{Done: true, Result: "ok"}}
	c := newTestConnector(t, testConfig(), &mockTokenStore{token: validToken()}, &mockAuthorizer{}, &mockFactory{runner: runner})
	require.NoError(t, c.Authenticate(context.Background()))

	data := [][]any{{"a", "b"}}
	params := []any{"sid", "Sheet1", data, 1, 1, "json"}
	res, err := c.Execute(context.Background(), "writeData", params)

	require.NoError(t, err)
	assert.Equal(t, "ok", res.Result)
	assert.Equal(t, "script-123", runner.scriptID)
	assert.Equal(t, domain.ExecutionRequest{Function: "writeData", Parameters: params}, runner.request)
}

func TestConnector_Execute_Defaults(t *testing.T) {
	runner := &mockRunner{result: &domain.ExecutionResult{Done: true}}
	c := newTestConnector(t, testConfig(), &mockTokenStore{token: validToken()}, &mockAuthorizer{}, &mockFactory{runner: runner})
	require.NoError(t, c.Authenticate(context.Background()))

	_, err := c.Execute(context.Background(), "", nil)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFunction, runner.request.Function)
	assert.NotNil(t, runner.request.Parameters)
	assert.Empty(t, runner.request.Parameters)
}

func TestConnector_Execute_ScriptIDOverride(t *testing.T) {
	runner := &mockRunner{result: &domain.ExecutionResult{Done: true}}
	c := newTestConnector(t, testConfig(), &mockTokenStore{token: validToken()}, &mockAuthorizer{}, &mockFactory{runner: runner})
	require.NoError(t, c.Authenticate(context.Background()))

	_, err := c.Execute(context.Background(), "f", nil, driving.WithScriptID("other-script"))
	require.NoError(t, err)
	assert.Equal(t, "other-script", runner.scriptID)

	_, err = c.Execute(context.Background(), "f", nil, driving.WithScriptID(""))
	require.NoError(t, err)
	assert.Equal(t, "script-123", runner.scriptID, "empty override falls back to the default")
}

func TestConnector_Execute_ScriptErrorReturnsNoResult(t *testing.T) {
	runner := &mockRunner{err: &domain.ExecutionError{
		Kind:    domain.ErrorKindScript,
		Message: "Sheet not found: Sheet9",
	}}
	c := newTestConnector(t, testConfig(), &mockTokenStore{token: validToken()}, &mockAuthorizer{}, &mockFactory{runner: runner})
	require.NoError(t, c.Authenticate(context.Background()))

	var res *domain.ExecutionResult
	var err error
	assert.NotPanics(t, func() {
		res, err = c.Execute(context.Background(), "readData", []any{"sid", "Sheet9"})
	})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrScriptFailed)
	var execErr *domain.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "readData", execErr.Function)
	assert.Equal(t, "Sheet not found: Sheet9", execErr.Message)
}

func TestConnector_Execute_TransportErrorReturnsNoResult(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	runner := &mockRunner{err: cause}
	c := newTestConnector(t, testConfig(), &mockTokenStore{token: validToken()}, &mockAuthorizer{}, &mockFactory{runner: runner})
	require.NoError(t, c.Authenticate(context.Background()))

	res, err := c.Execute(context.Background(), "listGoogleSheets", nil)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorIs(t, err, cause)
}

func TestConnector_Execute_BeforeAuthenticate(t *testing.T) {
	runner := &mockRunner{}
	c := newTestConnector(t, testConfig(), &mockTokenStore{}, &mockAuthorizer{}, &mockFactory{runner: runner})

	res, err := c.Execute(context.Background(), "f", nil)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Equal(t, 0, runner.calls, "nothing is sent before authentication")
}

func TestConnector_Execute_WithoutScriptService(t *testing.T) {
	c := newTestConnector(t, testConfig(domain.ServiceDrive), &mockTokenStore{token: validToken()}, &mockAuthorizer{}, &mockFactory{})
	require.NoError(t, c.Authenticate(context.Background()))

	_, err := c.Execute(context.Background(), "f", nil)

	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestConnector_Execute_NoScriptID(t *testing.T) {
	cfg := testConfig()
	cfg.ScriptID = ""
	runner := &mockRunner{}
	c := newTestConnector(t, cfg, &mockTokenStore{token: validToken()}, &mockAuthorizer{}, &mockFactory{runner: runner})
	require.NoError(t, c.Authenticate(context.Background()))

	res, err := c.Execute(context.Background(), "f", nil)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Equal(t, 0, runner.calls)
}

func TestConnector_Close(t *testing.T) {
	runner := &mockRunner{}
	c := newTestConnector(t, testConfig(), &mockTokenStore{token: validToken()}, &mockAuthorizer{}, &mockFactory{runner: runner})
	require.NoError(t, c.Authenticate(context.Background()))

	require.NoError(t, c.Close())

	assert.Equal(t, domain.AuthStateUnknown, c.State())
	assert.Nil(t, c.Services())
	_, err := c.Execute(context.Background(), "f", nil)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestConnector_Sheets(t *testing.T) {
	runner := &mockRunner{result: &domain.ExecutionResult{Done: true, Result: []any{}}}
	c := newTestConnector(t, testConfig(), &mockTokenStore{token: validToken()}, &mockAuthorizer{}, &mockFactory{runner: runner})
	require.NoError(t, c.Authenticate(context.Background()))

	sheets, err := c.Sheets().ListSpreadsheets(context.Background())

	require.NoError(t, err)
	assert.Empty(t, sheets)
	assert.Equal(t, domain.FunctionListGoogleSheets, runner.request.Function)
}
