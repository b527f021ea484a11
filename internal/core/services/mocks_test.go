package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driven"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driving"
)

// mockTokenStore is an in-memory driven.TokenStore.
type mockTokenStore struct {
	token   *domain.Token
	loadErr error
	saveErr error
	saved   []domain.Token
}

func (m *mockTokenStore) Load(_ context.Context) (*domain.Token, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.token == nil {
		return nil, domain.ErrTokenNotFound
	}
	t := *m.token
	return &t, nil
}

func (m *mockTokenStore) Save(_ context.Context, token domain.Token) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, token)
	m.token = &token
	return nil
}

func (m *mockTokenStore) Location() string {
	return "memory"
}

// mockAuthorizer records refresh and grant calls.
type mockAuthorizer struct {
	refreshed  *domain.Token
	refreshErr error
	granted    *domain.Token
	grantErr   error

	refreshCalls int
	grantCalls   int
	grantScopes  []string
}

func (m *mockAuthorizer) Refresh(_ context.Context, _ domain.Token) (*domain.Token, error) {
	m.refreshCalls++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	if m.refreshed == nil {
		return nil, errors.New("no refreshed token configured")
	}
	t := *m.refreshed
	return &t, nil
}

func (m *mockAuthorizer) Grant(_ context.Context, scopes []string) (*domain.Token, error) {
	m.grantCalls++
	m.grantScopes = scopes
	if m.grantErr != nil {
		return nil, m.grantErr
	}
	if m.granted == nil {
		return nil, errors.New("no granted token configured")
	}
	t := *m.granted
	return &t, nil
}

// mockClient is a plain driven.ServiceClient.
type mockClient struct {
	name    domain.ServiceName
	version string
}

func (m *mockClient) Name() domain.ServiceName { return m.name }
func (m *mockClient) Version() string          { return m.version }

// mockRunner is a driven.ScriptRunner that records its last call.
type mockRunner struct {
	mockClient
	result *domain.ExecutionResult
	err    error

	calls    int
	scriptID string
	request  domain.ExecutionRequest
}

func (m *mockRunner) Run(_ context.Context, scriptID string, req domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	m.calls++
	m.scriptID = scriptID
	m.request = req
	return m.result, m.err
}

// mockFactory builds mock clients; the script client is the shared runner.
type mockFactory struct {
	runner   *mockRunner
	err      error
	built    []domain.ServiceName
	versions map[domain.ServiceName]string
	tokens   driven.TokenProvider
}

func (m *mockFactory) NewClient(
	_ context.Context,
	name domain.ServiceName,
	version string,
	tokens driven.TokenProvider,
) (driven.ServiceClient, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.built = append(m.built, name)
	if m.versions == nil {
		m.versions = make(map[domain.ServiceName]string)
	}
	m.versions[name] = version
	m.tokens = tokens

	if name == domain.ServiceScript {
		if m.runner == nil {
			m.runner = &mockRunner{}
		}
		m.runner.name = name
		m.runner.version = version
		return m.runner, nil
	}
	return &mockClient{name: name, version: version}, nil
}

// mockExecutor is a driving.ScriptExecutor that records calls.
type mockExecutor struct {
	result *domain.ExecutionResult
	err    error

	function   string
	parameters []any
	options    driving.ExecuteOptions
}

func (m *mockExecutor) Execute(
	_ context.Context,
	function string,
	parameters []any,
	opts ...driving.ExecuteOption,
) (*domain.ExecutionResult, error) {
	m.function = function
	m.parameters = parameters
	m.options = driving.ExecuteOptions{}
	for _, opt := range opts {
		opt(&m.options)
	}
	return m.result, m.err
}
