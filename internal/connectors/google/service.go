package google

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/forms/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/script/v1"
	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.ServiceFactory = (*Factory)(nil)

// APIClient is a registry entry wrapping a generated Google API service.
type APIClient[T any] struct {
	name    domain.ServiceName
	version string
	api     T
}

// Name returns the service identifier.
func (c *APIClient[T]) Name() domain.ServiceName { return c.name }

// Version returns the API version.
func (c *APIClient[T]) Version() string { return c.version }

// API returns the underlying Google API service.
func (c *APIClient[T]) API() T { return c.api }

// builder creates the client for one service.
type builder func(ctx context.Context, f *Factory, opts []option.ClientOption) (driven.ServiceClient, error)

// builders maps each service to its constructor. A Go client package
// implements a single API version, listed in domain.DefaultVersions.
var builders = map[domain.ServiceName]builder{
	domain.ServiceScript: func(ctx context.Context, f *Factory, opts []option.ClientOption) (driven.ServiceClient, error) {
		svc, err := script.NewService(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return NewScriptClient(svc, NewRateLimiter(f.rateLimit)), nil
	},
	domain.ServiceDrive: func(ctx context.Context, _ *Factory, opts []option.ClientOption) (driven.ServiceClient, error) {
		svc, err := drive.NewService(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return &APIClient[*drive.Service]{name: domain.ServiceDrive, version: "v3", api: svc}, nil
	},
	domain.ServiceSheets: func(ctx context.Context, _ *Factory, opts []option.ClientOption) (driven.ServiceClient, error) {
		svc, err := sheets.NewService(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return &APIClient[*sheets.Service]{name: domain.ServiceSheets, version: "v4", api: svc}, nil
	},
	domain.ServiceForms: func(ctx context.Context, _ *Factory, opts []option.ClientOption) (driven.ServiceClient, error) {
		svc, err := forms.NewService(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return &APIClient[*forms.Service]{name: domain.ServiceForms, version: "v1", api: svc}, nil
	},
}

// Factory builds Google API clients authorised by a TokenProvider.
type Factory struct {
	clientOpts []option.ClientOption
	rateLimit  domain.RateLimit
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithClientOptions appends options passed to every generated service,
// for example option.WithEndpoint in tests.
func WithClientOptions(opts ...option.ClientOption) FactoryOption {
	return func(f *Factory) {
		f.clientOpts = append(f.clientOpts, opts...)
	}
}

// WithRateLimit throttles the script client.
func WithRateLimit(cfg domain.RateLimit) FactoryOption {
	return func(f *Factory) {
		f.rateLimit = cfg
	}
}

// NewFactory creates a Factory.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewClient builds the client for name at version. Requests are authorised
// with tokens drawn from tokens; a nil provider leaves authentication to the
// client options.
func (f *Factory) NewClient(
	ctx context.Context,
	name domain.ServiceName,
	version string,
	tokens driven.TokenProvider,
) (driven.ServiceClient, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownService, name)
	}
	if supported := domain.DefaultVersions[name]; version != supported {
		return nil, fmt.Errorf("%w: %s %s (supported: %s)", ErrUnsupportedVersion, name, version, supported)
	}

	opts := make([]option.ClientOption, 0, len(f.clientOpts)+1)
	if tokens != nil {
		opts = append(opts, option.WithTokenSource(NewTokenSource(ctx, tokens)))
	}
	opts = append(opts, f.clientOpts...)

	client, err := build(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("create %s service: %w", name, err)
	}
	return client, nil
}
