package services

import (
	"slices"

	"github.com/samber/lo"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
	"github.com/custodia-labs/gdp-connector/internal/core/ports/driven"
)

// Registry maps service names to initialised clients.
// It is built once per authentication and never modified afterwards.
type Registry struct {
	clients map[domain.ServiceName]driven.ServiceClient
}

// NewRegistry creates a registry holding the given clients, keyed by name.
func NewRegistry(clients ...driven.ServiceClient) *Registry {
	r := &Registry{clients: make(map[domain.ServiceName]driven.ServiceClient, len(clients))}
	for _, c := range clients {
		r.clients[c.Name()] = c
	}
	return r
}

// Get returns the client registered for name.
func (r *Registry) Get(name domain.ServiceName) (driven.ServiceClient, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.clients[name]
	return c, ok
}

// Script returns the script client, if one was built and can run functions.
func (r *Registry) Script() (driven.ScriptRunner, bool) {
	c, ok := r.Get(domain.ServiceScript)
	if !ok {
		return nil, false
	}
	runner, ok := c.(driven.ScriptRunner)
	return runner, ok
}

// Names returns the registered service names in sorted order.
func (r *Registry) Names() []domain.ServiceName {
	if r == nil {
		return nil
	}
	names := lo.Keys(r.clients)
	slices.Sort(names)
	return names
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.clients)
}
