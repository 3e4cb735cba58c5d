package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
)

// Registry manages service providers
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates a new service registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(name string, provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = provider
}

// List returns all registered provider names
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HealthCheckAll checks health of all registered providers
func (r *Registry) HealthCheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make(map[string]error)
	for name, provider := range r.providers {
		results[name] = provider.HealthCheck(ctx)
	}
	return results
}

// Ready reports whether every provider is healthy, plus a per-provider status map
func (r *Registry) Ready(ctx context.Context) (bool, map[string]string) {
	results := r.HealthCheckAll(ctx)

	ready := true
	statuses := make(map[string]string, len(results))
	for name, err := range results {
		if err != nil {
			ready = false
			statuses[name] = err.Error()
			continue
		}
		statuses[name] = "ok"
	}
	return ready, statuses
}

// CloseAll closes every provider and unregisters it
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, provider := range r.providers {
		if err := provider.Close(); err != nil {
			slog.Warn("failed to close provider", "provider", name, "error", err)
			errs = append(errs, err)
		}
		delete(r.providers, name)
	}
	return errors.Join(errs...)
}
