package services

import (
	"context"
)

// Provider is an infrastructure dependency the server needs to be ready
type Provider interface {
	// Type returns the service type name
	Type() string

	// HealthCheck checks if the service is available
	HealthCheck(ctx context.Context) error

	// Close releases the underlying connection
	Close() error
}

// BaseProvider provides common functionality for providers
type BaseProvider struct {
	serviceType string
}

// Type returns the service type
func (p *BaseProvider) Type() string {
	return p.serviceType
}

// PingProvider adapts any ping function, such as Repository.Ping, to a Provider
type PingProvider struct {
	BaseProvider
	ping func(ctx context.Context) error
}

// NewPingProvider creates a provider whose health check calls ping
func NewPingProvider(serviceType string, ping func(ctx context.Context) error) *PingProvider {
	return &PingProvider{
		BaseProvider: BaseProvider{serviceType: serviceType},
		ping:         ping,
	}
}

// HealthCheck calls the wrapped ping function
func (p *PingProvider) HealthCheck(ctx context.Context) error {
	return p.ping(ctx)
}

// Close is a no-op; the owner of the ping target closes it
func (p *PingProvider) Close() error {
	return nil
}
