package service

import (
	"errors"
	"fmt"
	"time"

	"killrvideoit/domain"
	"killrvideoit/interfaces"

	"google.golang.org/grpc"
)

// BackendChannel is the RPC channel to one logical service, bound to a validated and reachable endpoint.
type BackendChannel struct {
	Service  string
	Key      domain.RegistryKey
	Endpoint domain.Endpoint
	Conn     *grpc.ClientConn
}

// Close closes the underlying connection.
func (c *BackendChannel) Close() error {
	if c == nil || c.Conn == nil {
		return nil
	}
	return c.Conn.Close()
}

// Resources holds everything a bootstrap produced. It is not modified after Bootstrap returns and may be
// shared between goroutines; the caller owns it and must call Close on shutdown.
type Resources struct {
	Locator  *RegistryLocator
	Storage  interfaces.StorageSession
	Channels map[string]*BackendChannel

	reports []domain.ResourceReport
}

func newResources() *Resources {
	return &Resources{Channels: make(map[string]*BackendChannel)}
}

func (r *Resources) report(name string, kind domain.ResourceKind, endpoint domain.Endpoint, at time.Time) {
	r.reports = append(r.reports, domain.ResourceReport{Name: name, Kind: kind, Endpoint: endpoint, ReadyAt: at.UTC()})
}

// Channel returns the channel built for service.
func (r *Resources) Channel(service string) (*BackendChannel, bool) {
	c, ok := r.Channels[service]
	return c, ok
}

// Reports lists the bootstrapped resources in the order they became ready.
func (r *Resources) Reports() []domain.ResourceReport {
	out := make([]domain.ResourceReport, len(r.reports))
	copy(out, r.reports)
	return out
}

// Close releases channels, the storage session and the registry client. Errors are joined.
func (r *Resources) Close() error {
	var errs []error
	for name, c := range r.Channels {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel %s: %w", name, err))
		}
	}
	if r.Storage != nil {
		r.Storage.Close()
	}
	if r.Locator != nil {
		if err := r.Locator.Registry().Close(); err != nil {
			errs = append(errs, fmt.Errorf("close registry: %w", err))
		}
	}
	return errors.Join(errs...)
}
