package service

import (
	"context"
	"fmt"

	"killrvideoit/domain"
	"killrvideoit/helpers"
	"killrvideoit/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// RegistryLocator resolves endpoint registrations through a registry client. It holds no mutable state
// and is safe for concurrent use once built.
type RegistryLocator struct {
	registry interfaces.Registry
	prober   interfaces.Prober
	logger   log.Logger
}

// NewRegistryLocator creates a locator over registry, probing with prober. Panics on nil dependencies.
func NewRegistryLocator(registry interfaces.Registry, prober interfaces.Prober, logger log.Logger) *RegistryLocator {
	return &RegistryLocator{
		registry: helpers.NilPanic(registry, "service.locator.go: registry is required"),
		prober:   helpers.NilPanic(prober, "service.locator.go: prober is required"),
		logger:   log.With(helpers.NilPanic(logger, "service.locator.go: logger is required"), "component", "registry_locator"),
	}
}

// Registry returns the underlying registry client.
func (l *RegistryLocator) Registry() interfaces.Registry {
	return l.registry
}

// GetSingle returns the raw value registered at key and whether it was present.
//
// Parameters: ctx bounds the registry request; key is the full registry path (e.g. /killrvideo/services/...).
//
// Returns: (value, true, nil) when present; ("", false, nil) when absent; registry_unavailable when the
// registry cannot be read, distinct from an absent key.
//
// Called from Resolve and from the status API through Orchestrator presence checks.
func (l *RegistryLocator) GetSingle(ctx context.Context, key domain.RegistryKey) (string, bool, error) {
	value, found, err := l.registry.Get(ctx, key)
	if err != nil {
		return "", false, NewRegistryUnavailableError(fmt.Sprintf("cannot read key %s", key), err)
	}
	return value, found, nil
}

// ListDirectory returns every entry registered under key.
//
// Parameters: ctx bounds the registry request; key is a directory path such as /killrvideo/services/cassandra.
//
// Returns: the entries in registry order (empty, never nil, when the directory is absent or has no children);
// registry_unavailable on registry failure.
//
// Called from Orchestrator.ResolveStorage.
func (l *RegistryLocator) ListDirectory(ctx context.Context, key domain.RegistryKey) ([]domain.RegistrationEntry, error) {
	entries, err := l.registry.List(ctx, key)
	if err != nil {
		return nil, NewRegistryUnavailableError(fmt.Sprintf("cannot list directory %s", key), err)
	}
	if entries == nil {
		entries = []domain.RegistrationEntry{}
	}
	return entries, nil
}

// Resolve reads key and parses its value as an endpoint.
//
// Parameters: ctx bounds the registry request; key is the registration to resolve.
//
// Returns: the parsed endpoint; dependency_not_found when the key is absent; bad_format when the value is
// not an address:port; registry_unavailable on registry failure.
//
// Called from probeKey.
func (l *RegistryLocator) Resolve(ctx context.Context, key domain.RegistryKey) (domain.Endpoint, error) {
	value, found, err := l.GetSingle(ctx, key)
	if err != nil {
		return domain.Endpoint{}, err
	}
	if !found {
		return domain.Endpoint{}, NewDependencyNotFoundError(fmt.Sprintf("cannot look up %s in the registry", key), nil)
	}
	return ParseEndpoint(value)
}

// IsRegisteredAndReachable reports whether key is registered with a well-formed endpoint that accepts a
// connection right now (one probe, no waiting).
//
// Parameters: ctx bounds the registry request and the probe; key is the backend registration.
//
// Returns: false for absent keys, malformed values and unreachable endpoints; only a registry failure is
// returned as an error.
//
// Called from Orchestrator.CheckServicePresent.
func (l *RegistryLocator) IsRegisteredAndReachable(ctx context.Context, key domain.RegistryKey) (bool, error) {
	_, ok, err := l.probeKey(ctx, key)
	if IsFormatError(err) {
		level.Warn(l.logger).Log("msg", "registered value is malformed", "key", key, "err", err)
		return false, nil
	}
	return ok, err
}

// probeKey resolves key and probes the endpoint once. An absent key is (zero, false, nil); a malformed
// value is returned as bad_format so waiting callers stop instead of retrying it.
func (l *RegistryLocator) probeKey(ctx context.Context, key domain.RegistryKey) (domain.Endpoint, bool, error) {
	endpoint, err := l.Resolve(ctx, key)
	switch {
	case IsDependencyNotFoundError(err):
		level.Debug(l.logger).Log("msg", "key is not registered", "key", key)
		return domain.Endpoint{}, false, nil
	case err != nil:
		return domain.Endpoint{}, false, err
	}
	if !l.prober.Probe(ctx, endpoint) {
		return endpoint, false, nil
	}
	return endpoint, true, nil
}
