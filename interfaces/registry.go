package interfaces

import (
	"context"

	"killrvideoit/domain"
)

// Registry is a read-only client of the key/value directory service used for service discovery.
//
// Get reads a single key; List reads the direct children of a directory key. Both distinguish
// "registry unreachable" (error, service.ErrRegistryUnavailable) from "key absent" (not found / empty list).
//
// Implemented by adapters.EtcdHTTP (etcd v2 keys API) and adapters/myredis.NewRegistry. Called from
// service.RegistryLocator.
//
//go:generate moq -stub -out mock/registry.go -pkg mock . Registry
type Registry interface {
	// Get returns the raw value stored at key.
	// Returns: (value, true, nil) when the key is registered; ("", false, nil) when absent or when key is a directory;
	// ("", false, registry_unavailable) when the registry cannot be queried.
	Get(ctx context.Context, key domain.RegistryKey) (string, bool, error)

	// List returns the entries registered directly under the directory key, in the order the registry returned them.
	// Returns: (entries, nil), possibly empty for an absent or empty directory; (nil, registry_unavailable) on failure.
	List(ctx context.Context, key domain.RegistryKey) ([]domain.RegistrationEntry, error)

	// Close releases the underlying connection(s). Called from service.Resources.Close.
	Close() error
}

// RegistryFactory builds a registry client bound to an already validated and reachable endpoint.
// Called from service.Orchestrator.ResolveRegistry after the readiness gate returns.
type RegistryFactory func(endpoint domain.Endpoint) (Registry, error)
