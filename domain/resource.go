package domain

import "time"

// ResourceKind tells which kind of long-lived handle a bootstrap stage produced.
type ResourceKind string

const (
	ResourceKindRegistry ResourceKind = "registry"
	ResourceKindStorage  ResourceKind = "storage"
	ResourceKindChannel  ResourceKind = "rpc_channel"
)

// ResourceReport describes one bootstrapped resource (used by the status API).
type ResourceReport struct {
	Name     string
	Kind     ResourceKind
	Endpoint Endpoint
	ReadyAt  time.Time
}
