package interfaces

import (
	"context"

	"killrvideoit/domain"
)

// StorageSession is the long-lived storage cluster session produced by bootstrap. Safe for concurrent use.
//
//go:generate moq -stub -out mock/storage.go -pkg mock . StorageSession StorageConnector
type StorageSession interface {
	// Endpoint returns the validated, reachability-confirmed endpoint the session is bound to.
	Endpoint() domain.Endpoint
	// ClusterName returns the cluster identity the session was created with.
	ClusterName() string
	// Close releases the session. Called from service.Resources.Close.
	Close()
}

// StorageConnector opens a storage session against one endpoint and makes sure the expected schema exists.
// Schema creation must be idempotent ("create if absent") because it runs on every bootstrap.
//
// Implemented by adapters/cassandra.Connector. Called from service.Orchestrator.ResolveStorage.
type StorageConnector interface {
	Connect(ctx context.Context, endpoint domain.Endpoint) (StorageSession, error)
}
