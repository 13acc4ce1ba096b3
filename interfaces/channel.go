package interfaces

import (
	"context"

	"killrvideoit/domain"

	"google.golang.org/grpc"
)

// ChannelFactory builds an RPC channel to one validated, reachable backend endpoint.
// Implemented by adapters.PlaintextChannelFactory. Called from service.Orchestrator.ResolveBackend.
type ChannelFactory func(ctx context.Context, endpoint domain.Endpoint) (*grpc.ClientConn, error)
