package adapters

import (
	"context"

	"killrvideoit/domain"
	"killrvideoit/interfaces"
	"killrvideoit/service"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// PlaintextChannelFactory returns an interfaces.ChannelFactory building unencrypted gRPC clients bound to
// exactly one endpoint. extra options are appended after the transport credentials.
//
// Called from service.Orchestrator.ResolveBackend once the backend is registered and reachable.
func PlaintextChannelFactory(extra ...grpc.DialOption) interfaces.ChannelFactory {
	return func(ctx context.Context, endpoint domain.Endpoint) (*grpc.ClientConn, error) {
		opts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, extra...)
		// passthrough keeps the literal address: no DNS resolution, no load balancing across hosts
		conn, err := grpc.NewClient("passthrough:///"+endpoint.String(), opts...)
		if err != nil {
			return nil, service.NewInternalServerError("cannot create channel to "+endpoint.String(), err)
		}
		return conn, nil
	}
}

// CheckServing asks the backend's grpc.health.v1 service for the serving status of serviceName ("" for the
// whole server).
//
// Returns: (response, nil) on any answer; entity_not_found when the backend has no health service or does not
// know serviceName; timeout when ctx expires; internal_server_error otherwise.
func CheckServing(ctx context.Context, conn grpc.ClientConnInterface, serviceName string) (*grpc_health_v1.HealthCheckResponse, error) {
	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: serviceName})
	if err == nil {
		return resp, nil
	}
	switch status.Code(err) {
	case codes.Unimplemented:
		return nil, service.NewEntityNotFoundError("backend does not expose grpc.health.v1", err)
	case codes.NotFound:
		return nil, service.NewEntityNotFoundError("backend does not know service "+serviceName, err)
	case codes.DeadlineExceeded, codes.Canceled:
		return nil, service.NewTimeoutError("health check did not complete", err)
	default:
		return nil, service.NewInternalServerError("health check failed", err)
	}
}
