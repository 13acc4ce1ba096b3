// Package handlers contains the read-only status API of the bootstrap.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"killrvideoit/adapters"
	"killrvideoit/domain"
	"killrvideoit/helpers"
	"killrvideoit/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"google.golang.org/protobuf/encoding/protojson"
)

// ResourceView is the part of service.Resources the status API reads.
type ResourceView interface {
	Reports() []domain.ResourceReport
	Channel(service string) (*service.BackendChannel, bool)
}

// PresenceChecker is implemented by service.Presence.
type PresenceChecker interface {
	CheckServicePresent(ctx context.Context, service string) (bool, error)
	ForgetService(service string)
	Key(service string) domain.RegistryKey
}

// HTTPServer serves the status API.
type HTTPServer struct {
	resources     ResourceView
	presence      PresenceChecker
	healthTimeout time.Duration
	logger        log.Logger
}

// NewHTTPServer creates a new HTTPServer. Panics on nil dependencies.
func NewHTTPServer(resources ResourceView, presence PresenceChecker, healthTimeout time.Duration, logger log.Logger) *HTTPServer {
	logger = log.WithPrefix(helpers.NilPanic(logger, "handlers.http.go: logger is required"), "component", "HTTPServer")
	return &HTTPServer{
		resources:     helpers.NilPanic(resources, "handlers.http.go: resources are required"),
		presence:      helpers.NilPanic(presence, "handlers.http.go: presence checker is required"),
		healthTimeout: healthTimeout,
		logger:        logger,
	}
}

// RegisterHandlers mounts the status routes on e.
func RegisterHandlers(e *echo.Echo, h *HTTPServer) {
	e.GET("/v1/resources", h.GetResources)
	e.GET("/v1/services/:service/presence", h.GetServicePresence)
	e.GET("/v1/services/:service/health", h.GetServiceHealth)
}

// GetResources (GET /v1/resources) lists the bootstrapped resources.
func (h *HTTPServer) GetResources(ectx echo.Context) error {
	return ectx.JSON(http.StatusOK, toResourcesResponse(h.resources.Reports()))
}

// GetServicePresence (GET /v1/services/{service}/presence) checks once whether the backend is registered
// and reachable. refresh=true drops a memoized positive answer first.
func (h *HTTPServer) GetServicePresence(ectx echo.Context) error {
	name := ectx.Param("service")
	if raw := ectx.QueryParam("refresh"); raw != "" {
		refresh, err := strconv.ParseBool(raw)
		if err != nil {
			return service.NewBadParameterError("refresh must be a boolean", err)
		}
		if refresh {
			h.presence.ForgetService(name)
		}
	}

	present, err := h.presence.CheckServicePresent(ectx.Request().Context(), name)
	if err != nil {
		return fmt.Errorf("getServicePresence failed to check %s, err: %w", name, err)
	}
	return ectx.JSON(http.StatusOK, PresenceResponse{
		Service: name,
		Key:     h.presence.Key(name).String(),
		Present: present,
	})
}

// GetServiceHealth (GET /v1/services/{service}/health) asks the bootstrapped channel for its
// grpc.health.v1 status and returns the protojson rendering of the answer.
func (h *HTTPServer) GetServiceHealth(ectx echo.Context) error {
	name := ectx.Param("service")
	channel, ok := h.resources.Channel(name)
	if !ok {
		return service.NewEntityNotFoundError(fmt.Sprintf("no channel was bootstrapped for %s", name), nil)
	}

	ctx := ectx.Request().Context()
	if h.healthTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.healthTimeout)
		defer cancel()
	}
	resp, err := adapters.CheckServing(ctx, channel.Conn, "")
	if err != nil {
		return fmt.Errorf("getServiceHealth failed for %s at %s, err: %w", name, channel.Endpoint, err)
	}
	body, err := protojson.Marshal(resp)
	if err != nil {
		return service.NewInternalServerError("cannot encode health response", err)
	}
	return ectx.JSONBlob(http.StatusOK, body)
}
