package handlers

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"killrvideoit/adapters"
	"killrvideoit/domain"
	"killrvideoit/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

var testApp = domain.AppIdentity{Name: "KillrVideo", InstanceID: "0"}

type fakeResources struct {
	reports  []domain.ResourceReport
	channels map[string]*service.BackendChannel
}

func (f *fakeResources) Reports() []domain.ResourceReport { return f.reports }

func (f *fakeResources) Channel(name string) (*service.BackendChannel, bool) {
	c, ok := f.channels[name]
	return c, ok
}

type fakePresence struct {
	mu        sync.Mutex
	present   map[string]bool
	err       error
	forgotten []string
}

func (f *fakePresence) CheckServicePresent(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.present[name], f.err
}

func (f *fakePresence) ForgetService(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgotten = append(f.forgotten, name)
}

func (f *fakePresence) Key(name string) domain.RegistryKey {
	return domain.BackendKey(name, testApp)
}

func newEcho(t *testing.T, h *HTTPServer) *echo.Echo {
	t.Helper()
	doc, err := LoadOpenAPI()
	require.NoError(t, err)
	validator, err := NewRequestValidator(doc)
	require.NoError(t, err)

	e := echo.New()
	e.Use(validator)
	RegisterHandlers(e, h)
	service.RegisterErrorHandler(e, log.NewNopLogger())
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) *service.MyError {
	t.Helper()
	var body service.ErrResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Error)
	return body.Error
}

func TestNewHTTPServer_Panics(t *testing.T) {
	logger := log.NewNopLogger()
	t.Run("resources_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "handlers.http.go: resources are required", func() {
			NewHTTPServer(nil, &fakePresence{}, time.Second, logger)
		})
	})
	t.Run("presence_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "handlers.http.go: presence checker is required", func() {
			NewHTTPServer(&fakeResources{}, nil, time.Second, logger)
		})
	})
}

func TestHTTPServer_GetResources(t *testing.T) {
	ts := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	res := &fakeResources{reports: []domain.ResourceReport{
		{Name: "Etcd", Kind: domain.ResourceKindRegistry, Endpoint: domain.Endpoint{Address: "10.0.75.1", Port: 2379}, ReadyAt: ts},
		{Name: domain.UserManagementService, Kind: domain.ResourceKindChannel, Endpoint: domain.Endpoint{Address: "10.0.75.1", Port: 50101}, ReadyAt: ts},
	}}
	e := newEcho(t, NewHTTPServer(res, &fakePresence{}, time.Second, log.NewNopLogger()))

	rec := get(e, "/v1/resources")
	require.Equal(t, http.StatusOK, rec.Code)
	var body ResourcesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Resources, 2)
	assert.Equal(t, "registry", body.Resources[0].Kind)
	assert.Equal(t, 50101, body.Resources[1].Port)
	assert.True(t, ts.Equal(body.Resources[1].ReadyAt))
}

func TestHTTPServer_GetServicePresence(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		presence       *fakePresence
		expectedStatus int
		wantPresent    bool
		wantCode       string
		wantForgotten  []string
	}{
		{
			name:           "present",
			target:         "/v1/services/UserManagementService/presence",
			presence:       &fakePresence{present: map[string]bool{domain.UserManagementService: true}},
			expectedStatus: http.StatusOK,
			wantPresent:    true,
		},
		{
			name:           "absent",
			target:         "/v1/services/CommentsService/presence",
			presence:       &fakePresence{},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "refresh_forgets_first",
			target:         "/v1/services/UserManagementService/presence?refresh=true",
			presence:       &fakePresence{present: map[string]bool{domain.UserManagementService: true}},
			expectedStatus: http.StatusOK,
			wantPresent:    true,
			wantForgotten:  []string{domain.UserManagementService},
		},
		{
			name:           "400 refresh not a boolean",
			target:         "/v1/services/UserManagementService/presence?refresh=maybe",
			presence:       &fakePresence{},
			expectedStatus: http.StatusBadRequest,
			wantCode:       service.ErrBadParameter,
		},
		{
			name:           "400 service name not matching pattern",
			target:         "/v1/services/user-service/presence",
			presence:       &fakePresence{},
			expectedStatus: http.StatusBadRequest,
			wantCode:       service.ErrBadParameter,
		},
		{
			name:           "503 registry unavailable",
			target:         "/v1/services/UserManagementService/presence",
			presence:       &fakePresence{err: service.NewRegistryUnavailableError("etcd down", nil)},
			expectedStatus: http.StatusServiceUnavailable,
			wantCode:       service.ErrRegistryUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho(t, NewHTTPServer(&fakeResources{}, tt.presence, time.Second, log.NewNopLogger()))
			rec := get(e, tt.target)
			require.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeErr(t, rec).Code)
				return
			}
			var body PresenceResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantPresent, body.Present)
			assert.Equal(t, domain.BackendKey(body.Service, testApp).String(), body.Key)
			assert.Equal(t, tt.wantForgotten, tt.presence.forgotten)
		})
	}
}

func TestHTTPServer_GetServiceHealth(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := grpc.NewServer()
	hs := health.NewServer()
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(srv, hs)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	endpoint, err := service.ParseEndpoint(lis.Addr().String())
	require.NoError(t, err)
	conn, err := adapters.PlaintextChannelFactory()(context.Background(), endpoint)
	require.NoError(t, err)
	channel := &service.BackendChannel{Service: domain.UserManagementService, Endpoint: endpoint, Conn: conn}
	t.Cleanup(func() { _ = channel.Close() })

	res := &fakeResources{channels: map[string]*service.BackendChannel{domain.UserManagementService: channel}}
	e := newEcho(t, NewHTTPServer(res, &fakePresence{}, 5*time.Second, log.NewNopLogger()))

	t.Run("serving", func(t *testing.T) {
		rec := get(e, "/v1/services/UserManagementService/health")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "SERVING", body["status"])
	})

	t.Run("404 no channel", func(t *testing.T) {
		rec := get(e, "/v1/services/CommentsService/health")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, service.ErrEntityNotFound, decodeErr(t, rec).Code)
	})

	t.Run("404 unknown route", func(t *testing.T) {
		rec := get(e, "/v1/unknown")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
