package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"killrvideoit/domain"
	"killrvideoit/handlers"
	"killrvideoit/helpers"
	"killrvideoit/interfaces"
	"killrvideoit/interfaces/mock"
	"killrvideoit/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/benbjohnson/clock"
	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

var testApp = domain.AppIdentity{Name: "KillrVideo", InstanceID: "0"}

func endpointOf(t *testing.T, addr net.Addr) domain.Endpoint {
	t.Helper()
	endpoint, err := service.ParseEndpoint(addr.String())
	require.NoError(t, err)
	return endpoint
}

// startStorage accepts and drops connections, standing in for the Cassandra native port.
func startStorage(t *testing.T) domain.Endpoint {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = lis.Close() })
	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
	return endpointOf(t, lis.Addr())
}

// startBackend serves grpc.health.v1 reporting SERVING.
func startBackend(t *testing.T) domain.Endpoint {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := grpc.NewServer()
	hs := health.NewServer()
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(srv, hs)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)
	return endpointOf(t, lis.Addr())
}

// startEtcd serves the v2 keys API for one storage node and the given backends.
func startEtcd(t *testing.T, storage []domain.Endpoint, backends map[string]domain.Endpoint) domain.Endpoint {
	t.Helper()
	type node struct {
		Key   string `json:"key"`
		Value string `json:"value,omitempty"`
		Dir   bool   `json:"dir,omitempty"`
		Nodes []node `json:"nodes,omitempty"`
	}
	nodes := map[string]node{}
	dir := node{Key: "/" + domain.StorageDirectoryKey().String(), Dir: true}
	for i, e := range storage {
		dir.Nodes = append(dir.Nodes, node{Key: fmt.Sprintf("%s/%d", dir.Key, i), Value: e.String()})
	}
	if len(storage) > 0 {
		nodes[dir.Key] = dir
	}
	for name, e := range backends {
		key := "/" + domain.BackendKey(name, testApp).String()
		nodes[key] = node{Key: key, Value: e.String()}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, ok := nodes[r.URL.Path[len("/v2/keys"):]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errorCode":100,"message":"Key not found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"action": "get", "node": n})
	}))
	t.Cleanup(srv.Close)
	return endpointOf(t, srv.Listener.Addr())
}

func storageConnector() *mock.StorageConnectorMock {
	return &mock.StorageConnectorMock{
		ConnectFunc: func(ctx context.Context, endpoint domain.Endpoint) (interfaces.StorageSession, error) {
			return &mock.StorageSessionMock{
				EndpointFunc:    func() domain.Endpoint { return endpoint },
				ClusterNameFunc: func() string { return "killrvideo" },
			}, nil
		},
	}
}

func testConfig(registry domain.Endpoint, kind string) *Config {
	return &Config{
		RegistryHost:     registry.Address,
		RegistryPort:     registry.Port,
		RegistryKind:     kind,
		App:              testApp,
		PollInterval:     10 * time.Second,
		PresenceInterval: 10 * time.Second,
		ProbeTimeout:     time.Second,
		BootstrapTimeout: 10 * time.Second,
		StorageSelection: service.SelectionFirst,
		Services:         []string{domain.UserManagementService},
	}
}

func mockClock() *clock.Mock {
	c := clock.NewMock()
	c.Set(helpers.TestNow())
	return c
}

func TestRun_EtcdEnvironmentReady(t *testing.T) {
	storage := startStorage(t)
	backend := startBackend(t)
	registry := startEtcd(t, []domain.Endpoint{storage}, map[string]domain.Endpoint{domain.UserManagementService: backend})
	connector := storageConnector()

	err := run(context.Background(), testConfig(registry, registryEtcd), connector, mockClock(), log.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, connector.ConnectCalls(), 1)
	assert.Equal(t, storage, connector.ConnectCalls()[0].Endpoint)
}

func TestRun_RedisEnvironmentReady(t *testing.T) {
	storage := startStorage(t)
	backend := startBackend(t)
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set(domain.StorageDirectoryKey().Child("node1").String(), storage.String()))
	require.NoError(t, mr.Set(domain.BackendKey(domain.UserManagementService, testApp).String(), backend.String()))
	connector := storageConnector()

	registry, err := service.ParseEndpoint(mr.Addr())
	require.NoError(t, err)

	err = run(context.Background(), testConfig(registry, registryRedis), connector, mockClock(), log.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, connector.ConnectCalls(), 1)
	assert.Equal(t, storage, connector.ConnectCalls()[0].Endpoint)
}

func TestRun_RedisRegistrationsInSelectedDB(t *testing.T) {
	storage := startStorage(t)
	backend := startBackend(t)
	mr := miniredis.RunT(t)
	db := mr.DB(3)
	require.NoError(t, db.Set(domain.StorageDirectoryKey().Child("node1").String(), storage.String()))
	require.NoError(t, db.Set(domain.BackendKey(domain.UserManagementService, testApp).String(), backend.String()))
	connector := storageConnector()

	registry, err := service.ParseEndpoint(mr.Addr())
	require.NoError(t, err)
	cfg := testConfig(registry, registryRedis)
	cfg.RedisDB = 3

	err = run(context.Background(), cfg, connector, mockClock(), log.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, connector.ConnectCalls(), 1)
	assert.Equal(t, storage, connector.ConnectCalls()[0].Endpoint)
}

func TestRun_NoStorageRegistered(t *testing.T) {
	registry := startEtcd(t, nil, nil)
	connector := storageConnector()

	err := run(context.Background(), testConfig(registry, registryEtcd), connector, mockClock(), log.NewNopLogger())
	require.Error(t, err)
	assert.True(t, service.IsDependencyNotFoundError(err))
	assert.Empty(t, connector.ConnectCalls())
}

func TestRun_InvalidSelection(t *testing.T) {
	cfg := testConfig(domain.Endpoint{Address: "127.0.0.1", Port: 2379}, registryEtcd)
	cfg.StorageSelection = "random"
	err := run(context.Background(), cfg, storageConnector(), mockClock(), log.NewNopLogger())
	assert.True(t, service.IsBadParameterError(err))
}

func TestStatusServer(t *testing.T) {
	storage := startStorage(t)
	backend := startBackend(t)
	registry := startEtcd(t, []domain.Endpoint{storage}, map[string]domain.Endpoint{domain.UserManagementService: backend})
	cfg := testConfig(registry, registryEtcd)

	orchestrator, err := newOrchestrator(cfg, storageConnector(), mockClock(), log.NewNopLogger())
	require.NoError(t, err)
	res, err := orchestrator.Bootstrap(context.Background(), cfg.Services...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Close() })

	e, err := newStatusServer(res, orchestrator.PresenceOf(res.Locator), cfg, log.NewNopLogger())
	require.NoError(t, err)

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	t.Run("resources", func(t *testing.T) {
		rec := get("/v1/resources")
		require.Equal(t, http.StatusOK, rec.Code)
		var body handlers.ResourcesResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Len(t, body.Resources, 3)
		assert.Equal(t, string(domain.ResourceKindRegistry), body.Resources[0].Kind)
		assert.Equal(t, registry.Port, body.Resources[0].Port)
		assert.Equal(t, storage.Port, body.Resources[1].Port)
		assert.Equal(t, backend.Port, body.Resources[2].Port)
	})

	t.Run("presence", func(t *testing.T) {
		rec := get("/v1/services/UserManagementService/presence")
		require.Equal(t, http.StatusOK, rec.Code)
		var body handlers.PresenceResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.True(t, body.Present)
		assert.Equal(t, "killrvideo/services/UserManagementService/KillrVideo:0", body.Key)

		rec = get("/v1/services/CommentsService/presence")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.False(t, body.Present)
	})

	t.Run("health", func(t *testing.T) {
		rec := get("/v1/services/UserManagementService/health")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "SERVING", body["status"])
	})
}
