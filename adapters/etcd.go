package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"killrvideoit/domain"
	"killrvideoit/helpers"
	"killrvideoit/interfaces"
	"killrvideoit/service"
)

// EtcdHTTP creates an interfaces.Registry that reads the etcd v2 keys API: GET baseURL/v2/keys/<key>.
// Panics on empty baseURL or nil client.
//
// Parameters: baseURL is the registry base URL (e.g. http://10.0.75.1:2379); client is the HTTP client
// (main sets the probe timeout on it).
//
// Called from cmd/main through the registry factory once the registry endpoint accepts connections.
func EtcdHTTP(baseURL string, client *http.Client) interfaces.Registry {
	return &etcdHTTP{
		baseURL: strings.TrimRight(helpers.StrPanic(baseURL, "adapters.etcd.go: baseURL is required"), "/"),
		client:  helpers.NilPanic(client, "adapters.etcd.go: http client is required"),
	}
}

// EtcdFactory returns the interfaces.RegistryFactory building EtcdHTTP clients for a resolved endpoint.
func EtcdFactory(client *http.Client) interfaces.RegistryFactory {
	helpers.NilPanic(client, "adapters.etcd.go: http client is required")
	return func(endpoint domain.Endpoint) (interfaces.Registry, error) {
		return EtcdHTTP("http://"+endpoint.String(), client), nil
	}
}

type etcdHTTP struct {
	baseURL string
	client  *http.Client
}

// etcdResponse is the JSON shape of a v2 keys read: { "action": "get", "node": { ... } }.
type etcdResponse struct {
	Node etcdNode `json:"node"`
}

type etcdNode struct {
	Key   string     `json:"key"`
	Value string     `json:"value"`
	Dir   bool       `json:"dir"`
	Nodes []etcdNode `json:"nodes"`
}

// Get returns the value of key. A directory key is reported as not found.
func (r *etcdHTTP) Get(ctx context.Context, key domain.RegistryKey) (string, bool, error) {
	node, found, err := r.read(ctx, key)
	if err != nil || !found {
		return "", false, err
	}
	if node.Dir {
		return "", false, nil
	}
	return node.Value, true, nil
}

// List returns the leaf children of the directory key. An absent key yields an empty list.
func (r *etcdHTTP) List(ctx context.Context, key domain.RegistryKey) ([]domain.RegistrationEntry, error) {
	node, found, err := r.read(ctx, key)
	if err != nil {
		return nil, err
	}
	out := []domain.RegistrationEntry{}
	if !found || !node.Dir {
		return out, nil
	}
	for _, child := range node.Nodes {
		if child.Dir {
			continue
		}
		out = append(out, domain.RegistrationEntry{
			Key:   domain.NewRegistryKey(child.Key),
			Value: child.Value,
		})
	}
	return out, nil
}

// Close is a no-op; the http client is owned by the caller.
func (r *etcdHTTP) Close() error {
	return nil
}

func (r *etcdHTTP) read(ctx context.Context, key domain.RegistryKey) (etcdNode, bool, error) {
	reqURL := r.baseURL + "/v2/keys/" + key.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return etcdNode{}, false, service.NewRegistryUnavailableError("cannot build registry request", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return etcdNode{}, false, service.NewRegistryUnavailableError(fmt.Sprintf("cannot read %s", key), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		// etcd answers 404 (errorCode 100) for a missing key.
		_, _ = io.Copy(io.Discard, resp.Body)
		return etcdNode{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return etcdNode{}, false, service.NewRegistryUnavailableError(fmt.Sprintf("registry returned %d for %s", resp.StatusCode, key), nil)
	}
	var raw etcdResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return etcdNode{}, false, service.NewRegistryUnavailableError(fmt.Sprintf("cannot decode registry response for %s", key), err)
	}
	return raw.Node, true, nil
}
