package handlers

import (
	"time"

	"killrvideoit/domain"
)

// ResourcesResponse is the body of GET /v1/resources.
type ResourcesResponse struct {
	Resources []ResourceInfo `json:"resources"`
}

// ResourceInfo is one bootstrapped resource.
type ResourceInfo struct {
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	Address string    `json:"address"`
	Port    int       `json:"port"`
	ReadyAt time.Time `json:"ready_at"`
}

// PresenceResponse is the body of GET /v1/services/{service}/presence.
type PresenceResponse struct {
	Service string `json:"service"`
	Key     string `json:"key"`
	Present bool   `json:"present"`
}

// toResourcesResponse converts domain reports to API response.
func toResourcesResponse(reports []domain.ResourceReport) ResourcesResponse {
	out := make([]ResourceInfo, 0, len(reports))
	for _, r := range reports {
		out = append(out, ResourceInfo{
			Name:    r.Name,
			Kind:    string(r.Kind),
			Address: r.Endpoint.Address,
			Port:    r.Endpoint.Port,
			ReadyAt: r.ReadyAt,
		})
	}
	return ResourcesResponse{Resources: out}
}
