package domain

// Registry layout used by KillrVideo.
const (
	ServicesRoot       RegistryKey = "killrvideo/services"
	StorageServiceName             = "cassandra"
)

// Logical names of the KillrVideo gRPC services.
const (
	UserManagementService = "UserManagementService"
	VideoCatalogService   = "VideoCatalogService"
	CommentsService       = "CommentsService"
	RatingsService        = "RatingsService"
	StatisticsService     = "StatisticsService"
	SearchService         = "SearchService"
	SuggestedVideoService = "SuggestedVideoService"
)

// KnownServices lists every logical service name a KillrVideo server may register.
var KnownServices = []string{
	UserManagementService,
	VideoCatalogService,
	CommentsService,
	RatingsService,
	StatisticsService,
	SearchService,
	SuggestedVideoService,
}

// AppIdentity identifies one running application instance; rendered as Name:InstanceID.
type AppIdentity struct {
	Name       string
	InstanceID string
}

func (a AppIdentity) String() string {
	return a.Name + ":" + a.InstanceID
}

// StorageDirectoryKey is the registry directory holding storage cluster registrations.
func StorageDirectoryKey() RegistryKey {
	return ServicesRoot.Child(StorageServiceName)
}

// BackendKey is the registry key of one RPC backend: killrvideo/services/<service>/<app>:<instance>.
//
// Parameters: service is a logical name from KnownServices (other names are allowed); app is the
// application identity the backend registered under.
//
// Returns: the key looked up by presence checks and ResolveBackend.
//
// Called from service.Orchestrator and service.Presence.
func BackendKey(service string, app AppIdentity) RegistryKey {
	return ServicesRoot.Child(service).Child(app.String())
}
