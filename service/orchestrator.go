package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"killrvideoit/domain"
	"killrvideoit/helpers"
	"killrvideoit/interfaces"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// DefaultWaitTime is the pause between two readiness probes or two presence checks.
const DefaultWaitTime = 10 * time.Second

// Labels used in progress notices and error messages.
const (
	registryLabel = "Etcd"
	storageLabel  = "Cassandra"
	backendLabel  = "KillrVideoServer"
)

// OrchestratorConfig is the configuration snapshot consumed by the bootstrap.
type OrchestratorConfig struct {
	// RegistryHost and RegistryPort locate the registry; the pair must form a valid A.B.C.D:P endpoint.
	RegistryHost string
	RegistryPort int
	// App is the identity RPC backends register under (applicationName:instanceId).
	App domain.AppIdentity
	// PollInterval separates two probes of the readiness gate. Defaults to DefaultWaitTime.
	PollInterval time.Duration
	// PresenceInterval separates two backend presence checks. Defaults to DefaultWaitTime.
	PresenceInterval time.Duration
	// SettleDelay is waited after a backend is found reachable and before its channel is built.
	SettleDelay time.Duration
	// StorageSelector picks one storage registration among several. Defaults to SelectFirst.
	StorageSelector EntrySelector
}

// Orchestrator runs the bootstrap stages in order: registry, storage, then each RPC backend.
// A failing stage aborts the bootstrap; the only retries are the polling loops of the readiness gate.
type Orchestrator struct {
	cfg         OrchestratorConfig
	newRegistry interfaces.RegistryFactory
	storage     interfaces.StorageConnector
	newChannel  interfaces.ChannelFactory
	prober      interfaces.Prober
	clock       interfaces.Clock
	gate        *ReadinessGate
	cache       *ReadinessCache
	base        log.Logger
	logger      log.Logger
}

// NewOrchestrator creates an orchestrator. Non-positive intervals fall back to DefaultWaitTime and a nil
// StorageSelector to SelectFirst.
//
// Parameters: cfg is the registry location and wait tuning; newRegistry builds the registry client once its
// endpoint is reachable; storage opens the storage session; newChannel builds backend channels; prober and
// clock drive every wait; logger is tagged per component.
//
// Returns: a ready orchestrator. Panics on nil dependencies.
//
// Called from cmd.newOrchestrator.
func NewOrchestrator(
	cfg OrchestratorConfig,
	newRegistry interfaces.RegistryFactory,
	storage interfaces.StorageConnector,
	newChannel interfaces.ChannelFactory,
	prober interfaces.Prober,
	clock interfaces.Clock,
	logger log.Logger,
) *Orchestrator {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultWaitTime
	}
	if cfg.PresenceInterval <= 0 {
		cfg.PresenceInterval = DefaultWaitTime
	}
	if cfg.StorageSelector == nil {
		cfg.StorageSelector = SelectFirst
	}
	base := helpers.NilPanic(logger, "service.orchestrator.go: logger is required")
	prober = helpers.NilPanic(prober, "service.orchestrator.go: prober is required")
	clock = helpers.NilPanic(clock, "service.orchestrator.go: clock is required")
	return &Orchestrator{
		cfg:         cfg,
		newRegistry: helpers.NilPanic(newRegistry, "service.orchestrator.go: registry factory is required"),
		storage:     helpers.NilPanic(storage, "service.orchestrator.go: storage connector is required"),
		newChannel:  helpers.NilPanic(newChannel, "service.orchestrator.go: channel factory is required"),
		prober:      prober,
		clock:       clock,
		gate:        NewReadinessGate(prober, clock, base),
		cache:       NewReadinessCache(),
		base:        base,
		logger:      log.With(base, "component", "orchestrator"),
	}
}

// dependency is one thing the orchestrator waits for: registry, storage cluster or RPC backend.
// resolve returns a validated endpoint and whether it was already confirmed reachable.
type dependency struct {
	label   string
	resolve func(ctx context.Context) (endpoint domain.Endpoint, probed bool, err error)
}

// acquire resolves dep, gates on its endpoint unless resolve already probed it, then builds the resource.
func acquire[R any](ctx context.Context, o *Orchestrator, dep dependency, build func(ctx context.Context, endpoint domain.Endpoint) (R, error)) (R, domain.Endpoint, error) {
	var zero R
	endpoint, probed, err := dep.resolve(ctx)
	if err != nil {
		return zero, domain.Endpoint{}, fmt.Errorf("resolve %s: %w", dep.label, err)
	}
	if !probed {
		if err := o.gate.WaitUntilReady(ctx, dep.label, endpoint, o.cfg.PollInterval); err != nil {
			return zero, endpoint, fmt.Errorf("wait for %s at %s: %w", dep.label, endpoint, err)
		}
	}
	resource, err := build(ctx, endpoint)
	if err != nil {
		return zero, endpoint, fmt.Errorf("connect to %s at %s: %w", dep.label, endpoint, err)
	}
	level.Info(o.logger).Log("msg", "dependency ready", "service", dep.label, "endpoint", endpoint)
	return resource, endpoint, nil
}

// ResolveRegistry validates the configured registry endpoint, waits until it accepts connections and
// builds the registry client.
//
// Parameters: ctx bounds the wait.
//
// Returns: a locator over the new registry client; bad_parameter when no host is configured; bad_format when
// host:port is not a valid endpoint; timeout when ctx is done before the registry answers;
// registry_unavailable when the client cannot be built.
//
// Called from Bootstrap.
func (o *Orchestrator) ResolveRegistry(ctx context.Context) (*RegistryLocator, error) {
	dep := dependency{
		label: registryLabel,
		resolve: func(ctx context.Context) (domain.Endpoint, bool, error) {
			if o.cfg.RegistryHost == "" {
				return domain.Endpoint{}, false, NewBadParameterError("registry host is not configured", nil)
			}
			endpoint, err := ParseEndpoint(o.cfg.RegistryHost + ":" + strconv.Itoa(o.cfg.RegistryPort))
			return endpoint, false, err
		},
	}
	locator, _, err := acquire(ctx, o, dep, func(ctx context.Context, endpoint domain.Endpoint) (*RegistryLocator, error) {
		level.Info(o.logger).Log("msg", "creating connection to registry", "endpoint", endpoint)
		registry, err := o.newRegistry(endpoint)
		if err != nil {
			return nil, NewRegistryUnavailableError("cannot create registry client", err)
		}
		return NewRegistryLocator(registry, o.prober, o.base), nil
	})
	return locator, err
}

// ResolveStorage lists the storage directory, picks one registration with the configured selector,
// waits until it accepts connections and opens the storage session (schema bootstrap included).
//
// Parameters: ctx bounds the wait; locator is the result of ResolveRegistry.
//
// Returns: the open session; dependency_not_found when nothing is registered; bad_format for a malformed
// registration; the selector's error; timeout; or the connector's error.
//
// Called from Bootstrap.
func (o *Orchestrator) ResolveStorage(ctx context.Context, locator *RegistryLocator) (interfaces.StorageSession, error) {
	helpers.NilPanic(locator, "service.orchestrator.go: locator is required")
	dir := domain.StorageDirectoryKey()
	dep := dependency{
		label: storageLabel,
		resolve: func(ctx context.Context) (domain.Endpoint, bool, error) {
			entries, err := locator.ListDirectory(ctx, dir)
			if err != nil {
				return domain.Endpoint{}, false, err
			}
			if len(entries) == 0 {
				return domain.Endpoint{}, false, NewDependencyNotFoundError(
					fmt.Sprintf("cannot find any %s service under %s, please wait until %s has successfully started", storageLabel, dir, storageLabel), nil)
			}
			if len(entries) > 1 {
				level.Warn(o.logger).Log("msg", "several storage registrations found", "dir", dir, "count", len(entries))
			}
			entry, err := o.cfg.StorageSelector(dir, entries)
			if err != nil {
				return domain.Endpoint{}, false, err
			}
			endpoint, err := ParseEndpoint(entry.Value)
			return endpoint, false, err
		},
	}
	session, _, err := acquire(ctx, o, dep, o.storage.Connect)
	return session, err
}

// ResolveBackend waits until service is registered under the application identity and reachable, then
// builds its RPC channel. The probe made by the successful presence check is the readiness confirmation.
//
// Parameters: ctx bounds the wait and the settle delay; locator is the result of ResolveRegistry; service is
// a KillrVideo service name such as "UserManagementService".
//
// Returns: the channel; bad_format at once when the registered value is malformed; registry_unavailable on
// registry failure; timeout when ctx is done first.
//
// Called from Bootstrap.
func (o *Orchestrator) ResolveBackend(ctx context.Context, locator *RegistryLocator, service string) (*BackendChannel, error) {
	helpers.NilPanic(locator, "service.orchestrator.go: locator is required")
	key := domain.BackendKey(service, o.cfg.App)
	label := backendLabel + " " + service
	dep := dependency{
		label: label,
		resolve: func(ctx context.Context) (domain.Endpoint, bool, error) {
			var endpoint domain.Endpoint
			check := func(ctx context.Context) (bool, error) {
				ep, ok, err := locator.probeKey(ctx, key)
				if ok {
					endpoint = ep
				}
				return ok, err
			}
			level.Info(o.logger).Log("msg", "waiting for service registration", "service", service, "key", key)
			if err := o.gate.Poll(ctx, label, check, backoff.NewConstantBackOff(o.cfg.PresenceInterval)); err != nil {
				return domain.Endpoint{}, false, err
			}
			return endpoint, true, nil
		},
	}
	channel, _, err := acquire(ctx, o, dep, func(ctx context.Context, endpoint domain.Endpoint) (*BackendChannel, error) {
		if err := o.settle(ctx, label); err != nil {
			return nil, err
		}
		conn, err := o.newChannel(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		return &BackendChannel{Service: service, Key: key, Endpoint: endpoint, Conn: conn}, nil
	})
	return channel, err
}

func (o *Orchestrator) settle(ctx context.Context, label string) error {
	if o.cfg.SettleDelay <= 0 {
		return nil
	}
	level.Info(o.logger).Log("msg", "waiting for complete startup", "service", label, "delay", o.cfg.SettleDelay)
	select {
	case <-ctx.Done():
		return NewTimeoutError(fmt.Sprintf("interrupted while waiting for %s startup", label), ctx.Err())
	case <-o.clock.After(o.cfg.SettleDelay):
		return nil
	}
}

// CheckServicePresent reports whether service is registered and reachable, memoizing positive answers
// for the lifetime of the orchestrator. It never waits.
//
// Returns: false for absent, malformed or unreachable registrations; an error only on registry failure.
//
// Called from Presence and the status API.
func (o *Orchestrator) CheckServicePresent(ctx context.Context, locator *RegistryLocator, service string) (bool, error) {
	helpers.NilPanic(locator, "service.orchestrator.go: locator is required")
	key := domain.BackendKey(service, o.cfg.App)
	return o.cache.CheckOnce(ctx, service, func(ctx context.Context) (bool, error) {
		return locator.IsRegisteredAndReachable(ctx, key)
	})
}

// ForgetService drops the memoized presence of service.
func (o *Orchestrator) ForgetService(service string) {
	o.cache.Forget(service)
}

// Presence binds CheckServicePresent and ForgetService to one locator.
type Presence struct {
	o       *Orchestrator
	locator *RegistryLocator
}

// PresenceOf returns the presence checks of o bound to locator.
func (o *Orchestrator) PresenceOf(locator *RegistryLocator) *Presence {
	return &Presence{o: o, locator: helpers.NilPanic(locator, "service.orchestrator.go: locator is required")}
}

// CheckServicePresent is Orchestrator.CheckServicePresent on the bound locator.
func (p *Presence) CheckServicePresent(ctx context.Context, service string) (bool, error) {
	return p.o.CheckServicePresent(ctx, p.locator, service)
}

func (p *Presence) ForgetService(service string) {
	p.o.ForgetService(service)
}

// Key returns the registry key service is looked up under.
func (p *Presence) Key(service string) domain.RegistryKey {
	return domain.BackendKey(service, p.o.cfg.App)
}

// App returns the application identity backends are looked up under.
func (o *Orchestrator) App() domain.AppIdentity {
	return o.cfg.App
}

// Bootstrap runs every stage in order (registry, storage, then one backend per distinct name in services)
// and returns the ready resources.
//
// Parameters: ctx bounds the whole bootstrap; services are backend names, duplicates ignored.
//
// Returns: resources the caller must Close; on failure the first stage error, after every resource built
// so far is released.
//
// Called from cmd.run.
func (o *Orchestrator) Bootstrap(ctx context.Context, services ...string) (*Resources, error) {
	res := newResources()

	locator, err := o.ResolveRegistry(ctx)
	if err != nil {
		return nil, err
	}
	res.Locator = locator
	res.report(registryLabel, domain.ResourceKindRegistry, registryEndpoint(o.cfg), o.clock.Now())

	storage, err := o.ResolveStorage(ctx, locator)
	if err != nil {
		o.release(res)
		return nil, err
	}
	res.Storage = storage
	res.report(storage.ClusterName(), domain.ResourceKindStorage, storage.Endpoint(), o.clock.Now())

	for _, service := range services {
		if _, done := res.Channels[service]; done {
			continue
		}
		channel, err := o.ResolveBackend(ctx, locator, service)
		if err != nil {
			o.release(res)
			return nil, err
		}
		res.Channels[service] = channel
		res.report(service, domain.ResourceKindChannel, channel.Endpoint, o.clock.Now())
	}

	level.Info(o.logger).Log("msg", "bootstrap complete", "channels", len(res.Channels))
	return res, nil
}

func (o *Orchestrator) release(res *Resources) {
	if err := res.Close(); err != nil {
		level.Error(o.logger).Log("msg", "failed to release partially bootstrapped resources", "err", err)
	}
}

// registryEndpoint is only called after ResolveRegistry validated the same values.
func registryEndpoint(cfg OrchestratorConfig) domain.Endpoint {
	return domain.Endpoint{Address: cfg.RegistryHost, Port: cfg.RegistryPort}
}
