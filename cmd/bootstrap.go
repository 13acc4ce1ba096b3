package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"killrvideoit/adapters"
	"killrvideoit/adapters/myredis"
	"killrvideoit/handlers"
	"killrvideoit/interfaces"
	"killrvideoit/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// newRegistryFactory returns the registry client factory for cfg.RegistryKind.
func newRegistryFactory(cfg *Config) interfaces.RegistryFactory {
	if cfg.RegistryKind == registryRedis {
		return myredis.Factory(myredis.WithDB(cfg.RedisDB), myredis.WithTimeout(cfg.ProbeTimeout))
	}
	return adapters.EtcdFactory(&http.Client{Timeout: cfg.ProbeTimeout})
}

// newOrchestrator wires the orchestrator from cfg. storage and clk are injected so tests can replace them.
func newOrchestrator(cfg *Config, storage interfaces.StorageConnector, clk interfaces.Clock, logger log.Logger) (*service.Orchestrator, error) {
	selector, err := service.SelectorByName(cfg.StorageSelection)
	if err != nil {
		return nil, err
	}
	return service.NewOrchestrator(
		service.OrchestratorConfig{
			RegistryHost:     cfg.RegistryHost,
			RegistryPort:     cfg.RegistryPort,
			App:              cfg.App,
			PollInterval:     cfg.PollInterval,
			PresenceInterval: cfg.PresenceInterval,
			SettleDelay:      cfg.SettleDelay,
			StorageSelector:  selector,
		},
		newRegistryFactory(cfg),
		storage,
		adapters.PlaintextChannelFactory(),
		service.NewTCPProber(cfg.ProbeTimeout, logger),
		clk,
		logger,
	), nil
}

// newStatusServer builds the echo server of the status API.
func newStatusServer(res handlers.ResourceView, presence handlers.PresenceChecker, cfg *Config, logger log.Logger) (*echo.Echo, error) {
	doc, err := handlers.LoadOpenAPI()
	if err != nil {
		return nil, err
	}
	validator, err := handlers.NewRequestValidator(doc)
	if err != nil {
		return nil, err
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	service.RegisterErrorHandler(e, logger)
	e.Use(validator)
	handlers.RegisterHandlers(e, handlers.NewHTTPServer(res, presence, cfg.ProbeTimeout, logger))
	return e, nil
}

// run bootstraps every dependency. With the status API disabled it returns once the environment is ready;
// otherwise it serves the API until ctx is done. Resources are always released before returning.
func run(ctx context.Context, cfg *Config, storage interfaces.StorageConnector, clk interfaces.Clock, logger log.Logger) error {
	orchestrator, err := newOrchestrator(cfg, storage, clk, logger)
	if err != nil {
		return err
	}

	bootCtx, cancel := ctx, context.CancelFunc(func() {})
	if cfg.BootstrapTimeout > 0 {
		bootCtx, cancel = context.WithTimeout(ctx, cfg.BootstrapTimeout)
	}
	res, err := orchestrator.Bootstrap(bootCtx, cfg.Services...)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			level.Error(logger).Log("msg", "Error while releasing resources", "err", err)
		}
	}()
	for _, r := range res.Reports() {
		level.Info(logger).Log("msg", "Resource ready", "name", r.Name, "kind", r.Kind, "endpoint", r.Endpoint)
	}

	if cfg.HTTPPort == 0 {
		level.Info(logger).Log("msg", "Environment is ready")
		return nil
	}

	e, err := newStatusServer(res, orchestrator.PresenceOf(res.Locator), cfg, logger)
	if err != nil {
		return err
	}
	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		level.Info(logger).Log("msg", "Starting HTTP server", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	}
	level.Info(logger).Log("msg", "Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		level.Error(logger).Log("msg", "Error during server shutdown", "err", err)
	}
	return nil
}
