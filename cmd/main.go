package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"killrvideoit/adapters/cassandra"

	"github.com/benbjohnson/clock"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

func main() {
	// Initialize logger
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	level.Info(logger).Log("msg", "Starting KillrVideo integration test bootstrap")

	// Load configuration
	config, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"registry_kind", config.RegistryKind,
		"registry_host", config.RegistryHost,
		"registry_port", config.RegistryPort,
		"app", config.App,
		"services", len(config.Services),
		"bootstrap_timeout", config.BootstrapTimeout,
		"service_port_http", config.HTTPPort,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage := cassandra.NewConnector(config.Cassandra, logger)
	if err := run(ctx, config, storage, clock.New(), logger); err != nil {
		level.Error(logger).Log("msg", "Bootstrap failed", "err", err)
		stop()
		os.Exit(1)
	}

	level.Info(logger).Log("msg", "Stopped")
}
