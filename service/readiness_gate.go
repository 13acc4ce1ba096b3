package service

import (
	"context"
	"fmt"
	"time"

	"killrvideoit/domain"
	"killrvideoit/helpers"
	"killrvideoit/interfaces"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ReadinessCheck reports whether a dependency is ready. A non-nil error aborts the wait.
type ReadinessCheck func(ctx context.Context) (bool, error)

// ReadinessGate blocks the calling goroutine until a dependency accepts connections.
//
// There is no built-in attempt limit: the wait ends when the dependency is ready, when the caller's ctx
// is done (timeout error) or when the back-off policy returns backoff.Stop (timeout error).
type ReadinessGate struct {
	prober interfaces.Prober
	clock  interfaces.Clock
	logger log.Logger
}

// NewReadinessGate creates a gate probing with prober and waiting on clock. Panics on nil dependencies.
func NewReadinessGate(prober interfaces.Prober, clock interfaces.Clock, logger log.Logger) *ReadinessGate {
	return &ReadinessGate{
		prober: helpers.NilPanic(prober, "service.readiness_gate.go: prober is required"),
		clock:  helpers.NilPanic(clock, "service.readiness_gate.go: clock is required"),
		logger: log.With(helpers.NilPanic(logger, "service.readiness_gate.go: logger is required"), "component", "readiness_gate"),
	}
}

// WaitUntilReady probes endpoint every interval until it accepts a connection.
//
// Parameters: ctx bounds the whole wait; label names the dependency in progress notices and errors
// (e.g. "Cassandra"); endpoint is the validated address to probe; interval is the constant pause between probes.
//
// Returns: nil once a probe succeeds; timeout when ctx is done first.
//
// Called from acquire for every dependency whose endpoint was not already probed while resolving it.
func (g *ReadinessGate) WaitUntilReady(ctx context.Context, label string, endpoint domain.Endpoint, interval time.Duration) error {
	level.Info(g.logger).Log("msg", "attempting to connect to service", "service", label, "endpoint", endpoint)
	check := func(ctx context.Context) (bool, error) {
		return g.prober.Probe(ctx, endpoint), nil
	}
	return g.Poll(ctx, label, check, backoff.NewConstantBackOff(interval))
}

// Poll runs check until it reports ready, sleeping policy.NextBackOff() between attempts on the gate's clock.
// Each failed attempt logs a "waiting for service to start" notice with the elapsed time.
//
// Parameters: ctx bounds the wait and is passed to check; label names the dependency; check is one attempt;
// policy decides the pause before the next attempt (it is Reset first).
//
// Returns: nil when check reports ready; the error of check unchanged when check fails (no retry);
// timeout when ctx is done or policy returns backoff.Stop.
//
// Called from WaitUntilReady and from Orchestrator.ResolveBackend for the presence wait.
func (g *ReadinessGate) Poll(ctx context.Context, label string, check ReadinessCheck, policy backoff.BackOff) error {
	start := g.clock.Now()
	policy.Reset()
	for {
		if err := ctx.Err(); err != nil {
			return g.timeout(label, start, err)
		}
		ready, err := check(ctx)
		if err != nil {
			return err
		}
		if ready {
			level.Info(g.logger).Log("msg", "service is ready", "service", label, "elapsed", g.clock.Now().Sub(start))
			return nil
		}

		wait := policy.NextBackOff()
		if wait == backoff.Stop {
			return g.timeout(label, start, nil)
		}
		level.Info(g.logger).Log(
			"msg", "waiting for service to start",
			"service", label,
			"retry_in", wait,
			"elapsed", g.clock.Now().Sub(start),
		)
		select {
		case <-ctx.Done():
			return g.timeout(label, start, ctx.Err())
		case <-g.clock.After(wait):
		}
	}
}

func (g *ReadinessGate) timeout(label string, start time.Time, cause error) error {
	elapsed := g.clock.Now().Sub(start)
	level.Error(g.logger).Log("msg", "gave up waiting for service", "service", label, "elapsed", elapsed, "err", cause)
	return NewTimeoutError(fmt.Sprintf("gave up waiting for %s after %s", label, elapsed), cause)
}
