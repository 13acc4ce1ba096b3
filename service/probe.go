package service

import (
	"context"
	"net"
	"time"

	"killrvideoit/domain"
	"killrvideoit/helpers"
	"killrvideoit/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// tcpProber implements interfaces.Prober with a single TCP dial per call.
type tcpProber struct {
	dialer *net.Dialer
	logger log.Logger
}

// NewTCPProber creates a prober whose dial attempts give up after dialTimeout (or when ctx is done,
// whichever comes first). Panics on nil logger.
func NewTCPProber(dialTimeout time.Duration, logger log.Logger) interfaces.Prober {
	return &tcpProber{
		dialer: &net.Dialer{Timeout: dialTimeout},
		logger: log.With(helpers.NilPanic(logger, "service.probe.go: logger is required"), "component", "probe"),
	}
}

// Probe opens and immediately closes a TCP connection to endpoint. The cause of a failure is not
// reported: callers only need "ready" vs "not yet".
func (p *tcpProber) Probe(ctx context.Context, endpoint domain.Endpoint) bool {
	conn, err := p.dialer.DialContext(ctx, "tcp", endpoint.String())
	if err != nil {
		return false
	}
	_ = conn.Close()
	level.Debug(p.logger).Log("msg", "connection is working", "endpoint", endpoint)
	return true
}
