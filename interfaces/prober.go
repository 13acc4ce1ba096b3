package interfaces

import (
	"context"

	"killrvideoit/domain"
)

// Prober performs a single best-effort connection attempt to decide "accepting connections" vs "not yet".
//
//go:generate moq -stub -out mock/prober.go -pkg mock . Prober
type Prober interface {
	// Probe returns true only when a transport connection to endpoint could be opened. Any failure
	// (refused, timeout, cancelled ctx) yields false; the connection is always closed before returning.
	Probe(ctx context.Context, endpoint domain.Endpoint) bool
}
