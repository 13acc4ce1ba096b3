package interfaces

import "time"

// Clock supplies the current time and timed waits for the readiness gate and the orchestrator.
// Injected so tests can drive waits with a mock clock instead of sleeping.
//
// Satisfied by github.com/benbjohnson/clock (clock.New() in cmd/main, clock.NewMock() in tests).
type Clock interface {
	// Now returns the current time; used to report elapsed waits and ready-at stamps.
	Now() time.Time
	// After returns a channel that receives once d has elapsed.
	After(d time.Duration) <-chan time.Time
}
