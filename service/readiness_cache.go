package service

import (
	"context"
	"sync"
)

// ReadinessCache remembers which services were already confirmed present so a presence check runs
// at most once per service while it keeps succeeding. Only positive results are kept: a failed or
// negative check is retried on the next call. Safe for concurrent use.
type ReadinessCache struct {
	mu      sync.Mutex
	checked map[string]struct{}
	locks   map[string]*sync.Mutex
}

// NewReadinessCache creates an empty cache.
func NewReadinessCache() *ReadinessCache {
	return &ReadinessCache{
		checked: make(map[string]struct{}),
		locks:   make(map[string]*sync.Mutex),
	}
}

// CheckOnce returns true without calling check when service was already confirmed; otherwise runs check
// and records a positive result.
//
// Parameters: ctx is passed to check; service is the memo key; check is the presence check to run.
//
// Returns: (true, nil) when memoized or when check succeeds; the result of check otherwise.
//
// Concurrent callers for the same service run check one at a time, so a service is not probed twice;
// callers for different services never wait on each other.
//
// Called from Orchestrator.CheckServicePresent.
func (c *ReadinessCache) CheckOnce(ctx context.Context, service string, check ReadinessCheck) (bool, error) {
	lock := c.serviceLock(service)
	lock.Lock()
	defer lock.Unlock()

	if c.isChecked(service) {
		return true, nil
	}
	ok, err := check(ctx)
	if err != nil || !ok {
		return false, err
	}
	c.mu.Lock()
	c.checked[service] = struct{}{}
	c.mu.Unlock()
	return true, nil
}

// Forget drops the memo for service so the next CheckOnce runs the check again.
func (c *ReadinessCache) Forget(service string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checked, service)
}

func (c *ReadinessCache) isChecked(service string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.checked[service]
	return ok
}

func (c *ReadinessCache) serviceLock(service string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[service]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[service] = lock
	}
	return lock
}
