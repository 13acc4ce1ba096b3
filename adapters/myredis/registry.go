package myredis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"killrvideoit/domain"
	"killrvideoit/helpers"
	"killrvideoit/interfaces"
	"killrvideoit/service"

	"github.com/go-redis/redis/v8"
)

// scanCount is the COUNT hint of one SCAN round trip.
const scanCount = 100

type redisRegistry struct {
	client redis.UniversalClient
}

// NewRegistry creates a redis implementation of interfaces.Registry. Registry keys are stored verbatim as
// redis string keys (killrvideo/services/<service>/<app>:<instance>) holding "address:port" values.
func NewRegistry(client redis.UniversalClient) interfaces.Registry {
	return &redisRegistry{client: helpers.NilPanic(client, "adapters.myredis.registry.go: redis client is required")}
}

// Factory returns an interfaces.RegistryFactory dialing redis://<endpoint>.
func Factory(options ...ConfigOption) interfaces.RegistryFactory {
	return func(endpoint domain.Endpoint) (interfaces.Registry, error) {
		client, err := NewRedisUniversalClient("redis://"+endpoint.String(), options...)
		if err != nil {
			return nil, err
		}
		return NewRegistry(client), nil
	}
}

func (r *redisRegistry) Get(ctx context.Context, key domain.RegistryKey) (string, bool, error) {
	value, err := r.client.Get(ctx, key.String()).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, service.NewRegistryUnavailableError("Redis get key error", fmt.Errorf("can't read key '%s', err: %w", key, err))
	}
	return value, true, nil
}

// List scans the direct children of key. Entries are sorted by key since SCAN order is unspecified.
func (r *redisRegistry) List(ctx context.Context, key domain.RegistryKey) ([]domain.RegistrationEntry, error) {
	prefix := key.String() + "/"
	var keys []string
	iter := r.client.Scan(ctx, 0, prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if strings.Contains(strings.TrimPrefix(k, prefix), "/") {
			continue
		}
		keys = append(keys, k)
	}
	if err := iter.Err(); err != nil {
		return nil, service.NewRegistryUnavailableError("Redis scan keys error", fmt.Errorf("can't list directory '%s', err: %w", key, err))
	}
	sort.Strings(keys)

	entries := make([]domain.RegistrationEntry, 0, len(keys))
	for _, k := range keys {
		value, err := r.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SCAN and GET
			continue
		}
		if err != nil {
			return nil, service.NewRegistryUnavailableError("Redis get key error", fmt.Errorf("can't read key '%s', err: %w", k, err))
		}
		entries = append(entries, domain.RegistrationEntry{Key: domain.RegistryKey(k), Value: value})
	}
	return entries, nil
}

func (r *redisRegistry) Close() error {
	return r.client.Close()
}
