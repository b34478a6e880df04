package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const defaultCleanupInterval = 10 * time.Minute

// Memory est un cache en mémoire, limité à la durée de vie du process.
type Memory struct {
	client *gocache.Cache
}

// NewMemory crée un cache mémoire ; ttl <= 0 => pas d'expiration.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Memory{client: gocache.New(ttl, defaultCleanupInterval)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.client.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

// Set ajoute la valeur ; ttl <= 0 => durée par défaut du cache.
func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.client.Set(key, value, ttl)
	return nil
}
