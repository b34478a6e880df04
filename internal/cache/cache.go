// Package cache fournit un cache clé/valeur pour les transcripts déjà récupérés.
// Deux backends : mémoire (go-cache) et Redis.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Backends supportés dans la config
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

const keyPrefix = "ytranscript"

// Cache est l'interface consommée par le fetcher.
// Get retourne ok=false (et err=nil) si la clé est absente.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Options regroupe les paramètres de construction d'un backend.
type Options struct {
	Backend       string
	DefaultTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New construit le backend demandé. Retourne (nil, nil) pour BackendNone.
func New(opts Options) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendNone:
		return nil, nil
	case BackendMemory:
		return NewMemory(opts.DefaultTTL), nil
	case BackendRedis:
		return NewRedis(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	default:
		return nil, fmt.Errorf("cache: backend inconnu %q", opts.Backend)
	}
}

// Key compose une clé de cache stable : ytranscript:<provider>:<videoID>:<langs>
func Key(provider, videoID string, langs []string) string {
	return strings.Join([]string{keyPrefix, provider, videoID, strings.Join(langs, ",")}, ":")
}
