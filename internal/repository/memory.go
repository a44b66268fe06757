package repository

import (
	"context"
	"sync"
	"time"

	"wayfarer/internal/models"
)

type MemorySessionStore struct {
	sessions sync.Map
	ttl      time.Duration

	rateMu     sync.Mutex
	rateLimits map[string]*rateLimitEntry
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:        ttl,
		rateLimits: make(map[string]*rateLimitEntry),
	}
}

type sessionEntry struct {
	identity  *models.Identity
	expiresAt time.Time
}

func (r *MemorySessionStore) GetSession(ctx context.Context, token string) (*models.Identity, error) {
	val, ok := r.sessions.Load(token)
	if !ok {
		return nil, nil
	}
	entry := val.(*sessionEntry)
	if time.Now().After(entry.expiresAt) {
		r.sessions.Delete(token)
		return nil, nil
	}
	return entry.identity, nil
}

func (r *MemorySessionStore) SetSession(ctx context.Context, token string, identity *models.Identity) error {
	r.sessions.Store(token, &sessionEntry{
		identity:  identity,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemorySessionStore) ClearSession(ctx context.Context, token string) error {
	r.sessions.Delete(token)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemorySessionStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	r.rateMu.Lock()
	defer r.rateMu.Unlock()

	entry, ok := r.rateLimits[key]
	if !ok || now.After(entry.expiresAt) {
		r.rateLimits[key] = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
		return 1 <= limit, nil
	}

	entry.count++
	return entry.count <= limit, nil
}
