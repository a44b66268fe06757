package repository

import (
	"context"
	"sync/atomic"
	"time"

	"wayfarer/internal/domain"
	"wayfarer/internal/models"

	"github.com/rs/zerolog"
)

type FailoverSessionStore struct {
	primary   domain.SessionStore
	fallback  domain.SessionStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverSessionStore(primary, fallback domain.SessionStore, logger *zerolog.Logger) *FailoverSessionStore {
	return &FailoverSessionStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSessionStore) GetSession(ctx context.Context, token string) (*models.Identity, error) {
	if !r.isDown.Load() {
		identity, err := r.primary.GetSession(ctx, token)
		if err == nil {
			return identity, nil
		}
		r.logger.Error().Err(err).Msg("Primary session store failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		identity, err := r.primary.GetSession(ctx, token)
		if err == nil {
			r.isDown.Store(false)
			return identity, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetSession(ctx, token)
}

func (r *FailoverSessionStore) SetSession(ctx context.Context, token string, identity *models.Identity) error {
	if !r.isDown.Load() {
		err := r.primary.SetSession(ctx, token, identity)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary session store failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.SetSession(ctx, token, identity)
}

func (r *FailoverSessionStore) ClearSession(ctx context.Context, token string) error {
	if !r.isDown.Load() {
		err := r.primary.ClearSession(ctx, token)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary session store failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.ClearSession(ctx, token)
}

func (r *FailoverSessionStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.logger.Error().Err(err).Msg("Primary session store failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}
