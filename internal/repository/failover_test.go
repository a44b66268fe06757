package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"wayfarer/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetSession(ctx context.Context, token string) (*models.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *mockStore) SetSession(ctx context.Context, token string, identity *models.Identity) error {
	args := m.Called(ctx, token, identity)
	return args.Error(0)
}

func (m *mockStore) ClearSession(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestFailoverSessionStore(t *testing.T) {
	primary := new(mockStore)
	fallback := new(mockStore)
	logger := zerolog.New(io.Discard)
	store := NewFailoverSessionStore(primary, fallback, &logger)
	ctx := context.Background()

	t.Run("PrimarySuccess", func(t *testing.T) {
		identity := &models.Identity{ID: "user-1"}
		primary.On("GetSession", ctx, "tok-1").Return(identity, nil).Once()

		got, err := store.GetSession(ctx, "tok-1")
		assert.NoError(t, err)
		assert.Equal(t, identity, got)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		identity := &models.Identity{ID: "user-2"}
		primary.On("GetSession", ctx, "tok-2").Return(nil, errors.New("fail")).Once()
		fallback.On("GetSession", ctx, "tok-2").Return(identity, nil).Once()

		got, err := store.GetSession(ctx, "tok-2")
		assert.NoError(t, err)
		assert.Equal(t, identity, got)
		assert.True(t, store.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryAttempt", func(t *testing.T) {
		store.isDown.Store(true)
		store.lastCheck = time.Now().Add(-2 * time.Minute)

		identity := &models.Identity{ID: "user-3"}
		primary.On("GetSession", ctx, "tok-3").Return(identity, nil).Once()

		got, err := store.GetSession(ctx, "tok-3")
		assert.NoError(t, err)
		assert.Equal(t, identity, got)
		assert.False(t, store.isDown.Load())
		primary.AssertExpectations(t)
	})

	t.Run("RecoveryAttemptFail", func(t *testing.T) {
		store.isDown.Store(true)
		store.lastCheck = time.Now().Add(-2 * time.Minute)

		primary.On("GetSession", ctx, "tok-33").Return(nil, errors.New("still fail")).Once()
		fallback.On("GetSession", ctx, "tok-33").Return(nil, nil).Once()

		_, err := store.GetSession(ctx, "tok-33")
		assert.NoError(t, err)
		assert.True(t, store.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("SetSessionSuccess", func(t *testing.T) {
		store.isDown.Store(false)
		identity := &models.Identity{ID: "user-77"}
		primary.On("SetSession", ctx, "tok-77", identity).Return(nil).Once()

		err := store.SetSession(ctx, "tok-77", identity)
		assert.NoError(t, err)
		primary.AssertExpectations(t)
	})

	t.Run("ClearSessionSuccess", func(t *testing.T) {
		store.isDown.Store(false)
		primary.On("ClearSession", ctx, "tok-88").Return(nil).Once()

		err := store.ClearSession(ctx, "tok-88")
		assert.NoError(t, err)
		primary.AssertExpectations(t)
	})

	t.Run("CheckRateLimitSuccess", func(t *testing.T) {
		store.isDown.Store(false)
		primary.On("CheckRateLimit", ctx, "client-99", 10, time.Minute).Return(true, nil).Once()

		allowed, err := store.CheckRateLimit(ctx, "client-99", 10, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		primary.AssertExpectations(t)
	})

	t.Run("SetSessionFailover", func(t *testing.T) {
		store.isDown.Store(false)
		identity := &models.Identity{ID: "user-4"}
		primary.On("SetSession", ctx, "tok-4", identity).Return(errors.New("fail")).Once()
		fallback.On("SetSession", ctx, "tok-4", identity).Return(nil).Once()

		err := store.SetSession(ctx, "tok-4", identity)
		assert.NoError(t, err)
		assert.True(t, store.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("ClearSessionFailover", func(t *testing.T) {
		store.isDown.Store(false)
		primary.On("ClearSession", ctx, "tok-5").Return(errors.New("fail")).Once()
		fallback.On("ClearSession", ctx, "tok-5").Return(nil).Once()

		err := store.ClearSession(ctx, "tok-5")
		assert.NoError(t, err)
		assert.True(t, store.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("CheckRateLimitFailover", func(t *testing.T) {
		store.isDown.Store(false)
		primary.On("CheckRateLimit", ctx, "client-6", 10, time.Minute).Return(false, errors.New("fail")).Once()
		fallback.On("CheckRateLimit", ctx, "client-6", 10, time.Minute).Return(true, nil).Once()

		allowed, err := store.CheckRateLimit(ctx, "client-6", 10, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.True(t, store.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("SetSessionAlreadyDown", func(t *testing.T) {
		store.isDown.Store(true)
		identity := &models.Identity{ID: "user-44"}
		fallback.On("SetSession", ctx, "tok-44", identity).Return(nil).Once()

		err := store.SetSession(ctx, "tok-44", identity)
		assert.NoError(t, err)
		fallback.AssertExpectations(t)
	})

	t.Run("CheckRateLimitAlreadyDown", func(t *testing.T) {
		store.isDown.Store(true)
		fallback.On("CheckRateLimit", ctx, "client-66", 10, time.Minute).Return(true, nil).Once()

		allowed, err := store.CheckRateLimit(ctx, "client-66", 10, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		fallback.AssertExpectations(t)
	})
}
