package service

import (
	"context"
	"io"
	"testing"

	"wayfarer/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogService(repo *mockRepo) *CatalogService {
	logger := zerolog.New(io.Discard)
	return NewCatalogService(repo, &logger)
}

func TestCatalogService(t *testing.T) {
	ctx := context.Background()

	t.Run("Cities", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetCities", ctx).Return([]*models.City{{ID: "c-delhi", Name: "Delhi"}}, nil).Once()

		cities, err := newCatalogService(repo).Cities(ctx)
		require.NoError(t, err)
		assert.Len(t, cities, 1)
		repo.AssertExpectations(t)
	})

	t.Run("SearchTrimsTerm", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("SearchCities", ctx, "delhi").Return([]*models.City{}, nil).Once()

		_, err := newCatalogService(repo).SearchCities(ctx, "  delhi  ")
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("HotelsPassesCityFilter", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetHotels", ctx, "c-delhi").Return([]*models.Hotel{}, nil).Once()

		_, err := newCatalogService(repo).Hotels(ctx, "c-delhi")
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
