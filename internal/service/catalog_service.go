package service

import (
	"context"
	"strings"

	"wayfarer/internal/domain"
	"wayfarer/internal/models"

	"github.com/rs/zerolog"
)

type CatalogService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewCatalogService(repo domain.Repository, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		logger: logger,
	}
}

// Cities returns the full destination list ordered by name.
func (s *CatalogService) Cities(ctx context.Context) ([]*models.City, error) {
	return s.repo.GetCities(ctx)
}

// SearchCities matches the term as a case-insensitive substring of the
// city name. An empty term returns the full list.
func (s *CatalogService) SearchCities(ctx context.Context, term string) ([]*models.City, error) {
	return s.repo.SearchCities(ctx, strings.TrimSpace(term))
}

// Hotels returns hotels ordered by rating, optionally narrowed to a city.
func (s *CatalogService) Hotels(ctx context.Context, cityID string) ([]*models.Hotel, error) {
	return s.repo.GetHotels(ctx, cityID)
}

func (s *CatalogService) HotelByID(ctx context.Context, id string) (*models.Hotel, error) {
	return s.repo.GetHotelByID(ctx, id)
}
