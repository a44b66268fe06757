package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCities(t *testing.T) {
	db := newTestDB(t)
	seedTestCatalog(t, db)
	ctx := context.Background()

	cities, err := db.GetCities(ctx)
	require.NoError(t, err)
	require.Len(t, cities, 3)

	// Ordered by name
	assert.Equal(t, "Agra", cities[0].Name)
	assert.Equal(t, "Delhi", cities[1].Name)
	assert.Equal(t, "Jaipur", cities[2].Name)

	assert.Equal(t, []string{"India Gate", "Red Fort"}, cities[1].PopularAttractions)
}

func TestSearchCities(t *testing.T) {
	db := newTestDB(t)
	seedTestCatalog(t, db)
	ctx := context.Background()

	t.Run("CaseInsensitiveSubstring", func(t *testing.T) {
		results, err := db.SearchCities(ctx, "dEl")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Delhi", results[0].Name)
	})

	t.Run("NoMatch", func(t *testing.T) {
		results, err := db.SearchCities(ctx, "Mumbai")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("EmptyTermMatchesAll", func(t *testing.T) {
		results, err := db.SearchCities(ctx, "")
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})
}

func TestGetHotels(t *testing.T) {
	db := newTestDB(t)
	seedTestCatalog(t, db)
	ctx := context.Background()

	t.Run("OrderedByRatingDesc", func(t *testing.T) {
		hotels, err := db.GetHotels(ctx, "")
		require.NoError(t, err)
		require.Len(t, hotels, 3)
		assert.Equal(t, "Oberoi Amarvilas", hotels[0].Name)
		assert.Equal(t, "Grand Plaza", hotels[1].Name)
		assert.Equal(t, "City Lodge", hotels[2].Name)
	})

	t.Run("FilterByCity", func(t *testing.T) {
		hotels, err := db.GetHotels(ctx, "c-delhi")
		require.NoError(t, err)
		require.Len(t, hotels, 2)
		for _, h := range hotels {
			assert.Equal(t, "c-delhi", h.CityID)
		}
	})

	t.Run("UnknownCity", func(t *testing.T) {
		hotels, err := db.GetHotels(ctx, "c-nowhere")
		require.NoError(t, err)
		assert.Empty(t, hotels)
	})
}

func TestGetHotelByID(t *testing.T) {
	db := newTestDB(t)
	seedTestCatalog(t, db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		hotel, err := db.GetHotelByID(ctx, "h-plaza")
		require.NoError(t, err)
		assert.Equal(t, "Grand Plaza", hotel.Name)
		assert.Equal(t, 2000.0, hotel.PricePerNight)
		assert.Equal(t, []string{"wifi", "pool"}, hotel.Amenities)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := db.GetHotelByID(ctx, "h-missing")
		assert.ErrorIs(t, err, ErrHotelNotFound)
	})
}
