package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wayfarer/internal/models"
)

// UpsertCity вставляет или обновляет город справочника
func (db *DB) UpsertCity(ctx context.Context, city *models.City) error {
	query := `
        INSERT INTO cities (id, name, state, description, image_url, popular_attractions, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            state = excluded.state,
            description = excluded.description,
            image_url = excluded.image_url,
            popular_attractions = excluded.popular_attractions,
            updated_at = excluded.updated_at
    `

	now := time.Now()
	_, err := db.ExecContext(ctx, query,
		city.ID,
		city.Name,
		city.State,
		city.Description,
		city.ImageURL,
		marshalList(city.PopularAttractions),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert city: %w", err)
	}
	return nil
}

// UpsertHotel вставляет или обновляет отель справочника
func (db *DB) UpsertHotel(ctx context.Context, hotel *models.Hotel) error {
	query := `
        INSERT INTO hotels (id, name, description, city_id, price_per_night, rating, image_url, amenities, hotel_type, address, available_rooms, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            description = excluded.description,
            city_id = excluded.city_id,
            price_per_night = excluded.price_per_night,
            rating = excluded.rating,
            image_url = excluded.image_url,
            amenities = excluded.amenities,
            hotel_type = excluded.hotel_type,
            address = excluded.address,
            available_rooms = excluded.available_rooms,
            updated_at = excluded.updated_at
    `

	now := time.Now()
	_, err := db.ExecContext(ctx, query,
		hotel.ID,
		hotel.Name,
		hotel.Description,
		hotel.CityID,
		hotel.PricePerNight,
		hotel.Rating,
		hotel.ImageURL,
		marshalList(hotel.Amenities),
		hotel.HotelType,
		hotel.Address,
		hotel.AvailableRooms,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert hotel: %w", err)
	}
	return nil
}

// SeedCatalog загружает справочник городов и отелей из конфигурации
func (db *DB) SeedCatalog(ctx context.Context, cities []models.City, hotels []models.Hotel) error {
	for i := range cities {
		if err := db.UpsertCity(ctx, &cities[i]); err != nil {
			return err
		}
	}
	for i := range hotels {
		if err := db.UpsertHotel(ctx, &hotels[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetCities возвращает все города, отсортированные по названию
func (db *DB) GetCities(ctx context.Context) ([]*models.City, error) {
	query := `
        SELECT id, name, state, description, image_url, popular_attractions
        FROM cities ORDER BY name
    `

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get cities: %w", err)
	}
	defer rows.Close()

	return scanCities(rows)
}

// SearchCities ищет города по подстроке названия без учета регистра
func (db *DB) SearchCities(ctx context.Context, term string) ([]*models.City, error) {
	query := `
        SELECT id, name, state, description, image_url, popular_attractions
        FROM cities
        WHERE name LIKE '%' || ? || '%' COLLATE NOCASE
        ORDER BY name
    `

	rows, err := db.QueryContext(ctx, query, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search cities: %w", err)
	}
	defer rows.Close()

	return scanCities(rows)
}

func scanCities(rows *sql.Rows) ([]*models.City, error) {
	var cities []*models.City
	for rows.Next() {
		var city models.City
		var attractions string
		err := rows.Scan(
			&city.ID,
			&city.Name,
			&city.State,
			&city.Description,
			&city.ImageURL,
			&attractions,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		city.PopularAttractions = unmarshalList(attractions)
		cities = append(cities, &city)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cities, nil
}

// GetHotels возвращает отели по рейтингу, опционально фильтруя по городу
func (db *DB) GetHotels(ctx context.Context, cityID string) ([]*models.Hotel, error) {
	query := `
        SELECT id, name, description, city_id, price_per_night, rating, image_url, amenities, hotel_type, address, available_rooms
        FROM hotels
    `
	args := []any{}
	if cityID != "" {
		query += ` WHERE city_id = ?`
		args = append(args, cityID)
	}
	query += ` ORDER BY rating DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get hotels: %w", err)
	}
	defer rows.Close()

	var hotels []*models.Hotel
	for rows.Next() {
		hotel, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, hotel)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return hotels, nil
}

// GetHotelByID возвращает отель по идентификатору
func (db *DB) GetHotelByID(ctx context.Context, id string) (*models.Hotel, error) {
	query := `
        SELECT id, name, description, city_id, price_per_night, rating, image_url, amenities, hotel_type, address, available_rooms
        FROM hotels WHERE id = ?
    `

	var hotel models.Hotel
	var amenities string
	err := db.QueryRowContext(ctx, query, id).Scan(
		&hotel.ID,
		&hotel.Name,
		&hotel.Description,
		&hotel.CityID,
		&hotel.PricePerNight,
		&hotel.Rating,
		&hotel.ImageURL,
		&amenities,
		&hotel.HotelType,
		&hotel.Address,
		&hotel.AvailableRooms,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel by id: %w", err)
	}

	hotel.Amenities = unmarshalList(amenities)
	return &hotel, nil
}

func scanHotel(rows *sql.Rows) (*models.Hotel, error) {
	var hotel models.Hotel
	var amenities string
	err := rows.Scan(
		&hotel.ID,
		&hotel.Name,
		&hotel.Description,
		&hotel.CityID,
		&hotel.PricePerNight,
		&hotel.Rating,
		&hotel.ImageURL,
		&amenities,
		&hotel.HotelType,
		&hotel.Address,
		&hotel.AvailableRooms,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan hotel: %w", err)
	}
	hotel.Amenities = unmarshalList(amenities)
	return &hotel, nil
}
