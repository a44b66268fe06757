package models

// City is a destination entry of the read-only catalog.
type City struct {
	ID                 string   `yaml:"id" json:"id"`
	Name               string   `yaml:"name" json:"name"`
	State              string   `yaml:"state" json:"state"`
	Description        string   `yaml:"description" json:"description"`
	ImageURL           string   `yaml:"image_url" json:"image_url"`
	PopularAttractions []string `yaml:"popular_attractions" json:"popular_attractions"`
}

// Hotel is a bookable catalog entry. Prices are per night in the hotel's
// listing currency.
type Hotel struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	Description    string   `yaml:"description" json:"description"`
	CityID         string   `yaml:"city_id" json:"city_id"`
	PricePerNight  float64  `yaml:"price_per_night" json:"price_per_night"`
	Rating         float64  `yaml:"rating" json:"rating"`
	ImageURL       string   `yaml:"image_url" json:"image_url"`
	Amenities      []string `yaml:"amenities" json:"amenities"`
	HotelType      string   `yaml:"hotel_type" json:"hotel_type"`
	Address        string   `yaml:"address" json:"address"`
	AvailableRooms int64    `yaml:"available_rooms" json:"available_rooms"`
}

// CurrencyRate is one directed conversion rate as stored in currency_rates.
type CurrencyRate struct {
	FromCurrency string  `yaml:"from_currency" json:"from_currency"`
	ToCurrency   string  `yaml:"to_currency" json:"to_currency"`
	Rate         float64 `yaml:"rate" json:"rate"`
}
