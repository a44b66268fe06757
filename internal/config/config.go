package config

import (
	"errors"
	"fmt"
	"os"

	"wayfarer/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Session    SessionConfig    `yaml:"session"`
	API        APIConfig        `yaml:"api"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
	Google     GoogleConfig     `yaml:"google"`
	Telegram   TelegramConfig   `yaml:"telegram"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// SessionConfig points at the external auth provider. The backend never
// issues sessions itself; it only resolves and caches them.
type SessionConfig struct {
	ProviderURL     string `yaml:"provider_url"`
	SignInURL       string `yaml:"sign_in_url"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	HeaderExtra  string         `yaml:"header_extra"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Extra       string   `yaml:"extra"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type GoogleConfig struct {
	GoogleCredentialsFile string `yaml:"credentials_file"`
	BookingSpreadSheetID  string `yaml:"bookings_spreadsheet_id"`
}

// TelegramConfig drives the ops notifier: new bookings are announced in the
// managers chat when enabled.
type TelegramConfig struct {
	Enabled        bool   `yaml:"enabled"`
	BotToken       string `yaml:"bot_token"`
	ManagersChatID int64  `yaml:"managers_chat_id"`
}

func Load(configPath string) (*Config, error) {
	// .env переменные подхватываются до разворачивания YAML
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Session.ProviderURL == "" {
		return errors.New("session provider_url is required")
	}

	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		return errors.New("telegram bot token is required when telegram notifier is enabled")
	}

	return nil
}

// ValidateCatalog checks the seed catalog for duplicate ids and dangling
// city references before it is loaded into the store.
func ValidateCatalog(cities []models.City, hotels []models.Hotel) error {
	cityIDs := make(map[string]bool, len(cities))
	for _, city := range cities {
		if city.ID == "" {
			return fmt.Errorf("city '%s' has empty id", city.Name)
		}
		if cityIDs[city.ID] {
			return fmt.Errorf("duplicate city id found: %s", city.ID)
		}
		cityIDs[city.ID] = true
	}

	hotelIDs := make(map[string]bool, len(hotels))
	for _, hotel := range hotels {
		if hotel.ID == "" {
			return fmt.Errorf("hotel '%s' has empty id", hotel.Name)
		}
		if hotelIDs[hotel.ID] {
			return fmt.Errorf("duplicate hotel id found: %s", hotel.ID)
		}
		hotelIDs[hotel.ID] = true
		if hotel.CityID != "" && !cityIDs[hotel.CityID] {
			return fmt.Errorf("hotel '%s' references unknown city %s", hotel.Name, hotel.CityID)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if !c.API.HTTP.Enabled && c.API.Enabled {
		c.API.HTTP.Enabled = true
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.Auth.HeaderExtra == "" {
		c.API.Auth.HeaderExtra = "x-api-extra"
	}

	if c.Session.CacheTTLSeconds == 0 {
		c.Session.CacheTTLSeconds = models.DefaultSessionTTL
	}
	if c.Session.TimeoutSeconds == 0 {
		c.Session.TimeoutSeconds = 10
	}
	if c.Session.SignInURL == "" {
		c.Session.SignInURL = "/auth"
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
