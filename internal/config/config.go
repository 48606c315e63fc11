package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true" validate:"required"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"` // healthz + stats

	OpenWeatherAPIKey  string        `envconfig:"OPENWEATHER_API_KEY" required:"true" validate:"required"`
	OpenWeatherBaseURL string        `envconfig:"OPENWEATHER_BASE_URL" default:"https://api.openweathermap.org" validate:"url"`
	OpenWeatherLang    string        `envconfig:"OPENWEATHER_LANG" default:"ru"`
	GoogleGeocoderKey  string        `envconfig:"GOOGLE_GEOCODER_API_KEY"` // empty disables the primary geocoder
	HTTPTimeout        time.Duration `envconfig:"HTTP_TIMEOUT" default:"20s" validate:"gt=0"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s" validate:"gtefield=HTTPTimeout"`

	StoreBackend       string        `envconfig:"STORE_BACKEND" default:"json" validate:"oneof=json sqlite gcs"`
	UserDataPath       string        `envconfig:"USER_DATA_PATH" default:"./data/user_data.json"`
	DBPath             string        `envconfig:"DB_PATH" default:"./data/weather.db"`
	GCSBucket          string        `envconfig:"GCS_BUCKET" validate:"required_if=StoreBackend gcs"`
	GCSObject          string        `envconfig:"GCS_OBJECT" default:"user_data.json"`
	StoreFlushInterval time.Duration `envconfig:"STORE_FLUSH_INTERVAL" default:"10m" validate:"gte=1m"`

	CachePath string        `envconfig:"CACHE_PATH" default:"./data/weather_cache.json"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"3h" validate:"gt=0"`

	NotifyInterval time.Duration `envconfig:"NOTIFY_INTERVAL" default:"2h" validate:"gte=1m"`
	NotifyBackoff  time.Duration `envconfig:"NOTIFY_BACKOFF" default:"1m" validate:"gt=0"`
}

var validate = validator.New()

// Load reads an optional .env file and then environment variables into Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
