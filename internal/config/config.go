package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Reading source selection.
const (
	SourceAPI     = "api"     // AirNow + OpenWeather APIs
	SourceScraper = "scraper" // airnow.gov dashboard page
)

// Config holds all job settings, populated from environment variables. A
// .env file in the working directory is honored when present.
type Config struct {
	ZipCode           string `envconfig:"ZIPCODE"`
	SearchRadiusMiles int    `envconfig:"SEARCH_RADIUS_MILES" default:"25"`
	Source            string `envconfig:"SOURCE" default:"api"`

	StateFile string `envconfig:"STATE_FILE" default:"airmonitor_state.json"`

	MaxTemperature   float64 `envconfig:"MAX_TEMPERATURE" default:"75"`
	MaxCategoryIndex int     `envconfig:"MAX_CATEGORY_INDEX" default:"1"`

	AirnowAPIKey      string `envconfig:"AIRNOW_API_KEY"`
	OpenWeatherAPIKey string `envconfig:"OPENWEATHER_API_KEY"`
	ScraperURL        string `envconfig:"SCRAPER_URL" default:"https://www.airnow.gov/?city=Concord&state=CA&country=USA"`

	SendgridAPIKey string   `envconfig:"SENDGRID_API_KEY"`
	FromAddress    string   `envconfig:"FROM_EMAIL"`
	Recipients     []string `envconfig:"EMAIL_RECIPIENTS"`

	FetchTimeout   time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`
	PushgatewayURL string        `envconfig:"PUSHGATEWAY_URL"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string        `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads configuration from the environment, applying defaults where
// unset, and validates it. A missing .env file is not an error; the dotenv
// load is genuinely optional setup.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration before any network call is made.
func (c *Config) Validate() error {
	if c.ZipCode == "" {
		return errors.New("ZIPCODE is required")
	}
	if c.SearchRadiusMiles <= 0 {
		return errors.New("SEARCH_RADIUS_MILES must be positive")
	}
	if c.MaxCategoryIndex < 0 {
		return errors.New("MAX_CATEGORY_INDEX must not be negative")
	}
	if c.FetchTimeout <= 0 {
		return errors.New("FETCH_TIMEOUT must be positive")
	}

	switch c.Source {
	case SourceAPI:
		if c.AirnowAPIKey == "" {
			return errors.New("AIRNOW_API_KEY is required when SOURCE is api")
		}
		if c.OpenWeatherAPIKey == "" {
			return errors.New("OPENWEATHER_API_KEY is required when SOURCE is api")
		}
	case SourceScraper:
		if c.ScraperURL == "" {
			return errors.New("SCRAPER_URL is required when SOURCE is scraper")
		}
	default:
		return fmt.Errorf("SOURCE must be %q or %q, got %q", SourceAPI, SourceScraper, c.Source)
	}

	if c.SendgridAPIKey == "" {
		return errors.New("SENDGRID_API_KEY is required")
	}
	if c.FromAddress == "" {
		return errors.New("FROM_EMAIL is required")
	}
	if len(c.Recipients) == 0 {
		return errors.New("EMAIL_RECIPIENTS must list at least one address")
	}
	for _, rcpt := range c.Recipients {
		if !strings.Contains(rcpt, "@") {
			return fmt.Errorf("EMAIL_RECIPIENTS entry %q is not an email address", rcpt)
		}
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}

	return nil
}
