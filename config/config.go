package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Scraper  ScraperConfig
	Cache    CacheConfig
	Database DatabaseConfig
	OCR      OCRConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ScraperConfig controls the scrape fan-out
type ScraperConfig struct {
	Concurrency int           `mapstructure:"concurrency"` // simultaneous scrapers
	Timeout     time.Duration `mapstructure:"timeout"`     // per-scraper deadline
	UserAgent   string        `mapstructure:"user_agent"`
	Headless    bool          `mapstructure:"headless"` // browser-backed scrapers
}

// CacheConfig holds result cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// DatabaseConfig holds SQLite configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// OCRConfig controls image-based price extraction
type OCRConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Languages string `mapstructure:"languages"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"` // empty = stdout only
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/drinkradar/")

	// Environment variable settings: DRINKRADAR_SCRAPER_TIMEOUT overrides
	// scraper.timeout, and so on
	v.SetEnvPrefix("DRINKRADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8100")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Scraper defaults: 5 concurrent browsers, 15s hard deadline each
	v.SetDefault("scraper.concurrency", 5)
	v.SetDefault("scraper.timeout", "15s")
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	v.SetDefault("scraper.headless", true)

	// Cache defaults: live prices go stale fast
	v.SetDefault("cache.ttl", "2m")

	// Database defaults
	v.SetDefault("database.path", "products.db")

	// OCR defaults
	v.SetDefault("ocr.enabled", true)
	v.SetDefault("ocr.languages", "eng")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 50)
	v.SetDefault("logging.max_backups", 3)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Scraper.Concurrency < 1 {
		return fmt.Errorf("scraper concurrency must be at least 1, got: %d", config.Scraper.Concurrency)
	}

	if config.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper timeout must be positive, got: %s", config.Scraper.Timeout)
	}

	if config.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	return nil
}
