// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dfryer1193/apodwall/shared/desktop"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	APIKey      string        `env:"APOD_API_KEY"      envDefault:"DEMO_KEY"`
	BaseURL     string        `env:"APOD_BASE_URL"     envDefault:"https://api.nasa.gov/planetary/apod"`
	DBName      string        `env:"APOD_DB_NAME"      envDefault:"apod_images.db"`
	HTTPTimeout time.Duration `env:"APOD_HTTP_TIMEOUT" envDefault:"30s"`
	Wallpaper   string        `env:"APOD_WALLPAPER"    envDefault:"auto"`
	Schedule    string        `env:"APOD_SCHEDULE"`
	PreferHD    bool          `env:"APOD_HD"`

	// ImageDir is only read by the gallery server.
	ImageDir   string `env:"APOD_IMAGE_DIR"`
	ServerPort int    `env:"APOD_SERVER_PORT" envDefault:"8080"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"true"`

	S3 S3Config
}

// S3Config configures the optional bucket mirror. It is disabled when Bucket is empty.
type S3Config struct {
	Bucket          string `env:"APOD_S3_BUCKET"`
	Prefix          string `env:"APOD_S3_PREFIX" envDefault:"apod"`
	Region          string `env:"APOD_S3_REGION"`
	Endpoint        string `env:"APOD_S3_ENDPOINT"`
	AccessKeyID     string `env:"APOD_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"APOD_S3_SECRET_ACCESS_KEY"`
}

// Enabled reports whether images should be mirrored
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads configuration from a .env file, if present, and the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects configuration that cannot work
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("APOD_API_KEY cannot be empty")
	}
	if c.DBName == "" {
		return fmt.Errorf("APOD_DB_NAME cannot be empty")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("APOD_HTTP_TIMEOUT cannot be negative")
	}
	if _, err := desktop.ParseMode(c.Wallpaper); err != nil {
		return fmt.Errorf("APOD_WALLPAPER: %w", err)
	}
	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("APOD_SCHEDULE: %w", err)
		}
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("APOD_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if (c.S3.AccessKeyID == "") != (c.S3.SecretAccessKey == "") {
		return fmt.Errorf("APOD_S3_ACCESS_KEY_ID and APOD_S3_SECRET_ACCESS_KEY must be set together")
	}
	return nil
}
