package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported render formats.
const (
	RenderHTML = "html"
	RenderText = "text"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName               string        `mapstructure:"app_name"`
	Env                   string        `mapstructure:"app_env"`
	LogLevel              string        `mapstructure:"log_level"`
	SourcesFile           string        `mapstructure:"sources_file"`
	PublishersFile        string        `mapstructure:"publishers_file"`
	RenderFormat          string        `mapstructure:"render_format"`
	ServeAddr             string        `mapstructure:"serve_addr"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and the optional configs/.env file.
func Load() (*Config, error) {
	return LoadFrom("configs/.env")
}

// LoadFrom is Load with an explicit dotenv path. A missing file is not an error.
func LoadFrom(envFile string) (*Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	v := viper.New()

	v.SetDefault("app_name", "image-gallery")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("sources_file", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("render_format", RenderHTML)
	v.SetDefault("serve_addr", "")
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/gallery.db")
	v.SetDefault("storage_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	c.RequestTimeout = time.Duration(c.RequestTimeoutSeconds) * time.Second

	c.RenderFormat = strings.ToLower(strings.TrimSpace(c.RenderFormat))
	switch c.RenderFormat {
	case "":
		c.RenderFormat = RenderHTML
	case RenderHTML, RenderText:
	default:
		return fmt.Errorf("invalid render_format %q (expected %s or %s)", c.RenderFormat, RenderHTML, RenderText)
	}

	if c.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if c.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	c.StorageTTL = time.Duration(c.StorageTTLSeconds) * time.Second
	c.StorageCleanupInterval = time.Duration(c.StorageCleanupSeconds) * time.Second

	c.SourcesFile = strings.TrimSpace(c.SourcesFile)
	c.PublishersFile = strings.TrimSpace(c.PublishersFile)
	c.ServeAddr = strings.TrimSpace(c.ServeAddr)
	return nil
}
