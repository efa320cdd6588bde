// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config holds client configuration values loaded from file or environment variables.
type Config struct {
	APIBaseURL          string  `mapstructure:"API_BASE_URL"`
	Token               string  `mapstructure:"TOKEN"`
	RequestTimeoutMS    int     `mapstructure:"REQUEST_TIMEOUT_MS"`
	RedisURL            string  `mapstructure:"REDIS_URL"`
	CacheTTLSeconds     int     `mapstructure:"CACHE_TTL_SECONDS"`
	MetricsAddr         string  `mapstructure:"METRICS_ADDR"`
	Env                 string  `mapstructure:"APP_ENV"`
	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	TracingOTLPEndpoint string  `mapstructure:"TRACING_OTLP_ENDPOINT"`
	TracingSamplerRatio float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutMS <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// CacheTTL returns the snapshot cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Validate checks required values and cross-field constraints.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL %q is not an absolute URL", c.APIBaseURL)
	}
	if c.TracingEnabled && c.TracingExporter == "otlp" && c.TracingOTLPEndpoint == "" {
		return errors.New("TRACING_OTLP_ENDPOINT is required when TRACING_EXPORTER=otlp")
	}
	if c.TracingSamplerRatio < 0 || c.TracingSamplerRatio > 1 {
		return fmt.Errorf("TRACING_SAMPLER_RATIO %v out of range [0,1]", c.TracingSamplerRatio)
	}
	return nil
}

// LoadConfig loads client configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("REQUEST_TIMEOUT_MS", 15000)
	viper.SetDefault("CACHE_TTL_SECONDS", 60)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)

	// Initial read to get APP_ENV if set in base config.
	// The base config file may legitimately not exist.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("merging profile config 'config.%s.yml': %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Env = env

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
