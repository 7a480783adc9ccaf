package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/utafrali/EcommerceGo/services/storefront/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Catalog API
	CatalogBaseURL        string `env:"CATALOG_BASE_URL" envDefault:"https://fakestoreapi.com"`
	CatalogTimeoutSeconds int    `env:"CATALOG_TIMEOUT_SECONDS" envDefault:"10"`
	CatalogMaxRetries     int    `env:"CATALOG_MAX_RETRIES" envDefault:"2"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart persistence. A TTL of 0 keeps the cart forever.
	CartStorageKey       string `env:"CART_STORAGE_KEY" envDefault:"storefront:cart"`
	CartTTL              int    `env:"CART_TTL_HOURS" envDefault:"0"`
	CartStorageTimeoutMS int    `env:"CART_STORAGE_TIMEOUT_MS" envDefault:"3000"`
	CartSlowOpMS         int    `env:"CART_SLOW_OP_MS" envDefault:"100"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CatalogTimeout is the per-request budget for catalog calls.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.CatalogTimeoutSeconds) * time.Second
}

// CartTTLDuration is the expiry applied to the stored cart.
func (c *Config) CartTTLDuration() time.Duration {
	return time.Duration(c.CartTTL) * time.Hour
}

// CartStorageTimeout bounds each cart load and save.
func (c *Config) CartStorageTimeout() time.Duration {
	return time.Duration(c.CartStorageTimeoutMS) * time.Millisecond
}

// CartSlowOpThreshold is the latency above which a Redis call is logged.
// Zero disables the log.
func (c *Config) CartSlowOpThreshold() time.Duration {
	return time.Duration(c.CartSlowOpMS) * time.Millisecond
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	u, err := url.Parse(c.CatalogBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("CATALOG_BASE_URL must be an absolute http(s) URL: %q", c.CatalogBaseURL)
	}
	if c.CatalogTimeoutSeconds < 1 {
		return fmt.Errorf("CATALOG_TIMEOUT_SECONDS must be positive: %d", c.CatalogTimeoutSeconds)
	}
	if c.CatalogMaxRetries < 0 {
		return fmt.Errorf("CATALOG_MAX_RETRIES must not be negative: %d", c.CatalogMaxRetries)
	}

	if c.CartStorageKey == "" {
		return fmt.Errorf("CART_STORAGE_KEY is required")
	}
	if c.CartTTL < 0 {
		return fmt.Errorf("CART_TTL_HOURS must not be negative: %d", c.CartTTL)
	}
	if c.CartStorageTimeoutMS < 1 {
		return fmt.Errorf("CART_STORAGE_TIMEOUT_MS must be positive: %d", c.CartStorageTimeoutMS)
	}
	if c.CartSlowOpMS < 0 {
		return fmt.Errorf("CART_SLOW_OP_MS must not be negative: %d", c.CartSlowOpMS)
	}

	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}

	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0: %v", c.OTELSampleRate)
	}
	return nil
}
