package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all environment backed configuration for medisage-api.
type Config struct {
	// HTTP Server
	HTTPPort           int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	EnableSwagger      bool          `env:"ENABLE_SWAGGER" envDefault:"true"`

	// PostgreSQL
	DatabaseURL    string        `env:"DATABASE_URL,notEmpty"`
	DatabaseRead1  string        `env:"DB_POSTGRESQL_READ1_DSN"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	AutoMigrate    bool          `env:"AUTO_MIGRATE" envDefault:"true"`

	// Upstream providers
	TogetherAPIKey   string        `env:"TOGETHER_API_KEY"`
	TogetherBaseURL  string        `env:"TOGETHER_BASE_URL" envDefault:"https://api.together.xyz/v1"`
	GeminiAPIKey     string        `env:"GEMINI_API_KEY"`
	GeminiBaseURL    string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	AnthropicAPIKey  string        `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string        `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com/v1"`
	ProviderTimeout  time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"30s"`

	// Routing
	ModelCatalogFile string `env:"MODEL_CATALOG_FILE"`
	DefaultTier      string `env:"DEFAULT_TIER" envDefault:"personal"`
	MaxUploadBytes   int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// History
	HistoryQueueSize    int           `env:"HISTORY_QUEUE_SIZE" envDefault:"256"`
	HistoryWriteTimeout time.Duration `env:"HISTORY_WRITE_TIMEOUT" envDefault:"5s"`

	// Auth
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"720h"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"medisage-api"`
	JWKSURL   string        `env:"JWKS_URL"`

	// Provider health probe
	ProviderProbeEnabled         bool `env:"PROVIDER_PROBE_ENABLED" envDefault:"false"`
	ProviderProbeIntervalMinutes int  `env:"PROVIDER_PROBE_INTERVAL_MINUTES" envDefault:"15"`

	// Observability / Logging
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string `env:"SERVICE_NAME" envDefault:"medisage-api"`
	ServiceNamespace string `env:"SERVICE_NAMESPACE" envDefault:"medisage"`
	Environment      string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.DefaultTier = strings.ToLower(strings.TrimSpace(c.DefaultTier))
	c.ModelCatalogFile = strings.TrimSpace(c.ModelCatalogFile)

	for _, base := range []string{c.TogetherBaseURL, c.GeminiBaseURL, c.OpenAIBaseURL, c.AnthropicBaseURL} {
		if _, err := url.ParseRequestURI(base); err != nil {
			return fmt.Errorf("invalid provider base url %q: %w", base, err)
		}
	}

	if c.JWKSURL != "" {
		if _, err := url.ParseRequestURI(c.JWKSURL); err != nil {
			return fmt.Errorf("invalid JWKS_URL: %w", err)
		}
	} else if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("either JWT_SECRET or JWKS_URL must be provided")
	}

	if c.ProviderTimeout <= 0 {
		return errors.New("PROVIDER_TIMEOUT must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.HistoryQueueSize <= 0 {
		c.HistoryQueueSize = 1
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
