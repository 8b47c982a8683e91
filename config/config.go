package config

import (
	"fmt"
	"time"

	"github.com/Gobusters/ectoenv"
)

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"clover-api"`
	Port                          int      `env:"PORT" env-default:"3000"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE,OPTIONS"`

	// Pipedrive API token (query-string auth)
	PipedriveAPIToken string `env:"PIPEDRIVE_API_TOKEN" env-default:""`
	// Pipedrive company subdomain, e.g. "acme" for acme.pipedrive.com
	PipedriveCompanyDomain string `env:"PIPEDRIVE_COMPANY_DOMAIN" env-default:""`
	// Key of the deal custom field that receives the first-touch URL
	PipedriveURLFieldKey string `env:"PIPEDRIVE_URL_FIELD_KEY" env-default:""`

	// ActiveCampaign account API URL, e.g. https://acme.api-us1.com
	ActiveCampaignAPIURL string `env:"AC_API_URL" env-default:""`
	// ActiveCampaign API key (header auth)
	ActiveCampaignAPIKey string `env:"AC_API_KEY" env-default:""`
	// How many tracking log entries to fetch per contact (single page, no follow-up paging)
	TrackingLogLimit int `env:"TRACKING_LOG_LIMIT" env-default:"100"`

	// Redis host
	RedisHost string `env:"REDIS_HOST" env-default:"localhost"`
	// Redis port
	RedisPort int `env:"REDIS_PORT" env-default:"6379"`
	// Redis password
	RedisPassword string `env:"REDIS_PASSWORD" env-default:""`
	// Redis database number
	RedisDB int `env:"REDIS_DB" env-default:"0"`
	// Serialize sync upserts per contact key with a redis lock
	SyncLockEnabled bool `env:"SYNC_LOCK_ENABLED" env-default:"false"`
	// TTL for the per-key sync upsert lock
	SyncLockTTL time.Duration `env:"SYNC_LOCK_TTL" env-default:"5s"`

	// Kafka brokers (comma-separated); eventing is disabled when empty
	KafkaBrokers []string `env:"KAFKA_BROKERS" env-default:""`
	// Kafka topic for attribution events
	KafkaAttributionTopic string `env:"KAFKA_ATTRIBUTION_TOPIC" env-default:"attribution-events"`

	// Tracing settings
	// Enable OTLP tracing export (set to true to send traces to collector)
	OTLPEnabled bool `env:"OTLP_ENABLED" env-default:"false"`
	// OTLP collector endpoint
	OTLPEndpoint string `env:"OTLP_ENDPOINT" env-default:"localhost:4317"`
	// OTLP protocol (grpc or http)
	OTLPProtocol string `env:"OTLP_PROTOCOL" env-default:"grpc"`
	// Disable TLS for OTLP (for local development)
	OTLPInsecure bool `env:"OTLP_INSECURE" env-default:"true"`
}

// Load binds environment variables onto a Config and validates the vendor settings.
func Load() (*Config, error) {
	var cfg Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to bind environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the vendor clients cannot run without.
func (c *Config) Validate() error {
	if c.PipedriveAPIToken == "" {
		return fmt.Errorf("PIPEDRIVE_API_TOKEN is required")
	}
	if c.PipedriveCompanyDomain == "" {
		return fmt.Errorf("PIPEDRIVE_COMPANY_DOMAIN is required")
	}
	if c.PipedriveURLFieldKey == "" {
		return fmt.Errorf("PIPEDRIVE_URL_FIELD_KEY is required")
	}
	if c.ActiveCampaignAPIURL == "" {
		return fmt.Errorf("AC_API_URL is required")
	}
	if c.ActiveCampaignAPIKey == "" {
		return fmt.Errorf("AC_API_KEY is required")
	}
	if c.TrackingLogLimit <= 0 {
		return fmt.Errorf("TRACKING_LOG_LIMIT must be positive")
	}
	return nil
}
