package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DefaultEnvFile is read when present; environment variables win over it.
const DefaultEnvFile = ".env"

// Config captures registry client, logging and mock registry settings.
type Config struct {
	RegistryEndpoint   string        `mapstructure:"REGISTRY_ENDPOINT"`
	SOAPAction         string        `mapstructure:"REGISTRY_SOAP_ACTION"`
	Timeout            time.Duration `mapstructure:"REGISTRY_TIMEOUT"`
	AdvisoryCodes      []string      `mapstructure:"REGISTRY_ADVISORY_CODES"`
	SenderOrganization string        `mapstructure:"REGISTRY_SENDER_ORG"`
	ReceiverOrg        string        `mapstructure:"REGISTRY_RECEIVER_ORG"`
	SenderDevice       string        `mapstructure:"REGISTRY_SENDER_DEVICE"`
	DataEnterer        string        `mapstructure:"REGISTRY_DATA_ENTERER"`
	BreakerFailures    uint32        `mapstructure:"REGISTRY_BREAKER_FAILURES"`
	BreakerCooldown    time.Duration `mapstructure:"REGISTRY_BREAKER_COOLDOWN"`
	LookupConcurrency  int           `mapstructure:"REGISTRY_LOOKUP_CONCURRENCY"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	MockRegistryAddr string `mapstructure:"MOCK_REGISTRY_ADDR"`

	OtelEnabled    bool    `mapstructure:"OTEL_ENABLED"`
	OtelEndpoint   string  `mapstructure:"OTEL_EXPORTER_ENDPOINT"`
	OtelSampleRate float64 `mapstructure:"OTEL_SAMPLE_RATE"`
}

var keys = []string{
	"REGISTRY_ENDPOINT",
	"REGISTRY_SOAP_ACTION",
	"REGISTRY_TIMEOUT",
	"REGISTRY_ADVISORY_CODES",
	"REGISTRY_SENDER_ORG",
	"REGISTRY_RECEIVER_ORG",
	"REGISTRY_SENDER_DEVICE",
	"REGISTRY_DATA_ENTERER",
	"REGISTRY_BREAKER_FAILURES",
	"REGISTRY_BREAKER_COOLDOWN",
	"REGISTRY_LOOKUP_CONCURRENCY",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"MOCK_REGISTRY_ADDR",
	"OTEL_ENABLED",
	"OTEL_EXPORTER_ENDPOINT",
	"OTEL_SAMPLE_RATE",
}

// Load builds a Config from defaults, the optional env file and environment
// variables. An empty envFile skips the file.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	if envFile != "" {
		v.SetConfigFile(envFile)
	}
	v.AutomaticEnv()

	v.SetDefault("REGISTRY_ENDPOINT", "http://localhost:8090/HCIM.IntegrationService/HCIM.IntegrationService.svc")
	v.SetDefault("REGISTRY_SOAP_ACTION", "HCIM_IN_GetDemographics")
	v.SetDefault("REGISTRY_TIMEOUT", "30s")
	v.SetDefault("REGISTRY_BREAKER_FAILURES", 0)
	v.SetDefault("REGISTRY_BREAKER_COOLDOWN", "30s")
	v.SetDefault("REGISTRY_LOOKUP_CONCURRENCY", 4)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("MOCK_REGISTRY_ADDR", ":8090")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_ENDPOINT", "localhost:4318")
	v.SetDefault("OTEL_SAMPLE_RATE", 1.0)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	// A missing env file is fine
	if envFile != "" {
		_ = v.ReadInConfig()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would make the client unusable.
func (c *Config) Validate() error {
	if c.RegistryEndpoint == "" {
		return errors.New("REGISTRY_ENDPOINT is required")
	}
	if c.Timeout <= 0 {
		return errors.New("REGISTRY_TIMEOUT must be positive")
	}
	if c.LookupConcurrency < 1 {
		return errors.New("REGISTRY_LOOKUP_CONCURRENCY must be at least 1")
	}
	if c.OtelSampleRate < 0 || c.OtelSampleRate > 1 {
		return errors.New("OTEL_SAMPLE_RATE must be between 0 and 1")
	}
	return nil
}
