package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Generator modes
const (
	ModeSimulate = "simulate"
	ModeGCP      = "gcp"
)

const (
	environmentProduction = "production"
	configFileEnv         = "MUSIC_GEN_CONFIG"
)

// Config holds the application configuration.
// It is built once at startup and passed down; nothing re-reads the environment afterwards.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Generation
	Mode                         string // "simulate" or "gcp"
	GoogleCloudProject           string // Required in gcp mode
	GoogleCloudRegion            string
	GoogleApplicationCredentials string // Optional service account JSON path

	// Presets
	PresetsDir string

	// Auth: shared secret checked against X-API-Key or Authorization: Bearer.
	// Empty disables auth.
	APIKey string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse
}

var defaults = map[string]interface{}{
	"ENVIRONMENT":                    "development",
	"PORT":                           "8080",
	"MUSIC_GEN_MODE":                 ModeSimulate,
	"MUSIC_GEN_PRESETS_DIR":          "./presets",
	"MUSIC_GEN_API_KEY":              "",
	"GOOGLE_CLOUD_PROJECT":           "",
	"GOOGLE_CLOUD_REGION":            "us-central1",
	"GOOGLE_APPLICATION_CREDENTIALS": "",
	"SENTRY_DSN":                     "",
	"LANGFUSE_PUBLIC_KEY":            "",
	"LANGFUSE_SECRET_KEY":            "",
	"LANGFUSE_HOST":                  "https://cloud.langfuse.com",
	"LANGFUSE_ENABLED":               false,
}

// Load reads defaults, an optional config file named by MUSIC_GEN_CONFIG,
// then environment variables (highest priority).
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.BindEnv(configFileEnv); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", configFileEnv, err)
	}
	if path := v.GetString(configFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Environment:                  v.GetString("ENVIRONMENT"),
		Port:                         v.GetString("PORT"),
		Mode:                         v.GetString("MUSIC_GEN_MODE"),
		GoogleCloudProject:           v.GetString("GOOGLE_CLOUD_PROJECT"),
		GoogleCloudRegion:            v.GetString("GOOGLE_CLOUD_REGION"),
		GoogleApplicationCredentials: v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
		PresetsDir:                   v.GetString("MUSIC_GEN_PRESETS_DIR"),
		APIKey:                       v.GetString("MUSIC_GEN_API_KEY"),
		SentryDSN:                    v.GetString("SENTRY_DSN"),
		LangfusePublicKey:            v.GetString("LANGFUSE_PUBLIC_KEY"),
		LangfuseSecretKey:            v.GetString("LANGFUSE_SECRET_KEY"),
		LangfuseHost:                 v.GetString("LANGFUSE_HOST"),
		LangfuseEnabled:              v.GetBool("LANGFUSE_ENABLED"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown generator modes
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeSimulate, ModeGCP:
		return nil
	default:
		return fmt.Errorf("invalid MUSIC_GEN_MODE %q (allowed: %s, %s)", c.Mode, ModeSimulate, ModeGCP)
	}
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == environmentProduction
}

// IsGCPMode returns true when the generator targets Google Cloud
func (c *Config) IsGCPMode() bool {
	return c.Mode == ModeGCP
}

// AuthEnabled returns true when a shared secret is configured
func (c *Config) AuthEnabled() bool {
	return c.APIKey != ""
}
