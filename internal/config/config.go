// Package config holds the viper-backed configuration for syncrosync.
//
// Settings resolve in priority order: command-line flags > environment
// variables (SYNCRO_ prefix) > config file (syncrosync.yaml) > defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeySourceSubdomain = "source.subdomain"
	KeySourceAPIKey    = "source.api_key"
	KeyDestSubdomain   = "dest.subdomain"
	KeyDestAPIKey      = "dest.api_key"

	KeyPacing      = "pacing"
	KeyTimeout     = "timeout"
	KeyTimezone    = "timezone"
	KeyCachePath   = "cache.path"
	KeyLogsDir     = "logs.dir"
	KeyFuzzyCutoff = "fuzzy_cutoff"

	KeyTicketsCSV  = "csv.tickets"
	KeyCommentsCSV = "csv.comments"
)

var v *viper.Viper

// Initialize sets up the viper singleton: defaults, config file search
// paths, and SYNCRO_-prefixed environment overrides. A missing config
// file is not an error; a malformed one is.
func Initialize(configFile string) error {
	v = viper.New()

	v.SetDefault(KeyPacing, "500ms")
	v.SetDefault(KeyTimeout, "30s")
	v.SetDefault(KeyTimezone, "America/New_York")
	v.SetDefault(KeyCachePath, "temp_data.json")
	v.SetDefault(KeyLogsDir, "logs")
	v.SetDefault(KeyFuzzyCutoff, 0.4)
	v.SetDefault(KeyTicketsCSV, "tickets.csv")
	v.SetDefault(KeyCommentsCSV, "comments.csv")

	v.SetEnvPrefix("SYNCRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("syncrosync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/syncrosync")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Tenant holds the credentials for one Syncro tenant.
type Tenant struct {
	Subdomain string
	APIKey    string
}

// Config is the resolved settings snapshot for a run.
type Config struct {
	Source Tenant
	Dest   Tenant

	Pacing      time.Duration
	Timeout     time.Duration
	Timezone    string
	CachePath   string
	LogsDir     string
	FuzzyCutoff float64

	TicketsCSV  string
	CommentsCSV string
}

// Load materializes the current viper state into a Config.
func Load() *Config {
	return &Config{
		Source: Tenant{
			Subdomain: v.GetString(KeySourceSubdomain),
			APIKey:    v.GetString(KeySourceAPIKey),
		},
		Dest: Tenant{
			Subdomain: v.GetString(KeyDestSubdomain),
			APIKey:    v.GetString(KeyDestAPIKey),
		},
		Pacing:      v.GetDuration(KeyPacing),
		Timeout:     v.GetDuration(KeyTimeout),
		Timezone:    v.GetString(KeyTimezone),
		CachePath:   v.GetString(KeyCachePath),
		LogsDir:     v.GetString(KeyLogsDir),
		FuzzyCutoff: v.GetFloat64(KeyFuzzyCutoff),
		TicketsCSV:  v.GetString(KeyTicketsCSV),
		CommentsCSV: v.GetString(KeyCommentsCSV),
	}
}

// RequireDest validates that destination tenant credentials are present.
func (c *Config) RequireDest() error {
	if c.Dest.Subdomain == "" || c.Dest.APIKey == "" {
		return fmt.Errorf("destination tenant not configured: set %s and %s", KeyDestSubdomain, KeyDestAPIKey)
	}
	return nil
}

// RequireSource validates that source tenant credentials are present.
func (c *Config) RequireSource() error {
	if c.Source.Subdomain == "" || c.Source.APIKey == "" {
		return fmt.Errorf("source tenant not configured: set %s and %s", KeySourceSubdomain, KeySourceAPIKey)
	}
	return nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Set overrides a single key, primarily for flag binding and tests.
func Set(key string, value interface{}) {
	if v == nil {
		v = viper.New()
	}
	v.Set(key, value)
}
