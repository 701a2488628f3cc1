package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	require.NoError(t, Initialize(""))
	cfg := Load()

	assert.Equal(t, 500*time.Millisecond, cfg.Pacing)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, "temp_data.json", cfg.CachePath)
	assert.Equal(t, "logs", cfg.LogsDir)
	assert.Equal(t, 0.4, cfg.FuzzyCutoff)
	assert.Equal(t, "tickets.csv", cfg.TicketsCSV)
	assert.Equal(t, "comments.csv", cfg.CommentsCSV)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syncrosync.yaml")
	content := `source:
  subdomain: oldtenant
  api_key: src-key
dest:
  subdomain: newtenant
  api_key: dst-key
pacing: 250ms
timezone: UTC
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	require.NoError(t, Initialize(path))

	cfg := Load()
	assert.Equal(t, "oldtenant", cfg.Source.Subdomain)
	assert.Equal(t, "src-key", cfg.Source.APIKey)
	assert.Equal(t, "newtenant", cfg.Dest.Subdomain)
	assert.Equal(t, 250*time.Millisecond, cfg.Pacing)
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestMissingExplicitConfigFile(t *testing.T) {
	err := Initialize(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err, "an explicitly named missing file must fail")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SYNCRO_DEST_SUBDOMAIN", "envtenant")
	require.NoError(t, Initialize(""))
	assert.Equal(t, "envtenant", Load().Dest.Subdomain)
}

func TestRequireTenants(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireSource())
	assert.Error(t, cfg.RequireDest())

	cfg.Dest = Tenant{Subdomain: "x", APIKey: "y"}
	assert.NoError(t, cfg.RequireDest())
	assert.Error(t, cfg.RequireSource())
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "America/New_York"}
	assert.Equal(t, "America/New_York", cfg.Location().String())

	bad := &Config{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, bad.Location(), "invalid timezone falls back to UTC")
}
