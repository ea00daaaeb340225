package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-qamar/internal/astro"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, astro.Dakar, cfg.SkyPlace().Coord)
	assert.Equal(t, astro.Mecca, cfg.TargetCoord())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Dakar", cfg.Place.Name)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
place:
  name: Paris
  lat: 48.8566
  lon: 2.3522
  tz: Europe/Paris
logging:
  level: debug
refresh_interval: 10s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Paris", cfg.Place.Name)
	assert.Equal(t, 48.8566, cfg.Place.Lat)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, astro.Mecca.Latitude, cfg.Target.Lat, "unset sections keep defaults")

	d, err := cfg.Refresh()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("place: [oops"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("place from environment", func(t *testing.T) {
		t.Setenv("QAMAR_LAT", "21.5")
		t.Setenv("QAMAR_LON", "39.2")
		t.Setenv("QAMAR_TZ", "Asia/Riyadh")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, 21.5, cfg.Place.Lat)
		assert.Equal(t, 39.2, cfg.Place.Lon)
		assert.Equal(t, "Asia/Riyadh", cfg.Place.TimeZone)
	})

	t.Run("unparsable numbers are ignored", func(t *testing.T) {
		t.Setenv("QAMAR_LAT", "north")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, astro.Dakar.Latitude, cfg.Place.Lat)
	})

	t.Run("hosted backend is selected from its keys", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://example.supabase.co")
		t.Setenv("SUPABASE_ANON_KEY", "anon")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, BackendREST, cfg.Backend.Kind)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("postgres backend is selected from its keys", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/qamar")
		t.Setenv("JWT_SECRET", "s3cret")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, BackendPostgres, cfg.Backend.Kind)
	})

	t.Run("explicit kind wins", func(t *testing.T) {
		t.Setenv("QAMAR_BACKEND", BackendPostgres)
		t.Setenv("SUPABASE_URL", "https://example.supabase.co")
		t.Setenv("SUPABASE_ANON_KEY", "anon")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, BackendPostgres, cfg.Backend.Kind)
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("QAMAR_TEST_DOTENV=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("QAMAR_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(file))
	assert.Equal(t, "from-file", os.Getenv("QAMAR_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "absent.env")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"latitude out of range", func(c *Config) { c.Place.Lat = 95 }},
		{"target out of range", func(c *Config) { c.Target.Lon = 200 }},
		{"unknown zone", func(c *Config) { c.Place.TimeZone = "Mars/Olympus" }},
		{"bad refresh", func(c *Config) { c.RefreshInterval = "soon" }},
		{"rest without key", func(c *Config) { c.Backend = BackendConfig{Kind: BackendREST, URL: "http://x"} }},
		{"postgres without secret", func(c *Config) {
			c.Backend = BackendConfig{Kind: BackendPostgres, DatabaseURL: "postgres://x"}
		}},
		{"unknown backend", func(c *Config) { c.Backend.Kind = "mongo" }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRefreshClamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RefreshInterval = "10ms"
	d, err := cfg.Refresh()
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	cfg.RefreshInterval = "3h"
	d, err = cfg.Refresh()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, d)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Place.Name = "Touba"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Touba", loaded.Place.Name)
}
