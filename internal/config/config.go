// Package config loads application settings from defaults, an optional YAML
// file, a .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-qamar/internal/astro"
	"github.com/litescript/ls-qamar/internal/sky"
)

// Backend names accepted in Config.Backend.
const (
	BackendNone     = "none"
	BackendREST     = "rest"
	BackendPostgres = "postgres"
)

// Config holds all settings.
type Config struct {
	Place   PlaceConfig   `yaml:"place"`
	Target  TargetConfig  `yaml:"target"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Session SessionConfig `yaml:"session"`

	RefreshInterval string `yaml:"refresh_interval"`
}

// PlaceConfig is the observer location.
type PlaceConfig struct {
	Name     string  `yaml:"name"`
	Lat      float64 `yaml:"lat"`
	Lon      float64 `yaml:"lon"`
	TimeZone string  `yaml:"tz"`
}

// TargetConfig is the qibla target.
type TargetConfig struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	File   string `yaml:"file"`
}

// ServerConfig controls the JSON API.
type ServerConfig struct {
	Address     string   `yaml:"address"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// BackendConfig selects and configures identity and data storage.
type BackendConfig struct {
	Kind string `yaml:"kind"` // none, rest, postgres

	// Hosted (PostgREST/GoTrue) backend.
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`

	// Self-hosted backend.
	DatabaseURL string `yaml:"database_url"`
	JWTSecret   string `yaml:"jwt_secret"`
}

// SessionConfig controls where the signed-in session is kept.
type SessionConfig struct {
	File          string `yaml:"file"`
	RedisAddress  string `yaml:"redis_address"`
	RedisUsername string `yaml:"redis_username"`
	RedisPassword string `yaml:"redis_password"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Place: PlaceConfig{
			Name:     "Dakar",
			Lat:      astro.Dakar.Latitude,
			Lon:      astro.Dakar.Longitude,
			TimeZone: "Africa/Dakar",
		},
		Target: TargetConfig{
			Lat: astro.Mecca.Latitude,
			Lon: astro.Mecca.Longitude,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Address:     ":8080",
			CORSOrigins: []string{"*"},
		},
		Backend: BackendConfig{
			Kind: BackendNone,
		},
		Session: SessionConfig{
			File: defaultSessionFile(),
		},
		RefreshInterval: "30s",
	}
}

// DefaultPath is the config file looked up when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ls-qamar", "config.yaml")
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ls-qamar", "session.yaml")
}

// Load reads path (missing files are not an error), then .env, then the
// environment. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadDotEnv loads variables from file into the environment without
// overriding ones already set. A missing file is ignored.
func LoadDotEnv(file string) error {
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(file); err != nil {
		return fmt.Errorf("failed to load %s: %w", file, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}

	str("QAMAR_PLACE", &c.Place.Name)
	num("QAMAR_LAT", &c.Place.Lat)
	num("QAMAR_LON", &c.Place.Lon)
	str("QAMAR_TZ", &c.Place.TimeZone)
	str("QAMAR_LOG_LEVEL", &c.Logging.Level)
	str("QAMAR_LOG_FORMAT", &c.Logging.Format)
	str("QAMAR_LOG_FILE", &c.Logging.File)
	str("QAMAR_REFRESH", &c.RefreshInterval)
	str("QAMAR_BACKEND", &c.Backend.Kind)
	str("QAMAR_SESSION_FILE", &c.Session.File)
	str("SERVER_ADDRESS", &c.Server.Address)

	str("SUPABASE_URL", &c.Backend.URL)
	str("SUPABASE_ANON_KEY", &c.Backend.AnonKey)
	str("DATABASE_URL", &c.Backend.DatabaseURL)
	str("JWT_SECRET", &c.Backend.JWTSecret)

	str("REDIS_ADDRESS", &c.Session.RedisAddress)
	str("REDIS_USERNAME", &c.Session.RedisUsername)
	str("REDIS_PASSWORD", &c.Session.RedisPassword)

	// A configured hosted backend is used unless a kind was chosen.
	if c.Backend.Kind == BackendNone || c.Backend.Kind == "" {
		switch {
		case c.Backend.URL != "" && c.Backend.AnonKey != "":
			c.Backend.Kind = BackendREST
		case c.Backend.DatabaseURL != "" && c.Backend.JWTSecret != "":
			c.Backend.Kind = BackendPostgres
		}
	}
}

// Save writes the config as YAML, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate fails on settings that would break at run time.
func (c *Config) Validate() error {
	if _, err := astro.NewGeoCoordinate(c.Place.Lat, c.Place.Lon); err != nil {
		return fmt.Errorf("place: %w", err)
	}
	if _, err := astro.NewGeoCoordinate(c.Target.Lat, c.Target.Lon); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if c.Place.TimeZone != "" {
		if _, err := time.LoadLocation(c.Place.TimeZone); err != nil {
			return fmt.Errorf("place: unknown time zone %q: %w", c.Place.TimeZone, err)
		}
	}
	if _, err := c.Refresh(); err != nil {
		return err
	}

	switch c.Backend.Kind {
	case BackendNone, "":
	case BackendREST:
		if c.Backend.URL == "" || c.Backend.AnonKey == "" {
			return errors.New("backend rest requires SUPABASE_URL and SUPABASE_ANON_KEY")
		}
	case BackendPostgres:
		if c.Backend.DatabaseURL == "" {
			return errors.New("backend postgres requires DATABASE_URL")
		}
		if c.Backend.JWTSecret == "" {
			return errors.New("backend postgres requires JWT_SECRET")
		}
	default:
		return fmt.Errorf("unknown backend %q (want none, rest or postgres)", c.Backend.Kind)
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// Refresh parses RefreshInterval, clamped to [1s, 1h].
func (c *Config) Refresh() (time.Duration, error) {
	if c.RefreshInterval == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 0, fmt.Errorf("refresh_interval: %w", err)
	}
	return min(max(d, time.Second), time.Hour), nil
}

// SkyPlace converts the place settings.
func (c *Config) SkyPlace() sky.Place {
	return sky.Place{
		Name:     c.Place.Name,
		Coord:    astro.GeoCoordinate{Latitude: c.Place.Lat, Longitude: c.Place.Lon},
		Location: sky.LoadLocation(c.Place.TimeZone),
	}
}

// TargetCoord converts the target settings.
func (c *Config) TargetCoord() astro.GeoCoordinate {
	return astro.GeoCoordinate{Latitude: c.Target.Lat, Longitude: c.Target.Lon}
}
