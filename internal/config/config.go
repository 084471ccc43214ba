package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

const (
	// EnvPrefix marks environment overrides; KK_SERVER__ADDR sets server.addr
	EnvPrefix = "KK_"
	// ConfigFileEnv names the YAML file to load
	ConfigFileEnv = "KK_CONFIG_FILE"
	// DefaultConfigFile is loaded when present and no file is named
	DefaultConfigFile = "config.yaml"
)

// Config holds the complete application configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Routing  RoutingConfig  `koanf:"routing"`
	Alerts   AlertsConfig   `koanf:"alerts"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr         string        `koanf:"addr" validate:"required,hostname_port"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	CorsOrigins  []string      `koanf:"cors_origins"`
}

// DatabaseConfig holds storage settings. An empty path means ~/.klaew-klad/data.db.
type DatabaseConfig struct {
	Path string `koanf:"path"`
	Seed bool   `koanf:"seed"`
}

// RoutingConfig holds evacuation routing settings
type RoutingConfig struct {
	Seed          uint64  `koanf:"seed"`
	HazardAware   bool    `koanf:"hazard_aware"`
	HazardRadiusM float64 `koanf:"hazard_radius_m" validate:"gt=0"`
	Waypoints     int     `koanf:"waypoints" validate:"gte=2,lte=64"`
}

// AlertsConfig holds alert housekeeping settings
type AlertsConfig struct {
	SweepSchedule string `koanf:"sweep_schedule" validate:"required"`
}

// Defaults returns the built-in configuration values
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.addr":             "127.0.0.1:3001",
		"server.read_timeout":     "15s",
		"server.write_timeout":    "15s",
		"server.idle_timeout":     "60s",
		"server.cors_origins":     []string{"*"},
		"database.path":           "",
		"database.seed":           true,
		"routing.seed":            42,
		"routing.hazard_aware":    true,
		"routing.hazard_radius_m": 500.0,
		"routing.waypoints":       4,
		"alerts.sweep_schedule":   "@every 1m",
	}
}

// Load reads defaults, then the YAML file, then KK_ environment variables.
// An empty path falls back to KK_CONFIG_FILE and then to config.yaml if present.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, err := resolveFile(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveFile(path string) (string, error) {
	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		return path, nil
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile, nil
	}
	return "", nil
}

// envKey maps KK_ROUTING__HAZARD_AWARE to routing.hazard_aware
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks field constraints and the cron schedule
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %s", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := cron.ParseStandard(c.Alerts.SweepSchedule); err != nil {
		return fmt.Errorf("invalid config: alerts.sweep_schedule: %w", err)
	}
	return nil
}
