package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:3001", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CorsOrigins)
	assert.Equal(t, "", cfg.Database.Path)
	assert.True(t, cfg.Database.Seed)
	assert.Equal(t, uint64(42), cfg.Routing.Seed)
	assert.True(t, cfg.Routing.HazardAware)
	assert.Equal(t, 500.0, cfg.Routing.HazardRadiusM)
	assert.Equal(t, 4, cfg.Routing.Waypoints)
	assert.Equal(t, "@every 1m", cfg.Alerts.SweepSchedule)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
server:
  addr: 0.0.0.0:8080
  write_timeout: 30s
routing:
  seed: 7
  waypoints: 6
database:
  path: /tmp/kk.db
`)
	t.Setenv("KK_ROUTING__SEED", "99")
	t.Setenv("KK_ROUTING__HAZARD_AWARE", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/tmp/kk.db", cfg.Database.Path)
	assert.Equal(t, 6, cfg.Routing.Waypoints)
	assert.Equal(t, uint64(99), cfg.Routing.Seed)
	assert.False(t, cfg.Routing.HazardAware)
}

func TestLoad_ConfigFileEnv(t *testing.T) {
	path := writeFile(t, "alerts:\n  sweep_schedule: \"*/5 * * * *\"\n")
	t.Setenv(ConfigFileEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "*/5 * * * *", cfg.Alerts.SweepSchedule)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"too few waypoints", map[string]string{"KK_ROUTING__WAYPOINTS": "1"}},
		{"bad address", map[string]string{"KK_SERVER__ADDR": "nowhere"}},
		{"zero radius", map[string]string{"KK_ROUTING__HAZARD_RADIUS_M": "0"}},
		{"bad schedule", map[string]string{"KK_ALERTS__SWEEP_SCHEDULE": "every minute"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.addr", envKey("KK_SERVER__ADDR"))
	assert.Equal(t, "routing.hazard_radius_m", envKey("KK_ROUTING__HAZARD_RADIUS_M"))
}
