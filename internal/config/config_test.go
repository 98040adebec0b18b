package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no stray .env or
// astrokit.yaml leaks in.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "", cfg.Remote.URL)
	assert.Equal(t, 0, cfg.Remote.Retries)
	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "astrokit_predictions", cfg.Store.Slot)
	assert.Equal(t, 8001, cfg.Server.Port)
	assert.Equal(t, "disable", cfg.Store.Postgres.SSLMode)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ASTROKIT_REMOTE_URL", "http://localhost:8001/api")
	t.Setenv("ASTROKIT_REMOTE_TIMEOUT_SECS", "7")
	t.Setenv("ASTROKIT_STORE_DRIVER", "memory")
	t.Setenv("ASTROKIT_SERVER_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8001/api", cfg.Remote.URL)
	assert.Equal(t, 7, cfg.Remote.TimeoutSecs)
	assert.Equal(t, "7s", cfg.Remote.Timeout().String())
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_File(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	yml := `
store:
  driver: sqlite
  path: /tmp/history.db
heuristic:
  profile: profile.yaml
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/tmp/history.db", cfg.Store.Path)
	assert.Equal(t, "profile.yaml", cfg.Heuristic.Profile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(*Config) {}, false},
		{"bad driver", func(c *Config) { c.Store.Driver = "redis" }, true},
		{"negative retries", func(c *Config) { c.Remote.Retries = -1 }, true},
		{"negative timeout", func(c *Config) { c.Remote.TimeoutSecs = -3 }, true},
		{"empty slot", func(c *Config) { c.Store.Slot = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Store: StoreConfig{Driver: "memory", Slot: "s"}}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetupLogger(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	SetupLogger(LogConfig{Level: "debug", Format: "json"})
	assert.Equal(t, zerolog.DebugLevel, log.Logger.GetLevel())

	SetupLogger(LogConfig{Level: "nonsense"})
	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())
}
