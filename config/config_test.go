package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deliciouscopy.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := writeConf(t, `
logfile = "/var/log/copy.log"
verbose = true
delay = "2s"
schedule = "*/30 * * * *"

[delicious]
username = "me"
password = "secret"
key = "k3y"

[history]
driver = "sqlite"
sqlite_path = "/var/lib/copy.db"
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "me", cfg.Delicious.Username)
		assert.Equal(t, "secret", cfg.Delicious.Password)
		assert.Equal(t, "k3y", cfg.Delicious.Key)
		assert.Equal(t, "/var/log/copy.log", cfg.LogFile)
		assert.True(t, cfg.Verbose)
		assert.False(t, cfg.SkipLogged)
		assert.Equal(t, 2*time.Second, cfg.Delay)
		assert.Equal(t, "*/30 * * * *", cfg.Schedule)
		assert.Equal(t, "sqlite", cfg.History.Driver)
	})

	t.Run("defaults", func(t *testing.T) {
		path := writeConf(t, `
[delicious]
username = "me"
password = "secret"
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "deliciouscopy.log", cfg.LogFile)
		assert.Equal(t, time.Second, cfg.Delay)
		assert.Empty(t, cfg.Schedule)
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := writeConf(t, `
[delicious]
username = "me"
password = "secret"
`)
		t.Setenv("DELICIOUS_PASSWORD", "from-env")
		t.Setenv("DELICIOUSCOPY_SKIP_LOGGED", "true")
		t.Setenv("MINIFLUX_HOSTNAME", "http://miniflux.local")
		t.Setenv("MINIFLUX_API_KEY", "mf")
		t.Setenv("MINIFLUX_CATEGORY_ID", "4")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "me", cfg.Delicious.Username)
		assert.Equal(t, "from-env", cfg.Delicious.Password)
		assert.True(t, cfg.SkipLogged)
		assert.Equal(t, Miniflux{Hostname: "http://miniflux.local", APIKey: "mf", CategoryID: 4}, cfg.Miniflux)
	})

	t.Run("env only", func(t *testing.T) {
		t.Setenv("DELICIOUS_USERNAME", "me")
		t.Setenv("DELICIOUS_PASSWORD", "secret")
		t.Setenv("DELICIOUSCOPY_LOGFILE", "/tmp/copy.log")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/copy.log", cfg.LogFile)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("broken file", func(t *testing.T) {
		_, err := Load(writeConf(t, `logfile = `))
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})
}

func TestLoadHistory(t *testing.T) {
	t.Run("history only", func(t *testing.T) {
		path := writeConf(t, `
[history]
driver = "sqlite"
sqlite_path = "/var/lib/copy.db"
`)
		cfg, err := LoadHistory(path)
		require.NoError(t, err)
		assert.Equal(t, History{Driver: "sqlite", SQLitePath: "/var/lib/copy.db"}, cfg.History)

		_, err = Load(path)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("postgres from env", func(t *testing.T) {
		t.Setenv("DELICIOUSCOPY_HISTORY_DRIVER", "postgres")
		t.Setenv("DELICIOUSCOPY_HISTORY_POSTGRES_HOSTNAME", "db.local")

		cfg, err := LoadHistory("")
		require.NoError(t, err)
		assert.Equal(t, "db.local", cfg.History.PGHostname)
	})

	t.Run("no driver", func(t *testing.T) {
		path := writeConf(t, `
[delicious]
username = "me"
password = "secret"
`)
		_, err := LoadHistory(path)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("sqlite without path", func(t *testing.T) {
		_, err := LoadHistory(writeConf(t, `
[history]
driver = "sqlite"
`))
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Default()
		cfg.Delicious.Username = "me"
		cfg.Delicious.Password = "secret"
		return cfg
	}

	for _, tc := range []struct {
		name  string
		edit  func(*Config)
		valid bool
	}{
		{name: "valid", edit: func(c *Config) {}, valid: true},
		{name: "no username", edit: func(c *Config) { c.Delicious.Username = "" }},
		{name: "no password", edit: func(c *Config) { c.Delicious.Password = "" }},
		{name: "no logfile", edit: func(c *Config) { c.LogFile = "" }},
		{name: "negative delay", edit: func(c *Config) { c.Delay = -time.Second }},
		{name: "zero delay", edit: func(c *Config) { c.Delay = 0 }, valid: true},
		{name: "miniflux without key", edit: func(c *Config) { c.Miniflux.Hostname = "http://mf" }},
		{name: "sqlite without path", edit: func(c *Config) { c.History.Driver = "sqlite" }},
		{name: "postgres", edit: func(c *Config) { c.History.Driver = "postgres" }, valid: true},
		{name: "unknown driver", edit: func(c *Config) { c.History.Driver = "mysql" }},
		{name: "bad schedule", edit: func(c *Config) { c.Schedule = "every minute" }},
		{name: "descriptor schedule", edit: func(c *Config) { c.Schedule = "@hourly" }, valid: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.edit(&cfg)
			err := cfg.Validate()
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}
