package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/inventario/internal/store"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "inventario.sqlite3", cfg.DBPath)
	assert.Equal(t, "inventario.state", cfg.StateKey)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("INVENTARIO_ADDR", "127.0.0.1:9000")
	t.Setenv("INVENTARIO_LOG_LEVEL", "debug")
	t.Setenv("INVENTARIO_LOG_JSON", "true")
	t.Setenv("INVENTARIO_STORE_DRIVER", "s3")
	t.Setenv("INVENTARIO_S3_BUCKET", "inventario")
	t.Setenv("INVENTARIO_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("INVENTARIO_S3_PATH_STYLE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.True(t, cfg.Log.JSON)

	opts := cfg.StoreOptions()
	assert.Equal(t, store.DriverS3, opts.Driver)
	assert.Equal(t, "inventario", opts.S3.Bucket)
	assert.Equal(t, "http://localhost:9000", opts.S3.Endpoint)
	assert.True(t, opts.S3.PathStyle)
}

func TestLoadDotenvWhenLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("INVENTARIO_DB_PATH=/tmp/dotenv.sqlite3\n"), 0o600))
	t.Setenv("APP_ENV", "local")
	// godotenv never overrides variables that are already set, so register
	// the variable with t.Setenv first to get it restored after the test.
	t.Setenv("INVENTARIO_DB_PATH", "")
	require.NoError(t, os.Unsetenv("INVENTARIO_DB_PATH"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dotenv.sqlite3", cfg.DBPath)
}

func TestLoadMissingDotenvIsIgnored(t *testing.T) {
	t.Setenv("APP_ENV", "local")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"memory", func(c *Config) { c.Store.Driver = "memory" }, false},
		{"s3 without bucket", func(c *Config) { c.Store.Driver = "s3" }, true},
		{"unknown driver", func(c *Config) { c.Store.Driver = "floppy" }, true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Log: Log{Level: "info"}, Store: Store{Driver: "sqlite"}}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
