// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/erazemk/inventario/internal/store"
)

// Config is the complete runtime configuration.
type Config struct {
	Addr   string `env:"ADDR" envDefault:":8080"`
	Log    Log    `envPrefix:"LOG_"`
	Store  Store  `envPrefix:"STORE_"`
	DBPath string `env:"DB_PATH" envDefault:"inventario.sqlite3"`
	// StateKey is the key the snapshot is stored under.
	StateKey string `env:"STATE_KEY" envDefault:"inventario.state"`
	S3       S3     `envPrefix:"S3_"`
}

// Log configures the process logger.
type Log struct {
	Level string `env:"LEVEL" envDefault:"info"`
	JSON  bool   `env:"JSON" envDefault:"false"`
	File  string `env:"FILE"`
}

// Store selects the durable key-value store.
type Store struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
}

// S3 configures the s3 store driver.
type S3 struct {
	Bucket          string `env:"BUCKET"`
	Region          string `env:"REGION" envDefault:"us-east-1"`
	Endpoint        string `env:"ENDPOINT"`
	Prefix          string `env:"PREFIX"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	PathStyle       bool   `env:"PATH_STYLE" envDefault:"false"`
}

// Prefix is prepended to every variable name.
const Prefix = "INVENTARIO_"

// Load reads the configuration from the environment. With APP_ENV=local the
// given .env files (default ".env") are loaded first; missing files are
// ignored.
func Load(path ...string) (Config, error) {
	const op = "config.Load"

	if shouldLoadDotenv() {
		if err := godotenv.Load(path...); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%s: load .env: %w", op, err)
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// Validate checks the values that env tags cannot.
func (c Config) Validate() error {
	switch store.Driver(c.Store.Driver) {
	case store.DriverSQLite, store.DriverMemory:
	case store.DriverS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("%sS3_BUCKET is required for the s3 driver", Prefix)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// StoreOptions maps the configuration onto store.Open options.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Driver: store.Driver(c.Store.Driver),
		DBPath: c.DBPath,
		S3: store.S3Config{
			Bucket:          c.S3.Bucket,
			Region:          c.S3.Region,
			Endpoint:        c.S3.Endpoint,
			Prefix:          c.S3.Prefix,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			PathStyle:       c.S3.PathStyle,
		},
	}
}

// ParseLevel maps debug, info, warn and error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

func shouldLoadDotenv() bool {
	return os.Getenv("APP_ENV") == "local"
}
