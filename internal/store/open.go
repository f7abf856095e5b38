package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/inventario/internal/db"
)

// Options selects and configures a KV implementation.
type Options struct {
	Driver Driver
	DBPath string
	S3     S3Config
}

// Open builds the KV selected by opts. The returned close function releases
// the underlying resources and is never nil.
func Open(ctx context.Context, opts Options) (KV, func() error, error) {
	noop := func() error { return nil }

	switch opts.Driver {
	case DriverSQLite, "":
		database, err := openSQLite(opts.DBPath)
		if err != nil {
			return nil, noop, err
		}
		return NewSQLite(database), database.Close, nil
	case DriverS3:
		kv, err := NewS3(ctx, opts.S3)
		if err != nil {
			return nil, noop, fmt.Errorf("opening s3 store: %w", err)
		}
		return kv, noop, nil
	case DriverMemory:
		return NewMemory(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

func openSQLite(path string) (*sql.DB, error) {
	if path == "" {
		path = "inventario.sqlite3"
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
