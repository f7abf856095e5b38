// Package persist saves and restores the container snapshot as one JSON blob
// under a fixed key.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/erazemk/inventario/internal/model"
	"github.com/erazemk/inventario/internal/store"
)

// DefaultKey is the key the snapshot is stored under.
const DefaultKey = "inventario.state"

// Persister loads and saves snapshots.
type Persister interface {
	Load(ctx context.Context) model.Snapshot
	Save(ctx context.Context, s model.Snapshot) error
}

// Adapter is a Persister over a KV store.
type Adapter struct {
	kv     store.KV
	key    string
	logger *slog.Logger
}

// NewAdapter returns an Adapter storing under key (DefaultKey when empty).
// A nil logger means slog.Default().
func NewAdapter(kv store.KV, key string, logger *slog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{kv: kv, key: key, logger: logger}
}

// Key returns the storage key.
func (a *Adapter) Key() string { return a.key }

// Load returns the stored snapshot. It never fails: a missing key, an
// unreadable store or a corrupted value all yield model.DefaultSnapshot().
// A corrupted value is deleted.
func (a *Adapter) Load(ctx context.Context) model.Snapshot {
	data, err := a.kv.Get(ctx, a.key)
	if errors.Is(err, store.ErrNotFound) {
		a.logger.Info("no stored snapshot, using defaults", "key", a.key)
		return model.DefaultSnapshot()
	}
	if err != nil {
		a.logger.Error("failed to read stored snapshot, using defaults", "key", a.key, "error", err)
		return model.DefaultSnapshot()
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		a.logger.Warn("stored snapshot is empty, using defaults", "key", a.key)
		return model.DefaultSnapshot()
	}

	s, err := Decode(data)
	if err != nil {
		a.logger.Warn("discarding corrupted snapshot", "key", a.key, "bytes", len(data), "error", err)
		if err := a.kv.Delete(ctx, a.key); err != nil {
			a.logger.Error("failed to delete corrupted snapshot", "key", a.key, "error", err)
		}
		return model.DefaultSnapshot()
	}
	return s
}

// Save stores s under the adapter's key.
func (a *Adapter) Save(ctx context.Context, s model.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := a.kv.Put(ctx, a.key, data); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Decode parses a stored snapshot over model.DefaultSnapshot() and
// normalizes it. Unknown fields are ignored and missing ones keep their
// seeded values, so a null or empty object decodes to the seed.
func Decode(data []byte) (model.Snapshot, error) {
	s := model.DefaultSnapshot()
	if err := json.Unmarshal(data, &s); err != nil {
		return model.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	s.Normalize()
	return s, nil
}
