package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/inventario/internal/db"
)

// exerciseKV runs the behaviour every KV implementation must share.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := kv.Put(ctx, "state", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := kv.Get(ctx, "state")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("expected stored value, got %q", got)
	}

	// Overwrite.
	if err := kv.Put(ctx, "state", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("Put (overwrite): %v", err)
	}
	got, _ = kv.Get(ctx, "state")
	if string(got) != `{"a":2}` {
		t.Errorf("expected overwritten value, got %q", got)
	}

	if err := kv.Delete(ctx, "state"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := kv.Get(ctx, "state"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is fine.
	if err := kv.Delete(ctx, "state"); err != nil {
		t.Errorf("Delete (missing): %v", err)
	}
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestSQLiteKV(t *testing.T) {
	exerciseKV(t, NewSQLite(db.NewTestDB(t)))
}

func TestMemoryKVCopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	value := []byte("abc")
	kv.Put(ctx, "k", value)
	value[0] = 'x'

	got, _ := kv.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("expected stored copy to be unaffected, got %q", got)
	}
	got[1] = 'x'
	again, _ := kv.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("expected returned copy to be independent, got %q", again)
	}
}

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()

	kv, closeFn, err := Open(ctx, Options{Driver: DriverMemory})
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	if _, ok := kv.(*Memory); !ok {
		t.Errorf("expected *Memory, got %T", kv)
	}
	closeFn()

	kv, closeFn, err = Open(ctx, Options{Driver: DriverSQLite, DBPath: t.TempDir() + "/state.sqlite3"})
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	exerciseKV(t, kv)
	if err := closeFn(); err != nil {
		t.Errorf("closing sqlite store: %v", err)
	}

	if _, _, err := Open(ctx, Options{Driver: "floppy"}); err == nil {
		t.Error("expected error for unknown driver")
	}
	if _, _, err := Open(ctx, Options{Driver: DriverS3}); err == nil {
		t.Error("expected error for s3 driver without bucket")
	}
}
