// Package state holds the canonical inventory snapshot and every operation
// that changes it.
//
// The Container is the only writer. Each committed mutation is applied to a
// copy of the snapshot, swapped in, written through to the Persister and then
// fanned out to subscribers. Rejected operations leave the snapshot and the
// store untouched. Readers always receive copies.
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/inventario/internal/alerts"
	"github.com/erazemk/inventario/internal/ledger"
	"github.com/erazemk/inventario/internal/model"
	"github.com/erazemk/inventario/internal/persist"
	"github.com/erazemk/inventario/internal/threshold"
)

// errUnchanged signals a mutation that had nothing to do.
var errUnchanged = errors.New("unchanged")

// Container owns the snapshot.
type Container struct {
	mu        sync.RWMutex
	snap      model.Snapshot
	persister persist.Persister
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string

	// pubMu is taken before mu is released so subscribers see commits in order.
	pubMu  sync.Mutex
	subMu  sync.Mutex
	subs   map[int]func(model.Snapshot)
	nextID int
}

// Option configures a Container.
type Option func(*Container)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Container) { c.now = now }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// WithIDGenerator replaces uuid.NewString for new entity ids.
func WithIDGenerator(gen func() string) Option {
	return func(c *Container) { c.newID = gen }
}

// New builds a container and loads its snapshot from p. Loading never fails;
// the persister falls back to the default snapshot.
func New(ctx context.Context, p persist.Persister, opts ...Option) *Container {
	c := &Container{
		persister: p,
		logger:    slog.Default(),
		now:       time.Now,
		newID:     uuid.NewString,
		subs:      make(map[int]func(model.Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.snap = p.Load(ctx)
	c.snap.Normalize()
	c.logger.Info("inventory state loaded",
		"items", len(c.snap.InventoryData),
		"assignments", len(c.snap.AssignmentsData),
		"loans", len(c.snap.LoansData),
		"tasks", len(c.snap.Tasks))
	return c
}

// mutate applies fn to a copy of the snapshot and commits it when fn returns
// nil. errUnchanged discards the copy without error.
func (c *Container) mutate(ctx context.Context, op string, fn func(s *model.Snapshot, now time.Time) error) error {
	c.mu.Lock()
	next := c.snap.Clone()
	if err := fn(&next, c.now()); err != nil {
		c.mu.Unlock()
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	c.snap = next
	c.save(ctx, op)
	published := c.snap.Clone()
	c.pubMu.Lock()
	c.mu.Unlock()

	defer c.pubMu.Unlock()
	c.publish(published)
	return nil
}

// save writes the current snapshot through. Failures are logged only.
// Callers hold c.mu.
func (c *Container) save(ctx context.Context, op string) {
	if err := c.persister.Save(ctx, c.snap); err != nil {
		c.logger.Error("failed to persist snapshot", "op", op, "error", err)
	}
}

// Subscribe registers fn to receive a copy of the snapshot after every
// committed mutation, in commit order. fn may read the container but must not
// mutate it synchronously. The returned function unregisters it.
func (c *Container) Subscribe(fn func(model.Snapshot)) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Container) publish(s model.Snapshot) {
	c.subMu.Lock()
	subs := make([]func(model.Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subMu.Unlock()

	for _, fn := range subs {
		fn(s.Clone())
	}
}

// Snapshot returns a copy of the whole state.
func (c *Container) Snapshot() model.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Clone()
}

// Items returns a copy of every inventory item.
func (c *Container) Items() []model.InventoryItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.InventoryItem, len(c.snap.InventoryData))
	for i, it := range c.snap.InventoryData {
		out[i] = it.Clone()
	}
	return out
}

// Item returns a copy of the item with the given id.
func (c *Container) Item(id string) (model.InventoryItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := indexOf(&c.snap, id); i >= 0 {
		return c.snap.InventoryData[i].Clone(), true
	}
	return model.InventoryItem{}, false
}

// History returns the audit history of one item.
func (c *Container) History(id string) ([]model.HistoryEvent, error) {
	it, ok := c.Item(id)
	if !ok {
		return nil, fmt.Errorf("item %q: %w", id, model.ErrNotFound)
	}
	return it.History, nil
}

// RecentActivities returns the activity feed, newest first.
func (c *Container) RecentActivities() []model.RecentActivity {
	return c.Snapshot().RecentActivities
}

// Assignments returns every assignment record.
func (c *Container) Assignments() []model.AssignmentItem {
	return c.Snapshot().AssignmentsData
}

// Loans returns every loan record.
func (c *Container) Loans() []model.LoanItem {
	return c.Snapshot().LoansData
}

// Tasks returns every pending task.
func (c *Container) Tasks() []model.PendingTask {
	return c.Snapshot().Tasks
}

// Alerts derives every alert class from the current items.
func (c *Container) Alerts() alerts.Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return alerts.Derive(c.snap.InventoryData, c.snap.LowStockThresholds, c.now())
}

// Threshold returns the effective low-stock threshold of an item.
func (c *Container) Threshold(id string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := indexOf(&c.snap, id)
	if i < 0 {
		return 0, fmt.Errorf("item %q: %w", id, model.ErrNotFound)
	}
	return threshold.Resolve(c.snap.LowStockThresholds, c.snap.InventoryData[i]), nil
}

// Thresholds returns a copy of the low-stock policy.
func (c *Container) Thresholds() model.LowStockThresholds {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.LowStockThresholds.Clone()
}

func indexOf(s *model.Snapshot, id string) int {
	for i := range s.InventoryData {
		if s.InventoryData[i].ID == id {
			return i
		}
	}
	return -1
}

func findItem(s *model.Snapshot, id string) (*model.InventoryItem, error) {
	i := indexOf(s, id)
	if i < 0 {
		return nil, fmt.Errorf("item %q: %w", id, model.ErrNotFound)
	}
	return &s.InventoryData[i], nil
}

// record appends e to item's history and to the activity feed.
func record(s *model.Snapshot, item *model.InventoryItem, e ledger.Entry) {
	s.RecentActivities = ledger.Apply(item, s.RecentActivities, e)
}

func dateOr(d *model.Date, now time.Time) model.Date {
	if d == nil || d.IsZero() {
		return model.Today(now)
	}
	return *d
}
