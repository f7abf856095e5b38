package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/inventario/internal/db"
	"github.com/erazemk/inventario/internal/ledger"
	"github.com/erazemk/inventario/internal/model"
	"github.com/erazemk/inventario/internal/persist"
	"github.com/erazemk/inventario/internal/store"
)

// fakePersister keeps the last saved snapshot and counts saves.
type fakePersister struct {
	mu    sync.Mutex
	snap  model.Snapshot
	saves int
	err   error
}

func (p *fakePersister) Load(context.Context) model.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap.Clone()
}

func (p *fakePersister) Save(_ context.Context, s model.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
	if p.err != nil {
		return p.err
	}
	p.snap = s.Clone()
	return nil
}

func (p *fakePersister) saveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

var testNow = time.Date(2024, time.July, 5, 10, 30, 0, 0, time.Local)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testItem(id string, status model.ItemStatus) model.InventoryItem {
	return model.InventoryItem{
		ID:       id,
		Name:     gofakeit.ProductName(),
		Brand:    gofakeit.Company(),
		Category: "Laptops",
		Status:   status,
		Quantity: 10,
		History:  []model.HistoryEvent{},
	}
}

// newTestContainer returns a container seeded with items and a fixed clock.
func newTestContainer(t *testing.T, items ...model.InventoryItem) (*Container, *fakePersister) {
	t.Helper()
	snap := model.DefaultSnapshot()
	snap.InventoryData = items
	p := &fakePersister{snap: snap}
	c := New(context.Background(), p,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(sequentialIDs()),
		WithLogger(quietLogger()))
	return c, p
}

func mustItem(t *testing.T, c *Container, id string) model.InventoryItem {
	t.Helper()
	it, ok := c.Item(id)
	require.True(t, ok, "item %s should exist", id)
	return it
}

func TestNewNormalizesLoadedSnapshot(t *testing.T) {
	p := &fakePersister{}
	c := New(context.Background(), p, WithLogger(quietLogger()))

	s := c.Snapshot()
	assert.NotNil(t, s.InventoryData)
	assert.Equal(t, model.DefaultGlobalThreshold, s.LowStockThresholds.GlobalThreshold)
	assert.Zero(t, p.saveCount(), "loading must not write")
}

func TestSnapshotReturnsCopy(t *testing.T) {
	c, _ := newTestContainer(t, testItem("a", model.StatusAvailable))

	s := c.Snapshot()
	s.InventoryData[0].Name = "changed"
	s.Categories[0] = "changed"

	assert.NotEqual(t, "changed", mustItem(t, c, "a").Name)
	assert.NotEqual(t, "changed", c.Snapshot().Categories[0])
}

func TestMutationSavesSnapshot(t *testing.T) {
	c, p := newTestContainer(t, testItem("a", model.StatusAvailable))

	require.NoError(t, c.Assign(context.Background(), AssignRequest{ProductID: "a", AssignedTo: "Ana"}))

	assert.Equal(t, 1, p.saveCount())
	assert.Equal(t, model.StatusAssigned, p.Load(context.Background()).InventoryData[0].Status)
}

func TestSaveFailureIsNotReturned(t *testing.T) {
	c, p := newTestContainer(t, testItem("a", model.StatusAvailable))
	p.err = errors.New("quota exceeded")

	err := c.Assign(context.Background(), AssignRequest{ProductID: "a", AssignedTo: "Ana"})

	require.NoError(t, err)
	assert.Equal(t, model.StatusAssigned, mustItem(t, c, "a").Status, "in-memory state still moves on")
	assert.Equal(t, 1, p.saveCount())
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestContainer(t, testItem("a", model.StatusAvailable))

	var got []model.Snapshot
	unsubscribe := c.Subscribe(func(s model.Snapshot) { got = append(got, s) })

	require.NoError(t, c.Assign(ctx, AssignRequest{ProductID: "a", AssignedTo: "Ana"}))
	require.Len(t, got, 1)
	assert.Equal(t, model.StatusAssigned, got[0].InventoryData[0].Status)

	err := c.Assign(ctx, AssignRequest{ProductID: "a", AssignedTo: "Ana"})
	require.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Len(t, got, 1, "rejected commands are not published")

	unsubscribe()
	require.NoError(t, c.Release(ctx, ItemRequest{ProductID: "a"}))
	assert.Len(t, got, 1)
}

func TestSubscribersSeeCommitOrder(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestContainer(t)

	var (
		mu     sync.Mutex
		counts []int
	)
	c.Subscribe(func(s model.Snapshot) {
		// Widen the window between commit and delivery.
		time.Sleep(time.Millisecond)
		mu.Lock()
		counts = append(counts, len(s.InventoryData))
		mu.Unlock()
	})

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.CreateItem(ctx, NewItem{Name: "Teclado", Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, counts, workers)
	for i, n := range counts {
		assert.Equal(t, i+1, n, "delivery %d out of order", i)
	}
}

func TestHistoryOfUnknownItem(t *testing.T) {
	c, _ := newTestContainer(t)

	_, err := c.History("nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAlertsUseClock(t *testing.T) {
	ctx := context.Background()
	low := testItem("low", model.StatusAvailable)
	low.Quantity = 2
	c, _ := newTestContainer(t, testItem("a", model.StatusAvailable), low)
	require.NoError(t, c.SetGlobalThreshold(ctx, 3))

	require.NoError(t, c.Lend(ctx, LendRequest{
		ProductID:  "a",
		LentTo:     "Ana",
		LoanDate:   model.MustParseDate("2024-06-01").Ptr(),
		ReturnDate: model.MustParseDate("2024-06-30"),
	}))

	sum := c.Alerts()
	require.Len(t, sum.OverdueLoans, 1)
	assert.Equal(t, "a", sum.OverdueLoans[0].Item.ID)
	assert.Equal(t, 5, sum.OverdueLoans[0].DiasVencido)
	require.Len(t, sum.LowStock, 1)
	assert.Equal(t, "low", sum.LowStock[0].Item.ID)
	assert.Equal(t, 3, sum.LowStock[0].Threshold)
}

func TestContainerOverSQLite(t *testing.T) {
	ctx := context.Background()
	kv := store.NewSQLite(db.NewTestDB(t))
	p := persist.NewAdapter(kv, "", quietLogger())

	c := New(ctx, p, WithLogger(quietLogger()))
	created, err := c.CreateItem(ctx, NewItem{Name: "ThinkPad T14", Category: "Laptops", Quantity: 1})
	require.NoError(t, err)

	reloaded := New(ctx, p, WithLogger(quietLogger()))
	it := mustItem(t, reloaded, created.ID)
	assert.Equal(t, "ThinkPad T14", it.Name)
	require.Len(t, it.History, 1)
	assert.Equal(t, ledger.EventCreated, it.History[0].Type)
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	c, p := newTestContainer(t)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.CreateItem(ctx, NewItem{Name: fmt.Sprintf("item %d", i), Quantity: 1})
			assert.NoError(t, err)
			_ = c.Snapshot()
		}()
	}
	wg.Wait()

	assert.Len(t, c.Items(), 20)
	assert.Equal(t, 20, p.saveCount())
	assert.Len(t, c.RecentActivities(), 20)
}
