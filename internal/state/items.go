package state

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/erazemk/inventario/internal/ledger"
	"github.com/erazemk/inventario/internal/model"
	"github.com/erazemk/inventario/internal/threshold"
)

// NewItem describes an item entering the inventory.
type NewItem struct {
	ID                     string           `json:"id,omitempty"`
	Name                   string           `json:"name"`
	Brand                  string           `json:"brand,omitempty"`
	Model                  string           `json:"model,omitempty"`
	Category               string           `json:"category,omitempty"`
	SerialNumber           *string          `json:"serialNumber,omitempty"`
	Location               string           `json:"location,omitempty"`
	Provider               string           `json:"provider,omitempty"`
	Quantity               int              `json:"quantity"`
	WarrantyExpirationDate *model.Date      `json:"warrantyExpirationDate,omitempty"`
	PurchaseDate           *model.Date      `json:"purchaseDate,omitempty"`
	Cost                   *decimal.Decimal `json:"cost,omitempty"`
	Notes                  string           `json:"notes,omitempty"`
	User                   string           `json:"user,omitempty"`
}

// CreateItem adds an item in status Disponible and seeds its history.
func (c *Container) CreateItem(ctx context.Context, in NewItem) (model.InventoryItem, error) {
	if in.Name == "" {
		return model.InventoryItem{}, fmt.Errorf("item without name: %w", model.ErrInvalidArgument)
	}
	if in.Quantity < 0 {
		return model.InventoryItem{}, fmt.Errorf("quantity %d: %w", in.Quantity, model.ErrInvalidArgument)
	}
	item := model.InventoryItem{
		ID:                     in.ID,
		Name:                   in.Name,
		Brand:                  in.Brand,
		Model:                  in.Model,
		Category:               in.Category,
		Location:               in.Location,
		Provider:               in.Provider,
		Status:                 model.StatusAvailable,
		Quantity:               in.Quantity,
		WarrantyExpirationDate: in.WarrantyExpirationDate.Clone(),
		PurchaseDate:           in.PurchaseDate.Clone(),
		Notes:                  in.Notes,
		History:                []model.HistoryEvent{},
	}
	if in.SerialNumber != nil {
		serial := *in.SerialNumber
		item.SerialNumber = &serial
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return model.InventoryItem{}, fmt.Errorf("cost %s: %w", in.Cost, model.ErrInvalidArgument)
		}
		cost := *in.Cost
		item.Cost = &cost
	}

	err := c.mutate(ctx, "createItem", func(s *model.Snapshot, now time.Time) error {
		if item.ID == "" {
			item.ID = c.newID()
		} else if indexOf(s, item.ID) >= 0 {
			return fmt.Errorf("item %q already exists: %w", item.ID, model.ErrInvalidArgument)
		}
		s.InventoryData = append(s.InventoryData, item)
		created := &s.InventoryData[len(s.InventoryData)-1]
		record(s, created, ledger.NewEntry(ledger.EventCreated, *created, now, in.User,
			fmt.Sprintf("Alta de %s", created.Name),
			map[string]string{"quantity": fmt.Sprint(created.Quantity)}))
		item = created.Clone()
		return nil
	})
	if err != nil {
		return model.InventoryItem{}, err
	}
	return item, nil
}

// UpdateItem edits descriptive fields of one item.
func (c *Container) UpdateItem(ctx context.Context, id string, ch ItemChanges, user string) (model.InventoryItem, error) {
	if ch.Quantity != nil && *ch.Quantity < 0 {
		return model.InventoryItem{}, fmt.Errorf("quantity %d: %w", *ch.Quantity, model.ErrInvalidArgument)
	}
	var out model.InventoryItem
	err := c.mutate(ctx, "updateItem", func(s *model.Snapshot, now time.Time) error {
		if err := editItem(s, id, ch, user, now); err != nil {
			return err
		}
		out = s.InventoryData[indexOf(s, id)].Clone()
		return nil
	})
	return out, err
}

// DuplicateItem copies the descriptive fields of an item into a new
// Disponible item with a fresh id and no serial number.
func (c *Container) DuplicateItem(ctx context.Context, id, user string) (model.InventoryItem, error) {
	var out model.InventoryItem
	err := c.mutate(ctx, "duplicateItem", func(s *model.Snapshot, now time.Time) error {
		return c.duplicate(s, id, user, now, &out)
	})
	return out, err
}

func (c *Container) duplicate(s *model.Snapshot, id, user string, now time.Time, out *model.InventoryItem) error {
	src, err := findItem(s, id)
	if err != nil {
		return err
	}
	dup := src.Clone()
	dup.ID = c.newID()
	dup.SerialNumber = nil
	dup.Status = model.StatusAvailable
	dup.ClearCustody()
	dup.History = []model.HistoryEvent{}

	s.InventoryData = append(s.InventoryData, dup)
	created := &s.InventoryData[len(s.InventoryData)-1]
	record(s, created, ledger.NewEntry(ledger.EventDuplicated, *created, now, user,
		fmt.Sprintf("Duplicado de %s", id), map[string]string{"sourceId": id}))
	*out = created.Clone()
	return nil
}

// RemoveItems hard-deletes the listed items and drops thresholds left
// without a target. Unknown ids are ignored. It returns how many items were
// removed.
func (c *Container) RemoveItems(ctx context.Context, ids []string, user string) (int, error) {
	removed := 0
	err := c.mutate(ctx, "removeItems", func(s *model.Snapshot, now time.Time) error {
		drop := lo.SliceToMap(ids, func(id string) (string, struct{}) { return id, struct{}{} })
		kept := s.InventoryData[:0]
		for _, it := range s.InventoryData {
			if _, ok := drop[it.ID]; !ok {
				kept = append(kept, it)
				continue
			}
			removed++
			e := ledger.NewEntry(ledger.EventRemoved, it, now, user,
				fmt.Sprintf("Eliminado %s", it.Name), nil)
			s.RecentActivities = ledger.Record(s.RecentActivities, e.Activity)
		}
		if removed == 0 {
			return errUnchanged
		}
		s.InventoryData = kept
		if n := threshold.CleanOrphans(&s.LowStockThresholds, s.InventoryData, s.Categories); n > 0 {
			c.logger.Info("dropped orphan thresholds", "count", n)
		}
		return nil
	})
	return removed, err
}

// ReplaceItems swaps the whole item collection.
func (c *Container) ReplaceItems(ctx context.Context, items []model.InventoryItem) error {
	return c.replace(ctx, "replaceItems", func(s *model.Snapshot) {
		s.InventoryData = cloneAll(items, model.InventoryItem.Clone)
	})
}

// ReplaceAssignments swaps the whole assignment collection.
func (c *Container) ReplaceAssignments(ctx context.Context, records []model.AssignmentItem) error {
	return c.replace(ctx, "replaceAssignments", func(s *model.Snapshot) {
		s.AssignmentsData = cloneAll(records, model.AssignmentItem.Clone)
	})
}

// ReplaceLoans swaps the whole loan collection.
func (c *Container) ReplaceLoans(ctx context.Context, records []model.LoanItem) error {
	return c.replace(ctx, "replaceLoans", func(s *model.Snapshot) {
		s.LoansData = cloneAll(records, model.LoanItem.Clone)
	})
}

// ReplaceTasks swaps the whole task collection.
func (c *Container) ReplaceTasks(ctx context.Context, tasks []model.PendingTask) error {
	return c.replace(ctx, "replaceTasks", func(s *model.Snapshot) {
		s.Tasks = cloneAll(tasks, model.PendingTask.Clone)
	})
}

// Import replaces the entire snapshot, as a bulk import does.
func (c *Container) Import(ctx context.Context, snap model.Snapshot) error {
	return c.mutate(ctx, "import", func(s *model.Snapshot, now time.Time) error {
		*s = snap.Clone()
		s.Normalize()
		s.RecentActivities = ledger.Record(s.RecentActivities, model.RecentActivity{
			Type:        ledger.EventImported,
			Description: fmt.Sprintf("Importados %d productos", len(s.InventoryData)),
			Date:        now,
			Details:     map[string]string{"items": fmt.Sprint(len(s.InventoryData))},
		})
		return nil
	})
}

func (c *Container) replace(ctx context.Context, op string, fn func(*model.Snapshot)) error {
	return c.mutate(ctx, op, func(s *model.Snapshot, _ time.Time) error {
		fn(s)
		s.Normalize()
		return nil
	})
}

func cloneAll[T any](in []T, clone func(T) T) []T {
	return lo.Map(in, func(v T, _ int) T { return clone(v) })
}

// AddCatalogEntry appends value to a catalogue list. Existing values are
// left as they are.
func (c *Container) AddCatalogEntry(ctx context.Context, kind model.CatalogKind, value string) error {
	if value == "" {
		return fmt.Errorf("empty %s entry: %w", kind, model.ErrInvalidArgument)
	}
	return c.mutate(ctx, "addCatalogEntry", func(s *model.Snapshot, _ time.Time) error {
		list := s.Catalog(kind)
		if list == nil {
			return fmt.Errorf("catalogue %q: %w", kind, model.ErrInvalidArgument)
		}
		if slices.Contains(*list, value) {
			return errUnchanged
		}
		*list = append(*list, value)
		return nil
	})
}

// RemoveCatalogEntry deletes value from a catalogue list. Removing a category
// also drops its threshold unless items still use it.
func (c *Container) RemoveCatalogEntry(ctx context.Context, kind model.CatalogKind, value string) error {
	return c.mutate(ctx, "removeCatalogEntry", func(s *model.Snapshot, _ time.Time) error {
		list := s.Catalog(kind)
		if list == nil {
			return fmt.Errorf("catalogue %q: %w", kind, model.ErrInvalidArgument)
		}
		i := slices.Index(*list, value)
		if i < 0 {
			return fmt.Errorf("%s entry %q: %w", kind, value, model.ErrNotFound)
		}
		*list = slices.Delete(*list, i, i+1)
		if kind == model.CatalogCategories {
			threshold.CleanOrphans(&s.LowStockThresholds, s.InventoryData, s.Categories)
		}
		return nil
	})
}

// SetColumnPreferences stores the visible columns for a table.
func (c *Container) SetColumnPreferences(ctx context.Context, table string, columns []string) error {
	if table == "" {
		return fmt.Errorf("column preferences without table: %w", model.ErrInvalidArgument)
	}
	return c.mutate(ctx, "setColumnPreferences", func(s *model.Snapshot, _ time.Time) error {
		pref := model.ColumnPreference{Table: table, VisibleColumns: append([]string{}, columns...)}
		for i := range s.UserColumnPreferences {
			if s.UserColumnPreferences[i].Table == table {
				s.UserColumnPreferences[i] = pref
				return nil
			}
		}
		s.UserColumnPreferences = append(s.UserColumnPreferences, pref)
		return nil
	})
}
