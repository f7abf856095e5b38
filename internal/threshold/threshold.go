// Package threshold resolves and edits the three-level low-stock policy.
package threshold

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/erazemk/inventario/internal/model"
)

// Resolve returns the effective low-stock threshold for item: its own
// threshold if set, else its category's, else the global one.
func Resolve(t model.LowStockThresholds, item model.InventoryItem) int {
	if v, ok := t.ProductThresholds[item.ID]; ok {
		return v
	}
	if item.Category != "" {
		if v, ok := t.CategoryThresholds[item.Category]; ok {
			return v
		}
	}
	return t.GlobalThreshold
}

// SetProduct sets or, when value is nil, removes the threshold for one item.
// A non-positive value is rejected and t is left untouched.
func SetProduct(t *model.LowStockThresholds, id string, value *int) error {
	return setLevel(&t.ProductThresholds, id, value)
}

// SetCategory sets or, when value is nil, removes the threshold for a category.
func SetCategory(t *model.LowStockThresholds, category string, value *int) error {
	return setLevel(&t.CategoryThresholds, category, value)
}

// SetGlobal replaces the global threshold. It cannot be removed.
func SetGlobal(t *model.LowStockThresholds, value int) error {
	if value <= 0 {
		return fmt.Errorf("global threshold %d: %w", value, model.ErrInvalidThreshold)
	}
	t.GlobalThreshold = value
	return nil
}

func setLevel(level *map[string]int, key string, value *int) error {
	if key == "" {
		return fmt.Errorf("empty threshold key: %w", model.ErrInvalidArgument)
	}
	if value != nil && *value <= 0 {
		return fmt.Errorf("threshold %q = %d: %w", key, *value, model.ErrInvalidThreshold)
	}
	if *level == nil {
		*level = make(map[string]int)
	}
	if value == nil {
		delete(*level, key)
		return nil
	}
	(*level)[key] = *value
	return nil
}

// CleanOrphans drops product thresholds whose item no longer exists and
// category thresholds whose category is neither catalogued nor used by any
// item. It returns how many entries were removed.
func CleanOrphans(t *model.LowStockThresholds, items []model.InventoryItem, categories []string) int {
	ids := lo.SliceToMap(items, func(it model.InventoryItem) (string, struct{}) {
		return it.ID, struct{}{}
	})
	known := lo.SliceToMap(categories, func(c string) (string, struct{}) {
		return c, struct{}{}
	})
	for _, it := range items {
		if it.Category != "" {
			known[it.Category] = struct{}{}
		}
	}

	removed := 0
	for id := range t.ProductThresholds {
		if _, ok := ids[id]; !ok {
			delete(t.ProductThresholds, id)
			removed++
		}
	}
	for c := range t.CategoryThresholds {
		if _, ok := known[c]; !ok {
			delete(t.CategoryThresholds, c)
			removed++
		}
	}
	return removed
}
