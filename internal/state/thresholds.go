package state

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/erazemk/inventario/internal/model"
	"github.com/erazemk/inventario/internal/threshold"
)

// SetProductThreshold sets, or with a nil value clears, the threshold of one
// item. Non-positive values are rejected and logged.
func (c *Container) SetProductThreshold(ctx context.Context, id string, value *int) error {
	return c.setThreshold(ctx, "product", id, value, func(s *model.Snapshot) error {
		if indexOf(s, id) < 0 {
			return fmt.Errorf("item %q: %w", id, model.ErrNotFound)
		}
		return threshold.SetProduct(&s.LowStockThresholds, id, value)
	})
}

// SetCategoryThreshold sets, or with a nil value clears, the threshold of a
// category.
func (c *Container) SetCategoryThreshold(ctx context.Context, category string, value *int) error {
	return c.setThreshold(ctx, "category", category, value, func(s *model.Snapshot) error {
		return threshold.SetCategory(&s.LowStockThresholds, category, value)
	})
}

// SetGlobalThreshold replaces the global threshold.
func (c *Container) SetGlobalThreshold(ctx context.Context, value int) error {
	return c.setThreshold(ctx, "global", "", &value, func(s *model.Snapshot) error {
		return threshold.SetGlobal(&s.LowStockThresholds, value)
	})
}

func (c *Container) setThreshold(ctx context.Context, level, key string, value *int, fn func(*model.Snapshot) error) error {
	err := c.mutate(ctx, "setThreshold", func(s *model.Snapshot, _ time.Time) error {
		return fn(s)
	})
	if err != nil {
		c.logger.Info("threshold update rejected", "level", level, "key", key, "value", lo.FromPtr(value), "error", err)
		return err
	}
	return nil
}

// CleanOrphanThresholds drops thresholds for items and categories that no
// longer exist and returns how many were removed.
func (c *Container) CleanOrphanThresholds(ctx context.Context) (int, error) {
	removed := 0
	err := c.mutate(ctx, "cleanOrphanThresholds", func(s *model.Snapshot, _ time.Time) error {
		removed = threshold.CleanOrphans(&s.LowStockThresholds, s.InventoryData, s.Categories)
		if removed == 0 {
			return errUnchanged
		}
		return nil
	})
	return removed, err
}
