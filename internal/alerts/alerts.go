// Package alerts derives time-sensitive alerts from an item snapshot.
//
// Every function is pure and recomputes from the items it is given. "Today" is
// now truncated to local midnight: the expiring-soon windows include both
// ends, the overdue/expired checks are strictly before today.
package alerts

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/erazemk/inventario/internal/model"
	"github.com/erazemk/inventario/internal/threshold"
)

// Alert windows in days.
const (
	LoanWindowDays     = 7
	WarrantyWindowDays = 30
)

// Overdue is an item whose date has passed.
type Overdue struct {
	Item        model.InventoryItem `json:"item"`
	Date        model.Date          `json:"date"`
	DiasVencido int                 `json:"diasVencido"`
}

// Expiring is an item whose date falls inside an alert window.
type Expiring struct {
	Item          model.InventoryItem `json:"item"`
	Date          model.Date          `json:"date"`
	DiasRestantes int                 `json:"diasRestantes"`
}

// Low is an available item whose quantity is under its threshold.
type Low struct {
	Item      model.InventoryItem `json:"item"`
	Quantity  int                 `json:"quantity"`
	Threshold int                 `json:"threshold"`
}

// Summary holds every alert class for one evaluation.
type Summary struct {
	Today              model.Date `json:"today"`
	OverdueLoans       []Overdue  `json:"overdueLoans"`
	ExpiringLoans      []Expiring `json:"expiringLoans"`
	ExpiredWarranties  []Overdue  `json:"expiredWarranties"`
	ExpiringWarranties []Expiring `json:"expiringWarranties"`
	LowStock           []Low      `json:"lowStock"`
}

// Total returns the number of alerts across all classes.
func (s Summary) Total() int {
	return len(s.OverdueLoans) + len(s.ExpiringLoans) + len(s.ExpiredWarranties) +
		len(s.ExpiringWarranties) + len(s.LowStock)
}

// Derive evaluates every alert class against now.
func Derive(items []model.InventoryItem, t model.LowStockThresholds, now time.Time) Summary {
	return Summary{
		Today:              model.Today(now),
		OverdueLoans:       OverdueLoans(items, now),
		ExpiringLoans:      ExpiringLoans(items, now),
		ExpiredWarranties:  ExpiredWarranties(items, now),
		ExpiringWarranties: ExpiringWarranties(items, now),
		LowStock:           LowStock(items, t),
	}
}

// OverdueLoans returns lent items whose return date is before today.
func OverdueLoans(items []model.InventoryItem, now time.Time) []Overdue {
	lent := lo.Filter(items, func(it model.InventoryItem, _ int) bool {
		return it.Status == model.StatusLent
	})
	return overdue(lent, model.Today(now), func(it model.InventoryItem) *model.Date { return it.ReturnDate })
}

// ExpiringLoans returns lent items due back within LoanWindowDays, today included.
func ExpiringLoans(items []model.InventoryItem, now time.Time) []Expiring {
	lent := lo.Filter(items, func(it model.InventoryItem, _ int) bool {
		return it.Status == model.StatusLent
	})
	return expiring(lent, model.Today(now), LoanWindowDays, func(it model.InventoryItem) *model.Date { return it.ReturnDate })
}

// ExpiredWarranties returns items whose warranty ended before today.
func ExpiredWarranties(items []model.InventoryItem, now time.Time) []Overdue {
	return overdue(items, model.Today(now), warranty)
}

// ExpiringWarranties returns items whose warranty ends within WarrantyWindowDays.
func ExpiringWarranties(items []model.InventoryItem, now time.Time) []Expiring {
	return expiring(items, model.Today(now), WarrantyWindowDays, warranty)
}

// LowStock returns available items whose quantity is below their resolved
// threshold, lowest quantity first.
func LowStock(items []model.InventoryItem, t model.LowStockThresholds) []Low {
	out := lo.FilterMap(items, func(it model.InventoryItem, _ int) (Low, bool) {
		if it.Status != model.StatusAvailable {
			return Low{}, false
		}
		limit := threshold.Resolve(t, it)
		if it.Quantity >= limit {
			return Low{}, false
		}
		return Low{Item: it.Clone(), Quantity: it.Quantity, Threshold: limit}, true
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity < out[j].Quantity
		}
		return out[i].Item.Name < out[j].Item.Name
	})
	return out
}

func warranty(it model.InventoryItem) *model.Date { return it.WarrantyExpirationDate }

func overdue(items []model.InventoryItem, today model.Date, date func(model.InventoryItem) *model.Date) []Overdue {
	out := lo.FilterMap(items, func(it model.InventoryItem, _ int) (Overdue, bool) {
		d := date(it)
		if d == nil || d.IsZero() || !d.Before(today) {
			return Overdue{}, false
		}
		return Overdue{Item: it.Clone(), Date: *d, DiasVencido: max(DaysOverdue(*d, today), 0)}, true
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DiasVencido != out[j].DiasVencido {
			return out[i].DiasVencido > out[j].DiasVencido
		}
		return out[i].Item.Name < out[j].Item.Name
	})
	return out
}

func expiring(items []model.InventoryItem, today model.Date, window int, date func(model.InventoryItem) *model.Date) []Expiring {
	limit := today.AddDays(window)
	out := lo.FilterMap(items, func(it model.InventoryItem, _ int) (Expiring, bool) {
		d := date(it)
		if d == nil || d.IsZero() || d.Before(today) || d.After(limit) {
			return Expiring{}, false
		}
		return Expiring{Item: it.Clone(), Date: *d, DiasRestantes: max(DaysRemaining(*d, today), 0)}, true
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DiasRestantes != out[j].DiasRestantes {
			return out[i].DiasRestantes < out[j].DiasRestantes
		}
		return out[i].Item.Name < out[j].Item.Name
	})
	return out
}

// DaysOverdue is floor((today - d) / 1 day). Dates are whole days, so the
// floor is exact.
func DaysOverdue(d, today model.Date) int {
	return model.DaysBetween(d, today)
}

// DaysRemaining is ceil((d - today) / 1 day).
func DaysRemaining(d, today model.Date) int {
	return model.DaysBetween(today, d)
}
