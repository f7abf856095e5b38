package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/inventario/internal/model"
)

func at(date string, hour int) time.Time {
	d := model.MustParseDate(date).Time()
	return d.Add(time.Duration(hour) * time.Hour)
}

func lent(id, returnDate string) model.InventoryItem {
	borrower := "Ana"
	return model.InventoryItem{
		ID:         id,
		Name:       id,
		Status:     model.StatusLent,
		Quantity:   1,
		LentTo:     &borrower,
		LoanDate:   model.MustParseDate("2024-06-01").Ptr(),
		ReturnDate: model.MustParseDate(returnDate).Ptr(),
	}
}

func withWarranty(id, date string) model.InventoryItem {
	return model.InventoryItem{
		ID:                     id,
		Name:                   id,
		Status:                 model.StatusAssigned,
		Quantity:               1,
		WarrantyExpirationDate: model.MustParseDate(date).Ptr(),
	}
}

func TestOverdueLoanExample(t *testing.T) {
	items := []model.InventoryItem{lent("proj-1", "2024-06-30")}

	got := OverdueLoans(items, at("2024-07-05", 15))

	require.Len(t, got, 1)
	assert.Equal(t, "proj-1", got[0].Item.ID)
	assert.Equal(t, 5, got[0].DiasVencido)
}

func TestReturnDateTodayIsExpiringNotOverdue(t *testing.T) {
	items := []model.InventoryItem{lent("cam-1", "2024-07-05")}
	now := at("2024-07-05", 18)

	assert.Empty(t, OverdueLoans(items, now))

	expiring := ExpiringLoans(items, now)
	require.Len(t, expiring, 1)
	assert.Equal(t, 0, expiring[0].DiasRestantes)
}

func TestExpiringLoansWindow(t *testing.T) {
	items := []model.InventoryItem{
		lent("edge", "2024-07-12"),   // today + 7, inclusive
		lent("beyond", "2024-07-13"), // today + 8
		lent("soon", "2024-07-06"),
	}
	got := ExpiringLoans(items, at("2024-07-05", 0))

	require.Len(t, got, 2)
	assert.Equal(t, "soon", got[0].Item.ID)
	assert.Equal(t, 1, got[0].DiasRestantes)
	assert.Equal(t, "edge", got[1].Item.ID)
	assert.Equal(t, 7, got[1].DiasRestantes)
}

func TestLoanAlertsIgnoreItemsNotLent(t *testing.T) {
	item := lent("x", "2024-06-01")
	item.Status = model.StatusAvailable

	now := at("2024-07-05", 0)
	assert.Empty(t, OverdueLoans([]model.InventoryItem{item}, now))
	assert.Empty(t, ExpiringLoans([]model.InventoryItem{item}, now))
}

func TestWarrantyAlerts(t *testing.T) {
	items := []model.InventoryItem{
		withWarranty("expired", "2024-07-01"),
		withWarranty("today", "2024-07-05"),
		withWarranty("edge", "2024-08-04"), // today + 30
		withWarranty("far", "2024-08-05"),
		{ID: "none", Name: "none", Status: model.StatusAvailable},
	}
	now := at("2024-07-05", 9)

	expired := ExpiredWarranties(items, now)
	require.Len(t, expired, 1)
	assert.Equal(t, "expired", expired[0].Item.ID)
	assert.Equal(t, 4, expired[0].DiasVencido)

	expiring := ExpiringWarranties(items, now)
	require.Len(t, expiring, 2)
	assert.Equal(t, "today", expiring[0].Item.ID)
	assert.Equal(t, 0, expiring[0].DiasRestantes)
	assert.Equal(t, "edge", expiring[1].Item.ID)
	assert.Equal(t, 30, expiring[1].DiasRestantes)
}

func TestWarrantyAppliesToAnyStatus(t *testing.T) {
	item := withWarranty("retired", "2024-01-01")
	item.Status = model.StatusRetired

	assert.Len(t, ExpiredWarranties([]model.InventoryItem{item}, at("2024-07-05", 0)), 1)
}

func TestLowStockExample(t *testing.T) {
	th := model.NewLowStockThresholds(3)
	items := []model.InventoryItem{
		{ID: "m1", Name: "Monitor", Category: "Monitores", Quantity: 2, Status: model.StatusAvailable},
	}

	got := LowStock(items, th)

	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Quantity)
	assert.Equal(t, 3, got[0].Threshold)
}

func TestLowStockRules(t *testing.T) {
	th := model.NewLowStockThresholds(3)
	th.CategoryThresholds["Redes"] = 10
	th.ProductThresholds["switch-2"] = 1

	items := []model.InventoryItem{
		{ID: "at-limit", Name: "a", Quantity: 3, Status: model.StatusAvailable},
		{ID: "assigned", Name: "b", Quantity: 0, Status: model.StatusAssigned},
		{ID: "switch-1", Name: "c", Category: "Redes", Quantity: 9, Status: model.StatusAvailable},
		{ID: "switch-2", Name: "d", Category: "Redes", Quantity: 1, Status: model.StatusAvailable},
		{ID: "empty", Name: "e", Quantity: 0, Status: model.StatusAvailable},
	}

	got := LowStock(items, th)

	require.Len(t, got, 2)
	assert.Equal(t, "empty", got[0].Item.ID)
	assert.Equal(t, "switch-1", got[1].Item.ID)
	assert.Equal(t, 10, got[1].Threshold)
}

func TestDeriveSummary(t *testing.T) {
	items := []model.InventoryItem{
		lent("late", "2024-07-01"),
		lent("due", "2024-07-08"),
		withWarranty("w", "2024-07-20"),
		{ID: "low", Name: "low", Quantity: 0, Status: model.StatusAvailable},
	}

	s := Derive(items, model.NewLowStockThresholds(1), at("2024-07-05", 12))

	assert.Equal(t, "2024-07-05", s.Today.String())
	assert.Len(t, s.OverdueLoans, 1)
	assert.Len(t, s.ExpiringLoans, 1)
	assert.Empty(t, s.ExpiredWarranties)
	assert.Len(t, s.ExpiringWarranties, 1)
	assert.Len(t, s.LowStock, 1)
	assert.Equal(t, 4, s.Total())
}

func TestAlertsDoNotAliasInput(t *testing.T) {
	items := []model.InventoryItem{lent("late", "2024-07-01")}
	got := OverdueLoans(items, at("2024-07-05", 0))

	*got[0].Item.LentTo = "changed"
	assert.Equal(t, "Ana", *items[0].LentTo)
}
