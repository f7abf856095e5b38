package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus is the custody state of an inventory item.
type ItemStatus string

// Item statuses.
const (
	StatusAvailable         ItemStatus = "Disponible"
	StatusAssigned          ItemStatus = "Asignado"
	StatusLent              ItemStatus = "Prestado"
	StatusRetired           ItemStatus = "Retirado"
	StatusPendingRetirement ItemStatus = "PENDIENTE_DE_RETIRO"
)

// Valid reports whether s is one of the known statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusAssigned, StatusLent, StatusRetired, StatusPendingRetirement:
		return true
	}
	return false
}

// InventoryItem is a physical asset tracked by the inventory desk.
//
// LentTo, LoanDate and ReturnDate are custody fields: they are only set while
// Status is StatusLent.
type InventoryItem struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Brand        string     `json:"brand,omitempty"`
	Model        string     `json:"model,omitempty"`
	Category     string     `json:"category,omitempty"`
	SerialNumber *string    `json:"serialNumber"`
	Location     string     `json:"location,omitempty"`
	Provider     string     `json:"provider,omitempty"`
	Status       ItemStatus `json:"status"`
	Quantity     int        `json:"quantity"`

	LentTo     *string `json:"lentTo,omitempty"`
	LoanDate   *Date   `json:"loanDate,omitempty"`
	ReturnDate *Date   `json:"returnDate,omitempty"`

	WarrantyExpirationDate *Date            `json:"warrantyExpirationDate"`
	PurchaseDate           *Date            `json:"purchaseDate,omitempty"`
	Cost                   *decimal.Decimal `json:"cost"`
	Notes                  string           `json:"notes,omitempty"`

	History []HistoryEvent `json:"history"`
}

// HasCustody reports whether any custody field is populated.
func (i *InventoryItem) HasCustody() bool {
	return i.LentTo != nil || i.LoanDate != nil || i.ReturnDate != nil
}

// ClearCustody resets the custody fields.
func (i *InventoryItem) ClearCustody() {
	i.LentTo = nil
	i.LoanDate = nil
	i.ReturnDate = nil
}

// Clone returns a deep copy of the item.
func (i InventoryItem) Clone() InventoryItem {
	out := i
	out.SerialNumber = cloneString(i.SerialNumber)
	out.LentTo = cloneString(i.LentTo)
	out.LoanDate = i.LoanDate.Clone()
	out.ReturnDate = i.ReturnDate.Clone()
	out.WarrantyExpirationDate = i.WarrantyExpirationDate.Clone()
	out.PurchaseDate = i.PurchaseDate.Clone()
	if i.Cost != nil {
		c := *i.Cost
		out.Cost = &c
	}
	if i.History != nil {
		out.History = make([]HistoryEvent, len(i.History))
		for k, ev := range i.History {
			out.History[k] = ev.Clone()
		}
	}
	return out
}

// HistoryEvent is an immutable audit record attached to one item.
type HistoryEvent struct {
	Type        string            `json:"type"`
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	User        string            `json:"user,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
}

// Clone returns a deep copy of the event.
func (e HistoryEvent) Clone() HistoryEvent {
	e.Details = cloneDetails(e.Details)
	return e
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneDetails(d map[string]string) map[string]string {
	if d == nil {
		return nil
	}
	out := make(map[string]string, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
