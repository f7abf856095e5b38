package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/erazemk/inventario/internal/ledger"
	"github.com/erazemk/inventario/internal/model"
)

// BulkResult reports what happened to each id of a bulk command.
type BulkResult struct {
	Applied  []string          `json:"applied"`
	Skipped  []string          `json:"skipped"`
	Rejected map[string]string `json:"rejected"`
}

func newBulkResult() *BulkResult {
	return &BulkResult{
		Applied:  []string{},
		Skipped:  []string{},
		Rejected: map[string]string{},
	}
}

// BulkAssignRequest assigns several items to one person.
type BulkAssignRequest struct {
	ProductIDs     []string    `json:"productIds"`
	AssignedTo     string      `json:"assignedTo"`
	AssignmentDate *model.Date `json:"assignmentDate,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	User           string      `json:"user,omitempty"`
}

// BulkLendRequest lends several items to one borrower.
type BulkLendRequest struct {
	ProductIDs []string    `json:"productIds"`
	LentTo     string      `json:"lentTo"`
	LoanDate   *model.Date `json:"loanDate,omitempty"`
	ReturnDate model.Date  `json:"returnDate"`
	Notes      string      `json:"notes,omitempty"`
	User       string      `json:"user,omitempty"`
}

// BulkRetireRequest retires several items for the same reason.
type BulkRetireRequest struct {
	ProductIDs     []string    `json:"productIds"`
	Reason         string      `json:"reason,omitempty"`
	RetirementDate *model.Date `json:"retirementDate,omitempty"`
	User           string      `json:"user,omitempty"`
}

// ItemChanges lists the descriptive fields to overwrite. Nil fields are left
// alone. Status and custody are never edited this way.
type ItemChanges struct {
	Name                   *string          `json:"name,omitempty"`
	Brand                  *string          `json:"brand,omitempty"`
	Model                  *string          `json:"model,omitempty"`
	Category               *string          `json:"category,omitempty"`
	SerialNumber           *string          `json:"serialNumber,omitempty"`
	Location               *string          `json:"location,omitempty"`
	Provider               *string          `json:"provider,omitempty"`
	Quantity               *int             `json:"quantity,omitempty"`
	WarrantyExpirationDate *model.Date      `json:"warrantyExpirationDate,omitempty"`
	PurchaseDate           *model.Date      `json:"purchaseDate,omitempty"`
	Cost                   *decimal.Decimal `json:"cost,omitempty"`
	Notes                  *string          `json:"notes,omitempty"`
}

// Empty reports whether no field is set.
func (ch ItemChanges) Empty() bool {
	return ch == ItemChanges{}
}

// BulkEditRequest applies the same changes to several items.
type BulkEditRequest struct {
	ProductIDs []string    `json:"productIds"`
	Changes    ItemChanges `json:"changes"`
	User       string      `json:"user,omitempty"`
}

// BulkAssign assigns every listed item. Missing ids are skipped and items
// that are not available are rejected; the rest are applied.
func (c *Container) BulkAssign(ctx context.Context, req BulkAssignRequest) (*BulkResult, error) {
	if req.AssignedTo == "" {
		return nil, fmt.Errorf("bulk assign without assignee: %w", model.ErrInvalidArgument)
	}
	return c.bulk(ctx, "bulkAssign", req.ProductIDs, func(s *model.Snapshot, id string, now time.Time) error {
		return c.assign(s, AssignRequest{
			ProductID:      id,
			AssignedTo:     req.AssignedTo,
			AssignmentDate: req.AssignmentDate,
			Notes:          req.Notes,
			User:           req.User,
		}, now)
	})
}

// BulkLend lends every listed item with the same dates.
func (c *Container) BulkLend(ctx context.Context, req BulkLendRequest) (*BulkResult, error) {
	if req.LentTo == "" || req.ReturnDate.IsZero() {
		return nil, fmt.Errorf("bulk lend without borrower or return date: %w", model.ErrInvalidArgument)
	}
	return c.bulk(ctx, "bulkLend", req.ProductIDs, func(s *model.Snapshot, id string, now time.Time) error {
		return c.lend(s, LendRequest{
			ProductID:  id,
			LentTo:     req.LentTo,
			LoanDate:   req.LoanDate,
			ReturnDate: req.ReturnDate,
			Notes:      req.Notes,
			User:       req.User,
		}, now)
	})
}

// BulkRetire retires every listed item.
func (c *Container) BulkRetire(ctx context.Context, req BulkRetireRequest) (*BulkResult, error) {
	return c.bulk(ctx, "bulkRetire", req.ProductIDs, func(s *model.Snapshot, id string, now time.Time) error {
		return c.retire(s, RetireRequest{
			ProductID:      id,
			Reason:         req.Reason,
			RetirementDate: req.RetirementDate,
			User:           req.User,
		}, now)
	})
}

// BulkEdit overwrites descriptive fields on every listed item. Items on which
// the changes make no difference are rejected.
func (c *Container) BulkEdit(ctx context.Context, req BulkEditRequest) (*BulkResult, error) {
	if req.Changes.Empty() {
		return nil, fmt.Errorf("bulk edit without changes: %w", model.ErrInvalidArgument)
	}
	if req.Changes.Quantity != nil && *req.Changes.Quantity < 0 {
		return nil, fmt.Errorf("quantity %d: %w", *req.Changes.Quantity, model.ErrInvalidArgument)
	}
	return c.bulk(ctx, "bulkEdit", req.ProductIDs, func(s *model.Snapshot, id string, now time.Time) error {
		return editItem(s, id, req.Changes, req.User, now)
	})
}

// bulk runs apply once per unique id inside a single mutation. The snapshot
// is saved once, and only when at least one id was applied.
func (c *Container) bulk(ctx context.Context, op string, ids []string, apply func(*model.Snapshot, string, time.Time) error) (*BulkResult, error) {
	res := newBulkResult()
	err := c.mutate(ctx, op, func(s *model.Snapshot, now time.Time) error {
		for _, id := range lo.Uniq(ids) {
			err := apply(s, id, now)
			switch {
			case err == nil:
				res.Applied = append(res.Applied, id)
			case errors.Is(err, model.ErrNotFound):
				res.Skipped = append(res.Skipped, id)
			default:
				res.Rejected[id] = err.Error()
			}
		}
		if len(res.Applied) == 0 {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("bulk command processed", "op", op,
		"applied", len(res.Applied), "skipped", len(res.Skipped), "rejected", len(res.Rejected))
	return res, nil
}

// editItem applies ch to one item and records the changed fields.
func editItem(s *model.Snapshot, id string, ch ItemChanges, user string, now time.Time) error {
	item, err := findItem(s, id)
	if err != nil {
		return err
	}

	changed := map[string]string{}
	setString := func(field string, dst *string, v *string) {
		if v != nil && *dst != *v {
			*dst = *v
			changed[field] = *v
		}
	}
	setString("name", &item.Name, ch.Name)
	setString("brand", &item.Brand, ch.Brand)
	setString("model", &item.Model, ch.Model)
	setString("category", &item.Category, ch.Category)
	setString("location", &item.Location, ch.Location)
	setString("provider", &item.Provider, ch.Provider)
	setString("notes", &item.Notes, ch.Notes)

	if ch.SerialNumber != nil && (item.SerialNumber == nil || *item.SerialNumber != *ch.SerialNumber) {
		serial := *ch.SerialNumber
		item.SerialNumber = &serial
		changed["serialNumber"] = serial
	}
	if ch.Quantity != nil && item.Quantity != *ch.Quantity {
		item.Quantity = *ch.Quantity
		changed["quantity"] = fmt.Sprint(*ch.Quantity)
	}
	if ch.WarrantyExpirationDate != nil && (item.WarrantyExpirationDate == nil || !item.WarrantyExpirationDate.Equal(*ch.WarrantyExpirationDate)) {
		item.WarrantyExpirationDate = ch.WarrantyExpirationDate.Clone()
		changed["warrantyExpirationDate"] = ch.WarrantyExpirationDate.String()
	}
	if ch.PurchaseDate != nil && (item.PurchaseDate == nil || !item.PurchaseDate.Equal(*ch.PurchaseDate)) {
		item.PurchaseDate = ch.PurchaseDate.Clone()
		changed["purchaseDate"] = ch.PurchaseDate.String()
	}
	if ch.Cost != nil && (item.Cost == nil || !item.Cost.Equal(*ch.Cost)) {
		cost := *ch.Cost
		item.Cost = &cost
		changed["cost"] = cost.StringFixed(2)
	}

	if len(changed) == 0 {
		return fmt.Errorf("item %q: no changes: %w", id, model.ErrInvalidArgument)
	}
	record(s, item, ledger.NewEntry(ledger.EventEdited, *item, now, user,
		fmt.Sprintf("Editados %d campos", len(changed)), changed))
	return nil
}
