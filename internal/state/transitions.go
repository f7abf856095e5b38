package state

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/inventario/internal/ledger"
	"github.com/erazemk/inventario/internal/model"
)

// AssignRequest hands an available item to a person.
type AssignRequest struct {
	ProductID      string      `json:"productId"`
	AssignedTo     string      `json:"assignedTo"`
	AssignmentDate *model.Date `json:"assignmentDate,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	User           string      `json:"user,omitempty"`
}

// LendRequest lends an available item until ReturnDate.
type LendRequest struct {
	ProductID  string      `json:"productId"`
	LentTo     string      `json:"lentTo"`
	LoanDate   *model.Date `json:"loanDate,omitempty"`
	ReturnDate model.Date  `json:"returnDate"`
	Notes      string      `json:"notes,omitempty"`
	User       string      `json:"user,omitempty"`
}

// RetireRequest takes an item out of service.
type RetireRequest struct {
	ProductID      string      `json:"productId"`
	Reason         string      `json:"reason,omitempty"`
	RetirementDate *model.Date `json:"retirementDate,omitempty"`
	User           string      `json:"user,omitempty"`
}

// ItemRequest names a single item for transitions without extra arguments.
type ItemRequest struct {
	ProductID string `json:"productId"`
	Notes     string `json:"notes,omitempty"`
	User      string `json:"user,omitempty"`
}

func invalid(item *model.InventoryItem, action string) error {
	return fmt.Errorf("%s item %q in status %q: %w", action, item.ID, item.Status, model.ErrInvalidTransition)
}

// Assign moves an item from Disponible to Asignado and opens an assignment.
func (c *Container) Assign(ctx context.Context, req AssignRequest) error {
	return c.mutate(ctx, "assign", func(s *model.Snapshot, now time.Time) error {
		return c.assign(s, req, now)
	})
}

func (c *Container) assign(s *model.Snapshot, req AssignRequest, now time.Time) error {
	if req.AssignedTo == "" {
		return fmt.Errorf("assign without assignee: %w", model.ErrInvalidArgument)
	}
	item, err := findItem(s, req.ProductID)
	if err != nil {
		return err
	}
	if item.Status != model.StatusAvailable {
		return invalid(item, "assigning")
	}

	date := dateOr(req.AssignmentDate, now)
	item.Status = model.StatusAssigned
	s.AssignmentsData = append(s.AssignmentsData, model.AssignmentItem{
		ID:              c.newID(),
		InventoryItemID: item.ID,
		ItemName:        item.Name,
		AssignedTo:      req.AssignedTo,
		AssignmentDate:  date,
		Status:          model.RecordActive,
		Notes:           req.Notes,
	})
	record(s, item, ledger.NewEntry(ledger.EventAssigned, *item, now, req.User,
		fmt.Sprintf("Asignado a %s", req.AssignedTo),
		map[string]string{"assignedTo": req.AssignedTo, "assignmentDate": date.String()}))
	return nil
}

// Release returns an assigned item to Disponible and closes its assignment.
func (c *Container) Release(ctx context.Context, req ItemRequest) error {
	return c.mutate(ctx, "release", func(s *model.Snapshot, now time.Time) error {
		return c.release(s, req, now)
	})
}

func (c *Container) release(s *model.Snapshot, req ItemRequest, now time.Time) error {
	item, err := findItem(s, req.ProductID)
	if err != nil {
		return err
	}
	if item.Status != model.StatusAssigned {
		return invalid(item, "releasing")
	}

	item.Status = model.StatusAvailable
	closeAssignments(s, item.ID, model.Today(now))
	record(s, item, ledger.NewEntry(ledger.EventReleased, *item, now, req.User,
		"Liberado de su asignación", nil))
	return nil
}

// Lend moves an item from Disponible to Prestado and opens a loan.
func (c *Container) Lend(ctx context.Context, req LendRequest) error {
	return c.mutate(ctx, "lend", func(s *model.Snapshot, now time.Time) error {
		return c.lend(s, req, now)
	})
}

func (c *Container) lend(s *model.Snapshot, req LendRequest, now time.Time) error {
	if req.LentTo == "" {
		return fmt.Errorf("lending without borrower: %w", model.ErrInvalidArgument)
	}
	if req.ReturnDate.IsZero() {
		return fmt.Errorf("lending without return date: %w", model.ErrInvalidArgument)
	}
	loanDate := dateOr(req.LoanDate, now)
	if req.ReturnDate.Before(loanDate) {
		return fmt.Errorf("return date %s before loan date %s: %w", req.ReturnDate, loanDate, model.ErrInvalidArgument)
	}
	item, err := findItem(s, req.ProductID)
	if err != nil {
		return err
	}
	if item.Status != model.StatusAvailable {
		return invalid(item, "lending")
	}

	lentTo := req.LentTo
	item.Status = model.StatusLent
	item.LentTo = &lentTo
	item.LoanDate = loanDate.Ptr()
	item.ReturnDate = req.ReturnDate.Ptr()

	s.LoansData = append(s.LoansData, model.LoanItem{
		ID:              c.newID(),
		InventoryItemID: item.ID,
		ItemName:        item.Name,
		LentTo:          req.LentTo,
		LoanDate:        loanDate,
		ReturnDate:      req.ReturnDate,
		RemainingDays:   max(model.DaysBetween(model.Today(now), req.ReturnDate), 0),
		Status:          model.RecordActive,
		Notes:           req.Notes,
	})
	record(s, item, ledger.NewEntry(ledger.EventLent, *item, now, req.User,
		fmt.Sprintf("Prestado a %s hasta %s", req.LentTo, req.ReturnDate),
		map[string]string{
			"lentTo":     req.LentTo,
			"loanDate":   loanDate.String(),
			"returnDate": req.ReturnDate.String(),
		}))
	return nil
}

// ReturnLoan brings a lent item back to Disponible, clearing its custody
// fields and closing the loan.
func (c *Container) ReturnLoan(ctx context.Context, req ItemRequest) error {
	return c.mutate(ctx, "returnLoan", func(s *model.Snapshot, now time.Time) error {
		return c.returnLoan(s, req, now)
	})
}

func (c *Container) returnLoan(s *model.Snapshot, req ItemRequest, now time.Time) error {
	item, err := findItem(s, req.ProductID)
	if err != nil {
		return err
	}
	if item.Status != model.StatusLent {
		return invalid(item, "returning")
	}

	borrower := ""
	if item.LentTo != nil {
		borrower = *item.LentTo
	}
	item.Status = model.StatusAvailable
	item.ClearCustody()
	closeLoans(s, item.ID, model.Today(now))
	record(s, item, ledger.NewEntry(ledger.EventLoanReturned, *item, now, req.User,
		fmt.Sprintf("Devuelto por %s", borrower),
		map[string]string{"lentTo": borrower}))
	return nil
}

// Retire takes any non-retired item out of service. Open loans and
// assignments of the item are closed.
func (c *Container) Retire(ctx context.Context, req RetireRequest) error {
	return c.mutate(ctx, "retire", func(s *model.Snapshot, now time.Time) error {
		return c.retire(s, req, now)
	})
}

func (c *Container) retire(s *model.Snapshot, req RetireRequest, now time.Time) error {
	item, err := findItem(s, req.ProductID)
	if err != nil {
		return err
	}
	if item.Status == model.StatusRetired {
		return invalid(item, "retiring")
	}

	date := dateOr(req.RetirementDate, now)
	switch item.Status {
	case model.StatusLent:
		closeLoans(s, item.ID, date)
	case model.StatusAssigned:
		closeAssignments(s, item.ID, date)
	}
	item.Status = model.StatusRetired
	item.ClearCustody()

	desc := "Retirado del inventario"
	if req.Reason != "" {
		desc = fmt.Sprintf("Retirado: %s", req.Reason)
	}
	record(s, item, ledger.NewEntry(ledger.EventRetired, *item, now, req.User, desc,
		map[string]string{"reason": req.Reason, "retirementDate": date.String()}))
	return nil
}

// Reactivate returns a retired item to Disponible.
func (c *Container) Reactivate(ctx context.Context, req ItemRequest) error {
	return c.mutate(ctx, "reactivate", func(s *model.Snapshot, now time.Time) error {
		return c.reactivate(s, req, now)
	})
}

func (c *Container) reactivate(s *model.Snapshot, req ItemRequest, now time.Time) error {
	item, err := findItem(s, req.ProductID)
	if err != nil {
		return err
	}
	if item.Status != model.StatusRetired {
		return invalid(item, "reactivating")
	}

	item.Status = model.StatusAvailable
	record(s, item, ledger.NewEntry(ledger.EventReactivated, *item, now, req.User,
		"Reactivado", nil))
	return nil
}

// MarkPendingRetirement flags an available item for retirement review.
func (c *Container) MarkPendingRetirement(ctx context.Context, req ItemRequest) error {
	return c.mutate(ctx, "markPendingRetirement", func(s *model.Snapshot, now time.Time) error {
		return c.markPendingRetirement(s, req, now)
	})
}

func (c *Container) markPendingRetirement(s *model.Snapshot, req ItemRequest, now time.Time) error {
	item, err := findItem(s, req.ProductID)
	if err != nil {
		return err
	}
	if item.Status != model.StatusAvailable {
		return invalid(item, "flagging")
	}

	item.Status = model.StatusPendingRetirement
	var details map[string]string
	if req.Notes != "" {
		details = map[string]string{"notes": req.Notes}
	}
	record(s, item, ledger.NewEntry(ledger.EventPendingRetirement, *item, now, req.User,
		"Marcado como pendiente de retiro", details))
	return nil
}

func closeAssignments(s *model.Snapshot, itemID string, on model.Date) {
	for i := range s.AssignmentsData {
		a := &s.AssignmentsData[i]
		if a.InventoryItemID == itemID && a.Status != model.RecordReturned {
			a.Status = model.RecordReturned
			a.ReturnDate = on.Ptr()
		}
	}
}

func closeLoans(s *model.Snapshot, itemID string, on model.Date) {
	for i := range s.LoansData {
		l := &s.LoansData[i]
		if l.InventoryItemID == itemID && l.Status != model.RecordReturned {
			l.Status = model.RecordReturned
			l.ActualReturnDate = on.Ptr()
			l.RemainingDays = 0
		}
	}
}
