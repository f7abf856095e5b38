package model

// RecordStatus is the status of an assignment or loan record.
type RecordStatus string

// Assignment and loan statuses.
const (
	RecordActive   RecordStatus = "Activo"
	RecordReturned RecordStatus = "Devuelto"
	RecordOverdue  RecordStatus = "Vencido"
)

// AssignmentItem records an item handed to a person for ongoing use.
// InventoryItemID is a lookup key, not ownership.
type AssignmentItem struct {
	ID              string       `json:"id"`
	InventoryItemID string       `json:"inventoryItemId"`
	ItemName        string       `json:"itemName,omitempty"`
	AssignedTo      string       `json:"assignedTo"`
	AssignmentDate  Date         `json:"assignmentDate"`
	ReturnDate      *Date        `json:"returnDate,omitempty"`
	Status          RecordStatus `json:"status"`
	Notes           string       `json:"notes,omitempty"`
}

// Clone returns a deep copy of the assignment.
func (a AssignmentItem) Clone() AssignmentItem {
	a.ReturnDate = a.ReturnDate.Clone()
	return a
}

// LoanItem records a temporary loan of an item.
//
// RemainingDays is computed once when the loan is created and is not kept live;
// use the alerts package for current figures.
type LoanItem struct {
	ID               string       `json:"id"`
	InventoryItemID  string       `json:"inventoryItemId"`
	ItemName         string       `json:"itemName,omitempty"`
	LentTo           string       `json:"lentTo"`
	LoanDate         Date         `json:"loanDate"`
	ReturnDate       Date         `json:"returnDate"`
	ActualReturnDate *Date        `json:"actualReturnDate,omitempty"`
	RemainingDays    int          `json:"remainingDays"`
	Status           RecordStatus `json:"status"`
	Notes            string       `json:"notes,omitempty"`
}

// Clone returns a deep copy of the loan.
func (l LoanItem) Clone() LoanItem {
	l.ActualReturnDate = l.ActualReturnDate.Clone()
	return l
}
