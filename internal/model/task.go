package model

import "time"

// TaskType identifies what a pending task asks for.
type TaskType string

// Task types.
const (
	TaskIntake     TaskType = "ALTA_PRODUCTO"
	TaskRetirement TaskType = "RETIRO_PRODUCTO"
	TaskAssignment TaskType = "ASIGNACION"
	TaskLoan       TaskType = "PRESTAMO"
)

// TaskStatus is the processing state of a pending task or request.
type TaskStatus string

// Task statuses.
const (
	TaskPending   TaskStatus = "Pendiente"
	TaskCompleted TaskStatus = "Finalizada"
	TaskCancelled TaskStatus = "Cancelada"
)

// Terminal reports whether no further transitions are allowed.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskCancelled
}

// PendingTask is a queued intake, retirement, assignment or loan awaiting
// processing. Tasks never expire on their own.
type PendingTask struct {
	ID        string            `json:"id"`
	Type      TaskType          `json:"type"`
	Status    TaskStatus        `json:"status"`
	Details   map[string]string `json:"details,omitempty"`
	CreatedBy string            `json:"createdBy,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	AuditLog  []AuditEntry      `json:"auditLog"`
}

// Clone returns a deep copy of the task.
func (t PendingTask) Clone() PendingTask {
	t.Details = cloneDetails(t.Details)
	if t.AuditLog != nil {
		t.AuditLog = append([]AuditEntry(nil), t.AuditLog...)
	}
	return t
}

// AuditEntry is one line of a task's audit log.
type AuditEntry struct {
	Event       string    `json:"event"`
	User        string    `json:"user,omitempty"`
	DateTime    time.Time `json:"dateTime"`
	Description string    `json:"description,omitempty"`
}

// PendingActionRequest is an action requested by a user who may not perform
// it directly, queued for the inventory desk.
type PendingActionRequest struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	RequestedBy string            `json:"requestedBy,omitempty"`
	Date        time.Time         `json:"date"`
	Details     map[string]string `json:"details,omitempty"`
	Status      TaskStatus        `json:"status"`
}

// Clone returns a deep copy of the request.
func (r PendingActionRequest) Clone() PendingActionRequest {
	r.Details = cloneDetails(r.Details)
	return r
}
