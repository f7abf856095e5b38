package state

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/inventario/internal/ledger"
	"github.com/erazemk/inventario/internal/model"
)

// Task audit events.
const (
	auditCreated   = "Creada"
	auditCompleted = "Finalizada"
	auditCancelled = "Cancelada"
)

// TaskRequest opens a pending task.
type TaskRequest struct {
	Type    model.TaskType    `json:"type"`
	Details map[string]string `json:"details,omitempty"`
	User    string            `json:"user,omitempty"`
}

func validTaskType(t model.TaskType) bool {
	switch t {
	case model.TaskIntake, model.TaskRetirement, model.TaskAssignment, model.TaskLoan:
		return true
	}
	return false
}

// CreateTask queues a new pending task.
func (c *Container) CreateTask(ctx context.Context, req TaskRequest) (model.PendingTask, error) {
	if !validTaskType(req.Type) {
		return model.PendingTask{}, fmt.Errorf("task type %q: %w", req.Type, model.ErrInvalidArgument)
	}
	var out model.PendingTask
	err := c.mutate(ctx, "createTask", func(s *model.Snapshot, now time.Time) error {
		task := model.PendingTask{
			ID:        c.newID(),
			Type:      req.Type,
			Status:    model.TaskPending,
			Details:   copyDetails(req.Details),
			CreatedBy: req.User,
			CreatedAt: now,
			AuditLog: []model.AuditEntry{{
				Event:    auditCreated,
				User:     req.User,
				DateTime: now,
			}},
		}
		s.Tasks = append(s.Tasks, task)
		s.RecentActivities = ledger.Record(s.RecentActivities, taskActivity(task, "Tarea creada", now))
		out = task.Clone()
		return nil
	})
	return out, err
}

// CompleteTask marks a pending task as done. Tasks are bookkeeping only:
// the intake, retirement, assignment or loan a task describes is carried out
// through its own command, and completing the task leaves inventory untouched.
func (c *Container) CompleteTask(ctx context.Context, id, user, note string) error {
	return c.finishTask(ctx, id, model.TaskCompleted, auditCompleted, user, note)
}

// CancelTask abandons a pending task.
func (c *Container) CancelTask(ctx context.Context, id, user, note string) error {
	return c.finishTask(ctx, id, model.TaskCancelled, auditCancelled, user, note)
}

func (c *Container) finishTask(ctx context.Context, id string, status model.TaskStatus, event, user, note string) error {
	return c.mutate(ctx, "finishTask", func(s *model.Snapshot, now time.Time) error {
		for i := range s.Tasks {
			task := &s.Tasks[i]
			if task.ID != id {
				continue
			}
			if task.Status.Terminal() {
				return fmt.Errorf("task %q in status %q: %w", id, task.Status, model.ErrInvalidTransition)
			}
			task.Status = status
			task.AuditLog = append(task.AuditLog, model.AuditEntry{
				Event:       event,
				User:        user,
				DateTime:    now,
				Description: note,
			})
			s.RecentActivities = ledger.Record(s.RecentActivities, taskActivity(*task, "Tarea "+string(status), now))
			return nil
		}
		return fmt.Errorf("task %q: %w", id, model.ErrNotFound)
	})
}

func taskActivity(t model.PendingTask, desc string, at time.Time) model.RecentActivity {
	return model.RecentActivity{
		Type:        ledger.EventTask,
		Description: desc,
		Date:        at,
		Details: map[string]string{
			"taskId":   t.ID,
			"taskType": string(t.Type),
			"status":   string(t.Status),
		},
	}
}

// QueueRequest records an action requested by someone who may not perform it.
func (c *Container) QueueRequest(ctx context.Context, kind, requestedBy string, details map[string]string) (model.PendingActionRequest, error) {
	if kind == "" {
		return model.PendingActionRequest{}, fmt.Errorf("request without type: %w", model.ErrInvalidArgument)
	}
	var out model.PendingActionRequest
	err := c.mutate(ctx, "queueRequest", func(s *model.Snapshot, now time.Time) error {
		req := model.PendingActionRequest{
			ID:          c.newID(),
			Type:        kind,
			RequestedBy: requestedBy,
			Date:        now,
			Details:     copyDetails(details),
			Status:      model.TaskPending,
		}
		s.PendingActionRequests = append(s.PendingActionRequests, req)
		out = req.Clone()
		return nil
	})
	return out, err
}

// ResolveRequest closes a pending request as completed or cancelled.
func (c *Container) ResolveRequest(ctx context.Context, id string, status model.TaskStatus) error {
	if !status.Terminal() {
		return fmt.Errorf("resolving request with status %q: %w", status, model.ErrInvalidArgument)
	}
	return c.mutate(ctx, "resolveRequest", func(s *model.Snapshot, _ time.Time) error {
		for i := range s.PendingActionRequests {
			r := &s.PendingActionRequests[i]
			if r.ID != id {
				continue
			}
			if r.Status.Terminal() {
				return fmt.Errorf("request %q in status %q: %w", id, r.Status, model.ErrInvalidTransition)
			}
			r.Status = status
			return nil
		}
		return fmt.Errorf("request %q: %w", id, model.ErrNotFound)
	})
}

func copyDetails(d map[string]string) map[string]string {
	if len(d) == 0 {
		return nil
	}
	out := make(map[string]string, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
