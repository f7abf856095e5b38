package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/erazemk/inventario/internal/model"
)

// Action names a command in the JSON envelope {"action": ..., "payload": ...}.
type Action string

// Supported actions.
const (
	ActionAssign                Action = "assign"
	ActionRelease               Action = "release"
	ActionLend                  Action = "lend"
	ActionReturnLoan            Action = "returnLoan"
	ActionRetire                Action = "retire"
	ActionReactivate            Action = "reactivate"
	ActionMarkPendingRetirement Action = "markPendingRetirement"
	ActionDuplicate             Action = "duplicate"
	ActionBulkAssign            Action = "bulkAssign"
	ActionBulkLend              Action = "bulkLend"
	ActionBulkRetire            Action = "bulkRetire"
	ActionBulkEdit              Action = "bulkEdit"
)

// Command is a decoded action payload.
type Command interface {
	Action() Action
}

// Release, ReturnLoan, Reactivate, MarkPendingRetirement and Duplicate share
// ItemRequest as payload, so they get their own named types.
type (
	ReleaseCommand               ItemRequest
	ReturnLoanCommand            ItemRequest
	ReactivateCommand            ItemRequest
	MarkPendingRetirementCommand ItemRequest
	DuplicateCommand             ItemRequest
)

func (AssignRequest) Action() Action                { return ActionAssign }
func (ReleaseCommand) Action() Action               { return ActionRelease }
func (LendRequest) Action() Action                  { return ActionLend }
func (ReturnLoanCommand) Action() Action            { return ActionReturnLoan }
func (RetireRequest) Action() Action                { return ActionRetire }
func (ReactivateCommand) Action() Action            { return ActionReactivate }
func (MarkPendingRetirementCommand) Action() Action { return ActionMarkPendingRetirement }
func (DuplicateCommand) Action() Action             { return ActionDuplicate }
func (BulkAssignRequest) Action() Action            { return ActionBulkAssign }
func (BulkLendRequest) Action() Action              { return ActionBulkLend }
func (BulkRetireRequest) Action() Action            { return ActionBulkRetire }
func (BulkEditRequest) Action() Action              { return ActionBulkEdit }

var commands = map[Action]func() Command{
	ActionAssign:                func() Command { return &AssignRequest{} },
	ActionRelease:               func() Command { return &ReleaseCommand{} },
	ActionLend:                  func() Command { return &LendRequest{} },
	ActionReturnLoan:            func() Command { return &ReturnLoanCommand{} },
	ActionRetire:                func() Command { return &RetireRequest{} },
	ActionReactivate:            func() Command { return &ReactivateCommand{} },
	ActionMarkPendingRetirement: func() Command { return &MarkPendingRetirementCommand{} },
	ActionDuplicate:             func() Command { return &DuplicateCommand{} },
	ActionBulkAssign:            func() Command { return &BulkAssignRequest{} },
	ActionBulkLend:              func() Command { return &BulkLendRequest{} },
	ActionBulkRetire:            func() Command { return &BulkRetireRequest{} },
	ActionBulkEdit:              func() Command { return &BulkEditRequest{} },
}

// Envelope is the wire form of a command.
type Envelope struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeCommand maps an action name and its JSON payload onto a Command.
func DecodeCommand(action string, payload []byte) (Command, error) {
	newCmd, ok := commands[Action(action)]
	if !ok {
		return nil, fmt.Errorf("action %q: %w", action, model.ErrUnknownAction)
	}
	cmd := newCmd()
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, cmd); err != nil {
			return nil, fmt.Errorf("decoding %s payload: %w: %w", action, model.ErrInvalidArgument, err)
		}
	}
	return cmd, nil
}

// Result is the outcome of a dispatched command.
type Result struct {
	Action Action               `json:"action"`
	OK     bool                 `json:"ok"`
	Reason string               `json:"reason,omitempty"`
	Item   *model.InventoryItem `json:"item,omitempty"`
	Bulk   *BulkResult          `json:"bulk,omitempty"`

	// Err is the rejection cause, for errors.Is checks.
	Err error `json:"-"`
}

func rejected(action Action, err error) Result {
	return Result{Action: action, Reason: err.Error(), Err: err}
}

// DispatchJSON decodes an envelope and dispatches it. Unknown actions are
// logged and rejected without touching the snapshot.
func (c *Container) DispatchJSON(ctx context.Context, action string, payload []byte) Result {
	cmd, err := DecodeCommand(action, payload)
	if err != nil {
		if errors.Is(err, model.ErrUnknownAction) {
			c.logger.Warn("unknown action dispatched", "action", action)
		}
		return rejected(Action(action), err)
	}
	return c.Dispatch(ctx, cmd)
}

// Dispatch runs cmd. A rejected command leaves the snapshot unchanged, except
// for bulk commands which apply every eligible id.
func (c *Container) Dispatch(ctx context.Context, cmd Command) Result {
	if cmd == nil {
		c.logger.Warn("unknown action dispatched", "action", "")
		return rejected("", model.ErrUnknownAction)
	}
	action := cmd.Action()

	var (
		err  error
		id   string
		bulk *BulkResult
		item *model.InventoryItem
	)
	switch cmd := deref(cmd).(type) {
	case AssignRequest:
		id, err = cmd.ProductID, c.Assign(ctx, cmd)
	case ReleaseCommand:
		id, err = cmd.ProductID, c.Release(ctx, ItemRequest(cmd))
	case LendRequest:
		id, err = cmd.ProductID, c.Lend(ctx, cmd)
	case ReturnLoanCommand:
		id, err = cmd.ProductID, c.ReturnLoan(ctx, ItemRequest(cmd))
	case RetireRequest:
		id, err = cmd.ProductID, c.Retire(ctx, cmd)
	case ReactivateCommand:
		id, err = cmd.ProductID, c.Reactivate(ctx, ItemRequest(cmd))
	case MarkPendingRetirementCommand:
		id, err = cmd.ProductID, c.MarkPendingRetirement(ctx, ItemRequest(cmd))
	case DuplicateCommand:
		var dup model.InventoryItem
		dup, err = c.DuplicateItem(ctx, cmd.ProductID, cmd.User)
		if err == nil {
			item = &dup
		}
	case BulkAssignRequest:
		bulk, err = c.BulkAssign(ctx, cmd)
	case BulkLendRequest:
		bulk, err = c.BulkLend(ctx, cmd)
	case BulkRetireRequest:
		bulk, err = c.BulkRetire(ctx, cmd)
	case BulkEditRequest:
		bulk, err = c.BulkEdit(ctx, cmd)
	default:
		c.logger.Warn("unknown action dispatched", "action", action)
		return rejected(action, fmt.Errorf("action %q: %w", action, model.ErrUnknownAction))
	}

	if err != nil {
		c.logger.Info("command rejected", "action", action, "error", err)
		return rejected(action, err)
	}
	if id != "" {
		if it, ok := c.Item(id); ok {
			item = &it
		}
	}
	res := Result{Action: action, OK: true, Item: item, Bulk: bulk}
	if bulk != nil && len(bulk.Applied) == 0 {
		res.OK = false
		res.Reason = "no item was eligible"
	}
	return res
}

// deref turns the pointers produced by DecodeCommand into values.
func deref(cmd Command) Command {
	switch cmd := cmd.(type) {
	case *AssignRequest:
		return *cmd
	case *ReleaseCommand:
		return *cmd
	case *LendRequest:
		return *cmd
	case *ReturnLoanCommand:
		return *cmd
	case *RetireRequest:
		return *cmd
	case *ReactivateCommand:
		return *cmd
	case *MarkPendingRetirementCommand:
		return *cmd
	case *DuplicateCommand:
		return *cmd
	case *BulkAssignRequest:
		return *cmd
	case *BulkLendRequest:
		return *cmd
	case *BulkRetireRequest:
		return *cmd
	case *BulkEditRequest:
		return *cmd
	}
	return cmd
}
