// Package ledger builds the per-item history and the global activity feed.
//
// Every status change produces one HistoryEvent on the item and one
// RecentActivity in the feed. The two logs are kept separately.
package ledger

import (
	"time"

	"github.com/erazemk/inventario/internal/model"
)

// Event types shared by item history and the activity feed.
const (
	EventCreated           = "Creación"
	EventAssigned          = "Asignación"
	EventReleased          = "Liberación"
	EventLent              = "Préstamo"
	EventLoanReturned      = "Devolución de Préstamo"
	EventRetired           = "Retiro"
	EventReactivated       = "Reactivación"
	EventPendingRetirement = "Pendiente de Retiro"
	EventEdited            = "Edición"
	EventDuplicated        = "Duplicado"
	EventRemoved           = "Eliminación"
	EventImported          = "Importación"
	EventTask              = "Tarea"
)

// Entry is a matched history/activity pair for one item.
type Entry struct {
	History  model.HistoryEvent
	Activity model.RecentActivity
}

// NewEntry builds the pair for an event on item. The activity's details carry
// the item id and name in addition to details.
func NewEntry(kind string, item model.InventoryItem, at time.Time, user, description string, details map[string]string) Entry {
	activityDetails := make(map[string]string, len(details)+2)
	for k, v := range details {
		activityDetails[k] = v
	}
	activityDetails["itemId"] = item.ID
	activityDetails["itemName"] = item.Name

	var historyDetails map[string]string
	if len(details) > 0 {
		historyDetails = make(map[string]string, len(details))
		for k, v := range details {
			historyDetails[k] = v
		}
	}

	return Entry{
		History: model.HistoryEvent{
			Type:        kind,
			Date:        at,
			Description: description,
			User:        user,
			Details:     historyDetails,
		},
		Activity: model.RecentActivity{
			Type:        kind,
			Description: description,
			Date:        at,
			Details:     activityDetails,
		},
	}
}

// Append adds ev to the end of the item's history.
func Append(item *model.InventoryItem, ev model.HistoryEvent) {
	item.History = append(item.History, ev)
}

// Record prepends a to feed and drops entries past MaxRecentActivities.
// feed is not modified.
func Record(feed []model.RecentActivity, a model.RecentActivity) []model.RecentActivity {
	n := len(feed) + 1
	if n > model.MaxRecentActivities {
		n = model.MaxRecentActivities
	}
	out := make([]model.RecentActivity, 0, n)
	out = append(out, a)
	for _, prev := range feed {
		if len(out) == n {
			break
		}
		out = append(out, prev)
	}
	return out
}

// Apply appends e's history event to item and records its activity in feed.
func Apply(item *model.InventoryItem, feed []model.RecentActivity, e Entry) []model.RecentActivity {
	Append(item, e.History)
	return Record(feed, e.Activity)
}
