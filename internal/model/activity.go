package model

import "time"

// RecentActivity is one entry of the global activity feed.
type RecentActivity struct {
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Date        time.Time         `json:"date"`
	Details     map[string]string `json:"details,omitempty"`
}

// Clone returns a deep copy of the activity.
func (a RecentActivity) Clone() RecentActivity {
	a.Details = cloneDetails(a.Details)
	return a
}

// ColumnPreference holds the visible columns a user picked for a table.
type ColumnPreference struct {
	Table          string   `json:"table"`
	VisibleColumns []string `json:"visibleColumns"`
}
