package model

import (
	"encoding/json"
	"testing"
)

func TestSnapshotNormalizeDefaults(t *testing.T) {
	var s Snapshot
	if err := json.Unmarshal([]byte(`{"inventoryData":[{"id":"a","name":"Laptop","status":"Asignado","lentTo":"Ana"}],"unknownField":1}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s.Normalize()

	if s.LowStockThresholds.GlobalThreshold != DefaultGlobalThreshold {
		t.Errorf("expected default global threshold, got %d", s.LowStockThresholds.GlobalThreshold)
	}
	if s.LowStockThresholds.ProductThresholds == nil || s.LowStockThresholds.CategoryThresholds == nil {
		t.Error("expected threshold maps to be initialized")
	}
	if s.LoansData == nil || s.Tasks == nil || s.Categories == nil {
		t.Error("expected missing collections to default to empty")
	}
	if s.InventoryData[0].HasCustody() {
		t.Error("expected custody fields cleared on a non-lent item")
	}
	if s.InventoryData[0].History == nil {
		t.Error("expected history to default to empty")
	}
}

func TestSnapshotNormalizeDropsInvalidThresholds(t *testing.T) {
	s := Snapshot{LowStockThresholds: LowStockThresholds{
		ProductThresholds:  map[string]int{"a": 0, "b": 4},
		CategoryThresholds: map[string]int{"Monitores": -1},
		GlobalThreshold:    -3,
	}}
	s.Normalize()

	if _, ok := s.LowStockThresholds.ProductThresholds["a"]; ok {
		t.Error("expected zero product threshold to be dropped")
	}
	if s.LowStockThresholds.ProductThresholds["b"] != 4 {
		t.Error("expected positive product threshold to be kept")
	}
	if len(s.LowStockThresholds.CategoryThresholds) != 0 {
		t.Error("expected negative category threshold to be dropped")
	}
	if s.LowStockThresholds.GlobalThreshold != DefaultGlobalThreshold {
		t.Errorf("expected default global threshold, got %d", s.LowStockThresholds.GlobalThreshold)
	}
}

func TestSnapshotNormalizeCapsActivities(t *testing.T) {
	s := Snapshot{RecentActivities: make([]RecentActivity, MaxRecentActivities+10)}
	s.Normalize()
	if len(s.RecentActivities) != MaxRecentActivities {
		t.Errorf("expected %d activities, got %d", MaxRecentActivities, len(s.RecentActivities))
	}
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	serial := "SN-1"
	s := DefaultSnapshot()
	s.InventoryData = append(s.InventoryData, InventoryItem{
		ID:           "a",
		SerialNumber: &serial,
		History:      []HistoryEvent{{Type: "Creación", Details: map[string]string{"k": "v"}}},
	})
	s.LowStockThresholds.ProductThresholds["a"] = 2

	c := s.Clone()
	*c.InventoryData[0].SerialNumber = "changed"
	c.InventoryData[0].History[0].Details["k"] = "changed"
	c.LowStockThresholds.ProductThresholds["a"] = 9
	c.Categories[0] = "changed"

	if *s.InventoryData[0].SerialNumber != "SN-1" {
		t.Error("serial number shared between clones")
	}
	if s.InventoryData[0].History[0].Details["k"] != "v" {
		t.Error("history details shared between clones")
	}
	if s.LowStockThresholds.ProductThresholds["a"] != 2 {
		t.Error("thresholds shared between clones")
	}
	if s.Categories[0] == "changed" {
		t.Error("catalogue shared between clones")
	}
}

func TestStatusValid(t *testing.T) {
	tests := []struct {
		status   ItemStatus
		expected bool
	}{
		{StatusAvailable, true},
		{StatusAssigned, true},
		{StatusLent, true},
		{StatusRetired, true},
		{StatusPendingRetirement, true},
		{"", false},
		{"active", false},
	}
	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.expected {
			t.Errorf("ItemStatus(%q).Valid() = %v, want %v", tt.status, got, tt.expected)
		}
	}
}
