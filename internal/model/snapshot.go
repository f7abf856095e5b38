package model

// MaxRecentActivities bounds the global activity feed.
const MaxRecentActivities = 50

// CatalogKind names one of the snapshot's catalogue lists.
type CatalogKind string

// Catalogue lists.
const (
	CatalogCategories        CatalogKind = "categories"
	CatalogBrands            CatalogKind = "brands"
	CatalogProviders         CatalogKind = "providers"
	CatalogLocations         CatalogKind = "locations"
	CatalogRetirementReasons CatalogKind = "retirementReasons"
)

// Snapshot is the complete state tree held by the container and persisted as
// a single blob. Unknown fields are ignored and missing ones default, so older
// blobs stay readable.
type Snapshot struct {
	InventoryData         []InventoryItem        `json:"inventoryData"`
	AssignmentsData       []AssignmentItem       `json:"assignmentsData"`
	LoansData             []LoanItem             `json:"loansData"`
	PendingActionRequests []PendingActionRequest `json:"pendingActionRequests"`
	RecentActivities      []RecentActivity       `json:"recentActivities"`
	Tasks                 []PendingTask          `json:"tasks"`
	Categories            []string               `json:"categories"`
	Brands                []string               `json:"brands"`
	Providers             []string               `json:"providers"`
	Locations             []string               `json:"locations"`
	RetirementReasons     []string               `json:"retirementReasons"`
	UserColumnPreferences []ColumnPreference     `json:"userColumnPreferences"`
	LowStockThresholds    LowStockThresholds     `json:"lowStockThresholds"`
}

// DefaultSnapshot returns the fixed seed used when nothing usable is stored.
func DefaultSnapshot() Snapshot {
	s := Snapshot{
		Categories:         []string{"Laptops", "Monitores", "Periféricos", "Redes", "Telefonía", "Mobiliario"},
		Brands:             []string{"Dell", "HP", "Lenovo", "Apple", "Logitech", "Cisco"},
		Providers:          []string{"Proveedor General", "TecnoSuministros"},
		Locations:          []string{"Almacén Central", "Oficina Principal"},
		RetirementReasons:  []string{"Obsoleto", "Dañado", "Extraviado", "Fin de vida útil"},
		LowStockThresholds: NewLowStockThresholds(DefaultGlobalThreshold),
	}
	s.Normalize()
	return s
}

// Catalog returns the list for kind, or nil for an unknown kind.
func (s *Snapshot) Catalog(kind CatalogKind) *[]string {
	switch kind {
	case CatalogCategories:
		return &s.Categories
	case CatalogBrands:
		return &s.Brands
	case CatalogProviders:
		return &s.Providers
	case CatalogLocations:
		return &s.Locations
	case CatalogRetirementReasons:
		return &s.RetirementReasons
	}
	return nil
}

// Normalize fills defaults for missing fields and drops values that break the
// snapshot's invariants.
func (s *Snapshot) Normalize() {
	if s.InventoryData == nil {
		s.InventoryData = []InventoryItem{}
	}
	for i := range s.InventoryData {
		it := &s.InventoryData[i]
		if it.History == nil {
			it.History = []HistoryEvent{}
		}
		if it.Status == "" {
			it.Status = StatusAvailable
		}
		if it.Quantity < 0 {
			it.Quantity = 0
		}
		if it.Status != StatusLent {
			it.ClearCustody()
		}
	}
	if s.AssignmentsData == nil {
		s.AssignmentsData = []AssignmentItem{}
	}
	if s.LoansData == nil {
		s.LoansData = []LoanItem{}
	}
	if s.PendingActionRequests == nil {
		s.PendingActionRequests = []PendingActionRequest{}
	}
	if s.RecentActivities == nil {
		s.RecentActivities = []RecentActivity{}
	}
	if len(s.RecentActivities) > MaxRecentActivities {
		s.RecentActivities = s.RecentActivities[:MaxRecentActivities]
	}
	if s.Tasks == nil {
		s.Tasks = []PendingTask{}
	}
	for _, kind := range []CatalogKind{CatalogCategories, CatalogBrands, CatalogProviders, CatalogLocations, CatalogRetirementReasons} {
		if l := s.Catalog(kind); *l == nil {
			*l = []string{}
		}
	}
	if s.UserColumnPreferences == nil {
		s.UserColumnPreferences = []ColumnPreference{}
	}

	t := &s.LowStockThresholds
	if t.ProductThresholds == nil {
		t.ProductThresholds = make(map[string]int)
	}
	if t.CategoryThresholds == nil {
		t.CategoryThresholds = make(map[string]int)
	}
	for k, v := range t.ProductThresholds {
		if v <= 0 {
			delete(t.ProductThresholds, k)
		}
	}
	for k, v := range t.CategoryThresholds {
		if v <= 0 {
			delete(t.CategoryThresholds, k)
		}
	}
	if t.GlobalThreshold <= 0 {
		t.GlobalThreshold = DefaultGlobalThreshold
	}
}

// Clone returns a deep copy that shares no memory with s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		InventoryData:         make([]InventoryItem, len(s.InventoryData)),
		AssignmentsData:       make([]AssignmentItem, len(s.AssignmentsData)),
		LoansData:             make([]LoanItem, len(s.LoansData)),
		PendingActionRequests: make([]PendingActionRequest, len(s.PendingActionRequests)),
		RecentActivities:      make([]RecentActivity, len(s.RecentActivities)),
		Tasks:                 make([]PendingTask, len(s.Tasks)),
		Categories:            append([]string{}, s.Categories...),
		Brands:                append([]string{}, s.Brands...),
		Providers:             append([]string{}, s.Providers...),
		Locations:             append([]string{}, s.Locations...),
		RetirementReasons:     append([]string{}, s.RetirementReasons...),
		UserColumnPreferences: make([]ColumnPreference, len(s.UserColumnPreferences)),
		LowStockThresholds:    s.LowStockThresholds.Clone(),
	}
	for i, v := range s.InventoryData {
		out.InventoryData[i] = v.Clone()
	}
	for i, v := range s.AssignmentsData {
		out.AssignmentsData[i] = v.Clone()
	}
	for i, v := range s.LoansData {
		out.LoansData[i] = v.Clone()
	}
	for i, v := range s.PendingActionRequests {
		out.PendingActionRequests[i] = v.Clone()
	}
	for i, v := range s.RecentActivities {
		out.RecentActivities[i] = v.Clone()
	}
	for i, v := range s.Tasks {
		out.Tasks[i] = v.Clone()
	}
	for i, v := range s.UserColumnPreferences {
		out.UserColumnPreferences[i] = ColumnPreference{
			Table:          v.Table,
			VisibleColumns: append([]string{}, v.VisibleColumns...),
		}
	}
	return out
}
