package model

// DefaultGlobalThreshold is the global low-stock threshold of a fresh snapshot.
const DefaultGlobalThreshold = 5

// LowStockThresholds holds the three levels of the low-stock policy.
// Every stored value is strictly positive; an unset level has no entry.
type LowStockThresholds struct {
	ProductThresholds  map[string]int `json:"productThresholds"`
	CategoryThresholds map[string]int `json:"categoryThresholds"`
	GlobalThreshold    int            `json:"globalThreshold"`
}

// NewLowStockThresholds returns thresholds with only the given global level.
func NewLowStockThresholds(global int) LowStockThresholds {
	return LowStockThresholds{
		ProductThresholds:  make(map[string]int),
		CategoryThresholds: make(map[string]int),
		GlobalThreshold:    global,
	}
}

// Clone returns a deep copy of the thresholds.
func (t LowStockThresholds) Clone() LowStockThresholds {
	out := LowStockThresholds{
		ProductThresholds:  make(map[string]int, len(t.ProductThresholds)),
		CategoryThresholds: make(map[string]int, len(t.CategoryThresholds)),
		GlobalThreshold:    t.GlobalThreshold,
	}
	for k, v := range t.ProductThresholds {
		out.ProductThresholds[k] = v
	}
	for k, v := range t.CategoryThresholds {
		out.CategoryThresholds[k] = v
	}
	return out
}
