package domain

// CostRecord describes the build cost of a single block subtype.
type CostRecord struct {
	Category   string         `json:"category"`
	PCU        int            `json:"pcu"`
	Mass       float64        `json:"mass"`
	Components map[string]int `json:"components,omitempty"`
}

// CategoryUtility is the generic bucket for blocks with no better category.
const CategoryUtility = "utility"

// CategoryUnknown tags blocks with no cost record and no matching
// inference rule.
const CategoryUnknown = "unknown"
