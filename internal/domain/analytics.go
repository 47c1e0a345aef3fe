package domain

// Severity classifies a health issue.
type Severity string

const (
	SeverityInfo    Severity = "Info"
	SeverityWarning Severity = "Warning"
	SeverityError   Severity = "Error"
)

// HealthIssue is one heuristic structural finding for a blueprint.
// FixID, when set, names an automated remediation the analytics engine
// can apply.
type HealthIssue struct {
	Severity   Severity `json:"severity"`
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
	FixID      string   `json:"fix_id,omitempty"`
}

// AnalyticsResult is the aggregate produced by one analysis pass over a
// blueprint. It is created fresh per call and never mutated afterwards.
type AnalyticsResult struct {
	BlueprintName   string             `json:"blueprint_name"`
	BlockCount      int                `json:"block_count"`
	BlockCounts     map[string]int     `json:"block_counts"`
	CategoryCounts  map[string]int     `json:"category_counts"`
	UnknownSubtypes []string           `json:"unknown_subtypes"`
	ComponentTotals map[string]int     `json:"component_totals"`
	IngotTotals     map[string]float64 `json:"ingot_totals"`
	OreTotals       map[string]float64 `json:"ore_totals"`
	PCUTotal        int                `json:"pcu_total"`
	MassTotal       float64            `json:"mass_total"`
	GridSize        string             `json:"grid_size"`
	HealthIssues    []HealthIssue      `json:"health_issues,omitempty"`
}

// ConversionComparison pairs the before/after aggregates of a mapping
// applied to a blueprint, with per-key deltas (after minus before) over
// the union of keys on both sides.
type ConversionComparison struct {
	Mode string `json:"mode"`

	// BlockChanges maps "Source -> Target" to the number of affected blocks.
	BlockChanges map[string]int `json:"block_changes"`

	BeforeComponents map[string]int `json:"before_components"`
	AfterComponents  map[string]int `json:"after_components"`
	ComponentDelta   map[string]int `json:"component_delta"`

	BeforeIngots map[string]float64 `json:"before_ingots"`
	AfterIngots  map[string]float64 `json:"after_ingots"`
	IngotDelta   map[string]float64 `json:"ingot_delta"`

	BeforeOres map[string]float64 `json:"before_ores"`
	AfterOres  map[string]float64 `json:"after_ores"`
	OreDelta   map[string]float64 `json:"ore_delta"`

	BeforePCU int `json:"before_pcu"`
	AfterPCU  int `json:"after_pcu"`
	PCUDelta  int `json:"pcu_delta"`

	BeforeMass float64 `json:"before_mass"`
	AfterMass  float64 `json:"after_mass"`
	MassDelta  float64 `json:"mass_delta"`
}
