package cost

import (
	"strings"

	"sebx/internal/domain"
)

// inferRule is one step of the fallback heuristic for subtypes absent
// from the database. Rules are evaluated in order; the first match wins.
type inferRule struct {
	match func(subtype, lowered string) bool
	build func(subtype string) domain.CostRecord
}

var inferRules = []inferRule{
	{
		match: func(_, lowered string) bool { return strings.Contains(lowered, "armor") },
		build: buildArmorRecord,
	},
	{
		match: func(_, lowered string) bool { return strings.Contains(lowered, "thrust") },
		build: func(string) domain.CostRecord {
			return domain.CostRecord{
				Category: "thrusters",
				PCU:      10,
				Mass:     1500.0,
				Components: map[string]int{
					"SteelPlate":   40,
					"Construction": 20,
					"Motor":        20,
					"Thrust":       10,
				},
			}
		},
	},
	{
		match: func(_, lowered string) bool {
			return strings.Contains(lowered, "reactor") || strings.Contains(lowered, "generator")
		},
		build: func(string) domain.CostRecord {
			return domain.CostRecord{
				Category: "power",
				PCU:      25,
				Mass:     2000.0,
				Components: map[string]int{
					"SteelPlate":   40,
					"Construction": 20,
					"Reactor":      10,
				},
			}
		},
	},
}

// Infer derives a plausible cost record for a subtype from its textual
// pattern. It never fails; a subtype matching no rule simply reports no
// record.
func Infer(subtype string) (domain.CostRecord, bool) {
	lowered := strings.ToLower(subtype)
	for _, rule := range inferRules {
		if rule.match(subtype, lowered) {
			return rule.build(subtype), true
		}
	}
	return domain.CostRecord{Category: domain.CategoryUnknown}, false
}

// buildArmorRecord distinguishes heavy from light variants and large from
// small grid by the subtype's textual shape.
func buildArmorRecord(subtype string) domain.CostRecord {
	lowered := strings.ToLower(subtype)
	large := strings.HasPrefix(subtype, "Large")

	var steel, pcu int
	var mass float64
	if strings.Contains(lowered, "heavy") {
		steel, mass = 5, 30.0
		if large {
			steel, pcu, mass = 150, 1, 15100.0
		}
	} else {
		steel, mass = 1, 10.0
		if large {
			steel, pcu, mass = 25, 1, 2520.0
		}
	}
	return domain.CostRecord{
		Category:   "armor",
		PCU:        pcu,
		Mass:       mass,
		Components: map[string]int{"SteelPlate": steel},
	}
}

// categoryHeuristic buckets a subtype with no cost record by substring.
func categoryHeuristic(subtype string) string {
	lowered := strings.ToLower(subtype)
	switch {
	case strings.Contains(lowered, "armor"):
		return "armor"
	case strings.Contains(lowered, "thrust"):
		return "thrusters"
	case strings.Contains(lowered, "turret"),
		strings.Contains(lowered, "gatling"),
		strings.Contains(lowered, "artillery"):
		return "weapons"
	default:
		return domain.CategoryUtility
	}
}
