package analytics

import (
	"fmt"
	"strings"

	"sebx/internal/blueprint"
	"sebx/internal/domain"
)

var thrustAxes = []string{"Forward", "Backward", "Up", "Down", "Left", "Right"}

// runHealthAudit applies the structural heuristics against one analyzed
// document: control presence, power presence, thruster coverage, and
// unknown-subtype notice.
func (e *Engine) runHealthAudit(doc *blueprint.Document, subtypeCounts map[string]int, unknownCount int) []domain.HealthIssue {
	var issues []domain.HealthIssue

	hasControl := false
	hasPower := false
	for subtype := range subtypeCounts {
		lowered := strings.ToLower(subtype)
		if strings.Contains(lowered, "cockpit") ||
			strings.Contains(lowered, "controlseat") ||
			strings.Contains(lowered, "remotecontrol") {
			hasControl = true
		}
		if strings.Contains(lowered, "battery") ||
			strings.Contains(lowered, "reactor") ||
			strings.Contains(lowered, "hydrogenengine") ||
			strings.Contains(lowered, "solar") ||
			strings.Contains(lowered, "wind") {
			hasPower = true
		}
	}

	if !hasControl {
		issues = append(issues, domain.HealthIssue{
			Severity:   domain.SeverityError,
			Code:       "missing_control",
			Message:    "No control block detected (Cockpit/Control Seat/Remote Control).",
			Suggestion: "Add a cockpit or remote control to make the grid pilotable.",
			FixID:      FixAddControlBlock,
		})
	}
	if !hasPower {
		issues = append(issues, domain.HealthIssue{
			Severity:   domain.SeverityError,
			Code:       "missing_power",
			Message:    "No power source detected (Battery/Reactor/Hydrogen/Solar/Wind).",
			Suggestion: "Add a battery or reactor so functional blocks can run.",
			FixID:      FixAddPowerBlock,
		})
	}

	if msg := thrusterBalance(doc); msg != "" {
		issues = append(issues, domain.HealthIssue{
			Severity:   domain.SeverityWarning,
			Code:       "thruster_imbalance",
			Message:    msg,
			Suggestion: "Try balancing thrust directions for safer handling.",
		})
	}

	if unknownCount > 0 {
		issues = append(issues, domain.HealthIssue{
			Severity:   domain.SeverityInfo,
			Code:       "unknown_blocks",
			Message:    fmt.Sprintf("%d block subtype(s) are unknown to the local cost database.", unknownCount),
			Suggestion: "These may be modded/DLC blocks or missing cost data entries.",
		})
	}

	return issues
}

// thrusterBalance returns a warning message when a grid with six or more
// thrusters leaves an axis uncovered or skews its distribution past a
// 2.5x spread. Grids with fewer thrusters are left alone.
func thrusterBalance(doc *blueprint.Document) string {
	directions := make(map[string]int)
	thrusterBlocks := 0
	for _, block := range doc.Blocks() {
		subtype := block.Subtype()
		if subtype == "" || !strings.Contains(strings.ToLower(subtype), "thrust") {
			continue
		}
		thrusterBlocks++
		if forward := block.OrientationForward(); forward != "" {
			directions[forward]++
		}
	}

	if thrusterBlocks < 6 {
		return ""
	}

	var missing []string
	for _, axis := range thrustAxes {
		if directions[axis] == 0 {
			missing = append(missing, axis)
		}
	}
	if len(missing) > 0 {
		return fmt.Sprintf("Thrusters are missing in direction(s): %s.", strings.Join(missing, ", "))
	}

	minCount, maxCount := directions[thrustAxes[0]], directions[thrustAxes[0]]
	for _, axis := range thrustAxes[1:] {
		if directions[axis] < minCount {
			minCount = directions[axis]
		}
		if directions[axis] > maxCount {
			maxCount = directions[axis]
		}
	}
	if minCount > 0 && float64(maxCount)/float64(minCount) >= 2.5 {
		return "Thruster distribution appears heavily unbalanced across directions."
	}
	return ""
}
