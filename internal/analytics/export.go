package analytics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"sebx/internal/domain"
)

// ExportComparisonCSV writes the comparison as a CSV report with a
// summary table followed by per-component, per-ingot, and per-ore
// sections, each over the union of before/after keys.
func ExportComparisonCSV(cmp *domain.ConversionComparison, destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return err
	}
	f, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"Metric", "Before", "After", "Delta"})
	w.Write([]string{
		"PCU",
		strconv.Itoa(cmp.BeforePCU),
		strconv.Itoa(cmp.AfterPCU),
		strconv.Itoa(cmp.PCUDelta),
	})
	w.Write([]string{
		"Mass",
		formatFloat(cmp.BeforeMass),
		formatFloat(cmp.AfterMass),
		formatFloat(cmp.MassDelta),
	})

	w.Write([]string{""})
	w.Write([]string{"Component", "Before", "After", "Delta"})
	for _, key := range unionIntKeys(cmp.BeforeComponents, cmp.AfterComponents) {
		w.Write([]string{
			key,
			strconv.Itoa(cmp.BeforeComponents[key]),
			strconv.Itoa(cmp.AfterComponents[key]),
			strconv.Itoa(cmp.ComponentDelta[key]),
		})
	}

	w.Write([]string{""})
	w.Write([]string{"Ingot", "Before", "After", "Delta"})
	for _, key := range unionFloatKeys(cmp.BeforeIngots, cmp.AfterIngots) {
		w.Write([]string{
			key,
			formatFloat3(cmp.BeforeIngots[key]),
			formatFloat3(cmp.AfterIngots[key]),
			formatFloat3(cmp.IngotDelta[key]),
		})
	}

	w.Write([]string{""})
	w.Write([]string{"Ore", "Before", "After", "Delta"})
	for _, key := range unionFloatKeys(cmp.BeforeOres, cmp.AfterOres) {
		w.Write([]string{
			key,
			formatFloat3(cmp.BeforeOres[key]),
			formatFloat3(cmp.AfterOres[key]),
			formatFloat3(cmp.OreDelta[key]),
		})
	}

	w.Flush()
	return w.Error()
}

// ExportComparisonText writes the comparison as a plain-text report.
func ExportComparisonText(cmp *domain.ConversionComparison, destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return err
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("Mode: %s", cmp.Mode))
	lines = append(lines, fmt.Sprintf("PCU: %d -> %d (delta %+d)", cmp.BeforePCU, cmp.AfterPCU, cmp.PCUDelta))
	lines = append(lines, fmt.Sprintf("Mass: %.2f -> %.2f (delta %+.2f)", cmp.BeforeMass, cmp.AfterMass, cmp.MassDelta))
	lines = append(lines, "")

	lines = append(lines, "Block changes:")
	changes := make([]string, 0, len(cmp.BlockChanges))
	for change := range cmp.BlockChanges {
		changes = append(changes, change)
	}
	sort.Strings(changes)
	for _, change := range changes {
		lines = append(lines, fmt.Sprintf("  %s (x%d)", change, cmp.BlockChanges[change]))
	}
	lines = append(lines, "")

	lines = append(lines, "Component deltas:")
	for _, key := range sortedIntKeys(cmp.ComponentDelta) {
		lines = append(lines, fmt.Sprintf("  %s: %+d", key, cmp.ComponentDelta[key]))
	}
	lines = append(lines, "")

	lines = append(lines, "Ingot deltas:")
	for _, key := range sortedFloatKeys(cmp.IngotDelta) {
		lines = append(lines, fmt.Sprintf("  %s: %+.3f", key, cmp.IngotDelta[key]))
	}
	lines = append(lines, "")

	lines = append(lines, "Ore deltas:")
	for _, key := range sortedFloatKeys(cmp.OreDelta) {
		lines = append(lines, fmt.Sprintf("  %s: %+.3f", key, cmp.OreDelta[key]))
	}

	return os.WriteFile(destination, []byte(strings.Join(lines, "\n")), 0o644)
}

func unionIntKeys(a, b map[string]int) []string {
	seen := make(map[string]bool)
	for key := range a {
		seen[key] = true
	}
	for key := range b {
		seen[key] = true
	}
	return sortedSet(seen)
}

func unionFloatKeys(a, b map[string]float64) []string {
	seen := make(map[string]bool)
	for key := range a {
		seen[key] = true
	}
	for key := range b {
		seen[key] = true
	}
	return sortedSet(seen)
}

func sortedIntKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedFloatKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatFloat3(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
