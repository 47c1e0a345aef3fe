// Package analytics aggregates blueprint resource costs, audits
// structural health, and compares the cost impact of a subtype mapping.
package analytics

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"

	"sebx/internal/blueprint"
	"sebx/internal/cost"
	"sebx/internal/domain"
)

// Engine performs analytics passes against one cost database.
type Engine struct {
	db *cost.Database
}

// NewEngine creates an analytics engine over db.
func NewEngine(db *cost.Database) *Engine {
	return &Engine{db: db}
}

// Database exposes the engine's cost database.
func (e *Engine) Database() *cost.Database {
	return e.db
}

// Analyze walks every block in the document and returns a fresh
// aggregate: per-subtype and per-category counts, component and derived
// material totals, PCU, mass, and health issues.
func (e *Engine) Analyze(doc *blueprint.Document, name string) *domain.AnalyticsResult {
	gridSize := doc.GridSize()

	subtypeCounts := make(map[string]int)
	categoryCounts := make(map[string]int)
	componentTotals := make(map[string]int)
	unknown := make(map[string]bool)
	pcuTotal := 0
	massTotal := 0.0

	for _, block := range doc.Blocks() {
		subtype := block.Subtype()
		if subtype == "" {
			continue
		}
		subtypeCounts[subtype]++

		rec, ok := e.db.Get(subtype)
		if !ok {
			unknown[subtype] = true
			categoryCounts[domain.CategoryUnknown]++
			continue
		}

		categoryCounts[rec.Category]++
		pcuTotal += rec.PCU
		massTotal += rec.Mass
		for component, qty := range rec.Components {
			componentTotals[component] += qty
		}
	}

	blockCount := 0
	for _, count := range subtypeCounts {
		blockCount += count
	}

	ingotTotals := e.db.ComponentsToIngots(componentTotals)
	oreTotals := e.db.IngotsToOres(ingotTotals)
	issues := e.runHealthAudit(doc, subtypeCounts, len(unknown))

	return &domain.AnalyticsResult{
		BlueprintName:   name,
		BlockCount:      blockCount,
		BlockCounts:     subtypeCounts,
		CategoryCounts:  categoryCounts,
		UnknownSubtypes: sortedSet(unknown),
		ComponentTotals: componentTotals,
		IngotTotals:     ingotTotals,
		OreTotals:       oreTotals,
		PCUTotal:        pcuTotal,
		MassTotal:       round2(massTotal),
		GridSize:        gridSize,
		HealthIssues:    issues,
	}
}

// AnalyzeFile loads and analyzes the blueprint at path, naming the
// result after its folder.
func (e *Engine) AnalyzeFile(path string) (*domain.AnalyticsResult, error) {
	file, err := blueprint.FindBlueprintFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := blueprint.Load(file)
	if err != nil {
		return nil, err
	}
	return e.Analyze(doc, filepath.Base(filepath.Dir(file))), nil
}

// Compare analyzes the document as-is, then recomputes the totals as if
// every counted subtype had been substituted through mapping (identity
// for absent keys). Deltas are after minus before over the key union.
func (e *Engine) Compare(doc *blueprint.Document, name string, mapping map[string]string, mode string) *domain.ConversionComparison {
	before := e.Analyze(doc, name)

	afterComponents := make(map[string]int)
	afterPCU := 0
	afterMass := 0.0
	blockChanges := make(map[string]int)

	for subtype, count := range before.BlockCounts {
		target, ok := mapping[subtype]
		if !ok {
			target = subtype
		}
		if target != subtype {
			blockChanges[fmt.Sprintf("%s -> %s", subtype, target)] = count
		}

		rec, ok := e.db.Get(target)
		if !ok {
			continue
		}
		afterPCU += rec.PCU * count
		afterMass += rec.Mass * float64(count)
		for component, qty := range rec.Components {
			afterComponents[component] += qty * count
		}
	}

	afterIngots := e.db.ComponentsToIngots(afterComponents)
	afterOres := e.db.IngotsToOres(afterIngots)

	return &domain.ConversionComparison{
		Mode:         mode,
		BlockChanges: blockChanges,

		BeforeComponents: before.ComponentTotals,
		AfterComponents:  afterComponents,
		ComponentDelta:   intDelta(before.ComponentTotals, afterComponents),

		BeforeIngots: before.IngotTotals,
		AfterIngots:  afterIngots,
		IngotDelta:   floatDelta(before.IngotTotals, afterIngots),

		BeforeOres: before.OreTotals,
		AfterOres:  afterOres,
		OreDelta:   floatDelta(before.OreTotals, afterOres),

		BeforePCU: before.PCUTotal,
		AfterPCU:  afterPCU,
		PCUDelta:  afterPCU - before.PCUTotal,

		BeforeMass: before.MassTotal,
		AfterMass:  round2(afterMass),
		MassDelta:  round2(afterMass - before.MassTotal),
	}
}

// CompareFile loads the blueprint at path and runs Compare.
func (e *Engine) CompareFile(path string, mapping map[string]string, mode string) (*domain.ConversionComparison, error) {
	file, err := blueprint.FindBlueprintFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := blueprint.Load(file)
	if err != nil {
		return nil, err
	}
	return e.Compare(doc, filepath.Base(filepath.Dir(file)), mapping, mode), nil
}

// intDelta computes after-before over the union of keys.
func intDelta(before, after map[string]int) map[string]int {
	delta := make(map[string]int)
	for key := range before {
		delta[key] = after[key] - before[key]
	}
	for key := range after {
		if _, ok := before[key]; !ok {
			delta[key] = after[key]
		}
	}
	return delta
}

func floatDelta(before, after map[string]float64) map[string]float64 {
	delta := make(map[string]float64)
	for key := range before {
		delta[key] = after[key] - before[key]
	}
	for key := range after {
		if _, ok := before[key]; !ok {
			delta[key] = after[key]
		}
	}
	return delta
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
