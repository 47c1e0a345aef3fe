// Package cost maps block subtypes to build costs and aggregates them
// through the component -> ingot -> ore conversion pipeline.
package cost

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"sebx/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed data/block_costs.yaml
var defaultData []byte

// databaseFile is the on-disk document shape. YAML is a superset of
// JSON, so .json databases load through the same decoder.
type databaseFile struct {
	Metadata         map[string]string             `yaml:"metadata"`
	ComponentToIngot map[string]map[string]float64 `yaml:"component_to_ingot"`
	OreYields        map[string]float64            `yaml:"ore_yields"`
	Blocks           map[string]blockEntry         `yaml:"blocks"`
}

type blockEntry struct {
	Category   string         `yaml:"category"`
	PCU        int            `yaml:"pcu"`
	Mass       float64        `yaml:"mass"`
	Components map[string]int `yaml:"components"`
}

// Database holds per-subtype cost records plus the material yield tables.
type Database struct {
	metadata         map[string]string
	componentToIngot map[string]map[string]float64
	oreYields        map[string]float64
	blocks           map[string]domain.CostRecord
}

// Parse decodes a cost database document.
func Parse(data []byte) (*Database, error) {
	var file databaseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse cost database: %w", err)
	}

	db := &Database{
		metadata:         file.Metadata,
		componentToIngot: file.ComponentToIngot,
		oreYields:        file.OreYields,
		blocks:           make(map[string]domain.CostRecord, len(file.Blocks)),
	}
	for subtype, entry := range file.Blocks {
		category := entry.Category
		if category == "" {
			category = domain.CategoryUtility
		}
		db.blocks[subtype] = domain.CostRecord{
			Category:   category,
			PCU:        entry.PCU,
			Mass:       entry.Mass,
			Components: entry.Components,
		}
	}
	return db, nil
}

// Load reads a cost database from path.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.NotFoundError{Kind: "cost database", Name: path}
		}
		return nil, fmt.Errorf("read cost database: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded cost database.
func Default() *Database {
	db, err := Parse(defaultData)
	if err != nil {
		// The embedded data set ships with the binary; failing to parse
		// it is a programming error.
		panic(err)
	}
	return db
}

// Get returns the cost record for a subtype. Unknown subtypes fall back
// to heuristic inference; inferred records are not stored back. The
// second return is false only when both paths come up empty.
func (d *Database) Get(subtype string) (domain.CostRecord, bool) {
	if rec, ok := d.blocks[subtype]; ok {
		return rec, true
	}
	return Infer(subtype)
}

// CategoryFor returns the category of a subtype, falling back to
// identifier-substring heuristics, then the generic utility bucket.
func (d *Database) CategoryFor(subtype string) string {
	if rec, ok := d.Get(subtype); ok {
		return rec.Category
	}
	return categoryHeuristic(subtype)
}

// KnownBlockIDs returns the subtypes loaded from the database, sorted.
func (d *Database) KnownBlockIDs() []string {
	ids := make([]string, 0, len(d.blocks))
	for subtype := range d.blocks {
		ids = append(ids, subtype)
	}
	sort.Strings(ids)
	return ids
}

// ComponentsToIngots converts component quantities into ingot totals via
// the per-component yield table. Components without a table entry
// contribute nothing.
func (d *Database) ComponentsToIngots(components map[string]int) map[string]float64 {
	ingots := make(map[string]float64)
	for component, qty := range components {
		conversion, ok := d.componentToIngot[component]
		if !ok {
			continue
		}
		for ingot, perComponent := range conversion {
			ingots[ingot] += float64(qty) * perComponent
		}
	}
	return ingots
}

// IngotsToOres estimates the ore volume required for the given ingot
// totals via the yield-per-ore table. Ingots without a yield entry
// contribute nothing.
func (d *Database) IngotsToOres(ingots map[string]float64) map[string]float64 {
	ores := make(map[string]float64)
	for ingot, qty := range ingots {
		yieldPerOre, ok := d.oreYields[ingot]
		if !ok || yieldPerOre == 0 {
			continue
		}
		ores[ingot+" Ore"] += qty / yieldPerOre
	}
	return ores
}
