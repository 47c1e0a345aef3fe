// Package profile loads, validates, and manages user-supplied mapping
// profile documents. A profile bundles one or more mapping categories,
// which are registered under a profile:<profile>:<category> namespace so
// they never collide with the built-in set.
package profile

import (
	"fmt"
	"sort"
	"strings"

	"sebx/internal/domain"
	"sebx/internal/mapping"
)

// Extension is the canonical profile file extension. YAML and JSON
// documents both load; YAML is a superset of JSON.
const Extension = ".sebx-profile"

// document is the serialized profile shape.
type document struct {
	Name        string             `yaml:"name" json:"name"`
	Author      string             `yaml:"author" json:"author"`
	Version     string             `yaml:"version" json:"version"`
	Description string             `yaml:"description" json:"description"`
	GameVersion string             `yaml:"game_version" json:"game_version"`
	Categories  []categoryDocument `yaml:"categories" json:"categories"`
}

type categoryDocument struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	GridSizes   []string   `yaml:"grid_sizes,omitempty" json:"grid_sizes,omitempty"`
	Pairs       [][]string `yaml:"pairs" json:"pairs"`
}

// Profile is a parsed, validated mapping profile.
type Profile struct {
	Name        string
	Author      string
	Version     string
	Description string
	GameVersion string
	Categories  []mapping.Category
	SourcePath  string
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CategoryName builds the namespaced registry name for a profile
// category.
func CategoryName(profileName, categoryName string) string {
	return fmt.Sprintf("profile:%s:%s", normalizeName(profileName), normalizeName(categoryName))
}

// validateDocument enforces the required profile fields and the same
// pair rules as the mapping registry.
func validateDocument(doc *document) error {
	for key, value := range map[string]string{
		"name":         doc.Name,
		"author":       doc.Author,
		"version":      doc.Version,
		"description":  doc.Description,
		"game_version": doc.GameVersion,
	} {
		if strings.TrimSpace(value) == "" {
			return domain.Validationf("profile is missing required key %q", key)
		}
	}
	if len(doc.Categories) == 0 {
		return domain.Validationf("profile must include at least one category")
	}

	seen := make(map[string]bool)
	for _, raw := range doc.Categories {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			return domain.Validationf("category name cannot be empty")
		}
		lowered := strings.ToLower(name)
		if seen[lowered] {
			return domain.Validationf("duplicate category name in profile: %s", name)
		}
		seen[lowered] = true

		if _, err := pairsFromLists(name, raw.Pairs); err != nil {
			return err
		}
	}
	return nil
}

// pairsFromLists converts the [[source, target], ...] wire form into a
// pair table, rejecting malformed entries and in-category conflicts.
func pairsFromLists(categoryName string, lists [][]string) (map[string]string, error) {
	if len(lists) == 0 {
		return nil, domain.Validationf("category %q has no mapping pairs", categoryName)
	}
	pairs := make(map[string]string, len(lists))
	for _, item := range lists {
		if len(item) != 2 {
			return nil, domain.Validationf("category %q pairs must be [source, target] lists", categoryName)
		}
		source := strings.TrimSpace(item[0])
		target := strings.TrimSpace(item[1])
		if source == "" || target == "" {
			return nil, domain.Validationf("category %q contains empty source/target values", categoryName)
		}
		if existing, ok := pairs[source]; ok && existing != target {
			return nil, domain.Validationf("category %q has conflicting mapping for source %q", categoryName, source)
		}
		pairs[source] = target
	}
	if err := mapping.ValidatePairs(pairs); err != nil {
		return nil, domain.Validationf("category %q mapping validation failed: %v", categoryName, err)
	}
	return pairs, nil
}

// fromDocument converts a validated document into a Profile with
// namespaced, disabled-by-default categories.
func fromDocument(doc *document, sourcePath string) *Profile {
	p := &Profile{
		Name:        strings.TrimSpace(doc.Name),
		Author:      strings.TrimSpace(doc.Author),
		Version:     strings.TrimSpace(doc.Version),
		Description: strings.TrimSpace(doc.Description),
		GameVersion: strings.TrimSpace(doc.GameVersion),
		SourcePath:  sourcePath,
	}
	for _, raw := range doc.Categories {
		description := strings.TrimSpace(raw.Description)
		if description == "" {
			description = fmt.Sprintf("%s category %q", p.Name, raw.Name)
		}
		gridSizes := raw.GridSizes
		if len(gridSizes) == 0 {
			gridSizes = []string{"Large", "Small"}
		}
		pairs, _ := pairsFromLists(raw.Name, raw.Pairs) // validated already
		p.Categories = append(p.Categories, mapping.Category{
			Name:        CategoryName(p.Name, raw.Name),
			Description: description,
			Pairs:       pairs,
			GridSizes:   gridSizes,
			Origin:      "profile:" + p.Name,
			Tags:        []string{"profile"},
		})
	}
	return p
}

// toDocument converts a Profile back to its serialized shape with
// deterministic pair ordering.
func toDocument(p *Profile) *document {
	doc := &document{
		Name:        p.Name,
		Author:      p.Author,
		Version:     p.Version,
		Description: p.Description,
		GameVersion: p.GameVersion,
	}
	for _, c := range p.Categories {
		lists := make([][]string, 0, len(c.Pairs))
		for _, source := range sortedKeys(c.Pairs) {
			lists = append(lists, []string{source, c.Pairs[source]})
		}
		doc.Categories = append(doc.Categories, categoryDocument{
			Name:        shortCategoryName(c.Name),
			Description: c.Description,
			GridSizes:   c.GridSizes,
			Pairs:       lists,
		})
	}
	return doc
}

// shortCategoryName strips the profile namespace off a category name.
func shortCategoryName(name string) string {
	segments := strings.Split(name, ":")
	return segments[len(segments)-1]
}

func sortedKeys(pairs map[string]string) []string {
	keys := make([]string, 0, len(pairs))
	for key := range pairs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
