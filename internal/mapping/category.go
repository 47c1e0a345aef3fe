// Package mapping holds the category catalog and the registry that
// resolves enabled categories into one conflict-free subtype mapping.
package mapping

import (
	"strings"

	"sebx/internal/domain"
)

// OriginBuiltin marks categories compiled into the tool.
const OriginBuiltin = "built-in"

// Category is an immutable named set of source->target subtype pairs.
type Category struct {
	Name             string
	Description      string
	Pairs            map[string]string
	GridSizes        []string
	Origin           string
	EnabledByDefault bool
	Tags             []string
}

// ReversePairs returns the inverse pair table (target -> source).
func (c Category) ReversePairs() map[string]string {
	reversed := make(map[string]string, len(c.Pairs))
	for source, target := range c.Pairs {
		reversed[target] = source
	}
	return reversed
}

// ValidateCategory checks a category definition: non-empty name,
// description, and pairs, plus the pair rules from ValidatePairs.
func ValidateCategory(c Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return domain.Validationf("category name cannot be empty")
	}
	if strings.TrimSpace(c.Description) == "" {
		return domain.Validationf("category %q is missing a description", c.Name)
	}
	if len(c.Pairs) == 0 {
		return domain.Validationf("category %q has no mapping pairs", c.Name)
	}
	return ValidatePairs(c.Pairs)
}

// ValidatePairs checks a pair table: no empty values, no identity
// mappings, no duplicate targets, and no two-cycles where a target maps
// back to its own source.
func ValidatePairs(pairs map[string]string) error {
	targets := make(map[string]bool, len(pairs))
	for source, target := range pairs {
		if source == "" || target == "" {
			return domain.Validationf("mappings cannot contain empty source/target values")
		}
		if source == target {
			return domain.Validationf("identity mapping is not allowed: %s -> %s", source, target)
		}
		if targets[target] {
			return domain.Validationf("duplicate target in mapping: %s", target)
		}
		targets[target] = true
	}
	for source, target := range pairs {
		if back, ok := pairs[target]; ok && back == source {
			return domain.Validationf("circular swap detected: %s <-> %s", source, target)
		}
	}
	return nil
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
