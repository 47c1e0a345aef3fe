package mapping

import (
	"sort"
	"strings"

	"sebx/internal/domain"
)

// Registry owns registered categories keyed by normalized name, plus a
// per-category enabled flag. A registry is built explicitly from the
// categories given to it; there is no ambient global catalog.
type Registry struct {
	categories map[string]Category
	enabled    map[string]bool
}

// NewRegistry creates a registry and registers the given categories.
func NewRegistry(categories ...Category) (*Registry, error) {
	r := &Registry{
		categories: make(map[string]Category),
		enabled:    make(map[string]bool),
	}
	for _, c := range categories {
		if err := r.Register(c, false); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register validates and inserts a category. A category whose name is
// already taken is rejected unless overwrite is set.
func (r *Registry) Register(c Category, overwrite bool) error {
	if err := ValidateCategory(c); err != nil {
		return err
	}
	key := normalizeKey(c.Name)
	if _, exists := r.categories[key]; exists && !overwrite {
		return domain.Validationf("category already registered: %s", c.Name)
	}
	r.categories[key] = c
	r.enabled[key] = c.EnabledByDefault
	return nil
}

// Unregister removes a category and its enabled flag. Unknown names are
// ignored.
func (r *Registry) Unregister(name string) {
	key := normalizeKey(name)
	delete(r.categories, key)
	delete(r.enabled, key)
}

// Get returns a category by name. Bare names resolve against namespaced
// categories via ResolveName.
func (r *Registry) Get(name string) (Category, error) {
	key, err := r.ResolveName(name)
	if err != nil {
		return Category{}, err
	}
	return r.categories[key], nil
}

// Exists reports whether a category with the given name is registered.
func (r *Registry) Exists(name string) bool {
	_, ok := r.categories[normalizeKey(name)]
	return ok
}

// List returns all registered categories ordered by normalized name.
func (r *Registry) List() []Category {
	keys := r.sortedKeys()
	out := make([]Category, 0, len(keys))
	for _, key := range keys {
		out = append(out, r.categories[key])
	}
	return out
}

// SetEnabled toggles a category's activation flag.
func (r *Registry) SetEnabled(name string, enabled bool) error {
	key, err := r.ResolveName(name)
	if err != nil {
		return err
	}
	r.enabled[key] = enabled
	return nil
}

// IsEnabled reports whether a category is currently enabled. Unknown
// names report false.
func (r *Registry) IsEnabled(name string) bool {
	return r.enabled[normalizeKey(name)]
}

// EnabledNames returns the normalized names of all enabled categories,
// sorted.
func (r *Registry) EnabledNames() []string {
	var names []string
	for _, key := range r.sortedKeys() {
		if r.enabled[key] {
			names = append(names, key)
		}
	}
	return names
}

// ResolveName maps a user-supplied category name to a registry key.
// Exact (normalized) matches win; otherwise a bare name matches any
// namespaced category whose final segment equals it. More than one such
// match is ambiguous.
func (r *Registry) ResolveName(name string) (string, error) {
	key := normalizeKey(name)
	if _, ok := r.categories[key]; ok {
		return key, nil
	}
	var matches []string
	for registered := range r.categories {
		segments := strings.Split(registered, ":")
		if segments[len(segments)-1] == key {
			matches = append(matches, registered)
		}
	}
	switch len(matches) {
	case 0:
		return "", &domain.NotFoundError{Kind: "category", Name: name}
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", &domain.AmbiguousError{Name: name, Matches: matches}
	}
}

// BuildMapping merges the pair tables of the selected categories into one
// subtype mapping. When names is nil the currently enabled categories are
// used. With reverse set each category contributes its inverse pairs.
//
// Two categories mapping the same source to different targets, or
// producing the same target from different sources, fail with a
// ConflictError naming both. The merged result is re-validated against
// the identity and two-cycle rules, so any accepted mapping is a partial
// injective function with no self-mapping and no swap pair.
func (r *Registry) BuildMapping(reverse bool, names []string) (map[string]string, error) {
	var selected []Category
	if names == nil {
		for _, key := range r.EnabledNames() {
			selected = append(selected, r.categories[key])
		}
	} else {
		for _, name := range names {
			c, err := r.Get(name)
			if err != nil {
				return nil, err
			}
			selected = append(selected, c)
		}
	}

	merged := make(map[string]string)
	sourceOwner := make(map[string]string) // source -> category that set it
	targetOwner := make(map[string]string) // target -> category that produced it
	targetSource := make(map[string]string)

	for _, c := range selected {
		pairs := c.Pairs
		if reverse {
			pairs = c.ReversePairs()
		}
		for _, source := range sortedPairKeys(pairs) {
			target := pairs[source]
			if existing, ok := merged[source]; ok && existing != target {
				return nil, &domain.ConflictError{
					Kind:       "source",
					Identifier: source,
					CategoryA:  sourceOwner[source],
					CategoryB:  c.Name,
				}
			}
			if prior, ok := targetSource[target]; ok && prior != source {
				return nil, &domain.ConflictError{
					Kind:       "target",
					Identifier: target,
					CategoryA:  targetOwner[target],
					CategoryB:  c.Name,
				}
			}
			merged[source] = target
			sourceOwner[source] = c.Name
			targetOwner[target] = c.Name
			targetSource[target] = source
		}
	}

	if len(merged) > 0 {
		if err := ValidatePairs(merged); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

func (r *Registry) sortedKeys() []string {
	keys := make([]string, 0, len(r.categories))
	for key := range r.categories {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedPairKeys(pairs map[string]string) []string {
	keys := make([]string, 0, len(pairs))
	for key := range pairs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
