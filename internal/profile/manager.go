package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sebx/internal/domain"
	"sebx/internal/mapping"

	"gopkg.in/yaml.v3"
)

// Manager discovers profiles in a directory and feeds their categories
// into a mapping registry.
type Manager struct {
	dir      string
	profiles map[string]*Profile
}

// NewManager creates a manager over dir, creating the directory if
// needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	return &Manager{
		dir:      dir,
		profiles: make(map[string]*Profile),
	}, nil
}

// Parse decodes and validates a profile document.
func Parse(data []byte, sourcePath string) (*Profile, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &domain.ParseError{Path: sourcePath, Err: err}
	}
	if err := validateDocument(&doc); err != nil {
		return nil, err
	}
	return fromDocument(&doc, sourcePath), nil
}

// LoadFile loads one profile file and tracks it by normalized name.
func (m *Manager) LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.NotFoundError{Kind: "profile", Name: path}
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	m.profiles[normalizeName(p.Name)] = p
	return p, nil
}

// LoadAll reloads every profile in the directory. Files with the
// canonical extension must be valid; stray .yaml/.json files that fail
// validation are skipped, since unrelated documents may share the
// directory.
func (m *Manager) LoadAll() ([]*Profile, error) {
	clear(m.profiles)

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("read profile dir: %w", err)
	}

	var loaded []*Profile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(m.dir, name)
		switch {
		case strings.HasSuffix(name, Extension):
			p, err := m.LoadFile(path)
			if err != nil {
				return nil, err
			}
			loaded = append(loaded, p)
		case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".json"):
			p, err := m.LoadFile(path)
			if err != nil {
				continue
			}
			loaded = append(loaded, p)
		}
	}
	return loaded, nil
}

// Get returns a loaded profile by name.
func (m *Manager) Get(name string) (*Profile, error) {
	p, ok := m.profiles[normalizeName(name)]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "profile", Name: name}
	}
	return p, nil
}

// List returns the loaded profiles ordered by normalized name.
func (m *Manager) List() []*Profile {
	names := make([]string, 0, len(m.profiles))
	for name := range m.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Profile, 0, len(names))
	for _, name := range names {
		out = append(out, m.profiles[name])
	}
	return out
}

// Save writes a profile document to path as YAML.
func (m *Manager) Save(p *Profile, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(toDocument(p))
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Upsert saves a profile into the managed directory and tracks it.
func (m *Manager) Upsert(p *Profile) (string, error) {
	fileName := strings.ReplaceAll(strings.TrimSpace(p.Name), " ", "_") + Extension
	path := filepath.Join(m.dir, fileName)
	if err := m.Save(p, path); err != nil {
		return "", err
	}
	m.profiles[normalizeName(p.Name)] = p
	return path, nil
}

// Export writes a loaded profile to destination. A directory or a
// destination without the canonical extension gets the profile's default
// file name appended.
func (m *Manager) Export(name, destination string) (string, error) {
	p, err := m.Get(name)
	if err != nil {
		return "", err
	}
	info, statErr := os.Stat(destination)
	isDir := statErr == nil && info.IsDir()
	if isDir || !strings.HasSuffix(strings.ToLower(destination), Extension) {
		fileName := strings.ReplaceAll(p.Name, " ", "_") + Extension
		destination = filepath.Join(destination, fileName)
	}
	if err := m.Save(p, destination); err != nil {
		return "", err
	}
	return destination, nil
}

// Import loads a profile from a file outside the managed directory and
// installs a copy inside it.
func (m *Manager) Import(source string) (*Profile, string, error) {
	p, err := m.LoadFile(source)
	if err != nil {
		return nil, "", err
	}
	path, err := m.Upsert(p)
	if err != nil {
		return nil, "", err
	}
	return p, path, nil
}

// Duplicate copies a loaded profile under a new name, re-namespacing its
// categories.
func (m *Manager) Duplicate(sourceName, newName string) (*Profile, error) {
	src, err := m.Get(sourceName)
	if err != nil {
		return nil, err
	}

	dup := &Profile{
		Name:        newName,
		Author:      src.Author,
		Version:     src.Version,
		Description: src.Description,
		GameVersion: src.GameVersion,
	}
	for _, c := range src.Categories {
		pairs := make(map[string]string, len(c.Pairs))
		for source, target := range c.Pairs {
			pairs[source] = target
		}
		dup.Categories = append(dup.Categories, mapping.Category{
			Name:        CategoryName(newName, shortCategoryName(c.Name)),
			Description: c.Description,
			Pairs:       pairs,
			GridSizes:   c.GridSizes,
			Origin:      "profile:" + newName,
			Tags:        c.Tags,
		})
	}
	if _, err := m.Upsert(dup); err != nil {
		return nil, err
	}
	return dup, nil
}

// RegisterCategories registers every loaded profile category into the
// registry, overwriting earlier registrations of the same name. Returns
// the number of categories registered.
func (m *Manager) RegisterCategories(registry *mapping.Registry) (int, error) {
	count := 0
	for _, p := range m.List() {
		for _, c := range p.Categories {
			if err := registry.Register(c, registry.Exists(c.Name)); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

// KnownSubtypes collects every source and target subtype across the
// registry's categories, sorted.
func KnownSubtypes(registry *mapping.Registry) []string {
	ids := make(map[string]bool)
	for _, c := range registry.List() {
		for source, target := range c.Pairs {
			ids[source] = true
			ids[target] = true
		}
	}
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
