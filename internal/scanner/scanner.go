// Package scanner walks a blueprint library directory and extracts
// per-blueprint metadata, optionally caching results in a SQLite index
// keyed by file fingerprint.
package scanner

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sebx/internal/blueprint"
	"sebx/internal/domain"
	"sebx/internal/mapping"
	"sebx/internal/repository/sqlite"
)

// Scanner scans blueprint library directories. The index is optional;
// without one every blueprint is parsed on every scan.
type Scanner struct {
	light map[string]bool
	heavy map[string]bool
	index *sqlite.Repository
}

// NewScanner creates a scanner. index may be nil.
func NewScanner(index *sqlite.Repository) *Scanner {
	light, heavy := mapping.ArmorSubtypes()
	return &Scanner{light: light, heavy: heavy, index: index}
}

// DefaultBlueprintDir returns the game's local blueprint library
// location under APPDATA.
func DefaultBlueprintDir() (string, error) {
	appdata := os.Getenv("APPDATA")
	if appdata == "" {
		return "", &domain.NotFoundError{Kind: "directory", Name: "APPDATA"}
	}
	return filepath.Join(appdata, "SpaceEngineers", "Blueprints", "local"), nil
}

// Scan walks the immediate subdirectories of dir, parsing each folder
// that holds a blueprint file. Folders that fail to parse are logged
// and skipped. Results are sorted by name.
func (s *Scanner) Scan(ctx context.Context, dir string) ([]domain.BlueprintInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.NotFoundError{Kind: "directory", Name: dir}
		}
		return nil, err
	}

	var infos []domain.BlueprintInfo
	seen := make(map[string]bool)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		folder := filepath.Join(dir, entry.Name())
		bpFile := filepath.Join(folder, blueprint.FileName)
		stat, err := os.Stat(bpFile)
		if err != nil {
			continue
		}

		info, err := s.lookup(ctx, folder, bpFile, stat.ModTime().Unix(), stat.Size())
		if err != nil {
			log.Printf("skipping blueprint %s: %v", entry.Name(), err)
			continue
		}
		infos = append(infos, info)
		seen[folder] = true
	}

	if s.index != nil {
		if _, err := s.index.Prune(ctx, seen); err != nil {
			log.Printf("pruning scan index: %v", err)
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// lookup serves a folder from the index when its fingerprint matches,
// otherwise parses the blueprint and refreshes the cached entry.
func (s *Scanner) lookup(ctx context.Context, folder, bpFile string, modTime, size int64) (domain.BlueprintInfo, error) {
	if s.index != nil {
		cached, err := s.index.Get(ctx, folder)
		if err != nil {
			log.Printf("reading scan index for %s: %v", folder, err)
		} else if cached != nil && cached.ModTime == modTime && cached.Size == size {
			return cached.Info, nil
		}
	}

	info, err := s.parseFolder(folder, bpFile)
	if err != nil {
		return domain.BlueprintInfo{}, err
	}

	if s.index != nil {
		entry := &sqlite.IndexEntry{Info: info, ModTime: modTime, Size: size}
		if err := s.index.Upsert(ctx, entry); err != nil {
			log.Printf("updating scan index for %s: %v", folder, err)
		}
	}
	return info, nil
}

func (s *Scanner) parseFolder(folder, bpFile string) (domain.BlueprintInfo, error) {
	doc, err := blueprint.Load(bpFile)
	if err != nil {
		return domain.BlueprintInfo{}, err
	}

	name := filepath.Base(folder)
	info := domain.BlueprintInfo{
		Name:        name,
		Path:        folder,
		DisplayName: name,
		GridSize:    doc.GridSize(),
	}
	for _, block := range doc.Blocks() {
		info.BlockCount++
		subtype := block.Subtype()
		switch {
		case s.light[subtype]:
			info.LightArmorCount++
		case s.heavy[subtype]:
			info.HeavyArmorCount++
		}
	}
	return info, nil
}

// Filter returns the blueprints whose name or display name contains
// search (case-insensitive) and that carry at least minLightArmor light
// armor blocks. An empty search matches everything.
func Filter(infos []domain.BlueprintInfo, search string, minLightArmor int) []domain.BlueprintInfo {
	lowered := strings.ToLower(search)
	var out []domain.BlueprintInfo
	for _, info := range infos {
		if info.LightArmorCount < minLightArmor {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(info.Name), lowered) &&
			!strings.Contains(strings.ToLower(info.DisplayName), lowered) {
			continue
		}
		out = append(out, info)
	}
	return out
}
