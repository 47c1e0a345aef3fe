// Package convert applies a resolved subtype mapping to blueprint
// documents, with dry-run and commit semantics, backups, and atomic
// writes.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sebx/internal/blueprint"
)

// Change is one planned subtype substitution.
type Change struct {
	From string
	To   string
}

// Engine applies one resolved mapping to blueprint documents.
type Engine struct {
	mapping map[string]string

	scanned  int
	replaced int
	changes  []Change
}

// NewEngine creates an engine for a resolved mapping.
func NewEngine(mapping map[string]string) *Engine {
	return &Engine{mapping: mapping}
}

// Replace scans every block in the document and substitutes subtypes
// through the engine's mapping. With dryRun set the document is left
// untouched; the recorded change list is identical either way. Returns
// the number of blocks scanned and the number changed.
func (e *Engine) Replace(doc *blueprint.Document, dryRun bool) (scanned, replaced int) {
	e.scanned = 0
	e.replaced = 0
	e.changes = e.changes[:0]

	for _, block := range doc.Blocks() {
		e.scanned++
		subtype := block.Subtype()
		if subtype == "" {
			continue
		}
		target, ok := e.mapping[subtype]
		if !ok {
			continue
		}
		e.changes = append(e.changes, Change{From: subtype, To: target})
		if !dryRun {
			block.SetSubtype(target)
		}
		e.replaced++
	}
	return e.scanned, e.replaced
}

// Changes returns the substitutions recorded by the last Replace call.
func (e *Engine) Changes() []Change {
	return e.changes
}

// DryRunReport renders the last run's planned changes as a deduplicated,
// sorted, count-annotated list.
func (e *Engine) DryRunReport() string {
	if len(e.changes) == 0 {
		return "No changes planned."
	}

	counts := make(map[Change]int)
	for _, c := range e.changes {
		counts[c]++
	}
	keys := make([]Change, 0, len(counts))
	for c := range counts {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].From != keys[j].From {
			return keys[i].From < keys[j].From
		}
		return keys[i].To < keys[j].To
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Planned changes (%d block(s)):\n", e.replaced)
	for _, c := range keys {
		fmt.Fprintf(&b, "  %s -> %s (x%d)\n", c.From, c.To, counts[c])
	}
	return b.String()
}

// ProcessOptions controls how Process commits a conversion.
type ProcessOptions struct {
	// OutputPath redirects the result; empty means modify in place.
	OutputPath string
	// CreateBackup snapshots the original before an in-place commit.
	CreateBackup bool
	// DryRun records planned changes without touching any file.
	DryRun bool
}

// Process locates the blueprint document under path, applies the mapping,
// and writes the result back. The commit is all-or-nothing: the backup is
// written before any mutation, and the document is replaced atomically.
// After a successful write a stale sibling binary cache is removed.
func (e *Engine) Process(path string, opts ProcessOptions) (scanned, replaced int, err error) {
	file, err := blueprint.FindBlueprintFile(path)
	if err != nil {
		return 0, 0, err
	}

	doc, err := blueprint.Load(file)
	if err != nil {
		return 0, 0, err
	}

	if !opts.DryRun && opts.CreateBackup && opts.OutputPath == "" {
		if _, err := backupFile(file); err != nil {
			return 0, 0, fmt.Errorf("create backup: %w", err)
		}
	}

	scanned, replaced = e.Replace(doc, opts.DryRun)
	if opts.DryRun {
		return scanned, replaced, nil
	}

	out := file
	if opts.OutputPath != "" {
		out = opts.OutputPath
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return scanned, replaced, err
		}
	}
	if err := doc.Save(out); err != nil {
		return scanned, replaced, fmt.Errorf("write blueprint: %w", err)
	}

	removeBinaryCache(out)
	return scanned, replaced, nil
}

// backupFile snapshots the original bytes next to the document. The
// suffix is replaced with .backup; collisions get an incrementing
// counter until a free name is found.
func backupFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	backup := base + ".backup"
	for counter := 1; ; counter++ {
		if _, err := os.Stat(backup); os.IsNotExist(err) {
			break
		}
		backup = fmt.Sprintf("%s.backup%d", base, counter)
	}

	if err := os.WriteFile(backup, data, 0644); err != nil {
		return "", err
	}
	return backup, nil
}

// binaryCacheSuffix is the derived compiled-cache sibling the game writes
// next to a blueprint; it goes stale the moment the XML changes.
const binaryCacheSuffix = ".sbcB5"

func removeBinaryCache(path string) {
	cache := strings.TrimSuffix(path, filepath.Ext(path)) + binaryCacheSuffix
	if cache == path {
		return
	}
	os.Remove(cache)
}
