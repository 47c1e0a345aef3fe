package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sebx/internal/blueprint"
	"sebx/internal/domain"
)

// Destination prefixes for converted blueprint copies.
const (
	PrefixHeavyArmor = "HEAVYARMOR_"
	PrefixLightArmor = "LIGHTARMOR_"
	PrefixConverted  = "CONVERTED_"
	PrefixReversed   = "REVERSED_"
)

// PrefixFor picks the copy prefix for a category selection. A pure armor
// conversion keeps the legacy HEAVYARMOR_/LIGHTARMOR_ names; anything
// else is CONVERTED_ or REVERSED_.
func PrefixFor(categories []string, reverse bool) string {
	onlyArmor := len(categories) == 1 && strings.EqualFold(categories[0], "armor")
	switch {
	case onlyArmor && !reverse:
		return PrefixHeavyArmor
	case onlyArmor && reverse:
		return PrefixLightArmor
	case reverse:
		return PrefixReversed
	default:
		return PrefixConverted
	}
}

// Copier creates converted copies of blueprint folders, leaving the
// source untouched.
type Copier struct {
	engine  *Engine
	prefix  string
	history []string
}

// NewCopier creates a copier that converts with engine and names copies
// with prefix.
func NewCopier(engine *Engine, prefix string) *Copier {
	return &Copier{engine: engine, prefix: prefix}
}

// DestinationPath returns the sibling folder a copy of source would use.
func (c *Copier) DestinationPath(source string) string {
	source = filepath.Clean(source)
	return filepath.Join(filepath.Dir(source), c.prefix+filepath.Base(source))
}

// DestinationExists reports whether the copy destination is taken.
func (c *Copier) DestinationExists(source string) bool {
	_, err := os.Stat(c.DestinationPath(source))
	return err == nil
}

// Convert copies the source blueprint folder to its prefixed sibling and
// applies the mapping to the copy. An existing destination is replaced.
// Returns the destination plus the scanned/replaced counts.
func (c *Copier) Convert(source string) (string, int, int, error) {
	info, err := os.Stat(source)
	if err != nil {
		return "", 0, 0, &domain.NotFoundError{Kind: "blueprint", Name: source}
	}
	if !info.IsDir() {
		return "", 0, 0, domain.Validationf("source must be a blueprint folder: %s", source)
	}
	if _, err := os.Stat(filepath.Join(source, blueprint.FileName)); err != nil {
		return "", 0, 0, &domain.NotFoundError{Kind: "blueprint", Name: filepath.Join(source, blueprint.FileName)}
	}

	dest := c.DestinationPath(source)
	if err := os.RemoveAll(dest); err != nil {
		return "", 0, 0, fmt.Errorf("clear destination: %w", err)
	}
	if err := copyTree(source, dest); err != nil {
		return "", 0, 0, fmt.Errorf("copy blueprint folder: %w", err)
	}

	// The copied cache no longer matches the converted XML.
	os.Remove(filepath.Join(dest, "bp"+binaryCacheSuffix))

	scanned, replaced, err := c.engine.Process(filepath.Join(dest, blueprint.FileName), ProcessOptions{})
	if err != nil {
		return "", 0, 0, err
	}

	c.history = append(c.history, dest)
	return dest, scanned, replaced, nil
}

// Delete removes the converted copy for source, reporting whether one
// existed.
func (c *Copier) Delete(source string) (bool, error) {
	dest := c.DestinationPath(source)
	if _, err := os.Stat(dest); err != nil {
		return false, nil
	}
	if err := os.RemoveAll(dest); err != nil {
		return false, err
	}
	return true, nil
}

// UndoLast removes the most recently created copy that still exists.
func (c *Copier) UndoLast() (string, bool) {
	for len(c.history) > 0 {
		last := c.history[len(c.history)-1]
		c.history = c.history[:len(c.history)-1]
		if _, err := os.Stat(last); err == nil {
			if err := os.RemoveAll(last); err == nil {
				return last, true
			}
		}
	}
	return "", false
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
