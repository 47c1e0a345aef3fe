package blueprint

import (
	"encoding/xml"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"sebx/internal/domain"
)

// FileName is the blueprint document name inside a blueprint folder.
const FileName = "bp.sbc"

// GridSizeUnknown is reported when the document carries no GridSizeEnum.
const GridSizeUnknown = "Unknown"

const (
	blockContainerName = "CubeBlocks"
	blockElementName   = "MyObjectBuilder_CubeBlock"
	gridElementName    = "CubeGrid"
)

// Document is one parsed blueprint.
type Document struct {
	Root *Element
}

// Parse reads a blueprint document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := parseTree(r)
	if err != nil {
		return nil, err
	}
	return &Document{Root: root}, nil
}

// Load reads and parses the blueprint file at path. A missing file is a
// NotFoundError; malformed XML is a ParseError.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.NotFoundError{Kind: "blueprint", Name: path}
		}
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, &domain.ParseError{Path: path, Err: err}
	}
	return doc, nil
}

// Bytes renders the document as XML.
func (d *Document) Bytes() []byte {
	return render(d.Root)
}

// Save writes the document atomically: rendered to a temporary file in
// the target directory, then renamed over path.
func (d *Document) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(d.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// Blocks returns every cube-block record in the document.
func (d *Document) Blocks() []Block {
	var blocks []Block
	d.Root.Walk(func(e *Element) bool {
		if e.Name == blockContainerName {
			for _, c := range e.Children {
				if c.Name == blockElementName {
					blocks = append(blocks, Block{el: c})
				}
			}
		}
		return true
	})
	return blocks
}

// GridSize returns the grid size of the first cube grid, or
// GridSizeUnknown.
func (d *Document) GridSize() string {
	size := GridSizeUnknown
	d.Root.Walk(func(e *Element) bool {
		if e.Name == gridElementName {
			if s := e.ChildText("GridSizeEnum"); s != "" {
				size = s
				return false
			}
		}
		return true
	})
	return size
}

// BlockContainer returns the first CubeBlocks element, or nil for a
// document with no grids.
func (d *Document) BlockContainer() *Element {
	var container *Element
	d.Root.Walk(func(e *Element) bool {
		if e.Name == blockContainerName {
			container = e
			return false
		}
		return true
	})
	return container
}

// AppendBlock adds a minimal cube-block record of the given xsi:type and
// subtype to the first CubeBlocks container. It reports false when the
// document has no grid to attach to.
func (d *Document) AppendBlock(typeName, subtype string) bool {
	container := d.BlockContainer()
	if container == nil {
		return false
	}
	el := container.Append(blockElementName)
	el.Attrs = append(el.Attrs, xml.Attr{
		Name:  xml.Name{Space: xsiNamespace, Local: "type"},
		Value: typeName,
	})
	el.Append("SubtypeName").Text = subtype
	min := el.Append("Min")
	min.Attrs = append(min.Attrs,
		xml.Attr{Name: xml.Name{Local: "x"}, Value: "0"},
		xml.Attr{Name: xml.Name{Local: "y"}, Value: "0"},
		xml.Attr{Name: xml.Name{Local: "z"}, Value: "0"},
	)
	orientation := el.Append("BlockOrientation")
	orientation.Attrs = append(orientation.Attrs,
		xml.Attr{Name: xml.Name{Local: "Forward"}, Value: "Forward"},
		xml.Attr{Name: xml.Name{Local: "Up"}, Value: "Up"},
	)
	return true
}

// Block is one placed cube-block record.
type Block struct {
	el *Element
}

// Element exposes the underlying tree node.
func (b Block) Element() *Element {
	return b.el
}

// Subtype returns the block's subtype identifier. The format carries it
// as SubtypeName, some older files as SubtypeId; SubtypeName wins when
// both exist.
func (b Block) Subtype() string {
	if s := b.el.ChildText("SubtypeName"); s != "" {
		return s
	}
	return b.el.ChildText("SubtypeId")
}

// SetSubtype writes the identifier back into whichever subtype fields
// the record carries.
func (b Block) SetSubtype(subtype string) {
	for _, name := range []string{"SubtypeName", "SubtypeId"} {
		if c := b.el.Child(name); c != nil {
			c.Text = subtype
		}
	}
}

// TypeName returns the record's xsi:type attribute value.
func (b Block) TypeName() string {
	return b.el.Attr("type")
}

// OrientationForward returns the Forward attribute of the block's
// orientation element, or "".
func (b Block) OrientationForward() string {
	if o := b.el.Child("BlockOrientation"); o != nil {
		return o.Attr("Forward")
	}
	return ""
}

// FindBlueprintFile resolves a blueprint file or folder to its bp.sbc
// path. Directories are searched recursively; the shallowest match wins.
func FindBlueprintFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", &domain.NotFoundError{Kind: "blueprint", Name: path}
	}
	if !info.IsDir() {
		return path, nil
	}

	direct := filepath.Join(path, FileName)
	if _, err := os.Stat(direct); err == nil {
		return direct, nil
	}

	var found string
	filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && d.Name() == FileName {
			found = p
			return filepath.SkipAll
		}
		return nil
	})
	if found == "" {
		return "", &domain.NotFoundError{Kind: "blueprint", Name: filepath.Join(path, FileName)}
	}
	return found, nil
}
