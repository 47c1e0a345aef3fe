// Package blueprint parses the game's XML blueprint format into an
// explicit element tree with typed accessors for the records the engines
// care about: cube blocks, subtype identifiers, grid size, and block
// orientation.
package blueprint

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Namespaces declared by the blueprint root element.
const (
	xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"
	xsdNamespace = "http://www.w3.org/2001/XMLSchema"
)

// Element is one node of the parsed document tree. Text is the character
// data directly inside the element; elements with children carry no text.
type Element struct {
	Name     string
	Attrs    []xml.Attr
	Text     string
	Children []*Element
}

// Child returns the first child element with the given name, or nil.
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildText returns the trimmed text of the named child, or "".
func (e *Element) ChildText(name string) string {
	if c := e.Child(name); c != nil {
		return strings.TrimSpace(c.Text)
	}
	return ""
}

// Attr returns the value of the attribute with the given local name,
// ignoring its namespace, or "".
func (e *Element) Attr(local string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// Append adds a child element and returns it.
func (e *Element) Append(name string) *Element {
	c := &Element{Name: name}
	e.Children = append(e.Children, c)
	return c
}

// Walk visits e and every descendant in document order. Returning false
// from fn stops the walk.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// parseTree decodes an XML document into an element tree.
func parseTree(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)

	var root *Element
	var stack []*Element
	var text bytes.Buffer

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				el.Attrs = append(el.Attrs, t.Attr...)
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
			text.Reset()
		case xml.CharData:
			if len(stack) > 0 {
				text.Write(t)
			}
		case xml.EndElement:
			el := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(el.Children) == 0 {
				el.Text = text.String()
			}
			text.Reset()
		}
	}
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	return root, nil
}

// render writes the tree as indented XML with the standard declaration.
func render(root *Element) []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	renderElement(&buf, root, 0)
	buf.WriteByte('\n')
	return buf.Bytes()
}

func renderElement(buf *bytes.Buffer, e *Element, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(e.Name)
	for _, a := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(attrName(a.Name))
		buf.WriteString(`="`)
		escapeInto(buf, a.Value)
		buf.WriteByte('"')
	}

	switch {
	case len(e.Children) > 0:
		buf.WriteString(">\n")
		for _, c := range e.Children {
			renderElement(buf, c, depth+1)
			buf.WriteByte('\n')
		}
		buf.WriteString(indent)
		buf.WriteString("</")
		buf.WriteString(e.Name)
		buf.WriteByte('>')
	case e.Text != "":
		buf.WriteByte('>')
		escapeInto(buf, e.Text)
		buf.WriteString("</")
		buf.WriteString(e.Name)
		buf.WriteByte('>')
	default:
		buf.WriteString(" />")
	}
}

// attrName restores the conventional prefixes for the namespaces the
// blueprint format uses; encoding/xml reports them as resolved URIs.
func attrName(name xml.Name) string {
	switch name.Space {
	case "":
		return name.Local
	case "xmlns":
		return "xmlns:" + name.Local
	case xsiNamespace:
		return "xsi:" + name.Local
	case xsdNamespace:
		return "xsd:" + name.Local
	default:
		return name.Local
	}
}

func escapeInto(buf *bytes.Buffer, s string) {
	// EscapeText only errors on a failing writer; bytes.Buffer cannot fail.
	_ = xml.EscapeText(buf, []byte(s))
}
