// Package xmltree loads a save document into an in-memory element tree.
//
// The stream decoder in encoding/xml is awkward for save files because the
// parsers need random access: a Player element is revisited several times by
// different section parsers. Loading the whole document once and handing out
// *Node pointers keeps the section parsers pure and trivially parallel.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrMalformedXML marks documents the decoder could not parse.
	ErrMalformedXML = errors.New("malformed XML")
	// ErrMissingAttribute marks a required attribute that is absent.
	ErrMissingAttribute = errors.New("missing required attribute")
	// ErrMissingElement marks a required child element that is absent.
	ErrMissingElement = errors.New("missing required element")
	// ErrInvalidFormat marks values that fail numeric or boolean conversion.
	ErrInvalidFormat = errors.New("invalid data format")
)

// contextWindow is how many bytes of source around a syntax error are
// captured into the error message.
const contextWindow = 120

// Node is one element of the document tree.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Text     string
	Parent   *Node
	Children []*Node

	Line, Col int
}

// Document holds a parsed save file.
type Document struct {
	root *Node
}

// Parse decodes text into a Document. The document root must be the save
// format's Root element.
func Parse(text string) (*Document, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	lines := newLineIndex(text)

	var root *Node
	var cur *Node
	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, syntaxError(text, lines, dec.InputOffset(), err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			line, col := lines.locate(offset)
			n := &Node{
				Tag:    t.Name.Local,
				Parent: cur,
				Line:   line,
				Col:    col,
			}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[a.Name.Local] = a.Value
				}
			}
			if cur == nil {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", ErrMalformedXML)
				}
				root = n
			} else {
				cur.Children = append(cur.Children, n)
			}
			cur = n
		case xml.EndElement:
			if cur != nil {
				cur = cur.Parent
			}
		case xml.CharData:
			if cur != nil {
				cur.Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: document has no root element", ErrMalformedXML)
	}
	if root.Tag != "Root" {
		return nil, fmt.Errorf("%w: root element is <%s>, want <Root>", ErrMalformedXML, root.Tag)
	}
	trimText(root)
	return &Document{root: root}, nil
}

// Root returns the document's Root element.
func (d *Document) Root() *Node {
	return d.root
}

func trimText(n *Node) {
	n.Text = strings.TrimSpace(n.Text)
	for _, c := range n.Children {
		trimText(c)
	}
}

func syntaxError(text string, lines *lineIndex, offset int64, err error) error {
	line, col := lines.locate(offset)
	start := int(offset) - contextWindow/2
	if start < 0 {
		start = 0
	}
	end := start + contextWindow
	if end > len(text) {
		end = len(text)
	}
	return fmt.Errorf("%w at line %d column %d: %v (near %q)",
		ErrMalformedXML, line, col, err, text[start:end])
}

// Child returns the first direct child with the given tag, or nil.
func (n *Node) Child(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children with the given tag.
func (n *Node) ChildrenNamed(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Find walks the subtree depth-first and returns the first element with the
// given tag, or nil. Used for elements whose nesting moved between versions.
func (n *Node) Find(tag string) *Node {
	if n.Tag == tag {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(tag); found != nil {
			return found
		}
	}
	return nil
}

// Path renders the node's location, e.g. /Root/Player[ID=0]/Character[ID=5].
// ID attributes are included so error messages point at one element, not a
// whole sibling group.
func (n *Node) Path() string {
	if n == nil {
		return ""
	}
	var parts []string
	for cur := n; cur != nil; cur = cur.Parent {
		seg := cur.Tag
		if id, ok := cur.Attrs["ID"]; ok {
			seg = fmt.Sprintf("%s[ID=%s]", seg, id)
		}
		parts = append(parts, seg)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}

// ReqAttr returns the named attribute or ErrMissingAttribute with the node path.
func (n *Node) ReqAttr(name string) (string, error) {
	if v, ok := n.Attrs[name]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s@%s", ErrMissingAttribute, n.Path(), name)
}

// OptAttr returns the named attribute and whether it was present.
func (n *Node) OptAttr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// ReqAttrInt parses a required integer attribute.
func (n *Node) ReqAttrInt(name string) (int32, error) {
	v, err := n.ReqAttr(name)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s@%s=%q is not an integer", ErrInvalidFormat, n.Path(), name, v)
	}
	return int32(i), nil
}

// OptAttrInt parses an optional integer attribute; absent or unparseable
// values yield nil.
func (n *Node) OptAttrInt(name string) *int32 {
	v, ok := n.Attrs[name]
	if !ok {
		return nil
	}
	i, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return nil
	}
	out := int32(i)
	return &out
}

// ReqChildText returns the trimmed text of a required child element.
func (n *Node) ReqChildText(tag string) (string, error) {
	if c := n.Child(tag); c != nil {
		return c.Text, nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingElement, n.Path(), tag)
}

// OptChildText returns the trimmed text of a child element, if present and
// non-empty.
func (n *Node) OptChildText(tag string) (string, bool) {
	c := n.Child(tag)
	if c == nil || c.Text == "" {
		return "", false
	}
	return c.Text, true
}

// OptChildInt parses an optional integer child element.
func (n *Node) OptChildInt(tag string) *int32 {
	v, ok := n.OptChildText(tag)
	if !ok {
		return nil
	}
	i, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return nil
	}
	out := int32(i)
	return &out
}

// OptChildInt64 parses an optional 64-bit integer child element.
func (n *Node) OptChildInt64(tag string) *int64 {
	v, ok := n.OptChildText(tag)
	if !ok {
		return nil
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &i
}

// OptChildBool parses an optional boolean child element. The save format
// writes booleans as "true"/"false" or "1"/"0".
func (n *Node) OptChildBool(tag string) bool {
	v, ok := n.OptChildText(tag)
	if !ok {
		return false
	}
	return v == "true" || v == "True" || v == "1"
}

// lineIndex converts byte offsets to 1-based line/column pairs.
type lineIndex struct {
	starts []int
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (l *lineIndex) locate(offset int64) (line, col int) {
	off := int(offset)
	lo, hi := 0, len(l.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if l.starts[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, off - l.starts[lo] + 1
}
