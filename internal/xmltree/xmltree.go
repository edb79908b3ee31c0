// Package xmltree turns manifest markup into a generic element tree.
//
// The tree mirrors how loosely-typed XML mappers present documents: an
// element's attributes live in a separate map, its text in a separate slot,
// and a child name looked up on a parent yields either a single node or a
// sequence depending on how many times it occurs. Consumers must normalize
// that cardinality themselves.
package xmltree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Errors for documents etree reads but that are not well-formed.
var (
	ErrNoRoot        = errors.New("document has no root element")
	ErrMultipleRoots = errors.New("document has more than one root element")
	ErrStrayText     = errors.New("document has text outside the root element")
)

// Value is the result of a child lookup: nil when the child is absent,
// *Node when it occurs once, Nodes when it repeats.
type Value interface {
	value()
}

// Node is one element of the tree.
type Node struct {
	// Name is the qualified element name, e.g. "rim:permit".
	Name string
	// Attrs maps qualified attribute names to values. Nil when the element
	// has no attributes.
	Attrs map[string]string
	// Text is the element's leading character data with whitespace runs
	// collapsed and trimmed.
	Text string
	// RawText is the same character data as written.
	RawText string
	// Children are the child elements in document order.
	Children []*Node
}

// Nodes is a repeated child element.
type Nodes []*Node

func (*Node) value() {}
func (Nodes) value() {}

// Lookup returns the children named name. The result is nil when there
// are none, a *Node for exactly one and Nodes for several.
func (n *Node) Lookup(name string) Value {
	if n == nil {
		return nil
	}
	var found Nodes
	for _, c := range n.Children {
		if c.Name == name {
			found = append(found, c)
		}
	}
	switch len(found) {
	case 0:
		return nil
	case 1:
		return found[0]
	default:
		return found
	}
}

// Attr returns the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil || n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// AttrValue returns the named attribute or "".
func (n *Node) AttrValue(name string) string {
	v, _ := n.Attr(name)
	return v
}

// HasAttrs reports whether the element carries any attribute.
func (n *Node) HasAttrs() bool {
	return n != nil && len(n.Attrs) > 0
}

// IsScalar reports whether the element is plain text: no attributes, no
// child elements and non-empty text.
func (n *Node) IsScalar() bool {
	return n != nil && len(n.Attrs) == 0 && len(n.Children) == 0 && n.Text != ""
}

// IsEmpty reports whether the element has no attributes, children or text.
func (n *Node) IsEmpty() bool {
	return n == nil || (len(n.Attrs) == 0 && len(n.Children) == 0 && n.Text == "")
}

// Parse reads a document and returns its root element.
func Parse(data []byte) (*Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("xmltree: %w", err)
	}
	if err := checkProlog(doc); err != nil {
		return nil, fmt.Errorf("xmltree: %w", err)
	}
	return convert(doc.Root()), nil
}

// checkProlog enforces a single root element. etree keeps every top-level
// token, so extra roots and trailing text would otherwise be dropped
// silently by doc.Root.
func checkProlog(doc *etree.Document) error {
	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return ErrStrayText
			}
		}
	}
	switch {
	case roots == 0:
		return ErrNoRoot
	case roots > 1:
		return ErrMultipleRoots
	}
	return nil
}

func convert(el *etree.Element) *Node {
	raw := el.Text()
	n := &Node{
		Name:    el.FullTag(),
		Text:    normalizeSpace(raw),
		RawText: raw,
	}
	if len(el.Attr) > 0 {
		n.Attrs = make(map[string]string, len(el.Attr))
		for _, a := range el.Attr {
			n.Attrs[a.FullKey()] = strings.TrimSpace(a.Value)
		}
	}
	for _, child := range el.ChildElements() {
		n.Children = append(n.Children, convert(child))
	}
	return n
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
