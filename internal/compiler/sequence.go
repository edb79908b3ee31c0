package compiler

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/widgetc/internal/xmltree"
)

// sequence coerces a child lookup to a slice. Every normalizer goes
// through it before touching repeated elements, so a child that occurs
// once and a child that occurs many times are handled identically.
func sequence(v xmltree.Value) []*xmltree.Node {
	switch val := v.(type) {
	case nil:
		return nil
	case *xmltree.Node:
		if val == nil {
			return nil
		}
		return []*xmltree.Node{val}
	case xmltree.Nodes:
		return val
	default:
		return nil
	}
}

// first returns the first element of a lookup, or nil.
func first(v xmltree.Value) *xmltree.Node {
	nodes := sequence(v)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// texts collects the non-empty text of each node, dropping duplicates
// while keeping first-seen order.
func texts(v xmltree.Value) []string {
	var out []string
	for _, n := range sequence(v) {
		out = appendUnique(out, sanitize(n.Text))
	}
	return out
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

// sanitize trims and NFC-normalizes manifest text.
func sanitize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// parseBool reads an attribute as a boolean, falling back to def when the
// value is absent or unparseable.
func parseBool(s string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return b
}
