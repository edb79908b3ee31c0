package compiler

import (
	"strings"

	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/xmltree"
)

// normalizeInvokeTargets reads rim:invoke-target elements. Types are
// upper-cased here; whether they are valid is the validator's concern.
func normalizeInvokeTargets(root *xmltree.Node, cfg *ir.Config) error {
	for _, node := range sequence(root.Lookup("rim:invoke-target")) {
		target := ir.InvokeTarget{
			ID:                       strings.TrimSpace(node.AttrValue("id")),
			Type:                     strings.ToUpper(elementText(node.Lookup("type"))),
			RequireSourcePermissions: elementText(node.Lookup("require-source-permissions")),
		}

		for _, f := range sequence(node.Lookup("filter")) {
			filter := ir.Filter{
				Actions:   texts(f.Lookup("action")),
				MimeTypes: texts(f.Lookup("mime-type")),
			}
			for _, p := range sequence(f.Lookup("property")) {
				filter.Properties = append(filter.Properties, ir.FilterProperty{
					Var:   p.AttrValue("var"),
					Value: p.AttrValue("value"),
				})
			}
			target.Filters = append(target.Filters, filter)
		}

		cfg.InvokeTargets = append(cfg.InvokeTargets, target)
	}
	return nil
}

// elementText returns the text of a plain-text child, or "" when the child
// is missing or carries attributes or nested elements.
func elementText(v xmltree.Value) string {
	n := first(v)
	if !n.IsScalar() {
		return ""
	}
	return sanitize(n.Text)
}
