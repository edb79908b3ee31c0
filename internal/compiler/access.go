package compiler

import (
	"fmt"

	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/localize"
	"github.com/roach88/widgetc/internal/xmltree"
)

// ResolveAccess builds the access list from the top-level feature elements
// and the access elements of root.
//
// The default-origin entry is always first. Concrete access entries follow
// in document order. A wildcard access element produces no entry; it sets
// the returned multi-access flag and may not declare features. Access
// elements without any attribute are skipped.
func ResolveAccess(root *xmltree.Node, globals []ir.FeatureRef) ([]ir.AccessEntry, bool, error) {
	local, err := buildAccessEntry(ir.LocalOrigin, true, sequence(root.Lookup("feature")), "feature", globals)
	if err != nil {
		return nil, false, err
	}

	list := []ir.AccessEntry{local}
	multi := false

	for i, node := range sequence(root.Lookup("access")) {
		if !node.HasAttrs() {
			continue
		}

		uri := node.AttrValue("uri")
		features := sequence(node.Lookup("feature"))
		field := fmt.Sprintf("access[%d]", i)

		if uri == ir.WildcardOrigin {
			if len(features) > 0 {
				return nil, false, diag.Structural(diag.CodeWildcardFeature, field+".feature",
					localize.FeatureWithWildcardAccess)
			}
			multi = true
			continue
		}

		entry, err := buildAccessEntry(uri, parseBool(node.AttrValue("subdomains"), false),
			features, field+".feature", globals)
		if err != nil {
			return nil, false, err
		}
		list = append(list, entry)
	}

	return list, multi, nil
}

func accessNormalizer(globals []ir.FeatureRef) normalizer {
	return func(root *xmltree.Node, cfg *ir.Config) error {
		list, multi, err := ResolveAccess(root, globals)
		if err != nil {
			return err
		}
		cfg.AccessList = list
		cfg.HasMultiAccess = multi
		return nil
	}
}

func buildAccessEntry(uri string, allowSubDomain bool, nodes []*xmltree.Node, field string, globals []ir.FeatureRef) (ir.AccessEntry, error) {
	entry := ir.AccessEntry{
		URI:            uri,
		AllowSubDomain: allowSubDomain,
		Features:       make([]ir.FeatureRef, 0, len(nodes)+len(globals)),
	}

	for i, n := range nodes {
		ref, err := featureRef(n, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return ir.AccessEntry{}, err
		}
		entry.Features = append(entry.Features, ref)
	}

	entry.Features = mergeGlobalFeatures(entry.Features, globals)
	return entry, nil
}

func featureRef(n *xmltree.Node, field string) (ir.FeatureRef, error) {
	id := sanitize(n.AttrValue("id"))
	if id == "" {
		return ir.FeatureRef{}, diag.Structural(diag.CodeInvalidFeature, field+".id", localize.InvalidFeatureID)
	}
	return ir.FeatureRef{
		ID:       id,
		Required: parseBool(n.AttrValue("required"), true),
		Version:  n.AttrValue("version"),
	}, nil
}

// mergeGlobalFeatures appends each global feature whose id is not already
// on the list. Declared features win over globals with the same id.
func mergeGlobalFeatures(features, globals []ir.FeatureRef) []ir.FeatureRef {
	for _, g := range globals {
		found := false
		for _, f := range features {
			if f.ID == g.ID {
				found = true
				break
			}
		}
		if !found {
			features = append(features, g)
		}
	}
	return features
}
