package compiler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/localize"
	"github.com/roach88/widgetc/internal/xmltree"
)

// PermissionAccessInternet is granted to every application; the access
// list is what restricts network reach.
const PermissionAccessInternet = "access_internet"

// Feature ids with side effects on the record.
const (
	featureEnableFlash = "enable-flash"
	featurePush        = "blackberry.push"
	featureApp         = "blackberry.app"

	// Superseded by the orientation param of blackberry.app.
	featureAppOrientation = "blackberry.app.orientation"

	permissionRunWhenBackgrounded = "run_when_backgrounded"
)

// schemePattern matches a URI that already names its scheme, including
// the local: scheme.
var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)

func normalizeIdentity(root *xmltree.Node, cfg *ir.Config) error {
	cfg.Version = root.AttrValue("version")
	cfg.ID = root.AttrValue("id")
	cfg.Name = preferredText(root.Lookup("name"))
	cfg.Description = preferredText(root.Lookup("description"))
	return nil
}

// preferredText returns the text of the unlocalized occurrence of a
// repeated element, falling back to the first one.
func preferredText(v xmltree.Value) string {
	nodes := sequence(v)
	for _, n := range nodes {
		if _, ok := n.Attr("xml:lang"); !ok {
			return sanitize(n.Text)
		}
	}
	if len(nodes) > 0 {
		return sanitize(nodes[0].Text)
	}
	return ""
}

func normalizeAuthor(root *xmltree.Node, cfg *ir.Config) error {
	author := first(root.Lookup("author"))
	if author == nil {
		return nil
	}

	// An element with neither text nor attributes leaves the author unset.
	cfg.Author = sanitize(author.Text)

	if author.HasAttrs() {
		cfg.AuthorURL = author.AttrValue("href")
		cfg.Copyright = author.AttrValue("rim:copyright")
		cfg.AuthorEmail = author.AttrValue("email")
	}
	return nil
}

// normalizeLicense always sets both fields. A missing element, an empty
// body and a body-less element with only an href all yield License "".
// A non-blank body is kept as written; license text is often laid out.
func normalizeLicense(root *xmltree.Node, cfg *ir.Config) error {
	license := first(root.Lookup("license"))
	cfg.License = ""
	cfg.LicenseURL = ""
	if license == nil {
		return nil
	}
	if license.Text != "" {
		cfg.License = license.RawText
	}
	cfg.LicenseURL = license.AttrValue("href")
	return nil
}

func normalizeContent(root *xmltree.Node, cfg *ir.Config) error {
	content := first(root.Lookup("content"))
	if content == nil {
		return nil
	}

	src := strings.TrimSpace(content.AttrValue("src"))
	if src == "" {
		return diag.Structural(diag.CodeInvalidContent, "content.src", localize.InvalidContent)
	}

	cfg.Content = StartPage(src)
	cfg.ForegroundSource = src
	cfg.ContentType = content.AttrValue("type")
	cfg.ContentCharSet = content.AttrValue("charset")
	cfg.AllowInvokeParams = content.AttrValue("rim:allowInvokeParams")
	return nil
}

// StartPage gives a content source a well-formed scheme. Absolute and
// local: URIs are returned unchanged; bare paths become local:///path
// after backslashes are turned into forward slashes.
func StartPage(src string) string {
	if schemePattern.MatchString(src) {
		return src
	}
	p := strings.ReplaceAll(src, `\`, "/")
	if strings.HasPrefix(p, "/") {
		return "local://" + p
	}
	return "local:///" + p
}

func normalizeOrientation(root *xmltree.Node, cfg *ir.Config) error {
	if node := first(root.Lookup("rim:orientation")); node != nil {
		mode := node.AttrValue("mode")
		if mode == ir.OrientationLandscape || mode == ir.OrientationPortrait {
			cfg.AutoOrientation = false
			cfg.Orientation = mode
			return nil
		}
	}
	cfg.AutoOrientation = true
	cfg.Orientation = ""
	return nil
}

// normalizePermissions keeps plain-text rim:permit entries only; entries
// carrying attributes or no text are dropped. access_internet is always
// present exactly once.
func normalizePermissions(root *xmltree.Node, cfg *ir.Config) error {
	var perms []string
	if container := first(root.Lookup("rim:permissions")); container != nil {
		for _, permit := range sequence(container.Lookup("rim:permit")) {
			if !permit.IsScalar() {
				continue
			}
			perms = appendUnique(perms, sanitize(permit.Text))
		}
	}
	cfg.Permissions = appendUnique(perms, PermissionAccessInternet)
	return nil
}

// featureFlagsNormalizer derives record switches from the top-level
// feature list. Features declared inside access elements never set them.
// It runs after normalizeOrientation so a blackberry.app orientation param
// overrides rim:orientation.
func featureFlagsNormalizer(warn func(diag.Warning)) normalizer {
	return func(root *xmltree.Node, cfg *ir.Config) error {
		push := false
		for i, f := range sequence(root.Lookup("feature")) {
			switch f.AttrValue("id") {
			case featureEnableFlash:
				cfg.EnableFlash = true
			case featurePush:
				push = true
			case featureAppOrientation:
				warn(diag.Warning{Code: diag.CodeDeprecatedFeature, Key: localize.OrientationFeatureDeprecated})
			case featureApp:
				if err := applyAppParams(f, fmt.Sprintf("feature[%d]", i), cfg); err != nil {
					return err
				}
			}
		}
		cfg.AutoDeferNetworkingAndJavaScript = !push && !cfg.HasPermission(permissionRunWhenBackgrounded)
		return nil
	}
}

func applyAppParams(feature *xmltree.Node, field string, cfg *ir.Config) error {
	for i, param := range sequence(feature.Lookup("param")) {
		value := param.AttrValue("value")
		valueField := fmt.Sprintf("%s.param[%d].value", field, i)

		switch param.AttrValue("name") {
		case "backgroundColor":
			color, err := strconv.ParseInt(value, 0, 64)
			if err != nil {
				return diag.Structural(diag.CodeInvalidBackgroundClr, valueField, localize.BackgroundColorInvalid, value)
			}
			cfg.BackgroundColor = &color
		case "orientation":
			if value != ir.OrientationLandscape && value != ir.OrientationPortrait {
				return diag.Structural(diag.CodeInvalidOrientation, valueField, localize.InvalidOrientationMode, value)
			}
			cfg.Orientation = value
			cfg.AutoOrientation = false
		}
	}
	return nil
}

// normalizeCustomHeaders reads rim:header="Name: value" from the root.
// Malformed headers are ignored.
func normalizeCustomHeaders(root *xmltree.Node, cfg *ir.Config) error {
	header, ok := root.Attr("rim:header")
	if !ok {
		return nil
	}
	name, value, found := strings.Cut(header, ":")
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if !found || name == "" || value == "" {
		return nil
	}
	cfg.CustomHeaders = map[string]string{name: value}
	return nil
}
