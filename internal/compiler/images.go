package compiler

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/localize"
	"github.com/roach88/widgetc/internal/xmltree"
)

// localesDir is packaged by folder-based localization and may not be
// referenced directly from icon or splash sources.
const localesDir = "locales/"

// normalizeIcon collects the src of every icon element in document order.
// Empty sources are kept so the validator can report them. A manifest
// without icon elements gets ir.DefaultIcon.
func normalizeIcon(root *xmltree.Node, cfg *ir.Config) error {
	cfg.Icon = sources(root.Lookup("icon"))
	if cfg.Icon == nil {
		cfg.Icon = []string{ir.DefaultIcon}
	}
	return nil
}

func normalizeSplash(root *xmltree.Node, cfg *ir.Config) error {
	cfg.Splash = sources(root.Lookup("rim:splash"))
	return nil
}

func sources(v xmltree.Value) []string {
	var out []string
	for _, n := range sequence(v) {
		out = append(out, sanitize(n.AttrValue("src")))
	}
	return out
}

func normalizeSplashScreens(root *xmltree.Node, cfg *ir.Config) error {
	images, err := groupImages(first(root.Lookup("rim:splashScreens")), "rim:splashScreens", localize.EmptySplashScreen)
	if err != nil {
		return err
	}
	cfg.SplashScreens = images
	return nil
}

func normalizeLocalizedIcons(root *xmltree.Node, cfg *ir.Config) error {
	images, err := groupImages(first(root.Lookup("rim:icon")), "rim:icon", localize.EmptyIcon)
	if err != nil {
		return err
	}
	cfg.Icons = images
	return nil
}

// groupImages turns a container of image elements into a locale-keyed
// mapping. An image is either a bare path, filed under ir.DefaultLocale,
// or wraps a text element whose xml:lang names the locale. Locale tags
// are checked for well-formedness but stored as written.
func groupImages(container *xmltree.Node, field string, emptyKey localize.Key) (*ir.LocalizedImages, error) {
	if container == nil {
		return nil, nil
	}

	nodes := sequence(container.Lookup("image"))
	if len(nodes) == 0 {
		return nil, diag.Structural(diag.CodeInvalidImages, field, emptyKey)
	}

	images := &ir.LocalizedImages{Image: make(map[string][]string)}
	for i, img := range nodes {
		imgField := fmt.Sprintf("%s.image[%d]", field, i)

		lang, path, err := imageEntry(img, imgField)
		if err != nil {
			return nil, err
		}
		images.Image[lang] = append(images.Image[lang], path)
	}
	return images, nil
}

func imageEntry(img *xmltree.Node, field string) (string, string, error) {
	text := img.Lookup("text")
	if text == nil {
		path := sanitize(img.Text)
		if path == "" {
			return "", "", diag.Structural(diag.CodeInvalidImages, field, localize.InvalidImage)
		}
		return ir.DefaultLocale, path, nil
	}

	// Only one localized text per image.
	t, ok := text.(*xmltree.Node)
	if !ok {
		return "", "", diag.Structural(diag.CodeInvalidImages, field+".text", localize.InvalidTextEmptyOrNested)
	}

	lang := strings.TrimSpace(t.AttrValue("xml:lang"))
	if lang == "" {
		return "", "", diag.Structural(diag.CodeInvalidImages, field+".text", localize.InvalidTextMissingLang)
	}
	if len(t.Children) > 0 || sanitize(t.Text) == "" {
		return "", "", diag.Structural(diag.CodeInvalidImages, field+".text", localize.InvalidTextEmptyOrNested)
	}
	if _, err := language.Parse(lang); err != nil {
		return "", "", diag.Structural(diag.CodeInvalidImages, field+".text.xml:lang", localize.InvalidTextLang, lang)
	}

	return lang, sanitize(t.Text), nil
}
