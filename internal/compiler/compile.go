package compiler

import (
	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/xmltree"
)

// normalizer extracts one concern of the manifest into the record.
type normalizer func(root *xmltree.Node, cfg *ir.Config) error

// Compile parses manifest bytes and compiles them into a record.
//
// The caller owns reading the bytes. A tokenizer failure is returned as a
// diag.KindParse error; any rule violation as a single diag.KindStructural
// error.
//
//	data, _ := os.ReadFile("config.xml")
//	cfg, err := compiler.Compile(data, compiler.Options{BuildID: "100"})
func Compile(data []byte, opts Options) (*ir.Config, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, diag.Parse(err)
	}
	return CompileTree(root, opts)
}

// CompileTree compiles an already-parsed document.
func CompileTree(root *xmltree.Node, opts Options) (*ir.Config, error) {
	cfg, err := Normalize(root, opts)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	// Version is split only after validation so the 4-part form is checked
	// as written; the session override is applied last and always wins.
	splitVersion(cfg)
	applyBuildID(cfg, opts.BuildID)

	return cfg, nil
}

// Normalize runs every field normalizer without validating the result.
// It is exposed for tooling that wants ValidateAll semantics.
func Normalize(root *xmltree.Node, opts Options) (*ir.Config, error) {
	cfg := &ir.Config{ConfigXML: ir.ConfigXML}

	normalizers := []normalizer{
		normalizeIdentity,
		accessNormalizer(opts.globalFeatures()),
		normalizeIcon,
		normalizeAuthor,
		normalizeLicense,
		normalizeContent,
		normalizeOrientation,
		normalizePermissions,
		normalizeInvokeTargets,
		normalizeSplash,
		normalizeSplashScreens,
		normalizeLocalizedIcons,
		featureFlagsNormalizer(opts.warn),
		normalizeCustomHeaders,
	}

	for _, n := range normalizers {
		if err := n(root, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
