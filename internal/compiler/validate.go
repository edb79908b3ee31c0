package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/localize"
)

var (
	versionPattern  = regexp.MustCompile(`^[0-9]{1,3}([.][0-9]{1,3}){2,3}$`)
	idPattern       = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9 ]*[a-zA-Z0-9]$`)
	protocolPattern = regexp.MustCompile(`^[a-zA-Z]+://`)
	bareProtocol    = regexp.MustCompile(`^[a-zA-Z]+://$`)
)

// rule checks one concern of a normalized record. It returns every
// violation it finds in document order.
type rule func(cfg *ir.Config) []*diag.Error

// rules run in this order; Validate reports the first violation of the
// first failing rule.
var rules = []rule{
	validateVersion,
	validateName,
	validateAuthor,
	validateID,
	validateIcons,
	validateAccessURIs,
	validateInvokeTargets,
}

// Validate checks a normalized record and returns the first violation as a
// *diag.Error, or nil.
func Validate(cfg *ir.Config) error {
	for _, r := range rules {
		if errs := r(cfg); len(errs) > 0 {
			return errs[0]
		}
	}
	return nil
}

// ValidateAll runs every rule and returns all violations, in rule order.
// It never changes what Validate reports.
func ValidateAll(cfg *ir.Config) []*diag.Error {
	var errs []*diag.Error
	for _, r := range rules {
		errs = append(errs, r(cfg)...)
	}
	return errs
}

func validateVersion(cfg *ir.Config) []*diag.Error {
	if !versionPattern.MatchString(cfg.Version) {
		return one(diag.Structural(diag.CodeInvalidVersion, "version", localize.InvalidVersion))
	}
	return nil
}

func validateName(cfg *ir.Config) []*diag.Error {
	if strings.TrimSpace(cfg.Name) == "" {
		return one(diag.Structural(diag.CodeInvalidName, "name", localize.InvalidName))
	}
	return nil
}

func validateAuthor(cfg *ir.Config) []*diag.Error {
	if cfg.Author == "" {
		return one(diag.Structural(diag.CodeInvalidAuthor, "author", localize.InvalidAuthor))
	}
	return nil
}

func validateID(cfg *ir.Config) []*diag.Error {
	if !idPattern.MatchString(cfg.ID) {
		return one(diag.Structural(diag.CodeInvalidID, "id", localize.InvalidID))
	}
	return nil
}

// validateIcons covers both icon and rim:splash sources.
func validateIcons(cfg *ir.Config) []*diag.Error {
	var errs []*diag.Error
	for i, src := range cfg.Icon {
		field := fmt.Sprintf("icon[%d].src", i)
		switch {
		case src == "":
			errs = append(errs, diag.Structural(diag.CodeInvalidIcon, field, localize.InvalidIconSrc))
		case strings.HasPrefix(src, localesDir):
			errs = append(errs, diag.Structural(diag.CodeInvalidIcon, field, localize.InvalidIconSrcLocales))
		}
	}
	for i, src := range cfg.Splash {
		field := fmt.Sprintf("rim:splash[%d].src", i)
		switch {
		case src == "":
			errs = append(errs, diag.Structural(diag.CodeInvalidSplash, field, localize.InvalidSplashSrc))
		case strings.HasPrefix(src, localesDir):
			errs = append(errs, diag.Structural(diag.CodeInvalidSplash, field, localize.InvalidSplashSrcLocales))
		}
	}
	return errs
}

func validateAccessURIs(cfg *ir.Config) []*diag.Error {
	var errs []*diag.Error
	for i, entry := range cfg.AccessList {
		if entry.URI == ir.LocalOrigin {
			continue
		}
		field := fmt.Sprintf("accessList[%d].uri", i)
		switch {
		case !protocolPattern.MatchString(entry.URI):
			errs = append(errs, diag.Structural(diag.CodeInvalidAccessURI, field,
				localize.InvalidAccessURINoProtocol, entry.URI))
		case bareProtocol.MatchString(entry.URI):
			errs = append(errs, diag.Structural(diag.CodeInvalidAccessURI, field,
				localize.InvalidAccessURINoURN, entry.URI))
		}
	}
	return errs
}

func validateInvokeTargets(cfg *ir.Config) []*diag.Error {
	var errs []*diag.Error
	for i, target := range cfg.InvokeTargets {
		field := fmt.Sprintf("invoke-target[%d]", i)

		if target.ID == "" {
			errs = append(errs, diag.Structural(diag.CodeInvalidInvokeTarget, field+".id",
				localize.InvokeTargetInvalidID))
		}
		if target.Type != ir.InvokeTypeApplication && target.Type != ir.InvokeTypeViewer {
			errs = append(errs, diag.Structural(diag.CodeInvalidInvokeTarget, field+".type",
				localize.InvokeTargetInvalidType))
		}

		for j, f := range target.Filters {
			ff := fmt.Sprintf("%s.filter[%d]", field, j)
			if len(f.Actions) == 0 {
				errs = append(errs, diag.Structural(diag.CodeInvalidInvokeFilter, ff+".action",
					localize.InvokeTargetActionInvalid))
			}
			if len(f.MimeTypes) == 0 {
				errs = append(errs, diag.Structural(diag.CodeInvalidInvokeFilter, ff+".mime-type",
					localize.InvokeTargetMimeTypeInvalid))
			}
			for k, p := range f.Properties {
				if p.Var != ir.FilterVarExts && p.Var != ir.FilterVarURIs {
					errs = append(errs, diag.Structural(diag.CodeInvalidInvokeFilter,
						fmt.Sprintf("%s.property[%d].var", ff, k), localize.InvokeTargetPropertyInvalid))
				}
			}
		}
	}
	return errs
}

func one(err *diag.Error) []*diag.Error {
	return []*diag.Error{err}
}
