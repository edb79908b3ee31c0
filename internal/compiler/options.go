package compiler

import (
	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/ir"
)

// Options configures one compile.
type Options struct {
	// GlobalFeatures are merged into every access entry. Nil selects
	// ir.DefaultGlobalFeatures; a non-nil empty slice disables merging.
	GlobalFeatures []ir.FeatureRef

	// BuildID is the session override. When set it replaces any build id
	// embedded in the manifest version.
	BuildID string

	// OnWarning receives non-fatal manifest diagnostics such as deprecated
	// features. Nil discards them.
	OnWarning func(diag.Warning)
}

func (o Options) globalFeatures() []ir.FeatureRef {
	if o.GlobalFeatures == nil {
		return ir.DefaultGlobalFeatures()
	}
	return o.GlobalFeatures
}

func (o Options) warn(w diag.Warning) {
	if o.OnWarning != nil {
		o.OnWarning(w)
	}
}
