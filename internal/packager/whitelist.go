package packager

import (
	"context"
	"log/slog"

	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/localize"
)

// CapabilitySource reports whether a feature id is available in the
// current build environment.
type CapabilitySource interface {
	Available(ctx context.Context, id string) (bool, error)
}

type lookup struct {
	available bool
	err       error
}

// PruneWhitelist removes from every access entry the features caps does
// not provide, and returns one warning per removal. A failed lookup
// counts as unavailable. Kept features stay in declaration order, so
// pruning against a source that has every feature changes nothing.
//
// Each distinct id is looked up once per call.
func PruneWhitelist(ctx context.Context, cfg *ir.Config, caps CapabilitySource, logger *slog.Logger) []diag.Warning {
	if logger == nil {
		logger = slog.Default()
	}

	results := make(map[string]lookup)
	var warnings []diag.Warning

	for i := range cfg.AccessList {
		entry := &cfg.AccessList[i]
		kept := make([]ir.FeatureRef, 0, len(entry.Features))

		for _, f := range entry.Features {
			res, seen := results[f.ID]
			if !seen {
				res.available, res.err = caps.Available(ctx, f.ID)
				results[f.ID] = res
			}

			var w diag.Warning
			switch {
			case res.err != nil:
				w = diag.Warning{Code: diag.CodeFeaturePruned, Key: localize.FeatureLookupFailed,
					Params: []any{f.ID, res.err.Error()}}
			case !res.available:
				w = diag.Warning{Code: diag.CodeFeaturePruned, Key: localize.FeatureNotFound,
					Params: []any{f.ID}}
			default:
				kept = append(kept, f)
				continue
			}

			logger.Warn(w.Message(), "code", w.Code, "feature", f.ID, "uri", entry.URI)
			warnings = append(warnings, w)
		}

		entry.Features = kept
	}

	return warnings
}
