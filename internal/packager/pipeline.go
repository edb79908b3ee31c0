package packager

import (
	"context"
	"log/slog"

	"github.com/roach88/widgetc/internal/compiler"
	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/session"
)

// Request is everything one packaging run needs besides the manifest.
type Request struct {
	// Session supplies the build-id override and signing material. Nil is
	// an empty session.
	Session *session.Session
	// Capabilities prunes feature whitelists. Nil skips pruning.
	Capabilities CapabilitySource
	// GlobalFeatures overrides the mandatory feature table. Nil selects
	// the built-in table.
	GlobalFeatures []ir.FeatureRef
	Logger         *slog.Logger
}

// Result is a compiled record ready for packaging.
type Result struct {
	Config      *ir.Config     `json:"config"`
	Fingerprint string         `json:"fingerprint"`
	Warnings    []diag.Warning `json:"warnings,omitempty"`
}

// Run compiles manifest and applies the post-compile validators in order:
// whitelist pruning, then signing prerequisites. Warnings are returned in
// the order they were raised, compile warnings first. Any returned error is a
// *diag.Error except for fingerprinting failures.
func Run(ctx context.Context, manifest []byte, req Request) (*Result, error) {
	logger := req.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sess := req.Session
	if sess == nil {
		sess = &session.Session{}
	}

	var warnings []diag.Warning
	cfg, err := compiler.Compile(manifest, compiler.Options{
		GlobalFeatures: req.GlobalFeatures,
		BuildID:        sess.BuildID,
		OnWarning: func(w diag.Warning) {
			logger.Warn(w.Message(), "code", w.Code)
			warnings = append(warnings, w)
		},
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("manifest compiled", "id", cfg.ID, "version", cfg.Version, "entries", len(cfg.AccessList))

	if req.Capabilities != nil {
		warnings = append(warnings, PruneWhitelist(ctx, cfg, req.Capabilities, logger)...)
	}

	signing, err := ValidateSigning(sess, cfg, logger)
	warnings = append(warnings, signing...)
	if err != nil {
		return nil, err
	}

	fp, err := ir.Fingerprint(cfg)
	if err != nil {
		return nil, err
	}

	return &Result{Config: cfg, Fingerprint: fp, Warnings: warnings}, nil
}
