package compiler

import (
	"strings"

	"github.com/roach88/widgetc/internal/ir"
)

// splitVersion moves a fourth version component into BuildID.
// "1.0.0.50" becomes version "1.0.0" and build id "50".
func splitVersion(cfg *ir.Config) {
	if cfg.Version == "" {
		return
	}
	if parts := strings.Split(cfg.Version, "."); len(parts) > 3 {
		cfg.BuildID = parts[3]
		cfg.Version = cfg.Version[:strings.LastIndex(cfg.Version, ".")]
	}
}

// applyBuildID replaces the build id with the session override, if any.
func applyBuildID(cfg *ir.Config, override string) {
	if override != "" {
		cfg.BuildID = override
	}
}
