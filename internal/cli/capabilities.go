package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/packager"
	"github.com/roach88/widgetc/internal/registry"
	"github.com/roach88/widgetc/internal/session"
)

// capabilities are the capability sources and global-feature table one
// compile runs against.
type capabilities struct {
	// Source is nil when the session names no capability source, which
	// disables pruning.
	Source         packager.CapabilitySource
	GlobalFeatures []ir.FeatureRef

	catalog *registry.Catalog
}

// openCapabilities builds the union of every source the session names.
// The global-feature table comes from the session when it sets one, then
// from the catalog, then the built-in table.
func openCapabilities(ctx context.Context, sess *session.Session, logger *slog.Logger) (*capabilities, error) {
	caps := &capabilities{GlobalFeatures: sess.GlobalFeatures}
	if !sess.HasCapabilitySource() {
		logger.Debug("no capability source configured, feature whitelists kept as declared")
		return caps, nil
	}

	var union registry.Union
	if len(sess.Features) > 0 {
		union = append(union, registry.NewSet(sess.Features...))
	}
	if sess.ExtDir != "" {
		union = append(union, registry.NewDir(os.DirFS(sess.ExtDir)))
	}
	if sess.RegistryDB != "" {
		catalog, err := registry.Open(sess.RegistryDB)
		if err != nil {
			return nil, fmt.Errorf("opening feature catalog: %w", err)
		}
		caps.catalog = catalog
		union = append(union, catalog)

		if caps.GlobalFeatures == nil {
			globals, err := catalog.GlobalFeatures(ctx)
			if err != nil {
				catalog.Close()
				return nil, fmt.Errorf("reading global features: %w", err)
			}
			caps.GlobalFeatures = globals
		}
	}

	logger.Debug("capability sources ready",
		"features", len(sess.Features),
		"ext_dir", sess.ExtDir,
		"registry_db", sess.RegistryDB,
		"global_features", len(caps.GlobalFeatures))
	caps.Source = union
	return caps, nil
}

// Close releases the feature catalog, if one was opened.
// closeLogged closes c from a defer. The command's result is already
// decided, so a failure is only logged.
func closeLogged(c io.Closer, what string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("error closing "+what, "error", err)
	}
}

func (c *capabilities) Close() error {
	if c.catalog == nil {
		return nil
	}
	return c.catalog.Close()
}
