package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/roach88/widgetc/internal/ir"
)

// Source reports whether a feature is available.
type Source interface {
	Available(ctx context.Context, id string) (bool, error)
}

// GlobalFeatureSource supplies the features every access entry receives.
type GlobalFeatureSource interface {
	GlobalFeatures(ctx context.Context) ([]ir.FeatureRef, error)
}

// Set is a fixed collection of available feature ids.
type Set map[string]struct{}

// NewSet returns a Set holding ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Available implements Source.
func (s Set) Available(_ context.Context, id string) (bool, error) {
	_, ok := s[id]
	return ok, nil
}

// manifestFile marks an installed extension inside a Dir.
const manifestFile = "manifest.json"

// Dir treats each subdirectory of an extension tree that holds a
// manifest.json as an installed feature named after the directory.
type Dir struct {
	fsys fs.FS
}

// NewDir wraps an extension tree, typically os.DirFS(extDir).
func NewDir(fsys fs.FS) *Dir {
	return &Dir{fsys: fsys}
}

// Available implements Source. Ids that are not valid single path
// elements are never available.
func (d *Dir) Available(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	name := path.Join(id, manifestFile)
	if id == "" || path.Base(path.Dir(name)) != id || !fs.ValidPath(name) {
		return false, nil
	}

	info, err := fs.Stat(d.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probe %s: %w", name, err)
	}
	return !info.IsDir(), nil
}

// Union is available if any member source reports the feature available.
// Lookup errors are returned only when no member answered yes.
type Union []Source

// Available implements Source.
func (u Union) Available(ctx context.Context, id string) (bool, error) {
	var errs []error
	for _, src := range u {
		ok, err := src.Available(ctx, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			return true, nil
		}
	}
	return false, errors.Join(errs...)
}
