// Package session loads the per-build environment a manifest is compiled
// under: the build-id override, the signing password and credential
// artifacts, and the capability sources used to prune feature whitelists.
//
// Sessions are read from YAML or CUE files and then overlaid by CLI flags.
// Credential artifacts are resolved once, by existence probe, so the
// signing validator only ever sees present-or-absent paths.
package session

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/widgetc/internal/ir"
)

// Credential artifact file names, in the order they are checked.
const (
	ArtifactKeystore    = "author.p12"
	ArtifactKeystoreCsk = "barsigner.csk"
	ArtifactKeystoreDb  = "barsigner.db"
)

// ErrUnknownFormat is returned for session files that are neither YAML
// nor CUE.
var ErrUnknownFormat = errors.New("unknown session file format")

// Session is the environment one compile runs under.
type Session struct {
	// BuildID is the explicit build-id override.
	BuildID string `yaml:"build_id" json:"build_id,omitempty"`
	// StorePass is the signing password.
	StorePass string `yaml:"storepass" json:"storepass,omitempty"`

	// SigningDir is searched for any artifact without an explicit path.
	SigningDir  string `yaml:"signing_dir" json:"signing_dir,omitempty"`
	Keystore    string `yaml:"keystore" json:"keystore,omitempty"`
	KeystoreCsk string `yaml:"keystore_csk" json:"keystore_csk,omitempty"`
	KeystoreDb  string `yaml:"keystore_db" json:"keystore_db,omitempty"`

	// Features lists capability ids that are always available.
	Features []string `yaml:"features" json:"features,omitempty"`
	// ExtDir is an extension directory probed for <id>/manifest.json.
	ExtDir string `yaml:"ext_dir" json:"ext_dir,omitempty"`
	// RegistryDB is a SQLite feature catalog.
	RegistryDB string `yaml:"registry_db" json:"registry_db,omitempty"`

	// GlobalFeatures replaces the built-in mandatory feature table.
	GlobalFeatures []ir.FeatureRef `yaml:"global_features" json:"global_features,omitempty"`
}

// Artifact is one signing credential file. Path is empty when the file
// was not found.
type Artifact struct {
	Name string
	Path string
}

// Present reports whether the artifact was found.
func (a Artifact) Present() bool {
	return a.Path != ""
}

// Artifacts returns the credential artifacts in check order.
func (s *Session) Artifacts() []Artifact {
	return []Artifact{
		{Name: ArtifactKeystore, Path: s.Keystore},
		{Name: ArtifactKeystoreCsk, Path: s.KeystoreCsk},
		{Name: ArtifactKeystoreDb, Path: s.KeystoreDb},
	}
}

// HasCapabilitySource reports whether any capability source is configured.
// Without one, whitelists are not pruned.
func (s *Session) HasCapabilitySource() bool {
	return len(s.Features) > 0 || s.ExtDir != "" || s.RegistryDB != ""
}

// Load reads a session file. The format is chosen by extension: .yaml and
// .yml are YAML, .cue is CUE. Relative paths inside the file are resolved
// against the file's directory.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s *Session
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = ParseYAML(data)
	case ".cue":
		s, err = ParseCUE(data, path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, err
	}

	s.resolvePaths(filepath.Dir(path))
	return s, nil
}

// ParseYAML decodes a YAML session, rejecting unknown fields.
func ParseYAML(data []byte) (*Session, error) {
	var s Session
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse session YAML: %w", err)
	}
	return &s, nil
}

// ParseCUE evaluates a CUE session. The file must evaluate to a concrete
// struct with the same field names as the YAML form.
func ParseCUE(data []byte, filename string) (*Session, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile session CUE: %w", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("session CUE is not concrete: %w", err)
	}

	var s Session
	if err := value.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode session CUE: %w", err)
	}
	return &s, nil
}

func (s *Session) resolvePaths(base string) {
	for _, p := range []*string{&s.SigningDir, &s.Keystore, &s.KeystoreCsk, &s.KeystoreDb, &s.ExtDir, &s.RegistryDB} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// ResolveArtifacts probes the filesystem for each credential artifact.
// An explicit path is kept only if it exists; an unset path is looked up
// in SigningDir. Missing artifacts are left empty.
func (s *Session) ResolveArtifacts() {
	s.Keystore = s.probe(s.Keystore, ArtifactKeystore)
	s.KeystoreCsk = s.probe(s.KeystoreCsk, ArtifactKeystoreCsk)
	s.KeystoreDb = s.probe(s.KeystoreDb, ArtifactKeystoreDb)
}

func (s *Session) probe(explicit, name string) string {
	candidate := explicit
	if candidate == "" {
		if s.SigningDir == "" {
			return ""
		}
		candidate = filepath.Join(s.SigningDir, name)
	}
	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return ""
	}
	return candidate
}
