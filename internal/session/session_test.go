package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/widgetc/internal/ir"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "session.yaml", `
build_id: "100"
storepass: secret
signing_dir: keys
features: [blackberry.app, blackberry.ui.dialog]
registry_db: features.db
global_features:
  - id: blackberry.event
    required: true
    version: 1.0.0.0
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "100", s.BuildID)
	assert.Equal(t, "secret", s.StorePass)
	assert.Equal(t, filepath.Join(dir, "keys"), s.SigningDir)
	assert.Equal(t, filepath.Join(dir, "features.db"), s.RegistryDB)
	assert.Equal(t, []string{"blackberry.app", "blackberry.ui.dialog"}, s.Features)
	assert.Equal(t, []ir.FeatureRef{{ID: "blackberry.event", Required: true, Version: "1.0.0.0"}}, s.GlobalFeatures)
	assert.True(t, s.HasCapabilitySource())
}

func TestLoadYAMLRejectsUnknownFields(t *testing.T) {
	path := writeFile(t, t.TempDir(), "session.yml", "buildid: 100\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadCUE(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "session.cue", `
build_id:  "7"
storepass: "pw"
keystore:  "/abs/author.p12"
features: ["blackberry.app"]
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7", s.BuildID)
	assert.Equal(t, "pw", s.StorePass)
	assert.Equal(t, "/abs/author.p12", s.Keystore)
	assert.Equal(t, []string{"blackberry.app"}, s.Features)
}

func TestLoadCUENotConcrete(t *testing.T) {
	path := writeFile(t, t.TempDir(), "session.cue", `build_id: string`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadUnknownFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "session.toml", `build_id = "1"`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestResolveArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ArtifactKeystore, "p12")
	writeFile(t, dir, ArtifactKeystoreDb, "db")

	s := &Session{SigningDir: dir, KeystoreCsk: filepath.Join(dir, "missing.csk")}
	s.ResolveArtifacts()

	artifacts := s.Artifacts()
	require.Len(t, artifacts, 3)
	assert.Equal(t, ArtifactKeystore, artifacts[0].Name)
	assert.True(t, artifacts[0].Present())
	assert.False(t, artifacts[1].Present(), "explicit path that does not exist is dropped")
	assert.True(t, artifacts[2].Present())
}

func TestResolveArtifactsNoSigningDir(t *testing.T) {
	s := &Session{}
	s.ResolveArtifacts()
	for _, a := range s.Artifacts() {
		assert.False(t, a.Present())
	}
	assert.False(t, s.HasCapabilitySource())
}
