package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: basic
description: "A valid manifest compiles"
manifest: |
  <widget version="1.0.0" id="myApp">
    <name>My App</name>
    <author>Research In Motion Ltd.</author>
  </widget>
expect:
  fields:
    id: myApp
`

const failingScenario = `name: wrong_expectation
description: "Expects a failure the manifest does not have"
manifest: |
  <widget version="1.0.0" id="myApp">
    <name>My App</name>
    <author>Research In Motion Ltd.</author>
  </widget>
expect:
  error: EXCEPTION_INVALID_VERSION
`

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute(NewTestCommand(testRootOptions("text")))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, _, err := execute(NewTestCommand(testRootOptions("text")), "/nonexistent/scenarios")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, _, err := execute(NewTestCommand(testRootOptions("text")), t.TempDir())

	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, _, err := execute(NewTestCommand(testRootOptions("json")), t.TempDir())
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Data.Total)
	assert.NotNil(t, resp.Data.Scenarios)
}

func TestTestCommandPassingScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "basic.yaml", passingScenario)

	out, _, err := execute(NewTestCommand(testRootOptions("text")), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ basic")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommandFailingScenarioJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "basic.yaml", passingScenario)
	writeFile(t, dir, "wrong_expectation.yaml", failingScenario)

	out, _, err := execute(NewTestCommand(testRootOptions("json")), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status  string     `json:"status"`
		Data    TestResult `json:"data"`
		Error   *CLIError  `json:"error"`
		TraceID string     `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	assert.Equal(t, testTraceID, resp.TraceID)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "name: broken\nunknown_field: 1\n")

	out, _, err := execute(NewTestCommand(testRootOptions("text")), dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken")
	assert.Contains(t, out, "load: ")
}

func TestTestCommandGoldenUpdateAndCompare(t *testing.T) {
	dir := t.TempDir()
	scenarioFile := writeFile(t, dir, "basic.yaml", passingScenario)

	out, _, err := execute(NewTestCommand(testRootOptions("text")), dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ basic")

	goldenPath := goldenFilePath(scenarioFile)
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario": "basic"`)

	_, _, err = execute(NewTestCommand(testRootOptions("text")), dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	out, _, err = execute(NewTestCommand(testRootOptions("text")), dir)
	require.Error(t, err)
	assert.Contains(t, out, "outcome differs from")
}

func TestTestHelpText(t *testing.T) {
	cmd := NewTestCommand(testRootOptions("text"))

	assert.Contains(t, cmd.Long, "Exit codes:")
	assert.Contains(t, cmd.Long, "--update")
	assert.NotNil(t, cmd.Flags().Lookup("filter"))
	assert.NotNil(t, cmd.Flags().Lookup("update"))
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "name: a")
	writeFile(t, dir, "b.yml", "name: b")
	writeFile(t, dir, "readme.md", "# scenarios")
	writeFile(t, dir, "golden/a.golden", "{}")

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFindScenarioFilesWithFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "signing_complete.yaml", "name: a")
	writeFile(t, dir, "signing_missing.yaml", "name: b")
	writeFile(t, dir, "access_no_urn.yaml", "name: c")

	files, err := findScenarioFiles(dir, "signing_*")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = findScenarioFiles(dir, "[")
	require.Error(t, err)
}

func TestFindScenarioFilesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.yaml", "name: top")
	writeFile(t, dir, "nested/deep.yaml", "name: deep")

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestGoldenFilePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"scenarios/basic.yaml", filepath.Join("scenarios", "golden", "basic.golden")},
		{"/abs/path/signing.yml", filepath.Join("/abs/path", "golden", "signing.golden")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, goldenFilePath(tt.input))
		})
	}
}
