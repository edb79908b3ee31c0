package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/widgetc/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run manifest conformance scenarios.

Each scenario compiles an inline or referenced manifest under a session
and checks the error key, warnings and record fields it expects. When
golden/<name>.golden exists next to the scenario, the outcome snapshot
must match it too.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  widgetc test ./scenarios
  widgetc test ./scenarios --filter "signing_*"
  widgetc test ./scenarios --update
  widgetc test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", dir))
	}

	files, err := findScenarioFiles(dir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "scenario discovery failed", err)
	}

	traceID := opts.newTraceID()
	w := cmd.OutOrStdout()
	jsonOut := opts.Format == "json"

	if len(files) == 0 && !jsonOut {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(files))}
	for _, file := range files {
		r := runScenario(file, opts.Update)
		if !jsonOut {
			printScenarioResult(w, r)
		}
		result.add(r)
	}

	if jsonOut {
		if err := writeTestJSON(w, result, traceID); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "\nTest Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	if !jsonOut {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
	return nil
}

func (t *TestResult) add(r ScenarioResult) {
	t.Scenarios = append(t.Scenarios, r)
	t.Total++
	if r.Pass {
		t.Passed++
	} else {
		t.Failed++
	}
}

// findScenarioFiles returns the .yaml and .yml files under dir, skipping
// golden directories. A non-empty filter is matched against the base name
// without its extension.
func findScenarioFiles(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", filter, err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir():
			if path != dir && d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}

		name, ok := scenarioName(path)
		if !ok {
			return nil
		}
		if filter != "" {
			if matched, _ := filepath.Match(filter, name); !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// scenarioName strips a YAML extension from path's base name.
func scenarioName(path string) (string, bool) {
	base := filepath.Base(path)
	for _, ext := range []string{".yaml", ".yml"} {
		if name, ok := strings.CutSuffix(base, ext); ok {
			return name, true
		}
	}
	return base, false
}

func failed(name, format string, err error) ScenarioResult {
	return ScenarioResult{Name: name, Errors: []string{fmt.Sprintf(format, err)}}
}

// runScenario compiles one scenario and checks it against its
// expectations and, when present, its golden snapshot. With update the
// snapshot is rewritten instead of compared.
func runScenario(file string, update bool) ScenarioResult {
	name, _ := scenarioName(file)

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return failed(name, "load: %v", err)
	}
	name = scenario.Name

	result, err := harness.Run(scenario)
	if err != nil {
		return failed(name, "run: %v", err)
	}

	snapshot, err := harness.SnapshotJSON(scenario, result.Outcome)
	if err != nil {
		return failed(name, "snapshot: %v", err)
	}

	golden := goldenFilePath(file)
	if update {
		if err := writeGoldenFile(golden, snapshot); err != nil {
			return failed(name, "update golden: %v", err)
		}
		return ScenarioResult{Name: name, Pass: result.Pass, Errors: result.Errors}
	}

	errs := result.Errors
	want, err := os.ReadFile(golden)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		errs = append(errs, fmt.Sprintf("read golden: %v", err))
	case !bytes.Equal(want, snapshot):
		errs = append(errs, "outcome differs from "+golden+" (rerun with --update)")
	}
	return ScenarioResult{Name: name, Pass: len(errs) == 0, Errors: errs}
}

func printScenarioResult(w io.Writer, r ScenarioResult) {
	mark := "✓"
	if !r.Pass {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %s\n", mark, r.Name)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

// goldenFilePath maps dir/name.yaml to dir/golden/name.golden.
func goldenFilePath(file string) string {
	name, _ := scenarioName(file)
	return filepath.Join(filepath.Dir(file), "golden", name+".golden")
}

func writeGoldenFile(path string, snapshot []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, snapshot, 0o644)
}

// writeTestJSON writes the run as one indented CLIResponse. Failed runs
// carry E_TEST_FAILED alongside the per-scenario data.
func writeTestJSON(w io.Writer, result TestResult, traceID string) error {
	resp := CLIResponse{Status: "ok", Data: result, TraceID: traceID}
	if result.Failed > 0 {
		resp.Status = "error"
		resp.Error = &CLIError{
			Code:    "E_TEST_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
