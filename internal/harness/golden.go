package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the golden form of a scenario outcome. The fingerprint is
// omitted.
type Snapshot struct {
	Scenario string   `json:"scenario"`
	Outcome  *Outcome `json:"outcome"`
}

// SnapshotJSON renders the golden snapshot for a scenario outcome as
// indented JSON with a trailing newline.
func SnapshotJSON(scenario *Scenario, outcome *Outcome) ([]byte, error) {
	trimmed := *outcome
	trimmed.Fingerprint = ""

	data, err := json.MarshalIndent(Snapshot{Scenario: scenario.Name, Outcome: &trimmed}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the outcome against a
// golden file. The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the outcome doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := SnapshotJSON(scenario, result.Outcome)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}
