package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/packager"
	"github.com/roach88/widgetc/internal/registry"
)

// Run executes a scenario and checks the outcome against its expectation.
//
// The returned error is reserved for failures of the harness itself; a
// compile that fails is an outcome, not an error.
func Run(scenario *Scenario) (*Result, error) {
	outcome, err := Execute(context.Background(), scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return nil, err
	}

	result := NewResult(outcome)
	for _, mismatch := range Check(scenario.Expect, outcome) {
		result.Fail("%s", mismatch)
	}
	return result, nil
}

// Execute runs the packaging pipeline for scenario and captures the
// outcome.
func Execute(ctx context.Context, scenario *Scenario, logger *slog.Logger) (*Outcome, error) {
	sess := scenario.Session

	req := packager.Request{
		Session:        &sess,
		GlobalFeatures: scenario.GlobalFeatures,
		Logger:         logger,
	}
	if len(scenario.Capabilities) > 0 {
		req.Capabilities = registry.NewSet(scenario.Capabilities...)
	}

	res, err := packager.Run(ctx, []byte(scenario.Manifest), req)
	if err != nil {
		de, ok := diag.As(err)
		if !ok {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		return &Outcome{Error: de}, nil
	}

	return &Outcome{
		Record:      res.Config,
		Fingerprint: res.Fingerprint,
		Warnings:    res.Warnings,
	}, nil
}

// Check compares an outcome with an expectation and describes every
// mismatch. An empty result means the outcome matches.
func Check(expect Expectation, outcome *Outcome) []string {
	var mismatches []string

	switch {
	case expect.Error != "" && outcome.Error == nil:
		mismatches = append(mismatches, fmt.Sprintf("expected error %s, compile succeeded", expect.Error))
	case expect.Error == "" && outcome.Error != nil:
		mismatches = append(mismatches, fmt.Sprintf("unexpected error %s: %s", outcome.Error.Key, outcome.Error.Message()))
	case expect.Error != "" && outcome.Error.Key != expect.Error:
		mismatches = append(mismatches, fmt.Sprintf("expected error %s, got %s: %s",
			expect.Error, outcome.Error.Key, outcome.Error.Message()))
	case expect.Message != "" && !strings.Contains(outcome.Error.Message(), expect.Message):
		mismatches = append(mismatches, fmt.Sprintf("error message %q does not contain %q",
			outcome.Error.Message(), expect.Message))
	}

	if expect.Warnings != nil {
		got := make([]string, 0, len(outcome.Warnings))
		for _, w := range outcome.Warnings {
			got = append(got, string(w.Key))
		}
		want := make([]string, 0, len(expect.Warnings))
		for _, k := range expect.Warnings {
			want = append(want, string(k))
		}
		if !reflect.DeepEqual(got, want) {
			mismatches = append(mismatches, fmt.Sprintf("warnings: expected %v, got %v", want, got))
		}
	}

	if len(expect.Fields) > 0 && outcome.Record != nil {
		mismatches = append(mismatches, checkFields(expect.Fields, outcome)...)
	}

	return mismatches
}

// checkFields compares each expected field against the record's JSON
// form, reporting mismatches in key order. Both sides go through encoding/json so YAML and JSON scalars
// compare equal.
func checkFields(expected map[string]any, outcome *Outcome) []string {
	actual, err := toJSONValue(outcome.Record)
	if err != nil {
		return []string{fmt.Sprintf("record: %v", err)}
	}
	want, err := toJSONValue(expected)
	if err != nil {
		return []string{fmt.Sprintf("expect.fields: %v", err)}
	}

	actualMap := actual.(map[string]any)
	wantMap := want.(map[string]any)
	var mismatches []string
	for _, key := range slices.Sorted(maps.Keys(wantMap)) {
		wantVal := wantMap[key]
		gotVal, exists := actualMap[key]
		if !exists {
			mismatches = append(mismatches, fmt.Sprintf("field %s: missing from record", key))
			continue
		}
		if !reflect.DeepEqual(gotVal, wantVal) {
			mismatches = append(mismatches, fmt.Sprintf("field %s: expected %v, got %v", key, wantVal, gotVal))
		}
	}
	return mismatches
}

func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
