package harness

import (
	"fmt"

	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/ir"
)

// Outcome is what one pipeline run produced. Exactly one of Record and
// Error is set.
type Outcome struct {
	Record      *ir.Config     `json:"record,omitempty"`
	Fingerprint string         `json:"fingerprint,omitempty"`
	Error       *diag.Error    `json:"error,omitempty"`
	Warnings    []diag.Warning `json:"warnings,omitempty"`
}

// Result pairs a scenario's Outcome with its expectation mismatches.
// Pass is false exactly when Errors is non-empty.
type Result struct {
	Pass    bool     `json:"pass"`
	Outcome *Outcome `json:"outcome"`
	Errors  []string `json:"errors,omitempty"`
}

// NewResult starts a passing result for outcome.
func NewResult(outcome *Outcome) *Result {
	return &Result{
		Pass:    true,
		Outcome: outcome,
		Errors:  []string{},
	}
}

// Fail records a mismatch.
func (r *Result) Fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}
