package errors

import (
	"encoding/json"
	"errors"

	"github.com/verity-lang/verity/internal/ast"
	"github.com/verity-lang/verity/internal/schema"
)

// Report is the canonical structured error type surfaced to callers.
// Error builders return *Report, which is wrapped as ReportError so it
// survives errors.As() unwrapping.
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// ReportError wraps a Report as an error.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport attempts to extract a Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as a ReportError.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON converts a Report to JSON (deterministic: struct fields in
// declaration order, Data map keys sorted).
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewGeneric creates a generic error report for an error with no more
// specific CheckError shape (internal invariant violations).
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  schema.ErrorV1,
		Code:    TYC099,
		Phase:   phase,
		Message: err.Error(),
		Data:    map[string]any{},
	}
}
