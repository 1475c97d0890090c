// Package conformance runs the checker against the scenario programs
// spec.md §8 describes and renders the outcome as a schema.TestV1
// report, the structured machine-readable counterpart to
// scenario_test.go's *testing.T assertions. Grounded on the teacher's
// internal/test/reporter.go (Report/Case/Counts/Platform shape,
// NewReport/AddCase/Finalize lifecycle), retargeted from a generic
// xUnit-style runner to one whose "tests" are type-checker scenarios
// and whose "assertion" is a predicate over the resulting
// *types.ErrorList rather than a test function's returned error.
package conformance

import (
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/verity-lang/verity/internal/ast"
	"github.com/verity-lang/verity/internal/checker"
	"github.com/verity-lang/verity/internal/schema"
	"github.com/verity-lang/verity/internal/types"
)

// Case is one scenario's outcome.
type Case struct {
	SID    string `json:"sid"`
	Suite  string `json:"suite"`
	Name   string `json:"name"`
	Status string `json:"status"` // passed|failed
	TimeMs int64  `json:"time_ms"`
	Detail string `json:"detail,omitempty"`
}

// Counts tallies a run's cases by status.
type Counts struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}

// Platform captures the environment a run executed in, for reproducibility.
type Platform struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// Report is the schema.TestV1 envelope a conformance run produces.
type Report struct {
	Schema     string   `json:"schema"`
	RunID      string   `json:"run_id"`
	DurationMs int64    `json:"duration_ms"`
	Counts     Counts   `json:"counts"`
	Cases      []Case   `json:"cases"`
	Platform   Platform `json:"platform"`
}

// Scenario is one spec.md §8 example: a program to check plus a
// predicate over the resulting diagnostics.
type Scenario struct {
	Suite string
	Name  string
	Build func() *ast.Program
	// Check reports whether errs is what the scenario calls for, and a
	// human-readable reason when it is not.
	Check func(errs *types.ErrorList) (ok bool, detail string)
}

// Run type-checks every scenario's program and evaluates its predicate,
// returning a finalized report in schema.TestV1 shape.
func Run(scenarios []Scenario) *Report {
	start := time.Now()
	r := &Report{
		Schema: schema.TestV1,
		RunID:  uuid.New().String(),
		Platform: Platform{
			GoVersion: runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
		},
	}
	for _, s := range scenarios {
		caseStart := time.Now()
		c := checker.NewChecker()
		out := c.CheckProgram(s.Build())
		ok, detail := s.Check(out.Errs)

		status := "passed"
		if !ok {
			status = "failed"
		}
		r.addCase(Case{
			SID:    "CS#" + uuid.New().String()[:8],
			Suite:  s.Suite,
			Name:   s.Name,
			Status: status,
			TimeMs: time.Since(caseStart).Milliseconds(),
			Detail: detail,
		})
	}
	r.finalize(start)
	return r
}

func (r *Report) addCase(c Case) {
	r.Cases = append(r.Cases, c)
	r.Counts.Total++
	switch c.Status {
	case "passed":
		r.Counts.Passed++
	case "failed":
		r.Counts.Failed++
	}
}

func (r *Report) finalize(start time.Time) {
	r.DurationMs = time.Since(start).Milliseconds()
	sort.Slice(r.Cases, func(i, j int) bool {
		if r.Cases[i].Suite != r.Cases[j].Suite {
			return r.Cases[i].Suite < r.Cases[j].Suite
		}
		return r.Cases[i].Name < r.Cases[j].Name
	})
}

// ToJSON renders the report the same deterministic, sorted-keys way
// every other structured envelope in this compiler does.
func (r *Report) ToJSON() ([]byte, error) {
	data, err := schema.MarshalDeterministic(r)
	if err != nil {
		return nil, err
	}
	return schema.FormatJSON(data)
}
