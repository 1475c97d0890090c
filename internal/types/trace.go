package types

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Tracer prints colorized, indentation-nested trial/undo traces for the
// subtyping/unification engines (spec.md §5 "Cancellation & trial
// semantics", §9 design notes). Grounded on the teacher's cmd/ailang/main.go
// color.New(...).SprintFunc() idiom. It is the single place in this package
// allowed to do I/O; every other file is pure apart from the cache and the
// cells it mutates.
type Tracer struct {
	depth  int
	w      *os.File
	enable bool
}

var (
	traceGreen  = color.New(color.FgGreen).SprintFunc()
	traceRed    = color.New(color.FgRed).SprintFunc()
	traceYellow = color.New(color.FgYellow).SprintFunc()
	traceCyan   = color.New(color.FgCyan).SprintFunc()
	traceBold   = color.New(color.Bold).SprintFunc()
)

// DefaultTracer is shared process-wide state, like the subtype cache; it
// starts disabled and is only ever toggled on by the debug build's
// initializer (debug_on.go) or a caller that explicitly wants traces in a
// release build (e.g. a test).
var DefaultTracer = &Tracer{w: os.Stderr}

// Enable turns tracing on; Disable turns it off. Both work in every build
// (the tracer is not compiled out of release builds), matching the
// teacher's pattern of gating expensive diagnostics behind a flag.
func (t *Tracer) Enable()  { t.enable = true }
func (t *Tracer) Disable() { t.enable = false }

func (t *Tracer) indent() string { return strings.Repeat("  ", t.depth) }

// Enter logs entry into a trial comparison/unification step and returns a
// func to log the exit, so callers can `defer tr.Enter(...)()`.
func (t *Tracer) Enter(op string, lhs, rhs fmt.Stringer) func(result bool) {
	if !t.enable {
		return func(bool) {}
	}
	fmt.Fprintf(t.w, "%s%s %s vs %s\n", t.indent(), traceCyan(op), lhs, rhs)
	t.depth++
	return func(result bool) {
		t.depth--
		label := traceRed("false")
		if result {
			label = traceGreen("true")
		}
		fmt.Fprintf(t.w, "%s%s %s -> %s\n", t.indent(), traceBold("="), op, label)
	}
}

// Link logs a trial or permanent link placed on a cell.
func (t *Tracer) Link(cellID uint64, target fmt.Stringer, undoable bool) {
	if !t.enable {
		return
	}
	kind := "link"
	if undoable {
		kind = "trial-link"
	}
	fmt.Fprintf(t.w, "%s%s ?_%d := %s\n", t.indent(), traceYellow(kind), cellID, target)
}

// Undo logs an undo of a previously logged trial link.
func (t *Tracer) Undo(cellID uint64) {
	if !t.enable {
		return
	}
	fmt.Fprintf(t.w, "%sundo ?_%d\n", t.indent(), cellID)
}
