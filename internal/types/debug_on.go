//go:build debug

package types

func init() {
	DefaultTracer.Enable()
}

// assertInvariant panics when cond is false (spec.md §6 "Environment":
// under the debug build tag, internal invariant violations are assertion
// panics; see debug_off.go for the release behavior).
func assertInvariant(cond bool, msg string) {
	if !cond {
		panic("checker invariant violated: " + msg)
	}
}

// debugBuild reports whether this binary was built with the debug tag.
const debugBuild = true
