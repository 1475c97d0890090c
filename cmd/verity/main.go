// Command verity is a small demo driver over the type checker core.
// Grounded on the teacher's cmd/ailang/main.go: stdlib flag parsing and a
// coloring idiom for pass/fail output. It has no subcommands; flags select
// what it does.
// The lexer/parser are out of scope (spec.md §1), so this driver builds
// its demo declarations directly as internal/ast nodes rather than
// reading source text, and runs them through internal/checker.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/verity-lang/verity/internal/ast"
	"github.com/verity-lang/verity/internal/checker"
	"github.com/verity-lang/verity/internal/conformance"
	"github.com/verity-lang/verity/internal/errors"
	"github.com/verity-lang/verity/internal/types"
	"github.com/verity-lang/verity/internal/types/modcache"
)

// Version is the compiler version stamped into modcache records and
// printed by -version; set by ldflags during a real build, like the
// teacher's cmd/ailang Version var.
var Version = "0.1.0"

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag     = flag.Bool("version", false, "Print version information")
		traceFlag       = flag.Bool("trace", false, "Enable subtyping/unification trace output")
		jsonFlag        = flag.Bool("json", false, "Emit diagnostics as JSON reports instead of text")
		cacheDir        = flag.String("cache-dir", "", "Directory to persist a compiled-module record in (skipped if empty)")
		conformanceFlag = flag.Bool("conformance", false, "Run the spec.md §8 scenario suite and print a schema.TestV1 report instead of the demo program")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("verity %s\n", bold(Version))
		return
	}
	if *conformanceFlag {
		runConformance()
		return
	}
	if *traceFlag {
		types.DefaultTracer.Enable()
		defer types.DefaultTracer.Disable()
	}

	prog := demoProgram()
	c := checker.NewChecker()
	out := c.CheckProgram(prog)

	sid := uuid.New().String()
	reports := errors.FromErrorList("typecheck", sid, out.Errs)

	if *jsonFlag {
		for _, r := range reports {
			j, _ := r.ToJSON(true)
			fmt.Println(j)
		}
	} else {
		printReports(reports)
	}

	if *cacheDir != "" {
		persist(*cacheDir, len(reports))
	}
	if len(reports) == 0 {
		fmt.Println(green("ok") + ": demo program type-checks cleanly")
	} else {
		fmt.Printf("%s: %d diagnostic(s)\n", red("fail"), len(reports))
		os.Exit(1)
	}
}

// runConformance runs internal/conformance's spec.md §8 scenario suite
// and prints the resulting schema.TestV1 report as JSON, exiting nonzero
// if any scenario failed.
func runConformance() {
	report := conformance.Run(conformance.DefaultSuite())
	j, err := report.ToJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}
	fmt.Println(string(j))
	if report.Counts.Failed > 0 {
		os.Exit(1)
	}
}

func printReports(reports []*errors.Report) {
	for _, r := range reports {
		loc := "<unknown>"
		if r.Span != nil {
			loc = fmt.Sprintf("%s:%d:%d", r.Span.Start.File, r.Span.Start.Line, r.Span.Start.Column)
		}
		fmt.Printf("%s %s: %s\n", yellow(r.Code), loc, r.Message)
	}
}

// demoProgram builds two declarations exercising spec.md §8 S1 (a Nat
// parameter returned where an Int return type is declared) and a
// deliberately ill-typed declaration, so the demo always has at least one
// diagnostic to show the -json/text reporting paths.
func demoProgram() *ast.Program {
	pos := ast.Pos{File: "demo.vt", Line: 1, Column: 1}

	widen := &ast.FuncDecl{
		Name:       "widen",
		Params:     []*ast.Param{{Kind: ast.ParamVar, Name: "x", Type: &ast.NamedType{Name: "Nat"}, Pos: pos}},
		ReturnType: &ast.NamedType{Name: "Int"},
		Body:       &ast.Identifier{Name: "x", Pos: pos},
		Pos:        pos,
	}

	mismatch := &ast.FuncDecl{
		Name:       "mismatch",
		Params:     []*ast.Param{{Kind: ast.ParamVar, Name: "y", Type: &ast.NamedType{Name: "Int"}, Pos: pos}},
		ReturnType: &ast.NamedType{Name: "Str"},
		Body:       &ast.Identifier{Name: "y", Pos: pos},
		Pos:        pos,
	}

	return &ast.Program{File: &ast.File{
		Path:  "demo.vt",
		Pos:   pos,
		Decls: []ast.Decl{widen, mismatch},
	}}
}

// persist stamps the current run as a modcache.Record, demonstrating the
// domain-stack wiring SPEC_FULL.md describes: a semver-qualified,
// uuid-keyed compiled-module cache entry.
func persist(dir string, diags int) {
	ver, err := semver.NewVersion(Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: invalid compiler version %q: %v\n", red("error"), Version, err)
		return
	}
	cache, err := modcache.NewCache(dir, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		return
	}
	rec, err := cache.Put("demo", ver, types.MString{V: fmt.Sprintf("demo.vt checked, %d diagnostic(s)", diags)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		return
	}
	fmt.Printf("cached module %q as session %s\n", rec.ModulePath, rec.SessionID)
}
