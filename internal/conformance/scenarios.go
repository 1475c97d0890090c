package conformance

import (
	"fmt"

	"github.com/verity-lang/verity/internal/ast"
	"github.com/verity-lang/verity/internal/types"
)

func file(pos ast.Pos, decls ...ast.Decl) *ast.Program {
	return &ast.Program{File: &ast.File{Path: pos.File, Pos: pos, Decls: decls}}
}

func named(name string) *ast.NamedType { return &ast.NamedType{Name: name} }

// DefaultSuite is the spec.md §8 scenario set this repo's conformance
// report runs by default: the widening/mismatch pair cmd/verity's demo
// already exercises (S1), trait completeness (S6), and the call-site
// arity/keyword family expr.go's inferFuncCall implements (spec.md §7).
func DefaultSuite() []Scenario {
	return []Scenario{natWidensToInt(), returnTypeMismatch(), traitMemberNotImplemented(), callArgsMissing(), callMultipleArgs()}
}

func singleCode(wantCode string) func(*types.ErrorList) (bool, string) {
	return func(errs *types.ErrorList) (bool, string) {
		if errs.Len() != 1 {
			return false, fmt.Sprintf("expected exactly 1 diagnostic, got %d", errs.Len())
		}
		got := errs.Errors()[0].Code()
		if got != wantCode {
			return false, fmt.Sprintf("expected %s, got %s (%s)", wantCode, got, errs.Errors()[0].Error())
		}
		return true, ""
	}
}

// natWidensToInt is spec.md §8 S1: a Nat-typed parameter returned where an
// Int return type is declared type-checks with no diagnostics.
func natWidensToInt() Scenario {
	pos := ast.Pos{File: "s1.vt", Line: 1, Column: 1}
	return Scenario{
		Suite: "spec-scenarios", Name: "S1-nat-widens-to-int",
		Build: func() *ast.Program {
			widen := &ast.FuncDecl{
				Name:       "widen",
				Params:     []*ast.Param{{Kind: ast.ParamVar, Name: "x", Type: named("Nat"), Pos: pos}},
				ReturnType: named("Int"),
				Body:       &ast.Identifier{Name: "x", Pos: pos},
				Pos:        pos,
			}
			return file(pos, widen)
		},
		Check: func(errs *types.ErrorList) (bool, string) {
			if errs.Len() != 0 {
				return false, fmt.Sprintf("expected a clean check, got %d diagnostic(s)", errs.Len())
			}
			return true, ""
		},
	}
}

// returnTypeMismatch is the negative half of the same S1 declaration
// shape: returning an Int-typed parameter where Str is declared is a
// SubtypingError (TYC003).
func returnTypeMismatch() Scenario {
	pos := ast.Pos{File: "s1-neg.vt", Line: 1, Column: 1}
	return Scenario{
		Suite: "spec-scenarios", Name: "S1-return-type-mismatch",
		Build: func() *ast.Program {
			mismatch := &ast.FuncDecl{
				Name:       "mismatch",
				Params:     []*ast.Param{{Kind: ast.ParamVar, Name: "y", Type: named("Int"), Pos: pos}},
				ReturnType: named("Str"),
				Body:       &ast.Identifier{Name: "y", Pos: pos},
				Pos:        pos,
			}
			return file(pos, mismatch)
		},
		Check: singleCode("TYC003"),
	}
}

// traitMemberNotImplemented is spec.md §8 S6: a class claiming a trait it
// does not fully implement reports TraitMemberNotDefinedError (TYC019).
func traitMemberNotImplemented() Scenario {
	pos := ast.Pos{File: "s6.vt", Line: 1, Column: 1}
	return Scenario{
		Suite: "spec-scenarios", Name: "S6-trait-member-not-implemented",
		Build: func() *ast.Program {
			trait := &ast.TraitDecl{
				Name: "Speak",
				Members: []*ast.TraitMember{
					{Name: "f", Type: &ast.SubrTypeSpec{Return: named("Int")}, Pos: pos},
				},
				Pos: pos,
			}
			class := &ast.ClassDecl{
				Name:       "C",
				SuperTypes: []ast.TypeSpec{named("Speak")},
				Pos:        pos,
			}
			return file(pos, trait, class)
		},
		Check: singleCode("TYC019"),
	}
}

// callArgsMissing exercises expr.go's inferFuncCall arity check: calling
// a one-required-parameter function with no arguments reports
// ArgsMissingError (TYC012) rather than the generic NameError a bare
// "name not found" path would raise.
func callArgsMissing() Scenario {
	pos := ast.Pos{File: "call-missing.vt", Line: 1, Column: 1}
	return Scenario{
		Suite: "spec-scenarios", Name: "call-site-args-missing",
		Build: func() *ast.Program {
			f := &ast.FuncDecl{
				Name:       "f",
				Params:     []*ast.Param{{Kind: ast.ParamVar, Name: "x", Type: named("Int"), Pos: pos}},
				ReturnType: named("Int"),
				Body:       &ast.Identifier{Name: "x", Pos: pos},
				Pos:        pos,
			}
			caller := &ast.FuncDecl{
				Name:       "caller",
				ReturnType: named("Int"),
				Body:       &ast.FuncCall{Func: &ast.Identifier{Name: "f", Pos: pos}, Pos: pos},
				Pos:        pos,
			}
			return file(pos, f, caller)
		},
		Check: singleCode("TYC012"),
	}
}

// callMultipleArgs exercises the keyword-argument loop's duplicate-binding
// check: passing the same parameter positionally and by keyword reports
// MultipleArgsError (TYC014).
func callMultipleArgs() Scenario {
	pos := ast.Pos{File: "call-multi.vt", Line: 1, Column: 1}
	return Scenario{
		Suite: "spec-scenarios", Name: "call-site-multiple-args",
		Build: func() *ast.Program {
			f := &ast.FuncDecl{
				Name:       "f",
				Params:     []*ast.Param{{Kind: ast.ParamVar, Name: "x", Type: named("Int"), Pos: pos}},
				ReturnType: named("Int"),
				Body:       &ast.Identifier{Name: "x", Pos: pos},
				Pos:        pos,
			}
			caller := &ast.FuncDecl{
				Name:       "caller",
				ReturnType: named("Int"),
				Body: &ast.FuncCall{
					Func: &ast.Identifier{Name: "f", Pos: pos},
					Args: []ast.Expr{&ast.Literal{Kind: ast.IntLit, Value: int64(1), Pos: pos}},
					KeywordArgs: []*ast.KeywordArg{
						{Name: "x", Value: &ast.Literal{Kind: ast.IntLit, Value: int64(2), Pos: pos}, Pos: pos},
					},
					Pos: pos,
				},
				Pos: pos,
			}
			return file(pos, f, caller)
		},
		Check: singleCode("TYC014"),
	}
}
