package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verity-lang/verity/internal/ast"
	"github.com/verity-lang/verity/internal/types"
)

func TestTypedVarString(t *testing.T) {
	v := TypedVar{
		TypedExpr: TypedExpr{Type: types.Nat},
		Name:      "x",
		Info:      VarInfo{Visibility: ast.Public, Kind: types.VarLocal},
	}
	assert.Contains(t, v.String(), "x")
	assert.Same(t, types.Nat, v.GetType())
}

func TestTypedLetCarriesOptionalScheme(t *testing.T) {
	inner := TypedLit{TypedExpr: TypedExpr{Type: types.Int}, Kind: ast.IntLit, Value: 1}
	let := TypedLet{
		TypedExpr: TypedExpr{Type: types.Int},
		Name:      "n",
		Scheme:    nil,
		Value:     inner,
		Body:      inner,
	}
	assert.Equal(t, types.Int, let.GetType())
	assert.Contains(t, let.String(), "n")
}

func TestTypedMatchTracksExhaustiveness(t *testing.T) {
	scrut := TypedLit{TypedExpr: TypedExpr{Type: types.Bool}, Kind: ast.BoolLit, Value: true}
	m := TypedMatch{
		TypedExpr: TypedExpr{Type: types.NoneType},
		Scrutinee: scrut,
		Arms: []TypedMatchArm{
			{Pattern: TypedLitPattern{Value: true, Type: types.Bool}, Body: scrut},
			{Pattern: TypedLitPattern{Value: false, Type: types.Bool}, Body: scrut},
		},
		Exhaustive: true,
	}
	assert.True(t, m.Exhaustive)
	assert.Len(t, m.Arms, 2)
}

func TestPrintTypedProgramJoinsDeclsWithNewlines(t *testing.T) {
	prog := &TypedProgram{
		Decls: []TypedNode{
			TypedLit{TypedExpr: TypedExpr{Type: types.Int}, Kind: ast.IntLit, Value: 1},
			TypedLit{TypedExpr: TypedExpr{Type: types.Int}, Kind: ast.IntLit, Value: 2},
		},
		Errs: types.NewErrorList(),
	}
	out := PrintTypedProgram(prog)
	assert.Contains(t, out, "1 :")
	assert.Contains(t, out, "2 :")
	assert.Equal(t, 0, prog.Errs.Len())
}
