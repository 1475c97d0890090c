package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verity-lang/verity/internal/ast"
	"github.com/verity-lang/verity/internal/hir"
	"github.com/verity-lang/verity/internal/types"
)

// TestNatArgumentToIntParam is spec.md §8 S1: calling f(1) where
// f: (Int) -> Int type-checks, and the literal argument's own inferred
// type is Nat (not widened at the call site).
func TestNatArgumentToIntParam(t *testing.T) {
	c := NewChecker()
	ctx := types.NewRootContext()
	fSig := &types.Subr{Kind: types.SubrFunc, NonDefaultPs: []types.Param{{Name: "x", Type: types.Int}}, Return: types.Int}
	ctx.Declare("f", types.VarInfo{Type: fSig, Kind: types.VarConstant})

	call := &ast.FuncCall{
		Func: &ast.Identifier{Name: "f"},
		Args: []ast.Expr{&ast.Literal{Kind: ast.NatLit, Value: uint64(1)}},
	}

	node, resultT := c.inferFuncCall(ctx, call, 0)
	require.Equal(t, 0, c.errs.Len(), "f(1) must type-check with no errors")
	assert.True(t, types.SameTypeOf(ctx, resultT, types.Int))

	app, ok := node.(hir.TypedApp)
	require.True(t, ok)
	require.Len(t, app.Args, 1)
	argLit, ok := app.Args[0].(hir.TypedLit)
	require.True(t, ok)
	assert.True(t, types.SameTypeOf(ctx, argLit.Type, types.Nat), "the literal argument's own inferred type stays Nat")
}

// TestRefinementStructuralSubtype is spec.md §8 S2: a value of a refined
// Int is accepted where a plain Int is expected; the reverse direction is
// rejected with a SubtypingError naming the two whole types.
func TestRefinementStructuralSubtype(t *testing.T) {
	refinement := &types.Refinement{
		Base: types.Int, Var: "n",
		Preds: []types.Predicate{types.PGreaterEqual{Lhs: "n", Rhs: types.TPValue{V: types.IntValue{V: 0}}}},
	}

	t.Run("refinement accepted where Int is expected", func(t *testing.T) {
		c := NewChecker()
		ctx := types.NewRootContext()
		ctx.Declare("x", types.VarInfo{Type: refinement, Kind: types.VarLocal})
		c.checkExprAgainst(ctx, &ast.Identifier{Name: "x"}, types.Int)
		assert.Equal(t, 0, c.errs.Len())
	})

	t.Run("plain Int rejected where refinement is expected", func(t *testing.T) {
		c := NewChecker()
		ctx := types.NewRootContext()
		ctx.Declare("y", types.VarInfo{Type: types.Int, Kind: types.VarLocal})
		c.checkExprAgainst(ctx, &ast.Identifier{Name: "y"}, refinement)
		require.Equal(t, 1, c.errs.Len())
		subErr, ok := c.errs.Errors()[0].(*types.SubtypingError)
		require.True(t, ok, "expected a SubtypingError, got %T", c.errs.Errors()[0])
		assert.True(t, types.SameTypeOf(ctx, subErr.Sub, types.Int))
		assert.Same(t, refinement, subErr.Sup)
	})
}

// TestTraitMemberNotImplemented is spec.md §8 S6: a class declared to
// implement a trait whose member it does not define is reported with a
// TraitMemberNotDefinedError naming the member, trait, and class.
func TestTraitMemberNotImplemented(t *testing.T) {
	c := NewChecker()
	ctx := types.NewRootContext()

	trait := &ast.TraitDecl{
		Name: "Speak",
		Members: []*ast.TraitMember{
			{Name: "f", Type: &ast.SubrTypeSpec{Return: &ast.NamedType{Name: "Int"}}},
		},
	}
	c.registerTrait(ctx, trait)

	class := &ast.ClassDecl{
		Name:       "C",
		SuperTypes: []ast.TypeSpec{&ast.NamedType{Name: "Speak"}},
	}
	c.registerClass(ctx, class)

	require.Equal(t, 1, c.errs.Len())
	missing, ok := c.errs.Errors()[0].(*types.TraitMemberNotDefinedError)
	require.True(t, ok, "expected a TraitMemberNotDefinedError, got %T", c.errs.Errors()[0])
	assert.Equal(t, "f", missing.Member)
	assert.Equal(t, "Speak", missing.Trait)
	assert.Equal(t, "C", missing.Type.String())
}

// TestBoundedTypeParamCall: a signature's declared type-parameter bound
// survives instantiation at the call site — `|T <: Int| (T) -> T` accepts
// a Nat argument and rejects a Str one.
func TestBoundedTypeParamCall(t *testing.T) {
	build := func() (*Checker, *types.Context) {
		c := NewChecker()
		ctx := types.NewRootContext()
		decl := &ast.FuncDecl{
			Name:       "clamp",
			TypeParams: []string{"T"},
			Bounds:     []*ast.TypeParamDecl{{Name: "T", Kind: ast.BoundSub, Bound: &ast.NamedType{Name: "Int"}}},
			Params:     []*ast.Param{{Kind: ast.ParamVar, Name: "x", Type: &ast.TypeVarSpec{Name: "T"}}},
			ReturnType: &ast.TypeVarSpec{Name: "T"},
			Body:       &ast.Identifier{Name: "x"},
		}
		c.checkFuncDecl(ctx, decl)
		require.Equal(t, 0, c.errs.Len(), "declaring the bounded signature must not error")
		return c, ctx
	}

	t.Run("argument under the bound accepted", func(t *testing.T) {
		c, ctx := build()
		call := &ast.FuncCall{Func: &ast.Identifier{Name: "clamp"}, Args: []ast.Expr{&ast.Literal{Kind: ast.NatLit, Value: uint64(1)}}}
		c.inferFuncCall(ctx, call, 0)
		assert.Equal(t, 0, c.errs.Len())
	})

	t.Run("argument outside the bound rejected", func(t *testing.T) {
		c, ctx := build()
		call := &ast.FuncCall{Func: &ast.Identifier{Name: "clamp"}, Args: []ast.Expr{&ast.Literal{Kind: ast.StringLit, Value: "s"}}}
		c.inferFuncCall(ctx, call, 0)
		assert.GreaterOrEqual(t, c.errs.Len(), 1, "Str does not satisfy T <: Int")
	})
}

// TestCallArityAndKeywordErrors is spec.md §7's call-site arity/keyword
// taxonomy (ArgsMissingError, TooManyArgsError, MultipleArgsError,
// DefaultParamError, DefaultParamNotFoundError, UnexpectedKwArgError): each
// gets its own scenario against one callee with both a required and a
// default parameter.
func TestCallArityAndKeywordErrors(t *testing.T) {
	newCtx := func() (*Checker, *types.Context) {
		c := NewChecker()
		ctx := types.NewRootContext()
		fSig := &types.Subr{
			Kind:         types.SubrFunc,
			NonDefaultPs: []types.Param{{Name: "x", Type: types.Int}},
			DefaultPs:    []types.Param{{Name: "verbose", Type: types.Bool}},
			Return:       types.Int,
		}
		ctx.Declare("f", types.VarInfo{Type: fSig, Kind: types.VarConstant})
		return c, ctx
	}
	lit := func(v int64) ast.Expr { return &ast.Literal{Kind: ast.IntLit, Value: v} }
	boolLit := func(v bool) ast.Expr { return &ast.Literal{Kind: ast.BoolLit, Value: v} }

	t.Run("missing required argument", func(t *testing.T) {
		c, ctx := newCtx()
		call := &ast.FuncCall{Func: &ast.Identifier{Name: "f"}}
		c.inferFuncCall(ctx, call, 0)
		require.Equal(t, 1, c.errs.Len())
		missing, ok := c.errs.Errors()[0].(*types.ArgsMissingError)
		require.True(t, ok, "expected ArgsMissingError, got %T", c.errs.Errors()[0])
		assert.Equal(t, []string{"x"}, missing.Missing)
	})

	t.Run("too many positional arguments", func(t *testing.T) {
		c, ctx := newCtx()
		call := &ast.FuncCall{Func: &ast.Identifier{Name: "f"}, Args: []ast.Expr{lit(1), boolLit(true), lit(3)}}
		c.inferFuncCall(ctx, call, 0)
		require.Equal(t, 1, c.errs.Len())
		_, ok := c.errs.Errors()[0].(*types.TooManyArgsError)
		assert.True(t, ok, "expected TooManyArgsError, got %T", c.errs.Errors()[0])
	})

	t.Run("same parameter given positionally and by keyword", func(t *testing.T) {
		c, ctx := newCtx()
		call := &ast.FuncCall{
			Func:        &ast.Identifier{Name: "f"},
			Args:        []ast.Expr{lit(1)},
			KeywordArgs: []*ast.KeywordArg{{Name: "x", Value: lit(2)}},
		}
		c.inferFuncCall(ctx, call, 0)
		require.Equal(t, 1, c.errs.Len())
		dup, ok := c.errs.Errors()[0].(*types.MultipleArgsError)
		require.True(t, ok, "expected MultipleArgsError, got %T", c.errs.Errors()[0])
		assert.Equal(t, "x", dup.Param)
	})

	t.Run("keyword override of a non-default parameter", func(t *testing.T) {
		c, ctx := newCtx()
		call := &ast.FuncCall{
			Func:        &ast.Identifier{Name: "f"},
			KeywordArgs: []*ast.KeywordArg{{Name: "x", Value: lit(1)}},
		}
		c.inferFuncCall(ctx, call, 0)
		require.GreaterOrEqual(t, c.errs.Len(), 1)
		_, ok := c.errs.Errors()[0].(*types.DefaultParamError)
		assert.True(t, ok, "expected DefaultParamError, got %T", c.errs.Errors()[0])
	})

	t.Run("misspelled default parameter name suggests the real one", func(t *testing.T) {
		c, ctx := newCtx()
		call := &ast.FuncCall{
			Func:        &ast.Identifier{Name: "f"},
			Args:        []ast.Expr{lit(1)},
			KeywordArgs: []*ast.KeywordArg{{Name: "verbse", Value: boolLit(true)}},
		}
		c.inferFuncCall(ctx, call, 0)
		require.Equal(t, 1, c.errs.Len())
		notFound, ok := c.errs.Errors()[0].(*types.DefaultParamNotFoundError)
		require.True(t, ok, "expected DefaultParamNotFoundError, got %T", c.errs.Errors()[0])
		assert.Equal(t, "verbose", notFound.Suggestion)
	})

	t.Run("unrelated keyword name", func(t *testing.T) {
		c, ctx := newCtx()
		call := &ast.FuncCall{
			Func:        &ast.Identifier{Name: "f"},
			Args:        []ast.Expr{lit(1)},
			KeywordArgs: []*ast.KeywordArg{{Name: "zzzzz", Value: boolLit(true)}},
		}
		c.inferFuncCall(ctx, call, 0)
		require.Equal(t, 1, c.errs.Len())
		_, ok := c.errs.Errors()[0].(*types.UnexpectedKwArgError)
		assert.True(t, ok, "expected UnexpectedKwArgError, got %T", c.errs.Errors()[0])
	})
}
