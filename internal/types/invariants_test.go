package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closedSamples is a representative spread of closed (variable-free) types
// used to check invariants that must hold for every T, not just primitives.
func closedSamples() []Type {
	subr := &Subr{Kind: SubrFunc, NonDefaultPs: []Param{{Name: "x", Type: Int}}, Return: Bool}
	rec := &Record{Fields: map[string]RecordField{"n": {Vis: FieldPublic, Type: Nat}}}
	arr := &Poly{Name: "Array", Params: []TyParam{TPType{T: Int}, TPValue{V: IntValue{V: 3}}}}
	ref := &Refinement{Base: Int, Var: "x", Preds: []Predicate{PGreaterEqual{Lhs: "x", Rhs: TPValue{V: IntValue{V: 0}}}}}
	return []Type{Obj, Never, Bool, Nat, Int, Float, Ratio, Str, subr, rec, arr, ref}
}

// TestReflexivity is spec.md §8 universal invariant 1.
func TestReflexivity(t *testing.T) {
	ctx := NewRootContext()
	for _, ty := range closedSamples() {
		assert.Truef(t, SupertypeOf(ctx, ty, ty), "%s should be a supertype of itself", ty)
	}
}

// TestTopBottom is spec.md §8 universal invariant 2.
func TestTopBottom(t *testing.T) {
	ctx := NewRootContext()
	for _, ty := range closedSamples() {
		assert.Truef(t, SupertypeOf(ctx, Obj, ty), "Obj should be a supertype of %s", ty)
		assert.Truef(t, SupertypeOf(ctx, ty, Never), "%s should be a supertype of Never", ty)
	}
}

// TestNumericTower is spec.md §8 universal invariant 3.
func TestNumericTower(t *testing.T) {
	ctx := NewRootContext()
	assert.True(t, SupertypeOf(ctx, Float, Nat))
	assert.True(t, SupertypeOf(ctx, Int, Bool))
	assert.False(t, SupertypeOf(ctx, Nat, Int))
}

// TestCacheSoundness is spec.md §8 universal invariant 4: a cache hit must
// agree with what a full recomputation would produce.
func TestCacheSoundness(t *testing.T) {
	ResetSubtypeCache()
	ctx := NewRootContext()

	first := SupertypeOf(ctx, Int, Nat)
	cached, ok := lookupCache(Int, Nat)
	require.True(t, ok, "a cachable pair must be stored after the first evaluation")
	assert.Equal(t, first, cached)

	second := SupertypeOf(ctx, Int, Nat)
	assert.Equal(t, first, second)
}

// TestUndoCorrectness is spec.md §8 universal invariant 5: every trial link
// placed inside SupertypeOf is undone before it returns.
func TestUndoCorrectness(t *testing.T) {
	ctx := NewRootContext()
	fv := NewFreeVar(0, Sandwiched(Never, Obj))

	result := SupertypeOf(ctx, fv, Int)

	assert.True(t, result, "Obj ceiling makes ?X a supertype of anything")
	assert.False(t, fv.Cell.IsLinked(), "trial link must be undone after SupertypeOf returns")
}

// TestInstantiationFreshness is spec.md §8 universal invariant 6.
func TestInstantiationFreshness(t *testing.T) {
	gv := NewNamedFreeVar("T", GenericLevel, Sandwiched(Never, Obj))
	subr := &Subr{Kind: SubrFunc, NonDefaultPs: []Param{{Name: "x", Type: gv}}, Return: gv}
	q := &Quantified{Inner: subr}

	i1 := Instantiate(q, 0)
	i2 := Instantiate(q, 0)

	fv1, ok := i1.NonDefaultPs[0].Type.(*FreeVar)
	require.True(t, ok)
	fv2, ok := i2.NonDefaultPs[0].Type.(*FreeVar)
	require.True(t, ok)
	assert.NotSame(t, fv1.Cell, fv2.Cell, "two instantiations must allocate distinct fresh cells")
}

// TestInstantiationIdentity is spec.md §8 universal invariant 7.
func TestInstantiationIdentity(t *testing.T) {
	gv := NewNamedFreeVar("T", GenericLevel, Sandwiched(Never, Obj))
	subr := &Subr{Kind: SubrFunc, NonDefaultPs: []Param{{Name: "x", Type: gv}}, Return: gv}
	q := &Quantified{Inner: subr}

	i1 := Instantiate(q, 0)
	param, ok := i1.NonDefaultPs[0].Type.(*FreeVar)
	require.True(t, ok)
	ret, ok := i1.Return.(*FreeVar)
	require.True(t, ok)
	assert.Same(t, param.Cell, ret.Cell, "every occurrence of T within one instantiation must share a cell")
}

// TestSubUnificationMonotonicity is spec.md §8 universal invariant 8.
func TestSubUnificationMonotonicity(t *testing.T) {
	ctx := NewRootContext()
	errs := NewErrorList()
	va := NewFreeVar(0, Sandwiched(Never, Obj))

	SubUnify(ctx, va, Int, SourceLoc{}, "", errs)

	require.Equal(t, 0, errs.Len())
	assert.True(t, SubtypeOf(ctx, va, Int), "sub_unify(A, B) success must leave subtype_of(A, B) true")
}

// TestRefinementWidening is spec.md §8 universal invariant 9.
func TestRefinementWidening(t *testing.T) {
	ctx := NewRootContext()
	eq3 := &Refinement{Base: Int, Var: "x", Preds: []Predicate{PEqual{Lhs: "x", Rhs: TPValue{V: IntValue{V: 3}}}}}
	ge0 := &Refinement{Base: Int, Var: "x", Preds: []Predicate{PGreaterEqual{Lhs: "x", Rhs: TPValue{V: IntValue{V: 0}}}}}
	ge3 := &Refinement{Base: Int, Var: "x", Preds: []Predicate{PGreaterEqual{Lhs: "x", Rhs: TPValue{V: IntValue{V: 3}}}}}

	assert.True(t, SupertypeOf(ctx, ge0, eq3), "{x | x == 3} <: {x | x >= 0}")
	assert.False(t, SupertypeOf(ctx, ge3, ge0), "{x | x >= 0} <: {x | x >= 3} must not hold")
}

// TestUnionIntersectionDeMorgan is spec.md §8 universal invariant 10, checked
// against the real numeric tower rather than synthetic nominal stand-ins.
func TestUnionIntersectionDeMorgan(t *testing.T) {
	ctx := NewRootContext()

	union := &Or{Lhs: Nat, Rhs: Bool}
	assert.Equal(t, SupertypeOf(ctx, Int, Nat) && SupertypeOf(ctx, Int, Bool), SubtypeOf(ctx, union, Int))

	failingUnion := &Or{Lhs: Bool, Rhs: Int}
	assert.Equal(t, SupertypeOf(ctx, Nat, Bool) && SupertypeOf(ctx, Nat, Int), SubtypeOf(ctx, failingUnion, Nat))

	intersection := &And{Lhs: Int, Rhs: Obj}
	assert.Equal(t, SupertypeOf(ctx, Int, Nat) && SupertypeOf(ctx, Obj, Nat), SupertypeOf(ctx, intersection, Nat))

	failingIntersection := &And{Lhs: Int, Rhs: Bool}
	assert.Equal(t, SupertypeOf(ctx, Int, Nat) && SupertypeOf(ctx, Bool, Nat), SupertypeOf(ctx, failingIntersection, Nat))
}
