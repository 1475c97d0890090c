package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUnifyTwoVarsCombinesBounds is spec.md §4.3 case 4: unifying two
// unlinked sandwiched free variables combines their bounds
// (intersec = lsup ∧ rsup, union = lsub ∨ rsub) rather than discarding one
// side's bound via a bare one-way link.
func TestUnifyTwoVarsCombinesBounds(t *testing.T) {
	ctx := NewRootContext()
	a := NewUnboundCell(1, Sandwiched(Nat, Obj))
	b := NewUnboundCell(0, Sandwiched(Int, Obj))
	av, bv := &FreeVar{Cell: a}, &FreeVar{Cell: b}

	errs := NewErrorList()
	unifyTwoVars(ctx, av, bv, SourceLoc{}, errs)
	require.Equal(t, 0, errs.Len(), "combining two satisfiable sandwiches must not error")

	// The deeper-level cell (a, level 1) is linked away; the shallower one
	// (b, level 0) survives and carries the combined bound.
	assert.True(t, a.IsLinked(), "deeper-level variable must be linked to the survivor")
	assert.False(t, b.IsLinked(), "shallower-level variable must survive, not be linked away")

	sub, sup := boundsOf(bv)
	assert.True(t, SupertypeOf(ctx, sup, Obj) && SupertypeOf(ctx, Obj, sup), "combined upper bound must be Obj ∧ Obj = Obj")
	assert.True(t, SupertypeOf(ctx, sub, Nat), "combined lower bound must subsume Nat")
	assert.True(t, SupertypeOf(ctx, sub, Int), "combined lower bound must subsume Int")
}

// TestUnifyTwoVarsRejectsUnsatisfiableCombination is the negative half of
// spec.md §4.3 case 4: if the combined upper bound (intersec) collapses to
// Never while something must still be a subtype of it, the two variables'
// constraints are jointly unsatisfiable and a SubtypingError is raised
// instead of silently linking one cell to the other.
func TestUnifyTwoVarsRejectsUnsatisfiableCombination(t *testing.T) {
	ctx := NewRootContext()
	// a is already pinned to exactly Never (Sandwiched(Never, Never) is a
	// valid, if degenerate, bound: Never <: ?a <: Never forces ?a ≅ Never).
	a := NewUnboundCell(0, Sandwiched(Never, Never))
	// b requires at least Int as a lower bound.
	b := NewUnboundCell(0, Sandwiched(Int, Obj))
	av, bv := &FreeVar{Cell: a}, &FreeVar{Cell: b}

	errs := NewErrorList()
	unifyTwoVars(ctx, av, bv, SourceLoc{}, errs)
	require.Equal(t, 1, errs.Len(), "Int <: ?X <: Never is unsatisfiable and must be reported")
	_, ok := errs.Errors()[0].(*SubtypingError)
	assert.True(t, ok, "expected a SubtypingError, got %T", errs.Errors()[0])

	assert.False(t, a.IsLinked(), "an unsatisfiable combination must leave both cells unlinked")
	assert.False(t, b.IsLinked(), "an unsatisfiable combination must leave both cells unlinked")
}

// TestNominalSubUnifyViaSuperTrait exercises the differently-named Poly
// case: Pair(Int) <: Container(Int) holds because Pair declares
// Container(T) as a super trait, and the trait instance's own parameter
// unifies against the expectation's.
func TestNominalSubUnifyViaSuperTrait(t *testing.T) {
	ctx := NewRootContext()
	elem := NewNamedFreeVar("T", GenericLevel, Sandwiched(Never, Obj))
	ctx.DeclareNominal(&NominalContext{
		Name:        "Pair",
		SuperTraits: []Type{&Poly{Name: "Container", Params: []TyParam{TPType{T: elem}}}},
		Variance:    []Variance{Covariant},
	})
	ctx.DeclareNominal(&NominalContext{
		Name:     "Container",
		IsTrait:  true,
		Variance: []Variance{Covariant},
	})

	pair := &Poly{Name: "Pair", Params: []TyParam{TPType{T: Int}}}
	want := &Poly{Name: "Container", Params: []TyParam{TPType{T: Int}}}

	errs := NewErrorList()
	SubUnify(ctx, pair, want, SourceLoc{}, "", errs)
	assert.Equal(t, 0, errs.Len(), "Pair(Int) must fit a Container(Int) expectation via its declared super trait")

	unrelated := &Poly{Name: "Sink", Params: []TyParam{TPType{T: Int}}}
	errs2 := NewErrorList()
	SubUnify(ctx, pair, unrelated, SourceLoc{}, "", errs2)
	require.Equal(t, 1, errs2.Len())
	_, ok := errs2.Errors()[0].(*SubtypingError)
	assert.True(t, ok, "a Poly with no matching super trait must raise a SubtypingError, got %T", errs2.Errors()[0])
}

// TestSubUnifyPredInterval is the ≥-against-interval rule: a bare lower
// bound on the sub side unifies the interval's lower operand and resolves
// the upper operand to Inf.
func TestSubUnifyPredInterval(t *testing.T) {
	ctx := NewRootContext()
	lo := TPVar{Cell: NewNamedUnboundCell("lo", 0, Sandwiched(Never, Obj))}
	hi := TPVar{Cell: NewNamedUnboundCell("hi", 0, Sandwiched(Never, Obj))}
	sup := PAnd{
		P: PGreaterEqual{Lhs: "x", Rhs: lo},
		Q: PLessEqual{Lhs: "x", Rhs: hi},
	}
	sub := PGreaterEqual{Lhs: "x", Rhs: TPValue{V: IntValue{V: 0}}}

	errs := NewErrorList()
	SubUnifyPred(ctx, sub, sup, SourceLoc{}, errs)
	require.Equal(t, 0, errs.Len())

	assert.True(t, TyParamEquals(lo, TPValue{V: IntValue{V: 0}}), "interval lower bound must resolve to the sub side's operand")
	assert.True(t, TyParamEquals(hi, TPType{T: Inf}), "interval upper bound must resolve to Inf")
}

// TestSubUnifyPredMismatchedShapes: predicates of different shapes with no
// interval rule applicable report a PredicateUnificationError.
func TestSubUnifyPredMismatchedShapes(t *testing.T) {
	ctx := NewRootContext()
	sub := PEqual{Lhs: "x", Rhs: TPValue{V: IntValue{V: 1}}}
	sup := PNotEqual{Lhs: "x", Rhs: TPValue{V: IntValue{V: 1}}}

	errs := NewErrorList()
	SubUnifyPred(ctx, sub, sup, SourceLoc{}, errs)
	require.Equal(t, 1, errs.Len())
	_, ok := errs.Errors()[0].(*PredicateUnificationError)
	assert.True(t, ok)
}

// TestReunifyRefMutAdoptsAfter covers the mutable-borrow post-state rule:
// an absent After on the already-typed side adopts the new side's After,
// and a later conflicting After is a ReUnificationError.
func TestReunifyRefMutAdoptsAfter(t *testing.T) {
	ctx := NewRootContext()
	old := &RefMut{Before: Int}
	first := &RefMut{Before: Int, After: Nat}

	errs := NewErrorList()
	Reunify(ctx, old, first, SourceLoc{}, errs)
	require.Equal(t, 0, errs.Len())
	assert.True(t, TypesEqual(old.After, Nat), "first write wins the post-state shape")

	conflicting := &RefMut{Before: Int, After: Str}
	errs2 := NewErrorList()
	Reunify(ctx, old, conflicting, SourceLoc{}, errs2)
	require.Equal(t, 1, errs2.Len())
	_, ok := errs2.Errors()[0].(*ReUnificationError)
	assert.True(t, ok)
}

// TestSubUnifyGeneralizedVarsOpaque: a generalized variable reached without
// instantiation is left untouched rather than acquiring bounds.
func TestSubUnifyGeneralizedVarsOpaque(t *testing.T) {
	ctx := NewRootContext()
	gv := NewNamedFreeVar("T", GenericLevel, Sandwiched(Never, Obj))

	errs := NewErrorList()
	SubUnify(ctx, Int, gv, SourceLoc{}, "", errs)
	assert.Equal(t, 0, errs.Len())
	assert.False(t, gv.Cell.IsLinked())
	c := gv.Cell.GetConstraint()
	assert.True(t, TypesEqual(c.Sub, Never) && TypesEqual(c.Sup, Obj), "a generalized variable's declared bound must not move")
}
