package types

import "fmt"

// Predicate constrains a refinement type's binder (spec.md §3.4).
type Predicate interface {
	predicateNode()
	String() string
}

// PValue is a literal boolean predicate, used for tautology/absurdity
// results produced when And/Or short-circuit during construction.
type PValue struct{ B bool }

// PConst references a named boolean constant (e.g. a class-level invariant).
type PConst struct{ Name string }

// PEqual, PNotEqual, PGreaterEqual, PLessEqual compare the refinement
// binder (by name) against a type-parameter-valued right-hand side.
type PEqual struct {
	Lhs string
	Rhs TyParam
}
type PNotEqual struct {
	Lhs string
	Rhs TyParam
}
type PGreaterEqual struct {
	Lhs string
	Rhs TyParam
}
type PLessEqual struct {
	Lhs string
	Rhs TyParam
}

type PAnd struct{ P, Q Predicate }
type POr struct{ P, Q Predicate }
type PNot struct{ P Predicate }

func (PValue) predicateNode()        {}
func (PConst) predicateNode()        {}
func (PEqual) predicateNode()        {}
func (PNotEqual) predicateNode()     {}
func (PGreaterEqual) predicateNode() {}
func (PLessEqual) predicateNode()    {}
func (PAnd) predicateNode()          {}
func (POr) predicateNode()           {}
func (PNot) predicateNode()          {}

func (p PValue) String() string { return fmt.Sprintf("%v", p.B) }
func (p PConst) String() string { return p.Name }
func (p PEqual) String() string { return fmt.Sprintf("%s == %s", p.Lhs, p.Rhs) }
func (p PNotEqual) String() string {
	return fmt.Sprintf("%s != %s", p.Lhs, p.Rhs)
}
func (p PGreaterEqual) String() string {
	return fmt.Sprintf("%s >= %s", p.Lhs, p.Rhs)
}
func (p PLessEqual) String() string {
	return fmt.Sprintf("%s <= %s", p.Lhs, p.Rhs)
}
func (p PAnd) String() string { return fmt.Sprintf("(%s and %s)", p.P, p.Q) }
func (p POr) String() string  { return fmt.Sprintf("(%s or %s)", p.P, p.Q) }
func (p PNot) String() string { return fmt.Sprintf("not %s", p.P) }

// NewAnd builds a conjunction, short-circuiting on a constant operand
// (spec.md §3.4: "And/Or short-circuit on constant boolean operands
// during construction").
func NewAnd(p, q Predicate) Predicate {
	if v, ok := p.(PValue); ok {
		if !v.B {
			return PValue{false}
		}
		return q
	}
	if v, ok := q.(PValue); ok {
		if !v.B {
			return PValue{false}
		}
		return p
	}
	return PAnd{p, q}
}

// NewOr builds a disjunction with the dual short-circuit rule.
func NewOr(p, q Predicate) Predicate {
	if v, ok := p.(PValue); ok {
		if v.B {
			return PValue{true}
		}
		return q
	}
	if v, ok := q.(PValue); ok {
		if v.B {
			return PValue{true}
		}
		return p
	}
	return POr{p, q}
}

// NewNot builds a negation, folding double negation and constant operands.
func NewNot(p Predicate) Predicate {
	switch v := p.(type) {
	case PValue:
		return PValue{!v.B}
	case PNot:
		return v.P
	default:
		return PNot{p}
	}
}

// SubstitutePred replaces type-parameter occurrences inside a predicate
// using the supplied replacement function (used by the instantiation
// engine, spec.md §4.2: "instantiate ... every type parameter inside each
// predicate").
func SubstitutePred(p Predicate, f func(TyParam) TyParam) Predicate {
	switch v := p.(type) {
	case PValue, PConst:
		return v
	case PEqual:
		return PEqual{v.Lhs, f(v.Rhs)}
	case PNotEqual:
		return PNotEqual{v.Lhs, f(v.Rhs)}
	case PGreaterEqual:
		return PGreaterEqual{v.Lhs, f(v.Rhs)}
	case PLessEqual:
		return PLessEqual{v.Lhs, f(v.Rhs)}
	case PAnd:
		return NewAnd(SubstitutePred(v.P, f), SubstitutePred(v.Q, f))
	case POr:
		return NewOr(SubstitutePred(v.P, f), SubstitutePred(v.Q, f))
	case PNot:
		return NewNot(SubstitutePred(v.P, f))
	default:
		panic(fmt.Sprintf("predicate: unhandled shape %T", p))
	}
}

// PredicateEquals is a syntactic (not semantic) equality check used for
// canonical ordering and cache keys (spec.md §3.4: "syntactic ordering").
func PredicateEquals(a, b Predicate) bool {
	return a.String() == b.String()
}
