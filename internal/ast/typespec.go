package ast

import (
	"fmt"
	"strings"
)

// NamedType references a pre-declared nominal type by name, optionally
// applied to type-parameter arguments (e.g. `Array(Int, 3)`, `Show`).
type NamedType struct {
	Name   string
	Args   []Expr // type-parameter argument expressions, empty for a bare name
	Pos    Pos
}

func (n *NamedType) typeSpecNode() {}
func (n *NamedType) Position() Pos { return n.Pos }
func (n *NamedType) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ", "))
}

// TypeVarSpec is a lowercase/free type variable reference within a
// declaration's signature (e.g. the `T` in `id(x: T) -> T`).
type TypeVarSpec struct {
	Name string
	Pos  Pos
}

func (t *TypeVarSpec) typeSpecNode()  {}
func (t *TypeVarSpec) Position() Pos  { return t.Pos }
func (t *TypeVarSpec) String() string { return t.Name }

// BoundKind distinguishes a declared parameter's subtype/supertype/exact
// bound, e.g. `T <: Ord`, `T :> Nat`, `T: Eq`.
type BoundKind int

const (
	BoundSub BoundKind = iota // T <: U : T must be a subtype of U
	BoundSup                 // T :> U : T must be a supertype of U
	BoundEq                  // T: U   : T is typed as (typaram) U
)

// TypeParamDecl is a declared generic parameter with an optional bound and
// default.
type TypeParamDecl struct {
	Name    string
	Kind    BoundKind
	Bound   TypeSpec
	Default TypeSpec // nil if not defaulted
	Pos     Pos
}

func (t *TypeParamDecl) String() string {
	switch t.Kind {
	case BoundSub:
		if t.Bound != nil {
			return fmt.Sprintf("%s <: %s", t.Name, t.Bound)
		}
	case BoundSup:
		if t.Bound != nil {
			return fmt.Sprintf("%s :> %s", t.Name, t.Bound)
		}
	case BoundEq:
		if t.Bound != nil {
			return fmt.Sprintf("%s: %s", t.Name, t.Bound)
		}
	}
	return t.Name
}
func (t *TypeParamDecl) Position() Pos { return t.Pos }

// SubrTypeSpec is a subroutine type signature, with per-parameter bounds
// (spec.md §6: "subroutine (with per-parameter type bounds name <: T /
// name :> T / name: T and optional defaults)").
type SubrTypeSpec struct {
	IsProc     bool
	Params     []*TypeParamSig
	VarParam   *TypeParamSig
	DefaultPs  []*TypeParamSig
	Return     TypeSpec
	Pos        Pos
}

// TypeParamSig is one parameter slot inside a SubrTypeSpec.
type TypeParamSig struct {
	Name string
	Kind BoundKind
	Type TypeSpec
	Pos  Pos
}

func (p *TypeParamSig) String() string {
	switch p.Kind {
	case BoundSub:
		return fmt.Sprintf("%s <: %s", p.Name, p.Type)
	case BoundSup:
		return fmt.Sprintf("%s :> %s", p.Name, p.Type)
	default:
		return fmt.Sprintf("%s: %s", p.Name, p.Type)
	}
}

func (s *SubrTypeSpec) typeSpecNode() {}
func (s *SubrTypeSpec) Position() Pos { return s.Pos }
func (s *SubrTypeSpec) String() string {
	parts := make([]string, 0, len(s.Params)+len(s.DefaultPs)+1)
	for _, p := range s.Params {
		parts = append(parts, p.String())
	}
	if s.VarParam != nil {
		parts = append(parts, "*"+s.VarParam.String())
	}
	for _, p := range s.DefaultPs {
		parts = append(parts, p.String()+" := _")
	}
	arrow := "->"
	if s.IsProc {
		arrow = "=>"
	}
	return fmt.Sprintf("(%s) %s %s", strings.Join(parts, ", "), arrow, s.Return)
}

// ArrayTypeSpec, SetTypeSpec, DictTypeSpec, TupleTypeSpec are the
// container constructors spec.md §6 names.
type ArrayTypeSpec struct {
	Elem   TypeSpec
	Length Expr // nil if unspecified/erased
	Pos    Pos
}

func (a *ArrayTypeSpec) typeSpecNode() {}
func (a *ArrayTypeSpec) Position() Pos { return a.Pos }
func (a *ArrayTypeSpec) String() string {
	if a.Length != nil {
		return fmt.Sprintf("[%s; %s]", a.Elem, a.Length)
	}
	return fmt.Sprintf("[%s]", a.Elem)
}

type SetTypeSpec struct {
	Elem TypeSpec
	Pos  Pos
}

func (s *SetTypeSpec) typeSpecNode()  {}
func (s *SetTypeSpec) Position() Pos  { return s.Pos }
func (s *SetTypeSpec) String() string { return fmt.Sprintf("{%s}", s.Elem) }

type DictTypeSpec struct {
	Key   TypeSpec
	Value TypeSpec
	Pos   Pos
}

func (d *DictTypeSpec) typeSpecNode() {}
func (d *DictTypeSpec) Position() Pos { return d.Pos }
func (d *DictTypeSpec) String() string {
	return fmt.Sprintf("{%s: %s}", d.Key, d.Value)
}

type TupleTypeSpec struct {
	Elements []TypeSpec
	Pos      Pos
}

func (t *TupleTypeSpec) typeSpecNode() {}
func (t *TupleTypeSpec) Position() Pos { return t.Pos }
func (t *TupleTypeSpec) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}

// IntervalKind distinguishes closed/half-open/open interval endpoints.
type IntervalKind int

const (
	IntervalClosed    IntervalKind = iota // [lo, hi]
	IntervalHalfOpen                      // [lo, hi)
	IntervalOpen                          // (lo, hi)
)

// IntervalTypeSpec is a numeric interval type, e.g. `1..10`, `0..<n`.
type IntervalTypeSpec struct {
	Base IntervalBase
	Kind IntervalKind
	Lo   Expr
	Hi   Expr
	Pos  Pos
}

// IntervalBase names which primitive numeric type the interval narrows.
type IntervalBase int

const (
	IntervalInt IntervalBase = iota
	IntervalNat
	IntervalFloat
)

func (i *IntervalTypeSpec) typeSpecNode() {}
func (i *IntervalTypeSpec) Position() Pos { return i.Pos }
func (i *IntervalTypeSpec) String() string {
	switch i.Kind {
	case IntervalHalfOpen:
		return fmt.Sprintf("%s..<%s", i.Lo, i.Hi)
	case IntervalOpen:
		return fmt.Sprintf("%s<..<%s", i.Lo, i.Hi)
	default:
		return fmt.Sprintf("%s..%s", i.Lo, i.Hi)
	}
}

// EnumTypeSpec is a finite enumeration of constant values, e.g.
// `{1, 2, 3}` used in type position or `Red | Green | Blue`.
type EnumTypeSpec struct {
	Values []Expr
	Pos    Pos
}

func (e *EnumTypeSpec) typeSpecNode() {}
func (e *EnumTypeSpec) Position() Pos { return e.Pos }
func (e *EnumTypeSpec) String() string {
	vals := make([]string, len(e.Values))
	for i, v := range e.Values {
		vals[i] = v.String()
	}
	return "{" + strings.Join(vals, ", ") + "}"
}

// AndTypeSpec, OrTypeSpec, NotTypeSpec are the boolean type operators.
type AndTypeSpec struct {
	Lhs, Rhs TypeSpec
	Pos      Pos
}

func (a *AndTypeSpec) typeSpecNode()  {}
func (a *AndTypeSpec) Position() Pos  { return a.Pos }
func (a *AndTypeSpec) String() string { return fmt.Sprintf("(%s and %s)", a.Lhs, a.Rhs) }

type OrTypeSpec struct {
	Lhs, Rhs TypeSpec
	Pos      Pos
}

func (o *OrTypeSpec) typeSpecNode()  {}
func (o *OrTypeSpec) Position() Pos  { return o.Pos }
func (o *OrTypeSpec) String() string { return fmt.Sprintf("(%s or %s)", o.Lhs, o.Rhs) }

type NotTypeSpec struct {
	Of  TypeSpec
	Pos Pos
}

func (n *NotTypeSpec) typeSpecNode()  {}
func (n *NotTypeSpec) Position() Pos  { return n.Pos }
func (n *NotTypeSpec) String() string { return "not " + n.Of.String() }

// RefTypeSpec / RefMutTypeSpec are the borrow type constructors.
type RefTypeSpec struct {
	Of  TypeSpec
	Pos Pos
}

func (r *RefTypeSpec) typeSpecNode()  {}
func (r *RefTypeSpec) Position() Pos  { return r.Pos }
func (r *RefTypeSpec) String() string { return "Ref(" + r.Of.String() + ")" }

type RefMutTypeSpec struct {
	Before TypeSpec
	After  TypeSpec // nil if no declared post-state
	Pos    Pos
}

func (r *RefMutTypeSpec) typeSpecNode() {}
func (r *RefMutTypeSpec) Position() Pos { return r.Pos }
func (r *RefMutTypeSpec) String() string {
	if r.After != nil {
		return fmt.Sprintf("RefMut(%s => %s)", r.Before, r.After)
	}
	return "RefMut(" + r.Before.String() + ")"
}

// RefinementTypeSpec is `{ binder: Base | predicate }`, the predicate
// written as an ordinary boolean expression over the named binder.
type RefinementTypeSpec struct {
	Binder    string
	Base      TypeSpec
	Predicate Expr
	Pos       Pos
}

func (r *RefinementTypeSpec) typeSpecNode() {}
func (r *RefinementTypeSpec) Position() Pos { return r.Pos }
func (r *RefinementTypeSpec) String() string {
	return fmt.Sprintf("{%s: %s | %s}", r.Binder, r.Base, r.Predicate)
}

// RecordTypeSpec is a structural record type.
type RecordTypeSpec struct {
	Fields []*RecordFieldDecl
	Pos    Pos
}

func (r *RecordTypeSpec) typeSpecNode() {}
func (r *RecordTypeSpec) Position() Pos { return r.Pos }
func (r *RecordTypeSpec) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

// ProjTypeSpec is an associated-type projection, e.g. `T.Output`.
type ProjTypeSpec struct {
	Of     TypeSpec
	Member string
	Pos    Pos
}

func (p *ProjTypeSpec) typeSpecNode()  {}
func (p *ProjTypeSpec) Position() Pos  { return p.Pos }
func (p *ProjTypeSpec) String() string { return fmt.Sprintf("%s.%s", p.Of, p.Member) }
