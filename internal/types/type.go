package types

import (
	"fmt"
	"strings"
)

// Type is the checker's closed type sum (spec.md §3.1). It is kept
// deliberately thin — String() for display plus a marker method — so that
// the hot-path engines (subtype.go, unify.go, instantiate.go) dispatch via
// explicit type switches rather than virtual calls (spec.md §9 design note:
// "do not hide behind dynamic dispatch").
type Type interface {
	typeNode()
	String() string
}

// PrimitiveKind enumerates spec.md §3.1's monomorphic primitives.
type PrimitiveKind int

const (
	KObj PrimitiveKind = iota
	KNever
	KFailure
	KType
	KClassType
	KTraitType
	KBool
	KNat
	KInt
	KRatio
	KFloat
	KStr
	KNoneType
	KEllipsis
	KNotImplementedType
	KInf
	KNegInf
	KUninited
)

var primitiveNames = map[PrimitiveKind]string{
	KObj: "Obj", KNever: "Never", KFailure: "Failure", KType: "Type",
	KClassType: "ClassType", KTraitType: "TraitType", KBool: "Bool",
	KNat: "Nat", KInt: "Int", KRatio: "Ratio", KFloat: "Float", KStr: "Str",
	KNoneType: "NoneType", KEllipsis: "Ellipsis",
	KNotImplementedType: "NotImplementedType", KInf: "Inf", KNegInf: "NegInf",
	KUninited: "Uninited",
}

// Primitive is a monomorphic built-in type.
type Primitive struct{ Kind PrimitiveKind }

func (Primitive) typeNode() {}
func (p Primitive) String() string {
	if n, ok := primitiveNames[p.Kind]; ok {
		return n
	}
	return "<?primitive>"
}

// Singleton primitive instances, constructed once and reused (they carry
// no payload, so sharing is safe and avoids allocation on every Obj/Never).
var (
	Obj                = &Primitive{KObj}
	Never              = &Primitive{KNever}
	Failure            = &Primitive{KFailure}
	TypeKind           = &Primitive{KType}
	ClassTypeT         = &Primitive{KClassType}
	TraitTypeT         = &Primitive{KTraitType}
	Bool               = &Primitive{KBool}
	Nat                = &Primitive{KNat}
	Int                = &Primitive{KInt}
	Ratio              = &Primitive{KRatio}
	Float              = &Primitive{KFloat}
	Str                = &Primitive{KStr}
	NoneType           = &Primitive{KNoneType}
	Ellipsis           = &Primitive{KEllipsis}
	NotImplementedType = &Primitive{KNotImplementedType}
	Inf                = &Primitive{KInf}
	NegInf             = &Primitive{KNegInf}
	Uninited           = &Primitive{KUninited}
)

// Mono is a nominal type identified by a qualified name with no parameters.
type Mono struct{ Name string }

func (*Mono) typeNode()        {}
func (m *Mono) String() string { return m.Name }

// Poly is a nominal type applied to type parameters, e.g. `Array(Int, 3)`.
// The variance of each position is declared by the class's NominalContext,
// not carried on the Poly value itself.
type Poly struct {
	Name   string
	Params []TyParam
}

func (*Poly) typeNode() {}
func (p *Poly) String() string {
	args := make([]string, len(p.Params))
	for i, a := range p.Params {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(args, ", "))
}

// SubrKind distinguishes effectful procedures (`!`) from pure functions.
type SubrKind int

const (
	SubrFunc SubrKind = iota
	SubrProc
)

// Param is a subroutine parameter: an optional declared name plus a type.
type Param struct {
	Name string // "" if positional-only / unnamed
	Type Type
}

// Subr is a subroutine type: kind, non-default params, optional variadic,
// default params, and a return type (spec.md §3.1).
type Subr struct {
	Kind            SubrKind
	NonDefaultPs    []Param
	VarParam        *Param // nil if not variadic
	DefaultPs       []Param
	Return          Type
}

func (*Subr) typeNode() {}
func (s *Subr) String() string {
	parts := make([]string, 0, len(s.NonDefaultPs)+len(s.DefaultPs)+1)
	for _, p := range s.NonDefaultPs {
		parts = append(parts, paramStr(p))
	}
	if s.VarParam != nil {
		parts = append(parts, "*"+paramStr(*s.VarParam))
	}
	for _, p := range s.DefaultPs {
		parts = append(parts, paramStr(p)+" := _")
	}
	arrow := "->"
	if s.Kind == SubrProc {
		arrow = "=>"
	}
	return fmt.Sprintf("(%s) %s %s", strings.Join(parts, ", "), arrow, s.Return)
}

func paramStr(p Param) string {
	if p.Name == "" {
		return p.Type.String()
	}
	return fmt.Sprintf("%s: %s", p.Name, p.Type)
}

// Quantified is a polytype: universal quantification over the generalized
// free variables appearing (at GenericLevel) inside Inner. spec.md §3.1
// invariant: Quantified only ever wraps a Subr.
type Quantified struct{ Inner *Subr }

func (*Quantified) typeNode()        {}
func (q *Quantified) String() string { return q.Inner.String() }

// Refinement is `{ Var: Base | Preds }`.
type Refinement struct {
	Base  Type
	Var   string
	Preds []Predicate
}

func (*Refinement) typeNode() {}
func (r *Refinement) String() string {
	if len(r.Preds) == 0 {
		return r.Base.String()
	}
	parts := make([]string, len(r.Preds))
	for i, p := range r.Preds {
		parts[i] = p.String()
	}
	return fmt.Sprintf("{%s: %s | %s}", r.Var, r.Base, strings.Join(parts, " and "))
}

// FieldVis is a record field's declared visibility modifier.
type FieldVis int

const (
	FieldPrivate FieldVis = iota
	FieldPublic
)

type RecordField struct {
	Vis  FieldVis
	Type Type
}

// Record is an unordered field-name -> type mapping; equality is structural.
type Record struct {
	Fields map[string]RecordField
}

func (*Record) typeNode() {}
func (r *Record) String() string {
	var parts []string
	for name, f := range r.Fields {
		mark := ""
		if f.Vis == FieldPrivate {
			mark = "::"
		}
		parts = append(parts, fmt.Sprintf("%s%s: %s", mark, name, f.Type))
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

// Ref is a covariant borrow: `Ref(T) :> Ref(U)` iff `T :> U`.
type Ref struct{ Of Type }

func (*Ref) typeNode()        {}
func (r *Ref) String() string { return "Ref(" + r.Of.String() + ")" }

// RefMut is a mutable borrow, invariant in Before. After is the optional
// post-state type (see DESIGN.md "Open Question decisions" #2).
type RefMut struct {
	Before Type
	After  Type // nil if no post-state tracked
}

func (*RefMut) typeNode() {}
func (r *RefMut) String() string {
	if r.After != nil {
		return fmt.Sprintf("RefMut(%s => %s)", r.Before, r.After)
	}
	return "RefMut(" + r.Before.String() + ")"
}

type And struct{ Lhs, Rhs Type }
type Or struct{ Lhs, Rhs Type }
type Not struct{ Of Type }

func (*And) typeNode() {}
func (*Or) typeNode()  {}
func (*Not) typeNode() {}

func (a *And) String() string { return fmt.Sprintf("(%s and %s)", a.Lhs, a.Rhs) }
func (o *Or) String() string  { return fmt.Sprintf("(%s or %s)", o.Lhs, o.Rhs) }
func (n *Not) String() string { return "not " + n.Of.String() }

// Proj is an associated-type projection, e.g. `T.Output`.
type Proj struct {
	Lhs Type
	Rhs string
}

func (*Proj) typeNode()        {}
func (p *Proj) String() string { return fmt.Sprintf("%s.%s", p.Lhs, p.Rhs) }

// ProjCall is a projection applied as a call, e.g. `T.Add(U)`.
type ProjCall struct {
	Lhs    Type
	Method string
	Args   []TyParam
}

func (*ProjCall) typeNode() {}
func (p *ProjCall) String() string {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s.%s(%s)", p.Lhs, p.Method, strings.Join(args, ", "))
}

// FreeVar is the mutable-cell type variable (spec.md §3.2/§4 Component B).
type FreeVar struct{ Cell *Cell }

func (*FreeVar) typeNode() {}
func (f *FreeVar) String() string {
	if f.Cell.IsLinked() {
		return Deref(f).String()
	}
	return f.Cell.String()
}

// Structural forces a structural view of what would otherwise be a nominal
// comparison (spec.md §3.1).
type Structural struct{ Of Type }

func (*Structural) typeNode()        {}
func (s *Structural) String() string { return "Structural(" + s.Of.String() + ")" }

// NewFreeVar wraps a fresh unbound cell as a Type.
func NewFreeVar(level Level, c Constraint) *FreeVar {
	return &FreeVar{Cell: NewUnboundCell(level, c)}
}

// NewNamedFreeVar wraps a fresh named unbound cell as a Type.
func NewNamedFreeVar(name string, level Level, c Constraint) *FreeVar {
	return &FreeVar{Cell: NewNamedUnboundCell(name, level, c)}
}

// TypesEqual is structural equality, transparently dereferencing FreeVars.
// Pointer-identity on the Cell short-circuits self-referential bounds
// (spec.md §4.2 circular bounds) instead of recursing forever.
func TypesEqual(a, b Type) bool {
	a, b = Deref(a), Deref(b)
	if af, ok := a.(*FreeVar); ok {
		if bf, ok := b.(*FreeVar); ok {
			return af.Cell == bf.Cell
		}
		return false
	}
	switch av := a.(type) {
	case *Primitive:
		bv, ok := b.(*Primitive)
		return ok && av.Kind == bv.Kind
	case *Mono:
		bv, ok := b.(*Mono)
		return ok && av.Name == bv.Name
	case *Poly:
		bv, ok := b.(*Poly)
		if !ok || av.Name != bv.Name || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !TyParamEquals(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return true
	case *Subr:
		bv, ok := b.(*Subr)
		return ok && subrEquals(av, bv)
	case *Quantified:
		bv, ok := b.(*Quantified)
		return ok && subrEquals(av.Inner, bv.Inner)
	case *Refinement:
		bv, ok := b.(*Refinement)
		if !ok || !TypesEqual(av.Base, bv.Base) || len(av.Preds) != len(bv.Preds) {
			return false
		}
		for i := range av.Preds {
			if !PredicateEquals(av.Preds[i], bv.Preds[i]) {
				return false
			}
		}
		return true
	case *Record:
		bv, ok := b.(*Record)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for name, f := range av.Fields {
			of, ok := bv.Fields[name]
			if !ok || f.Vis != of.Vis || !TypesEqual(f.Type, of.Type) {
				return false
			}
		}
		return true
	case *Ref:
		bv, ok := b.(*Ref)
		return ok && TypesEqual(av.Of, bv.Of)
	case *RefMut:
		bv, ok := b.(*RefMut)
		if !ok || !TypesEqual(av.Before, bv.Before) {
			return false
		}
		if av.After == nil || bv.After == nil {
			return av.After == nil && bv.After == nil
		}
		return TypesEqual(av.After, bv.After)
	case *And:
		bv, ok := b.(*And)
		return ok && TypesEqual(av.Lhs, bv.Lhs) && TypesEqual(av.Rhs, bv.Rhs)
	case *Or:
		bv, ok := b.(*Or)
		return ok && TypesEqual(av.Lhs, bv.Lhs) && TypesEqual(av.Rhs, bv.Rhs)
	case *Not:
		bv, ok := b.(*Not)
		return ok && TypesEqual(av.Of, bv.Of)
	case *Proj:
		bv, ok := b.(*Proj)
		return ok && TypesEqual(av.Lhs, bv.Lhs) && av.Rhs == bv.Rhs
	case *ProjCall:
		bv, ok := b.(*ProjCall)
		if !ok || !TypesEqual(av.Lhs, bv.Lhs) || av.Method != bv.Method || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !TyParamEquals(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	case *Structural:
		bv, ok := b.(*Structural)
		return ok && TypesEqual(av.Of, bv.Of)
	default:
		return false
	}
}

func subrEquals(a, b *Subr) bool {
	if a.Kind != b.Kind || len(a.NonDefaultPs) != len(b.NonDefaultPs) || len(a.DefaultPs) != len(b.DefaultPs) {
		return false
	}
	for i := range a.NonDefaultPs {
		if !TypesEqual(a.NonDefaultPs[i].Type, b.NonDefaultPs[i].Type) {
			return false
		}
	}
	for i := range a.DefaultPs {
		if a.DefaultPs[i].Name != b.DefaultPs[i].Name || !TypesEqual(a.DefaultPs[i].Type, b.DefaultPs[i].Type) {
			return false
		}
	}
	if (a.VarParam == nil) != (b.VarParam == nil) {
		return false
	}
	if a.VarParam != nil && !TypesEqual(a.VarParam.Type, b.VarParam.Type) {
		return false
	}
	return TypesEqual(a.Return, b.Return)
}
