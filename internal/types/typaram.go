package types

import (
	"fmt"
	"strings"
)

// TyParam is a type-parameter-level term (spec.md §3.3): a value, a type,
// a named monomorphic constant, a free variable, an operator application,
// a literal container, a const-function lambda, or an erased placeholder.
type TyParam interface {
	typaramNode()
	String() string
}

// TPValue wraps a literal constant value.
type TPValue struct{ V ValueObj }

// TPType wraps an ordinary Type used at the parameter level (e.g. Array(Int, 3)).
type TPType struct{ T Type }

// TPConst references a named monomorphic constant (e.g. a class constant).
type TPConst struct{ Name string }

// TPVar is a type-parameter-level free variable, reusing the Cell machinery.
type TPVar struct{ Cell *Cell }

// TPBinOp applies a binary operator to two type parameters (e.g. `n + 1`).
type TPBinOp struct {
	Op       string
	Lhs, Rhs TyParam
}

// TPUnaryOp applies a unary operator to a type parameter (e.g. `-n`).
type TPUnaryOp struct {
	Op string
	X  TyParam
}

// TPApp applies a type-level function to arguments.
type TPApp struct {
	Func TyParam
	Args []TyParam
}

type TPArray struct{ Elems []TyParam }
type TPSet struct{ Elems []TyParam }
type TPTuple struct{ Elems []TyParam }

type TPDictEntry struct{ Key, Val TyParam }
type TPDict struct{ Entries []TPDictEntry }

type TPRecord struct{ Fields map[string]TyParam }

// TPLambda is a type-level (const) function.
type TPLambda struct {
	Params []string
	Body   TyParam
}

// TPErased is the "don't care, but typed" placeholder used by constructors
// like Array(T, _) where the length is immaterial to the call site.
type TPErased struct{ T Type }

func (TPValue) typaramNode()   {}
func (TPType) typaramNode()    {}
func (TPConst) typaramNode()   {}
func (TPVar) typaramNode()     {}
func (TPBinOp) typaramNode()   {}
func (TPUnaryOp) typaramNode() {}
func (TPApp) typaramNode()     {}
func (TPArray) typaramNode()   {}
func (TPSet) typaramNode()     {}
func (TPTuple) typaramNode()   {}
func (TPDict) typaramNode()    {}
func (TPRecord) typaramNode()  {}
func (TPLambda) typaramNode()  {}
func (TPErased) typaramNode()  {}

func (t TPValue) String() string { return t.V.String() }
func (t TPType) String() string  { return t.T.String() }
func (t TPConst) String() string { return t.Name }
func (t TPVar) String() string   { return t.Cell.String() }
func (t TPBinOp) String() string { return fmt.Sprintf("(%s %s %s)", t.Lhs, t.Op, t.Rhs) }
func (t TPUnaryOp) String() string {
	return fmt.Sprintf("%s%s", t.Op, t.X)
}
func (t TPApp) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", t.Func, strings.Join(args, ", "))
}
func (t TPArray) String() string { return listStr("[", "]", t.Elems) }
func (t TPSet) String() string   { return listStr("{", "}", t.Elems) }
func (t TPTuple) String() string { return listStr("(", ")", t.Elems) }
func (t TPDict) String() string {
	parts := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		parts[i] = fmt.Sprintf("%s: %s", e.Key, e.Val)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (t TPRecord) String() string {
	var parts []string
	for k, v := range t.Fields {
		parts = append(parts, fmt.Sprintf("%s = %s", k, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (t TPLambda) String() string {
	return fmt.Sprintf("(%s) -> %s", strings.Join(t.Params, ", "), t.Body)
}
func (t TPErased) String() string { return "_" }

func listStr(open, close string, elems []TyParam) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return open + strings.Join(parts, ", ") + close
}

// TyParamEquals is structural equality over type parameters, dereferencing
// free variables transparently.
func TyParamEquals(a, b TyParam) bool {
	a, b = derefTP(a), derefTP(b)
	switch av := a.(type) {
	case TPValue:
		bv, ok := b.(TPValue)
		return ok && av.V.Equals(bv.V)
	case TPType:
		bv, ok := b.(TPType)
		return ok && TypesEqual(av.T, bv.T)
	case TPConst:
		bv, ok := b.(TPConst)
		return ok && av.Name == bv.Name
	case TPVar:
		bv, ok := b.(TPVar)
		return ok && av.Cell == bv.Cell
	case TPBinOp:
		bv, ok := b.(TPBinOp)
		return ok && av.Op == bv.Op && TyParamEquals(av.Lhs, bv.Lhs) && TyParamEquals(av.Rhs, bv.Rhs)
	case TPUnaryOp:
		bv, ok := b.(TPUnaryOp)
		return ok && av.Op == bv.Op && TyParamEquals(av.X, bv.X)
	case TPApp:
		bv, ok := b.(TPApp)
		if !ok || !TyParamEquals(av.Func, bv.Func) || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !TyParamEquals(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	case TPErased:
		bv, ok := b.(TPErased)
		return ok && TypesEqual(av.T, bv.T)
	default:
		return a.String() == b.String()
	}
}

func derefTP(t TyParam) TyParam {
	for {
		v, ok := t.(TPVar)
		if !ok || !v.Cell.IsLinked() {
			return t
		}
		if tp, ok := v.Cell.TyParamTarget(); ok {
			t = tp
			continue
		}
		return TPType{Deref(v.Cell.Target())}
	}
}
