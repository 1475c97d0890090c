// Package hir defines the checker's output tree: a copy of internal/ast
// isomorphic in shape, where every node additionally carries its resolved
// types.Type and every bound name carries a VarInfo (spec.md §6 "Output:
// HIR").
package hir

import (
	"fmt"
	"strings"

	"github.com/verity-lang/verity/internal/ast"
	"github.com/verity-lang/verity/internal/types"
)

// VarInfo is attached to every resolved identifier: where it came from,
// its effective visibility, an optional external alias, and what kind of
// binding it is.
type VarInfo struct {
	Origin     ast.Pos
	Visibility ast.Visibility
	PythonName string
	Kind       types.VarKind
}

// TypedExpr is embedded by every concrete typed node.
type TypedExpr struct {
	NodeID int64
	Span   ast.Pos
	Type   types.Type
}

func (t TypedExpr) GetNodeID() int64     { return t.NodeID }
func (t TypedExpr) GetSpan() ast.Pos     { return t.Span }
func (t TypedExpr) GetType() types.Type  { return t.Type }

// TypedNode is the interface every resolved expression node satisfies.
type TypedNode interface {
	GetNodeID() int64
	GetSpan() ast.Pos
	GetType() types.Type
	String() string
}

// TypedVar is a resolved identifier reference.
type TypedVar struct {
	TypedExpr
	Name string
	Info VarInfo
}

func (t TypedVar) String() string { return fmt.Sprintf("%s : %s", t.Name, t.Type) }

// TypedLit is a resolved literal.
type TypedLit struct {
	TypedExpr
	Kind  ast.LiteralKind
	Value interface{}
}

func (t TypedLit) String() string { return fmt.Sprintf("%v : %s", t.Value, t.Type) }

// TypedLambda is a resolved lambda; ParamTypes is parallel to Params.
type TypedLambda struct {
	TypedExpr
	Params     []string
	ParamTypes []types.Type
	Body       TypedNode
}

func (t TypedLambda) String() string {
	return fmt.Sprintf("\\(%s) -> %s : %s", strings.Join(t.Params, ", "), t.Body, t.Type)
}

// TypedLet is a resolved non-recursive binding. Scheme is the
// generalized polytype if the binding was generalized, nil otherwise.
type TypedLet struct {
	TypedExpr
	Name   string
	Scheme *types.Quantified
	Value  TypedNode
	Body   TypedNode
}

func (t TypedLet) String() string {
	return fmt.Sprintf("let %s : %s = %s in %s", t.Name, schemeString(t.Scheme, t.Value), t.Value, t.Body)
}

func schemeString(s *types.Quantified, v TypedNode) string {
	if s != nil {
		return s.String()
	}
	return v.GetType().String()
}

// TypedRecBinding is one member of a TypedLetRec's mutually-recursive set.
type TypedRecBinding struct {
	Name   string
	Scheme *types.Quantified
	Value  TypedNode
}

// TypedLetRec is a resolved recursive binding group.
type TypedLetRec struct {
	TypedExpr
	Bindings []TypedRecBinding
	Body     TypedNode
}

func (t TypedLetRec) String() string {
	names := make([]string, len(t.Bindings))
	for i, b := range t.Bindings {
		names[i] = b.Name
	}
	return fmt.Sprintf("let rec %s in %s", strings.Join(names, ", "), t.Body)
}

// TypedApp is a resolved call, carrying the same positional/keyword/spread
// shape the surface ast.FuncCall does.
type TypedApp struct {
	TypedExpr
	Func        TypedNode
	Args        []TypedNode
	KeywordArgs map[string]TypedNode
}

func (t TypedApp) String() string { return fmt.Sprintf("%s(...) : %s", t.Func, t.Type) }

// TypedIf is a resolved conditional.
type TypedIf struct {
	TypedExpr
	Cond TypedNode
	Then TypedNode
	Else TypedNode
}

func (t TypedIf) String() string {
	return fmt.Sprintf("if %s then %s else %s : %s", t.Cond, t.Then, t.Else, t.Type)
}

// TypedMatchArm is one resolved arm of a TypedMatch.
type TypedMatchArm struct {
	Pattern TypedPattern
	Guard   TypedNode
	Body    TypedNode
}

// TypedMatch is resolved pattern-match dispatch.
type TypedMatch struct {
	TypedExpr
	Scrutinee  TypedNode
	Arms       []TypedMatchArm
	Exhaustive bool
}

func (t TypedMatch) String() string {
	return fmt.Sprintf("match %s { ... } : %s", t.Scrutinee, t.Type)
}

// TypedBinOp is a resolved binary operation.
type TypedBinOp struct {
	TypedExpr
	Op    string
	Left  TypedNode
	Right TypedNode
}

func (t TypedBinOp) String() string {
	return fmt.Sprintf("(%s %s %s) : %s", t.Left, t.Op, t.Right, t.Type)
}

// TypedUnOp is a resolved unary operation.
type TypedUnOp struct {
	TypedExpr
	Op      string
	Operand TypedNode
}

func (t TypedUnOp) String() string { return fmt.Sprintf("%s%s : %s", t.Op, t.Operand, t.Type) }

// TypedRecord is a resolved record literal.
type TypedRecord struct {
	TypedExpr
	Fields map[string]TypedNode
}

func (t TypedRecord) String() string { return fmt.Sprintf("{...} : %s", t.Type) }

// TypedRecordAccess is resolved field projection.
type TypedRecordAccess struct {
	TypedExpr
	Record TypedNode
	Field  string
}

func (t TypedRecordAccess) String() string {
	return fmt.Sprintf("%s.%s : %s", t.Record, t.Field, t.Type)
}

// TypedArray / TypedTuple are resolved container literals.
type TypedArray struct {
	TypedExpr
	Elements []TypedNode
}

func (t TypedArray) String() string { return fmt.Sprintf("[...] : %s", t.Type) }

type TypedTuple struct {
	TypedExpr
	Elements []TypedNode
}

func (t TypedTuple) String() string { return fmt.Sprintf("(...) : %s", t.Type) }

// TypedRef / TypedRefMut are resolved borrow expressions.
type TypedRef struct {
	TypedExpr
	Of TypedNode
}

func (t TypedRef) String() string { return fmt.Sprintf("ref %s : %s", t.Of, t.Type) }

type TypedRefMut struct {
	TypedExpr
	Of TypedNode
}

func (t TypedRefMut) String() string { return fmt.Sprintf("ref! %s : %s", t.Of, t.Type) }

// TypedPattern is the resolved counterpart of ast.Pattern.
type TypedPattern interface {
	GetType() types.Type
	String() string
}

type TypedVarPattern struct {
	Name string
	Type types.Type
}

func (p TypedVarPattern) GetType() types.Type { return p.Type }
func (p TypedVarPattern) String() string      { return p.Name }

type TypedDiscardPattern struct{ Type types.Type }

func (p TypedDiscardPattern) GetType() types.Type { return p.Type }
func (p TypedDiscardPattern) String() string      { return "_" }

type TypedLitPattern struct {
	Value interface{}
	Type  types.Type
}

func (p TypedLitPattern) GetType() types.Type { return p.Type }
func (p TypedLitPattern) String() string      { return fmt.Sprintf("%v", p.Value) }

type TypedConstructorPattern struct {
	Name string
	Args []TypedPattern
	Type types.Type
}

func (p TypedConstructorPattern) GetType() types.Type { return p.Type }
func (p TypedConstructorPattern) String() string {
	return fmt.Sprintf("%s(...)", p.Name)
}

type TypedTuplePattern struct {
	Elements []TypedPattern
	Type     types.Type
}

func (p TypedTuplePattern) GetType() types.Type { return p.Type }
func (p TypedTuplePattern) String() string {
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// TypedProgram is the top-level checker output for a whole file.
type TypedProgram struct {
	Decls []TypedNode
	Errs  *types.ErrorList
}

// PrintTypedProgram renders a program's declarations, one per line, for
// debug/test output (not used for the persisted cache format, see
// marshal.go).
func PrintTypedProgram(prog *TypedProgram) string {
	var b strings.Builder
	for _, d := range prog.Decls {
		b.WriteString(d.String())
		b.WriteString("\n")
	}
	return b.String()
}
