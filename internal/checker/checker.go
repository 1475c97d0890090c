// Package checker drives an ast.Program through the internal/types engines
// to produce a typed internal/hir tree plus a companion error stream.
// Grounded on the teacher's internal/types/typechecker.go (TypeChecker
// struct with an accumulated errors slice, CheckProgram entry point,
// checkDecl per declaration kind, astTypeToType surface-to-internal type
// conversion), retargeted from AiLang's Hindley-Milner inference context to
// this checker's bidirectional style over the subtype/unify/instantiate
// engines already implemented in internal/types.
package checker

import (
	"fmt"

	"github.com/verity-lang/verity/internal/ast"
	"github.com/verity-lang/verity/internal/hir"
	"github.com/verity-lang/verity/internal/types"
)

// typeVarEnv resolves a declaration's TypeVarSpec names to the fresh
// generalized free variable allocated for them, shared across every
// TypeSpec inside one declaration's signature and body.
type typeVarEnv map[string]types.Type

// primitiveByName is the surface-name counterpart of internal/types'
// primitiveNames table, used when resolving an ast.NamedType with no
// arguments.
var primitiveByName = map[string]types.Type{
	"Obj": types.Obj, "Never": types.Never, "Failure": types.Failure,
	"Type": types.TypeKind, "ClassType": types.ClassTypeT, "TraitType": types.TraitTypeT,
	"Bool": types.Bool, "Nat": types.Nat, "Int": types.Int, "Ratio": types.Ratio,
	"Float": types.Float, "Str": types.Str, "NoneType": types.NoneType,
	"Ellipsis": types.Ellipsis, "NotImplementedType": types.NotImplementedType,
	"Inf": types.Inf, "NegInf": types.NegInf,
}

// Checker is the driver. It accumulates diagnostics across a whole pass
// rather than stopping at the first one (spec.md §7 "errors stream").
type Checker struct {
	errs   *types.ErrorList
	nodeID int64
	level  types.Level
}

// NewChecker allocates a driver with an empty diagnostic stream.
func NewChecker() *Checker {
	return &Checker{errs: types.NewErrorList()}
}

func (c *Checker) nextNodeID() int64 {
	c.nodeID++
	return c.nodeID
}

func posToLoc(p ast.Pos) types.SourceLoc {
	return types.SourceLoc{File: p.File, Line: p.Line, Col: p.Column}
}

// CheckProgram type-checks a whole file against a fresh root context seeded
// with the builtin prelude (numeric tower, Eq/Ord/Add/... traits).
func (c *Checker) CheckProgram(prog *ast.Program) *hir.TypedProgram {
	root := types.NewRootContext()
	types.InstallPrelude(root, types.MustLoadEmbeddedPrelude())

	out := &hir.TypedProgram{Errs: c.errs}
	if prog == nil || prog.File == nil {
		return out
	}
	ctx := root
	for _, d := range prog.File.Decls {
		node, next := c.checkDecl(ctx, d)
		if node != nil {
			out.Decls = append(out.Decls, node)
		}
		ctx = next
	}
	return out
}

func (c *Checker) checkDecl(ctx *types.Context, d ast.Decl) (hir.TypedNode, *types.Context) {
	switch decl := d.(type) {
	case *ast.FuncDecl:
		return c.checkFuncDecl(ctx, decl)
	case *ast.ClassDecl:
		c.registerClass(ctx, decl)
		return nil, ctx
	case *ast.TraitDecl:
		c.registerTrait(ctx, decl)
		return nil, ctx
	case *ast.GluePatchDecl:
		c.registerGluePatch(ctx, decl)
		return nil, ctx
	default:
		c.errs.Add(types.NewCompilerSystemError(types.SourceLoc{}, fmt.Sprintf("unhandled declaration %T", d)))
		return nil, ctx
	}
}

// checkFuncDecl resolves a top-level function's signature, checks its body
// against the declared (or freshly inferred) return type, and declares the
// function's name in the enclosing context as a let-rec binding so it can
// call itself and be called by later declarations.
func (c *Checker) checkFuncDecl(ctx *types.Context, d *ast.FuncDecl) (hir.TypedNode, *types.Context) {
	tvEnv := typeVarEnv{}
	for _, name := range d.TypeParams {
		tvEnv[name] = types.NewNamedFreeVar(name, types.GenericLevel, types.Sandwiched(types.Never, types.Obj))
	}
	c.applyBounds(ctx, tvEnv, d.Bounds)

	kind := types.SubrFunc
	if d.IsProc {
		kind = types.SubrProc
	}
	subr := &types.Subr{Kind: kind}
	paramTypes := make([]types.Type, len(d.Params))
	for i, p := range d.Params {
		pt := c.resolveTypeSpec(ctx, tvEnv, p.Type)
		paramTypes[i] = pt
		if p.IsVariadic {
			vp := types.Param{Name: p.Name, Type: pt}
			subr.VarParam = &vp
			continue
		}
		if p.Default != nil {
			subr.DefaultPs = append(subr.DefaultPs, types.Param{Name: p.Name, Type: pt})
			continue
		}
		subr.NonDefaultPs = append(subr.NonDefaultPs, types.Param{Name: p.Name, Type: pt})
	}
	subr.Return = c.resolveTypeSpec(ctx, tvEnv, d.ReturnType)

	var declaredType types.Type = subr
	if len(d.TypeParams) > 0 {
		declaredType = &types.Quantified{Inner: subr}
	}
	ctx.Declare(d.Name, types.VarInfo{Type: declaredType, Kind: types.VarConstant})

	body := ctx.NewChildContext()
	for i, p := range d.Params {
		body.Declare(p.Name, types.VarInfo{Type: paramTypes[i], Kind: types.VarParameter})
	}
	c.level++
	bodyNode := c.checkExprAgainst(body, d.Body, subr.Return)
	c.level--

	typed := hir.TypedLambda{
		TypedExpr:  hir.TypedExpr{NodeID: c.nextNodeID(), Span: d.Pos, Type: subr},
		Params:     paramNames(d.Params),
		ParamTypes: paramTypes,
		Body:       bodyNode,
	}
	return hir.TypedLet{
		TypedExpr: hir.TypedExpr{NodeID: c.nextNodeID(), Span: d.Pos, Type: subr},
		Name:      d.Name,
		Value:     typed,
		Body:      typed,
	}, ctx
}

// applyBounds tightens the generalized variables in tvEnv with a
// signature's declared type-parameter bounds (`T <: U`, `T :> U`, `T: U`).
// The bound's own type spec resolves through the same tvEnv, so a
// self-referential bound like `T <: Add(T)` closes over the very variable
// it constrains — the shape the instantiation engine's circular-bound
// protocol exists for.
func (c *Checker) applyBounds(ctx *types.Context, tvEnv typeVarEnv, bounds []*ast.TypeParamDecl) {
	for _, b := range bounds {
		t, ok := tvEnv[b.Name]
		if !ok {
			t = types.NewNamedFreeVar(b.Name, types.GenericLevel, types.Sandwiched(types.Never, types.Obj))
			tvEnv[b.Name] = t
		}
		fv, ok := t.(*types.FreeVar)
		if !ok || b.Bound == nil {
			continue
		}
		bound := c.resolveTypeSpec(ctx, tvEnv, b.Bound)
		var constraint types.Constraint
		switch b.Kind {
		case ast.BoundSup:
			constraint = types.Sandwiched(bound, types.Obj)
		case ast.BoundEq:
			constraint = types.TypeOfConstraint(bound)
		default: // BoundSub
			constraint = types.Sandwiched(types.Never, bound)
		}
		if err := fv.Cell.UpdateConstraint(constraint); err != nil {
			c.errs.Add(types.NewCompilerSystemError(posToLoc(b.Pos), err.Error()))
		}
	}
}

func paramNames(ps []*ast.Param) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

// registerClass builds a NominalContext from a class declaration, checks
// that every super-trait's required members are satisfied by the class's
// own methods/fields (spec.md §7 TraitMemberNotDefinedError / S6), and
// declares it.
func (c *Checker) registerClass(ctx *types.Context, d *ast.ClassDecl) {
	tvEnv := typeVarEnv{}
	for _, name := range d.TypeParams {
		tvEnv[name] = types.NewNamedFreeVar(name, types.GenericLevel, types.Sandwiched(types.Never, types.Obj))
	}
	nc := &types.NominalContext{
		Name:    d.Name,
		Methods: map[string]types.Type{},
		Consts:  map[string]types.TyParam{},
	}
	for _, v := range d.Variance {
		nc.Variance = append(nc.Variance, varianceFromString(v))
	}
	for _, st := range d.SuperTypes {
		t := c.resolveTypeSpec(ctx, tvEnv, st)
		if superNc := c.lookupNominal(ctx, t); superNc != nil && superNc.IsTrait {
			nc.SuperTraits = append(nc.SuperTraits, t)
		} else {
			nc.SuperClasses = append(nc.SuperClasses, t)
		}
	}
	for _, f := range d.Fields {
		nc.Methods[f.Name] = c.resolveTypeSpec(ctx, tvEnv, f.Type)
	}
	for _, m := range d.Methods {
		nc.Methods[m.Name] = c.methodSignature(ctx, tvEnv, m)
	}
	ctx.DeclareNominal(nc)
	c.checkTraitCompleteness(ctx, &types.Mono{Name: d.Name}, nc, d.Pos, false)
}

func (c *Checker) registerTrait(ctx *types.Context, d *ast.TraitDecl) {
	nc := &types.NominalContext{Name: d.Name, IsTrait: true, Methods: map[string]types.Type{}, Consts: map[string]types.TyParam{}}
	tvEnv := typeVarEnv{}
	for _, name := range d.TypeParams {
		tvEnv[name] = types.NewNamedFreeVar(name, types.GenericLevel, types.Sandwiched(types.Never, types.Obj))
	}
	for _, st := range d.SuperTraits {
		nc.SuperTraits = append(nc.SuperTraits, c.resolveTypeSpec(ctx, tvEnv, st))
	}
	for _, m := range d.Members {
		if m.Type != nil {
			nc.Methods[m.Name] = c.resolveTypeSpec(ctx, tvEnv, m.Type)
		}
	}
	ctx.DeclareNominal(nc)
}

func (c *Checker) registerGluePatch(ctx *types.Context, d *ast.GluePatchDecl) {
	tvEnv := typeVarEnv{}
	sub := c.resolveTypeSpec(ctx, tvEnv, d.SubType)
	sup := c.resolveTypeSpec(ctx, tvEnv, d.SupTrait)
	patch := &types.GluePatch{SubType: sub, SupTrait: sup, Methods: map[string]types.Type{}}
	for _, m := range d.Methods {
		patch.Methods[m.Name] = c.methodSignature(ctx, tvEnv, m)
	}
	ctx.DeclarePatch(patch)

	if traitNc := c.lookupNominal(ctx, sup); traitNc != nil {
		nc := &types.NominalContext{Name: "<patch>", Methods: patch.Methods}
		c.checkTraitMembersAgainst(ctx, sub, traitNc, nc, d.Pos, true)
		for member := range patch.Methods {
			if _, declared := traitNc.Methods[member]; !declared {
				c.errs.Add(types.NewNotInTraitError(posToLoc(d.Pos), sub, traitNc.Name, member))
			}
		}
	}
}

func (c *Checker) methodSignature(ctx *types.Context, tvEnv typeVarEnv, m *ast.FuncDecl) types.Type {
	kind := types.SubrFunc
	if m.IsProc {
		kind = types.SubrProc
	}
	subr := &types.Subr{Kind: kind}
	for _, p := range m.Params {
		pt := c.resolveTypeSpec(ctx, tvEnv, p.Type)
		subr.NonDefaultPs = append(subr.NonDefaultPs, types.Param{Name: p.Name, Type: pt})
	}
	subr.Return = c.resolveTypeSpec(ctx, tvEnv, m.ReturnType)
	return subr
}

func (c *Checker) lookupNominal(ctx *types.Context, t types.Type) *types.NominalContext {
	switch v := t.(type) {
	case *types.Mono:
		nc, _ := ctx.LookupNominal(v.Name)
		return nc
	case *types.Poly:
		nc, _ := ctx.LookupNominal(v.Name)
		return nc
	default:
		return nil
	}
}

// checkTraitCompleteness reports TraitMemberNotDefinedError (spec.md S6) for
// every super-trait member a class declares conformance to but does not
// define.
func (c *Checker) checkTraitCompleteness(ctx *types.Context, self types.Type, nc *types.NominalContext, pos ast.Pos, viaPatch bool) {
	for _, superT := range nc.SuperTraits {
		if traitNc := c.lookupNominal(ctx, superT); traitNc != nil {
			c.checkTraitMembersAgainst(ctx, self, traitNc, nc, pos, viaPatch)
		}
	}
}

// checkTraitMembersAgainst reports every member trait declares that impl
// does not define, and every defined member whose type narrows the trait's
// declared type incompatibly. viaPatch distinguishes a glue patch attaching
// the implementation after the fact (SpecializationError) from a class
// implementing the trait directly in its own body (TraitMemberTypeError).
func (c *Checker) checkTraitMembersAgainst(ctx *types.Context, self types.Type, trait, impl *types.NominalContext, pos ast.Pos, viaPatch bool) {
	loc := posToLoc(pos)
	for member, required := range trait.Methods {
		got, ok := impl.Methods[member]
		if !ok {
			c.errs.Add(types.NewTraitMemberNotDefinedError(loc, self, trait.Name, member))
			continue
		}
		if types.SupertypeOf(ctx, required, got) {
			continue
		}
		if viaPatch {
			c.errs.Add(types.NewSpecializationError(loc, self, trait.Name, member, required, got))
		} else {
			c.errs.Add(types.NewTraitMemberTypeError(loc, self, trait.Name, member, required, got))
		}
	}
}

func varianceFromString(s string) types.Variance {
	switch s {
	case "+":
		return types.Covariant
	case "-":
		return types.Contravariant
	case "phantom":
		return types.Phantom
	default:
		return types.Invariant
	}
}
