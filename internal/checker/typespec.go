package checker

import (
	"fmt"

	"github.com/verity-lang/verity/internal/ast"
	"github.com/verity-lang/verity/internal/types"
)

// resolveTypeSpec converts a surface ast.TypeSpec into an internal
// types.Type, grounded on the teacher's astTypeToType (internal/types/
// typechecker.go): a name-or-constructor switch with a type-variable fresh
// var as the unannotated fallback.
func (c *Checker) resolveTypeSpec(ctx *types.Context, tvEnv typeVarEnv, spec ast.TypeSpec) types.Type {
	if spec == nil {
		return types.NewFreeVar(c.level, types.Sandwiched(types.Never, types.Obj))
	}
	switch s := spec.(type) {
	case *ast.NamedType:
		return c.resolveNamedType(ctx, tvEnv, s)
	case *ast.TypeVarSpec:
		if t, ok := tvEnv[s.Name]; ok {
			return t
		}
		fv := types.NewNamedFreeVar(s.Name, c.level, types.Sandwiched(types.Never, types.Obj))
		tvEnv[s.Name] = fv
		return fv
	case *ast.SubrTypeSpec:
		return c.resolveSubrTypeSpec(ctx, tvEnv, s)
	case *ast.ArrayTypeSpec:
		elem := c.resolveTypeSpec(ctx, tvEnv, s.Elem)
		lenParam := types.TyParam(types.TPErased{T: types.Int})
		if s.Length != nil {
			lenParam = c.exprToTyParam(ctx, tvEnv, s.Length)
		}
		return &types.Poly{Name: "Array", Params: []types.TyParam{types.TPType{T: elem}, lenParam}}
	case *ast.SetTypeSpec:
		elem := c.resolveTypeSpec(ctx, tvEnv, s.Elem)
		return &types.Poly{Name: "Set", Params: []types.TyParam{types.TPType{T: elem}}}
	case *ast.DictTypeSpec:
		k := c.resolveTypeSpec(ctx, tvEnv, s.Key)
		v := c.resolveTypeSpec(ctx, tvEnv, s.Value)
		return &types.Poly{Name: "Dict", Params: []types.TyParam{types.TPType{T: k}, types.TPType{T: v}}}
	case *ast.TupleTypeSpec:
		elems := make([]types.TyParam, len(s.Elements))
		for i, e := range s.Elements {
			elems[i] = types.TPType{T: c.resolveTypeSpec(ctx, tvEnv, e)}
		}
		return &types.Poly{Name: "Tuple", Params: elems}
	case *ast.IntervalTypeSpec:
		return c.resolveIntervalTypeSpec(ctx, tvEnv, s)
	case *ast.EnumTypeSpec:
		c.errs.Add(types.NewFeatureError(posToLoc(s.Pos), "enum type spec"))
		return types.Obj
	case *ast.AndTypeSpec:
		return types.NormalizeAnd(c.resolveTypeSpec(ctx, tvEnv, s.Lhs), c.resolveTypeSpec(ctx, tvEnv, s.Rhs))
	case *ast.OrTypeSpec:
		return types.NormalizeOr(c.resolveTypeSpec(ctx, tvEnv, s.Lhs), c.resolveTypeSpec(ctx, tvEnv, s.Rhs))
	case *ast.NotTypeSpec:
		return &types.Not{Of: c.resolveTypeSpec(ctx, tvEnv, s.Of)}
	case *ast.RefTypeSpec:
		return &types.Ref{Of: c.resolveTypeSpec(ctx, tvEnv, s.Of)}
	case *ast.RefMutTypeSpec:
		before := c.resolveTypeSpec(ctx, tvEnv, s.Before)
		var after types.Type
		if s.After != nil {
			after = c.resolveTypeSpec(ctx, tvEnv, s.After)
		}
		return &types.RefMut{Before: before, After: after}
	case *ast.RefinementTypeSpec:
		base := c.resolveTypeSpec(ctx, tvEnv, s.Base)
		pred := c.resolvePredicate(s.Binder, s.Predicate)
		return &types.Refinement{Base: base, Var: s.Binder, Preds: []types.Predicate{pred}}
	case *ast.RecordTypeSpec:
		fields := map[string]types.RecordField{}
		for _, f := range s.Fields {
			vis := types.FieldPublic
			if f.Visibility == ast.Private {
				vis = types.FieldPrivate
			}
			fields[f.Name] = types.RecordField{Vis: vis, Type: c.resolveTypeSpec(ctx, tvEnv, f.Type)}
		}
		return &types.Record{Fields: fields}
	case *ast.ProjTypeSpec:
		return &types.Proj{Lhs: c.resolveTypeSpec(ctx, tvEnv, s.Of), Rhs: s.Member}
	default:
		c.errs.Add(types.NewFeatureError(posToLoc(spec.Position()), fmt.Sprintf("type spec shape %T", spec)))
		return types.Obj
	}
}

func (c *Checker) resolveNamedType(ctx *types.Context, tvEnv typeVarEnv, n *ast.NamedType) types.Type {
	if len(n.Args) == 0 {
		if t, ok := primitiveByName[n.Name]; ok {
			return t
		}
		if t, ok := tvEnv[n.Name]; ok {
			return t
		}
		return &types.Mono{Name: n.Name}
	}
	params := make([]types.TyParam, len(n.Args))
	for i, a := range n.Args {
		params[i] = c.exprToTyParam(ctx, tvEnv, a)
	}
	return &types.Poly{Name: n.Name, Params: params}
}

func (c *Checker) resolveSubrTypeSpec(ctx *types.Context, tvEnv typeVarEnv, s *ast.SubrTypeSpec) types.Type {
	kind := types.SubrFunc
	if s.IsProc {
		kind = types.SubrProc
	}
	subr := &types.Subr{Kind: kind}
	for _, p := range s.Params {
		subr.NonDefaultPs = append(subr.NonDefaultPs, types.Param{Name: p.Name, Type: c.resolveTypeSpec(ctx, tvEnv, p.Type)})
	}
	if s.VarParam != nil {
		vp := types.Param{Name: s.VarParam.Name, Type: c.resolveTypeSpec(ctx, tvEnv, s.VarParam.Type)}
		subr.VarParam = &vp
	}
	for _, p := range s.DefaultPs {
		subr.DefaultPs = append(subr.DefaultPs, types.Param{Name: p.Name, Type: c.resolveTypeSpec(ctx, tvEnv, p.Type)})
	}
	subr.Return = c.resolveTypeSpec(ctx, tvEnv, s.Return)
	return subr
}

// resolveIntervalTypeSpec models `lo..hi` as a refinement over the base
// numeric primitive. Each bound becomes a predicate only when it is a plain
// literal; a non-literal bound is dropped. When neither bound is a literal
// the interval degrades to the unconstrained base (reported as a
// FeatureError, spec.md §7 "construct accepted but not yet supported").
func (c *Checker) resolveIntervalTypeSpec(ctx *types.Context, tvEnv typeVarEnv, s *ast.IntervalTypeSpec) types.Type {
	var base types.Type
	switch s.Base {
	case ast.IntervalNat:
		base = types.Nat
	case ast.IntervalFloat:
		base = types.Float
	default:
		base = types.Int
	}
	const binder = "_n"
	var preds []types.Predicate
	if lo, ok := s.Lo.(*ast.Literal); ok {
		if s.Kind == ast.IntervalOpen {
			preds = append(preds, types.NewNot(types.PEqual{Lhs: binder, Rhs: c.exprToTyParam(ctx, tvEnv, lo)}))
		}
		preds = append(preds, types.PGreaterEqual{Lhs: binder, Rhs: c.exprToTyParam(ctx, tvEnv, lo)})
	}
	if hi, ok := s.Hi.(*ast.Literal); ok {
		op := types.PLessEqual{Lhs: binder, Rhs: c.exprToTyParam(ctx, tvEnv, hi)}
		if s.Kind == ast.IntervalHalfOpen || s.Kind == ast.IntervalOpen {
			preds = append(preds, types.NewNot(types.PEqual{Lhs: binder, Rhs: c.exprToTyParam(ctx, tvEnv, hi)}))
		}
		preds = append(preds, op)
	}
	if len(preds) == 0 {
		c.errs.Add(types.NewFeatureError(posToLoc(s.Pos), "non-literal interval bound"))
		return base
	}
	return &types.Refinement{Base: base, Var: binder, Preds: preds}
}

func (c *Checker) resolvePredicate(binder string, e ast.Expr) types.Predicate {
	switch n := e.(type) {
	case *ast.BinaryOp:
		switch n.Op {
		case "and":
			return types.NewAnd(c.resolvePredicate(binder, n.Left), c.resolvePredicate(binder, n.Right))
		case "or":
			return types.NewOr(c.resolvePredicate(binder, n.Left), c.resolvePredicate(binder, n.Right))
		case "==", "!=", ">=", "<=":
			if id, ok := n.Left.(*ast.Identifier); ok && id.Name == binder {
				rhs := c.exprToTyParam(nil, nil, n.Right)
				switch n.Op {
				case "==":
					return types.PEqual{Lhs: binder, Rhs: rhs}
				case "!=":
					return types.PNotEqual{Lhs: binder, Rhs: rhs}
				case ">=":
					return types.PGreaterEqual{Lhs: binder, Rhs: rhs}
				default:
					return types.PLessEqual{Lhs: binder, Rhs: rhs}
				}
			}
		}
	case *ast.UnaryOp:
		if n.Op == "not" {
			return types.NewNot(c.resolvePredicate(binder, n.Expr))
		}
	}
	c.errs.Add(types.NewFeatureError(posToLoc(e.Position()), fmt.Sprintf("refinement predicate shape %T", e)))
	return types.PValue{B: true}
}

// exprToTyParam lowers a type-parameter-position expression (e.g. the `3`
// in `Array(Int, 3)`) into a TyParam. ctx/tvEnv may be nil when called from
// a context with no enclosing declaration (e.g. a refinement predicate's
// right-hand side).
func (c *Checker) exprToTyParam(ctx *types.Context, tvEnv typeVarEnv, e ast.Expr) types.TyParam {
	switch n := e.(type) {
	case *ast.Literal:
		return types.TPValue{V: literalValueObj(n)}
	case *ast.Identifier:
		if tvEnv != nil {
			if t, ok := tvEnv[n.Name]; ok {
				if fv, ok := t.(*types.FreeVar); ok {
					return types.TPVar{Cell: fv.Cell}
				}
				return types.TPType{T: t}
			}
		}
		if t, ok := primitiveByName[n.Name]; ok {
			return types.TPType{T: t}
		}
		if ctx != nil {
			if _, ok := ctx.LookupNominal(n.Name); ok {
				return types.TPType{T: &types.Mono{Name: n.Name}}
			}
		}
		return types.TPConst{Name: n.Name}
	case *ast.UnaryOp:
		return types.TPUnaryOp{Op: n.Op, X: c.exprToTyParam(ctx, tvEnv, n.Expr)}
	case *ast.BinaryOp:
		return types.TPBinOp{Op: n.Op, Lhs: c.exprToTyParam(ctx, tvEnv, n.Left), Rhs: c.exprToTyParam(ctx, tvEnv, n.Right)}
	default:
		c.errs.Add(types.NewFeatureError(posToLoc(e.Position()), fmt.Sprintf("type-parameter expression shape %T", e)))
		return types.TPErased{T: types.Obj}
	}
}

func literalValueObj(n *ast.Literal) types.ValueObj {
	switch n.Kind {
	case ast.NatLit:
		return types.NatValue{V: toUint64(n.Value)}
	case ast.FloatLit, ast.RatioLit:
		return types.FloatValue{V: toFloat64(n.Value)}
	case ast.StringLit:
		if s, ok := n.Value.(string); ok {
			return types.StrValue{V: s}
		}
		return types.StrValue{V: fmt.Sprintf("%v", n.Value)}
	case ast.BoolLit:
		if b, ok := n.Value.(bool); ok {
			return types.BoolValue{V: b}
		}
		return types.BoolValue{V: false}
	default:
		return types.IntValue{V: toInt64(n.Value)}
	}
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func toUint64(v interface{}) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case int64:
		return uint64(n)
	case int:
		return uint64(n)
	case float64:
		return uint64(n)
	default:
		return 0
	}
}

func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}
