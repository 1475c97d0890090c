package types

import "fmt"

// Instantiate replaces a polytype's generalized free variables with fresh
// cells sharing a per-call cache, so that two occurrences of the same
// generalized name bind to the same fresh variable (spec.md §4.2, Component
// G). level is the unification scope depth the fresh variables are created
// at.
func Instantiate(q *Quantified, level Level) *Subr {
	return InstantiateWithCache(q, NewTyVarCache(), level)
}

// InstantiateWithCache instantiates using a caller-supplied cache, used
// when entering a nested quantifier so inner references to the enclosing
// generic item's own parameters resolve consistently (spec.md §3.6).
func InstantiateWithCache(q *Quantified, cache *TyVarCache, level Level) *Subr {
	return instantiateSubr(q.Inner, cache, level)
}

// InstantiateCall instantiates a polytype at a call site and, if the
// subroutine declares a leading "self" parameter, sub-unifies the receiver
// type against it (spec.md §4.2 contract: "the call site provides ... a
// receiver type that must unify against the declared self parameter").
func InstantiateCall(ctx *Context, q *Quantified, level Level, loc SourceLoc, receiver Type) (*Subr, *ErrorList) {
	mono := Instantiate(q, level)
	if receiver == nil {
		return mono, nil
	}
	for _, p := range mono.NonDefaultPs {
		if p.Name == "self" {
			errs := NewErrorList()
			SubUnify(ctx, receiver, p.Type, loc, "self", errs)
			if errs.Len() > 0 {
				return mono, errs
			}
			return mono, nil
		}
	}
	return mono, nil
}

func instantiateSubr(s *Subr, cache *TyVarCache, level Level) *Subr {
	nd := make([]Param, len(s.NonDefaultPs))
	for i, p := range s.NonDefaultPs {
		nd[i] = Param{Name: p.Name, Type: instantiateType(p.Type, cache, level)}
	}
	var vp *Param
	if s.VarParam != nil {
		t := instantiateType(s.VarParam.Type, cache, level)
		vp = &Param{Name: s.VarParam.Name, Type: t}
	}
	dp := make([]Param, len(s.DefaultPs))
	for i, p := range s.DefaultPs {
		dp[i] = Param{Name: p.Name, Type: instantiateType(p.Type, cache, level)}
	}
	return &Subr{
		Kind:         s.Kind,
		NonDefaultPs: nd,
		VarParam:     vp,
		DefaultPs:    dp,
		Return:       instantiateType(s.Return, cache, level),
	}
}

func instantiateType(t Type, cache *TyVarCache, level Level) Type {
	switch v := t.(type) {
	case *Primitive:
		return v
	case *Mono:
		return v
	case *Poly:
		params := make([]TyParam, len(v.Params))
		for i, p := range v.Params {
			params[i] = instantiateTyParam(p, cache, level)
		}
		return &Poly{Name: v.Name, Params: params}
	case *Subr:
		return instantiateSubr(v, cache, level)
	case *Quantified:
		nested := NewTyVarCache()
		nested.Merge(cache)
		return &Quantified{Inner: instantiateSubr(v.Inner, nested, level)}
	case *Refinement:
		preds := make([]Predicate, len(v.Preds))
		for i, p := range v.Preds {
			preds[i] = instantiatePredicate(p, cache, level)
		}
		return &Refinement{Base: instantiateType(v.Base, cache, level), Var: v.Var, Preds: preds}
	case *Record:
		fields := make(map[string]RecordField, len(v.Fields))
		for k, f := range v.Fields {
			fields[k] = RecordField{Vis: f.Vis, Type: instantiateType(f.Type, cache, level)}
		}
		return &Record{Fields: fields}
	case *Ref:
		return &Ref{Of: instantiateType(v.Of, cache, level)}
	case *RefMut:
		var after Type
		if v.After != nil {
			after = instantiateType(v.After, cache, level)
		}
		return &RefMut{Before: instantiateType(v.Before, cache, level), After: after}
	case *And:
		return NormalizeAnd(instantiateType(v.Lhs, cache, level), instantiateType(v.Rhs, cache, level))
	case *Or:
		return NormalizeOr(instantiateType(v.Lhs, cache, level), instantiateType(v.Rhs, cache, level))
	case *Not:
		return &Not{Of: instantiateType(v.Of, cache, level)}
	case *Proj:
		return &Proj{Lhs: instantiateType(v.Lhs, cache, level), Rhs: v.Rhs}
	case *ProjCall:
		args := make([]TyParam, len(v.Args))
		for i, a := range v.Args {
			args[i] = instantiateTyParam(a, cache, level)
		}
		return &ProjCall{Lhs: instantiateType(v.Lhs, cache, level), Method: v.Method, Args: args}
	case *Structural:
		return &Structural{Of: instantiateType(v.Of, cache, level)}
	case *FreeVar:
		return instantiateVar(v, cache, level)
	default:
		return t
	}
}

// instantiateVar is spec.md §4.2's core recursive case, including the
// circular-bound protocol of §4.2 "Circular bound handling": a placeholder
// with Constraint::Uninited is wired into the cache before the constraint
// itself is instantiated, so a self-reference inside the constraint
// resolves to the same cell instead of recursing forever.
func instantiateVar(fv *FreeVar, cache *TyVarCache, level Level) Type {
	cell := fv.Cell
	if cell.IsLinked() {
		return instantiateType(Deref(fv), cache, level)
	}
	if cell.Level() != GenericLevel {
		// Not a generalized variable: nothing to instantiate.
		return fv
	}
	name := cell.Name()
	if name == "" {
		name = fmt.Sprintf("_%d", cell.ID())
	}
	if existing, ok := cache.Get(name); ok {
		return existing
	}
	cache.MarkAppeared(name)
	placeholder := NewNamedFreeVar(name, level, UninitedConstraint())
	cache.Set(name, placeholder)
	newConstraint := instantiateConstraint(cell.GetConstraint(), cache, level)
	// Overwrite Uninited in place rather than via UpdateConstraint: the
	// freshly wired bound may mention the placeholder itself, and the
	// sandwich validation would walk that cycle.
	placeholder.Cell.constraint = newConstraint
	return placeholder
}

func instantiateConstraint(c Constraint, cache *TyVarCache, level Level) Constraint {
	switch c.Kind {
	case CKSandwiched:
		return Sandwiched(instantiateType(c.Sub, cache, level), instantiateType(c.Sup, cache, level))
	case CKTypeOf:
		return TypeOfConstraint(instantiateType(c.Of, cache, level))
	default:
		return c
	}
}

func instantiateTyParam(p TyParam, cache *TyVarCache, level Level) TyParam {
	switch v := p.(type) {
	case TPValue:
		return v
	case TPConst:
		return v
	case TPType:
		return TPType{instantiateType(v.T, cache, level)}
	case TPErased:
		return TPErased{instantiateType(v.T, cache, level)}
	case TPVar:
		return instantiateTPVar(v, cache, level)
	case TPBinOp:
		return TPBinOp{Op: v.Op, Lhs: instantiateTyParam(v.Lhs, cache, level), Rhs: instantiateTyParam(v.Rhs, cache, level)}
	case TPUnaryOp:
		return TPUnaryOp{Op: v.Op, X: instantiateTyParam(v.X, cache, level)}
	case TPApp:
		args := make([]TyParam, len(v.Args))
		for i, a := range v.Args {
			args[i] = instantiateTyParam(a, cache, level)
		}
		return TPApp{Func: instantiateTyParam(v.Func, cache, level), Args: args}
	case TPArray:
		return TPArray{Elems: instantiateTPList(v.Elems, cache, level)}
	case TPSet:
		return TPSet{Elems: instantiateTPList(v.Elems, cache, level)}
	case TPTuple:
		return TPTuple{Elems: instantiateTPList(v.Elems, cache, level)}
	case TPDict:
		entries := make([]TPDictEntry, len(v.Entries))
		for i, e := range v.Entries {
			entries[i] = TPDictEntry{Key: instantiateTyParam(e.Key, cache, level), Val: instantiateTyParam(e.Val, cache, level)}
		}
		return TPDict{Entries: entries}
	case TPRecord:
		fields := make(map[string]TyParam, len(v.Fields))
		for k, f := range v.Fields {
			fields[k] = instantiateTyParam(f, cache, level)
		}
		return TPRecord{Fields: fields}
	case TPLambda:
		return TPLambda{Params: v.Params, Body: instantiateTyParam(v.Body, cache, level)}
	default:
		return p
	}
}

func instantiateTPList(elems []TyParam, cache *TyVarCache, level Level) []TyParam {
	out := make([]TyParam, len(elems))
	for i, e := range elems {
		out[i] = instantiateTyParam(e, cache, level)
	}
	return out
}

func instantiateTPVar(v TPVar, cache *TyVarCache, level Level) TyParam {
	cell := v.Cell
	if cell.IsLinked() {
		if tp, ok := cell.TyParamTarget(); ok {
			return instantiateTyParam(tp, cache, level)
		}
		return TPType{instantiateType(Deref(cell.Target()), cache, level)}
	}
	if cell.Level() != GenericLevel {
		return v
	}
	name := cell.Name()
	if name == "" {
		name = fmt.Sprintf("_tp%d", cell.ID())
	}
	if existing, ok := cache.GetTyParam(name); ok {
		return existing
	}
	cache.MarkAppeared(name)
	ph := NewNamedUnboundCell(name, level, UninitedConstraint())
	phTP := TPVar{Cell: ph}
	cache.SetTyParam(name, phTP)
	ph.constraint = instantiateConstraint(cell.GetConstraint(), cache, level)
	return phTP
}

func instantiatePredicate(p Predicate, cache *TyVarCache, level Level) Predicate {
	return SubstitutePred(p, func(tp TyParam) TyParam { return instantiateTyParam(tp, cache, level) })
}

// NormalizeAnd/NormalizeOr rebuild a structural intersection/union using
// the normalized constructors spec.md §4.2 asks for ("T ∧ Obj simplifies
// to T, etc.").
func NormalizeAnd(a, b Type) Type {
	if isObj(a) {
		return b
	}
	if isObj(b) {
		return a
	}
	if isPrimitiveKind(a, KNever) || isPrimitiveKind(b, KNever) {
		return Never
	}
	return &And{Lhs: a, Rhs: b}
}

func NormalizeOr(a, b Type) Type {
	if isObj(a) || isObj(b) {
		return Obj
	}
	if isPrimitiveKind(a, KNever) {
		return b
	}
	if isPrimitiveKind(b, KNever) {
		return a
	}
	return &Or{Lhs: a, Rhs: b}
}
