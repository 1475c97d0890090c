package types

// SubUnify is the unification engine's entry point (spec.md §4.3,
// Component H): it mutates free variables as needed so that sub becomes a
// subtype of sup, appending a diagnostic to errs for every way that is
// impossible rather than stopping at the first failure. paramName labels
// which declared parameter this obligation came from, for error messages.
func SubUnify(ctx *Context, sub, sup Type, loc SourceLoc, paramName string, errs *ErrorList) {
	subD := Deref(sub)
	supD := Deref(sup)

	if subD == Uninited || supD == Uninited {
		// Still-being-built circular bound placeholder (spec.md §4.2): the
		// instantiation that wired it in is responsible for completing it,
		// not this call.
		return
	}

	if TypesEqual(subD, supD) {
		return
	}

	// Never/Failure fit under anything, Obj sits over everything, and a
	// Failure on either side marks an error already reported upstream, so
	// nothing more useful can be said about it here. These must run before
	// the free-variable cases so a Failure never tightens a live sandwich.
	if isBottom(subD) || isObj(supD) || isPrimitiveKind(supD, KFailure) {
		return
	}

	// Generalized variables inside a Quantified are opaque to unification;
	// only their instantiated copies ever acquire bounds.
	if isGeneralizedVar(subD) || isGeneralizedVar(supD) {
		return
	}

	subFV, subIsFV := subD.(*FreeVar)
	supFV, supIsFV := supD.(*FreeVar)

	switch {
	case subIsFV && !subFV.Cell.IsLinked() && supIsFV && !supFV.Cell.IsLinked():
		unifyTwoVars(ctx, subFV, supFV, loc, errs)
		return
	case subIsFV && !subFV.Cell.IsLinked():
		linkVarAsSub(ctx, subFV, supD, loc, errs)
		return
	case supIsFV && !supFV.Cell.IsLinked():
		linkVarAsSup(ctx, supFV, subD, loc, errs)
		return
	}

	// De Morgan recursion on the super side first (spec.md §4.1.5 applies
	// equally to sub-unification): sub <: (A or B) and sub <: (A and B).
	if orSup, ok := supD.(*Or); ok {
		if SupertypeOf(ctx, orSup.Lhs, subD) || SupertypeOf(ctx, orSup.Rhs, subD) {
			return
		}
		errs.Add(&SubtypingError{baseErr{loc}, subD, supD})
		return
	}
	if andSup, ok := supD.(*And); ok {
		SubUnify(ctx, subD, andSup.Lhs, loc, paramName, errs)
		SubUnify(ctx, subD, andSup.Rhs, loc, paramName, errs)
		return
	}
	if andSub, ok := subD.(*And); ok {
		if SupertypeOf(ctx, supD, andSub.Lhs) || SupertypeOf(ctx, supD, andSub.Rhs) {
			return
		}
		errs.Add(&SubtypingError{baseErr{loc}, subD, supD})
		return
	}
	if orSub, ok := subD.(*Or); ok {
		SubUnify(ctx, orSub.Lhs, supD, loc, paramName, errs)
		SubUnify(ctx, orSub.Rhs, supD, loc, paramName, errs)
		return
	}

	switch supV := supD.(type) {
	case *Subr:
		switch sv := subD.(type) {
		case *Subr:
			unifySubr(ctx, sv, supV, loc, paramName, errs)
		case *Quantified:
			// The quantified side's generalized slots stay opaque; only
			// its concrete slots participate.
			unifySubr(ctx, sv.Inner, supV, loc, paramName, errs)
		default:
			errs.Add(&UnificationError{baseErr{loc}, subD, supD, "not a subroutine type"})
		}
		return
	case *Quantified:
		switch sv := subD.(type) {
		case *Quantified:
			unifySubr(ctx, sv.Inner, supV.Inner, loc, paramName, errs)
		case *Subr:
			unifySubr(ctx, sv, supV.Inner, loc, paramName, errs)
		default:
			errs.Add(&UnificationError{baseErr{loc}, subD, supD, "not a subroutine type"})
		}
		return
	case *Record:
		subV, ok := subD.(*Record)
		if !ok {
			errs.Add(&UnificationError{baseErr{loc}, subD, supD, "not a record type"})
			return
		}
		for name, supField := range supV.Fields {
			subField, present := subV.Fields[name]
			if !present {
				errs.Add(&MethodError{baseErr{loc}, subD, name})
				continue
			}
			SubUnify(ctx, subField.Type, supField.Type, loc, paramName, errs)
		}
		return
	case *Refinement:
		unifyRefinement(ctx, subD, supV, loc, paramName, errs)
		return
	case *Ref:
		subV, ok := subD.(*Ref)
		if !ok {
			errs.Add(&UnificationError{baseErr{loc}, subD, supD, "not a reference type"})
			return
		}
		SubUnify(ctx, subV.Of, supV.Of, loc, paramName, errs)
		return
	case *RefMut:
		unifyRefMut(ctx, subD, supV, loc, paramName, errs)
		return
	case *Poly:
		subV, ok := subD.(*Poly)
		if !ok {
			errs.Add(&UnificationError{baseErr{loc}, subD, supD, "different type constructors"})
			return
		}
		if subV.Name != supV.Name {
			nominalSubUnify(ctx, subV, supV, loc, paramName, errs)
			return
		}
		unifyPoly(ctx, subV, supV, loc, paramName, errs)
		return
	}

	if _, ok := supD.(*ProjCall); ok {
		errs.Add(&FeatureError{baseErr{loc}, "unification against a type-level projection call"})
		return
	}
	if _, ok := subD.(*ProjCall); ok {
		errs.Add(&FeatureError{baseErr{loc}, "unification of a type-level projection call"})
		return
	}

	if SupertypeOf(ctx, supD, subD) {
		return
	}
	errs.Add(&SubtypingError{baseErr{loc}, subD, supD})
}

// unifyTwoVars implements spec.md §4.3 case 4: both sides are unlinked
// sandwiched free variables ?L(lsub,lsup) and ?R(rsub,rsup). Combine their
// bounds — intersec = lsup ∧ rsup, union = lsub ∨ rsub — and error if the
// combined upper bound collapses to Never (the two variables' constraints
// are jointly unsatisfiable); otherwise alias the cells, with the combined
// Sandwiched(union, intersec) constraint living on whichever variable's
// level survives (the usual HM generalization-level discipline: a
// variable must never end up referencing one from a scope that outlives
// it, so the deeper/younger cell is the one that gets linked away).
func unifyTwoVars(ctx *Context, a, b *FreeVar, loc SourceLoc, errs *ErrorList) {
	aSub, aSup := boundsOf(a)
	bSub, bSup := boundsOf(b)
	intersec := NormalizeAnd(aSup, bSup)
	union := NormalizeOr(aSub, bSub)
	if !SupertypeOf(ctx, intersec, union) {
		errs.Add(&SubtypingError{baseErr{loc}, union, intersec})
		return
	}

	survivor, deposed := a, b
	if b.Cell.Level() <= a.Cell.Level() {
		survivor, deposed = b, a
	}
	if err := survivor.Cell.UpdateConstraint(Sandwiched(union, intersec)); err != nil {
		errs.Add(&UnificationError{baseErr{loc}, union, intersec, err.Error()})
		return
	}
	deposed.Cell.Link(survivor)
}

// linkVarAsSub tightens v's upper bound (ceiling) to account for a new
// requirement v <: newSup, combining with whatever ceiling v already had.
func linkVarAsSub(ctx *Context, v *FreeVar, newSup Type, loc SourceLoc, errs *ErrorList) {
	if occursIn(v.Cell, newSup) {
		errs.Add(&UnificationError{baseErr{loc}, v, newSup, "circular type"})
		return
	}
	curSub, curSup := boundsOf(v)
	combinedSup := NormalizeAnd(curSup, newSup)
	if err := v.Cell.UpdateConstraint(Sandwiched(curSub, combinedSup)); err != nil {
		errs.Add(&UnificationError{baseErr{loc}, curSub, combinedSup, err.Error()})
	}
}

// linkVarAsSup tightens v's lower bound (floor) to account for a new
// requirement newSub <: v.
func linkVarAsSup(ctx *Context, v *FreeVar, newSub Type, loc SourceLoc, errs *ErrorList) {
	if occursIn(v.Cell, newSub) {
		errs.Add(&UnificationError{baseErr{loc}, newSub, v, "circular type"})
		return
	}
	curSub, curSup := boundsOf(v)
	combinedSub := NormalizeOr(curSub, newSub)
	if err := v.Cell.UpdateConstraint(Sandwiched(combinedSub, curSup)); err != nil {
		errs.Add(&UnificationError{baseErr{loc}, combinedSub, curSup, err.Error()})
	}
}

// isGeneralizedVar reports whether t is an unbound free variable still at
// the generic sentinel level, i.e. part of a polytype's declaration rather
// than a live instantiation.
func isGeneralizedVar(t Type) bool {
	fv, ok := t.(*FreeVar)
	return ok && !fv.Cell.IsLinked() && fv.Cell.Level() == GenericLevel
}

// nominalSubUnify handles Poly(F, _) <: Poly(G, _) with F != G: walk F's
// declared supers, instantiate each with a fresh cache, and unify the first
// instance with sup's name and parameter count against sup's own type
// parameters. Instantiating into fresh cells takes the place of
// the substitute-then-restore protocol on the class definition: the
// definition itself is never touched, so there is nothing to undo.
func nominalSubUnify(ctx *Context, sub, sup *Poly, loc SourceLoc, paramName string, errs *ErrorList) {
	nc := nominalContextOf(ctx, sub)
	if nc == nil {
		errs.Add(&SubtypingError{baseErr{loc}, sub, sup})
		return
	}
	for _, super := range append(append([]Type{}, nc.SuperClasses...), nc.SuperTraits...) {
		inst := instantiateType(super, NewTyVarCache(), 0)
		instPoly, ok := Deref(inst).(*Poly)
		if !ok || instPoly.Name != sup.Name || len(instPoly.Params) != len(sup.Params) {
			continue
		}
		unifyPoly(ctx, instPoly, sup, loc, paramName, errs)
		return
	}
	errs.Add(&SubtypingError{baseErr{loc}, sub, sup})
}

// Reunify re-equates a slot that was already typed once with the type of a
// later mutation (e.g. a mutable container reassignment). Unlike SubUnify it
// is symmetric: the new type must be the same type, not merely a subtype.
// For RefMut, New.Before (and New.After when present) must each reunify
// against the corresponding component of Old; an absent Old.After adopts
// New.After — the first write wins the post-state shape.
func Reunify(ctx *Context, old, next Type, loc SourceLoc, errs *ErrorList) {
	oldD, newD := Deref(old), Deref(next)
	switch ov := oldD.(type) {
	case *RefMut:
		nv, ok := newD.(*RefMut)
		if !ok {
			errs.Add(&ReUnificationError{baseErr{loc}, "RefMut", oldD, newD})
			return
		}
		Reunify(ctx, ov.Before, nv.Before, loc, errs)
		if nv.After != nil {
			reunifyAfter(ov, nv, loc, errs)
		}
		return
	case *Ref:
		nv, ok := newD.(*Ref)
		if !ok {
			errs.Add(&ReUnificationError{baseErr{loc}, "Ref", oldD, newD})
			return
		}
		Reunify(ctx, ov.Of, nv.Of, loc, errs)
		return
	case *Poly:
		nv, ok := newD.(*Poly)
		if ok && nv.Name == ov.Name && len(nv.Params) == len(ov.Params) {
			for i := range ov.Params {
				unifyTyParam(ctx, ov.Params[i], nv.Params[i], Invariant, loc, ov.Name, errs)
			}
			return
		}
	}
	if !SameTypeOf(ctx, oldD, newD) {
		errs.Add(&ReUnificationError{baseErr{loc}, oldD.String(), oldD, newD})
	}
}

func boundsOf(v *FreeVar) (sub, sup Type) {
	c := v.Cell.GetConstraint()
	if c.Kind == CKSandwiched {
		return c.Sub, c.Sup
	}
	return Never, Obj
}

// occursIn reports whether cell appears free inside t, the standard occurs
// check guarding against building an infinite type during unification.
func occursIn(cell *Cell, t Type) bool {
	switch v := Deref(t).(type) {
	case *FreeVar:
		return v.Cell == cell
	case *Poly:
		for _, p := range v.Params {
			if occursInTP(cell, p) {
				return true
			}
		}
		return false
	case *Subr:
		return occursInSubr(cell, v)
	case *Quantified:
		return occursInSubr(cell, v.Inner)
	case *Refinement:
		return occursIn(cell, v.Base)
	case *Record:
		for _, f := range v.Fields {
			if occursIn(cell, f.Type) {
				return true
			}
		}
		return false
	case *Ref:
		return occursIn(cell, v.Of)
	case *RefMut:
		return occursIn(cell, v.Before) || (v.After != nil && occursIn(cell, v.After))
	case *And:
		return occursIn(cell, v.Lhs) || occursIn(cell, v.Rhs)
	case *Or:
		return occursIn(cell, v.Lhs) || occursIn(cell, v.Rhs)
	case *Not:
		return occursIn(cell, v.Of)
	case *Proj:
		return occursIn(cell, v.Lhs)
	case *ProjCall:
		if occursIn(cell, v.Lhs) {
			return true
		}
		for _, a := range v.Args {
			if occursInTP(cell, a) {
				return true
			}
		}
		return false
	case *Structural:
		return occursIn(cell, v.Of)
	default:
		return false
	}
}

func occursInSubr(cell *Cell, s *Subr) bool {
	for _, p := range s.NonDefaultPs {
		if occursIn(cell, p.Type) {
			return true
		}
	}
	for _, p := range s.DefaultPs {
		if occursIn(cell, p.Type) {
			return true
		}
	}
	if s.VarParam != nil && occursIn(cell, s.VarParam.Type) {
		return true
	}
	return occursIn(cell, s.Return)
}

func occursInTP(cell *Cell, p TyParam) bool {
	switch v := derefTP(p).(type) {
	case TPType:
		return occursIn(cell, v.T)
	case TPErased:
		return occursIn(cell, v.T)
	case TPVar:
		return v.Cell == cell
	case TPBinOp:
		return occursInTP(cell, v.Lhs) || occursInTP(cell, v.Rhs)
	case TPUnaryOp:
		return occursInTP(cell, v.X)
	case TPApp:
		if occursInTP(cell, v.Func) {
			return true
		}
		for _, a := range v.Args {
			if occursInTP(cell, a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func unifySubr(ctx *Context, sub, sup *Subr, loc SourceLoc, paramName string, errs *ErrorList) {
	if len(sub.NonDefaultPs) != len(sup.NonDefaultPs) {
		errs.Add(&ArgumentError{baseErr{loc}, paramName, len(sup.NonDefaultPs), len(sub.NonDefaultPs)})
		return
	}
	for i := range sub.NonDefaultPs {
		// Parameters are contravariant: sub's declared parameter must be
		// at least as permissive as sup's.
		SubUnify(ctx, sup.NonDefaultPs[i].Type, sub.NonDefaultPs[i].Type, loc, sub.NonDefaultPs[i].Name, errs)
	}
	if sub.VarParam != nil && sup.VarParam != nil {
		SubUnify(ctx, sup.VarParam.Type, sub.VarParam.Type, loc, sup.VarParam.Name, errs)
	}
	for _, dp := range sup.DefaultPs {
		found := false
		for _, sp := range sub.DefaultPs {
			if sp.Name == dp.Name {
				found = true
				SubUnify(ctx, dp.Type, sp.Type, loc, dp.Name, errs)
				break
			}
		}
		if !found {
			errs.Add(&ArgumentTypeError{baseErr: baseErr{loc}, Callee: paramName, Param: dp.Name, Expected: dp.Type, Got: Never})
		}
	}
	SubUnify(ctx, sub.Return, sup.Return, loc, paramName, errs)
}

func unifyPoly(ctx *Context, sub, sup *Poly, loc SourceLoc, paramName string, errs *ErrorList) {
	nc := nominalContextOf(ctx, sub)
	n := len(sub.Params)
	if len(sup.Params) < n {
		n = len(sup.Params)
	}
	for i := 0; i < n; i++ {
		variance := Invariant
		if nc != nil {
			variance = nc.VarianceOf(i)
		}
		unifyTyParam(ctx, sub.Params[i], sup.Params[i], variance, loc, paramName, errs)
	}
}

func unifyTyParam(ctx *Context, sub, sup TyParam, variance Variance, loc SourceLoc, paramName string, errs *ErrorList) {
	subT, subIsT := derefTP(sub).(TPType)
	supT, supIsT := derefTP(sup).(TPType)
	if subIsT && supIsT {
		switch variance {
		case Covariant:
			SubUnify(ctx, subT.T, supT.T, loc, paramName, errs)
		case Contravariant:
			SubUnify(ctx, supT.T, subT.T, loc, paramName, errs)
		case Phantom:
			// no constraint
		default:
			SubUnify(ctx, subT.T, supT.T, loc, paramName, errs)
			SubUnify(ctx, supT.T, subT.T, loc, paramName, errs)
		}
		return
	}
	if !TyParamEquals(sub, sup) {
		errs.Add(&PredicateUnificationError{baseErr{loc}, PEqual{Lhs: "_", Rhs: sub}, PEqual{Lhs: "_", Rhs: sup}})
	}
}

func unifyRefinement(ctx *Context, sub Type, sup *Refinement, loc SourceLoc, paramName string, errs *ErrorList) {
	sr, subIsRefinement := sub.(*Refinement)
	subBase := sub
	var subPred Predicate = PValue{B: true}
	if subIsRefinement {
		subBase = sr.Base
		subPred = combinePreds(sr.Preds)
	}
	SubUnify(ctx, subBase, sup.Base, loc, paramName, errs)
	supPred := combinePreds(sup.Preds)
	if subIsRefinement && (predHasUnboundVar(subPred) || predHasUnboundVar(supPred)) {
		// Either side still carries an instantiated type-parameter
		// variable: align the predicates so those variables acquire their
		// operands, rather than judging entailment on an unsolved shape.
		SubUnifyPred(ctx, subPred, supPred, loc, errs)
		return
	}
	if isSuperPredOf(subPred, supPred) {
		return
	}
	if !subIsRefinement {
		// sub carries no predicate of its own to compare: it cannot be
		// shown to inhabit the refinement at all, not merely a predicate
		// mismatch between two refinements.
		errs.Add(&SubtypingError{baseErr{loc}, sub, sup})
		return
	}
	errs.Add(&PredicateUnificationError{baseErr{loc}, subPred, supPred})
}

// SubUnifyPred aligns a refinement predicate pair (spec.md §4.3.2):
// same-shape predicates unify their type-parameter operands; a one-sided
// bound on the sub side against an interval (lower and upper bound
// conjoined) on the sup side unifies its own side of the interval and
// resolves the other side to the corresponding infinity.
func SubUnifyPred(ctx *Context, sub, sup Predicate, loc SourceLoc, errs *ErrorList) {
	fail := func() {
		errs.Add(&PredicateUnificationError{baseErr{loc}, sub, sup})
	}
	switch supV := sup.(type) {
	case PAnd:
		if ge, le, ok := intervalOf(supV); ok {
			switch sv := sub.(type) {
			case PGreaterEqual:
				if !subUnifyTPOperands(ctx, sv.Rhs, ge.Rhs, loc, errs) || !subUnifyTPOperands(ctx, TPType{T: Inf}, le.Rhs, loc, errs) {
					fail()
				}
				return
			case PLessEqual:
				if !subUnifyTPOperands(ctx, sv.Rhs, le.Rhs, loc, errs) || !subUnifyTPOperands(ctx, TPType{T: NegInf}, ge.Rhs, loc, errs) {
					fail()
				}
				return
			}
		}
		if sv, ok := sub.(PAnd); ok {
			SubUnifyPred(ctx, sv.P, supV.P, loc, errs)
			SubUnifyPred(ctx, sv.Q, supV.Q, loc, errs)
			return
		}
		fail()
		return
	case POr:
		if sv, ok := sub.(POr); ok {
			SubUnifyPred(ctx, sv.P, supV.P, loc, errs)
			SubUnifyPred(ctx, sv.Q, supV.Q, loc, errs)
			return
		}
		fail()
		return
	case PNot:
		if sv, ok := sub.(PNot); ok {
			SubUnifyPred(ctx, sv.P, supV.P, loc, errs)
			return
		}
		fail()
		return
	case PValue:
		if sv, ok := sub.(PValue); ok && sv.B == supV.B {
			return
		}
		if supV.B {
			return // anything implies a tautology
		}
		fail()
		return
	case PEqual:
		if sv, ok := sub.(PEqual); ok {
			if !subUnifyTPOperands(ctx, sv.Rhs, supV.Rhs, loc, errs) {
				fail()
			}
			return
		}
		fail()
		return
	case PNotEqual:
		if sv, ok := sub.(PNotEqual); ok {
			if !subUnifyTPOperands(ctx, sv.Rhs, supV.Rhs, loc, errs) {
				fail()
			}
			return
		}
		fail()
		return
	case PGreaterEqual:
		if sv, ok := sub.(PGreaterEqual); ok {
			if !subUnifyTPOperands(ctx, sv.Rhs, supV.Rhs, loc, errs) {
				fail()
			}
			return
		}
		fail()
		return
	case PLessEqual:
		if sv, ok := sub.(PLessEqual); ok {
			if !subUnifyTPOperands(ctx, sv.Rhs, supV.Rhs, loc, errs) {
				fail()
			}
			return
		}
		fail()
		return
	default:
		if !PredicateEquals(sub, sup) {
			fail()
		}
	}
}

// intervalOf recognizes a conjunction carrying exactly one lower and one
// upper bound, in either order.
func intervalOf(p PAnd) (ge PGreaterEqual, le PLessEqual, ok bool) {
	if g, gok := p.P.(PGreaterEqual); gok {
		if l, lok := p.Q.(PLessEqual); lok {
			return g, l, true
		}
	}
	if l, lok := p.P.(PLessEqual); lok {
		if g, gok := p.Q.(PGreaterEqual); gok {
			return g, l, true
		}
	}
	return PGreaterEqual{}, PLessEqual{}, false
}

// SubUnifyTP unifies two type-parameter operands, linking an unbound
// type-parameter variable on either side to the other operand. Reports a
// PredicateUnificationError itself when the operands cannot be reconciled.
func SubUnifyTP(ctx *Context, sub, sup TyParam, loc SourceLoc, errs *ErrorList) {
	if !subUnifyTPOperands(ctx, sub, sup, loc, errs) {
		errs.Add(&PredicateUnificationError{baseErr{loc}, PEqual{Lhs: "_", Rhs: sub}, PEqual{Lhs: "_", Rhs: sup}})
	}
}

// subUnifyTPOperands does the work of SubUnifyTP but leaves error reporting
// to the caller, which knows the enclosing predicates.
func subUnifyTPOperands(ctx *Context, sub, sup TyParam, loc SourceLoc, errs *ErrorList) bool {
	sub, sup = derefTP(sub), derefTP(sup)
	if sv, ok := sub.(TPVar); ok {
		if tv, ok2 := sup.(TPVar); ok2 && sv.Cell == tv.Cell {
			return true
		}
	}
	if tv, ok := sup.(TPVar); ok && tv.Cell.Level() != GenericLevel {
		return linkTPVar(tv, sub)
	}
	if sv, ok := sub.(TPVar); ok && sv.Cell.Level() != GenericLevel {
		return linkTPVar(sv, sup)
	}
	subT, subIsT := sub.(TPType)
	supT, supIsT := sup.(TPType)
	if subIsT && supIsT {
		SubUnify(ctx, subT.T, supT.T, loc, "", errs)
		return true
	}
	return TyParamEquals(sub, sup)
}

// linkTPVar resolves a type-parameter variable to an operand, which may be
// a value, a type, or another variable (aliasing).
func linkTPVar(v TPVar, to TyParam) bool {
	if occursInTP(v.Cell, to) {
		return false
	}
	v.Cell.LinkTyParam(to)
	return true
}

// predHasUnboundVar reports whether any type-parameter operand inside p is
// still an unbound, non-generalized variable.
func predHasUnboundVar(p Predicate) bool {
	found := false
	SubstitutePred(p, func(tp TyParam) TyParam {
		if v, ok := derefTP(tp).(TPVar); ok && v.Cell.Level() != GenericLevel {
			found = true
		}
		return tp
	})
	return found
}

func combinePreds(preds []Predicate) Predicate {
	var acc Predicate = PValue{B: true}
	for _, p := range preds {
		acc = NewAnd(acc, p)
	}
	return acc
}

func unifyRefMut(ctx *Context, subD Type, sup *RefMut, loc SourceLoc, paramName string, errs *ErrorList) {
	subV, ok := subD.(*RefMut)
	if !ok {
		errs.Add(&UnificationError{baseErr{loc}, subD, sup, "not a mutable reference type"})
		return
	}
	SubUnify(ctx, subV.Before, sup.Before, loc, paramName, errs)
	SubUnify(ctx, sup.Before, subV.Before, loc, paramName, errs)
	reunifyAfter(subV, sup, loc, errs)
}

// reunifyAfter resolves RefMut.After when either side declares a post-write
// state: if only one side has one, it wins, and two conflicting
// concrete states are reported rather than silently picked between.
func reunifyAfter(sub, sup *RefMut, loc SourceLoc, errs *ErrorList) {
	switch {
	case sub.After == nil && sup.After == nil:
		return
	case sub.After == nil:
		sub.After = sup.After
	case sup.After == nil:
		sup.After = sub.After
	default:
		if !TypesEqual(sub.After, sup.After) {
			errs.Add(&ReUnificationError{baseErr{loc}, "RefMut.After", sub.After, sup.After})
		}
	}
}
