package types

// credibility is the result shape of the cheap fast path (spec.md §4.1,
// SPEC_FULL.md supplemented feature #1: kept as a real two-valued type rather
// than collapsed into a bool so callers can tell "cheaply proven" apart
// from "needs the full comparison").
type credibility int

const (
	credAbsolutely credibility = iota
	credMaybe
)

// SupertypeOf answers "is lhs a supertype of rhs?" (spec.md §4.1). It is
// pure from the caller's view: any trial links placed during comparison
// are undone before it returns (spec.md §4.3 cancellation semantics).
func SupertypeOf(ctx *Context, lhs, rhs Type) bool {
	if cached, ok := lookupCache(lhs, rhs); ok {
		return cached
	}
	exit := DefaultTracer.Enter("supertype_of", lhs, rhs)
	cred, result := cheapSupertypeOf(ctx, lhs, rhs)
	if cred != credAbsolutely {
		result = structuralSupertypeOf(ctx, lhs, rhs) || nominalSupertypeOf(ctx, lhs, rhs)
	}
	exit(result)
	storeCache(lhs, rhs, result)
	return result
}

// SubtypeOf answers "is lhs a subtype of rhs?".
func SubtypeOf(ctx *Context, lhs, rhs Type) bool {
	return SupertypeOf(ctx, rhs, lhs)
}

// SameTypeOf answers "are lhs and rhs mutually sub/super types?".
func SameTypeOf(ctx *Context, lhs, rhs Type) bool {
	return SupertypeOf(ctx, lhs, rhs) && SupertypeOf(ctx, rhs, lhs)
}

// Related answers "is either a subtype of the other?".
func Related(ctx *Context, a, b Type) bool {
	return SupertypeOf(ctx, a, b) || SupertypeOf(ctx, b, a)
}

// supertypeOfNoCache is a context-free variant used by Cell.UpdateConstraint
// to validate that a newly-sandwiched bound still satisfies sub <: sup,
// before any nominal context is necessarily available. It still gets the
// full structural comparison; only nominal-trait lookups are unavailable
// (they gracefully report "not found" when ctx is nil).
func supertypeOfNoCache(lhs, rhs Type) (bool, error) {
	cred, result := cheapSupertypeOf(nil, lhs, rhs)
	if cred == credAbsolutely {
		return result, nil
	}
	return structuralSupertypeOf(nil, lhs, rhs) || nominalSupertypeOf(nil, lhs, rhs), nil
}

// cheapSupertypeOf is the fast path (spec.md §4.1 case 1).
func cheapSupertypeOf(ctx *Context, lhs, rhs Type) (credibility, bool) {
	lhs, rhs = Deref(lhs), Deref(rhs)

	if TypesEqual(lhs, rhs) {
		return credAbsolutely, true
	}
	if isObj(lhs) {
		return credAbsolutely, true
	}
	if isBottom(rhs) {
		return credAbsolutely, true
	}

	if lp, rp := asPrimitive(lhs), asPrimitive(rhs); lp != nil && rp != nil {
		if ok, known := numericTower(lp.Kind, rp.Kind); known {
			return credAbsolutely, ok
		}
	}

	if isPrimitiveKind(lhs, KType) {
		if isPrimitiveKind(rhs, KClassType) || isPrimitiveKind(rhs, KTraitType) {
			return credAbsolutely, true
		}
	}

	if lm, ok := lhs.(*Mono); ok {
		if rp, ok := rhs.(*Poly); ok && isGenericUmbrella(lm.Name, rp.Name) {
			return credAbsolutely, true
		}
	}

	// Two distinct simple (parameterless) nominal names can never be
	// related structurally; stop here (spec.md §4.1 case 1, last bullet).
	_, lmOK := lhs.(*Mono)
	_, rmOK := rhs.(*Mono)
	if lmOK && rmOK {
		return credAbsolutely, false
	}

	return credMaybe, false
}

func isObj(t Type) bool     { return isPrimitiveKind(t, KObj) }
func isBottom(t Type) bool  { return isPrimitiveKind(t, KNever) || isPrimitiveKind(t, KFailure) }
func asPrimitive(t Type) *Primitive {
	p, _ := t.(*Primitive)
	return p
}
func isPrimitiveKind(t Type, k PrimitiveKind) bool {
	p, ok := t.(*Primitive)
	return ok && p.Kind == k
}

// numericTower implements spec.md §4.1's `Float :> Ratio :> Int :> Nat :> Bool`.
// The ranking comes from the loaded prelude (prelude.go/prelude.yaml)
// rather than a Go literal table, per SPEC_FULL.md's "Configuration" section.
func numericTower(lhs, rhs PrimitiveKind) (ok bool, known bool) {
	lr, lok := numericRank(lhs)
	rr, rok := numericRank(rhs)
	if !lok || !rok {
		return false, false
	}
	return lr >= rr, true
}

// isGenericUmbrella recognizes the well-known "generic umbrella" nominal
// names over their concrete Poly forms (spec.md §4.1): a generic callable,
// array, or dict umbrella is a supertype of any concrete instantiation.
// Sourced from the loaded prelude rather than a hard-coded switch.
func isGenericUmbrella(mono, poly string) bool {
	return preludeGenericUmbrella(mono, poly)
}

// structuralSupertypeOf is spec.md §4.1.1's case analysis.
func structuralSupertypeOf(ctx *Context, lhs, rhs Type) bool {
	lhs, rhs = Deref(lhs), Deref(rhs)

	if lfv, ok := lhs.(*FreeVar); ok {
		return freeVarSupertypeOf(ctx, lfv, rhs)
	}
	if rfv, ok := rhs.(*FreeVar); ok {
		// lhs :> ?R(sub,sup) holds if lhs :> sup (the widest rhs can be).
		if rfv.Cell.IsLinked() {
			return structuralSupertypeOf(ctx, lhs, Deref(rfv))
		}
		c := rfv.Cell.GetConstraint()
		if c.Kind == CKSandwiched {
			return SupertypeOf(ctx, lhs, c.Sup)
		}
		return false
	}

	switch lv := lhs.(type) {
	case *Subr:
		rv, ok := rhs.(*Subr)
		if !ok {
			return false
		}
		return subrSupertypeOf(ctx, lv, rv)

	case *Record:
		rv, ok := rhs.(*Record)
		if !ok {
			return false
		}
		for name, rf := range rv.Fields {
			lf, ok := lv.Fields[name]
			if !ok {
				return false
			}
			if !SupertypeOf(ctx, lf.Type, rf.Type) {
				return false
			}
		}
		return true

	case *Refinement:
		rv, ok := rhs.(*Refinement)
		if !ok {
			// Promote rhs to a trivially-refined type and recurse.
			return structuralSupertypeOf(ctx, lv, &Refinement{Base: rhs, Var: lv.Var})
		}
		if !Related(ctx, lv.Base, rv.Base) {
			return false
		}
		// A narrower refinement is a subtype of a wider one when every
		// predicate the supertype requires is entailed by some predicate
		// the subtype already carries (sub implies sup, not the reverse).
		for _, need := range lv.Preds {
			implied := false
			for _, have := range rv.Preds {
				if isSuperPredOf(have, need) {
					implied = true
					break
				}
			}
			if !implied {
				return false
			}
		}
		return true

	case *Or:
		// rhs is a subtype of a union if it fits either arm.
		return SupertypeOf(ctx, lv.Lhs, rhs) || SupertypeOf(ctx, lv.Rhs, rhs)

	case *And:
		return SupertypeOf(ctx, lv.Lhs, rhs) && SupertypeOf(ctx, lv.Rhs, rhs)

	case *Ref:
		rv, ok := rhs.(*Ref)
		if !ok {
			return false
		}
		return SupertypeOf(ctx, lv.Of, rv.Of)

	case *RefMut:
		rv, ok := rhs.(*RefMut)
		if !ok {
			return false
		}
		return SameTypeOf(ctx, lv.Before, rv.Before)

	case *Poly:
		rv, ok := rhs.(*Poly)
		if !ok || lv.Name != rv.Name {
			return false
		}
		return polySupertypeOf(ctx, lv, rv)

	case *Proj:
		return projSupertypeOf(ctx, lv, rhs)

	case *Structural:
		return structuralSupertypeOf(ctx, lv.Of, rhs)
	}

	switch rv := rhs.(type) {
	case *Refinement:
		// Discarding a refinement's predicates only widens it, so lhs
		// accepts the refinement whenever it accepts the base.
		return SupertypeOf(ctx, lhs, rv.Base)
	case *Or:
		// rhs is a union: lhs supertype of union iff supertype of each arm.
		return SupertypeOf(ctx, lhs, rv.Lhs) && SupertypeOf(ctx, lhs, rv.Rhs)
	case *And:
		// lhs subtype of an intersection iff subtype of some arm, dually
		// lhs supertype of (A and B) holds if supertype of either arm.
		return SupertypeOf(ctx, lhs, rv.Lhs) || SupertypeOf(ctx, lhs, rv.Rhs)
	case *Structural:
		return structuralSupertypeOf(ctx, lhs, rv.Of)
	case *Proj:
		return projSubtypeOfConcrete(ctx, lhs, rv)
	}

	return false
}

// freeVarSupertypeOf handles an unbound sandwiched `?T(sub,sup)` compared
// to a concrete rhs by trial-linking `?T := rhs` so recursive bounds like
// `?T <: Mul(?T)` terminate, then undoing (spec.md §4.1.1).
func freeVarSupertypeOf(ctx *Context, lfv *FreeVar, rhs Type) bool {
	if lfv.Cell.IsLinked() {
		return structuralSupertypeOf(ctx, Deref(lfv), rhs)
	}
	c := lfv.Cell.GetConstraint()
	if c.Kind != CKSandwiched {
		return false
	}
	lfv.Cell.LinkUndoable(rhs)
	defer lfv.Cell.Undo()
	return SupertypeOf(ctx, c.Sup, rhs)
}

func subrSupertypeOf(ctx *Context, lhs, rhs *Subr) bool {
	if lhs.Kind != rhs.Kind && !(lhs.Kind == SubrProc && rhs.Kind == SubrFunc) {
		return false
	}
	if len(lhs.NonDefaultPs) != len(rhs.NonDefaultPs) {
		return false
	}
	if !SupertypeOf(ctx, lhs.Return, rhs.Return) {
		return false
	}
	for i := range lhs.NonDefaultPs {
		// contravariant: supertype's param must be a SUBtype of the
		// subtype's param (caller of the wider signature can pass less).
		if !SubtypeOf(ctx, lhs.NonDefaultPs[i].Type, rhs.NonDefaultPs[i].Type) {
			return false
		}
	}
	for _, ld := range lhs.DefaultPs {
		var match *Param
		for i := range rhs.DefaultPs {
			if rhs.DefaultPs[i].Name == ld.Name {
				match = &rhs.DefaultPs[i]
				break
			}
		}
		if match == nil {
			return false
		}
		if !SubtypeOf(ctx, ld.Type, match.Type) {
			return false
		}
	}
	if lhs.VarParam != nil && rhs.VarParam != nil {
		if !SubtypeOf(ctx, lhs.VarParam.Type, rhs.VarParam.Type) {
			return false
		}
	}
	return true
}

func polySupertypeOf(ctx *Context, lhs, rhs *Poly) bool {
	lengthHandled := false
	if lhs.Name == "Array" || lhs.Name == "Set" {
		if ok, handled := arrayLengthSupertypeOf(ctx, lhs, rhs); handled {
			if !ok {
				return false
			}
			lengthHandled = true
		}
	}
	nc, _ := lookupNominalMaybe(ctx, lhs.Name)
	n := len(lhs.Params)
	if len(rhs.Params) < n {
		n = len(rhs.Params)
	}
	for i := 0; i < n; i++ {
		// The length slot (index 1) was already resolved by the
		// array/set length rule above; the generic per-position variance
		// loop only owns the element-type slot for those constructors.
		if lengthHandled && i == 1 {
			continue
		}
		switch nc.VarianceOf(i) {
		case Covariant:
			if !tyParamSupertypeOf(ctx, lhs.Params[i], rhs.Params[i]) {
				return false
			}
		case Contravariant:
			if !tyParamSupertypeOf(ctx, rhs.Params[i], lhs.Params[i]) {
				return false
			}
		case Phantom:
			continue
		default: // Invariant
			if !tyParamSupertypeOf(ctx, lhs.Params[i], rhs.Params[i]) ||
				!tyParamSupertypeOf(ctx, rhs.Params[i], lhs.Params[i]) {
				return false
			}
		}
	}
	return true
}

// arrayLengthSupertypeOf implements spec.md §4.1.1's Array/Set length rule:
// `len(lhs) <= len(rhs)` makes lhs a supertype (a larger allocation is a
// supertype of a smaller one). See DESIGN.md Open Question decision #1:
// kept exactly as spec.md states, not flipped.
func arrayLengthSupertypeOf(_ *Context, lhs, rhs *Poly) (ok bool, handled bool) {
	if len(lhs.Params) < 2 || len(rhs.Params) < 2 {
		return false, false
	}
	ln, lok := tpConstLen(lhs.Params[1])
	rn, rok := tpConstLen(rhs.Params[1])
	if !lok || !rok {
		return false, false
	}
	return ln <= rn, true
}

func tpConstLen(p TyParam) (int64, bool) {
	switch v := p.(type) {
	case TPValue:
		switch n := v.V.(type) {
		case IntValue:
			return n.V, true
		case NatValue:
			return int64(n.V), true
		}
	}
	return 0, false
}

func tyParamSupertypeOf(ctx *Context, lhs, rhs TyParam) bool {
	lt, lok := lhs.(TPType)
	rt, rok := rhs.(TPType)
	if lok && rok {
		return SupertypeOf(ctx, lt.T, rt.T)
	}
	if le, ok := lhs.(TPErased); ok {
		_ = le
		return true
	}
	return TyParamEquals(lhs, rhs)
}

func projSupertypeOf(ctx *Context, lhs *Proj, rhs Type) bool {
	// Expand to candidate types via the declared trait method set.
	base := Deref(lhs.Lhs)
	nc := nominalContextOf(ctx, base)
	if nc == nil {
		return false
	}
	if m, ok := nc.Consts[lhs.Rhs]; ok {
		if tp, ok := m.(TPType); ok {
			return SupertypeOf(ctx, tp.T, rhs)
		}
	}
	return false
}

// projSubtypeOfConcrete handles a Proj appearing on the rhs: lhs :> T.Member
// iff lhs :> (T.Member's resolved type). Kept separate from projSupertypeOf
// because the resolved type plays the opposite role in the SupertypeOf call.
func projSubtypeOfConcrete(ctx *Context, lhs Type, rv *Proj) bool {
	base := Deref(rv.Lhs)
	nc := nominalContextOf(ctx, base)
	if nc == nil {
		return false
	}
	if m, ok := nc.Consts[rv.Rhs]; ok {
		if tp, ok := m.(TPType); ok {
			return SupertypeOf(ctx, lhs, tp.T)
		}
	}
	return false
}

func nominalContextOf(ctx *Context, t Type) *NominalContext {
	switch v := t.(type) {
	case *Mono:
		nc, _ := lookupNominalMaybe(ctx, v.Name)
		return nc
	case *Poly:
		nc, _ := lookupNominalMaybe(ctx, v.Name)
		return nc
	default:
		return nil
	}
}

func lookupNominalMaybe(ctx *Context, name string) (*NominalContext, bool) {
	if ctx == nil {
		return nil, false
	}
	return ctx.LookupNominal(name)
}

// nominalSupertypeOf is spec.md §4.1.2/§4.1.3: for each declared super of
// rhs's nominal context, test whether lhs is a cheap supertype of that
// super; also consult compatible glue patches.
func nominalSupertypeOf(ctx *Context, lhs, rhs Type) bool {
	if ctx == nil {
		return false
	}
	nc := nominalContextOf(ctx, rhs)
	if nc == nil {
		return false
	}
	for _, super := range append(append([]Type{}, nc.SuperClasses...), nc.SuperTraits...) {
		if cred, ok := cheapSupertypeOf(ctx, lhs, super); cred == credAbsolutely && ok {
			return true
		}
		if SupertypeOf(ctx, lhs, super) {
			return true
		}
	}
	// A glue patch `sub_type <: sup_trait` is evidence when rhs fits under
	// its sub_type and its sup_trait fits under lhs.
	for _, patch := range ctx.AllPatches() {
		if SubtypeOf(ctx, rhs, patch.SubType) && SupertypeOf(ctx, lhs, patch.SupTrait) {
			return true
		}
	}
	return false
}
