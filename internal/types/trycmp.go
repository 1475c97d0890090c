package types

// cmpResult is try_cmp's partial-order result (spec.md §4.1.6).
type cmpResult int

const (
	cmpLess cmpResult = iota
	cmpLessEqual
	cmpEqual
	cmpGreaterEqual
	cmpGreater
	cmpNotEqual
	cmpAny
	cmpNoRelation
)

// tryCmp is a partial, cheap ordering between two type parameters
// (spec.md §4.1.6). For literal values it delegates to ValueObj.Cmp; for
// arithmetic binops it evaluates when possible and recurses; when either
// side is a free variable or an erased value it returns cmpAny without
// consulting the declared bound.
func tryCmp(lhs, rhs TyParam) cmpResult {
	lhs, rhs = derefTP(lhs), derefTP(rhs)

	if lv, ok := lhs.(TPValue); ok {
		if rv, ok := rhs.(TPValue); ok {
			c, err := lv.V.Cmp(rv.V)
			if err != nil {
				return cmpNoRelation
			}
			switch {
			case c < 0:
				return cmpLess
			case c > 0:
				return cmpGreater
			default:
				return cmpEqual
			}
		}
	}

	if lv, ok := evalConstTP(lhs); ok {
		if rv, ok := evalConstTP(rhs); ok {
			return tryCmp(TPValue{lv}, TPValue{rv})
		}
	}

	if isVarLike(lhs) || isVarLike(rhs) {
		return cmpAny
	}

	return cmpNoRelation
}

func isVarLike(t TyParam) bool {
	switch t.(type) {
	case TPVar, TPErased:
		return true
	default:
		return false
	}
}

// evalConstTP evaluates a closed arithmetic type-parameter expression to a
// literal value, when possible.
func evalConstTP(t TyParam) (ValueObj, bool) {
	switch v := t.(type) {
	case TPValue:
		return v.V, true
	case TPBinOp:
		lv, lok := evalConstTP(v.Lhs)
		rv, rok := evalConstTP(v.Rhs)
		if !lok || !rok {
			return nil, false
		}
		return evalBinOp(v.Op, lv, rv)
	case TPUnaryOp:
		xv, ok := evalConstTP(v.X)
		if !ok {
			return nil, false
		}
		return evalUnaryOp(v.Op, xv)
	default:
		return nil, false
	}
}

func evalBinOp(op string, l, r ValueObj) (ValueObj, bool) {
	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		return nil, false
	}
	var res float64
	switch op {
	case "+":
		res = lf + rf
	case "-":
		res = lf - rf
	case "*":
		res = lf * rf
	case "/":
		if rf == 0 {
			return nil, false
		}
		res = lf / rf
	default:
		return nil, false
	}
	if _, lIsInt := l.(IntValue); lIsInt {
		if _, rIsInt := r.(IntValue); rIsInt && op != "/" {
			return IntValue{int64(res)}, true
		}
	}
	return FloatValue{res}, true
}

func evalUnaryOp(op string, x ValueObj) (ValueObj, bool) {
	xf, ok := asFloat(x)
	if !ok {
		return nil, false
	}
	switch op {
	case "-":
		if iv, ok := x.(IntValue); ok {
			return IntValue{-iv.V}, true
		}
		return FloatValue{-xf}, true
	default:
		return nil, false
	}
}

// isSuperPredOf answers "does p imply q, when both constrain the same
// refinement binder?" (spec.md §4.1.4).
func isSuperPredOf(p, q Predicate) bool {
	if qv, ok := q.(PValue); ok && qv.B {
		return true // a tautological requirement is always met
	}
	switch pv := p.(type) {
	case PAnd:
		return isSuperPredOf(pv.P, q) || isSuperPredOf(pv.Q, q)
	}
	switch qv := q.(type) {
	case POr:
		return isSuperPredOf(p, qv.P) || isSuperPredOf(p, qv.Q)
	case PAnd:
		return isSuperPredOf(p, qv.P) && isSuperPredOf(p, qv.Q)
	}

	switch pv := p.(type) {
	case PLessEqual:
		// A one-sided bound is vacuous against the other side's bound: the
		// interval it would constrain has no ceiling/floor to compare.
		if _, ok := q.(PGreaterEqual); ok {
			return true
		}
		if qv, ok := q.(PLessEqual); ok {
			return cmpLE(pv.Rhs, qv.Rhs)
		}
	case PGreaterEqual:
		if _, ok := q.(PLessEqual); ok {
			return true
		}
		if qv, ok := q.(PGreaterEqual); ok {
			return cmpLE(qv.Rhs, pv.Rhs)
		}
	case PEqual:
		switch qv := q.(type) {
		case PEqual:
			return TyParamEquals(pv.Rhs, qv.Rhs)
		case PGreaterEqual:
			return cmpLE(qv.Rhs, pv.Rhs)
		case PLessEqual:
			return cmpLE(pv.Rhs, qv.Rhs)
		case PNotEqual:
			return false
		}
	case PNotEqual:
		if qv, ok := q.(PNotEqual); ok {
			return TyParamEquals(pv.Rhs, qv.Rhs)
		}
	case PValue:
		if !pv.B {
			return true // absurd premise implies anything
		}
	}

	if PredicateEquals(p, q) {
		return true
	}
	return false
}

// cmpLE reports whether a <= b is known to hold.
func cmpLE(a, b TyParam) bool {
	switch tryCmp(a, b) {
	case cmpLess, cmpLessEqual, cmpEqual, cmpAny:
		return true
	default:
		return false
	}
}
