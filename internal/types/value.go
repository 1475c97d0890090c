package types

import "fmt"

// ValueObj is a literal constant value usable inside a TyParam (spec.md
// §3.3). Kept deliberately small: the checker's job is typing, not
// evaluating arbitrary constant expressions.
type ValueObj interface {
	valueObjNode()
	String() string
	Equals(ValueObj) bool
	// Cmp returns -1/0/1, or an error if the two values are not
	// order-comparable (used by try_cmp, spec.md §4.1.6).
	Cmp(ValueObj) (int, error)
}

type IntValue struct{ V int64 }
type NatValue struct{ V uint64 }
type FloatValue struct{ V float64 }
type StrValue struct{ V string }
type BoolValue struct{ V bool }

func (IntValue) valueObjNode()   {}
func (NatValue) valueObjNode()   {}
func (FloatValue) valueObjNode() {}
func (StrValue) valueObjNode()   {}
func (BoolValue) valueObjNode()  {}

func (v IntValue) String() string   { return fmt.Sprintf("%d", v.V) }
func (v NatValue) String() string   { return fmt.Sprintf("%d", v.V) }
func (v FloatValue) String() string { return fmt.Sprintf("%g", v.V) }
func (v StrValue) String() string   { return fmt.Sprintf("%q", v.V) }
func (v BoolValue) String() string  { return fmt.Sprintf("%v", v.V) }

func (v IntValue) Equals(o ValueObj) bool {
	ov, ok := o.(IntValue)
	return ok && v.V == ov.V
}
func (v NatValue) Equals(o ValueObj) bool {
	ov, ok := o.(NatValue)
	return ok && v.V == ov.V
}
func (v FloatValue) Equals(o ValueObj) bool {
	ov, ok := o.(FloatValue)
	return ok && v.V == ov.V
}
func (v StrValue) Equals(o ValueObj) bool {
	ov, ok := o.(StrValue)
	return ok && v.V == ov.V
}
func (v BoolValue) Equals(o ValueObj) bool {
	ov, ok := o.(BoolValue)
	return ok && v.V == ov.V
}

func asFloat(v ValueObj) (float64, bool) {
	switch t := v.(type) {
	case IntValue:
		return float64(t.V), true
	case NatValue:
		return float64(t.V), true
	case FloatValue:
		return t.V, true
	default:
		return 0, false
	}
}

func (v IntValue) Cmp(o ValueObj) (int, error)   { return cmpNumeric(v, o) }
func (v NatValue) Cmp(o ValueObj) (int, error)   { return cmpNumeric(v, o) }
func (v FloatValue) Cmp(o ValueObj) (int, error) { return cmpNumeric(v, o) }

func cmpNumeric(a, b ValueObj) (int, error) {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return 0, fmt.Errorf("value: %s and %s are not order-comparable", a, b)
	}
	switch {
	case af < bf:
		return -1, nil
	case af > bf:
		return 1, nil
	default:
		return 0, nil
	}
}

func (v StrValue) Cmp(o ValueObj) (int, error) {
	ov, ok := o.(StrValue)
	if !ok {
		return 0, fmt.Errorf("value: %s and %s are not order-comparable", v, o)
	}
	switch {
	case v.V < ov.V:
		return -1, nil
	case v.V > ov.V:
		return 1, nil
	default:
		return 0, nil
	}
}

func (v BoolValue) Cmp(o ValueObj) (int, error) {
	return 0, fmt.Errorf("value: booleans are not order-comparable (%s, %s)", v, o)
}
