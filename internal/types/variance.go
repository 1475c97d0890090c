package types

// Variance is the declared covariance/contravariance/invariance of a
// polymorphic nominal type's parameter position (spec.md §4.1.5).
type Variance int

const (
	// Invariant is the default for a position with no declared variance.
	Invariant Variance = iota
	Covariant
	Contravariant
	// Phantom marks a parameter that never appears in the structural
	// shape of the type (no comparison obligation either direction).
	Phantom
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "+"
	case Contravariant:
		return "-"
	case Phantom:
		return "phantom"
	default:
		return "="
	}
}
