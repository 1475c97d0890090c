package types

// NominalContext describes one declared class or trait: its super classes,
// super traits, the declared variance of each type-parameter position, its
// methods (by name, as a Subr or Quantified(Subr)), and its named constants
// (spec.md §3.5).
type NominalContext struct {
	Name         string
	IsTrait      bool
	SuperClasses []Type // Mono/Poly references to declared super classes
	SuperTraits  []Type // Mono/Poly references to declared super traits
	Variance     []Variance
	Methods      map[string]Type // method name -> Subr or Quantified
	Consts       map[string]TyParam
}

// VarianceOf returns the declared variance of parameter position i,
// defaulting to Invariant when none was declared (grounded on
// original_source/compiler/erg_compiler/ty/constructors.rs: an
// undeclared position is treated as invariant, not as an error).
func (nc *NominalContext) VarianceOf(i int) Variance {
	if nc == nil || i < 0 || i >= len(nc.Variance) {
		return Invariant
	}
	return nc.Variance[i]
}

// GluePatch declares, out-of-class, that a concrete Sub type implements a
// SupTrait (spec.md §4.1.3).
type GluePatch struct {
	SubType  Type
	SupTrait Type
	Methods  map[string]Type
}
