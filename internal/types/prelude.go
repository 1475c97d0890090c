package types

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed prelude.yaml
var embeddedPreludeYAML []byte

// preludeClassSpec is one entry of prelude.yaml's "classes" list.
type preludeClassSpec struct {
	Name        string             `yaml:"name"`
	IsTrait     bool               `yaml:"is_trait"`
	SuperTraits []string           `yaml:"super_traits"`
	Params      []preludeParamSpec `yaml:"params"`
}

type preludeParamSpec struct {
	Name     string `yaml:"name"`
	Variance string `yaml:"variance"`
}

// Prelude is the parsed shape of prelude.yaml: the builtin nominal classes
// the checker always has declared, plus the numeric tower and generic
// umbrella tables the cheap subtyping fast path (spec.md §4.1) consults
// instead of hard-coded Go literals (SPEC_FULL.md "Configuration").
type Prelude struct {
	NumericTower     []string            `yaml:"numeric_tower"`
	GenericUmbrellas map[string][]string `yaml:"generic_umbrellas"`
	Classes          []preludeClassSpec  `yaml:"classes"`
}

// LoadPrelude parses prelude YAML data, grounded on the teacher's
// eval_harness.LoadSpec idiom: unmarshal then validate required fields.
func LoadPrelude(data []byte) (*Prelude, error) {
	var p Prelude
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("prelude: failed to parse YAML: %w", err)
	}
	if len(p.NumericTower) == 0 {
		return nil, fmt.Errorf("prelude: missing required field: numeric_tower")
	}
	for i, c := range p.Classes {
		if c.Name == "" {
			return nil, fmt.Errorf("prelude: classes[%d] missing required field: name", i)
		}
	}
	return &p, nil
}

// MustLoadEmbeddedPrelude parses the prelude shipped inside the binary.
// Panics on failure: a malformed embedded prelude is a build-time bug, not
// a recoverable runtime condition.
func MustLoadEmbeddedPrelude() *Prelude {
	p, err := LoadPrelude(embeddedPreludeYAML)
	if err != nil {
		panic(err)
	}
	return p
}

// loadedPrelude backs the package-level numeric-tower/generic-umbrella
// lookups subtype.go's cheap fast path uses, so those tables come from
// configuration rather than Go literals. It is populated once at package
// init from the embedded default and is not replaced afterwards:
// InstallPrelude only declares a Prelude's classes into a Context and
// leaves these tables as they are.
var loadedPrelude = MustLoadEmbeddedPrelude()

func numericRank(k PrimitiveKind) (int, bool) {
	name, ok := primitiveNames[k]
	if !ok {
		return 0, false
	}
	for i, n := range loadedPrelude.NumericTower {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func preludeGenericUmbrella(mono, poly string) bool {
	for _, p := range loadedPrelude.GenericUmbrellas[mono] {
		if p == poly {
			return true
		}
	}
	return false
}

// InstallPrelude declares every class/trait in p into ctx (intended for the
// root Context before any user module is checked). Variance strings map
// covariant/contravariant/invariant/phantom onto Variance; an unrecognized
// or absent variance defaults to Invariant, same as NominalContext.VarianceOf.
func InstallPrelude(ctx *Context, p *Prelude) {
	for _, c := range p.Classes {
		nc := &NominalContext{
			Name:    c.Name,
			IsTrait: c.IsTrait,
			Methods: map[string]Type{},
			Consts:  map[string]TyParam{},
		}
		for _, superName := range c.SuperTraits {
			nc.SuperTraits = append(nc.SuperTraits, &Mono{Name: superName})
		}
		for _, param := range c.Params {
			nc.Variance = append(nc.Variance, parseVariance(param.Variance))
		}
		ctx.DeclareNominal(nc)
	}
}

func parseVariance(s string) Variance {
	switch s {
	case "covariant":
		return Covariant
	case "contravariant":
		return Contravariant
	case "phantom":
		return Phantom
	default:
		return Invariant
	}
}
