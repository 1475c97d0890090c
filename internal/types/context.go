package types

import "fmt"

// VarInfo is the declared-variable record a Context keeps per binding
// (spec.md §3.5 / §6 "every identifier carries variable info").
type VarInfo struct {
	Type       Type
	Kind       VarKind
	Visibility FieldVis
	PythonName string // optional external alias, "" if none
}

// VarKind mirrors the HIR's "kind such as parameter / constant / builtin".
type VarKind int

const (
	VarParameter VarKind = iota
	VarConstant
	VarBuiltin
	VarLocal
)

// Context is one frame of the scoped environment (spec.md §3.5). It is
// read-only for the subtyping/unification engines — they never mutate a
// Context, only the Cells reachable through the types it hands out.
// Each inner scope holds a non-owning reference (a plain Go pointer) to
// its outer scope; global contexts live for the whole checker run.
type Context struct {
	vars     map[string]VarInfo
	nominal  map[string]*NominalContext
	patches  []*GluePatch
	outer    *Context
	tvCache  *TyVarCache // shared with inner scopes of the same generic item
}

// NewRootContext creates a context with no outer scope.
func NewRootContext() *Context {
	return &Context{
		vars:    make(map[string]VarInfo),
		nominal: make(map[string]*NominalContext),
	}
}

// NewChildContext pushes a new scope frame on entering a function/class/patch
// body (spec.md §5: "Context frames are pushed when entering a scope ...
// and popped when leaving").
func (c *Context) NewChildContext() *Context {
	return &Context{
		vars:    make(map[string]VarInfo),
		nominal: make(map[string]*NominalContext),
		outer:   c,
		tvCache: c.tvCache,
	}
}

// WithTyVarCache returns a child context sharing the given cache (used when
// entering the body of a generic item so inner references to the item's own
// type parameters resolve to the same fresh variables, spec.md §3.6).
func (c *Context) WithTyVarCache(cache *TyVarCache) *Context {
	child := c.NewChildContext()
	child.tvCache = cache
	return child
}

func (c *Context) TyVarCache() *TyVarCache { return c.tvCache }

// Declare binds a name in the current frame.
func (c *Context) Declare(name string, info VarInfo) {
	c.vars[name] = info
}

// Lookup searches this frame then outer frames.
func (c *Context) Lookup(name string) (VarInfo, bool) {
	for ctx := c; ctx != nil; ctx = ctx.outer {
		if v, ok := ctx.vars[name]; ok {
			return v, true
		}
	}
	return VarInfo{}, false
}

// LookupNames returns every declared name visible from this frame, used by
// NameError's proximity suggestion (spec.md §7).
func (c *Context) LookupNames() []string {
	seen := make(map[string]bool)
	var names []string
	for ctx := c; ctx != nil; ctx = ctx.outer {
		for name := range ctx.vars {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// DeclareNominal registers a class/trait descriptor in the current frame.
func (c *Context) DeclareNominal(nc *NominalContext) {
	c.nominal[nc.Name] = nc
}

// LookupNominal searches this frame then outer frames for a class/trait.
func (c *Context) LookupNominal(name string) (*NominalContext, bool) {
	for ctx := c; ctx != nil; ctx = ctx.outer {
		if nc, ok := ctx.nominal[name]; ok {
			return nc, true
		}
	}
	return nil, false
}

// DeclarePatch registers a glue patch in the current frame.
func (c *Context) DeclarePatch(p *GluePatch) {
	c.patches = append(c.patches, p)
}

// AllPatches returns every glue patch visible from this frame (spec.md
// §4.1.3: "the engine scans all patches").
func (c *Context) AllPatches() []*GluePatch {
	var all []*GluePatch
	for ctx := c; ctx != nil; ctx = ctx.outer {
		all = append(all, ctx.patches...)
	}
	return all
}

// Outer returns the enclosing scope, or nil at the root.
func (c *Context) Outer() *Context { return c.outer }

func (c *Context) String() string {
	return fmt.Sprintf("Context(%d vars, %d nominal)", len(c.vars), len(c.nominal))
}
