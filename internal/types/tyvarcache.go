package types

// TyVarCache is a per-instantiation scratchpad (spec.md §3.6). It is
// created at each instantiation site, may be merged into an enclosing
// cache when entering a nested quantifier, and is discarded when the site
// finishes.
type TyVarCache struct {
	tyvarInstances   map[string]*FreeVar
	typaramInstances map[string]TyParam
	alreadyAppeared  map[string]bool
}

// NewTyVarCache allocates an empty scratchpad.
func NewTyVarCache() *TyVarCache {
	return &TyVarCache{
		tyvarInstances:   make(map[string]*FreeVar),
		typaramInstances: make(map[string]TyParam),
		alreadyAppeared:  make(map[string]bool),
	}
}

// Get returns the fresh variable already allocated for name, if any.
func (c *TyVarCache) Get(name string) (*FreeVar, bool) {
	v, ok := c.tyvarInstances[name]
	return v, ok
}

// Set records the fresh variable allocated for name.
func (c *TyVarCache) Set(name string, v *FreeVar) {
	c.tyvarInstances[name] = v
}

// GetTyParam / SetTyParam mirror Get/Set for type-parameter-level names.
func (c *TyVarCache) GetTyParam(name string) (TyParam, bool) {
	v, ok := c.typaramInstances[name]
	return v, ok
}

func (c *TyVarCache) SetTyParam(name string, v TyParam) {
	c.typaramInstances[name] = v
}

// MarkAppeared / HasAppeared record and query the already_appeared flag
// (spec.md §4.2 "Circular bound handling"). Instantiation marks a name
// before wiring its constraint, but breaks the cycle through the
// placeholder stored with Set/SetTyParam; it does not call HasAppeared.
func (c *TyVarCache) MarkAppeared(name string) {
	c.alreadyAppeared[name] = true
}

func (c *TyVarCache) HasAppeared(name string) bool {
	return c.alreadyAppeared[name]
}

// Merge folds another cache's entries into this one, used when entering a
// nested quantifier that shares the enclosing generic item's scratchpad.
func (c *TyVarCache) Merge(other *TyVarCache) {
	if other == nil {
		return
	}
	for k, v := range other.tyvarInstances {
		c.tyvarInstances[k] = v
	}
	for k, v := range other.typaramInstances {
		c.typaramInstances[k] = v
	}
	for k := range other.alreadyAppeared {
		c.alreadyAppeared[k] = true
	}
}
