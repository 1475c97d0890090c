package types

import "sync"

// subtypeCache memoizes `sub <: sup` judgments keyed by a pair of cachable
// types (spec.md §4/§5, Component E). It is process-wide state with a
// deterministic empty init and no tear-down; guarded by a RWMutex so a
// future parallel driver can read it from multiple worker threads even
// though today's checker is single-threaded (spec.md §5).
type subtypeCache struct {
	mu sync.RWMutex
	m  map[cacheKey]bool
}

type cacheKey struct{ sub, sup string }

var globalSubtypeCache = &subtypeCache{m: make(map[cacheKey]bool)}

// Cachable reports whether t contains no free variables, i.e. its subtype
// judgments never change underneath a cache hit (spec.md §5: "Cache
// entries are keyed by pairs of cachable types ... this prevents
// memoizing transient constraint states").
func Cachable(t Type) bool {
	switch v := Deref(t).(type) {
	case *Primitive, *Mono:
		return true
	case *Poly:
		for _, p := range v.Params {
			if !tyParamCachable(p) {
				return false
			}
		}
		return true
	case *Subr:
		return subrCachable(v)
	case *Quantified:
		return subrCachable(v.Inner)
	case *Refinement:
		if !Cachable(v.Base) {
			return false
		}
		for _, p := range v.Preds {
			if !predicateCachable(p) {
				return false
			}
		}
		return true
	case *Record:
		for _, f := range v.Fields {
			if !Cachable(f.Type) {
				return false
			}
		}
		return true
	case *Ref:
		return Cachable(v.Of)
	case *RefMut:
		return Cachable(v.Before) && (v.After == nil || Cachable(v.After))
	case *And:
		return Cachable(v.Lhs) && Cachable(v.Rhs)
	case *Or:
		return Cachable(v.Lhs) && Cachable(v.Rhs)
	case *Not:
		return Cachable(v.Of)
	case *Proj:
		return Cachable(v.Lhs)
	case *ProjCall:
		if !Cachable(v.Lhs) {
			return false
		}
		for _, a := range v.Args {
			if !tyParamCachable(a) {
				return false
			}
		}
		return true
	case *Structural:
		return Cachable(v.Of)
	case *FreeVar:
		return false
	default:
		return false
	}
}

func subrCachable(s *Subr) bool {
	for _, p := range s.NonDefaultPs {
		if !Cachable(p.Type) {
			return false
		}
	}
	for _, p := range s.DefaultPs {
		if !Cachable(p.Type) {
			return false
		}
	}
	if s.VarParam != nil && !Cachable(s.VarParam.Type) {
		return false
	}
	return Cachable(s.Return)
}

func tyParamCachable(p TyParam) bool {
	switch v := p.(type) {
	case TPType:
		return Cachable(v.T)
	case TPErased:
		return Cachable(v.T)
	case TPVar:
		return false
	case TPValue, TPConst:
		return true
	case TPBinOp:
		return tyParamCachable(v.Lhs) && tyParamCachable(v.Rhs)
	case TPUnaryOp:
		return tyParamCachable(v.X)
	case TPApp:
		if !tyParamCachable(v.Func) {
			return false
		}
		for _, a := range v.Args {
			if !tyParamCachable(a) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func predicateCachable(p Predicate) bool {
	switch v := p.(type) {
	case PValue, PConst:
		return true
	case PEqual:
		return tyParamCachable(v.Rhs)
	case PNotEqual:
		return tyParamCachable(v.Rhs)
	case PGreaterEqual:
		return tyParamCachable(v.Rhs)
	case PLessEqual:
		return tyParamCachable(v.Rhs)
	case PAnd:
		return predicateCachable(v.P) && predicateCachable(v.Q)
	case POr:
		return predicateCachable(v.P) && predicateCachable(v.Q)
	case PNot:
		return predicateCachable(v.P)
	default:
		return false
	}
}

// cacheKeyOf renders a canonical cache key. Refinement binder names are
// normalized to a fixed placeholder so alpha-equivalent refinements with
// different binder spellings hit the same slot (SPEC_FULL.md supplemented
// feature #3, grounded on original_source's predicate.rs binder handling).
func cacheKeyOf(sub, sup Type) cacheKey {
	return cacheKey{sub: canonicalString(sub), sup: canonicalString(sup)}
}

func canonicalString(t Type) string {
	return canonicalize(t).String()
}

func canonicalize(t Type) Type {
	switch v := Deref(t).(type) {
	case *Refinement:
		preds := make([]Predicate, len(v.Preds))
		for i, p := range v.Preds {
			preds[i] = renameBinder(p, v.Var, "%binder")
		}
		return &Refinement{Base: canonicalize(v.Base), Var: "%binder", Preds: preds}
	case *Poly:
		params := make([]TyParam, len(v.Params))
		copy(params, v.Params)
		return &Poly{Name: v.Name, Params: params}
	default:
		return v
	}
}

func renameBinder(p Predicate, from, to string) Predicate {
	rename := func(name string) string {
		if name == from {
			return to
		}
		return name
	}
	switch v := p.(type) {
	case PEqual:
		return PEqual{rename(v.Lhs), v.Rhs}
	case PNotEqual:
		return PNotEqual{rename(v.Lhs), v.Rhs}
	case PGreaterEqual:
		return PGreaterEqual{rename(v.Lhs), v.Rhs}
	case PLessEqual:
		return PLessEqual{rename(v.Lhs), v.Rhs}
	case PAnd:
		return PAnd{renameBinder(v.P, from, to), renameBinder(v.Q, from, to)}
	case POr:
		return POr{renameBinder(v.P, from, to), renameBinder(v.Q, from, to)}
	case PNot:
		return PNot{renameBinder(v.P, from, to)}
	default:
		return p
	}
}

// lookupCache returns a cached judgment, if present.
func lookupCache(sub, sup Type) (bool, bool) {
	if !Cachable(sub) || !Cachable(sup) {
		return false, false
	}
	key := cacheKeyOf(sub, sup)
	globalSubtypeCache.mu.RLock()
	defer globalSubtypeCache.mu.RUnlock()
	v, ok := globalSubtypeCache.m[key]
	return v, ok
}

// storeCache records a judgment if both sides are cachable.
func storeCache(sub, sup Type, result bool) {
	if !Cachable(sub) || !Cachable(sup) {
		return
	}
	key := cacheKeyOf(sub, sup)
	globalSubtypeCache.mu.Lock()
	defer globalSubtypeCache.mu.Unlock()
	globalSubtypeCache.m[key] = result
}

// ResetSubtypeCache clears the global cache. Exposed for tests; a running
// checker never needs to call this (spec.md §5: "deterministic init, no
// tear-down").
func ResetSubtypeCache() {
	globalSubtypeCache.mu.Lock()
	defer globalSubtypeCache.mu.Unlock()
	globalSubtypeCache.m = make(map[cacheKey]bool)
}
