package types

import (
	"fmt"
	"sync/atomic"
)

// Level is the unification scope depth at which a cell was created.
// GenericLevel marks a generalized (quantified) variable; instantiation
// replaces generalized cells with fresh ones at the current scope level.
type Level int64

// GenericLevel is the sentinel level for a generalized free variable.
const GenericLevel Level = -1

var cellIDCounter uint64

func nextCellID() uint64 {
	return atomic.AddUint64(&cellIDCounter, 1)
}

// ConstraintKind distinguishes the three shapes a Cell's constraint can take.
type ConstraintKind int

const (
	// CKSandwiched: sub <: ?X <: sup.
	CKSandwiched ConstraintKind = iota
	// CKTypeOf: the variable is a type parameter whose value has type T.
	CKTypeOf
	// CKUninited: placeholder used while a recursive bound is being wired
	// during instantiation (spec.md §4.2, "circular bound handling").
	CKUninited
)

// Constraint is the bound attached to an unbound free variable cell.
type Constraint struct {
	Kind ConstraintKind
	Sub  Type // valid when Kind == CKSandwiched
	Sup  Type // valid when Kind == CKSandwiched
	Of   Type // valid when Kind == CKTypeOf
}

// Sandwiched builds a sub <: ?X <: sup constraint.
func Sandwiched(sub, sup Type) Constraint {
	return Constraint{Kind: CKSandwiched, Sub: sub, Sup: sup}
}

// TypeOfConstraint builds a "this variable is a typaram of type T" constraint.
func TypeOfConstraint(t Type) Constraint {
	return Constraint{Kind: CKTypeOf, Of: t}
}

// UninitedConstraint is the placeholder constraint used mid-instantiation.
func UninitedConstraint() Constraint {
	return Constraint{Kind: CKUninited}
}

func (c Constraint) String() string {
	switch c.Kind {
	case CKSandwiched:
		return fmt.Sprintf("%s <: _ <: %s", c.Sub, c.Sup)
	case CKTypeOf:
		return fmt.Sprintf(": %s", c.Of)
	default:
		return "<uninited>"
	}
}

// cellKind mirrors spec.md §3.2's Unbound/NamedUnbound/Linked/UndoableLinked
// sum. Kept as a tag + union-of-fields rather than a Go interface because
// Cell is a hot-path mutable value walked by every subtype/unify call; an
// interface would hide the transitions behind dynamic dispatch, which the
// design notes (spec.md §9) ask us to avoid on this path.
type cellKind int

const (
	ckUnbound cellKind = iota
	ckNamedUnbound
	ckLinked
	ckUndoableLinked
)

// Cell is the mutable, shared cell backing a FreeVar type (spec.md §3.2).
// It is a plain Go pointer; Go's garbage collector provides the reference
// counting spec.md describes, so no manual refcount field is kept.
type Cell struct {
	kind       cellKind
	id         uint64
	name       string // set when kind == ckNamedUnbound
	level      Level
	constraint Constraint // valid when unbound (named or not)
	target     Type       // valid when linked (undoably or not)
	tpTarget   TyParam    // set instead of target when a TPVar cell resolves to a value-level operand
	previous   *cellSnapshot
}

// cellSnapshot captures enough of a Cell's prior state to restore it on Undo.
type cellSnapshot struct {
	kind       cellKind
	name       string
	level      Level
	constraint Constraint
	target     Type
	tpTarget   TyParam
}

// NewUnboundCell allocates a fresh anonymous unbound cell.
func NewUnboundCell(level Level, c Constraint) *Cell {
	return &Cell{kind: ckUnbound, id: nextCellID(), level: level, constraint: c}
}

// NewNamedUnboundCell allocates a fresh unbound cell carrying the name it
// was instantiated from (used so error messages can say "?T" not "?_7").
func NewNamedUnboundCell(name string, level Level, c Constraint) *Cell {
	return &Cell{kind: ckNamedUnbound, id: nextCellID(), name: name, level: level, constraint: c}
}

// IsLinked reports whether the cell currently forwards to a target type.
func (c *Cell) IsLinked() bool {
	return c.kind == ckLinked || c.kind == ckUndoableLinked
}

// Target returns the type a linked cell forwards to. Panics if unlinked;
// callers must check IsLinked first (mirrors a checker-bug invariant, not a
// user-facing error).
func (c *Cell) Target() Type {
	if !c.IsLinked() {
		panic("freevar: Target() called on an unbound cell")
	}
	return c.target
}

// Level returns the cell's creation level.
func (c *Cell) Level() Level { return c.level }

// Name returns the name the cell was instantiated from, or "" if anonymous.
func (c *Cell) Name() string { return c.name }

// ID returns the cell's stable identity number (for cache keys / debug traces).
func (c *Cell) ID() uint64 { return c.id }

// GetConstraint returns the current bound on an unbound cell. Panics if linked.
func (c *Cell) GetConstraint() Constraint {
	if c.IsLinked() {
		panic("freevar: GetConstraint() called on a linked cell")
	}
	return c.constraint
}

// UpdateConstraint replaces the bound on an unbound cell in place.
func (c *Cell) UpdateConstraint(nc Constraint) error {
	if c.IsLinked() {
		return fmt.Errorf("freevar: cannot update constraint of a linked cell")
	}
	if nc.Kind == CKSandwiched {
		if ok, _ := supertypeOfNoCache(nc.Sup, nc.Sub); !ok {
			return fmt.Errorf("freevar: invalid sandwich %s <: ?X <: %s (sub not <: sup)", nc.Sub, nc.Sup)
		}
	}
	c.constraint = nc
	return nil
}

// Link permanently forwards the cell to t. Once linked, a cell must not be
// mutated again except via Undo on an undoable link (spec.md §3.2 invariant).
func (c *Cell) Link(t Type) {
	DefaultTracer.Link(c.id, t, false)
	c.kind = ckLinked
	c.target = t
	c.name = ""
}

// LinkTyParam forwards a type-parameter-level cell to a TyParam operand,
// which may be a value rather than a type. Reads go through TyParamTarget;
// Target stays type-only.
func (c *Cell) LinkTyParam(tp TyParam) {
	DefaultTracer.Link(c.id, tp, false)
	c.kind = ckLinked
	c.tpTarget = tp
	c.name = ""
}

// TyParamTarget returns the TyParam a cell was linked to via LinkTyParam,
// or false if the cell is unlinked or carries an ordinary type target.
func (c *Cell) TyParamTarget() (TyParam, bool) {
	if !c.IsLinked() || c.tpTarget == nil {
		return nil, false
	}
	return c.tpTarget, true
}

// LinkUndoable forwards the cell to t but remembers enough to restore the
// prior state. Every trial link placed during structural comparison must be
// undone before the comparison returns (spec.md §4.3 "Cancellation & trial
// semantics").
func (c *Cell) LinkUndoable(t Type) {
	DefaultTracer.Link(c.id, t, true)
	snap := &cellSnapshot{kind: c.kind, name: c.name, level: c.level, constraint: c.constraint, target: c.target, tpTarget: c.tpTarget}
	c.previous = snap
	c.kind = ckUndoableLinked
	c.target = t
}

// Undo reverts the most recent LinkUndoable. Panics if there is nothing to
// undo, which would indicate an engine bug (unbalanced trial/undo pairing).
func (c *Cell) Undo() {
	if c.kind != ckUndoableLinked || c.previous == nil {
		panic("freevar: Undo() called without a matching LinkUndoable")
	}
	DefaultTracer.Undo(c.id)
	snap := c.previous
	c.kind = snap.kind
	c.name = snap.name
	c.level = snap.level
	c.constraint = snap.constraint
	c.target = snap.target
	c.tpTarget = snap.tpTarget
	c.previous = nil
}

func (c *Cell) String() string {
	switch c.kind {
	case ckUnbound:
		return fmt.Sprintf("?_%d", c.id)
	case ckNamedUnbound:
		return "?" + c.name
	default:
		if c.tpTarget != nil {
			return c.tpTarget.String()
		}
		return c.target.String()
	}
}

// Deref follows a chain of linked cells down to a non-FreeVar representative,
// or to the first unbound FreeVar in the chain. All reads of a FreeVar must
// go through this (spec.md §3.2: "all reads must transparently dereference").
func Deref(t Type) Type {
	for {
		fv, ok := t.(*FreeVar)
		if !ok || !fv.Cell.IsLinked() {
			return t
		}
		t = fv.Cell.Target()
	}
}
