package ast

import (
	"fmt"
	"strings"
)

// VarPattern binds the matched value to a name.
type VarPattern struct {
	Name string
	Pos  Pos
}

func (v *VarPattern) String() string { return v.Name }
func (v *VarPattern) Position() Pos  { return v.Pos }
func (v *VarPattern) patternNode()   {}

// DiscardPattern matches anything and binds nothing.
type DiscardPattern struct {
	Pos Pos
}

func (d *DiscardPattern) String() string { return "_" }
func (d *DiscardPattern) Position() Pos  { return d.Pos }
func (d *DiscardPattern) patternNode()   {}

// LiteralPattern matches an exact literal value.
type LiteralPattern struct {
	Value *Literal
	Pos   Pos
}

func (l *LiteralPattern) String() string { return l.Value.String() }
func (l *LiteralPattern) Position() Pos  { return l.Pos }
func (l *LiteralPattern) patternNode()   {}

// RefPattern / RefMutPattern destructure through a borrow.
type RefPattern struct {
	Inner Pattern
	Pos   Pos
}

func (r *RefPattern) String() string { return "ref " + r.Inner.String() }
func (r *RefPattern) Position() Pos  { return r.Pos }
func (r *RefPattern) patternNode()   {}

type RefMutPattern struct {
	Inner Pattern
	Pos   Pos
}

func (r *RefMutPattern) String() string { return "ref! " + r.Inner.String() }
func (r *RefMutPattern) Position() Pos  { return r.Pos }
func (r *RefMutPattern) patternNode()   {}

// ConsPattern matches a non-empty array's head and remaining tail.
type ConsPattern struct {
	Head Pattern
	Tail Pattern
	Pos  Pos
}

func (c *ConsPattern) String() string { return fmt.Sprintf("[%s, ...%s]", c.Head, c.Tail) }
func (c *ConsPattern) Position() Pos  { return c.Pos }
func (c *ConsPattern) patternNode()   {}

// ArrayPattern matches a fixed prefix of array elements, with an optional
// rest binding for the remainder.
type ArrayPattern struct {
	Elements []Pattern
	Rest     Pattern
	Pos      Pos
}

func (a *ArrayPattern) String() string {
	elems := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		elems[i] = e.String()
	}
	if a.Rest != nil {
		elems = append(elems, "..."+a.Rest.String())
	}
	return "[" + strings.Join(elems, ", ") + "]"
}
func (a *ArrayPattern) Position() Pos { return a.Pos }
func (a *ArrayPattern) patternNode()  {}

// TuplePattern matches a tuple's elements positionally.
type TuplePattern struct {
	Elements []Pattern
	Pos      Pos
}

func (t *TuplePattern) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return "(" + strings.Join(elems, ", ") + ")"
}
func (t *TuplePattern) Position() Pos { return t.Pos }
func (t *TuplePattern) patternNode()  {}

// FieldPattern is one named slot of a RecordPattern.
type FieldPattern struct {
	Name    string
	Pattern Pattern
	Pos     Pos
}

// RecordPattern matches named record fields.
type RecordPattern struct {
	Fields []*FieldPattern
	Rest   bool
	Pos    Pos
}

func (r *RecordPattern) String() string {
	fields := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = fmt.Sprintf("%s: %s", f.Name, f.Pattern)
	}
	if r.Rest {
		fields = append(fields, "...")
	}
	return "{" + strings.Join(fields, ", ") + "}"
}
func (r *RecordPattern) Position() Pos { return r.Pos }
func (r *RecordPattern) patternNode()  {}

// ConstructorPattern matches a nominal type's named constructor/variant.
type ConstructorPattern struct {
	Name     string
	Patterns []Pattern
	Pos      Pos
}

func (c *ConstructorPattern) String() string {
	if len(c.Patterns) == 0 {
		return c.Name
	}
	patterns := make([]string, len(c.Patterns))
	for i, p := range c.Patterns {
		patterns[i] = p.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(patterns, ", "))
}
func (c *ConstructorPattern) Position() Pos { return c.Pos }
func (c *ConstructorPattern) patternNode()  {}
