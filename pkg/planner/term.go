// Package planner implements the core of a first-order STRIPS-style
// planner: the term/unification layer, an indexed conjunctive pattern
// matcher supporting negation-as-failure and computable predicates, and a
// planning problem exposing forward progression and backward regression
// over first-order operators.
//
// The package is deliberately synchronous and single-threaded: there are
// no suspension points, no goroutines, and no I/O. Callers that want
// parallel or bidirectional search build a driver on top of the
// Successors/Predecessors/GoalTest contract exposed by Problem.
package planner

import (
	"fmt"
	"strconv"
	"strings"
)

// Term is any value in the planner's first-order term algebra: an Atom, a
// Var, a Compound, or a Callable (the head of a computable term).
//
// Term is a closed sum type — isTerm is unexported so no type outside this
// package can implement Term.
type Term interface {
	// String returns a human-readable representation of the term.
	String() string

	// Equal reports whether this term is structurally identical to other.
	// This is plain structural equality, not unification.
	Equal(other Term) bool

	// IsVar reports whether the term is a logic variable.
	IsVar() bool

	isTerm()
}

// Atom is a primitive, non-variable, non-compound value: a symbol, a
// string, a number, or a boolean.
type Atom struct {
	Value any
}

// NewAtom wraps a Go value as an atomic term.
func NewAtom(value any) *Atom { return &Atom{Value: value} }

func (a *Atom) isTerm()        {}
func (a *Atom) IsVar() bool    { return false }
func (a *Atom) String() string { return fmt.Sprintf("%v", a.Value) }

func (a *Atom) Equal(other Term) bool {
	o, ok := other.(*Atom)
	if !ok {
		return false
	}
	return a.Value == o.Value
}

// TrueAtom and FalseAtom are the canonical boolean atoms produced by
// computable predicates.
var (
	TrueAtom  = NewAtom(true)
	FalseAtom = NewAtom(false)
)

func isTrueTerm(t Term) bool {
	a, ok := t.(*Atom)
	return ok && a.Value == true
}

func isFalseTerm(t Term) bool {
	a, ok := t.(*Atom)
	return ok && a.Value == false
}

// isNumericAtom reports whether a holds a Go numeric value.
func isNumericAtom(a *Atom) bool {
	switch a.Value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// Var is a logic variable, identified by a name beginning with "?".
type Var struct {
	Name string
}

// NewVar constructs a variable term. It panics if name does not begin with
// "?", since a term is a variable, per spec, iff its printable form begins
// with "?".
func NewVar(name string) *Var {
	if !strings.HasPrefix(name, "?") {
		panic(fmt.Sprintf("planner: variable name %q must begin with '?'", name))
	}
	return &Var{Name: name}
}

func (v *Var) isTerm()        {}
func (v *Var) IsVar() bool    { return true }
func (v *Var) String() string { return v.Name }

func (v *Var) Equal(other Term) bool {
	o, ok := other.(*Var)
	return ok && o.Name == v.Name
}

// Compound is an ordered tuple of sub-terms: (head, arg1, ..., argN).
// Negation is encoded as a Compound whose head is the atom "not" and whose
// single argument is the negated term; a computable (FunTerm) atom is a
// Compound whose head is a *Callable.
type Compound struct {
	Elements []Term
}

// NewCompound builds a compound term from its ordered elements. A compound
// always has at least a head; NewCompound panics if given no elements.
func NewCompound(elements ...Term) *Compound {
	if len(elements) == 0 {
		panic("planner: compound term requires at least a head element")
	}
	return &Compound{Elements: elements}
}

func (c *Compound) isTerm()     {}
func (c *Compound) IsVar() bool { return false }

func (c *Compound) Head() Term   { return c.Elements[0] }
func (c *Compound) Args() []Term { return c.Elements[1:] }

func (c *Compound) String() string {
	parts := make([]string, len(c.Elements))
	for i, e := range c.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (c *Compound) Equal(other Term) bool {
	o, ok := other.(*Compound)
	if !ok || len(o.Elements) != len(c.Elements) {
		return false
	}
	for i, e := range c.Elements {
		if !e.Equal(o.Elements[i]) {
			return false
		}
	}
	return true
}

// reservedNot is the atom heading every negated term: (not, inner).
const reservedNot = "not"

// reservedOr is the atom heading the short-circuiting disjunction
// callable: (or, a, b).
const reservedOr = "or"

// Negate builds the negated-term shape (not, inner).
func Negate(inner Term) *Compound {
	return NewCompound(NewAtom(reservedNot), inner)
}

// IsNegated reports whether t has the shape (not, inner) and, if so,
// returns inner.
func IsNegated(t Term) (inner Term, ok bool) {
	c, isCompound := t.(*Compound)
	if !isCompound || len(c.Elements) != 2 {
		return nil, false
	}
	head, isAtom := c.Elements[0].(*Atom)
	if !isAtom {
		return nil, false
	}
	s, isString := head.Value.(string)
	if !isString || s != reservedNot {
		return nil, false
	}
	return c.Elements[1], true
}

// Callable is the head of a computable (FunTerm) compound: a reference to
// a host-provided pure function of N arguments returning a term.
//
// Callable is represented as a distinct Term variant (rather than, say, an
// Atom wrapping a Go func value) so that classification code can recognize
// "this compound's head is callable" with a type switch instead of a
// reflect-based callable check.
type Callable struct {
	Name string
	Fn   func(args []Term) (Term, error)
}

func (c *Callable) isTerm()        {}
func (c *Callable) IsVar() bool    { return false }
func (c *Callable) String() string { return c.Name }

func (c *Callable) Equal(other Term) bool {
	o, ok := other.(*Callable)
	return ok && o.Name == c.Name
}

// IsComputable reports whether t is a Compound whose head is a Callable,
// i.e. a FunTerm.
func IsComputable(t Term) (*Callable, []Term, bool) {
	c, ok := t.(*Compound)
	if !ok || len(c.Elements) == 0 {
		return nil, nil, false
	}
	fn, ok := c.Elements[0].(*Callable)
	if !ok {
		return nil, nil, false
	}
	return fn, c.Elements[1:], true
}

// containsVar reports whether t contains any unbound variable reference.
func containsVar(t Term) bool {
	switch v := t.(type) {
	case *Var:
		return true
	case *Compound:
		for _, e := range v.Elements {
			if containsVar(e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// collectVars appends the names of every variable occurring in t into out.
func collectVars(t Term, out map[string]bool) {
	switch v := t.(type) {
	case *Var:
		out[v.Name] = true
	case *Compound:
		for _, e := range v.Elements {
			collectVars(e, out)
		}
	}
}

// collectVarsSkipNegation is like collectVars but does not descend into
// nested (not, ...) subterms, matching spec.md's rule that a computable
// term's necessary_vars excludes variables appearing only inside a nested
// negation.
func collectVarsSkipNegation(t Term, out map[string]bool) {
	if inner, ok := IsNegated(t); ok {
		_ = inner
		return
	}
	switch v := t.(type) {
	case *Var:
		out[v.Name] = true
	case *Compound:
		for _, e := range v.Elements {
			collectVarsSkipNegation(e, out)
		}
	}
}

// quoteAtomValue renders an atom's underlying value as an unambiguous
// string fragment for use inside canonical index keys.
func quoteAtomValue(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	default:
		return fmt.Sprintf("%T:%v", v, v)
	}
}
