package planner

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Operator is a first-order STRIPS action schema: a name, a parameter
// list, a conjunction of preconditions already partitioned by kind, and a
// set of add/delete effects.
//
// Preconditions are partitioned at construction time rather than at
// match time, following
// original_source/py_plan/base.py's Operator.__init__ — but with the
// positive/negative assignment corrected (the original source swaps the
// pos_cond/neg_cond names relative to what it actually stores in them).
type Operator struct {
	Name string
	Args []Term

	PosCond []Term // plain positive preconditions
	NegCond []Term // negation-as-failure preconditions, inner pattern only
	FunCond []Term // computable preconditions

	AddEffects []Term
	DelEffects []Term // negated-effect inner pattern only

	Cost float64

	// FreeVars is the set of variable names occurring in NegCond but not
	// in any PosCond: variables that negation-as-failure alone can never
	// bind. original_source/py_plan/base.py computes the equivalent set
	// as neg_vars - pos_vars. Matcher.MatchOperator consumes FreeVars
	// directly, as the complement of each negated precondition's
	// necessary_vars, rather than recomputing determined_vars from a
	// flattened conjunction.
	FreeVars map[string]bool
}

// NewOperator partitions conditions into PosCond/NegCond/FunCond using
// the same classification the matcher uses, partitions effects into
// AddEffects/DelEffects by their (not, ...) shape, and validates that
// every computable precondition's variables are determined by a positive
// precondition (spec.md's constructor-time check; a computable term
// cannot be evaluated with unbound variables).
func NewOperator(name string, args []Term, conditions []Term, effects []Term, cost float64) (*Operator, error) {
	pos, neg, fun := classify(conditions)

	determined := map[string]bool{}
	for _, t := range pos {
		collectVars(t, determined)
	}

	free := map[string]bool{}
	for _, t := range neg {
		vars := map[string]bool{}
		collectVarsSkipNegation(t, vars)
		for v := range vars {
			if !determined[v] {
				free[v] = true
			}
		}
	}

	for _, t := range fun {
		needed := map[string]bool{}
		collectVarsSkipNegation(t, needed)
		for v := range needed {
			if !determined[v] {
				return nil, fmt.Errorf("%w: %s: computable precondition %s references undetermined variable %s",
					ErrInvalidOperator, name, t, v)
			}
		}
	}

	var add, del []Term
	for _, e := range effects {
		if inner, ok := IsNegated(e); ok {
			del = append(del, inner)
			continue
		}
		add = append(add, e)
	}

	return &Operator{
		Name:       name,
		Args:       args,
		PosCond:    pos,
		NegCond:    neg,
		FunCond:    fun,
		AddEffects: add,
		DelEffects: del,
		Cost:       cost,
		FreeVars:   free,
	}, nil
}

// Preconditions reassembles the operator's preconditions into a single
// conjunction in (positive, negated, computable) order, suitable for
// passing to Matcher.Match.
func (op *Operator) Preconditions() []Term {
	out := make([]Term, 0, len(op.PosCond)+len(op.NegCond)+len(op.FunCond))
	out = append(out, op.PosCond...)
	for _, t := range op.NegCond {
		out = append(out, Negate(t))
	}
	out = append(out, op.FunCond...)
	return out
}

func (op *Operator) String() string {
	args := make([]string, len(op.Args))
	for i, a := range op.Args {
		args[i] = a.String()
	}
	var cond []string
	for _, t := range op.PosCond {
		cond = append(cond, t.String())
	}
	for _, t := range op.NegCond {
		cond = append(cond, "not "+t.String())
	}
	for _, t := range op.FunCond {
		cond = append(cond, t.String())
	}
	var eff []string
	for _, t := range op.AddEffects {
		eff = append(eff, t.String())
	}
	for _, t := range op.DelEffects {
		eff = append(eff, "del "+t.String())
	}
	return fmt.Sprintf("%s(%s) :- %s => %s [cost %.3g]",
		op.Name, strings.Join(args, ", "), strings.Join(cond, " & "), strings.Join(eff, ", "), op.Cost)
}

// skolemCounter is the single piece of state shared across concurrent
// callers of this package: standardizing an operator apart must never
// reuse a suffix, even if two goroutines standardize the same Operator
// concurrently. spec.md §5 permits exactly this one piece of shared
// mutable state in an otherwise synchronous, single-threaded core.
var skolemCounter uint64

func nextSkolemID() uint64 {
	return atomic.AddUint64(&skolemCounter, 1)
}

// StandardizedOperator is an Operator whose variables have been renamed
// apart from every other standardized copy, so that multiple instances of
// the same schema can be reasoned about in the same search node without
// variable capture.
type StandardizedOperator struct {
	*Operator

	// Original is the schema this copy was standardized from.
	Original *Operator

	// Sub maps each original variable name to the fresh Var term it was
	// renamed to.
	Sub map[string]Term

	// ReverseSub maps each fresh variable name back to the name it was
	// standardized from.
	ReverseSub map[string]string
}

// Standardize returns a fresh copy of op with every variable renamed to a
// name carrying a unique skolem suffix, per spec.md §9's "standardize
// apart" requirement for safely instantiating the same operator schema
// more than once within a single search.
func (op *Operator) Standardize() *StandardizedOperator {
	id := nextSkolemID()
	sub := map[string]Term{}
	reverse := map[string]string{}

	rename := func(t Term) Term { return standardizeTerm(t, sub, reverse, id) }
	renameAll := func(ts []Term) []Term {
		out := make([]Term, len(ts))
		for i, t := range ts {
			out[i] = rename(t)
		}
		return out
	}

	freeVars := map[string]bool{}
	for v := range op.FreeVars {
		fresh := rename(NewVar(v))
		freeVars[fresh.(*Var).Name] = true
	}

	standardized := &Operator{
		Name:       op.Name,
		Args:       renameAll(op.Args),
		PosCond:    renameAll(op.PosCond),
		NegCond:    renameAll(op.NegCond),
		FunCond:    renameAll(op.FunCond),
		AddEffects: renameAll(op.AddEffects),
		DelEffects: renameAll(op.DelEffects),
		Cost:       op.Cost,
		FreeVars:   freeVars,
	}

	return &StandardizedOperator{
		Operator:   standardized,
		Original:   op,
		Sub:        sub,
		ReverseSub: reverse,
	}
}

// standardizeTerm recursively renames every Var in t, consulting and
// populating sub/reverse so repeated occurrences of the same variable
// within one Standardize call receive the same fresh name.
func standardizeTerm(t Term, sub map[string]Term, reverse map[string]string, id uint64) Term {
	switch v := t.(type) {
	case *Var:
		if fresh, ok := sub[v.Name]; ok {
			return fresh
		}
		fresh := NewVar(fmt.Sprintf("%s#%d", v.Name, id))
		sub[v.Name] = fresh
		reverse[fresh.Name] = v.Name
		return fresh
	case *Compound:
		elems := make([]Term, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = standardizeTerm(e, sub, reverse, id)
		}
		return &Compound{Elements: elems}
	default:
		return t
	}
}
