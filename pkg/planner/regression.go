package planner

import (
	"fmt"
	"sort"
)

// regressionCallables backs the synthetic computable terms regression
// builds for itself (equality constraints from constant-lifting,
// operator-consistency disjunctions). It is the same library
// StandardCallables returns, kept as a package-level value so every
// Problem shares identical *Callable pointers for "eq" — needed because
// extractAssignment recognizes a lifted equality constraint by comparing
// the compound's head pointer, not by name.
var regressionCallables = StandardCallables()

// anyNotEqual backs the operator-consistency disjunctive constraint
// spec.md §4.6 writes as "or_i (ne, m[v], v)": true iff at least one of
// its (var, value) argument pairs is unequal, false only if every pair
// is equal. It cannot reuse the existing (or, a, b) shape, since that
// convention is headed by a plain Atom (see evaluateOr's special-casing
// in callables.go) and so would never classify as computable at the top
// level the way a Callable-headed compound does.
var anyNotEqual = NewCallable("any-not-equal", func(args []Term) (Term, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, fmt.Errorf("any-not-equal expects a nonzero, even number of arguments")
	}
	for i := 0; i < len(args); i += 2 {
		if !args[i].Equal(args[i+1]) {
			return TrueAtom, nil
		}
	}
	return FalseAtom, nil
})

// liftConstants replaces every constant occurring in t with a fresh
// skolem variable, returning the lifted term together with one (eq,
// skolem, constant) constraint per replacement, per spec.md §4.6's
// constant-lifting stage. A variable is left untouched. A compound's
// head (its functor, including "not" itself) is never lifted, so
// liftConstants transparently recurses through negation with no special
// case. A subterm already classified as computable (IsComputable) is
// left untouched entirely: lifting inside, say, (ge, '?x', 3) would
// change its meaning, not just its shape.
func liftConstants(t Term) (Term, []Term) {
	switch v := t.(type) {
	case *Var:
		return t, nil
	case *Atom:
		skolem := NewVar(fmt.Sprintf("?lift#%d", nextSkolemID()))
		return skolem, []Term{NewCompound(regressionCallables["eq"], skolem, v)}
	case *Compound:
		if len(v.Elements) == 0 {
			return t, nil
		}
		if _, _, ok := IsComputable(t); ok {
			return t, nil
		}
		elems := make([]Term, len(v.Elements))
		elems[0] = v.Elements[0]
		var constraints []Term
		for i := 1; i < len(v.Elements); i++ {
			lifted, cs := liftConstants(v.Elements[i])
			elems[i] = lifted
			constraints = append(constraints, cs...)
		}
		return &Compound{Elements: elems}, constraints
	default:
		return t, nil
	}
}

// liftGoal lifts every conjunct of goal independently, returning the
// lifted conjunction alongside the flattened list of equality
// constraints every lifted constant produced.
func liftGoal(goal []Term) (lifted []Term, equalityConstraints []Term) {
	lifted = make([]Term, len(goal))
	for i, g := range goal {
		lg, cs := liftConstants(g)
		lifted[i] = lg
		equalityConstraints = append(equalityConstraints, cs...)
	}
	return lifted, equalityConstraints
}

// consistencyConstraints builds spec.md §4.6's operator-consistency
// constraints for one operator: for each lifted positive goal atom,
// every way it can structurally unify with one of the operator's delete
// effects yields a disjunction rejecting that unification's bindings
// (the operator must not be picked if it would necessarily delete a
// goal atom it was meant to establish); symmetrically, a lifted negated
// goal atom is checked against the operator's add effects (the operator
// must not be picked if it would necessarily add back what the goal
// requires absent).
func (p *Problem) consistencyConstraints(liftedPos, liftedNeg []Term, op *Operator) []Term {
	out := p.disjunctiveConstraintsAgainst(liftedPos, op.DelEffects)
	out = append(out, p.disjunctiveConstraintsAgainst(liftedNeg, op.AddEffects)...)
	return out
}

func (p *Problem) disjunctiveConstraintsAgainst(atoms, effects []Term) []Term {
	if len(atoms) == 0 || len(effects) == 0 {
		return nil
	}
	idx := BuildIndex(effects, p.NumericBucketing)
	var out []Term
	for _, a := range atoms {
		m := NewMatcher(idx, false, p.OccurCheck, p.Rng)
		for sigma := range m.Match([]Term{a}, NewSubstitution()) {
			if c := disjunctiveInequality(sigma); c != nil {
				out = append(out, c)
			}
		}
		if err := m.Err(); err != nil {
			p.err = err
		}
	}
	return out
}

// disjunctiveInequality builds "or_i (ne, m[v], v)" from a witness
// substitution: a term that is true unless every variable sigma bound
// stayed equal to the value it was bound to (i.e. unless the
// substitution's bindings all held exactly as found).
func disjunctiveInequality(sigma *Substitution) Term {
	names := sigma.Names()
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]Term, 0, len(keys)*2)
	for _, k := range keys {
		val, _ := sigma.Lookup(k)
		args = append(args, NewVar(k), val)
	}
	return NewCompound(append([]Term{anyNotEqual}, args...)...)
}

// groundEqBinding reports whether f has the shape liftConstants
// produces, (eq, var, ground-term) in either argument order, and if so
// returns the variable's name and the ground term it must equal.
func groundEqBinding(f Term) (string, Term, bool) {
	c, ok := f.(*Compound)
	if !ok || len(c.Elements) != 3 {
		return "", nil, false
	}
	callable, ok := c.Elements[0].(*Callable)
	if !ok || callable != regressionCallables["eq"] {
		return "", nil, false
	}
	a, b := c.Elements[1], c.Elements[2]
	if v, ok := a.(*Var); ok && !containsVar(b) {
		return v.Name, b, true
	}
	if v, ok := b.(*Var); ok && !containsVar(a) {
		return v.Name, a, true
	}
	return "", nil, false
}

// extractAssignment separates fun's ground equality constraints into a
// direct variable assignment, per spec.md §4.6's "consistency pass on
// equality constraints": every (eq, v, c) constraint collapses into v
// bound to c, folded back into the regressed state instead of carried
// forward as a residual. ok is false if two such constraints bind the
// same variable to different constants, in which case the branch must
// be discarded. Each skolem variable liftConstants mints appears in
// exactly one equality constraint, and operator-consistency constraints
// are any-not-equal terms that are never read as equalities, so a
// conflict arises when matching binds two lifted skolems to the same
// operator variable and their equality constraints, once substituted,
// force that variable to two different constants.
func extractAssignment(fun []Term) (assignment *Substitution, rest []Term, ok bool) {
	assignment = NewSubstitution()
	for _, f := range fun {
		name, val, isEq := groundEqBinding(f)
		if !isEq {
			rest = append(rest, f)
			continue
		}
		if existing, bound := assignment.Lookup(name); bound && !existing.Equal(val) {
			return nil, nil, false
		}
		assignment = assignment.Bind(name, val)
	}
	return assignment, rest, true
}

// effectAddTag and effectDelTag head a regressed goal literal wrapped for
// matching against a combined add/delete effect index: tagEffect(add, g)
// can only unify with an add-tagged entry, tagEffect(del, g) only with a
// del-tagged one. Folding both kinds of effect into one index lets a
// single Matcher/FactIndex pass bind a positive goal atom (against add
// effects) and a negated goal atom (against delete effects) under one
// shared substitution, so a variable an operator schema uses in both its
// add and delete effects is resolved consistently across both.
var (
	effectAddTag = NewAtom("effect-add")
	effectDelTag = NewAtom("effect-del")
)

func tagEffect(tag *Atom, t Term) Term { return NewCompound(tag, t) }

// effectIndex builds the combined add/delete index one operator's
// regression attempt matches against.
func effectIndex(op *Operator, numericBucketing bool) *FactIndex {
	facts := make([]Term, 0, len(op.AddEffects)+len(op.DelEffects))
	for _, a := range op.AddEffects {
		facts = append(facts, tagEffect(effectAddTag, a))
	}
	for _, d := range op.DelEffects {
		facts = append(facts, tagEffect(effectDelTag, d))
	}
	return BuildIndex(facts, numericBucketing)
}

// candidateLiterals returns the indices of items that unify with at
// least one entry of idx under the empty substitution: the literals an
// operator could conceivably consume at all. A literal outside this set
// can never match regardless of what else a regression attempt binds, so
// it is always carried forward rather than offered to subset search.
func candidateLiterals(items []Term, idx *FactIndex) []int {
	var out []int
	for i, t := range items {
		if len(idx.Lookup(t, NewSubstitution())) > 0 {
			out = append(out, i)
		}
	}
	return out
}

// nonEmptySubsets enumerates every non-empty subset of indices via
// bitmask iteration. Operators expose only a handful of effects and
// goals only a handful of literals at this scale, so 2^n is cheap; this
// is not meant to scale to large conjunctions.
func nonEmptySubsets(indices []int) [][]int {
	n := len(indices)
	var out [][]int
	for mask := 1; mask < (1 << n); mask++ {
		var sub []int
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				sub = append(sub, indices[i])
			}
		}
		out = append(out, sub)
	}
	return out
}

// subsetsOrEmpty is like nonEmptySubsets but always includes the empty
// subset first, for literal sets that may legitimately contribute
// nothing to a given regression attempt (e.g. no negated goal literal
// happens to match this operator's delete effects at all).
func subsetsOrEmpty(indices []int) [][]int {
	return append([][]int{nil}, nonEmptySubsets(indices)...)
}

// complementTerms returns the elements of all whose index is not in
// selected, preserving order: the literals a regression attempt did not
// try to consume, always carried forward into the regressed goal.
func complementTerms(all []Term, selected []int) []Term {
	sel := make(map[int]bool, len(selected))
	for _, i := range selected {
		sel[i] = true
	}
	out := make([]Term, 0, len(all)-len(selected))
	for i, t := range all {
		if !sel[i] {
			out = append(out, t)
		}
	}
	return out
}

// achievableIndex lazily builds spec.md §4.6's "achievable" index: every
// fact in the problem's initial state unioned with every operator's raw
// add-effect template. It is, deliberately, a symbol-level
// over-approximation in the same spirit as reachableHeads in
// problem.go: an add-effect template with free variables (e.g.
// (on, ?b, ?to)) is stored exactly as indexed, not grounded, so
// reachability is "some operator's schema could conceivably produce a
// fact shaped like this", not proof of a concrete plan.
func (p *Problem) achievableIndex() *FactIndex {
	if p.achievable == nil {
		facts := append([]Term{}, p.InitialState...)
		for _, op := range p.Operators {
			facts = append(facts, op.AddEffects...)
		}
		p.achievable = BuildIndex(facts, p.NumericBucketing)
	}
	return p.achievable
}

// reachable reports whether e could conceivably hold in some reachable
// state, per spec.md §4.6's reachability-pruning stage: e's constants
// are lifted (for the same index-bucket reason liftGoal lifts the
// regressed goal before matching against an operator's add effects) and
// matched, partially, against the achievable index. A deferred residual
// left over from the lift's own equality constraints does not prevent a
// match from counting: reachability only asks whether at least one
// binding exists, not whether it is fully resolved.
func (p *Problem) reachable(e Term) (bool, error) {
	lifted, eqs := liftConstants(e)
	query := append([]Term{lifted}, eqs...)

	m := NewMatcher(p.achievableIndex(), true, p.OccurCheck, p.Rng)
	for range m.MatchResidual(query, NewSubstitution()) {
		return true, nil
	}
	return false, m.Err()
}
