package planner

import (
	"fmt"
	"iter"
	"math/rand"
	"sort"
)

// negCond is a pending negated conjunct together with its necessary_vars
// per spec.md §4.4: the subset of inner's variables that also occur in
// some positive, non-computable atom of the conjunction (determined_vars)
// and so can actually become bound as matching proceeds. A variable of
// inner outside this set is free within the whole conjunction — nothing
// else will ever bind it — so it does not gate eligibility: once every
// necessary variable is ground, inner is tested for existence against the
// index via Unify, with any remaining free variables left open in the
// probe, per spec.md §4.4 step 1's negated-atom rule.
type negCond struct {
	inner Term
	wait  map[string]bool
}

// branchState is one node of the matcher's search: a substitution together
// with the conjuncts not yet resolved under it.
type branchState struct {
	sigma *Substitution
	pos   []Term   // positive terms still needing a fact unified against them
	neg   []negCond // pending negated conjuncts
	fun   []Term   // pending computable terms, not yet fully ground
}

// matchResult is one solution reached by search: the binding substitution
// together with whatever negated or computable conjuncts were still
// pending when the positive terms ran out. Match and MatchOperator treat
// a non-empty leftover as a fatal, malformed-conjunction error; MatchResidual
// surfaces it to the caller instead, for regression's deferred constraints.
type matchResult struct {
	sigma *Substitution
	neg   []negCond
	fun   []Term
}

// Residual is a MatchResidual solution: a substitution together with the
// negated and computable conjuncts that remained pending when the
// positive terms were exhausted, carried forward as deferred constraints
// rather than treated as an error.
type Residual struct {
	Sigma *Substitution
	Neg   []Term
	Fun   []Term
}

// frame is a choice point in the explicit backtracking stack: a positive
// term chosen via the MRV heuristic, its shuffled fact candidates, and a
// cursor into that list. This mirrors the frame-stack loop in
// gokanlogic's solver.go DFSSearch.Search, adapted from variable-domain
// assignment to fact unification.
type frame struct {
	sigma     *Substitution
	neg       []negCond
	fun       []Term
	remaining []Term
	term      Term

	candidates []Term
	next       int
}

// Matcher runs conjunctive queries against a FactIndex.
type Matcher struct {
	idx        *FactIndex
	partial    bool
	occurCheck bool
	rng        *rand.Rand
	err        error
}

// NewMatcher constructs a Matcher over idx. When partial is true, a
// positive conjunct with no matching facts is treated as vacuously
// satisfied instead of failing its branch, per spec.md §4.4's partial
// matching mode. rng drives both the minimum-remaining-values tie-break
// and the candidate shuffle order; pass a seeded *rand.Rand for
// reproducible search.
func NewMatcher(idx *FactIndex, partial, occurCheck bool, rng *rand.Rand) *Matcher {
	return &Matcher{idx: idx, partial: partial, occurCheck: occurCheck, rng: rng}
}

// Err returns the fatal error, if any, that terminated the most recently
// consumed Match/MatchOperator/MatchResidual sequence early. A nil Err
// after a sequence ends simply means the search space was exhausted with
// no further solutions.
func (m *Matcher) Err() error { return m.err }

// classify partitions a conjunction into positive, pending-negative, and
// pending-computable terms, per original_source/py_plan/pattern_matching.py's
// is_negated_term / is_functional_term classification (negation checked
// first, since a negated computable term is still classified as negative).
func classify(conj []Term) (pos, neg, fun []Term) {
	for _, t := range conj {
		if inner, ok := IsNegated(t); ok {
			neg = append(neg, inner)
			continue
		}
		if _, _, ok := IsComputable(t); ok {
			fun = append(fun, t)
			continue
		}
		pos = append(pos, t)
	}
	return pos, neg, fun
}

// determinedVars computes spec.md §4.4's determined_vars: the variables
// appearing in some positive, non-computable atom of a conjunction.
func determinedVars(pos []Term) map[string]bool {
	out := map[string]bool{}
	for _, t := range pos {
		collectVars(t, out)
	}
	return out
}

// necessaryVars computes a negated atom's necessary_vars per spec.md
// §4.4: the variables of inner that also occur in determined.
func necessaryVars(inner Term, determined map[string]bool) map[string]bool {
	all := map[string]bool{}
	collectVars(inner, all)
	wait := map[string]bool{}
	for v := range all {
		if determined[v] {
			wait[v] = true
		}
	}
	return wait
}

func buildNegConds(innerTerms []Term, determined map[string]bool) []negCond {
	out := make([]negCond, len(innerTerms))
	for i, inner := range innerTerms {
		out[i] = negCond{inner: inner, wait: necessaryVars(inner, determined)}
	}
	return out
}

// Match returns an iterator over every extension of sigma0 that satisfies
// conj's positive conjuncts against the index, its negated conjuncts by
// negation-as-failure, and its computable conjuncts by evaluation to a
// non-false result. Consuming the sequence drives the search one
// candidate at a time; stopping early (a for-range break) abandons the
// remaining search state without further work.
//
// A fatal error (an unbound variable reaching a computable term, a user
// callable erroring outside "or", or positive terms exhausting while a
// negated or computable term never became ground) stops the sequence and
// is retrievable afterward via Err.
func (m *Matcher) Match(conj []Term, sigma0 *Substitution) iter.Seq[*Substitution] {
	pos, negTerms, fun := classify(conj)
	neg := buildNegConds(negTerms, determinedVars(pos))
	return m.strict(pos, neg, fun, sigma0)
}

// MatchOperator is like Match but consumes an operator's preconditions
// already partitioned at construction time, using its precomputed
// FreeVars (variables bound only by negation-as-failure, per spec.md
// §4.5) directly as the complement of each negated conjunct's
// necessary_vars, instead of reclassifying a flattened conjunction and
// re-deriving determined_vars from scratch.
func (m *Matcher) MatchOperator(op *Operator, sigma0 *Substitution) iter.Seq[*Substitution] {
	neg := make([]negCond, len(op.NegCond))
	for i, inner := range op.NegCond {
		wait := map[string]bool{}
		collectVars(inner, wait)
		for v := range op.FreeVars {
			delete(wait, v)
		}
		neg[i] = negCond{inner: inner, wait: wait}
	}
	return m.strict(op.PosCond, neg, op.FunCond, sigma0)
}

// MatchResidual is like Match, but treats exhaustion of the positive
// conjuncts as success even when negated or computable conjuncts are
// still pending, surfacing them as deferred constraints on the returned
// Residual instead of raising ErrInvalidOperator. This is used by
// backward regression (spec.md §4.6), where a computable residual (an
// equality or operator-consistency constraint) may only become ground
// once a later regression step binds the variables it depends on.
func (m *Matcher) MatchResidual(conj []Term, sigma0 *Substitution) iter.Seq[*Residual] {
	pos, negTerms, fun := classify(conj)
	neg := buildNegConds(negTerms, determinedVars(pos))
	m.err = nil
	return func(yield func(*Residual) bool) {
		for res := range m.search(pos, neg, fun, sigma0) {
			if !yield(&Residual{Sigma: res.sigma, Neg: negInners(res.neg), Fun: res.fun}) {
				return
			}
		}
	}
}

func negInners(conds []negCond) []Term {
	out := make([]Term, len(conds))
	for i, nc := range conds {
		out[i] = nc.inner
	}
	return out
}

// strict wraps search with spec.md §4.4's ordinary goal test: a leftover
// negated or computable conjunct once every positive term is consumed is
// ErrInvalidOperator, not a deferred constraint.
func (m *Matcher) strict(pos []Term, neg []negCond, fun []Term, sigma0 *Substitution) iter.Seq[*Substitution] {
	m.err = nil
	return func(yield func(*Substitution) bool) {
		for res := range m.search(pos, neg, fun, sigma0) {
			if len(res.neg) != 0 || len(res.fun) != 0 {
				m.err = fmt.Errorf("%w: unresolved condition after all positive terms matched", ErrInvalidOperator)
				return
			}
			if !yield(res.sigma) {
				return
			}
		}
	}
}

// search is the matching engine shared by Match, MatchOperator, and
// MatchResidual: an explicit-stack depth-first backtracking search over
// branchState values, grounded on gokanlogic's solver.go DFSSearch.Search
// (explicit frame-stack loop, no recursion) for the shape of the
// backtracking loop, and on
// original_source/py_plan/pattern_matching.py's PatternMatchingProblem
// (successors/goal_test, minimum-remaining-values term ordering,
// update_neg_pattern/update_fun_pattern) for the matching semantics. It
// yields every reachable goal-test state without judging whether a
// leftover neg/fun list is acceptable; callers decide that.
func (m *Matcher) search(pos []Term, neg []negCond, fun []Term, sigma0 *Substitution) iter.Seq[*matchResult] {
	return func(yield func(*matchResult) bool) {
		cur, ok := m.propagate(&branchState{sigma: sigma0, pos: pos, neg: neg, fun: fun})
		if !ok {
			return
		}

		var stack []*frame
		for {
			for cur != nil && len(cur.pos) > 0 {
				term, remaining := m.selectTerm(cur.pos, cur.sigma)
				candidates := m.idx.Lookup(term, cur.sigma)

				if len(candidates) == 0 {
					if !m.partial {
						cur = nil
						break
					}
					next, ok := m.propagate(&branchState{sigma: cur.sigma, pos: remaining, neg: cur.neg, fun: cur.fun})
					if !ok {
						if m.err != nil {
							return
						}
						cur = nil
						break
					}
					cur = next
					continue
				}

				stack = append(stack, &frame{
					sigma:      cur.sigma,
					neg:        cur.neg,
					fun:        cur.fun,
					remaining:  remaining,
					term:       term,
					candidates: m.shuffle(candidates),
				})
				cur = nil
			}

			if cur != nil {
				if !yield(&matchResult{sigma: cur.sigma, neg: cur.neg, fun: cur.fun}) {
					return
				}
				cur = nil
			}

			advanced := false
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.next >= len(top.candidates) {
					stack = stack[:len(stack)-1]
					continue
				}
				candidate := top.candidates[top.next]
				top.next++

				newSigma, ok := Unify(top.term, candidate, top.sigma, m.occurCheck)
				if !ok {
					continue
				}
				next, ok := m.propagate(&branchState{sigma: newSigma, pos: top.remaining, neg: top.neg, fun: top.fun})
				if !ok {
					if m.err != nil {
						return
					}
					continue
				}
				cur = next
				advanced = true
				break
			}
			if !advanced {
				return
			}
		}
	}
}

// selectTerm picks the positive term with the fewest current fact
// candidates (ties broken by a random draw), per spec.md §4.4's
// minimum-remaining-values heuristic, and returns it along with the
// other positive terms.
func (m *Matcher) selectTerm(pos []Term, sigma *Substitution) (Term, []Term) {
	type scored struct {
		idx int
		n   int
		tie float64
	}
	scoredTerms := make([]scored, len(pos))
	for i, t := range pos {
		scoredTerms[i] = scored{idx: i, n: len(m.idx.Lookup(t, sigma)), tie: m.rng.Float64()}
	}
	sort.Slice(scoredTerms, func(i, j int) bool {
		if scoredTerms[i].n != scoredTerms[j].n {
			return scoredTerms[i].n < scoredTerms[j].n
		}
		return scoredTerms[i].tie < scoredTerms[j].tie
	})

	chosen := scoredTerms[0].idx
	remaining := make([]Term, 0, len(pos)-1)
	for i, t := range pos {
		if i != chosen {
			remaining = append(remaining, t)
		}
	}
	return pos[chosen], remaining
}

// shuffle returns a randomized copy of candidates, so that branches
// explore facts in a non-fixed order across runs sharing a seed only
// deliberately.
func (m *Matcher) shuffle(candidates []Term) []Term {
	out := append([]Term(nil), candidates...)
	m.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// propagate resolves every pending negated and computable term eligible
// under state.sigma, leaving the rest pending. A negated term is eligible
// once its necessary_vars (nc.wait) are all ground; it is then tested via
// negationSatisfiable, not deferred until fully ground, so that a
// negation with free variables (vars outside the whole conjunction's
// determined_vars) is decided as soon as possible rather than never. A
// computable term is eligible once it is fully ground, matching spec.md
// §4.4's rule that every computable variable must already be determined.
//
// propagate returns ok=false either when a negated term's inner pattern
// turns out to be satisfiable (the negation fails), when a computable
// term evaluates to false, or when a fatal error occurs (in which case
// m.err is set and the caller must stop rather than backtrack).
func (m *Matcher) propagate(state *branchState) (*branchState, bool) {
	newNeg := make([]negCond, 0, len(state.neg))
	for _, nc := range state.neg {
		if !groundEnough(nc.wait, state.sigma) {
			newNeg = append(newNeg, nc)
			continue
		}
		if m.negationSatisfiable(nc.inner, state.sigma) {
			return nil, false
		}
	}

	newFun := make([]Term, 0, len(state.fun))
	for _, term := range state.fun {
		bound := Substitute(state.sigma, term)
		if containsVar(bound) {
			newFun = append(newFun, term)
			continue
		}
		result, err := EvaluateFunctions(term, state.sigma)
		if err != nil {
			m.err = err
			return nil, false
		}
		if isFalseTerm(result) {
			return nil, false
		}
	}

	return &branchState{sigma: state.sigma, pos: state.pos, neg: newNeg, fun: newFun}, true
}

// groundEnough reports whether every variable in wait is bound to a
// ground term under sigma.
func groundEnough(wait map[string]bool, sigma *Substitution) bool {
	for name := range wait {
		bound, ok := sigma.Lookup(name)
		if !ok || containsVar(bound) {
			return false
		}
	}
	return true
}

// negationSatisfiable reports whether some index candidate for inner
// unifies with it under sigma, i.e. whether the negation fails. Any
// variable of inner outside sigma's bindings (a free variable never
// determined elsewhere) is left open in the probe: per spec.md §4.4, a
// negated atom with free variables is tested for existence against the
// index, not structural equality, since an eventual binding for it can
// never come from anywhere else in the conjunction.
func (m *Matcher) negationSatisfiable(inner Term, sigma *Substitution) bool {
	for _, cand := range m.idx.Lookup(inner, sigma) {
		if _, ok := Unify(inner, cand, sigma, m.occurCheck); ok {
			return true
		}
	}
	return false
}
