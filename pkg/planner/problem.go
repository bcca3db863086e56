package planner

import "math/rand"

// Transition is one step of forward progression or backward regression:
// the standardized operator instance applied, the substitution it was
// applied under, and the resulting node.
//
// For Successors, State is a concrete set of ground facts. For
// Predecessors, State is a (possibly non-ground) goal pattern: any
// variable occurring in it that is not also bound elsewhere is an
// existentially-quantified free variable of the predecessor description,
// left for the caller to further constant-lift or enumerate against a
// concrete world state.
type Transition struct {
	Op    *StandardizedOperator
	Sub   *Substitution
	State []Term
	Cost  float64
}

// Problem bundles a set of operator schemas with the matching
// configuration used to ground them against world states, per spec.md
// §4.6.
type Problem struct {
	Operators []*Operator

	NumericBucketing bool
	PartialMatch     bool
	OccurCheck       bool
	Rng              *rand.Rand

	// InitialState is the fixed starting fact set a backward search runs
	// from. It has no bearing on Successors or GoalTest, which always
	// operate on whatever state the caller passes them; Predecessors
	// reads it (via achievableIndex) solely to build spec.md §4.6's
	// reachability-pruning index. It is nil until SetInitialState is
	// called, which a caller doing regression must do before the first
	// Predecessors call.
	InitialState []Term

	achievable *FactIndex
	err        error
}

// NewProblem constructs a Problem. rng, if nil, is seeded from a fixed
// default so runs are reproducible unless the caller supplies its own
// seeded source (spec.md §6's rng_seed driver knob).
func NewProblem(operators []*Operator, numericBucketing, partialMatch, occurCheck bool, rng *rand.Rand) *Problem {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Problem{
		Operators:        operators,
		NumericBucketing: numericBucketing,
		PartialMatch:     partialMatch,
		OccurCheck:       occurCheck,
		Rng:              rng,
	}
}

// SetInitialState records the fact set a backward search starts from,
// invalidating any previously cached achievable-facts index. Callers
// driving Problem.Predecessors must call this before the first call;
// Successors and GoalTest are unaffected.
func (p *Problem) SetInitialState(facts []Term) {
	p.InitialState = facts
	p.achievable = nil
}

// Err returns the fatal error, if any, that stopped the most recently
// consumed Successors, Predecessors, or GoalTest call early.
func (p *Problem) Err() error { return p.err }

func headOf(t Term) (string, bool) {
	c, ok := t.(*Compound)
	if !ok || len(c.Elements) == 0 {
		return "", false
	}
	a, ok := c.Elements[0].(*Atom)
	if !ok {
		return "", false
	}
	s, ok := a.Value.(string)
	return s, ok
}

// reachableHeads computes the fixed point of predicate head symbols
// producible from facts' heads by repeatedly firing any operator all of
// whose positive preconditions have reachable heads. It is a cheap,
// symbol-level over-approximation used only to skip operators that can
// never fire, not a substitute for the matcher.
func (p *Problem) reachableHeads(facts []Term) map[string]bool {
	reachable := map[string]bool{}
	for _, f := range facts {
		if h, ok := headOf(f); ok {
			reachable[h] = true
		}
	}
	for {
		changed := false
		for _, op := range p.Operators {
			allKnown := true
			for _, c := range op.PosCond {
				h, ok := headOf(c)
				if !ok || !reachable[h] {
					allKnown = false
					break
				}
			}
			if !allKnown {
				continue
			}
			for _, e := range op.AddEffects {
				if h, ok := headOf(e); ok && !reachable[h] {
					reachable[h] = true
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return reachable
}

func (p *Problem) forwardReachableOperators(facts []Term) []*Operator {
	reachable := p.reachableHeads(facts)
	var out []*Operator
	for _, op := range p.Operators {
		ok := true
		for _, c := range op.PosCond {
			if h, isAtomHead := headOf(c); isAtomHead && !reachable[h] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, op)
		}
	}
	return out
}

// GoalTest reports whether goal is satisfied against facts: whether the
// matcher finds at least one substitution for goal's conjuncts under the
// empty substitution.
func (p *Problem) GoalTest(facts, goal []Term) (bool, error) {
	p.err = nil
	idx := BuildIndex(facts, p.NumericBucketing)
	m := NewMatcher(idx, p.PartialMatch, p.OccurCheck, p.Rng)
	for range m.Match(goal, NewSubstitution()) {
		return true, nil
	}
	if err := m.Err(); err != nil {
		p.err = err
		return false, err
	}
	return false, nil
}

// Successors performs forward progression from facts: every operator is
// standardized apart, matched against the index built from facts, and for
// each resulting substitution an effect-applied successor state is
// produced. All transitions are collected into the returned slice; a
// fatal matcher or callable error stops the expansion, the transitions
// gathered so far are returned, and the error is retrievable via Err.
func (p *Problem) Successors(facts []Term) []*Transition {
	p.err = nil
	idx := BuildIndex(facts, p.NumericBucketing)

	var out []*Transition
	for _, op := range p.forwardReachableOperators(facts) {
		std := op.Standardize()
		m := NewMatcher(idx, p.PartialMatch, p.OccurCheck, p.Rng)
		for sigma := range m.MatchOperator(std.Operator, NewSubstitution()) {
			next, err := applyEffects(facts, std.Operator, sigma)
			if err != nil {
				p.err = err
				return out
			}
			out = append(out, &Transition{Op: std, Sub: sigma, State: next, Cost: std.Cost})
		}
		if err := m.Err(); err != nil {
			p.err = err
			return out
		}
	}
	return out
}

// applyEffects evaluates op's add and delete effects under sigma and
// returns the resulting fact set: facts minus the grounded delete
// effects, plus the grounded add effects not already present. Effects
// may contain computable subterms (e.g. an arithmetic update); they are
// resolved with EvaluateFunctions, not plain Substitute.
func applyEffects(facts []Term, op *Operator, sigma *Substitution) ([]Term, error) {
	del := make([]Term, 0, len(op.DelEffects))
	for _, d := range op.DelEffects {
		g, err := EvaluateFunctions(d, sigma)
		if err != nil {
			return nil, err
		}
		del = append(del, g)
	}

	next := make([]Term, 0, len(facts)+len(op.AddEffects))
	for _, f := range facts {
		deleted := false
		for _, d := range del {
			if f.Equal(d) {
				deleted = true
				break
			}
		}
		if !deleted {
			next = append(next, f)
		}
	}

	for _, a := range op.AddEffects {
		g, err := EvaluateFunctions(a, sigma)
		if err != nil {
			return nil, err
		}
		dup := false
		for _, f := range next {
			if f.Equal(g) {
				dup = true
				break
			}
		}
		if !dup {
			next = append(next, g)
		}
	}
	return next, nil
}

// Predecessors performs backward regression from a goal pattern, per
// spec.md §4.6's four-stage algorithm: constant-lifting, matching the
// lifted goal against an operator's effects, operator-consistency
// constraints, and reachability pruning against a precomputed
// achievable-facts index. The bespoke recursive unifier this replaced
// handled only the degenerate case where a goal's constants happened to
// line up with an operator's fully-variable add effect; see DESIGN.md.
//
// Matching a goal's positive atoms against an operator's add effects and
// its negated atoms against the same operator's delete effects cannot be
// forced into one all-or-nothing conjunction: an operator might be able
// to establish some of the goal while leaving the rest untouched, and
// whether a given literal is or isn't addressed by this particular
// operator instance is exactly what regression is trying to discover.
// So each goal literal that could conceivably match anything (per
// candidateLiterals) is offered to the matcher individually, via every
// subset of positive-literals-to-consume crossed with every subset of
// negative-literals-to-consume, skipping only the pair where both are
// empty (subsetsOrEmpty/nonEmptySubsets in regression.go); a literal
// left out of a given subset is simply
// carried forward unconsumed. Each subset's attempt still runs as one
// conjunction through one shared Matcher/FactIndex
// (effectIndex's combined add/delete index, tagged so a positive literal
// can only land on an add-tagged entry and a negated one only on a
// delete-tagged entry), so a variable an operator's schema shares
// between its add and delete effects is still resolved consistently
// within that attempt.
func (p *Problem) Predecessors(goal []Term) []*Transition {
	p.err = nil
	var out []*Transition

	for _, op := range p.Operators {
		std := op.Standardize()

		liftedGoal, equalityConstraints := liftGoal(goal)
		liftedPos, liftedNeg, liftedFun := classify(liftedGoal)

		addIdx := BuildIndex(std.Operator.AddEffects, p.NumericBucketing)
		delIdx := BuildIndex(std.Operator.DelEffects, p.NumericBucketing)
		posCandidates := candidateLiterals(liftedPos, addIdx)
		negCandidates := candidateLiterals(liftedNeg, delIdx)
		if len(posCandidates) == 0 && len(negCandidates) == 0 {
			continue
		}

		combined := effectIndex(std.Operator, p.NumericBucketing)
		consistency := p.consistencyConstraints(liftedPos, liftedNeg, std.Operator)

		for _, posSel := range subsetsOrEmpty(posCandidates) {
			for _, negSel := range subsetsOrEmpty(negCandidates) {
				if len(posSel) == 0 && len(negSel) == 0 {
					continue
				}

				v := make([]Term, 0, len(posSel)+len(negSel)+len(liftedFun)+len(equalityConstraints)+len(consistency))
				for _, i := range posSel {
					v = append(v, tagEffect(effectAddTag, liftedPos[i]))
				}
				for _, i := range negSel {
					v = append(v, tagEffect(effectDelTag, liftedNeg[i]))
				}
				v = append(v, liftedFun...)
				v = append(v, equalityConstraints...)
				v = append(v, consistency...)

				carriedPos := complementTerms(liftedPos, posSel)
				carriedNeg := complementTerms(liftedNeg, negSel)

				m := NewMatcher(combined, false, p.OccurCheck, p.Rng)
				for res := range m.MatchResidual(v, NewSubstitution()) {
					t, ok, err := p.regressedTransition(std, carriedPos, carriedNeg, res)
					if err != nil {
						p.err = err
						return out
					}
					if ok {
						out = append(out, t)
					}
				}
				if err := m.Err(); err != nil {
					p.err = err
					return out
				}
			}
		}
	}
	return out
}

// regressedTransition assembles one Predecessors result from a single
// MatchResidual solution over one subset of consumed literals. It folds
// res's ground equality constraints back into a direct assignment
// (spec.md §4.6's consistency pass), appends the operator's own
// preconditions, carries forward every literal this attempt left
// unconsumed plus any still-pending computable residual, and prunes the
// result if any positive atom in it is not reachable. ok is false when
// two equality constraints conflict (this subset's bindings are
// contradictory, e.g. the same operator variable forced to two different
// constants) or when reachability pruning rejects the node; neither is
// an error.
func (p *Problem) regressedTransition(std *StandardizedOperator, carriedPos, carriedNeg []Term, res *Residual) (*Transition, bool, error) {
	sigma := res.Sigma

	boundFun := make([]Term, len(res.Fun))
	for i, f := range res.Fun {
		boundFun[i] = Substitute(sigma, f)
	}
	assignment, residualFun, ok := extractAssignment(boundFun)
	if !ok {
		return nil, false, nil
	}
	finalize := func(t Term) Term { return Substitute(assignment, Substitute(sigma, t)) }

	regressed := make([]Term, 0, len(carriedPos)+len(carriedNeg)+len(std.Operator.Preconditions())+len(residualFun))
	for _, g := range carriedPos {
		regressed = append(regressed, finalize(g))
	}
	for _, t := range std.Operator.Preconditions() {
		regressed = append(regressed, finalize(t))
	}
	for _, n := range carriedNeg {
		regressed = append(regressed, Negate(finalize(n)))
	}
	for _, f := range residualFun {
		regressed = append(regressed, Substitute(assignment, f))
	}

	regressedPos, _, _ := classify(regressed)
	for _, e := range regressedPos {
		reach, err := p.reachable(e)
		if err != nil {
			return nil, false, err
		}
		if !reach {
			return nil, false, nil
		}
	}

	return &Transition{Op: std, Sub: sigma, State: regressed, Cost: std.Cost}, true, nil
}
