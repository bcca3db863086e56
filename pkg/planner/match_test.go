package planner

import (
	"math/rand"
	"testing"
)

func newTestMatcher(facts []Term, partial bool) *Matcher {
	idx := BuildIndex(facts, false)
	return NewMatcher(idx, partial, false, rand.New(rand.NewSource(1)))
}

func collectSigmas(m *Matcher, conj []Term) []*Substitution {
	var out []*Substitution
	for sigma := range m.Match(conj, NewSubstitution()) {
		out = append(out, sigma)
	}
	return out
}

func TestMatchPositiveConjunction(t *testing.T) {
	facts := []Term{
		NewCompound(NewAtom("on"), NewAtom("a"), NewAtom("b")),
		NewCompound(NewAtom("on"), NewAtom("b"), NewAtom("table")),
		NewCompound(NewAtom("clear"), NewAtom("a")),
	}
	m := newTestMatcher(facts, false)
	conj := []Term{
		NewCompound(NewAtom("on"), NewVar("?x"), NewVar("?y")),
		NewCompound(NewAtom("on"), NewVar("?y"), NewAtom("table")),
	}
	sigmas := collectSigmas(m, conj)
	if len(sigmas) != 1 {
		t.Fatalf("got %d solutions; want 1", len(sigmas))
	}
	x, _ := sigmas[0].Lookup("?x")
	y, _ := sigmas[0].Lookup("?y")
	if !x.Equal(NewAtom("a")) || !y.Equal(NewAtom("b")) {
		t.Fatalf("?x=%v ?y=%v; want a, b", x, y)
	}
	if err := m.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMatchNegationAsFailure(t *testing.T) {
	facts := []Term{
		NewCompound(NewAtom("block"), NewAtom("a")),
		NewCompound(NewAtom("block"), NewAtom("b")),
		NewCompound(NewAtom("on"), NewAtom("b"), NewAtom("a")),
	}
	m := newTestMatcher(facts, false)
	conj := []Term{
		NewCompound(NewAtom("block"), NewVar("?x")),
		Negate(NewCompound(NewAtom("on"), NewVar("?x"), NewAtom("a"))),
	}
	sigmas := collectSigmas(m, conj)
	if len(sigmas) != 1 {
		t.Fatalf("got %d solutions; want 1", len(sigmas))
	}
	x, _ := sigmas[0].Lookup("?x")
	if !x.Equal(NewAtom("a")) {
		t.Fatalf("?x=%v; want a (b is excluded by negation)", x)
	}
}

func TestMatchComputablePredicate(t *testing.T) {
	facts := []Term{
		NewCompound(NewAtom("balance"), NewAtom("acct1"), NewAtom(10)),
		NewCompound(NewAtom("balance"), NewAtom("acct2"), NewAtom(3)),
	}
	m := newTestMatcher(facts, false)
	reg := StandardCallables()
	conj := []Term{
		NewCompound(NewAtom("balance"), NewVar("?acct"), NewVar("?bal")),
		NewCompound(reg["ge"], NewVar("?bal"), NewAtom(5)),
	}
	sigmas := collectSigmas(m, conj)
	if len(sigmas) != 1 {
		t.Fatalf("got %d solutions; want 1", len(sigmas))
	}
	acct, _ := sigmas[0].Lookup("?acct")
	if !acct.Equal(NewAtom("acct1")) {
		t.Fatalf("?acct=%v; want acct1", acct)
	}
}

func TestMatchPartialModeSkipsMissingFacts(t *testing.T) {
	facts := []Term{NewCompound(NewAtom("block"), NewAtom("a"))}

	complete := newTestMatcher(facts, false)
	conj := []Term{
		NewCompound(NewAtom("block"), NewVar("?x")),
		NewCompound(NewAtom("unknownPredicate"), NewVar("?x")),
	}
	if len(collectSigmas(complete, conj)) != 0 {
		t.Fatal("complete mode should fail when a conjunct has no candidates")
	}

	partial := newTestMatcher(facts, true)
	sigmas := collectSigmas(partial, conj)
	if len(sigmas) != 1 {
		t.Fatalf("partial mode got %d solutions; want 1", len(sigmas))
	}
}

// TestMatchNegatedConjunctWithFreeVariableExhausts covers a negated
// conjunct whose variable never occurs in any positive conjunct: ?y is
// free, not determined, so the negation is eligible for testing
// immediately rather than waiting forever for ?y to ground. Against a
// knowledge base where every number has some other number pairing with
// it, (not, (number, ?y)) is always satisfiable (some candidate exists
// for every ?x), so the whole conjunction yields no solutions at all,
// not a fatal error.
func TestMatchNegatedConjunctWithFreeVariableExhausts(t *testing.T) {
	facts := []Term{
		NewCompound(NewAtom("number"), NewAtom(1)),
		NewCompound(NewAtom("number"), NewAtom(2)),
	}
	m := newTestMatcher(facts, false)
	conj := []Term{
		NewCompound(NewAtom("number"), NewVar("?x")),
		Negate(NewCompound(NewAtom("number"), NewVar("?y"))),
	}
	sigmas := collectSigmas(m, conj)
	if len(sigmas) != 0 {
		t.Fatalf("got %d solutions; want 0", len(sigmas))
	}
	if err := m.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMatchUnboundFunctionalVariableIsFatal(t *testing.T) {
	facts := []Term{NewCompound(NewAtom("block"), NewAtom("a"))}
	m := newTestMatcher(facts, false)
	reg := StandardCallables()
	conj := []Term{
		NewCompound(reg["ge"], NewVar("?never_bound"), NewAtom(1)),
	}
	sigmas := collectSigmas(m, conj)
	if len(sigmas) != 0 {
		t.Fatalf("got %d solutions; want 0", len(sigmas))
	}
	if m.Err() == nil {
		t.Fatal("expected a fatal error for an unresolved computable condition")
	}
}
