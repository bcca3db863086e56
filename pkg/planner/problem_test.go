package planner

import (
	"math/rand"
	"testing"
)

func moveOperator(t *testing.T) *Operator {
	op, err := NewOperator("move",
		[]Term{NewVar("?b"), NewVar("?from"), NewVar("?to")},
		[]Term{
			NewCompound(NewAtom("on"), NewVar("?b"), NewVar("?from")),
			NewCompound(NewAtom("clear"), NewVar("?b")),
			NewCompound(NewAtom("clear"), NewVar("?to")),
		},
		[]Term{
			NewCompound(NewAtom("on"), NewVar("?b"), NewVar("?to")),
			NewCompound(NewAtom("clear"), NewVar("?from")),
			Negate(NewCompound(NewAtom("on"), NewVar("?b"), NewVar("?from"))),
			Negate(NewCompound(NewAtom("clear"), NewVar("?to"))),
		}, 1)
	if err != nil {
		t.Fatalf("NewOperator: %v", err)
	}
	return op
}

func TestProblemSuccessorsProgresses(t *testing.T) {
	facts := []Term{
		NewCompound(NewAtom("on"), NewAtom("a"), NewAtom("table")),
		NewCompound(NewAtom("on"), NewAtom("b"), NewAtom("table")),
		NewCompound(NewAtom("clear"), NewAtom("a")),
		NewCompound(NewAtom("clear"), NewAtom("b")),
	}
	p := NewProblem([]*Operator{moveOperator(t)}, false, false, false, rand.New(rand.NewSource(7)))

	transitions := p.Successors(facts)
	if err := p.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transitions) == 0 {
		t.Fatal("expected at least one successor")
	}

	idx := BuildIndex(transitions[0].State, false)
	moved := NewCompound(NewAtom("on"), NewAtom("a"), NewAtom("b"))
	movedOther := NewCompound(NewAtom("on"), NewAtom("b"), NewAtom("a"))
	if !idx.Contains(moved) && !idx.Contains(movedOther) {
		t.Fatalf("successor state %v does not reflect either move", transitions[0].State)
	}
}

func TestProblemGoalTest(t *testing.T) {
	facts := []Term{
		NewCompound(NewAtom("on"), NewAtom("a"), NewAtom("b")),
	}
	p := NewProblem(nil, false, false, false, rand.New(rand.NewSource(1)))
	goal := []Term{NewCompound(NewAtom("on"), NewVar("?x"), NewAtom("b"))}

	ok, err := p.GoalTest(facts, goal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("GoalTest = false; want true")
	}

	unmet := []Term{NewCompound(NewAtom("on"), NewAtom("b"), NewAtom("a"))}
	ok, err = p.GoalTest(facts, unmet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("GoalTest = true for an unsatisfied goal")
	}
}

func TestProblemPredecessorsRegresses(t *testing.T) {
	p := NewProblem([]*Operator{moveOperator(t)}, false, false, false, rand.New(rand.NewSource(3)))
	goal := []Term{NewCompound(NewAtom("on"), NewAtom("a"), NewAtom("b"))}

	transitions := p.Predecessors(goal)
	if err := p.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transitions) == 0 {
		t.Fatal("expected at least one predecessor")
	}

	idx := BuildIndex(transitions[0].State, false)
	if !idx.Contains(NewCompound(NewAtom("clear"), NewAtom("b"))) {
		t.Fatalf("regressed goal %v missing move's precondition clear(b)", transitions[0].State)
	}
}

// TestProblemPredecessorsConsumesNegatedGoalViaDeleteEffects covers the
// other half of regression's effects-matching stage: a negated goal
// literal discharged by an operator's delete effects, rather than a
// positive one discharged by its add effects. Regressing (not, on(a,c))
// through move must recognize that move(?b,?from,?to) deletes on(?b,?from),
// so it can be picked with ?b=a, ?from=c, leaving on(a,c) and clear(a) as
// required preconditions of the predecessor state instead of carrying the
// negation forward unresolved.
func TestProblemPredecessorsConsumesNegatedGoalViaDeleteEffects(t *testing.T) {
	p := NewProblem([]*Operator{moveOperator(t)}, false, false, false, rand.New(rand.NewSource(5)))
	goal := []Term{Negate(NewCompound(NewAtom("on"), NewAtom("a"), NewAtom("c")))}

	transitions := p.Predecessors(goal)
	if err := p.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transitions) == 0 {
		t.Fatal("expected at least one predecessor")
	}

	idx := BuildIndex(transitions[0].State, false)
	if !idx.Contains(NewCompound(NewAtom("on"), NewAtom("a"), NewAtom("c"))) {
		t.Fatalf("regressed goal %v missing move's precondition on(a,c)", transitions[0].State)
	}
	if !idx.Contains(NewCompound(NewAtom("clear"), NewAtom("a"))) {
		t.Fatalf("regressed goal %v missing move's precondition clear(a)", transitions[0].State)
	}
}
