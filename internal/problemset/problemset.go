// Package problemset supplies the five demonstration planning problems
// carried over from original_source/py_plan/problems/: blocksworld,
// spare tire, air cargo, book ordering, and the arithmetic-effect math
// example. Each constructor returns a ready-to-search Problem along with
// its initial facts and goal conjunction.
package problemset

import (
	"fmt"
	"math/rand"

	"github.com/gitrdm/goplan/pkg/planner"
)

func atom(v any) *planner.Atom { return planner.NewAtom(v) }
func v(name string) *planner.Var { return planner.NewVar(name) }

func fact(head string, args ...planner.Term) *planner.Compound {
	return planner.NewCompound(append([]planner.Term{atom(head)}, args...)...)
}

func must(op *planner.Operator, err error) *planner.Operator {
	if err != nil {
		panic(err)
	}
	return op
}

func newProblem(ops []*planner.Operator) *planner.Problem {
	return planner.NewProblem(ops, false, false, false, rand.New(rand.NewSource(0)))
}

// Blocksworld is grounded on
// original_source/py_plan/problems/blocksworld.py: three operators
// (move, move_from_table, move_to_table) over a three-block stacking
// goal, using the "ne" computable predicate for the original's
// not_equal.
func Blocksworld() (*planner.Problem, []planner.Term, []planner.Term) {
	reg := planner.StandardCallables()
	ne := func(a, b planner.Term) *planner.Compound { return planner.NewCompound(reg["ne"], a, b) }

	move := must(planner.NewOperator("move",
		[]planner.Term{v("?b"), v("?x"), v("?y")},
		[]planner.Term{
			fact("on", v("?b"), v("?x")),
			fact("block", v("?b")), fact("block", v("?x")), fact("block", v("?y")),
			fact("clear", v("?b")), fact("clear", v("?y")),
			ne(v("?b"), v("?x")), ne(v("?b"), v("?y")), ne(v("?x"), v("?y")),
		},
		[]planner.Term{
			fact("on", v("?b"), v("?y")),
			fact("clear", v("?x")),
			planner.Negate(fact("on", v("?b"), v("?x"))),
			planner.Negate(fact("clear", v("?y"))),
		}, 1))

	moveFromTable := must(planner.NewOperator("move_from_table",
		[]planner.Term{v("?b"), v("?y")},
		[]planner.Term{
			fact("on", v("?b"), atom("table")),
			fact("clear", v("?b")), fact("clear", v("?y")),
			fact("block", v("?b")), fact("block", v("?y")),
			ne(v("?b"), v("?y")),
		},
		[]planner.Term{
			fact("on", v("?b"), v("?y")),
			planner.Negate(fact("on", v("?b"), atom("table"))),
			planner.Negate(fact("clear", v("?y"))),
		}, 1))

	moveToTable := must(planner.NewOperator("move_to_table",
		[]planner.Term{v("?b"), v("?x")},
		[]planner.Term{
			fact("on", v("?b"), v("?x")),
			fact("block", v("?b")), fact("block", v("?x")),
			fact("clear", v("?b")),
			ne(v("?b"), v("?x")),
		},
		[]planner.Term{
			fact("on", v("?b"), atom("table")),
			fact("clear", v("?x")),
			planner.Negate(fact("on", v("?b"), v("?x"))),
		}, 1))

	init := []planner.Term{
		fact("on", atom("A"), atom("table")),
		fact("on", atom("B"), atom("table")),
		fact("on", atom("C"), atom("A")),
		fact("block", atom("A")), fact("block", atom("B")), fact("block", atom("C")),
		fact("clear", atom("B")), fact("clear", atom("C")),
	}
	goal := []planner.Term{
		fact("on", atom("A"), atom("B")),
		fact("on", atom("B"), atom("C")),
	}
	return newProblem([]*planner.Operator{move, moveFromTable, moveToTable}), init, goal
}

// SpareTire is grounded on
// original_source/py_plan/problems/spare_tire.py, including its
// zero-precondition leave_overnight operator (a pure-effect action that
// erases every placement of the flat and spare tires).
func SpareTire() (*planner.Problem, []planner.Term, []planner.Term) {
	remove := must(planner.NewOperator("remove",
		[]planner.Term{v("?obj"), v("?loc")},
		[]planner.Term{fact("at", v("?obj"), v("?loc"))},
		[]planner.Term{
			planner.Negate(fact("at", v("?obj"), v("?loc"))),
			fact("at", v("?obj"), atom("ground")),
		}, 1))

	puton := must(planner.NewOperator("puton",
		[]planner.Term{v("?t")},
		[]planner.Term{
			fact("tire", v("?t")),
			fact("at", v("?t"), atom("ground")),
			planner.Negate(fact("at", atom("flat"), atom("axle"))),
		},
		[]planner.Term{
			planner.Negate(fact("at", v("?t"), atom("ground"))),
			fact("at", v("?t"), atom("axle")),
		}, 1))

	leaveOvernight := must(planner.NewOperator("leave_overnight", nil, nil,
		[]planner.Term{
			planner.Negate(fact("at", atom("spare"), atom("ground"))),
			planner.Negate(fact("at", atom("spare"), atom("axle"))),
			planner.Negate(fact("at", atom("spare"), atom("trunk"))),
			planner.Negate(fact("at", atom("flat"), atom("ground"))),
			planner.Negate(fact("at", atom("flat"), atom("axle"))),
			planner.Negate(fact("at", atom("flat"), atom("trunk"))),
		}, 1))

	init := []planner.Term{
		fact("tire", atom("flat")), fact("tire", atom("spare")),
		fact("at", atom("flat"), atom("axle")),
		fact("at", atom("spare"), atom("trunk")),
	}
	goal := []planner.Term{fact("at", atom("spare"), atom("axle"))}
	return newProblem([]*planner.Operator{remove, puton, leaveOvernight}), init, goal
}

// AirCargo is grounded on
// original_source/py_plan/problems/air_cargo.py.
func AirCargo() (*planner.Problem, []planner.Term, []planner.Term) {
	reg := planner.StandardCallables()
	ne := func(a, b planner.Term) *planner.Compound { return planner.NewCompound(reg["ne"], a, b) }

	load := must(planner.NewOperator("load",
		[]planner.Term{v("?c"), v("?p"), v("?a")},
		[]planner.Term{
			fact("At", v("?c"), v("?a")), fact("At", v("?p"), v("?a")),
			fact("Cargo", v("?c")), fact("Plane", v("?p")), fact("Airport", v("?a")),
		},
		[]planner.Term{
			planner.Negate(fact("At", v("?c"), v("?a"))),
			fact("In", v("?c"), v("?p")),
		}, 1))

	unload := must(planner.NewOperator("unload",
		[]planner.Term{v("?c"), v("?p"), v("?a")},
		[]planner.Term{
			fact("In", v("?c"), v("?p")), fact("At", v("?p"), v("?a")),
			fact("Cargo", v("?c")), fact("Plane", v("?p")), fact("Airport", v("?a")),
		},
		[]planner.Term{
			fact("At", v("?c"), v("?a")),
			planner.Negate(fact("In", v("?c"), v("?p"))),
		}, 1))

	fly := must(planner.NewOperator("fly",
		[]planner.Term{v("?p"), v("?from"), v("?to")},
		[]planner.Term{
			fact("At", v("?p"), v("?from")), fact("Plane", v("?p")),
			fact("Airport", v("?from")), fact("Airport", v("?to")),
			ne(v("?from"), v("?to")),
		},
		[]planner.Term{
			planner.Negate(fact("At", v("?p"), v("?from"))),
			fact("At", v("?p"), v("?to")),
		}, 1))

	init := []planner.Term{
		fact("At", atom("C1"), atom("SFO")), fact("At", atom("C2"), atom("JFK")),
		fact("At", atom("P1"), atom("SFO")), fact("At", atom("P2"), atom("JFK")),
		fact("Cargo", atom("C1")), fact("Cargo", atom("C2")),
		fact("Plane", atom("P1")), fact("Plane", atom("P2")),
		fact("Airport", atom("JFK")), fact("Airport", atom("SFO")),
	}
	goal := []planner.Term{fact("At", atom("C1"), atom("JFK"))}
	return newProblem([]*planner.Operator{load, unload, fly}), init, goal
}

// BookOrdering is grounded on
// original_source/py_plan/problems/book_ordering.py: a single buy
// operator whose effect decrements a running balance via the sub
// computable predicate, the scenario exercising an arithmetic operator
// effect end to end. numBooks scales down the original's 30-book catalog
// for a tractable demonstration instance; pass 30 to reproduce it
// exactly.
func BookOrdering(numBooks int) (*planner.Problem, []planner.Term, []planner.Term) {
	reg := planner.StandardCallables()

	buy := must(planner.NewOperator("buy",
		[]planner.Term{v("?b"), v("?c"), v("?m")},
		[]planner.Term{
			fact("Book", v("?b")), fact("Cost", v("?b"), v("?c")), fact("Money", v("?m")),
			planner.NewCompound(reg["ge"], v("?m"), v("?c")),
		},
		[]planner.Term{
			fact("Own", v("?b")),
			planner.Negate(fact("Money", v("?m"))),
			fact("Money", planner.NewCompound(reg["sub"], v("?m"), v("?c"))),
		}, 1))

	init := []planner.Term{fact("Money", atom(int64(30)))}
	for i := 0; i < numBooks; i++ {
		book := atom(fmt.Sprintf("book%d", i))
		init = append(init, fact("Book", book), fact("Cost", book, atom(int64(10))))
	}
	goal := []planner.Term{fact("Own", atom(fmt.Sprintf("book%d", min(2, numBooks-1))))}
	return newProblem([]*planner.Operator{buy}), init, goal
}

// MathExample is grounded on
// original_source/py_plan/problems/math_example.py: a single add
// operator that asserts the sum of any two known Number facts, without
// retracting either operand, so the state accumulates every number
// reachable from the start fact.
func MathExample() (*planner.Problem, []planner.Term, []planner.Term) {
	reg := planner.StandardCallables()
	addOp := must(planner.NewOperator("add",
		[]planner.Term{v("?n1"), v("?n2")},
		[]planner.Term{fact("Number", v("?n1")), fact("Number", v("?n2"))},
		[]planner.Term{fact("Number", planner.NewCompound(reg["add"], v("?n1"), v("?n2")))}, 1))

	init := []planner.Term{fact("Number", atom(int64(1)))}
	goal := []planner.Term{fact("Number", atom(int64(5)))}
	return newProblem([]*planner.Operator{addOp}), init, goal
}
