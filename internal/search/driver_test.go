package search

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/goplan/internal/config"
	"github.com/gitrdm/goplan/internal/problemset"
	"github.com/gitrdm/goplan/pkg/planner"
)

func blocksWorldMove(t *testing.T) *planner.Operator {
	op, err := planner.NewOperator("move",
		[]planner.Term{planner.NewVar("?b"), planner.NewVar("?from"), planner.NewVar("?to")},
		[]planner.Term{
			planner.NewCompound(planner.NewAtom("on"), planner.NewVar("?b"), planner.NewVar("?from")),
			planner.NewCompound(planner.NewAtom("clear"), planner.NewVar("?b")),
			planner.NewCompound(planner.NewAtom("clear"), planner.NewVar("?to")),
		},
		[]planner.Term{
			planner.NewCompound(planner.NewAtom("on"), planner.NewVar("?b"), planner.NewVar("?to")),
			planner.NewCompound(planner.NewAtom("clear"), planner.NewVar("?from")),
			planner.Negate(planner.NewCompound(planner.NewAtom("on"), planner.NewVar("?b"), planner.NewVar("?from"))),
			planner.Negate(planner.NewCompound(planner.NewAtom("clear"), planner.NewVar("?to"))),
		}, 1)
	require.NoError(t, err)
	return op
}

func TestDriverSolvesBlocksWorldStack(t *testing.T) {
	init := []planner.Term{
		planner.NewCompound(planner.NewAtom("on"), planner.NewAtom("a"), planner.NewAtom("table")),
		planner.NewCompound(planner.NewAtom("on"), planner.NewAtom("b"), planner.NewAtom("table")),
		planner.NewCompound(planner.NewAtom("clear"), planner.NewAtom("a")),
		planner.NewCompound(planner.NewAtom("clear"), planner.NewAtom("b")),
	}
	goal := []planner.Term{
		planner.NewCompound(planner.NewAtom("on"), planner.NewAtom("a"), planner.NewAtom("b")),
	}

	problem := planner.NewProblem([]*planner.Operator{blocksWorldMove(t)}, false, false, false, rand.New(rand.NewSource(2)))
	driver := New(problem, goal, config.SearchConfig{Strategy: "bfs", MaxNodes: 1000})

	plan, err := driver.Run(init)
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.GreaterOrEqual(t, len(plan.Steps), 1)

	ok, err := problem.GoalTest(plan.FinalState, goal)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestDriverSolvesSpareTireBothDirections covers spec.md §8 S2: forward
// progression and backward regression must both reach a plan of length
// 3 or fewer over the same problem. RunBackward is otherwise never
// exercised outside its own package, leaving Problem.Predecessors
// unreachable from any integration path.
func TestDriverSolvesSpareTireBothDirections(t *testing.T) {
	problem, init, goal := problemset.SpareTire()
	driver := New(problem, goal, config.SearchConfig{Strategy: "bfs", MaxNodes: 1000})

	forward, err := driver.Run(init)
	require.NoError(t, err)
	require.NotNil(t, forward)
	assert.LessOrEqual(t, len(forward.Steps), 3)
	ok, err := problem.GoalTest(forward.FinalState, goal)
	require.NoError(t, err)
	assert.True(t, ok)

	backward, err := driver.RunBackward(init)
	require.NoError(t, err)
	require.NotNil(t, backward)
	assert.LessOrEqual(t, len(backward.Steps), 3)
}

func TestDriverReturnsNoPlanFoundWhenUnreachable(t *testing.T) {
	init := []planner.Term{planner.NewCompound(planner.NewAtom("clear"), planner.NewAtom("a"))}
	goal := []planner.Term{planner.NewCompound(planner.NewAtom("on"), planner.NewAtom("a"), planner.NewAtom("b"))}

	problem := planner.NewProblem(nil, false, false, false, rand.New(rand.NewSource(1)))
	driver := New(problem, goal, config.SearchConfig{Strategy: "dfs", MaxNodes: 100})

	_, err := driver.Run(init)
	assert.ErrorIs(t, err, planner.ErrNoPlanFound)
}
