// Package search implements a BFS/DFS planning driver over the
// Successors/GoalTest contract exposed by pkg/planner.Problem.
//
// The frontier is an explicit slice used as either a queue or a stack
// depending on the configured strategy, in the same explicit-worklist
// style as gokanlogic's solver.go DFSSearch.Search: no recursion, no
// goroutines, and the whole search state lives in values the driver can
// inspect, checkpoint, or bound by node count.
package search

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/gitrdm/goplan/internal/config"
	"github.com/gitrdm/goplan/pkg/planner"
)

// Plan is a solution: the ordered operator applications from the initial
// state to a state satisfying the goal. RunID identifies one Driver.Run
// invocation for log correlation; it has no bearing on plan semantics.
type Plan struct {
	RunID      uuid.UUID
	Steps      []*planner.Transition
	FinalState []planner.Term
}

// Driver runs forward progression search over a Problem.
type Driver struct {
	Problem  *planner.Problem
	Goal     []planner.Term
	MaxNodes int
	Strategy string // "bfs" or "dfs"
}

// New builds a Driver from a Problem, goal, and the search section of a
// loaded config.
func New(problem *planner.Problem, goal []planner.Term, cfg config.SearchConfig) *Driver {
	strategy := cfg.Strategy
	if strategy == "" {
		strategy = "bfs"
	}
	return &Driver{Problem: problem, Goal: goal, MaxNodes: cfg.MaxNodes, Strategy: strategy}
}

type node struct {
	state []planner.Term
	path  []*planner.Transition
}

// Run searches forward from init for a state satisfying d.Goal, returning
// ErrNoPlanFound if the frontier empties or the node budget is exhausted
// first. A fatal error surfaced from the underlying Problem (an unbound
// computable variable, a failing user callable) aborts the search
// immediately and is returned as-is.
func (d *Driver) Run(init []planner.Term) (*Plan, error) {
	runID := uuid.New()
	visited := map[string]bool{canonicalize(init): true}
	frontier := []*node{{state: init}}

	expanded := 0
	for len(frontier) > 0 {
		var cur *node
		if d.Strategy == "dfs" {
			cur, frontier = frontier[len(frontier)-1], frontier[:len(frontier)-1]
		} else {
			cur, frontier = frontier[0], frontier[1:]
		}

		expanded++
		if d.MaxNodes > 0 && expanded > d.MaxNodes {
			return nil, planner.ErrNoPlanFound
		}

		ok, err := d.Problem.GoalTest(cur.state, d.Goal)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Plan{RunID: runID, Steps: cur.path, FinalState: cur.state}, nil
		}

		for _, t := range d.Problem.Successors(cur.state) {
			key := canonicalize(t.State)
			if visited[key] {
				continue
			}
			visited[key] = true
			path := append(append([]*planner.Transition{}, cur.path...), t)
			frontier = append(frontier, &node{state: t.State, path: path})
		}
		if err := d.Problem.Err(); err != nil {
			return nil, err
		}
	}
	return nil, planner.ErrNoPlanFound
}

// RunBackward searches by regression from d.Goal toward a node already
// satisfied by init, per spec.md §8 S2's requirement that both search
// directions reach a plan over the same problem. It calls
// Problem.SetInitialState(init) itself, since Predecessors' reachability
// pruning depends on it. The frontier holds regressed goal patterns
// rather than world states; a node is terminal once init itself
// satisfies it (GoalTest(init, node)). The accumulated path is recorded
// in regression order (first-regressed last-to-execute) and reversed
// into forward execution order on success.
func (d *Driver) RunBackward(init []planner.Term) (*Plan, error) {
	d.Problem.SetInitialState(init)

	runID := uuid.New()
	visited := map[string]bool{canonicalize(d.Goal): true}
	frontier := []*goalNode{{goal: d.Goal}}

	expanded := 0
	for len(frontier) > 0 {
		var cur *goalNode
		if d.Strategy == "dfs" {
			cur, frontier = frontier[len(frontier)-1], frontier[:len(frontier)-1]
		} else {
			cur, frontier = frontier[0], frontier[1:]
		}

		expanded++
		if d.MaxNodes > 0 && expanded > d.MaxNodes {
			return nil, planner.ErrNoPlanFound
		}

		ok, err := d.Problem.GoalTest(init, cur.goal)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Plan{RunID: runID, Steps: reverseTransitions(cur.path), FinalState: cur.goal}, nil
		}

		for _, t := range d.Problem.Predecessors(cur.goal) {
			key := canonicalize(t.State)
			if visited[key] {
				continue
			}
			visited[key] = true
			path := append(append([]*planner.Transition{}, cur.path...), t)
			frontier = append(frontier, &goalNode{goal: t.State, path: path})
		}
		if err := d.Problem.Err(); err != nil {
			return nil, err
		}
	}
	return nil, planner.ErrNoPlanFound
}

type goalNode struct {
	goal []planner.Term
	path []*planner.Transition
}

func reverseTransitions(ts []*planner.Transition) []*planner.Transition {
	out := make([]*planner.Transition, len(ts))
	for i, t := range ts {
		out[len(out)-1-i] = t
	}
	return out
}

// canonicalize renders a fact set as an order-independent string, for use
// as a visited-set key. It is a search-local convenience, not the
// FactIndex's canonical key encoding: two fact sets that print identically
// but differ only in Atom representation (which should not happen inside
// this package's own term algebra) would collide, a risk accepted for the
// simplicity of a plain string set here.
func canonicalize(facts []planner.Term) string {
	parts := make([]string, len(facts))
	for i, f := range facts {
		parts[i] = f.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}
