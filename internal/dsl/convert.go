package dsl

import (
	"fmt"
	"strconv"

	"github.com/gitrdm/goplan/pkg/planner"
)

// ProblemSpec is one named problem block, translated into planner terms.
type ProblemSpec struct {
	Name string
	Init []planner.Term
	Goal []planner.Term
}

// Program is a fully translated document: loose facts, operator schemas,
// and named problems, ready to drive a planner.Problem.
type Program struct {
	Facts     []planner.Term
	Operators []*planner.Operator
	Problems  map[string]*ProblemSpec
}

// Convert translates a parsed Document into planner terms and operators,
// resolving any term whose head names a registered computable predicate
// (per callables) to a planner.Callable-headed compound instead of a
// plain symbol.
func Convert(doc *Document, callables map[string]*planner.Callable) (*Program, error) {
	prog := &Program{Problems: map[string]*ProblemSpec{}}

	for _, item := range doc.Items {
		switch {
		case item.Fact != nil:
			prog.Facts = append(prog.Facts, toTerm(item.Fact.Term, callables))

		case item.Operator != nil:
			op, err := convertOperator(item.Operator, callables)
			if err != nil {
				return nil, err
			}
			prog.Operators = append(prog.Operators, op)

		case item.Problem != nil:
			spec, err := convertProblem(item.Problem, callables)
			if err != nil {
				return nil, err
			}
			if _, dup := prog.Problems[spec.Name]; dup {
				return nil, fmt.Errorf("dsl: duplicate problem %q", spec.Name)
			}
			prog.Problems[spec.Name] = spec
		}
	}
	return prog, nil
}

func convertOperator(decl *OperatorDecl, callables map[string]*planner.Callable) (*planner.Operator, error) {
	params := make([]planner.Term, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = planner.NewVar(p)
	}

	conditions := make([]planner.Term, 0, len(decl.Requires))
	for _, lit := range decl.Requires {
		conditions = append(conditions, toLiteral(lit, callables))
	}

	effects := make([]planner.Term, 0, len(decl.Effects))
	for _, e := range decl.Effects {
		t := toTerm(e.Term, callables)
		if e.Del {
			t = planner.Negate(t)
		}
		effects = append(effects, t)
	}

	cost := 1.0
	if decl.Cost != nil {
		cost = *decl.Cost
	}

	return planner.NewOperator(decl.Name, params, conditions, effects, cost)
}

func convertProblem(decl *ProblemDecl, callables map[string]*planner.Callable) (*ProblemSpec, error) {
	init := make([]planner.Term, len(decl.Init))
	for i, t := range decl.Init {
		init[i] = toTerm(t, callables)
	}
	goal := make([]planner.Term, len(decl.Goal))
	for i, lit := range decl.Goal {
		goal[i] = toLiteral(lit, callables)
	}
	return &ProblemSpec{Name: decl.Name, Init: init, Goal: goal}, nil
}

func toLiteral(lit *Literal, callables map[string]*planner.Callable) planner.Term {
	t := toTerm(lit.Term, callables)
	if lit.Negated {
		return planner.Negate(t)
	}
	return t
}

func toTerm(t *Term, callables map[string]*planner.Callable) planner.Term {
	switch {
	case t.Var != nil:
		return planner.NewVar(*t.Var)
	case t.Number != nil:
		if f := *t.Number; f == float64(int64(f)) {
			return planner.NewAtom(int64(f))
		}
		return planner.NewAtom(*t.Number)
	case t.Str != nil:
		unquoted, err := strconv.Unquote(*t.Str)
		if err != nil {
			unquoted = *t.Str
		}
		return planner.NewAtom(unquoted)
	default:
		name := *t.Head
		args := make([]planner.Term, len(t.Args))
		for i, a := range t.Args {
			args[i] = toTerm(a, callables)
		}
		if len(args) == 0 {
			return planner.NewAtom(name)
		}
		head := planner.Term(planner.NewAtom(name))
		if fn, ok := callables[name]; ok {
			head = fn
		}
		return planner.NewCompound(append([]planner.Term{head}, args...)...)
	}
}
