package planner

import (
	"fmt"
)

// NewCallable registers a named computable predicate. fn receives its
// arguments already evaluated (EvaluateFunctions evaluates arguments
// before invoking the callable, except for the specially-handled "or"
// head).
func NewCallable(name string, fn func(args []Term) (Term, error)) *Callable {
	return &Callable{Name: name, Fn: fn}
}

func (c *Callable) invoke(args []Term) (Term, error) {
	result, err := c.Fn(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUserCallable, c.Name, err)
	}
	return result, nil
}

func requireArity(name string, args []Term, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrBadArity, name, n, len(args))
	}
	return nil
}

func boolAtom(b bool) Term {
	if b {
		return TrueAtom
	}
	return FalseAtom
}

func numericValue(t Term) (float64, bool) {
	a, ok := t.(*Atom)
	if !ok {
		return 0, false
	}
	switch v := a.Value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	default:
		return 0, false
	}
}

func atomFromFloat(f float64) Term {
	if f == float64(int64(f)) {
		return NewAtom(int64(f))
	}
	return NewAtom(f)
}

// StandardCallables returns the small library of computable predicates
// named in spec.md §9: eq, ne, or, add, sub, mul, and the numeric
// comparisons ge, le, gt, lt. "or" is handled specially by
// EvaluateFunctions for its short-circuit/exception-fallthrough
// semantics, but a Callable placeholder is still registered so pattern
// classification recognizes (or, a, b) as computable without special
// casing the registry lookup.
func StandardCallables() map[string]*Callable {
	reg := map[string]*Callable{}

	reg["eq"] = NewCallable("eq", func(args []Term) (Term, error) {
		if err := requireArity("eq", args, 2); err != nil {
			return nil, err
		}
		return boolAtom(args[0].Equal(args[1])), nil
	})

	reg["ne"] = NewCallable("ne", func(args []Term) (Term, error) {
		if err := requireArity("ne", args, 2); err != nil {
			return nil, err
		}
		return boolAtom(!args[0].Equal(args[1])), nil
	})

	reg[reservedOr] = NewCallable(reservedOr, func(args []Term) (Term, error) {
		return nil, fmt.Errorf("or is evaluated specially and should never be invoked directly")
	})

	arith := func(name string, op func(a, b float64) float64) *Callable {
		return NewCallable(name, func(args []Term) (Term, error) {
			if err := requireArity(name, args, 2); err != nil {
				return nil, err
			}
			a, aok := numericValue(args[0])
			b, bok := numericValue(args[1])
			if !aok || !bok {
				return nil, fmt.Errorf("%s requires numeric arguments, got %s and %s", name, args[0], args[1])
			}
			return atomFromFloat(op(a, b)), nil
		})
	}
	reg["add"] = arith("add", func(a, b float64) float64 { return a + b })
	reg["sub"] = arith("sub", func(a, b float64) float64 { return a - b })
	reg["mul"] = arith("mul", func(a, b float64) float64 { return a * b })

	cmp := func(name string, op func(a, b float64) bool) *Callable {
		return NewCallable(name, func(args []Term) (Term, error) {
			if err := requireArity(name, args, 2); err != nil {
				return nil, err
			}
			a, aok := numericValue(args[0])
			b, bok := numericValue(args[1])
			if !aok || !bok {
				return nil, fmt.Errorf("%s requires numeric arguments, got %s and %s", name, args[0], args[1])
			}
			return boolAtom(op(a, b)), nil
		})
	}
	reg["ge"] = cmp("ge", func(a, b float64) bool { return a >= b })
	reg["le"] = cmp("le", func(a, b float64) bool { return a <= b })
	reg["gt"] = cmp("gt", func(a, b float64) bool { return a > b })
	reg["lt"] = cmp("lt", func(a, b float64) bool { return a < b })

	return reg
}

// EvaluateFunctions recursively rewrites x: every variable bound in sigma
// is resolved (and itself recursively evaluated, in case it is bound to a
// further computable term); every compound has EvaluateFunctions applied
// to each element; and if the (evaluated) head of a compound is a
// Callable, the callable is invoked with the evaluated arguments.
//
// The reserved head "or" is evaluated specially: (or, a, b) evaluates a;
// if that succeeds and is not FalseAtom, the result is TrueAtom. If a
// evaluates to FalseAtom, the result is whatever b evaluates to. If
// evaluating a raises an error, b is evaluated: if b succeeds and is not
// FalseAtom the result is TrueAtom; if b also raises, b's error is
// returned; if b succeeds but is FalseAtom, a's original error is
// returned. This mirrors original_source/py_plan/unification.py's
// execute_functions line for line.
func EvaluateFunctions(x Term, sigma *Substitution) (Term, error) {
	switch v := x.(type) {
	case *Var:
		bound, ok := sigma.Lookup(v.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnboundInFunction, v.Name)
		}
		return EvaluateFunctions(bound, sigma)

	case *Compound:
		if len(v.Elements) == 0 {
			return v, nil
		}
		if headAtom, ok := v.Elements[0].(*Atom); ok {
			if s, ok := headAtom.Value.(string); ok && s == reservedOr {
				return evaluateOr(v, sigma)
			}
		}
		if headFn, ok := v.Elements[0].(*Callable); ok && headFn.Name == reservedOr {
			return evaluateOr(v, sigma)
		}

		elems := make([]Term, len(v.Elements))
		for i, e := range v.Elements {
			ev, err := EvaluateFunctions(e, sigma)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		if fn, ok := elems[0].(*Callable); ok {
			return fn.invoke(elems[1:])
		}
		return &Compound{Elements: elems}, nil

	default:
		return x, nil
	}
}

func evaluateOr(c *Compound, sigma *Substitution) (Term, error) {
	if err := requireArity(reservedOr, c.Elements[1:], 2); err != nil {
		return nil, err
	}
	aVal, aErr := EvaluateFunctions(c.Elements[1], sigma)
	if aErr == nil {
		if !isFalseTerm(aVal) {
			return TrueAtom, nil
		}
		return EvaluateFunctions(c.Elements[2], sigma)
	}

	bVal, bErr := EvaluateFunctions(c.Elements[2], sigma)
	if bErr != nil {
		return nil, bErr
	}
	if !isFalseTerm(bVal) {
		return TrueAtom, nil
	}
	return nil, aErr
}
