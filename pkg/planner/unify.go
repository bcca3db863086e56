package planner

// Unify performs structural first-order unification of x and y under
// sigma, returning an extended substitution, or (nil, false) on failure.
// check enables the occur check; the default throughout this package is
// check=false, matching spec.md §1's stated non-goal of soundness
// guarantees in its presence (this matches the original py_plan behavior,
// which also turns the occur check off by default).
//
// Rules, tried in order, per spec.md §4.2:
//  1. x and y are walked to their current values.
//  2. If they are structurally equal, sigma is returned unchanged.
//  3. If x is a variable, unifyVar(x, y, ...).
//  4. If y is a variable, unifyVar(y, x, ...).
//  5. If both are compounds of equal arity, unify heads and arguments
//     pairwise, left to right, threading sigma.
//  6. Otherwise, failure.
//
// Computable-headed terms (FunTerm) are never passed to Unify by the
// pattern matcher: their semantics is to be evaluated via
// EvaluateFunctions, not matched structurally. Unify itself performs no
// special-casing for callables; this is a contract the matcher upholds.
func Unify(x, y Term, sigma *Substitution, check bool) (*Substitution, bool) {
	if sigma == nil {
		return nil, false
	}

	xw := walk(sigma, x)
	yw := walk(sigma, y)

	if xw.Equal(yw) {
		return sigma, true
	}
	if v, ok := xw.(*Var); ok {
		return unifyVar(v, yw, sigma, check)
	}
	if v, ok := yw.(*Var); ok {
		return unifyVar(v, xw, sigma, check)
	}

	cx, xIsCompound := xw.(*Compound)
	cy, yIsCompound := yw.(*Compound)
	if xIsCompound && yIsCompound && len(cx.Elements) == len(cy.Elements) {
		cur := sigma
		for i := range cx.Elements {
			var ok bool
			cur, ok = Unify(cx.Elements[i], cy.Elements[i], cur, check)
			if !ok {
				return nil, false
			}
		}
		return cur, true
	}

	return nil, false
}

// unifyVar unifies variable v with term x under sigma.
func unifyVar(v *Var, x Term, sigma *Substitution, check bool) (*Substitution, bool) {
	if bound, ok := sigma.Lookup(v.Name); ok {
		return Unify(bound, x, sigma, check)
	}
	if xv, ok := x.(*Var); ok {
		if bound, ok := sigma.Lookup(xv.Name); ok {
			return Unify(v, bound, sigma, check)
		}
	}
	if check && occurs(v, x, sigma) {
		return nil, false
	}
	return sigma.Bind(v.Name, x), true
}

// occurs reports whether v appears anywhere within x, after dereferencing
// bound variables in sigma. Used only when check=true.
func occurs(v *Var, x Term, sigma *Substitution) bool {
	xw := walk(sigma, x)
	if vv, ok := xw.(*Var); ok {
		return vv.Name == v.Name
	}
	if c, ok := xw.(*Compound); ok {
		for _, e := range c.Elements {
			if occurs(v, e, sigma) {
				return true
			}
		}
	}
	return false
}
