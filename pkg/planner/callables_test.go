package planner

import "testing"

func TestEvaluateFunctionsArithmetic(t *testing.T) {
	reg := StandardCallables()
	sigma := NewSubstitution().Bind("?x", NewAtom(int64(3)))
	term := NewCompound(reg["add"], NewVar("?x"), NewAtom(int64(4)))

	result, err := EvaluateFunctions(term, sigma)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(NewAtom(int64(7))) {
		t.Fatalf("add(3, 4) = %v; want 7", result)
	}
}

func TestEvaluateFunctionsUnboundVariable(t *testing.T) {
	reg := StandardCallables()
	term := NewCompound(reg["add"], NewVar("?x"), NewAtom(int64(4)))
	if _, err := EvaluateFunctions(term, NewSubstitution()); err == nil {
		t.Fatal("expected an error for an unbound variable in a computable term")
	}
}

func TestEvaluateOrShortCircuitsOnSuccess(t *testing.T) {
	reg := StandardCallables()
	term := NewCompound(NewAtom(reservedOr),
		NewCompound(reg["eq"], NewAtom("a"), NewAtom("a")),
		NewCompound(reg["eq"], NewVar("?never_bound"), NewAtom("x")))

	result, err := EvaluateFunctions(term, NewSubstitution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isTrueTerm(result) {
		t.Fatalf("or(true, error-branch) = %v; want true", result)
	}
}

func TestEvaluateOrFallsThroughOnError(t *testing.T) {
	reg := StandardCallables()
	term := NewCompound(NewAtom(reservedOr),
		NewCompound(reg["eq"], NewVar("?never_bound"), NewAtom("x")),
		NewCompound(reg["eq"], NewAtom("a"), NewAtom("a")))

	result, err := EvaluateFunctions(term, NewSubstitution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isTrueTerm(result) {
		t.Fatalf("or(error-branch, true) = %v; want true", result)
	}
}

func TestEvaluateOrReraisesWhenBothFail(t *testing.T) {
	reg := StandardCallables()
	term := NewCompound(NewAtom(reservedOr),
		NewCompound(reg["eq"], NewVar("?a"), NewAtom("x")),
		NewCompound(reg["eq"], NewVar("?b"), NewAtom("y")))

	if _, err := EvaluateFunctions(term, NewSubstitution()); err == nil {
		t.Fatal("expected an error when both or-branches fail")
	}
}
