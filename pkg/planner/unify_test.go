package planner

import "testing"

func TestUnifyConstants(t *testing.T) {
	sigma, ok := Unify(NewAtom("a"), NewAtom("a"), NewSubstitution(), false)
	if !ok || sigma.Size() != 0 {
		t.Fatalf("Unify(a, a) = %v, %v; want empty substitution, true", sigma, ok)
	}

	if _, ok := Unify(NewAtom("a"), NewAtom("b"), NewSubstitution(), false); ok {
		t.Fatal("Unify(a, b) succeeded; want failure")
	}
}

func TestUnifyVarBinds(t *testing.T) {
	sigma, ok := Unify(NewVar("?x"), NewAtom("a"), NewSubstitution(), false)
	if !ok {
		t.Fatal("Unify(?x, a) failed")
	}
	bound, ok := sigma.Lookup("?x")
	if !ok || !bound.Equal(NewAtom("a")) {
		t.Fatalf("?x bound to %v; want a", bound)
	}
}

func TestUnifyCompound(t *testing.T) {
	x := NewCompound(NewAtom("on"), NewVar("?x"), NewAtom("table"))
	y := NewCompound(NewAtom("on"), NewAtom("a"), NewAtom("table"))
	sigma, ok := Unify(x, y, NewSubstitution(), false)
	if !ok {
		t.Fatal("Unify(on(?x, table), on(a, table)) failed")
	}
	bound, _ := sigma.Lookup("?x")
	if !bound.Equal(NewAtom("a")) {
		t.Fatalf("?x bound to %v; want a", bound)
	}
}

func TestUnifyArityMismatch(t *testing.T) {
	x := NewCompound(NewAtom("on"), NewAtom("a"))
	y := NewCompound(NewAtom("on"), NewAtom("a"), NewAtom("b"))
	if _, ok := Unify(x, y, NewSubstitution(), false); ok {
		t.Fatal("Unify succeeded across mismatched arity")
	}
}

func TestUnifyVarChain(t *testing.T) {
	x := NewCompound(NewAtom("eq"), NewVar("?x"), NewVar("?y"))
	y := NewCompound(NewAtom("eq"), NewVar("?y"), NewAtom("a"))
	sigma, ok := Unify(x, y, NewSubstitution(), false)
	if !ok {
		t.Fatal("Unify with shared variable chain failed")
	}
	xb := Substitute(sigma, NewVar("?x"))
	if xb.IsVar() {
		xb = Substitute(sigma, xb)
	}
	if !xb.Equal(NewAtom("a")) {
		t.Fatalf("?x resolves to %v; want a", xb)
	}
}

func TestOccurCheck(t *testing.T) {
	x := NewVar("?x")
	y := NewCompound(NewAtom("f"), NewVar("?x"))
	if _, ok := Unify(x, y, NewSubstitution(), true); ok {
		t.Fatal("occur check should have rejected ?x = f(?x)")
	}
	if _, ok := Unify(x, y, NewSubstitution(), false); !ok {
		t.Fatal("without occur check, ?x = f(?x) should bind")
	}
}
