package planner

import "testing"

func TestNewOperatorPartitionsConditionsAndEffects(t *testing.T) {
	reg := StandardCallables()
	conditions := []Term{
		NewCompound(NewAtom("on"), NewVar("?x"), NewVar("?y")),
		Negate(NewCompound(NewAtom("clear"), NewVar("?z"))),
		NewCompound(reg["ne"], NewVar("?x"), NewVar("?y")),
	}
	effects := []Term{
		NewCompound(NewAtom("on"), NewVar("?x"), NewAtom("table")),
		Negate(NewCompound(NewAtom("on"), NewVar("?x"), NewVar("?y"))),
	}
	op, err := NewOperator("move", []Term{NewVar("?x"), NewVar("?y")}, conditions, effects, 1)
	if err != nil {
		t.Fatalf("NewOperator returned error: %v", err)
	}
	if len(op.PosCond) != 1 || len(op.NegCond) != 1 || len(op.FunCond) != 1 {
		t.Fatalf("partition = pos %d neg %d fun %d; want 1 1 1", len(op.PosCond), len(op.NegCond), len(op.FunCond))
	}
	if len(op.AddEffects) != 1 || len(op.DelEffects) != 1 {
		t.Fatalf("effects = add %d del %d; want 1 1", len(op.AddEffects), len(op.DelEffects))
	}
	if !op.FreeVars["?z"] {
		t.Fatalf("FreeVars = %v; want ?z (only bound by negation)", op.FreeVars)
	}
}

func TestNewOperatorRejectsUndeterminedComputableVariable(t *testing.T) {
	reg := StandardCallables()
	conditions := []Term{
		NewCompound(reg["ge"], NewVar("?never_determined"), NewAtom(1)),
	}
	_, err := NewOperator("bad", nil, conditions, nil, 1)
	if err == nil {
		t.Fatal("expected an error for a computable condition over an undetermined variable")
	}
}

func TestStandardizeRenamesVariablesApart(t *testing.T) {
	op, err := NewOperator("move", []Term{NewVar("?x")},
		[]Term{NewCompound(NewAtom("clear"), NewVar("?x"))},
		[]Term{NewCompound(NewAtom("moved"), NewVar("?x"))}, 1)
	if err != nil {
		t.Fatal(err)
	}
	a := op.Standardize()
	b := op.Standardize()
	if a.Args[0].Equal(b.Args[0]) {
		t.Fatal("two standardizations of the same operator produced identical variable names")
	}
	if orig, ok := a.ReverseSub[a.Args[0].(*Var).Name]; !ok || orig != "?x" {
		t.Fatalf("ReverseSub = %v; want %q to map back to ?x", a.ReverseSub, a.Args[0])
	}
}
