package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/goplan/pkg/planner"
)

const sampleSource = `
fact on(a, table).
fact on(b, table).
fact clear(a).
fact clear(b).

operator move(?b, ?from, ?to) {
  requires on(?b, ?from), clear(?b), clear(?to), not on(?b, ?to)
  cost 1
  add on(?b, ?to)
  add clear(?from)
  del on(?b, ?from)
  del clear(?to)
}

problem stack_a_on_b {
  init on(a, table), on(b, table), clear(a), clear(b)
  goal on(a, b)
}
`

func TestParseAndConvertSample(t *testing.T) {
	doc, err := ParseString("sample.goplan", sampleSource)
	require.NoError(t, err)
	require.Len(t, doc.Items, 6)

	prog, err := Convert(doc, planner.StandardCallables())
	require.NoError(t, err)

	assert.Len(t, prog.Facts, 4)
	require.Len(t, prog.Operators, 1)

	op := prog.Operators[0]
	assert.Equal(t, "move", op.Name)
	assert.Len(t, op.PosCond, 3)
	assert.Len(t, op.NegCond, 1)
	assert.Len(t, op.AddEffects, 2)
	assert.Len(t, op.DelEffects, 2)
	assert.Equal(t, 1.0, op.Cost)

	require.Contains(t, prog.Problems, "stack_a_on_b")
	problem := prog.Problems["stack_a_on_b"]
	assert.Len(t, problem.Init, 4)
	assert.Len(t, problem.Goal, 1)
}

func TestConvertRecognizesComputablePredicates(t *testing.T) {
	doc, err := ParseString("computable.goplan", `
fact balance(acct1, 10).
operator withdraw(?a, ?bal) {
  requires balance(?a, ?bal), ge(?bal, 5)
  add withdrawn(?a)
}
`)
	require.NoError(t, err)

	prog, err := Convert(doc, planner.StandardCallables())
	require.NoError(t, err)

	op := prog.Operators[0]
	require.Len(t, op.FunCond, 1)
	_, _, ok := planner.IsComputable(op.FunCond[0])
	assert.True(t, ok, "ge(...) precondition should be classified as computable")
}

func TestParseErrorReportsPosition(t *testing.T) {
	_, err := ParseString("bad.goplan", "fact on(a, b)\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.goplan:")
}
