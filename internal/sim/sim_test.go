package sim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjvik/restate/internal/dfa"
	"github.com/arjvik/restate/internal/lexer"
	"github.com/arjvik/restate/internal/parser"
	"github.com/arjvik/restate/internal/sim"
)

func compile(t *testing.T, pattern string) *dfa.Dfa {
	t.Helper()
	elems, err := lexer.Lex(pattern)
	require.NoError(t, err)
	n, err := parser.Parse(elems)
	require.NoError(t, err)
	return dfa.Minimize(dfa.Build(n))
}

func TestRunSuccessOnExactMatch(t *testing.T) {
	d := compile(t, "abc")
	got := sim.Run(d, []rune("abc"))
	assert.Equal(t, sim.Success, got.Kind)
}

func TestRunNoMatchReportsOffendingChar(t *testing.T) {
	d := compile(t, "abc")
	got := sim.Run(d, []rune("axc"))
	assert.Equal(t, sim.NoMatch, got.Kind)
	assert.Equal(t, 'x', got.Ch)
}

func TestRunEndOfStringOnShortInput(t *testing.T) {
	d := compile(t, "abc")
	got := sim.Run(d, []rune("ab"))
	assert.Equal(t, sim.EndOfString, got.Kind)
}

func TestRunPrematureOnTrailingInput(t *testing.T) {
	d := compile(t, "a*|b")
	got := sim.Run(d, []rune("bb"))
	assert.Equal(t, sim.Premature, got.Kind)
}

func TestRunKeepsConsumingThroughAnAcceptingState(t *testing.T) {
	// A state that is both accepting and still able to consume more
	// input (every quantified construction produces these) must keep
	// consuming as long as an edge matches; it should not stop the walk
	// the instant it becomes accepting.
	d := compile(t, "a*|b")
	assert.Equal(t, sim.Success, sim.Run(d, []rune("aaa")).Kind)
	assert.Equal(t, sim.Success, sim.Run(d, []rune("")).Kind)
	assert.Equal(t, sim.Success, sim.Run(d, []rune("b")).Kind)

	rng := compile(t, "a{3,5}")
	assert.Equal(t, sim.Success, sim.Run(rng, []rune("aaa")).Kind)
	assert.Equal(t, sim.Success, sim.Run(rng, []rune("aaaaa")).Kind)
	assert.Equal(t, sim.Premature, sim.Run(rng, []rune("aaaaaa")).Kind)

	plus := compile(t, "(abc)+")
	assert.Equal(t, sim.Success, sim.Run(plus, []rune("abcabc")).Kind)
}

func TestResultStringRendering(t *testing.T) {
	assert.Equal(t, "Success", sim.Result{Kind: sim.Success}.String())
	assert.Equal(t, `NoMatch('x')`, sim.Result{Kind: sim.NoMatch, Ch: 'x'}.String())
	assert.True(t, sim.Result{Kind: sim.Success}.Ok())
	assert.False(t, sim.Result{Kind: sim.Premature}.Ok())
}
