package nfa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjvik/restate/internal/ids"
	"github.com/arjvik/restate/internal/nfa"
	"github.com/arjvik/restate/internal/table"
)

func TestAtomHasSingleTransition(t *testing.T) {
	n := nfa.Atom(table.Literal('a'))
	row, ok := n.Table().Row(ids.StartState)
	require.True(t, ok)
	assert.Equal(t, []ids.State{ids.AcceptingState}, row[table.Literal('a')].Items())
}

func TestQuestionAddsEpsilonSkip(t *testing.T) {
	n := nfa.Atom(table.Literal('a'))
	n.Question()

	row, ok := n.Table().Row(ids.StartState)
	require.True(t, ok)
	assert.Contains(t, row[table.Epsilon].Items(), ids.AcceptingState)
}

func TestStarRenamesSentinelsAway(t *testing.T) {
	n := nfa.Atom(table.Literal('a'))
	n.Star()

	row, ok := n.Table().Row(ids.StartState)
	require.True(t, ok)
	// Start keeps only epsilon moves after Star: skip (to Accepting) and
	// enter (to the fresh loop-entry state); the literal 'a' edge now
	// lives on the fresh entry state, not Start.
	_, hasLiteral := row[table.Literal('a')]
	assert.False(t, hasLiteral)
	assert.Contains(t, row[table.Epsilon].Items(), ids.AcceptingState)
}

func TestConcatEmptyIdentity(t *testing.T) {
	empty := nfa.Empty()
	a := nfa.Atom(table.Literal('a'))
	empty.Concat(a)
	assert.False(t, empty.IsEmpty())

	row, ok := empty.Table().Row(ids.StartState)
	require.True(t, ok)
	assert.Equal(t, []ids.State{ids.AcceptingState}, row[table.Literal('a')].Items())
}

func TestConcatJoinsThroughFreshState(t *testing.T) {
	a := nfa.Atom(table.Literal('a'))
	b := nfa.Atom(table.Literal('b'))
	a.Concat(b)

	startRow, ok := a.Table().Row(ids.StartState)
	require.True(t, ok)
	mid := startRow[table.Literal('a')].Items()[0]
	assert.True(t, mid.IsFresh())

	midRow, ok := a.Table().Row(mid)
	require.True(t, ok)
	assert.Equal(t, []ids.State{ids.AcceptingState}, midRow[table.Literal('b')].Items())
}

func TestUnionSharesSentinels(t *testing.T) {
	a := nfa.Atom(table.Literal('a'))
	b := nfa.Atom(table.Literal('b'))
	a.Union(b)

	row, ok := a.Table().Row(ids.StartState)
	require.True(t, ok)
	assert.Contains(t, row, table.Literal('a'))
	assert.Contains(t, row, table.Literal('b'))
	assert.Equal(t, []ids.State{ids.AcceptingState}, row[table.Literal('a')].Items())
	assert.Equal(t, []ids.State{ids.AcceptingState}, row[table.Literal('b')].Items())
}

func TestCloneRegeneratesFreshStates(t *testing.T) {
	a := nfa.Atom(table.Literal('a'))
	a.Star() // introduces fresh states s0, f0

	clone := a.Clone()

	var originalFresh, cloneFresh []ids.State
	for from := range a.Table().Rows() {
		if from.IsFresh() {
			originalFresh = append(originalFresh, from)
		}
	}
	for from := range clone.Table().Rows() {
		if from.IsFresh() {
			cloneFresh = append(cloneFresh, from)
		}
	}

	require.NotEmpty(t, originalFresh)
	require.Equal(t, len(originalFresh), len(cloneFresh))
	for _, of := range originalFresh {
		for _, cf := range cloneFresh {
			assert.NotEqual(t, of, cf, "clone must mint new fresh ids, not reuse the original's")
		}
	}
}

func TestEpsilonClosureIsIdempotent(t *testing.T) {
	n := nfa.Atom(table.Literal('a'))
	n.Star()

	first := n.EpsilonClosure([]ids.State{ids.StartState})
	second := n.EpsilonClosure(first)

	assert.ElementsMatch(t, first, second)
}

func TestRangeProducesBoundedRepetition(t *testing.T) {
	// a{2,3} should accept via at least one internal fresh concat point;
	// we only assert it doesn't panic and produces a non-empty table,
	// full acceptance behavior is covered at the restate package level.
	n := nfa.Atom(table.Literal('a'))
	n.Range(2, 3)
	assert.NotEmpty(t, n.Table().Rows())
}

func TestOpenRangeZeroIsStar(t *testing.T) {
	n := nfa.Atom(table.Literal('a'))
	n.OpenRange(0)

	row, ok := n.Table().Row(ids.StartState)
	require.True(t, ok)
	assert.Contains(t, row[table.Epsilon].Items(), ids.AcceptingState)
}
