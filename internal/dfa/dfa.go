// Package dfa converts an NFA to a deterministic automaton via
// epsilon-closure subset construction with wildcard folding, and
// collapses it to its minimal form via Hopcroft partition refinement.
package dfa

import (
	"sort"
	"strings"

	"github.com/arjvik/restate/internal/ids"
	"github.com/arjvik/restate/internal/nfa"
	"github.com/arjvik/restate/internal/table"
)

// StateID identifies a DFA state: an interned index standing in for the
// set of NFA states it was built from. Comparable, so it serves directly
// as the table.Table key type for the DFA's transition table.
type StateID int

type stateInfo struct {
	nfaStates []ids.State
	accepting bool
}

// Dfa is a deterministic transition table over StateID, plus the start
// state and, per state, the underlying NFA-state set and acceptance.
type Dfa struct {
	table *table.Table[StateID, *table.Slot[StateID]]
	start StateID
	infos map[StateID]stateInfo
}

// Table exposes the transition table for the simulator and DOT emitter.
func (d *Dfa) Table() *table.Table[StateID, *table.Slot[StateID]] { return d.table }

// Start returns the start state.
func (d *Dfa) Start() StateID { return d.start }

// Accepting reports whether s's underlying NFA-state set contains
// the Accepting sentinel.
func (d *Dfa) Accepting(s StateID) bool { return d.infos[s].accepting }

// NfaStates returns the sorted, deduplicated NFA states s was built
// from, for DOT node labels.
func (d *Dfa) NfaStates(s StateID) []ids.State { return d.infos[s].nfaStates }

// States returns every live state, in ascending id order, for
// deterministic iteration by the DOT emitter and tests.
func (d *Dfa) States() []StateID {
	out := make([]StateID, 0, len(d.infos))
	for s := range d.infos {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Build runs epsilon-closure subset construction over n, folding
// wildcard targets into co-occurring literal targets at each state
// before computing successor closures.
func Build(n *nfa.Nfa) *Dfa {
	infos := map[StateID]stateInfo{}
	interned := map[string]StateID{}
	var next StateID

	intern := func(states []ids.State) StateID {
		sorted := canonicalize(states)
		key := setKey(sorted)
		if id, ok := interned[key]; ok {
			return id
		}
		id := next
		next++
		interned[key] = id
		accepting := false
		for _, s := range sorted {
			if s.IsAccepting() {
				accepting = true
				break
			}
		}
		infos[id] = stateInfo{nfaStates: sorted, accepting: accepting}
		return id
	}

	dfaTable := table.New[StateID, *table.Slot[StateID]](table.NewSlot[StateID])

	start := intern(n.EpsilonClosure([]ids.State{ids.StartState}))

	queued := map[StateID]bool{start: true}
	queue := []StateID{start}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		moves := map[table.Label][]ids.State{}
		for _, ns := range infos[s].nfaStates {
			row, ok := n.Table().Row(ns)
			if !ok {
				continue
			}
			for lbl, c := range row {
				if lbl.IsEpsilon() {
					continue
				}
				moves[lbl] = append(moves[lbl], c.Items()...)
			}
		}

		if wildcardTargets, ok := moves[table.Wildcard]; ok {
			for lbl, targets := range moves {
				if lbl == table.Wildcard {
					continue
				}
				moves[lbl] = append(targets, wildcardTargets...)
			}
		}

		for lbl, targets := range moves {
			closure := n.EpsilonClosure(targets)
			target := intern(closure)
			dfaTable.AddTransition(s, lbl, target)
			if !queued[target] {
				queued[target] = true
				queue = append(queue, target)
			}
		}
	}

	return &Dfa{table: dfaTable, start: start, infos: infos}
}

// canonicalize deduplicates states and sorts them by their string
// rendering, which is injective (distinct states always render
// distinctly), giving a stable key for interning.
func canonicalize(states []ids.State) []ids.State {
	seen := make(map[ids.State]bool, len(states))
	uniq := make([]ids.State, 0, len(states))
	for _, s := range states {
		if !seen[s] {
			seen[s] = true
			uniq = append(uniq, s)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i].String() < uniq[j].String() })
	return uniq
}

func setKey(sorted []ids.State) string {
	parts := make([]string, len(sorted))
	for i, s := range sorted {
		parts[i] = s.String()
	}
	return strings.Join(parts, "|")
}
