// Package nfa builds Thompson-style nondeterministic finite automata from
// single transitions, quantifier modifiers, and concatenation/union
// composition, using two fixed sentinel states (Start, Accepting) and
// fresh intermediate states minted as fragments are composed.
package nfa

import (
	"github.com/arjvik/restate/internal/ids"
	"github.com/arjvik/restate/internal/table"
)

// Set is the NFA's target container: a multiset, since nondeterminism
// allows several targets per (state, label).
type Set = table.Bag[ids.State]

// Nfa is an ordered transition table plus an empty flag. An empty NFA
// concatenated with any NFA N becomes N; it exists only to seed
// composition (the parser driver's "current" fragment before the first
// atom is parsed).
type Nfa struct {
	table *table.Table[ids.State, *Set]
	empty bool
	ids   ids.Counter
}

// Empty returns the identity NFA for concatenation.
func Empty() *Nfa {
	return &Nfa{table: table.New[ids.State, *Set](table.NewBag[ids.State]), empty: true}
}

// Atom returns an NFA whose table is {Start -> {lbl -> [Accepting]}}.
func Atom(lbl table.Label) *Nfa {
	n := &Nfa{table: table.New[ids.State, *Set](table.NewBag[ids.State])}
	n.table.AddTransition(ids.StartState, lbl, ids.AcceptingState)
	return n
}

// IsEmpty reports whether n is the concatenation identity.
func (n *Nfa) IsEmpty() bool { return n.empty }

// Table exposes the underlying transition table for the subset
// constructor and the DOT emitter.
func (n *Nfa) Table() *table.Table[ids.State, *Set] { return n.table }

// Question applies the zero-or-one modifier: add an epsilon transition
// Start -> Accepting.
func (n *Nfa) Question() {
	n.table.AddTransition(ids.StartState, table.Epsilon, ids.AcceptingState)
}

// Star applies the zero-or-more modifier. Fresh ids s0, f0 are allocated;
// Start is renamed to s0 and Accepting to f0, then epsilons Start->
// Accepting (skip), f0->s0 (repeat), Start->s0 (enter) and f0->Accepting
// (exit) are added. The double renaming means later composition through
// the outer Start/Accepting sentinels cannot short-circuit the loop.
func (n *Nfa) Star() {
	s0 := n.ids.New()
	f0 := n.ids.New()
	n.table.Rename(ids.StartState, s0)
	n.table.Rename(ids.AcceptingState, f0)
	n.table.AddTransition(ids.StartState, table.Epsilon, ids.AcceptingState)
	n.table.AddTransition(f0, table.Epsilon, s0)
	n.table.AddTransition(ids.StartState, table.Epsilon, s0)
	n.table.AddTransition(f0, table.Epsilon, ids.AcceptingState)
}

// Plus applies the one-or-more modifier: clone n, star the clone,
// concatenate n with the clone, producing NN*.
func (n *Nfa) Plus() {
	tail := n.Clone()
	tail.Star()
	n.Concat(tail)
}

// Range applies the finite-repetition modifier {lo,hi}: concatenate n
// with hi-1 clones of the original n; clones whose 1-based index i
// satisfies i >= lo are wrapped with Question before concatenation, and
// when lo is 0 the first copy (n itself) is wrapped with Question too.
// The construction assumes hi >= 1 and lo <= hi; {0} is handled by the
// caller as a special case (see Parser driver).
func (n *Nfa) Range(lo, hi uint64) {
	template := n.Clone()
	if lo == 0 {
		n.Question()
	}
	for i := uint64(1); i < hi; i++ {
		clone := template.Clone()
		if i >= lo {
			clone.Question()
		}
		n.Concat(clone)
	}
}

// OpenRange applies the {lo,} modifier: concatenate lo copies, then one
// further copy wrapped with Star.
func (n *Nfa) OpenRange(lo uint64) {
	if lo == 0 {
		n.Star()
		return
	}

	template := n.Clone()
	for i := uint64(1); i < lo; i++ {
		n.Concat(template.Clone())
	}

	tail := template.Clone()
	tail.Star()
	n.Concat(tail)
}

// Concat concatenates other onto n in place (n := n·other).
//
// If n is empty, n becomes other. Otherwise a fresh id m is allocated;
// n's Accepting is renamed to m, a private copy of other has its Start
// renamed to m, and that copy's rows are merged into n's table. Because
// states carry fresh unique ids (except the now-common m), no collisions
// arise.
func (n *Nfa) Concat(other *Nfa) {
	if n.empty {
		*n = *other.Clone()
		return
	}
	if other.empty {
		return
	}

	m := n.ids.New()
	n.table.Rename(ids.AcceptingState, m)

	otherCopy := other.Clone()
	otherCopy.table.Rename(ids.StartState, m)

	n.table.Merge(otherCopy.table)
}

// Union folds every transition of other into n via AddTransition. Both
// NFAs share the Start and Accepting sentinels as rendezvous points:
// paths through either branch both begin at Start and end at Accepting.
// Because fresh ids are globally unique, no internal state collides.
func (n *Nfa) Union(other *Nfa) {
	if n.empty {
		*n = *other.Clone()
		return
	}
	if other.empty {
		return
	}

	n.table.Merge(other.table)
}

// Clone produces a structurally independent copy of n. Unlike a bitwise
// duplicate, every Fresh state in n is re-minted with a new globally
// unique id; Start and Accepting sentinel tags are preserved as-is. This
// keeps fresh ids globally unique after every clone, which in turn is
// what makes backreference expansion (a structural clone of a prior
// group's NFA) and the repeated clones inside Plus/Range/OpenRange
// produce genuinely independent, simultaneously traversable copies
// rather than aliased subgraphs.
func (n *Nfa) Clone() *Nfa {
	clone := &Nfa{table: table.New[ids.State, *Set](table.NewBag[ids.State]), empty: n.empty}
	if n.empty {
		return clone
	}

	remap := map[ids.State]ids.State{}
	fresh := func(s ids.State) ids.State {
		if !s.IsFresh() {
			return s
		}
		if r, ok := remap[s]; ok {
			return r
		}
		r := clone.ids.New()
		remap[s] = r
		return r
	}

	for from, row := range n.table.Rows() {
		nf := fresh(from)
		for lbl, c := range row {
			for _, to := range c.Items() {
				clone.table.AddTransition(nf, lbl, fresh(to))
			}
		}
	}

	return clone
}

// EpsilonClosure computes the least set containing states and closed
// under Epsilon transitions, using an explicit work-stack. It terminates
// because each state is expanded at most once.
func (n *Nfa) EpsilonClosure(states []ids.State) []ids.State {
	seen := make(map[ids.State]bool, len(states))
	var closure []ids.State
	stack := append([]ids.State(nil), states...)

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if seen[s] {
			continue
		}
		seen[s] = true
		closure = append(closure, s)

		row, ok := n.table.Row(s)
		if !ok {
			continue
		}
		if epsTargets, ok := row[table.Epsilon]; ok {
			for _, t := range epsTargets.Items() {
				if !seen[t] {
					stack = append(stack, t)
				}
			}
		}
	}

	return closure
}
