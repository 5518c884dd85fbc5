// Package table implements the generic transition-table abstraction
// shared by the NFA builder and the DFA: a mapping from a source state to
// a mapping from a transition label to a container of target states, with
// two primitive operations, AddTransition and Rename.
package table

// Container is a target-state container: a multiset for NFA rows (where
// nondeterminism means several targets share a (state, label) pair), or a
// single-slot container for DFA rows (where determinism limits a row to
// one target). Items must return every contained state in some stable
// order; Rename relies on it to rebuild containers after substitution.
type Container[S comparable] interface {
	Insert(S)
	Items() []S
}

// Bag is a multiset container: duplicates are retained (they are
// semantically equivalent to a set, per the NFA's nondeterminism) but
// never deduplicated, matching the Rust original's Vec<State> rows.
type Bag[S comparable] struct {
	items []S
}

// NewBag constructs an empty Bag. Its signature matches the
// newContainer factory New expects.
func NewBag[S comparable]() *Bag[S] { return &Bag[S]{} }

func (b *Bag[S]) Insert(s S) { b.items = append(b.items, s) }
func (b *Bag[S]) Items() []S { return b.items }

// Slot is a single-target container: a DFA row has at most one target per
// (state, label). A second Insert overwrites the first. During Hopcroft
// collapse the values written to one slot are members of the same
// partition class, which the collapse renames to a single representative.
type Slot[S comparable] struct {
	val S
	set bool
}

// NewSlot constructs an empty Slot.
func NewSlot[S comparable]() *Slot[S] { return &Slot[S]{} }

func (s *Slot[S]) Insert(v S) { s.val, s.set = v, true }
func (s *Slot[S]) Items() []S {
	if !s.set {
		return nil
	}
	return []S{s.val}
}

// Get returns the single target and whether the slot holds one.
func (s *Slot[S]) Get() (S, bool) { return s.val, s.set }

// Table is a transition table keyed by state type S with target
// container type C.
type Table[S comparable, C Container[S]] struct {
	rows         map[S]map[Label]C
	newContainer func() C
}

// New constructs an empty Table. newContainer must return a fresh, empty
// container each call (e.g. table.NewBag[S] or table.NewSlot[S]).
func New[S comparable, C Container[S]](newContainer func() C) *Table[S, C] {
	return &Table[S, C]{rows: make(map[S]map[Label]C), newContainer: newContainer}
}

// Rows exposes the underlying map for iteration by callers that need to
// walk every (state, label, targets) triple, such as the DOT emitter and
// subset construction.
func (t *Table[S, C]) Rows() map[S]map[Label]C { return t.rows }

// Row returns the outgoing transitions of s, if any.
func (t *Table[S, C]) Row(s S) (map[Label]C, bool) {
	row, ok := t.rows[s]
	return row, ok
}

// AddTransition ensures a row exists for s, ensures a slot exists for
// label lbl, and inserts e into the target container.
func (t *Table[S, C]) AddTransition(s S, lbl Label, e S) {
	row, ok := t.rows[s]
	if !ok {
		row = make(map[Label]C)
		t.rows[s] = row
	}
	c, ok := row[lbl]
	if !ok {
		c = t.newContainer()
		row[lbl] = c
	}
	c.Insert(e)
}

// Rename re-keys the row at old to new, merging with any pre-existing row
// at new by per-label union, and replaces every occurrence of old in any
// target position with new. It is a no-op if old has no row and appears
// in no target position.
func (t *Table[S, C]) Rename(old, new S) {
	if old == new {
		return
	}

	if oldRow, ok := t.rows[old]; ok {
		delete(t.rows, old)

		if newRow, exists := t.rows[new]; exists {
			for lbl, c := range oldRow {
				if nc, has := newRow[lbl]; has {
					for _, item := range c.Items() {
						nc.Insert(item)
					}
				} else {
					newRow[lbl] = c
				}
			}
		} else {
			t.rows[new] = oldRow
		}
	}

	for _, row := range t.rows {
		for lbl, c := range row {
			items := c.Items()
			changed := false
			for _, item := range items {
				if item == old {
					changed = true
					break
				}
			}
			if !changed {
				continue
			}

			replaced := t.newContainer()
			for _, item := range items {
				if item == old {
					item = new
				}
				replaced.Insert(item)
			}
			row[lbl] = replaced
		}
	}
}

// Merge folds every transition of other into t via AddTransition. Used by
// NFA union, where both automata already share Start/Accepting as
// rendezvous points.
func (t *Table[S, C]) Merge(other *Table[S, C]) {
	for s, row := range other.rows {
		for lbl, c := range row {
			for _, item := range c.Items() {
				t.AddTransition(s, lbl, item)
			}
		}
	}
}

// Clone produces a deep copy with independent rows and containers.
func (t *Table[S, C]) Clone() *Table[S, C] {
	clone := New[S, C](t.newContainer)
	clone.Merge(t)
	return clone
}
