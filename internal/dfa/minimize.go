package dfa

import (
	"github.com/arjvik/restate/internal/ids"
	"github.com/arjvik/restate/internal/table"
)

// block is a partition class: an identity, not a value. Two blocks with
// the same member set are still distinct if they are different *block
// objects, which is what lets the worklist and partition track "this
// exact class" through splits.
type block struct {
	members map[StateID]bool
}

func newBlock() *block { return &block{members: map[StateID]bool{}} }

// Minimize collapses d to its Hopcroft-minimal form: equivalent states
// are merged via the transition table's Rename primitive, and the
// result is returned as a new Dfa sharing no mutable state with d.
func Minimize(d *Dfa) *Dfa {
	states := d.States()

	accepting, nonAccepting := newBlock(), newBlock()
	for _, s := range states {
		if d.Accepting(s) {
			accepting.members[s] = true
		} else {
			nonAccepting.members[s] = true
		}
	}

	var partition []*block
	if len(accepting.members) > 0 {
		partition = append(partition, accepting)
	}
	if len(nonAccepting.members) > 0 {
		partition = append(partition, nonAccepting)
	}

	inWorklist := map[*block]bool{}
	worklist := append([]*block(nil), partition...)
	for _, b := range worklist {
		inWorklist[b] = true
	}

	labels := collectLabels(d)
	preimage := buildPreimage(d, states, labels)

	for len(worklist) > 0 {
		s := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		inWorklist[s] = false

		for _, a := range labels {
			ia := map[StateID]bool{}
			for member := range s.members {
				for _, src := range preimage[a][member] {
					ia[src] = true
				}
			}
			if len(ia) == 0 {
				continue
			}

			for _, r := range append([]*block(nil), partition...) {
				var inCount, outCount int
				for member := range r.members {
					if ia[member] {
						inCount++
					} else {
						outCount++
					}
				}
				if inCount == 0 || outCount == 0 {
					continue
				}

				r1, r2 := newBlock(), newBlock()
				for member := range r.members {
					if ia[member] {
						r1.members[member] = true
					} else {
						r2.members[member] = true
					}
				}

				partition = replaceBlock(partition, r, r1, r2)

				if inWorklist[r] {
					worklist = replaceBlock(worklist, r, r1, r2)
					delete(inWorklist, r)
					inWorklist[r1], inWorklist[r2] = true, true
				} else if len(r1.members) <= len(r2.members) {
					worklist = append(worklist, r1)
					inWorklist[r1] = true
				} else {
					worklist = append(worklist, r2)
					inWorklist[r2] = true
				}
			}
		}
	}

	return collapse(d, partition)
}

func replaceBlock(list []*block, old, a, b *block) []*block {
	out := make([]*block, 0, len(list)+1)
	for _, x := range list {
		if x == old {
			out = append(out, a, b)
		} else {
			out = append(out, x)
		}
	}
	return out
}

// collectLabels gathers every distinct label appearing in d's
// transition table, including epsilon if present.
func collectLabels(d *Dfa) []table.Label {
	seen := map[table.Label]bool{}
	var out []table.Label
	for _, row := range d.table.Rows() {
		for lbl := range row {
			if !seen[lbl] {
				seen[lbl] = true
				out = append(out, lbl)
			}
		}
	}
	return out
}

// buildPreimage computes δ⁻¹(target, label) -> sources once, up front,
// so the refinement loop only does map lookups.
func buildPreimage(d *Dfa, states []StateID, labels []table.Label) map[table.Label]map[StateID][]StateID {
	preimage := make(map[table.Label]map[StateID][]StateID, len(labels))
	for _, a := range labels {
		preimage[a] = map[StateID][]StateID{}
	}

	for _, s := range states {
		row, ok := d.table.Row(s)
		if !ok {
			continue
		}
		for lbl, slot := range row {
			target, has := slot.Get()
			if !has {
				continue
			}
			preimage[lbl][target] = append(preimage[lbl][target], s)
		}
	}
	return preimage
}

// collapse builds the minimized Dfa by picking one representative per
// partition class and renaming every other member onto it via the
// transition table's Rename primitive.
func collapse(d *Dfa, partition []*block) *Dfa {
	newTable := d.table.Clone()
	newInfos := map[StateID]stateInfo{}
	repOf := map[StateID]StateID{}

	for _, b := range partition {
		if len(b.members) == 0 {
			continue
		}
		rep := minState(b.members)
		info := d.infos[rep]

		nfaSet := map[string]bool{}
		var nfaStates []ids.State
		for m := range b.members {
			repOf[m] = rep
			if d.infos[m].accepting {
				info.accepting = true
			}
			for _, s := range d.infos[m].nfaStates {
				k := s.String()
				if !nfaSet[k] {
					nfaSet[k] = true
					nfaStates = append(nfaStates, s)
				}
			}
		}
		info.nfaStates = canonicalize(nfaStates)

		for m := range b.members {
			if m != rep {
				newTable.Rename(m, rep)
			}
		}
		newInfos[rep] = info
	}

	return &Dfa{table: newTable, start: repOf[d.start], infos: newInfos}
}

func minState(members map[StateID]bool) StateID {
	first := true
	var min StateID
	for m := range members {
		if first || m < min {
			min = m
			first = false
		}
	}
	return min
}
