// Package dot renders an NFA or a DFA as Graphviz DOT source: edges
// labeled by transition, nodes labeled by state identifier (a brace-set
// of NFA states for DFA nodes), and accepting DFA states drawn as
// double circles.
package dot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arjvik/restate/internal/dfa"
	"github.com/arjvik/restate/internal/ids"
	"github.com/arjvik/restate/internal/nfa"
)

type edge struct {
	from, to, label string
}

func sortedEdges(edges []edge) []edge {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		if edges[i].label != edges[j].label {
			return edges[i].label < edges[j].label
		}
		return edges[i].to < edges[j].to
	})
	return edges
}

// Nfa renders n as DOT source.
func Nfa(n *nfa.Nfa) string {
	var edges []edge
	for from, row := range n.Table().Rows() {
		for lbl, c := range row {
			for _, to := range c.Items() {
				edges = append(edges, edge{from: from.String(), to: to.String(), label: lbl.DotLabel()})
			}
		}
	}

	var b strings.Builder
	b.WriteString("digraph nfa {\ngraph [label=\"NFA\"];\n")
	for _, e := range sortedEdges(edges) {
		fmt.Fprintf(&b, "%s -> %s [label = \"%s\"];\n", e.from, e.to, e.label)
	}
	b.WriteString("}")
	return b.String()
}

func dfaNodeRef(states []ids.State) string {
	var b strings.Builder
	for _, s := range states {
		b.WriteString(s.String())
	}
	return b.String()
}

func dfaNodeLabel(ref string, states []ids.State, accepting bool) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = s.String()
	}
	shape := "circle"
	if accepting {
		shape = "doublecircle"
	}
	return fmt.Sprintf("%s [label = \"{%s}\"; shape = %s];\n", ref, strings.Join(parts, ", "), shape)
}

// Dfa renders d as DOT source: nodes are labeled with the brace-set of
// NFA states each DFA state was built from, and accepting states are
// drawn as double circles.
func Dfa(d *dfa.Dfa) string {
	nodeLabels := map[string]string{}
	var edges []edge

	for _, s := range d.States() {
		ref := dfaNodeRef(d.NfaStates(s))
		if _, ok := nodeLabels[ref]; !ok {
			nodeLabels[ref] = dfaNodeLabel(ref, d.NfaStates(s), d.Accepting(s))
		}

		row, ok := d.Table().Row(s)
		if !ok {
			continue
		}
		for lbl, slot := range row {
			target, has := slot.Get()
			if !has {
				continue
			}
			targetRef := dfaNodeRef(d.NfaStates(target))
			if _, ok := nodeLabels[targetRef]; !ok {
				nodeLabels[targetRef] = dfaNodeLabel(targetRef, d.NfaStates(target), d.Accepting(target))
			}
			edges = append(edges, edge{from: ref, to: targetRef, label: lbl.DotLabel()})
		}
	}

	refs := make([]string, 0, len(nodeLabels))
	for ref := range nodeLabels {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	var b strings.Builder
	b.WriteString("digraph dfa {")
	for _, ref := range refs {
		b.WriteString(nodeLabels[ref])
	}
	b.WriteString("\n")
	for _, e := range sortedEdges(edges) {
		fmt.Fprintf(&b, "%s -> %s [label = \"%s\"];\n", e.from, e.to, e.label)
	}
	b.WriteString("}")
	return b.String()
}
