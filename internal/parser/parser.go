// Package parser drives an internal/nfa.Nfa build from the lexer's flat
// parse-element sequence. It owns the only recursive descent in the
// pipeline: Group elements recurse into their own element slice.
package parser

import (
	"fmt"

	errorutil "github.com/projectdiscovery/utils/errors"

	"github.com/arjvik/restate/internal/lexer"
	"github.com/arjvik/restate/internal/nfa"
	"github.com/arjvik/restate/internal/table"
)

// Parse walks elems and returns the composed NFA, or an error if a bare
// quantifier appears with no preceding atom, or a backreference names a
// group that has not been defined yet.
func Parse(elems []lexer.Element) (*nfa.Nfa, error) {
	n, _, err := parseSequence(elems, nil)
	return n, err
}

// parseSequence builds one union's worth of concatenated atoms. groups
// holds the NFAs captured by earlier Group elements in enclosing and
// preceding scope, indexed by group number minus one, numbered in
// open-paren order: a group's number is reserved the moment its "("
// is seen, before its body is parsed, so nested groups number after
// their enclosing parent. It is threaded through recursive calls so a
// nested group can backreference an earlier sibling, and the (possibly
// extended) slice is returned so the caller sees groups defined inside
// this sequence too.
func parseSequence(elems []lexer.Element, groups []*nfa.Nfa) (*nfa.Nfa, []*nfa.Nfa, error) {
	current := nfa.Empty()
	var unionStack []*nfa.Nfa

	i := 0
	for i < len(elems) {
		e := elems[i]

		if isQuantifier(e.Kind) {
			return nil, groups, errorutil.NewWithTag("parser", fmt.Sprintf("quantifier %s with no preceding atom", e))
		}

		if e.Kind == lexer.Union {
			unionStack = append(unionStack, current)
			current = nfa.Empty()
			i++
			continue
		}

		atom, newGroups, err := buildAtom(e, groups)
		if err != nil {
			return nil, groups, err
		}
		groups = newGroups
		i++

		if i < len(elems) && isQuantifier(elems[i].Kind) {
			if err := applyQuantifier(atom, elems[i]); err != nil {
				return nil, groups, err
			}
			i++
		}

		current.Concat(atom)
	}

	for len(unionStack) > 0 {
		prev := unionStack[len(unionStack)-1]
		unionStack = unionStack[:len(unionStack)-1]
		prev.Union(current)
		current = prev
	}

	return current, groups, nil
}

func isQuantifier(k lexer.Kind) bool {
	switch k {
	case lexer.Star, lexer.Plus, lexer.Question, lexer.Range, lexer.OpenRange:
		return true
	default:
		return false
	}
}

// buildAtom constructs the pre-modifier NFA fragment for a single
// non-quantifier, non-Union element, returning the (possibly extended)
// groups slice.
func buildAtom(e lexer.Element, groups []*nfa.Nfa) (*nfa.Nfa, []*nfa.Nfa, error) {
	switch e.Kind {
	case lexer.Literal:
		return nfa.Atom(table.Literal(e.Ch)), groups, nil

	case lexer.Wildcard:
		return nfa.Atom(table.Wildcard), groups, nil

	case lexer.Bracket:
		if len(e.Chars) == 0 {
			return nil, groups, errorutil.New("empty character class")
		}
		frag := nfa.Atom(table.Literal(e.Chars[0]))
		for _, c := range e.Chars[1:] {
			frag.Union(nfa.Atom(table.Literal(c)))
		}
		return frag, groups, nil

	case lexer.Group:
		// Reserve this group's number before descending into its body,
		// so a nested group numbers after its enclosing parent (standard
		// open-paren-order numbering) rather than after whichever group
		// happens to close first. The reserved slot stays nil until the
		// body finishes, so a backreference to it from inside its own
		// body is correctly rejected as undefined.
		idx := len(groups)
		groups = append(groups, nil)
		inner, groups2, err := parseSequence(e.Inner, groups)
		if err != nil {
			return nil, groups, err
		}
		groups2[idx] = inner.Clone()
		return inner, groups2, nil

	case lexer.BackReference:
		if e.N < 1 || e.N > len(groups) || groups[e.N-1] == nil {
			return nil, groups, errorutil.NewWithTag("parser", fmt.Sprintf("backreference \\%d to undefined group", e.N))
		}
		return groups[e.N-1].Clone(), groups, nil

	default:
		return nil, groups, errorutil.NewWithTag("parser", fmt.Sprintf("unexpected element %s", e))
	}
}

// applyQuantifier mutates atom in place per the modifier named by q.
func applyQuantifier(atom *nfa.Nfa, q lexer.Element) error {
	switch q.Kind {
	case lexer.Star:
		atom.Star()
	case lexer.Plus:
		atom.Plus()
	case lexer.Question:
		atom.Question()
	case lexer.Range:
		if q.Hi == 0 {
			// {0}: zero-width match regardless of the atom, per the
			// general construction's hi>=1 assumption. Concat treats
			// an empty-flagged NFA as a no-op, so this contributes
			// nothing to the surrounding sequence.
			*atom = *nfa.Empty()
			return nil
		}
		atom.Range(q.Lo, q.Hi)
	case lexer.OpenRange:
		atom.OpenRange(q.Lo)
	default:
		return errorutil.NewWithTag("parser", fmt.Sprintf("unexpected quantifier %s", q))
	}
	return nil
}
