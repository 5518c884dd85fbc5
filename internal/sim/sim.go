// Package sim implements the whole-string DFA simulator: a single pass
// over the input that accepts only if every character is consumed at an
// accepting state.
package sim

import (
	"fmt"

	"github.com/arjvik/restate/internal/dfa"
	"github.com/arjvik/restate/internal/table"
)

// Kind discriminates the disjoint Result union: exactly one of these
// describes how a simulation run ended.
type Kind int

const (
	Success Kind = iota
	NoMatch
	EndOfString
	NoTransitions
	Premature
)

// Result is the outcome of one Run. Ch is populated only for NoMatch.
type Result struct {
	Kind Kind
	Ch   rune
}

func (r Result) String() string {
	switch r.Kind {
	case Success:
		return "Success"
	case NoMatch:
		return fmt.Sprintf("NoMatch(%q)", r.Ch)
	case EndOfString:
		return "EndOfString"
	case NoTransitions:
		return "NoTransitions"
	case Premature:
		return "Premature"
	default:
		return "?"
	}
}

// Ok reports whether r represents acceptance.
func (r Result) Ok() bool { return r.Kind == Success }

// Run simulates d against input. At every step it first tries to
// consume via the current state's row (Literal, then Wildcard, then
// Epsilon), regardless of whether the current state is accepting — a
// quantified construction (Star, Plus, Range, OpenRange) routinely
// produces states that are simultaneously accepting and still able to
// consume more input, and those states must keep consuming as long as
// an edge matches. Only once no outgoing edge matches the present
// situation does current.accepting decide the outcome: Success if the
// input is exhausted, Premature if input remains, NoTransitions if the
// state has no row at all, NoMatch if a row exists but no edge accounts
// for the next character, EndOfString if a row exists but offers only
// edges that need a character that isn't there.
func Run(d *dfa.Dfa, input []rune) Result {
	current := d.Start()
	cursor := 0

	for {
		row, hasRow := d.Table().Row(current)

		if hasRow {
			if cursor < len(input) {
				c := input[cursor]

				if slot, ok := row[table.Literal(c)]; ok {
					if t, has := slot.Get(); has {
						current, cursor = t, cursor+1
						continue
					}
				}
				if slot, ok := row[table.Wildcard]; ok {
					if t, has := slot.Get(); has {
						current, cursor = t, cursor+1
						continue
					}
				}
			}
			if slot, ok := row[table.Epsilon]; ok {
				if t, has := slot.Get(); has {
					current = t
					continue
				}
			}
		}

		if d.Accepting(current) {
			if cursor == len(input) {
				return Result{Kind: Success}
			}
			return Result{Kind: Premature}
		}
		if !hasRow {
			return Result{Kind: NoTransitions}
		}
		if cursor < len(input) {
			return Result{Kind: NoMatch, Ch: input[cursor]}
		}
		return Result{Kind: EndOfString}
	}
}
