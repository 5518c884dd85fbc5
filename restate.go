// Package restate compiles a regular-expression pattern into a minimized
// DFA and matches whole strings against it: lex, parse to NFA, subset
// construction, Hopcroft minimization, simulate.
package restate

import (
	"github.com/arjvik/restate/internal/dfa"
	"github.com/arjvik/restate/internal/lexer"
	"github.com/arjvik/restate/internal/nfa"
	"github.com/arjvik/restate/internal/parser"
	"github.com/arjvik/restate/internal/sim"
)

// Dfa is a compiled, minimized pattern ready for repeated matching. It
// is immutable after Compile returns and safe for concurrent Match
// calls.
type Dfa struct {
	d *dfa.Dfa
}

// Result is the outcome of a Match call: Success, or one of the
// disjoint failure kinds describing how the walk fell short.
type Result = sim.Result

const (
	Success       = sim.Success
	NoMatch       = sim.NoMatch
	EndOfString   = sim.EndOfString
	NoTransitions = sim.NoTransitions
	Premature     = sim.Premature
)

// Compile lexes, parses, and compiles pattern into a minimized DFA.
// Minimization always runs; callers that want the unminimized subset
// construction for inspection should use CompileUnminimized.
func Compile(pattern string) (*Dfa, error) {
	d, err := compileTo(pattern, true)
	if err != nil {
		return nil, err
	}
	return &Dfa{d: d}, nil
}

// CompileUnminimized runs the same pipeline as Compile but skips
// Hopcroft minimization, for callers that want to inspect the raw
// subset construction (the CLI's --no-minimize flag).
func CompileUnminimized(pattern string) (*Dfa, error) {
	d, err := compileTo(pattern, false)
	if err != nil {
		return nil, err
	}
	return &Dfa{d: d}, nil
}

func compileTo(pattern string, minimize bool) (*dfa.Dfa, error) {
	elems, err := lexer.Lex(pattern)
	if err != nil {
		return nil, err
	}
	n, err := parser.Parse(elems)
	if err != nil {
		return nil, err
	}
	d := dfa.Build(n)
	if minimize {
		d = dfa.Minimize(d)
	}
	return d, nil
}

// Match runs the whole-string simulator against input. Success means
// input is entirely consumed at an accepting state; any other Result
// is a disjoint failure kind, not an error return, since distinguishing
// them is part of the library's contract.
func Match(d *Dfa, input string) Result {
	return sim.Run(d.d, []rune(input))
}

// Raw exposes the compiled automaton for the dot package, which the CLI
// uses to write --dot-dfa output.
func (d *Dfa) Raw() *dfa.Dfa { return d.d }

// NfaHandle wraps an uncompiled NFA for --dot-nfa output.
type NfaHandle struct{ n *nfa.Nfa }

// Raw exposes the underlying NFA for the dot package.
func (h *NfaHandle) Raw() *nfa.Nfa { return h.n }

// CompileNFA lexes and parses pattern into its NFA, without running
// subset construction. It exists for the CLI's --dot-nfa flag, which
// needs the pre-minimization automaton that Compile discards.
func CompileNFA(pattern string) (*NfaHandle, error) {
	elems, err := lexer.Lex(pattern)
	if err != nil {
		return nil, err
	}
	n, err := parser.Parse(elems)
	if err != nil {
		return nil, err
	}
	return &NfaHandle{n: n}, nil
}
