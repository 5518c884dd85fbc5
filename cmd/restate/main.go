/*
Restate compiles a regular-expression pattern into a minimized DFA and
matches candidate strings against it.

Usage:

	restate -E PATTERN [-f FILE] [--dot-nfa PATH] [--dot-dfa PATH] [--no-minimize] [-q]

The flags are:

	-E, --pattern PATTERN
		The pattern to compile. Required.

	-f, --file FILE
		Read candidate strings to match, one per line, from FILE instead of
		stdin.

	--dot-nfa PATH
		Write the constructed NFA as Graphviz DOT source to PATH.

	--dot-dfa PATH
		Write the compiled DFA as Graphviz DOT source to PATH.

	--no-minimize
		Skip Hopcroft minimization; match against the raw subset
		construction instead.

	-q, --quiet
		Suppress per-line match logging; only the final exit code reports
		overall success.

Exit code is 0 if every input line matched and 1 if at least one did
not. Compile and I/O errors are logged through gologger's fatal level,
which also exits with status 1, so the exit code does not tell an error
apart from a failed match.
*/
package main

import (
	"bufio"
	"os"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	errorutil "github.com/projectdiscovery/utils/errors"
	"github.com/spf13/pflag"

	"github.com/arjvik/restate"
	"github.com/arjvik/restate/internal/dot"
)

const (
	exitSuccess = iota
	exitNoMatch
	exitError
)

func main() {
	var (
		pattern    = pflag.StringP("pattern", "E", "", "the pattern to compile")
		file       = pflag.StringP("file", "f", "", "read candidate strings from this file instead of stdin")
		dotNFA     = pflag.String("dot-nfa", "", "write the constructed NFA as DOT source to this path")
		dotDFA     = pflag.String("dot-dfa", "", "write the compiled DFA as DOT source to this path")
		noMinimize = pflag.Bool("no-minimize", false, "skip Hopcroft minimization")
		quiet      = pflag.BoolP("quiet", "q", false, "suppress per-line match logging")
	)
	pflag.Parse()

	if *quiet {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelFatal)
	}

	if *pattern == "" {
		gologger.Fatal().Msgf("a pattern is required: -E/--pattern")
	}

	if *dotNFA != "" {
		if err := writeNFADot(*pattern, *dotNFA); err != nil {
			gologger.Fatal().Msgf("could not write NFA dot: %s", err)
		}
	}

	var d *restate.Dfa
	var err error
	if *noMinimize {
		d, err = restate.CompileUnminimized(*pattern)
	} else {
		d, err = restate.Compile(*pattern)
	}
	if err != nil {
		gologger.Fatal().Msgf("compile error: %s", err)
	}

	if *dotDFA != "" {
		if err := os.WriteFile(*dotDFA, []byte(dot.Dfa(d.Raw())), 0644); err != nil {
			gologger.Fatal().Msgf("could not write DFA dot: %s", err)
		}
	}

	in := os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			gologger.Fatal().Msgf("could not open %s: %s", *file, err)
		}
		defer f.Close()
		in = f
	}

	os.Exit(runMatches(d, in))
}

func writeNFADot(pattern, path string) error {
	handle, err := restate.CompileNFA(pattern)
	if err != nil {
		return errorutil.NewWithTag("restate", err.Error())
	}
	return os.WriteFile(path, []byte(dot.Nfa(handle.Raw())), 0644)
}

// runMatches reads candidate lines from in and reports each line's
// match result via gologger; it returns the process exit code.
func runMatches(d *restate.Dfa, in *os.File) int {
	scanner := bufio.NewScanner(in)
	allMatched := true

	for scanner.Scan() {
		line := scanner.Text()
		result := restate.Match(d, line)

		if result.Ok() {
			gologger.Info().Msgf("%s: %s", line, result)
		} else {
			allMatched = false
			gologger.Info().Msgf("%s: %s", line, result)
		}
	}

	if err := scanner.Err(); err != nil {
		gologger.Fatal().Msgf("read error: %s", err)
	}

	if !allMatched {
		return exitNoMatch
	}
	return exitSuccess
}
