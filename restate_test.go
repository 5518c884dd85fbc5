package restate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjvik/restate"
)

type scenario struct {
	pattern string
	input   string
	want    restate.Result
}

func runScenarios(t *testing.T, scenarios []scenario) {
	t.Helper()
	for _, s := range scenarios {
		s := s
		t.Run(s.pattern+"/"+s.input, func(t *testing.T) {
			d, err := restate.Compile(s.pattern)
			require.NoError(t, err, "compile %q", s.pattern)
			got := restate.Match(d, s.input)
			assert.Equal(t, s.want, got, "match(%q, %q)", s.pattern, s.input)
		})
	}
}

func TestWordClass(t *testing.T) {
	var scenarios []scenario
	for c := 'a'; c <= 'z'; c++ {
		scenarios = append(scenarios, scenario{`\w`, string(c), restate.Result{Kind: restate.Success}})
	}
	for c := 'A'; c <= 'Z'; c++ {
		scenarios = append(scenarios, scenario{`\w`, string(c), restate.Result{Kind: restate.Success}})
	}
	for c := '0'; c <= '9'; c++ {
		scenarios = append(scenarios, scenario{`\w`, string(c), restate.Result{Kind: restate.Success}})
	}
	scenarios = append(scenarios, scenario{`\w`, "_", restate.Result{Kind: restate.Success}})
	scenarios = append(scenarios, scenario{`\w`, " ", restate.Result{Kind: restate.NoMatch, Ch: ' '}})
	runScenarios(t, scenarios)
}

func TestWildcardConcat(t *testing.T) {
	runScenarios(t, []scenario{
		{"a.b", "axb", restate.Result{Kind: restate.Success}},
		{"a.b", "abb", restate.Result{Kind: restate.Success}},
		{"a.b", "ab", restate.Result{Kind: restate.EndOfString}},
		{"a.b", "axby", restate.Result{Kind: restate.Premature}},
	})
}

func TestFiniteRange(t *testing.T) {
	runScenarios(t, []scenario{
		{"a{3,5}", "aa", restate.Result{Kind: restate.EndOfString}},
		{"a{3,5}", "aaa", restate.Result{Kind: restate.Success}},
		{"a{3,5}", "aaaaa", restate.Result{Kind: restate.Success}},
		{"a{3,5}", "aaaaaa", restate.Result{Kind: restate.Premature}},
	})
}

func TestExactRange(t *testing.T) {
	runScenarios(t, []scenario{
		{"a{3}", "aaa", restate.Result{Kind: restate.Success}},
		{"a{3}", "aa", restate.Result{Kind: restate.EndOfString}},
		{"a{3}", "aaaa", restate.Result{Kind: restate.Premature}},
	})
}

func TestOpenRange(t *testing.T) {
	runScenarios(t, []scenario{
		{"a{3,}", "aa", restate.Result{Kind: restate.EndOfString}},
		{"a{3,}", "aaaa", restate.Result{Kind: restate.Success}},
	})
}

func TestStarUnion(t *testing.T) {
	runScenarios(t, []scenario{
		{"a*|b", "", restate.Result{Kind: restate.Success}},
		{"a*|b", "aaa", restate.Result{Kind: restate.Success}},
		{"a*|b", "b", restate.Result{Kind: restate.Success}},
		{"a*|b", "bb", restate.Result{Kind: restate.Premature}},
		{"a*|b", "ab", restate.Result{Kind: restate.Premature}},
	})
}

func TestGroupPlus(t *testing.T) {
	runScenarios(t, []scenario{
		{"(abc)+", "", restate.Result{Kind: restate.EndOfString}},
		{"(abc)+", "abcabc", restate.Result{Kind: restate.Success}},
		{"(abc)+", "abcabcab", restate.Result{Kind: restate.EndOfString}},
	})
}

func TestBackReferenceWithStar(t *testing.T) {
	runScenarios(t, []scenario{
		{`(ab+)12\1*`, "ab12ab", restate.Result{Kind: restate.Success}},
		{`(ab+)12\1*`, "abbbbbbb12", restate.Result{Kind: restate.Success}},
	})
}

func TestHexAndUnicodeEscapes(t *testing.T) {
	runScenarios(t, []scenario{
		{`\x4E`, "N", restate.Result{Kind: restate.Success}},
		{`\x4E`, "M", restate.Result{Kind: restate.NoMatch, Ch: 'M'}},
		{"\\u006e", "n", restate.Result{Kind: restate.Success}},
		{"\\u006e", "m", restate.Result{Kind: restate.NoMatch, Ch: 'm'}},
	})
}

func TestMultiDigitBackReference(t *testing.T) {
	runScenarios(t, []scenario{
		{`(1)(2)(3)(4)(5)(6)(7)(8)(9)(10)(11)\11`, "123456789101111", restate.Result{Kind: restate.Success}},
	})
}

func TestMinimizationPreservesLanguage(t *testing.T) {
	inputs := []string{"", "a", "aa", "aaa", "aaaa", "aaaaa", "aaaaaa", "b", "aab"}
	patterns := []string{"a{3,5}", "a*|b", "(abc)+", `\w`, "a.b"}

	for _, p := range patterns {
		minimized, err := restate.Compile(p)
		require.NoError(t, err)
		raw, err := restate.CompileUnminimized(p)
		require.NoError(t, err)

		for _, in := range inputs {
			assert.Equal(t, restate.Match(raw, in).Ok(), restate.Match(minimized, in).Ok(),
				"pattern %q input %q: minimized and unminimized disagree", p, in)
		}
	}
}

func TestCompileRejectsMalformedPatterns(t *testing.T) {
	bad := []string{
		"*",
		"(abc",
		"abc)",
		"[abc",
		`\q`,
		`\0`,
		"a{2,1}",
	}
	for _, p := range bad {
		_, err := restate.Compile(p)
		assert.Error(t, err, "expected compile error for %q", p)
	}
}
