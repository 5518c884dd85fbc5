// Package lexer turns a pattern string into the sequence of parse
// elements the parser driver (internal/parser) composes into an NFA.
// Bracket expansion, escapes, and quantifier digits all happen here so
// the parser driver never sees raw pattern text.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	errorutil "github.com/projectdiscovery/utils/errors"
)

// Kind discriminates the Element variants the parser driver switches on.
type Kind int

const (
	Literal Kind = iota
	Wildcard
	Star
	Plus
	Question
	Range     // Lo, Hi
	OpenRange // Lo
	Union
	Group         // Inner
	Bracket       // Chars
	BackReference // N
)

// Element is one token of the parse-element sequence. Only the fields
// relevant to Kind are populated.
type Element struct {
	Kind  Kind
	Ch    rune
	Lo    uint64
	Hi    uint64
	Inner []Element
	Chars []rune
	N     int
}

func isQuantifierStart(c rune) bool {
	return c == '*' || c == '+' || c == '?' || c == '{'
}

// Lex tokenizes pattern into a flat parse-element sequence, with Group
// elements holding their own nested sequence. Whitespace between the
// digits and delimiters of a {n,m} quantifier is tolerated.
func Lex(pattern string) ([]Element, error) {
	runes := []rune(pattern)
	elems, pos, err := lexSequence(runes, 0, false)
	if err != nil {
		return nil, err
	}
	if pos != len(runes) {
		return nil, errorutil.NewWithTag("lexer", fmt.Sprintf("unexpected ')' at position %d", pos))
	}
	return elems, nil
}

// lexSequence lexes until end of input or, if inGroup, an unescaped ')'.
// It returns the elements and the position just past the consumed input
// (past the ')' when inGroup).
func lexSequence(r []rune, pos int, inGroup bool) ([]Element, int, error) {
	var out []Element

	for pos < len(r) {
		c := r[pos]

		if inGroup && c == ')' {
			return out, pos + 1, nil
		}

		var elem Element
		var err error

		switch c {
		case '.':
			elem, pos = Element{Kind: Wildcard}, pos+1
		case '*':
			elem, pos = Element{Kind: Star}, pos+1
		case '+':
			elem, pos = Element{Kind: Plus}, pos+1
		case '?':
			elem, pos = Element{Kind: Question}, pos+1
		case '|':
			elem, pos = Element{Kind: Union}, pos+1
		case '{':
			elem, pos, err = lexRange(r, pos)
		case '(':
			elem, pos, err = lexGroup(r, pos)
		case '[':
			elem, pos, err = lexBracket(r, pos)
		case '\\':
			elem, pos, err = lexEscape(r, pos)
		case ')':
			return nil, pos, errorutil.NewWithTag("lexer", fmt.Sprintf("unmatched ')' at position %d", pos))
		default:
			elem, pos = Element{Kind: Literal, Ch: c}, pos+1
		}

		if err != nil {
			return nil, pos, err
		}
		out = append(out, elem)
	}

	if inGroup {
		return nil, pos, errorutil.New("unterminated group: missing ')'")
	}
	return out, pos, nil
}

func lexGroup(r []rune, pos int) (Element, int, error) {
	inner, next, err := lexSequence(r, pos+1, true)
	if err != nil {
		return Element{}, next, err
	}
	return Element{Kind: Group, Inner: inner}, next, nil
}

func lexRange(r []rune, pos int) (Element, int, error) {
	i := pos + 1
	skipSpace := func() {
		for i < len(r) && (r[i] == ' ' || r[i] == '\t') {
			i++
		}
	}

	readDigits := func() (uint64, bool) {
		start := i
		for i < len(r) && r[i] >= '0' && r[i] <= '9' {
			i++
		}
		if i == start {
			return 0, false
		}
		n, err := strconv.ParseUint(string(r[start:i]), 10, 64)
		return n, err == nil
	}

	skipSpace()
	lo, ok := readDigits()
	if !ok {
		return Element{}, i, errorutil.NewWithTag("lexer", fmt.Sprintf("expected digits after '{' at position %d", pos))
	}
	skipSpace()

	if i < len(r) && r[i] == '}' {
		return Element{Kind: Range, Lo: lo, Hi: lo}, i + 1, nil
	}
	if i >= len(r) || r[i] != ',' {
		return Element{}, i, errorutil.NewWithTag("lexer", fmt.Sprintf("expected ',' or '}' in quantifier at position %d", i))
	}
	i++
	skipSpace()

	if i < len(r) && r[i] == '}' {
		return Element{Kind: OpenRange, Lo: lo}, i + 1, nil
	}

	hi, ok := readDigits()
	if !ok {
		return Element{}, i, errorutil.NewWithTag("lexer", fmt.Sprintf("expected digits or '}' in quantifier at position %d", i))
	}
	skipSpace()
	if i >= len(r) || r[i] != '}' {
		return Element{}, i, errorutil.NewWithTag("lexer", fmt.Sprintf("expected '}' to close quantifier at position %d", i))
	}
	if hi < lo {
		return Element{}, i, errorutil.NewWithTag("lexer", fmt.Sprintf("quantifier range {%d,%d} has hi < lo", lo, hi))
	}
	return Element{Kind: Range, Lo: lo, Hi: hi}, i + 1, nil
}

func lexBracket(r []rune, pos int) (Element, int, error) {
	i := pos + 1
	var chars []rune

	for i < len(r) && r[i] != ']' {
		c := r[i]
		switch {
		case c == '\\' && i+1 < len(r):
			chars = append(chars, r[i+1])
			i += 2
		case c == '-' && len(chars) > 0 && i+1 < len(r) && r[i+1] != ']':
			lo := chars[len(chars)-1]
			hi := r[i+1]
			if hi < lo {
				return Element{}, i, errorutil.NewWithTag("lexer", fmt.Sprintf("invalid bracket range %c-%c", lo, hi))
			}
			for c := lo + 1; c <= hi; c++ {
				chars = append(chars, c)
			}
			i += 2
		default:
			// a leading or trailing '-' (no valid range partner) is literal
			chars = append(chars, c)
			i++
		}
	}

	if i >= len(r) {
		return Element{}, i, errorutil.New("unterminated character class: missing ']'")
	}
	return Element{Kind: Bracket, Chars: chars}, i + 1, nil
}

const (
	wordChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_"
	digitChars = "0123456789"
	spaceChars = " \t"
)

var metaEscapes = ".*+?{}|()[]-\\"

func lexEscape(r []rune, pos int) (Element, int, error) {
	if pos+1 >= len(r) {
		return Element{}, pos + 1, errorutil.New("dangling '\\' at end of pattern")
	}

	c := r[pos+1]
	switch {
	case c == 'w':
		return Element{Kind: Bracket, Chars: []rune(wordChars)}, pos + 2, nil
	case c == 'd':
		return Element{Kind: Bracket, Chars: []rune(digitChars)}, pos + 2, nil
	case c == 's':
		return Element{Kind: Bracket, Chars: []rune(spaceChars)}, pos + 2, nil
	case c == 't':
		return Element{Kind: Literal, Ch: '\t'}, pos + 2, nil
	case c == 'x':
		return lexHexEscape(r, pos)
	case c == 'u':
		return lexUnicodeEscape(r, pos)
	case c >= '1' && c <= '9':
		return lexBackReference(r, pos)
	case strings.ContainsRune(metaEscapes, c):
		return Element{Kind: Literal, Ch: c}, pos + 2, nil
	default:
		return Element{}, pos + 2, errorutil.NewWithTag("lexer", fmt.Sprintf("unknown escape sequence '\\%c'", c))
	}
}

func lexHex(r []rune, start, n int, what string) (rune, int, error) {
	if start+n > len(r) {
		return 0, start, errorutil.NewWithTag("lexer", fmt.Sprintf("incomplete %s escape", what))
	}
	v, err := strconv.ParseUint(string(r[start:start+n]), 16, 32)
	if err != nil {
		return 0, start, errorutil.NewWithTag("lexer", fmt.Sprintf("invalid %s escape: %s", what, err.Error()))
	}
	return rune(v), start + n, nil
}

func lexHexEscape(r []rune, pos int) (Element, int, error) {
	c, next, err := lexHex(r, pos+2, 2, "\\xHH")
	if err != nil {
		return Element{}, next, err
	}
	return Element{Kind: Literal, Ch: c}, next, nil
}

func lexUnicodeEscape(r []rune, pos int) (Element, int, error) {
	c, next, err := lexHex(r, pos+2, 4, "\\uHHHH")
	if err != nil {
		return Element{}, next, err
	}
	return Element{Kind: Literal, Ch: c}, next, nil
}

func lexBackReference(r []rune, pos int) (Element, int, error) {
	i := pos + 1
	start := i
	for i < len(r) && r[i] >= '0' && r[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(string(r[start:i]))
	if err != nil {
		return Element{}, i, errorutil.NewWithTag("lexer", fmt.Sprintf("invalid backreference: %s", err.Error()))
	}
	if n == 0 {
		return Element{}, i, errorutil.New("invalid backreference \\0")
	}
	return Element{Kind: BackReference, N: n}, i, nil
}

// String renders an element for debug logging.
func (e Element) String() string {
	switch e.Kind {
	case Literal:
		return fmt.Sprintf("Literal(%q)", e.Ch)
	case Wildcard:
		return "Wildcard"
	case Star:
		return "Star"
	case Plus:
		return "Plus"
	case Question:
		return "Question"
	case Range:
		return fmt.Sprintf("Range(%d,%d)", e.Lo, e.Hi)
	case OpenRange:
		return fmt.Sprintf("OpenRange(%d,)", e.Lo)
	case Union:
		return "Union"
	case Group:
		return fmt.Sprintf("Group(%d elems)", len(e.Inner))
	case Bracket:
		return fmt.Sprintf("Bracket(%q)", string(e.Chars))
	case BackReference:
		return fmt.Sprintf("BackReference(%d)", e.N)
	default:
		return "?"
	}
}
