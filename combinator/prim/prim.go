// Package prim supplies the primitive parsers the core combinator engine
// expects from its surrounding layer: a fixed-prefix string matcher, a
// longest-match regex matcher, and a wrapper around arbitrary user code.
// None of them import anything from combinator's combinator algebra files —
// they only use the public Parser/ParserState/MatchResult surface, the same
// boundary any external collaborator outside the combinator package itself
// would be limited to.
package prim

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tef/combinator/combinator"
)

// Literal matches s as a fixed prefix of the remaining input, advancing pos
// by len(s) runes on success.
func Literal(s string) combinator.Parser {
	runeLen := len([]rune(s))
	message := func() string { return fmt.Sprintf("%q", s) }
	return combinator.NewParser(message, func(state combinator.ParserState, k combinator.Continuation) {
		if strings.HasPrefix(state.Remaining(), s) {
			k(combinator.Success(state.Advance(runeLen), s, false))
			return
		}
		k(combinator.Fail(state, message, false, false))
	})
}

// Pattern matches the longest occurrence of re anchored at the current
// position. Callers should anchor re with a leading ^ themselves; Pattern
// does not add one, so non-anchored patterns would (harmlessly, if
// surprisingly) search forward — anchoring is the caller's responsibility,
// matching how regexp.Regexp.FindStringIndex is used throughout the pack's
// scanner code.
func Pattern(re *regexp.Regexp) combinator.Parser {
	message := func() string { return fmt.Sprintf("pattern %s", re.String()) }
	longest := regexp.MustCompile(re.String())
	longest.Longest()
	return combinator.NewParser(message, func(state combinator.ParserState, k combinator.Continuation) {
		remaining := state.Remaining()
		loc := longest.FindStringIndex(remaining)
		if loc == nil || loc[0] != 0 {
			k(combinator.Fail(state, message, false, false))
			return
		}
		matched := remaining[loc[0]:loc[1]]
		runeLen := len([]rune(matched))
		k(combinator.Success(state.Advance(runeLen), matched, false))
	})
}

// Func wraps user code that inspects state directly and returns a
// MatchResult. name seeds the parser's message thunk.
func Func(name string, fn func(combinator.ParserState) combinator.MatchResult) combinator.Parser {
	message := func() string { return name }
	return combinator.NewParser(message, func(state combinator.ParserState, k combinator.Continuation) {
		k(fn(state))
	})
}

// EndOfInput succeeds with "" without consuming anything iff no input
// remains. Grammars that want a single canonical top-level parse, rather
// than every ambiguous prefix Run's incremental result set would otherwise
// surface, anchor their start rule with this (see combinator.Run's doc
// comment on callers needing a trailing end-of-input check).
func EndOfInput() combinator.Parser {
	message := func() string { return "end of input" }
	return combinator.NewParser(message, func(state combinator.ParserState, k combinator.Continuation) {
		if state.Remaining() == "" {
			k(combinator.Success(state, "", false))
			return
		}
		k(combinator.Fail(state, message, false, false))
	})
}
