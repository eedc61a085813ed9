package combinator

import "fmt"

// Continuation is the callback a parser invokes once per result it
// produces. It may be invoked zero, one, or multiple times across a run —
// e.g. an Alt with several matching branches calls it once per branch.
type Continuation func(MatchResult)

type parseFunc func(ParserState, Continuation)

// Parser is the opaque unit that, given a state and a continuation,
// eventually delivers one or more match results to that continuation. It
// carries a lazy message thunk for diagnostics, so recursive grammars can
// describe themselves without evaluating eagerly at construction time.
type Parser struct {
	fn      parseFunc
	message func() string
}

// NewParser builds a Parser from a raw continuation-passing function and a
// lazy message thunk. Combinator authors outside this package should reach
// for prim.Func instead; NewParser is exported for combinator/prim, which
// needs to construct primitives directly.
func NewParser(message func() string, fn func(ParserState, Continuation)) Parser {
	if message == nil {
		message = func() string { return "<parser>" }
	}
	return Parser{fn: fn, message: message}
}

// Parse invokes the parser against state, delivering results to k.
func (p Parser) Parse(state ParserState, k Continuation) {
	p.fn(state, k)
}

// Message renders the parser's self-description.
func (p Parser) Message() string {
	if p.message == nil {
		return "<parser>"
	}
	return p.message()
}

// OnMatch derives a parser that applies fn to every success value. If fn
// panics or returns an error, the derived parser fails with that error at
// the same state instead of propagating the panic.
func (p Parser) OnMatch(fn func(any) (any, error)) Parser {
	return Parser{
		message: p.message,
		fn: func(s ParserState, k Continuation) {
			p.fn(s, func(r MatchResult) {
				if !r.Ok {
					k(r)
					return
				}
				nv, err := applyOnMatch(fn, r.Value)
				if err != nil {
					msg := err.Error()
					k(Fail(r.State, func() string { return msg }, r.Commit, false))
					return
				}
				k(Success(r.State, nv, r.Commit))
			})
		},
	}
}

func applyOnMatch(fn func(any) (any, error), v any) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("onMatch panicked: %v", rec)
		}
	}()
	return fn(v)
}

// OnFail derives a parser that replaces the failure message thunk. Success
// results pass through unchanged.
func (p Parser) OnFail(message func() string) Parser {
	return Parser{
		message: message,
		fn: func(s ParserState, k Continuation) {
			p.fn(s, func(r MatchResult) {
				if r.Ok {
					k(r)
					return
				}
				k(Fail(r.State, message, r.Commit, r.Abort))
			})
		},
	}
}

// MatchIf derives a parser that fails when predicate(value) is false.
func (p Parser) MatchIf(predicate func(any) bool) Parser {
	return Parser{
		message: p.message,
		fn: func(s ParserState, k Continuation) {
			p.fn(s, func(r MatchResult) {
				if !r.Ok {
					k(r)
					return
				}
				if !predicate(r.Value) {
					k(Fail(r.State, p.message, r.Commit, false))
					return
				}
				k(r)
			})
		},
	}
}

// Drop derives a parser whose success value is always nil, the marker Seq
// elides from its accumulated list. Shorthand for OnMatch(_ -> nil).
func (p Parser) Drop() Parser {
	return p.OnMatch(func(any) (any, error) { return nil, nil })
}
