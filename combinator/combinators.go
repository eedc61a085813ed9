package combinator

import "strings"

// Unbounded marks an unlimited maxCount for Repeat, RepeatIgnore,
// RepeatSeparated and Reduce.
const Unbounded = -1

// Optional makes p succeed unconditionally. On p's success it forwards
// that result; on an ordinary (non-abort) failure it succeeds with def at
// the input state, preserving the failure's commit flag. An aborting
// failure is forwarded unchanged — optional() cannot swallow a cut.
//
// def defaults to "" when omitted.
func Optional(p Parser, def ...any) Parser {
	var defaultValue any = ""
	if len(def) > 0 {
		defaultValue = def[0]
	}
	return Parser{
		message: p.message,
		fn: func(s ParserState, k Continuation) {
			s.trace("optional enter: %s", p.Message())
			p.Parse(s.deeper(), func(r MatchResult) {
				if r.Ok || r.Abort {
					s.trace("optional exit: forwarded ok=%v", r.Ok)
					k(r)
					return
				}
				s.trace("optional exit: default")
				k(Success(s, defaultValue, r.Commit))
			})
		},
	}
}

// Check is zero-width lookahead: on p's success it succeeds with p's value
// but at the input state, leaving pos unchanged. Failure is forwarded
// unchanged.
func Check(p Parser) Parser {
	return Parser{
		message: p.message,
		fn: func(s ParserState, k Continuation) {
			s.trace("check enter: %s", p.Message())
			p.Parse(s.deeper(), func(r MatchResult) {
				if !r.Ok {
					s.trace("check exit: fail")
					k(r)
					return
				}
				s.trace("check exit: ok (pos unchanged)")
				k(Success(s, r.Value, r.Commit))
			})
		},
	}
}

// Not succeeds with "" at the input state iff p fails (without consuming
// input either way); it fails with its own message iff p succeeds.
func Not(p Parser) Parser {
	var self Parser
	self = Parser{
		message: func() string { return "not(" + p.Message() + ")" },
		fn: func(s ParserState, k Continuation) {
			s.trace("not enter: %s", p.Message())
			p.Parse(s.deeper(), func(r MatchResult) {
				if r.Ok {
					s.trace("not exit: fail (inner matched)")
					k(Fail(s, self.message, false, false))
					return
				}
				s.trace("not exit: ok")
				k(Success(s, "", r.Commit))
			})
		},
	}
	return self
}

// Commit wraps p so that, on success, its result carries Commit = true.
// The flag poisons backtracking: if an enclosing Chain/Seq later fails
// after this success, that failure is re-raised with Abort = true, which
// makes enclosing Alt stop exploring further alternatives.
func Commit(p Parser) Parser {
	return Parser{
		message: p.message,
		fn: func(s ParserState, k Continuation) {
			s.trace("commit enter: %s", p.Message())
			p.Parse(s.deeper(), func(r MatchResult) {
				if !r.Ok {
					s.trace("commit exit: fail")
					k(r)
					return
				}
				s.trace("commit exit: ok, committed")
				k(Success(r.State, r.Value, true))
			})
		},
	}
}

// Drop is the standalone form of Parser.Drop: a parser whose success value
// is always nil.
func Drop(p Parser) Parser {
	return p.Drop()
}

// Chain invokes p1, and on success invokes p2 from p1's resulting state,
// combining both values with combine. If p1's success was committed and p2
// subsequently fails, the failure is re-raised with Abort = true.
func Chain(p1, p2 Parser, combine func(v1, v2 any) any) Parser {
	return Parser{
		message: p1.message,
		fn: func(s ParserState, k Continuation) {
			s.trace("chain enter: %s then %s", p1.Message(), p2.Message())
			p1.Parse(s.deeper(), func(r1 MatchResult) {
				if !r1.Ok {
					s.trace("chain exit: first half failed")
					k(r1)
					return
				}
				p2.Parse(r1.State, func(r2 MatchResult) {
					if !r2.Ok {
						if r1.Commit {
							s.trace("chain exit: second half failed after commit, aborting")
							k(Fail(r2.State, r2.Message, r2.Commit, true))
							return
						}
						s.trace("chain exit: second half failed")
						k(r2)
						return
					}
					s.trace("chain exit: ok")
					k(Success(r2.State, combine(r1.Value, r2.Value), r1.Commit || r2.Commit))
				})
			})
		},
	}
}

// Seq folds Chain left over ps, accumulating a fresh ordered list of the
// non-nil values each parser produced (nil is the "dropped" marker). A
// single-parser Seq is equivalent to that parser — it is not wrapped in a
// list.
func Seq(ps ...Parser) Parser {
	if len(ps) == 0 {
		panic("combinator: Seq requires at least one parser")
	}
	if len(ps) == 1 {
		return ps[0]
	}
	acc := ps[0].OnMatch(func(v any) (any, error) {
		if v == nil {
			return []any{}, nil
		}
		return []any{v}, nil
	})
	for _, p := range ps[1:] {
		next := p
		acc = Chain(acc, next, func(sum, v any) any {
			list := sum.([]any)
			if v == nil {
				return list
			}
			out := make([]any, len(list), len(list)+1)
			copy(out, list)
			return append(out, v)
		})
	}
	return acc
}

// SeqIgnore is Seq with ignore skipped (and dropped) before every element:
// equivalent to Seq(Optional(ignore).Drop(), p1, Optional(ignore).Drop(),
// p2, ...). Used for whitespace skipping between grammar tokens.
func SeqIgnore(ignore Parser, ps ...Parser) Parser {
	if len(ps) == 0 {
		panic("combinator: SeqIgnore requires at least one parser")
	}
	skip := Optional(ignore).Drop()
	args := make([]Parser, 0, len(ps)*2)
	for _, p := range ps {
		args = append(args, skip, p)
	}
	return Seq(args...)
}

// Alt tries every alternative from the same starting state, scheduling each
// as a separate job so none of them recurse on the call stack. It delivers
// every successful alternative to k — ambiguity is surfaced, not resolved —
// in the scheduler's dispatch order, which is stable and matches source
// order. If any alternative produces an aborting failure, a shared flag
// stops the remaining, not-yet-run alternatives from doing anything; jobs
// already enqueued before the abort still run their checks but become
// no-ops.
func Alt(ps ...Parser) Parser {
	alternatives := append([]Parser(nil), ps...)
	return Parser{
		message: func() string { return altMessage(alternatives) },
		fn: func(s ParserState, k Continuation) {
			s.trace("alt enter: %d alternatives", len(alternatives))
			aborting := false
			inner := s.deeper()
			for i, alt := range alternatives {
				p := alt
				idx := i
				s.scheduler.AddJob(
					func() string { return "alt[" + itoa(idx) + "]: " + p.Message() },
					func() {
						if aborting {
							return
						}
						p.Parse(inner, func(r MatchResult) {
							if !r.Ok && r.Abort {
								aborting = true
							}
							s.trace("alt exit[%d]: ok=%v", idx, r.Ok)
							k(r)
						})
					},
				)
			}
		},
	}
}

func altMessage(ps []Parser) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.Message()
	}
	return "one of: " + strings.Join(parts, ", ")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Repeat matches p between minCount and maxCount times (maxCount ==
// Unbounded for no upper limit). Every count from minCount up through
// either maxCount or the count at which a further match fails is a valid
// accepting state, and Repeat surfaces all of them: once count reaches
// minCount it both delivers a Success for the current count and schedules
// a job to try matching once more, mirroring how Alt offers each of its
// alternatives as a genuine choice point rather than picking one. Trying
// for one more match is scheduled as a job rather than recursed into
// directly, so long, deeply ambiguous inputs never blow the call stack.
//
// A sub-match that succeeds without advancing pos is a grammar bug, not a
// runtime condition: Repeat panics with a *GrammarError rather than
// looping forever.
//
// Below minCount, nothing is ever delivered and the first failure is
// re-raised at the original state with Repeat's own message.
func Repeat(p Parser, minCount, maxCount int) Parser {
	return Parser{
		message: p.message,
		fn: func(s ParserState, k Continuation) {
			var step func(cur ParserState, count int, acc []any, commit bool)
			step = func(cur ParserState, count int, acc []any, commit bool) {
				if count >= minCount {
					s.trace("repeat exit: accepting count=%d", count)
					k(Success(cur, acc, commit))
				}
				if maxCount >= 0 && count >= maxCount {
					return
				}
				s.scheduler.AddJob(func() string { return "repeat: iteration " + itoa(count+1) }, func() {
					p.Parse(cur, func(r MatchResult) {
						if !r.Ok {
							if count < minCount {
								k(Fail(s, p.message, r.Commit, r.Abort))
							}
							return
						}
						if r.State.Pos() == cur.Pos() {
							panic(NewGrammarError(cur, "repeat: sub-parser matched without advancing position"))
						}
						next := acc
						if r.Value != nil {
							next = append(snapshot(acc), r.Value)
						}
						step(r.State, count+1, next, commit || r.Commit)
					})
				})
			}
			s.trace("repeat enter: min=%d max=%d", minCount, maxCount)
			step(s, 0, []any{}, false)
		},
	}
}

func snapshot(xs []any) []any {
	out := make([]any, len(xs))
	copy(out, xs)
	return out
}

// RepeatIgnore is Repeat with ignore skipped (and dropped) before every
// iteration of p: equivalent to Repeat(Seq(Optional(ignore).Drop(),
// p).OnMatch(first element), minCount, maxCount).
func RepeatIgnore(ignore, p Parser, minCount, maxCount int) Parser {
	inner := Seq(Optional(ignore).Drop(), p).OnMatch(func(v any) (any, error) {
		xs := v.([]any)
		return xs[0], nil
	})
	return Repeat(inner, minCount, maxCount)
}

// RepeatSeparated matches p (separator p){minCount-1, maxCount-1}: the
// separator's value is discarded, and the result is the list of p's values
// in order. It is Reduce with the default accumulator/reducer.
func RepeatSeparated(p, separator Parser, minCount, maxCount int) Parser {
	return Reduce(p, separator, minCount, maxCount, nil, nil)
}

// Reduce generalizes RepeatSeparated: it matches the same p (separator
// p){minCount-1, maxCount-1} shape, but retains the separator's value and
// folds it into the running sum with reducer(sum, separatorValue,
// elementValue). accumulator seeds the sum from the first p value.
//
// Like Repeat, every element count from minCount up through either
// maxCount or the count at which the next (separator p) pair fails to
// match is a valid accepting state, and Reduce surfaces all of them —
// delivering a Success as soon as minCount is reached, and again at every
// count after that it can reach, rather than only the longest one.
//
// Defaults (used when either argument is nil): accumulator(x) = []any{x},
// reducer(sum, _, x) = append(sum, x) — i.e. plain RepeatSeparated
// behavior.
func Reduce(p, separator Parser, minCount, maxCount int, accumulator func(any) any, reducer func(sum, sep, elem any) any) Parser {
	if accumulator == nil {
		accumulator = func(x any) any { return []any{x} }
	}
	if reducer == nil {
		reducer = func(sum, _, x any) any {
			list := sum.([]any)
			out := make([]any, len(list), len(list)+1)
			copy(out, list)
			return append(out, x)
		}
	}
	return Parser{
		message: p.message,
		fn: func(s ParserState, k Continuation) {
			s.trace("reduce enter: min=%d max=%d", minCount, maxCount)
			p.Parse(s, func(r1 MatchResult) {
				if !r1.Ok {
					k(r1)
					return
				}
				sepThenP := Chain(separator, p, func(sv, pv any) any { return pairValue{sep: sv, elem: pv} })

				var step func(cur ParserState, count int, sum any, commit bool)
				step = func(cur ParserState, count int, sum any, commit bool) {
					if count >= minCount {
						s.trace("reduce exit: accepting count=%d", count)
						k(Success(cur, sum, commit))
					}
					if maxCount >= 0 && count >= maxCount {
						return
					}
					s.scheduler.AddJob(func() string { return "reduce: iteration " + itoa(count+1) }, func() {
						sepThenP.Parse(cur, func(r2 MatchResult) {
							if !r2.Ok {
								if count < minCount {
									k(Fail(s, p.message, r2.Commit, r2.Abort))
								}
								return
							}
							if r2.State.Pos() == cur.Pos() {
								panic(NewGrammarError(cur, "reduce: separator+element matched without advancing position"))
							}
							pair := r2.Value.(pairValue)
							step(r2.State, count+1, reducer(sum, pair.sep, pair.elem), commit || r2.Commit)
						})
					})
				}
				step(r1.State, 1, accumulator(r1.Value), r1.Commit)
			})
		},
	}
}

type pairValue struct {
	sep, elem any
}
