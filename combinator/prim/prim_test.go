package prim_test

import (
	"regexp"
	"testing"

	"github.com/tef/combinator/combinator"
	"github.com/tef/combinator/combinator/prim"
)

func run(t *testing.T, p combinator.Parser, input string) []any {
	t.Helper()
	rs := combinator.Run(p, input)
	return rs.Values()
}

func TestLiteralMatchesPrefix(t *testing.T) {
	got := run(t, prim.Literal("foo"), "foobar")
	if len(got) != 1 || got[0] != "foo" {
		t.Fatalf("expected [\"foo\"], got %v", got)
	}
}

func TestLiteralFailsOnMismatch(t *testing.T) {
	rs := combinator.Run(prim.Literal("foo"), "barfoo")
	if rs.IsSettled() {
		t.Fatalf("expected no match, got %v", rs.Values())
	}
	f, ok := rs.FurthestFailure()
	if !ok {
		t.Fatal("expected a recorded furthest failure")
	}
	if f.State.Pos() != 0 {
		t.Errorf("expected failure at pos 0, got %d", f.State.Pos())
	}
}

func TestPatternMatchesLongestAnchoredRun(t *testing.T) {
	re := regexp.MustCompile(`^[0-9]+`)
	got := run(t, prim.Pattern(re), "123abc")
	if len(got) != 1 || got[0] != "123" {
		t.Fatalf("expected [\"123\"], got %v", got)
	}
}

func TestPatternDoesNotSearchForward(t *testing.T) {
	re := regexp.MustCompile(`^[0-9]+`)
	rs := combinator.Run(prim.Pattern(re), "abc123")
	if rs.IsSettled() {
		t.Fatalf("expected no match since digits aren't at pos 0, got %v", rs.Values())
	}
}

func TestEndOfInputAnchorsFullConsumption(t *testing.T) {
	p := combinator.Seq(prim.Literal("ab").Drop(), prim.EndOfInput().Drop())

	rs := combinator.Run(p, "ab")
	if !rs.IsSettled() {
		t.Fatalf("expected success when input is fully consumed, got %v", rs.Values())
	}

	rs2 := combinator.Run(p, "abc")
	if rs2.IsSettled() {
		t.Fatalf("expected failure when input remains unconsumed, got %v", rs2.Values())
	}
}

func TestFuncDelegatesToUserCode(t *testing.T) {
	p := prim.Func("always-ok", func(s combinator.ParserState) combinator.MatchResult {
		return combinator.Success(s.Advance(1), "consumed one rune", false)
	})
	got := run(t, p, "x")
	if len(got) != 1 || got[0] != "consumed one rune" {
		t.Fatalf("unexpected result: %v", got)
	}
}
