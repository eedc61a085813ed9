package grammar

import (
	"regexp"
	"strconv"

	"github.com/tef/combinator/combinator"
	"github.com/tef/combinator/combinator/prim"
)

var integerPattern = regexp.MustCompile(`^[0-9]+`)

// Arith builds a parser for a small left-associative arithmetic grammar
// over +, -, *, /, parentheses and unsigned integers. It evaluates as it
// parses: the top-level result is a float64. Recursion between "factor"
// and "expr" (for parenthesized sub-expressions) exercises combinator.Ref
// the same way a user's own recursive grammar would.
func Arith() (combinator.Parser, error) {
	g := New()
	g.Start = "expr"

	number := token(prim.Pattern(integerPattern)).OnMatch(func(v any) (any, error) {
		return strconv.ParseFloat(v.(string), 64)
	})

	g.Define("factor", func(g *Grammar) combinator.Parser {
		paren := combinator.Seq(
			token(prim.Literal("(")).Drop(),
			g.Call("expr"),
			token(prim.Literal(")")).Drop(),
		).OnMatch(unwrapSingle)
		return combinator.Alt(number, paren)
	})

	g.Define("term", func(g *Grammar) combinator.Parser {
		timesOrDiv := combinator.Alt(prim.Literal("*"), prim.Literal("/"))
		return reduceLeft(g.Call("factor"), timesOrDiv, func(left float64, op string, right float64) float64 {
			if op == "*" {
				return left * right
			}
			return left / right
		})
	})

	g.Define("expr", func(g *Grammar) combinator.Parser {
		plusOrMinus := combinator.Alt(prim.Literal("+"), prim.Literal("-"))
		return reduceLeft(g.Call("term"), plusOrMinus, func(left float64, op string, right float64) float64 {
			if op == "+" {
				return left + right
			}
			return left - right
		})
	})

	p, err := g.Compile()
	if err != nil {
		return combinator.Parser{}, err
	}
	// expr alone is ambiguous at the top level: reduceLeft offers a
	// stopping choice point after every operand, so without an anchor a
	// run would also surface "2" and "2 + 3" as distinct results for
	// input "2 + 3 * 4". Requiring end of input keeps only the maximal
	// parse.
	return combinator.Seq(p, prim.EndOfInput().Drop()).OnMatch(unwrapSingle), nil
}
