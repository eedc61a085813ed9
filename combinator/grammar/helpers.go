package grammar

import (
	"fmt"
	"regexp"

	"github.com/tef/combinator/combinator"
	"github.com/tef/combinator/combinator/prim"
)

var whitespacePattern = regexp.MustCompile(`^[ \t\r\n]*`)

func ws() combinator.Parser {
	return prim.Pattern(whitespacePattern)
}

// token skips leading whitespace before p and unwraps the resulting
// single-element list back down to p's own value.
func token(p combinator.Parser) combinator.Parser {
	return combinator.SeqIgnore(ws(), p).OnMatch(unwrapSingle)
}

func unwrapSingle(v any) (any, error) {
	xs, ok := v.([]any)
	if !ok || len(xs) != 1 {
		return nil, fmt.Errorf("grammar: expected exactly one surviving value, got %#v", v)
	}
	return xs[0], nil
}

// reduceLeft builds operand (opParser operand)* that folds left-associatively
// into a single float64, used by the arithmetic demo grammar for both the
// additive and multiplicative precedence levels.
func reduceLeft(operand, opParser combinator.Parser, apply func(left float64, op string, right float64) float64) combinator.Parser {
	elem := token(operand)
	op := token(opParser)
	return combinator.Reduce(
		elem, op, 1, combinator.Unbounded,
		func(x any) any { return x },
		func(sum, sep, elemVal any) any {
			return apply(sum.(float64), sep.(string), elemVal.(float64))
		},
	)
}
