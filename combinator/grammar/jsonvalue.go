package grammar

import (
	"regexp"
	"strconv"

	"github.com/tef/combinator/combinator"
	"github.com/tef/combinator/combinator/prim"
)

var (
	jsonNumberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?`)
	jsonStringPattern = regexp.MustCompile(`^"(\\.|[^"\\])*"`)
)

// jsonNull is a distinct marker for JSON's null literal. It deliberately
// isn't Go's nil: nil is this engine's "dropped" sentinel inside Seq and
// friends, so a JSON null would vanish from any enclosing array/object if
// represented as nil.
type jsonNull struct{}

// JSONNull is the sentinel value JSONValue produces for a JSON "null".
var JSONNull = jsonNull{}

type jsonPair struct {
	key   string
	value any
}

// JSONValue builds a parser for a JSON value (object, array, string,
// number, true, false, or null). Object keys must be JSON strings; string
// escape sequences are matched but not decoded — the captured value keeps
// its raw backslash escapes, since unescaping is a general tokenizer
// helper that belongs to a caller's own string-decoding layer, not this
// demo grammar.
func JSONValue() (combinator.Parser, error) {
	g := New()
	g.Start = "value"

	str := prim.Pattern(jsonStringPattern).OnMatch(func(v any) (any, error) {
		s := v.(string)
		return s[1 : len(s)-1], nil
	})
	number := prim.Pattern(jsonNumberPattern).OnMatch(func(v any) (any, error) {
		return strconv.ParseFloat(v.(string), 64)
	})
	literalTrue := prim.Literal("true").OnMatch(func(any) (any, error) { return true, nil })
	literalFalse := prim.Literal("false").OnMatch(func(any) (any, error) { return false, nil })
	literalNull := prim.Literal("null").OnMatch(func(any) (any, error) { return JSONNull, nil })

	g.Define("array", func(g *Grammar) combinator.Parser {
		open := token(prim.Literal("[")).Drop()
		comma := token(prim.Literal(","))
		closeBracket := token(prim.Literal("]")).Drop()
		elem := token(g.Call("value"))

		elements := combinator.Optional(
			combinator.RepeatSeparated(elem, comma, 1, combinator.Unbounded),
			[]any{},
		)

		return combinator.Seq(open, elements, closeBracket).OnMatch(unwrapSingle)
	})

	g.Define("object", func(g *Grammar) combinator.Parser {
		open := token(prim.Literal("{")).Drop()
		comma := token(prim.Literal(","))
		colon := token(prim.Literal(":")).Drop()
		closeBrace := token(prim.Literal("}")).Drop()
		key := token(str)
		val := token(g.Call("value"))

		pair := combinator.Seq(key, colon, val).OnMatch(func(v any) (any, error) {
			kv := v.([]any)
			return jsonPair{key: kv[0].(string), value: kv[1]}, nil
		})

		pairs := combinator.Optional(
			combinator.RepeatSeparated(pair, comma, 1, combinator.Unbounded),
			[]any{},
		)

		return combinator.Seq(open, pairs, closeBrace).OnMatch(func(v any) (any, error) {
			list := v.([]any)[0].([]any)
			obj := make(map[string]any, len(list))
			for _, item := range list {
				p := item.(jsonPair)
				obj[p.key] = p.value
			}
			return obj, nil
		})
	})

	g.Define("value", func(g *Grammar) combinator.Parser {
		return token(combinator.Alt(
			g.Call("object"),
			g.Call("array"),
			str,
			number,
			literalTrue,
			literalFalse,
			literalNull,
		))
	})

	return g.Compile()
}
