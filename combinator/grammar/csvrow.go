package grammar

import (
	"regexp"
	"strings"

	"github.com/tef/combinator/combinator"
	"github.com/tef/combinator/combinator/prim"
)

var bareFieldPattern = regexp.MustCompile(`^[^,\r\n"]*`)
var quotedCharPattern = regexp.MustCompile(`^[^"]`)

// CSVRow builds a parser for a single CSV row: comma-separated fields,
// each either bare or double-quoted with "" as the escape for an embedded
// quote. The result is the ordered list of field values as strings.
func CSVRow() (combinator.Parser, error) {
	g := New()
	g.Start = "row"

	quotedChar := combinator.Alt(
		prim.Literal(`""`).OnMatch(func(any) (any, error) { return `"`, nil }),
		prim.Pattern(quotedCharPattern),
	)
	quotedField := combinator.Seq(
		prim.Literal(`"`).Drop(),
		combinator.Repeat(quotedChar, 0, combinator.Unbounded).OnMatch(func(v any) (any, error) {
			var b strings.Builder
			for _, part := range v.([]any) {
				b.WriteString(part.(string))
			}
			return b.String(), nil
		}),
		prim.Literal(`"`).Drop(),
	).OnMatch(unwrapSingle)

	bareField := prim.Pattern(bareFieldPattern)

	field := combinator.Alt(quotedField, bareField)

	g.Define("row", func(g *Grammar) combinator.Parser {
		return combinator.RepeatSeparated(field, prim.Literal(","), 1, combinator.Unbounded)
	})

	p, err := g.Compile()
	if err != nil {
		return combinator.Parser{}, err
	}
	// row offers a stopping choice point after every field, so without an
	// anchor a run would also surface every shorter prefix of fields as a
	// distinct result. Requiring end of input keeps only the full row.
	return combinator.Seq(p, prim.EndOfInput().Drop()).OnMatch(unwrapSingle), nil
}
