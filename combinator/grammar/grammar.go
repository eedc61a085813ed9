// Package grammar ports tef-ez's Grammar/Define/Call ergonomics onto the
// combinator package's algebra: a small builder that lets rules reference
// each other by name before every rule has been defined, resolving those
// references lazily through combinator.Ref, plus tef-ez-style static checks
// (undefined rule, unused rule, missing start rule) run once at Compile
// time.
package grammar

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/tef/combinator/combinator"
)

// Grammar collects named rules and resolves Call references between them.
type Grammar struct {
	Start string

	refs     map[string]*combinator.Ref
	defined  map[string]bool
	called   map[string]bool
	order    []string
	compiled bool
}

// New returns an empty grammar. Set Start before calling Compile.
func New() *Grammar {
	return &Grammar{
		refs:    map[string]*combinator.Ref{},
		defined: map[string]bool{},
		called:  map[string]bool{},
	}
}

func (g *Grammar) refFor(name string) *combinator.Ref {
	if r, ok := g.refs[name]; ok {
		return r
	}
	r := combinator.NewRef(func() combinator.Parser {
		panic(fmt.Sprintf("grammar: rule %q was never defined", name))
	})
	g.refs[name] = r
	g.order = append(g.order, name)
	return r
}

// Define registers name's rule. build is called immediately with a
// grammar that may already hold other rules; it should use g.Call to refer
// to rules by name, including name itself or rules defined later —
// resolution happens lazily, at parse time, not here.
func (g *Grammar) Define(name string, build func(*Grammar) combinator.Parser) {
	if g.defined[name] {
		panic(fmt.Sprintf("grammar: rule %q already defined", name))
	}
	g.defined[name] = true
	ref := g.refFor(name)
	ref.Set(build(g))
}

// Call returns a parser deferring to whatever rule name resolves to, at
// invocation time. It is safe to call before name has been Define'd.
func (g *Grammar) Call(name string) combinator.Parser {
	g.called[name] = true
	return g.refFor(name).Parser()
}

// Compile runs tef-ez-style static checks — every called rule must be
// defined, every defined rule (other than Start) must be called, and Start
// must name a defined rule — and returns the parser for Start.
func (g *Grammar) Compile() (combinator.Parser, error) {
	var problems []string

	names := append([]string(nil), g.order...)
	sort.Strings(names)

	for _, name := range names {
		if g.called[name] && !g.defined[name] {
			problems = append(problems, fmt.Sprintf("missing rule %q", name))
		}
		if g.defined[name] && !g.called[name] && name != g.Start {
			problems = append(problems, fmt.Sprintf("unused rule %q", name))
		}
	}

	if g.Start == "" {
		problems = append(problems, "starting rule undefined")
	} else if !g.defined[g.Start] {
		problems = append(problems, fmt.Sprintf("starting rule %q is missing", g.Start))
	}

	if len(problems) > 0 {
		return combinator.Parser{}, errors.Errorf("grammar: %v", problems)
	}

	g.compiled = true
	return g.Call(g.Start), nil
}
