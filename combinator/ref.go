package combinator

import "sync"

// Ref is a lazily-resolved, memoized pointer to a Parser, used to break
// cycles in recursive grammars (e.g. expr -> expr "+" term). Anywhere a
// combinator would accept a sub-parser, it may instead be handed
// ref.Parser() — the resolution happens the first time the returned Parser
// is actually invoked, never while the grammar is being composed, so
// mutually recursive rules can reference each other before either is fully
// built.
type Ref struct {
	once    sync.Once
	resolve func() Parser
	p       Parser
}

// NewRef wraps a resolver that will be called at most once, the first time
// the returned Parser is parsed against, to obtain the real Parser.
func NewRef(resolve func() Parser) *Ref {
	return &Ref{resolve: resolve}
}

// Set is a convenience for the common pattern of declaring a Ref before its
// target parser exists, then filling it in once the target is built:
//
//	var exprRef combinator.Ref
//	p := exprRef.Parser()
//	exprRef.Set(actualExprParser)
func (r *Ref) Set(p Parser) {
	r.resolve = func() Parser { return p }
}

func (r *Ref) resolveOnce() Parser {
	r.once.Do(func() {
		r.p = r.resolve()
	})
	return r.p
}

// Parser returns a Parser that defers to whatever r resolves to, resolving
// at most once, on first invocation.
func (r *Ref) Parser() Parser {
	return Parser{
		message: func() string { return r.resolveOnce().Message() },
		fn: func(s ParserState, k Continuation) {
			r.resolveOnce().Parse(s, k)
		},
	}
}
