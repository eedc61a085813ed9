package combinator

import (
	"fmt"

	"github.com/pkg/errors"
)

// GrammarError is the engine's fatal, non-recoverable condition: a grammar
// construct that cannot possibly be executed correctly,
// such as a Repeat iterating a sub-parser that matched without advancing
// pos. It is distinct from a parse failure (MatchResult{Ok: false}), which
// is an ordinary, recoverable outcome that Optional/Alt/Repeat handle as
// part of normal operation.
//
// Repeat and Reduce raise GrammarError by panicking with it; it is meant to
// terminate the run outright rather than be caught by any combinator, so
// callers that want to distinguish it from a programming-language panic
// should recover at the Run() call site and use errors.As.
type GrammarError struct {
	Pos     int
	Message string
	cause   error
}

// NewGrammarError builds a GrammarError anchored at state's position.
func NewGrammarError(state ParserState, message string) *GrammarError {
	return &GrammarError{
		Pos:     state.Pos(),
		Message: message,
		cause:   errors.WithStack(fmt.Errorf("%s", message)),
	}
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("grammar error at position %d: %s", e.Pos, e.Message)
}

// Unwrap exposes the stack-annotated cause for errors.As/errors.Is chains.
func (e *GrammarError) Unwrap() error {
	return e.cause
}

// Recover turns a panic value into an error, preserving *GrammarError
// identity so callers can errors.As it out of a recovered Run(). Any other
// panic value is wrapped into a plain error rather than silently dropped.
func Recover(recovered any) error {
	if recovered == nil {
		return nil
	}
	if ge, ok := recovered.(*GrammarError); ok {
		return ge
	}
	if err, ok := recovered.(error); ok {
		return errors.WithStack(err)
	}
	return errors.Errorf("combinator: panic: %v", recovered)
}
