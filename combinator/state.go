package combinator

import "strings"

// Logger is the minimal sink ParserState.debug writes to. A real logger
// (see combinator/debuglog) or a discard implementation both satisfy it.
type Logger interface {
	Debugf(format string, args ...any)
}

// ParserState is an immutable cursor over an Input, together with the
// diagnostic plumbing (depth, debug sink) and the scheduler handle a run
// shares across every derived state. Values are never mutated after
// construction; every advancing combinator produces a new ParserState.
type ParserState struct {
	input     *Input
	pos       int
	endPos    int
	depth     int
	scheduler *Scheduler
	debug     Logger
}

// newRootState builds the state a run begins with: pos 0, endPos at the end
// of the buffer, depth 0.
func newRootState(input *Input, scheduler *Scheduler, debug Logger) ParserState {
	return ParserState{
		input:     input,
		pos:       0,
		endPos:    input.Len(),
		scheduler: scheduler,
		debug:     debug,
	}
}

// Input returns the shared input buffer.
func (s ParserState) Input() *Input { return s.input }

// Pos returns the current offset.
func (s ParserState) Pos() int { return s.pos }

// EndPos returns the exclusive upper bound for matching.
func (s ParserState) EndPos() int { return s.endPos }

// Depth returns the nesting counter, used only for debug output.
func (s ParserState) Depth() int { return s.depth }

// Remaining returns the text between pos and endPos.
func (s ParserState) Remaining() string {
	return s.input.Slice(s.pos, s.endPos)
}

// Advance returns a derived state n code points further along.
func (s ParserState) Advance(n int) ParserState {
	ns := s
	ns.pos += n
	if ns.pos > ns.endPos {
		panic("combinator: Advance past endPos")
	}
	return ns
}

// WithEndPos returns a derived state with a new exclusive upper bound, used
// by lookahead-flavored primitives that must not read past a limit.
func (s ParserState) WithEndPos(endPos int) ParserState {
	ns := s
	ns.endPos = endPos
	return ns
}

// deeper returns a derived state with depth+1, used when entering a nested
// combinator purely for debug-message indentation.
func (s ParserState) deeper() ParserState {
	ns := s
	ns.depth++
	return ns
}

// Equal reports whether two states reference the same input and share pos
// and endPos, per the data model's equality invariant.
func (s ParserState) Equal(o ParserState) bool {
	return s.input == o.input && s.pos == o.pos && s.endPos == o.endPos
}

// Debugf writes a diagnostic line to the state's debug sink, if any.
func (s ParserState) Debugf(format string, args ...any) {
	if s.debug != nil {
		s.debug.Debugf(format, args...)
	}
}

// trace writes an indented diagnostic line, indentation following depth, so
// nested combinator entry/exit lines read like a call tree. A no-op when no
// debug sink is attached.
func (s ParserState) trace(format string, args ...any) {
	if s.debug == nil {
		return
	}
	s.Debugf(strings.Repeat(". ", s.depth)+format, args...)
}

// Scheduler returns the run's shared job queue.
func (s ParserState) Scheduler() *Scheduler { return s.scheduler }
