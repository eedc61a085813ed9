package combinator

// Run begins a parse: it constructs an initial ParserState and a root
// ResultSet, drives the scheduler until the job queue is exhausted, and
// returns the result set. Every distinct top-level success parser produces
// along the way is appended to it, in the order the scheduler delivers
// them; listeners attached to the set (before, during, or after this call)
// receive each one as it arrives.
//
// Run does not require p to consume the whole input — a top-level success
// is any Ok result p's continuation receives, regardless of how much of
// the buffer remains unread. Callers that need full-input parses should
// wrap p with a trailing end-of-input check.
func Run(p Parser, input string) *ResultSet {
	return run(p, input, nil)
}

// RunWithLogger is Run with a debug sink wired into every derived
// ParserState, so combinator entry/exit and scheduler job dispatch are
// emitted through it as opaque trace strings.
func RunWithLogger(p Parser, input string, debug Logger) *ResultSet {
	return run(p, input, debug)
}

func run(p Parser, input string, debug Logger) *ResultSet {
	sched := NewScheduler()
	sched.debug = debug
	rs := NewResultSet(nil)
	rs.scheduler = sched

	in := NewInput(input)
	state := newRootState(in, sched, debug)

	p.Parse(state, func(r MatchResult) {
		if r.Ok {
			rs.Add(r.Value)
		}
	})
	sched.Run()
	return rs
}
