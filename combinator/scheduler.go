package combinator

// job is a debug-labeled, zero-argument thunk sitting in a Scheduler's
// queue. The label is lazy so building it doesn't cost anything unless the
// caller actually inspects debug output.
type job struct {
	label func() string
	body  func()
}

// Scheduler owns the FIFO queue of pending jobs for a single run. It is
// single-threaded and cooperative: Run pops one job at a time and executes
// it to completion; a job may enqueue more jobs via AddJob. There is no
// parallelism and no preemption.
//
// The scheduler also doubles as the run's furthest-failure tracker: every
// Fail() constructed against a state carrying this scheduler is compared
// against the previous furthest failure by position. On a tie the later
// failure wins, so a wrapper that re-raises at the same position (such as
// Parser.OnFail) supplies the recorded message.
type Scheduler struct {
	queue []job
	head  int

	hasFurthest bool
	furthest    MatchResult

	debug Logger
}

// NewScheduler returns an empty scheduler ready to back one run.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// AddJob enqueues a job. label is evaluated lazily, only if something asks
// for it (e.g. a debug sink rendering the queue).
func (sc *Scheduler) AddJob(label func() string, body func()) {
	sc.queue = append(sc.queue, job{label: label, body: body})
}

// Run drains the queue, popping jobs in stable FIFO order and running each
// to completion. Jobs enqueued while running are picked up in turn. Each
// job's label is logged through the scheduler's debug sink, if any, right
// before it runs.
func (sc *Scheduler) Run() {
	for sc.head < len(sc.queue) {
		j := sc.queue[sc.head]
		sc.head++
		if sc.debug != nil {
			sc.debug.Debugf("job: %s", j.label())
		}
		j.body()
	}
}

// Pending reports how many jobs are still queued.
func (sc *Scheduler) Pending() int {
	return len(sc.queue) - sc.head
}

func (sc *Scheduler) noteFailure(r MatchResult) {
	if sc.hasFurthest && r.State.Pos() < sc.furthest.State.Pos() {
		return
	}
	sc.furthest = r
	sc.hasFurthest = true
}

// FurthestFailure returns the failure with the greatest pos observed across
// the run so far, for use as a "best" diagnostic when the result set never
// settles.
func (sc *Scheduler) FurthestFailure() (MatchResult, bool) {
	return sc.furthest, sc.hasFurthest
}
