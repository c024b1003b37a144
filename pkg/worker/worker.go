package worker

import (
	"time"

	"github.com/portalmesh/conduit/pkg/log"
)

// TickInterval is the coarse loop interval between stop-flag checks and Tick
// calls. It bounds cooperative cancellation latency; Tasks should keep Tick
// well under this order of magnitude.
const TickInterval = 100 * time.Millisecond

// Worker runs a Task on a dedicated goroutine with managed lifecycle
// signalling. The zero value is not usable; construct with New.
//
// A Worker is observable in three states: not-started (started clear, stopped
// set), running (started set, stopped clear), and stopped (stopped set). A
// stopped Worker may be started again only after Stop has returned.
type Worker struct {
	name   string
	task   Task
	logger log.Logger

	// done is the execution context handle: non-nil while the goroutine is
	// alive, closed when the body returns, cleared by Stop.
	done     chan struct{}
	internal Flag
	external *Flag
	synch    *Synch
	signals  StopSet

	started *Event
	stopped *Event
}

// New creates a Worker in the not-started state. The name labels log output.
// If logger is nil, a no-op logger is used.
func New(name string, task Task, logger log.Logger) *Worker {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Worker{
		name:    name,
		task:    task,
		logger:  logger,
		started: NewEvent(false),
		stopped: NewEvent(true),
	}
}

// Name returns the worker's label.
func (w *Worker) Name() string {
	return w.name
}

// Start spawns the worker goroutine and blocks until the Task's Setup has
// succeeded (returns true) or the body has exited without starting (returns
// false). The caller-owned external stop flag and the optional synch are
// borrowed for the running lifetime; both must outlive the Worker's run.
//
// Start returns ErrAlreadyStarted if the Worker has not been stopped since
// its previous Start; the Worker is then left as it was. It returns
// ErrAborted if a stop flag is already raised; the Worker is then left in the
// not-started state.
func (w *Worker) Start(external *Flag, synch *Synch) (bool, error) {
	if w.done != nil {
		return false, ErrAlreadyStarted
	}

	w.started.Reset()
	w.stopped.Reset()

	w.internal.Clear()
	w.external = external
	w.synch = synch
	w.signals = StopSet{&w.internal, external}

	if w.signals.Raised() {
		// Leave the Worker exactly as a full Stop would.
		w.stopped.Set()
		w.external = nil
		w.synch = nil
		return false, ErrAborted
	}

	done := make(chan struct{})
	w.done = done
	go func() {
		defer close(done)
		w.body()
	}()

	select {
	case <-w.started.Done():
	case <-w.stopped.Done():
	}

	started := w.started.IsSet()
	if !started {
		w.Stop()
	}
	return started, nil
}

// Stop raises the internal stop flag and joins the worker goroutine,
// waiting as long as the Task's current Tick takes. Idempotent, and safe to
// call in the not-started and stopped states.
func (w *Worker) Stop() {
	w.internal.Set()

	if w.done != nil {
		<-w.done
	}
	w.done = nil
	w.external = nil
	w.synch = nil
}

// IsRunning reports whether the worker has started and not yet stopped.
func (w *Worker) IsRunning() bool {
	return w.started.IsSet() && !w.stopped.IsSet()
}

// StoppedEvent exposes the latching stopped event so controllers can wait on
// several workers at once.
func (w *Worker) StoppedEvent() *Event {
	return w.stopped
}

// StopSignals exposes the composite stop-flag set. Valid only while running.
func (w *Worker) StopSignals() StopSet {
	return w.signals
}

// body is the worker goroutine. It owns the started/stopped events: started
// is set only after a successful Setup, stopped is set last, after Teardown.
func (w *Worker) body() {
	if w.synch != nil {
		w.synch.AnnounceStarted()
	}

	stoppingCleanly := false
	running := false

	// A stop flag raised before Setup aborts the body without ever setting
	// the started event; the vote below is then unclean.
	if !w.signals.Raised() {
		if w.callSetup() {
			w.started.Set()
			running = true
		}
	}

	for running {
		time.Sleep(TickInterval)

		if w.signals.Raised() {
			stoppingCleanly = true
			w.logger.Debug("stop signal raised", log.String("worker", w.name))
			break
		}
		if !w.callTick() {
			w.logger.Debug("tick requested stop", log.String("worker", w.name))
			break
		}
	}

	if w.synch != nil {
		w.synch.SubmitCleanVote(stoppingCleanly)

		// Only cleanly-stopping workers take part in the graceful phase.
		// A peer's unclean vote makes AwaitAllCleanVotes return false, and
		// we bail straight to Teardown.
		if stoppingCleanly {
			if w.synch.AwaitAllCleanVotes() {
				w.callStopImminent()
				w.synch.AnnounceReadyToStop()
				w.synch.AwaitAllReadyToStop()
			}
		}
	}

	w.callTeardown()
	w.stopped.Set()
}

func (w *Worker) callSetup() (ok bool) {
	defer w.recoverHook("setup", &ok)
	return w.task.Setup()
}

func (w *Worker) callTick() (ok bool) {
	defer w.recoverHook("tick", &ok)
	return w.task.Tick()
}

func (w *Worker) callStopImminent() {
	notifier, implemented := w.task.(StopNotifier)
	if !implemented {
		return
	}
	defer w.recoverHook("stop-imminent", nil)
	notifier.StopImminent()
}

func (w *Worker) callTeardown() {
	defer w.recoverHook("teardown", nil)
	w.task.Teardown()
}

// recoverHook absorbs a panic from a Task hook. Hook panics must never escape
// the worker goroutine; a recovered Setup or Tick reads as a false return.
func (w *Worker) recoverHook(hook string, ok *bool) {
	if r := recover(); r != nil {
		w.logger.Error("task hook panicked",
			log.String("worker", w.name),
			log.String("hook", hook),
			log.Any("panic", r),
		)
		if ok != nil {
			*ok = false
		}
	}
}
