// Package runner is used to run parts of the ui once and only once.
package runner

import (
	"errors"
	"sync"
)

// ErrAlreadyRun is returned when a runner that is running or has finished is run again.
var ErrAlreadyRun = errors.New("already running or has finished running, it can only be run once")

// Runner is a thread-safe structure that can be run, finished, and queried.
// The zero value is ready to be run.
type Runner struct {
	runMu   sync.Mutex
	running bool
	runDone bool
	done    chan struct{}
}

// Run starts the running the runner.  If it already running or has finished, ErrAlreadyRun is returned.
func (r *Runner) Run() error {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	if r.running || r.runDone {
		return ErrAlreadyRun
	}
	r.running = true
	return nil
}

// Finish marks the runner as done, regardless if it ran.  Finishing more than once is a no-op.
func (r *Runner) Finish() {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	if r.runDone {
		return
	}
	r.running = false
	r.runDone = true
	close(r.doneChan())
}

// IsRunning determines if the runner is running
func (r *Runner) IsRunning() bool {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	return r.running
}

// Done returns a channel that is closed when the runner finishes.
func (r *Runner) Done() <-chan struct{} {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	return r.doneChan()
}

// doneChan lazily creates the done channel.  The lock must be held.
func (r *Runner) doneChan() chan struct{} {
	if r.done == nil {
		r.done = make(chan struct{})
	}
	return r.done
}
