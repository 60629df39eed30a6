package remote

import (
	"errors"
	"sync"

	"github.com/coroview/coroview/pkg/logflags"
	"github.com/sirupsen/logrus"
)

// ErrLoopClosed is returned by CommandLoop.Run after Close.
var ErrLoopClosed = errors.New("command loop closed")

type commandJob struct {
	fn   func() error
	done chan error
}

// CommandLoop serializes work onto a single goroutine, the logical
// command-processing thread of one debug connection. The remote
// protocol allows one command in flight at a time; funneling every
// remote access through the loop enforces that regardless of which
// goroutine a reconstruction request arrives on.
//
// Jobs submitted while another job is running queue in submission
// order. Run must not be called from inside a running job: nested
// remote accesses belong in the same job.
type CommandLoop struct {
	jobs chan commandJob

	closeOnce sync.Once
	closed    chan struct{}

	log *logrus.Entry
}

// NewCommandLoop starts the command-processing goroutine.
func NewCommandLoop() *CommandLoop {
	l := &CommandLoop{
		jobs:   make(chan commandJob),
		closed: make(chan struct{}),
		log:    logflags.RemoteWireLogger(),
	}
	go l.run()
	return l
}

func (l *CommandLoop) run() {
	for {
		select {
		case job := <-l.jobs:
			job.done <- l.safeCall(job.fn)
		case <-l.closed:
			// Drain jobs that raced with Close.
			for {
				select {
				case job := <-l.jobs:
					job.done <- ErrLoopClosed
				default:
					return
				}
			}
		}
	}
}

func (l *CommandLoop) safeCall(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			l.log.Errorf("panic on command thread: %v", p)
			err = errors.New("panic on command thread")
		}
	}()
	return fn()
}

// Run dispatches fn onto the command goroutine and blocks until it
// returns. A panic inside fn is recovered and reported as an error so
// a malformed target cannot take the loop down.
func (l *CommandLoop) Run(fn func() error) error {
	job := commandJob{fn: fn, done: make(chan error, 1)}
	select {
	case l.jobs <- job:
		return <-job.done
	case <-l.closed:
		return ErrLoopClosed
	}
}

// Close shuts the loop down. Jobs already queued fail with
// ErrLoopClosed; the currently running job completes.
func (l *CommandLoop) Close() {
	l.closeOnce.Do(func() {
		close(l.closed)
	})
}
