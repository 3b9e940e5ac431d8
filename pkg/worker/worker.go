// Package worker runs engine operations on a single background goroutine
// so that a coordination goroutine (command loop, UI) never blocks on
// filesystem I/O. One goroutine means at most one mutating operation is in
// flight at a time, which is the serialization the engine requires of its
// callers.
package worker

import (
	"sync"
	"time"

	"github.com/arthur-debert/hangar/pkg/errors"
	"github.com/arthur-debert/hangar/pkg/logging"
)

// Task is a unit of work executed on the worker goroutine.
type Task func() error

// Queue executes submitted tasks one at a time, in submission order.
type Queue struct {
	tasks chan queuedTask

	closeOnce sync.Once
	done      chan struct{}
}

type queuedTask struct {
	name string
	run  Task
	res  chan error
}

// New starts a queue with room for size pending tasks. Submit blocks once
// the backlog is full.
func New(size int) *Queue {
	q := &Queue{
		tasks: make(chan queuedTask, size),
		done:  make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *Queue) loop() {
	logger := logging.GetLogger("worker")
	for task := range q.tasks {
		logger.Debug().Str("task", task.name).Msg("Running task")
		task.res <- task.run()
	}
	close(q.done)
}

// Submit enqueues a task and returns a channel that receives its result
// exactly once. Submitting to a closed queue panics, the same as sending on
// any closed channel.
func (q *Queue) Submit(name string, task Task) <-chan error {
	res := make(chan error, 1)
	q.tasks <- queuedTask{name: name, run: task, res: res}
	return res
}

// SubmitWait enqueues a task and blocks until it finishes or the timeout
// elapses. A timeout does not interrupt the task: the I/O keeps running on
// the worker goroutine to completion and its result is discarded. Callers
// get an ErrTimeout and must not assume the operation was rolled back.
func (q *Queue) SubmitWait(name string, task Task, timeout time.Duration) error {
	res := q.Submit(name, task)

	if timeout <= 0 {
		return <-res
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-res:
		return err
	case <-timer.C:
		return errors.Newf(errors.ErrTimeout, "task %s still running after %s", name, timeout).
			WithDetail("task", name)
	}
}

// Close stops accepting tasks and waits for the backlog to drain.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.tasks)
	})
	<-q.done
}
