package marketing

import (
	"sync"
	"sync/atomic"
)

const defaultQueueSize = 256

// runLoop executes everything the adapter does on a single goroutine,
// the same way the host app funnels UI work onto its main thread. State
// touched only from loop tasks needs no further synchronization.
type runLoop struct {
	tasks    chan func()
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once

	// dropped counts tasks rejected because the queue was full or the
	// loop had stopped.
	dropped atomic.Uint64
}

func newRunLoop(queueSize int) *runLoop {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &runLoop{
		tasks:  make(chan func(), queueSize),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (l *runLoop) start() {
	go l.run()
}

func (l *runLoop) run() {
	defer close(l.doneCh)
	for {
		select {
		case task := <-l.tasks:
			task()
		case <-l.stopCh:
			// Run whatever was queued before the stop signal.
			for {
				select {
				case task := <-l.tasks:
					task()
				default:
					return
				}
			}
		}
	}
}

// dispatch queues task for execution on the loop goroutine. It never
// blocks: when the queue is full or the loop has stopped the task is
// counted as dropped and false is returned.
func (l *runLoop) dispatch(task func()) bool {
	select {
	case <-l.stopCh:
		l.dropped.Add(1)
		return false
	default:
	}
	select {
	case l.tasks <- task:
		return true
	default:
		l.dropped.Add(1)
		return false
	}
}

// drain blocks until every task queued before the call has executed.
func (l *runLoop) drain() {
	done := make(chan struct{})
	if !l.dispatch(func() { close(done) }) {
		return
	}
	select {
	case <-done:
	case <-l.doneCh:
	}
}

// stop ends the loop after running the tasks already queued. Safe to
// call more than once.
func (l *runLoop) stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
	})
	<-l.doneCh
}
