package imageloader

import "sync"

// fifo is an unbounded queue drained by a single consumer.
type fifo struct {
	mu     sync.Mutex
	items  []task
	notify chan struct{}
	closed bool
}

func newFIFO() *fifo {
	return &fifo{notify: make(chan struct{}, 1)}
}

func (q *fifo) push(t task) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, t)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// pop blocks until a task is available. It returns false once the queue is
// closed.
func (q *fifo) pop() (task, bool) {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return task{}, false
		}
		if len(q.items) > 0 {
			t := q.items[0]
			q.items[0] = task{}
			q.items = q.items[1:]
			q.mu.Unlock()
			return t, true
		}
		q.mu.Unlock()
		<-q.notify
	}
}

// close rejects further pushes and hands back whatever was still queued.
func (q *fifo) close() []task {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	pending := q.items
	q.items = nil
	close(q.notify)
	return pending
}
