// Package frame provides a per-tick callback queue with request/cancel
// semantics, driven by whatever calls Run once per display refresh.
package frame

import "github.com/iburimskiy/particle-field/internal/field"

// Queue is not safe for concurrent use; it lives on the game loop goroutine.
type Queue struct {
	next    field.FrameID
	pending map[field.FrameID]func()
	order   []field.FrameID
}

func NewQueue() *Queue {
	return &Queue{pending: make(map[field.FrameID]func())}
}

// RequestFrame schedules fn for the next Run.
func (q *Queue) RequestFrame(fn func()) field.FrameID {
	q.next++
	q.pending[q.next] = fn
	q.order = append(q.order, q.next)
	return q.next
}

// CancelFrame drops a pending request. Unknown or already-run ids are ignored.
func (q *Queue) CancelFrame(id field.FrameID) {
	delete(q.pending, id)
}

// Run invokes every callback that was pending when Run started, in request
// order. Callbacks requested while running wait for the next Run.
func (q *Queue) Run() int {
	due := q.order
	q.order = nil

	ran := 0
	for _, id := range due {
		fn, ok := q.pending[id]
		if !ok {
			continue
		}
		delete(q.pending, id)
		fn()
		ran++
	}
	return ran
}

// Pending reports how many requests are waiting.
func (q *Queue) Pending() int {
	return len(q.pending)
}
