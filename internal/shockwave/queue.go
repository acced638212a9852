package shockwave

import (
	"errors"
	"fmt"

	"shockwave/internal/job"
)

// ErrQueueFull is returned when a centre is enqueued at capacity. With the
// capacity tied to the cell count this only happens on a misconfigured
// spawn rate, so callers treat it as fatal.
var ErrQueueFull = errors.New("shockwave: centre queue full")

// CentreQueue is a bounded ring of active centres in insertion order.
//
// It does no locking of its own. The spawn path mutates it only from jobs
// chained on the spawn handle, and the frame path touches it only after
// that handle has completed, so the two never overlap.
type CentreQueue struct {
	buf   []WaveCentre
	head  int
	count int
}

// NewCentreQueue allocates a queue holding at most capacity centres.
func NewCentreQueue(capacity int) *CentreQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &CentreQueue{buf: make([]WaveCentre, capacity)}
}

// Cap returns the fixed capacity.
func (q *CentreQueue) Cap() int { return len(q.live()) }

// Depth returns the number of queued centres.
func (q *CentreQueue) Depth() int { return q.count }

// Enqueue appends c at the tail.
func (q *CentreQueue) Enqueue(c WaveCentre) error {
	buf := q.live()
	if q.count == len(buf) {
		return ErrQueueFull
	}
	buf[(q.head+q.count)%len(buf)] = c
	q.count++
	return nil
}

// TryDequeue removes and returns the oldest centre.
func (q *CentreQueue) TryDequeue() (WaveCentre, bool) {
	buf := q.live()
	if q.count == 0 {
		return WaveCentre{}, false
	}
	c := buf[q.head]
	buf[q.head] = WaveCentre{}
	q.head = (q.head + 1) % len(buf)
	q.count--
	return c, true
}

// TryRequeue puts an inspected centre back at the tail. It reports false
// when the queue is full.
func (q *CentreQueue) TryRequeue(c WaveCentre) bool {
	return q.Enqueue(c) == nil
}

// Clear drops every centre.
func (q *CentreQueue) Clear() {
	buf := q.live()
	for i := range buf {
		buf[i] = WaveCentre{}
	}
	q.head = 0
	q.count = 0
}

// Snapshot appends the queued centres to dst from oldest to newest.
func (q *CentreQueue) Snapshot(dst []WaveCentre) []WaveCentre {
	buf := q.live()
	for i := 0; i < q.count; i++ {
		dst = append(dst, buf[(q.head+i)%len(buf)])
	}
	return dst
}

// Release frees the backing storage. Any later use panics.
func (q *CentreQueue) Release() {
	q.buf = nil
	q.head = 0
	q.count = 0
}

func (q *CentreQueue) live() []WaveCentre {
	if q.buf == nil {
		panic("shockwave: use of released centre queue")
	}
	return q.buf
}

// VisitNewestToOldest calls fn for every queued centre starting with the most
// recently enqueued one. fn may modify the centre in place and the shared
// state value.
func VisitNewestToOldest[S any](q *CentreQueue, state S, fn func(c *WaveCentre, state S)) {
	buf := q.live()
	for i := q.count - 1; i >= 0; i-- {
		fn(&buf[(q.head+i)%len(buf)], state)
	}
}

// AsyncEnqueue appends c to q once dep has completed. The returned handle's
// error wraps ErrQueueFull on overflow and carries forward any error dep
// finished with, so a chain of spawns reports every overflow.
func AsyncEnqueue(s *job.Scheduler, q *CentreQueue, c WaveCentre, dep job.Handle) job.Handle {
	return s.Schedule(func() error {
		var err error
		if qerr := q.Enqueue(c); qerr != nil {
			err = fmt.Errorf("enqueue centre at (%.2f, %.2f): %w", c.X, c.Y, qerr)
		}
		return errors.Join(dep.Err(), err)
	}, dep)
}
