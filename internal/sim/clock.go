// Deterministic simulated-time event scheduler standing in for the external
// network-simulation framework's event loop.
package sim

import (
	"container/heap"
	"context"
	"time"
)

// Scheduler delivers scheduled callbacks in non-decreasing simulated time.
// Callbacks may schedule further events. All delivery happens on the
// goroutine that calls Run, so handlers see a single logical timeline.
type Scheduler struct {
	queue eventQueue
	seq   uint64
	now   time.Duration
}

// NewScheduler creates an empty scheduler at simulated time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current simulated time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Schedule registers fn to fire at simulated time at. Events with equal
// timestamps fire in schedule order.
func (s *Scheduler) Schedule(at time.Duration, fn func(now time.Duration)) {
	if at < s.now {
		at = s.now
	}
	s.seq++
	heap.Push(&s.queue, &scheduledEvent{at: at, seq: s.seq, fire: fn})
}

// Run delivers events until the queue drains or simulated time passes until.
// Cancellation is checked between events; the run window itself is bounded
// by until, matching the external driver's stop time.
func (s *Scheduler) Run(ctx context.Context, until time.Duration) error {
	for s.queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := heap.Pop(&s.queue).(*scheduledEvent)
		if ev.at > until {
			return nil
		}
		s.now = ev.at
		ev.fire(ev.at)
	}
	s.now = until
	return nil
}

type scheduledEvent struct {
	at   time.Duration
	seq  uint64
	fire func(now time.Duration)
}

type eventQueue []*scheduledEvent

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*scheduledEvent)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}

// seconds converts a fractional-seconds config value to a duration.
func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
