package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TraceAppender persists energy samples as an append-only trace, one record
// per sample, flushed per write. Implementations must tolerate being called
// for the whole run without reopening the underlying storage.
type TraceAppender interface {
	Append(at time.Duration, device Identity, remainingJ float64) error
}

// Recorder tracks remaining energy per device. Every sample is appended to
// the trace and folded into a latest-value map keyed by device identity.
// Samples arrive in timestamp order; for equal timestamps last call wins.
type Recorder struct {
	trace TraceAppender
	log   *slog.Logger

	mu     sync.Mutex
	latest map[Identity]float64
}

// NewRecorder creates a recorder. trace may be nil when no persistent trace
// is wanted (replay, tests).
func NewRecorder(trace TraceAppender, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{
		trace:  trace,
		log:    log,
		latest: make(map[Identity]float64),
	}
}

// Record folds one sample into the latest-energy map and appends it to the
// trace. A failed append is reported but never poisons the in-memory state:
// finalization stays correct even when the trace storage is gone.
func (r *Recorder) Record(s EnergySample) error {
	device := s.Device.Normalize()
	if device == "" {
		return fmt.Errorf("%w: energy sample without device", ErrMalformedEvent)
	}
	if s.RemainingJ < 0 {
		return fmt.Errorf("%w: negative remaining energy %f", ErrMalformedEvent, s.RemainingJ)
	}

	if r.trace != nil {
		if err := r.trace.Append(s.At, device, s.RemainingJ); err != nil {
			r.log.Warn("energy trace append failed", "device", device, "err", err)
		}
	}

	r.mu.Lock()
	r.latest[device] = s.RemainingJ
	r.mu.Unlock()
	return nil
}

// LatestRemaining returns a copy of the latest remaining-energy map.
func (r *Recorder) LatestRemaining() map[Identity]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[Identity]float64, len(r.latest))
	for k, v := range r.latest {
		out[k] = v
	}
	return out
}
