package engine

import (
	"errors"
	"fmt"
	"sync"
)

// ErrMalformedEvent marks events missing a required field. The event is
// rejected without touching any counter; the run continues.
var ErrMalformedEvent = errors.New("malformed event")

// Counters is the accumulated classification state for one run.
// Received counts every classified packet regardless of verdict; it is the
// delivered tally used for the delivery ratio, not authorization accounting.
type Counters struct {
	Authorized   uint64 `json:"authorized"`
	Unauthorized uint64 `json:"unauthorized"`
	Received     uint64 `json:"received"`
}

// Classifier checks packet senders against the allow-list and accumulates
// per-run counters. Safe for concurrent use; the reference workload delivers
// events from a single goroutine but reuse outside it must not race.
type Classifier struct {
	allow *AllowList

	mu       sync.Mutex
	counters Counters
}

// NewClassifier creates a classifier with zeroed counters.
func NewClassifier(allow *AllowList) *Classifier {
	return &Classifier{allow: allow}
}

// Classify looks up the sender and folds the event into the counters.
// Classification is total: every well-formed event yields a verdict.
func (c *Classifier) Classify(ev PacketEvent) (Verdict, error) {
	if ev.Sender.Normalize() == "" {
		return "", fmt.Errorf("%w: packet event without sender", ErrMalformedEvent)
	}
	if ev.SizeBytes < 0 {
		return "", fmt.Errorf("%w: negative packet size %d", ErrMalformedEvent, ev.SizeBytes)
	}

	verdict := VerdictUnauthorized
	if c.allow.IsAuthorized(ev.Sender) {
		verdict = VerdictAuthorized
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch verdict {
	case VerdictAuthorized:
		c.counters.Authorized++
	default:
		c.counters.Unauthorized++
	}
	c.counters.Received++
	return verdict, nil
}

// Counters returns a snapshot of the accumulated counters.
func (c *Classifier) Counters() Counters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters
}
