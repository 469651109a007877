// Engine ties the allow-list classifier and energy recorder behind the
// event-handler surface the simulation drivers call into.
package engine

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrDoubleFinalize is returned when Finalize is called again with inputs
// that differ from the first call. Recomputing against stale partial state
// is a caller bug, not something to paper over.
var ErrDoubleFinalize = errors.New("finalize already called with different inputs")

// ClassificationWriter receives one audit row per classified packet.
type ClassificationWriter interface {
	WriteClassification(ClassificationRow) error
}

// EnergyWriter receives one row per recorded energy sample.
type EnergyWriter interface {
	WriteEnergy(EnergyRow) error
}

// MetricsRecorder mirrors engine activity into an external metrics system.
type MetricsRecorder interface {
	ObserveClassification(Verdict)
	ObserveEnergySample(device Identity, remainingJ float64)
	ObserveMalformedEvent()
}

// Engine owns the per-run accumulator state. Instantiate one per run,
// register it with the event source, and discard it after the report.
type Engine struct {
	runID      string
	classifier *Classifier
	recorder   *Recorder
	audit      ClassificationWriter
	energy     EnergyWriter
	metrics    MetricsRecorder
	log        *slog.Logger
	now        func() time.Time

	mu        sync.Mutex
	finalized bool
	finalSent int
	finalInit map[Identity]float64
	final     RunSummary
}

// New creates an engine for one run. audit, energy, metrics, and trace may
// be nil to disable the respective side channel.
func New(runID string, allow *AllowList, trace TraceAppender, audit ClassificationWriter, energy EnergyWriter, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		runID:      runID,
		classifier: NewClassifier(allow),
		recorder:   NewRecorder(trace, log),
		audit:      audit,
		energy:     energy,
		log:        log,
		now:        time.Now,
	}
}

// SetMetrics attaches a metrics recorder. Call before the run starts.
func (e *Engine) SetMetrics(m MetricsRecorder) {
	e.metrics = m
}

// RunID returns the identifier of this run.
func (e *Engine) RunID() string {
	return e.runID
}

// OnPacketEvent classifies one packet arrival. Malformed events are
// rejected with a warning and leave the counters untouched.
func (e *Engine) OnPacketEvent(ev PacketEvent) (Verdict, error) {
	verdict, err := e.classifier.Classify(ev)
	if err != nil {
		e.log.Warn("rejecting packet event", "sender", ev.Sender, "err", err)
		if e.metrics != nil {
			e.metrics.ObserveMalformedEvent()
		}
		return "", err
	}

	e.log.Info("packet classified",
		"verdict", verdict,
		"sender", ev.Sender.Normalize(),
		"size_bytes", ev.SizeBytes,
		"sim_time_s", ev.At.Seconds())

	if e.metrics != nil {
		e.metrics.ObserveClassification(verdict)
	}
	if e.audit != nil {
		row := ClassificationRow{
			RunID:     e.runID,
			Sender:    string(ev.Sender.Normalize()),
			Verdict:   string(verdict),
			SizeBytes: ev.SizeBytes,
			SimTimeS:  ev.At.Seconds(),
			Timestamp: e.now().UTC(),
		}
		if err := e.audit.WriteClassification(row); err != nil {
			e.log.Warn("classification write failed", "sender", row.Sender, "err", err)
		}
	}
	return verdict, nil
}

// OnEnergySample records one remaining-energy reading.
func (e *Engine) OnEnergySample(s EnergySample) error {
	if err := e.recorder.Record(s); err != nil {
		e.log.Warn("rejecting energy sample", "device", s.Device, "err", err)
		if e.metrics != nil {
			e.metrics.ObserveMalformedEvent()
		}
		return err
	}

	if e.metrics != nil {
		e.metrics.ObserveEnergySample(s.Device.Normalize(), s.RemainingJ)
	}
	if e.energy != nil {
		row := EnergyRow{
			RunID:      e.runID,
			DeviceID:   string(s.Device.Normalize()),
			RemainingJ: s.RemainingJ,
			SimTimeS:   s.At.Seconds(),
			Timestamp:  e.now().UTC(),
		}
		if err := e.energy.WriteEnergy(row); err != nil {
			e.log.Warn("energy write failed", "device", row.DeviceID, "err", err)
		}
	}
	return nil
}

// Counters returns a snapshot of the classification counters.
func (e *Engine) Counters() Counters {
	return e.classifier.Counters()
}

// LatestRemaining returns a copy of the latest remaining-energy map.
func (e *Engine) LatestRemaining() map[Identity]float64 {
	return e.recorder.LatestRemaining()
}

// Finalize reduces the accumulated state into the run summary. Call exactly
// once, after the event source guarantees no further events. A second call
// with identical inputs returns the memoized summary; changed inputs are a
// contract violation and yield ErrDoubleFinalize.
func (e *Engine) Finalize(initialEnergyJ map[Identity]float64, intendedSent int) (RunSummary, error) {
	normalized := make(map[Identity]float64, len(initialEnergyJ))
	for device, j := range initialEnergyJ {
		normalized[device.Normalize()] = j
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finalized {
		if intendedSent == e.finalSent && sameEnergyMap(normalized, e.finalInit) {
			return e.final, nil
		}
		return RunSummary{}, ErrDoubleFinalize
	}

	e.final = summarize(e.runID, e.classifier.Counters(), e.recorder.LatestRemaining(), normalized, intendedSent)
	e.finalized = true
	e.finalSent = intendedSent
	e.finalInit = normalized
	return e.final, nil
}

func sameEnergyMap(a, b map[Identity]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}
