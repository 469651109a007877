package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"iotsec-sim/internal/engine"
)

// EngineCollector bundles Prometheus metrics for a simulation run and
// satisfies the engine's MetricsRecorder interface.
type EngineCollector struct {
	gatherer prometheus.Gatherer

	Classifications *prometheus.CounterVec
	MalformedEvents prometheus.Counter
	EnergySamples   prometheus.Counter
	RemainingEnergy *prometheus.GaugeVec
}

// NewEngineCollector registers the engine metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	classifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "packets_classified_total",
		Help: "Total number of classified packet events, labeled by verdict.",
	}, []string{"verdict"})
	classifications, err := registerCounterVec(reg, classifications, "packets_classified_total")
	if err != nil {
		return nil, err
	}

	malformed, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "malformed_events_total",
		Help: "Total number of rejected malformed events.",
	}), "malformed_events_total")
	if err != nil {
		return nil, err
	}

	samples, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "energy_samples_total",
		Help: "Total number of accepted energy samples.",
	}), "energy_samples_total")
	if err != nil {
		return nil, err
	}

	remaining := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "device_remaining_energy_joules",
		Help: "Latest reported remaining energy per device.",
	}, []string{"device"})
	remaining, err = registerGaugeVec(reg, remaining, "device_remaining_energy_joules")
	if err != nil {
		return nil, err
	}

	return &EngineCollector{
		gatherer:        gatherer,
		Classifications: classifications,
		MalformedEvents: malformed,
		EnergySamples:   samples,
		RemainingEnergy: remaining,
	}, nil
}

// ObserveClassification counts one classified packet under its verdict.
func (c *EngineCollector) ObserveClassification(verdict engine.Verdict) {
	if c == nil || c.Classifications == nil {
		return
	}
	c.Classifications.WithLabelValues(string(verdict)).Inc()
}

// ObserveEnergySample counts an accepted sample and updates the device gauge.
func (c *EngineCollector) ObserveEnergySample(device engine.Identity, remainingJ float64) {
	if c == nil {
		return
	}
	if c.EnergySamples != nil {
		c.EnergySamples.Inc()
	}
	if c.RemainingEnergy != nil {
		c.RemainingEnergy.WithLabelValues(string(device)).Set(remainingJ)
	}
}

// ObserveMalformedEvent counts one rejected event.
func (c *EngineCollector) ObserveMalformedEvent() {
	if c == nil || c.MalformedEvents == nil {
		return
	}
	c.MalformedEvents.Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *EngineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
