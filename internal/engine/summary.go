package engine

// RunSummary is the read-only view computed once at finalization.
type RunSummary struct {
	RunID                  string               `json:"run_id"`
	IntendedSent           int                  `json:"intended_sent"`
	Received               uint64               `json:"received"`
	Authorized             uint64               `json:"authorized"`
	Unauthorized           uint64               `json:"unauthorized"`
	DeliveryRatioPercent   float64              `json:"delivery_ratio_percent"`
	EnergyConsumedJ        map[Identity]float64 `json:"energy_consumed_j"`
	AverageEnergyConsumedJ float64              `json:"average_energy_consumed_j"`
}

// summarize reduces the accumulated state into a RunSummary.
// intendedSent is the externally supplied expected send count (nominal
// rate times active window in the reference scenarios), never inferred.
func summarize(runID string, counters Counters, latest map[Identity]float64, initial map[Identity]float64, intendedSent int) RunSummary {
	s := RunSummary{
		RunID:           runID,
		IntendedSent:    intendedSent,
		Received:        counters.Received,
		Authorized:      counters.Authorized,
		Unauthorized:    counters.Unauthorized,
		EnergyConsumedJ: make(map[Identity]float64, len(initial)),
	}

	if intendedSent > 0 {
		s.DeliveryRatioPercent = float64(counters.Received) / float64(intendedSent) * 100
	}

	var total float64
	for device, initialJ := range initial {
		device = device.Normalize()
		remaining, ok := latest[device]
		if !ok {
			// Never reported a lower value: consumed zero.
			remaining = initialJ
		}
		consumed := initialJ - remaining
		s.EnergyConsumedJ[device] = consumed
		total += consumed
	}
	if n := len(s.EnergyConsumedJ); n > 0 {
		s.AverageEnergyConsumedJ = total / float64(n)
	}
	return s
}
