package sim

import (
	"bytes"
	"strings"
	"testing"

	"iotsec-sim/internal/engine"
)

func TestPrintSummary(t *testing.T) {
	s := engine.RunSummary{
		RunID:                  "run-test",
		IntendedSent:           18,
		Received:               16,
		Authorized:             16,
		Unauthorized:           0,
		DeliveryRatioPercent:   88.89,
		EnergyConsumedJ:        map[engine.Identity]float64{"iot-001": 0.2, "iot-002": 0.1},
		AverageEnergyConsumedJ: 0.15,
	}

	var buf bytes.Buffer
	PrintSummary(&buf, s)
	out := buf.String()

	for _, want := range []string{
		"--- Simulation Results ---",
		"run-test",
		"Packet delivery ratio (PDR):",
		"88.89 %",
		"Average energy consumption per device:",
		"150.00 mJ",
		"iot-001",
		"200.00 mJ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummary_NoEnergySection(t *testing.T) {
	s := engine.RunSummary{
		RunID:                "run-test",
		IntendedSent:         3,
		Received:             3,
		Authorized:           2,
		Unauthorized:         1,
		DeliveryRatioPercent: 100,
	}

	var buf bytes.Buffer
	PrintSummary(&buf, s)
	if strings.Contains(buf.String(), "Per-device energy consumed") {
		t.Errorf("energy section should be omitted without samples:\n%s", buf.String())
	}
}
