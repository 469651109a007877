package sim

import (
	"context"
	"math"
	"reflect"
	"testing"

	"iotsec-sim/internal/config"
	"iotsec-sim/internal/engine"
)

func iotConfig() *config.Scenario {
	return &config.Scenario{
		Run: config.Run{DurationS: 10, Seed: 42},
		Devices: config.DeviceFleet{
			Count:           2,
			Prefix:          "iot",
			InitialEnergyJ:  1.0,
			PacketRate:      1,
			PacketSizeBytes: 512,
			DataRateBps:     6e6,
			TxCurrentA:      0.2,
			IdleCurrentA:    0.005,
			SupplyVoltageV:  3.0,
			TrafficStartS:   1.0,
		},
	}
}

func TestIoTScenario_LosslessDelivery(t *testing.T) {
	cfg := iotConfig()
	scenario := NewIoTScenario(cfg)
	eng := engine.New("run-test", scenario.AllowList(), nil, nil, nil, nil)

	summary, err := scenario.Run(context.Background(), eng)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Each device sends at t=1..9s: 9 packets, matching the nominal
	// rate x (duration - traffic start) estimate exactly.
	if summary.IntendedSent != 18 {
		t.Errorf("expected 18 intended packets, got %d", summary.IntendedSent)
	}
	if summary.Received != 18 {
		t.Errorf("expected all packets delivered without loss, got %d", summary.Received)
	}
	if summary.DeliveryRatioPercent != 100.0 {
		t.Errorf("expected 100%% PDR, got %f", summary.DeliveryRatioPercent)
	}
	if summary.Unauthorized != 0 {
		t.Errorf("fleet traffic should all be authorized, got %d unauthorized", summary.Unauthorized)
	}
}

func TestIoTScenario_EnergyAccounting(t *testing.T) {
	cfg := iotConfig()
	scenario := NewIoTScenario(cfg)
	eng := engine.New("run-test", scenario.AllowList(), nil, nil, nil, nil)

	summary, err := scenario.Run(context.Background(), eng)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// 10 idle ticks at 0.015 J plus 9 transmissions at
	// 0.2 A x 3 V x (512*8 / 6e6) s each.
	txEnergy := 0.2 * 3.0 * (512 * 8 / 6e6)
	want := 10*0.015 + 9*txEnergy

	if len(summary.EnergyConsumedJ) != 2 {
		t.Fatalf("expected consumption for 2 devices, got %d", len(summary.EnergyConsumedJ))
	}
	for device, consumed := range summary.EnergyConsumedJ {
		if math.Abs(consumed-want) > 1e-9 {
			t.Errorf("consumed[%s]: expected %f, got %f", device, want, consumed)
		}
	}
	if math.Abs(summary.AverageEnergyConsumedJ-want) > 1e-9 {
		t.Errorf("expected average %f, got %f", want, summary.AverageEnergyConsumedJ)
	}
}

func TestIoTScenario_SeededRunsAreReproducible(t *testing.T) {
	run := func() engine.RunSummary {
		cfg := iotConfig()
		cfg.Devices.LossRate = 0.3
		scenario := NewIoTScenario(cfg)
		eng := engine.New("run-test", scenario.AllowList(), nil, nil, nil, nil)
		summary, err := scenario.Run(context.Background(), eng)
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		return summary
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical summaries for equal seeds:\n%+v\n%+v", first, second)
	}
	if first.Received > 18 {
		t.Errorf("lossy run should not exceed intended packets: %+v", first)
	}
}

func TestIoTScenario_DeviceIdentities(t *testing.T) {
	scenario := NewIoTScenario(iotConfig())
	ids := scenario.DeviceIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 device IDs, got %d", len(ids))
	}
	if ids[0] != "iot-001" || ids[1] != "iot-002" {
		t.Errorf("unexpected device IDs: %v", ids)
	}
	initial := scenario.InitialEnergy()
	for _, id := range ids {
		if initial[id] != 1.0 {
			t.Errorf("expected 1.0 J initial for %s, got %f", id, initial[id])
		}
	}
}
