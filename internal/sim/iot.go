// Energy/delivery scenario: a fleet of IoT devices sends constant-rate
// traffic to the access point while a linear radio energy model drains each
// device's budget and reports every level change.
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"iotsec-sim/internal/config"
	"iotsec-sim/internal/engine"
	"iotsec-sim/internal/logging"
)

// iotDevice holds runtime energy state for one simulated device.
type iotDevice struct {
	id         engine.Identity
	remainingJ float64
	depleted   bool
}

// IoTScenario drives the IoT energy/delivery demo.
type IoTScenario struct {
	cfg     *config.Scenario
	rand    *rand.Rand
	devices []*iotDevice
}

// NewIoTScenario creates the scenario driver and its device fleet. The
// random source is seeded from the config so runs are reproducible.
func NewIoTScenario(cfg *config.Scenario) *IoTScenario {
	s := &IoTScenario{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Run.Seed)),
	}
	fleet := cfg.Devices
	for i := 0; i < fleet.Count; i++ {
		s.devices = append(s.devices, &iotDevice{
			id:         engine.Identity(fmt.Sprintf("%s-%03d", fleet.Prefix, i+1)),
			remainingJ: fleet.InitialEnergyJ,
		})
	}
	return s
}

// DeviceIDs returns the identities of all devices in the fleet.
func (s *IoTScenario) DeviceIDs() []engine.Identity {
	ids := make([]engine.Identity, len(s.devices))
	for i, d := range s.devices {
		ids[i] = d.id
	}
	return ids
}

// AllowList authorizes the whole fleet; rogue traffic is the security
// scenario's concern.
func (s *IoTScenario) AllowList() *engine.AllowList {
	return engine.NewAllowList(s.DeviceIDs()...)
}

// InitialEnergy returns the per-device starting budget for finalization.
func (s *IoTScenario) InitialEnergy() map[engine.Identity]float64 {
	out := make(map[engine.Identity]float64, len(s.devices))
	for _, d := range s.devices {
		out[d.id] = s.cfg.Devices.InitialEnergyJ
	}
	return out
}

// Run schedules traffic and energy drain for every device, delivers the
// resulting events in timestamp order, and finalizes. The intended send
// count is the nominal rate times the active traffic window, matching how
// the reference setup estimates it; the aggregator never infers it.
func (s *IoTScenario) Run(ctx context.Context, eng *engine.Engine) (engine.RunSummary, error) {
	log := logging.FromContext(ctx)
	fleet := s.cfg.Devices
	window := seconds(s.cfg.Run.DurationS)
	sched := NewScheduler()

	txDurationS := float64(fleet.PacketSizeBytes*8) / fleet.DataRateBps
	txEnergyJ := fleet.TxCurrentA * fleet.SupplyVoltageV * txDurationS
	idleTickJ := fleet.IdleCurrentA * fleet.SupplyVoltageV // one joule-per-second tick
	sendInterval := seconds(1 / fleet.PacketRate)

	for _, dev := range s.devices {
		dev := dev

		var idleTick func(now time.Duration)
		idleTick = func(now time.Duration) {
			s.drain(eng, dev, idleTickJ, now)
			if next := now + time.Second; next <= window {
				sched.Schedule(next, idleTick)
			}
		}
		sched.Schedule(time.Second, idleTick)

		var send func(now time.Duration)
		send = func(now time.Duration) {
			if !dev.depleted {
				s.drain(eng, dev, txEnergyJ, now)
				if s.rand.Float64() >= fleet.LossRate {
					ev := engine.PacketEvent{
						Sender:    dev.id,
						SizeBytes: fleet.PacketSizeBytes,
						At:        now,
					}
					_, _ = eng.OnPacketEvent(ev)
				}
			}
			if next := now + sendInterval; next < window {
				sched.Schedule(next, send)
			}
		}
		sched.Schedule(seconds(fleet.TrafficStartS), send)
	}

	log.Info("starting energy run",
		"run_id", eng.RunID(),
		"devices", fleet.Count,
		"window_s", s.cfg.Run.DurationS,
		"packet_rate", fleet.PacketRate)

	if err := sched.Run(ctx, window); err != nil {
		return engine.RunSummary{}, err
	}

	intended := int(float64(fleet.Count) * fleet.PacketRate * (s.cfg.Run.DurationS - fleet.TrafficStartS))
	return eng.Finalize(s.InitialEnergy(), intended)
}

// drain deducts joules from the device and reports the new level. Depleted
// devices stay silent; they neither send nor report further samples.
func (s *IoTScenario) drain(eng *engine.Engine, dev *iotDevice, joules float64, now time.Duration) {
	if dev.depleted {
		return
	}
	dev.remainingJ -= joules
	if dev.remainingJ <= 0 {
		dev.remainingJ = 0
		dev.depleted = true
	}
	_ = eng.OnEnergySample(engine.EnergySample{
		Device:     dev.id,
		RemainingJ: dev.remainingJ,
		At:         now,
	})
}
