// YAML scenario loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Run holds the bounded run window shared by both scenarios.
type Run struct {
	DurationS float64 `yaml:"duration_s"`
	Seed      int64   `yaml:"seed"`
}

// Sender defines one traffic source for the access-control scenario.
// Address is the sender identity the classifier sees.
type Sender struct {
	Address    string  `yaml:"address"`
	StartS     float64 `yaml:"start_s"`
	IntervalS  float64 `yaml:"interval_s"`
	Packets    int     `yaml:"packets"`
	SizeBytes  int     `yaml:"size_bytes"`
	Authorized bool    `yaml:"authorized"`
}

// DeviceFleet defines the device population for the energy scenario.
type DeviceFleet struct {
	Count           int     `yaml:"count"`
	Prefix          string  `yaml:"prefix"`
	InitialEnergyJ  float64 `yaml:"initial_energy_j"`
	PacketRate      float64 `yaml:"packet_rate"`
	PacketSizeBytes int     `yaml:"packet_size_bytes"`
	DataRateBps     float64 `yaml:"data_rate_bps"`
	TxCurrentA      float64 `yaml:"tx_current_a"`
	IdleCurrentA    float64 `yaml:"idle_current_a"`
	SupplyVoltageV  float64 `yaml:"supply_voltage_v"`
	TrafficStartS   float64 `yaml:"traffic_start_s"`
	LossRate        float64 `yaml:"loss_rate"`
}

// Scenario is the root configuration for one simulation run.
type Scenario struct {
	Run     Run         `yaml:"run"`
	Senders []Sender    `yaml:"senders"`
	Devices DeviceFleet `yaml:"devices"`
}

// AllowedAddresses returns the addresses of senders marked authorized.
// The energy scenario authorizes its whole fleet implicitly, so only the
// security senders contribute here.
func (s *Scenario) AllowedAddresses() []string {
	var out []string
	for _, snd := range s.Senders {
		if snd.Authorized {
			out = append(out, snd.Address)
		}
	}
	return out
}

// Load loads a YAML scenario and validates it against a CUE schema first.
func Load(configPath, cueSchemaPath string) (*Scenario, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Scenario
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Scenario) applyDefaults() {
	if s.Run.DurationS == 0 {
		s.Run.DurationS = 10
	}
	d := &s.Devices
	if d.Count > 0 {
		if d.Prefix == "" {
			d.Prefix = "iot"
		}
		if d.InitialEnergyJ == 0 {
			d.InitialEnergyJ = 1.0
		}
		if d.PacketRate == 0 {
			d.PacketRate = 1
		}
		if d.PacketSizeBytes == 0 {
			d.PacketSizeBytes = 512
		}
		if d.DataRateBps == 0 {
			d.DataRateBps = 6e6
		}
		if d.TxCurrentA == 0 {
			d.TxCurrentA = 0.2
		}
		if d.IdleCurrentA == 0 {
			d.IdleCurrentA = 0.005
		}
		if d.SupplyVoltageV == 0 {
			d.SupplyVoltageV = 3.0
		}
		if d.TrafficStartS == 0 {
			d.TrafficStartS = 1.0
		}
	}
}

func (s *Scenario) check() error {
	if s.Run.DurationS <= 0 {
		return fmt.Errorf("run.duration_s must be positive, got %f", s.Run.DurationS)
	}
	for i, snd := range s.Senders {
		if snd.Address == "" {
			return fmt.Errorf("senders[%d]: address is required", i)
		}
		if snd.Packets > 1 && snd.IntervalS <= 0 {
			return fmt.Errorf("senders[%d]: interval_s must be positive for multi-packet senders", i)
		}
		if snd.SizeBytes < 0 {
			return fmt.Errorf("senders[%d]: size_bytes must not be negative", i)
		}
	}
	d := s.Devices
	if d.Count < 0 {
		return fmt.Errorf("devices.count must not be negative, got %d", d.Count)
	}
	if d.Count > 0 && (d.LossRate < 0 || d.LossRate >= 1) {
		return fmt.Errorf("devices.loss_rate must be in [0,1), got %f", d.LossRate)
	}
	return nil
}
