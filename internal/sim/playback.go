package sim

import (
	"encoding/json"
	"io"
	"os"

	"iotsec-sim/internal/engine"
)

// ReplayAuditLog replays recorded classification rows from r into eng as
// packet events. Returns the number of rows fed.
func ReplayAuditLog(r io.Reader, eng *engine.Engine) (int, error) {
	dec := json.NewDecoder(r)
	n := 0
	for {
		var row engine.ClassificationRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return n, nil
			}
			return n, err
		}
		ev := engine.PacketEvent{
			Sender:    engine.Identity(row.Sender),
			SizeBytes: row.SizeBytes,
			At:        seconds(row.SimTimeS),
		}
		// Rejected rows are warned about by the engine and skipped.
		_, _ = eng.OnPacketEvent(ev)
		n++
	}
}

// ReplayEnergyLog replays recorded energy rows from r into eng.
func ReplayEnergyLog(r io.Reader, eng *engine.Engine) (int, error) {
	dec := json.NewDecoder(r)
	n := 0
	for {
		var row engine.EnergyRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return n, nil
			}
			return n, err
		}
		sample := engine.EnergySample{
			Device:     engine.Identity(row.DeviceID),
			RemainingJ: row.RemainingJ,
			At:         seconds(row.SimTimeS),
		}
		_ = eng.OnEnergySample(sample)
		n++
	}
}

// ReplayLogFiles opens the recorded JSONL logs and replays them through a
// fresh engine. Either path may be empty.
func ReplayLogFiles(auditPath, energyPath string, eng *engine.Engine) error {
	if auditPath != "" {
		f, err := os.Open(auditPath)
		if err != nil {
			return err
		}
		_, err = ReplayAuditLog(f, eng)
		f.Close()
		if err != nil {
			return err
		}
	}
	if energyPath != "" {
		f, err := os.Open(energyPath)
		if err != nil {
			return err
		}
		_, err = ReplayEnergyLog(f, eng)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
