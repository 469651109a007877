package sim

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"iotsec-sim/internal/engine"
)

func TestReplayAuditLog(t *testing.T) {
	log := strings.Join([]string{
		`{"run_id":"run-1","sender":"10.1.1.2","verdict":"authorized","size_bytes":1024,"sim_time_s":2}`,
		`{"run_id":"run-1","sender":"10.1.1.3","verdict":"unauthorized","size_bytes":512,"sim_time_s":2.5}`,
	}, "\n")

	allow := engine.NewAllowList("10.1.1.2")
	eng := engine.New("replay", allow, nil, nil, nil, nil)
	n, err := ReplayAuditLog(strings.NewReader(log), eng)
	if err != nil {
		t.Fatalf("ReplayAuditLog: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows replayed, got %d", n)
	}
	counters := eng.Counters()
	if counters.Authorized != 1 || counters.Unauthorized != 1 || counters.Received != 2 {
		t.Errorf("unexpected counters after replay: %+v", counters)
	}
}

func TestReplayEnergyLog(t *testing.T) {
	log := strings.Join([]string{
		`{"run_id":"run-1","device_id":"iot-001","remaining_j":0.9,"sim_time_s":1}`,
		`{"run_id":"run-1","device_id":"iot-001","remaining_j":0.8,"sim_time_s":2}`,
		`{"run_id":"run-1","device_id":"iot-002","remaining_j":0.7,"sim_time_s":2}`,
	}, "\n")

	eng := engine.New("replay", engine.NewAllowList(), nil, nil, nil, nil)
	n, err := ReplayEnergyLog(strings.NewReader(log), eng)
	if err != nil {
		t.Fatalf("ReplayEnergyLog: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 rows replayed, got %d", n)
	}
	latest := eng.LatestRemaining()
	if latest["iot-001"] != 0.8 || latest["iot-002"] != 0.7 {
		t.Errorf("unexpected latest readings: %v", latest)
	}
}

func TestReplayLogFiles(t *testing.T) {
	dir := t.TempDir()
	auditPath := filepath.Join(dir, "audit.json")
	energyPath := filepath.Join(dir, "energy.json")
	auditLog := `{"run_id":"run-1","sender":"10.1.1.2","verdict":"authorized","size_bytes":1024,"sim_time_s":2}` + "\n"
	energyLog := `{"run_id":"run-1","device_id":"iot-001","remaining_j":0.9,"sim_time_s":1}` + "\n"
	if err := os.WriteFile(auditPath, []byte(auditLog), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(energyPath, []byte(energyLog), 0o644); err != nil {
		t.Fatal(err)
	}

	eng := engine.New("replay", engine.NewAllowList("10.1.1.2"), nil, nil, nil, nil)
	if err := ReplayLogFiles(auditPath, energyPath, eng); err != nil {
		t.Fatalf("ReplayLogFiles: %v", err)
	}
	if eng.Counters().Received != 1 {
		t.Errorf("expected 1 packet replayed, got %+v", eng.Counters())
	}
	if eng.LatestRemaining()["iot-001"] != 0.9 {
		t.Errorf("expected energy reading replayed, got %v", eng.LatestRemaining())
	}
}

func TestReplayAuditLog_SkipsMalformedRows(t *testing.T) {
	log := strings.Join([]string{
		`{"run_id":"run-1","sender":"","verdict":"authorized","size_bytes":1024,"sim_time_s":2}`,
		`{"run_id":"run-1","sender":"10.1.1.2","verdict":"authorized","size_bytes":1024,"sim_time_s":3}`,
	}, "\n")

	eng := engine.New("replay", engine.NewAllowList("10.1.1.2"), nil, nil, nil, nil)
	n, err := ReplayAuditLog(strings.NewReader(log), eng)
	if err != nil {
		t.Fatalf("ReplayAuditLog: %v", err)
	}
	if n != 2 {
		t.Errorf("expected both rows consumed, got %d", n)
	}
	if eng.Counters().Received != 1 {
		t.Errorf("malformed row must not count, got %+v", eng.Counters())
	}
}
