// Event and row types shared by the engine and its writers.
package engine

import (
	"os"
	"strings"
	"time"
)

// Identity is an opaque address value identifying a packet sender or an
// energy-reporting device. Comparisons happen on the canonical form only.
type Identity string

// Normalize returns the canonical form of an identity: trimmed and
// lower-cased. Allow-list construction and every lookup normalize first,
// so alternate textual renderings of the same address classify identically.
func (id Identity) Normalize() Identity {
	return Identity(strings.ToLower(strings.TrimSpace(string(id))))
}

// PacketEvent is one packet arrival observed at the intercept point.
// At is simulated time since run start.
type PacketEvent struct {
	Sender    Identity
	SizeBytes int
	At        time.Duration
}

// EnergySample is one remaining-energy reading for a device.
type EnergySample struct {
	Device     Identity
	RemainingJ float64
	At         time.Duration
}

// Verdict is the per-packet classification result.
type Verdict string

// Classification verdicts.
const (
	VerdictAuthorized   Verdict = "authorized"
	VerdictUnauthorized Verdict = "unauthorized"
)

// ClassificationRow represents one audit record for a classified packet.
type ClassificationRow struct {
	RunID     string    `json:"run_id"`     // TAG
	Sender    string    `json:"sender"`     // TAG
	Verdict   string    `json:"verdict"`    // FIELD
	SizeBytes int       `json:"size_bytes"` // FIELD
	SimTimeS  float64   `json:"sim_time_s"` // FIELD
	Timestamp time.Time `json:"ts"`         // TIME INDEX
}

// ClassificationTableName holds the table name used when writing audit rows
// to GreptimeDB. Defaults to "packet_audit" but can be overridden via the
// PACKET_AUDIT_TABLE environment variable.
var ClassificationTableName = func() string {
	if env := os.Getenv("PACKET_AUDIT_TABLE"); env != "" {
		return env
	}
	return "packet_audit"
}()

func (ClassificationRow) TableName() string {
	return ClassificationTableName
}

// EnergyRow represents one remaining-energy record for a device.
type EnergyRow struct {
	RunID      string    `json:"run_id"`      // TAG
	DeviceID   string    `json:"device_id"`   // TAG
	RemainingJ float64   `json:"remaining_j"` // FIELD
	SimTimeS   float64   `json:"sim_time_s"`  // FIELD
	Timestamp  time.Time `json:"ts"`          // TIME INDEX
}

// EnergyTableName holds the table name used when writing energy rows to
// GreptimeDB. Defaults to "device_energy" but can be overridden via the
// DEVICE_ENERGY_TABLE environment variable.
var EnergyTableName = func() string {
	if env := os.Getenv("DEVICE_ENERGY_TABLE"); env != "" {
		return env
	}
	return "device_energy"
}()

func (EnergyRow) TableName() string {
	return EnergyTableName
}
