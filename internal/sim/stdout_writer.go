// Writer implementation printing rows to STDOUT
package sim

import (
	"encoding/json"
	"fmt"

	"iotsec-sim/internal/engine"
)

// StdoutWriter prints rows to STDOUT as JSON lines.
type StdoutWriter struct{}

// WriteClassification outputs a single audit row.
func (w *StdoutWriter) WriteClassification(row engine.ClassificationRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteClassifications outputs multiple audit rows.
func (w *StdoutWriter) WriteClassifications(rows []engine.ClassificationRow) error {
	for _, r := range rows {
		_ = w.WriteClassification(r)
	}
	return nil
}

// WriteEnergy outputs a single energy row.
func (w *StdoutWriter) WriteEnergy(row engine.EnergyRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteEnergies outputs multiple energy rows.
func (w *StdoutWriter) WriteEnergies(rows []engine.EnergyRow) error {
	for _, r := range rows {
		_ = w.WriteEnergy(r)
	}
	return nil
}
