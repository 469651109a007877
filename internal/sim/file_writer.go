package sim

import (
	"encoding/json"
	"os"

	"iotsec-sim/internal/engine"
)

// FileWriter writes classification and energy rows to JSONL files. The
// files stay open for the run's duration and are closed on all exit paths
// via Close.
type FileWriter struct {
	auditFile  *os.File
	energyFile *os.File
	auditEnc   *json.Encoder
	energyEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. auditPath or energyPath may be empty
// to skip that log.
func NewFileWriter(auditPath, energyPath string) (*FileWriter, error) {
	fw := &FileWriter{}
	if auditPath != "" {
		af, err := os.Create(auditPath)
		if err != nil {
			return nil, err
		}
		fw.auditFile = af
		fw.auditEnc = json.NewEncoder(af)
	}
	if energyPath != "" {
		ef, err := os.Create(energyPath)
		if err != nil {
			if fw.auditFile != nil {
				fw.auditFile.Close()
			}
			return nil, err
		}
		fw.energyFile = ef
		fw.energyEnc = json.NewEncoder(ef)
	}
	return fw, nil
}

// WriteClassification logs a single audit row, if enabled.
func (f *FileWriter) WriteClassification(row engine.ClassificationRow) error {
	if f.auditEnc == nil {
		return nil
	}
	return f.auditEnc.Encode(row)
}

// WriteClassifications logs multiple audit rows.
func (f *FileWriter) WriteClassifications(rows []engine.ClassificationRow) error {
	for _, r := range rows {
		if err := f.WriteClassification(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteEnergy logs a single energy row, if enabled.
func (f *FileWriter) WriteEnergy(row engine.EnergyRow) error {
	if f.energyEnc == nil {
		return nil
	}
	return f.energyEnc.Encode(row)
}

// WriteEnergies logs multiple energy rows.
func (f *FileWriter) WriteEnergies(rows []engine.EnergyRow) error {
	for _, r := range rows {
		if err := f.WriteEnergy(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.auditFile != nil {
		if e := f.auditFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.energyFile != nil {
		if e := f.energyFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
