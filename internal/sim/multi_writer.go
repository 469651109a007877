package sim

import "iotsec-sim/internal/engine"

// MultiWriter fan-outs classification and energy rows to multiple writers.
type MultiWriter struct {
	auditWriters  []engine.ClassificationWriter
	energyWriters []engine.EnergyWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(aws []engine.ClassificationWriter, ews []engine.EnergyWriter) *MultiWriter {
	return &MultiWriter{auditWriters: aws, energyWriters: ews}
}

// WriteClassification sends an audit row to all audit writers.
func (mw *MultiWriter) WriteClassification(row engine.ClassificationRow) error {
	for _, w := range mw.auditWriters {
		if err := w.WriteClassification(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteClassifications sends multiple audit rows to all writers, using batch
// mode where supported.
func (mw *MultiWriter) WriteClassifications(rows []engine.ClassificationRow) error {
	for _, w := range mw.auditWriters {
		if bw, ok := w.(batchClassificationWriter); ok {
			if err := bw.WriteClassifications(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteClassification(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteEnergy sends an energy row to all energy writers.
func (mw *MultiWriter) WriteEnergy(row engine.EnergyRow) error {
	for _, w := range mw.energyWriters {
		if err := w.WriteEnergy(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteEnergies sends multiple energy rows to all writers, using batch mode
// where supported.
func (mw *MultiWriter) WriteEnergies(rows []engine.EnergyRow) error {
	for _, w := range mw.energyWriters {
		if bw, ok := w.(batchEnergyWriter); ok {
			if err := bw.WriteEnergies(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteEnergy(r); err != nil {
				return err
			}
		}
	}
	return nil
}
