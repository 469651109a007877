package sim

import "iotsec-sim/internal/engine"

// Optional: audit writers may support batch mode.
type batchClassificationWriter interface {
	WriteClassifications([]engine.ClassificationRow) error
}

// Optional: energy writers may support batch mode.
type batchEnergyWriter interface {
	WriteEnergies([]engine.EnergyRow) error
}

// RowWriter combines both writer roles; every concrete sink in this package
// implements it so one instance can serve a whole run.
type RowWriter interface {
	engine.ClassificationWriter
	engine.EnergyWriter
}
