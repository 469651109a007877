package main

import (
	"os"
	"sync"

	"iotsec-sim/internal/engine"
	"iotsec-sim/internal/sim"
)

// rowWriter combines the two row sinks the engine writes to.
type rowWriter interface {
	engine.ClassificationWriter
	engine.EnergyWriter
}

// newWriters sets up the row sinks based on flags and env vars. It returns
// the audit and energy writers and a cleanup function to close any resources.
// The cleanup is safe to call more than once.
func newWriters(allow *engine.AllowList, printOnly, jsonOut, useTUI bool, logFile string) (engine.ClassificationWriter, engine.EnergyWriter, func(), error) {
	cleanup := func() {}

	var base rowWriter
	if useTUI {
		tui := sim.NewTUIWriter(allow)
		base = tui
		cleanup = func() { tui.Close() }
	} else {
		w, err := baseWriter(allow, printOnly, jsonOut)
		if err != nil {
			return nil, nil, nil, err
		}
		base = w
	}

	if logFile == "" {
		return base, base, once(cleanup), nil
	}

	fw, err := sim.NewFileWriter(logFile+".audit", logFile+".energy")
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	mw := sim.NewMultiWriter(
		[]engine.ClassificationWriter{base, fw},
		[]engine.EnergyWriter{base, fw},
	)
	inner := cleanup
	cleanup = func() {
		fw.Close()
		inner()
	}
	return mw, mw, once(cleanup), nil
}

func once(f func()) func() {
	var o sync.Once
	return func() { o.Do(f) }
}

// baseWriter chooses the underlying writer based on the printOnly flag and
// env vars.
func baseWriter(allow *engine.AllowList, printOnly, jsonOut bool) (rowWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		if jsonOut {
			return &sim.StdoutWriter{}, nil
		}
		return sim.NewColorStdoutWriter(allow), nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	return sim.NewGreptimeDBWriter(endpoint, "public", engine.ClassificationTableName, engine.EnergyTableName)
}
