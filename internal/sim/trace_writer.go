package sim

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"iotsec-sim/internal/engine"
)

// TraceWriter persists energy samples as an append-only CSV stream, one
// record per line: timestamp,device,remaining_joules. The file is opened
// once and held for the run's duration; each record is written unbuffered
// so a crash mid-run loses nothing already appended.
type TraceWriter struct {
	f *os.File
}

// NewTraceWriter opens (or creates) the trace file in append mode.
func NewTraceWriter(path string) (*TraceWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open energy trace: %w", err)
	}
	return &TraceWriter{f: f}, nil
}

// Append writes one sample record.
func (w *TraceWriter) Append(at time.Duration, device engine.Identity, remainingJ float64) error {
	line := strconv.FormatFloat(at.Seconds(), 'f', -1, 64) + "," +
		string(device) + "," +
		strconv.FormatFloat(remainingJ, 'f', -1, 64) + "\n"
	if _, err := w.f.WriteString(line); err != nil {
		return fmt.Errorf("append energy trace: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (w *TraceWriter) Close() error {
	return w.f.Close()
}
