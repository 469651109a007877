// ColorStdoutWriter prints human-friendly, colorized rows to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"

	"iotsec-sim/internal/engine"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints rows using ANSI colors, one line per event.
type ColorStdoutWriter struct {
	allow *engine.AllowList
	out   io.Writer
	once  sync.Once
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(allow *engine.AllowList) *ColorStdoutWriter {
	return &ColorStdoutWriter{allow: allow, out: os.Stdout}
}

func (w *ColorStdoutWriter) printOverview() {
	if w.allow == nil {
		return
	}
	fmt.Fprintf(w.out, "Allow-list (%d entries):\n", w.allow.Len())
	for _, id := range w.allow.Members() {
		fmt.Fprintf(w.out, "  %s%s%s\n", colorGreen, id, colorReset)
	}
	fmt.Fprintln(w.out)
}

// WriteClassification outputs a single audit row in colorized format.
func (w *ColorStdoutWriter) WriteClassification(row engine.ClassificationRow) error {
	w.once.Do(w.printOverview)

	verdictColor := colorGreen
	label := "AUTHORIZED"
	if row.Verdict != string(engine.VerdictAuthorized) {
		verdictColor = colorRed
		label = "UNAUTHORIZED"
	}
	fmt.Fprintf(w.out, "%s[t=%.3fs]%s %s%s%s %ssender=%s%s %ssize=%dB%s\n",
		colorGray, row.SimTimeS, colorReset,
		verdictColor, label, colorReset,
		colorBlue, row.Sender, colorReset,
		colorCyan, row.SizeBytes, colorReset)
	return nil
}

// WriteClassifications outputs multiple audit rows.
func (w *ColorStdoutWriter) WriteClassifications(rows []engine.ClassificationRow) error {
	for _, r := range rows {
		_ = w.WriteClassification(r)
	}
	return nil
}

// WriteEnergy outputs a single energy row in colorized format.
func (w *ColorStdoutWriter) WriteEnergy(row engine.EnergyRow) error {
	w.once.Do(w.printOverview)

	levelColor := colorGreen
	switch {
	case row.RemainingJ <= 0.05:
		levelColor = colorRed
	case row.RemainingJ <= 0.2:
		levelColor = colorYellow
	}
	fmt.Fprintf(w.out, "%s[t=%.3fs]%s %sENERGY%s %sdevice=%s%s %sremaining=%.4fJ%s\n",
		colorGray, row.SimTimeS, colorReset,
		colorMagenta, colorReset,
		colorBlue, row.DeviceID, colorReset,
		levelColor, row.RemainingJ, colorReset)
	return nil
}

// WriteEnergies outputs multiple energy rows.
func (w *ColorStdoutWriter) WriteEnergies(rows []engine.EnergyRow) error {
	for _, r := range rows {
		_ = w.WriteEnergy(r)
	}
	return nil
}
