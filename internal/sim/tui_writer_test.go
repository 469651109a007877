package sim

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"iotsec-sim/internal/engine"
)

// fakeProgram captures messages instead of driving a terminal.
type fakeProgram struct {
	msgs []tea.Msg
}

func (p *fakeProgram) Send(msg tea.Msg) {
	p.msgs = append(p.msgs, msg)
}

func TestTUIWriter_SendsRowsToProgram(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p, done: make(chan struct{})}

	row := engine.ClassificationRow{Sender: "10.1.1.3", Verdict: string(engine.VerdictUnauthorized)}
	if err := w.WriteClassification(row); err != nil {
		t.Fatalf("WriteClassification: %v", err)
	}
	sample := engine.EnergyRow{DeviceID: "iot-001", RemainingJ: 0.5}
	if err := w.WriteEnergy(sample); err != nil {
		t.Fatalf("WriteEnergy: %v", err)
	}

	if len(p.msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(p.msgs))
	}
	if got, ok := p.msgs[0].(classificationMsg); !ok || got.Sender != "10.1.1.3" {
		t.Errorf("unexpected first message: %#v", p.msgs[0])
	}
	if got, ok := p.msgs[1].(energyMsg); !ok || got.DeviceID != "iot-001" {
		t.Errorf("unexpected second message: %#v", p.msgs[1])
	}
}

func TestTUIModel_FoldsRows(t *testing.T) {
	m := newTUIModel(engine.NewAllowList("iot-001"), 100, 30)

	next, _ := m.Update(classificationMsg{engine.ClassificationRow{
		Sender: "10.1.1.3", Verdict: string(engine.VerdictUnauthorized), SizeBytes: 512, SimTimeS: 2.5,
	}})
	m = next.(tuiModel)
	next, _ = m.Update(energyMsg{engine.EnergyRow{DeviceID: "iot-001", RemainingJ: 0.42, SimTimeS: 3}})
	m = next.(tuiModel)

	if m.counters.Unauthorized != 1 || m.counters.Received != 1 {
		t.Errorf("unexpected counters: %+v", m.counters)
	}
	if m.samples != 1 || m.remaining["iot-001"] != 0.42 {
		t.Errorf("unexpected energy state: samples=%d remaining=%v", m.samples, m.remaining)
	}
	if len(m.devices.Rows()) != 1 {
		t.Errorf("expected 1 device row, got %d", len(m.devices.Rows()))
	}
}

func TestTUIModel_QuitKeys(t *testing.T) {
	m := newTUIModel(engine.NewAllowList(), 100, 30)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command for q")
	}
}
