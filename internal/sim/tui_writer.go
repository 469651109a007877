package sim

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"iotsec-sim/internal/engine"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// classificationMsg carries one audit row into the TUI.
type classificationMsg struct{ engine.ClassificationRow }

// energyMsg carries one energy row into the TUI.
type energyMsg struct{ engine.EnergyRow }

const maxLogLines = 200

// TUIWriter renders the live run using a bubbletea TUI.
type TUIWriter struct {
	program teaProgram
	done    chan struct{}
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(allow *engine.AllowList) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	width, height := 100, 30
	if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = tw, th
	}
	m := newTUIModel(allow, width, height)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
	}()
	return w
}

// WriteClassification implements engine.ClassificationWriter.
func (w *TUIWriter) WriteClassification(row engine.ClassificationRow) error {
	w.program.Send(classificationMsg{row})
	return nil
}

// WriteEnergy implements engine.EnergyWriter.
func (w *TUIWriter) WriteEnergy(row engine.EnergyRow) error {
	w.program.Send(energyMsg{row})
	return nil
}

// Done is closed when the TUI program exits.
func (w *TUIWriter) Done() <-chan struct{} {
	return w.done
}

// Close quits the TUI and waits for the terminal to be restored.
func (w *TUIWriter) Close() error {
	w.program.Send(tea.Quit())
	<-w.done
	return nil
}

var (
	tuiHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tuiBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	tuiAuthStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	tuiUnauthStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	tuiEnergyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

type tuiModel struct {
	allow    *engine.AllowList
	counters engine.Counters
	samples  uint64

	remaining map[string]float64
	devices   table.Model
	log       viewport.Model
	lines     []string

	width  int
	height int
}

func newTUIModel(allow *engine.AllowList, width, height int) tuiModel {
	cols := []table.Column{
		{Title: "Device", Width: 18},
		{Title: "Remaining (J)", Width: 14},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(max(height-12, 5)))
	vp := viewport.New(max(width-42, 40), max(height-8, 10))
	return tuiModel{
		allow:     allow,
		remaining: make(map[string]float64),
		devices:   t,
		log:       vp,
		width:     width,
		height:    height,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.log.Width = max(m.width-42, 40)
		m.log.Height = max(m.height-8, 10)
		m.devices.SetHeight(max(m.height-12, 5))
		m.refreshLog()
	case classificationMsg:
		m.fold(msg.ClassificationRow)
	case energyMsg:
		m.observe(msg.EnergyRow)
	}
	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m *tuiModel) fold(row engine.ClassificationRow) {
	style := tuiAuthStyle
	if row.Verdict == string(engine.VerdictAuthorized) {
		m.counters.Authorized++
	} else {
		m.counters.Unauthorized++
		style = tuiUnauthStyle
	}
	m.counters.Received++
	line := fmt.Sprintf("[t=%.3fs] %s sender=%s size=%dB",
		row.SimTimeS, style.Render(row.Verdict), row.Sender, row.SizeBytes)
	m.appendLine(line)
}

func (m *tuiModel) observe(row engine.EnergyRow) {
	m.samples++
	m.remaining[row.DeviceID] = row.RemainingJ

	ids := make([]string, 0, len(m.remaining))
	for id := range m.remaining {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	rows := make([]table.Row, len(ids))
	for i, id := range ids {
		rows[i] = table.Row{id, fmt.Sprintf("%.4f", m.remaining[id])}
	}
	m.devices.SetRows(rows)

	line := fmt.Sprintf("[t=%.3fs] %s device=%s remaining=%.4fJ",
		row.SimTimeS, tuiEnergyStyle.Render("energy"), row.DeviceID, row.RemainingJ)
	m.appendLine(line)
}

func (m *tuiModel) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxLogLines {
		m.lines = m.lines[len(m.lines)-maxLogLines:]
	}
	m.refreshLog()
}

func (m *tuiModel) refreshLog() {
	content := ""
	for _, l := range m.lines {
		content += wordwrap.String(l, m.log.Width) + "\n"
	}
	m.log.SetContent(content)
	m.log.GotoBottom()
}

func (m tuiModel) View() string {
	header := tuiHeaderStyle.Render(fmt.Sprintf(
		"iotsec-sim  authorized=%d unauthorized=%d received=%d samples=%d allow-list=%d",
		m.counters.Authorized, m.counters.Unauthorized, m.counters.Received,
		m.samples, m.allow.Len()))
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		tuiBorderStyle.Render(m.log.View()),
		tuiBorderStyle.Render(m.devices.View()))
	footer := lipgloss.NewStyle().Faint(true).Render("q: quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
