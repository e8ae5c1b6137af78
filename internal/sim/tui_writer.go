package sim

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"marops-sim/internal/colregs"
	"marops-sim/internal/config"
	"marops-sim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a telemetry log line for the viewport.
type logMsg struct{ line string }

// encounterMsg carries an encounter log line and row data.
type encounterMsg struct {
	line string
	row  telemetry.EncounterRow
}

type vesselMsg struct{ telemetry.VesselRow }

const maxLogLines = 1000

// TUIWriter renders telemetry and encounters using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.SimulationConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements TelemetryWriter.
func (w *TUIWriter) Write(row telemetry.VesselRow) error {
	roleColor := colorCyan
	if row.Role == telemetry.RoleOwnShip {
		roleColor = colorGreen
	}
	line := fmt.Sprintf("%s[%s]%s %sfleet=%s%s %svessel=%s%s %sclass=%s%s %sx=%.1f%s %sy=%.1f%s %shdg=%.1f%s %sspd=%.1f%s",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorBlue, row.FleetID, colorReset,
		roleColor, row.VesselID, colorReset,
		colorMagenta, row.Class, colorReset,
		colorGreen, row.X, colorReset,
		colorYellow, row.Y, colorReset,
		colorCyan, row.HeadingDeg, colorReset,
		colorYellow, row.SpeedMS, colorReset,
	)
	w.program.Send(logMsg{line: line})
	w.program.Send(vesselMsg{row})
	return nil
}

// WriteBatch outputs multiple vessel rows.
func (w *TUIWriter) WriteBatch(rows []telemetry.VesselRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteEncounter implements EncounterWriter. Fully safe pairs are dropped
// so the encounter pane only shows contacts worth watching.
func (w *TUIWriter) WriteEncounter(e telemetry.EncounterRow) error {
	if e.Encounter == colregs.EncounterSafe && e.RiskLevel == colregs.RiskSafe {
		return nil
	}
	rc := riskColor(e.RiskLevel)
	line := fmt.Sprintf("%s[%s]%s %s%s%s own=%s target=%s brg=%.1f rng=%.0f dcpa=%.0f",
		colorGray, e.Timestamp.Format(time.RFC3339), colorReset,
		rc, e.RiskLevel, colorReset,
		e.OwnShipID, e.TargetID, e.RelativeBearing, e.DistanceM, e.DCPAM)
	if e.Converging {
		line += fmt.Sprintf(" tcpa=%.0fs", e.TCPASeconds)
	}
	line += fmt.Sprintf(" %s%s%s", colorMagenta, e.Encounter, colorReset)
	w.program.Send(encounterMsg{line: line, row: e})
	return nil
}

// WriteEncounters outputs multiple encounter rows.
func (w *TUIWriter) WriteEncounters(rows []telemetry.EncounterRow) error {
	for _, e := range rows {
		_ = w.WriteEncounter(e)
	}
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tuiAlertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	tuiBorderStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(0, 1)
)

type tuiModel struct {
	cfg          *config.SimulationConfig
	table        table.Model
	vp           viewport.Model
	encVP        viewport.Model
	logs         []string
	encLogs      []string
	vessels      map[string]telemetry.VesselRow
	worst        map[string]telemetry.EncounterRow
	autoscroll   bool
	wrap         bool
	header       string
	headerHeight int
	height       int
}

func newTUIModel(cfg *config.SimulationConfig) tuiModel {
	cols := []table.Column{
		{Title: "Vessel", Width: 24},
		{Title: "Class", Width: 8},
		{Title: "X", Width: 10},
		{Title: "Y", Width: 10},
		{Title: "Hdg", Width: 6},
		{Title: "Spd", Width: 6},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(8))
	return tuiModel{
		cfg:        cfg,
		table:      t,
		vp:         viewport.New(0, 0),
		encVP:      viewport.New(0, 0),
		vessels:    make(map[string]telemetry.VesselRow),
		worst:      make(map[string]telemetry.EncounterRow),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.encVP.Width = msg.Width
		m.height = msg.Height
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewports()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewports()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
				m.encVP.GotoBottom()
			}
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
				m.encVP.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
				m.encVP.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
				m.encVP.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
				m.encVP.LineUp(10)
			}
			return m, nil
		}
		return m, nil
	case logMsg:
		m.logs = appendCapped(m.logs, msg.line)
		m.refreshViewports()
	case vesselMsg:
		m.vessels[msg.VesselID] = msg.VesselRow
		m.refreshTable()
	case encounterMsg:
		m.encLogs = appendCapped(m.encLogs, msg.line)
		row := msg.row
		cur, ok := m.worst[row.OwnShipID]
		if !ok || moreDangerous(row, cur) || cur.TargetID == row.TargetID {
			m.worst[row.OwnShipID] = row
		}
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewports()
	}
	return m, nil
}

func appendCapped(logs []string, line string) []string {
	logs = append(logs, line)
	if len(logs) > maxLogLines {
		logs = logs[len(logs)-maxLogLines:]
	}
	return logs
}

func (m *tuiModel) updateViewportHeight() {
	avail := m.height - m.headerHeight - m.table.Height() - 4
	if avail < 2 {
		avail = 2
	}
	m.vp.Height = avail / 2
	m.encVP.Height = avail - m.vp.Height
}

func (m *tuiModel) refreshViewports() {
	m.vp.SetContent(m.renderLog(m.logs))
	m.encVP.SetContent(m.renderLog(m.encLogs))
	if m.autoscroll {
		m.vp.GotoBottom()
		m.encVP.GotoBottom()
	}
}

func (m *tuiModel) renderLog(logs []string) string {
	content := ""
	for i, l := range logs {
		if i > 0 {
			content += "\n"
		}
		if m.wrap && m.vp.Width > 0 {
			l = wordwrap.String(l, m.vp.Width)
		}
		content += l
	}
	return content
}

func (m *tuiModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.vessels))
	for _, v := range m.vessels {
		rows = append(rows, table.Row{
			v.VesselID,
			v.Class,
			fmt.Sprintf("%.0f", v.X),
			fmt.Sprintf("%.0f", v.Y),
			fmt.Sprintf("%.0f", v.HeadingDeg),
			fmt.Sprintf("%.1f", v.SpeedMS),
		})
	}
	m.table.SetRows(rows)
}

// renderHeader shows the worst contact per own ship with the obligation
// text for its encounter type.
func (m *tuiModel) renderHeader() string {
	title := tuiTitleStyle.Render("marops-sim — COLREGS encounter watch")
	body := ""
	for own, e := range m.worst {
		line := fmt.Sprintf("%s: %s vs %s (rng %.0fm", own, e.Encounter, e.TargetID, e.DistanceM)
		if e.Converging {
			line += fmt.Sprintf(", tcpa %.0fs", e.TCPASeconds)
		}
		line += fmt.Sprintf(") risk=%s", e.RiskLevel)
		if e.RequiresAction {
			advice := colregs.ActionRequirement(e.Encounter)
			if m.vp.Width > 4 {
				advice = wordwrap.String(advice, m.vp.Width-4)
			}
			line = tuiAlertStyle.Render(line) + "\n" + advice
		}
		if body != "" {
			body += "\n"
		}
		body += line
	}
	if body == "" {
		body = "no active encounters"
	}
	return title + "\n" + tuiBorderStyle.Render(body)
}

func (m tuiModel) View() string {
	return m.header + "\n" +
		m.table.View() + "\n" +
		m.vp.View() + "\n" +
		m.encVP.View()
}
