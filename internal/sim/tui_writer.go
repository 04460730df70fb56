package sim

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"rocketintel-sim/internal/analysis"
	"rocketintel-sim/internal/config"
	"rocketintel-sim/internal/scenario"
	"rocketintel-sim/internal/telemetry"
)

// AdminStatusWriter is implemented by writers that display whether the
// admin server is listening.
type AdminStatusWriter interface {
	SetAdminStatus(active bool)
}

// FaultInjector applies a fault to a vehicle.
type FaultInjector func(vehicleID string, f scenario.Fault) error

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a log line for the viewport.
type logMsg struct{ line string }

// analysisMsg carries a rendered analysis and its row.
type analysisMsg struct {
	line string
	row  telemetry.AnalysisRow
}

// adminMsg reports admin UI status.
type adminMsg struct{ active bool }

type setInjectorMsg struct{ fn FaultInjector }
type telemetryMsg struct{ telemetry.TelemetryRow }

const (
	maxLogLines         = 1000
	maxSectionHeightPct = 0.3
)

// TUIWriter renders telemetry using a bubbletea TUI.
type TUIWriter struct {
	program       teaProgram
	vehicleColors map[string]string
	colorIdx      int
	mu            sync.Mutex
	done          chan struct{}
	sendSignal    atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.SimulationConfig) *TUIWriter {
	w := &TUIWriter{vehicleColors: make(map[string]string), done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
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

func (w *TUIWriter) getVehicleColor(id string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c, ok := w.vehicleColors[id]; ok {
		return c
	}
	c := vehiclePalette[w.colorIdx%len(vehiclePalette)]
	w.vehicleColors[id] = c
	w.colorIdx++
	return c
}

// Write implements TelemetryWriter.
func (w *TUIWriter) Write(row telemetry.TelemetryRow) error {
	vColor := w.getVehicleColor(row.VehicleID)
	line := fmt.Sprintf("%s[%s]%s %s%s/%s%s %sphase=%s%s %salt=%.1fkm%s %sspd=%.0fm/s%s %sfuel=%.1f%%%s %stemp=%.0fC%s %sthrust=%.0f%%%s %sstatus=%s%s",
		colorGray, analysis.MissionClock(row.MissionTime), colorReset,
		vColor, row.RocketID, shortID(row.VehicleID), colorReset,
		colorBlue, row.Phase, colorReset,
		colorWhite, row.Altitude/1000, colorReset,
		colorYellow, row.Speed, colorReset,
		severityColor(row.Anomaly.Fuel), row.Fuel, colorReset,
		severityColor(row.Anomaly.Temperature), row.Temperature, colorReset,
		severityColor(row.Anomaly.Engine), row.ThrustMultiplier*100, colorReset,
		severityColor(row.Anomaly.Overall), row.Anomaly.Overall, colorReset,
	)
	w.program.Send(logMsg{line: line})
	w.program.Send(telemetryMsg{row})
	return nil
}

// WriteBatch outputs multiple telemetry rows.
func (w *TUIWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteAnalysis implements AnalysisWriter.
func (w *TUIWriter) WriteAnalysis(row telemetry.AnalysisRow) error {
	vColor := w.getVehicleColor(row.VehicleID)
	line := fmt.Sprintf("%s[%s]%s %s%s%s risk=%s%s%s",
		colorGray, analysis.MissionClock(row.MissionTime), colorReset,
		vColor, shortID(row.VehicleID), colorReset,
		riskColor(analysis.Risk(row.OverallRisk)), row.OverallRisk, colorReset)
	if len(row.Recommendations) > 0 {
		line += " " + strings.Join(row.Recommendations, "; ")
	}
	w.program.Send(analysisMsg{line: line, row: row})
	return nil
}

// SetAdminStatus updates the admin UI indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// SetFaultInjector registers the callback behind the fault dialog.
func (w *TUIWriter) SetFaultInjector(fn FaultInjector) {
	w.program.Send(setInjectorMsg{fn: fn})
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

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type tuiModel struct {
	cfg          *config.SimulationConfig
	table        table.Model
	vp           viewport.Model
	anaVP        viewport.Model
	logs         []string
	anaLogs      []string
	order        []string
	latest       map[string]telemetry.TelemetryRow
	risks        map[string]string
	admin        bool
	wrap         bool
	autoscroll   bool
	help         bool
	faultDialog  bool
	faultInput   textinput.Model
	inject       FaultInjector
	header       string
	headerHeight int
	height       int
}

func newTUIModel(cfg *config.SimulationConfig) tuiModel {
	cols := []table.Column{
		{Title: "Vehicle", Width: 10},
		{Title: "Rocket", Width: 14},
		{Title: "Phase", Width: 17},
		{Title: "Clock", Width: 8},
		{Title: "Alt (km)", Width: 9},
		{Title: "Fuel %", Width: 7},
		{Title: "Thrust", Width: 7},
		{Title: "Status", Width: 9},
		{Title: "Risk", Width: 9},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(MaxVehicles+1))
	return tuiModel{
		cfg:        cfg,
		table:      t,
		vp:         viewport.New(0, 0),
		anaVP:      viewport.New(0, 0),
		latest:     make(map[string]telemetry.TelemetryRow),
		risks:      make(map[string]string),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.anaVP.Width = msg.Width
		m.height = msg.Height
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
		m.refreshAnalysis()
	case tea.KeyMsg:
		if m.faultDialog {
			switch msg.Type {
			case tea.KeyEnter:
				m.faultDialog = false
				m.updateViewportHeight()
				id, fault, err := m.parseFaultInput(m.faultInput.Value())
				if err != nil {
					m.appendLog(fmt.Sprintf("%sfault rejected: %v%s", colorRed, err, colorReset))
					return m, nil
				}
				return m, m.injectCmd(id, fault)
			case tea.KeyEsc:
				m.faultDialog = false
				m.updateViewportHeight()
			default:
				var cmd tea.Cmd
				m.faultInput, cmd = m.faultInput.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
				m.updateViewportHeight()
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			m.refreshAnalysis()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
				m.anaVP.GotoBottom()
			}
			return m, nil
		case "f":
			m.faultInput = textinput.New()
			m.faultInput.Placeholder = "vehicle,fault"
			val := string(scenario.FaultThrustDecay)
			if len(m.order) > 0 {
				val = "1," + val
			}
			m.faultInput.SetValue(val)
			m.faultInput.CursorEnd()
			m.faultInput.Focus()
			m.faultDialog = true
			m.updateViewportHeight()
			return m, nil
		case "h", "?":
			m.help = !m.help
			m.updateViewportHeight()
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
				m.anaVP.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
				m.anaVP.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
				m.anaVP.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
				m.anaVP.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				m.anaVP, _ = m.anaVP.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		return m, nil
	case logMsg:
		m.appendLog(msg.line)
	case analysisMsg:
		m.anaLogs = append(m.anaLogs, msg.line)
		if len(m.anaLogs) > maxLogLines {
			m.anaLogs = m.anaLogs[len(m.anaLogs)-maxLogLines:]
		}
		m.risks[msg.row.VehicleID] = msg.row.OverallRisk
		m.refreshTable()
		m.updateViewportHeight()
		m.refreshAnalysis()
		m.refreshViewport()
	case telemetryMsg:
		if _, ok := m.latest[msg.VehicleID]; !ok {
			m.order = append(m.order, msg.VehicleID)
		}
		m.latest[msg.VehicleID] = msg.TelemetryRow
		m.refreshTable()
	case adminMsg:
		m.admin = msg.active
	case setInjectorMsg:
		m.inject = msg.fn
	}
	return m, nil
}

func (m *tuiModel) appendLog(line string) {
	m.logs = append(m.logs, line)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
	m.refreshViewport()
}

// parseFaultInput accepts "<vehicle>,<fault>" where vehicle is a table row
// number, a full id or an id prefix.
func (m tuiModel) parseFaultInput(val string) (string, scenario.Fault, error) {
	parts := strings.Split(val, ",")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("expected vehicle,fault")
	}
	fault, err := scenario.ParseFault(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", err
	}
	ref := strings.TrimSpace(parts[0])
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(m.order) {
			return "", "", fmt.Errorf("no vehicle in row %d", n)
		}
		return m.order[n-1], fault, nil
	}
	for _, id := range m.order {
		if strings.HasPrefix(id, ref) {
			return id, fault, nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrUnknownVehicle, ref)
}

func (m tuiModel) injectCmd(id string, fault scenario.Fault) tea.Cmd {
	inject := m.inject
	return func() tea.Msg {
		if inject == nil {
			return logMsg{line: fmt.Sprintf("%sfault injection unavailable%s", colorRed, colorReset)}
		}
		if err := inject(id, fault); err != nil {
			return logMsg{line: fmt.Sprintf("%sfault %s on %s failed: %v%s", colorRed, fault, shortID(id), err, colorReset)}
		}
		return logMsg{line: fmt.Sprintf("%sFAULT%s %s injected on %s", colorRed, colorReset, fault, shortID(id))}
	}
}

func (m *tuiModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.order))
	for _, id := range m.order {
		r := m.latest[id]
		risk := m.risks[id]
		if risk == "" {
			risk = "-"
		}
		rows = append(rows, table.Row{
			shortID(id),
			r.RocketID,
			r.Phase.String(),
			analysis.MissionClock(r.MissionTime),
			fmt.Sprintf("%.1f", r.Altitude/1000),
			fmt.Sprintf("%.1f", r.Fuel),
			fmt.Sprintf("%.0f%%", r.ThrustMultiplier*100),
			r.Anomaly.Overall.String(),
			risk,
		})
	}
	m.table.SetRows(rows)
	m.header = m.renderHeader()
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())

	anaLines := len(m.anaLogs)
	if anaLines == 0 {
		anaLines = 1
	}
	if limit := m.maxSectionLines(); anaLines > limit {
		anaLines = limit
	}
	m.anaVP.Height = anaLines

	dialogHeight := 0
	if m.faultDialog {
		dialogHeight = 2
	}
	h := m.height - m.headerHeight - bottomHeight - (1 + m.anaVP.Height) - dialogHeight - 3
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.anaVP.GotoBottom()
		m.vp.GotoBottom()
	}
}

func (m tuiModel) wrapLines(src []string, width int) string {
	if !m.wrap {
		return strings.Join(src, "\n")
	}
	lines := make([]string, 0, len(src))
	for _, l := range src {
		lines = append(lines, wordwrap.String(l, width))
	}
	return strings.Join(lines, "\n")
}

func (m *tuiModel) refreshViewport() {
	m.vp.SetContent(m.wrapLines(m.logs, m.vp.Width))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshAnalysis() {
	content := "none"
	if len(m.anaLogs) > 0 {
		content = m.wrapLines(m.anaLogs, m.anaVP.Width)
	}
	m.anaVP.SetContent(content)
	if m.autoscroll {
		m.anaVP.GotoBottom()
	}
}

func (m tuiModel) maxSectionLines() int {
	h := int(float64(m.height) * maxSectionHeightPct)
	if h < 1 {
		h = 1
	}
	return h
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	sections := []string{
		m.header,
		divider,
		m.vp.View(),
		divider,
		"Analysis:",
		m.anaVP.View(),
	}
	if m.faultDialog {
		sections = append(sections, divider, "Inject fault (vehicle,thrust_decay|guidance_glitch):", m.faultInput.View())
	}
	sections = append(sections, divider, m.renderBottom())
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	return m.table.View()
}

func indicator(on bool) string {
	c := lipgloss.Color("9")
	if on {
		c = lipgloss.Color("10")
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func (m tuiModel) renderBottom() string {
	run := ""
	if m.cfg != nil {
		run = fmt.Sprintf("%sRUN%s %s%s%s %sscale=%.1f%s ",
			colorBlue, colorReset,
			colorGray, shortID(m.cfg.RunID), colorReset,
			colorCyan, m.cfg.TimeScale, colorReset)
	}
	return fmt.Sprintf("%s%svehicles=%d%s | Admin UI %s | Wrap %s | Scroll %s | Help %s",
		run, colorGreen, len(m.order), colorReset,
		indicator(m.admin), indicator(m.wrap), indicator(m.autoscroll), indicator(m.help))
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" w  toggle line wrap",
		" s  toggle auto-scroll",
		" f  inject fault (row|id,thrust_decay|guidance_glitch)",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}
