package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/chain-explorer/pkg/ui/components"
)

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "connecting", "connected", "done", "failed"
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"
	PhaseStartup   Phase = "startup"
	PhaseDashboard Phase = "dashboard"
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// stepOrder is the order startup steps are shown in.
var stepOrder = []string{"config", "node", "supply", "api"}

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the console.
type Model struct {
	keys KeyMap
	now  func() time.Time

	status *components.StatusComponent
	supply *components.SupplyComponent
	alerts *components.AlertsComponent
	stats  *components.StatsComponent

	phase        Phase
	welcomeStart time.Time

	ready      bool
	quitting   bool
	showHelp   bool
	width      int
	height     int
	lastUpdate time.Time
	errors     []ErrorEntry // last 3
	logs       []string     // last 5

	startupSteps map[string]*StartupStep
	startupTime  time.Time
}

// New creates a new console model.
func New() Model {
	return newModel(time.Now)
}

func newModel(now func() time.Time) Model {
	start := now()
	return Model{
		keys:         DefaultKeyMap(),
		now:          now,
		status:       components.NewStatusComponent(now),
		supply:       components.NewSupplyComponent("NPT"),
		alerts:       components.NewAlertsComponent(100, 8),
		stats:        components.NewStatsComponent(),
		phase:        PhaseWelcome,
		welcomeStart: start,
		startupSteps: map[string]*StartupStep{
			"config": {Name: "Loading configuration", Status: "pending"},
			"node":   {Name: "Connecting to node", Status: "pending"},
			"supply": {Name: "Loading emission schedule", Status: "pending"},
			"api":    {Name: "Starting HTTP API", Status: "pending"},
		},
		startupTime: start,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m *Model) leaveWelcome() {
	m.phase = PhaseStartup
	m.startupTime = m.now()
	// Send() must not be used from within Update.
	if OnStartModules != nil {
		go OnStartModules()
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.phase == PhaseWelcome {
			m.leaveWelcome()
			return m, tickCmd()
		}
		switch {
		case key.Matches(msg, m.keys.Clear):
			m.alerts.Clear()
			m.errors = nil
		case key.Matches(msg, m.keys.Up):
			m.alerts.ScrollUp()
		case key.Matches(msg, m.keys.Down):
			m.alerts.ScrollDown()
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		if m.phase == PhaseWelcome && m.now().Sub(m.welcomeStart) >= WelcomeDuration {
			m.leaveWelcome()
		}
		return m, tickCmd()

	case ConnectionStatusMsg:
		m.status.SetNode(components.NodeStatus{
			Endpoint:   msg.Endpoint,
			Network:    msg.Network,
			Connected:  msg.Connected,
			Since:      msg.Since,
			Reconnects: msg.Reconnects,
			LastError:  msg.LastError,
		})
		m.touch()

	case ChainStatusMsg:
		m.status.SetChain(components.ChainStatus{
			Height:    msg.Height,
			State:     msg.State,
			Since:     msg.Since,
			LastError: msg.LastError,
		})
		m.touch()

	case SupplyMsg:
		m.supply.Update(components.SupplyRow{Height: msg.Height, Liquid: msg.Liquid, Total: msg.Total})
		m.touch()

	case AlertMsg:
		m.alerts.Add(components.AlertRow{At: msg.At, Watchdog: msg.Watchdog, Subject: msg.Subject, Sent: msg.Sent})
		st := m.stats.Stats()
		if msg.Sent {
			st.AlertsSent++
		} else {
			st.AlertsDropped++
		}
		m.stats.Update(st)
		m.lastUpdate = m.now()

	case ErrorMsg:
		m.logs = m.addLog(m.logs, "error", msg.Error.Error())
		m.errors = append(m.errors, ErrorEntry{Message: msg.Error.Error(), Timestamp: m.now()})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}
		st := m.stats.Stats()
		st.Errors++
		m.stats.Update(st)

	case LogMsg:
		m.logs = m.addLog(m.logs, msg.Level, msg.Message)

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
		}
		if msg.Status == "failed" && msg.Message != "" {
			m.logs = m.addLog(m.logs, "error", msg.Message)
		}
		if m.startupComplete() && m.phase == PhaseStartup {
			m.phase = PhaseDashboard
		}
	}

	return m, nil
}

// touch counts a status update.
func (m *Model) touch() {
	st := m.stats.Stats()
	st.StatusUpdates++
	m.stats.Update(st)
	m.lastUpdate = m.now()
}

func (m Model) startupComplete() bool {
	for _, step := range m.startupSteps {
		if step.Status != "connected" && step.Status != "done" {
			return false
		}
	}
	return true
}

// addLog appends a log line and keeps the last 5.
func (m Model) addLog(logs []string, level, message string) []string {
	logs = append(logs, fmt.Sprintf("[%s] %s: %s", m.now().Format("15:04:05"), level, message))
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the console.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		return m.renderStartupScreen()
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(" Neptune Chain Explorer "))
	b.WriteString("\n\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	leftCol := m.status.View() + "\n" + m.supply.View()
	rightCol := m.alerts.View()

	if m.width > 100 {
		left := PanelStyle.Width(m.width/2 - 2).Render(leftCol)
		right := PanelStyle.Width(m.width/2 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		width := max(m.width-4, 40)
		b.WriteString(PanelStyle.Width(width).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(PanelStyle.Width(width).Render(rightCol))
	}
	b.WriteString("\n\n")
	b.WriteString(m.stats.View())
	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorAlert)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorAlert)

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(DimStyle.Render(" (c: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := m.now().Sub(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(DimStyle.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.showHelp {
		for _, group := range m.keys.FullHelp() {
			var parts []string
			for _, k := range group {
				parts = append(parts, k.Help().Key+": "+k.Help().Desc)
			}
			b.WriteString(HelpStyle.Render(strings.Join(parts, " • ")))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(HelpStyle.Render("q: quit • c: clear • ↑↓: scroll • ?: help"))
	}

	return b.String()
}

func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	greenStyle := lipgloss.NewStyle().Foreground(ColorOK)

	dots := strings.Repeat(".", int(m.now().Sub(m.welcomeStart).Milliseconds()/300)%4)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")
	sb.WriteString(titleStyle.Render("        N E P T U N E   C H A I N   E X P L O R E R"))
	sb.WriteString("\n\n")
	sb.WriteString(DimStyle.Render("              node watchdog and JSON API"))
	sb.WriteString("\n\n\n")
	sb.WriteString(greenStyle.Render(fmt.Sprintf("                  Initializing%s", dots)))
	sb.WriteString("\n\n")
	sb.WriteString(DimStyle.Render("            Press any key to skip, or wait..."))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderStartupScreen() string {
	successStyle := lipgloss.NewStyle().Foreground(ColorOK)
	connectingStyle := lipgloss.NewStyle().Foreground(ColorWarn)
	failedStyle := lipgloss.NewStyle().Foreground(ColorAlert)

	var sb strings.Builder
	sb.WriteString("\n\n")
	sb.WriteString(HeaderStyle.Render("  Neptune Chain Explorer"))
	sb.WriteString("\n\n  Starting up...\n\n")

	for _, k := range stepOrder {
		step := m.startupSteps[k]

		var icon, statusText string
		var style lipgloss.Style

		switch step.Status {
		case "connected", "done":
			icon, statusText, style = "✓", "Ready", successStyle
		case "connecting":
			spinners := []string{"◐", "◓", "◑", "◒"}
			idx := int(m.now().Sub(m.startupTime).Milliseconds()/200) % len(spinners)
			icon, statusText, style = spinners[idx], "Connecting...", connectingStyle
		case "failed":
			icon, statusText, style = "✗", "Failed", failedStyle
		default:
			icon, statusText, style = "○", "Pending", DimStyle
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s\n", style.Render(icon), DimStyle.Render(step.Name), style.Render(statusText)))
	}

	sb.WriteString("\n")
	sb.WriteString(DimStyle.Render(fmt.Sprintf("  Elapsed: %s", m.now().Sub(m.startupTime).Round(time.Second))))
	sb.WriteString("\n")

	for _, l := range m.logs {
		sb.WriteString(DimStyle.Render("  " + l))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	node := m.status.Node()
	if node.Connected {
		parts = append(parts, NodeUpStyle.Render("● "+node.Network))
	} else {
		parts = append(parts, NodeDownStyle.Render("○ "+node.Network+" (disconnected)"))
	}

	chain := m.status.Chain()
	parts = append(parts, fmt.Sprintf("Tip: #%d", chain.Height))
	if chain.State == "normal" {
		parts = append(parts, ChainNormalStyle.Render("chain "+chain.State))
	} else {
		parts = append(parts, ChainWarnStyle.Render("chain "+chain.State))
	}

	if !m.lastUpdate.IsZero() {
		ago := m.now().Sub(m.lastUpdate).Round(time.Second)
		parts = append(parts, DimStyle.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes. main sets
// it to begin loading modules.
var OnStartModules func()

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}
