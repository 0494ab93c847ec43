package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// AlertRow is one watchdog transition in the feed.
type AlertRow struct {
	At       time.Time
	Watchdog string
	Subject  string
	Sent     bool
}

// AlertsComponent renders the newest-first alert feed.
type AlertsComponent struct {
	rows    []AlertRow
	maxRows int
	visible int
	offset  int
}

// NewAlertsComponent keeps at most maxRows and shows visible of them.
func NewAlertsComponent(maxRows, visible int) *AlertsComponent {
	return &AlertsComponent{maxRows: maxRows, visible: visible}
}

// Add prepends row.
func (a *AlertsComponent) Add(row AlertRow) {
	a.rows = append([]AlertRow{row}, a.rows...)
	if len(a.rows) > a.maxRows {
		a.rows = a.rows[:a.maxRows]
	}
	a.offset = 0
}

// Clear drops every row.
func (a *AlertsComponent) Clear() {
	a.rows = nil
	a.offset = 0
}

// Len returns the number of rows kept.
func (a *AlertsComponent) Len() int { return len(a.rows) }

func (a *AlertsComponent) ScrollUp() {
	if a.offset > 0 {
		a.offset--
	}
}

func (a *AlertsComponent) ScrollDown() {
	if a.offset+a.visible < len(a.rows) {
		a.offset++
	}
}

// View renders the alerts component.
func (a *AlertsComponent) View() string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22D3EE"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	sent := lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24"))
	dropped := lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Italic(true)

	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("ALERTS (%d)", len(a.rows))))
	b.WriteString("\n\n")

	if len(a.rows) == 0 {
		b.WriteString(muted.Render("  No alerts yet..."))
		return b.String()
	}

	end := min(a.offset+a.visible, len(a.rows))
	for _, row := range a.rows[a.offset:end] {
		style, mark := sent, "✉"
		if !row.Sent {
			style, mark = dropped, "✗"
		}
		fmt.Fprintf(&b, "  %s %s %s %s\n",
			muted.Render(row.At.Format("15:04:05")),
			mark,
			muted.Render(fmt.Sprintf("[%s]", row.Watchdog)),
			style.Render(row.Subject),
		)
	}
	if len(a.rows) > a.visible {
		b.WriteString(muted.Render(fmt.Sprintf("  showing %d-%d of %d", a.offset+1, end, len(a.rows))))
	}

	return b.String()
}
