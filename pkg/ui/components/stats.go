package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds counters for display.
type Stats struct {
	AlertsSent    int64
	AlertsDropped int64
	StatusUpdates int64
	Errors        int64
}

// StatsComponent renders counters.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update replaces the counters.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// Stats returns the current counters.
func (s *StatsComponent) Stats() Stats {
	return s.stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true)

	dropped := valueStyle.Render(fmt.Sprintf("%d", s.stats.AlertsDropped))
	if s.stats.AlertsDropped > 0 {
		dropped = errorStyle.Render(fmt.Sprintf("%d", s.stats.AlertsDropped))
	}
	errorsDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	if s.stats.Errors > 0 {
		errorsDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Alerts sent: %s  │  Alerts not delivered: %s  │  Updates: %s  │  Errors: %s",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.AlertsSent)),
			dropped,
			valueStyle.Render(fmt.Sprintf("%d", s.stats.StatusUpdates)),
			errorsDisplay,
		)
}
