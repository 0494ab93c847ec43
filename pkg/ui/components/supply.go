package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SupplyRow is the supply at one height, already formatted in coins.
type SupplyRow struct {
	Height uint64
	Liquid string
	Total  string
}

// SupplyComponent renders the latest supply figures.
type SupplyComponent struct {
	row   SupplyRow
	known bool
	unit  string
}

// NewSupplyComponent creates a supply panel labelled with unit.
func NewSupplyComponent(unit string) *SupplyComponent {
	return &SupplyComponent{unit: unit}
}

// Update replaces the figures.
func (s *SupplyComponent) Update(row SupplyRow) {
	s.row = row
	s.known = true
}

// View renders the supply component.
func (s *SupplyComponent) View() string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22D3EE"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)

	var b strings.Builder
	b.WriteString(header.Render("SUPPLY"))
	b.WriteString("\n")

	if !s.known {
		b.WriteString(muted.Render("  Waiting for the tip..."))
		return b.String()
	}

	fmt.Fprintf(&b, "├─ at height: #%d\n", s.row.Height)
	fmt.Fprintf(&b, "├─ circulating: %s %s\n", value.Render(s.row.Liquid), s.unit)
	fmt.Fprintf(&b, "└─ total:       %s %s\n", value.Render(s.row.Total), s.unit)
	return b.String()
}
