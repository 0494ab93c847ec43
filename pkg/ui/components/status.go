// Package components provides reusable console panels.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// NodeStatus is the connectivity panel state.
type NodeStatus struct {
	Endpoint   string
	Network    string
	Connected  bool
	Since      time.Time
	Reconnects uint64
	LastError  string
}

// ChainStatus is the liveness panel state.
type ChainStatus struct {
	Height    uint64
	State     string
	Since     time.Time
	LastError string
}

// StatusComponent renders the node and chain watchdog state.
type StatusComponent struct {
	node  NodeStatus
	chain ChainStatus
	now   func() time.Time
}

// NewStatusComponent creates a new status component. now may be nil.
func NewStatusComponent(now func() time.Time) *StatusComponent {
	if now == nil {
		now = time.Now
	}
	return &StatusComponent{
		node:  NodeStatus{Connected: true},
		chain: ChainStatus{State: "normal"},
		now:   now,
	}
}

func (s *StatusComponent) SetNode(n NodeStatus)   { s.node = n }
func (s *StatusComponent) SetChain(c ChainStatus) { s.chain = c }

// Node returns the last node status.
func (s *StatusComponent) Node() NodeStatus { return s.node }

// Chain returns the last chain status.
func (s *StatusComponent) Chain() ChainStatus { return s.chain }

// View renders the status component.
func (s *StatusComponent) View() string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22D3EE"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	ok := lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80")).Bold(true)
	bad := lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true)
	warn := lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")).Bold(true)

	var b strings.Builder
	b.WriteString(header.Render("NODE"))
	b.WriteString("\n")

	conn := ok.Render("● connected")
	if !s.node.Connected {
		conn = bad.Render("○ disconnected")
	}
	fmt.Fprintf(&b, "├─ %s %s\n", muted.Render(s.node.Endpoint), conn)
	fmt.Fprintf(&b, "├─ network: %s\n", s.node.Network)
	fmt.Fprintf(&b, "├─ for: %s  reconnects: %d\n", s.since(s.node.Since), s.node.Reconnects)
	if s.node.LastError != "" {
		fmt.Fprintf(&b, "└─ %s\n", bad.Render(s.node.LastError))
	}

	b.WriteString("\n")
	b.WriteString(header.Render("CHAIN"))
	b.WriteString("\n")

	state := ok.Render(s.chain.State)
	if s.chain.State != "normal" {
		state = warn.Render(s.chain.State)
	}
	fmt.Fprintf(&b, "├─ tip: #%d  %s\n", s.chain.Height, state)
	fmt.Fprintf(&b, "├─ for: %s\n", s.since(s.chain.Since))
	if s.chain.LastError != "" {
		fmt.Fprintf(&b, "└─ %s\n", bad.Render(s.chain.LastError))
	}

	return b.String()
}

func (s *StatusComponent) since(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return s.now().Sub(t).Round(time.Second).String()
}
