// Package ui provides the Bubble Tea operator console for the explorer.
package ui

import "github.com/charmbracelet/lipgloss"

// Palette. Adaptive colors keep the console readable on light terminals.
var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"}
	ColorOK     = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	ColorAlert  = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	ColorDim    = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorFrame  = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
)

var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFrame).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0B1120")).
			Background(ColorAccent).
			Padding(0, 2)

	// Node connectivity
	NodeUpStyle   = lipgloss.NewStyle().Foreground(ColorOK).Bold(true)
	NodeDownStyle = lipgloss.NewStyle().Foreground(ColorAlert).Bold(true)

	// Chain liveness
	ChainNormalStyle = lipgloss.NewStyle().Foreground(ColorOK)
	ChainWarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)

	DimStyle  = lipgloss.NewStyle().Foreground(ColorDim)
	HelpStyle = DimStyle.Padding(0, 1)
)
