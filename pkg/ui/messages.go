package ui

import "time"

// Message types for console updates.

// ConnectionStatusMsg reports the connectivity watchdog state.
type ConnectionStatusMsg struct {
	Endpoint   string
	Network    string
	Connected  bool
	Since      time.Time
	Reconnects uint64
	LastError  string
}

// ChainStatusMsg reports the liveness watchdog state.
type ChainStatusMsg struct {
	Height    uint64
	State     string // "normal", "warn"
	Since     time.Time
	LastError string
}

// SupplyMsg carries supply figures already rendered as coin decimals.
type SupplyMsg struct {
	Height uint64
	Liquid string
	Total  string
}

// AlertMsg is a watchdog transition.
type AlertMsg struct {
	Watchdog string
	Subject  string
	At       time.Time
	Sent     bool
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string // "config", "node", "supply", "api"
	Status  string // "connecting", "connected", "done", "failed"
	Message string
}
