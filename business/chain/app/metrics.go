package app

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/fd1az/chain-explorer/business/chain/app"

// watchdogMetrics holds OTEL instruments shared by both supervisors.
type watchdogMetrics struct {
	rpcConnected      metric.Int64Gauge
	chainState        metric.Int64Gauge
	tipHeight         metric.Int64Gauge
	alerts            metric.Int64Counter
	reconnectAttempts metric.Int64Counter
	pollErrors        metric.Int64Counter
}

func newWatchdogMetrics() (*watchdogMetrics, error) {
	meter := otel.Meter(meterName)
	m := &watchdogMetrics{}
	var err error

	m.rpcConnected, err = meter.Int64Gauge(
		"watchdog_rpc_connected",
		metric.WithDescription("Node RPC reachability (0=disconnected, 1=connected)"),
	)
	if err != nil {
		return nil, err
	}

	m.chainState, err = meter.Int64Gauge(
		"watchdog_chain_state",
		metric.WithDescription("Chain liveness state (0=normal, 1=warn)"),
	)
	if err != nil {
		return nil, err
	}

	m.tipHeight, err = meter.Int64Gauge(
		"watchdog_tip_height",
		metric.WithDescription("Last observed tip height"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return nil, err
	}

	m.alerts, err = meter.Int64Counter(
		"watchdog_alerts_total",
		metric.WithDescription("Alerts raised by the watchdogs"),
		metric.WithUnit("{alert}"),
	)
	if err != nil {
		return nil, err
	}

	m.reconnectAttempts, err = meter.Int64Counter(
		"watchdog_reconnect_attempts_total",
		metric.WithDescription("Node reconnect attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	m.pollErrors, err = meter.Int64Counter(
		"watchdog_poll_errors_total",
		metric.WithDescription("Failed watchdog polls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}
