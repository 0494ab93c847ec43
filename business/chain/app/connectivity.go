package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/ticker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/chain-explorer/business/chain/domain"
	"github.com/fd1az/chain-explorer/internal/logger"
)

const connectivityWatchdog = "rpc"

// WatchdogConfig holds what both supervisors need besides the handle.
type WatchdogConfig struct {
	// Ticker paces the loop. It is resumed on Start and stopped on Stop.
	Ticker ticker.Ticker
	// Clock supplies timestamps for alert bodies and status.
	Clock clock.Clock
	// ProbeTimeout bounds every RPC made by the supervisor.
	ProbeTimeout time.Duration
	// Observer is optional.
	Observer Observer
}

// ConnectivityStatus is the read-only view of the connectivity watchdog.
type ConnectivityStatus struct {
	State      domain.ConnectionState
	Since      time.Time
	LastProbe  time.Time
	LastError  string
	Reconnects uint64
}

// ConnectivitySupervisor probes the node and reconnects while it is down.
// It starts optimistic: no alert fires at boot unless the first probe
// fails.
type ConnectivitySupervisor struct {
	cfg     WatchdogConfig
	handle  *ConnectionHandle
	sink    AlertSink
	log     logger.LoggerInterface
	metrics *watchdogMetrics

	started    time.Time
	connected  bool
	since      time.Time
	reconnects uint64

	status atomic.Pointer[ConnectivityStatus]

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewConnectivitySupervisor creates a supervisor in the Connected state.
func NewConnectivitySupervisor(cfg WatchdogConfig, handle *ConnectionHandle, sink AlertSink, log logger.LoggerInterface) (*ConnectivitySupervisor, error) {
	m, err := newWatchdogMetrics()
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	now := cfg.Clock.Now()
	s := &ConnectivitySupervisor{
		cfg:       cfg,
		handle:    handle,
		sink:      sink,
		log:       log,
		metrics:   m,
		started:   now,
		connected: true,
		since:     now,
	}
	s.publish(time.Time{}, nil)
	return s, nil
}

// Start launches the polling loop.
func (s *ConnectivitySupervisor) Start() {
	s.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel

		s.wg.Add(1)
		go s.run(ctx)
	})
}

// Stop ends the loop and waits for it to exit.
func (s *ConnectivitySupervisor) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.wg.Wait()
		s.cfg.Ticker.Stop()
	})
}

// Status returns the latest published status.
func (s *ConnectivitySupervisor) Status() ConnectivityStatus {
	return *s.status.Load()
}

func (s *ConnectivitySupervisor) run(ctx context.Context) {
	defer s.wg.Done()

	s.cfg.Ticker.Resume()
	s.log.Info(ctx, "connectivity watchdog started")

	for {
		select {
		case <-s.cfg.Ticker.Ticks():
			s.tick(ctx)
		case <-ctx.Done():
			s.log.Info(ctx, "connectivity watchdog stopped")
			return
		}
	}
}

// tick runs one probe, alerts on a transition, and reconnects when the
// probe failed.
func (s *ConnectivitySupervisor) tick(ctx context.Context) {
	now := s.cfg.Clock.Now()

	probeCtx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	_, err := s.handle.Current().Client.Network(probeCtx)
	cancel()

	nowConnected := err == nil
	if nowConnected != s.connected {
		s.transition(ctx, now, nowConnected)
	}

	if !nowConnected {
		s.reconnect(ctx)
	}

	s.setConnectedGauge(ctx, nowConnected)
	s.publish(now, err)
}

func (s *ConnectivitySupervisor) transition(ctx context.Context, now time.Time, nowConnected bool) {
	report := connectivityReport{
		Endpoint:     s.handle.Current().Node.URL(),
		WasConnected: s.connected,
		NowConnected: nowConnected,
		Now:          now,
		AppStarted:   s.started,
		AppDuration:  now.Sub(s.started),
		Since:        s.since,
		Duration:     now.Sub(s.since),
	}

	subject := SubjectRPCOutage
	if nowConnected {
		subject = SubjectRPCRecovered
		s.log.Info(ctx, "rpc connection restored", "down_for", report.Duration.String())
	} else {
		s.log.Warn(ctx, "rpc connection lost", "up_for", report.Duration.String())
	}

	s.connected = nowConnected
	s.since = now

	sent := deliver(ctx, s.sink, s.log, connectivityWatchdog, subject, render(connectivityBody, report))
	s.metrics.alerts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("watchdog", connectivityWatchdog),
		attribute.Bool("recovered", nowConnected),
	))

	if s.cfg.Observer != nil {
		s.cfg.Observer(Event{Watchdog: connectivityWatchdog, Subject: subject, At: now, Sent: sent})
	}
}

func (s *ConnectivitySupervisor) reconnect(ctx context.Context) {
	s.reconnects++
	s.metrics.reconnectAttempts.Add(ctx, 1)

	dialCtx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	defer cancel()

	if err := s.handle.Reconnect(dialCtx); err != nil {
		s.log.Warn(ctx, "reconnect attempt failed", "attempt", s.reconnects, "error", err)
		return
	}
	s.log.Info(ctx, "reconnected to node", "attempt", s.reconnects, "network", s.handle.Current().Network)
}

func (s *ConnectivitySupervisor) setConnectedGauge(ctx context.Context, connected bool) {
	var v int64
	if connected {
		v = 1
	}
	s.metrics.rpcConnected.Record(ctx, v)
}

func (s *ConnectivitySupervisor) publish(probe time.Time, err error) {
	st := &ConnectivityStatus{
		State:      domain.StateDisconnected,
		Since:      s.since,
		LastProbe:  probe,
		Reconnects: s.reconnects,
	}
	if s.connected {
		st.State = domain.StateConnected
	}
	if err != nil {
		st.LastError = err.Error()
	}
	s.status.Store(st)
}
