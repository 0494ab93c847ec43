package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/chain-explorer/business/chain/domain"
	"github.com/fd1az/chain-explorer/internal/logger"
)

const livenessWatchdog = "chain"

// LivenessStatus is the read-only view of the liveness watchdog.
type LivenessStatus struct {
	State      domain.ChainState
	LastHeight domain.BlockHeight
	Since      time.Time
	LastPoll   time.Time
	LastError  string
}

// LivenessSupervisor polls the tip height and alerts when the chain stops
// growing, shrinks, or starts growing again. Only the first warning of a
// stall is sent.
type LivenessSupervisor struct {
	cfg     WatchdogConfig
	handle  *ConnectionHandle
	sink    AlertSink
	log     logger.LoggerInterface
	metrics *watchdogMetrics

	started    time.Time
	state      domain.ChainState
	lastHeight domain.BlockHeight
	since      time.Time
	lastPoll   time.Time

	status atomic.Pointer[LivenessStatus]

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewLivenessSupervisor creates a supervisor in the Normal state with a
// last height of zero.
func NewLivenessSupervisor(cfg WatchdogConfig, handle *ConnectionHandle, sink AlertSink, log logger.LoggerInterface) (*LivenessSupervisor, error) {
	m, err := newWatchdogMetrics()
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	now := cfg.Clock.Now()
	s := &LivenessSupervisor{
		cfg:      cfg,
		handle:   handle,
		sink:     sink,
		log:      log,
		metrics:  m,
		started:  now,
		state:    domain.ChainNormal,
		since:    now,
		lastPoll: now,
	}
	s.publish(nil)
	return s, nil
}

// Start launches the polling loop.
func (s *LivenessSupervisor) Start() {
	s.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel

		s.wg.Add(1)
		go s.run(ctx)
	})
}

// Stop ends the loop and waits for it to exit.
func (s *LivenessSupervisor) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.wg.Wait()
		s.cfg.Ticker.Stop()
	})
}

// Status returns the latest published status.
func (s *LivenessSupervisor) Status() LivenessStatus {
	return *s.status.Load()
}

func (s *LivenessSupervisor) run(ctx context.Context) {
	defer s.wg.Done()

	s.cfg.Ticker.Resume()
	s.log.Info(ctx, "liveness watchdog started")

	for {
		select {
		case <-s.cfg.Ticker.Ticks():
			s.tick(ctx)
		case <-ctx.Done():
			s.log.Info(ctx, "liveness watchdog stopped")
			return
		}
	}
}

// tick polls the tip height once. A failed poll leaves all state alone.
func (s *LivenessSupervisor) tick(ctx context.Context) {
	now := s.cfg.Clock.Now()

	pollCtx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	height, err := s.handle.Current().Client.BlockHeight(pollCtx)
	cancel()

	if err != nil {
		s.log.Warn(ctx, "tip height poll failed", "error", err)
		s.metrics.pollErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("watchdog", livenessWatchdog)))
		s.publish(err)
		return
	}

	var subject string
	switch s.state {
	case domain.ChainNormal:
		switch {
		case height < s.lastHeight:
			subject = SubjectChainShrinking
		case height == s.lastHeight:
			subject = SubjectChainStalled
		}
		if subject != "" {
			s.log.Warn(ctx, "chain tip is not advancing", "last_height", s.lastHeight, "height", height)
			s.alert(ctx, now, height, subject, domain.ChainWarn)
		}

	case domain.ChainWarn:
		if height > s.lastHeight {
			s.log.Info(ctx, "chain tip is advancing again", "last_height", s.lastHeight, "height", height)
			s.alert(ctx, now, height, SubjectChainRecovered, domain.ChainNormal)
		}
	}

	s.lastHeight = height
	s.lastPoll = now

	s.metrics.tipHeight.Record(ctx, int64(height))
	s.publish(nil)
}

func (s *LivenessSupervisor) alert(ctx context.Context, now time.Time, height domain.BlockHeight, subject string, next domain.ChainState) {
	report := livenessReport{
		Endpoint:      s.handle.Current().Node.URL(),
		LastHeight:    uint64(s.lastHeight),
		Height:        uint64(height),
		State:         string(next),
		Now:           now,
		AppStarted:    s.started,
		AppDuration:   now.Sub(s.started),
		LastPoll:      s.lastPoll,
		SinceLastPoll: now.Sub(s.lastPoll),
		StateSince:    s.since,
	}

	s.state = next
	s.since = now

	var stateValue int64
	if next == domain.ChainWarn {
		stateValue = 1
	}
	s.metrics.chainState.Record(ctx, stateValue)

	sent := deliver(ctx, s.sink, s.log, livenessWatchdog, subject, render(livenessBody, report))
	s.metrics.alerts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("watchdog", livenessWatchdog),
		attribute.Bool("recovered", next == domain.ChainNormal),
	))

	if s.cfg.Observer != nil {
		s.cfg.Observer(Event{Watchdog: livenessWatchdog, Subject: subject, At: now, Sent: sent})
	}
}

func (s *LivenessSupervisor) publish(err error) {
	st := &LivenessStatus{
		State:      s.state,
		LastHeight: s.lastHeight,
		Since:      s.since,
		LastPoll:   s.lastPoll,
	}
	if err != nil {
		st.LastError = err.Error()
	}
	s.status.Store(st)
}
