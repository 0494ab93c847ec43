// Package chain implements the chain bounded context: the node connection,
// the watchdogs, and the read-only explorer queries.
package chain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/ticker"

	"github.com/fd1az/chain-explorer/business/chain/app"
	chainDI "github.com/fd1az/chain-explorer/business/chain/di"
	"github.com/fd1az/chain-explorer/business/chain/domain"
	"github.com/fd1az/chain-explorer/business/chain/infra/alert"
	"github.com/fd1az/chain-explorer/business/chain/infra/node"
	"github.com/fd1az/chain-explorer/internal/config"
	"github.com/fd1az/chain-explorer/internal/di"
	"github.com/fd1az/chain-explorer/internal/logger"
	"github.com/fd1az/chain-explorer/internal/monolith"
)

// Module implements the chain bounded context.
type Module struct {
	// Observer receives watchdog events, e.g. for the operator console.
	Observer app.Observer

	mu           sync.Mutex
	handle       *app.ConnectionHandle
	connectivity *app.ConnectivitySupervisor
	liveness     *app.LivenessSupervisor
}

// RegisterServices registers all chain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, chainDI.Clock, func(di.ServiceRegistry) clock.Clock {
		return clock.NewDefaultClock()
	})

	// Register ClientFactory (private - internal dependency)
	di.RegisterToken(c, chainDI.ClientFactory, func(sr di.ServiceRegistry) app.ClientFactory {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		dialer, err := node.NewDialer(cfg.Node, log)
		if err != nil {
			panic("failed to create node dialer: " + err.Error())
		}
		return dialer
	})

	// Register AlertSink (private - internal dependency)
	di.RegisterToken(c, chainDI.AlertSink, func(sr di.ServiceRegistry) app.AlertSink {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		sink, err := alert.NewSink(cfg.Alert, log)
		if err != nil {
			panic("failed to create alert sink: " + err.Error())
		}
		return sink
	})

	// The handle is created by Startup, which needs a context to dial.
	di.RegisterToken(c, chainDI.ConnectionHandle, func(di.ServiceRegistry) *app.ConnectionHandle {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.handle == nil {
			panic("chain: connection handle requested before startup")
		}
		return m.handle
	})

	di.RegisterToken(c, chainDI.ConnectivitySupervisor, func(sr di.ServiceRegistry) *app.ConnectivitySupervisor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		sup, err := app.NewConnectivitySupervisor(
			m.watchdogConfig(sr, cfg.Watchdog.RPCInterval),
			chainDI.GetConnectionHandle(sr),
			chainDI.GetAlertSink(sr),
			log,
		)
		if err != nil {
			panic("failed to create connectivity supervisor: " + err.Error())
		}
		return sup
	})

	di.RegisterToken(c, chainDI.LivenessSupervisor, func(sr di.ServiceRegistry) *app.LivenessSupervisor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		sup, err := app.NewLivenessSupervisor(
			m.watchdogConfig(sr, cfg.Watchdog.ChainInterval),
			chainDI.GetConnectionHandle(sr),
			chainDI.GetAlertSink(sr),
			log,
		)
		if err != nil {
			panic("failed to create liveness supervisor: " + err.Error())
		}
		return sup
	})

	// Register ExplorerService (public - exposed to other modules)
	di.RegisterToken(c, chainDI.ExplorerService, func(sr di.ServiceRegistry) *app.ExplorerService {
		return app.NewExplorerService(chainDI.GetConnectionHandle(sr))
	})

	return nil
}

func (m *Module) watchdogConfig(sr di.ServiceRegistry, interval time.Duration) app.WatchdogConfig {
	cfg := sr.Get("config").(*config.Config)
	return app.WatchdogConfig{
		Ticker:       ticker.New(interval),
		Clock:        chainDI.GetClock(sr),
		ProbeTimeout: cfg.Watchdog.ProbeTimeout,
		Observer:     m.Observer,
	}
}

// Startup connects to the node and starts both watchdogs. A node that
// cannot be reached at startup is fatal.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()
	sr := mono.Services()

	dialCtx, cancel := context.WithTimeout(ctx, cfg.Watchdog.ProbeTimeout)
	defer cancel()

	handle, err := app.NewConnectionHandle(dialCtx, chainDI.GetClientFactory(sr), cfg.Node, chainDI.GetClock(sr))
	if err != nil {
		return fmt.Errorf("connect to node %s: %w", cfg.Node.URL(), err)
	}

	m.mu.Lock()
	m.handle = handle
	m.mu.Unlock()

	snap := handle.Current()
	if want := domain.ParseNetwork(cfg.Node.Network); want != snap.Network {
		log.Warn(ctx, "node serves a different network than configured",
			"configured", cfg.Node.Network, "node", snap.Network.String())
	}

	connectivity := chainDI.GetConnectivitySupervisor(sr)
	liveness := chainDI.GetLivenessSupervisor(sr)

	mono.Health().RegisterCheck("rpc", func(context.Context) (bool, string) {
		st := connectivity.Status()
		return st.State == domain.StateConnected, string(st.State)
	})
	mono.Health().RegisterCheck("chain", func(context.Context) (bool, string) {
		st := liveness.Status()
		return st.State == domain.ChainNormal, fmt.Sprintf("%s at height %d", st.State, st.LastHeight)
	})

	connectivity.Start()
	liveness.Start()

	m.mu.Lock()
	m.connectivity, m.liveness = connectivity, liveness
	m.mu.Unlock()

	log.Info(ctx, "chain module started",
		"node", cfg.Node.URL(),
		"network", snap.Network.String(),
		"genesis", snap.GenesisDigest.Short())
	return nil
}

// Shutdown stops the watchdogs and closes the node connection. It is a
// no-op when Startup did not get that far.
func (m *Module) Shutdown(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connectivity != nil {
		m.connectivity.Stop()
	}
	if m.liveness != nil {
		m.liveness.Stop()
	}
	if m.handle != nil {
		m.handle.Close()
	}
	return nil
}
