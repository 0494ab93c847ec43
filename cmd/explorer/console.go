package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lightningnetwork/lnd/ticker"

	"github.com/fd1az/chain-explorer/business/api"
	"github.com/fd1az/chain-explorer/business/chain"
	chainApp "github.com/fd1az/chain-explorer/business/chain/app"
	chainDI "github.com/fd1az/chain-explorer/business/chain/di"
	"github.com/fd1az/chain-explorer/business/chain/domain"
	"github.com/fd1az/chain-explorer/business/supply"
	supplyDI "github.com/fd1az/chain-explorer/business/supply/di"
	"github.com/fd1az/chain-explorer/internal/monolith"
	"github.com/fd1az/chain-explorer/pkg/ui"
)

const consoleRefresh = 2 * time.Second

// consoleObserver forwards watchdog transitions to the console without
// blocking the supervisor.
func consoleObserver(e chainApp.Event) {
	go ui.Send(ui.AlertMsg{Watchdog: e.Watchdog, Subject: e.Subject, At: e.At, Sent: e.Sent})
}

// startupStep names the console step a module reports on.
func startupStep(m monolith.Module) string {
	switch m.(type) {
	case *chain.Module:
		return "node"
	case *supply.Module:
		return "supply"
	case *api.Module:
		return "api"
	default:
		return ""
	}
}

func runTUI(parent context.Context, mono *monolith.App, modules []monolith.Module) error {
	// Quitting the console stops the modules too.
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	p := tea.NewProgram(ui.New(), tea.WithAltScreen(), tea.WithContext(ctx))
	ui.Program = p

	errCh := make(chan error, 1)
	go func() {
		select {
		case <-startSignal:
		case <-ctx.Done():
			errCh <- nil
			return
		}

		defer shutdownModules(mono.Logger(), modules)

		ui.Send(ui.StartupMsg{Step: "config", Status: "done"})
		for _, m := range modules {
			step := startupStep(m)
			ui.Send(ui.StartupMsg{Step: step, Status: "connecting"})
			if err := mono.StartModules(ctx, m); err != nil {
				ui.Send(ui.StartupMsg{Step: step, Status: "failed", Message: err.Error()})
				ui.Send(ui.ErrorMsg{Error: err})
				errCh <- fmt.Errorf("failed to start modules: %w", err)
				return
			}
			ui.Send(ui.StartupMsg{Step: step, Status: "done"})
		}

		pollStatus(ctx, mono)
		errCh <- nil
	}()

	_, runErr := p.Run()
	cancel()

	// Wait for modules to stop.
	if err := <-errCh; err != nil {
		return err
	}
	if runErr != nil && parent.Err() == nil {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	return nil
}

// pollStatus pushes watchdog and supply state to the console until ctx
// is done.
func pollStatus(ctx context.Context, mono *monolith.App) {
	sr := mono.Services()
	cfg := mono.Config()
	explorer := chainDI.GetExplorerService(sr)
	connectivity := chainDI.GetConnectivitySupervisor(sr)
	liveness := chainDI.GetLivenessSupervisor(sr)
	supplySvc := supplyDI.GetSupplyService(sr)

	t := ticker.New(consoleRefresh)
	t.Resume()
	defer t.Stop()

	for {
		conn := connectivity.Status()
		ui.Send(ui.ConnectionStatusMsg{
			Endpoint:   cfg.Node.URL(),
			Network:    explorer.Network().String(),
			Connected:  conn.State == domain.StateConnected,
			Since:      conn.Since,
			Reconnects: conn.Reconnects,
			LastError:  conn.LastError,
		})

		live := liveness.Status()
		ui.Send(ui.ChainStatusMsg{
			Height:    uint64(live.LastHeight),
			State:     string(live.State),
			Since:     live.Since,
			LastError: live.LastError,
		})

		if conn.State == domain.StateConnected {
			reqCtx, cancel := context.WithTimeout(ctx, cfg.Watchdog.ProbeTimeout)
			report, err := supplySvc.Current(reqCtx)
			cancel()
			if err == nil {
				ui.Send(ui.SupplyMsg{
					Height: report.Height,
					Liquid: report.Liquid.ToDecimal().StringFixed(2),
					Total:  report.Total.ToDecimal().StringFixed(2),
				})
			}
		}

		select {
		case <-t.Ticks():
		case <-ctx.Done():
			return
		}
	}
}
