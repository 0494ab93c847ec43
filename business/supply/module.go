// Package supply implements the supply bounded context.
package supply

import (
	"context"

	chainDI "github.com/fd1az/chain-explorer/business/chain/di"
	"github.com/fd1az/chain-explorer/business/supply/app"
	supplyDI "github.com/fd1az/chain-explorer/business/supply/di"
	"github.com/fd1az/chain-explorer/business/supply/domain"
	"github.com/fd1az/chain-explorer/internal/config"
	"github.com/fd1az/chain-explorer/internal/di"
	"github.com/fd1az/chain-explorer/internal/monolith"
)

// Module implements the supply bounded context.
type Module struct{}

// RegisterServices registers the supply service with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, supplyDI.SupplyService, func(sr di.ServiceRegistry) *app.SupplyService {
		cfg := sr.Get("config").(*config.Config)

		schedule, err := domain.NewSchedule(
			cfg.Supply.PremineCoins,
			cfg.Supply.GenesisSubsidyCoins,
			cfg.Supply.BlocksPerGeneration,
			cfg.Supply.RebootOffset,
			cfg.Supply.BurnedCoins,
		)
		if err != nil {
			panic("invalid supply schedule: " + err.Error())
		}
		return app.NewSupplyService(schedule, chainDI.GetExplorerService(sr))
	})

	return nil
}

// Startup resolves the service so a bad schedule fails at boot.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	svc := supplyDI.GetSupplyService(mono.Services())
	s := svc.Schedule()

	mono.Logger().Info(ctx, "supply module started",
		"premine", s.Premine.String(),
		"blocks_per_generation", s.BlocksPerGeneration,
		"reboot_offset", s.RebootOffset,
		"burned", s.Burned.String())
	return nil
}
