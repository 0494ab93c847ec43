// Package api implements the HTTP front-end bounded context.
package api

import (
	"context"

	apiDI "github.com/fd1az/chain-explorer/business/api/di"
	"github.com/fd1az/chain-explorer/business/api/infra/rest"
	chainDI "github.com/fd1az/chain-explorer/business/chain/di"
	supplyDI "github.com/fd1az/chain-explorer/business/supply/di"
	"github.com/fd1az/chain-explorer/internal/config"
	"github.com/fd1az/chain-explorer/internal/di"
	"github.com/fd1az/chain-explorer/internal/logger"
	"github.com/fd1az/chain-explorer/internal/monolith"
)

// Module implements the api bounded context.
type Module struct {
	server *rest.Server
}

// RegisterServices registers the HTTP server with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, apiDI.Server, func(sr di.ServiceRegistry) *rest.Server {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return rest.NewServer(
			cfg.Server,
			chainDI.GetExplorerService(sr),
			supplyDI.GetSupplyService(sr),
			log,
			nil,
		)
	})

	return nil
}

// Startup starts listening. It must run after the chain module has
// connected.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	srv := apiDI.GetServer(mono.Services())
	if err := srv.Start(); err != nil {
		return err
	}
	m.server = srv

	mono.Logger().Info(ctx, "api module started",
		"port", mono.Config().Server.Port,
		"rate_limit_per_minute", mono.Config().Server.RateLimitPerMinute)
	return nil
}

// Shutdown drains in-flight requests.
func (m *Module) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Stop(ctx)
}
