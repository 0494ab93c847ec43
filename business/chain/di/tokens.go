// Package di contains dependency injection tokens for the chain context.
package di

import (
	"github.com/lightningnetwork/lnd/clock"

	"github.com/fd1az/chain-explorer/business/chain/app"
	"github.com/fd1az/chain-explorer/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ExplorerService        = di.NewToken[*app.ExplorerService]("chain.ExplorerService")
	ConnectionHandle       = di.NewToken[*app.ConnectionHandle]("chain.ConnectionHandle")
	ConnectivitySupervisor = di.NewToken[*app.ConnectivitySupervisor]("chain.ConnectivitySupervisor")
	LivenessSupervisor     = di.NewToken[*app.LivenessSupervisor]("chain.LivenessSupervisor")
)

// Private dependency tokens - internal to chain module
var (
	ClientFactory = di.NewToken[app.ClientFactory]("chain:clientFactory")
	AlertSink     = di.NewToken[app.AlertSink]("chain:alertSink")
	Clock         = di.NewToken[clock.Clock]("chain:clock")
)

// Helper functions for type-safe access
func GetExplorerService(c di.ServiceRegistry) *app.ExplorerService {
	return di.GetToken(c, ExplorerService)
}

func GetConnectionHandle(c di.ServiceRegistry) *app.ConnectionHandle {
	return di.GetToken(c, ConnectionHandle)
}

func GetConnectivitySupervisor(c di.ServiceRegistry) *app.ConnectivitySupervisor {
	return di.GetToken(c, ConnectivitySupervisor)
}

func GetLivenessSupervisor(c di.ServiceRegistry) *app.LivenessSupervisor {
	return di.GetToken(c, LivenessSupervisor)
}

func GetClientFactory(c di.ServiceRegistry) app.ClientFactory {
	return di.GetToken(c, ClientFactory)
}

func GetAlertSink(c di.ServiceRegistry) app.AlertSink {
	return di.GetToken(c, AlertSink)
}

func GetClock(c di.ServiceRegistry) clock.Clock {
	return di.GetToken(c, Clock)
}
