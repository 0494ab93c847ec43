// Package di contains dependency injection tokens for the supply context.
package di

import (
	"github.com/fd1az/chain-explorer/business/supply/app"
	"github.com/fd1az/chain-explorer/internal/di"
)

// Public service tokens - exposed to other modules
var (
	SupplyService = di.NewToken[*app.SupplyService]("supply.SupplyService")
)

func GetSupplyService(c di.ServiceRegistry) *app.SupplyService {
	return di.GetToken(c, SupplyService)
}
