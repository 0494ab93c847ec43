// Package di contains dependency injection tokens for the api context.
package di

import (
	"github.com/fd1az/chain-explorer/business/api/infra/rest"
	"github.com/fd1az/chain-explorer/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Server = di.NewToken[*rest.Server]("api.Server")
)

func GetServer(c di.ServiceRegistry) *rest.Server {
	return di.GetToken(c, Server)
}
