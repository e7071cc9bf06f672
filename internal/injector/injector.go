//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/vecview/internal/config"
	"github.com/zeusync/vecview/internal/server"
)

func InitializeServer(cfg config.Config) (*server.Server, func(), error) {
	wire.Build(ServerSet)
	return nil, nil, nil
}
