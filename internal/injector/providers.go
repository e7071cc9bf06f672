package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/vecview/internal/assets"
	"github.com/zeusync/vecview/internal/config"
	"github.com/zeusync/vecview/internal/core/events/bus"
	"github.com/zeusync/vecview/internal/core/observability/log"
	"github.com/zeusync/vecview/internal/server"
)

var ServerSet = wire.NewSet(
	ProvideLogger,
	ProvideAssets,
	bus.New,
	server.NewServer,
)

// ProvideLogger builds the process logger. The cleanup flushes it.
func ProvideLogger(cfg config.Config) (log.Log, func()) {
	logger := log.New(cfg.Level())
	return logger, func() { _ = logger.Sync() }
}

func ProvideAssets(cfg config.Config, logger log.Log) *assets.Store {
	return assets.NewDir(cfg.Assets.Dir, logger)
}
