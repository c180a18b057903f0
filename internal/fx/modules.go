package fx

import (
	"protracker/internal/api"
	"protracker/internal/cache"
	"protracker/internal/config"
	"protracker/internal/logger"
	"protracker/internal/server"
	"protracker/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(cache.NewFromConfig),
	// api client
	fx.Provide(api.NewFaceitClient),
	// svc
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewMatchService),
	// server
	fx.Provide(server.NewTrackerServer),
)
