package fx

import (
	"riot-reimagined/internal/api"
	"riot-reimagined/internal/config"
	"riot-reimagined/internal/database"
	"riot-reimagined/internal/logger"
	"riot-reimagined/internal/repository"
	"riot-reimagined/internal/server"
	"riot-reimagined/internal/service"

	"go.uber.org/fx"
)

func ProvideGameData(client *api.Client) service.GameDataClient {
	return client
}

func ProvideFeeds(client *api.Client) service.FeedClient {
	return client
}

func ProvideUserStore(repo *repository.UserRepository) service.UserStore {
	return repo
}

// Storage is the part of the graph cmd/seed needs.
var Storage = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(repository.NewUserRepository),
)

var Module = fx.Options(
	Storage,
	fx.Provide(ProvideUserStore),
	// api client
	fx.Provide(api.NewClient),
	fx.Provide(ProvideGameData),
	fx.Provide(ProvideFeeds),
	// svc
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewUserService),
	fx.Provide(service.NewFeedService),
	// server
	fx.Provide(server.New),
)
