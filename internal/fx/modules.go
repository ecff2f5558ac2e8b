package fx

import (
	"brawlstars-tracker/internal/api"
	"brawlstars-tracker/internal/battle"
	"brawlstars-tracker/internal/config"
	"brawlstars-tracker/internal/database"
	"brawlstars-tracker/internal/llm"
	"brawlstars-tracker/internal/logger"
	"brawlstars-tracker/internal/repository"
	"brawlstars-tracker/internal/server"
	"brawlstars-tracker/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideProcessor(cfg *config.Config, log zerolog.Logger) *battle.Processor {
	return battle.NewProcessor(battle.OptionsFromConfig(cfg), log)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	// core processor
	fx.Provide(ProvideProcessor),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewBattleRepository),
	fx.Provide(func(r *repository.PlayerRepository) service.PlayerStore { return r }),
	fx.Provide(func(r *repository.BattleRepository) service.BattleStore { return r }),
	// api client
	fx.Provide(api.NewBrawlClient),
	fx.Provide(func(c *api.BrawlClient) service.BrawlAPI { return c }),
	// llm
	fx.Provide(llm.New),
	// svc
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewBattleService),
	fx.Provide(service.NewClubService),
	fx.Provide(service.NewBrawlerService),
	fx.Provide(service.NewComparisonService),
	// server
	fx.Provide(server.New),
)
