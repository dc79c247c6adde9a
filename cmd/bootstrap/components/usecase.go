package components

import (
	"sessionpass/internal/pkg/clock"
	"sessionpass/internal/pkg/config"
	"sessionpass/internal/usecase/commands"
	"sessionpass/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.RedemptionConfig {
		return cfg.Redemption
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewSubscriptionCommands,
		commands.NewPaymentCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewPaymentQueries,
	),
)
