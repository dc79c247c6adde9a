package components

import (
	"sessionpass/internal/infra/gateway/yookassa"
	"sessionpass/internal/pkg/config"
	"sessionpass/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewYooKassaClient,
			fx.As(new(commands.PaymentGateway)),
		),
	),
)

func NewYooKassaClient(cfg config.Config) *yookassa.Client {
	return yookassa.NewClient(cfg.YooKassa)
}
