package components

import (
	"sessionpass/internal/handler"
	"sessionpass/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSubscriptionHandler,
		api.NewPaymentHandler,
	),
	fx.Invoke(handler.NewRouter),
)
