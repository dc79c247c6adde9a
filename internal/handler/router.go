package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"sessionpass/internal/handler/api"
	"sessionpass/internal/handler/middleware"
	"sessionpass/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, subscriptionHandler *api.SubscriptionHandler, paymentHandler *api.PaymentHandler) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, subscriptionHandler, paymentHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, subscriptionHandler *api.SubscriptionHandler, paymentHandler *api.PaymentHandler) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		subscription := apiGroup.Group("/subscription")
		{
			addRoutes(subscription, []route{
				{Method: http.MethodPost, Path: "/generate-qr", Handler: subscriptionHandler.GenerateQR},
				{Method: http.MethodPost, Path: "/validate-qr", Handler: subscriptionHandler.ValidateQR},
			})
		}

		payment := apiGroup.Group("/payment")
		{
			addRoutes(payment, []route{
				{Method: http.MethodPost, Path: "", Handler: paymentHandler.Create},
				{Method: http.MethodPost, Path: "/notification", Handler: paymentHandler.Notification},
				{Method: http.MethodGet, Path: "/:paymentId/status", Handler: paymentHandler.Status},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
