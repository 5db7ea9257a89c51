package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/auth"
	"github.com/cocopets/boarding/internal/server/handlers"
)

// Handlers bundles every HTTP adapter the router mounts.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Pricing      *handlers.PricingHandler
	Availability *handlers.AvailabilityHandler
	Pets         *handlers.PetsHandler
	Bookings     *handlers.BookingsHandler
	Payments     *handlers.PaymentsHandler
	Messages     *handlers.MessagesHandler
	Reports      *handlers.ReportsHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, tokens *auth.TokenManager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	api.POST("/pricing/quote", h.Pricing.Quote)
	api.GET("/pricing/catalog", h.Pricing.Catalog)
	api.GET("/availability", h.Availability.Get)

	api.POST("/payments/webhook", h.Payments.Webhook)

	authed := api.Group("", auth.Middleware(tokens))
	{
		authed.GET("/auth/me", h.Auth.Me)

		authed.POST("/pets", h.Pets.Create)
		authed.GET("/pets", h.Pets.List)
		authed.GET("/pets/:id", h.Pets.Get)
		authed.PUT("/pets/:id", h.Pets.Update)
		authed.DELETE("/pets/:id", h.Pets.Delete)

		authed.POST("/bookings", h.Bookings.Create)
		authed.GET("/bookings", h.Bookings.List)
		authed.GET("/bookings/:id", h.Bookings.Get)
		authed.POST("/bookings/:id/cancel", h.Bookings.Cancel)

		authed.GET("/notifications", h.Messages.Notifications)
		authed.POST("/notifications/read", h.Messages.MarkNotificationsRead)
		authed.POST("/messages", h.Messages.Send)
		authed.GET("/messages", h.Messages.Thread)
	}

	admin := api.Group("/admin", auth.Middleware(tokens), auth.AdminOnly())
	{
		admin.POST("/availability", h.Availability.Set)
		admin.GET("/bookings", h.Bookings.AdminList)
		admin.GET("/reports", h.Reports.List)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
