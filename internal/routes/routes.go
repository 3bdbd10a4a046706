package routes

import (
	"jobboard_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// Middlewares - middleware, которые нужны отдельным группам маршрутов
// (общесерверные вешаются на gin.Engine в пакете app).
type Middlewares struct {
	Auth         gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	RateLimit    gin.HandlerFunc
}

// RegisterRoutes регистрирует все HTTP маршруты под /api/v1.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, mw Middlewares) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.Auth.RegisterRoutes(api, mw.Auth, mw.RateLimit)
		appHandlers.Job.RegisterRoutes(api, mw.Auth, mw.OptionalAuth)
		appHandlers.Application.RegisterRoutes(api, mw.Auth)
		appHandlers.User.RegisterRoutes(api, mw.Auth)
	}
}
