// Package router assembles the HTTP routing table.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/debtkeeper/debtkeeper-server/internal/api/http/handler"
	"github.com/debtkeeper/debtkeeper-server/internal/api/http/middleware"
	"github.com/debtkeeper/debtkeeper-server/internal/logger"
)

// New builds the gin engine with all routes registered. Open routes
// come first; everything under the authenticated group passes through
// the authentication middleware.
func New(
	authHandler *handler.Auth,
	userHandler *handler.User,
	debtHandler *handler.Debt,
	authenticate *middleware.Authenticate,
	l *logger.Logger,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.Logging(l))

	engine.GET("/healthz", handler.Health)
	engine.POST("/login", authHandler.Login)
	engine.POST("/users", userHandler.Register)
	engine.POST("/auth/google", authHandler.BeginOAuth)
	engine.POST("/auth/google/callback", authHandler.CompleteOAuth)

	authed := engine.Group("/", authenticate.Handle)
	authed.GET("/users/:username", userHandler.Get)
	authed.POST("/debts", debtHandler.Create)
	authed.GET("/debts", debtHandler.List)
	authed.GET("/debts/:debt_id", debtHandler.Get)
	authed.PUT("/debts/:debt_id", debtHandler.Update)
	authed.DELETE("/debts/:debt_id", debtHandler.Delete)

	return engine
}
