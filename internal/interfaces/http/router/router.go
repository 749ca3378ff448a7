package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tg_pizzeria/internal/interfaces/http/handler"
	"tg_pizzeria/internal/interfaces/http/middleware"
	"tg_pizzeria/pkg/logger"
	"tg_pizzeria/pkg/metrics"
)

// RegisterRoutes mounts the intake API surface. m may be nil (tests).
func RegisterRoutes(r *gin.Engine, orderHandler *handler.OrderHandler, menuHandler *handler.MenuHandler, log logger.Logger, m *metrics.Metrics) {
	r.Use(middleware.RequestID())
	if log != nil {
		r.Use(middleware.AccessLog(log))
	}
	if m != nil {
		r.Use(middleware.Metrics(m))
	}

	r.POST("/orders", orderHandler.CreateOrder)
	r.GET("/orders", orderHandler.ListOrders)
	r.PATCH("/orders", orderHandler.UpdateOrder)

	r.GET("/menu", menuHandler.GetMenu)
	r.POST("/quote", menuHandler.Quote)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
