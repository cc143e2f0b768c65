package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staybnb/pkg/auth"
	"staybnb/pkg/logger"
	"staybnb/pkg/metrics"
)

const serviceName = "payments-service"

// SetupRoutes настраивает маршруты payments-service.
// Сервис внутренний, CORS не нужен.
func SetupRoutes(h *PaymentsHandler, resolver auth.Resolver) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	payments := router.Group("/payments")
	{
		payments.POST("/subtract", h.SubtractFunds)
		payments.POST("/add", h.AddFunds)
		payments.GET("/accounts/:userId/balance", h.GetBalance)
		payments.GET("/balance", auth.Identify(resolver), auth.Authenticated(), h.GetMyBalance)
	}

	return router
}
