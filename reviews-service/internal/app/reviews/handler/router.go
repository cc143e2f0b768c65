package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staybnb/pkg/auth"
	"staybnb/pkg/federation"
	"staybnb/pkg/logger"
	"staybnb/pkg/metrics"
	"staybnb/reviews-service/internal/app/reviews/service"
)

const serviceName = "reviews-service"

// SetupRoutes настраивает маршруты reviews-service
func SetupRoutes(h *ReviewHandler, resolver auth.Resolver, entities *federation.Resolver) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/_entities", federation.EntitiesHandler(entities))

	router.GET("/hosts/:id/rating", h.GetHostRating)

	reviews := router.Group("/reviews")
	{
		reviews.GET("/:id", h.GetReview)
		reviews.GET("/booking/:bookingId", h.GetReviewForBooking)

		// Роль проверяется до разбора тела отзыва
		protected := reviews.Group("/booking/:bookingId")
		protected.Use(auth.Identify(resolver))
		{
			protected.POST("/host-and-location", auth.RequireRole(service.MsgGuestsOnly, auth.RoleGuest), h.SubmitHostAndLocationReviews)
			protected.POST("/guest", auth.RequireRole(service.MsgHostsOnly, auth.RoleHost), h.SubmitGuestReview)
		}
	}

	return router
}
