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
)

const serviceName = "listings-service"

// SetupRoutes настраивает маршруты listings-service.
// Identify пропускает запросы без заголовка как анонимные, проверку роли делает сервис.
func SetupRoutes(h *ListingsHandler, resolver auth.Resolver, entities *federation.Resolver) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
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
	router.GET("/users/:id/listings", h.GetListingsForUser)

	listings := router.Group("/listings")
	listings.Use(auth.Identify(resolver))
	{
		listings.GET("/featured", h.GetFeaturedListings)
		listings.GET("/search", h.SearchListings)
		listings.GET("/amenities", h.GetAllAmenities)
		listings.GET("/host", h.GetHostListings)
		listings.GET("/:id", h.GetListing)
		listings.GET("/:id/cost", h.GetTotalCost)
		listings.POST("", auth.Authenticated(), h.CreateListing)
		listings.PATCH("/:id", auth.Authenticated(), h.UpdateListing)
	}

	return router
}
