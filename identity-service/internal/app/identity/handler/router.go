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

const serviceName = "identity-service"

// SetupRoutes настраивает маршруты identity-service.
// resolver проверяет токены с учетом черного списка.
func SetupRoutes(h *IdentityHandler, resolver auth.Resolver, entities *federation.Resolver) *gin.Engine {
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
	router.GET("/login/:id", h.Lookup)

	// Публичные эндпоинты
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.RefreshToken)

		protected := authGroup.Group("")
		protected.Use(auth.Identify(resolver), auth.Authenticated())
		{
			protected.GET("/me", h.GetMe)
			protected.POST("/logout", h.Logout)
		}
	}

	router.GET("/identity/resolve", auth.Identify(resolver), h.ResolveIdentity)

	return router
}
