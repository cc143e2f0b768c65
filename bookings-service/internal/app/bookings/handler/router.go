package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staybnb/bookings-service/internal/app/bookings/entity"
	"staybnb/bookings-service/internal/app/bookings/service"
	"staybnb/pkg/auth"
	"staybnb/pkg/federation"
	"staybnb/pkg/logger"
	"staybnb/pkg/metrics"
)

const serviceName = "bookings-service"

// SetupRoutes настраивает маршруты bookings-service.
// Роли проверяет сервис, Identify только определяет вызывающего.
// Мутации дополнительно проверяют роль до разбора тела запроса.
func SetupRoutes(h *BookingsHandler, resolver auth.Resolver, entities *federation.Resolver) *gin.Engine {
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

	// Поля объявления, которые вычисляет bookings-service
	listings := router.Group("/listings/:id")
	{
		listings.GET("/availability", h.IsListingAvailable)
		listings.GET("/booked-dates", h.GetBookedDates)
		listings.GET("/upcoming-count", h.GetUpcomingCount)
	}

	bookings := router.Group("/bookings")
	bookings.Use(auth.Identify(resolver))
	{
		bookings.POST("", auth.RequireRole(service.MsgGuestsOnly, auth.RoleGuest), h.CreateBooking)
		bookings.GET("/guest", h.GuestBookings(""))
		bookings.GET("/guest/past", h.GuestBookings(entity.BookingStatusCompleted))
		bookings.GET("/guest/upcoming", h.GuestBookings(entity.BookingStatusUpcoming))
		bookings.GET("/guest/current", h.GetCurrentGuestBooking)
		bookings.GET("/listing/:listingId", h.GetBookingsForListing)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("/:id/listing-id", h.GetListingID)
		bookings.GET("/:id/guest-id", h.GetGuestID)
	}

	return router
}
