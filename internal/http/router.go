package api

import (
	"log"
	stdhttp "net/http"

	intconfig "broride/internal/config"
	h "broride/internal/http/handlers"
	"broride/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, deps h.Deps) *gin.Engine {
	h.Configure(deps)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSAllowedOrigins),
		middleware.Identity(env.JWTSecret),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		routes := api.Group("/routes")
		routes.POST("", h.CreateRoute)
		routes.GET("", h.SearchRoutes)
		routes.GET("/:id", h.GetRoute)
		routes.POST("/:id/cancel", h.CancelRoute)
		routes.POST("/:id/complete", h.CompleteRoute)
		routes.GET("/:id/bookings", h.ListRouteBookings)
		routes.GET("/:id/manifest", h.GetRouteManifest)

		bookings := api.Group("/bookings")
		bookings.POST("", h.RequestBooking)
		bookings.GET("", h.ListMyBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/accept", h.AcceptBooking)
		bookings.POST("/:id/decline", h.DeclineBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.GET("/:id/receipt", h.GetBookingReceipt)

		api.POST("/estimate-cost", h.EstimateCost)
	}

	return r
}
