package di

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Amitro123/EventPulse/internal/middleware"
	"github.com/Amitro123/EventPulse/pkg/telemetry"
)

// NewRouter mounts every route of the API on a fresh gin engine
func NewRouter(c *Container) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(c.Logger),
		middleware.CORS(c.Config.CORS.Origins),
	)
	if c.Config.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(c.Config.OTel.ServiceName))
	}
	router.Use(middleware.AccessLog(c.Logger, c.Metrics))

	// Health check endpoints
	router.GET("/ready", c.HealthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		api.GET("/health", c.HealthHandler.Health)

		events := api.Group("/events")
		{
			events.GET("", c.EventHandler.Search)
			events.GET("/by-artist", c.EventHandler.ByArtist)
			events.GET("/:id/package", c.EventHandler.Package)
		}
	}

	return router
}
