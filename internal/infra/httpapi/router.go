package httpapi

import (
	"time"

	"tide_notification_bot/internal/app"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRouter creates the read-only tide API. An empty allowedOrigins allows every origin.
func SetupRouter(tides *app.TideService, allowedOrigins []string, logger *logrus.Entry) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	handler := NewHandler(tides)

	v1 := router.Group("/v1")
	counties := v1.Group("/counties")
	counties.GET("", handler.ListCounties)
	counties.GET("/:county/regions", handler.ListRegions)
	counties.GET("/:county/report", handler.GetCountyReport)
	v1.GET("/regions/:id/report", handler.GetRegionReport)

	router.GET("/health", handler.HealthCheck)

	return router
}

// requestLogger writes one logrus line per request.
func requestLogger(logger *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(started).String(),
		}).Debug("HTTP request served")
	}
}
