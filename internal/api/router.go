// internal/api/router.go
package api

import (
	"fmt"
	"net/http"

	"github.com/Halcyonic/VoidTrader/internal/di"
	"github.com/Halcyonic/VoidTrader/internal/services"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires the HTTP routes. Services come from the DI container;
// InitServices must run first.
func SetupRouter() (*gin.Engine, error) {
	container := di.GetContainer()

	eventService, ok := container.Get("event").(*services.EventService)
	if !ok {
		return nil, fmt.Errorf("event service not initialized")
	}

	wsManager := NewWebSocketManager()
	eventService.SetNotifier(wsManager)

	handler := NewHandler(eventService, wsManager)

	r := gin.Default()

	r.Use(corsMiddleware())
	r.Use(RequestIDMiddleware())

	registerRoutes(r, handler)

	return r, nil
}

// registerRoutes attaches all endpoints to the engine.
func registerRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Realtime event feed per session.
	r.GET("/ws/sessions/:id", handler.SessionWebSocket)

	api := r.Group("/api")
	api.Use(DefaultRateLimit())
	{
		sessionsGroup := api.Group("/sessions")
		{
			sessionsGroup.POST("", handler.CreateSession)
			sessionsGroup.GET("", handler.ListSessions)
			sessionsGroup.GET("/:id", handler.GetSession)
			sessionsGroup.DELETE("/:id", handler.DeleteSession)

			sessionsGroup.POST("/:id/save", handler.SaveSession)
			sessionsGroup.POST("/:id/load", handler.LoadSession)

			eventsGroup := sessionsGroup.Group("/:id/events")
			{
				eventsGroup.POST("/check", CheckRateLimit(), handler.CheckEvents)
				eventsGroup.POST("/resolve", handler.ResolveEvent)

				eventsGroup.GET("", handler.GetEvents)
				eventsGroup.POST("", handler.RegisterEvent)
				eventsGroup.DELETE("/:event_id", handler.UnregisterEvent)

				eventsGroup.GET("/history", handler.GetEventHistory)
				eventsGroup.GET("/statistics", handler.GetEventStatistics)
			}
		}

		archiveGroup := api.Group("/archive")
		{
			archiveGroup.GET("/statistics", handler.GetArchiveStatistics)
			archiveGroup.GET("/sessions/:id/history", handler.GetArchivedHistory)
		}

		api.GET("/ws/status", handler.GetWebSocketStatus)
	}
}

// corsMiddleware enables cross-origin requests.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
