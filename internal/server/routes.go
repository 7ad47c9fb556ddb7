package server

import "github.com/gin-gonic/gin"

// SetupRoutes configures a gin engine with all application routes.
func SetupRoutes(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.log))

	api := router.Group("/", h.origins.cors())
	{
		api.GET("/", h.Root)
		api.GET("/health", h.Health)
		api.GET("/status", h.Status)
		api.GET("/rooms", h.Rooms)
		api.GET("/rooms/:room_id/connections", h.RoomConnections)
		api.GET("/messages/:room_id", h.Messages)
		api.POST("/broadcast/:room_id", h.Broadcast)
		api.POST("/heartbeat/:room_id", h.Heartbeat)
		api.OPTIONS("/*path", func(*gin.Context) {})
	}
	router.GET("/ws/:room_id", h.WebSocket)
	router.GET("/test", ServeTestPage)
	return router
}
