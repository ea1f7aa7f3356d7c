package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/api/handlers"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/middleware"
	"github.com/playmatatu/billiards/internal/tables"
	"github.com/playmatatu/billiards/internal/ws"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, manager *tables.Manager, hub *ws.Hub, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(db, rdb))

		t := v1.Group("/tables")
		{
			t.POST("", handlers.CreateTable(manager, cfg))
			t.GET("/:id", handlers.GetTable(manager))
			t.GET("/:id/shots", handlers.GetTableShots(manager))
			t.GET("/:id/ws", middleware.WebSocketCORSCheck(cfg), ws.HandleWebSocket(hub, manager, cfg.JWTSecret))
		}

		a := v1.Group("/admin", middleware.AdminTokenMiddleware(cfg))
		{
			a.GET("/tables", handlers.ListTables(manager))
			a.GET("/tables/history", handlers.GetTableHistory(manager))
			a.DELETE("/tables/:id", handlers.CloseTable(manager))
			a.GET("/events/ws", ws.HandleAdminEvents(hub))
		}
	}
}
