package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/admin"
	"github.com/playmatatu/billiards/internal/config"
)

// AdminTokenMiddleware requires an X-Admin-Token header matching the bcrypt
// hash in ADMIN_TOKEN_HASH. With no hash configured every admin request is
// refused.
func AdminTokenMiddleware(cfg *config.Config) gin.HandlerFunc {
	if cfg.AdminTokenHash == "" {
		log.Println("[ADMIN] ADMIN_TOKEN_HASH not set; admin routes disabled")
	}
	return func(c *gin.Context) {
		token := c.GetHeader("X-Admin-Token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		if !admin.VerifyToken(cfg.AdminTokenHash, token) {
			log.Printf("[ADMIN] Rejected admin token from %s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin token"})
			return
		}
		c.Next()
	}
}
