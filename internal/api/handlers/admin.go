package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/tables"
)

// ListTables returns every running table.
func ListTables(manager *tables.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		list := manager.List()
		c.JSON(http.StatusOK, gin.H{"tables": list, "count": len(list)})
	}
}

// GetTableHistory returns a page of table sessions from the database.
func GetTableHistory(manager *tables.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if limit <= 0 || limit > 200 {
			limit = 25
		}
		if offset < 0 {
			offset = 0
		}

		sessions, total, err := manager.History(limit, offset)
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch table history: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch table history"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"sessions": sessions,
			"total":    total,
			"limit":    limit,
			"offset":   offset,
		})
	}
}

// CloseTable stops a running table.
func CloseTable(manager *tables.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		err := manager.Close(id, tables.ReasonClosed)
		if errors.Is(err, tables.ErrTableNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
			return
		}
		if err != nil {
			// The table is stopped; only the database update failed.
			log.Printf("[ADMIN] Close of table %s not recorded: %v", id, err)
		}
		log.Printf("[ADMIN] Table %s closed by %s", id, c.ClientIP())
		c.JSON(http.StatusOK, gin.H{"ok": true, "id": id})
	}
}
