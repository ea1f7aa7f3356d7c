package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/auth"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/tables"
)

// CreateTable racks a new table and returns its id with a token for playing
// on it.
func CreateTable(manager *tables.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := manager.CreateTable()
		if errors.Is(err, tables.ErrTooManyTables) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Too many tables, try again later"})
			return
		}
		if err != nil {
			log.Printf("[TABLE] Failed to create table: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create table"})
			return
		}

		ttl := time.Duration(cfg.TableTokenTTLMinutes) * time.Minute
		token, exp, err := auth.IssueTableToken(cfg.JWTSecret, s.ID, ttl)
		if err != nil {
			log.Printf("[TABLE] Failed to sign token for table %s: %v", s.ID, err)
			manager.Close(s.ID, tables.ReasonClosed)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create table"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":         s.ID,
			"token":      token,
			"expires_at": exp,
			"ws_url":     "/api/v1/tables/" + s.ID + "/ws?token=" + token,
			"state":      s.State(),
		})
	}
}

// GetTable returns the live state of a table, or its last cached state once
// it is no longer running.
func GetTable(manager *tables.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := manager.State(c.Request.Context(), c.Param("id"))
		if errors.Is(err, tables.ErrTableNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
			return
		}
		if err != nil {
			log.Printf("[TABLE] Failed to load table %s: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load table"})
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// GetTableShots returns the shot and pocketing history of a table.
func GetTableShots(manager *tables.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		shots, err := manager.Shots(id)
		if err != nil {
			log.Printf("[DB] Failed to list shots for table %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shots"})
			return
		}
		pocketings, err := manager.Pocketings(id)
		if err != nil {
			log.Printf("[DB] Failed to list pocketings for table %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shots"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"table_id":   id,
			"shots":      shots,
			"pocketings": pocketings,
		})
	}
}
