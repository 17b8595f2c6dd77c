package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"assistant-go/pkg/log"
)

// HealthHandler exposes the liveness and database connectivity probes.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Live handles GET /health.
func (h *HealthHandler) Live(c *gin.Context) {
	respondOK(c, gin.H{"status": "ok"})
}

// Database handles GET /health/db.
func (h *HealthHandler) Database(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		log.Errorf("database health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    http.StatusServiceUnavailable,
			"message": "database unreachable",
		})
		return
	}
	respondOK(c, gin.H{"status": "ok"})
}
