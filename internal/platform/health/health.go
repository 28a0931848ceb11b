package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves liveness and readiness checks.
type Handler struct {
	db          *gorm.DB
	serviceName string
}

// NewHandler creates a health Handler.
func NewHandler(db *gorm.DB, serviceName string) *Handler {
	return &Handler{db: db, serviceName: serviceName}
}

// RegisterRoutes mounts /health and /ready.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
}

// Health reports the process is up.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.serviceName})
}

// Ready reports whether the database is reachable.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": h.serviceName})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": h.serviceName})
}
