package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	stats func() interface{}
}

// NewHealthHandler builds the health check handler. stats may be nil.
func NewHealthHandler(db Pinger, stats func() interface{}) *HealthHandler {
	return &HealthHandler{db: db, stats: stats}
}

func (h *HealthHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness answers as long as the process serves HTTP.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Readiness also checks the database.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"message": "database connection failed",
		})
		return
	}

	body := gin.H{"status": "OK"}
	if h.stats != nil {
		body["notifications"] = h.stats()
	}
	c.JSON(http.StatusOK, body)
}
