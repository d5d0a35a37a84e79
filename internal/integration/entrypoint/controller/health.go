package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/giftcircle/backend/internal/integration/entrypoint/dto"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

// HealthController handles health check endpoints.
type HealthController struct {
	database Pinger
	redis    Pinger
}

// NewHealthController creates a new health controller instance. redis may be
// nil when the process runs without it.
func NewHealthController(database, redis Pinger) *HealthController {
	return &HealthController{
		database: database,
		redis:    redis,
	}
}

// Check handles GET /health requests. The database is required; Redis only
// degrades rate limiting, so its absence does not fail the check.
func (h *HealthController) Check(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	response := dto.HealthResponse{
		Status:    "ok",
		Database:  probe(reqCtx, h.database),
		Redis:     probe(reqCtx, h.redis),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	status := http.StatusOK
	if response.Database != "connected" {
		response.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, response)
}

func probe(ctx context.Context, ping Pinger) string {
	if ping == nil {
		return "disabled"
	}
	if err := ping(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}
