package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler handles GET /health — liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct {
	redis *redis.Client // nil when the in-memory guard is in use
}

func NewHealthHandler(rdb *redis.Client) *HealthHandler {
	return &HealthHandler{redis: rdb}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness handles GET /health/ready. The only optional dependency is the
// Redis submit-guard backend; the upstream task API is deliberately excluded
// because its outages must degrade pages, not take this process out of
// rotation.
func (h *HealthHandler) Readiness(c echo.Context) error {
	deps := make(map[string]dependencyStatus)
	status, httpStatus := "ok", http.StatusOK

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()
		if err := h.redis.Ping(ctx).Err(); err != nil {
			deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			status, httpStatus = "degraded", http.StatusServiceUnavailable
		} else {
			deps["redis"] = dependencyStatus{Status: "ok"}
		}
	}

	return c.JSON(httpStatus, readinessResponse{Status: status, Dependencies: deps})
}
