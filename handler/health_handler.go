// ABOUTME: This file implements the health check endpoint
// ABOUTME: Reports service liveness and database connectivity
package handler

import (
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *pgxpool.Pool, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
	}
}

// HandleHealth handles GET /health requests. The service reports degraded
// instead of failing when the database is unreachable, because the bot can
// still answer non-persistent interactions.
func (h *HealthHandler) HandleHealth(c echo.Context) error {
	ctx := c.Request().Context()

	database := "disabled"
	if h.db != nil {
		database = "healthy"
		if err := h.db.Ping(ctx); err != nil {
			h.logger.ErrorContext(ctx, "database ping failed", "error", err)
			database = "unreachable"
		}
	}

	status := "healthy"
	if database == "unreachable" {
		status = "degraded"
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":   status,
		"database": database,
	})
}
