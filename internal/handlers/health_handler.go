package handlers

import (
	"net/http"
	"time"

	"wallet-dashboard/internal/dto"
	"wallet-dashboard/internal/errors"
	"wallet-dashboard/internal/services"

	"github.com/labstack/echo/v4"
)

// HealthChecker is satisfied by the snapshot database
type HealthChecker interface {
	HealthCheck() error
}

// HealthCheckHandler handles the health check endpoint
type HealthCheckHandler struct {
	db      HealthChecker
	breaker services.CircuitBreakerInterface
	service services.DashboardServiceInterface
	now     func() time.Time
}

// NewHealthCheckHandler creates a new health check handler. db and breaker are
// optional: the snapshot store can be disabled and demo mode has no breaker.
func NewHealthCheckHandler(
	db HealthChecker,
	breaker services.CircuitBreakerInterface,
	service services.DashboardServiceInterface,
) *HealthCheckHandler {
	return &HealthCheckHandler{
		db:      db,
		breaker: breaker,
		service: service,
		now:     time.Now,
	}
}

// HealthCheck reports service, snapshot store and cache status
// @Summary Health check
// @Description Check snapshot database connectivity and the state of the wallet data caches
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service is healthy"
// @Failure 503 {object} errors.ErrorResponse "SYSTEM_003 - Service unavailable (database connection failed)"
// @Router /health [get]
func (h *HealthCheckHandler) HealthCheck(c echo.Context) error {
	database := "disabled"
	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			return SendError(c, errors.SystemServiceUnavailable, errors.WithDetails("Database connection failed"))
		}
		database = "connected"
	}

	breaker := "none"
	if h.breaker != nil {
		breaker = h.breaker.GetState().String()
	}

	return c.JSON(http.StatusOK, dto.HealthResponse{
		Status:         "healthy",
		Time:           h.now().UTC().Format(time.RFC3339),
		Database:       database,
		CircuitBreaker: breaker,
		Caches:         h.service.CacheStates(),
	})
}
