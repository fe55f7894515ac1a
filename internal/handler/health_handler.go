package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/teamline/unibox/internal/middleware"
	"github.com/teamline/unibox/internal/scheduler"
	"github.com/teamline/unibox/internal/service"
)

type healthResponse struct {
	*service.HealthStatus
	Timestamp time.Time `json:"timestamp"`
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := h.service.Health.GetHealth()

	if health.Status == service.HealthUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	render.JSON(w, r, healthResponse{
		HealthStatus: health,
		Timestamp:    time.Now(),
	})
}

// StartDispatcher handles POST /api/dispatcher/start.
func (h *Handler) StartDispatcher(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Dispatcher.Start(); err != nil {
		if errors.Is(err, scheduler.ErrSchedulerAlreadyRunning) {
			h.sendError(w, r, http.StatusConflict, errorCodeDispatcherRunning, "Dispatcher is already running")
			return
		}

		h.logger.Error("Failed to start dispatcher",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, "Failed to start dispatcher")
		return
	}

	render.JSON(w, r, map[string]interface{}{"status": "started"})
}

// StopDispatcher handles POST /api/dispatcher/stop.
func (h *Handler) StopDispatcher(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Dispatcher.Stop(); err != nil {
		if errors.Is(err, scheduler.ErrSchedulerNotRunning) {
			h.sendError(w, r, http.StatusConflict, errorCodeDispatcherStopped, "Dispatcher is not running")
			return
		}

		h.logger.Error("Failed to stop dispatcher",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, "Failed to stop dispatcher")
		return
	}

	render.JSON(w, r, map[string]interface{}{"status": "stopped"})
}
