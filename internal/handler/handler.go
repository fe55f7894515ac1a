// Package handler provides HTTP request handlers for the application.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/teamline/unibox/internal/middleware"
	"github.com/teamline/unibox/internal/service"
)

// Error codes returned in API error payloads.
const (
	errorCodeValidation        = "VALIDATION_ERROR"
	errorCodeNotFound          = "NOT_FOUND"
	errorCodeInvalidState      = "INVALID_STATE"
	errorCodeDispatcherRunning = "DISPATCHER_ALREADY_RUNNING"
	errorCodeDispatcherStopped = "DISPATCHER_NOT_RUNNING"
)

// ErrorResponse is the JSON error payload for all handlers.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Handler struct {
	service *service.Service
	logger  *zap.Logger
}

// NewHandler creates a new handler instance.
func NewHandler(service *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error:     errorCode,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// serviceError maps well-known service errors onto HTTP responses and logs
// everything else as an internal error.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationError *service.ValidationError
	switch {
	case errors.As(err, &validationError):
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, validationError.Error())
	case errors.Is(err, service.ErrContactNotFound),
		errors.Is(err, service.ErrScheduleNotFound),
		errors.Is(err, service.ErrNoteNotFound),
		errors.Is(err, service.ErrMessageNotFound):
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, err.Error())
	case errors.Is(err, service.ErrNotPending):
		h.sendError(w, r, http.StatusConflict, errorCodeInvalidState, "Can only cancel pending messages")
	default:
		h.logger.Error("Request failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, middleware.ErrorMessageInternal)
	}
}
