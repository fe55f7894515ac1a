package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/teamline/unibox/internal/models"
	"github.com/teamline/unibox/internal/service"
)

type scheduleRequest struct {
	ContactID   string `json:"contact_id"`
	Body        string `json:"body"`
	Channel     string `json:"channel"`
	ScheduledAt string `json:"scheduled_at"`
}

// CreateSchedule handles POST /api/schedules.
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid JSON payload")
		return
	}

	channel, ok := models.ParseChannel(req.Channel)
	if !ok {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "channel must be one of SMS, WHATSAPP, EMAIL")
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "scheduled_at must be an RFC 3339 timestamp")
		return
	}

	scheduled, err := h.service.Schedule.Schedule(r.Context(), service.ScheduleRequest{
		ContactID:   req.ContactID,
		Body:        req.Body,
		Channel:     channel,
		ScheduledAt: scheduledAt,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, scheduled)
}

// ListSchedules handles GET /api/schedules?status=pending|sent|cancelled.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	filter := service.ParseStatusFilter(r.URL.Query().Get("status"))

	result, err := h.service.Schedule.List(r.Context(), filter)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// CancelSchedule handles DELETE /api/schedules/{id}.
func (h *Handler) CancelSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Schedule.Cancel(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"message": "Scheduled message cancelled",
	})
}
