package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/teamline/unibox/internal/middleware"
	"github.com/teamline/unibox/internal/models"
	"github.com/teamline/unibox/internal/service"
)

type sendRequest struct {
	To      string `json:"to"`
	Body    string `json:"body"`
	Channel string `json:"channel"`
}

// SendMessage handles POST /api/messages/send, the immediate send path.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid JSON payload")
		return
	}

	channel := models.ChannelSMS
	if req.Channel != "" {
		parsed, ok := models.ParseChannel(req.Channel)
		if !ok {
			h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "channel must be one of SMS, WHATSAPP")
			return
		}
		channel = parsed
	}

	user := middleware.GetCurrentUser(r.Context())

	message, err := h.service.Message.SendNow(r.Context(), service.SendRequest{
		To:       req.To,
		Body:     req.Body,
		Channel:  channel,
		SenderID: user.ID,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, message)
}

// ListContactMessages handles GET /api/contacts/{id}/messages.
func (h *Handler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "id")

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	messages, err := h.service.Message.ListByContact(r.Context(), contactID, limit)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, messages)
}

// MarkMessageRead handles POST /api/messages/{id}/read.
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Message.MarkRead(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{"success": true})
}

// Analytics handles GET /api/analytics: message volume per channel plus
// schedule status counts.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Message.ChannelCounts(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	schedules, err := h.service.Schedule.List(r.Context(), service.FilterAll)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"messages_by_channel": counts,
		"schedules":           schedules.Summary,
	})
}
