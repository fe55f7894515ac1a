package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/teamline/unibox/internal/middleware"
	"github.com/teamline/unibox/internal/models"
)

// TwilioInbound handles POST /api/webhooks/twilio, the provider's inbound
// message callback. The payload is form-encoded; a whatsapp: prefix on the
// From address marks WhatsApp traffic.
func (h *Handler) TwilioInbound(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid form payload")
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")

	channel := models.ChannelSMS
	if strings.HasPrefix(from, "whatsapp:") {
		channel = models.ChannelWhatsApp
		from = strings.TrimPrefix(from, "whatsapp:")
	}

	message, err := h.service.Message.ReceiveInbound(r.Context(), from, body, channel)
	if err != nil {
		h.logger.Error("Failed to process inbound webhook",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		h.serviceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{"message_id": message.ID})
}
