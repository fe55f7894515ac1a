package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/teamline/unibox/internal/middleware"
	"github.com/teamline/unibox/internal/models"
)

type noteRequest struct {
	ContactID  string `json:"contact_id"`
	Body       string `json:"body"`
	Visibility string `json:"visibility"`
}

// CreateNote handles POST /api/notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid JSON payload")
		return
	}

	visibility := models.NoteVisibility(req.Visibility)
	if visibility != "" && visibility != models.NoteVisibilityPublic && visibility != models.NoteVisibilityPrivate {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "visibility must be PUBLIC or PRIVATE")
		return
	}

	user := middleware.GetCurrentUser(r.Context())

	note, err := h.service.Note.Create(r.Context(), req.ContactID, user.ID, req.Body, visibility)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, note)
}

// ListContactNotes handles GET /api/contacts/{id}/notes.
func (h *Handler) ListContactNotes(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetCurrentUser(r.Context())

	notes, err := h.service.Note.ListByContact(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, notes)
}

type noteUpdateRequest struct {
	Body string `json:"body"`
}

// UpdateNote handles PUT /api/notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req noteUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid JSON payload")
		return
	}

	user := middleware.GetCurrentUser(r.Context())

	note, err := h.service.Note.Update(r.Context(), chi.URLParam(r, "id"), user.ID, req.Body)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetCurrentUser(r.Context())

	if err := h.service.Note.Delete(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{"success": true})
}
