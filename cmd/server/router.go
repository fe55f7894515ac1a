package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teamline/unibox/internal/handler"
	"github.com/teamline/unibox/internal/middleware"
)

func setupRouter(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	// Unauthenticated operational surface
	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	// Provider callbacks authenticate out of band, not via identity headers
	r.Post("/api/webhooks/twilio", h.TwilioInbound)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth)

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", h.ListContacts)
			r.Get("/{id}", h.GetContact)
			r.Get("/{id}/messages", h.ListContactMessages)
			r.Get("/{id}/notes", h.ListContactNotes)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEditor)
				r.Post("/", h.CreateContact)
				r.Delete("/{id}", h.DeleteContact)
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/{id}/read", h.MarkMessageRead)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEditor)
				r.Post("/send", h.SendMessage)
			})
		})

		r.Route("/notes", func(r chi.Router) {
			r.Use(middleware.RequireEditor)
			r.Post("/", h.CreateNote)
			r.Put("/{id}", h.UpdateNote)
			r.Delete("/{id}", h.DeleteNote)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", h.ListSchedules)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEditor)
				r.Post("/", h.CreateSchedule)
				r.Delete("/{id}", h.CancelSchedule)
			})
		})

		r.Get("/analytics", h.Analytics)

		r.Route("/dispatcher", func(r chi.Router) {
			r.Use(middleware.RequireEditor)
			r.Post("/start", h.StartDispatcher)
			r.Post("/stop", h.StopDispatcher)
		})
	})

	return r
}
