package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Login)
		r.Post("/auth/register", h.Register)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate)

			r.Get("/users/me", h.GetProfile)
			r.Patch("/users/me", h.UpdateProfile)

			r.Post("/chat/message", h.SendMessage)
			r.Post("/chat/sessions", h.CreateSession)
			r.Get("/chat/sessions", h.ListSessions)
			r.Get("/chat/sessions/{sessionID}", h.GetSession)
			r.Get("/chat/sessions/{sessionID}/messages", h.GetSessionMessages)
			r.Patch("/chat/sessions/{sessionID}", h.UpdateSession)
			r.Delete("/chat/sessions/{sessionID}", h.DeleteSession)
		})
	})

	return r
}
