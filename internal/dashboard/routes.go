package dashboard

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/users/{userId}", func(r chi.Router) {
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)
		r.Get("/tasks", h.GetTasks)
		r.Post("/tasks/{taskId}/complete", h.CompleteTask)
		r.Get("/stats", h.GetStats)
	})
}
