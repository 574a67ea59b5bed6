package plans

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/api/plans/generate", h.Generate)
	r.Get("/api/plans/{planId}", h.Get)
	r.Post("/api/plans/{planId}/tasks/{taskId}/complete", h.CompleteTask)
	r.Get("/plans/{planId}", h.Page)
}
