package onboarding

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/onboarding", func(r chi.Router) {
		r.Post("/", h.Start)
		r.Route("/{userId}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/answers", h.UpdateAnswers)
			r.Post("/emotions/toggle", h.ToggleEmotion)
			r.Post("/next", h.Next)
			r.Post("/back", h.Back)
			r.Post("/plan", h.CreatePlan)
			r.Post("/retry", h.Retry)
			r.Post("/back-to-quiz", h.BackToQuiz)
			r.Post("/paywall/trial", h.StartTrial)
			r.Post("/paywall/start", h.StartNow)
			r.Post("/paywall/details", h.ViewDetails)
			r.Post("/first-step", h.StartFirstStep)
			r.Post("/complete-habit", h.CompleteHabit)
			r.Post("/tasks/{taskId}/complete", h.CompletePlanTask)
		})
	})
}
