package onboarding

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/apiclient"
	"github.com/emiliopalmerini/despertar/internal/domain"
	"github.com/emiliopalmerini/despertar/internal/util"
)

// View is a flow plus what a client needs to render the current screen.
type View struct {
	*domain.Flow
	Progress       float64         `json:"progress"`
	StepName       string          `json:"stepName"`
	CanProceed     bool            `json:"canProceed"`
	ProfileMessage *domain.Message `json:"profileMessage,omitempty"`
	VolumeMessage  *domain.Message `json:"volumeMessage,omitempty"`
	CheckoutURL    string          `json:"checkoutUrl,omitempty"`
}

func newView(f *domain.Flow) View {
	v := View{
		Flow:       f,
		Progress:   f.Progress(),
		StepName:   domain.StepName(f.Step),
		CanProceed: domain.CanProceed(f.Step, f.Answers),
	}
	if f.Personalization != nil {
		pm := domain.ProfileMessage(f.Personalization.Profile)
		vm := domain.PlanVolumeMessage(f.Personalization.PlanVolume)
		v.ProfileMessage = &pm
		v.VolumeMessage = &vm
	}
	return v
}

type toggleEmotionRequest struct {
	Emotion string `json:"emotion"`
}

// Handler exposes the onboarding flow over HTTP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type flowOp func(ctx context.Context, userID string) (*domain.Flow, error)

// run applies op to the user in the URL and writes the resulting view.
func (h *Handler) run(op flowOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := op(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			h.writeError(w, err)
			return
		}
		util.WriteJSON(w, http.StatusOK, newView(f))
	}
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	f, err := h.service.Start(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, newView(f))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.run(h.service.Get)(w, r)
}

func (h *Handler) UpdateAnswers(w http.ResponseWriter, r *http.Request) {
	var a domain.QuizAnswers
	if err := util.DecodeJSON(r, &a); err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.run(func(ctx context.Context, userID string) (*domain.Flow, error) {
		return h.service.UpdateAnswers(ctx, userID, a)
	})(w, r)
}

func (h *Handler) ToggleEmotion(w http.ResponseWriter, r *http.Request) {
	var req toggleEmotionRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.run(func(ctx context.Context, userID string) (*domain.Flow, error) {
		return h.service.ToggleEmotion(ctx, userID, req.Emotion)
	})(w, r)
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	h.run(h.service.Next)(w, r)
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.run(h.service.Back)(w, r)
}

func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	h.run(h.service.CreatePlan)(w, r)
}

func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	h.run(h.service.Retry)(w, r)
}

func (h *Handler) BackToQuiz(w http.ResponseWriter, r *http.Request) {
	h.run(h.service.BackToQuiz)(w, r)
}

func (h *Handler) StartTrial(w http.ResponseWriter, r *http.Request) {
	h.checkout(h.service.StartTrial)(w, r)
}

func (h *Handler) StartNow(w http.ResponseWriter, r *http.Request) {
	h.checkout(h.service.StartNow)(w, r)
}

func (h *Handler) checkout(op flowOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := op(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			h.writeError(w, err)
			return
		}
		v := newView(f)
		v.CheckoutURL = h.service.CheckoutURL()
		util.WriteJSON(w, http.StatusOK, v)
	}
}

func (h *Handler) ViewDetails(w http.ResponseWriter, r *http.Request) {
	h.run(h.service.ViewDetails)(w, r)
}

func (h *Handler) StartFirstStep(w http.ResponseWriter, r *http.Request) {
	h.run(h.service.StartFirstStep)(w, r)
}

func (h *Handler) CompleteHabit(w http.ResponseWriter, r *http.Request) {
	h.run(h.service.CompleteHabit)(w, r)
}

func (h *Handler) CompletePlanTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskId")
	h.run(func(ctx context.Context, userID string) (*domain.Flow, error) {
		return h.service.CompletePlanTask(ctx, userID, taskID)
	})(w, r)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, ErrFlowNotFound):
		util.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		util.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStepIncomplete), errors.Is(err, domain.ErrInvalidAnswer):
		util.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrTaskNotFound):
		util.WriteError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &apiErr):
		util.WriteError(w, apiErr.Status, apiErr.Message)
	default:
		h.logger.Error("onboarding request failed", zap.Error(err))
		util.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
