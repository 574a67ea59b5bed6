// Package onboarding drives a user through the quiz, plan generation,
// paywall and first habit.
package onboarding

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/analytics"
	"github.com/emiliopalmerini/despertar/internal/apiclient"
	"github.com/emiliopalmerini/despertar/internal/domain"
	"github.com/emiliopalmerini/despertar/internal/experiment"
	"github.com/emiliopalmerini/despertar/internal/ports"
)

// DefaultCheckoutURL is the external subscription checkout.
const DefaultCheckoutURL = "https://checkout.keoto.com/3d062008-ff48-466d-8f61-b1d3e82c76af"

// Paywall sources recorded with subscription clicks.
const (
	SourceStartTrial = "paywall_start_trial"
	SourceStartNow   = "paywall_start_now"
)

// DefaultStaleLoadingAfter is how long a flow may sit in loading before
// CreatePlan and Retry treat the plan call as lost.
const DefaultStaleLoadingAfter = 30 * time.Second

// Config tunes the service.
type Config struct {
	CheckoutURL string
	// PlanTimeout overrides the plan client timeout when positive.
	PlanTimeout       time.Duration
	StaleLoadingAfter time.Duration
}

// Service runs onboarding flows. Operations on the same user are
// serialized; different users never wait on each other.
type Service struct {
	repo        Repository
	experiments *experiment.Engine
	plans       ports.PlanGenerator
	tracker     *analytics.Tracker
	cfg         Config
	logger      *zap.Logger
	locks       *userLocks
	now         func() time.Time
	newUserID   func() string
}

func NewService(
	repo Repository,
	experiments *experiment.Engine,
	plans ports.PlanGenerator,
	tracker *analytics.Tracker,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.CheckoutURL == "" {
		cfg.CheckoutURL = DefaultCheckoutURL
	}
	if cfg.StaleLoadingAfter <= 0 {
		cfg.StaleLoadingAfter = DefaultStaleLoadingAfter
	}
	return &Service{
		repo:        repo,
		experiments: experiments,
		plans:       plans,
		tracker:     tracker,
		cfg:         cfg,
		logger:      logger,
		locks:       newUserLocks(),
		now:         time.Now,
		newUserID:   func() string { return "user_" + uuid.NewString() },
	}
}

// CheckoutURL is where paywall actions send the user.
func (s *Service) CheckoutURL() string {
	return s.cfg.CheckoutURL
}

// Start creates a flow for a new user and assigns every experiment.
func (s *Service) Start(ctx context.Context) (*domain.Flow, error) {
	now := s.now()
	f := domain.NewFlow(s.newUserID(), now)
	f.Variants = s.experiments.Resolve(ctx, f.UserID)

	if err := s.repo.Save(ctx, f); err != nil {
		return nil, err
	}

	s.tracker.Identify(ctx, f.UserID, analytics.Properties{"created_at": now.UTC().Format(time.RFC3339)})
	s.logger.Info("onboarding started", zap.String("user_id", f.UserID))
	return f, nil
}

// Get returns the flow of a user.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Flow, error) {
	return s.repo.Get(ctx, userID)
}

func (s *Service) mutate(ctx context.Context, userID string, fn func(f *domain.Flow) error) (*domain.Flow, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	f, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(f); err != nil {
		return nil, err
	}
	return f, s.save(ctx, f)
}

func (s *Service) save(ctx context.Context, f *domain.Flow) error {
	f.UpdatedAt = s.now()
	return s.repo.Save(ctx, f)
}

// UpdateAnswers replaces the user's answers.
func (s *Service) UpdateAnswers(ctx context.Context, userID string, a domain.QuizAnswers) (*domain.Flow, error) {
	return s.mutate(ctx, userID, func(f *domain.Flow) error {
		return f.SetAnswers(a)
	})
}

// ToggleEmotion selects or deselects one emotion.
func (s *Service) ToggleEmotion(ctx context.Context, userID, emotion string) (*domain.Flow, error) {
	if !slices.Contains(domain.EmotionOptions, emotion) {
		return nil, fmt.Errorf("%w: emotion %q is not an option", domain.ErrInvalidAnswer, emotion)
	}
	return s.mutate(ctx, userID, func(f *domain.Flow) error {
		return f.SetAnswers(f.Answers.ToggleEmotion(emotion))
	})
}

// Next advances one step when the current step is complete.
func (s *Service) Next(ctx context.Context, userID string) (*domain.Flow, error) {
	f, err := s.mutate(ctx, userID, (*domain.Flow).Next)
	if err != nil {
		return nil, err
	}
	s.tracker.OnboardingStepCompleted(ctx, userID, f.Step)
	return f, nil
}

// Back goes one step back.
func (s *Service) Back(ctx context.Context, userID string) (*domain.Flow, error) {
	return s.mutate(ctx, userID, (*domain.Flow).Back)
}

// CreatePlan classifies the answers, calls the plan API and lands on the
// paywall or the error stage. It is allowed from the summary step and from
// the error stage. The call outlives a cancelled request so the flow never
// stays in loading.
func (s *Service) CreatePlan(ctx context.Context, userID string) (*domain.Flow, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	f, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if f.StaleLoading(s.now(), s.cfg.StaleLoadingAfter) {
		if err := s.resume(f); err != nil {
			return nil, err
		}
	}
	if f.Stage == domain.StageError {
		if err := f.Retry(); err != nil {
			return nil, err
		}
	}
	p, err := f.BeginLoading()
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, f); err != nil {
		return nil, err
	}

	cta := s.assignment(ctx, f, experiment.CTATextTest)
	s.tracker.PlanGenerateClicked(ctx, userID, f.Answers)
	s.tracker.CTAClicked(ctx, userID, "create_plan", "onboarding_summary", cta.Variant)

	opts := ports.CallOptions{Timeout: s.cfg.PlanTimeout}
	if lc, err := experiment.LoadingFor(s.assignment(ctx, f, experiment.LoadingDurationTest)); err == nil && lc.DurationMs > 0 {
		opts.MinDelay = lc.Duration()
	}

	callCtx := context.WithoutCancel(ctx)
	start := s.now()
	plan, genErr := s.plans.GeneratePlan(callCtx, domain.NewPlanRequest(userID, f.Answers, p), opts)
	elapsed := s.now().Sub(start)

	if genErr != nil {
		msg := apiclient.Message(genErr)
		s.logger.Warn("plan generation failed", zap.String("user_id", userID), zap.Error(genErr))
		if err := f.PlanFailed(msg); err != nil {
			return nil, err
		}
		if err := s.save(callCtx, f); err != nil {
			s.logger.Error("failed to save plan failure", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		s.tracker.PlanGeneratedError(callCtx, userID, msg, elapsed)
		return f, nil
	}

	personalized := plan.Personalize(p)
	if err := f.PlanReady(personalized); err != nil {
		return nil, err
	}
	if err := s.save(callCtx, f); err != nil {
		s.logger.Error("failed to save generated plan", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	s.tracker.PlanGeneratedSuccess(callCtx, userID, personalized.PlanID, elapsed)
	s.tracker.PaywallDisplayed(callCtx, userID, personalized)
	return f, nil
}

// Retry returns from the error stage, or from a stale loading stage, to the
// summary step.
func (s *Service) Retry(ctx context.Context, userID string) (*domain.Flow, error) {
	f, err := s.mutate(ctx, userID, func(f *domain.Flow) error {
		if f.StaleLoading(s.now(), s.cfg.StaleLoadingAfter) {
			return s.resume(f)
		}
		return f.Retry()
	})
	if err != nil {
		return nil, err
	}
	s.tracker.CTAClicked(ctx, userID, "retry_create_plan", "error_screen", "")
	return f, nil
}

func (s *Service) resume(f *domain.Flow) error {
	s.logger.Warn("resuming flow stuck in loading",
		zap.String("user_id", f.UserID),
		zap.Time("updated_at", f.UpdatedAt),
	)
	return f.ResumeFromLoading()
}

// BackToQuiz reopens the quiz at the intention step.
func (s *Service) BackToQuiz(ctx context.Context, userID string) (*domain.Flow, error) {
	f, err := s.mutate(ctx, userID, (*domain.Flow).BackToQuiz)
	if err != nil {
		return nil, err
	}
	s.tracker.CTAClicked(ctx, userID, "edit_preferences", "plan_view", f.Variants[experiment.CTATextTest].Variant)
	return f, nil
}

// StartTrial opens checkout for the trial and shows the plan.
func (s *Service) StartTrial(ctx context.Context, userID string) (*domain.Flow, error) {
	return s.checkout(ctx, userID, SourceStartTrial)
}

// StartNow opens checkout for an immediate subscription and shows the plan.
func (s *Service) StartNow(ctx context.Context, userID string) (*domain.Flow, error) {
	return s.checkout(ctx, userID, SourceStartNow)
}

func (s *Service) checkout(ctx context.Context, userID, source string) (*domain.Flow, error) {
	f, err := s.mutate(ctx, userID, (*domain.Flow).LeavePaywall)
	if err != nil {
		return nil, err
	}
	s.tracker.SubscriptionClicked(ctx, userID, planID(f), source)
	return f, nil
}

// ViewDetails leaves the paywall for the plan without checkout.
func (s *Service) ViewDetails(ctx context.Context, userID string) (*domain.Flow, error) {
	f, err := s.mutate(ctx, userID, (*domain.Flow).LeavePaywall)
	if err != nil {
		return nil, err
	}
	s.tracker.PlanViewed(ctx, userID, planID(f))
	return f, nil
}

// StartFirstStep moves from the plan to the first habit.
func (s *Service) StartFirstStep(ctx context.Context, userID string) (*domain.Flow, error) {
	f, err := s.mutate(ctx, userID, func(f *domain.Flow) error {
		if err := f.StartFirstStep(); err != nil {
			return err
		}
		now := s.now()
		f.FirstStepAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.tracker.CTAClicked(ctx, userID, "start_first_step", "plan_view", f.Variants[experiment.CTATextTest].Variant)
	return f, nil
}

// CompleteHabit reports the plan's first task as done and confirms the flow.
// A failed call leaves the flow on the first habit.
func (s *Service) CompleteHabit(ctx context.Context, userID string) (*domain.Flow, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	f, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if f.Stage != domain.StageFirstHabit || f.Plan == nil {
		return nil, fmt.Errorf("%w: no first habit in progress", domain.ErrInvalidTransition)
	}

	taskID := f.Plan.FirstTask.ID
	if _, err := s.plans.CompleteTask(ctx, f.Plan.PlanID, taskID, ports.CallOptions{}); err != nil {
		return nil, err
	}
	if err := f.HabitDone(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, f); err != nil {
		return nil, err
	}

	var took time.Duration
	if f.FirstStepAt != nil {
		took = s.now().Sub(*f.FirstStepAt)
	}
	s.tracker.FirstTaskCompleted(ctx, userID, f.Plan.PlanID, taskID, took)
	return f, nil
}

// CompletePlanTask marks a week or nutrition task of the plan as done while
// the plan is shown.
func (s *Service) CompletePlanTask(ctx context.Context, userID, taskID string) (*domain.Flow, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	f, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if f.Stage != domain.StagePlan || f.Plan == nil {
		return nil, fmt.Errorf("%w: plan is not shown", domain.ErrInvalidTransition)
	}
	if !f.Plan.MarkTask(taskID) {
		return nil, domain.ErrTaskNotFound
	}
	if _, err := s.plans.CompleteTask(ctx, f.Plan.PlanID, taskID, ports.CallOptions{MinDelay: -1}); err != nil {
		return nil, err
	}
	if err := s.save(ctx, f); err != nil {
		return nil, err
	}
	s.tracker.TaskCompleted(ctx, userID, f.Plan.PlanID, taskID)
	return f, nil
}

// assignment returns the flow's variant for an experiment, assigning it
// when the experiment was added after the flow started.
func (s *Service) assignment(ctx context.Context, f *domain.Flow, name string) domain.Assignment {
	if a, ok := f.Variants[name]; ok {
		return a
	}
	a, err := s.experiments.Get(ctx, f.UserID, name)
	if err != nil {
		s.logger.Warn("experiment unavailable", zap.String("experiment", name), zap.Error(err))
		return domain.Assignment{}
	}
	if f.Variants == nil {
		f.Variants = make(map[string]domain.Assignment)
	}
	f.Variants[name] = a
	return a
}

func planID(f *domain.Flow) string {
	if f.Plan == nil {
		return ""
	}
	return f.Plan.PlanID
}
