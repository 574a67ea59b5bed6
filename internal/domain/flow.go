package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Stage is a screen of the onboarding funnel.
type Stage string

const (
	StageOnboarding   Stage = "onboarding"
	StageLoading      Stage = "loading"
	StagePaywall      Stage = "paywall"
	StagePlan         Stage = "plan"
	StageFirstHabit   Stage = "firstHabit"
	StageConfirmation Stage = "confirmation"
	StageError        Stage = "error"
)

// Quiz steps.
const (
	StepWelcome = iota
	StepUserName
	StepAge
	StepIntention
	StepRhythm
	StepMovement
	StepEmotions
	StepNutrition
	StepTime
	StepSummary
)

// TotalSteps is the step count used for progress reporting.
const TotalSteps = 10

// StepNames index by step number.
var StepNames = []string{
	"welcome", "name", "age", "intention", "rhythm",
	"movement", "emotions", "nutrition", "time", "summary",
}

// A confirmed flow sends the user to the dashboard after a fixed delay.
const (
	DashboardURL           = "/dashboard"
	ConfirmationRedirectIn = 3000 * time.Millisecond
)

var (
	ErrInvalidTransition = errors.New("invalid flow transition")
	ErrStepIncomplete    = errors.New("current step is incomplete")
)

// StepName returns the analytics name of a step.
func StepName(step int) string {
	if step < 0 || step >= len(StepNames) {
		return "unknown"
	}
	return StepNames[step]
}

// CanProceed reports whether the answers complete the given step.
func CanProceed(step int, a QuizAnswers) bool {
	switch step {
	case StepUserName:
		return strings.TrimSpace(a.Name) != ""
	case StepAge:
		return strings.TrimSpace(a.Age) != ""
	case StepIntention:
		return a.Intention != ""
	case StepRhythm:
		return a.Rhythm != ""
	case StepMovement:
		return a.Movement != ""
	case StepEmotions:
		return len(a.Emotions) > 0
	case StepNutrition:
		return a.Nutrition != ""
	case StepTime:
		return a.Time != ""
	default:
		return true
	}
}

// Redirect describes a delayed navigation.
type Redirect struct {
	URL     string `json:"url"`
	AfterMs int64  `json:"afterMs"`
}

// Flow is the state of one user's onboarding.
type Flow struct {
	UserID          string                `json:"userId"`
	Stage           Stage                 `json:"stage"`
	Step            int                   `json:"step"`
	Answers         QuizAnswers           `json:"answers"`
	Personalization *Personalization      `json:"personalization,omitempty"`
	Plan            *Plan                 `json:"plan,omitempty"`
	ErrorMessage    string                `json:"errorMessage,omitempty"`
	HabitCompleted  bool                  `json:"habitCompleted"`
	Variants        map[string]Assignment `json:"variants,omitempty"`
	Redirect        *Redirect             `json:"redirect,omitempty"`
	FirstStepAt     *time.Time            `json:"firstStepAt,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// NewFlow starts a flow at the welcome step.
func NewFlow(userID string, now time.Time) *Flow {
	return &Flow{
		UserID:    userID,
		Stage:     StageOnboarding,
		Step:      StepWelcome,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Progress is the quiz completion percentage.
func (f *Flow) Progress() float64 {
	return float64(f.Step) / float64(TotalSteps) * 100
}

func (f *Flow) require(stages ...Stage) error {
	for _, s := range stages {
		if f.Stage == s {
			return nil
		}
	}
	return fmt.Errorf("%w: not allowed from %s", ErrInvalidTransition, f.Stage)
}

// SetAnswers replaces the answers while the quiz is open.
func (f *Flow) SetAnswers(a QuizAnswers) error {
	if err := f.require(StageOnboarding); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	f.Answers = a
	return nil
}

// Next advances one quiz step when the current one is complete.
func (f *Flow) Next() error {
	if err := f.require(StageOnboarding); err != nil {
		return err
	}
	if f.Step >= StepSummary {
		return fmt.Errorf("%w: already at summary", ErrInvalidTransition)
	}
	if !CanProceed(f.Step, f.Answers) {
		return fmt.Errorf("%w: %s", ErrStepIncomplete, StepName(f.Step))
	}
	f.Step++
	return nil
}

// Back goes one quiz step back; at the first step it is a no-op.
func (f *Flow) Back() error {
	if err := f.require(StageOnboarding); err != nil {
		return err
	}
	if f.Step > StepWelcome {
		f.Step--
	}
	return nil
}

// BeginLoading moves from the summary step into loading and records the
// derived personalization. Answers must be complete.
func (f *Flow) BeginLoading() (Personalization, error) {
	if f.Stage != StageOnboarding || f.Step != StepSummary {
		return Personalization{}, fmt.Errorf("%w: plan can only be created from the summary step", ErrInvalidTransition)
	}
	if err := f.Answers.ValidateFinal(); err != nil {
		return Personalization{}, err
	}
	p := Personalize(f.Answers)
	f.Personalization = &p
	f.Stage = StageLoading
	f.ErrorMessage = ""
	return p, nil
}

// PlanReady stores the generated plan and opens the paywall.
func (f *Flow) PlanReady(plan Plan) error {
	if err := f.require(StageLoading); err != nil {
		return err
	}
	f.Plan = &plan
	f.Stage = StagePaywall
	return nil
}

// PlanFailed records a user-facing message and moves to error.
func (f *Flow) PlanFailed(message string) error {
	if err := f.require(StageLoading); err != nil {
		return err
	}
	f.ErrorMessage = message
	f.Stage = StageError
	return nil
}

// StaleLoading reports whether the flow has sat in loading for longer than
// after since its last save.
func (f *Flow) StaleLoading(now time.Time, after time.Duration) bool {
	return f.Stage == StageLoading && now.Sub(f.UpdatedAt) > after
}

// ResumeFromLoading returns an abandoned loading flow to the summary step.
func (f *Flow) ResumeFromLoading() error {
	if err := f.require(StageLoading); err != nil {
		return err
	}
	f.Stage = StageOnboarding
	f.Step = StepSummary
	return nil
}

// Retry returns from error to the summary step.
func (f *Flow) Retry() error {
	if err := f.require(StageError); err != nil {
		return err
	}
	f.Stage = StageOnboarding
	f.Step = StepSummary
	f.ErrorMessage = ""
	return nil
}

// BackToQuiz reopens the quiz at the intention step.
func (f *Flow) BackToQuiz() error {
	if err := f.require(StagePlan, StageError); err != nil {
		return err
	}
	f.Stage = StageOnboarding
	f.Step = StepIntention
	f.ErrorMessage = ""
	return nil
}

// LeavePaywall shows the plan details.
func (f *Flow) LeavePaywall() error {
	if err := f.require(StagePaywall); err != nil {
		return err
	}
	f.Stage = StagePlan
	return nil
}

// StartFirstStep moves from the plan to the first habit.
func (f *Flow) StartFirstStep() error {
	if err := f.require(StagePlan); err != nil {
		return err
	}
	f.Stage = StageFirstHabit
	return nil
}

// HabitDone marks the first habit complete and ends the flow.
func (f *Flow) HabitDone() error {
	if err := f.require(StageFirstHabit); err != nil {
		return err
	}
	f.HabitCompleted = true
	f.Stage = StageConfirmation
	f.Redirect = &Redirect{URL: DashboardURL, AfterMs: ConfirmationRedirectIn.Milliseconds()}
	return nil
}
