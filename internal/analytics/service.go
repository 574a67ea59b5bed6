package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/domain"
	"github.com/emiliopalmerini/despertar/internal/ports"
)

// Tracker emits analytics events. Emission is fire-and-forget: exporter
// errors are logged and never reach the caller.
type Tracker struct {
	exporters []ports.EventExporter
	enabled   bool
	logger    *zap.Logger
	now       func() time.Time
}

// NewTracker creates a tracker. A disabled tracker only logs events at
// debug level.
func NewTracker(enabled bool, logger *zap.Logger, exporters ...ports.EventExporter) *Tracker {
	return &Tracker{
		exporters: exporters,
		enabled:   enabled,
		logger:    logger,
		now:       time.Now,
	}
}

// Track sends a named event with properties.
func (t *Tracker) Track(ctx context.Context, name, userID string, props Properties) {
	t.track(ctx, name, userID, props, 0)
}

func (t *Tracker) track(ctx context.Context, name, userID string, props Properties, d time.Duration) {
	if t == nil {
		return
	}
	now := t.now()
	if props == nil {
		props = Properties{}
	}
	if userID != "" {
		props[PropUserID] = userID
	}
	props[PropTimestamp] = now.UnixMilli()

	if !t.enabled {
		t.logger.Debug("analytics event", zap.String("event", name), zap.Any("properties", map[string]any(props)))
		return
	}

	e := &ports.Event{Name: name, UserID: userID, Properties: props, Duration: d, At: now}
	for _, exp := range t.exporters {
		if err := exp.ExportEvent(ctx, e); err != nil {
			t.logger.Warn("failed to export analytics event", zap.String("event", name), zap.Error(err))
		}
	}
}

// Identify associates traits with a user.
func (t *Tracker) Identify(ctx context.Context, userID string, traits Properties) {
	t.Track(ctx, EventIdentify, userID, traits)
}

func (t *Tracker) PlanGenerateClicked(ctx context.Context, userID string, a domain.QuizAnswers) {
	t.Track(ctx, EventPlanGenerateClicked, userID, Properties{
		PropIntention:     a.Intention,
		PropTimeAvailable: a.Time,
	})
}

func (t *Tracker) PlanGeneratedSuccess(ctx context.Context, userID, planID string, d time.Duration) {
	t.track(ctx, EventPlanGeneratedSuccess, userID, Properties{
		PropPlanID:     planID,
		PropDurationMs: d.Milliseconds(),
	}, d)
}

func (t *Tracker) PlanGeneratedError(ctx context.Context, userID, message string, d time.Duration) {
	t.track(ctx, EventPlanGeneratedError, userID, Properties{
		PropErrorMessage: message,
		PropDurationMs:   d.Milliseconds(),
	}, d)
}

func (t *Tracker) FirstTaskCompleted(ctx context.Context, userID, planID, taskID string, timeToComplete time.Duration) {
	t.track(ctx, EventFirstTaskCompleted, userID, Properties{
		PropPlanID:         planID,
		PropTaskID:         taskID,
		PropTimeToComplete: timeToComplete.Milliseconds(),
	}, timeToComplete)
}

func (t *Tracker) PlanViewed(ctx context.Context, userID, planID string) {
	t.Track(ctx, EventPlanViewed, userID, Properties{PropPlanID: planID})
}

func (t *Tracker) TaskCompleted(ctx context.Context, userID, planID, taskID string) {
	t.Track(ctx, EventTaskCompleted, userID, Properties{PropPlanID: planID, PropTaskID: taskID})
}

func (t *Tracker) OnboardingStepCompleted(ctx context.Context, userID string, step int) {
	t.Track(ctx, EventOnboardingStepCompleted, userID, Properties{
		PropStepNumber: step,
		PropStepName:   domain.StepName(step),
	})
}

// CTAClicked records a button press; variant may be empty.
func (t *Tracker) CTAClicked(ctx context.Context, userID, ctaName, location string, variant domain.Variant) {
	props := Properties{PropCTAName: ctaName, PropLocation: location}
	if variant != "" {
		props[PropVariant] = string(variant)
	}
	t.Track(ctx, EventCTAClicked, userID, props)
}

func (t *Tracker) PaywallDisplayed(ctx context.Context, userID string, plan domain.Plan) {
	t.Track(ctx, EventPaywallDisplayed, userID, Properties{
		PropPlanID:     plan.PlanID,
		PropProfile:    string(plan.Profile),
		PropPlanVolume: string(plan.PlanVolume),
	})
}

// SubscriptionClicked records a checkout intent; source names the button.
func (t *Tracker) SubscriptionClicked(ctx context.Context, userID, planID, source string) {
	t.Track(ctx, EventSubscriptionClicked, userID, Properties{PropPlanID: planID, PropSource: source})
}

func (t *Tracker) TimeOnPage(ctx context.Context, userID, page string, d time.Duration) {
	t.track(ctx, EventTimeOnPage, userID, Properties{
		PropPageName:     page,
		PropDurationSecs: int64(d.Round(time.Second) / time.Second),
	}, d)
}

// Close closes every exporter.
func (t *Tracker) Close(ctx context.Context) error {
	var first error
	for _, exp := range t.exporters {
		if err := exp.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
