package analytics

// Event names.
const (
	EventPlanGenerateClicked     = "plan_generate_clicked"
	EventPlanGeneratedSuccess    = "plan_generated_success"
	EventPlanGeneratedError      = "plan_generated_error"
	EventFirstTaskCompleted      = "first_task_completed"
	EventPlanViewed              = "plan_viewed"
	EventTaskCompleted           = "task_completed"
	EventOnboardingStepCompleted = "onboarding_step_completed"
	EventCTAClicked              = "cta_clicked"
	EventPaywallDisplayed        = "paywall_displayed"
	EventSubscriptionClicked     = "subscription_button_clicked"
	EventTimeOnPage              = "time_on_page"
	EventIdentify                = "identify"
)

// Property keys.
const (
	PropUserID         = "user_id"
	PropPlanID         = "plan_id"
	PropTaskID         = "task_id"
	PropIntention      = "intention"
	PropTimeAvailable  = "time_available"
	PropDurationMs     = "generation_duration_ms"
	PropTimeToComplete = "time_to_complete_ms"
	PropErrorMessage   = "error_message"
	PropStepNumber     = "step_number"
	PropStepName       = "step_name"
	PropCTAName        = "cta_name"
	PropLocation       = "location"
	PropVariant        = "variant"
	PropSource         = "source"
	PropProfile        = "profile"
	PropPlanVolume     = "plan_volume"
	PropPageName       = "page_name"
	PropDurationSecs   = "duration_seconds"
	PropTimestamp      = "timestamp"
)

// Properties is a flat bag of event attributes.
type Properties map[string]any
