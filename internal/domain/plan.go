package domain

import "errors"

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrTaskNotFound = errors.New("task not found")
)

// PlanActivity is one scheduled session of the first week.
type PlanActivity struct {
	Day       string `json:"day"`
	Activity  string `json:"activity"`
	Time      string `json:"time"`
	TaskID    string `json:"taskId"`
	Completed bool   `json:"completed"`
}

// NutritionItem is one entry of the nutrition checklist.
type NutritionItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
}

// MicroTask is a small first action with an XP reward.
type MicroTask struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Emoji       string `json:"emoji" yaml:"emoji"`
	XP          int    `json:"xp" yaml:"xp"`
	Why         string `json:"why,omitempty" yaml:"why"`
}

// PlanFocus echoes the answers the plan was built from.
type PlanFocus struct {
	Intention string   `json:"intention"`
	Emotions  []string `json:"emotions"`
	Time      string   `json:"time"`
	Rhythm    string   `json:"rhythm"`
	Movement  string   `json:"movement"`
	Nutrition string   `json:"nutrition"`
}

// Plan is the generated plan merged with the locally derived fields.
type Plan struct {
	PlanID    string          `json:"planId"`
	Summary   string          `json:"summary"`
	Week1     []PlanActivity  `json:"week1"`
	Nutrition []NutritionItem `json:"nutrition"`
	FirstTask MicroTask       `json:"firstTask"`
	Focus     *PlanFocus      `json:"focus,omitempty"`

	Profile            UserProfile `json:"profile,omitempty"`
	PlanVolume         PlanVolume  `json:"planVolume,omitempty"`
	ObjectiveDirection string      `json:"objectiveDirection,omitempty"`
	RhythmPlan         *RhythmPlan `json:"rhythmPlan,omitempty"`
}

// Personalize overwrites the plan's derived fields with p.
func (pl Plan) Personalize(p Personalization) Plan {
	rp := p.RhythmPlan
	pl.Profile = p.Profile
	pl.PlanVolume = p.PlanVolume
	pl.ObjectiveDirection = p.ObjectiveDirection
	pl.RhythmPlan = &rp
	return pl
}

// MarkTask flags the activity, nutrition item or first task with taskID as
// completed. It reports whether anything matched.
func (pl *Plan) MarkTask(taskID string) bool {
	found := false
	for i := range pl.Week1 {
		if pl.Week1[i].TaskID == taskID {
			pl.Week1[i].Completed = true
			found = true
		}
	}
	for i := range pl.Nutrition {
		if pl.Nutrition[i].ID == taskID {
			pl.Nutrition[i].Completed = true
			found = true
		}
	}
	if pl.FirstTask.ID == taskID {
		found = true
	}
	return found
}

// PlanRequest is the body sent to the plan-generation endpoint.
type PlanRequest struct {
	UserID             string      `json:"userId"`
	QuizAnswers        QuizAnswers `json:"quizAnswers"`
	Profile            UserProfile `json:"profile"`
	PlanVolume         PlanVolume  `json:"planVolume"`
	ObjectiveDirection string      `json:"objectiveDirection"`
	RhythmPlan         RhythmPlan  `json:"rhythmPlan"`
}

// NewPlanRequest builds the request for a user from answers and their
// personalization.
func NewPlanRequest(userID string, a QuizAnswers, p Personalization) PlanRequest {
	return PlanRequest{
		UserID:             userID,
		QuizAnswers:        a,
		Profile:            p.Profile,
		PlanVolume:         p.PlanVolume,
		ObjectiveDirection: p.ObjectiveDirection,
		RhythmPlan:         p.RhythmPlan,
	}
}

// Badge is awarded on task completion.
type Badge struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// TaskCompletion is the task-completion endpoint response.
type TaskCompletion struct {
	Success  bool   `json:"success"`
	PlanID   string `json:"planId"`
	TaskID   string `json:"taskId"`
	XPEarned int    `json:"xpEarned"`
	Message  string `json:"message"`
	Badge    Badge  `json:"badge"`
}
