package plans

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/despertar/internal/domain"
)

// Response messages.
const (
	MsgGenerateFailed = "Ops, não conseguimos criar seu plano. Tente novamente."
	MsgPlanNotFound   = "Plano não encontrado"
	MsgTaskFailed     = "Não foi possível completar a tarefa"
	MsgTaskCompleted  = "Tarefa concluída com sucesso!"

	genericSummary = "Seu plano personalizado"
	taskXP         = 10
)

// CompletionBadge is awarded for every completed task.
var CompletionBadge = domain.Badge{Name: "Iniciou", Emoji: "🎖️"}

// NewPlanID returns an id of the form plan_<unix millis>_<9 random chars>.
func NewPlanID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return "plan_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + random
}

func week1() []domain.PlanActivity {
	return []domain.PlanActivity{
		{Day: "Seg", Activity: "Caminhada leve + 2 min de respiração", Time: "10 min", TaskID: "task_1"},
		{Day: "Qua", Activity: "Mobilidade e alongamento", Time: "15 min", TaskID: "task_2"},
		{Day: "Sex", Activity: "Movimento consciente (leve)", Time: "10 min", TaskID: "task_3"},
	}
}

func nutrition() []domain.NutritionItem {
	return []domain.NutritionItem{
		{ID: "nutrition_1", Title: "1 refeição colorida por dia", Description: "Inclua pelo menos 3 cores diferentes no prato"},
		{ID: "nutrition_2", Title: "Beber 1 copo d'água ao acordar", Description: "Hidratação matinal para começar o dia"},
		{ID: "nutrition_3", Title: "Comer de forma consciente", Description: "Sem restrições, apenas atenção plena"},
	}
}

func firstTask() domain.MicroTask {
	return domain.MicroTask{
		ID:          "first_task_water",
		Title:       "Beba um copo de água ao acordar amanhã",
		Description: "Pequenas vitórias preparam seu cérebro para continuar. Este é o primeiro passo de uma jornada incrível.",
		Emoji:       "💧",
		XP:          taskXP,
	}
}

// Build fills the plan template for a request.
func Build(planID string, req domain.PlanRequest) domain.Plan {
	a := req.QuizAnswers
	name := strings.TrimSpace(a.Name)
	if name == "" {
		name = "você"
	}

	plan := domain.Plan{
		PlanID:    planID,
		Summary:   "Plano personalizado para " + name,
		Week1:     week1(),
		Nutrition: nutrition(),
		FirstTask: firstTask(),
		Focus: &domain.PlanFocus{
			Intention: a.Intention,
			Emotions:  a.Emotions,
			Time:      a.Time,
			Rhythm:    a.Rhythm,
			Movement:  a.Movement,
			Nutrition: a.Nutrition,
		},
		Profile:            req.Profile,
		PlanVolume:         req.PlanVolume,
		ObjectiveDirection: req.ObjectiveDirection,
	}
	if req.RhythmPlan != (domain.RhythmPlan{}) {
		rp := req.RhythmPlan
		plan.RhythmPlan = &rp
	}
	return plan
}

// Generic is returned for plan ids that were never generated here.
func Generic(planID string) domain.Plan {
	return domain.Plan{
		PlanID:    planID,
		Summary:   genericSummary,
		Week1:     week1(),
		Nutrition: nutrition(),
		FirstTask: firstTask(),
	}
}
