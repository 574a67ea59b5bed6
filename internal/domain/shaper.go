package domain

// PlanVolume is the session-length tier derived from available time.
type PlanVolume string

const (
	VolumeUltraLight    PlanVolume = "ultraleve"
	VolumeLightModerate PlanVolume = "leve/moderado"
	VolumeComplete      PlanVolume = "completo"
)

// RhythmPlan pairs the mind and body practice for a life rhythm.
type RhythmPlan struct {
	Mind string `json:"mind"`
	Body string `json:"body"`
}

const defaultObjectiveDirection = "Plano personalizado baseado nas suas respostas"

var objectiveDirections = map[string]string{
	IntentionEnergy: "Foco em movimento + respiração + nutrição energética",
	IntentionBody:   "Treino funcional + mindfulness + alimentação consciente",
	IntentionMind:   "Meditação + journaling + práticas de presença",
	IntentionHabits: "Micro-hábitos + rotina flexível + acompanhamento semanal",
	IntentionUnsure: "Equilíbrio mente-corpo + autoconhecimento + sem pressão",
}

var defaultRhythmPlan = RhythmPlan{
	Mind: "Práticas de mindfulness personalizadas",
	Body: "Treinos adaptados ao seu ritmo",
}

var rhythmPlans = map[string]RhythmPlan{
	RhythmRush: {
		Mind: "Respiração guiada de 3 min + Micro-pausas ao longo do dia",
		Body: "Treinos de 5-10 min (HIIT rápido ou alongamento)",
	},
	RhythmBreathing: {
		Mind: "Meditação de 5-10 min + Journaling semanal",
		Body: "Treinos de 15-20 min (funcional ou yoga)",
	},
	RhythmSomeSpace: {
		Mind: "Meditação de 10-15 min + Práticas de gratidão",
		Body: "Treinos de 20-30 min (treino completo + alongamento)",
	},
	RhythmReorganize: {
		Mind: "Sessão de planejamento semanal + Meditação diária",
		Body: "Rotina progressiva de treinos (começando leve)",
	},
}

var volumeMessages = map[PlanVolume]Message{
	VolumeUltraLight: {
		Title:       "Plano Ultraleve",
		Description: "Sessões rápidas de 5-10 minutos. Perfeito para quem tem pouco tempo mas quer consistência.",
		Emoji:       "⚡",
	},
	VolumeLightModerate: {
		Title:       "Plano Leve/Moderado",
		Description: "Sessões de 10-20 minutos. Equilíbrio ideal entre eficiência e resultados.",
		Emoji:       "🎯",
	},
	VolumeComplete: {
		Title:       "Plano Completo",
		Description: "Sessões de 20-30+ minutos. Transformação profunda com tempo dedicado.",
		Emoji:       "🚀",
	},
}

// ObjectiveDirection returns the plan direction for an intention.
func ObjectiveDirection(intention string) string {
	if d, ok := objectiveDirections[intention]; ok {
		return d
	}
	return defaultObjectiveDirection
}

// RhythmPlanFor returns the mind/body plan for a rhythm.
func RhythmPlanFor(rhythm string) RhythmPlan {
	if p, ok := rhythmPlans[rhythm]; ok {
		return p
	}
	return defaultRhythmPlan
}

// PlanVolumeFor maps available time to a volume tier. Anything other than
// the three fixed durations, "Depende do meu dia" included, is leve/moderado.
func PlanVolumeFor(time string) PlanVolume {
	switch time {
	case Time5To10:
		return VolumeUltraLight
	case Time15To20:
		return VolumeLightModerate
	case Time30:
		return VolumeComplete
	default:
		return VolumeLightModerate
	}
}

// PlanVolumeMessage returns the copy for a volume tier.
func PlanVolumeMessage(v PlanVolume) Message {
	if m, ok := volumeMessages[v]; ok {
		return m
	}
	return volumeMessages[VolumeLightModerate]
}

// Personalization groups everything derived locally from the answers.
type Personalization struct {
	Profile            UserProfile `json:"profile"`
	PlanVolume         PlanVolume  `json:"planVolume"`
	ObjectiveDirection string      `json:"objectiveDirection"`
	RhythmPlan         RhythmPlan  `json:"rhythmPlan"`
}

// Personalize runs the classifier and every shaper over the answers.
func Personalize(a QuizAnswers) Personalization {
	return Personalization{
		Profile:            Classify(a),
		PlanVolume:         PlanVolumeFor(a.Time),
		ObjectiveDirection: ObjectiveDirection(a.Intention),
		RhythmPlan:         RhythmPlanFor(a.Rhythm),
	}
}
