package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Intention options.
const (
	IntentionEnergy = "Quero mais energia no meu dia"
	IntentionBody   = "Quero me sentir melhor com meu corpo"
	IntentionMind   = "Quero cuidar da minha mente"
	IntentionHabits = "Quero criar hábitos que eu consiga manter"
	IntentionUnsure = "Ainda não sei — só quero me sentir eu de novo"
)

// Rhythm options.
const (
	RhythmRush       = "Correria total"
	RhythmBreathing  = "Consigo respirar, mas não sobra muito tempo"
	RhythmSomeSpace  = "Tenho algum espaço para mim"
	RhythmReorganize = "Quero reorganizar tudo do zero"
)

// Movement options.
const (
	MovementNever     = "Nunca treinei e nem sei por onde começar"
	MovementTried     = "Já tentei, mas não consigo manter"
	MovementSometimes = "Treino às vezes, sem rotina"
	MovementFrequent  = "Treino com frequência"
)

// Emotion options.
const (
	EmotionSelfDemanding = "Me cobro demais"
	EmotionCantRest      = "Tenho dificuldade de descansar"
	EmotionSelfLove      = "Quero gostar mais de mim"
	EmotionLost          = "Me sinto perdido(a) às vezes"
	EmotionReady         = "Estou pronto(a) para mudar"
)

// Nutrition options.
const (
	NutritionEatBetter = "Quero comer melhor sem virar refém da dieta"
	NutritionNoPlan    = "Como bem, mas não sei montar um plano"
	NutritionKnowHow   = "Sei o que fazer, mas não faço"
	NutritionBalance   = "Não quero restrições, quero equilíbrio"
)

// Time options.
const (
	Time5To10   = "5 a 10 minutos"
	Time15To20  = "15 a 20 minutos"
	Time30      = "30 minutos"
	TimeDepends = "Depende do meu dia"
)

var (
	IntentionOptions = []string{IntentionEnergy, IntentionBody, IntentionMind, IntentionHabits, IntentionUnsure}
	RhythmOptions    = []string{RhythmRush, RhythmBreathing, RhythmSomeSpace, RhythmReorganize}
	MovementOptions  = []string{MovementNever, MovementTried, MovementSometimes, MovementFrequent}
	EmotionOptions   = []string{EmotionSelfDemanding, EmotionCantRest, EmotionSelfLove, EmotionLost, EmotionReady}
	NutritionOptions = []string{NutritionEatBetter, NutritionNoPlan, NutritionKnowHow, NutritionBalance}
	TimeOptions      = []string{Time5To10, Time15To20, Time30, TimeDepends}
)

// ErrInvalidAnswer is wrapped by every validation failure.
var ErrInvalidAnswer = errors.New("invalid answer")

// QuizAnswers is the record of a user's quiz responses. Methods never
// mutate the receiver; ToggleEmotion returns a new value.
type QuizAnswers struct {
	Name      string   `json:"name" yaml:"name"`
	Age       string   `json:"age" yaml:"age"`
	Intention string   `json:"intention" yaml:"intention"`
	Rhythm    string   `json:"rhythm" yaml:"rhythm"`
	Movement  string   `json:"movement" yaml:"movement"`
	Emotions  []string `json:"emotions" yaml:"emotions"`
	Nutrition string   `json:"nutrition" yaml:"nutrition"`
	Time      string   `json:"time" yaml:"time"`
}

// HasEmotion reports whether e is among the selected emotions.
func (a QuizAnswers) HasEmotion(e string) bool {
	return slices.Contains(a.Emotions, e)
}

// ToggleEmotion selects e when absent and deselects it otherwise.
// Selection order is preserved.
func (a QuizAnswers) ToggleEmotion(e string) QuizAnswers {
	out := a
	if a.HasEmotion(e) {
		out.Emotions = slices.DeleteFunc(slices.Clone(a.Emotions), func(s string) bool { return s == e })
		return out
	}
	out.Emotions = append(slices.Clone(a.Emotions), e)
	return out
}

// Validate checks that every enum-valued field that is set holds one of its
// fixed options. Unset fields are accepted.
func (a QuizAnswers) Validate() error {
	var errs []error
	check := func(field, value string, options []string) {
		if value != "" && !slices.Contains(options, value) {
			errs = append(errs, fmt.Errorf("%w: %s %q is not an option", ErrInvalidAnswer, field, value))
		}
	}
	check("intention", a.Intention, IntentionOptions)
	check("rhythm", a.Rhythm, RhythmOptions)
	check("movement", a.Movement, MovementOptions)
	check("nutrition", a.Nutrition, NutritionOptions)
	check("time", a.Time, TimeOptions)
	for _, e := range a.Emotions {
		check("emotion", e, EmotionOptions)
	}
	return errors.Join(errs...)
}

// ValidateFinal checks the answers are complete enough to submit.
func (a QuizAnswers) ValidateFinal() error {
	errs := []error{a.Validate()}
	required := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, fmt.Errorf("%w: %s is required", ErrInvalidAnswer, field))
		}
	}
	required("name", a.Name)
	required("age", a.Age)
	required("intention", a.Intention)
	required("rhythm", a.Rhythm)
	required("movement", a.Movement)
	required("nutrition", a.Nutrition)
	required("time", a.Time)
	if len(a.Emotions) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one emotion is required", ErrInvalidAnswer))
	}
	return errors.Join(errs...)
}
