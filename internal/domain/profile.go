package domain

// UserProfile is the coarse behavioral segment derived from quiz answers.
type UserProfile string

const (
	ProfileLight    UserProfile = "leve"
	ProfileModerate UserProfile = "moderado"
	ProfileActive   UserProfile = "ativo"
)

// profilePriority is the tie-break order: earlier wins on equal scores.
var profilePriority = []UserProfile{ProfileLight, ProfileModerate, ProfileActive}

// Scores holds the points accumulated per profile.
type Scores map[UserProfile]int

// ScoreRule adds Points to Profile once for every time Matches fires.
// Matches returns a count so per-emotion rules can fire more than once.
type ScoreRule struct {
	Name    string
	Profile UserProfile
	Points  int
	Matches func(QuizAnswers) int
}

func fieldIs(get func(QuizAnswers) string, want string) func(QuizAnswers) int {
	return func(a QuizAnswers) int {
		if get(a) == want {
			return 1
		}
		return 0
	}
}

func emotionsIn(set ...string) func(QuizAnswers) int {
	return func(a QuizAnswers) int {
		n := 0
		for _, e := range a.Emotions {
			for _, s := range set {
				if e == s {
					n++
					break
				}
			}
		}
		return n
	}
}

func rhythmOf(a QuizAnswers) string    { return a.Rhythm }
func movementOf(a QuizAnswers) string  { return a.Movement }
func timeOf(a QuizAnswers) string      { return a.Time }
func intentionOf(a QuizAnswers) string { return a.Intention }

var overloadEmotions = []string{EmotionSelfDemanding, EmotionCantRest, EmotionLost}

// ClassificationRules is the point table used by Classify.
var ClassificationRules = []ScoreRule{
	{"rhythm/rush", ProfileLight, 3, fieldIs(rhythmOf, RhythmRush)},
	{"rhythm/breathing", ProfileModerate, 2, fieldIs(rhythmOf, RhythmBreathing)},
	{"rhythm/breathing", ProfileLight, 1, fieldIs(rhythmOf, RhythmBreathing)},
	{"rhythm/some-space", ProfileModerate, 3, fieldIs(rhythmOf, RhythmSomeSpace)},
	{"rhythm/reorganize", ProfileLight, 2, fieldIs(rhythmOf, RhythmReorganize)},

	{"movement/never", ProfileLight, 3, fieldIs(movementOf, MovementNever)},
	{"movement/tried", ProfileLight, 2, fieldIs(movementOf, MovementTried)},
	{"movement/tried", ProfileModerate, 1, fieldIs(movementOf, MovementTried)},
	{"movement/sometimes", ProfileModerate, 3, fieldIs(movementOf, MovementSometimes)},
	{"movement/frequent", ProfileActive, 3, fieldIs(movementOf, MovementFrequent)},

	{"time/5-10", ProfileLight, 3, fieldIs(timeOf, Time5To10)},
	{"time/15-20", ProfileModerate, 3, fieldIs(timeOf, Time15To20)},
	{"time/30", ProfileActive, 3, fieldIs(timeOf, Time30)},
	{"time/depends", ProfileLight, 1, fieldIs(timeOf, TimeDepends)},
	{"time/depends", ProfileModerate, 1, fieldIs(timeOf, TimeDepends)},

	{"emotions/overload", ProfileLight, 1, emotionsIn(overloadEmotions...)},
	{"emotions/ready", ProfileActive, 1, emotionsIn(EmotionReady)},
	{"emotions/ready", ProfileModerate, 1, emotionsIn(EmotionReady)},

	{"intention/unsure", ProfileLight, 2, fieldIs(intentionOf, IntentionUnsure)},
	{"intention/habits", ProfileModerate, 2, fieldIs(intentionOf, IntentionHabits)},
	{"intention/energy", ProfileActive, 1, fieldIs(intentionOf, IntentionEnergy)},
	{"intention/energy", ProfileModerate, 1, fieldIs(intentionOf, IntentionEnergy)},
}

// ScoreWith folds rules over the answers. Every profile is present in the
// result, zero when nothing matched.
func ScoreWith(rules []ScoreRule, a QuizAnswers) Scores {
	scores := Scores{ProfileLight: 0, ProfileModerate: 0, ProfileActive: 0}
	for _, r := range rules {
		scores[r.Profile] += r.Points * r.Matches(a)
	}
	return scores
}

// Score applies ClassificationRules to the answers.
func Score(a QuizAnswers) Scores {
	return ScoreWith(ClassificationRules, a)
}

// Top returns the highest scoring profile, breaking ties by priority
// leve > moderado > ativo.
func (s Scores) Top() UserProfile {
	best := profilePriority[0]
	for _, p := range profilePriority[1:] {
		if s[p] > s[best] {
			best = p
		}
	}
	return best
}

// Classify maps quiz answers to a profile. It never fails: unrecognized
// values contribute nothing and all-zero scores yield leve.
func Classify(a QuizAnswers) UserProfile {
	return Score(a).Top()
}

// Message is a title/description/emoji triple shown alongside a plan.
type Message struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

var profileMessages = map[UserProfile]Message{
	ProfileLight: {
		Title:       "Perfil Leve — Preciso retomar o equilíbrio",
		Description: "Vamos começar com sessões rápidas de 5-10 minutos. Sem pressão, apenas cuidado. Foco inicial: mente → corpo.",
		Emoji:       "🌱",
	},
	ProfileModerate: {
		Title:       "Perfil Moderado — Quero criar consistência",
		Description: "Sessões de 10-20 minutos com alternância entre mente e corpo. Pequenos desafios semanais para você evoluir.",
		Emoji:       "🎯",
	},
	ProfileActive: {
		Title:       "Perfil Ativo — Quero evoluir e me transformar",
		Description: "Sessões de 20-30 minutos com treinos consistentes. Respiração + Mindfulness + Progresso semanal.",
		Emoji:       "🚀",
	},
}

// ProfileMessage returns the copy for a profile. Unknown profiles get the
// leve message.
func ProfileMessage(p UserProfile) Message {
	if m, ok := profileMessages[p]; ok {
		return m
	}
	return profileMessages[ProfileLight]
}

// Valid reports whether p is one of the three profiles.
func (p UserProfile) Valid() bool {
	_, ok := profileMessages[p]
	return ok
}
