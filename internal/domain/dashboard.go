package domain

import (
	"errors"
	"slices"
	"strings"
	"time"
)

var ErrInvalidUserData = errors.New("name and email are required")

// UserData is the display identity kept for the dashboard.
type UserData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DefaultUserData is shown before the user saves anything.
var DefaultUserData = UserData{Name: "Você", Email: "seu@email.com"}

// NewUserData trims both fields and rejects blanks.
func NewUserData(name, email string) (UserData, error) {
	u := UserData{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if u.Name == "" || u.Email == "" {
		return UserData{}, ErrInvalidUserData
	}
	return u, nil
}

// TaskCategory groups daily tasks.
type TaskCategory string

const (
	CategoryMindfulness TaskCategory = "mindfulness"
	CategoryMovement    TaskCategory = "movement"
	CategoryNutrition   TaskCategory = "nutrition"
	CategoryReflection  TaskCategory = "reflection"
)

// DailyTask is one habit on the dashboard.
type DailyTask struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	XP            int          `json:"xp"`
	Completed     bool         `json:"completed"`
	Category      TaskCategory `json:"category"`
	EstimatedTime string       `json:"estimatedTime"`
}

// DefaultDailyTasks returns a fresh copy of the starter habits.
func DefaultDailyTasks() []DailyTask {
	return []DailyTask{
		{
			ID:            "1",
			Title:         "Escrever 3 coisas pelas quais sou grato",
			Description:   "Praticar gratidão fortalece sua mentalidade positiva e reduz o estresse. Reserve 2 minutos para refletir sobre o que há de bom na sua vida hoje.",
			XP:            10,
			Category:      CategoryReflection,
			EstimatedTime: "2 min",
		},
		{
			ID:            "2",
			Title:         "Alongamento matinal de 5 minutos",
			Description:   "Despertar o corpo com movimentos suaves prepara você para o dia. Foque em respiração profunda e movimentos lentos.",
			XP:            15,
			Category:      CategoryMovement,
			EstimatedTime: "5 min",
		},
		{
			ID:            "3",
			Title:         "Beber 2 copos de água",
			Description:   "Hidratação adequada melhora energia, foco e disposição. Comece o dia hidratando seu corpo.",
			XP:            5,
			Category:      CategoryNutrition,
			EstimatedTime: "1 min",
		},
	}
}

const dayLayout = "2006-01-02"

// TaskBoard is the persisted task state of a user: completion flags plus
// the days on which anything was completed.
type TaskBoard struct {
	Tasks      []DailyTask `json:"tasks"`
	ActiveDays []string    `json:"activeDays"`
}

// NewTaskBoard returns a board with the default tasks.
func NewTaskBoard() TaskBoard {
	return TaskBoard{Tasks: DefaultDailyTasks()}
}

// Complete marks a task done on the given day. Completing a task twice is
// a no-op and awards nothing the second time.
func (b *TaskBoard) Complete(taskID string, now time.Time) (DailyTask, error) {
	i := slices.IndexFunc(b.Tasks, func(t DailyTask) bool { return t.ID == taskID })
	if i < 0 {
		return DailyTask{}, ErrTaskNotFound
	}
	b.Tasks[i].Completed = true
	day := now.UTC().Format(dayLayout)
	if !slices.Contains(b.ActiveDays, day) {
		b.ActiveDays = append(b.ActiveDays, day)
	}
	return b.Tasks[i], nil
}

// Achievement is a gamification milestone.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// UserStats summarizes progress on the dashboard.
type UserStats struct {
	CurrentStreak  int           `json:"currentStreak"`
	TotalXP        int           `json:"totalXP"`
	Level          int           `json:"level"`
	TasksCompleted int           `json:"tasksCompleted"`
	WeekProgress   int           `json:"weekProgress"`
	NextLevelXP    int           `json:"nextLevelXP"`
	Achievements   []Achievement `json:"achievements"`
}

// XPPerLevel is the XP needed to climb one level.
const XPPerLevel = 100

// LevelFor returns the level reached with xp; everyone starts at 1.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// Streak counts consecutive active days ending today, or yesterday when
// nothing was done yet today.
func Streak(activeDays []string, now time.Time) int {
	days := make(map[string]bool, len(activeDays))
	for _, d := range activeDays {
		days[d] = true
	}
	cursor := now.UTC()
	if !days[cursor.Format(dayLayout)] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	n := 0
	for days[cursor.Format(dayLayout)] {
		n++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return n
}

// Stats derives the dashboard numbers from a task board.
func (b TaskBoard) Stats(now time.Time) UserStats {
	var s UserStats
	for _, t := range b.Tasks {
		if t.Completed {
			s.TotalXP += t.XP
			s.TasksCompleted++
		}
	}
	if len(b.Tasks) > 0 {
		s.WeekProgress = s.TasksCompleted * 100 / len(b.Tasks)
	}
	s.Level = LevelFor(s.TotalXP)
	s.NextLevelXP = s.Level * XPPerLevel
	s.CurrentStreak = Streak(b.ActiveDays, now)
	s.Achievements = []Achievement{
		{ID: "1", Title: "Iniciante Dedicado", Description: "Complete 3 dias seguidos", Unlocked: s.CurrentStreak >= 3},
		{ID: "2", Title: "Primeira Semana", Description: "Complete 7 dias seguidos", Unlocked: s.CurrentStreak >= 7},
		{ID: "3", Title: "Mestre da Consistência", Description: "Complete 30 dias seguidos", Unlocked: s.CurrentStreak >= 30},
		{ID: "4", Title: "Colecionador de XP", Description: "Alcance 500 XP", Unlocked: s.TotalXP >= 500},
	}
	return s
}
