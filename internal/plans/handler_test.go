package plans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/adapters/memory"
	"github.com/emiliopalmerini/despertar/internal/domain"
)

func newRouter(repo Repository) (*chi.Mux, *Handler) {
	h := NewHandler(repo, Config{}, zap.NewNop())
	h.now = func() time.Time { return time.UnixMilli(1700000000000) }
	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return r, h
}

func TestHandler_Generate(t *testing.T) {
	repo := NewKVRepository(memory.NewKeyValueStore())
	router, _ := newRouter(repo)

	answers := domain.QuizAnswers{
		Name:      "Ana",
		Intention: domain.IntentionEnergy,
		Emotions:  []string{domain.EmotionReady},
		Time:      domain.Time30,
	}
	body, _ := json.Marshal(domain.NewPlanRequest("u1", answers, domain.Personalize(answers)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plans/generate", strings.NewReader(string(body))))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var plan domain.Plan
	if err := json.NewDecoder(rec.Body).Decode(&plan); err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(plan.PlanID, "plan_1700000000000_") || len(plan.PlanID) != len("plan_1700000000000_")+9 {
		t.Errorf("Unexpected plan id %s", plan.PlanID)
	}
	if plan.Summary != "Plano personalizado para Ana" {
		t.Errorf("Unexpected summary %s", plan.Summary)
	}
	if len(plan.Week1) != 3 || plan.Week1[0].TaskID != "task_1" {
		t.Errorf("Unexpected week %+v", plan.Week1)
	}
	if plan.FirstTask.ID != "first_task_water" || plan.FirstTask.XP != 10 {
		t.Errorf("Unexpected first task %+v", plan.FirstTask)
	}
	if plan.Focus == nil || plan.Focus.Intention != domain.IntentionEnergy {
		t.Errorf("Expected focus to echo answers, got %+v", plan.Focus)
	}
	if plan.PlanVolume != domain.VolumeComplete || plan.RhythmPlan == nil {
		t.Errorf("Expected personalization echoed, got %s %+v", plan.PlanVolume, plan.RhythmPlan)
	}

	stored, err := repo.Get(context.Background(), plan.PlanID)
	if err != nil || stored.Summary != plan.Summary {
		t.Errorf("Expected plan to be stored, got %v", err)
	}
}

func TestHandler_Generate_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		repo *MockRepository
	}{
		{"malformed body", "{", &MockRepository{}},
		{"save fails", `{"userId":"u1"}`, &MockRepository{
			SaveFunc: func(ctx context.Context, plan domain.Plan) error { return errors.New("db down") },
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newRouter(tt.repo)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plans/generate", strings.NewReader(tt.body)))

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("Expected 500, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), MsgGenerateFailed) {
				t.Errorf("Unexpected body %s", rec.Body.String())
			}
		})
	}
}

func TestHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		repo           *MockRepository
		expectedStatus int
		expectedSumm   string
	}{
		{
			name: "stored plan",
			repo: &MockRepository{GetFunc: func(ctx context.Context, planID string) (*domain.Plan, error) {
				return &domain.Plan{PlanID: planID, Summary: "Plano personalizado para Bia"}, nil
			}},
			expectedStatus: http.StatusOK,
			expectedSumm:   "Plano personalizado para Bia",
		},
		{
			name:           "unknown plan gets generic template",
			repo:           &MockRepository{},
			expectedStatus: http.StatusOK,
			expectedSumm:   genericSummary,
		},
		{
			name: "storage error",
			repo: &MockRepository{GetFunc: func(ctx context.Context, planID string) (*domain.Plan, error) {
				return nil, errors.New("boom")
			}},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newRouter(tt.repo)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/plans/plan_1", nil))

			if rec.Code != tt.expectedStatus {
				t.Fatalf("Expected %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSumm == "" {
				if !strings.Contains(rec.Body.String(), MsgPlanNotFound) {
					t.Errorf("Unexpected body %s", rec.Body.String())
				}
				return
			}
			var plan domain.Plan
			_ = json.NewDecoder(rec.Body).Decode(&plan)
			if plan.Summary != tt.expectedSumm || plan.PlanID != "plan_1" {
				t.Errorf("Unexpected plan %+v", plan)
			}
		})
	}
}

func TestHandler_CompleteTask(t *testing.T) {
	repo := NewKVRepository(memory.NewKeyValueStore())
	if err := repo.Save(context.Background(), Generic("plan_1")); err != nil {
		t.Fatal(err)
	}
	router, _ := newRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plans/plan_1/tasks/task_2/complete", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var tc domain.TaskCompletion
	_ = json.NewDecoder(rec.Body).Decode(&tc)
	if !tc.Success || tc.XPEarned != 10 || tc.Badge != CompletionBadge || tc.Message != MsgTaskCompleted {
		t.Errorf("Unexpected completion %+v", tc)
	}

	stored, _ := repo.Get(context.Background(), "plan_1")
	if !stored.Week1[1].Completed {
		t.Error("Expected task_2 to be persisted as completed")
	}
}

func TestHandler_CompleteTask_UnknownTaskOnStoredPlan(t *testing.T) {
	repo := NewKVRepository(memory.NewKeyValueStore())
	_ = repo.Save(context.Background(), Generic("plan_1"))
	router, _ := newRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plans/plan_1/tasks/task_99/complete", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestHandler_CompleteTask_UnknownPlanSucceeds(t *testing.T) {
	router, _ := newRouter(&MockRepository{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plans/nope/tasks/first_task_water/complete", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestHandler_Page(t *testing.T) {
	plan := Build("plan_1", domain.NewPlanRequest("u1",
		domain.QuizAnswers{Name: "<script>", Time: domain.Time5To10},
		domain.Personalize(domain.QuizAnswers{Time: domain.Time5To10}),
	))
	router, _ := newRouter(&MockRepository{GetFunc: func(ctx context.Context, planID string) (*domain.Plan, error) {
		return &plan, nil
	}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plans/plan_1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<script>") {
		t.Error("Summary must be escaped")
	}
	if !strings.Contains(body, "Plano Ultraleve") {
		t.Error("Expected volume copy on the page")
	}
}

func TestSleep_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
