package onboarding

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/adapters/memory"
	"github.com/emiliopalmerini/despertar/internal/analytics"
	"github.com/emiliopalmerini/despertar/internal/apiclient"
	"github.com/emiliopalmerini/despertar/internal/domain"
	"github.com/emiliopalmerini/despertar/internal/experiment"
	"github.com/emiliopalmerini/despertar/internal/plans"
)

const instantExperiments = `
- name: loading_duration_test
  A: {name: instant, weight: 100, config: {duration: 0}}
  B: {name: unused, weight: 0, config: {duration: 0}}
- name: cta_text_test
  A: {name: control, weight: 50, config: {primaryCTA: Começar}}
  B: {name: treatment, weight: 50, config: {primaryCTA: Vamos}}
`

// newStack wires the onboarding API to a real plan API over HTTP.
func newStack(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewKeyValueStore()

	planRouter := chi.NewRouter()
	plans.RegisterRoutes(planRouter, plans.NewHandler(plans.NewKVRepository(store), plans.Config{}, zap.NewNop()))
	planAPI := httptest.NewServer(planRouter)
	t.Cleanup(planAPI.Close)

	reg, err := experiment.Load(strings.NewReader(instantExperiments))
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(
		NewKVRepository(store),
		experiment.NewEngine(store, reg, false, zap.NewNop()),
		apiclient.New(planAPI.URL, apiclient.WithMinDelay(0)),
		analytics.NewTracker(false, zap.NewNop()),
		Config{},
		zap.NewNop(),
	)

	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(svc, zap.NewNop()))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type viewResponse struct {
	UserID         string          `json:"userId"`
	Stage          domain.Stage    `json:"stage"`
	Step           int             `json:"step"`
	StepName       string          `json:"stepName"`
	Progress       float64         `json:"progress"`
	CanProceed     bool            `json:"canProceed"`
	Plan           *domain.Plan    `json:"plan"`
	ProfileMessage *domain.Message `json:"profileMessage"`
	CheckoutURL    string          `json:"checkoutUrl"`
	Redirect       *domain.Redirect
}

func call(t *testing.T, method, url string, body any, wantStatus int) viewResponse {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d", method, url, wantStatus, resp.StatusCode)
	}
	var v viewResponse
	if wantStatus < 300 {
		if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
			t.Fatal(err)
		}
	}
	return v
}

func TestHandler_FullFunnel(t *testing.T) {
	srv := newStack(t)

	v := call(t, http.MethodPost, srv.URL+"/api/onboarding", nil, http.StatusCreated)
	if !strings.HasPrefix(v.UserID, "user_") || v.StepName != "welcome" || !v.CanProceed {
		t.Fatalf("Unexpected start view %+v", v)
	}
	base := srv.URL + "/api/onboarding/" + v.UserID

	call(t, http.MethodPost, base+"/next", nil, http.StatusOK)
	call(t, http.MethodPost, base+"/next", nil, http.StatusBadRequest)

	call(t, http.MethodPut, base+"/answers", answers(), http.StatusOK)
	for i := domain.StepUserName; i < domain.StepSummary; i++ {
		v = call(t, http.MethodPost, base+"/next", nil, http.StatusOK)
	}
	if v.Step != domain.StepSummary || v.StepName != "summary" || v.Progress < 89 {
		t.Fatalf("Expected summary, got step %d (%s)", v.Step, v.StepName)
	}

	v = call(t, http.MethodPost, base+"/plan", nil, http.StatusOK)
	if v.Stage != domain.StagePaywall || v.Plan == nil {
		t.Fatalf("Expected paywall with plan, got %+v", v)
	}
	if v.Plan.Summary != "Plano personalizado para Ana" || v.Plan.Profile != domain.ProfileModerate {
		t.Errorf("Unexpected plan %+v", v.Plan)
	}
	if v.ProfileMessage == nil || v.ProfileMessage.Title == "" {
		t.Errorf("Expected profile message")
	}

	v = call(t, http.MethodPost, base+"/paywall/start", nil, http.StatusOK)
	if v.CheckoutURL != DefaultCheckoutURL || v.Stage != domain.StagePlan {
		t.Errorf("Expected checkout URL and plan stage, got %+v", v)
	}

	call(t, http.MethodPost, base+"/tasks/task_1/complete", nil, http.StatusOK)
	call(t, http.MethodPost, base+"/tasks/nope/complete", nil, http.StatusNotFound)

	call(t, http.MethodPost, base+"/first-step", nil, http.StatusOK)
	v = call(t, http.MethodPost, base+"/complete-habit", nil, http.StatusOK)
	if v.Stage != domain.StageConfirmation || v.Redirect == nil || v.Redirect.URL != domain.DashboardURL {
		t.Errorf("Expected confirmation with redirect, got %+v", v)
	}

	call(t, http.MethodPost, base+"/plan", nil, http.StatusConflict)
}

func TestHandler_Errors(t *testing.T) {
	srv := newStack(t)

	call(t, http.MethodGet, srv.URL+"/api/onboarding/nobody", nil, http.StatusNotFound)

	v := call(t, http.MethodPost, srv.URL+"/api/onboarding", nil, http.StatusCreated)
	base := srv.URL + "/api/onboarding/" + v.UserID

	call(t, http.MethodPut, base+"/answers", map[string]string{"time": "1 hora"}, http.StatusBadRequest)
	call(t, http.MethodPost, base+"/emotions/toggle", map[string]string{"emotion": "feliz"}, http.StatusBadRequest)
	v = call(t, http.MethodPost, base+"/emotions/toggle", map[string]string{"emotion": domain.EmotionReady}, http.StatusOK)
	if v.UserID == "" {
		t.Error("Expected flow in response")
	}
	call(t, http.MethodPost, base+"/retry", nil, http.StatusConflict)
}

func TestHandler_CreatePlanWithWipedAnswers(t *testing.T) {
	srv := newStack(t)

	v := call(t, http.MethodPost, srv.URL+"/api/onboarding", nil, http.StatusCreated)
	base := srv.URL + "/api/onboarding/" + v.UserID
	call(t, http.MethodPut, base+"/answers", answers(), http.StatusOK)
	for i := domain.StepWelcome; i < domain.StepSummary; i++ {
		call(t, http.MethodPost, base+"/next", nil, http.StatusOK)
	}

	call(t, http.MethodPut, base+"/answers", domain.QuizAnswers{}, http.StatusOK)
	call(t, http.MethodPost, base+"/plan", nil, http.StatusBadRequest)

	v = call(t, http.MethodGet, base, nil, http.StatusOK)
	if v.Stage != domain.StageOnboarding || v.Step != domain.StepSummary || v.Plan != nil {
		t.Errorf("Expected flow to stay on the summary, got %s step %d", v.Stage, v.Step)
	}
}
