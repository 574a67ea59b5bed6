package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/emiliopalmerini/despertar/internal/apiclient"
	"github.com/emiliopalmerini/despertar/internal/domain"
	"github.com/emiliopalmerini/despertar/internal/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newServer(t *testing.T, h http.HandlerFunc) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	hc := srv.Client()
	t.Cleanup(func() {
		hc.CloseIdleConnections()
		srv.Close()
	})
	return apiclient.New(srv.URL, apiclient.WithHTTPClient(hc))
}

func apiErr(t *testing.T, err error) *apiclient.APIError {
	t.Helper()
	var e *apiclient.APIError
	require.True(t, errors.As(err, &e), "expected APIError, got %v", err)
	return e
}

func TestDo_EnforcesMinimumDelayOnSuccess(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte(`{"planId":"plan_1"}`))
	})

	start := time.Now()
	plan, err := c.GetPlan(context.Background(), "plan_1", ports.CallOptions{MinDelay: 300 * time.Millisecond})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "plan_1", plan.PlanID)
	assert.GreaterOrEqual(t, elapsed, 300*time.Millisecond)
}

func TestDo_DefaultFloorIsApplied(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	})

	start := time.Now()
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/x", nil, nil, ports.CallOptions{}))
	assert.GreaterOrEqual(t, time.Since(start), apiclient.DefaultMinDelay)
}

func TestDo_EnforcesMinimumDelayOnError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Ops, não conseguimos criar seu plano. Tente novamente."}`))
	})

	start := time.Now()
	err := c.Do(context.Background(), http.MethodPost, "/api/plans/generate", map[string]string{}, nil, ports.CallOptions{MinDelay: 200 * time.Millisecond})

	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
	e := apiErr(t, err)
	assert.Equal(t, http.StatusInternalServerError, e.Status)
	assert.Equal(t, "Ops, não conseguimos criar seu plano. Tente novamente.", e.Message)
}

func TestDo_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	start := time.Now()
	err := c.Do(context.Background(), http.MethodGet, "/slow", nil, nil, ports.CallOptions{Timeout: 50 * time.Millisecond, MinDelay: -1})

	e := apiErr(t, err)
	assert.Equal(t, http.StatusRequestTimeout, e.Status)
	assert.Equal(t, apiclient.MsgTimeout, e.Message)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestDo_ErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{"error field", `{"error":"Plano não encontrado"}`, "Plano não encontrado"},
		{"json without error", `{"detail":"x"}`, apiclient.MsgRequestFailed},
		{"not json", `<html>oops</html>`, apiclient.MsgUnknownFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(tt.body))
			})

			err := c.Do(context.Background(), http.MethodGet, "/api/plans/x", nil, nil, ports.CallOptions{MinDelay: -1})
			e := apiErr(t, err)
			assert.Equal(t, http.StatusNotFound, e.Status)
			assert.Equal(t, tt.wantMessage, e.Message)
		})
	}
}

func TestDo_TransportErrorIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := apiclient.New(base)
	err := c.Do(context.Background(), http.MethodGet, "/x", nil, nil, ports.CallOptions{MinDelay: -1})
	e := apiErr(t, err)
	assert.Equal(t, http.StatusInternalServerError, e.Status)
	assert.Equal(t, apiclient.MsgGeneric, e.Message)
}

func TestDo_InvalidSuccessBodyIsGeneric(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	var out map[string]any
	err := c.Do(context.Background(), http.MethodGet, "/x", nil, &out, ports.CallOptions{MinDelay: -1})
	assert.Equal(t, apiclient.MsgGeneric, apiErr(t, err).Message)
}

func TestDo_ParentCancellation(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.Do(ctx, http.MethodGet, "/x", nil, nil, ports.CallOptions{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGeneratePlan_SendsRequest(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/plans/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req domain.PlanRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "u1", req.UserID)
		assert.Equal(t, domain.VolumeComplete, req.PlanVolume)

		_ = json.NewEncoder(w).Encode(domain.Plan{PlanID: "plan_9", Summary: "ok"})
	})

	p := domain.Personalize(domain.QuizAnswers{Time: domain.Time30})
	plan, err := c.GeneratePlan(context.Background(), domain.NewPlanRequest("u1", domain.QuizAnswers{Time: domain.Time30}, p), ports.CallOptions{MinDelay: -1})
	require.NoError(t, err)
	assert.Equal(t, "plan_9", plan.PlanID)
}

func TestCompleteTask_Path(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/plans/plan_1/tasks/task_2/complete", r.URL.Path)
		_ = json.NewEncoder(w).Encode(domain.TaskCompletion{Success: true, XPEarned: 10})
	})

	tc, err := c.CompleteTask(context.Background(), "plan_1", "task_2", ports.CallOptions{MinDelay: -1})
	require.NoError(t, err)
	assert.True(t, tc.Success)
	assert.Equal(t, 10, tc.XPEarned)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "x", apiclient.Message(&apiclient.APIError{Status: 400, Message: "x"}))
	assert.Equal(t, apiclient.MsgGeneric, apiclient.Message(errors.New("boom")))
}
