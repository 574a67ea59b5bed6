package app

import (
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Expected :8080, got %s", cfg.Addr)
	}
	if cfg.Plans.Timeout != 8*time.Second || cfg.Plans.MinDelay != 1200*time.Millisecond {
		t.Errorf("Unexpected plan client defaults %+v", cfg.Plans)
	}
	if cfg.TaskSimulatedLatency != 300*time.Millisecond {
		t.Errorf("Expected 300ms task latency, got %v", cfg.TaskSimulatedLatency)
	}
	if cfg.Experiments.ForceControl {
		t.Error("Expected force control off by default")
	}
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("PLANS_API_URL", "https://plans.example")
	t.Setenv("PLANS_MIN_DELAY", "0s")
	t.Setenv("EXPERIMENTS_FORCE_CONTROL", "true")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_ENDPOINT", "collector:4317")

	cfg, err := New()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.PlansAPIURL() != "https://plans.example" {
		t.Errorf("Unexpected plan API %s", cfg.PlansAPIURL())
	}
	if cfg.Plans.MinDelay != 0 {
		t.Errorf("Expected min delay 0, got %v", cfg.Plans.MinDelay)
	}
	if !cfg.Experiments.ForceControl {
		t.Error("Expected force control on")
	}
	if !cfg.Otel.Enabled || cfg.Otel.Endpoint != "collector:4317" {
		t.Errorf("Unexpected otel config %+v", cfg.Otel)
	}
}

func TestPlansAPIURL_DefaultsToSelf(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8080", "http://127.0.0.1:8080"},
		{"0.0.0.0:9000", "http://0.0.0.0:9000"},
	}
	for _, tt := range tests {
		cfg := &Config{Addr: tt.addr}
		if got := cfg.PlansAPIURL(); got != tt.want {
			t.Errorf("PlansAPIURL(%s) = %s, want %s", tt.addr, got, tt.want)
		}
	}
}
