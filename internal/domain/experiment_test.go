package domain

import (
	"errors"
	"testing"
)

func TestHashUserID(t *testing.T) {
	tests := []struct {
		userID     string
		wantHash   int64
		wantBucket int
	}{
		{"", 0, 0},
		{"abc", 96354, 54},
		{"user_1", -836030275, 75},
		{"user_123", -266208322, 22},
		{"any-user-id", 7253910396, 96},
		{"user_1700000000000_k3j2h1g0f", -6388869349, 49},
		{"alice", 92903040, 40},
		{"bob", 97717, 17},
		{"carol", 94431409, 9},
		{"dave", 3076076, 76},
		{"joão", 3271665, 65},
		{"😀x", 54959989, 89},
	}

	for _, tt := range tests {
		t.Run(tt.userID, func(t *testing.T) {
			if got := HashUserID(tt.userID); got != tt.wantHash {
				t.Errorf("HashUserID(%q) = %d, want %d", tt.userID, got, tt.wantHash)
			}
			if got := Bucket(tt.userID); got != tt.wantBucket {
				t.Errorf("Bucket(%q) = %d, want %d", tt.userID, got, tt.wantBucket)
			}
		})
	}
}

func TestAssignVariant(t *testing.T) {
	cfg := func(a int) ExperimentConfig {
		return ExperimentConfig{Name: "t", A: VariantConfig{Name: "a", Weight: a}, B: VariantConfig{Name: "b", Weight: 100 - a}}
	}

	tests := []struct {
		name   string
		userID string
		weight int
		want   Variant
	}{
		{"bucket below weight", "carol", 50, VariantA},
		{"bucket above weight", "dave", 50, VariantB},
		{"bucket equal weight is B", "alice", 40, VariantB},
		{"full weight always A", "any-user-id", 100, VariantA},
		{"zero weight always B", "carol", 0, VariantB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssignVariant(tt.userID, cfg(tt.weight)); got != tt.want {
				t.Errorf("AssignVariant(%q, %d) = %s, want %s", tt.userID, tt.weight, got, tt.want)
			}
		})
	}
}

func TestExperimentConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ExperimentConfig
		wantErr bool
	}{
		{"valid", ExperimentConfig{Name: "x", A: VariantConfig{Weight: 50}, B: VariantConfig{Weight: 50}}, false},
		{"all on B", ExperimentConfig{Name: "x", A: VariantConfig{Weight: 0}, B: VariantConfig{Weight: 100}}, false},
		{"missing name", ExperimentConfig{A: VariantConfig{Weight: 50}, B: VariantConfig{Weight: 50}}, true},
		{"sum not 100", ExperimentConfig{Name: "x", A: VariantConfig{Weight: 60}, B: VariantConfig{Weight: 60}}, true},
		{"negative", ExperimentConfig{Name: "x", A: VariantConfig{Weight: -10}, B: VariantConfig{Weight: 110}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidExperiment) {
				t.Errorf("Expected ErrInvalidExperiment, got %v", err)
			}
		})
	}
}

func TestAssignmentKey(t *testing.T) {
	if got := AssignmentKey("cta_text_test", "user_1"); got != "ab_test_cta_text_test_user_1" {
		t.Errorf("Unexpected key %s", got)
	}
}
