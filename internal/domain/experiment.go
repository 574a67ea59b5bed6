package domain

import (
	"errors"
	"fmt"
	"unicode/utf16"
)

// Variant is an A/B treatment.
type Variant string

const (
	VariantA Variant = "A"
	VariantB Variant = "B"
)

// Valid reports whether v is A or B.
func (v Variant) Valid() bool {
	return v == VariantA || v == VariantB
}

// VariantConfig describes one arm of an experiment. Payload is the
// variant-specific configuration handed to the caller untouched.
type VariantConfig struct {
	Name    string         `json:"name" yaml:"name"`
	Weight  int            `json:"weight" yaml:"weight"`
	Payload map[string]any `json:"config" yaml:"config"`
}

// ExperimentConfig is a named two-arm experiment.
type ExperimentConfig struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description"`
	A           VariantConfig `json:"A" yaml:"A"`
	B           VariantConfig `json:"B" yaml:"B"`
}

var ErrInvalidExperiment = errors.New("invalid experiment config")

// Validate checks the name and that both weights lie in 0..100 and sum to 100.
func (c ExperimentConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidExperiment)
	}
	if c.A.Weight < 0 || c.A.Weight > 100 || c.B.Weight < 0 || c.B.Weight > 100 {
		return fmt.Errorf("%w: %s weights must be within 0..100", ErrInvalidExperiment, c.Name)
	}
	if c.A.Weight+c.B.Weight != 100 {
		return fmt.Errorf("%w: %s weights sum to %d, want 100", ErrInvalidExperiment, c.Name, c.A.Weight+c.B.Weight)
	}
	return nil
}

// Variant returns the arm for v; anything but B is A.
func (c ExperimentConfig) Variant(v Variant) VariantConfig {
	if v == VariantB {
		return c.B
	}
	return c.A
}

// HashUserID is the rolling hash used for bucketing, kept compatible with
// assignments already made by the web client: for every UTF-16 code unit,
// hash = code + ((hash << 5) - hash), where only the shift truncates its
// operand to 32 bits.
func HashUserID(userID string) int64 {
	var hash int64
	for _, unit := range utf16.Encode([]rune(userID)) {
		shifted := int64(int32(uint32(int32(hash)) << 5))
		hash = int64(unit) + (shifted - hash)
	}
	return hash
}

// Bucket maps a user id to 0..99.
func Bucket(userID string) int {
	b := HashUserID(userID) % 100
	if b < 0 {
		b = -b
	}
	return int(b)
}

// AssignVariant buckets the user against the weight of A.
func AssignVariant(userID string, cfg ExperimentConfig) Variant {
	if Bucket(userID) < cfg.A.Weight {
		return VariantA
	}
	return VariantB
}

// AssignmentKey is the storage key of a sticky assignment.
func AssignmentKey(experimentName, userID string) string {
	return "ab_test_" + experimentName + "_" + userID
}

// Assignment is the variant a user sees in one experiment.
type Assignment struct {
	Experiment  string         `json:"experiment"`
	UserID      string         `json:"userId"`
	Variant     Variant        `json:"variant"`
	VariantName string         `json:"variantName"`
	Config      map[string]any `json:"config"`
	// Sticky is true when the variant came from the store.
	Sticky bool `json:"sticky"`
}
