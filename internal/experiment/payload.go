package experiment

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/emiliopalmerini/despertar/internal/domain"
)

// LoadingConfig is the payload of loading_duration_test.
type LoadingConfig struct {
	DurationMs      int      `yaml:"duration" json:"duration"`
	ShowProgressBar bool     `yaml:"showProgressBar" json:"showProgressBar"`
	AllowSkip       bool     `yaml:"allowSkip" json:"allowSkip"`
	Messages        []string `yaml:"messages" json:"messages"`
}

// Duration is the minimum time the loading screen stays up.
func (c LoadingConfig) Duration() time.Duration {
	return time.Duration(c.DurationMs) * time.Millisecond
}

// CTAConfig is the payload of cta_text_test.
type CTAConfig struct {
	PrimaryCTA   string `yaml:"primaryCTA" json:"primaryCTA"`
	SecondaryCTA string `yaml:"secondaryCTA" json:"secondaryCTA"`
}

// FirstTaskConfig is the payload of first_task_action_test.
type FirstTaskConfig struct {
	Tasks []domain.MicroTask `yaml:"tasks" json:"tasks"`
}

// DecodePayload converts a variant payload into out. Payloads that went
// through JSON carry float64 numbers; re-encoding through YAML normalizes
// them.
func DecodePayload(payload map[string]any, out any) error {
	raw, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

// LoadingFor decodes the loading payload of an assignment.
func LoadingFor(a domain.Assignment) (LoadingConfig, error) {
	var c LoadingConfig
	err := DecodePayload(a.Config, &c)
	return c, err
}

// CTAFor decodes the CTA payload of an assignment.
func CTAFor(a domain.Assignment) (CTAConfig, error) {
	var c CTAConfig
	err := DecodePayload(a.Config, &c)
	return c, err
}

// FirstTaskFor decodes the first-task payload of an assignment.
func FirstTaskFor(a domain.Assignment) (FirstTaskConfig, error) {
	var c FirstTaskConfig
	err := DecodePayload(a.Config, &c)
	return c, err
}
