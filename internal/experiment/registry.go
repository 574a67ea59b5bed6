// Package experiment loads A/B test definitions and assigns users to
// variants with sticky persistence.
package experiment

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emiliopalmerini/despertar/internal/domain"
)

// Names of the shipped experiments.
const (
	LoadingDurationTest = "loading_duration_test"
	CTATextTest         = "cta_text_test"
	FirstTaskActionTest = "first_task_action_test"
)

//go:embed experiments.yaml
var defaultExperiments []byte

var ErrUnknownExperiment = errors.New("unknown experiment")

// Registry holds experiment configs in declaration order.
type Registry struct {
	ordered []domain.ExperimentConfig
	byName  map[string]int
}

// NewRegistry validates configs and indexes them by name.
func NewRegistry(configs []domain.ExperimentConfig) (*Registry, error) {
	r := &Registry{byName: make(map[string]int, len(configs))}
	for _, c := range configs {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate experiment %s", domain.ErrInvalidExperiment, c.Name)
		}
		r.byName[c.Name] = len(r.ordered)
		r.ordered = append(r.ordered, c)
	}
	return r, nil
}

// Load decodes a YAML list of experiments.
func Load(r io.Reader) (*Registry, error) {
	var configs []domain.ExperimentConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&configs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode experiments: %w", err)
	}
	return NewRegistry(configs)
}

// LoadFile reads experiments from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open experiments file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the embedded experiments.
func Default() (*Registry, error) {
	var configs []domain.ExperimentConfig
	if err := yaml.Unmarshal(defaultExperiments, &configs); err != nil {
		return nil, fmt.Errorf("failed to decode embedded experiments: %w", err)
	}
	return NewRegistry(configs)
}

// LoadOrDefault reads path when set and the embedded experiments otherwise.
func LoadOrDefault(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Get returns the experiment called name.
func (r *Registry) Get(name string) (domain.ExperimentConfig, error) {
	i, ok := r.byName[name]
	if !ok {
		return domain.ExperimentConfig{}, fmt.Errorf("%w: %s", ErrUnknownExperiment, name)
	}
	return r.ordered[i], nil
}

// All returns the experiments in declaration order.
func (r *Registry) All() []domain.ExperimentConfig {
	out := make([]domain.ExperimentConfig, len(r.ordered))
	copy(out, r.ordered)
	return out
}
