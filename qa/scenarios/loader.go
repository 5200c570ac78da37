// Package scenarios runs YAML described itineraries through the engine and
// checks the outcome.
package scenarios

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/model"
)

type Expected struct {
	// Score is compared with Tolerance when set.
	Score     *float64 `yaml:"score,omitempty"`
	Tolerance float64  `yaml:"tolerance,omitempty"`
	MinScore  *float64 `yaml:"min_score,omitempty"`
	MaxScore  *float64 `yaml:"max_score,omitempty"`
	// EmissionsKg is compared with Tolerance when set.
	EmissionsKg *float64 `yaml:"emissions_kg,omitempty"`
	Band        string   `yaml:"band,omitempty"`
	// Tags must all be present, in order of the rule table.
	Tags []string `yaml:"tags,omitempty"`
	// Absent tags must not be present.
	Absent []string `yaml:"absent,omitempty"`
	// ExactTags requires Tags to be the complete list.
	ExactTags bool `yaml:"exact_tags,omitempty"`
	// InvalidLeg expects validation to fail at this index.
	InvalidLeg *int `yaml:"invalid_leg,omitempty"`
}

type Scenario struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Scoring     ecoscore.Config `yaml:"scoring,omitempty"`
	Legs        []model.Leg     `yaml:"legs"`
	Expected    Expected        `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(path)
	}
	return &sc, nil
}

// LoadDir loads every *.yaml file of dir sorted by name.
func LoadDir(dir string) ([]*Scenario, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	out := make([]*Scenario, 0, len(files))
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}
