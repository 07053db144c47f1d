// Package testdata loads the golden fixtures backing spec §8's concrete
// scenarios: YAML-described expectations plus txtar-packed multi-file
// archives, so scenario tables aren't hand-duplicated Go string literals.
package testdata

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Scenario is one of spec §8's concrete scenarios, decoded from YAML.
type Scenario struct {
	Name    string `yaml:"name"`
	Source  string `yaml:"source"`
	Accept  bool   `yaml:"accept"`
	ErrLike string `yaml:"err_like,omitempty"`
}

// LoadScenarios decodes a YAML document containing a top-level `scenarios`
// list into Scenario values.
func LoadScenarios(doc []byte) ([]Scenario, error) {
	var wrapper struct {
		Scenarios []Scenario `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(doc, &wrapper); err != nil {
		return nil, fmt.Errorf("testdata: decoding scenarios: %w", err)
	}
	return wrapper.Scenarios, nil
}
