package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one scripted session with its expected results.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Lookback overrides the session dedup window. Zero keeps the default.
	Lookback int `yaml:"lookback,omitempty"`

	// Input is the command script, one command per line.
	Input string `yaml:"input"`

	// Expect lists every output line in order. Omitted means no output.
	Expect []string `yaml:"expect,omitempty"`

	// FinalState is a subset match on the store's entries after the run.
	FinalState map[string]string `yaml:"final_state,omitempty"`

	// Absent lists keys that must not be set after the run.
	Absent []string `yaml:"absent,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "expected:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Input == "" {
		return fmt.Errorf("input is required")
	}
	if s.Lookback != 0 && s.Lookback <= 1 {
		return fmt.Errorf("lookback must be greater than 1, got %d", s.Lookback)
	}
	for _, key := range s.Absent {
		if _, ok := s.FinalState[key]; ok {
			return fmt.Errorf("key %q listed in both final_state and absent", key)
		}
	}
	return nil
}
