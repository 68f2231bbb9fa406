package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTrip reads and validates a trip description from a YAML file.
func LoadTrip(path string) (Trip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trip{}, fmt.Errorf("read trip file: %w", err)
	}

	var t Trip
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Trip{}, fmt.Errorf("parse trip file: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Trip{}, fmt.Errorf("trip file %s: %w", path, err)
	}
	return t, nil
}

// WriteTrip marshals trip to YAML at path, for scaffolding trip files.
func WriteTrip(path string, t Trip) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal trip: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write trip file: %w", err)
	}
	return nil
}
