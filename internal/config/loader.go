package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Descriptor is any desired-state descriptor with the standard
// Normalize -> Validate pipeline.
type Descriptor interface {
	Normalize()
	Validate() error
}

// LoadFromFile loads a descriptor from a YAML file into desc, which must be
// a pointer. Defaults are filled and the result is validated.
func LoadFromFile(path string, desc Descriptor) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read descriptor file: %w", err)
	}

	if err := yaml.Unmarshal(data, desc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	desc.Normalize()

	if err := desc.Validate(); err != nil {
		return fmt.Errorf("invalid descriptor %s: %w", path, err)
	}

	return nil
}
