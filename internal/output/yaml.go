package output

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// YAMLFormatter formats records as YAML.
type YAMLFormatter struct{}

// FormatRecord formats a single record as YAML. Marshalling goes through
// the JSON tags so the document matches the wire manifests field for field.
func (f *YAMLFormatter) FormatRecord(rec *Record) (string, error) {
	data, err := yaml.Marshal(rec.payload())
	if err != nil {
		return "", fmt.Errorf("failed to marshal result to YAML: %w", err)
	}
	return string(data), nil
}
