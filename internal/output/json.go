package output

import (
	"encoding/json"
	"fmt"
)

// JSONFormatter formats records as JSON.
type JSONFormatter struct{}

// FormatRecord formats a single record as indented JSON.
func (f *JSONFormatter) FormatRecord(rec *Record) (string, error) {
	data, err := json.MarshalIndent(rec.payload(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	return string(data) + "\n", nil
}
