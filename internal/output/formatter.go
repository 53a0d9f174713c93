// Package output provides formatters for displaying reconciliation results
// in various formats (table, YAML, JSON).
package output

import "fmt"

// Format represents an output format type.
type Format string

const (
	// FormatTable is a human-readable table format.
	FormatTable Format = "table"
	// FormatYAML is a YAML format for declarative configs.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON format for machine consumption.
	FormatJSON Format = "json"
)

// Record is one reconciliation outcome prepared for display.
type Record struct {
	// Changed reports whether remote state was modified.
	Changed bool
	// Message is the human-readable summary.
	Message string
	// Kind is the payload key the resource is reported under ("vm",
	// "volume", "network", "image").
	Kind string
	// Resource is the manifest after reconciliation. May be nil.
	Resource any
	// Extra holds additional payload entries, such as instance details on
	// an info query.
	Extra map[string]any
}

// payload flattens the record into the serialized document shape.
func (r *Record) payload() map[string]any {
	doc := map[string]any{
		"changed": r.Changed,
	}
	if r.Message != "" {
		doc["message"] = r.Message
	}
	if r.Kind != "" {
		doc[r.Kind] = r.Resource
	}
	for k, v := range r.Extra {
		doc[k] = v
	}
	return doc
}

// Formatter renders reconciliation records for output.
type Formatter interface {
	// FormatRecord formats a single reconciliation record.
	FormatRecord(rec *Record) (string, error)
}

// NewFormatter creates a new Formatter based on the specified format.
func NewFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatTable:
		return &TableFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, yaml, json)", format)
	}
}

// ValidateFormat checks if a format string is valid.
func ValidateFormat(format string) error {
	switch Format(format) {
	case FormatTable, FormatYAML, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid formats: table, yaml, json)", format)
	}
}
