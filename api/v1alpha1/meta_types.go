// Package v1alpha1 contains the wire types harvesterctl exchanges with a
// Harvester cluster.
//
// The meta types are hand-rolled to match Kubernetes API conventions without
// requiring k8s.io/apimachinery dependencies. Field names and JSON tags match
// the upstream types exactly, so documents produced here are accepted by the
// Harvester API verbatim.
package v1alpha1

import (
	"encoding/json"
	"time"
)

// TypeMeta describes an individual object's type and API version.
// Matches k8s.io/apimachinery/pkg/apis/meta/v1.TypeMeta.
type TypeMeta struct {
	// Kind is a string value representing the REST resource this object represents.
	// +optional
	Kind string `json:"kind,omitempty"`

	// APIVersion defines the versioned schema of this representation of an object.
	// +optional
	APIVersion string `json:"apiVersion,omitempty"`
}

// ObjectMeta is metadata that all persisted resources must have.
// Simplified version matching core Kubernetes fields; the name+namespace pair
// is the sole identity key for every resource this tool manages.
type ObjectMeta struct {
	// Name must be unique within a namespace. Required when creating resources.
	// +optional
	Name string `json:"name,omitempty"`

	// Namespace scopes the resource. Defaults to "default".
	// +optional
	Namespace string `json:"namespace,omitempty"`

	// Labels are key/value pairs attached to objects.
	// +optional
	Labels map[string]string `json:"labels,omitempty"`

	// Annotations are unstructured key/value pairs that may be set by external tools.
	// +optional
	Annotations map[string]string `json:"annotations,omitempty"`

	// CreationTimestamp is set by the server. Read-only.
	// +optional
	CreationTimestamp Time `json:"creationTimestamp,omitempty"`

	// UID is the unique identifier for this object. Set by the server. Read-only.
	// +optional
	UID string `json:"uid,omitempty"`

	// ResourceVersion is an opaque value representing the internal version of
	// this object. Set by the server. Read-only.
	// +optional
	ResourceVersion string `json:"resourceVersion,omitempty"`

	// Generation is a sequence number representing a specific generation of
	// the desired state. Set by the server. Read-only.
	// +optional
	Generation int64 `json:"generation,omitempty"`
}

// Time is a wrapper around time.Time for RFC3339 JSON serialization.
// Matches k8s.io/apimachinery/pkg/apis/meta/v1.Time behavior.
type Time struct {
	time.Time `json:"-"`
}

// MarshalJSON implements the json.Marshaler interface.
// Returns RFC3339 formatted timestamp or null for zero values.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Parses RFC3339 formatted timestamp or null.
func (t *Time) UnmarshalJSON(b []byte) error {
	if string(b) == "null" || string(b) == `""` {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// DeepCopy creates a deep copy of TypeMeta.
func (in *TypeMeta) DeepCopy() *TypeMeta {
	if in == nil {
		return nil
	}
	out := new(TypeMeta)
	*out = *in
	return out
}

// DeepCopy creates a deep copy of ObjectMeta.
func (in *ObjectMeta) DeepCopy() *ObjectMeta {
	if in == nil {
		return nil
	}
	out := new(ObjectMeta)
	*out = *in

	if in.Labels != nil {
		out.Labels = make(map[string]string, len(in.Labels))
		for k, v := range in.Labels {
			out.Labels[k] = v
		}
	}
	if in.Annotations != nil {
		out.Annotations = make(map[string]string, len(in.Annotations))
		for k, v := range in.Annotations {
			out.Annotations[k] = v
		}
	}

	return out
}

// DeepCopy creates a deep copy of Time.
func (in *Time) DeepCopy() *Time {
	if in == nil {
		return nil
	}
	out := new(Time)
	*out = *in
	return out
}
