package v1alpha1

// Network is a Multus network attachment definition as Harvester serves it.
type Network struct {
	TypeMeta   `json:",inline"`
	ObjectMeta `json:"metadata,omitempty"`

	Spec NetworkSpec `json:"spec"`
}

// NetworkSpec wraps the CNI configuration. Config is always the serialized
// JSON form; structured input is flattened before it lands here.
type NetworkSpec struct {
	Config string `json:"config"`
}
