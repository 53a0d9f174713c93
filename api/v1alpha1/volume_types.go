package v1alpha1

// Volume is a persistent volume claim as Harvester serves it.
//
// Type is a Harvester API hint identifying the resource schema; it is part
// of the creation payload and reproduced verbatim.
type Volume struct {
	Type       string `json:"type,omitempty"`
	TypeMeta   `json:",inline"`
	ObjectMeta `json:"metadata,omitempty"`

	Spec VolumeSpec `json:"spec"`

	// Status is populated by the server and reported as-is.
	// +optional
	Status map[string]any `json:"status,omitempty"`

	// Clone marks the volume for cloning from the image referenced by the
	// AnnotationImageID annotation. It is a creation-time hint for the
	// client, not a wire field.
	Clone bool `json:"-"`
}

// VolumeType is the schema hint stamped on every volume creation payload.
const VolumeType = "persistentvolumeclaim"

// VolumeSpec defines the desired state of a volume.
type VolumeSpec struct {
	// AccessModes is an ordered set, e.g. ["ReadWriteOnce"].
	AccessModes []string `json:"accessModes"`

	// Resources carries the requested storage size.
	Resources VolumeResources `json:"resources"`

	// VolumeMode is "Filesystem" or "Block".
	VolumeMode string `json:"volumeMode"`

	// StorageClassName selects the storage class.
	// +optional
	StorageClassName string `json:"storageClassName,omitempty"`

	// VolumeName binds the claim to a pre-existing volume. Always serialized;
	// empty means no binding.
	VolumeName string `json:"volumeName"`
}

// VolumeResources carries storage resource requests.
type VolumeResources struct {
	Requests ResourceList `json:"requests"`
}
