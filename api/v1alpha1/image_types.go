package v1alpha1

// Image is a Harvester virtual machine image.
type Image struct {
	TypeMeta   `json:",inline"`
	ObjectMeta `json:"metadata,omitempty"`

	Spec ImageSpec `json:"spec"`

	// Status is populated by the server and reported as-is.
	// +optional
	Status map[string]any `json:"status,omitempty"`
}

// ImageSpec defines the desired state of an image.
type ImageSpec struct {
	// DisplayName is the human-facing name shown in the Harvester UI.
	DisplayName string `json:"displayName"`

	// SourceType is "download" or "upload".
	SourceType string `json:"sourceType"`

	// URL is the source location. Required for download images at creation.
	// +optional
	URL string `json:"url,omitempty"`

	// +optional
	Description string `json:"description,omitempty"`

	// +optional
	StorageClassName string `json:"storageClassName,omitempty"`
}

// Image source types.
const (
	ImageSourceDownload = "download"
	ImageSourceUpload   = "upload"
)
