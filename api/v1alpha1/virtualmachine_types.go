package v1alpha1

import "encoding/json"

// VirtualMachine is a KubeVirt virtual machine as Harvester serves it.
type VirtualMachine struct {
	TypeMeta   `json:",inline"`
	ObjectMeta `json:"metadata,omitempty"`

	// Spec defines the desired state of the virtual machine.
	Spec VirtualMachineSpec `json:"spec"`

	// Status is populated by the server and reported as-is.
	// +optional
	Status map[string]any `json:"status,omitempty"`
}

// VirtualMachineSpec defines the desired state of a VirtualMachine.
//
// Raw, when set, is an advanced escape hatch: it is serialized verbatim as
// the spec and none of the typed fields participate. This keeps caller-
// supplied specs byte-compatible instead of forcing them through our schema.
type VirtualMachineSpec struct {
	// Raw is a complete spec document used verbatim when non-nil.
	Raw map[string]any `json:"-"`

	// Running controls the desired power state.
	// +optional
	Running *bool `json:"running,omitempty"`

	// Template describes the VM instance to launch.
	// +optional
	Template *VirtualMachineTemplateSpec `json:"template,omitempty"`
}

// MarshalJSON serializes the raw override verbatim when present.
func (s VirtualMachineSpec) MarshalJSON() ([]byte, error) {
	if s.Raw != nil {
		return json.Marshal(s.Raw)
	}
	type plain VirtualMachineSpec
	return json.Marshal(plain(s))
}

// VirtualMachineTemplateSpec describes the instance template.
type VirtualMachineTemplateSpec struct {
	// Metadata is applied to instances created from this template. Both maps
	// are always serialized, matching the payload Harvester expects.
	Metadata TemplateMetadata `json:"metadata"`

	// Spec is the instance specification.
	Spec TemplateSpec `json:"spec"`
}

// TemplateMetadata carries annotations and labels for VM instances.
type TemplateMetadata struct {
	Annotations map[string]string `json:"annotations"`
	Labels      map[string]string `json:"labels"`
}

// TemplateSpec is the instance specification inside a VM template.
type TemplateSpec struct {
	Domain DomainSpec `json:"domain"`

	// Networks and Volumes are kept in lock-step with the interface and disk
	// devices in the domain: every disk naming a backing claim has exactly
	// one matching volume block here.
	Networks []VMNetwork `json:"networks"`
	Volumes  []VMVolume  `json:"volumes"`
}

// DomainSpec describes the virtualized hardware of an instance.
type DomainSpec struct {
	CPU       CPUSpec       `json:"cpu"`
	Memory    MemorySpec    `json:"memory"`
	Devices   DevicesSpec   `json:"devices"`
	Features  FeaturesSpec  `json:"features"`
	Machine   MachineSpec   `json:"machine"`
	Resources ResourcesSpec `json:"resources"`
}

// CPUSpec configures virtual CPUs.
type CPUSpec struct {
	Cores                 int  `json:"cores"`
	DedicatedCPUPlacement bool `json:"dedicatedCpuPlacement"`
}

// MemorySpec configures guest memory.
type MemorySpec struct {
	// Guest is a quantity string, e.g. "4Gi".
	Guest string `json:"guest"`
}

// DevicesSpec lists the disk and network interface devices of an instance.
type DevicesSpec struct {
	Disks      []VMDisk      `json:"disks"`
	Interfaces []VMInterface `json:"interfaces"`
}

// VMDisk is a disk device attached to an instance.
type VMDisk struct {
	Name string     `json:"name"`
	Disk DiskTarget `json:"disk"`
}

// DiskTarget selects the bus a disk is attached to.
type DiskTarget struct {
	Bus string `json:"bus"`
}

// VMInterface is a network interface device. Harvester accepts several
// mutually exclusive shapes (masquerade, bridge, sriov, ...), so entries are
// passed through from the descriptor untouched.
type VMInterface map[string]any

// VMNetwork is a network source entry (pod, multus, ...). Passed through
// from the descriptor untouched, like VMInterface.
type VMNetwork map[string]any

// FeaturesSpec enables hypervisor features. ACPI is always on so guests can
// be shut down gracefully.
type FeaturesSpec struct {
	ACPI FeatureState `json:"acpi"`
}

// FeatureState toggles a single hypervisor feature.
type FeatureState struct {
	Enabled bool `json:"enabled"`
}

// MachineSpec selects the virtual chipset.
type MachineSpec struct {
	Type string `json:"type"`
}

// ResourcesSpec carries compute resource requests and limits. The builder
// mirrors cpu and memory into both so they are always equal.
type ResourcesSpec struct {
	Requests ResourceList `json:"requests"`
	Limits   ResourceList `json:"limits"`
}

// ResourceList maps resource names to quantity strings.
type ResourceList map[string]string

// VMVolume is a volume block referenced by a disk device of the same name.
type VMVolume struct {
	Name                  string                  `json:"name"`
	PersistentVolumeClaim *PVCVolumeSource        `json:"persistentVolumeClaim,omitempty"`
	CloudInitNoCloud      *CloudInitNoCloudSource `json:"cloudInitNoCloud,omitempty"`
}

// PVCVolumeSource backs a volume with a persistent volume claim.
type PVCVolumeSource struct {
	ClaimName string `json:"claimName"`
}

// CloudInitNoCloudSource embeds cloud-init bootstrap documents directly in
// the manifest. At least one of the two fields is always populated; an empty
// source is never emitted.
type CloudInitNoCloudSource struct {
	UserData    string `json:"userData,omitempty"`
	NetworkData string `json:"networkData,omitempty"`
}

// IsRunning reports the desired power state recorded in the spec.
func (vm *VirtualMachine) IsRunning() bool {
	return vm.Spec.Running != nil && *vm.Spec.Running
}

// VirtualMachineInstance is the runtime counterpart of a VirtualMachine.
// It is read-only for this tool and reported as observed, so spec and status
// stay untyped.
type VirtualMachineInstance struct {
	TypeMeta   `json:",inline"`
	ObjectMeta `json:"metadata,omitempty"`

	Spec   map[string]any `json:"spec,omitempty"`
	Status map[string]any `json:"status,omitempty"`
}
