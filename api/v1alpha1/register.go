package v1alpha1

// API versions and kinds of the resources this tool manages. These are the
// upstream group/version strings of the Harvester control plane, reproduced
// verbatim for wire compatibility.
const (
	// VirtualMachineAPIVersion is the KubeVirt VM group/version.
	VirtualMachineAPIVersion = "kubevirt.io/v1"
	// VirtualMachineKind is the kind string for virtual machines.
	VirtualMachineKind = "VirtualMachine"
	// VirtualMachineInstanceKind is the kind string for running VM instances.
	VirtualMachineInstanceKind = "VirtualMachineInstance"

	// VolumeAPIVersion is the core group/version of persistent volume claims.
	VolumeAPIVersion = "v1"
	// VolumeKind is the kind string for persistent volume claims.
	VolumeKind = "PersistentVolumeClaim"

	// NetworkAPIVersion is the Multus CNI group/version.
	NetworkAPIVersion = "k8s.cni.cncf.io/v1"
	// NetworkKind is the kind string for network attachment definitions.
	NetworkKind = "NetworkAttachmentDefinition"

	// ImageAPIVersion is the Harvester group/version for VM images.
	ImageAPIVersion = "harvesterhci.io/v1beta1"
	// ImageKind is the kind string for VM images.
	ImageKind = "VirtualMachineImage"
)

// Annotations understood by the Harvester control plane.
const (
	// AnnotationImageID marks a volume as cloned from an image. The value has
	// the form "<namespace>/<image-name>".
	AnnotationImageID = "harvesterhci.io/imageId"

	// AnnotationSSHNames lists SSH keypair resources to inject into a VM.
	AnnotationSSHNames = "harvesterhci.io/sshNames"
)

// CloudInitDiskName is the fixed name of the synthetic cloud-init disk and
// its matching volume block.
const CloudInitDiskName = "cloudinitdisk"
