package manifest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"

	"github.com/hciops/harvesterctl/api/v1alpha1"
	"github.com/hciops/harvesterctl/internal/config"
)

// machineType is the virtual chipset every composed VM uses.
const machineType = "q35"

// defaultDiskBus is the bus assigned to disks that do not name one.
const defaultDiskBus = "virtio"

// BuildVirtualMachine expands a VM descriptor into a complete manifest.
//
// When the descriptor carries a raw spec override, it is used verbatim with
// only labels merged into metadata; no defaulting is applied. Otherwise the
// composable fields are expanded: the disk list defaults to a single virtio
// system disk, each disk naming a backing volume gets exactly one matching
// claim-backed volume block, and a cloud-init disk/volume pair is appended
// only when cloud-init data is actually present.
//
// log receives the synthesized manifest at debug level; nil disables
// diagnostics.
func BuildVirtualMachine(cfg *config.VMConfig, log *slog.Logger) (*v1alpha1.VirtualMachine, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	vm := &v1alpha1.VirtualMachine{
		TypeMeta: v1alpha1.TypeMeta{
			APIVersion: v1alpha1.VirtualMachineAPIVersion,
			Kind:       v1alpha1.VirtualMachineKind,
		},
		ObjectMeta: v1alpha1.ObjectMeta{
			Name:      cfg.Name,
			Namespace: cfg.Namespace,
		},
	}

	if cfg.Spec != nil {
		vm.Spec = v1alpha1.VirtualMachineSpec{Raw: cfg.Spec}
		if len(cfg.Labels) > 0 {
			vm.Labels = cfg.Labels
		}
		logManifest(log, vm)
		return vm, nil
	}

	if len(cfg.Networks) == 0 {
		return nil, config.NewValidationError("at least one network configuration must be provided in the 'networks' parameter")
	}

	disks := cfg.Disks
	if len(disks) == 0 {
		disks = []config.DiskConfig{{Name: "disk0", Bus: defaultDiskBus}}
	}

	devices, volumes := buildDiskDevices(disks)

	cloudInit, err := composeCloudInit(cfg.CloudInit)
	if err != nil {
		return nil, err
	}
	if cloudInit != nil {
		volumes = append(volumes, v1alpha1.VMVolume{
			Name:             v1alpha1.CloudInitDiskName,
			CloudInitNoCloud: cloudInit,
		})
		devices = append(devices, v1alpha1.VMDisk{
			Name: v1alpha1.CloudInitDiskName,
			Disk: v1alpha1.DiskTarget{Bus: defaultDiskBus},
		})
	}

	labels := cfg.Labels
	if labels == nil {
		labels = map[string]string{}
	}

	cpu := strconv.Itoa(cfg.CPUCores)
	resources := v1alpha1.ResourceList{"cpu": cpu, "memory": cfg.Memory}

	vm.Spec = v1alpha1.VirtualMachineSpec{
		Running: cfg.Running,
		Template: &v1alpha1.VirtualMachineTemplateSpec{
			Metadata: v1alpha1.TemplateMetadata{
				Annotations: map[string]string{
					v1alpha1.AnnotationSSHNames: "[]",
				},
				Labels: labels,
			},
			Spec: v1alpha1.TemplateSpec{
				Domain: v1alpha1.DomainSpec{
					CPU: v1alpha1.CPUSpec{
						Cores:                 cfg.CPUCores,
						DedicatedCPUPlacement: cfg.DedicatedCPUPlacement,
					},
					Memory:  v1alpha1.MemorySpec{Guest: cfg.Memory},
					Devices: v1alpha1.DevicesSpec{Disks: devices, Interfaces: toInterfaces(cfg.Interfaces)},
					Features: v1alpha1.FeaturesSpec{
						ACPI: v1alpha1.FeatureState{Enabled: true},
					},
					Machine: v1alpha1.MachineSpec{Type: machineType},
					Resources: v1alpha1.ResourcesSpec{
						Requests: resources,
						Limits:   resources,
					},
				},
				Networks: toNetworks(cfg.Networks),
				Volumes:  volumes,
			},
		},
	}
	if len(cfg.Labels) > 0 {
		vm.Labels = cfg.Labels
	}

	if len(cfg.Annotations) > 0 {
		if vm.Annotations == nil {
			vm.Annotations = map[string]string{}
		}
		for k, v := range cfg.Annotations {
			vm.Annotations[k] = v
		}
	}

	logManifest(log, vm)
	return vm, nil
}

// buildDiskDevices expands disk entries into two parallel lists kept in
// lock-step by disk name: one disk device per entry, plus one claim-backed
// volume block for every entry naming a backing volume.
func buildDiskDevices(disks []config.DiskConfig) ([]v1alpha1.VMDisk, []v1alpha1.VMVolume) {
	devices := make([]v1alpha1.VMDisk, 0, len(disks))
	volumes := make([]v1alpha1.VMVolume, 0, len(disks))

	for _, disk := range disks {
		bus := disk.Bus
		if bus == "" {
			bus = defaultDiskBus
		}
		devices = append(devices, v1alpha1.VMDisk{
			Name: disk.Name,
			Disk: v1alpha1.DiskTarget{Bus: bus},
		})
		if disk.VolumeName != "" {
			volumes = append(volumes, v1alpha1.VMVolume{
				Name: disk.Name,
				PersistentVolumeClaim: &v1alpha1.PVCVolumeSource{
					ClaimName: disk.VolumeName,
				},
			})
		}
	}

	return devices, volumes
}

func toInterfaces(in []map[string]any) []v1alpha1.VMInterface {
	out := make([]v1alpha1.VMInterface, len(in))
	for i, entry := range in {
		out[i] = v1alpha1.VMInterface(entry)
	}
	return out
}

func toNetworks(in []map[string]any) []v1alpha1.VMNetwork {
	out := make([]v1alpha1.VMNetwork, len(in))
	for i, entry := range in {
		out[i] = v1alpha1.VMNetwork(entry)
	}
	return out
}

// logManifest emits the synthesized manifest at debug level.
func logManifest(log *slog.Logger, vm *v1alpha1.VirtualMachine) {
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	data, err := json.Marshal(vm)
	if err != nil {
		return
	}
	log.Debug("synthesized virtual machine manifest",
		"name", vm.Name, "namespace", vm.Namespace, "manifest", string(data))
}
