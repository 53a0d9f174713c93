package manifest

import (
	"fmt"

	"github.com/hciops/harvesterctl/api/v1alpha1"
	"github.com/hciops/harvesterctl/internal/config"
)

// BuildVolume expands a volume descriptor into a persistent volume claim
// manifest. The descriptor is assumed normalized and validated, so every
// field the manifest needs is already populated.
//
// An image reference stamps the imageId annotation and sets the clone flag;
// a volume_name binds the claim directly. The two sourcing modes are not
// mutually exclusive: the clone flag is added whenever an image is present,
// independent of the binding.
func BuildVolume(cfg *config.VolumeConfig) *v1alpha1.Volume {
	vol := &v1alpha1.Volume{
		Type: v1alpha1.VolumeType,
		TypeMeta: v1alpha1.TypeMeta{
			APIVersion: v1alpha1.VolumeAPIVersion,
			Kind:       v1alpha1.VolumeKind,
		},
		ObjectMeta: v1alpha1.ObjectMeta{
			Name:      cfg.Name,
			Namespace: cfg.Namespace,
			Labels:    cfg.Labels,
		},
		Spec: v1alpha1.VolumeSpec{
			AccessModes: cfg.AccessModes,
			Resources: v1alpha1.VolumeResources{
				Requests: v1alpha1.ResourceList{"storage": cfg.Storage},
			},
			VolumeMode:       cfg.VolumeMode,
			StorageClassName: cfg.StorageClass,
			VolumeName:       cfg.VolumeName,
		},
	}

	if cfg.Image != "" {
		vol.Annotations = map[string]string{
			v1alpha1.AnnotationImageID: fmt.Sprintf("%s/%s", cfg.Namespace, cfg.Image),
		}
		vol.Clone = true
	}

	return vol
}
