package manifest

import (
	"github.com/hciops/harvesterctl/api/v1alpha1"
	"github.com/hciops/harvesterctl/internal/config"
)

// BuildImage expands an image descriptor into a VM image manifest. The URL
// is a creation-only requirement, enforced here for the same reason as the
// network config: existing images reconcile without it.
func BuildImage(cfg *config.ImageConfig) (*v1alpha1.Image, error) {
	if cfg.URL == "" {
		return nil, config.NewValidationError("'url' is required when creating a new image")
	}

	displayName := cfg.DisplayName
	if displayName == "" {
		displayName = cfg.Name
	}

	return &v1alpha1.Image{
		TypeMeta: v1alpha1.TypeMeta{
			APIVersion: v1alpha1.ImageAPIVersion,
			Kind:       v1alpha1.ImageKind,
		},
		ObjectMeta: v1alpha1.ObjectMeta{
			Name:      cfg.Name,
			Namespace: cfg.Namespace,
			Labels:    cfg.Labels,
		},
		Spec: v1alpha1.ImageSpec{
			DisplayName:      displayName,
			SourceType:       cfg.SourceType,
			URL:              cfg.URL,
			Description:      cfg.Description,
			StorageClassName: cfg.StorageClass,
		},
	}, nil
}
