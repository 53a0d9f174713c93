package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/hciops/harvesterctl/api/v1alpha1"
	"github.com/hciops/harvesterctl/internal/config"
)

// BuildNetwork expands a network descriptor into a network attachment
// definition manifest. A structured config document is serialized to its
// JSON string form; a ready-made string passes through untouched.
//
// The CNI config is a creation-only requirement: callers reconcile existing
// networks without it, so the missing-config failure is raised here rather
// than at descriptor validation.
func BuildNetwork(cfg *config.NetworkConfig) (*v1alpha1.Network, error) {
	var configStr string
	switch v := cfg.Config.(type) {
	case nil:
		return nil, config.NewValidationError("'config' is required when creating a new network")
	case string:
		if v == "" {
			return nil, config.NewValidationError("'config' is required when creating a new network")
		}
		configStr = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize network config: %w", err)
		}
		configStr = string(data)
	}

	return &v1alpha1.Network{
		TypeMeta: v1alpha1.TypeMeta{
			APIVersion: v1alpha1.NetworkAPIVersion,
			Kind:       v1alpha1.NetworkKind,
		},
		ObjectMeta: v1alpha1.ObjectMeta{
			Name:      cfg.Name,
			Namespace: cfg.Namespace,
			Labels:    cfg.Labels,
		},
		Spec: v1alpha1.NetworkSpec{Config: configStr},
	}, nil
}
