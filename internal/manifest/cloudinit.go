// Package manifest turns desired-state descriptors into complete,
// control-plane-shaped resource documents. Builders are pure: no I/O, same
// input always yields the same manifest.
package manifest

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hciops/harvesterctl/api/v1alpha1"
	"github.com/hciops/harvesterctl/internal/config"
)

// cloudConfigHeader is the marker cloud-init requires on user-data
// documents. It is applied to user-data only, never to network-data.
const cloudConfigHeader = "#cloud-config"

// composeCloudInit renders a cloud-init configuration into the inline
// NoCloud source embedded in a VM manifest.
//
// Raw user data takes precedence over the structured document. SSH keys are
// merged into the structured document before rendering. Returns nil when
// neither user-data nor network-data ends up populated, so no functionally
// useless boot disk is ever emitted.
func composeCloudInit(ci *config.CloudInitConfig) (*v1alpha1.CloudInitNoCloudSource, error) {
	if ci == nil {
		return nil, nil
	}

	src := &v1alpha1.CloudInitNoCloudSource{}

	switch {
	case ci.UserDataRaw != "":
		src.UserData = ensureCloudConfigHeader(ci.UserDataRaw)
	case len(ci.UserData) > 0 || len(ci.SSHAuthorizedKeys) > 0:
		doc := mergeSSHKeys(ci.UserData, ci.SSHAuthorizedKeys)
		rendered, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to render user-data: %w", err)
		}
		src.UserData = cloudConfigHeader + "\n" + string(rendered)
	}

	if len(ci.NetworkData) > 0 {
		rendered, err := yaml.Marshal(ci.NetworkData)
		if err != nil {
			return nil, fmt.Errorf("failed to render network-data: %w", err)
		}
		src.NetworkData = string(rendered)
	}

	if src.UserData == "" && src.NetworkData == "" {
		return nil, nil
	}
	return src, nil
}

// ensureCloudConfigHeader prepends the header marker unless already present.
func ensureCloudConfigHeader(userData string) string {
	if strings.HasPrefix(userData, cloudConfigHeader) {
		return userData
	}
	return cloudConfigHeader + "\n" + userData
}

// mergeSSHKeys folds authorized keys into the ssh_authorized_keys list of a
// user-data document without mutating the descriptor's copy.
func mergeSSHKeys(userData map[string]any, keys []string) map[string]any {
	if len(keys) == 0 {
		return userData
	}

	doc := make(map[string]any, len(userData)+1)
	for k, v := range userData {
		doc[k] = v
	}

	merged := make([]any, 0, len(keys))
	if existing, ok := doc["ssh_authorized_keys"].([]any); ok {
		merged = append(merged, existing...)
	}
	for _, key := range keys {
		merged = append(merged, key)
	}
	doc["ssh_authorized_keys"] = merged

	return doc
}
