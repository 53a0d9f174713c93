// Package config defines the desired-state descriptors harvesterctl accepts,
// with the defaulting and validation rules applied before any manifest is
// built or any API call is made.
//
// Descriptors follow a Normalize -> Validate pipeline: Normalize fills
// defaults and sanitizes input, Validate reports the first violation with a
// specific message. Both are called automatically by LoadFromFile.
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// ValidationError reports a descriptor that is missing a required field or
// is self-contradictory. It is always raised locally, before any API call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// State is the desired lifecycle state of a resource.
type State string

// Desired states. Volume, Network and Image support present/absent; virtual
// machines additionally support the power transitions.
const (
	StatePresent   State = "present"
	StateAbsent    State = "absent"
	StateStarted   State = "started"
	StateStopped   State = "stopped"
	StateRestarted State = "restarted"
)

// DefaultNamespace is used when a descriptor does not name one.
const DefaultNamespace = "default"

// namePattern matches Kubernetes resource names (RFC 1123 labels).
var namePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// quantityPattern matches Kubernetes quantity strings such as "10Gi",
// "2048Mi" or "500M".
var quantityPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(Ki|Mi|Gi|Ti|Pi|Ei|m|k|M|G|T|P|E)?$`)

// ConnectionConfig describes how to reach the Harvester API.
// Exactly one credential mode is required: a bearer token, or a
// username+password pair (both fields together).
type ConnectionConfig struct {
	Host     string
	Token    string
	Username string
	Password string

	// VerifySSL toggles TLS certificate verification. Nil means true.
	VerifySSL *bool

	// Timeout bounds every request. Zero means 30 seconds.
	Timeout time.Duration
}

// Normalize fills connection defaults.
func (c *ConnectionConfig) Normalize() {
	c.Host = strings.TrimRight(strings.TrimSpace(c.Host), "/")
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}

// Validate checks the connection parameters.
func (c *ConnectionConfig) Validate() error {
	if c.Host == "" {
		return NewValidationError("host is required")
	}
	if !strings.HasPrefix(c.Host, "http://") && !strings.HasPrefix(c.Host, "https://") {
		return NewValidationError("host must be an http(s) URL, got %q", c.Host)
	}
	if c.Token == "" && c.Username == "" {
		return NewValidationError("either token or username must be provided")
	}
	if c.Token != "" && c.Username != "" {
		return NewValidationError("token and username are mutually exclusive")
	}
	if c.Username != "" && c.Password == "" {
		return NewValidationError("password is required when username is set")
	}
	return nil
}

// TLSVerify reports whether TLS certificates should be verified.
func (c *ConnectionConfig) TLSVerify() bool {
	return c.VerifySSL == nil || *c.VerifySSL
}

// validateIdentity checks the name/namespace pair shared by all descriptors.
func validateIdentity(name, namespace string) error {
	if name == "" {
		return NewValidationError("name is required")
	}
	if !namePattern.MatchString(name) {
		return NewValidationError("name must be a lowercase RFC 1123 label, got %q", name)
	}
	if !namePattern.MatchString(namespace) {
		return NewValidationError("namespace must be a lowercase RFC 1123 label, got %q", namespace)
	}
	return nil
}

// validateState checks the desired state against the allowed set.
func validateState(state State, allowed ...State) error {
	for _, a := range allowed {
		if state == a {
			return nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return NewValidationError("state must be one of %s, got %q", strings.Join(names, ", "), state)
}

// VolumeConfig describes a persistent volume claim.
type VolumeConfig struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace,omitempty"`
	State     State  `yaml:"state,omitempty"`

	// Storage is a quantity string, e.g. "10Gi".
	Storage      string   `yaml:"storage,omitempty"`
	AccessModes  []string `yaml:"access_modes,omitempty"`
	StorageClass string   `yaml:"storage_class,omitempty"`

	// VolumeMode is "Filesystem" or "Block".
	VolumeMode string `yaml:"volume_mode,omitempty"`

	// Image names a VM image to clone the volume from.
	Image string `yaml:"image,omitempty"`

	// VolumeName binds the claim to a pre-existing volume.
	VolumeName string `yaml:"volume_name,omitempty"`

	Labels map[string]string `yaml:"labels,omitempty"`
}

// Normalize fills volume defaults.
func (c *VolumeConfig) Normalize() {
	normalizeCommon(&c.Name, &c.Namespace, &c.State)
	if c.Storage == "" {
		c.Storage = "10Gi"
	}
	if len(c.AccessModes) == 0 {
		c.AccessModes = []string{"ReadWriteOnce"}
	}
	if c.VolumeMode == "" {
		c.VolumeMode = "Filesystem"
	}
}

// Validate checks the volume descriptor.
func (c *VolumeConfig) Validate() error {
	if err := validateIdentity(c.Name, c.Namespace); err != nil {
		return err
	}
	if err := validateState(c.State, StatePresent, StateAbsent); err != nil {
		return err
	}
	if !quantityPattern.MatchString(c.Storage) {
		return NewValidationError("storage must be a quantity string like '10Gi', got %q", c.Storage)
	}
	if c.VolumeMode != "Filesystem" && c.VolumeMode != "Block" {
		return NewValidationError("volume_mode must be 'Filesystem' or 'Block', got %q", c.VolumeMode)
	}
	return nil
}

// NetworkConfig describes a network attachment definition.
type NetworkConfig struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace,omitempty"`
	State     State  `yaml:"state,omitempty"`

	// Config is the CNI configuration, either a structured document or a
	// ready-made JSON string. Required when creating the network.
	Config any `yaml:"config,omitempty"`

	Labels map[string]string `yaml:"labels,omitempty"`
}

// Normalize fills network defaults.
func (c *NetworkConfig) Normalize() {
	normalizeCommon(&c.Name, &c.Namespace, &c.State)
}

// Validate checks the network descriptor.
func (c *NetworkConfig) Validate() error {
	if err := validateIdentity(c.Name, c.Namespace); err != nil {
		return err
	}
	if err := validateState(c.State, StatePresent, StateAbsent); err != nil {
		return err
	}
	switch c.Config.(type) {
	case nil, string, map[string]any:
		return nil
	default:
		return NewValidationError("config must be a document or a JSON string, got %T", c.Config)
	}
}

// ImageConfig describes a virtual machine image.
type ImageConfig struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace,omitempty"`
	State     State  `yaml:"state,omitempty"`

	// URL is the image source. Required when creating a download image.
	URL string `yaml:"url,omitempty"`

	DisplayName string `yaml:"display_name,omitempty"`
	Description string `yaml:"description,omitempty"`

	// SourceType is "download" or "upload".
	SourceType string `yaml:"source_type,omitempty"`

	StorageClass string            `yaml:"storage_class,omitempty"`
	Labels       map[string]string `yaml:"labels,omitempty"`
}

// Normalize fills image defaults.
func (c *ImageConfig) Normalize() {
	normalizeCommon(&c.Name, &c.Namespace, &c.State)
	if c.SourceType == "" {
		c.SourceType = "download"
	}
}

// Validate checks the image descriptor.
func (c *ImageConfig) Validate() error {
	if err := validateIdentity(c.Name, c.Namespace); err != nil {
		return err
	}
	if err := validateState(c.State, StatePresent, StateAbsent); err != nil {
		return err
	}
	if c.SourceType != "download" && c.SourceType != "upload" {
		return NewValidationError("source_type must be 'download' or 'upload', got %q", c.SourceType)
	}
	return nil
}

// DiskConfig is one VM disk entry. A disk naming a backing volume produces
// exactly one matching claim-backed volume block in the manifest.
type DiskConfig struct {
	Name       string `yaml:"name"`
	VolumeName string `yaml:"volume_name,omitempty"`
	Bus        string `yaml:"bus,omitempty"`
}

// CloudInitConfig is the first-boot guest configuration. Raw user data takes
// precedence over the structured document.
type CloudInitConfig struct {
	// UserDataRaw is a complete user-data string used as-is (modulo the
	// "#cloud-config" header, which is prepended when missing).
	UserDataRaw string `yaml:"user_data_raw,omitempty"`

	// UserData is a structured cloud-config document rendered to YAML.
	UserData map[string]any `yaml:"user_data,omitempty"`

	// NetworkData is a structured network configuration rendered to YAML.
	// It never receives the "#cloud-config" header.
	NetworkData map[string]any `yaml:"network_data,omitempty"`

	// SSHAuthorizedKeys are merged into the structured user-data document.
	// Cannot be combined with UserDataRaw.
	SSHAuthorizedKeys []string `yaml:"ssh_authorized_keys,omitempty"`
}

// Validate checks the cloud-init configuration.
func (c *CloudInitConfig) Validate() error {
	if len(c.SSHAuthorizedKeys) > 0 && c.UserDataRaw != "" {
		return NewValidationError("ssh_authorized_keys cannot be combined with user_data_raw")
	}
	for i, key := range c.SSHAuthorizedKeys {
		if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(key)); err != nil {
			return NewValidationError("ssh_authorized_keys[%d] is not a valid SSH public key: %v", i, err)
		}
	}
	return nil
}

// Empty reports whether no cloud-init data of any kind is configured.
func (c *CloudInitConfig) Empty() bool {
	return c.UserDataRaw == "" && len(c.UserData) == 0 &&
		len(c.NetworkData) == 0 && len(c.SSHAuthorizedKeys) == 0
}

// VMConfig describes a virtual machine. Either Spec carries a complete
// spec override used verbatim, or the composable fields below are expanded
// into a full manifest with defaults applied.
type VMConfig struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace,omitempty"`
	State     State  `yaml:"state,omitempty"`

	// Running is the desired power state after creation. Nil means true.
	Running *bool `yaml:"running,omitempty"`

	CPUCores              int    `yaml:"cpu_cores,omitempty"`
	DedicatedCPUPlacement bool   `yaml:"dedicated_cpu_placement,omitempty"`
	Memory                string `yaml:"memory,omitempty"`

	Disks []DiskConfig `yaml:"disks,omitempty"`

	// Networks are the template network sources (pod, multus, ...). Required
	// non-empty when Spec is not set.
	Networks []map[string]any `yaml:"networks,omitempty"`

	// Interfaces are the domain network interface devices.
	Interfaces []map[string]any `yaml:"interfaces,omitempty"`

	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`

	CloudInit *CloudInitConfig `yaml:"cloud_init,omitempty"`

	// Spec is the advanced escape hatch: a complete VM spec used verbatim,
	// bypassing all defaulting. Only labels are merged into metadata.
	Spec map[string]any `yaml:"spec,omitempty"`
}

// Normalize fills VM defaults.
func (c *VMConfig) Normalize() {
	normalizeCommon(&c.Name, &c.Namespace, &c.State)
	if c.Running == nil {
		running := true
		c.Running = &running
	}
	if c.CPUCores == 0 {
		c.CPUCores = 2
	}
	if c.Memory == "" {
		c.Memory = "4Gi"
	}
}

// Validate checks the VM descriptor. The non-empty-networks rule is enforced
// by the manifest builder, not here: it only applies on the create path, and
// an existing VM must remain addressable without it.
func (c *VMConfig) Validate() error {
	if err := validateIdentity(c.Name, c.Namespace); err != nil {
		return err
	}
	if err := validateState(c.State, StatePresent, StateAbsent, StateStarted, StateStopped, StateRestarted); err != nil {
		return err
	}
	if c.CPUCores <= 0 {
		return NewValidationError("cpu_cores must be > 0, got %d", c.CPUCores)
	}
	if !quantityPattern.MatchString(c.Memory) {
		return NewValidationError("memory must be a quantity string like '4Gi', got %q", c.Memory)
	}
	seen := make(map[string]bool)
	for i, disk := range c.Disks {
		if disk.Name == "" {
			return NewValidationError("disks[%d]: name is required", i)
		}
		if seen[disk.Name] {
			return NewValidationError("disks[%d]: duplicate disk name %q", i, disk.Name)
		}
		seen[disk.Name] = true
	}
	if c.CloudInit != nil {
		if err := c.CloudInit.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// normalizeCommon applies the defaults shared by every descriptor.
func normalizeCommon(name *string, namespace *string, state *State) {
	*name = strings.ToLower(strings.TrimSpace(*name))
	*namespace = strings.ToLower(strings.TrimSpace(*namespace))
	if *namespace == "" {
		*namespace = DefaultNamespace
	}
	if *state == "" {
		*state = StatePresent
	}
}
