package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSSHKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIIbJKZscbOLzBsgY5y2QupKW4A2kSDjMBQGPb1dChr+S test@example.com"

func TestConnectionConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       ConnectionConfig
		expectErr bool
	}{
		{
			name:      "missing host",
			cfg:       ConnectionConfig{Token: "abc"},
			expectErr: true,
		},
		{
			name:      "host without scheme",
			cfg:       ConnectionConfig{Host: "harvester.example.com", Token: "abc"},
			expectErr: true,
		},
		{
			name: "token mode",
			cfg:  ConnectionConfig{Host: "https://harvester.example.com", Token: "abc"},
		},
		{
			name: "basic auth mode",
			cfg:  ConnectionConfig{Host: "https://harvester.example.com", Username: "admin", Password: "secret"},
		},
		{
			name:      "no credentials",
			cfg:       ConnectionConfig{Host: "https://harvester.example.com"},
			expectErr: true,
		},
		{
			name:      "both credential modes",
			cfg:       ConnectionConfig{Host: "https://harvester.example.com", Token: "abc", Username: "admin", Password: "x"},
			expectErr: true,
		},
		{
			name:      "username without password",
			cfg:       ConnectionConfig{Host: "https://harvester.example.com", Username: "admin"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Normalize()
			err := tt.cfg.Validate()
			if tt.expectErr && err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.expectErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("Expected ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestConnectionConfigNormalize(t *testing.T) {
	cfg := ConnectionConfig{Host: "https://harvester.example.com/ ", Token: "abc"}
	cfg.Normalize()

	if cfg.Host != "https://harvester.example.com" {
		t.Errorf("Expected trailing slash trimmed, got %q", cfg.Host)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", cfg.Timeout)
	}
	if !cfg.TLSVerify() {
		t.Error("Expected TLS verification on by default")
	}
}

func TestVolumeConfigDefaults(t *testing.T) {
	cfg := VolumeConfig{Name: "My-Volume"}
	cfg.Normalize()

	if cfg.Name != "my-volume" {
		t.Errorf("Expected lowercased name, got %q", cfg.Name)
	}
	if cfg.Namespace != "default" {
		t.Errorf("Expected default namespace, got %q", cfg.Namespace)
	}
	if cfg.State != StatePresent {
		t.Errorf("Expected default state present, got %q", cfg.State)
	}
	if cfg.Storage != "10Gi" {
		t.Errorf("Expected default storage 10Gi, got %q", cfg.Storage)
	}
	if len(cfg.AccessModes) != 1 || cfg.AccessModes[0] != "ReadWriteOnce" {
		t.Errorf("Expected default access modes [ReadWriteOnce], got %v", cfg.AccessModes)
	}
	if cfg.VolumeMode != "Filesystem" {
		t.Errorf("Expected default volume mode Filesystem, got %q", cfg.VolumeMode)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestVolumeConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*VolumeConfig)
	}{
		{"missing name", func(c *VolumeConfig) { c.Name = "" }},
		{"bad name", func(c *VolumeConfig) { c.Name = "My_Volume" }},
		{"bad state", func(c *VolumeConfig) { c.State = StateStarted }},
		{"bad storage", func(c *VolumeConfig) { c.Storage = "ten gigs" }},
		{"bad volume mode", func(c *VolumeConfig) { c.VolumeMode = "Sparse" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := VolumeConfig{Name: "vol1"}
			cfg.Normalize()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Expected error, got nil")
			}
		})
	}
}

func TestNetworkConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    any
		expectErr bool
	}{
		{name: "nil config is allowed at descriptor level", config: nil},
		{name: "string config", config: `{"cniVersion":"0.3.1"}`},
		{name: "document config", config: map[string]any{"cniVersion": "0.3.1"}},
		{name: "bogus config type", config: 42, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NetworkConfig{Name: "net1", Config: tt.config}
			cfg.Normalize()
			err := cfg.Validate()
			if tt.expectErr && err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
		})
	}
}

func TestImageConfigDefaults(t *testing.T) {
	cfg := ImageConfig{Name: "ubuntu"}
	cfg.Normalize()

	if cfg.SourceType != "download" {
		t.Errorf("Expected default source type download, got %q", cfg.SourceType)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cfg.SourceType = "sideload"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected error for invalid source type")
	}
}

func TestVMConfigDefaults(t *testing.T) {
	cfg := VMConfig{Name: "my-vm"}
	cfg.Normalize()

	if cfg.CPUCores != 2 {
		t.Errorf("Expected default cpu_cores 2, got %d", cfg.CPUCores)
	}
	if cfg.Memory != "4Gi" {
		t.Errorf("Expected default memory 4Gi, got %q", cfg.Memory)
	}
	if cfg.Running == nil || !*cfg.Running {
		t.Error("Expected running to default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestVMConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*VMConfig)
	}{
		{"bad state", func(c *VMConfig) { c.State = "paused" }},
		{"negative cpu", func(c *VMConfig) { c.CPUCores = -1 }},
		{"bad memory", func(c *VMConfig) { c.Memory = "lots" }},
		{"unnamed disk", func(c *VMConfig) { c.Disks = []DiskConfig{{Bus: "virtio"}} }},
		{"duplicate disk", func(c *VMConfig) {
			c.Disks = []DiskConfig{{Name: "disk0"}, {Name: "disk0"}}
		}},
		{"bad ssh key", func(c *VMConfig) {
			c.CloudInit = &CloudInitConfig{SSHAuthorizedKeys: []string{"not a key"}}
		}},
		{"raw user data with ssh keys", func(c *VMConfig) {
			c.CloudInit = &CloudInitConfig{
				UserDataRaw:       "hostname: x",
				SSHAuthorizedKeys: []string{testSSHKey},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := VMConfig{Name: "my-vm"}
			cfg.Normalize()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Expected ValidationError, got %T", err)
			}
		})
	}
}

func TestCloudInitConfigEmpty(t *testing.T) {
	if !(&CloudInitConfig{}).Empty() {
		t.Error("Expected empty cloud-init config to report Empty()")
	}
	if (&CloudInitConfig{UserDataRaw: "hostname: x"}).Empty() {
		t.Error("Expected raw user data to count as non-empty")
	}
	if (&CloudInitConfig{SSHAuthorizedKeys: []string{testSSHKey}}).Empty() {
		t.Error("Expected ssh keys to count as non-empty")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vm.yaml")
	doc := `
name: Web01
state: present
cpu_cores: 4
memory: 8Gi
disks:
  - name: disk0
    volume_name: web01-root
    bus: virtio
networks:
  - name: default
    multus:
      networkName: default/br-clients
interfaces:
  - name: default
    bridge: {}
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	var cfg VMConfig
	if err := LoadFromFile(path, &cfg); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Name != "web01" {
		t.Errorf("Expected normalized name 'web01', got %q", cfg.Name)
	}
	if cfg.CPUCores != 4 || cfg.Memory != "8Gi" {
		t.Errorf("Expected cpu/memory from file, got %d/%s", cfg.CPUCores, cfg.Memory)
	}
	if len(cfg.Networks) != 1 || len(cfg.Interfaces) != 1 {
		t.Errorf("Expected one network and one interface, got %d/%d", len(cfg.Networks), len(cfg.Interfaces))
	}
	if cfg.Disks[0].VolumeName != "web01-root" {
		t.Errorf("Expected disk volume name from file, got %q", cfg.Disks[0].VolumeName)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vm.yaml")
	if err := os.WriteFile(path, []byte("name: ''\n"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	var cfg VMConfig
	err := LoadFromFile(path, &cfg)
	if err == nil {
		t.Fatal("Expected error for invalid descriptor")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Expected ValidationError, got %T", err)
	}
}
