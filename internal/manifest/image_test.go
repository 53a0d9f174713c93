package manifest

import (
	"errors"
	"testing"

	"github.com/hciops/harvesterctl/internal/config"
)

func TestBuildImage(t *testing.T) {
	cfg := &config.ImageConfig{
		Name:        "ubuntu-2204",
		URL:         "https://cloud-images.ubuntu.com/jammy/jammy.img",
		Description: "Ubuntu 22.04 LTS",
	}
	cfg.Normalize()

	img, err := BuildImage(cfg)
	if err != nil {
		t.Fatalf("BuildImage failed: %v", err)
	}

	if img.APIVersion != "harvesterhci.io/v1beta1" || img.Kind != "VirtualMachineImage" {
		t.Errorf("Unexpected type meta: %s/%s", img.APIVersion, img.Kind)
	}
	// displayName falls back to the resource name.
	if img.Spec.DisplayName != "ubuntu-2204" {
		t.Errorf("Expected displayName fallback, got %q", img.Spec.DisplayName)
	}
	if img.Spec.SourceType != "download" {
		t.Errorf("Expected default source type, got %q", img.Spec.SourceType)
	}
	if img.Spec.Description != "Ubuntu 22.04 LTS" {
		t.Errorf("Expected description, got %q", img.Spec.Description)
	}
}

func TestBuildImageDisplayName(t *testing.T) {
	cfg := &config.ImageConfig{
		Name:        "ubuntu-2204",
		DisplayName: "Ubuntu 22.04 LTS",
		URL:         "https://cloud-images.ubuntu.com/jammy/jammy.img",
	}
	cfg.Normalize()

	img, err := BuildImage(cfg)
	if err != nil {
		t.Fatalf("BuildImage failed: %v", err)
	}
	if img.Spec.DisplayName != "Ubuntu 22.04 LTS" {
		t.Errorf("Expected explicit displayName, got %q", img.Spec.DisplayName)
	}
}

func TestBuildImageMissingURL(t *testing.T) {
	cfg := &config.ImageConfig{Name: "ubuntu-2204"}
	cfg.Normalize()

	_, err := BuildImage(cfg)
	if err == nil {
		t.Fatal("Expected error for missing url")
	}
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Expected ValidationError, got %T", err)
	}
}
