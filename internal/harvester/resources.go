package harvester

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hciops/harvesterctl/api/v1alpha1"
)

// Collection paths of the Kubernetes-style API the Harvester endpoint
// proxies. %s is the namespace.
const (
	vmCollection      = "/apis/kubevirt.io/v1/namespaces/%s/virtualmachines"
	vmiCollection     = "/apis/kubevirt.io/v1/namespaces/%s/virtualmachineinstances"
	vmSubresource     = "/apis/subresources.kubevirt.io/v1/namespaces/%s/virtualmachines/%s/%s"
	volumeCollection  = "/api/v1/namespaces/%s/persistentvolumeclaims"
	networkCollection = "/apis/k8s.cni.cncf.io/v1/namespaces/%s/network-attachment-definitions"
	imageCollection   = "/apis/harvesterhci.io/v1beta1/namespaces/%s/virtualmachineimages"
)

// resourceClient provides get/create/delete for one resource kind. kind is
// the human label used in not-found errors and matches the reconciler's
// message vocabulary.
type resourceClient[T any] struct {
	c          *Client
	kind       string
	collection string
}

func (r *resourceClient[T]) path(namespace string, name ...string) string {
	p := fmt.Sprintf(r.collection, url.PathEscape(namespace))
	if len(name) > 0 {
		p += "/" + url.PathEscape(name[0])
	}
	return p
}

// Get fetches a resource by name. A 404 becomes a NotFoundError naming the
// resource; other failures propagate unchanged.
func (r *resourceClient[T]) Get(ctx context.Context, namespace, name string) (*T, error) {
	out := new(T)
	if err := r.c.do(ctx, http.MethodGet, r.path(namespace, name), nil, out); err != nil {
		return nil, r.mapNotFound(err, namespace, name)
	}
	return out, nil
}

// Create posts a manifest to the collection and returns the server's copy.
func (r *resourceClient[T]) Create(ctx context.Context, namespace string, obj *T) (*T, error) {
	out := new(T)
	if err := r.c.do(ctx, http.MethodPost, r.path(namespace), obj, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a resource by name.
func (r *resourceClient[T]) Delete(ctx context.Context, namespace, name string) error {
	if err := r.c.do(ctx, http.MethodDelete, r.path(namespace, name), nil, nil); err != nil {
		return r.mapNotFound(err, namespace, name)
	}
	return nil
}

func (r *resourceClient[T]) mapNotFound(err error, namespace, name string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return &NotFoundError{Kind: r.kind, Namespace: namespace, Name: name}
	}
	return err
}

// VirtualMachineClient manages virtual machines, including the KubeVirt
// subresource power verbs.
type VirtualMachineClient struct {
	resourceClient[v1alpha1.VirtualMachine]
	instances resourceClient[v1alpha1.VirtualMachineInstance]
}

// VirtualMachines returns the VM client.
func (c *Client) VirtualMachines() *VirtualMachineClient {
	return &VirtualMachineClient{
		resourceClient: resourceClient[v1alpha1.VirtualMachine]{c: c, kind: "VM", collection: vmCollection},
		instances:      resourceClient[v1alpha1.VirtualMachineInstance]{c: c, kind: "VM instance", collection: vmiCollection},
	}
}

// Start requests a power-on and returns the manifest as it stands after the
// verb was accepted.
func (v *VirtualMachineClient) Start(ctx context.Context, namespace, name string) (*v1alpha1.VirtualMachine, error) {
	return v.power(ctx, namespace, name, "start")
}

// Stop requests a power-off.
func (v *VirtualMachineClient) Stop(ctx context.Context, namespace, name string) (*v1alpha1.VirtualMachine, error) {
	return v.power(ctx, namespace, name, "stop")
}

// Restart requests a reboot.
func (v *VirtualMachineClient) Restart(ctx context.Context, namespace, name string) (*v1alpha1.VirtualMachine, error) {
	return v.power(ctx, namespace, name, "restart")
}

func (v *VirtualMachineClient) power(ctx context.Context, namespace, name, verb string) (*v1alpha1.VirtualMachine, error) {
	path := fmt.Sprintf(vmSubresource, url.PathEscape(namespace), url.PathEscape(name), verb)
	if err := v.c.do(ctx, http.MethodPut, path, nil, nil); err != nil {
		return nil, v.mapNotFound(err, namespace, name)
	}
	return v.Get(ctx, namespace, name)
}

// Instance fetches the running instance backing a VM.
func (v *VirtualMachineClient) Instance(ctx context.Context, namespace, name string) (*v1alpha1.VirtualMachineInstance, error) {
	return v.instances.Get(ctx, namespace, name)
}

// VolumeClient manages persistent volume claims.
type VolumeClient struct {
	resourceClient[v1alpha1.Volume]
}

// Volumes returns the volume client.
func (c *Client) Volumes() *VolumeClient {
	return &VolumeClient{resourceClient[v1alpha1.Volume]{c: c, kind: "Volume", collection: volumeCollection}}
}

// NetworkClient manages network attachment definitions.
type NetworkClient struct {
	resourceClient[v1alpha1.Network]
}

// Networks returns the network client.
func (c *Client) Networks() *NetworkClient {
	return &NetworkClient{resourceClient[v1alpha1.Network]{c: c, kind: "Network", collection: networkCollection}}
}

// ImageClient manages virtual machine images.
type ImageClient struct {
	resourceClient[v1alpha1.Image]
}

// Images returns the image client.
func (c *Client) Images() *ImageClient {
	return &ImageClient{resourceClient[v1alpha1.Image]{c: c, kind: "Image", collection: imageCollection}}
}
