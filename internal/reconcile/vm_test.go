package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hciops/harvesterctl/api/v1alpha1"
	"github.com/hciops/harvesterctl/internal/harvester"
)

type fakeVMClient struct {
	fakeClient[v1alpha1.VirtualMachine]
	instance    *v1alpha1.VirtualMachineInstance
	instanceErr error
}

func (f *fakeVMClient) setPower(ctx context.Context, namespace, name string, running bool) (*v1alpha1.VirtualMachine, error) {
	vm, ok := f.objects[f.key(namespace, name)]
	if !ok {
		return nil, &harvester.NotFoundError{Kind: "VM", Namespace: namespace, Name: name}
	}
	vm.Spec.Running = &running
	return vm, nil
}

func (f *fakeVMClient) Start(ctx context.Context, namespace, name string) (*v1alpha1.VirtualMachine, error) {
	f.calls = append(f.calls, "start "+f.key(namespace, name))
	return f.setPower(ctx, namespace, name, true)
}

func (f *fakeVMClient) Stop(ctx context.Context, namespace, name string) (*v1alpha1.VirtualMachine, error) {
	f.calls = append(f.calls, "stop "+f.key(namespace, name))
	return f.setPower(ctx, namespace, name, false)
}

func (f *fakeVMClient) Restart(ctx context.Context, namespace, name string) (*v1alpha1.VirtualMachine, error) {
	f.calls = append(f.calls, "restart "+f.key(namespace, name))
	return f.setPower(ctx, namespace, name, true)
}

func (f *fakeVMClient) Instance(ctx context.Context, namespace, name string) (*v1alpha1.VirtualMachineInstance, error) {
	f.calls = append(f.calls, "instance "+f.key(namespace, name))
	if f.instanceErr != nil {
		return nil, f.instanceErr
	}
	return f.instance, nil
}

func newFakeVMClient() *fakeVMClient {
	return &fakeVMClient{
		fakeClient: fakeClient[v1alpha1.VirtualMachine]{objects: map[string]*v1alpha1.VirtualMachine{}},
	}
}

func testVM(name string, running bool) *v1alpha1.VirtualMachine {
	return &v1alpha1.VirtualMachine{
		ObjectMeta: v1alpha1.ObjectMeta{Name: name, Namespace: "default"},
		Spec:       v1alpha1.VirtualMachineSpec{Running: &running},
	}
}

func TestVMStart(t *testing.T) {
	client := newFakeVMClient()
	client.objects["default/web"] = testVM("web", false)
	r := NewVMReconciler(client, false, nil)

	res, err := r.Start(context.Background(), "default", "web")
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, "VM 'web' started", res.Message)
	assert.True(t, res.Resource.IsRunning())
}

func TestVMStartAlreadyRunning(t *testing.T) {
	client := newFakeVMClient()
	client.objects["default/web"] = testVM("web", true)
	r := NewVMReconciler(client, false, nil)

	res, err := r.Start(context.Background(), "default", "web")
	require.NoError(t, err)

	assert.False(t, res.Changed)
	assert.Equal(t, "VM 'web' is already running", res.Message)
	assert.Equal(t, []string{"get default/web"}, client.calls)
}

func TestVMStartAbsent(t *testing.T) {
	client := newFakeVMClient()
	r := NewVMReconciler(client, false, nil)

	_, err := r.Start(context.Background(), "default", "web")
	assert.True(t, harvester.IsNotFound(err))
}

func TestVMStop(t *testing.T) {
	client := newFakeVMClient()
	client.objects["default/web"] = testVM("web", true)
	r := NewVMReconciler(client, false, nil)

	res, err := r.Stop(context.Background(), "default", "web")
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, "VM 'web' stopped", res.Message)
	assert.False(t, res.Resource.IsRunning())
}

func TestVMStopAlreadyStopped(t *testing.T) {
	client := newFakeVMClient()
	client.objects["default/web"] = testVM("web", false)
	r := NewVMReconciler(client, false, nil)

	res, err := r.Stop(context.Background(), "default", "web")
	require.NoError(t, err)

	assert.False(t, res.Changed)
	assert.Equal(t, "VM 'web' is already stopped", res.Message)
}

func TestVMRestartAlwaysChanged(t *testing.T) {
	for _, running := range []bool{true, false} {
		client := newFakeVMClient()
		client.objects["default/web"] = testVM("web", running)
		r := NewVMReconciler(client, false, nil)

		res, err := r.Restart(context.Background(), "default", "web")
		require.NoError(t, err)

		assert.True(t, res.Changed)
		assert.Equal(t, "VM 'web' restarted", res.Message)
		assert.Contains(t, client.calls, "restart default/web")
	}
}

func TestVMPowerDryRun(t *testing.T) {
	client := newFakeVMClient()
	client.objects["default/web"] = testVM("web", false)
	r := NewVMReconciler(client, true, nil)

	res, err := r.Start(context.Background(), "default", "web")
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, []string{"get default/web"}, client.calls, "dry run must not send the verb")
	assert.False(t, client.objects["default/web"].IsRunning())
}

func TestVMInfo(t *testing.T) {
	client := newFakeVMClient()
	client.objects["default/web"] = testVM("web", true)
	client.instance = &v1alpha1.VirtualMachineInstance{
		ObjectMeta: v1alpha1.ObjectMeta{Name: "web", Namespace: "default"},
		Status:     map[string]any{"phase": "Running"},
	}
	r := NewVMReconciler(client, false, nil)

	info, err := r.Info(context.Background(), "default", "web", true)
	require.NoError(t, err)

	assert.True(t, info.Exists)
	assert.True(t, info.InstanceExists)
	assert.Equal(t, "Running", info.Instance.Status["phase"])
}

func TestVMInfoAbsent(t *testing.T) {
	client := newFakeVMClient()
	r := NewVMReconciler(client, false, nil)

	info, err := r.Info(context.Background(), "default", "web", true)
	require.NoError(t, err)

	assert.False(t, info.Exists)
	assert.Nil(t, info.VM)
	assert.NotContains(t, client.calls, "instance default/web")
}

func TestVMInfoInstanceErrorMeansAbsent(t *testing.T) {
	client := newFakeVMClient()
	client.objects["default/web"] = testVM("web", false)
	client.instanceErr = errors.New("connection reset")
	r := NewVMReconciler(client, false, nil)

	info, err := r.Info(context.Background(), "default", "web", true)
	require.NoError(t, err)

	assert.True(t, info.Exists)
	assert.False(t, info.InstanceExists)
	assert.Nil(t, info.Instance)
}

func TestVMInfoSkipInstance(t *testing.T) {
	client := newFakeVMClient()
	client.objects["default/web"] = testVM("web", true)
	r := NewVMReconciler(client, false, nil)

	info, err := r.Info(context.Background(), "default", "web", false)
	require.NoError(t, err)

	assert.True(t, info.Exists)
	assert.False(t, info.InstanceExists)
	assert.NotContains(t, client.calls, "instance default/web")
}
