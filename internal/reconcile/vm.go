package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hciops/harvesterctl/api/v1alpha1"
	"github.com/hciops/harvesterctl/internal/harvester"
)

// VMClient extends the generic client with KubeVirt power verbs and the
// instance lookup.
type VMClient interface {
	Client[v1alpha1.VirtualMachine]
	Start(ctx context.Context, namespace, name string) (*v1alpha1.VirtualMachine, error)
	Stop(ctx context.Context, namespace, name string) (*v1alpha1.VirtualMachine, error)
	Restart(ctx context.Context, namespace, name string) (*v1alpha1.VirtualMachine, error)
	Instance(ctx context.Context, namespace, name string) (*v1alpha1.VirtualMachineInstance, error)
}

// VMReconciler adds power-state management on top of existence
// reconciliation.
type VMReconciler struct {
	Reconciler[v1alpha1.VirtualMachine]
	vms VMClient
}

// NewVMReconciler builds a VM reconciler.
func NewVMReconciler(client VMClient, dryRun bool, log *slog.Logger) *VMReconciler {
	return &VMReconciler{
		Reconciler: *NewReconciler[v1alpha1.VirtualMachine]("VM", client, dryRun, log),
		vms:        client,
	}
}

// VMResult is the outcome of a power-state operation.
type VMResult = Result[v1alpha1.VirtualMachine]

// Start powers the VM on. Already-running VMs are left alone.
func (r *VMReconciler) Start(ctx context.Context, namespace, name string) (*VMResult, error) {
	vm, err := r.getExisting(ctx, namespace, name)
	if err != nil {
		return nil, err
	}

	if vm.IsRunning() {
		return &VMResult{
			Resource: vm,
			Message:  fmt.Sprintf("VM '%s' is already running", name),
		}, nil
	}

	if !r.DryRun {
		if vm, err = r.vms.Start(ctx, namespace, name); err != nil {
			return nil, err
		}
	}
	return &VMResult{
		Changed:  true,
		Resource: vm,
		Message:  fmt.Sprintf("VM '%s' started", name),
	}, nil
}

// Stop powers the VM off. Already-stopped VMs are left alone.
func (r *VMReconciler) Stop(ctx context.Context, namespace, name string) (*VMResult, error) {
	vm, err := r.getExisting(ctx, namespace, name)
	if err != nil {
		return nil, err
	}

	if !vm.IsRunning() {
		return &VMResult{
			Resource: vm,
			Message:  fmt.Sprintf("VM '%s' is already stopped", name),
		}, nil
	}

	if !r.DryRun {
		if vm, err = r.vms.Stop(ctx, namespace, name); err != nil {
			return nil, err
		}
	}
	return &VMResult{
		Changed:  true,
		Resource: vm,
		Message:  fmt.Sprintf("VM '%s' stopped", name),
	}, nil
}

// Restart reboots the VM. A restart always counts as a change.
func (r *VMReconciler) Restart(ctx context.Context, namespace, name string) (*VMResult, error) {
	vm, err := r.getExisting(ctx, namespace, name)
	if err != nil {
		return nil, err
	}

	if !r.DryRun {
		if vm, err = r.vms.Restart(ctx, namespace, name); err != nil {
			return nil, err
		}
	}
	return &VMResult{
		Changed:  true,
		Resource: vm,
		Message:  fmt.Sprintf("VM '%s' restarted", name),
	}, nil
}

// getExisting fetches the VM, propagating not-found so power verbs fail on
// absent VMs instead of silently succeeding.
func (r *VMReconciler) getExisting(ctx context.Context, namespace, name string) (*v1alpha1.VirtualMachine, error) {
	return r.vms.Get(ctx, namespace, name)
}

// InfoResult is a read-only snapshot of a VM and its runtime instance.
type InfoResult struct {
	Exists         bool
	VM             *v1alpha1.VirtualMachine
	InstanceExists bool
	Instance       *v1alpha1.VirtualMachineInstance
}

// Info gathers the VM manifest and, when gatherInstance is set, the runtime
// instance. The instance lookup treats any failure as absence: a stopped VM
// has no instance, and the endpoint reports that inconsistently across
// versions.
func (r *VMReconciler) Info(ctx context.Context, namespace, name string, gatherInstance bool) (*InfoResult, error) {
	vm, err := r.vms.Get(ctx, namespace, name)
	if err != nil {
		if harvester.IsNotFound(err) {
			return &InfoResult{}, nil
		}
		return nil, err
	}

	info := &InfoResult{Exists: true, VM: vm}
	if gatherInstance {
		if vmi, err := r.vms.Instance(ctx, namespace, name); err == nil {
			info.InstanceExists = true
			info.Instance = vmi
		}
	}
	return info, nil
}
