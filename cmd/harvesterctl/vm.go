package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hciops/harvesterctl/api/v1alpha1"
	"github.com/hciops/harvesterctl/internal/config"
	"github.com/hciops/harvesterctl/internal/manifest"
	"github.com/hciops/harvesterctl/internal/output"
	"github.com/hciops/harvesterctl/internal/reconcile"
)

var vmCmd = &cobra.Command{
	Use:   "vm",
	Short: "Manage virtual machines",
	Long: `Manage KubeVirt virtual machines on the Harvester cluster.

VMs are described by YAML descriptor files. The descriptor's state field
selects the desired outcome: present, absent, started, stopped, or
restarted.`,
}

func init() {
	vmCmd.AddCommand(vmApplyCmd)
	vmCmd.AddCommand(vmDeleteCmd)
	vmCmd.AddCommand(vmStartCmd)
	vmCmd.AddCommand(vmStopCmd)
	vmCmd.AddCommand(vmRestartCmd)
	vmCmd.AddCommand(vmInfoCmd)
}

var vmApplyCmd = &cobra.Command{
	Use:   "apply <descriptor.yaml>",
	Short: "Converge a VM toward its descriptor",
	Long: `Converge a virtual machine toward the state described in a YAML
descriptor file.

Example descriptor:

  name: web-0
  namespace: default
  state: present
  cpu_cores: 2
  memory: 4Gi
  disks:
    - name: rootdisk
      volume_name: web-0-root
  networks:
    - name: default
      pod: {}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &config.VMConfig{}
		if err := config.LoadFromFile(args[0], cfg); err != nil {
			return err
		}

		ctx := cmd.Context()
		client, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		r := reconcile.NewVMReconciler(client.VirtualMachines(), flagDryRun, log)
		namespace := namespaceFor(cfg.Namespace)

		var res *reconcile.VMResult
		switch cfg.State {
		case config.StatePresent:
			res, err = r.Ensure(ctx, namespace, cfg.Name, func() (*v1alpha1.VirtualMachine, error) {
				return manifest.BuildVirtualMachine(cfg, log)
			})
		case config.StateAbsent:
			res, err = r.EnsureAbsent(ctx, namespace, cfg.Name)
		case config.StateStarted:
			res, err = r.Start(ctx, namespace, cfg.Name)
		case config.StateStopped:
			res, err = r.Stop(ctx, namespace, cfg.Name)
		case config.StateRestarted:
			res, err = r.Restart(ctx, namespace, cfg.Name)
		default:
			return fmt.Errorf("unsupported state %q", cfg.State)
		}
		if err != nil {
			return err
		}

		return printRecord(vmRecord(res))
	},
}

var vmDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVMOp(cmd.Context(), args[0], (*reconcile.VMReconciler).EnsureAbsent)
	},
}

var vmStartCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start a VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVMOp(cmd.Context(), args[0], (*reconcile.VMReconciler).Start)
	},
}

var vmStopCmd = &cobra.Command{
	Use:   "stop <name>",
	Short: "Stop a VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVMOp(cmd.Context(), args[0], (*reconcile.VMReconciler).Stop)
	},
}

var vmRestartCmd = &cobra.Command{
	Use:   "restart <name>",
	Short: "Restart a VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVMOp(cmd.Context(), args[0], (*reconcile.VMReconciler).Restart)
	},
}

var vmInfoNoInstance bool

var vmInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show a VM and its running instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		r := reconcile.NewVMReconciler(client.VirtualMachines(), flagDryRun, log)
		info, err := r.Info(ctx, namespaceFor(""), args[0], !vmInfoNoInstance)
		if err != nil {
			return err
		}

		rec := &output.Record{
			Kind:     "vm",
			Resource: info.VM,
			Extra:    map[string]any{"exists": info.Exists},
		}
		if !vmInfoNoInstance {
			rec.Extra["instance_exists"] = info.InstanceExists
			rec.Extra["instance"] = info.Instance
		}
		return printRecord(rec)
	},
}

func init() {
	vmInfoCmd.Flags().BoolVar(&vmInfoNoInstance, "no-instance", false, "skip the running instance lookup")
}

// runVMOp runs one name-based VM operation with the shared connect and
// print plumbing.
func runVMOp(ctx context.Context, name string, op func(*reconcile.VMReconciler, context.Context, string, string) (*reconcile.VMResult, error)) error {
	client, err := connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	r := reconcile.NewVMReconciler(client.VirtualMachines(), flagDryRun, log)
	res, err := op(r, ctx, namespaceFor(""), name)
	if err != nil {
		return err
	}
	return printRecord(vmRecord(res))
}

func vmRecord(res *reconcile.VMResult) *output.Record {
	return &output.Record{
		Changed:  res.Changed,
		Message:  res.Message,
		Kind:     "vm",
		Resource: res.Resource,
	}
}
