package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hciops/harvesterctl/api/v1alpha1"
	"github.com/hciops/harvesterctl/internal/config"
	"github.com/hciops/harvesterctl/internal/manifest"
	"github.com/hciops/harvesterctl/internal/output"
	"github.com/hciops/harvesterctl/internal/reconcile"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage networks",
	Long:  `Manage Multus network attachment definitions on the Harvester cluster.`,
}

func init() {
	networkCmd.AddCommand(networkApplyCmd)
	networkCmd.AddCommand(networkDeleteCmd)
}

var networkApplyCmd = &cobra.Command{
	Use:   "apply <descriptor.yaml>",
	Short: "Converge a network toward its descriptor",
	Long: `Converge a network attachment definition toward the state described
in a YAML descriptor file. The CNI config may be given as a JSON string or
as structured YAML.

Example descriptor:

  name: vlan100
  namespace: default
  state: present
  config:
    cniVersion: "0.3.1"
    type: bridge
    bridge: vlan100-br
    vlan: 100`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &config.NetworkConfig{}
		if err := config.LoadFromFile(args[0], cfg); err != nil {
			return err
		}

		ctx := cmd.Context()
		client, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		r := reconcile.NewReconciler[v1alpha1.Network]("Network", client.Networks(), flagDryRun, log)
		namespace := namespaceFor(cfg.Namespace)

		var res *reconcile.Result[v1alpha1.Network]
		switch cfg.State {
		case config.StatePresent:
			res, err = r.Ensure(ctx, namespace, cfg.Name, func() (*v1alpha1.Network, error) {
				return manifest.BuildNetwork(cfg)
			})
		case config.StateAbsent:
			res, err = r.EnsureAbsent(ctx, namespace, cfg.Name)
		default:
			return fmt.Errorf("unsupported state %q", cfg.State)
		}
		if err != nil {
			return err
		}

		return printRecord(&output.Record{
			Changed:  res.Changed,
			Message:  res.Message,
			Kind:     "network",
			Resource: res.Resource,
		})
	},
}

var networkDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		r := reconcile.NewReconciler[v1alpha1.Network]("Network", client.Networks(), flagDryRun, log)
		res, err := r.EnsureAbsent(ctx, namespaceFor(""), args[0])
		if err != nil {
			return err
		}

		return printRecord(&output.Record{
			Changed: res.Changed,
			Message: res.Message,
			Kind:    "network",
		})
	},
}
