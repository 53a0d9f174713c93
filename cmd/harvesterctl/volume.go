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

var volumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Manage volumes",
	Long: `Manage persistent volume claims on the Harvester cluster.

Volumes backed by an image are cloned from that image on first attach.`,
}

func init() {
	volumeCmd.AddCommand(volumeApplyCmd)
	volumeCmd.AddCommand(volumeDeleteCmd)
}

var volumeApplyCmd = &cobra.Command{
	Use:   "apply <descriptor.yaml>",
	Short: "Converge a volume toward its descriptor",
	Long: `Converge a volume toward the state described in a YAML descriptor
file.

Example descriptor:

  name: web-0-root
  namespace: default
  state: present
  storage: 20Gi
  image: default/ubuntu-24.04`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &config.VolumeConfig{}
		if err := config.LoadFromFile(args[0], cfg); err != nil {
			return err
		}

		ctx := cmd.Context()
		client, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		r := reconcile.NewReconciler[v1alpha1.Volume]("Volume", client.Volumes(), flagDryRun, log)
		namespace := namespaceFor(cfg.Namespace)

		var res *reconcile.Result[v1alpha1.Volume]
		switch cfg.State {
		case config.StatePresent:
			res, err = r.Ensure(ctx, namespace, cfg.Name, func() (*v1alpha1.Volume, error) {
				return manifest.BuildVolume(cfg), nil
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
			Kind:     "volume",
			Resource: res.Resource,
		})
	},
}

var volumeDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a volume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		r := reconcile.NewReconciler[v1alpha1.Volume]("Volume", client.Volumes(), flagDryRun, log)
		res, err := r.EnsureAbsent(ctx, namespaceFor(""), args[0])
		if err != nil {
			return err
		}

		return printRecord(&output.Record{
			Changed: res.Changed,
			Message: res.Message,
			Kind:    "volume",
		})
	},
}
