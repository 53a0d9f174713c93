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

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage VM images",
	Long: `Manage virtual machine images on the Harvester cluster.

Images are downloaded by the cluster from a URL and used as the source for
volume clones.`,
}

func init() {
	imageCmd.AddCommand(imageApplyCmd)
	imageCmd.AddCommand(imageDeleteCmd)
}

var imageApplyCmd = &cobra.Command{
	Use:   "apply <descriptor.yaml>",
	Short: "Converge an image toward its descriptor",
	Long: `Converge a VM image toward the state described in a YAML descriptor
file.

Example descriptor:

  name: ubuntu-24-04
  namespace: default
  state: present
  display_name: Ubuntu 24.04 LTS
  url: https://cloud-images.ubuntu.com/noble/current/noble-server-cloudimg-amd64.img`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &config.ImageConfig{}
		if err := config.LoadFromFile(args[0], cfg); err != nil {
			return err
		}

		ctx := cmd.Context()
		client, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		r := reconcile.NewReconciler[v1alpha1.Image]("Image", client.Images(), flagDryRun, log)
		namespace := namespaceFor(cfg.Namespace)

		var res *reconcile.Result[v1alpha1.Image]
		switch cfg.State {
		case config.StatePresent:
			res, err = r.Ensure(ctx, namespace, cfg.Name, func() (*v1alpha1.Image, error) {
				return manifest.BuildImage(cfg)
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
			Kind:     "image",
			Resource: res.Resource,
		})
	},
}

var imageDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		r := reconcile.NewReconciler[v1alpha1.Image]("Image", client.Images(), flagDryRun, log)
		res, err := r.EnsureAbsent(ctx, namespaceFor(""), args[0])
		if err != nil {
			return err
		}

		return printRecord(&output.Record{
			Changed: res.Changed,
			Message: res.Message,
			Kind:    "image",
		})
	},
}
