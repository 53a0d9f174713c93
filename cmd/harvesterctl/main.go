package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hciops/harvesterctl/internal/config"
	"github.com/hciops/harvesterctl/internal/harvester"
	"github.com/hciops/harvesterctl/internal/logging"
	"github.com/hciops/harvesterctl/internal/output"
)

var (
	version = "dev"
	commit  = "unknown"
)

var (
	flagHost      string
	flagToken     string
	flagUsername  string
	flagPassword  string
	flagInsecure  bool
	flagTimeout   time.Duration
	flagNamespace string
	flagOutput    string
	flagDryRun    bool
	flagDebug     bool

	log *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "harvesterctl",
	Short: "Harvesterctl - Harvester HCI resource management tool",
	Long: `Harvesterctl manages virtual machines, volumes, networks, and images
on a Harvester HCI cluster.

It converges each resource toward a desired state: resources that already
exist are reported unchanged, absent ones are created from the given
configuration.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := output.ValidateFormat(flagOutput); err != nil {
			return err
		}
		log = logging.Setup(flagDebug)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagHost, "host", os.Getenv("HARVESTER_HOST"), "Harvester API endpoint URL")
	pf.StringVar(&flagToken, "token", os.Getenv("HARVESTER_TOKEN"), "bearer token for authentication")
	pf.StringVar(&flagUsername, "username", "", "username for password authentication")
	pf.StringVar(&flagPassword, "password", "", "password (prompted when omitted)")
	pf.BoolVar(&flagInsecure, "insecure-skip-tls-verify", false, "skip TLS certificate verification")
	pf.DurationVar(&flagTimeout, "timeout", 0, "request timeout (default 30s)")
	pf.StringVarP(&flagNamespace, "namespace", "n", "", "namespace to operate in")
	pf.StringVarP(&flagOutput, "output", "o", "yaml", "output format (table, yaml, json)")
	pf.BoolVar(&flagDryRun, "dry-run", false, "report what would change without changing it")
	pf.BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(vmCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(imageCmd)
}

// connect builds an authenticated API client from the connection flags.
// Callers own calling Close.
func connect(ctx context.Context) (*harvester.Client, error) {
	password := flagPassword
	if flagUsername != "" && password == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "Password for %s: ", flagUsername)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}

	cfg := &config.ConnectionConfig{
		Host:     flagHost,
		Token:    flagToken,
		Username: flagUsername,
		Password: password,
		Timeout:  flagTimeout,
	}
	if flagInsecure {
		verify := false
		cfg.VerifySSL = &verify
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := harvester.New(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := client.Authenticate(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// namespaceFor resolves the effective namespace: the flag wins, then the
// config file, then the default.
func namespaceFor(configured string) string {
	if flagNamespace != "" {
		return flagNamespace
	}
	if configured != "" {
		return configured
	}
	return config.DefaultNamespace
}

// printRecord renders one result in the selected output format.
func printRecord(rec *output.Record) error {
	formatter, err := output.NewFormatter(output.Format(flagOutput))
	if err != nil {
		return err
	}
	rendered, err := formatter.FormatRecord(rec)
	if err != nil {
		return err
	}
	fmt.Print(rendered)
	return nil
}
