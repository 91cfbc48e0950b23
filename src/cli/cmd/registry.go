package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirchia/podman-build/src/registry"
	"github.com/spf13/cobra"
)

var regAddr string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Run a local in-memory registry",
	Long: `Run an in-memory OCI distribution registry for local testing.

Everything lives in process memory and is gone on exit. Pushing to it
over plain HTTP needs an insecure entry in registries.conf or
tls_verify: false in the config.`,
	RunE: runRegistry,
}

func init() {
	registryCmd.Flags().StringVar(&regAddr, "addr", ":5000", "listen address")

	rootCmd.AddCommand(registryCmd)
}

func runRegistry(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("serving registry on %s\n", regAddr)
	return registry.Serve(ctx, regAddr)
}
