package cmd

import (
	"fmt"
	"os"

	"github.com/sirchia/podman-build/src/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	workDir string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "podman-build",
	Short: "Container image automation driven by podman",
	Long:  "podman-build — build, tag, save, and push container images by driving the podman binary.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it.
		if cmd.Name() == "version" || cmd.Name() == "registry" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if workDir != "" {
			cfg.Podman.RunDirectory = workDir
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .podman-build.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", "", "working directory podman runs in (overrides podman.run_directory)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
