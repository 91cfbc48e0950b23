package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirchia/podman-build/src/output"
	"github.com/sirchia/podman-build/src/registry"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login [host]",
	Short: "Log in to configured registries",
	Long: `Log in to container registries with podman login.

With no arguments, logs in to the push registry and every entry in the
registries list; pass a host to log in to just that one. Credentials
come from environment variables named after each entry's prefix
(PREFIX_USER / PREFIX_PASS), with a .env file honored when present.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	color := output.UseColor()
	w := os.Stdout

	type target struct{ host, prefix string }
	var targets []target
	seen := map[string]bool{}
	if cfg.Push.Registry != "" && cfg.Push.Credentials != "" {
		targets = append(targets, target{cfg.Push.Registry, cfg.Push.Credentials})
		seen[cfg.Push.Registry] = true
	}
	for _, r := range cfg.Registries {
		if seen[r.Host] {
			continue
		}
		targets = append(targets, target{r.Host, r.Credentials})
		seen[r.Host] = true
	}

	if len(args) == 1 {
		var filtered []target
		for _, t := range targets {
			if t.host == args[0] {
				filtered = append(filtered, t)
			}
		}
		if len(filtered) == 0 {
			return fmt.Errorf("registry %q is not configured", args[0])
		}
		targets = filtered
	}
	if len(targets) == 0 {
		return fmt.Errorf("no registries with credentials configured")
	}

	exec := newExecutor(tlsPolicy())
	start := time.Now()

	type result struct{ host, user string }
	results := make([]result, 0, len(targets))
	for _, t := range targets {
		user, pass, err := registry.ResolveCredentials(t.prefix)
		if err != nil {
			return err
		}
		if err := exec.Login(ctx, t.host, user, pass); err != nil {
			return err
		}
		results = append(results, result{host: t.host, user: user})
	}

	sec := output.NewSection(w, "Login", time.Since(start), color)
	for _, r := range results {
		sec.Row("%-40s%s %s", r.host, r.user, output.StatusIcon("success", color))
	}
	sec.Close()

	return nil
}
