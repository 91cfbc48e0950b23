package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirchia/podman-build/src/gitver"
	"github.com/sirchia/podman-build/src/output"
	"github.com/sirchia/podman-build/src/podman"
	"github.com/sirchia/podman-build/src/registry"
	"github.com/spf13/cobra"
)

var pDryRun bool

var pushCmd = &cobra.Command{
	Use:   "push [image...]",
	Short: "Push built images to the configured registry",
	Long: `Push every resolved tag of the configured images.

Honors containers-registries.conf: pushes to blocked registries are
refused, and insecure registries downgrade an unspecified TLS policy
to --tls-verify=false. Logs in first when push credentials are
configured, and removes pushed tags from local storage afterwards when
remove_after_push is set.`,
	RunE: runPush,
}

func init() {
	pushCmd.Flags().BoolVar(&pDryRun, "dry-run", false, "show what would be pushed without pushing")

	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	color := output.UseColor()
	w := os.Stdout
	pipelineStart := time.Now()

	host := cfg.Push.Registry
	if host == "" {
		return fmt.Errorf("no push registry configured (set push.registry)")
	}
	if err := registry.ValidateHost(host); err != nil {
		return err
	}

	images, err := selectImages(args)
	if err != nil {
		return err
	}

	vi, err := gitver.DetectVersion(cfg.Podman.RunDirectory)
	if err != nil {
		return fmt.Errorf("resolving version: %w", err)
	}

	output.ContextBlock(w, versionContextKV(vi))

	conf, err := podman.LoadRegistriesConf(cfg.Podman.RegistriesConf)
	if err != nil {
		return err
	}
	if conf.Blocked(host) {
		return fmt.Errorf("registry %s is blocked by registries.conf", host)
	}
	tls := tlsPolicy()
	insecureNote := ""
	if tls == podman.TLSUnspecified && conf.Insecure(host) {
		tls = podman.TLSSkip
		insecureNote = "insecure registry, tls verification off"
	}

	var refs []string
	for _, img := range images {
		tags, err := imageTags(img, vi, nil)
		if err != nil {
			return err
		}
		imgRefs, err := imageRefs(img, tags)
		if err != nil {
			return err
		}
		refs = append(refs, imgRefs...)
	}

	if pDryRun {
		for _, ref := range refs {
			fmt.Fprintf(w, "  exec: %s\n", podman.Decorate(podman.Push, tls, ref))
		}
		return nil
	}

	exec := newExecutor(tls)

	loginDetail := "no credentials configured"
	loginStatus := "skipped"
	if cfg.Push.Credentials != "" {
		user, pass, err := registry.ResolveCredentials(cfg.Push.Credentials)
		if err != nil {
			return err
		}
		if err := exec.Login(ctx, host, user, pass); err != nil {
			return err
		}
		loginDetail = fmt.Sprintf("%s as %s", host, user)
		loginStatus = "success"
	}

	output.SectionStart(w, "pb_push", "Push")
	pushStart := time.Now()

	removed := 0
	for _, ref := range refs {
		if err := exec.Push(ctx, ref); err != nil {
			output.SectionEnd(w, "pb_push")
			return err
		}
		if cfg.Push.RemoveAfterPush {
			if err := exec.RemoveLocalImage(ctx, ref); err != nil {
				output.SectionEnd(w, "pb_push")
				return err
			}
			removed++
		}
	}

	pushSec := output.NewSection(w, "Push", time.Since(pushStart), color)
	if insecureNote != "" {
		pushSec.Row("%s", output.Dimmed(insecureNote, color))
	}
	for _, ref := range refs {
		pushSec.Row("%-50s %s", ref, output.StatusIcon("success", color))
	}
	pushSec.Close()
	output.SectionEnd(w, "pb_push")

	sumSec := output.NewSection(w, "Summary", 0, color)
	output.SummaryRow(w, "login", loginStatus, loginDetail, color)
	output.SummaryRow(w, "push", "success", fmt.Sprintf("%d tag(s) → %s", len(refs), host), color)
	if cfg.Push.RemoveAfterPush {
		output.SummaryRow(w, "cleanup", "success", fmt.Sprintf("%d local tag(s) removed", removed), color)
	}
	sumSec.Separator()
	output.SummaryTotal(w, time.Since(pipelineStart), "success", color)
	sumSec.Close()

	return nil
}
