package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirchia/podman-build/src/gitver"
	"github.com/sirchia/podman-build/src/output"
	"github.com/sirchia/podman-build/src/podman"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [image...]",
	Short: "Remove built image tags from local storage",
	Long: `Remove the resolved tags of configured images with podman rmi.

Tags that are not present locally are reported and skipped, so clean is
safe to run on an already-clean system. Any other removal failure (an
image still in use, storage errors) aborts.`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	color := output.UseColor()
	w := os.Stdout

	images, err := selectImages(args)
	if err != nil {
		return err
	}

	vi, err := gitver.DetectVersion(cfg.Podman.RunDirectory)
	if err != nil {
		return fmt.Errorf("resolving version: %w", err)
	}

	exec := newExecutor(tlsPolicy())
	start := time.Now()

	type result struct {
		ref     string
		removed bool
	}
	var results []result
	removed := 0
	for _, img := range images {
		tags, err := imageTags(img, vi, nil)
		if err != nil {
			return err
		}
		refs, err := imageRefs(img, tags)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			err := exec.RemoveLocalImage(ctx, ref)
			switch {
			case err == nil:
				removed++
				results = append(results, result{ref: ref, removed: true})
			case imageAbsent(err):
				results = append(results, result{ref: ref})
			default:
				return err
			}
		}
	}

	sec := output.NewSection(w, "Clean", time.Since(start), color)
	for _, r := range results {
		status := "success"
		if !r.removed {
			status = "skipped"
		}
		sec.Row("%-50s %s", r.ref, output.StatusIcon(status, color))
	}
	sec.Separator()
	sec.Row("removed %d of %d tag(s)", removed, len(results))
	sec.Close()

	return nil
}

// imageAbsent reports whether an rmi failure just means the image was not
// in local storage. podman rmi exits 1 for unknown images; 2 and up are
// real failures.
func imageAbsent(err error) bool {
	var pe *podman.ProcessError
	return errors.As(err, &pe) && !pe.LaunchFailure() && pe.ExitCode == 1
}
