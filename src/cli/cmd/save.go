package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirchia/podman-build/src/gitver"
	"github.com/sirchia/podman-build/src/output"
	"github.com/spf13/cobra"
)

var svOutput string

var saveCmd = &cobra.Command{
	Use:   "save [image...]",
	Short: "Export built images as OCI archives",
	Long: `Export configured images to oci-archive files with podman save.

Each image is saved under its primary (first) resolved tag. The archive
path comes from the image's archive setting; --output overrides it when
a single image is selected.`,
	RunE: runSave,
}

func init() {
	saveCmd.Flags().StringVarP(&svOutput, "output", "o", "", "archive path (single image only)")

	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	color := output.UseColor()
	w := os.Stdout

	images, err := selectImages(args)
	if err != nil {
		return err
	}
	if svOutput != "" && len(images) != 1 {
		return fmt.Errorf("--output applies to exactly one image, %d selected", len(images))
	}

	vi, err := gitver.DetectVersion(cfg.Podman.RunDirectory)
	if err != nil {
		return fmt.Errorf("resolving version: %w", err)
	}

	exec := newExecutor(tlsPolicy())
	start := time.Now()

	type saved struct{ ref, archive string }
	results := make([]saved, 0, len(images))
	for _, img := range images {
		tags, err := imageTags(img, vi, nil)
		if err != nil {
			return err
		}
		refs, err := imageRefs(img, tags)
		if err != nil {
			return err
		}
		ref := refs[0]

		archive := img.Archive
		if svOutput != "" {
			archive = svOutput
		}

		if err := exec.Save(ctx, archive, ref); err != nil {
			return err
		}
		results = append(results, saved{ref: ref, archive: archive})
	}

	sec := output.NewSection(w, "Save", time.Since(start), color)
	for _, r := range results {
		sec.Row("%-40s→ %s", r.ref, r.archive)
	}
	sec.Close()

	return nil
}
