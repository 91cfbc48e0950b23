package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirchia/podman-build/src/config"
	"github.com/sirchia/podman-build/src/gitver"
	"github.com/sirchia/podman-build/src/leakcheck"
	"github.com/sirchia/podman-build/src/output"
	"github.com/sirchia/podman-build/src/podman"
	"github.com/sirchia/podman-build/src/registry"
	"github.com/spf13/cobra"
)

var (
	bTags     []string
	bNoCache  bool
	bSkipScan bool
	bDryRun   bool
)

var buildCmd = &cobra.Command{
	Use:   "build [image...]",
	Short: "Build and tag container images",
	Long: `Build configured images with podman.

Resolves tag templates from git, runs a secret scan of the build context
as a pre-build gate unless --skip-scan is set, builds each image, and
applies every resolved tag.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringSliceVar(&bTags, "tag", nil, "add tags (templates allowed)")
	buildCmd.Flags().BoolVar(&bNoCache, "no-cache", false, "disable the layer cache for all images")
	buildCmd.Flags().BoolVar(&bSkipScan, "skip-scan", false, "skip the pre-build secret scan")
	buildCmd.Flags().BoolVar(&bDryRun, "dry-run", false, "show the plan without executing")

	rootCmd.AddCommand(buildCmd)
}

// buildPlan is one image with its resolved tags and full references.
type buildPlan struct {
	img  config.ImageConfig
	tags []string
	refs []string
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	color := output.UseColor()
	w := os.Stdout
	pipelineStart := time.Now()

	images, err := selectImages(args)
	if err != nil {
		return err
	}

	vi, err := gitver.DetectVersion(cfg.Podman.RunDirectory)
	if err != nil {
		return fmt.Errorf("resolving version: %w", err)
	}

	output.ContextBlock(w, versionContextKV(vi))

	// --- Pre-build secret scan ---
	scanSummary := "--skip-scan"
	switch {
	case !cfg.Scan.SecretsEnabled():
		scanSummary = "disabled"
	case !bSkipScan:
		output.SectionStartCollapsed(w, "pb_scan", "Scan")
		var scanErr error
		scanSummary, scanErr = runSecretScan(ctx, w, color)
		output.SectionEnd(w, "pb_scan")
		if scanErr != nil {
			return scanErr
		}
	}

	// --- Plan ---
	tls := tlsPolicy()
	plans := make([]buildPlan, 0, len(images))
	for _, img := range images {
		if err := registry.ValidateImageName(img.Name); err != nil {
			return err
		}
		tags, err := imageTags(img, vi, bTags)
		if err != nil {
			return err
		}
		refs, err := imageRefs(img, tags)
		if err != nil {
			return err
		}
		plans = append(plans, buildPlan{img: img, tags: tags, refs: refs})
	}

	// --- Dry run ---
	if bDryRun {
		for _, p := range plans {
			noCache := p.img.NoCache || bNoCache
			fmt.Printf("image: %s\n", p.img.Name)
			fmt.Printf("  exec: %s\n", podman.Decorate(podman.Build, tls,
				"--file="+p.img.Containerfile, fmt.Sprintf("--no-cache=%t", noCache), "."))
			for _, ref := range p.refs {
				fmt.Printf("  exec: %s\n", podman.Decorate(podman.Tag, tls, "<image-id>", ref))
			}
		}
		return nil
	}

	// --- Build ---
	output.SectionStart(w, "pb_build", "Build")
	buildStart := time.Now()
	exec := newExecutor(tls)

	built := make([]string, 0, len(plans))
	tagCount := 0
	for _, p := range plans {
		id, err := exec.Build(ctx, podman.BuildSpec{
			Containerfile: p.img.Containerfile,
			NoCache:       p.img.NoCache || bNoCache,
		})
		if err != nil {
			output.SectionEnd(w, "pb_build")
			return err
		}
		for _, ref := range p.refs {
			if err := exec.Tag(ctx, id, ref); err != nil {
				output.SectionEnd(w, "pb_build")
				return err
			}
			tagCount++
		}
		built = append(built, id)
	}
	buildElapsed := time.Since(buildStart)

	buildSec := output.NewSection(w, "Build", buildElapsed, color)
	for i, p := range plans {
		buildSec.Row("%-16s→ %s", p.img.Name, built[i])
		for _, ref := range p.refs {
			buildSec.Row("  %-50s %s", ref, output.StatusIcon("success", color))
		}
	}
	buildSec.Close()
	output.SectionEnd(w, "pb_build")

	// --- Summary ---
	totalElapsed := time.Since(pipelineStart)
	sumSec := output.NewSection(w, "Summary", 0, color)

	scanStatus := "success"
	if scanSummary == "--skip-scan" || scanSummary == "disabled" {
		scanStatus = "skipped"
	}
	output.SummaryRow(w, "scan", scanStatus, scanSummary, color)
	output.SummaryRow(w, "version", "success", vi.Version, color)
	output.SummaryRow(w, "build", "success", fmt.Sprintf("%d image(s)", len(plans)), color)
	output.SummaryRow(w, "tag", "success", fmt.Sprintf("%d tag(s)", tagCount), color)
	sumSec.Separator()
	output.SummaryTotal(w, totalElapsed, "success", color)
	sumSec.Close()

	// --- Image References ---
	fmt.Fprintf(w, "\n    %s\n", output.Bold("Image References", color))
	for _, p := range plans {
		for _, ref := range p.refs {
			fmt.Fprintf(w, "    → %s\n", ref)
		}
	}
	fmt.Fprintln(w)

	return nil
}

func runSecretScan(ctx context.Context, w io.Writer, color bool) (string, error) {
	start := time.Now()

	scanner, err := leakcheck.NewScanner()
	if err != nil {
		return "", err
	}
	findings, err := scanner.ScanDir(ctx, cfg.Podman.RunDirectory)
	if err != nil {
		return "", err
	}
	elapsed := time.Since(start)

	sec := output.NewSection(w, "Scan", elapsed, color)
	if len(findings) == 0 {
		sec.Row("%-16s→ none found", "secrets")
		sec.Close()
		return "no leaks", nil
	}

	for _, f := range findings {
		sec.Row("%s:%d  %s", f.File, f.Line, f.Description)
	}
	sec.Row("")
	sec.Row("status %s", output.StatusIcon("failed", color))
	sec.Close()

	return "", fmt.Errorf("secret scan found %d finding(s); fix them or pass --skip-scan", len(findings))
}
