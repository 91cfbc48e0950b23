package cmd

import (
	"fmt"

	"github.com/sirchia/podman-build/src/config"
	"github.com/sirchia/podman-build/src/gitver"
	"github.com/sirchia/podman-build/src/output"
	"github.com/sirchia/podman-build/src/podman"
	"github.com/sirchia/podman-build/src/registry"
)

// newExecutor wires a ready-to-run Executor from the loaded config.
func newExecutor(tls podman.TLSPolicy) *podman.Executor {
	return podman.NewExecutor(podman.NewRunner(verbose), tls, cfg.Podman.RunDirectory)
}

// tlsPolicy translates the config tri-state into a TLS policy.
func tlsPolicy() podman.TLSPolicy {
	return podman.PolicyFromBool(cfg.Podman.TLSVerify)
}

// selectImages returns the configured images matching names, or all of
// them when names is empty.
func selectImages(names []string) ([]config.ImageConfig, error) {
	if len(cfg.Images) == 0 {
		return nil, fmt.Errorf("no images configured (add an images: section to .podman-build.yml)")
	}
	if len(names) == 0 {
		return cfg.Images, nil
	}

	byName := make(map[string]config.ImageConfig, len(cfg.Images))
	for _, img := range cfg.Images {
		byName[img.Name] = img
	}

	selected := make([]config.ImageConfig, 0, len(names))
	for _, name := range names {
		img, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("image %q is not configured", name)
		}
		selected = append(selected, img)
	}
	return selected, nil
}

// imageTags resolves an image's tag templates (plus extras) against
// version info, applies semver expansion, and validates the result.
func imageTags(img config.ImageConfig, vi *gitver.VersionInfo, extra []string) ([]string, error) {
	templates := append(append([]string(nil), img.Tags...), extra...)
	for _, t := range templates {
		if err := registry.ValidateTagTemplate(t); err != nil {
			return nil, fmt.Errorf("image %s: %w", img.Name, err)
		}
	}
	tags := gitver.ResolveTags(templates, vi)
	if img.ExpandSemver {
		tags = gitver.ExpandSemver(tags, vi)
	}
	for _, t := range tags {
		if err := registry.ValidateTag(t); err != nil {
			return nil, fmt.Errorf("image %s: %w", img.Name, err)
		}
	}
	return tags, nil
}

// imageRefs composes the full references podman tags and pushes, one per
// resolved tag. Each composed reference is parsed back to catch names
// that only fail once host, name, and tag are joined.
func imageRefs(img config.ImageConfig, tags []string) ([]string, error) {
	refs := make([]string, 0, len(tags))
	for _, tag := range tags {
		ref := registry.FullName(cfg.Push.Registry, img.Name, tag)
		if _, err := registry.Normalize(ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// versionContextKV builds the context block rows for a run.
func versionContextKV(vi *gitver.VersionInfo) []output.KV {
	release := "no"
	if vi.IsRelease {
		release = "yes"
	}
	kv := []output.KV{
		{Key: "version", Value: vi.Version},
		{Key: "sha", Value: vi.SHA},
	}
	if vi.Branch != "" {
		kv = append(kv, output.KV{Key: "branch", Value: vi.Branch})
	}
	kv = append(kv, output.KV{Key: "release", Value: release})
	return kv
}
