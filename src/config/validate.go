package config

import (
	"fmt"
	"regexp"
	"strings"
)

// envPrefixRe matches credential env var prefixes: RELEASE, MY_REGISTRY.
var envPrefixRe = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// Validate checks structural invariants of a loaded Config.
func Validate(cfg *Config) error {
	var errs []string

	names := make(map[string]bool)
	for i, img := range cfg.Images {
		ipath := fmt.Sprintf("images[%d]", i)

		if img.Name == "" {
			errs = append(errs, fmt.Sprintf("%s: name is required", ipath))
		} else if names[img.Name] {
			errs = append(errs, fmt.Sprintf("%s: duplicate image name %q", ipath, img.Name))
		} else {
			names[img.Name] = true
		}

		if len(img.Tags) == 0 {
			errs = append(errs, fmt.Sprintf("%s: at least one tag is required", ipath))
		}
	}

	if cfg.Push.Credentials != "" && !envPrefixRe.MatchString(cfg.Push.Credentials) {
		errs = append(errs, fmt.Sprintf("push: credentials prefix %q is not a valid env var prefix (must match [A-Z][A-Z0-9_]*)", cfg.Push.Credentials))
	}

	hosts := make(map[string]bool)
	for i, r := range cfg.Registries {
		rpath := fmt.Sprintf("registries[%d]", i)

		if r.Host == "" {
			errs = append(errs, fmt.Sprintf("%s: host is required", rpath))
		} else if hosts[r.Host] {
			errs = append(errs, fmt.Sprintf("%s: duplicate registry host %q", rpath, r.Host))
		} else {
			hosts[r.Host] = true
		}

		if r.Credentials == "" {
			errs = append(errs, fmt.Sprintf("%s: credentials prefix is required", rpath))
		} else if !envPrefixRe.MatchString(r.Credentials) {
			errs = append(errs, fmt.Sprintf("%s: credentials prefix %q is not a valid env var prefix (must match [A-Z][A-Z0-9_]*)", rpath, r.Credentials))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
