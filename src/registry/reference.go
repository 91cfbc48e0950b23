// Package registry handles the registry-facing side of image handling:
// composing and validating image references, resolving credentials from
// the environment, and serving a local development registry.
package registry

import (
	"fmt"

	"github.com/distribution/reference"
)

// FullName composes a registry host, repository path, and tag into the
// reference podman operates on. An empty host yields a short name for
// local-only use.
func FullName(host, name, tag string) string {
	ref := name
	if host != "" {
		ref = host + "/" + name
	}
	if tag != "" {
		ref += ":" + tag
	}
	return ref
}

// Normalize expands s to its fully qualified form with an explicit
// registry and tag ("app" → "docker.io/library/app:latest").
func Normalize(s string) (string, error) {
	named, err := reference.ParseNormalizedNamed(s)
	if err != nil {
		return "", fmt.Errorf("invalid image reference %q: %w", s, err)
	}
	return reference.TagNameOnly(named).String(), nil
}
