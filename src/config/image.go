package config

// ImageConfig describes one image to build.
type ImageConfig struct {
	// Name is the repository path without registry: "myorg/myapp".
	Name string `yaml:"name"`

	Containerfile string `yaml:"containerfile"`
	NoCache       bool   `yaml:"no_cache"`

	// Tags are tag templates resolved against git version info.
	// See gitver.ResolveTemplate for the supported variables.
	Tags []string `yaml:"tags"`

	// ExpandSemver adds rolling major.minor and major tags when the
	// build is a stable release.
	ExpandSemver bool `yaml:"expand_semver"`

	// Archive is the oci-archive output path used by `podman-build save`.
	Archive string `yaml:"archive"`
}

func (c *ImageConfig) applyDefaults() {
	if c.Containerfile == "" {
		c.Containerfile = "Containerfile"
	}
	if len(c.Tags) == 0 {
		c.Tags = []string{"{version}"}
	}
	if c.Archive == "" {
		c.Archive = archiveName(c.Name)
	}
}

// archiveName derives a default archive filename from an image name:
// "myorg/myapp" → "myapp.tar".
func archiveName(name string) string {
	base := name
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			base = name[i+1:]
			break
		}
	}
	if base == "" {
		return "image.tar"
	}
	return base + ".tar"
}
