package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".podman-build.yml"

// Config is the top-level podman-build configuration.
type Config struct {
	Podman     PodmanConfig     `yaml:"podman"`
	Images     []ImageConfig    `yaml:"images"`
	Push       PushConfig       `yaml:"push"`
	Registries []RegistryConfig `yaml:"registries"`
	Scan       ScanConfig       `yaml:"scan"`
}

// Load reads configuration from a YAML file.
// If path is empty, it tries the default file.
// Returns sensible defaults if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Podman: DefaultPodmanConfig(),
	}
}

// normalize fills per-image defaults; images is a list, so defaults()
// cannot pre-populate it.
func (c *Config) normalize() {
	for i := range c.Images {
		c.Images[i].applyDefaults()
	}
}
