package podman

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// RegistriesConf is the subset of containers-registries.conf(5) that
// affects how we talk to registries.
type RegistriesConf struct {
	UnqualifiedSearchRegistries []string        `toml:"unqualified-search-registries"`
	Registries                  []RegistryEntry `toml:"registry"`
}

// RegistryEntry is one [[registry]] table.
type RegistryEntry struct {
	Prefix   string `toml:"prefix"`
	Location string `toml:"location"`
	Insecure bool   `toml:"insecure"`
	Blocked  bool   `toml:"blocked"`
}

// LoadRegistriesConf reads the registries configuration from path, or
// from the default search locations when path is empty. A missing file is
// not an error; podman treats it as all registries secure and unblocked.
func LoadRegistriesConf(path string) (*RegistriesConf, error) {
	if path == "" {
		path = DefaultRegistriesConfPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &RegistriesConf{}, nil
		}
		return nil, err
	}

	var conf RegistriesConf
	if err := toml.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &conf, nil
}

// DefaultRegistriesConfPath resolves the registries.conf location the way
// podman does: $CONTAINERS_REGISTRIES_CONF, then the per-user file, then
// the system file.
func DefaultRegistriesConfPath() string {
	if p := os.Getenv("CONTAINERS_REGISTRIES_CONF"); p != "" {
		return p
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "containers", "registries.conf")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "/etc/containers/registries.conf"
}

// Insecure reports whether host is configured for plain HTTP or
// unverified TLS.
func (c *RegistriesConf) Insecure(host string) bool {
	entry := c.lookup(host)
	return entry != nil && entry.Insecure
}

// Blocked reports whether pushes and pulls for host are forbidden.
func (c *RegistriesConf) Blocked(host string) bool {
	entry := c.lookup(host)
	return entry != nil && entry.Blocked
}

// lookup finds the most specific entry matching host, using prefix when
// set and location otherwise.
func (c *RegistriesConf) lookup(host string) *RegistryEntry {
	var best *RegistryEntry
	bestLen := -1
	for i := range c.Registries {
		entry := &c.Registries[i]
		key := entry.Prefix
		if key == "" {
			key = entry.Location
		}
		if key == "" {
			continue
		}
		if host == key || strings.HasPrefix(host, key+"/") {
			if len(key) > bestLen {
				best = entry
				bestLen = len(key)
			}
		}
	}
	return best
}
