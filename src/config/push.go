package config

// PushConfig controls where built images are pushed.
type PushConfig struct {
	// Registry is the target registry host, e.g. "registry.example.com"
	// or "localhost:5000".
	Registry string `yaml:"registry"`

	// Credentials is the env var prefix for auth (e.g., "RELEASE" →
	// RELEASE_USER/RELEASE_PASS). Empty skips login before push.
	Credentials string `yaml:"credentials"`

	// RemoveAfterPush removes the pushed tags from local storage once
	// the push succeeds.
	RemoveAfterPush bool `yaml:"remove_after_push"`
}

// RegistryConfig defines an additional registry to authenticate against
// with `podman-build login`.
type RegistryConfig struct {
	Host        string `yaml:"host"`
	Credentials string `yaml:"credentials"` // env var prefix for auth
}
