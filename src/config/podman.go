package config

// PodmanConfig controls how the podman binary is invoked.
type PodmanConfig struct {
	// TLSVerify is tri-state: nil leaves the choice to podman, true
	// forces certificate verification, false disables it.
	TLSVerify *bool `yaml:"tls_verify"`

	// RunDirectory is the working directory podman runs in. It doubles
	// as the build context.
	RunDirectory string `yaml:"run_directory"`

	// RegistriesConf overrides the containers-registries.conf location.
	// Empty uses podman's own search order.
	RegistriesConf string `yaml:"registries_conf"`
}

// DefaultPodmanConfig returns defaults for podman invocation.
func DefaultPodmanConfig() PodmanConfig {
	return PodmanConfig{
		RunDirectory: ".",
	}
}
