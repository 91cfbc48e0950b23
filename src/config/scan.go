package config

// ScanConfig controls the pre-build secret scan.
type ScanConfig struct {
	// Secrets toggles the gitleaks scan. Unset means on.
	Secrets *bool `yaml:"secrets"`
}

// SecretsEnabled reports whether the secret scan should run.
func (s ScanConfig) SecretsEnabled() bool {
	return s.Secrets == nil || *s.Secrets
}
