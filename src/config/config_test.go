package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".podman-build.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Podman.RunDirectory != "." {
		t.Fatalf("RunDirectory = %q, want .", cfg.Podman.RunDirectory)
	}
	if cfg.Podman.TLSVerify != nil {
		t.Fatal("TLSVerify should default to unset")
	}
	if !cfg.Scan.SecretsEnabled() {
		t.Fatal("secret scan should default to on")
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
podman:
  tls_verify: false
  run_directory: build

images:
  - name: myorg/myapp
    containerfile: deploy/Containerfile
    no_cache: true
    tags: ["{version}", "latest"]
    expand_semver: true
    archive: out/myapp.tar

push:
  registry: registry.example.com
  credentials: RELEASE
  remove_after_push: true

registries:
  - host: registry.example.com
    credentials: RELEASE

scan:
  secrets: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Podman.TLSVerify == nil || *cfg.Podman.TLSVerify {
		t.Fatal("tls_verify: false should load as explicit false")
	}
	if cfg.Podman.RunDirectory != "build" {
		t.Fatalf("RunDirectory = %q", cfg.Podman.RunDirectory)
	}

	if len(cfg.Images) != 1 {
		t.Fatalf("images = %#v", cfg.Images)
	}
	img := cfg.Images[0]
	if img.Name != "myorg/myapp" || img.Containerfile != "deploy/Containerfile" {
		t.Fatalf("image = %#v", img)
	}
	if !img.NoCache || !img.ExpandSemver {
		t.Fatalf("image flags = %#v", img)
	}
	if len(img.Tags) != 2 || img.Tags[0] != "{version}" {
		t.Fatalf("tags = %#v", img.Tags)
	}
	if img.Archive != "out/myapp.tar" {
		t.Fatalf("archive = %q", img.Archive)
	}

	if cfg.Push.Registry != "registry.example.com" || cfg.Push.Credentials != "RELEASE" {
		t.Fatalf("push = %#v", cfg.Push)
	}
	if !cfg.Push.RemoveAfterPush {
		t.Fatal("remove_after_push should be true")
	}

	if cfg.Scan.SecretsEnabled() {
		t.Fatal("secrets: false should disable the scan")
	}
}

func TestLoadTLSVerifyTriState(t *testing.T) {
	unset, err := Load(writeConfig(t, "podman: {}\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if unset.Podman.TLSVerify != nil {
		t.Fatal("absent tls_verify should stay nil")
	}

	enforced, err := Load(writeConfig(t, "podman:\n  tls_verify: true\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if enforced.Podman.TLSVerify == nil || !*enforced.Podman.TLSVerify {
		t.Fatal("tls_verify: true should load as explicit true")
	}
}

func TestLoadAppliesImageDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "images:\n  - name: myorg/myapp\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	img := cfg.Images[0]
	if img.Containerfile != "Containerfile" {
		t.Fatalf("Containerfile = %q, want default", img.Containerfile)
	}
	if len(img.Tags) != 1 || img.Tags[0] != "{version}" {
		t.Fatalf("Tags = %#v, want default {version}", img.Tags)
	}
	if img.Archive != "myapp.tar" {
		t.Fatalf("Archive = %q, want myapp.tar", img.Archive)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "images: [broken\n")); err == nil {
		t.Fatal("malformed YAML should error")
	}
}

func TestValidate(t *testing.T) {
	good := &Config{
		Images: []ImageConfig{{Name: "myorg/myapp", Tags: []string{"{version}"}}},
		Push:   PushConfig{Registry: "registry.example.com", Credentials: "RELEASE"},
		Registries: []RegistryConfig{
			{Host: "registry.example.com", Credentials: "RELEASE"},
		},
	}
	if err := Validate(good); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateDuplicateImage(t *testing.T) {
	cfg := &Config{
		Images: []ImageConfig{
			{Name: "myorg/myapp", Tags: []string{"a"}},
			{Name: "myorg/myapp", Tags: []string{"b"}},
		},
	}
	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "duplicate image name") {
		t.Fatalf("Validate = %v, want duplicate image error", err)
	}
}

func TestValidateMissingName(t *testing.T) {
	cfg := &Config{Images: []ImageConfig{{Tags: []string{"a"}}}}
	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("Validate = %v, want name error", err)
	}
}

func TestValidateCredentialsPrefix(t *testing.T) {
	cfg := &Config{Push: PushConfig{Registry: "r", Credentials: "lower_case"}}
	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "credentials prefix") {
		t.Fatalf("Validate = %v, want credentials prefix error", err)
	}
}
