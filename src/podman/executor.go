package podman

import (
	"context"
	"fmt"
)

const (
	saveFormat = "--format=oci-archive"
	outputFlag = "--output"
)

// BuildSpec describes a single image build. The build context is always
// the executor's working directory.
type BuildSpec struct {
	Containerfile string
	NoCache       bool
}

// Executor binds a Runner to a TLS policy and a working directory and
// exposes one method per podman operation. Policy and directory are fixed
// at construction; every call decorates a fresh invocation, so a single
// Executor is safe for concurrent use as long as its Runner is.
type Executor struct {
	runner Runner
	tls    TLSPolicy
	dir    string
}

// NewExecutor creates an Executor that runs podman in dir under the given
// TLS policy.
func NewExecutor(runner Runner, tls TLSPolicy, dir string) *Executor {
	return &Executor{runner: runner, tls: tls, dir: dir}
}

// Dir returns the working directory podman runs in.
func (e *Executor) Dir() string {
	return e.dir
}

// Build builds an image from spec and returns the image identifier podman
// printed as its final stdout line. Build progress lands on stderr, which
// is informational here.
func (e *Executor) Build(ctx context.Context, spec BuildSpec) (string, error) {
	lines, err := e.run(ctx, Build, false,
		"--file="+spec.Containerfile,
		fmt.Sprintf("--no-cache=%t", spec.NoCache),
		".",
	)
	if err != nil {
		return "", fmt.Errorf("build %s: %w", spec.Containerfile, err)
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("build %s: %w", spec.Containerfile, ErrEmptyOutput)
	}
	return lines[len(lines)-1], nil
}

// Tag applies target as an additional name for the image identified by
// imageID.
func (e *Executor) Tag(ctx context.Context, imageID, target string) error {
	if _, err := e.run(ctx, Tag, true, imageID, target); err != nil {
		return fmt.Errorf("tag %s as %s: %w", imageID, target, err)
	}
	return nil
}

// Save exports image to archive as an OCI archive.
func (e *Executor) Save(ctx context.Context, archive, image string) error {
	if _, err := e.run(ctx, Save, true, saveFormat, outputFlag, archive, image); err != nil {
		return fmt.Errorf("save %s: %w", image, err)
	}
	return nil
}

// Push uploads image to its registry. Podman reports push progress on
// stderr even on success, so stderr is routed to the informational
// channel.
func (e *Executor) Push(ctx context.Context, image string) error {
	if _, err := e.run(ctx, Push, false, image); err != nil {
		return fmt.Errorf("push %s: %w", image, err)
	}
	return nil
}

// Login authenticates against registry. On failure the password is
// redacted from the returned error; the unredacted form never leaves this
// method.
func (e *Executor) Login(ctx context.Context, registry, user, password string) error {
	if _, err := e.run(ctx, Login, true, registry, "-u", user, "-p", password); err != nil {
		return fmt.Errorf("login %s: %w", registry, redactPassword(err, password))
	}
	return nil
}

// RemoveLocalImage deletes image from local storage.
func (e *Executor) RemoveLocalImage(ctx context.Context, image string) error {
	if _, err := e.run(ctx, Rmi, true, image); err != nil {
		return fmt.Errorf("rmi %s: %w", image, err)
	}
	return nil
}

func (e *Executor) run(ctx context.Context, cmd Command, stderrToError bool, extra ...string) ([]string, error) {
	return e.runner.Run(ctx, e.dir, Decorate(cmd, e.tls, extra...), stderrToError)
}
