package podman

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// Runner executes a decorated invocation and returns captured stdout lines
// in emission order.
type Runner interface {
	Run(ctx context.Context, dir string, inv Invocation, stderrToError bool) ([]string, error)
}

// ExecRunner runs invocations as OS subprocesses. Stdout streams to Out
// line-by-line as it arrives; stderr streams to Err, or to Out when the
// caller routes it to the informational channel. One process per call,
// fully synchronous.
type ExecRunner struct {
	Verbose bool
	Out     io.Writer // informational channel
	Err     io.Writer // error channel
}

// NewRunner creates an ExecRunner wired to the process's own stdio.
func NewRunner(verbose bool) *ExecRunner {
	return &ExecRunner{
		Verbose: verbose,
		Out:     os.Stdout,
		Err:     os.Stderr,
	}
}

// Run executes inv in dir. The returned lines are the process's stdout,
// ordered. A non-zero exit yields a *ProcessError carrying the exit code
// and the captured output; a process that cannot start yields a launch
// failure.
func (r *ExecRunner) Run(ctx context.Context, dir string, inv Invocation, stderrToError bool) ([]string, error) {
	if len(inv) == 0 {
		return nil, fmt.Errorf("empty invocation")
	}

	if r.Verbose {
		fmt.Fprintf(r.Err, "exec: %s (in %s)\n", maskSecrets(inv), dir)
	}

	cmd := exec.CommandContext(ctx, inv[0], inv[1:]...)
	cmd.Dir = dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, &ProcessError{Argv: inv, ExitCode: -1, launch: true, cause: err}
	}

	errWriter := r.Err
	if !stderrToError {
		errWriter = r.Out
	}

	var outLines, errLines []string
	var g errgroup.Group
	g.Go(func() error {
		sc := bufio.NewScanner(stdout)
		for sc.Scan() {
			line := sc.Text()
			outLines = append(outLines, line)
			fmt.Fprintln(r.Out, line)
		}
		return sc.Err()
	})
	g.Go(func() error {
		sc := bufio.NewScanner(stderr)
		for sc.Scan() {
			line := sc.Text()
			errLines = append(errLines, line)
			fmt.Fprintln(errWriter, line)
		}
		return sc.Err()
	})

	pumpErr := g.Wait()
	waitErr := cmd.Wait()

	if waitErr != nil {
		return nil, &ProcessError{
			Argv:     inv,
			ExitCode: cmd.ProcessState.ExitCode(),
			Output:   append(outLines, errLines...),
			cause:    waitErr,
		}
	}
	if pumpErr != nil {
		return nil, fmt.Errorf("reading %s output: %w", inv[0], pumpErr)
	}

	return outLines, nil
}
