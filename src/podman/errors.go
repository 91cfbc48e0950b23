package podman

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyOutput is returned when podman exits zero without printing the
// output line an operation needs to parse.
var ErrEmptyOutput = errors.New("no output captured")

// ProcessError describes a failed podman invocation: the process could not
// be started, or it ran and exited abnormally.
type ProcessError struct {
	Argv     Invocation
	ExitCode int      // -1 when no exit code was produced
	Output   []string // captured stdout and stderr lines
	launch   bool
	cause    error
}

func (e *ProcessError) Error() string {
	if e.launch {
		return fmt.Sprintf("%s: %v", e.Argv, e.cause)
	}
	msg := fmt.Sprintf("%s: exit status %d", e.Argv, e.ExitCode)
	if tail := lastLines(e.Output, 5); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.cause }

// LaunchFailure reports whether the binary could not be started at all,
// as opposed to running and exiting abnormally.
func (e *ProcessError) LaunchFailure() bool { return e.launch }

// lastLines joins up to n trailing output lines for compact error messages.
func lastLines(lines []string, n int) string {
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "; ")
}

const passwordMask = "*****"

// redactPassword rewrites every trace of "-p <password>" in a failed login
// error. Literal substring replacement, so passwords containing regex
// metacharacters cannot break the redaction itself. The unredacted error is
// dropped, not wrapped.
func redactPassword(err error, password string) error {
	if password == "" {
		return err
	}
	leak := "-p " + password
	masked := "-p " + passwordMask

	var pe *ProcessError
	if !errors.As(err, &pe) {
		return errors.New(strings.ReplaceAll(err.Error(), leak, masked))
	}

	red := &ProcessError{
		Argv:     maskSecrets(pe.Argv),
		ExitCode: pe.ExitCode,
		Output:   make([]string, len(pe.Output)),
		launch:   pe.launch,
		cause:    pe.cause,
	}
	for i, line := range pe.Output {
		red.Output[i] = strings.ReplaceAll(line, leak, masked)
	}
	return red
}

// maskSecrets returns a copy of inv with the value following any -p flag
// replaced by the mask.
func maskSecrets(inv Invocation) Invocation {
	out := append(Invocation(nil), inv...)
	for i := 0; i+1 < len(out); i++ {
		if out[i] == "-p" {
			out[i+1] = passwordMask
		}
	}
	return out
}
