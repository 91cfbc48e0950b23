package podman

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func runShell(t *testing.T, r *ExecRunner, script string, stderrToError bool) ([]string, error) {
	t.Helper()
	inv := Invocation{"/bin/sh", "-c", script}
	return r.Run(context.Background(), t.TempDir(), inv, stderrToError)
}

func TestRunCapturesStdoutInOrder(t *testing.T) {
	r := &ExecRunner{Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}
	lines, err := runShell(t, r, "echo one; echo two; echo three", true)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := []string{"one", "two", "three"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %#v, want %#v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRunReportsExitCode(t *testing.T) {
	r := &ExecRunner{Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}
	_, err := runShell(t, r, "echo failing; exit 3", true)
	if err == nil {
		t.Fatal("Run succeeded, want exit failure")
	}
	var pe *ProcessError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *ProcessError", err)
	}
	if pe.ExitCode != 3 {
		t.Fatalf("ExitCode = %d, want 3", pe.ExitCode)
	}
	if pe.LaunchFailure() {
		t.Fatal("LaunchFailure() = true for an exit failure")
	}
	if len(pe.Output) == 0 || pe.Output[0] != "failing" {
		t.Fatalf("Output = %#v, want captured stdout first", pe.Output)
	}
}

func TestRunLaunchFailure(t *testing.T) {
	r := &ExecRunner{Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}
	inv := Invocation{"/nonexistent-binary-for-test"}
	_, err := r.Run(context.Background(), t.TempDir(), inv, true)
	if err == nil {
		t.Fatal("Run succeeded, want launch failure")
	}
	var pe *ProcessError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *ProcessError", err)
	}
	if !pe.LaunchFailure() {
		t.Fatal("LaunchFailure() = false, want true")
	}
	if pe.ExitCode != -1 {
		t.Fatalf("ExitCode = %d, want -1", pe.ExitCode)
	}
}

func TestRunRoutesStderrToErrorChannel(t *testing.T) {
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	r := &ExecRunner{Out: out, Err: errBuf}
	_, err := runShell(t, r, "echo visible; echo scary >&2", true)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(errBuf.String(), "scary") {
		t.Fatalf("Err channel = %q, want stderr routed here", errBuf.String())
	}
	if strings.Contains(out.String(), "scary") {
		t.Fatalf("Out channel = %q, stderr leaked into it", out.String())
	}
}

func TestRunRoutesStderrToInfoChannel(t *testing.T) {
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	r := &ExecRunner{Out: out, Err: errBuf}
	lines, err := runShell(t, r, "echo 'Copying blob done' >&2; echo pushed", false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Copying blob done") {
		t.Fatalf("Out channel = %q, want benign stderr routed here", out.String())
	}
	if errBuf.Len() != 0 {
		t.Fatalf("Err channel = %q, want empty", errBuf.String())
	}
	if len(lines) != 1 || lines[0] != "pushed" {
		t.Fatalf("lines = %#v, want stdout only", lines)
	}
}

func TestRunEmptyInvocation(t *testing.T) {
	r := &ExecRunner{Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}
	if _, err := r.Run(context.Background(), t.TempDir(), nil, true); err == nil {
		t.Fatal("Run accepted an empty invocation")
	}
}

func TestRunVerboseEchoesInvocation(t *testing.T) {
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	r := &ExecRunner{Verbose: true, Out: out, Err: errBuf}
	if _, err := runShell(t, r, "true", true); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(errBuf.String(), "exec: /bin/sh -c true") {
		t.Fatalf("Err channel = %q, want exec trace", errBuf.String())
	}
}

func TestRunVerboseMasksPasswordArgs(t *testing.T) {
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	r := &ExecRunner{Verbose: true, Out: out, Err: errBuf}
	inv := Invocation{"/bin/sh", "-c", "true", "-p", "hunter2"}
	if _, err := r.Run(context.Background(), t.TempDir(), inv, true); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.Contains(errBuf.String(), "hunter2") {
		t.Fatalf("Err channel = %q, password leaked into exec trace", errBuf.String())
	}
	if !strings.Contains(errBuf.String(), "-p *****") {
		t.Fatalf("Err channel = %q, want masked password", errBuf.String())
	}
}
