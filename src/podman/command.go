// Package podman drives the podman binary as subprocesses. It decorates
// logical commands into full argument vectors, executes them in an explicit
// working directory, and interprets their results.
package podman

import "strings"

// Command identifies a podman subcommand the executor knows how to run.
type Command string

const (
	Build Command = "build"
	Tag   Command = "tag"
	Save  Command = "save"
	Push  Command = "push"
	Login Command = "login"
	Rmi   Command = "rmi"
)

// binaryName is the root token of every invocation.
const binaryName = "podman"

// TLSPolicy controls whether registry connections verify TLS certificates.
// The zero value leaves the decision to podman's own defaults.
type TLSPolicy int

const (
	TLSUnspecified TLSPolicy = iota
	TLSEnforce
	TLSSkip
)

// PolicyFromBool maps an optional config value onto a policy. A nil pointer
// means the config left TLS verification unspecified.
func PolicyFromBool(b *bool) TLSPolicy {
	switch {
	case b == nil:
		return TLSUnspecified
	case *b:
		return TLSEnforce
	default:
		return TLSSkip
	}
}

// Flag renders the policy as a podman flag, or "" when unspecified.
func (p TLSPolicy) Flag() string {
	switch p {
	case TLSEnforce:
		return "--tls-verify=true"
	case TLSSkip:
		return "--tls-verify=false"
	default:
		return ""
	}
}

func (p TLSPolicy) String() string {
	switch p {
	case TLSEnforce:
		return "enforce"
	case TLSSkip:
		return "skip"
	default:
		return "unspecified"
	}
}

// capabilities lists the global flags each subcommand accepts. Tag, save,
// and rmi touch local storage only; podman rejects --tls-verify for them.
var capabilities = map[Command]struct{ tlsVerify bool }{
	Build: {tlsVerify: true},
	Tag:   {},
	Save:  {},
	Push:  {tlsVerify: true},
	Login: {tlsVerify: true},
	Rmi:   {},
}

// Invocation is a fully decorated argument vector, ready to execute.
// Built fresh for every call, never reused across operations.
type Invocation []string

func (inv Invocation) String() string {
	return strings.Join(inv, " ")
}

// Decorate assembles the argv for one subcommand invocation: the binary
// token, the subcommand token, the TLS flag when the policy is set and the
// subcommand accepts it, then extra verbatim and in order.
func Decorate(cmd Command, tls TLSPolicy, extra ...string) Invocation {
	inv := make(Invocation, 0, len(extra)+3)
	inv = append(inv, binaryName, string(cmd))
	if capabilities[cmd].tlsVerify && tls != TLSUnspecified {
		inv = append(inv, tls.Flag())
	}
	return append(inv, extra...)
}
