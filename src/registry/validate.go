package registry

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/distribution/reference"
)

// ociTagRe matches OCI tags: alphanumeric, -, _, ., max 128 chars,
// starting alphanumeric.
var ociTagRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

// ValidateImageName checks that name is a valid repository path without
// a tag or digest.
func ValidateImageName(name string) error {
	if name == "" {
		return fmt.Errorf("image name is empty")
	}
	if containsControlChars(name) {
		return fmt.Errorf("image name %q contains control characters", name)
	}
	named, err := reference.ParseNormalizedNamed(name)
	if err != nil {
		return fmt.Errorf("image name %q: %w", name, err)
	}
	if !reference.IsNameOnly(named) {
		return fmt.Errorf("image name %q must not include a tag or digest", name)
	}
	return nil
}

// ValidateTag checks that a resolved tag conforms to the OCI spec.
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("tag is empty")
	}
	if containsControlChars(tag) {
		return fmt.Errorf("tag %q contains control characters", tag)
	}
	if len(tag) > 128 {
		return fmt.Errorf("tag %q exceeds 128 characters", tag)
	}
	if !ociTagRe.MatchString(tag) {
		return fmt.Errorf("tag %q contains invalid characters (OCI spec: alphanumeric, -, _, .)", tag)
	}
	return nil
}

// ValidateTagTemplate checks that an unresolved tag template is
// structurally valid. Allows {var} and {var:param} syntax. Rejects
// unclosed braces, spaces, control chars.
func ValidateTagTemplate(tmpl string) error {
	if tmpl == "" {
		return fmt.Errorf("tag template is empty")
	}
	if containsControlChars(tmpl) {
		return fmt.Errorf("tag template %q contains control characters", tmpl)
	}
	if strings.ContainsAny(tmpl, " \t\n\r") {
		return fmt.Errorf("tag template %q contains whitespace", tmpl)
	}

	depth := 0
	for i, c := range tmpl {
		switch c {
		case '{':
			depth++
			if depth > 1 {
				return fmt.Errorf("tag template %q has nested braces at position %d", tmpl, i)
			}
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("tag template %q has unmatched closing brace at position %d", tmpl, i)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("tag template %q has unclosed brace", tmpl)
	}

	return nil
}

// ValidateHost checks that a registry host is well-formed: host or
// host:port, no scheme, no path.
func ValidateHost(host string) error {
	if host == "" {
		return fmt.Errorf("registry host is empty")
	}
	if containsControlChars(host) {
		return fmt.Errorf("registry host %q contains control characters", host)
	}
	if strings.Contains(host, "://") {
		return fmt.Errorf("registry host %q must not include a scheme", host)
	}
	if strings.ContainsAny(host, " \t{}[]<>\"'`") {
		return fmt.Errorf("registry host %q contains invalid characters", host)
	}
	return nil
}

// containsControlChars returns true if the string has any ASCII control
// characters.
func containsControlChars(s string) bool {
	for _, r := range s {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
		if r == unicode.ReplacementChar {
			return true
		}
	}
	return false
}
