package gitver

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ResolveTemplate expands template variables in a single string against
// version info and environment. Works on any part of an image reference,
// registry host, repository path, or tag.
//
// Supported templates:
//
//	Simple variables:
//	  {version}          → "1.2.3" or "1.2.3-alpha.1" (full version)
//	  {base}             → "1.2.3" (semver base, no prerelease)
//	  {major}            → "1"
//	  {minor}            → "2"
//	  {patch}            → "3"
//	  {prerelease}       → "alpha.1" or "" (empty for stable)
//	  {branch}           → "main", "develop"
//
//	Width-controlled variables — {sha:N} truncates to N:
//	  {sha}              → "abc1234" (default 7)
//	  {sha:12}           → "abc1234def01" (first 12 chars)
//
//	Environment variables:
//	  {env:VAR_NAME}     → value of environment variable
//
//	Time variables:
//	  {date}             → "2026-08-21" (ISO date, UTC)
//	  {date:FORMAT}      → custom Go time layout (e.g. {date:20060102})
//
//	Literals pass through as-is:
//	  "latest"           → "latest"
//
// Templates compose freely in any position:
//
//	"{env:REGISTRY}/myorg/myapp:{version}"
//	"{branch}-{sha:10}"
func ResolveTemplate(tmpl string, v *VersionInfo) string {
	if v == nil {
		return tmpl
	}

	s := tmpl

	// Parameterized templates first; their colons would collide with the
	// simple replacements below.
	s = resolveEnvVars(s)
	s = resolveSHA(s, v.SHA)
	s = resolveDate(s)

	s = strings.ReplaceAll(s, "{version}", v.Version)
	s = strings.ReplaceAll(s, "{base}", v.Base)
	s = strings.ReplaceAll(s, "{major}", v.Major)
	s = strings.ReplaceAll(s, "{minor}", v.Minor)
	s = strings.ReplaceAll(s, "{patch}", v.Patch)
	s = strings.ReplaceAll(s, "{prerelease}", v.Prerelease)
	s = strings.ReplaceAll(s, "{branch}", sanitizeTag(v.Branch))
	s = strings.ReplaceAll(s, "{sha}", truncate(v.SHA, 7))

	return s
}

// ResolveTags expands tag templates against version info.
func ResolveTags(templates []string, v *VersionInfo) []string {
	if v == nil {
		return templates
	}
	tags := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		tags = append(tags, ResolveTemplate(tmpl, v))
	}
	return tags
}

// ExpandSemver appends rolling tags for a stable release: a resolved
// "1.2.3" also gets "1.2" and "1". Prerelease and dev versions expand to
// nothing extra.
func ExpandSemver(tags []string, v *VersionInfo) []string {
	if v == nil || !v.IsRelease || v.IsPrerelease {
		return tags
	}
	out := append([]string(nil), tags...)
	for _, extra := range []string{v.Major + "." + v.Minor, v.Major} {
		if !containsTag(out, extra) {
			out = append(out, extra)
		}
	}
	return out
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// resolveEnvVars replaces all {env:VAR_NAME} with the env var value.
func resolveEnvVars(s string) string {
	for {
		start := strings.Index(s, "{env:")
		if start == -1 {
			return s
		}
		end := strings.Index(s[start:], "}")
		if end == -1 {
			return s
		}
		end += start
		varName := s[start+5 : end]
		val := os.Getenv(varName)
		s = s[:start] + val + s[end+1:]
	}
}

// resolveSHA replaces {sha:N} with the SHA truncated to N chars.
// Plain {sha} is handled by the simple replacement pass.
func resolveSHA(s string, sha string) string {
	for {
		start := strings.Index(s, "{sha:")
		if start == -1 {
			return s
		}
		end := strings.Index(s[start:], "}")
		if end == -1 {
			return s
		}
		end += start
		widthStr := s[start+5 : end]
		width, err := strconv.Atoi(widthStr)
		if err != nil || width <= 0 {
			width = 7
		}
		s = s[:start] + truncate(sha, width) + s[end+1:]
	}
}

// resolveDate replaces {date:FORMAT} and then plain {date}.
// {date:FORMAT} must resolve first because {date} is its substring.
func resolveDate(s string) string {
	now := time.Now().UTC()
	for {
		start := strings.Index(s, "{date:")
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], "}")
		if end == -1 {
			break
		}
		end += start
		layout := s[start+6 : end]
		if layout == "" {
			break
		}
		s = s[:start] + now.Format(layout) + s[end+1:]
	}
	return strings.ReplaceAll(s, "{date}", now.Format("2006-01-02"))
}

// truncate returns the first n characters of s, or s if shorter.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// sanitizeTag replaces characters not allowed in image tags.
func sanitizeTag(s string) string {
	r := strings.NewReplacer(
		"/", "-",
		" ", "-",
	)
	return r.Replace(s)
}
