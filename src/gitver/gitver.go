// Package gitver resolves version metadata from the git repository a
// build runs in. Semver tags drive the version; template.go expands tag
// templates against the result.
package gitver

import (
	"fmt"
	"strconv"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// VersionInfo holds resolved version metadata from git.
type VersionInfo struct {
	Version      string // full version: "1.2.3", "1.2.3-alpha.1", "0.0.0-dev+abc1234"
	Base         string // semver base without prerelease: "1.2.3"
	Major        string
	Minor        string
	Patch        string
	Prerelease   string // "alpha.1", "beta.2", or "" for stable
	SHA          string
	Branch       string
	IsRelease    bool // true if HEAD is exactly at a semver tag
	IsPrerelease bool // true if the tag has a prerelease suffix
}

// DetectVersion resolves version info from the repository containing
// rootDir. HEAD exactly at a semver tag is a release; otherwise the
// highest semver tag (or 0.0.0 when there are none) gets a dev suffix
// carrying the short SHA.
func DetectVersion(rootDir string) (*VersionInfo, error) {
	repo, err := git.PlainOpenWithOptions(rootDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	v := &VersionInfo{SHA: head.Hash().String()[:7]}
	if head.Name().IsBranch() {
		v.Branch = head.Name().Short()
	}

	atHead, highest := tagVersions(repo, head.Hash())

	switch {
	case atHead != nil:
		v.IsRelease = true
		fillSemver(v, atHead)
	case highest != nil:
		fillSemver(v, highest)
		v.Version = fmt.Sprintf("%s-dev+%s", v.Version, v.SHA)
	default:
		// No tags at all
		v.Version = fmt.Sprintf("0.0.0-dev+%s", v.SHA)
		v.Base = "0.0.0"
		v.Major, v.Minor, v.Patch = "0", "0", "0"
	}

	return v, nil
}

// tagVersions scans the repository's tags and returns the highest semver
// tag pointing at head plus the highest semver tag overall. Non-semver
// tags are ignored; annotated tags are peeled to their commit. Either
// result may be nil.
func tagVersions(repo *git.Repository, head plumbing.Hash) (atHead, highest *semver.Version) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, nil
	}
	defer iter.Close()

	_ = iter.ForEach(func(ref *plumbing.Reference) error {
		ver, err := semver.NewVersion(ref.Name().Short())
		if err != nil {
			return nil
		}
		target := ref.Hash()
		if tag, err := repo.TagObject(ref.Hash()); err == nil {
			target = tag.Target
		}
		if highest == nil || ver.GreaterThan(highest) {
			highest = ver
		}
		if target == head && (atHead == nil || ver.GreaterThan(atHead)) {
			atHead = ver
		}
		return nil
	})
	return atHead, highest
}

// fillSemver copies the parsed components into v.
func fillSemver(v *VersionInfo, ver *semver.Version) {
	v.Major = strconv.FormatUint(ver.Major(), 10)
	v.Minor = strconv.FormatUint(ver.Minor(), 10)
	v.Patch = strconv.FormatUint(ver.Patch(), 10)
	v.Base = fmt.Sprintf("%s.%s.%s", v.Major, v.Minor, v.Patch)
	v.Prerelease = ver.Prerelease()
	v.IsPrerelease = v.Prerelease != ""
	if v.IsPrerelease {
		v.Version = fmt.Sprintf("%s-%s", v.Base, v.Prerelease)
	} else {
		v.Version = v.Base
	}
}
