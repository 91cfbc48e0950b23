package gitver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	return dir, repo
}

func commitFile(t *testing.T, dir string, repo *git.Repository, name, content string) plumbing.Hash {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	hash, err := wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}

func tagCommit(t *testing.T, repo *git.Repository, name string, hash plumbing.Hash) {
	t.Helper()
	if _, err := repo.CreateTag(name, hash, nil); err != nil {
		t.Fatalf("tag %s: %v", name, err)
	}
}

func TestDetectVersionRelease(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commitFile(t, dir, repo, "a.txt", "a")
	tagCommit(t, repo, "v1.2.3", hash)

	v, err := DetectVersion(dir)
	if err != nil {
		t.Fatalf("DetectVersion failed: %v", err)
	}
	if !v.IsRelease {
		t.Fatal("HEAD at tag should be a release")
	}
	if v.Version != "1.2.3" || v.Base != "1.2.3" {
		t.Fatalf("Version = %q, Base = %q, want 1.2.3", v.Version, v.Base)
	}
	if v.Major != "1" || v.Minor != "2" || v.Patch != "3" {
		t.Fatalf("components = %s.%s.%s, want 1.2.3", v.Major, v.Minor, v.Patch)
	}
	if v.IsPrerelease || v.Prerelease != "" {
		t.Fatalf("Prerelease = %q, want stable", v.Prerelease)
	}
	if len(v.SHA) != 7 {
		t.Fatalf("SHA = %q, want 7 chars", v.SHA)
	}
}

func TestDetectVersionPrerelease(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commitFile(t, dir, repo, "a.txt", "a")
	tagCommit(t, repo, "v2.0.0-alpha.1", hash)

	v, err := DetectVersion(dir)
	if err != nil {
		t.Fatalf("DetectVersion failed: %v", err)
	}
	if v.Version != "2.0.0-alpha.1" {
		t.Fatalf("Version = %q, want 2.0.0-alpha.1", v.Version)
	}
	if !v.IsPrerelease || v.Prerelease != "alpha.1" {
		t.Fatalf("Prerelease = %q, IsPrerelease = %v", v.Prerelease, v.IsPrerelease)
	}
	if !v.IsRelease {
		t.Fatal("HEAD at tag should be a release")
	}
}

func TestDetectVersionNoTags(t *testing.T) {
	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "a.txt", "a")

	v, err := DetectVersion(dir)
	if err != nil {
		t.Fatalf("DetectVersion failed: %v", err)
	}
	if v.IsRelease {
		t.Fatal("untagged HEAD should not be a release")
	}
	want := "0.0.0-dev+" + v.SHA
	if v.Version != want {
		t.Fatalf("Version = %q, want %q", v.Version, want)
	}
	if v.Base != "0.0.0" {
		t.Fatalf("Base = %q, want 0.0.0", v.Base)
	}
}

func TestDetectVersionAheadOfTag(t *testing.T) {
	dir, repo := initRepo(t)
	first := commitFile(t, dir, repo, "a.txt", "a")
	tagCommit(t, repo, "v1.0.0", first)
	commitFile(t, dir, repo, "b.txt", "b")

	v, err := DetectVersion(dir)
	if err != nil {
		t.Fatalf("DetectVersion failed: %v", err)
	}
	if v.IsRelease {
		t.Fatal("HEAD past the tag should not be a release")
	}
	want := "1.0.0-dev+" + v.SHA
	if v.Version != want {
		t.Fatalf("Version = %q, want %q", v.Version, want)
	}
}

func TestDetectVersionPicksHighestTag(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commitFile(t, dir, repo, "a.txt", "a")
	tagCommit(t, repo, "v0.9.0", hash)
	tagCommit(t, repo, "v1.10.0", hash)
	tagCommit(t, repo, "v1.2.0", hash)
	tagCommit(t, repo, "not-a-version", hash)

	v, err := DetectVersion(dir)
	if err != nil {
		t.Fatalf("DetectVersion failed: %v", err)
	}
	if v.Version != "1.10.0" {
		t.Fatalf("Version = %q, want highest tag 1.10.0", v.Version)
	}
}

func TestDetectVersionBranch(t *testing.T) {
	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "a.txt", "a")

	v, err := DetectVersion(dir)
	if err != nil {
		t.Fatalf("DetectVersion failed: %v", err)
	}
	if v.Branch == "" {
		t.Fatal("Branch should be resolved for a branch HEAD")
	}
}

func TestDetectVersionNotARepo(t *testing.T) {
	if _, err := DetectVersion(t.TempDir()); err == nil {
		t.Fatal("DetectVersion should fail outside a repository")
	}
}
