// Package leakcheck gates image builds on a secret scan of the build
// context, using gitleaks' default ruleset.
package leakcheck

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zricethezav/gitleaks/v8/detect"
)

// maxFileSize bounds what the detector is fed; anything larger is likely
// a binary artifact, not source.
const maxFileSize = 512 * 1024

// Finding is one detected secret.
type Finding struct {
	File        string
	Line        int
	RuleID      string
	Description string
}

// Scanner scans build contexts for leaked credentials.
type Scanner struct {
	detector *detect.Detector
}

// NewScanner creates a Scanner with the gitleaks default config.
func NewScanner() (*Scanner, error) {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("loading gitleaks config: %w", err)
	}
	return &Scanner{detector: d}, nil
}

// ScanDir walks dir and reports every secret found in regular files.
// The .git directory and oversized files are skipped.
func (s *Scanner) ScanDir(ctx context.Context, dir string) ([]Finding, error) {
	var findings []Finding

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() || info.Size() > maxFileSize {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		for _, h := range s.detector.DetectBytes(data) {
			findings = append(findings, Finding{
				File:        rel,
				Line:        h.StartLine + 1, // gitleaks is 0-indexed
				RuleID:      h.RuleID,
				Description: h.Description,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	return findings, nil
}
