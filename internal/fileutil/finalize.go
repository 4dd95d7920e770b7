// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	ownerReadWrite = 0o600
	executableBits = 0o111
)

// TempPattern returns the os.CreateTemp pattern for a temp file beside outPath.
func TempPattern(outPath string) string {
	return "." + filepath.Base(outPath) + ".*.tmp"
}

// IsTemp reports whether path names a temp file created by NewTempContext,
// e.g. one left behind by an interrupted run.
func IsTemp(path string) bool {
	base := filepath.Base(path)

	if !strings.HasPrefix(base, ".") || !strings.HasSuffix(base, ".tmp") {
		return false
	}

	name := strings.TrimSuffix(strings.TrimPrefix(base, "."), ".tmp")

	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 || dot == len(name)-1 {
		return false
	}

	for _, r := range name[dot+1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// TempContext holds state for an atomic file write operation.
// Output is written to a hidden temp file beside the destination and renamed into place on Commit.
type TempContext struct {
	SrcInfo os.FileInfo
	TmpFile *os.File
	TmpName string
	IsExec  bool

	committed bool
}

// NewTempContext stats the source file and creates a temp file for atomic writing.
// Caller must defer CleanupOnError.
func NewTempContext(filename, outPath string) (*TempContext, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", filename, err)
	}

	// The temp name never ends in the container suffix, so a leftover is not mistaken for one.
	tmpFile, err := os.CreateTemp(filepath.Dir(outPath), TempPattern(outPath))
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &TempContext{
		SrcInfo: info,
		TmpFile: tmpFile,
		TmpName: tmpFile.Name(),
		IsExec:  info.Mode()&executableBits != 0,
	}, nil
}

// Perm returns the mode for the output: owner read/write, plus the execute bits if the source had any.
func (tc *TempContext) Perm() os.FileMode {
	perm := os.FileMode(ownerReadWrite)

	if tc.IsExec {
		perm |= executableBits
	}

	return perm
}

// Commit sets the output mode, flushes and closes the temp file, then renames it to outPath.
// It returns the size of the committed output.
func (tc *TempContext) Commit(outPath string, preserveTimestamps bool) (int64, error) {
	if err := tc.TmpFile.Chmod(tc.Perm()); err != nil {
		return 0, fmt.Errorf("setting file permissions: %w", err)
	}

	if err := tc.TmpFile.Sync(); err != nil {
		return 0, fmt.Errorf("syncing temporary file: %w", err)
	}

	if err := tc.TmpFile.Close(); err != nil {
		return 0, fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tc.TmpName, outPath); err != nil {
		return 0, fmt.Errorf("renaming output file: %w", err)
	}

	tc.committed = true

	return FinalizeOutput(outPath, preserveTimestamps, tc.SrcInfo.ModTime())
}

// CleanupOnError closes the temp file and removes it if the write failed.
func (tc *TempContext) CleanupOnError(errp *error) {
	tc.TmpFile.Close() //nolint:errcheck,gosec // best-effort cleanup, may already be closed

	if *errp != nil && !tc.committed {
		os.Remove(tc.TmpName) //nolint:errcheck,gosec // best-effort cleanup
	}
}

// FinalizeOutput optionally preserves timestamps and returns the output file size.
func FinalizeOutput(outPath string, preserveTimestamps bool, modTime time.Time) (int64, error) {
	if preserveTimestamps {
		if err := os.Chtimes(outPath, modTime, modTime); err != nil {
			return 0, fmt.Errorf("preserving timestamps: %w", err)
		}
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", outPath, err)
	}

	return outInfo.Size(), nil
}

// RemoveIfExists deletes path, treating a missing file as success.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %q: %w", path, err)
	}

	return nil
}
