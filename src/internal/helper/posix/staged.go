// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// ErrAlreadyCommitted indicates that Commit was called twice.
var ErrAlreadyCommitted = errors.New("posix: staged file already committed")

// StagedFile is a file written to a temporary name in its destination directory,
// waiting to be published under its final name.
type StagedFile struct {
	pending   *renameio.PendingFile
	path      string
	committed bool
}

// Stage writes data to a temporary file in the directory of path with the given
// permissions. Nothing is visible under path until Commit.
//
// Parameters:
//   - path: Final destination of the file
//   - data: File contents
//   - perm: Permission bits of the final file, applied regardless of the umask
//
// Returns:
//   - *StagedFile: Handle used to commit or discard the file
//   - error: Error if the temporary file cannot be created or written
func Stage(path string, data []byte, perm os.FileMode) (*StagedFile, error) {
	pending, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(filepath.Dir(path)),
		renameio.WithStaticPermissions(perm),
	)
	if err != nil {
		return nil, err
	}

	if _, err := pending.Write(data); err != nil {
		pending.Cleanup()
		return nil, err
	}

	return &StagedFile{pending: pending, path: path}, nil
}

// Path returns the final destination.
func (s *StagedFile) Path() string { return s.path }

// Commit syncs the temporary file and atomically renames it to its final name.
func (s *StagedFile) Commit() error {
	if s.committed {
		return ErrAlreadyCommitted
	}
	if err := s.pending.CloseAtomicallyReplace(); err != nil {
		return err
	}
	s.committed = true
	return nil
}

// Discard removes the temporary file, or the published file when already committed.
// It is safe to call on a nil handle and more than once.
func (s *StagedFile) Discard() {
	if s == nil {
		return
	}
	if s.committed {
		os.Remove(s.path)
		s.committed = false
		return
	}
	s.pending.Cleanup()
}
