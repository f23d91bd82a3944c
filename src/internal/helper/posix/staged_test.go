// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestStagedFile(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T, dir string)
	}{
		{
			name: "Commit Publishes",
			testFunc: func(t *testing.T, dir string) {
				path := filepath.Join(dir, "a.cer")
				s, err := Stage(path, []byte("cert"), 0600)
				require.NoError(t, err)

				_, err = os.Stat(path)
				assert.ErrorIs(t, err, os.ErrNotExist, "nothing visible before commit")

				require.NoError(t, s.Commit())
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, "cert", string(data))
				assert.Equal(t, []string{"a.cer"}, dirEntries(t, dir))
				assert.ErrorIs(t, s.Commit(), ErrAlreadyCommitted)

				if runtime.GOOS != "windows" {
					info, err := os.Stat(path)
					require.NoError(t, err)
					assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
				}
			},
		},
		{
			name: "Discard Before Commit",
			testFunc: func(t *testing.T, dir string) {
				s, err := Stage(filepath.Join(dir, "b.pem"), []byte("key"), 0600)
				require.NoError(t, err)
				s.Discard()
				assert.Empty(t, dirEntries(t, dir))
			},
		},
		{
			name: "Discard After Commit",
			testFunc: func(t *testing.T, dir string) {
				s, err := Stage(filepath.Join(dir, "c.pem"), []byte("key"), 0600)
				require.NoError(t, err)
				require.NoError(t, s.Commit())
				s.Discard()
				s.Discard()
				assert.Empty(t, dirEntries(t, dir))
			},
		},
		{
			name: "Commit Replaces Existing File",
			testFunc: func(t *testing.T, dir string) {
				path := filepath.Join(dir, "e.cer")
				require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

				s, err := Stage(path, []byte("new"), 0600)
				require.NoError(t, err)

				data, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, "old", string(data), "previous contents stay until commit")

				require.NoError(t, s.Commit())
				data, err = os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, "new", string(data))
				assert.Equal(t, []string{"e.cer"}, dirEntries(t, dir))
			},
		},
		{
			name: "Temporary File Stays In Destination Directory",
			testFunc: func(t *testing.T, dir string) {
				s, err := Stage(filepath.Join(dir, "f.pem"), []byte("key"), 0600)
				require.NoError(t, err)
				defer s.Discard()

				entries := dirEntries(t, dir)
				require.Len(t, entries, 1)
				assert.True(t, strings.HasPrefix(entries[0], ".f.pem"))
			},
		},
		{
			name: "Missing Directory",
			testFunc: func(t *testing.T, dir string) {
				_, err := Stage(filepath.Join(dir, "missing", "d.pem"), []byte("key"), 0600)
				assert.Error(t, err)

				var nilFile *StagedFile
				nilFile.Discard()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t, t.TempDir())
		})
	}
}
