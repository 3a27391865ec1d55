// Package cutoff persists the timestamp boundary between runs: history
// entries played before the stored instant were already aggregated by a
// previous run and are skipped.
package cutoff

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// ErrInvalidCutoff reports a cutoff file whose non-empty content does not
// parse as an RFC3339 timestamp. Callers treat it as "no cutoff" and warn.
var ErrInvalidCutoff = errors.New("invalid cutoff timestamp")

// Store reads and writes the cutoff file.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore returns a store over the given filesystem and path.
func NewStore(fsys afero.Fs, path string) *Store {
	return &Store{fs: fsys, path: path}
}

// Read returns the stored cutoff and whether one is present. A missing or
// empty file yields ok=false with no error.
func (s *Store) Read() (time.Time, bool, error) {
	raw, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("read cutoff file: %w", err)
	}

	content := strings.TrimSpace(string(raw))
	if content == "" {
		return time.Time{}, false, nil
	}

	t, err := time.Parse(time.RFC3339, content)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidCutoff, content)
	}
	return t, true, nil
}

// Write overwrites the cutoff file with the canonical form of t, creating
// the file when absent.
func (s *Store) Write(t time.Time) error {
	line := t.UTC().Format(time.RFC3339) + "\n"
	if err := afero.WriteFile(s.fs, s.path, []byte(line), 0o644); err != nil {
		return fmt.Errorf("write cutoff file: %w", err)
	}
	return nil
}
