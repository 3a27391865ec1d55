// Package report serializes aggregation results to disk.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"watchtally/models"
)

// Writer persists report files under collision-free names.
type Writer struct {
	fs       afero.Fs
	basePath string
}

// NewWriter returns a writer that derives filenames from basePath
// (e.g. "show_data.json").
func NewWriter(fsys afero.Fs, basePath string) *Writer {
	return &Writer{fs: fsys, basePath: basePath}
}

// Write serializes entries as pretty-printed JSON to the first unused
// filename derived from the base path and returns the name used. Existing
// reports are never overwritten.
func (w *Writer) Write(entries []models.ReportEntry) (string, error) {
	if entries == nil {
		entries = []models.ReportEntry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	name, err := w.uniqueName()
	if err != nil {
		return "", err
	}
	if err := afero.WriteFile(w.fs, name, data, 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", name, err)
	}
	return name, nil
}

// uniqueName returns the base path, or the first "-N" suffixed variant that
// does not exist yet.
func (w *Writer) uniqueName() (string, error) {
	ext := filepath.Ext(w.basePath)
	stem := strings.TrimSuffix(w.basePath, ext)

	name := w.basePath
	for counter := 1; ; counter++ {
		exists, err := afero.Exists(w.fs, name)
		if err != nil {
			return "", fmt.Errorf("check report name %s: %w", name, err)
		}
		if !exists {
			return name, nil
		}
		name = fmt.Sprintf("%s-%d%s", stem, counter, ext)
	}
}
