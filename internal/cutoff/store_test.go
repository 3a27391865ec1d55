package cutoff

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestReadMissingFileMeansNoCutoff(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "cutoff_date.txt")

	_, found, err := store.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if found {
		t.Fatalf("expected no cutoff for missing file")
	}
}

func TestReadEmptyFileMeansNoCutoff(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "cutoff_date.txt", []byte("  \n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	store := NewStore(fs, "cutoff_date.txt")

	_, found, err := store.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if found {
		t.Fatalf("expected no cutoff for blank file")
	}
}

func TestReadMalformedContentReturnsInvalidCutoff(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "cutoff_date.txt", []byte("yesterday-ish"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	store := NewStore(fs, "cutoff_date.txt")

	_, found, err := store.Read()
	if !errors.Is(err, ErrInvalidCutoff) {
		t.Fatalf("expected ErrInvalidCutoff, got %v", err)
	}
	if found {
		t.Fatalf("malformed content must not report a cutoff")
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "cutoff_date.txt")
	want := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	if err := store.Write(want); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, found, err := store.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !found {
		t.Fatalf("expected a cutoff after write")
	}
	if !got.Equal(want) {
		t.Fatalf("round trip mismatch: wrote %v, read %v", want, got)
	}
}

func TestWriteOverwritesPreviousCutoff(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "cutoff_date.txt")
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)

	if err := store.Write(first); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := store.Write(second); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	got, _, err := store.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !got.Equal(second) {
		t.Fatalf("expected %v after overwrite, got %v", second, got)
	}
}
