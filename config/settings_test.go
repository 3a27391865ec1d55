package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	mgr := NewManager(path)

	s, err := mgr.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Provider.BaseURL == "" || s.Provider.PageSize != 100 {
		t.Fatalf("unexpected defaults: %+v", s.Provider)
	}
	if s.Run.CutoffFile != "cutoff_date.txt" || s.Run.ReportFile != "show_data.json" {
		t.Fatalf("unexpected run defaults: %+v", s.Run)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected settings file to be created: %v", err)
	}
}

func TestLoadBackfillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	partial := `{"run": {"limit": 25}}`
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	s, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Run.Limit != 25 {
		t.Fatalf("explicit limit lost: %+v", s.Run)
	}
	if s.Provider.PageSize != 100 || s.Provider.RetryAttempts != 3 {
		t.Fatalf("provider defaults not backfilled: %+v", s.Provider)
	}
	if s.Run.CutoffFile != "cutoff_date.txt" {
		t.Fatalf("cutoff file default not backfilled: %+v", s.Run)
	}
}

func TestLoadRejectsMalformedSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	if _, err := NewManager(path).Load(); err == nil {
		t.Fatalf("expected parse error for malformed settings")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	mgr := NewManager(path)

	s := DefaultSettings()
	s.Run.Limit = 7
	s.Log.File = "logs/watchtally.log"
	if err := mgr.Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := mgr.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Run.Limit != 7 || got.Log.File != "logs/watchtally.log" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv(EnvUsername, "user@example.com")
	t.Setenv(EnvPassword, "hunter2")

	creds, err := CredentialsFromEnv()
	if err != nil {
		t.Fatalf("CredentialsFromEnv failed: %v", err)
	}
	if creds.Username != "user@example.com" || creds.Password != "hunter2" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
}

func TestCredentialsFromEnvNamesMissingVariable(t *testing.T) {
	t.Setenv(EnvUsername, "")
	t.Setenv(EnvPassword, "hunter2")

	_, err := CredentialsFromEnv()
	if err == nil || !strings.Contains(err.Error(), EnvUsername) {
		t.Fatalf("expected error naming %s, got %v", EnvUsername, err)
	}

	t.Setenv(EnvUsername, "user@example.com")
	t.Setenv(EnvPassword, "")
	_, err = CredentialsFromEnv()
	if err == nil || !strings.Contains(err.Error(), EnvPassword) {
		t.Fatalf("expected error naming %s, got %v", EnvPassword, err)
	}
}
