package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Environment variables holding the streaming account credentials. They are
// read from the process environment (optionally populated from a .env file)
// and never persisted to the settings file.
const (
	EnvUsername = "CR_USERNAME"
	EnvPassword = "CR_PASSWORD"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Provider ProviderSettings `json:"provider"`
	Run      RunSettings      `json:"run"`
	Log      LogConfig        `json:"log"`
}

// ProviderSettings configures the streaming API client.
type ProviderSettings struct {
	BaseURL           string `json:"baseUrl"`
	PageSize          int    `json:"pageSize"`
	RequestTimeoutSec int    `json:"requestTimeoutSec"`
	RetryAttempts     int    `json:"retryAttempts"`
}

// RunSettings controls a single aggregation run.
type RunSettings struct {
	// Limit caps how many history entries are processed per run. 0 means
	// unlimited.
	Limit      int    `json:"limit"`
	CutoffFile string `json:"cutoffFile"`
	ReportFile string `json:"reportFile"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// Credentials holds the account login pair.
type Credentials struct {
	Username string
	Password string
}

// DefaultSettings returns the configuration written on first run.
func DefaultSettings() Settings {
	return Settings{
		Provider: ProviderSettings{
			BaseURL:           "https://beta-api.crunchyroll.com",
			PageSize:          100,
			RequestTimeoutSec: 30,
			RetryAttempts:     3,
		},
		Run: RunSettings{
			Limit:      0,
			CutoffFile: "cutoff_date.txt",
			ReportFile: "show_data.json",
		},
		Log: LogConfig{
			File:       "",
			MaxSize:    10,
			MaxAge:     30,
			MaxBackups: 3,
			Compress:   false,
		},
	}
}

// Manager owns the settings file on disk.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// EnsureDir creates the directory holding the settings file.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads settings from disk, creating the file with defaults when it
// does not exist. Fields missing from an existing file fall back to their
// defaults so older files keep working.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}

	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	s := DefaultSettings()
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	normalize(&s)
	return s, nil
}

// Save writes settings atomically via a temp file rename.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}

// normalize backfills zero values an older or hand-edited file may carry.
func normalize(s *Settings) {
	def := DefaultSettings()
	if s.Provider.BaseURL == "" {
		s.Provider.BaseURL = def.Provider.BaseURL
	}
	if s.Provider.PageSize <= 0 {
		s.Provider.PageSize = def.Provider.PageSize
	}
	if s.Provider.RequestTimeoutSec <= 0 {
		s.Provider.RequestTimeoutSec = def.Provider.RequestTimeoutSec
	}
	if s.Provider.RetryAttempts <= 0 {
		s.Provider.RetryAttempts = def.Provider.RetryAttempts
	}
	if s.Run.Limit < 0 {
		s.Run.Limit = 0
	}
	if s.Run.CutoffFile == "" {
		s.Run.CutoffFile = def.Run.CutoffFile
	}
	if s.Run.ReportFile == "" {
		s.Run.ReportFile = def.Run.ReportFile
	}
}

// CredentialsFromEnv reads the account credentials from the environment. The
// error names the first missing variable so the operator knows what to set.
func CredentialsFromEnv() (Credentials, error) {
	username := os.Getenv(EnvUsername)
	if username == "" {
		return Credentials{}, fmt.Errorf("missing %s in environment", EnvUsername)
	}
	password := os.Getenv(EnvPassword)
	if password == "" {
		return Credentials{}, fmt.Errorf("missing %s in environment", EnvPassword)
	}
	return Credentials{Username: username, Password: password}, nil
}
