package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"

	"watchtally/config"
	"watchtally/internal/cutoff"
	"watchtally/services/crunchyroll"
	"watchtally/services/history"
	"watchtally/services/report"
)

func main() {
	var (
		configPath    = flag.String("config", "settings.json", "Path to settings.json")
		limitOverride = flag.Int("limit", -1, "Override the entry processing limit for this run (-1 = use settings)")
	)
	flag.Parse()

	// Populate the environment from .env when present; a missing file is fine.
	_ = godotenv.Load()

	cfgManager := config.NewManager(*configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
		}
	}

	if *limitOverride >= 0 {
		settings.Run.Limit = *limitOverride
	}

	creds, err := config.CredentialsFromEnv()
	if err != nil {
		log.Fatalf("failed to load credentials: %v", err)
	}

	ctx := context.Background()

	httpc := &http.Client{Timeout: time.Duration(settings.Provider.RequestTimeoutSec) * time.Second}
	client := crunchyroll.NewClient(settings.Provider.BaseURL, httpc, settings.Provider.RetryAttempts)
	if err := client.Login(ctx, creds.Username, creds.Password); err != nil {
		log.Fatalf("failed to log in: %v", err)
	}

	fs := afero.NewOsFs()
	cutoffStore := cutoff.NewStore(fs, settings.Run.CutoffFile)

	cutoffDate, found, err := cutoffStore.Read()
	switch {
	case err != nil:
		log.Printf("Warning: error reading cutoff date: %v. Proceeding without a cutoff date.", err)
	case found:
		log.Printf("Previous cutoff date: %s", cutoffDate.Format(time.RFC3339))
	default:
		log.Printf("Warning: no cutoff date found, proceeding without one")
	}

	// Captured before scanning so entries played mid-run are picked up by the
	// next run instead of being skipped.
	runStart := time.Now().UTC()
	log.Printf("Run started at: %s", runStart.Format(time.RFC3339))

	opts := history.Options{Limit: settings.Run.Limit}
	if found {
		opts.Cutoff = cutoffDate
	}

	aggregator := history.NewService(client, opts)
	pager := client.WatchHistory(settings.Provider.PageSize)
	if err := aggregator.Run(ctx, pager); err != nil {
		log.Fatalf("failed to process watch history: %v", err)
	}

	writer := report.NewWriter(fs, settings.Run.ReportFile)
	filename, err := writer.Write(aggregator.Report())
	if err != nil {
		log.Fatalf("failed to write report: %v", err)
	}
	log.Printf("Extracted data saved to: %s", filename)
	log.Printf("Finished processing %d entries. Check %s for results.", aggregator.Processed(), filename)

	if err := cutoffStore.Write(runStart); err != nil {
		log.Fatalf("failed to update cutoff date: %v", err)
	}
	log.Printf("Updated cutoff date to: %s", runStart.Format(time.RFC3339))
}
