// Package history aggregates a watch-history feed into per-title episode
// counts and first-seen series metadata.
package history

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"watchtally/models"
	"watchtally/services/crunchyroll"
)

// MediaResolver resolves a history entry's parent id to a concrete media
// object.
type MediaResolver interface {
	MediaCollectionFromID(ctx context.Context, id string) (*models.MediaCollection, error)
}

// Pager yields watch-history entries newest first. Next returns
// crunchyroll.ErrEndOfHistory once the feed is exhausted.
type Pager interface {
	Next(ctx context.Context) (models.HistoryEntry, error)
}

// Options control a single aggregation run.
type Options struct {
	// Cutoff stops the scan at the first entry played strictly before it.
	// The zero value disables the cutoff.
	Cutoff time.Time
	// Limit caps how many entries are processed. 0 means unlimited.
	Limit int
}

// Service accumulates counts and metadata over one run. It is not safe for
// concurrent use; the run is strictly sequential.
type Service struct {
	resolver MediaResolver
	opts     Options

	counts    map[string]int
	series    map[string]models.SeriesSummary
	order     []string
	processed int
}

// NewService constructs an aggregation service for one run.
func NewService(resolver MediaResolver, opts Options) *Service {
	return &Service{
		resolver: resolver,
		opts:     opts,
		counts:   make(map[string]int),
		series:   make(map[string]models.SeriesSummary),
	}
}

// maxPagerFailures bounds consecutive Next failures before the run aborts.
// Transient fetch errors are tolerated; a persistently broken feed must not
// spin forever.
const maxPagerFailures = 3

// Run drains the pager until the feed ends, the cutoff is reached, or the
// configured limit is hit. A failure resolving a single entry's media is
// logged and skipped, as is a transient pager failure; only repeated pager
// failures abort the run.
func (s *Service) Run(ctx context.Context, pager Pager) error {
	pagerFailures := 0
	for {
		if s.opts.Limit > 0 && s.processed >= s.opts.Limit {
			log.Printf("Reached processing limit of %d entries", s.opts.Limit)
			return nil
		}

		entry, err := pager.Next(ctx)
		if err != nil {
			if errors.Is(err, crunchyroll.ErrEndOfHistory) {
				return nil
			}
			pagerFailures++
			if pagerFailures >= maxPagerFailures {
				return fmt.Errorf("advance watch history: %w", err)
			}
			log.Printf("Error fetching watch history entry: %v", err)
			continue
		}
		pagerFailures = 0

		stop, err := s.processEntry(ctx, entry)
		if err != nil {
			log.Printf("Error fetching watch history entry: %v", err)
			continue
		}
		if stop {
			return nil
		}
	}
}

// processEntry handles one history entry. The returned bool reports that the
// cutoff was reached and the scan must stop.
func (s *Service) processEntry(ctx context.Context, entry models.HistoryEntry) (bool, error) {
	media, err := s.resolver.MediaCollectionFromID(ctx, entry.ParentID)
	if err != nil {
		return false, err
	}

	title, ok := media.Title()
	if !ok {
		// Seasons, music videos and the like are not counted.
		return false, nil
	}

	if !s.opts.Cutoff.IsZero() && entry.DatePlayed.Before(s.opts.Cutoff) {
		log.Printf("Stopping: entry watched before cutoff (%s). Title: %s",
			s.opts.Cutoff.Format(time.RFC3339), title)
		return true, nil
	}

	s.counts[title]++

	if media.Series != nil {
		if _, seen := s.series[title]; !seen {
			s.series[title] = models.Summarize(media.Series)
			s.order = append(s.order, title)
		}
	}

	log.Printf("%s: %d episodes watched", title, s.counts[title])
	s.processed++
	return false, nil
}

// Processed returns how many entries were counted during the run.
func (s *Service) Processed() int {
	return s.processed
}

// Report joins the captured series metadata with episode counts, one entry
// per series in first-seen order. Titles counted without series metadata
// (movies, standalone episodes) are excluded.
func (s *Service) Report() []models.ReportEntry {
	entries := make([]models.ReportEntry, 0, len(s.order))
	for _, title := range s.order {
		entries = append(entries, models.ReportEntry{
			Series:          s.series[title],
			EpisodesWatched: s.counts[title],
		})
	}
	return entries
}
