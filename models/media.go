package models

import "time"

// Media collection types recognized by the aggregator. The provider reports
// other types as well (seasons, music videos, concerts); those are skipped.
const (
	MediaTypeMovie   = "movie"
	MediaTypeSeries  = "series"
	MediaTypeEpisode = "episode"
)

// HistoryEntry is one watch event from the account's history feed.
type HistoryEntry struct {
	ID           string    `json:"id"`
	ParentID     string    `json:"parent_id"`
	ParentType   string    `json:"parent_type"`
	DatePlayed   time.Time `json:"date_played"`
	FullyWatched bool      `json:"fully_watched"`
}

// PosterImage is a single poster rendition exposed by the provider.
type PosterImage struct {
	Source string `json:"source"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Movie holds the subset of movie attributes the aggregator reads.
type Movie struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	SlugTitle string `json:"slug_title,omitempty"`
}

// Episode holds the subset of episode attributes the aggregator reads.
type Episode struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	SeriesTitle  string `json:"series_title,omitempty"`
	SeasonNumber int    `json:"season_number,omitempty"`
	Number       int    `json:"episode_number,omitempty"`
}

// Series holds the series-level attributes captured into report metadata.
type Series struct {
	ID                  string        `json:"id"`
	Title               string        `json:"title"`
	SlugTitle           string        `json:"slug_title,omitempty"`
	Description         string        `json:"description,omitempty"`
	ExtendedDescription string        `json:"extended_description,omitempty"`
	EpisodeCount        int           `json:"episode_count"`
	SeasonCount         int           `json:"season_count"`
	ContentProvider     string        `json:"content_provider,omitempty"`
	Keywords            []string      `json:"keywords,omitempty"`
	PosterTall          []PosterImage `json:"poster_tall,omitempty"`
}

// MediaCollection is a tagged union over the media object kinds the provider
// can return for a history entry's parent. Exactly one of the pointers is set
// for a recognized type; all are nil for anything else.
type MediaCollection struct {
	Type    string   `json:"type"`
	Movie   *Movie   `json:"movie,omitempty"`
	Series  *Series  `json:"series,omitempty"`
	Episode *Episode `json:"episode,omitempty"`
}

// Title returns the display title for the collection and whether the
// collection is of a recognized kind.
func (m *MediaCollection) Title() (string, bool) {
	switch {
	case m.Movie != nil:
		return m.Movie.Title, true
	case m.Series != nil:
		return m.Series.Title, true
	case m.Episode != nil:
		return m.Episode.Title, true
	default:
		return "", false
	}
}
