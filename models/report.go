package models

const (
	// UnknownPublisher is recorded when the provider reports no content
	// provider for a series.
	UnknownPublisher = "Unknown"
	// NoPosterAvailable is recorded when the preferred tall poster rendition
	// does not exist.
	NoPosterAvailable = "No image available"
)

// posterTallIndex selects which rendition of the tall poster list lands in
// the report. The third entry is the mid-size rendition on every series
// observed so far.
const posterTallIndex = 2

// SeriesSummary is the fixed set of series attributes written to the report.
type SeriesSummary struct {
	Title               string   `json:"title"`
	Slug                string   `json:"slug"`
	Description         string   `json:"description"`
	ExtendedDescription string   `json:"extendedDescription"`
	Episodes            int      `json:"episodes"`
	Seasons             int      `json:"seasons"`
	Publisher           string   `json:"publisher"`
	Keywords            []string `json:"keywords"`
	PosterTall          string   `json:"posterTall"`
}

// ReportEntry pairs a captured series with the number of its episodes
// watched during the run.
type ReportEntry struct {
	Series          SeriesSummary `json:"series"`
	EpisodesWatched int           `json:"episodesWatched"`
}

// Summarize flattens a series into the report shape, substituting
// placeholders for missing attributes.
func Summarize(s *Series) SeriesSummary {
	publisher := s.ContentProvider
	if publisher == "" {
		publisher = UnknownPublisher
	}

	poster := NoPosterAvailable
	if len(s.PosterTall) > posterTallIndex {
		poster = s.PosterTall[posterTallIndex].Source
	}

	keywords := s.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	return SeriesSummary{
		Title:               s.Title,
		Slug:                s.SlugTitle,
		Description:         s.Description,
		ExtendedDescription: s.ExtendedDescription,
		Episodes:            s.EpisodeCount,
		Seasons:             s.SeasonCount,
		Publisher:           publisher,
		Keywords:            keywords,
		PosterTall:          poster,
	}
}
