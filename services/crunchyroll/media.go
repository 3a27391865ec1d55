package crunchyroll

import (
	"encoding/json"

	"watchtally/models"
)

// mediaItem is one element of a /content/v2/cms/objects response. The
// type-specific attributes live under per-type metadata objects.
type mediaItem struct {
	Type            string           `json:"type"`
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	SlugTitle       string           `json:"slug_title"`
	Description     string           `json:"description"`
	Keywords        []string         `json:"keywords"`
	Images          mediaImages      `json:"images"`
	SeriesMetadata  *seriesMetadata  `json:"series_metadata"`
	EpisodeMetadata *episodeMetadata `json:"episode_metadata"`
}

type seriesMetadata struct {
	ExtendedDescription string   `json:"extended_description"`
	EpisodeCount        int      `json:"episode_count"`
	SeasonCount         int      `json:"season_count"`
	ContentProvider     string   `json:"content_provider"`
	TenantCategories    []string `json:"tenant_categories"`
}

type episodeMetadata struct {
	SeriesTitle   string `json:"series_title"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
}

type mediaImages struct {
	PosterTall posterList `json:"poster_tall"`
}

// posterList accepts both shapes the API uses for poster renditions: a flat
// list of images or a list of rendition groups. Grouped form keeps the first
// group, which holds the orientation's ordered size ladder.
type posterList []models.PosterImage

func (p *posterList) UnmarshalJSON(data []byte) error {
	var flat []models.PosterImage
	if err := json.Unmarshal(data, &flat); err == nil {
		*p = flat
		return nil
	}

	var grouped [][]models.PosterImage
	if err := json.Unmarshal(data, &grouped); err != nil {
		return err
	}
	if len(grouped) == 0 {
		*p = nil
		return nil
	}
	*p = grouped[0]
	return nil
}

// toCollection maps the wire item onto the tagged model type. Unrecognized
// types yield a collection with no payload set.
func (m *mediaItem) toCollection() *models.MediaCollection {
	col := &models.MediaCollection{Type: m.Type}

	switch m.Type {
	case models.MediaTypeMovie:
		col.Movie = &models.Movie{
			ID:        m.ID,
			Title:     m.Title,
			SlugTitle: m.SlugTitle,
		}
	case models.MediaTypeSeries:
		series := &models.Series{
			ID:          m.ID,
			Title:       m.Title,
			SlugTitle:   m.SlugTitle,
			Description: m.Description,
			Keywords:    m.Keywords,
			PosterTall:  m.Images.PosterTall,
		}
		if m.SeriesMetadata != nil {
			series.ExtendedDescription = m.SeriesMetadata.ExtendedDescription
			series.EpisodeCount = m.SeriesMetadata.EpisodeCount
			series.SeasonCount = m.SeriesMetadata.SeasonCount
			series.ContentProvider = m.SeriesMetadata.ContentProvider
		}
		col.Series = series
	case models.MediaTypeEpisode:
		episode := &models.Episode{
			ID:    m.ID,
			Title: m.Title,
		}
		if m.EpisodeMetadata != nil {
			episode.SeriesTitle = m.EpisodeMetadata.SeriesTitle
			episode.SeasonNumber = m.EpisodeMetadata.SeasonNumber
			episode.Number = m.EpisodeMetadata.EpisodeNumber
		}
		col.Episode = episode
	}

	return col
}
