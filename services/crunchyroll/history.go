package crunchyroll

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"watchtally/models"
)

// ErrEndOfHistory reports that the watch-history feed is exhausted.
var ErrEndOfHistory = errors.New("end of watch history")

// HistoryPager walks the account's watch history page by page, newest
// first. It is lazy and non-restartable: each page is fetched only once the
// previous one has been drained.
type HistoryPager struct {
	client   *Client
	pageSize int
	page     int
	buf      []models.HistoryEntry
	done     bool
}

// WatchHistory returns a pager over the authenticated account's watch
// history.
func (c *Client) WatchHistory(pageSize int) *HistoryPager {
	if pageSize < 1 {
		pageSize = 100
	}
	return &HistoryPager{client: c, pageSize: pageSize}
}

// historyPage represents one response from /content/v2/{account}/watch-history.
type historyPage struct {
	Total int                   `json:"total"`
	Data  []models.HistoryEntry `json:"data"`
}

// Next returns the next history entry. It returns ErrEndOfHistory once the
// feed is exhausted. A page-fetch failure surfaces as an error and leaves
// the pager usable, so the caller may call Next again.
func (p *HistoryPager) Next(ctx context.Context) (models.HistoryEntry, error) {
	if len(p.buf) == 0 {
		if p.done {
			return models.HistoryEntry{}, ErrEndOfHistory
		}
		if err := p.fetchPage(ctx); err != nil {
			return models.HistoryEntry{}, err
		}
		if len(p.buf) == 0 {
			p.done = true
			return models.HistoryEntry{}, ErrEndOfHistory
		}
	}

	entry := p.buf[0]
	p.buf = p.buf[1:]
	return entry, nil
}

func (p *HistoryPager) fetchPage(ctx context.Context) error {
	if p.client.accountID == "" {
		return errors.New("watch history requires login")
	}

	next := p.page + 1
	var page historyPage
	err := p.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/content/v2/" + url.PathEscape(p.client.accountID) + "/watch-history",
		query: url.Values{
			"page_size": {strconv.Itoa(p.pageSize)},
			"page":      {strconv.Itoa(next)},
		},
		authed: true,
	}, &page)
	if err != nil {
		return fmt.Errorf("watch history page %d: %w", next, err)
	}

	p.page = next
	p.buf = page.Data
	if len(page.Data) < p.pageSize {
		// Short page: the next fetch would be empty, skip it.
		p.done = true
	}
	return nil
}
