package journiv

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/c0pper/data-driven-blog/internal/upstream"
)

const defaultPageSize = 50

// EntryPage selects one page of a journal. Limit <= 0 means 50; anything
// above MaxPageSize is clamped.
type EntryPage struct {
	Limit         int
	Offset        int
	ExcludePinned bool
}

func (c *Client) JournalEntries(ctx context.Context, journalID string, p EntryPage) ([]Entry, error) {
	if strings.TrimSpace(journalID) == "" {
		return nil, upstream.InvalidArgument("journal_id is required")
	}
	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampPageSize(limit)))
	q.Set("offset", strconv.Itoa(max(p.Offset, 0)))
	q.Set("include_pinned", strconv.FormatBool(!p.ExcludePinned))

	var out []Entry
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/entries/journal/" + escape(journalID), query: q}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AllJournalEntries walks every page of a journal.
func (c *Client) AllJournalEntries(ctx context.Context, journalID string) ([]Entry, error) {
	return collectPages(ctx, MaxPageSize, c.exhaustive, func(ctx context.Context, limit, offset int) ([]Entry, error) {
		return c.JournalEntries(ctx, journalID, EntryPage{Limit: limit, Offset: offset})
	})
}

// EntriesByDate filters entries whose entry_date equals date (YYYY-MM-DD).
func EntriesByDate(entries []Entry, date string) []Entry {
	out := []Entry{}
	for _, e := range entries {
		if e.EntryDate == date {
			out = append(out, e)
		}
	}
	return out
}

// EntriesByDateRange lists entries whose entry_date falls within
// [start, end]. Both dates are checked before any request is made.
func (c *Client) EntriesByDateRange(ctx context.Context, start, end, journalID string) ([]Entry, error) {
	if _, err := upstream.ParseDate("start_date", start); err != nil {
		return nil, err
	}
	if _, err := upstream.ParseDate("end_date", end); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("start_date", strings.TrimSpace(start))
	q.Set("end_date", strings.TrimSpace(end))
	if id := strings.TrimSpace(journalID); id != "" {
		q.Set("journal_id", id)
	}

	var out []Entry
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/entries/date-range", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
