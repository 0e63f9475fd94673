package journiv

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/c0pper/data-driven-blog/internal/upstream"
)

// MoodLogFilter narrows a mood log listing. Empty fields are not sent.
type MoodLogFilter struct {
	EntryID   string
	MoodID    string
	StartDate string
	EndDate   string
	Limit     int
	Offset    int
}

func (f MoodLogFilter) query() (url.Values, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampPageSize(limit)))
	q.Set("offset", strconv.Itoa(max(f.Offset, 0)))
	if v := strings.TrimSpace(f.EntryID); v != "" {
		q.Set("entry_id", v)
	}
	if v := strings.TrimSpace(f.MoodID); v != "" {
		q.Set("mood_id", v)
	}
	for _, d := range []struct{ key, val string }{{"start_date", f.StartDate}, {"end_date", f.EndDate}} {
		if strings.TrimSpace(d.val) == "" {
			continue
		}
		if _, err := upstream.ParseDate(d.key, d.val); err != nil {
			return nil, err
		}
		q.Set(d.key, strings.TrimSpace(d.val))
	}
	return q, nil
}

func (c *Client) MoodLogs(ctx context.Context, f MoodLogFilter) ([]MoodLog, error) {
	q, err := f.query()
	if err != nil {
		return nil, err
	}
	var out []MoodLog
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/moods/logs", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EntryHasMoodLog reports whether any mood log references entryID.
func (c *Client) EntryHasMoodLog(ctx context.Context, entryID string) (bool, error) {
	if strings.TrimSpace(entryID) == "" {
		return false, upstream.InvalidArgument("entry_id is required")
	}
	logs, err := c.MoodLogs(ctx, MoodLogFilter{EntryID: entryID, Limit: 1})
	if err != nil {
		return false, err
	}
	return len(logs) > 0, nil
}
