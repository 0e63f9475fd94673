package journiv

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/c0pper/data-driven-blog/internal/config"
	"github.com/c0pper/data-driven-blog/internal/logging"
)

// fakeJourniv is an in-memory Journiv backend. Tokens are issued as
// access-N / refresh-N and only the latest access token is accepted.
type fakeJourniv struct {
	mu            sync.Mutex
	entries       []Entry
	tags          []Tag
	moodLogs      []MoodLog
	access        string
	refresh       string
	loginStatus   int
	refreshStatus int
	rejectAll     bool
	dataStatus    int
	loginDelay    time.Duration
	refreshDelay  time.Duration
	limits        []int
	queries       []string

	issued    atomic.Int32
	logins    atomic.Int32
	refreshes atomic.Int32
	calls     atomic.Int32
}

func newFakeJourniv(t *testing.T, entries int) (*fakeJourniv, *httptest.Server) {
	t.Helper()
	f := &fakeJourniv{loginStatus: http.StatusOK, refreshStatus: http.StatusOK, refreshDelay: 10 * time.Millisecond}
	for i := 0; i < entries; i++ {
		f.entries = append(f.entries, Entry{
			ID:        fmt.Sprintf("e%03d", i),
			Title:     fmt.Sprintf("Entry %d", i),
			Content:   "content",
			EntryDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i).Format("2006-01-02"),
			CreatedAt: "2024-01-01T10:00:00Z",
			UpdatedAt: "2024-01-02T10:00:00Z",
		})
	}
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)
	return f, ts
}

func newTestClient(ts *httptest.Server, exhaustive bool) *Client {
	return NewClient(ts.Client(), config.JournivConfig{
		BaseURL:          ts.URL,
		Email:            "me@example.com",
		Password:         "secret",
		ExhaustivePaging: exhaustive,
	}, logging.New("error"))
}

// expire makes the current access token invalid, as if it timed out.
func (f *fakeJourniv) expire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = "expired-" + f.access
}

// set mutates the fake under its lock.
func (f *fakeJourniv) set(fn func(f *fakeJourniv)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeJourniv) observedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func (f *fakeJourniv) observedLimits() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.limits...)
}

func (f *fakeJourniv) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/auth/login":
		f.logins.Add(1)
		var body loginRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		delay := f.loginDelay
		f.mu.Unlock()
		time.Sleep(delay)
		f.mu.Lock()
		status := f.loginStatus
		if body.Email != "me@example.com" || body.Password != "secret" {
			status = http.StatusUnauthorized
		}
		if status != http.StatusOK {
			f.mu.Unlock()
			writeFake(w, status, map[string]any{"detail": "bad credentials"})
			return
		}
		n := f.issued.Add(1)
		f.access = "access-" + strconv.Itoa(int(n))
		f.refresh = "refresh-" + strconv.Itoa(int(n))
		out := loginResponse{AccessToken: f.access, RefreshToken: f.refresh}
		f.mu.Unlock()
		writeFake(w, http.StatusOK, out)
		return
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/auth/refresh":
		f.refreshes.Add(1)
		var body refreshRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		if f.refreshStatus != http.StatusOK || body.RefreshToken != f.refresh {
			status := f.refreshStatus
			if status == http.StatusOK {
				status = http.StatusUnauthorized
			}
			f.mu.Unlock()
			writeFake(w, status, map[string]any{"detail": "invalid refresh token"})
			return
		}
		n := f.issued.Add(1)
		f.access = "access-" + strconv.Itoa(int(n))
		out := refreshResponse{AccessToken: f.access}
		delay := f.refreshDelay
		f.mu.Unlock()
		// widen the window in which concurrent callers observe the old token
		time.Sleep(delay)
		writeFake(w, http.StatusOK, out)
		return
	}

	f.calls.Add(1)
	f.mu.Lock()
	authorized := !f.rejectAll && r.Header.Get("Authorization") == "Bearer "+f.access
	dataStatus := f.dataStatus
	entries, tags, moodLogs := f.entries, f.tags, f.moodLogs
	f.queries = append(f.queries, r.URL.RawQuery)
	f.mu.Unlock()
	if !authorized {
		writeFake(w, http.StatusUnauthorized, map[string]any{"detail": "Could not validate credentials"})
		return
	}
	if dataStatus != 0 {
		writeFake(w, dataStatus, map[string]any{"detail": "boom"})
		return
	}

	q := r.URL.Query()
	switch {
	case strings.HasPrefix(r.URL.Path, "/api/v1/entries/journal/"):
		writeFake(w, http.StatusOK, f.page(entries, q))
	case r.URL.Path == "/api/v1/entries/date-range":
		var out []Entry
		for _, e := range entries {
			if e.EntryDate >= q.Get("start_date") && e.EntryDate <= q.Get("end_date") {
				out = append(out, e)
			}
		}
		writeFake(w, http.StatusOK, out)
	case r.URL.Path == "/api/v1/moods/logs":
		var out []MoodLog
		for _, l := range moodLogs {
			if id := q.Get("entry_id"); id != "" && (l.EntryID == nil || *l.EntryID != id) {
				continue
			}
			out = append(out, l)
		}
		writeFake(w, http.StatusOK, f.page(out, q))
	case r.URL.Path == "/api/v1/tags/":
		var out []Tag
		for _, tg := range tags {
			if s := q.Get("search"); s != "" && !strings.Contains(strings.ToLower(tg.Name), strings.ToLower(s)) {
				continue
			}
			out = append(out, tg)
		}
		writeFake(w, http.StatusOK, f.page(out, q))
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/v1/tags/entry/"):
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/tags/entry/"), "/")
		writeFake(w, http.StatusCreated, EntryTag{EntryID: parts[0], TagID: parts[2]})
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/v1/tags/entry/"):
		writeFake(w, http.StatusOK, tags)
	default:
		writeFake(w, http.StatusNotFound, map[string]any{"detail": "Not Found"})
	}
}

func (f *fakeJourniv) page(all any, q map[string][]string) any {
	limit, _ := strconv.Atoi(first(q["limit"]))
	offset, _ := strconv.Atoi(first(q["offset"]))
	f.mu.Lock()
	f.limits = append(f.limits, limit)
	f.mu.Unlock()
	switch items := all.(type) {
	case []Entry:
		return window(items, limit, offset)
	case []Tag:
		return window(items, limit, offset)
	case []MoodLog:
		return window(items, limit, offset)
	}
	return nil
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

func first(v []string) string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func writeFake(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
