package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0pper/data-driven-blog/internal/config"
	"github.com/c0pper/data-driven-blog/internal/journiv"
	"github.com/c0pper/data-driven-blog/internal/logging"
	"github.com/c0pper/data-driven-blog/internal/state"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type backends struct {
	journiv     *httptest.Server
	immich      *httptest.Server
	logins      atomic.Int32
	calls       atomic.Int32
	searches    atomic.Int32
	loginStatus int
	immichReply int
	entries     []journiv.Entry
	tags        []journiv.Tag
}

func newBackends(t *testing.T, entries int) *backends {
	t.Helper()
	b := &backends{loginStatus: http.StatusOK, immichReply: http.StatusOK}
	for i := 0; i < entries; i++ {
		b.entries = append(b.entries, journiv.Entry{
			ID:        fmt.Sprintf("e%02d", i),
			Title:     fmt.Sprintf("Entry %d", i),
			Content:   "body",
			EntryDate: fmt.Sprintf("2024-03-%02d", i%28+1),
			CreatedAt: "2024-03-01T08:00:00Z",
			UpdatedAt: "2024-03-02T08:00:00Z",
		})
	}
	b.tags = []journiv.Tag{{ID: "t1", Name: "Travel"}, {ID: "t2", Name: "Work"}}

	b.journiv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/auth/login" {
			b.logins.Add(1)
			if b.loginStatus != http.StatusOK {
				reply(w, b.loginStatus, map[string]string{"detail": "bad credentials"})
				return
			}
			reply(w, http.StatusOK, map[string]string{"access_token": "tok", "refresh_token": "ref"})
			return
		}
		b.calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok" {
			reply(w, http.StatusUnauthorized, map[string]string{"detail": "unauthorized"})
			return
		}
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/v1/entries/journal/"):
			reply(w, http.StatusOK, page(b.entries, limit, offset))
		case r.URL.Path == "/api/v1/tags/":
			reply(w, http.StatusOK, page(b.tags, limit, offset))
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/v1/tags/entry/"):
			parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/tags/entry/"), "/")
			reply(w, http.StatusCreated, journiv.EntryTag{EntryID: parts[0], TagID: parts[2]})
		default:
			reply(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
		}
	}))
	t.Cleanup(b.journiv.Close)

	b.immich = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.searches.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		if b.immichReply != http.StatusOK {
			w.WriteHeader(b.immichReply)
			_, _ = io.WriteString(w, "immich exploded")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"albums":{"total":0,"count":0,"items":[]},"assets":{"total":1,"count":1,"items":[{"id":"a1","type":"IMAGE"}],"nextPage":null}}`)
	}))
	t.Cleanup(b.immich.Close)
	return b
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	return items[offset:min(offset+limit, len(items))]
}

func reply(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func setupRouter(t *testing.T, b *backends, edit func(*config.Config)) http.Handler {
	t.Helper()
	cfg := config.Config{
		Immich:  config.ImmichConfig{BaseURL: b.immich.URL, APIKey: "key"},
		Journiv: config.JournivConfig{BaseURL: b.journiv.URL, Email: "me@example.com", Password: "secret"},
	}
	if edit != nil {
		edit(&cfg)
	}
	st := state.NewAppState(cfg, logging.New("error"), http.DefaultClient)
	return NewRouter(st)
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error
}

func TestPaginatedJournalEntries(t *testing.T) {
	b := newBackends(t, 25)
	r := setupRouter(t, b, nil)

	rec := serve(r, http.MethodGet, "/api/journal-entries/paginated?journal_id=J&page=2&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Entries []struct {
			ID        string `json:"id"`
			EntryDate string `json:"entry_date"`
			CreatedAt string `json:"created_at"`
		} `json:"entries"`
		Pagination struct {
			CurrentPage int  `json:"currentPage"`
			TotalPages  int  `json:"totalPages"`
			TotalCount  int  `json:"totalCount"`
			HasNext     bool `json:"hasNext"`
			HasPrevious bool `json:"hasPrevious"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Entries, 10)
	assert.Equal(t, "e10", body.Entries[0].ID)
	assert.Equal(t, "2024-03-01T08:00:00Z", body.Entries[0].CreatedAt)
	assert.Equal(t, 2, body.Pagination.CurrentPage)
	assert.Equal(t, 3, body.Pagination.TotalPages)
	assert.Equal(t, 25, body.Pagination.TotalCount)
	assert.True(t, body.Pagination.HasNext)
	assert.True(t, body.Pagination.HasPrevious)
	assert.Equal(t, int32(1), b.logins.Load())
}

func TestPaginatedJournalEntriesValidation(t *testing.T) {
	b := newBackends(t, 5)
	r := setupRouter(t, b, nil)

	for _, target := range []string{
		"/api/journal-entries/paginated",
		"/api/journal-entries/paginated?journal_id=J&page=0",
		"/api/journal-entries/paginated?journal_id=J&limit=abc",
	} {
		rec := serve(r, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	assert.Equal(t, int32(0), b.calls.Load())
}

func TestListJournalEntriesUsesConfiguredJournal(t *testing.T) {
	b := newBackends(t, 3)
	r := setupRouter(t, b, func(c *config.Config) { c.Journiv.JournalID = "J" })

	rec := serve(r, http.MethodGet, "/api/journal-entries", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 3)
	assert.Equal(t, "2024-03-02T08:00:00Z", entries[0]["updated_at"])
}

func TestJournalEntriesByDate(t *testing.T) {
	b := newBackends(t, 30)
	r := setupRouter(t, b, func(c *config.Config) { c.Journiv.JournalID = "J" })

	rec := serve(r, http.MethodGet, "/api/journal-entries/date/2024-03-01", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)

	rec = serve(r, http.MethodGet, "/api/journal-entries/date/2024-3-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDateRangeRejectsBadDateWithoutCallingJourniv(t *testing.T) {
	b := newBackends(t, 5)
	r := setupRouter(t, b, nil)

	rec := serve(r, http.MethodGet, "/api/journal-entries/date-range?start_date=2024-13-01&end_date=2024-12-31", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorBody(t, rec), "YYYY-MM-DD")
	assert.Equal(t, int32(0), b.logins.Load())
	assert.Equal(t, int32(0), b.calls.Load())
}

func TestJournivLoginRejectedIs401(t *testing.T) {
	b := newBackends(t, 5)
	b.loginStatus = http.StatusUnauthorized
	r := setupRouter(t, b, nil)

	rec := serve(r, http.MethodGet, "/api/journal-entries/paginated?journal_id=J", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Failed to authenticate with Journiv", errorBody(t, rec))
}

func TestJournivUnreachableIs503(t *testing.T) {
	b := newBackends(t, 5)
	r := setupRouter(t, b, nil)
	b.journiv.Close()

	rec := serve(r, http.MethodGet, "/api/tags", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, errorBody(t, rec), "Unable to connect to Journiv server")
}

func TestTags(t *testing.T) {
	b := newBackends(t, 0)
	r := setupRouter(t, b, nil)

	rec := serve(r, http.MethodGet, "/api/tags", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tags []journiv.Tag
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tags))
	assert.Len(t, tags, 2)

	rec = serve(r, http.MethodGet, "/api/tags/by-name/travel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"t1"`)

	rec = serve(r, http.MethodGet, "/api/tags/by-name/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(r, http.MethodPost, "/api/journal-entries/e1/tags/t2", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var link journiv.EntryTag
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &link))
	assert.Equal(t, "e1", link.EntryID)
	assert.Equal(t, "t2", link.TagID)
}

func TestImmichSearchPassthrough(t *testing.T) {
	b := newBackends(t, 0)
	r := setupRouter(t, b, nil)

	rec := serve(r, http.MethodPost, "/api/immich/search/assets", `{"city":"Turin","size":10}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"id":"a1"`)

	rec = serve(r, http.MethodPost, "/api/immich/search/assets", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, http.MethodPost, "/api/immich/search/assets", `{"takenAfter":"2024-01-01T00:00:00"}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(r, http.MethodPost, "/api/immich/search/assets", `{"order":"sideways"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = serve(r, http.MethodPost, "/api/immich/search/assets", `{"takenAfter":"last tuesday"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int32(3), b.searches.Load())
}

func TestImmichSearchByDate(t *testing.T) {
	b := newBackends(t, 0)
	r := setupRouter(t, b, nil)

	rec := serve(r, http.MethodPost, "/api/immich/search/assets/date/2024-05-01?with_exif=false", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, http.MethodPost, "/api/immich/search/assets/date/05-01-2024", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int32(1), b.searches.Load())
}

func TestImmichErrorsAreEchoed(t *testing.T) {
	b := newBackends(t, 0)
	b.immichReply = http.StatusInternalServerError
	r := setupRouter(t, b, nil)

	rec := serve(r, http.MethodPost, "/api/immich/search/assets", "{}")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Immich API error: immich exploded", errorBody(t, rec))

	b.immich.Close()
	rec = serve(r, http.MethodPost, "/api/immich/search/assets", "{}")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestImmichAnalysis(t *testing.T) {
	b := newBackends(t, 0)
	r := setupRouter(t, b, nil)

	rec := serve(r, http.MethodPost, "/api/immich/search/assets/analysis", "{}")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Count  int              `json:"count"`
		Assets []map[string]any `json:"assets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "a1", body.Assets[0]["id"])
}

func TestHealthAndRequestID(t *testing.T) {
	b := newBackends(t, 0)
	r := setupRouter(t, b, nil)

	rec := serve(r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = serve(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	b := newBackends(t, 0)
	r := setupRouter(t, b, func(c *config.Config) {
		c.RateLimitRPS = 1
		c.RateLimitBurst = 1
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/healthz", "").Code)
	rec := serve(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestGatewayToken(t *testing.T) {
	b := newBackends(t, 0)
	r := setupRouter(t, b, func(c *config.Config) { c.GatewayToken = "s3cret" })

	rec := serve(r, http.MethodGet, "/api/tags", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, int32(0), b.logins.Load())

	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/healthz", "").Code)
}
