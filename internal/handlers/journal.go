package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/c0pper/data-driven-blog/internal/journiv"
	"github.com/c0pper/data-driven-blog/internal/state"
	"github.com/c0pper/data-driven-blog/internal/upstream"
)

const (
	journivService      = "journiv"
	defaultEntriesLimit = 10
)

type journalEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	EntryDate string `json:"entry_date"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

type paginatedEntries struct {
	Entries    []journalEntry `json:"entries"`
	Pagination pagination     `json:"pagination"`
}

func toJournalEntries(entries []journiv.Entry) []journalEntry {
	out := make([]journalEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, journalEntry{
			ID:        e.ID,
			Title:     e.Title,
			Content:   e.Content,
			EntryDate: e.EntryDate,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		})
	}
	return out
}

// journal makes sure a Journiv session exists before a handler uses it.
func journal(c *gin.Context, st *state.AppState) (*journiv.Client, bool) {
	if err := st.Journal.EnsureSession(c.Request.Context()); err != nil {
		writeError(c, journivService, "Error logging in", err)
		return nil, false
	}
	return st.Journal, true
}

func journalID(c *gin.Context, st *state.AppState) (string, bool) {
	id := strings.TrimSpace(c.Query("journal_id"))
	if id == "" {
		id = st.DefaultJournalID()
	}
	if id == "" {
		badRequest(c, "journal_id is required")
		return "", false
	}
	return id, true
}

func positiveQuery(c *gin.Context, name string, fallback int) (int, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return n, true
}

func ListJournalEntries(st *state.AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := journalID(c, st)
		if !ok {
			return
		}
		jc, ok := journal(c, st)
		if !ok {
			return
		}
		entries, err := jc.AllJournalEntries(c.Request.Context(), id)
		if err != nil {
			writeError(c, journivService, "Error fetching journal entries", err)
			return
		}
		c.JSON(http.StatusOK, toJournalEntries(entries))
	}
}

// PaginatedJournalEntries serves one page of a journal together with
// counts derived from a full walk of it.
func PaginatedJournalEntries(st *state.AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := journalID(c, st)
		if !ok {
			return
		}
		page, ok := positiveQuery(c, "page", 1)
		if !ok {
			return
		}
		limit, ok := positiveQuery(c, "limit", defaultEntriesLimit)
		if !ok {
			return
		}
		limit = min(limit, journiv.MaxPageSize)

		jc, ok := journal(c, st)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		entries, err := jc.JournalEntries(ctx, id, journiv.EntryPage{Limit: limit, Offset: (page - 1) * limit})
		if err != nil {
			writeError(c, journivService, "Error fetching journal entries", err)
			return
		}
		all, err := jc.AllJournalEntries(ctx, id)
		if err != nil {
			writeError(c, journivService, "Error fetching journal entries", err)
			return
		}

		total := len(all)
		pages := (total + limit - 1) / limit
		c.JSON(http.StatusOK, paginatedEntries{
			Entries: toJournalEntries(entries),
			Pagination: pagination{
				CurrentPage: page,
				TotalPages:  pages,
				TotalCount:  total,
				HasNext:     page < pages,
				HasPrevious: page > 1,
			},
		})
	}
}

func JournalEntriesByDate(st *state.AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := strings.TrimSpace(c.Param("date"))
		if _, err := upstream.ParseDate("date", date); err != nil {
			writeError(c, journivService, "", err)
			return
		}
		id, ok := journalID(c, st)
		if !ok {
			return
		}
		jc, ok := journal(c, st)
		if !ok {
			return
		}
		all, err := jc.AllJournalEntries(c.Request.Context(), id)
		if err != nil {
			writeError(c, journivService, "Error fetching journal entries", err)
			return
		}
		c.JSON(http.StatusOK, toJournalEntries(journiv.EntriesByDate(all, date)))
	}
}

func JournalEntriesByDateRange(st *state.AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end := c.Query("start_date"), c.Query("end_date")
		for _, f := range [][2]string{{"start_date", start}, {"end_date", end}} {
			if _, err := upstream.ParseDate(f[0], f[1]); err != nil {
				writeError(c, journivService, "", err)
				return
			}
		}
		jc, ok := journal(c, st)
		if !ok {
			return
		}
		entries, err := jc.EntriesByDateRange(c.Request.Context(), start, end, c.Query("journal_id"))
		if err != nil {
			writeError(c, journivService, "Error fetching journal entries", err)
			return
		}
		c.JSON(http.StatusOK, toJournalEntries(entries))
	}
}
