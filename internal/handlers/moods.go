package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/c0pper/data-driven-blog/internal/journiv"
	"github.com/c0pper/data-driven-blog/internal/state"
)

func nonNegativeQuery(c *gin.Context, name string) (int, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		badRequest(c, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func MoodLogs(st *state.AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := nonNegativeQuery(c, "limit")
		if !ok {
			return
		}
		offset, ok := nonNegativeQuery(c, "offset")
		if !ok {
			return
		}
		jc, ok := journal(c, st)
		if !ok {
			return
		}
		logs, err := jc.MoodLogs(c.Request.Context(), journiv.MoodLogFilter{
			EntryID:   c.Query("entry_id"),
			MoodID:    c.Query("mood_id"),
			StartDate: c.Query("start_date"),
			EndDate:   c.Query("end_date"),
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			writeError(c, journivService, "Error fetching mood logs", err)
			return
		}
		if logs == nil {
			logs = []journiv.MoodLog{}
		}
		c.JSON(http.StatusOK, logs)
	}
}
