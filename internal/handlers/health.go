package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/c0pper/data-driven-blog/internal/state"
)

// Health reports liveness only; it never calls the backends.
func Health(st *state.AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := st.GetConfig()
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  st.Uptime().Round(time.Second).String(),
			"journiv": gin.H{"session": st.Journal.State().String(), "journal": cfg.Journiv.JournalName},
		})
	}
}
