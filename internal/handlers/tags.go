package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/c0pper/data-driven-blog/internal/journiv"
	"github.com/c0pper/data-driven-blog/internal/state"
)

func ListTags(st *state.AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		jc, ok := journal(c, st)
		if !ok {
			return
		}
		tags, err := jc.AllTags(c.Request.Context(), c.Query("search"))
		if err != nil {
			writeError(c, journivService, "Error fetching tags", err)
			return
		}
		if tags == nil {
			tags = []journiv.Tag{}
		}
		c.JSON(http.StatusOK, tags)
	}
}

func TagByName(st *state.AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		jc, ok := journal(c, st)
		if !ok {
			return
		}
		tag, err := jc.TagByName(c.Request.Context(), c.Param("name"))
		if err != nil {
			writeError(c, journivService, "Error fetching tags", err)
			return
		}
		if tag == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
			return
		}
		c.JSON(http.StatusOK, tag)
	}
}

func EntryTags(st *state.AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		jc, ok := journal(c, st)
		if !ok {
			return
		}
		tags, err := jc.EntryTags(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, journivService, "Error fetching entry tags", err)
			return
		}
		if tags == nil {
			tags = []journiv.Tag{}
		}
		c.JSON(http.StatusOK, tags)
	}
}

func AddTagToEntry(st *state.AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		jc, ok := journal(c, st)
		if !ok {
			return
		}
		link, err := jc.AddTagToEntry(c.Request.Context(), c.Param("id"), c.Param("tag_id"))
		if err != nil {
			writeError(c, journivService, "Error tagging entry", err)
			return
		}
		c.JSON(http.StatusCreated, link)
	}
}
