package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/c0pper/data-driven-blog/internal/immich"
	"github.com/c0pper/data-driven-blog/internal/state"
)

const immichService = "immich"

// bindSearch reads the filter body. An empty body is an empty filter.
func bindSearch(c *gin.Context) (immich.SearchAssetsRequest, bool) {
	var req immich.SearchAssetsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid search request: "+err.Error())
		return req, false
	}
	return req, true
}

func SearchAssets(st *state.AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindSearch(c)
		if !ok {
			return
		}
		raw, err := st.Photos.Search(c.Request.Context(), req)
		if err != nil {
			writeError(c, immichService, "Error searching assets", err)
			return
		}
		c.Data(http.StatusOK, "application/json", raw)
	}
}

func SearchAssetsByDate(st *state.AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		withExif := true
		if v := c.Query("with_exif"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				badRequest(c, "with_exif must be a boolean")
				return
			}
			withExif = b
		}
		raw, err := st.Photos.SearchByDate(c.Request.Context(), c.Param("date"), withExif)
		if err != nil {
			writeError(c, immichService, "Error searching assets", err)
			return
		}
		c.Data(http.StatusOK, "application/json", raw)
	}
}

func AssetAnalysis(st *state.AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindSearch(c)
		if !ok {
			return
		}
		resp, err := st.Photos.SearchTyped(c.Request.Context(), req)
		if err != nil {
			writeError(c, immichService, "Error analysing assets", err)
			return
		}
		rows := immich.AssetsForAnalysis(resp)
		c.JSON(http.StatusOK, gin.H{"count": len(rows), "total": resp.Assets.Total, "assets": rows})
	}
}
