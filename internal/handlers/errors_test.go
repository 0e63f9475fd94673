package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/c0pper/data-driven-blog/internal/upstream"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"invalid", upstream.InvalidArgument("bad date"), http.StatusBadRequest, "invalid argument: bad date"},
		{"auth required", upstream.ErrAuthenticationRequired, http.StatusUnauthorized, `{"error":"Failed to authenticate with Journiv"}`},
		{"upstream 401", &upstream.StatusError{Service: "journiv", StatusCode: 401, Body: "expired"}, http.StatusUnauthorized, `{"error":"Journiv API error: expired"}`},
		{"upstream 404", fmt.Errorf("wrapped: %w", &upstream.StatusError{Service: "journiv", StatusCode: 404, Body: "missing"}), http.StatusNotFound, "Journiv API error: missing"},
		{"odd status", &upstream.StatusError{Service: "immich", StatusCode: 302}, http.StatusBadGateway, "Immich API error"},
		{"unreachable", upstream.Connectivity("journiv", errors.New("dial tcp: refused")), http.StatusServiceUnavailable, "Unable to connect to Journiv server"},
		{"caller gone", context.Canceled, statusClientClosedRequest, ""},
		{"other", context.DeadlineExceeded, http.StatusInternalServerError, "Error fetching: context deadline exceeded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			writeError(c, "journiv", "Error fetching", tc.err)
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.msg)
		})
	}
}
