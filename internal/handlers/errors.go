package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/c0pper/data-driven-blog/internal/upstream"
)

// statusClientClosedRequest is nginx's code for a caller that went away
// before the response was ready.
const statusClientClosedRequest = 499

var serviceLabels = map[string]string{
	"immich":  "Immich",
	"journiv": "Journiv",
}

func label(service string) string {
	if l, ok := serviceLabels[service]; ok {
		return l
	}
	return service
}

// writeError maps a backend failure onto the gateway's status codes.
// action prefixes unclassified errors, e.g. "Error fetching journal entries".
func writeError(c *gin.Context, service, action string, err error) {
	var status *upstream.StatusError
	switch {
	case errors.Is(err, context.Canceled):
		c.AbortWithStatus(statusClientClosedRequest)
	case errors.As(err, &status):
		code := status.StatusCode
		if code < 400 || code > 599 {
			code = http.StatusBadGateway
		}
		c.JSON(code, gin.H{"error": label(status.Service) + " API error: " + strings.TrimSpace(status.Body)})
	case errors.Is(err, upstream.ErrAuthentication):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to authenticate with " + label(service)})
	case errors.Is(err, upstream.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, upstream.ErrConnectivity):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to connect to " + label(service) + " server: " + err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": action + ": " + err.Error()})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
