// Package upstream holds the error taxonomy shared by the backend clients.
// The gateway classifies every failure with errors.Is / errors.As against
// these values and never inspects client internals.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrConnectivity    = errors.New("upstream unreachable")
	ErrAuthentication  = errors.New("upstream authentication failed")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAuthenticationRequired is returned when an authenticated call is
	// attempted without a session. It matches ErrAuthentication.
	ErrAuthenticationRequired = fmt.Errorf("%w: not authenticated, login first", ErrAuthentication)
)

// StatusError is a non-success response from a backend.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s %d: %s", e.Service, e.StatusCode, body)
}

// Is lets a 401 from a backend satisfy errors.Is(err, ErrAuthentication).
func (e *StatusError) Is(target error) bool {
	return target == ErrAuthentication && e.StatusCode == http.StatusUnauthorized
}

func Connectivity(service string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrConnectivity, service, err)
}

// Transport classifies a failed round trip. When ctx has ended the caller
// gave up, so ctx.Err() is returned as is; anything else is a connectivity
// failure.
func Transport(ctx context.Context, service string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return Connectivity(service, err)
}

// Outcome is the metrics label for a round trip that failed with err.
func Outcome(err error) string {
	if errors.Is(err, ErrConnectivity) {
		return "error"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "error"
}

func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
