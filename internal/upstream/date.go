package upstream

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format both backends use.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value, failing with ErrInvalidArgument.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, InvalidArgument("%s %q: invalid date format, use YYYY-MM-DD", field, value)
	}
	return t, nil
}
