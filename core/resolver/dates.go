package resolver

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

// ParseRelativeDate resolves a relative date phrase to an ISO calendar date.
// The upstream service is expected to resolve phrases before they reach an
// action, so this is a defensive utility for callers that still receive one:
// "today" and "tomorrow" map to their dates, anything parseable is
// normalized, and everything else falls back to today.
func ParseRelativeDate(phrase string, now time.Time) string {
	switch strings.ToLower(strings.TrimSpace(phrase)) {
	case "today":
		return now.Format("2006-01-02")
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02")
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, strings.TrimSpace(phrase)); err == nil {
			return parsed.Format("2006-01-02")
		}
	}

	return now.Format("2006-01-02")
}
