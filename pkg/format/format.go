// Package format holds the pure text helpers shared by the web and terminal
// renderers: date display, HTML escaping, markdown stripping and truncation.
package format

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// NotAvailable is shown for missing or unreadable timestamps.
const NotAvailable = "N/A"

// Ellipsis is appended by TruncateText when text is cut.
const Ellipsis = "..."

var headingMarker = regexp.MustCompile(`#{1,6}\s`)

// ErrInvalidTimestamp is returned by ParseTimestamp for unrecognized input.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Timestamps carrying a zone are taken as-is; date-times without one are
// read in local time, and bare dates as UTC midnight.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999Z0700",
	}
	localLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05.999999999",
	}
)

// ParseTimestamp parses the ISO-8601 variants produced by the lead backend.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidTimestamp
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// FormatDate renders ts relative to now: "Just now", "5 min ago",
// "3 hours ago", "2 days ago", then a short absolute date once a week has
// passed. The year is only shown when it differs from now's year.
func FormatDate(ts string, now time.Time) string {
	if ts == "" {
		return NotAvailable
	}
	t, err := ParseTimestamp(ts)
	if err != nil {
		return NotAvailable
	}

	diff := now.Sub(t)
	mins := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return fmt.Sprintf("%d min ago", mins)
	case hours < 24:
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	case days < 7:
		return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
	}

	local := t.In(now.Location())
	if local.Year() != now.Year() {
		return local.Format("Jan 2, 2006")
	}
	return local.Format("Jan 2")
}

// FormatAbsolute renders ts as a full local date and time.
func FormatAbsolute(ts string) string {
	if ts == "" {
		return NotAvailable
	}
	t, err := ParseTimestamp(ts)
	if err != nil {
		return NotAvailable
	}
	return t.Local().Format("Jan 2, 2006, 3:04 PM")
}

func plural(n int, word string) string {
	if n > 1 {
		return word + "s"
	}
	return word
}

// EscapeHTML makes text safe to insert as HTML content.
func EscapeHTML(text string) string {
	return html.EscapeString(text)
}

// StripMarkdown removes emphasis and heading markers and folds newlines into
// spaces. It is a best-effort cleanup for one-line display, not a parser.
func StripMarkdown(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")
	text = strings.ReplaceAll(text, "\n", " ")
	return headingMarker.ReplaceAllString(text, "")
}

// TruncateText returns text unchanged when it has at most maxLength
// characters, otherwise its first maxLength characters followed by "...".
// A negative maxLength is treated as 0.
func TruncateText(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	if maxLength < 0 {
		maxLength = 0
	}
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLength]) + Ellipsis
}
