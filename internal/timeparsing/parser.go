// Package timeparsing provides layered parsing for point-in-time
// expressions such as the --since flag value.
//
// The layers are tried in order:
//  1. Absolute timestamp (RFC3339, date-only)
//  2. Compact duration (-6h, -1d, -2w), applied to now
//  3. Natural language (yesterday, last monday)
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// compactDurationRe matches compact duration patterns: [+-]?(\d+)([hdwmy])
// Examples: +6h, -1d, +2w, 3m, 1y
var compactDurationRe = regexp.MustCompile(`^([+-]?)(\d+)([hdwmy])$`)

// absoluteLayouts are the explicit timestamp forms tried before any
// relative interpretation.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsePoint resolves a point-in-time expression against now.
//
// Accepted forms, tried in order:
//   - absolute timestamps ("2024-12-15T00:00:00Z", "2024-12-15")
//   - compact durations ("-1d", "2w"), offsets from now
//   - natural language ("yesterday", "last monday at 9am")
func ParsePoint(s string, now time.Time) (time.Time, error) {
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}

	if IsCompactDuration(s) {
		return ParseCompactDuration(s, now)
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time expression %q: %w", s, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("unrecognized time expression: %q", s)
	}
	return result.Time, nil
}

// ParseCompactDuration parses compact duration syntax and returns the
// resulting time relative to now.
//
// Format: [+-]?(\d+)([hdwmy])
//
// Units:
//   - h = hours
//   - d = days
//   - w = weeks
//   - m = months
//   - y = years
//
// Examples:
//   - "-6h" -> now - 6 hours
//   - "-1d" -> now - 1 day
//   - "2w"  -> now + 2 weeks (no sign = positive)
//
// Returns error if input doesn't match the compact duration pattern.
func ParseCompactDuration(s string, now time.Time) (time.Time, error) {
	matches := compactDurationRe.FindStringSubmatch(s)
	if matches == nil {
		return time.Time{}, fmt.Errorf("not a compact duration: %q", s)
	}

	sign := matches[1]
	amountStr := matches[2]
	unit := matches[3]

	amount, err := strconv.Atoi(amountStr)
	if err != nil {
		// Should not happen given regex ensures digits, but handle gracefully
		return time.Time{}, fmt.Errorf("invalid duration amount: %q", amountStr)
	}

	// Apply sign (default positive)
	if sign == "-" {
		amount = -amount
	}

	return applyDuration(now, amount, unit), nil
}

// applyDuration applies the given amount and unit to the base time.
func applyDuration(base time.Time, amount int, unit string) time.Time {
	switch unit {
	case "h":
		return base.Add(time.Duration(amount) * time.Hour)
	case "d":
		return base.AddDate(0, 0, amount)
	case "w":
		return base.AddDate(0, 0, amount*7)
	case "m":
		return base.AddDate(0, amount, 0)
	case "y":
		return base.AddDate(amount, 0, 0)
	default:
		// Should not happen given regex, but return base unchanged
		return base
	}
}

// IsCompactDuration returns true if the string matches compact duration syntax.
func IsCompactDuration(s string) bool {
	return compactDurationRe.MatchString(s)
}
