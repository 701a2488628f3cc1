package mapping

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnparseableDate marks input no layout could parse. It propagates
// rather than degrading: a ticket cannot be created without a valid
// creation time.
var ErrUnparseableDate = errors.New("unrecognized date format")

// createdDateLayouts is the fixed ordered list of accepted input shapes;
// the first successful parse wins.
var createdDateLayouts = []string{
	"2006-01-02",          // date only
	"01/02/2006",          // MM/DD/YYYY
	"02-01-2006",          // DD-MM-YYYY
	"2006-01-02 15:04:05", // full datetime
	"2006/01/02 15:04",    // datetime without seconds
	"01/02/2006 15:04",    // MM/DD/YYYY with time
	"01-02-06",            // MM-DD-YY
	"2006-01-02T15:04:05", // ISO 8601 without timezone
}

// NormalizeCreatedDate parses a free-text date, localizes it to loc, and
// re-emits it as an offset-qualified ISO-8601 timestamp, e.g.
// "2024-12-15T00:00:00-05:00". Date-only input lands at local midnight.
func NormalizeCreatedDate(created string, loc *time.Location) (string, error) {
	created = strings.TrimSpace(created)
	if created == "" {
		return "", fmt.Errorf("%w: empty input", ErrUnparseableDate)
	}

	for _, layout := range createdDateLayouts {
		parsed, err := time.ParseInLocation(layout, created, loc)
		if err != nil {
			continue
		}
		return parsed.Format("2006-01-02T15:04:05-07:00"), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnparseableDate, created)
}
