// Package dates parses user-supplied calendar date strings.
package dates

import (
	"fmt"
	"strings"
	"time"
)

var layouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
	"02 Jan 2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Parse interprets a calendar date in any accepted layout. It only
// accepts date strings; spreadsheet date serials are a cell-level
// concern and are rejected here.
func Parse(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)

	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date: %s", raw)
}
