package dataset

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vivienda/server/internal/models"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"2006-01",
}

var quarterLabel = regexp.MustCompile(`^(\d{4})-?[Qq]([1-4])$`)

// ParseDate parses the date formats found in the published series. Quarter
// labels such as 2020Q1 map to the first day of the quarter.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if m := quarterLabel.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		q, _ := strconv.Atoi(m[2])
		return time.Date(year, time.Month(3*(q-1)+1), 1, 0, 0, 0, 0, time.UTC), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// ParseValue coerces a cell to a number. Blank, non-numeric and non-finite
// cells (NaN, Inf) are nil.
func ParseValue(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !IsFinite(v) {
		return nil
	}
	return models.Float(v)
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatDate is the date layout used by every exported artifact.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
