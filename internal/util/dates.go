package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var rangeSeparators = []string{"–", "—", " to ", " - "}

// ParseCutoffDate accepts "YYYY-MM-DD", "dd/mm/yyyy" and "dd/mm/yy"
// (two-digit years pivot at 69). A date range such as
// "10/12/2025 - 15/12/2025" reduces to the later date.
func ParseCutoffDate(s string) (time.Time, error) {
	ss := strings.TrimSpace(s)
	if ss == "" {
		return time.Time{}, errors.New("empty date")
	}

	if t, err := parseSingleDate(ss); err == nil {
		return t, nil
	}

	for _, sep := range rangeSeparators {
		if !strings.Contains(ss, sep) {
			continue
		}
		var best time.Time
		found := false
		for _, part := range strings.Split(ss, sep) {
			t, err := parseSingleDate(strings.TrimSpace(part))
			if err != nil {
				continue
			}
			if !found || t.After(best) {
				best = t
				found = true
			}
		}
		if found {
			return best, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

func parseSingleDate(ss string) (time.Time, error) {
	if strings.Contains(ss, "-") && len(ss) >= 8 {
		return time.Parse("2006-01-02", ss)
	}

	parts := strings.Split(ss, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("unrecognized date format: %q", ss)
	}
	year := parts[2]
	if len(year) == 2 {
		n, err := strconv.Atoi(year)
		if err != nil {
			return time.Time{}, fmt.Errorf("unrecognized date format: %q", ss)
		}
		if n <= 69 {
			year = "20" + year
		} else {
			year = "19" + year
		}
	}
	return time.Parse("2/1/2006", parts[0]+"/"+parts[1]+"/"+year)
}
