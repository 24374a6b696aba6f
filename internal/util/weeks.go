package util

import (
	"regexp"
	"strconv"

	"leadtimes/internal"
)

// Week-unit grammar: week/weeks/wk/wks, optional trailing dot,
// case-insensitive. Ranges accept a hyphen, en/em dash, or "to".
var (
	weekRangePattern  = regexp.MustCompile(`(?i)(\d+)\s*(?:-|–|—|to)\s*(\d+)\s*w(?:ee)?ks?\b\.?`)
	weekSinglePattern = regexp.MustCompile(`(?i)(\d+)\s*w(?:ee)?ks?\b\.?`)
)

// ParseWeekRanges extracts every integer or integer-range followed by a week
// unit from free text. "3-4 weeks" yields {3,4}; "10 wks" yields {10,10};
// a reversed pair is swapped into order. Text with no match yields nil and
// the caller decides whether that warrants a warning.
func ParseWeekRanges(text string) []internal.WeekRange {
	if text == "" {
		return nil
	}

	type span struct{ start, end int }
	var spans []span
	var out []internal.WeekRange

	for _, m := range weekRangePattern.FindAllStringSubmatchIndex(text, -1) {
		a, errA := strconv.Atoi(text[m[2]:m[3]])
		b, errB := strconv.Atoi(text[m[4]:m[5]])
		if errA != nil || errB != nil {
			continue
		}
		if a > b {
			a, b = b, a
		}
		spans = append(spans, span{m[0], m[1]})
		out = append(out, internal.WeekRange{Low: a, High: b})
	}

	// Single durations, skipping anything already consumed by a range match
	// so "3-4 weeks" does not also produce {4,4}.
	for _, m := range weekSinglePattern.FindAllStringSubmatchIndex(text, -1) {
		inside := false
		for _, s := range spans {
			if m[0] >= s.start && m[0] < s.end {
				inside = true
				break
			}
		}
		if inside {
			continue
		}
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		out = append(out, internal.WeekRange{Low: n, High: n})
	}

	return out
}
