package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"leadtimes/internal"
	"leadtimes/internal/util"
)

// LeadEntries turns fetched tab rows into lead-time entries. A mapping cell
// may carry several comma-separated codes; each code gets an entry sharing
// the row's text. Rows whose text parses to no week range are kept but
// flagged, so resolution can skip them while the warning surfaces.
func LeadEntries(store string, rows [][]string, ref internal.TabRef) ([]internal.LeadTimeEntry, []string) {
	codeIdx := columnIndex(ref.CodeColumn)
	textIdx := columnIndex(ref.TextColumn)

	var entries []internal.LeadTimeEntry
	var warnings []string
	for i, row := range rows {
		code := cellAt(row, codeIdx)
		text := cellAt(row, textIdx)
		if code == "" && text == "" {
			continue
		}
		if util.IsHeaderLabel(code) || util.IsHeaderLabel(text) {
			continue
		}
		codes := util.SplitCodes(code)
		if len(codes) == 0 {
			continue
		}
		ranges := util.ParseWeekRanges(text)
		if len(ranges) == 0 {
			warnings = append(warnings, fmt.Sprintf("[%s] lead-time row %d (%s): no week range in %q", store, i+1, strings.Join(codes, ","), text))
		}
		for _, c := range codes {
			entries = append(entries, internal.LeadTimeEntry{
				RawCellEntry: internal.RawCellEntry{Code: c, Text: text, Row: i + 1},
				Ranges:       ranges,
			})
		}
	}
	return entries, warnings
}

// CutoffEntries is the cutoff-tab counterpart of LeadEntries. Rows whose
// date cell does not parse are dropped with a warning.
func CutoffEntries(store string, rows [][]string, ref internal.TabRef) ([]internal.CutoffEntry, []string) {
	codeIdx := columnIndex(ref.CodeColumn)
	textIdx := columnIndex(ref.TextColumn)

	var entries []internal.CutoffEntry
	var warnings []string
	for i, row := range rows {
		code := cellAt(row, codeIdx)
		text := cellAt(row, textIdx)
		if code == "" && text == "" {
			continue
		}
		if util.IsHeaderLabel(code) || util.IsHeaderLabel(text) {
			continue
		}
		codes := util.SplitCodes(code)
		if len(codes) == 0 {
			continue
		}
		date, err := util.ParseCutoffDate(text)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("[%s] cutoff row %d (%s): unparsable date %q", store, i+1, strings.Join(codes, ","), text))
			continue
		}
		for _, c := range codes {
			entries = append(entries, internal.CutoffEntry{
				RawCellEntry: internal.RawCellEntry{Code: c, Text: text, Row: i + 1},
				Date:         date,
			})
		}
	}
	return entries, warnings
}

// ResolveLeadTimes picks one winner per code: greatest upper bound, then
// greatest lower bound, then first in source row order. The winner's
// verbatim text becomes the display value.
func ResolveLeadTimes(entries []internal.LeadTimeEntry) map[string]internal.ResolvedLeadTime {
	out := make(map[string]internal.ResolvedLeadTime, len(entries))
	for _, e := range entries {
		if len(e.Ranges) == 0 {
			continue
		}
		best := bestRange(e.Ranges)
		cur, ok := out[e.Code]
		if !ok || beats(best, cur.Best) {
			out[e.Code] = internal.ResolvedLeadTime{Code: e.Code, DisplayText: e.Text, Best: best, Row: e.Row}
		}
	}
	return out
}

// ResolveCutoffs keeps the latest date per code; ties keep the first entry
// in row order.
func ResolveCutoffs(entries []internal.CutoffEntry) map[string]internal.ResolvedCutoff {
	out := make(map[string]internal.ResolvedCutoff, len(entries))
	for _, e := range entries {
		cur, ok := out[e.Code]
		if !ok || e.Date.After(cur.Date) {
			out[e.Code] = internal.ResolvedCutoff{Code: e.Code, Date: e.Date, DisplayText: e.Text, Row: e.Row}
		}
	}
	return out
}

func bestRange(ranges []internal.WeekRange) internal.WeekRange {
	best := ranges[0]
	for _, r := range ranges[1:] {
		if beats(r, best) {
			best = r
		}
	}
	return best
}

func beats(a, b internal.WeekRange) bool {
	if a.High != b.High {
		return a.High > b.High
	}
	return a.Low > b.Low
}

func cellAt(row []string, idx int) string {
	if idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func columnIndex(letter string) int {
	n, err := excelize.ColumnNameToNumber(strings.TrimSpace(letter))
	if err != nil {
		return -1
	}
	return n - 1
}

func sortedCodes[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for code := range m {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
