package pipeline

import (
	"strings"
	"testing"
	"time"

	"leadtimes/internal"
)

func leadRef() internal.TabRef {
	return internal.TabRef{CodeColumn: "A", TextColumn: "B"}
}

func TestLeadEntriesSkipsHeadersAndFansOutCodes(t *testing.T) {
	rows := [][]string{
		{"Code", "Lead Time"},
		{"CRTWT", "3-4 weeks"},
		{"CRTBL, CRTGR", "2 weeks"},
		{"", ""},
	}
	entries, warnings := LeadEntries("Canberra", rows, leadRef())
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[1].Code != "CRTBL" || entries[2].Code != "CRTGR" {
		t.Errorf("comma codes not fanned out: %+v", entries)
	}
	if entries[1].Text != "2 weeks" || entries[2].Text != "2 weeks" {
		t.Errorf("fanned-out entries should share the row text: %+v", entries)
	}
	if entries[0].Row != 2 {
		t.Errorf("expected 1-based source row 2, got %d", entries[0].Row)
	}
}

func TestLeadEntriesWarnsOnUnparsableText(t *testing.T) {
	rows := [][]string{
		{"CRTWT", "ask the warehouse"},
	}
	entries, warnings := LeadEntries("Canberra", rows, leadRef())
	if len(entries) != 1 || len(entries[0].Ranges) != 0 {
		t.Fatalf("unparsable entry should be kept with no ranges: %+v", entries)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "no week range") {
		t.Fatalf("expected a no-week-range warning, got %v", warnings)
	}
}

func TestCutoffEntriesDropsUnparsableDates(t *testing.T) {
	rows := [][]string{
		{"CRTWT", "2025-12-10"},
		{"CRTBL", "soonish"},
	}
	entries, warnings := CutoffEntries("Canberra", rows, leadRef())
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "unparsable date") {
		t.Fatalf("expected an unparsable-date warning, got %v", warnings)
	}
}

func TestResolveLeadTimesWidestUpperBoundWins(t *testing.T) {
	entries := []internal.LeadTimeEntry{
		{RawCellEntry: internal.RawCellEntry{Code: "CRTWT", Text: "2-3 weeks", Row: 1}, Ranges: []internal.WeekRange{{Low: 2, High: 3}}},
		{RawCellEntry: internal.RawCellEntry{Code: "CRTWT", Text: "1-4 weeks", Row: 2}, Ranges: []internal.WeekRange{{Low: 1, High: 4}}},
	}
	out := ResolveLeadTimes(entries)
	if got := out["CRTWT"].DisplayText; got != "1-4 weeks" {
		t.Errorf("expected winner text %q, got %q", "1-4 weeks", got)
	}
}

func TestResolveLeadTimesTieBreaksOnLowerBoundThenRowOrder(t *testing.T) {
	entries := []internal.LeadTimeEntry{
		{RawCellEntry: internal.RawCellEntry{Code: "A", Text: "2-4 weeks", Row: 1}, Ranges: []internal.WeekRange{{Low: 2, High: 4}}},
		{RawCellEntry: internal.RawCellEntry{Code: "A", Text: "3-4 weeks", Row: 2}, Ranges: []internal.WeekRange{{Low: 3, High: 4}}},
		{RawCellEntry: internal.RawCellEntry{Code: "B", Text: "first 2 weeks", Row: 1}, Ranges: []internal.WeekRange{{Low: 2, High: 2}}},
		{RawCellEntry: internal.RawCellEntry{Code: "B", Text: "second 2 weeks", Row: 2}, Ranges: []internal.WeekRange{{Low: 2, High: 2}}},
	}
	out := ResolveLeadTimes(entries)
	if got := out["A"].DisplayText; got != "3-4 weeks" {
		t.Errorf("equal High should prefer greater Low, got %q", got)
	}
	if got := out["B"].DisplayText; got != "first 2 weeks" {
		t.Errorf("full tie should keep first row, got %q", got)
	}
}

func TestResolveLeadTimesSkipsRangelessEntries(t *testing.T) {
	entries := []internal.LeadTimeEntry{
		{RawCellEntry: internal.RawCellEntry{Code: "CRTWT", Text: "tbc", Row: 1}},
	}
	if out := ResolveLeadTimes(entries); len(out) != 0 {
		t.Errorf("rangeless entries must not resolve: %v", out)
	}
}

func TestResolveLeadTimesIdempotent(t *testing.T) {
	entries := []internal.LeadTimeEntry{
		{RawCellEntry: internal.RawCellEntry{Code: "CRTWT", Text: "2-3 weeks", Row: 1}, Ranges: []internal.WeekRange{{Low: 2, High: 3}}},
		{RawCellEntry: internal.RawCellEntry{Code: "CRTWT", Text: "1-4 weeks", Row: 2}, Ranges: []internal.WeekRange{{Low: 1, High: 4}}},
	}
	first := ResolveLeadTimes(entries)
	second := ResolveLeadTimes(entries)
	if first["CRTWT"] != second["CRTWT"] {
		t.Errorf("resolution not deterministic: %+v vs %+v", first["CRTWT"], second["CRTWT"])
	}
}

func TestResolveCutoffsLatestDateWins(t *testing.T) {
	d1 := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC)
	entries := []internal.CutoffEntry{
		{RawCellEntry: internal.RawCellEntry{Code: "CRTWT", Text: "1/12/2025", Row: 1}, Date: d1},
		{RawCellEntry: internal.RawCellEntry{Code: "CRTWT", Text: "10/12/2025", Row: 2}, Date: d2},
		{RawCellEntry: internal.RawCellEntry{Code: "CRTWT", Text: "2025-12-10", Row: 3}, Date: d2},
	}
	out := ResolveCutoffs(entries)
	got := out["CRTWT"]
	if !got.Date.Equal(d2) {
		t.Errorf("expected latest date %v, got %v", d2, got.Date)
	}
	if got.Row != 2 {
		t.Errorf("date tie should keep the earlier row, got row %d", got.Row)
	}
}
