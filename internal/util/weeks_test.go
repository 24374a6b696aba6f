package util

import (
	"testing"

	"leadtimes/internal"
)

func TestParseWeekRanges(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []internal.WeekRange
	}{
		{name: "simple range", input: "3-4 weeks", want: []internal.WeekRange{{Low: 3, High: 4}}},
		{name: "abbreviated unit", input: "10 wks", want: []internal.WeekRange{{Low: 10, High: 10}}},
		{name: "singular unit", input: "10 week", want: []internal.WeekRange{{Low: 10, High: 10}}},
		{name: "upper case", input: "3 WEEKS", want: []internal.WeekRange{{Low: 3, High: 3}}},
		{name: "reversed bounds swap", input: "4-2 weeks", want: []internal.WeekRange{{Low: 2, High: 4}}},
		{name: "en dash", input: "2–3 weeks", want: []internal.WeekRange{{Low: 2, High: 3}}},
		{name: "to separator", input: "2 to 3 weeks", want: []internal.WeekRange{{Low: 2, High: 3}}},
		{name: "dotted abbreviation", input: "5 wks.", want: []internal.WeekRange{{Low: 5, High: 5}}},
		{name: "multiple matches", input: "2-3 weeks (PC 4-5 weeks)", want: []internal.WeekRange{{Low: 2, High: 3}, {Low: 4, High: 5}}},
		{name: "range and single", input: "usually 2 weeks, peak 3-6 weeks", want: []internal.WeekRange{{Low: 3, High: 6}, {Low: 2, High: 2}}},
		{name: "no unit", input: "call for estimate", want: nil},
		{name: "bare number", input: "about 3", want: nil},
		{name: "empty", input: "", want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseWeekRanges(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v want %v", got, tc.want)
				}
			}
		})
	}
}

func TestParseWeekRangesNoDoubleCount(t *testing.T) {
	got := ParseWeekRanges("3-4 weeks")
	if len(got) != 1 {
		t.Fatalf("range must not also match as a single duration: %v", got)
	}
}
