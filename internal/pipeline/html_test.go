package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"leadtimes/internal"
)

func fragmentDoc(t *testing.T, fragment string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	return doc
}

func TestRenderHTMLMetroParagraphs(t *testing.T) {
	leads := map[string]internal.ResolvedLeadTime{
		"CRTWT": {Code: "CRTWT", DisplayText: "3-4 weeks"},
		"CRTBL": {Code: "CRTBL", DisplayText: "2 weeks"},
	}
	cutoffs := map[string]internal.ResolvedCutoff{
		"CRTWT": {Code: "CRTWT", Date: time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC)},
		"CRTBL": {Code: "CRTBL", Date: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)},
	}

	fragment := RenderHTML(internal.FamilyMetro, leads, cutoffs)
	if !strings.Contains(fragment, "CRTWT: 3-4 weeks, order by 2025-12-10") {
		t.Errorf("missing paired line in:\n%s", fragment)
	}

	doc := fragmentDoc(t, fragment)
	if n := doc.Find("p").Length(); n != 2 {
		t.Errorf("expected 2 paragraphs, got %d", n)
	}
	if n := doc.Find("p br").Length(); n != 2 {
		t.Errorf("expected a <br /> per paragraph, got %d", n)
	}
	if first := doc.Find("p").First().Text(); !strings.HasPrefix(first, "CRTBL:") {
		t.Errorf("codes must render in sorted order, first line %q", first)
	}
}

func TestRenderHTMLRegionalList(t *testing.T) {
	leads := map[string]internal.ResolvedLeadTime{
		"CRTWT": {Code: "CRTWT", DisplayText: "3-4 weeks"},
	}
	fragment := RenderHTML(internal.FamilyRegional, leads, nil)

	doc := fragmentDoc(t, fragment)
	if n := doc.Find("ul > li").Length(); n != 1 {
		t.Errorf("expected 1 list item, got %d", n)
	}
	if got := doc.Find("li").First().Text(); got != "CRTWT: 3-4 weeks" {
		t.Errorf("unexpected list item %q", got)
	}
}

func TestRenderHTMLDeterministic(t *testing.T) {
	leads := map[string]internal.ResolvedLeadTime{
		"C": {Code: "C", DisplayText: "1 week"},
		"A": {Code: "A", DisplayText: "2 weeks"},
		"B": {Code: "B", DisplayText: "3 weeks"},
	}
	first := RenderHTML(internal.FamilyMetro, leads, nil)
	for i := 0; i < 20; i++ {
		if got := RenderHTML(internal.FamilyMetro, leads, nil); got != first {
			t.Fatalf("output not byte-identical on run %d:\n%s\nvs\n%s", i, first, got)
		}
	}
}

func TestRenderHTMLEscapesText(t *testing.T) {
	leads := map[string]internal.ResolvedLeadTime{
		"CRTWT": {Code: "CRTWT", DisplayText: "3-4 weeks <approx>"},
	}
	fragment := RenderHTML(internal.FamilyMetro, leads, nil)
	if strings.Contains(fragment, "<approx>") {
		t.Errorf("source text must be escaped:\n%s", fragment)
	}
	if !strings.Contains(fragment, "&lt;approx&gt;") {
		t.Errorf("expected escaped text in:\n%s", fragment)
	}
}

func TestRenderHTMLEmptyInput(t *testing.T) {
	if got := RenderHTML(internal.FamilyMetro, nil, nil); got != "" {
		t.Errorf("metro fragment for empty input should be empty, got %q", got)
	}
	if got := RenderHTML(internal.FamilyRegional, nil, nil); got != "<ul>\n</ul>\n" {
		t.Errorf("regional fragment for empty input should be an empty list, got %q", got)
	}
}
