package pipeline

import (
	"fmt"
	"html"
	"strings"
	"time"

	"leadtimes/internal"
)

// RenderHTML builds the storefront fragment for one validated store
// dataset. Pure and deterministic: codes are emitted in sorted order and
// identical input always produces byte-identical output.
//
// Two layout variants exist, one per store family: metro renders one
// paragraph per line, regional renders a list.
func RenderHTML(family internal.StoreFamily, leads map[string]internal.ResolvedLeadTime, cutoffs map[string]internal.ResolvedCutoff) string {
	lines := make([]string, 0, len(leads))
	for _, code := range sortedCodes(leads) {
		line := fmt.Sprintf("%s: %s", code, leads[code].DisplayText)
		if co, ok := cutoffs[code]; ok {
			line += ", order by " + co.Date.Format(time.DateOnly)
		}
		lines = append(lines, html.EscapeString(line))
	}

	var b strings.Builder
	if family == internal.FamilyRegional {
		b.WriteString("<ul>\n")
		for _, line := range lines {
			b.WriteString("  <li>" + line + "</li>\n")
		}
		b.WriteString("</ul>\n")
		return b.String()
	}

	for _, line := range lines {
		b.WriteString("<p>" + line + "<br /></p>\n")
	}
	return b.String()
}
