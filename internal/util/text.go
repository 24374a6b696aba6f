package util

import "strings"

var headerLabels = map[string]struct{}{
	"code":            {},
	"codes":           {},
	"product":         {},
	"product code":    {},
	"product codes":   {},
	"inventory code":  {},
	"inventory codes": {},
	"cutoff":          {},
	"cutoff date":     {},
}

// NormalizeCode upper-cases and trims a product code token. Codes are used
// as map keys and compared against template cells, so both sides go through
// here.
func NormalizeCode(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

// SplitCodes splits a mapping cell like "ROLL, ROLLCB, ZIPSV2" into
// normalized code tokens. Blank tokens are dropped.
func SplitCodes(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		norm := NormalizeCode(p)
		if norm != "" {
			out = append(out, norm)
		}
	}
	return out
}

// IsHeaderLabel reports whether a cell reads like a column heading rather
// than data. Source tabs and templates both carry heading rows typed by
// hand, so the match is loose on case and spacing.
func IsHeaderLabel(cell string) bool {
	norm := strings.ToLower(strings.TrimSpace(cell))
	if norm == "" {
		return false
	}
	if _, ok := headerLabels[norm]; ok {
		return true
	}
	return strings.HasPrefix(norm, "lead time")
}
