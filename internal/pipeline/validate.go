package pipeline

import (
	"sort"

	"leadtimes/internal"
)

// ValidateCodes enforces code-set equality between resolved lead times and
// resolved cutoffs for one store. Publishing a lead time with no matching
// cutoff policy (or the reverse) is customer-facing incorrectness, so any
// difference is a hard fail for the store.
func ValidateCodes(store string, leads map[string]internal.ResolvedLeadTime, cutoffs map[string]internal.ResolvedCutoff) internal.ConsistencyReport {
	report := internal.ConsistencyReport{
		Store:       store,
		LeadCodes:   sortedCodes(leads),
		CutoffCodes: sortedCodes(cutoffs),
	}

	for _, code := range report.LeadCodes {
		if _, ok := cutoffs[code]; !ok {
			report.LeadOnly = append(report.LeadOnly, code)
		}
	}
	for _, code := range report.CutoffCodes {
		if _, ok := leads[code]; !ok {
			report.CutoffOnly = append(report.CutoffOnly, code)
		}
	}
	sort.Strings(report.LeadOnly)
	sort.Strings(report.CutoffOnly)

	report.OK = len(report.LeadOnly) == 0 && len(report.CutoffOnly) == 0
	return report
}
