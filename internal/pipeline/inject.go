package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"leadtimes/internal"
	"leadtimes/internal/util"
)

type targetValue struct {
	internal.InjectionTarget
	Code  string
	Value string
}

// InjectTemplate opens the template for one store+layout, writes resolved
// display texts at located anchor cells, and saves under outPath. Nothing
// else in the workbook is touched: no rows or columns move, formulas and
// the VBA payload ride through unchanged.
func InjectTemplate(store internal.Store, layout internal.LayoutKind, ref internal.TemplateRef, leads map[string]internal.ResolvedLeadTime, outPath string, warnings *[]string) error {
	f, err := excelize.OpenFile(ref.Path)
	if err != nil {
		return &internal.TemplateMissingError{Store: store.Name, Layout: layout, Path: ref.Path, Err: err}
	}
	defer func() { _ = f.Close() }()

	var targets []targetValue
	switch layout {
	case internal.LayoutSummary:
		targets = locateSummaryTargets(f, store.Name, ref, leads, warnings)
	case internal.LayoutDetailed:
		targets = locateDetailedTargets(f, store.Name, ref, leads, warnings)
	default:
		return fmt.Errorf("unknown template layout %q", layout)
	}

	for _, t := range targets {
		cell, err := excelize.JoinCellName(t.Column, t.Row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(t.Sheet, cell, t.Value); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outPath)
}

// Summary layout: each data row already carries its product code in a fixed
// column; the target is that row at the fixed value column. The first
// occurrence of a code wins.
func locateSummaryTargets(f *excelize.File, store string, ref internal.TemplateRef, leads map[string]internal.ResolvedLeadTime, warnings *[]string) []targetValue {
	codeIdx := columnIndex(ref.CodeColumn)
	matched := map[string]bool{}
	var targets []targetValue

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for i, row := range rows {
			code := util.NormalizeCode(cellAt(row, codeIdx))
			if code == "" || util.IsHeaderLabel(code) {
				continue
			}
			lr, ok := leads[code]
			if !ok {
				*warnings = append(*warnings, fmt.Sprintf("[%s/%s] Summary: template row %d code %s has no resolved value; left untouched", store, sheet, i+1, code))
				continue
			}
			if matched[code] {
				continue
			}
			matched[code] = true
			targets = append(targets, targetValue{
				InjectionTarget: internal.InjectionTarget{Sheet: sheet, Row: i + 1, Column: ref.ValueColumn},
				Code:            code,
				Value:           lr.DisplayText,
			})
		}
	}

	warnUnmatched(store, string(internal.LayoutSummary), leads, matched, warnings)
	return targets
}

// Detailed layout: rows sit in groups under a section header carrying the
// code; the target is the first row below the header whose "Do Not Show?"
// control column reads boolean false.
func locateDetailedTargets(f *excelize.File, store string, ref internal.TemplateRef, leads map[string]internal.ResolvedLeadTime, warnings *[]string) []targetValue {
	codeIdx := columnIndex(ref.CodeColumn)
	ctrlIdx := columnIndex(ref.ControlColumn)
	matched := map[string]bool{}
	var targets []targetValue

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}

		// Group boundaries: every row with a code in the code column opens
		// a new section.
		type group struct {
			code  string
			start int
			end   int
		}
		var groups []group
		for i, row := range rows {
			code := util.NormalizeCode(cellAt(row, codeIdx))
			if code == "" || util.IsHeaderLabel(code) {
				continue
			}
			if len(groups) > 0 {
				groups[len(groups)-1].end = i
			}
			groups = append(groups, group{code: code, start: i, end: len(rows)})
		}

		for _, g := range groups {
			lr, ok := leads[g.code]
			if !ok {
				*warnings = append(*warnings, fmt.Sprintf("[%s/%s] Detailed: template section %s (row %d) has no resolved value; left untouched", store, sheet, g.code, g.start+1))
				continue
			}
			if matched[g.code] {
				continue
			}
			matched[g.code] = true

			anchor := -1
			for r := g.start + 1; r < g.end; r++ {
				if isFalseCell(cellAt(rows[r], ctrlIdx)) {
					anchor = r
					break
				}
			}
			if anchor < 0 {
				*warnings = append(*warnings, fmt.Sprintf("[%s/%s] Detailed: no %s=false row under section %s; skipped", store, sheet, ref.ControlColumn, g.code))
				continue
			}

			targets = append(targets, targetValue{
				InjectionTarget: internal.InjectionTarget{Sheet: sheet, Row: anchor + 1, Column: ref.ValueColumn},
				Code:            g.code,
				Value:           lr.DisplayText,
			})
		}
	}

	warnUnmatched(store, string(internal.LayoutDetailed), leads, matched, warnings)
	return targets
}

func warnUnmatched(store, layout string, leads map[string]internal.ResolvedLeadTime, matched map[string]bool, warnings *[]string) {
	for _, code := range sortedCodes(leads) {
		if !matched[code] {
			*warnings = append(*warnings, fmt.Sprintf("[%s] %s: resolved code %s not found in template; skipped", store, layout, code))
		}
	}
}

func isFalseCell(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "false", "no", "0":
		return true
	default:
		return false
	}
}
