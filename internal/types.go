package internal

import (
	"fmt"
	"strings"
	"time"
)

type LayoutKind string

const (
	LayoutDetailed LayoutKind = "Detailed"
	LayoutSummary  LayoutKind = "Summary"
)

type StoreFamily string

const (
	FamilyMetro    StoreFamily = "metro"
	FamilyRegional StoreFamily = "regional"
)

// TabRef points at one tab of a source spreadsheet and names the two
// columns the publisher reads from it.
type TabRef struct {
	SheetID    string `json:"sheetId"`
	TabName    string `json:"tabName"`
	CellRange  string `json:"cellRange"`
	CodeColumn string `json:"codeColumn"`
	TextColumn string `json:"textColumn"`
}

// TemplateRef points at a macro-enabled template file and the columns the
// injector navigates by. Summary templates key rows by CodeColumn; Detailed
// templates anchor on the first boolean-false cell in ControlColumn below a
// code's section header.
type TemplateRef struct {
	Path          string `json:"path"`
	CodeColumn    string `json:"codeColumn"`
	ValueColumn   string `json:"valueColumn"`
	ControlColumn string `json:"controlColumn,omitempty"`
}

type Store struct {
	Name      string                     `json:"name"`
	Family    StoreFamily                `json:"family"`
	LeadTimes TabRef                     `json:"leadTimes"`
	Cutoffs   TabRef                     `json:"cutoffs"`
	Templates map[LayoutKind]TemplateRef `json:"templates"`
}

// RawCellEntry is one (code, text) pair as fetched from a source tab.
// Row is the 1-based row position within the fetched range.
type RawCellEntry struct {
	Code string
	Text string
	Row  int
}

type WeekRange struct {
	Low  int
	High int
}

type LeadTimeEntry struct {
	RawCellEntry
	Ranges []WeekRange
}

type CutoffEntry struct {
	RawCellEntry
	Date time.Time
}

// ResolvedLeadTime holds the winning entry for one code. DisplayText is the
// verbatim source text of the winner; Best exists only for comparison and is
// never rendered.
type ResolvedLeadTime struct {
	Code        string
	DisplayText string
	Best        WeekRange
	Row         int
}

type ResolvedCutoff struct {
	Code        string
	Date        time.Time
	DisplayText string
	Row         int
}

type ConsistencyReport struct {
	Store       string
	LeadCodes   []string
	CutoffCodes []string
	LeadOnly    []string
	CutoffOnly  []string
	OK          bool
}

// InjectionTarget is a located cell inside a template file.
type InjectionTarget struct {
	Sheet  string
	Row    int
	Column string
}

type PublishResult struct {
	Store     string
	HTML      string
	Artifacts []string
	Warnings  []string
}

type StoreFailure struct {
	Store  string
	Layout LayoutKind
	Stage  string
	Err    error
}

type PublishRunRow struct {
	ID        int
	Store     string
	Status    string
	Stage     string
	Detail    string
	Artifacts []string
	Warnings  []string
	CreatedAt string
}

type FetchError struct {
	Store string
	Tab   string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s/%s: %v", e.Store, e.Tab, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type ConsistencyError struct {
	Report ConsistencyReport
}

func (e *ConsistencyError) Error() string {
	parts := []string{fmt.Sprintf("code sets differ for %s", e.Report.Store)}
	if len(e.Report.LeadOnly) > 0 {
		parts = append(parts, "lead-times only: "+strings.Join(e.Report.LeadOnly, ", "))
	}
	if len(e.Report.CutoffOnly) > 0 {
		parts = append(parts, "cutoffs only: "+strings.Join(e.Report.CutoffOnly, ", "))
	}
	return strings.Join(parts, "; ")
}

type TemplateMissingError struct {
	Store  string
	Layout LayoutKind
	Path   string
	Err    error
}

func (e *TemplateMissingError) Error() string {
	return fmt.Sprintf("template %s/%s missing: %s: %v", e.Store, e.Layout, e.Path, e.Err)
}

func (e *TemplateMissingError) Unwrap() error { return e.Err }
