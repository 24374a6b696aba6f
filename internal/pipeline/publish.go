package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"leadtimes/internal"
	"leadtimes/internal/storage"
)

// Fetcher is the read-only spreadsheet collaborator. Transport concerns
// (auth, retry, rate limits) live behind it.
type Fetcher interface {
	FetchTab(ctx context.Context, sheetID, tabName, cellRange string) ([][]string, error)
}

type Publisher struct {
	fetcher Fetcher
	db      *storage.DB
}

// NewPublisher wires the pipeline. db may be nil; run history is then not
// recorded.
func NewPublisher(fetcher Fetcher, db *storage.DB) *Publisher {
	return &Publisher{fetcher: fetcher, db: db}
}

type RunReport struct {
	Results  []internal.PublishResult
	Failures []internal.StoreFailure
	Warnings []string
}

// Run publishes every store in order. Stores are isolated: a fetch,
// validation, or template failure in one never stops the others. Warnings
// are aggregated and also written to <outDir>/warnings.txt when any exist.
func (p *Publisher) Run(ctx context.Context, stores []internal.Store, outDir string) (RunReport, error) {
	report := RunReport{}
	tag := time.Now().Format("20060102")

	for _, store := range stores {
		result, failures, warnings := p.publishStore(ctx, store, outDir, tag)
		if result != nil {
			report.Results = append(report.Results, *result)
		}
		report.Failures = append(report.Failures, failures...)
		report.Warnings = append(report.Warnings, warnings...)
		p.recordRun(store.Name, result, failures, warnings)
	}

	if len(report.Warnings) > 0 {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return report, err
		}
		path := filepath.Join(outDir, "warnings.txt")
		if err := os.WriteFile(path, []byte(strings.Join(report.Warnings, "\n")+"\n"), 0o644); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (p *Publisher) publishStore(ctx context.Context, store internal.Store, outDir, tag string) (*internal.PublishResult, []internal.StoreFailure, []string) {
	leadRows, err := p.fetcher.FetchTab(ctx, store.LeadTimes.SheetID, store.LeadTimes.TabName, store.LeadTimes.CellRange)
	if err != nil {
		return nil, []internal.StoreFailure{{Store: store.Name, Stage: "fetch", Err: &internal.FetchError{Store: store.Name, Tab: store.LeadTimes.TabName, Err: err}}}, nil
	}
	cutoffRows, err := p.fetcher.FetchTab(ctx, store.Cutoffs.SheetID, store.Cutoffs.TabName, store.Cutoffs.CellRange)
	if err != nil {
		return nil, []internal.StoreFailure{{Store: store.Name, Stage: "fetch", Err: &internal.FetchError{Store: store.Name, Tab: store.Cutoffs.TabName, Err: err}}}, nil
	}

	var warnings []string
	leadEntries, w := LeadEntries(store.Name, leadRows, store.LeadTimes)
	warnings = append(warnings, w...)
	cutoffEntries, w := CutoffEntries(store.Name, cutoffRows, store.Cutoffs)
	warnings = append(warnings, w...)

	leads := ResolveLeadTimes(leadEntries)
	cutoffs := ResolveCutoffs(cutoffEntries)

	consistency := ValidateCodes(store.Name, leads, cutoffs)
	if !consistency.OK {
		// Failed stores publish nothing, but the parse warnings often explain
		// the set difference and must still surface.
		return nil, []internal.StoreFailure{{Store: store.Name, Stage: "validate", Err: &internal.ConsistencyError{Report: consistency}}}, warnings
	}

	// Validation passed; only now may artifacts appear on disk.
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, []internal.StoreFailure{{Store: store.Name, Stage: "emit", Err: err}}, warnings
	}

	htmlText := RenderHTML(store.Family, leads, cutoffs)
	htmlPath := filepath.Join(outDir, fmt.Sprintf("leadtimes_%s.html", sanitizeName(store.Name)))
	if err := os.WriteFile(htmlPath, []byte(htmlText), 0o644); err != nil {
		return nil, []internal.StoreFailure{{Store: store.Name, Stage: "emit", Err: err}}, warnings
	}

	result := internal.PublishResult{Store: store.Name, HTML: htmlText, Artifacts: []string{htmlPath}}
	var failures []internal.StoreFailure

	for _, layout := range []internal.LayoutKind{internal.LayoutDetailed, internal.LayoutSummary} {
		ref, ok := store.Templates[layout]
		if !ok {
			continue
		}
		ext := filepath.Ext(ref.Path)
		if ext == "" {
			ext = ".xlsm"
		}
		outPath := filepath.Join(outDir, fmt.Sprintf("%s_%s_%s%s", sanitizeName(store.Name), strings.ToLower(string(layout)), tag, ext))
		if err := InjectTemplate(store, layout, ref, leads, outPath, &warnings); err != nil {
			failures = append(failures, internal.StoreFailure{Store: store.Name, Layout: layout, Stage: "inject", Err: err})
			continue
		}
		result.Artifacts = append(result.Artifacts, outPath)
	}

	result.Warnings = warnings
	return &result, failures, warnings
}

func (p *Publisher) recordRun(store string, result *internal.PublishResult, failures []internal.StoreFailure, warnings []string) {
	if p.db == nil {
		return
	}

	status := "published"
	stage := ""
	detail := ""
	if len(failures) > 0 {
		status = "failed"
		if result != nil {
			status = "partial"
		}
		stage = failures[0].Stage
		detail = failures[0].Err.Error()
	}

	var artifacts []string
	if result != nil {
		artifacts = result.Artifacts
	}
	if err := p.db.InsertPublishRun(store, status, stage, detail, artifacts, warnings); err != nil {
		fmt.Printf("record run for %s: %v\n", store, err)
	}
}

func sanitizeName(name string) string {
	out := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(out, " ", "_")
}
