package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"leadtimes/internal"
	"leadtimes/internal/config"
	"leadtimes/internal/pipeline"
	"leadtimes/internal/sheets"
	"leadtimes/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "publish":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		storeName := fs.String("store", "", "publish a single store by name")
		outDir := fs.String("outdir", cfg.OutputDir, "artifact output directory")
		_ = fs.Parse(os.Args[2:])

		stores, err := cfg.LoadStores()
		must(err)
		if strings.TrimSpace(*storeName) != "" {
			stores = filterStores(stores, *storeName)
			if len(stores) == 0 {
				must(fmt.Errorf("unknown store: %s", *storeName))
			}
		}

		ctx := context.Background()
		client, err := sheets.NewClient(ctx, cfg)
		must(err)

		report, err := pipeline.NewPublisher(client, db).Run(ctx, stores, *outDir)
		must(err)

		for _, result := range report.Results {
			fmt.Printf("published store=%s artifacts=%d warnings=%d\n", result.Store, len(result.Artifacts), len(result.Warnings))
		}
		for _, failure := range report.Failures {
			target := failure.Store
			if failure.Layout != "" {
				target += "/" + string(failure.Layout)
			}
			fmt.Fprintf(os.Stderr, "failed %s at %s: %v\n", target, failure.Stage, failure.Err)
		}
		if len(report.Warnings) > 0 {
			fmt.Printf("%d warnings written to %s\n", len(report.Warnings), *outDir+"/warnings.txt")
		}
		if len(report.Failures) > 0 {
			os.Exit(1)
		}
	case "runs:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max rows")
		_ = fs.Parse(os.Args[2:])

		runs, err := db.ListPublishRuns(*limit)
		must(err)
		for _, run := range runs {
			fmt.Printf("%d\t%s\t%s\t%s\tartifacts=%d warnings=%d\t%s\n",
				run.ID, run.CreatedAt, run.Store, run.Status, len(run.Artifacts), len(run.Warnings), run.Detail)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func filterStores(stores []internal.Store, name string) []internal.Store {
	var out []internal.Store
	for _, store := range stores {
		if strings.EqualFold(strings.TrimSpace(store.Name), strings.TrimSpace(name)) {
			out = append(out, store)
		}
	}
	return out
}

func usage() {
	fmt.Println("usage: leadtimes <command>")
	fmt.Println("commands:")
	fmt.Println("  publish [--store=Canberra] [--outdir=./out]")
	fmt.Println("  runs:list [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
