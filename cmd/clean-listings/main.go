package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	flag "github.com/spf13/pflag"

	"compboard/internal/config"
	"compboard/internal/dataset"
	"compboard/internal/export"
	"compboard/internal/listing"
	"compboard/internal/logging"
)

type options struct {
	input     string
	outDir    string
	csvPath   string
	sqlite    string
	profile   string
	minRating float64
	minLog10  float64
	hasRating bool
	limit     int
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "input", "data.xlsx", "Listing spreadsheet (.xlsx or .csv)")
	flag.StringVar(&opts.outDir, "out-dir", "outputs", "Output directory")
	flag.StringVar(&opts.csvPath, "csv", "", "Cleaned CSV output path (default <out-dir>/listings_cleaned.csv)")
	flag.StringVar(&opts.sqlite, "sqlite", "", "SQLite output path (default <out-dir>/listings_cleaned.sqlite)")
	flag.StringVar(&opts.profile, "profile", "", "Profile markdown output path (default <out-dir>/listings_profile.md)")
	flag.Float64Var(&opts.minRating, "min-rating", 0, "Minimum rating for the printed table (default: dataset minimum)")
	flag.Float64Var(&opts.minLog10, "min-log", 0, "Minimum log10(review count + 1) for the printed table")
	flag.IntVar(&opts.limit, "limit", 20, "Rows to print (0 = all)")
	logLevel := flag.String("log-level", "warn", "debug, info, warn or error")
	configPath := flag.String("config", "", "Optional YAML config file supplying data_file and export.out_dir")
	flag.Parse()
	opts.hasRating = flag.CommandLine.Changed("min-rating")

	if *configPath != "" {
		cfg, err := config.LoadFile(*configPath)
		if err != nil {
			fatalf("%v", err)
		}
		if !flag.CommandLine.Changed("input") {
			opts.input = cfg.DataFile
		}
		if !flag.CommandLine.Changed("out-dir") {
			opts.outDir = cfg.Export.OutDir
		}
		if !flag.CommandLine.Changed("log-level") {
			*logLevel = cfg.Log.Level
		}
	}

	logger, err := logging.New(os.Stderr, *logLevel, "text")
	if err != nil {
		fatalf("logging: %v", err)
	}
	loader, err := dataset.NewLoader(1, logger)
	if err != nil {
		fatalf("loader: %v", err)
	}
	if err := run(os.Stdout, loader, opts); err != nil {
		var le *dataset.LoadError
		if errors.As(err, &le) {
			fatalf("Error: %s", le.UserMessage())
		}
		fatalf("%v", err)
	}
}

func (o *options) defaults() {
	if o.csvPath == "" {
		o.csvPath = filepath.Join(o.outDir, "listings_cleaned.csv")
	}
	if o.sqlite == "" {
		o.sqlite = filepath.Join(o.outDir, "listings_cleaned.sqlite")
	}
	if o.profile == "" {
		o.profile = filepath.Join(o.outDir, "listings_profile.md")
	}
}

func run(w io.Writer, loader *dataset.Loader, opts options) error {
	opts.defaults()
	res, err := loader.Load(opts.input)
	if err != nil {
		return err
	}
	records := res.Dataset.Records()

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir outputs: %w", err)
	}
	if err := export.WriteCSV(opts.csvPath, records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := export.WriteSQLite(opts.sqlite, records); err != nil {
		return fmt.Errorf("write sqlite: %w", err)
	}
	if err := os.WriteFile(opts.profile, []byte(export.BuildProfile(opts.input, res.Stats, records)), 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	t := listing.Thresholds{MinRating: listing.RatingSlider(records).Min, MinLog10: opts.minLog10}
	if opts.hasRating {
		t.MinRating = opts.minRating
	}
	filtered := res.Dataset.View(t)
	s := listing.Summarize(records, filtered)

	fmt.Fprintf(w, "Rows read: %d\n", res.Stats.RowsRead)
	fmt.Fprintf(w, "Rows written (cleaned): %d\n", len(records))
	fmt.Fprintf(w, "Dropped (no rating): %d\n", res.Stats.DroppedNoRating)
	fmt.Fprintf(w, "CSV: %s\n", opts.csvPath)
	fmt.Fprintf(w, "SQLite: %s\n", opts.sqlite)
	fmt.Fprintf(w, "Profile: %s\n", opts.profile)
	fmt.Fprintln(w)
	writeSummary(w, t, s)
	if len(filtered) == 0 {
		fmt.Fprintln(w, "No products match the current filters; lower --min-rating or --min-log.")
		return nil
	}
	writeTable(w, listing.TableRows(filtered), opts.limit)
	return nil
}

func writeSummary(w io.Writer, t listing.Thresholds, s listing.Summary) {
	fmt.Fprintf(w, "Filter: rating >= %.2f, reviews >= 10^%.1f\n", t.MinRating, t.MinLog10)
	coverage := "n/a"
	if s.HasCoverage {
		coverage = fmt.Sprintf("%.1f%%", s.Coverage)
	}
	fmt.Fprintf(w, "Products: %d (%s of total)\n", s.Count, coverage)
	fmt.Fprintf(w, "Average rating: %.2f (original %.2f)\n", s.AverageRating, s.OriginalAverageRating)
	if s.HasMaxReviewCount {
		fmt.Fprintf(w, "Max reviews: %s\n", humanize.Comma(s.MaxReviewCount))
	} else {
		fmt.Fprintln(w, "Max reviews: N/A")
	}
}

func writeTable(w io.Writer, rows []listing.TableRow, limit int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Title", "Rating", "Reviews"})
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for i, r := range rows {
		if limit > 0 && i >= limit {
			break
		}
		table.Append([]string{r.Title, strconv.FormatFloat(r.Rating, 'f', 2, 64), humanize.Comma(r.ReviewCount)})
	}
	table.Render()
	if limit > 0 && len(rows) > limit {
		fmt.Fprintf(w, "... %d more rows\n", len(rows)-limit)
	}
}

func fatalf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}
