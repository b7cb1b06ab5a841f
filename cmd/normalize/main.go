package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ShravyaChalla/fetch-rewards-assessment/constants"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/common"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/exchange"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/export"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/loader"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/pipeline"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/query"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/store"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	cfg := common.LoadConfig()

	// Flags override the environment
	flag.StringVar(&cfg.Input.UsersPath, "users", cfg.Input.UsersPath, "users JSON Lines file")
	flag.StringVar(&cfg.Input.ReceiptsPath, "receipts", cfg.Input.ReceiptsPath, "receipts JSON Lines file")
	flag.StringVar(&cfg.Input.BrandsPath, "brands", cfg.Input.BrandsPath, "brands JSON Lines file")
	flag.BoolVar(&cfg.Input.SkipMalformed, "skip-malformed", cfg.Input.SkipMalformed, "skip malformed lines instead of aborting")
	flag.StringVar(&cfg.Database.Driver, "driver", cfg.Database.Driver, "store driver: sqlite or postgres")
	flag.StringVar(&cfg.Database.DSN, "db", cfg.Database.DSN, "store DSN (SQLite file path or postgres URL)")
	flag.BoolVar(&cfg.Load.Transactional, "transactional", cfg.Load.Transactional, "replace all tables in one transaction")
	flag.IntVar(&cfg.Load.BatchSize, "batch", cfg.Load.BatchSize, "rows per INSERT statement")
	flag.StringVar(&cfg.Report.Path, "report", cfg.Report.Path, "write query results to this XLSX file (optional)")
	skipQueries := flag.Bool("load-only", false, "load the tables without answering the queries")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, !*skipQueries, logger); err != nil {
		logger.Error("run failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *common.Config, answer bool, logger *slog.Logger) error {
	st, err := store.Open(ctx, store.ConfigFrom(cfg.Database), logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if err := st.HealthCheck(ctx, cfg.Database.HealthTimeout); err != nil {
		return fmt.Errorf("store health: %w", err)
	}

	policy := exchange.FailFast
	if cfg.Input.SkipMalformed {
		policy = exchange.SkipMalformed
	}
	reader, err := exchange.NewReader(policy, logger)
	if err != nil {
		return err
	}
	ld := loader.New(st, loader.Options{
		Transactional: cfg.Load.Transactional,
		BatchSize:     cfg.Load.BatchSize,
	}, logger)

	sum, err := pipeline.New(logger, reader, ld).Run(ctx, pipeline.InputsFrom(cfg.Input))
	if err != nil {
		return err
	}
	printSummary(sum)

	if !answer {
		return nil
	}
	res, err := query.RunAll(ctx, st, query.SystemClock, logger)
	if err != nil {
		return fmt.Errorf("queries: %w", err)
	}
	printResults(res)

	if cfg.Report.Path != "" {
		xlsxBytes, err := export.NewService(logger).ResultsXLSX(res)
		if err != nil {
			return fmt.Errorf("build report: %w", err)
		}
		if err := os.WriteFile(cfg.Report.Path, xlsxBytes, 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("report written", "path", cfg.Report.Path, "size", humanize.Bytes(uint64(len(xlsxBytes))))
	}
	return nil
}

func printSummary(sum *pipeline.Summary) {
	fmt.Printf("Load complete (run %s, %s)\n", sum.RunID, sum.Duration.Round(time.Millisecond))
	collections := make([]string, 0, len(sum.Read))
	for c := range sum.Read {
		collections = append(collections, string(c))
	}
	sort.Strings(collections)
	for _, c := range collections {
		st := sum.Read[constants.Collection(c)]
		fmt.Printf("- read %-9s %s records, %s skipped\n", c, humanize.Comma(int64(st.Records)), humanize.Comma(int64(st.Skipped)))
	}
	for _, t := range constants.Tables() {
		fmt.Printf("- table %-14s %s rows\n", t, humanize.Comma(int64(sum.Rows[t])))
	}
}

func printResults(res *query.Results) {
	fmt.Printf("\nAs of %s\n", res.AsOf.UTC().Format("2006-01-02"))

	fmt.Println("\nAverage spend by status:")
	for _, r := range res.AverageSpend {
		fmt.Printf("- %-10s %s\n", r.Status, humanize.CommafWithDigits(r.Value, 2))
	}
	if top, ok := query.Highest(res.AverageSpend); ok {
		fmt.Printf("  highest: %s\n", top.Status)
	}

	fmt.Println("\nItems purchased by status:")
	for _, r := range res.ItemsPurchased {
		fmt.Printf("- %-10s %s\n", r.Status, humanize.CommafWithDigits(r.Value, 0))
	}
	if top, ok := query.Highest(res.ItemsPurchased); ok {
		fmt.Printf("  highest: %s\n", top.Status)
	}

	printBrands("Top brands by receipts scanned, most recent month:", res.TopBrandsThisMonth, 0)
	printBrands("Top brands by receipts scanned, previous month:", res.TopBrandsPreviousMonth, 0)
	printBrands("Brands by spend among users created in the past six months:", res.TopBrandSpend, 2)
	printBrands("Brands by transactions among users created in the past six months:", res.TopBrandTransactions, 0)
}

func printBrands(title string, rows []query.BrandValue, digits int) {
	fmt.Println("\n" + title)
	if len(rows) == 0 {
		fmt.Println("- (none)")
		return
	}
	for _, r := range rows {
		fmt.Printf("- %-30s %s\n", r.Brand, humanize.CommafWithDigits(r.Value, digits))
	}
}
