// Command reportgen produces a monthly report file without going through the
// HTTP API: pick a user and a month, get a PDF or CSV on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/budget"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/report/pdf"
)

func main() {
	userID := flag.String("user", "", "user id to report on")
	monthStr := flag.String("month", core.ThisMonth().String(), "month to report (YYYY-MM)")
	format := flag.String("format", "pdf", "output format: pdf or csv")
	out := flag.String("out", "", "output file (default <reports-dir>/report-<month>.<format>)")
	flag.Parse()

	if err := run(*userID, *monthStr, *format, *out); err != nil {
		fmt.Fprintln(os.Stderr, "reportgen:", err)
		os.Exit(1)
	}
}

func run(userID, monthStr, format, out string) error {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	if userID == "" {
		return fmt.Errorf("-user is required")
	}
	month, err := core.ParseMonth(monthStr)
	if err != nil {
		return err
	}
	if format != "pdf" && format != "csv" {
		return fmt.Errorf("unknown format %q", format)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := context.Background()
	st, cleanup, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize backend: %w", err)
	}
	if cleanup != nil {
		defer func() { _ = cleanup() }()
	}

	policy := core.RejectNegative
	if cfg.AllowNegativeAmounts {
		policy = core.AllowNegative
	}
	entries := ledger.New(st, policy, cfg.FetchLimit)
	reports := report.New(entries, budget.New(st), pdf.New())

	if out == "" {
		out = filepath.Join(cfg.ReportsDir, fmt.Sprintf("report-%s.%s", month, format))
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, cfg.QueryTimeout)
	defer cancel()

	switch format {
	case "csv":
		start, end := month.Bounds()
		list, err := entries.List(ctx, core.KindExpense, userID, ledger.Filter{Start: start, End: end})
		if err != nil {
			return err
		}
		if err := report.WriteCSV(f, list); err != nil {
			return err
		}
	default:
		if err := reports.Generate(ctx, userID, month, f); err != nil {
			return err
		}
	}

	logger.Info("Report written", "path", out, applog.FieldUserID, userID, applog.FieldMonth, month.String())
	return f.Close()
}
