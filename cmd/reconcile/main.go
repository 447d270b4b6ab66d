// Command reconcile runs one day's reconciliation over raw ledger exports on
// disk, prints the summary and writes the mismatch artifact.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"daily-reconciliation/internal/config"
	"daily-reconciliation/internal/logging"
	"daily-reconciliation/internal/matching"
	"daily-reconciliation/internal/normalize"
	"daily-reconciliation/internal/report"
)

func main() {
	date := flag.String("date", time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02"), "Report date (YYYY-MM-DD)")
	chargesPath := flag.String("charges", "", "Path to a JSON array of card-processor charges")
	dealsPath := flag.String("deals", "", "Path to a JSON array of CRM deals")
	paymentsPath := flag.String("payments", "", "Path to a JSON array of invoicing-ledger payments")
	out := flag.String("out", "", "Directory for the mismatch artifact (defaults to REPORT_DIR)")
	flag.Parse()

	if err := run(*date, *chargesPath, *dealsPath, *paymentsPath, *out); err != nil {
		fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
		os.Exit(1)
	}
}

func run(date, chargesPath, dealsPath, paymentsPath, out string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid -date %q: %w", date, err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := logging.NewLogger(cfg.Log)
	if out == "" {
		out = cfg.Report.Dir
	}

	var raw normalize.RawBatches
	if err := readJSON(chargesPath, &raw.Charges); err != nil {
		return err
	}
	if err := readJSON(dealsPath, &raw.Deals); err != nil {
		return err
	}
	if err := readJSON(paymentsPath, &raw.InvoicePayments); err != nil {
		return err
	}

	opts := cfg.EngineOptions()
	opts.Logger = logger
	result := matching.NewMatchEngine(opts).Reconcile(raw.Batches(date))

	if _, err := report.NewFileWriter(out, logger).Write(result); err != nil {
		return err
	}

	fmt.Println(report.Summary(result))
	return nil
}

// readJSON decodes the file at path into dst. An empty path leaves dst empty.
func readJSON(path string, dst any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
