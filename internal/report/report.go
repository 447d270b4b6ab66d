package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"daily-reconciliation/internal/matching"
)

// FileName is the leftover artifact name for a report date.
func FileName(reportDate string) string {
	return fmt.Sprintf("mismatched-%s.json", reportDate)
}

// Summary renders the daily one-paragraph report. The second sentence, which
// points at the artifact, only appears when something was left unmatched.
func Summary(res *matching.ReconciliationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "For %s there was a mismatch of $%s between card processor gross (includes invoice payments) volume $%s, CRM closed deals $%s. Difference is $%s.",
		res.ReportDate,
		Money(res.MismatchTotalMinorUnits),
		Money(res.GrossTotals.ChargesMinorUnits+res.GrossTotals.InvoicePaymentsMinorUnits),
		Money(res.GrossTotals.DealsMinorUnits),
		Money(res.GrossTotals.DifferenceMinorUnits()),
	)

	if res.HasLeftovers() {
		fmt.Fprintf(&b, " There are %d mismatched transactions listed on the %s file. Refunded amount is $%s.",
			len(res.UnmatchedCharges),
			FileName(res.ReportDate),
			Money(res.RefundedTotalMinorUnits),
		)
	}
	return b.String()
}

// Money formats minor units as a two-decimal major-unit amount.
func Money(minor int64) string {
	return matching.MajorUnits(minor).StringFixed(2)
}

// Artifact is the persisted leftover document.
type Artifact struct {
	InvoicePayments []matching.InvoicePaymentRecord `json:"invoice_payments"`
	Charges         []matching.ChargeRecord         `json:"charges"`
	Deals           []matching.DealRecord           `json:"deals"`
}

func NewArtifact(res *matching.ReconciliationResult) Artifact {
	return Artifact{
		InvoicePayments: res.UnmatchedInvoicePayments,
		Charges:         res.UnmatchedCharges,
		Deals:           res.UnmatchedDeals,
	}
}

// Marshal encodes the artifact with two-space indentation.
func (a Artifact) Marshal() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// FileWriter stores leftover artifacts under a directory.
type FileWriter struct {
	dir    string
	logger *slog.Logger
}

func NewFileWriter(dir string, logger *slog.Logger) *FileWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileWriter{dir: dir, logger: logger.With("component", "report_writer")}
}

// Write stores the leftovers of res and returns the written path. It writes
// nothing and returns "" when every record was matched.
func (w *FileWriter) Write(res *matching.ReconciliationResult) (string, error) {
	if !res.HasLeftovers() {
		return "", nil
	}

	data, err := NewArtifact(res).Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to encode artifact: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report dir: %w", err)
	}

	path := filepath.Join(w.dir, FileName(res.ReportDate))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	w.logger.Info("mismatch artifact written", "path", path, "report_date", res.ReportDate)
	return path, nil
}
