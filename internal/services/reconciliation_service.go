package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"daily-reconciliation/internal/database"
	"daily-reconciliation/internal/matching"
	"daily-reconciliation/internal/metrics"
	"daily-reconciliation/internal/models"
	"daily-reconciliation/internal/normalize"
	"daily-reconciliation/internal/report"
	"daily-reconciliation/internal/repositories"
)

// ArtifactWriter persists the leftovers of a result and returns where they went.
type ArtifactWriter interface {
	Write(res *matching.ReconciliationResult) (string, error)
}

type ReconciliationService struct {
	db                 *sql.DB
	matchEngine        *matching.MatchEngine
	chargeRepo         repositories.ChargeRepository
	dealRepo           repositories.DealRepository
	paymentRepo        repositories.InvoicePaymentRepository
	reconciliationRepo repositories.ReconciliationRepository
	writer             ArtifactWriter
	metrics            *metrics.Metrics
	logger             *slog.Logger
}

func NewReconciliationService(
	db *sql.DB,
	matchEngine *matching.MatchEngine,
	chargeRepo repositories.ChargeRepository,
	dealRepo repositories.DealRepository,
	paymentRepo repositories.InvoicePaymentRepository,
	reconciliationRepo repositories.ReconciliationRepository,
	writer ArtifactWriter,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		db:                 db,
		matchEngine:        matchEngine,
		chargeRepo:         chargeRepo,
		dealRepo:           dealRepo,
		paymentRepo:        paymentRepo,
		reconciliationRepo: reconciliationRepo,
		writer:             writer,
		metrics:            m,
		logger:             logger.With("component", "reconciliation_service"),
	}
}

// RunOutput is a persisted run together with the full engine result.
type RunOutput struct {
	Run    *models.ReconciliationRun      `json:"run"`
	Result *matching.ReconciliationResult `json:"result"`
}

// PreviewOutput is an engine result that was never persisted.
type PreviewOutput struct {
	Summary string                         `json:"summary"`
	Result  *matching.ReconciliationResult `json:"result"`
}

// Run reconciles the batches staged for reportDate and persists the outcome.
func (s *ReconciliationService) Run(ctx context.Context, reportDate string) (*RunOutput, error) {
	out, err := s.run(ctx, reportDate)
	if err != nil {
		s.metrics.ObserveRun(metrics.RunFailed)
		s.logger.Error("reconciliation failed", "report_date", reportDate, "error", err)
		return nil, err
	}
	s.metrics.ObserveRun(metrics.RunCompleted)
	return out, nil
}

func (s *ReconciliationService) run(ctx context.Context, reportDate string) (*RunOutput, error) {
	batches, err := s.loadBatches(ctx, reportDate)
	if err != nil {
		return nil, err
	}

	result := s.matchEngine.Reconcile(batches)
	s.metrics.ObserveResult(result)

	artifactPath, err := s.writer.Write(result)
	if err != nil {
		return nil, err
	}

	run, err := newRun(uuid.NewString(), result, artifactPath)
	if err != nil {
		return nil, err
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.reconciliationRepo.CreateRun(ctx, tx, run); err != nil {
			return fmt.Errorf("failed to create reconciliation run: %w", err)
		}

		details, err := json.Marshal(map[string]any{
			"report_date":                run.ReportDate,
			"status":                     run.Status,
			"matched_groups_by_level":    result.GroupsByLevel(),
			"dropped":                    len(result.Dropped),
			"mismatch_total_minor_units": run.MismatchTotalMinorUnits,
		})
		if err != nil {
			return err
		}
		audit := &models.ReconciliationAudit{
			RunID:   sql.NullString{String: run.RunID, Valid: true},
			Action:  models.AuditActionReconciled,
			Details: details,
			UserID:  models.SystemUser,
		}
		if err := s.reconciliationRepo.CreateAuditEntry(ctx, tx, audit); err != nil {
			return fmt.Errorf("failed to create audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reconciliation completed",
		"run_id", run.RunID,
		"report_date", reportDate,
		"status", run.Status,
		"mismatch_total_minor_units", run.MismatchTotalMinorUnits,
	)
	return &RunOutput{Run: run, Result: result}, nil
}

// loadBatches fetches the three staged batches concurrently.
func (s *ReconciliationService) loadBatches(ctx context.Context, reportDate string) (matching.Batches, error) {
	batches := matching.Batches{ReportDate: reportDate}
	var chargeErr, dealErr, paymentErr error

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		batches.Charges, chargeErr = s.chargeRepo.GetChargesByReportDate(ctx, reportDate)
	}()

	go func() {
		defer wg.Done()
		batches.Deals, dealErr = s.dealRepo.GetDealsByReportDate(ctx, reportDate)
	}()

	go func() {
		defer wg.Done()
		batches.InvoicePayments, paymentErr = s.paymentRepo.GetInvoicePaymentsByReportDate(ctx, reportDate)
	}()

	wg.Wait()

	if err := errors.Join(chargeErr, dealErr, paymentErr); err != nil {
		return matching.Batches{}, fmt.Errorf("failed to load batches for %s: %w", reportDate, err)
	}
	return batches, nil
}

// Preview reconciles inline raw batches. Nothing is read from or written to
// the store.
func (s *ReconciliationService) Preview(reportDate string, raw normalize.RawBatches) *PreviewOutput {
	result := s.matchEngine.Reconcile(raw.Batches(reportDate))
	return &PreviewOutput{
		Summary: report.Summary(result),
		Result:  result,
	}
}

func (s *ReconciliationService) GetRun(ctx context.Context, runID string) (*models.ReconciliationRun, error) {
	run, err := s.reconciliationRepo.GetRunByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reconciliation run: %w", err)
	}
	return run, nil
}

func (s *ReconciliationService) ListRuns(ctx context.Context, reportDate string) ([]*models.ReconciliationRun, error) {
	runs, err := s.reconciliationRepo.ListRunsByReportDate(ctx, reportDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliation runs: %w", err)
	}
	return runs, nil
}

func newRun(runID string, result *matching.ReconciliationResult, artifactPath string) (*models.ReconciliationRun, error) {
	leftovers, err := json.Marshal(report.NewArtifact(result))
	if err != nil {
		return nil, fmt.Errorf("failed to encode leftovers: %w", err)
	}

	status := models.StatusMatched
	if result.HasLeftovers() {
		status = models.StatusUnmatched
	}

	return &models.ReconciliationRun{
		RunID:                          runID,
		ReportDate:                     result.ReportDate,
		Status:                         status,
		MatchedGroups:                  len(result.MatchedGroups),
		UnmatchedCharges:               len(result.UnmatchedCharges),
		UnmatchedDeals:                 len(result.UnmatchedDeals),
		UnmatchedInvoicePayments:       len(result.UnmatchedInvoicePayments),
		MismatchTotalMinorUnits:        result.MismatchTotalMinorUnits,
		ChargesGrossMinorUnits:         result.GrossTotals.ChargesMinorUnits,
		DealsGrossMinorUnits:           result.GrossTotals.DealsMinorUnits,
		InvoicePaymentsGrossMinorUnits: result.GrossTotals.InvoicePaymentsMinorUnits,
		RefundedTotalMinorUnits:        result.RefundedTotalMinorUnits,
		Summary:                        report.Summary(result),
		ArtifactPath:                   artifactPath,
		Leftovers:                      leftovers,
	}, nil
}
