package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"daily-reconciliation/internal/database"
	"daily-reconciliation/internal/matching"
	"daily-reconciliation/internal/models"
	"daily-reconciliation/internal/normalize"
	"daily-reconciliation/internal/repositories"
)

// IngestionService stages raw ledger batches for later reconciliation.
type IngestionService struct {
	db                 *sql.DB
	chargeRepo         repositories.ChargeRepository
	dealRepo           repositories.DealRepository
	paymentRepo        repositories.InvoicePaymentRepository
	reconciliationRepo repositories.ReconciliationRepository
	logger             *slog.Logger
}

func NewIngestionService(
	db *sql.DB,
	chargeRepo repositories.ChargeRepository,
	dealRepo repositories.DealRepository,
	paymentRepo repositories.InvoicePaymentRepository,
	reconciliationRepo repositories.ReconciliationRepository,
	logger *slog.Logger,
) *IngestionService {
	return &IngestionService{
		db:                 db,
		chargeRepo:         chargeRepo,
		dealRepo:           dealRepo,
		paymentRepo:        paymentRepo,
		reconciliationRepo: reconciliationRepo,
		logger:             logger.With("component", "ingestion_service"),
	}
}

type IngestionResult struct {
	Success      bool     `json:"success"`
	Source       string   `json:"source"`
	ReportDate   string   `json:"report_date"`
	RecordsCount int      `json:"records_count"`
	Errors       []string `json:"errors,omitempty"`
}

func (s *IngestionService) IngestCharges(ctx context.Context, reportDate string, raw []normalize.StripeCharge) (*IngestionResult, error) {
	return ingest(ctx, s, matching.SourceCharges, reportDate, normalize.Charges(raw),
		func(c matching.ChargeRecord) string { return c.ID },
		func(tx *sql.Tx, c *matching.ChargeRecord) error {
			return s.chargeRepo.UpsertCharge(ctx, tx, reportDate, c)
		})
}

// IngestDeals stores deal amounts verbatim, including ones that will not
// parse; the engine drops those at reconciliation time.
func (s *IngestionService) IngestDeals(ctx context.Context, reportDate string, raw []normalize.HubSpotDeal) (*IngestionResult, error) {
	return ingest(ctx, s, matching.SourceDeals, reportDate, normalize.Deals(raw),
		func(d matching.DealRecord) string { return d.ID },
		func(tx *sql.Tx, d *matching.DealRecord) error {
			return s.dealRepo.UpsertDeal(ctx, tx, reportDate, d)
		})
}

func (s *IngestionService) IngestInvoicePayments(ctx context.Context, reportDate string, raw []normalize.FreshBooksPayment) (*IngestionResult, error) {
	return ingest(ctx, s, matching.SourceInvoicePayments, reportDate, normalize.InvoicePayments(raw),
		func(p matching.InvoicePaymentRecord) string { return p.ID },
		func(tx *sql.Tx, p *matching.InvoicePaymentRecord) error {
			return s.paymentRepo.UpsertInvoicePayment(ctx, tx, reportDate, p)
		})
}

// ingest upserts a whole batch in one transaction. A batch with any invalid
// record is rejected as a unit so a day is never staged half-way.
func ingest[T any](
	ctx context.Context,
	s *IngestionService,
	source, reportDate string,
	records []T,
	id func(T) string,
	upsert func(*sql.Tx, *T) error,
) (*IngestionResult, error) {
	result := &IngestionResult{
		Success:    true,
		Source:     source,
		ReportDate: reportDate,
	}

	for i, r := range records {
		if id(r) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: id is required", i))
		}
	}
	if len(result.Errors) > 0 {
		result.Success = false
		s.logger.Warn("batch rejected", "source", source, "report_date", reportDate, "errors", len(result.Errors))
		return result, nil
	}

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for i := range records {
			if err := upsert(tx, &records[i]); err != nil {
				return fmt.Errorf("failed to upsert %s record %s: %w", source, id(records[i]), err)
			}
			result.RecordsCount++
		}

		details, err := json.Marshal(map[string]any{
			"source":        source,
			"report_date":   reportDate,
			"total_records": len(records),
		})
		if err != nil {
			return err
		}
		audit := &models.ReconciliationAudit{
			Action:  models.AuditActionIngested,
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

	s.logger.Info("batch staged", "source", source, "report_date", reportDate, "records", result.RecordsCount)
	return result, nil
}
