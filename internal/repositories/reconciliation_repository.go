package repositories

import (
	"context"
	"database/sql"
	"errors"

	"daily-reconciliation/internal/models"
)

var ErrRunNotFound = errors.New("reconciliation run not found")

//go:generate mockgen -destination=mocks/mock_reconciliation_repository.go -package=mock_repositories -source=reconciliation_repository.go ReconciliationRepository
type ReconciliationRepository interface {
	CreateRun(ctx context.Context, tx *sql.Tx, run *models.ReconciliationRun) error
	GetRunByRunID(ctx context.Context, runID string) (*models.ReconciliationRun, error)
	ListRunsByReportDate(ctx context.Context, reportDate string) ([]*models.ReconciliationRun, error)
	CreateAuditEntry(ctx context.Context, tx *sql.Tx, audit *models.ReconciliationAudit) error
}

type reconciliationRepository struct {
	db *sql.DB
}

func NewReconciliationRepository(db *sql.DB) ReconciliationRepository {
	return &reconciliationRepository{db: db}
}

const runColumns = `
		id, run_id, report_date, status, matched_groups,
		unmatched_charges, unmatched_deals, unmatched_invoice_payments,
		mismatch_total_minor_units, charges_gross_minor_units,
		deals_gross_minor_units, invoice_payments_gross_minor_units,
		refunded_total_minor_units, summary, artifact_path, leftovers, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*models.ReconciliationRun, error) {
	run := &models.ReconciliationRun{}
	var leftovers []byte
	err := s.Scan(
		&run.ID,
		&run.RunID,
		&run.ReportDate,
		&run.Status,
		&run.MatchedGroups,
		&run.UnmatchedCharges,
		&run.UnmatchedDeals,
		&run.UnmatchedInvoicePayments,
		&run.MismatchTotalMinorUnits,
		&run.ChargesGrossMinorUnits,
		&run.DealsGrossMinorUnits,
		&run.InvoicePaymentsGrossMinorUnits,
		&run.RefundedTotalMinorUnits,
		&run.Summary,
		&run.ArtifactPath,
		&leftovers,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Leftovers = leftovers
	return run, nil
}

func (r *reconciliationRepository) CreateRun(ctx context.Context, tx *sql.Tx, run *models.ReconciliationRun) error {
	query := `
		INSERT INTO reconciliation_runs (
			run_id, report_date, status, matched_groups,
			unmatched_charges, unmatched_deals, unmatched_invoice_payments,
			mismatch_total_minor_units, charges_gross_minor_units,
			deals_gross_minor_units, invoice_payments_gross_minor_units,
			refunded_total_minor_units, summary, artifact_path, leftovers
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, query,
		run.RunID,
		run.ReportDate,
		run.Status,
		run.MatchedGroups,
		run.UnmatchedCharges,
		run.UnmatchedDeals,
		run.UnmatchedInvoicePayments,
		run.MismatchTotalMinorUnits,
		run.ChargesGrossMinorUnits,
		run.DealsGrossMinorUnits,
		run.InvoicePaymentsGrossMinorUnits,
		run.RefundedTotalMinorUnits,
		run.Summary,
		run.ArtifactPath,
		[]byte(run.Leftovers),
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	run.ID = id
	return nil
}

func (r *reconciliationRepository) GetRunByRunID(ctx context.Context, runID string) (*models.ReconciliationRun, error) {
	query := `SELECT` + runColumns + `
		FROM reconciliation_runs
		WHERE run_id = ?
	`
	run, err := scanRun(r.db.QueryRowContext(ctx, query, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (r *reconciliationRepository) ListRunsByReportDate(ctx context.Context, reportDate string) ([]*models.ReconciliationRun, error) {
	query := `SELECT` + runColumns + `
		FROM reconciliation_runs
		WHERE report_date = ?
		ORDER BY id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, reportDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*models.ReconciliationRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *reconciliationRepository) CreateAuditEntry(ctx context.Context, tx *sql.Tx, audit *models.ReconciliationAudit) error {
	query := `
		INSERT INTO reconciliation_audit (
			run_id, action, details, user_id
		) VALUES (?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, query,
		audit.RunID,
		audit.Action,
		[]byte(audit.Details),
		audit.UserID,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	audit.ID = id
	return nil
}
