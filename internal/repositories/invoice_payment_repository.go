package repositories

import (
	"context"
	"database/sql"

	"daily-reconciliation/internal/matching"
)

//go:generate mockgen -destination=mocks/mock_invoice_payment_repository.go -package=mock_repositories -source=invoice_payment_repository.go InvoicePaymentRepository
type InvoicePaymentRepository interface {
	UpsertInvoicePayment(ctx context.Context, tx *sql.Tx, reportDate string, p *matching.InvoicePaymentRecord) error
	GetInvoicePaymentsByReportDate(ctx context.Context, reportDate string) ([]matching.InvoicePaymentRecord, error)
}

type invoicePaymentRepository struct {
	db *sql.DB
}

func NewInvoicePaymentRepository(db *sql.DB) InvoicePaymentRepository {
	return &invoicePaymentRepository{db: db}
}

func (r *invoicePaymentRepository) UpsertInvoicePayment(ctx context.Context, tx *sql.Tx, reportDate string, p *matching.InvoicePaymentRecord) error {
	query := `
		INSERT INTO invoice_payments (
			payment_id, report_date, amount, updated_local
		) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			report_date = VALUES(report_date),
			amount = VALUES(amount),
			updated_local = VALUES(updated_local)
	`
	_, err := tx.ExecContext(ctx, query,
		p.ID,
		reportDate,
		p.Amount,
		p.UpdatedAt,
	)
	return err
}

// GetInvoicePaymentsByReportDate returns the staged batch as ingested. The
// report date filter on updated_local is the engine's job, not the query's.
func (r *invoicePaymentRepository) GetInvoicePaymentsByReportDate(ctx context.Context, reportDate string) ([]matching.InvoicePaymentRecord, error) {
	query := `
		SELECT payment_id, amount, updated_local
		FROM invoice_payments
		WHERE report_date = ?
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, reportDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]matching.InvoicePaymentRecord, 0)
	for rows.Next() {
		var p matching.InvoicePaymentRecord
		if err := rows.Scan(&p.ID, &p.Amount, &p.UpdatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}
