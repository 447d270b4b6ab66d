package repositories

import (
	"context"
	"database/sql"

	"daily-reconciliation/internal/matching"
)

//go:generate mockgen -destination=mocks/mock_charge_repository.go -package=mock_repositories -source=charge_repository.go ChargeRepository
type ChargeRepository interface {
	UpsertCharge(ctx context.Context, tx *sql.Tx, reportDate string, c *matching.ChargeRecord) error
	GetChargesByReportDate(ctx context.Context, reportDate string) ([]matching.ChargeRecord, error)
}

type chargeRepository struct {
	db *sql.DB
}

func NewChargeRepository(db *sql.DB) ChargeRepository {
	return &chargeRepository{db: db}
}

func (r *chargeRepository) UpsertCharge(ctx context.Context, tx *sql.Tx, reportDate string, c *matching.ChargeRecord) error {
	query := `
		INSERT INTO charges (
			charge_id, report_date, amount_minor_units, refunded_minor_units,
			created_epoch, status, establishment_id, client_id,
			customer_id, billing_email, description
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			report_date = VALUES(report_date),
			amount_minor_units = VALUES(amount_minor_units),
			refunded_minor_units = VALUES(refunded_minor_units),
			created_epoch = VALUES(created_epoch),
			status = VALUES(status),
			establishment_id = VALUES(establishment_id),
			client_id = VALUES(client_id),
			customer_id = VALUES(customer_id),
			billing_email = VALUES(billing_email),
			description = VALUES(description)
	`
	_, err := tx.ExecContext(ctx, query,
		c.ID,
		reportDate,
		c.AmountMinorUnits,
		c.RefundedMinorUnits,
		c.CreatedAt,
		string(c.Status),
		c.EstablishmentID,
		c.ClientID,
		c.CustomerID,
		c.BillingEmail,
		c.Description,
	)
	return err
}

func (r *chargeRepository) GetChargesByReportDate(ctx context.Context, reportDate string) ([]matching.ChargeRecord, error) {
	query := `
		SELECT charge_id, amount_minor_units, refunded_minor_units,
		       created_epoch, status, establishment_id, client_id,
		       customer_id, billing_email, COALESCE(description, '')
		FROM charges
		WHERE report_date = ?
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, reportDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	charges := make([]matching.ChargeRecord, 0)
	for rows.Next() {
		var c matching.ChargeRecord
		var status string
		err := rows.Scan(
			&c.ID,
			&c.AmountMinorUnits,
			&c.RefundedMinorUnits,
			&c.CreatedAt,
			&status,
			&c.EstablishmentID,
			&c.ClientID,
			&c.CustomerID,
			&c.BillingEmail,
			&c.Description,
		)
		if err != nil {
			return nil, err
		}
		c.Status = matching.ChargeStatus(status)
		charges = append(charges, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return charges, nil
}
