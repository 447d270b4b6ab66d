package repositories

import (
	"context"
	"database/sql"

	"daily-reconciliation/internal/matching"
)

//go:generate mockgen -destination=mocks/mock_deal_repository.go -package=mock_repositories -source=deal_repository.go DealRepository
type DealRepository interface {
	UpsertDeal(ctx context.Context, tx *sql.Tx, reportDate string, d *matching.DealRecord) error
	GetDealsByReportDate(ctx context.Context, reportDate string) ([]matching.DealRecord, error)
}

type dealRepository struct {
	db *sql.DB
}

func NewDealRepository(db *sql.DB) DealRepository {
	return &dealRepository{db: db}
}

func (r *dealRepository) UpsertDeal(ctx context.Context, tx *sql.Tx, reportDate string, d *matching.DealRecord) error {
	query := `
		INSERT INTO deals (
			deal_id, report_date, amount, closed_at,
			establishment_id, user_id, stripe_customer_id, owner_email
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			report_date = VALUES(report_date),
			amount = VALUES(amount),
			closed_at = VALUES(closed_at),
			establishment_id = VALUES(establishment_id),
			user_id = VALUES(user_id),
			stripe_customer_id = VALUES(stripe_customer_id),
			owner_email = VALUES(owner_email)
	`
	_, err := tx.ExecContext(ctx, query,
		d.ID,
		reportDate,
		d.Amount,
		d.ClosedAt,
		d.EstablishmentID,
		d.UserID,
		d.StripeCustomerID,
		d.OwnerEmail,
	)
	return err
}

func (r *dealRepository) GetDealsByReportDate(ctx context.Context, reportDate string) ([]matching.DealRecord, error) {
	query := `
		SELECT deal_id, amount, closed_at, establishment_id,
		       user_id, stripe_customer_id, owner_email
		FROM deals
		WHERE report_date = ?
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, reportDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]matching.DealRecord, 0)
	for rows.Next() {
		var d matching.DealRecord
		err := rows.Scan(
			&d.ID,
			&d.Amount,
			&d.ClosedAt,
			&d.EstablishmentID,
			&d.UserID,
			&d.StripeCustomerID,
			&d.OwnerEmail,
		)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return deals, nil
}
