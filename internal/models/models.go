package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// ReconciliationRun is the persisted output of one reconciliation. Runs are
// never read back by the matching engine.
type ReconciliationRun struct {
	ID                             int64           `db:"id" json:"-"`
	RunID                          string          `db:"run_id" json:"run_id"`
	ReportDate                     string          `db:"report_date" json:"report_date"`
	Status                         string          `db:"status" json:"status"`
	MatchedGroups                  int             `db:"matched_groups" json:"matched_groups"`
	UnmatchedCharges               int             `db:"unmatched_charges" json:"unmatched_charges"`
	UnmatchedDeals                 int             `db:"unmatched_deals" json:"unmatched_deals"`
	UnmatchedInvoicePayments       int             `db:"unmatched_invoice_payments" json:"unmatched_invoice_payments"`
	MismatchTotalMinorUnits        int64           `db:"mismatch_total_minor_units" json:"mismatch_total_minor_units"`
	ChargesGrossMinorUnits         int64           `db:"charges_gross_minor_units" json:"charges_gross_minor_units"`
	DealsGrossMinorUnits           int64           `db:"deals_gross_minor_units" json:"deals_gross_minor_units"`
	InvoicePaymentsGrossMinorUnits int64           `db:"invoice_payments_gross_minor_units" json:"invoice_payments_gross_minor_units"`
	RefundedTotalMinorUnits        int64           `db:"refunded_total_minor_units" json:"refunded_total_minor_units"`
	Summary                        string          `db:"summary" json:"summary"`
	ArtifactPath                   string          `db:"artifact_path" json:"artifact_path,omitempty"`
	Leftovers                      json.RawMessage `db:"leftovers" json:"leftovers"`
	CreatedAt                      time.Time       `db:"created_at" json:"created_at"`
}

// ReconciliationAudit represents an audit trail entry
type ReconciliationAudit struct {
	ID        int64           `db:"id" json:"id"`
	RunID     sql.NullString  `db:"run_id" json:"-"`
	Action    string          `db:"action" json:"action"`
	Details   json.RawMessage `db:"details" json:"details"`
	UserID    string          `db:"user_id" json:"user_id"`
	CreatedAt time.Time       `db:"created_at" json:"-"`
}

// Run status constants
const (
	StatusMatched   = "matched"
	StatusUnmatched = "unmatched"
)

// AuditAction constants
const (
	AuditActionIngested   = "ingested"
	AuditActionReconciled = "reconciled"
)

// SystemUser is recorded on audit rows written without an authenticated caller.
const SystemUser = "system"
