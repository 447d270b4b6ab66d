package matching

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Drop reasons. None of them is returned from Reconcile; they only label
// records that were excluded before matching began.
var (
	ErrUnparsableAmount  = errors.New("unparsable amount")
	ErrOutsideReportDate = errors.New("outside report date")
	ErrIneligibleStatus  = errors.New("ineligible status")
)

// ChargeStatus is the card-processor status of a charge.
type ChargeStatus string

const (
	ChargeSucceeded ChargeStatus = "succeeded"
)

// Ledger sources
const (
	SourceCharges         = "charges"
	SourceDeals           = "deals"
	SourceInvoicePayments = "invoice_payments"
)

// ChargeRecord is a normalized card-processor charge.
type ChargeRecord struct {
	ID                 string       `json:"id"`
	AmountMinorUnits   int64        `json:"amount_minor_units"`
	RefundedMinorUnits int64        `json:"refunded_minor_units"`
	CreatedAt          int64        `json:"created_at"`
	Status             ChargeStatus `json:"status"`
	EstablishmentID    string       `json:"establishment_id,omitempty"`
	ClientID           string       `json:"client_id,omitempty"`
	CustomerID         string       `json:"customer_id,omitempty"`
	BillingEmail       string       `json:"billing_email,omitempty"`
	Description        string       `json:"description,omitempty"`
}

// Refunded reports whether any part of the charge was refunded.
func (c ChargeRecord) Refunded() bool {
	return c.RefundedMinorUnits != 0
}

// DealRecord is a closed-won CRM deal. Amount keeps the ledger's decimal
// string; it is parsed when a batch is prepared for matching.
type DealRecord struct {
	ID               string `json:"id"`
	Amount           string `json:"amount"`
	ClosedAt         string `json:"closed_at"`
	EstablishmentID  string `json:"establishment_id,omitempty"`
	UserID           string `json:"user_id,omitempty"`
	StripeCustomerID string `json:"stripe_customer_id,omitempty"`
	OwnerEmail       string `json:"owner_email,omitempty"`
}

// InvoicePaymentRecord is a payment recorded by the invoicing ledger.
// UpdatedAt is a naive local timestamp, e.g. "2024-11-13 16:55:57".
type InvoicePaymentRecord struct {
	ID        string `json:"id"`
	Amount    string `json:"amount"`
	UpdatedAt string `json:"updated_at"`
}

// Batches is the input of one reconciliation run: three independently
// fetched batches for a single report date (YYYY-MM-DD).
type Batches struct {
	ReportDate      string
	Charges         []ChargeRecord
	Deals           []DealRecord
	InvoicePayments []InvoicePaymentRecord
}

// DroppedRecord identifies a record excluded before matching.
type DroppedRecord struct {
	Source string `json:"source"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
	err    error
}

// Err returns the sentinel reason the record was dropped for.
func (d DroppedRecord) Err() error {
	return d.err
}

func newDropped(source, id string, err error) DroppedRecord {
	return DroppedRecord{Source: source, ID: id, Reason: err.Error(), err: err}
}

// ParseAmount parses a major-unit decimal amount string.
func ParseAmount(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrUnparsableAmount)
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnparsableAmount, s)
	}
	return d, nil
}

// MinorUnits converts a major-unit amount into integer minor units.
func MinorUnits(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// MajorUnits converts integer minor units into a major-unit amount.
func MajorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
