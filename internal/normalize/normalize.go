// Package normalize converts raw ledger payloads, as the card processor, the
// CRM and the invoicing ledger export them, into matching records.
package normalize

import (
	"encoding/json"
	"strings"

	"daily-reconciliation/internal/matching"
)

// StripeCharge is a card-processor charge object.
type StripeCharge struct {
	ID             string            `json:"id"`
	Amount         int64             `json:"amount"`
	AmountCaptured int64             `json:"amount_captured"`
	AmountRefunded int64             `json:"amount_refunded"`
	Created        int64             `json:"created"`
	Status         string            `json:"status"`
	Customer       string            `json:"customer"`
	Description    string            `json:"description"`
	Metadata       map[string]string `json:"metadata"`
	BillingDetails struct {
		Email string `json:"email"`
	} `json:"billing_details"`
}

// HubSpotDeal is a CRM deal with the properties requested for reconciliation.
type HubSpotDeal struct {
	ID         string `json:"id"`
	Properties struct {
		Amount                string `json:"amount"`
		CloseDate             string `json:"closedate"`
		DealOwnerEmailAddress string `json:"deal_owner_email_address"`
		WPEstablishmentID     string `json:"wp_establishment_id"`
		WPUserID              string `json:"wp_user_id"`
		StripeUserID          string `json:"stripe_user_id"`
	} `json:"properties"`
}

// FreshBooksPayment is an invoicing-ledger payment.
type FreshBooksPayment struct {
	ID     json.Number `json:"id"`
	Amount struct {
		Amount string `json:"amount"`
		Code   string `json:"code"`
	} `json:"amount"`
	Updated string `json:"updated"`
}

// RawBatches groups one day of raw payloads.
type RawBatches struct {
	Charges         []StripeCharge      `json:"charges"`
	Deals           []HubSpotDeal       `json:"deals"`
	InvoicePayments []FreshBooksPayment `json:"invoice_payments"`
}

// Batches normalizes every raw record for reportDate.
func (rb RawBatches) Batches(reportDate string) matching.Batches {
	return matching.Batches{
		ReportDate:      reportDate,
		Charges:         Charges(rb.Charges),
		Deals:           Deals(rb.Deals),
		InvoicePayments: InvoicePayments(rb.InvoicePayments),
	}
}

func Charge(c StripeCharge) matching.ChargeRecord {
	return matching.ChargeRecord{
		ID:                 c.ID,
		AmountMinorUnits:   c.Amount,
		RefundedMinorUnits: c.AmountRefunded,
		CreatedAt:          c.Created,
		Status:             matching.ChargeStatus(c.Status),
		EstablishmentID:    metadata(c.Metadata, "establishmentId"),
		ClientID:           metadata(c.Metadata, "clientId"),
		CustomerID:         c.Customer,
		BillingEmail:       strings.TrimSpace(c.BillingDetails.Email),
		Description:        c.Description,
	}
}

// Deal keeps the amount string untouched; the engine decides whether it parses.
func Deal(d HubSpotDeal) matching.DealRecord {
	return matching.DealRecord{
		ID:               d.ID,
		Amount:           d.Properties.Amount,
		ClosedAt:         d.Properties.CloseDate,
		EstablishmentID:  d.Properties.WPEstablishmentID,
		UserID:           d.Properties.WPUserID,
		StripeCustomerID: d.Properties.StripeUserID,
		OwnerEmail:       strings.TrimSpace(d.Properties.DealOwnerEmailAddress),
	}
}

func InvoicePayment(p FreshBooksPayment) matching.InvoicePaymentRecord {
	return matching.InvoicePaymentRecord{
		ID:        p.ID.String(),
		Amount:    p.Amount.Amount,
		UpdatedAt: p.Updated,
	}
}

func Charges(in []StripeCharge) []matching.ChargeRecord {
	out := make([]matching.ChargeRecord, 0, len(in))
	for _, c := range in {
		out = append(out, Charge(c))
	}
	return out
}

func Deals(in []HubSpotDeal) []matching.DealRecord {
	out := make([]matching.DealRecord, 0, len(in))
	for _, d := range in {
		out = append(out, Deal(d))
	}
	return out
}

func InvoicePayments(in []FreshBooksPayment) []matching.InvoicePaymentRecord {
	out := make([]matching.InvoicePaymentRecord, 0, len(in))
	for _, p := range in {
		out = append(out, InvoicePayment(p))
	}
	return out
}

func metadata(m map[string]string, key string) string {
	return strings.TrimSpace(m[key])
}
