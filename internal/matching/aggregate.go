package matching

// Totals holds per-source amounts in minor units.
type Totals struct {
	ChargesMinorUnits         int64 `json:"charges_minor_units"`
	DealsMinorUnits           int64 `json:"deals_minor_units"`
	InvoicePaymentsMinorUnits int64 `json:"invoice_payments_minor_units"`
}

// DifferenceMinorUnits is what the card processor and the invoicing ledger
// collected together minus what the CRM closed.
func (t Totals) DifferenceMinorUnits() int64 {
	return t.ChargesMinorUnits + t.InvoicePaymentsMinorUnits - t.DealsMinorUnits
}

// ReconciliationResult is the outcome of one Reconcile call. It is built
// fresh per call; nothing in it is shared with other runs.
type ReconciliationResult struct {
	ReportDate               string                 `json:"report_date"`
	MatchedGroups            []MatchGroup           `json:"matched_groups"`
	UnmatchedCharges         []ChargeRecord         `json:"unmatched_charges"`
	UnmatchedInvoicePayments []InvoicePaymentRecord `json:"unmatched_invoice_payments"`
	UnmatchedDeals           []DealRecord           `json:"unmatched_deals"`
	MismatchTotalMinorUnits  int64                  `json:"mismatch_total_minor_units"`
	GrossTotals              Totals                 `json:"gross_totals"`
	RefundedTotalMinorUnits  int64                  `json:"refunded_total_minor_units"`
	Dropped                  []DroppedRecord        `json:"dropped,omitempty"`
}

// HasLeftovers reports whether any record survived every level.
func (res *ReconciliationResult) HasLeftovers() bool {
	return len(res.UnmatchedCharges) > 0 ||
		len(res.UnmatchedInvoicePayments) > 0 ||
		len(res.UnmatchedDeals) > 0
}

// GroupsByLevel counts matched groups per level.
func (res *ReconciliationResult) GroupsByLevel() map[MatchLevel]int {
	counts := make(map[MatchLevel]int)
	for _, g := range res.MatchedGroups {
		counts[g.Level]++
	}
	return counts
}

func (r *run) aggregate() *ReconciliationResult {
	res := &ReconciliationResult{
		ReportDate:               r.date,
		MatchedGroups:            r.groups,
		UnmatchedCharges:         make([]ChargeRecord, 0),
		UnmatchedInvoicePayments: make([]InvoicePaymentRecord, 0),
		UnmatchedDeals:           make([]DealRecord, 0),
		Dropped:                  r.dropped,
	}
	if res.MatchedGroups == nil {
		res.MatchedGroups = make([]MatchGroup, 0)
	}

	for i, c := range r.charges {
		if c.Refunded() {
			res.RefundedTotalMinorUnits += c.RefundedMinorUnits
		} else {
			res.GrossTotals.ChargesMinorUnits += c.AmountMinorUnits
		}
		if r.chargeUsed[i] {
			continue
		}
		res.UnmatchedCharges = append(res.UnmatchedCharges, c)
		// a refunded charge explains itself
		if !c.Refunded() {
			res.MismatchTotalMinorUnits += c.AmountMinorUnits
		}
	}

	for i, d := range r.deals {
		res.GrossTotals.DealsMinorUnits += MinorUnits(d.amount)
		if !r.dealUsed[i] {
			res.UnmatchedDeals = append(res.UnmatchedDeals, d.DealRecord)
		}
	}

	for i, p := range r.payments {
		minor := MinorUnits(p.amount)
		res.GrossTotals.InvoicePaymentsMinorUnits += minor
		if !r.paymentUsed[i] {
			res.UnmatchedInvoicePayments = append(res.UnmatchedInvoicePayments, p.InvoicePaymentRecord)
			res.MismatchTotalMinorUnits += minor
		}
	}

	return res
}
