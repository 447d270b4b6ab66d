package matching

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

// MatchLevel names the pass that produced a MatchGroup.
type MatchLevel string

const (
	LevelIdentity    MatchLevel = "identity"     // exact amount + identity field
	LevelSplit       MatchLevel = "split"        // one charge, several deals summing to it
	LevelTime        MatchLevel = "time"         // time window only
	LevelCrossLedger MatchLevel = "cross_ledger" // invoice payment vs remaining deals
)

// Mapping types
const (
	MappingOneToOne  = "one_to_one"
	MappingOneToMany = "one_to_many"
)

// MatchGroup is one source record (a charge or an invoice payment) together
// with the deals it consumed.
type MatchGroup struct {
	Level          MatchLevel            `json:"level"`
	Type           string                `json:"type"`
	Charge         *ChargeRecord         `json:"charge,omitempty"`
	InvoicePayment *InvoicePaymentRecord `json:"invoice_payment,omitempty"`
	Deals          []DealRecord          `json:"deals"`
}

// Options configures a MatchEngine.
type Options struct {
	// InvoiceUTCOffsetSeconds is the offset of the invoicing ledger's naive
	// timestamps, in seconds east of UTC.
	InvoiceUTCOffsetSeconds int
	Logger                  *slog.Logger
}

// MatchEngine partitions a day's charges, deals and invoice payments into
// match groups and leftovers. It holds configuration only; every call to
// Reconcile works on its own copies of the batches, so one engine may be
// shared between goroutines.
type MatchEngine struct {
	invoiceOffset int
	logger        *slog.Logger
}

func NewMatchEngine(opts Options) *MatchEngine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchEngine{
		invoiceOffset: opts.InvoiceUTCOffsetSeconds,
		logger:        logger.With("component", "match_engine"),
	}
}

type parsedDeal struct {
	DealRecord
	amount decimal.Decimal
}

type parsedPayment struct {
	InvoicePaymentRecord
	amount decimal.Decimal
}

// run is the working state of a single Reconcile call. Records are never
// removed from the slices; the *Used masks mark consumption instead, so the
// reverse scans below see stable indices.
type run struct {
	engine *MatchEngine
	date   string

	charges  []ChargeRecord
	deals    []parsedDeal
	payments []parsedPayment

	chargeUsed  []bool
	dealUsed    []bool
	paymentUsed []bool

	groups  []MatchGroup
	dropped []DroppedRecord
}

// Reconcile runs every matching level over b and aggregates the result.
// It performs no I/O and cannot fail.
//
// Matching is greedy first-fit in reverse input order: an ambiguous record is
// paired with the first candidate found, never with a globally better one.
func (m *MatchEngine) Reconcile(b Batches) *ReconciliationResult {
	r := m.prepare(b)

	identity, split := r.matchIdentity()
	timeOnly := r.matchTime()
	crossLedger := r.matchCrossLedger()

	m.logger.Info("matching finished",
		"report_date", r.date,
		"identity", identity,
		"split", split,
		"time", timeOnly,
		"cross_ledger", crossLedger,
		"dropped", len(r.dropped),
	)

	return r.aggregate()
}

func (m *MatchEngine) prepare(b Batches) *run {
	r := &run{engine: m, date: b.ReportDate}

	for _, c := range b.Charges {
		if c.Status != ChargeSucceeded {
			r.drop(SourceCharges, c.ID, ErrIneligibleStatus)
			continue
		}
		r.charges = append(r.charges, c)
	}

	for _, d := range b.Deals {
		amount, err := ParseAmount(d.Amount)
		if err != nil {
			r.drop(SourceDeals, d.ID, ErrUnparsableAmount)
			continue
		}
		r.deals = append(r.deals, parsedDeal{DealRecord: d, amount: amount})
	}

	for _, p := range b.InvoicePayments {
		if !strings.Contains(p.UpdatedAt, b.ReportDate) {
			r.drop(SourceInvoicePayments, p.ID, ErrOutsideReportDate)
			continue
		}
		amount, err := ParseAmount(p.Amount)
		if err != nil {
			r.drop(SourceInvoicePayments, p.ID, ErrUnparsableAmount)
			continue
		}
		r.payments = append(r.payments, parsedPayment{InvoicePaymentRecord: p, amount: amount})
	}

	r.chargeUsed = make([]bool, len(r.charges))
	r.dealUsed = make([]bool, len(r.deals))
	r.paymentUsed = make([]bool, len(r.payments))
	return r
}

func (r *run) drop(source, id string, reason error) {
	r.engine.logger.Warn("record dropped before matching", "source", source, "id", id, "reason", reason)
	r.dropped = append(r.dropped, newDropped(source, id, reason))
}

// matchIdentity pairs charges with deals of exactly equal amount sharing an
// identity field. For a deal whose amount differs, it tries a split-sum run
// starting at that deal instead.
func (r *run) matchIdentity() (identity, split int) {
	for i := len(r.charges) - 1; i >= 0; i-- {
		c := &r.charges[i]
		target := MajorUnits(c.AmountMinorUnits)

		for k := len(r.deals) - 1; k >= 0; k-- {
			if r.dealUsed[k] {
				continue
			}
			d := &r.deals[k]

			if d.amount.Equal(target) {
				if !identityMatches(c, &d.DealRecord) {
					continue
				}
				r.commitCharge(LevelIdentity, i, k)
				identity++
				break
			}

			if picked, ok := r.splitSum(c, target, k); ok {
				r.commitCharge(LevelSplit, i, picked...)
				split++
				break
			}
		}
	}
	return identity, split
}

// splitSum walks unconsumed deals backward from start, accumulating amounts
// until the running sum equals target. It gives up on the first deal that
// fails splitEligible or when the sum overshoots.
func (r *run) splitSum(c *ChargeRecord, target decimal.Decimal, start int) ([]int, bool) {
	sum := decimal.Zero
	var picked []int

	for j := start; j >= 0; j-- {
		if r.dealUsed[j] {
			continue
		}
		d := &r.deals[j]
		if !splitEligible(c, target, d) {
			return nil, false
		}

		sum = sum.Add(d.amount)
		picked = append(picked, j)

		if sum.Round(2).Equal(target) {
			return picked, true
		}
		if sum.GreaterThan(target) {
			return nil, false
		}
	}
	return nil, false
}

// matchTime catches charges whose identity never lines up with the deal,
// such as a lender paying on a client's behalf.
func (r *run) matchTime() int {
	matched := 0
	for i := len(r.charges) - 1; i >= 0; i-- {
		if r.chargeUsed[i] {
			continue
		}
		c := &r.charges[i]
		for k := len(r.deals) - 1; k >= 0; k-- {
			if r.dealUsed[k] {
				continue
			}
			if WithinTwoMinutes(c.CreatedAt, r.deals[k].ClosedAt) {
				r.commitCharge(LevelTime, i, k)
				matched++
				break
			}
		}
	}
	return matched
}

// matchCrossLedger pairs invoice payments with the deals left over by the
// charge levels, on amount plus offset-corrected time.
func (r *run) matchCrossLedger() int {
	matched := 0
	for i := len(r.payments) - 1; i >= 0; i-- {
		p := &r.payments[i]
		for k := len(r.deals) - 1; k >= 0; k-- {
			if r.dealUsed[k] {
				continue
			}
			d := &r.deals[k]
			if !p.amount.Equal(d.amount) {
				continue
			}
			if !WithinTwoMinutesAdjusted(p.UpdatedAt, d.ClosedAt, r.engine.invoiceOffset) {
				continue
			}

			r.paymentUsed[i] = true
			r.dealUsed[k] = true
			payment := p.InvoicePaymentRecord
			r.groups = append(r.groups, MatchGroup{
				Level:          LevelCrossLedger,
				Type:           MappingOneToOne,
				InvoicePayment: &payment,
				Deals:          []DealRecord{d.DealRecord},
			})
			matched++
			break
		}
	}
	return matched
}

func (r *run) commitCharge(level MatchLevel, chargeIdx int, dealIdx ...int) {
	r.chargeUsed[chargeIdx] = true
	charge := r.charges[chargeIdx]

	group := MatchGroup{
		Level:  level,
		Type:   MappingOneToOne,
		Charge: &charge,
		Deals:  make([]DealRecord, 0, len(dealIdx)),
	}
	if len(dealIdx) > 1 {
		group.Type = MappingOneToMany
	}
	for _, k := range dealIdx {
		r.dealUsed[k] = true
		group.Deals = append(group.Deals, r.deals[k].DealRecord)
	}
	r.groups = append(r.groups, group)
}

func identityMatches(c *ChargeRecord, d *DealRecord) bool {
	return sameID(c.EstablishmentID, d.EstablishmentID) ||
		sameID(c.ClientID, d.UserID) ||
		sameID(c.CustomerID, d.StripeCustomerID) ||
		sameID(c.BillingEmail, d.OwnerEmail) ||
		(d.OwnerEmail != "" && strings.Contains(c.Description, d.OwnerEmail))
}

// splitEligible reads the split condition as
// time AND (establishment OR client) AND remainder.
func splitEligible(c *ChargeRecord, target decimal.Decimal, d *parsedDeal) bool {
	if !WithinTwoMinutes(c.CreatedAt, d.ClosedAt) {
		return false
	}
	if !sameID(c.EstablishmentID, d.EstablishmentID) && !sameID(c.ClientID, d.UserID) {
		return false
	}
	return wholeRemainder(target, d.amount)
}

// wholeRemainder holds when target mod amount is below one major unit.
func wholeRemainder(target, amount decimal.Decimal) bool {
	if amount.IsZero() {
		return false
	}
	return target.Mod(amount).Floor().IsZero()
}

// sameID compares optional identity fields; absent values never match.
func sameID(a, b string) bool {
	return a != "" && a == b
}
