/*
Package analytics provides the receivables classification and aggregation engine.

PURPOSE:
  This package contains the pure business core of the policy back office:
  it takes in-memory snapshots of policies (with their receipts and client
  attributes already joined) and answers the two questions the dashboard
  asks — "how much was emitted/paid/due/overdue/cancelled this month?" and
  "show me the detail behind that number".

KEY CONCEPTS IN THIS FILE (types.go):
  - Policy: One insurance contract with its receipts
  - Receipt: One installment (or the single annual payment obligation)
  - ClassifiedReceivable: A receipt annotated with its canonical status
  - Status: The five mutually-exclusive payment states
  - AmountFields: Canonical optional numeric fields, resolved by priority

DESIGN PRINCIPLES:
  1. Purity: Every operation is a function over immutable inputs. The engine
     never mutates source records, performs I/O, or reads the wall clock —
     "today" is always an explicit parameter.
  2. Precision: Uses decimal.Decimal to avoid floating-point errors.
  3. Totality: There are no fatal errors. Missing fields resolve to zero,
     unparsable dates exclude a record from date-windowed buckets only.
  4. Canonical schema: All source-spelling fallbacks are resolved by the
     ingest package before data reaches this one. This package knows only
     canonical field names.

USAGE:
  classified := analytics.ClassifyAll(policies, today)
  summary := analytics.Aggregate(policies, today)
  detail := analytics.CategoryDetail(classified, analytics.CategoryOverdue,
      analytics.PeriodAll())

SEE ALSO:
  - classify.go:    The per-receipt status decision order
  - aggregate.go:   Month-window bucketing and per-product totals
  - detail.go:      Drill-down grouping and pagination
  - resolve.go:     Amount fallback resolution
*/
package analytics

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// STATUS - Canonical payment states
// =============================================================================

// Status is the canonical state of a single receivable. Exactly one of these
// holds for every receivable. "Emitted" is intentionally NOT a Status: it is
// a window-membership flag on the owning policy (see EmissionDate), tracked
// independently of payment state.
type Status string

const (
	StatusPaid      Status = "paid"
	StatusDueSoon   Status = "due_soon"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
	StatusPending   Status = "pending"
)

// =============================================================================
// POLICY - One insurance contract
// =============================================================================

type PaymentType string

const (
	PaymentAnnual      PaymentType = "annual"
	PaymentInstallment PaymentType = "installment"
)

// PaymentFrequency is only meaningful when PaymentType is installment.
type PaymentFrequency string

const (
	FrequencyMonthly    PaymentFrequency = "monthly"
	FrequencyQuarterly  PaymentFrequency = "quarterly"
	FrequencySemiannual PaymentFrequency = "semiannual"
	FrequencyAnnual     PaymentFrequency = "annual"
)

type LifecycleStage string

const (
	StageActive    LifecycleStage = "active"
	StageCancelled LifecycleStage = "cancelled"
)

// Policy represents one insurance contract/case. Instances are produced by
// the ingest package and are treated as immutable snapshots by the engine.
type Policy struct {
	ID      string
	Number  string // policy number as printed on the contract
	Product string
	Company string

	// Client attributes joined in during enrichment
	ClientID    string
	ClientName  string
	ClientPhone string

	// Dates are zero when missing or unparsable at the source.
	IssueDate   Date
	CaptureDate Date
	StartDate   Date
	CreatedAt   Date

	PaymentType      PaymentType
	PaymentFrequency PaymentFrequency

	// Canonical numeric fields, resolved by priority (see resolve.go).
	Amounts AmountFields

	LifecycleStage   LifecycleStage
	CancellationDate Date

	// Policy-level payment fields, used to synthesize a receipt when the
	// explicit receipt list is empty (see materialize.go).
	NextDueDate   Date
	PaymentDate   Date
	PaymentStatus string

	// Receipts in sequence order. May be empty; MaterializeReceipts then
	// yields exactly one synthetic receipt from the policy-level fields.
	Receipts []Receipt
}

// IsCancelled reports whether the policy has been terminated.
func (p *Policy) IsCancelled() bool { return p.LifecycleStage == StageCancelled }

// =============================================================================
// RECEIPT - One payment obligation
// =============================================================================

// Receipt is one installment or the single annual payment obligation.
type Receipt struct {
	// Sequence is 1-based within the owning policy.
	Sequence int

	Amount decimal.Decimal

	DueDate Date

	// PaymentDate is the actual payment date. Its presence is the strongest
	// "paid" signal: a receipt with PaymentDate set is always Paid.
	PaymentDate Date

	// ExplicitStatus is an optional free-text label supplied upstream,
	// already lower-cased and trimmed by ingest ("pagado", "vencido",
	// "por vencer", "pendiente", "cancelado").
	ExplicitStatus string

	// Synthetic marks a receipt materialized from policy-level fields.
	Synthetic bool
}

// =============================================================================
// CLIENT - Enrichment source
// =============================================================================

// Client carries the attributes joined into policies by client ID.
type Client struct {
	ID    string
	Name  string
	Phone string
}

// =============================================================================
// CLASSIFIED RECEIVABLE - Derived, never persisted
// =============================================================================

// ClassifiedReceivable is a receipt (explicit or synthetic) annotated with
// its owning policy's attributes and canonical status. It is recomputed on
// every aggregation and discarded afterwards.
type ClassifiedReceivable struct {
	PolicyID     string
	PolicyNumber string
	Product      string
	Company      string
	ClientName   string

	Sequence    int
	Amount      decimal.Decimal
	DueDate     Date
	PaymentDate Date
	Status      Status

	// PolicyTotal is the policy-level display amount (ResolveTotal), used
	// by the Emitted category which counts one entry per policy.
	PolicyTotal decimal.Decimal

	// EmissionDate is issue date, falling back to capture then creation
	// date. Zero when none of the three parsed.
	EmissionDate Date

	// CancellationDate of the owning policy; zero unless cancelled with a
	// known date.
	CancellationDate Date

	PolicyCancelled bool
	Synthetic       bool
}

// ClassifyAll produces the full classified set for a policy snapshot: every
// explicit or materialized receipt of every policy, annotated with its
// canonical status as of today. This is the input to both the aggregator
// and the drill-down partitioner.
func ClassifyAll(policies []*Policy, today Date) []ClassifiedReceivable {
	return DefaultClassifier.ClassifyAll(policies, today)
}
