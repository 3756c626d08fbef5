/*
aggregate.go - Window bucketing and per-product totals

PURPOSE:
  Turns the full classified set into the dashboard's summary cards. For the
  current and previous calendar months it reports emitted and paid volumes;
  due-soon and overdue are always "as of now" (they are states, not events,
  so month-bucketing them would be meaningless); cancelled volumes bucket by
  cancellation date.

CATEGORY SEMANTICS:
  Emitted:   one entry per POLICY (not per receipt), amount ResolveTotal,
             windowed by EmissionDate (issue ?? capture ?? created).
  Paid:      per receivable with status Paid, windowed by actual payment
             date. Paid receivables without a payment date (label-only paid)
             count in the window-independent total only.
  DueSoon:   all receivables currently DueSoon. Cancelled policies never
             contribute (the classifier's cancellation override guarantees it).
  Overdue:   same, for Overdue.
  Cancelled: unpaid receivables of cancelled policies, windowed by the
             policy's cancellation date. A cancelled policy without a
             cancellation date is attributed to the CURRENT month by upstream
             convention (kept as-is; see DESIGN.md).

GUARANTEES:
  Aggregate is a pure function: identical inputs yield identical summaries,
  and a complete (possibly all-zero) summary is always returned.
*/
package analytics

import "github.com/shopspring/decimal"

// =============================================================================
// BUCKETS
// =============================================================================

// Totals is an (amount, count) pair.
type Totals struct {
	Amount decimal.Decimal
	Count  int
}

func (t Totals) add(amount decimal.Decimal) Totals {
	return Totals{Amount: t.Amount.Add(amount), Count: t.Count + 1}
}

// ZeroTotals returns an explicit zero pair (decimal.Decimal's zero value is
// already usable; this exists for readable construction sites).
func ZeroTotals() Totals { return Totals{Amount: decimal.Zero} }

// ProductTotals breaks a category down by insurance product.
type ProductTotals map[string]Totals

func (pt ProductTotals) add(product string, amount decimal.Decimal) {
	label := ProductLabel(product)
	pt[label] = pt[label].add(amount)
}

// Bucket is a month-windowed category: overall totals plus the current and
// previous calendar-month slices and a per-product breakdown of the total.
type Bucket struct {
	Total         Totals
	CurrentMonth  Totals
	PreviousMonth Totals
	ByProduct     ProductTotals
}

func newBucket() Bucket { return Bucket{ByProduct: ProductTotals{}} }

func (b *Bucket) add(amount decimal.Decimal, product string, at Date, current, previous Period) {
	b.Total = b.Total.add(amount)
	b.ByProduct.add(product, amount)
	if current.Contains(at) {
		b.CurrentMonth = b.CurrentMonth.add(amount)
	} else if previous.Contains(at) {
		b.PreviousMonth = b.PreviousMonth.add(amount)
	}
}

// SimpleBucket is a window-independent category (due-soon, overdue): a
// snapshot of the present, never month-bucketed.
type SimpleBucket struct {
	Totals
	ByProduct ProductTotals
}

func newSimpleBucket() SimpleBucket { return SimpleBucket{ByProduct: ProductTotals{}} }

func (b *SimpleBucket) add(amount decimal.Decimal, product string) {
	b.Totals = b.Totals.add(amount)
	b.ByProduct.add(product, amount)
}

// ProductLabel groups missing/blank products under a single label.
func ProductLabel(product string) string {
	if product == "" {
		return "Sin producto"
	}
	return product
}

// =============================================================================
// FINANCIAL SUMMARY
// =============================================================================

// FinancialSummary is the dashboard's card data for an as-of date.
type FinancialSummary struct {
	AsOf          Date
	CurrentMonth  Period
	PreviousMonth Period

	Emitted   Bucket
	Paid      Bucket
	DueSoon   SimpleBucket
	Overdue   SimpleBucket
	Cancelled Bucket

	// PaidRate is paid count over emitted count for the current month,
	// zero when nothing was emitted.
	PaidRate decimal.Decimal
}

// Aggregate computes the financial summary for the snapshot as of today,
// using the classifier's horizon for due-soon.
func (c Classifier) Aggregate(policies []*Policy, today Date) *FinancialSummary {
	current := MonthOf(today)
	previous := PreviousMonthOf(today)

	s := &FinancialSummary{
		AsOf:          today,
		CurrentMonth:  current,
		PreviousMonth: previous,
		Emitted:       newBucket(),
		Paid:          newBucket(),
		DueSoon:       newSimpleBucket(),
		Overdue:       newSimpleBucket(),
		Cancelled:     newBucket(),
		PaidRate:      decimal.Zero,
	}

	// Emitted counts one entry per policy, not per receipt.
	for _, p := range policies {
		s.Emitted.add(ResolveTotal(p), p.Product, EmissionDate(p), current, previous)
	}

	for _, r := range c.ClassifyAll(policies, today) {
		switch r.Status {
		case StatusPaid:
			s.Paid.add(r.Amount, r.Product, r.PaymentDate, current, previous)
		case StatusDueSoon:
			s.DueSoon.add(r.Amount, r.Product)
		case StatusOverdue:
			s.Overdue.add(r.Amount, r.Product)
		case StatusCancelled:
			s.Cancelled.add(r.Amount, r.Product, cancellationBucketDate(r, today), current, previous)
		}
	}

	if s.Emitted.CurrentMonth.Count > 0 {
		s.PaidRate = decimal.NewFromInt(int64(s.Paid.CurrentMonth.Count)).
			Div(decimal.NewFromInt(int64(s.Emitted.CurrentMonth.Count)))
	}

	return s
}

// Aggregate computes the financial summary with the default classifier.
func Aggregate(policies []*Policy, today Date) *FinancialSummary {
	return DefaultClassifier.Aggregate(policies, today)
}

// cancellationBucketDate applies the upstream convention: a cancelled policy
// without a cancellation date belongs to the current-month bucket.
func cancellationBucketDate(r ClassifiedReceivable, today Date) Date {
	return r.CancellationDate.Or(today)
}

// =============================================================================
// CUSTOM DATE RANGES
// =============================================================================

// RangeSummary aggregates emitted/paid/cancelled volumes over an arbitrary
// inclusive date range. Due-soon and overdue remain as-of-today snapshots.
type RangeSummary struct {
	Range Period
	AsOf  Date

	Emitted   SimpleBucket
	Paid      SimpleBucket
	Cancelled SimpleBucket
	DueSoon   SimpleBucket
	Overdue   SimpleBucket

	PaidRate decimal.Decimal
}

// AggregateRange computes volumes over a caller-chosen window.
func (c Classifier) AggregateRange(policies []*Policy, window Period, today Date) *RangeSummary {
	s := &RangeSummary{
		Range:     window,
		AsOf:      today,
		Emitted:   newSimpleBucket(),
		Paid:      newSimpleBucket(),
		Cancelled: newSimpleBucket(),
		DueSoon:   newSimpleBucket(),
		Overdue:   newSimpleBucket(),
		PaidRate:  decimal.Zero,
	}

	for _, p := range policies {
		if window.Contains(EmissionDate(p)) {
			s.Emitted.add(ResolveTotal(p), p.Product)
		}
	}

	for _, r := range c.ClassifyAll(policies, today) {
		switch r.Status {
		case StatusPaid:
			if window.Contains(r.PaymentDate) {
				s.Paid.add(r.Amount, r.Product)
			}
		case StatusDueSoon:
			s.DueSoon.add(r.Amount, r.Product)
		case StatusOverdue:
			s.Overdue.add(r.Amount, r.Product)
		case StatusCancelled:
			if window.Contains(r.CancellationDate.Or(today)) {
				s.Cancelled.add(r.Amount, r.Product)
			}
		}
	}

	if s.Emitted.Count > 0 {
		s.PaidRate = decimal.NewFromInt(int64(s.Paid.Count)).
			Div(decimal.NewFromInt(int64(s.Emitted.Count)))
	}

	return s
}

// AggregateRange computes a range summary with the default classifier.
func AggregateRange(policies []*Policy, window Period, today Date) *RangeSummary {
	return DefaultClassifier.AggregateRange(policies, window, today)
}
