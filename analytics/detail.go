/*
detail.go - Drill-down partitioner

PURPOSE:
  When a dashboard card is opened, the full classified set is re-filtered
  down to that category and period, grouped by product, and paginated. The
  partitioner never re-classifies: it consumes the set ClassifyAll produced.

PERIOD SEMANTICS PER CATEGORY:
  Emitted:   filtered by EmissionDate, one record per policy.
  Paid:      filtered by actual payment date.
  Cancelled: filtered by cancellation date (missing date = current month,
             same convention as the aggregator).
  DueSoon / Overdue / Pending: period is ignored; these are always the
             as-of-now set.
*/
package analytics

import "sort"

// =============================================================================
// CATEGORY + PERIOD SELECTION
// =============================================================================

// Category selects a dashboard card. It is a superset of Status: Emitted is
// a window flag, not a payment state, but it has a drill-down of its own.
type Category string

const (
	CategoryEmitted   Category = "emitted"
	CategoryPaid      Category = "paid"
	CategoryDueSoon   Category = "due_soon"
	CategoryOverdue   Category = "overdue"
	CategoryCancelled Category = "cancelled"
	CategoryPending   Category = "pending"
)

// ParseCategory maps an external category name onto a Category.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryEmitted, CategoryPaid, CategoryDueSoon, CategoryOverdue,
		CategoryCancelled, CategoryPending:
		return Category(s), true
	}
	return "", false
}

type periodKind int

const (
	periodAll periodKind = iota
	periodCurrentMonth
	periodPreviousMonth
	periodRange
)

// PeriodFilter selects which slice of a category the drill-down shows.
type PeriodFilter struct {
	kind  periodKind
	today Date
	rng   Period
}

func PeriodAll() PeriodFilter { return PeriodFilter{kind: periodAll} }

func PeriodCurrentMonth(today Date) PeriodFilter {
	return PeriodFilter{kind: periodCurrentMonth, today: today}
}
func PeriodPreviousMonth(today Date) PeriodFilter {
	return PeriodFilter{kind: periodPreviousMonth, today: today}
}

func PeriodRange(r Period) PeriodFilter { return PeriodFilter{kind: periodRange, rng: r} }

// window returns the concrete period, or ok=false when the filter is "all".
func (f PeriodFilter) window() (Period, bool) {
	switch f.kind {
	case periodCurrentMonth:
		return MonthOf(f.today), true
	case periodPreviousMonth:
		return PreviousMonthOf(f.today), true
	case periodRange:
		return f.rng, true
	default:
		return Period{}, false
	}
}

// matches applies the period to the category's own date field.
func (f PeriodFilter) matches(cat Category, r ClassifiedReceivable) bool {
	// Due-soon, overdue and pending are as-of-now states; the period
	// selector does not apply to them.
	if cat == CategoryDueSoon || cat == CategoryOverdue || cat == CategoryPending {
		return true
	}

	w, ok := f.window()
	if !ok {
		return true
	}
	switch cat {
	case CategoryEmitted:
		return w.Contains(r.EmissionDate)
	case CategoryPaid:
		return w.Contains(r.PaymentDate)
	case CategoryCancelled:
		return w.Contains(r.CancellationDate.Or(f.today))
	}
	return true
}

// =============================================================================
// DETAIL - Filtered, grouped, pageable category view
// =============================================================================

// DefaultPageSize is the drill-down modal's fixed page size.
const DefaultPageSize = 20

// Detail is the drill-down view for one category and period.
type Detail struct {
	Category    Category
	Title       string
	Color       string
	TotalAmount Totals // amount + count over the filtered set
	ByProduct   ProductTotals

	// Records is the flattened set sorted by (due date asc, sequence asc);
	// records without a due date sort last.
	Records []ClassifiedReceivable
}

// Page is one fixed-size slice of a Detail's records.
type Page struct {
	Number     int
	Size       int
	TotalPages int
	Records    []ClassifiedReceivable
}

var categoryTitles = map[Category]string{
	CategoryEmitted:   "Emitidas",
	CategoryPaid:      "Pagadas",
	CategoryDueSoon:   "Por vencer",
	CategoryOverdue:   "Vencidas",
	CategoryCancelled: "Canceladas",
	CategoryPending:   "Pendientes",
}

var categoryColors = map[Category]string{
	CategoryEmitted:   "#3b82f6",
	CategoryPaid:      "#22c55e",
	CategoryDueSoon:   "#f59e0b",
	CategoryOverdue:   "#ef4444",
	CategoryCancelled: "#6b7280",
	CategoryPending:   "#64748b",
}

// CategoryDetail filters the classified set down to one category and period.
func CategoryDetail(classified []ClassifiedReceivable, cat Category, period PeriodFilter) *Detail {
	d := &Detail{
		Category:  cat,
		Title:     categoryTitles[cat],
		Color:     categoryColors[cat],
		ByProduct: ProductTotals{},
	}

	seenPolicies := map[string]bool{}
	for _, r := range classified {
		if !categoryMatches(cat, r) || !period.matches(cat, r) {
			continue
		}
		amount := r.Amount
		if cat == CategoryEmitted {
			// Emitted counts one entry per policy at the policy's display
			// amount, regardless of how many receipts it carries.
			if seenPolicies[r.PolicyID] {
				continue
			}
			seenPolicies[r.PolicyID] = true
			amount = r.PolicyTotal
			r.Amount = amount
		}
		d.TotalAmount = d.TotalAmount.add(amount)
		d.ByProduct.add(r.Product, amount)
		d.Records = append(d.Records, r)
	}

	sort.SliceStable(d.Records, func(i, j int) bool {
		a, b := d.Records[i], d.Records[j]
		switch {
		case a.DueDate.IsZero() != b.DueDate.IsZero():
			return !a.DueDate.IsZero() // dated records first
		case !a.DueDate.Equal(b.DueDate):
			return a.DueDate.Before(b.DueDate)
		default:
			return a.Sequence < b.Sequence
		}
	})

	return d
}

func categoryMatches(cat Category, r ClassifiedReceivable) bool {
	switch cat {
	case CategoryEmitted:
		// Every receivable of an emitted policy is a candidate; the period
		// filter and the one-per-policy rule narrow it down.
		return true
	case CategoryPaid:
		return r.Status == StatusPaid
	case CategoryDueSoon:
		return r.Status == StatusDueSoon
	case CategoryOverdue:
		return r.Status == StatusOverdue
	case CategoryCancelled:
		return r.Status == StatusCancelled
	case CategoryPending:
		return r.Status == StatusPending
	}
	return false
}

// TotalPages returns how many pages of the given size the detail spans.
func (d *Detail) TotalPages(size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	n := len(d.Records)
	if n == 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Page returns the 1-based page n of the given size. Out-of-range pages
// return an empty record list, never an error.
func (d *Detail) Page(n, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		n = 1
	}
	total := d.TotalPages(size)

	start := (n - 1) * size
	if start >= len(d.Records) {
		return Page{Number: n, Size: size, TotalPages: total}
	}
	end := start + size
	if end > len(d.Records) {
		end = len(d.Records)
	}
	return Page{Number: n, Size: size, TotalPages: total, Records: d.Records[start:end]}
}
