/*
classify.go - Per-receipt status decision order

PURPOSE:
  Assigns each (policy, receipt) pair to exactly one canonical state. The
  decision order is the business-correctness heart of the system; rules are
  evaluated top to bottom and the first match wins:

    1. Actual payment date present              -> Paid
    2. Policy lifecycle is cancelled            -> Cancelled (overrides 3-6)
    3. Explicit label "vencido"                 -> Overdue
    4. Explicit label "por vencer"/"pago por vencer" -> DueSoon
    5. Explicit label "pagado"/"pagada"         -> Paid
    6. Due-date fallback:
         dueDate <  today                       -> Overdue
         today <= dueDate <= today + horizon    -> DueSoon
         otherwise                              -> Pending
    7. No signal at all                         -> Pending

BOUNDARIES:
  dueDate == today is DueSoon, not Overdue (inclusive lower bound).
  An unrecognized explicit label (including "cancelado" on its own, without
  the policy lifecycle saying so) falls through to the due-date rules.

EMITTED:
  "Emitted" is deliberately not produced here. It is a window-membership
  flag on the owning policy (EmissionDate in the aggregation window),
  independent of payment state.
*/
package analytics

import "strings"

// DefaultHorizonDays is the due-soon lookahead window: unpaid receipts due
// within this many days of today classify as DueSoon.
const DefaultHorizonDays = 15

// Classifier assigns canonical statuses. The zero value is not usable;
// DefaultClassifier carries the standard 15-day horizon. The horizon is the
// only tunable: the upstream system hard-codes 15 but per-company overrides
// were requested, so it is a field rather than a constant here.
type Classifier struct {
	HorizonDays int
}

// DefaultClassifier uses the standard due-soon horizon.
var DefaultClassifier = Classifier{HorizonDays: DefaultHorizonDays}

// Classify assigns the receipt's canonical status as of today.
func (c Classifier) Classify(p *Policy, r Receipt, today Date) Status {
	// Rule 1: an actual payment date is the strongest signal there is.
	if !r.PaymentDate.IsZero() {
		return StatusPaid
	}

	// Rule 2: cancellation overrides every date- and label-based rule.
	// A cancelled policy's unpaid receipts are never Overdue or DueSoon.
	if p.IsCancelled() {
		return StatusCancelled
	}

	// Rules 3-5: explicit upstream labels.
	switch normalizeLabel(r.ExplicitStatus) {
	case "vencido":
		return StatusOverdue
	case "por vencer", "pago por vencer":
		return StatusDueSoon
	case "pagado", "pagada":
		// Safety net: rule 1 should have caught paid receipts already,
		// but some sources label without recording the payment date.
		return StatusPaid
	}

	// Rule 6: due-date window fallback.
	if !r.DueDate.IsZero() {
		switch {
		case r.DueDate.Before(today):
			return StatusOverdue
		case r.DueDate.BeforeOrEqual(today.AddDays(c.horizon())):
			return StatusDueSoon
		}
	}

	return StatusPending
}

// ClassifyAll materializes and classifies every receipt of every policy.
func (c Classifier) ClassifyAll(policies []*Policy, today Date) []ClassifiedReceivable {
	var out []ClassifiedReceivable
	for _, p := range policies {
		total := ResolveTotal(p)
		emission := EmissionDate(p)
		for i, r := range MaterializeReceipts(p) {
			seq := r.Sequence
			if seq == 0 {
				seq = i + 1 // insertion order is receipt sequence
			}
			out = append(out, ClassifiedReceivable{
				PolicyID:         p.ID,
				PolicyNumber:     p.Number,
				Product:          p.Product,
				Company:          p.Company,
				ClientName:       p.ClientName,
				Sequence:         seq,
				Amount:           r.Amount,
				DueDate:          r.DueDate,
				PaymentDate:      r.PaymentDate,
				Status:           c.Classify(p, r, today),
				PolicyTotal:      total,
				EmissionDate:     emission,
				CancellationDate: p.CancellationDate,
				PolicyCancelled:  p.IsCancelled(),
				Synthetic:        r.Synthetic,
			})
		}
	}
	return out
}

// Classify assigns the receipt's canonical status using the default horizon.
func Classify(p *Policy, r Receipt, today Date) Status {
	return DefaultClassifier.Classify(p, r, today)
}

func (c Classifier) horizon() int {
	if c.HorizonDays <= 0 {
		return DefaultHorizonDays
	}
	return c.HorizonDays
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
