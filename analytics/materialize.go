/*
materialize.go - Synthetic receipt generation

PURPOSE:
  Policies paid annually often arrive without an explicit receipt list: the
  payment obligation lives in policy-level fields instead. Materialization
  synthesizes exactly one virtual receipt from those fields so that every
  downstream stage (classifier, aggregator, drill-down) sees a uniform
  stream of receipts and never special-cases "no receipts".

INVARIANT:
  len(MaterializeReceipts(p)) >= 1 for every policy.
*/
package analytics

// MaterializeReceipts returns the policy's explicit receipts unchanged, or,
// when the list is empty, a single synthetic receipt built from the
// policy-level payment fields:
//
//	Sequence       = 1
//	Amount         = ResolveTotal(p)
//	DueDate        = p.NextDueDate (zero when missing)
//	PaymentDate    = p.PaymentDate (zero when missing)
//	ExplicitStatus = p.PaymentStatus
func MaterializeReceipts(p *Policy) []Receipt {
	if len(p.Receipts) > 0 {
		return p.Receipts
	}
	return []Receipt{{
		Sequence:       1,
		Amount:         ResolveTotal(p),
		DueDate:        p.NextDueDate,
		PaymentDate:    p.PaymentDate,
		ExplicitStatus: p.PaymentStatus,
		Synthetic:      true,
	}}
}
