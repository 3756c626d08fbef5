package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugooswaldo23/ProSistemaSeguros-sub004/analytics"
)

// =============================================================================
// TEST HELPERS (shared across this package's tests)
// =============================================================================

func date(year int, month time.Month, day int) analytics.Date {
	return analytics.NewDate(year, month, day)
}

func amt(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func amounts(pairs ...any) analytics.AmountFields {
	fields := analytics.AmountFields{}
	for i := 0; i < len(pairs); i += 2 {
		fields.Set(pairs[i].(string), amt(pairs[i+1].(float64)))
	}
	return fields
}

func activePolicy(id string) *analytics.Policy {
	return &analytics.Policy{
		ID:             id,
		LifecycleStage: analytics.StageActive,
		Amounts:        analytics.AmountFields{},
	}
}

func cancelledPolicy(id string) *analytics.Policy {
	p := activePolicy(id)
	p.LifecycleStage = analytics.StageCancelled
	return p
}

// =============================================================================
// DECISION ORDER
// =============================================================================

func TestClassify_PaymentDate_AlwaysWins(t *testing.T) {
	// GIVEN: A receipt with an actual payment date but an overdue label
	// and a long-past due date
	// THEN: Paid — the payment date is the strongest signal
	today := date(2024, time.March, 20)
	r := analytics.Receipt{
		Amount:         amt(100),
		DueDate:        date(2024, time.January, 1),
		PaymentDate:    date(2024, time.March, 1),
		ExplicitStatus: "vencido",
	}

	assert.Equal(t, analytics.StatusPaid, analytics.Classify(activePolicy("p1"), r, today))
}

func TestClassify_CancellationOverridesDates(t *testing.T) {
	// GIVEN: A cancelled policy with an unpaid receipt 30 days past due
	// THEN: Cancelled, never Overdue
	today := date(2024, time.March, 20)
	r := analytics.Receipt{
		Amount:  amt(100),
		DueDate: today.AddDays(-30),
	}

	assert.Equal(t, analytics.StatusCancelled, analytics.Classify(cancelledPolicy("p1"), r, today))
}

func TestClassify_CancellationOverridesExplicitLabels(t *testing.T) {
	today := date(2024, time.March, 20)
	r := analytics.Receipt{Amount: amt(100), ExplicitStatus: "vencido"}

	assert.Equal(t, analytics.StatusCancelled, analytics.Classify(cancelledPolicy("p1"), r, today))
}

func TestClassify_ExplicitLabels(t *testing.T) {
	today := date(2024, time.March, 20)

	tests := []struct {
		label string
		want  analytics.Status
	}{
		{"vencido", analytics.StatusOverdue},
		{"Vencido", analytics.StatusOverdue}, // case-insensitive
		{"por vencer", analytics.StatusDueSoon},
		{"pago por vencer", analytics.StatusDueSoon},
		{"pagado", analytics.StatusPaid},
		{"pagada", analytics.StatusPaid},
		{"PAGADO", analytics.StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			r := analytics.Receipt{Amount: amt(100), ExplicitStatus: tt.label}
			assert.Equal(t, tt.want, analytics.Classify(activePolicy("p1"), r, today))
		})
	}
}

func TestClassify_UnrecognizedLabel_FallsThroughToDates(t *testing.T) {
	// GIVEN: A label the classifier doesn't know and a past due date
	// THEN: The due-date fallback decides (Overdue here)
	today := date(2024, time.March, 20)
	r := analytics.Receipt{
		Amount:         amt(100),
		DueDate:        today.AddDays(-1),
		ExplicitStatus: "en tramite",
	}

	assert.Equal(t, analytics.StatusOverdue, analytics.Classify(activePolicy("p1"), r, today))
}

func TestClassify_DueDateBoundaries(t *testing.T) {
	today := date(2024, time.March, 20)

	tests := []struct {
		name string
		due  analytics.Date
		want analytics.Status
	}{
		{"yesterday is overdue", today.AddDays(-1), analytics.StatusOverdue},
		{"today is due-soon, not overdue", today, analytics.StatusDueSoon},
		{"horizon edge is due-soon", today.AddDays(15), analytics.StatusDueSoon},
		{"past the horizon is pending", today.AddDays(16), analytics.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analytics.Receipt{Amount: amt(100), DueDate: tt.due}
			assert.Equal(t, tt.want, analytics.Classify(activePolicy("p1"), r, today))
		})
	}
}

func TestClassify_NoSignals_Pending(t *testing.T) {
	today := date(2024, time.March, 20)
	r := analytics.Receipt{Amount: amt(100)}

	assert.Equal(t, analytics.StatusPending, analytics.Classify(activePolicy("p1"), r, today))
}

func TestClassify_CustomHorizon(t *testing.T) {
	// GIVEN: A 30-day horizon classifier
	// THEN: A receipt due in 20 days is DueSoon instead of Pending
	today := date(2024, time.March, 20)
	c := analytics.Classifier{HorizonDays: 30}
	r := analytics.Receipt{Amount: amt(100), DueDate: today.AddDays(20)}

	assert.Equal(t, analytics.StatusDueSoon, c.Classify(activePolicy("p1"), r, today))
	assert.Equal(t, analytics.StatusPending, analytics.Classify(activePolicy("p1"), r, today))
}

// =============================================================================
// MUTUAL EXCLUSIVITY
// =============================================================================

func TestClassifyAll_ExactlyOneStatusPerReceivable(t *testing.T) {
	// GIVEN: A snapshot exercising every rule of the decision order
	// THEN: Every receivable lands in exactly one of the five states
	today := date(2024, time.March, 20)

	paid := activePolicy("paid")
	paid.Receipts = []analytics.Receipt{{Amount: amt(1), PaymentDate: today.AddDays(-5)}}

	overdue := activePolicy("overdue")
	overdue.Receipts = []analytics.Receipt{{Amount: amt(1), DueDate: today.AddDays(-5)}}

	dueSoon := activePolicy("duesoon")
	dueSoon.Receipts = []analytics.Receipt{{Amount: amt(1), DueDate: today.AddDays(5)}}

	cancelled := cancelledPolicy("cancelled")
	cancelled.Receipts = []analytics.Receipt{{Amount: amt(1), DueDate: today.AddDays(-5)}}

	pending := activePolicy("pending") // no receipts: synthesized, no signals

	classified := analytics.ClassifyAll(
		[]*analytics.Policy{paid, overdue, dueSoon, cancelled, pending}, today)
	require.Len(t, classified, 5)

	valid := map[analytics.Status]bool{
		analytics.StatusPaid:      true,
		analytics.StatusDueSoon:   true,
		analytics.StatusOverdue:   true,
		analytics.StatusCancelled: true,
		analytics.StatusPending:   true,
	}
	for _, r := range classified {
		assert.True(t, valid[r.Status], "receivable %s has unknown status %q", r.PolicyID, r.Status)
	}

	byID := map[string]analytics.Status{}
	for _, r := range classified {
		byID[r.PolicyID] = r.Status
	}
	assert.Equal(t, analytics.StatusPaid, byID["paid"])
	assert.Equal(t, analytics.StatusOverdue, byID["overdue"])
	assert.Equal(t, analytics.StatusDueSoon, byID["duesoon"])
	assert.Equal(t, analytics.StatusCancelled, byID["cancelled"])
	assert.Equal(t, analytics.StatusPending, byID["pending"])
}

func TestClassifyAll_SequenceFollowsInsertionOrder(t *testing.T) {
	today := date(2024, time.March, 20)
	p := activePolicy("p1")
	p.Receipts = []analytics.Receipt{
		{Amount: amt(1)},
		{Amount: amt(2)},
		{Amount: amt(3)},
	}

	classified := analytics.ClassifyAll([]*analytics.Policy{p}, today)
	require.Len(t, classified, 3)
	for i, r := range classified {
		assert.Equal(t, i+1, r.Sequence)
	}
}
