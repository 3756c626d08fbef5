package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugooswaldo23/ProSistemaSeguros-sub004/analytics"
)

func TestMaterializeReceipts_ExplicitReceiptsPassThrough(t *testing.T) {
	p := activePolicy("p1")
	p.Receipts = []analytics.Receipt{{Sequence: 1, Amount: amt(100)}, {Sequence: 2, Amount: amt(100)}}

	got := analytics.MaterializeReceipts(p)
	assert.Equal(t, p.Receipts, got)
}

func TestMaterializeReceipts_SynthesizesExactlyOne(t *testing.T) {
	// GIVEN: A policy with no receipt list, total=1200, its own payment fields
	// THEN: Exactly one synthetic receipt carrying those fields
	p := activePolicy("p1")
	p.Amounts = amounts(analytics.FieldTotal, 1200.0)
	p.NextDueDate = date(2024, time.April, 1)
	p.PaymentStatus = "pendiente"

	got := analytics.MaterializeReceipts(p)
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, 1, r.Sequence)
	assert.True(t, amt(1200).Equal(r.Amount))
	assert.True(t, p.NextDueDate.Equal(r.DueDate))
	assert.True(t, r.PaymentDate.IsZero())
	assert.Equal(t, "pendiente", r.ExplicitStatus)
	assert.True(t, r.Synthetic)
}

func TestMaterializeReceipts_SyntheticClassifiedByPolicyStatus(t *testing.T) {
	// GIVEN: receipts=[], total=1200, no due date, policy-level status "vencido"
	// THEN: one receivable of amount 1200 classified per the policy status
	today := date(2024, time.March, 20)
	p := activePolicy("p1")
	p.Amounts = amounts(analytics.FieldTotal, 1200.0)
	p.PaymentStatus = "vencido"

	classified := analytics.ClassifyAll([]*analytics.Policy{p}, today)
	require.Len(t, classified, 1)
	assert.True(t, amt(1200).Equal(classified[0].Amount))
	assert.Equal(t, analytics.StatusOverdue, classified[0].Status)
	assert.True(t, classified[0].Synthetic)
}

func TestMaterializeReceipts_PolicyPaymentDateMakesSyntheticPaid(t *testing.T) {
	today := date(2024, time.March, 20)
	p := activePolicy("p1")
	p.Amounts = amounts(analytics.FieldTotal, 500.0)
	p.PaymentDate = date(2024, time.March, 2)

	classified := analytics.ClassifyAll([]*analytics.Policy{p}, today)
	require.Len(t, classified, 1)
	assert.Equal(t, analytics.StatusPaid, classified[0].Status)
}
