package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hugooswaldo23/ProSistemaSeguros-sub004/analytics"
)

func TestResolveTotal_FallbackOrder(t *testing.T) {
	tests := []struct {
		name   string
		fields analytics.AmountFields
		want   float64
	}{
		{"total wins over prima", amounts(analytics.FieldTotal, 100.0, analytics.FieldPrima, 50.0), 100},
		{"prima when no total", amounts(analytics.FieldPrima, 50.0), 50},
		{"prima_pagada ranks above prima", amounts(analytics.FieldPrimaPagada, 75.0, analytics.FieldPrima, 50.0), 75},
		{"monto is the last resort", amounts(analytics.FieldMonto, 10.0), 10},
		{"all missing resolves to zero", analytics.AmountFields{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := activePolicy("p1")
			p.Amounts = tt.fields
			assert.True(t, amt(tt.want).Equal(analytics.ResolveTotal(p)),
				"want %v, got %v", tt.want, analytics.ResolveTotal(p))
		})
	}
}

func TestResolveNetPremium_FallbackOrder(t *testing.T) {
	p := activePolicy("p1")
	p.Amounts = amounts(analytics.FieldPrimaNeta, 90.0, analytics.FieldTotal, 100.0)
	assert.True(t, amt(90).Equal(analytics.ResolveNetPremium(p)))

	p.Amounts = amounts(analytics.FieldTotal, 100.0)
	assert.True(t, amt(100).Equal(analytics.ResolveNetPremium(p)))
}

func TestResolveAmount_PresentButUnparsable_IsZero(t *testing.T) {
	// GIVEN: ingest recorded a present field whose raw value failed to parse
	// THEN: the field still wins the priority walk, at value zero
	fields := analytics.AmountFields{
		analytics.FieldTotal: {Value: decimal.Zero, Valid: true},
		analytics.FieldPrima: {Value: amt(50), Valid: true},
	}
	got := analytics.ResolveAmount(fields, analytics.TotalPriority)
	assert.True(t, got.IsZero(), "present-but-unparsable total must shadow prima, got %v", got)
}

func TestEmissionDate_Fallbacks(t *testing.T) {
	issue := date(2024, time.March, 5)
	capture := date(2024, time.February, 1)
	created := date(2024, time.January, 1)

	p := activePolicy("p1")
	p.IssueDate, p.CaptureDate, p.CreatedAt = issue, capture, created
	assert.True(t, issue.Equal(analytics.EmissionDate(p)))

	p.IssueDate = analytics.Date{}
	assert.True(t, capture.Equal(analytics.EmissionDate(p)))

	p.CaptureDate = analytics.Date{}
	assert.True(t, created.Equal(analytics.EmissionDate(p)))

	p.CreatedAt = analytics.Date{}
	assert.True(t, analytics.EmissionDate(p).IsZero())
}
