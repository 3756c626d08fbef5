/*
resolve.go - Multi-field amount fallback resolution

PURPOSE:
  Source systems spell monetary fields inconsistently and omit them freely.
  The ingest package maps every accepted spelling onto canonical field names;
  this file walks those canonical fields in a fixed priority order and returns
  the first one that was present on the source record.

LOSSY BY DESIGN:
  A field that was present but unparsable resolves to zero, and a record with
  none of the prioritized fields resolves to zero. No error is ever raised.
  This mirrors the upstream system's behavior and is documented contract, not
  a defect.

SEE ALSO:
  - ingest package: alias mapping that populates AmountFields
*/
package analytics

import "github.com/shopspring/decimal"

// =============================================================================
// CANONICAL NUMERIC FIELDS
// =============================================================================

// Canonical amount field names. Only these appear in AmountFields; the
// ingest boundary folds every accepted source spelling into one of them.
const (
	FieldTotal       = "total"
	FieldPrimaPagada = "prima_pagada"
	FieldPrima       = "prima"
	FieldMonto       = "monto"
	FieldPrimaNeta   = "prima_neta"
)

// Numeric is an optional decimal captured from the source. Valid is true
// when the raw field was present, even if its value failed to parse (the
// value is then zero).
type Numeric struct {
	Value decimal.Decimal
	Valid bool
}

// AmountFields holds a record's canonical numeric fields by name.
type AmountFields map[string]Numeric

// Set records a parsed value for a canonical field.
func (f AmountFields) Set(name string, v decimal.Decimal) {
	f[name] = Numeric{Value: v, Valid: true}
}

// =============================================================================
// PRIORITY RESOLUTION
// =============================================================================

// Resolution priorities. Total drives the Emitted/general display amount;
// net premium drives commission-base amounts.
var (
	TotalPriority      = []string{FieldTotal, FieldPrimaPagada, FieldPrima, FieldMonto}
	NetPremiumPriority = []string{FieldPrimaNeta, FieldPrima, FieldTotal}
)

// ResolveAmount walks the priority list and returns the value of the first
// field present on the record. All-missing resolves to zero.
func ResolveAmount(fields AmountFields, priority []string) decimal.Decimal {
	for _, name := range priority {
		if n, ok := fields[name]; ok && n.Valid {
			return n.Value
		}
	}
	return decimal.Zero
}

// ResolveTotal returns the policy's gross display amount.
func ResolveTotal(p *Policy) decimal.Decimal {
	return ResolveAmount(p.Amounts, TotalPriority)
}

// ResolveNetPremium returns the policy's commission-base amount.
func ResolveNetPremium(p *Policy) decimal.Decimal {
	return ResolveAmount(p.Amounts, NetPremiumPriority)
}

// EmissionDate returns the date a policy counts as emitted on: issue date,
// falling back to capture date, falling back to creation date. Zero when
// none of the three is usable; such a policy stays out of month windows but
// is still counted in window-independent totals.
func EmissionDate(p *Policy) Date {
	return p.IssueDate.Or(p.CaptureDate).Or(p.CreatedAt)
}
