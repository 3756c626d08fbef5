/*
Package ingest normalizes upstream documents into the canonical schema.

PURPOSE:
  Sits between whatever fetched the raw JSON (sqlite snapshot store, seed
  file, upstream API) and the analytics engine. Three jobs:
    1. Alias resolution: fold every accepted source spelling onto the
       canonical field names the engine knows (see raw.go).
    2. Scalar coercion: numbers-as-strings become decimals (unparsable →
       present-with-zero), date strings are parsed across known layouts
       (unparsable → missing, logged).
    3. Enrichment: join client name/phone into policies by client ID.

  Decoding uses goccy/go-json; documents are streams of independent records,
  so one bad document is skipped with a log line instead of failing the load.

SEE ALSO:
  - analytics/resolve.go: the priority resolution over canonical fields
  - store/sqlite: the concrete document source
*/
package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/hugooswaldo23/ProSistemaSeguros-sub004/analytics"
)

// dateLayouts are tried in order. Upstream mixes ISO dates, full timestamps
// and the occasional dd/mm/yyyy from manual capture.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// =============================================================================
// SOURCE - The external data-loading collaborator
// =============================================================================

// Source provides raw upstream documents. The sqlite snapshot store is the
// in-repo implementation; tests use in-memory fakes.
type Source interface {
	ListPolicyDocuments(ctx context.Context) ([][]byte, error)
	ListClientDocuments(ctx context.Context) ([][]byte, error)
}

// Load fetches, decodes, normalizes and enriches a full snapshot.
func Load(ctx context.Context, src Source) ([]*analytics.Policy, error) {
	policyDocs, err := src.ListPolicyDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load policy documents: %w", err)
	}
	clientDocs, err := src.ListClientDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load client documents: %w", err)
	}

	clients := make([]analytics.Client, 0, len(clientDocs))
	for _, doc := range clientDocs {
		c, err := DecodeClient(doc)
		if err != nil {
			log.Printf("[Ingest] skipping client document: %v", err)
			continue
		}
		clients = append(clients, c)
	}

	policies := make([]*analytics.Policy, 0, len(policyDocs))
	for _, doc := range policyDocs {
		p, err := DecodePolicy(doc)
		if err != nil {
			log.Printf("[Ingest] skipping policy document: %v", err)
			continue
		}
		policies = append(policies, p)
	}

	Enrich(policies, clients)
	return policies, nil
}

// =============================================================================
// DECODING + NORMALIZATION
// =============================================================================

// DecodePolicy decodes one raw policy document into the canonical schema.
func DecodePolicy(doc []byte) (*analytics.Policy, error) {
	var raw RawPolicy
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("decode policy: %w", err)
	}
	return normalizePolicy(&raw), nil
}

// DecodeClient decodes one raw client document.
func DecodeClient(doc []byte) (analytics.Client, error) {
	var raw RawClient
	if err := json.Unmarshal(doc, &raw); err != nil {
		return analytics.Client{}, fmt.Errorf("decode client: %w", err)
	}
	return analytics.Client{
		ID:    pickString(raw.ID, raw.UID),
		Name:  pickString(raw.Nombre, raw.Name, raw.NombreCompleto),
		Phone: pickString(raw.TelefonoMovilSnake, raw.TelefonoMovilCamel, raw.Telefono),
	}, nil
}

func normalizePolicy(raw *RawPolicy) *analytics.Policy {
	id := pickString(raw.ID, raw.UID)
	p := &analytics.Policy{
		ID:       id,
		Number:   pickString(raw.NoPoliza, raw.NumeroPoliza, raw.Poliza),
		Product:  pickString(raw.Producto, raw.Product),
		Company:  pickString(raw.Compania, raw.Aseguradora),
		ClientID: pickString(raw.ClienteID, raw.ClienteId, raw.IDCliente),

		IssueDate:   parseDate(id, "fecha_emision", pickString(raw.FechaEmisionSnake, raw.FechaEmisionCamel)),
		CaptureDate: parseDate(id, "fecha_captura", pickString(raw.FechaCapturaSnake, raw.FechaCapturaCamel)),
		StartDate:   parseDate(id, "fecha_inicio", pickString(raw.FechaInicio, raw.InicioVigencia)),
		CreatedAt:   parseDate(id, "created_at", pickString(raw.CreatedAt, raw.FechaRegistro)),

		PaymentType:      paymentType(pickString(raw.FormaPago, raw.TipoPago)),
		PaymentFrequency: paymentFrequency(pickString(raw.FrecuenciaPago, raw.Frecuencia)),

		Amounts: amountFields(raw),

		LifecycleStage:   lifecycleStage(pickString(raw.Estatus, raw.Estado)),
		CancellationDate: parseDate(id, "fecha_cancelacion", pickString(raw.FechaCancelacion, raw.FechaCancelacionCC)),

		NextDueDate:   parseDate(id, "proximo_pago", pickString(raw.ProximoPago, raw.FechaProximoPago)),
		PaymentDate:   parseDate(id, "fecha_pago", pickString(raw.FechaPagoSnake, raw.FechaPagoCamel)),
		PaymentStatus: normalizeStatusLabel(pickString(raw.EstatusPagoSnake, raw.EstatusPagoCamel)),
	}

	rawReceipts := raw.Recibos
	if len(rawReceipts) == 0 {
		rawReceipts = raw.Receipts
	}
	for i, rr := range rawReceipts {
		p.Receipts = append(p.Receipts, normalizeReceipt(id, i, rr))
	}

	return p
}

func normalizeReceipt(policyID string, index int, raw RawReceipt) analytics.Receipt {
	r := analytics.Receipt{
		Sequence:       index + 1, // insertion order is receipt sequence
		DueDate:        parseDate(policyID, "fecha_vencimiento", pickString(raw.FechaVencimientoSnake, raw.FechaVencimientoCamel, raw.DueDate)),
		PaymentDate:    parseDate(policyID, "fecha_pago", pickString(raw.FechaPagoSnake, raw.FechaPagoCamel)),
		ExplicitStatus: normalizeStatusLabel(pickString(raw.Estatus, raw.Status)),
	}
	if seq, ok := pickNumber(raw.Numero, raw.Secuencia); ok {
		if n := int(seq.Value.IntPart()); n > 0 {
			r.Sequence = n
		}
	}
	// Receipt amount fallback chain: amount -> importe -> 0.
	if n, ok := pickNumber(raw.Amount, raw.Importe); ok {
		r.Amount = n.Value
	}
	return r
}

func amountFields(raw *RawPolicy) analytics.AmountFields {
	fields := analytics.AmountFields{}
	set := func(name string, values ...rawNumber) {
		if n, ok := pickNumber(values...); ok {
			fields.Set(name, n.Value)
		}
	}
	set(analytics.FieldTotal, raw.Total, raw.ImporteTotal)
	set(analytics.FieldPrimaPagada, raw.PrimaPagadaSnake, raw.PrimaPagadaCamel)
	set(analytics.FieldPrima, raw.Prima)
	set(analytics.FieldMonto, raw.Monto)
	set(analytics.FieldPrimaNeta, raw.PrimaNetaSnake, raw.PrimaNetaCamel)
	return fields
}

func paymentType(s string) analytics.PaymentType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fraccionado", "installment", "mensual":
		return analytics.PaymentInstallment
	default:
		return analytics.PaymentAnnual
	}
}

func paymentFrequency(s string) analytics.PaymentFrequency {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mensual", "monthly":
		return analytics.FrequencyMonthly
	case "trimestral", "quarterly":
		return analytics.FrequencyQuarterly
	case "semestral", "semiannual":
		return analytics.FrequencySemiannual
	default:
		return analytics.FrequencyAnnual
	}
}

func lifecycleStage(s string) analytics.LifecycleStage {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cancelada", "cancelado", "cancelled", "canceled":
		return analytics.StageCancelled
	default:
		return analytics.StageActive
	}
}

func normalizeStatusLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// parseDate tries each known layout. Failures log and return the zero Date:
// the record then stays out of date-windowed buckets but still counts in
// window-independent ones.
func parseDate(recordID, field, s string) analytics.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return analytics.Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return analytics.DateOf(t)
		}
	}
	log.Printf("[Ingest] unparsable date %q in field %s of record %s; dropping", s, field, recordID)
	return analytics.Date{}
}

// =============================================================================
// ENRICHMENT
// =============================================================================

// Enrich joins client attributes into policies by client ID. Policies with
// no matching client are left as-is; the join is best effort under partial
// data.
func Enrich(policies []*analytics.Policy, clients []analytics.Client) {
	byID := make(map[string]analytics.Client, len(clients))
	for _, c := range clients {
		if c.ID != "" {
			byID[c.ID] = c
		}
	}
	for _, p := range policies {
		if c, ok := byID[p.ClientID]; ok {
			p.ClientName = c.Name
			p.ClientPhone = c.Phone
		}
	}
}
