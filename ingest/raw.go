/*
raw.go - Source document shapes and tolerant scalar decoding

PURPOSE:
  The upstream system never settled on one spelling per field: amounts arrive
  as "total" or "importe_total", dates as "fecha_emision" or "fechaEmision",
  numbers as JSON numbers or quoted strings. The raw types here accept every
  spelling observed upstream; pick() fallbacks collapse them during
  normalization so the analytics core only ever sees canonical names.

TOLERANT SCALARS:
  rawString accepts strings, numbers and booleans (IDs arrive as both 42 and
  "42"). rawNumber accepts numbers and numeric strings; a present but
  unparsable value is kept as present-with-zero, matching the engine's
  documented lossy coercion. Neither ever fails the decode of the whole
  document.
*/
package ingest

import (
	"bytes"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// =============================================================================
// TOLERANT SCALARS
// =============================================================================

// rawString decodes a JSON string, number, or boolean into a trimmed string.
type rawString string

func (s *rawString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = rawString(strings.TrimSpace(v))
		return nil
	}
	*s = rawString(string(b))
	return nil
}

func (s rawString) String() string { return string(s) }

// rawNumber decodes a JSON number or numeric string. Present-but-unparsable
// values are kept as present with value zero.
type rawNumber struct {
	Value   decimal.Decimal
	Present bool
}

func (n *rawNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
	}
	n.Present = true
	if d, err := decimal.NewFromString(s); err == nil {
		n.Value = d
	} else {
		n.Value = decimal.Zero
	}
	return nil
}

// pickString returns the first non-empty value.
func pickString(values ...rawString) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

// pickNumber returns the first present value.
func pickNumber(values ...rawNumber) (rawNumber, bool) {
	for _, v := range values {
		if v.Present {
			return v, true
		}
	}
	return rawNumber{}, false
}

// =============================================================================
// RAW DOCUMENTS
// =============================================================================

// RawPolicy mirrors one upstream policy document with all accepted
// spellings. Unknown fields are ignored by decoding.
type RawPolicy struct {
	ID  rawString `json:"id"`
	UID rawString `json:"uid"`

	NoPoliza     rawString `json:"no_poliza"`
	NumeroPoliza rawString `json:"numeroPoliza"`
	Poliza       rawString `json:"poliza"`

	Producto rawString `json:"producto"`
	Product  rawString `json:"product"`

	Compania    rawString `json:"compania"`
	Aseguradora rawString `json:"aseguradora"`

	ClienteID rawString `json:"cliente_id"`
	ClienteId rawString `json:"clienteId"`
	IDCliente rawString `json:"id_cliente"`

	FechaEmisionSnake  rawString `json:"fecha_emision"`
	FechaEmisionCamel  rawString `json:"fechaEmision"`
	FechaCapturaSnake  rawString `json:"fecha_captura"`
	FechaCapturaCamel  rawString `json:"fechaCaptura"`
	FechaInicio        rawString `json:"fecha_inicio"`
	InicioVigencia     rawString `json:"inicio_vigencia"`
	CreatedAt          rawString `json:"created_at"`
	FechaRegistro      rawString `json:"fecha_registro"`
	FechaCancelacion   rawString `json:"fecha_cancelacion"`
	FechaCancelacionCC rawString `json:"fechaCancelacion"`
	ProximoPago        rawString `json:"proximo_pago"`
	FechaProximoPago   rawString `json:"fecha_proximo_pago"`
	FechaPagoSnake     rawString `json:"fecha_pago"`
	FechaPagoCamel     rawString `json:"fechaPago"`

	FormaPago      rawString `json:"forma_pago"`
	TipoPago       rawString `json:"tipo_pago"`
	FrecuenciaPago rawString `json:"frecuencia_pago"`
	Frecuencia     rawString `json:"frecuencia"`

	Estatus rawString `json:"estatus"`
	Estado  rawString `json:"estado"`

	EstatusPagoSnake rawString `json:"estatus_pago"`
	EstatusPagoCamel rawString `json:"estatusPago"`

	Total            rawNumber `json:"total"`
	ImporteTotal     rawNumber `json:"importe_total"`
	PrimaPagadaSnake rawNumber `json:"prima_pagada"`
	PrimaPagadaCamel rawNumber `json:"primaPagada"`
	Prima            rawNumber `json:"prima"`
	Monto            rawNumber `json:"monto"`
	PrimaNetaSnake   rawNumber `json:"prima_neta"`
	PrimaNetaCamel   rawNumber `json:"primaNeta"`

	Recibos  []RawReceipt `json:"recibos"`
	Receipts []RawReceipt `json:"receipts"`
}

// RawReceipt mirrors one upstream receipt entry.
type RawReceipt struct {
	Numero    rawNumber `json:"numero"`
	Secuencia rawNumber `json:"secuencia"`

	Amount  rawNumber `json:"amount"`
	Importe rawNumber `json:"importe"`

	FechaVencimientoSnake rawString `json:"fecha_vencimiento"`
	FechaVencimientoCamel rawString `json:"fechaVencimiento"`
	DueDate               rawString `json:"due_date"`

	FechaPagoSnake rawString `json:"fecha_pago"`
	FechaPagoCamel rawString `json:"fechaPago"`

	Estatus rawString `json:"estatus"`
	Status  rawString `json:"status"`
}

// RawClient mirrors one upstream client document.
type RawClient struct {
	ID  rawString `json:"id"`
	UID rawString `json:"uid"`

	Nombre         rawString `json:"nombre"`
	Name           rawString `json:"name"`
	NombreCompleto rawString `json:"nombre_completo"`

	TelefonoMovilSnake rawString `json:"telefono_movil"`
	TelefonoMovilCamel rawString `json:"telefonoMovil"`
	Telefono           rawString `json:"telefono"`
}
