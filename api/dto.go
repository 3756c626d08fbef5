/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  Defines the JSON structures the dashboard consumes. These decouple the
  engine's decimal/Date types from the wire: amounts go out as float64,
  dates as ISO strings, product breakdowns as sorted arrays so payloads are
  stable across runs.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - toXxxDTO: Conversion helpers from engine types
*/
package api

import (
	"sort"

	"github.com/hugooswaldo23/ProSistemaSeguros-sub004/analytics"
)

// =============================================================================
// SUMMARY TYPES
// =============================================================================

// TotalsDTO is an (amount, count) pair.
type TotalsDTO struct {
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// ProductTotalsDTO is one product's slice of a category.
type ProductTotalsDTO struct {
	Product string  `json:"product"`
	Amount  float64 `json:"amount"`
	Count   int     `json:"count"`
}

// BucketDTO is a month-windowed category.
type BucketDTO struct {
	Total         TotalsDTO          `json:"total"`
	CurrentMonth  TotalsDTO          `json:"current_month"`
	PreviousMonth TotalsDTO          `json:"previous_month"`
	ByProduct     []ProductTotalsDTO `json:"by_product"`
}

// SimpleBucketDTO is a window-independent category (due-soon, overdue).
type SimpleBucketDTO struct {
	Amount    float64            `json:"amount"`
	Count     int                `json:"count"`
	ByProduct []ProductTotalsDTO `json:"by_product"`
}

// SummaryDTO is the full dashboard card payload.
type SummaryDTO struct {
	AsOf               string          `json:"as_of"`
	CurrentMonthStart  string          `json:"current_month_start"`
	CurrentMonthEnd    string          `json:"current_month_end"`
	PreviousMonthStart string          `json:"previous_month_start"`
	PreviousMonthEnd   string          `json:"previous_month_end"`
	Emitted            BucketDTO       `json:"emitted"`
	Paid               BucketDTO       `json:"paid"`
	DueSoon            SimpleBucketDTO `json:"due_soon"`
	Overdue            SimpleBucketDTO `json:"overdue"`
	Cancelled          BucketDTO       `json:"cancelled"`
	PaidRate           float64         `json:"paid_rate"`
}

// RangeSummaryDTO aggregates over a caller-chosen window.
type RangeSummaryDTO struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	AsOf      string          `json:"as_of"`
	Emitted   SimpleBucketDTO `json:"emitted"`
	Paid      SimpleBucketDTO `json:"paid"`
	Cancelled SimpleBucketDTO `json:"cancelled"`
	DueSoon   SimpleBucketDTO `json:"due_soon"`
	Overdue   SimpleBucketDTO `json:"overdue"`
	PaidRate  float64         `json:"paid_rate"`
}

// =============================================================================
// DRILL-DOWN TYPES
// =============================================================================

// ReceivableDTO is one drill-down row.
type ReceivableDTO struct {
	PolicyID     string  `json:"policy_id"`
	PolicyNumber string  `json:"policy_number,omitempty"`
	Product      string  `json:"product"`
	Company      string  `json:"company,omitempty"`
	ClientName   string  `json:"client_name,omitempty"`
	Sequence     int     `json:"sequence"`
	Amount       float64 `json:"amount"`
	DueDate      string  `json:"due_date,omitempty"`
	PaymentDate  string  `json:"payment_date,omitempty"`
	Status       string  `json:"status"`
	Synthetic    bool    `json:"synthetic,omitempty"`
}

// CategoryDetailDTO is the paginated drill-down view for one category.
type CategoryDetailDTO struct {
	Category    string             `json:"category"`
	Title       string             `json:"title"`
	Color       string             `json:"color"`
	TotalAmount float64            `json:"total_amount"`
	TotalCount  int                `json:"total_count"`
	ByProduct   []ProductTotalsDTO `json:"by_product"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
	TotalPages  int                `json:"total_pages"`
	Records     []ReceivableDTO    `json:"records"`
}

// =============================================================================
// OPERATIONAL TYPES
// =============================================================================

// RefreshResultDTO reports one snapshot reload.
type RefreshResultDTO struct {
	RunID      string `json:"run_id"`
	Policies   int    `json:"policies"`
	Clients    int    `json:"clients"`
	Duplicates int    `json:"duplicates"`
	Revision   uint64 `json:"revision"`
	RefreshedAt string `json:"refreshed_at"`
}

// DuplicateGroupDTO is one advisory duplicate finding.
type DuplicateGroupDTO struct {
	ID           string   `json:"id"`
	PolicyNumber string   `json:"policy_number"`
	Company      string   `json:"company"`
	StartDate    string   `json:"start_date,omitempty"`
	PolicyIDs    []string `json:"policy_ids"`
}

// PolicyDTO is the canonical policy shape, for inspection.
type PolicyDTO struct {
	ID               string  `json:"id"`
	Number           string  `json:"number,omitempty"`
	Product          string  `json:"product,omitempty"`
	Company          string  `json:"company,omitempty"`
	ClientID         string  `json:"client_id,omitempty"`
	ClientName       string  `json:"client_name,omitempty"`
	IssueDate        string  `json:"issue_date,omitempty"`
	CaptureDate      string  `json:"capture_date,omitempty"`
	StartDate        string  `json:"start_date,omitempty"`
	PaymentType      string  `json:"payment_type"`
	PaymentFrequency string  `json:"payment_frequency,omitempty"`
	LifecycleStage   string  `json:"lifecycle_stage"`
	CancellationDate string  `json:"cancellation_date,omitempty"`
	Total            float64 `json:"total"`
	NetPremium       float64 `json:"net_premium"`
	ReceiptCount     int     `json:"receipt_count"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toTotalsDTO(t analytics.Totals) TotalsDTO {
	f, _ := t.Amount.Float64()
	return TotalsDTO{Amount: f, Count: t.Count}
}

func toProductTotalsDTO(pt analytics.ProductTotals) []ProductTotalsDTO {
	out := make([]ProductTotalsDTO, 0, len(pt))
	for product, t := range pt {
		f, _ := t.Amount.Float64()
		out = append(out, ProductTotalsDTO{Product: product, Amount: f, Count: t.Count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product < out[j].Product })
	return out
}

func toBucketDTO(b analytics.Bucket) BucketDTO {
	return BucketDTO{
		Total:         toTotalsDTO(b.Total),
		CurrentMonth:  toTotalsDTO(b.CurrentMonth),
		PreviousMonth: toTotalsDTO(b.PreviousMonth),
		ByProduct:     toProductTotalsDTO(b.ByProduct),
	}
}

func toSimpleBucketDTO(b analytics.SimpleBucket) SimpleBucketDTO {
	f, _ := b.Amount.Float64()
	return SimpleBucketDTO{Amount: f, Count: b.Count, ByProduct: toProductTotalsDTO(b.ByProduct)}
}

func toSummaryDTO(s *analytics.FinancialSummary) SummaryDTO {
	rate, _ := s.PaidRate.Float64()
	return SummaryDTO{
		AsOf:               s.AsOf.String(),
		CurrentMonthStart:  s.CurrentMonth.Start.String(),
		CurrentMonthEnd:    s.CurrentMonth.End.String(),
		PreviousMonthStart: s.PreviousMonth.Start.String(),
		PreviousMonthEnd:   s.PreviousMonth.End.String(),
		Emitted:            toBucketDTO(s.Emitted),
		Paid:               toBucketDTO(s.Paid),
		DueSoon:            toSimpleBucketDTO(s.DueSoon),
		Overdue:            toSimpleBucketDTO(s.Overdue),
		Cancelled:          toBucketDTO(s.Cancelled),
		PaidRate:           rate,
	}
}

func toRangeSummaryDTO(s *analytics.RangeSummary) RangeSummaryDTO {
	rate, _ := s.PaidRate.Float64()
	return RangeSummaryDTO{
		From:      s.Range.Start.String(),
		To:        s.Range.End.String(),
		AsOf:      s.AsOf.String(),
		Emitted:   toSimpleBucketDTO(s.Emitted),
		Paid:      toSimpleBucketDTO(s.Paid),
		Cancelled: toSimpleBucketDTO(s.Cancelled),
		DueSoon:   toSimpleBucketDTO(s.DueSoon),
		Overdue:   toSimpleBucketDTO(s.Overdue),
		PaidRate:  rate,
	}
}

func toReceivableDTO(r analytics.ClassifiedReceivable) ReceivableDTO {
	amount, _ := r.Amount.Float64()
	return ReceivableDTO{
		PolicyID:     r.PolicyID,
		PolicyNumber: r.PolicyNumber,
		Product:      analytics.ProductLabel(r.Product),
		Company:      r.Company,
		ClientName:   r.ClientName,
		Sequence:     r.Sequence,
		Amount:       amount,
		DueDate:      r.DueDate.String(),
		PaymentDate:  r.PaymentDate.String(),
		Status:       string(r.Status),
		Synthetic:    r.Synthetic,
	}
}

func toCategoryDetailDTO(d *analytics.Detail, page analytics.Page) CategoryDetailDTO {
	total, _ := d.TotalAmount.Amount.Float64()
	records := make([]ReceivableDTO, len(page.Records))
	for i, r := range page.Records {
		records[i] = toReceivableDTO(r)
	}
	return CategoryDetailDTO{
		Category:    string(d.Category),
		Title:       d.Title,
		Color:       d.Color,
		TotalAmount: total,
		TotalCount:  d.TotalAmount.Count,
		ByProduct:   toProductTotalsDTO(d.ByProduct),
		Page:        page.Number,
		PageSize:    page.Size,
		TotalPages:  page.TotalPages,
		Records:     records,
	}
}

func toPolicyDTO(p *analytics.Policy) PolicyDTO {
	total, _ := analytics.ResolveTotal(p).Float64()
	net, _ := analytics.ResolveNetPremium(p).Float64()
	return PolicyDTO{
		ID:               p.ID,
		Number:           p.Number,
		Product:          p.Product,
		Company:          p.Company,
		ClientID:         p.ClientID,
		ClientName:       p.ClientName,
		IssueDate:        p.IssueDate.String(),
		CaptureDate:      p.CaptureDate.String(),
		StartDate:        p.StartDate.String(),
		PaymentType:      string(p.PaymentType),
		PaymentFrequency: string(p.PaymentFrequency),
		LifecycleStage:   string(p.LifecycleStage),
		CancellationDate: p.CancellationDate.String(),
		Total:            total,
		NetPremium:       net,
		ReceiptCount:     len(p.Receipts),
	}
}

func toDuplicateGroupDTO(g analytics.DuplicateGroup) DuplicateGroupDTO {
	return DuplicateGroupDTO{
		ID:           g.ID,
		PolicyNumber: g.Key.Number,
		Company:      g.Key.Company,
		StartDate:    g.Key.StartDate.String(),
		PolicyIDs:    g.PolicyIDs,
	}
}
