/*
handlers.go - HTTP API handlers for the receivables dashboard

PURPOSE:
  Exposes the analytics engine via REST. Handles HTTP request/response,
  JSON serialization, and delegates all business logic to the analytics
  package. No classification or aggregation rule lives here.

ENDPOINTS:
  Summary:
    GET  /api/summary                     Dashboard card totals
    GET  /api/summary/range               Custom date-range totals

  Drill-down:
    GET  /api/categories/{category}       Paginated category detail

  Data:
    GET  /api/policies                    Canonical policy snapshot
    GET  /api/duplicates                  Advisory duplicate findings
    POST /api/refresh                     Reload snapshot from the store

  Ops:
    GET  /api/health

REQUEST FLOW:
  1. Parse/validate query parameters (as_of defaults to today)
  2. Read the current in-memory snapshot (refreshed from the store)
  3. Call the engine
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: invalid dates, unknown category, bad pagination
  - 500: store/ingest failures during refresh
  The engine itself never errors: a snapshot of zero policies yields a
  complete zeroed summary.
*/
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/hugooswaldo23/ProSistemaSeguros-sub004/analytics"
	"github.com/hugooswaldo23/ProSistemaSeguros-sub004/ingest"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Source     ingest.Source
	Classifier analytics.Classifier

	cache *analytics.SummaryCache

	mu          sync.RWMutex
	policies    []*analytics.Policy
	duplicates  []analytics.DuplicateGroup
	refreshedAt time.Time
	lastRunID   string
}

// NewHandler creates a handler reading snapshots from the given source.
func NewHandler(src ingest.Source) *Handler {
	return &Handler{
		Source:     src,
		Classifier: analytics.DefaultClassifier,
		cache:      analytics.NewSummaryCache(),
	}
}

// Refresh reloads the snapshot from the source, re-normalizes it, runs the
// advisory duplicate scan, and invalidates the summary cache.
func (h *Handler) Refresh(ctx context.Context) (RefreshResultDTO, error) {
	policies, err := ingest.Load(ctx, h.Source)
	if err != nil {
		return RefreshResultDTO{}, err
	}

	duplicates := analytics.DetectDuplicates(policies)
	analytics.LogDuplicates(duplicates)

	runID := uuid.NewString()
	now := time.Now().UTC()

	h.mu.Lock()
	h.policies = policies
	h.duplicates = duplicates
	h.refreshedAt = now
	h.lastRunID = runID
	h.mu.Unlock()

	h.cache.Invalidate()

	clients := countClients(policies)
	log.Printf("[Refresh] run %s: %d policies, %d duplicate groups", runID, len(policies), len(duplicates))

	return RefreshResultDTO{
		RunID:       runID,
		Policies:    len(policies),
		Clients:     clients,
		Duplicates:  len(duplicates),
		Revision:    h.cache.Revision(),
		RefreshedAt: now.Format(time.RFC3339),
	}, nil
}

// snapshot returns the current policy snapshot. The slice is never mutated
// after publication, so sharing it across requests is safe.
func (h *Handler) snapshot() []*analytics.Policy {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.policies
}

func countClients(policies []*analytics.Policy) int {
	seen := map[string]bool{}
	for _, p := range policies {
		if p.ClientName != "" {
			seen[p.ClientID] = true
		}
	}
	return len(seen)
}

// =============================================================================
// SUMMARY HANDLERS
// =============================================================================

// GetSummary returns the dashboard card totals as of a date (default today).
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDateParam(r, "as_of", analytics.Today())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", "invalid_date")
		return
	}

	snapshot := h.snapshot()
	summary := h.cache.Get(asOf, func() *analytics.FinancialSummary {
		return h.Classifier.Aggregate(snapshot, asOf)
	})

	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// GetRangeSummary aggregates over a caller-chosen [from, to] window.
func (h *Handler) GetRangeSummary(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "from", analytics.Date{})
	if err != nil || from.IsZero() {
		writeError(w, http.StatusBadRequest, "Missing or invalid from date (use YYYY-MM-DD)", "invalid_date")
		return
	}
	to, err := parseDateParam(r, "to", analytics.Date{})
	if err != nil || to.IsZero() {
		writeError(w, http.StatusBadRequest, "Missing or invalid to date (use YYYY-MM-DD)", "invalid_date")
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "Range end before start", "invalid_range")
		return
	}
	asOf, err := parseDateParam(r, "as_of", analytics.Today())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", "invalid_date")
		return
	}

	summary := h.Classifier.AggregateRange(h.snapshot(), analytics.Period{Start: from, End: to}, asOf)
	writeJSON(w, http.StatusOK, toRangeSummaryDTO(summary))
}

// =============================================================================
// DRILL-DOWN HANDLER
// =============================================================================

// GetCategoryDetail returns the paginated drill-down for one category.
// Query: period=current|previous|all (default current), or from/to for a
// custom range; page (default 1), page_size (default 20).
func (h *Handler) GetCategoryDetail(w http.ResponseWriter, r *http.Request) {
	category, ok := analytics.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown category", "unknown_category")
		return
	}

	asOf, err := parseDateParam(r, "as_of", analytics.Today())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", "invalid_date")
		return
	}

	period, err := parsePeriodParam(r, asOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_period")
		return
	}

	page := intQuery(r, "page", 1)
	pageSize := intQuery(r, "page_size", analytics.DefaultPageSize)
	if page < 1 || pageSize < 1 || pageSize > 500 {
		writeError(w, http.StatusBadRequest, "Invalid pagination", "invalid_pagination")
		return
	}

	classified := h.Classifier.ClassifyAll(h.snapshot(), asOf)
	detail := analytics.CategoryDetail(classified, category, period)

	writeJSON(w, http.StatusOK, toCategoryDetailDTO(detail, detail.Page(page, pageSize)))
}

// =============================================================================
// DATA HANDLERS
// =============================================================================

// ListPolicies returns the canonical snapshot for inspection.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	snapshot := h.snapshot()
	dtos := make([]PolicyDTO, len(snapshot))
	for i, p := range snapshot {
		dtos[i] = toPolicyDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDuplicates returns the advisory duplicate findings from the last refresh.
func (h *Handler) GetDuplicates(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	groups := h.duplicates
	h.mu.RUnlock()

	dtos := make([]DuplicateGroupDTO, len(groups))
	for i, g := range groups {
		dtos[i] = toDuplicateGroupDTO(g)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PostRefresh reloads the snapshot from the store.
func (h *Handler) PostRefresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.Refresh(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Refresh failed: "+err.Error(), "refresh_failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Health reports liveness and snapshot age.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	refreshedAt := h.refreshedAt
	count := len(h.policies)
	h.mu.RUnlock()

	payload := map[string]any{
		"status":   "ok",
		"policies": count,
	}
	if !refreshedAt.IsZero() {
		payload["refreshed_at"] = refreshedAt.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, payload)
}

// =============================================================================
// REQUEST PARSING + RESPONSE HELPERS
// =============================================================================

var (
	errInvalidRange  = errors.New("invalid from/to range (use YYYY-MM-DD, from <= to)")
	errInvalidPeriod = errors.New("invalid period (use current, previous or all)")
)

func parseDateParam(r *http.Request, name string, fallback analytics.Date) (analytics.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return analytics.Date{}, err
	}
	return analytics.DateOf(t), nil
}

func parsePeriodParam(r *http.Request, asOf analytics.Date) (analytics.PeriodFilter, error) {
	if r.URL.Query().Get("from") != "" || r.URL.Query().Get("to") != "" {
		from, err := parseDateParam(r, "from", analytics.Date{})
		if err != nil || from.IsZero() {
			return analytics.PeriodFilter{}, errInvalidRange
		}
		to, err := parseDateParam(r, "to", analytics.Date{})
		if err != nil || to.IsZero() || to.Before(from) {
			return analytics.PeriodFilter{}, errInvalidRange
		}
		return analytics.PeriodRange(analytics.Period{Start: from, End: to}), nil
	}

	switch r.URL.Query().Get("period") {
	case "", "current":
		return analytics.PeriodCurrentMonth(asOf), nil
	case "previous":
		return analytics.PeriodPreviousMonth(asOf), nil
	case "all":
		return analytics.PeriodAll(), nil
	default:
		return analytics.PeriodFilter{}, errInvalidPeriod
	}
}

func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}
