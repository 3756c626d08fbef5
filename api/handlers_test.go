package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugooswaldo23/ProSistemaSeguros-sub004/api"
	"github.com/hugooswaldo23/ProSistemaSeguros-sub004/store/sqlite"
)

// newTestServer wires the full stack: in-memory store, seeded demo
// portfolio, one refresh, chi router. Requests go through the real
// middleware and routing.
func newTestServer(t *testing.T) (*api.Handler, http.Handler) {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.SeedDemo(context.Background()))

	h := api.NewHandler(store)
	_, err = h.Refresh(context.Background())
	require.NoError(t, err)

	return h, api.NewRouter(h)
}

func doGET(t *testing.T, router http.Handler, url string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

// The demo portfolio anchored at 2024-03-15:
//   pol-001  Autos, emitted Mar 5, receipt paid Mar 10 (12400.50)
//   pol-002  Vida, emitted Mar 1, one receipt paid Mar 2 (450), one due
//            Mar 25 (due soon), one due Apr 25 (beyond the horizon)
//   pol-003  Gastos Médicos, captured Feb 10, no receipts, explicitly
//            overdue (31000)
//   pol-004  Autos, cancelled Feb 20 (8000)
//   pol-005  no product, emitted Mar 5, duplicate key of pol-001
const asOf = "2024-03-15"

func TestGetSummary_SeededPortfolio(t *testing.T) {
	_, router := newTestServer(t)

	var got api.SummaryDTO
	rec := doGET(t, router, "/api/summary?as_of="+asOf, &got)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, asOf, got.AsOf)
	assert.Equal(t, "2024-03-01", got.CurrentMonthStart)
	assert.Equal(t, "2024-03-31", got.CurrentMonthEnd)

	// Emitted: one entry per policy, bucketed by emission date.
	assert.Equal(t, 5, got.Emitted.Total.Count)
	assert.Equal(t, 3, got.Emitted.CurrentMonth.Count)
	assert.InDelta(t, 30201.00, got.Emitted.CurrentMonth.Amount, 0.001)
	assert.Equal(t, 1, got.Emitted.PreviousMonth.Count)
	assert.InDelta(t, 31000, got.Emitted.PreviousMonth.Amount, 0.001)

	// Paid: pol-001's receipt plus pol-002's first installment.
	assert.Equal(t, 2, got.Paid.CurrentMonth.Count)
	assert.InDelta(t, 12850.50, got.Paid.CurrentMonth.Amount, 0.001)

	// Due soon: pol-002's Mar 25 installment, inside the 15-day horizon.
	assert.Equal(t, 1, got.DueSoon.Count)
	assert.InDelta(t, 450, got.DueSoon.Amount, 0.001)

	// Overdue: pol-003's explicit label, synthesized receipt.
	assert.Equal(t, 1, got.Overdue.Count)
	assert.InDelta(t, 31000, got.Overdue.Amount, 0.001)

	// Cancelled: pol-004, bucketed by cancellation date (February).
	assert.Equal(t, 1, got.Cancelled.Total.Count)
	assert.Equal(t, 0, got.Cancelled.CurrentMonth.Count)
	assert.Equal(t, 1, got.Cancelled.PreviousMonth.Count)
	assert.InDelta(t, 8000, got.Cancelled.PreviousMonth.Amount, 0.001)

	// Paid rate: 2 paid / 3 emitted this month.
	assert.InDelta(t, 2.0/3.0, got.PaidRate, 0.001)
}

func TestGetSummary_ProductBreakdownIncludesFallbackLabel(t *testing.T) {
	_, router := newTestServer(t)

	var got api.SummaryDTO
	doGET(t, router, "/api/summary?as_of="+asOf, &got)

	products := make(map[string]api.ProductTotalsDTO)
	for _, pt := range got.Emitted.ByProduct {
		products[pt.Product] = pt
	}
	assert.Contains(t, products, "Autos")
	assert.Contains(t, products, "Vida")
	assert.Contains(t, products, "Sin producto")
	assert.Equal(t, 2, products["Autos"].Count)
}

func TestGetSummary_InvalidAsOf(t *testing.T) {
	_, router := newTestServer(t)

	rec := doGET(t, router, "/api/summary?as_of=not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRangeSummary(t *testing.T) {
	_, router := newTestServer(t)

	var got api.RangeSummaryDTO
	rec := doGET(t, router, "/api/summary/range?from=2024-03-01&to=2024-03-31&as_of="+asOf, &got)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "2024-03-01", got.From)
	assert.Equal(t, 3, got.Emitted.Count)
	assert.Equal(t, 2, got.Paid.Count)
	assert.Equal(t, 0, got.Cancelled.Count, "February cancellation is outside the window")
}

func TestGetRangeSummary_Validation(t *testing.T) {
	_, router := newTestServer(t)

	rec := doGET(t, router, "/api/summary/range?from=2024-03-31&to=2024-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "end before start")

	rec = doGET(t, router, "/api/summary/range?to=2024-03-31", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing from")
}

func TestGetCategoryDetail_Paid(t *testing.T) {
	_, router := newTestServer(t)

	var got api.CategoryDetailDTO
	rec := doGET(t, router, "/api/categories/paid?as_of="+asOf+"&period=current", &got)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "paid", got.Category)
	assert.Equal(t, "Pagadas", got.Title)
	assert.Equal(t, 2, got.TotalCount)
	assert.InDelta(t, 12850.50, got.TotalAmount, 0.001)
	require.Len(t, got.Records, 2)
	for _, r := range got.Records {
		assert.Equal(t, "paid", r.Status)
		assert.NotEmpty(t, r.ClientName, "client join carries through the drill-down")
	}
}

func TestGetCategoryDetail_SyntheticRowFlagged(t *testing.T) {
	_, router := newTestServer(t)

	var got api.CategoryDetailDTO
	doGET(t, router, "/api/categories/overdue?as_of="+asOf, &got)

	require.Len(t, got.Records, 1)
	assert.Equal(t, "pol-003", got.Records[0].PolicyID)
	assert.True(t, got.Records[0].Synthetic)
}

func TestGetCategoryDetail_Validation(t *testing.T) {
	_, router := newTestServer(t)

	rec := doGET(t, router, "/api/categories/nonsense", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown category")

	rec = doGET(t, router, "/api/categories/paid?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "page below 1")

	rec = doGET(t, router, "/api/categories/paid?page_size=1000", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "page size above cap")

	rec = doGET(t, router, "/api/categories/paid?period=someday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown period")
}

func TestGetDuplicates(t *testing.T) {
	_, router := newTestServer(t)

	var got []api.DuplicateGroupDTO
	rec := doGET(t, router, "/api/duplicates", &got)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, got, 1, "pol-001 and pol-005 share number, company and start date")
	assert.Equal(t, "AUT-1001", got[0].PolicyNumber)
	assert.ElementsMatch(t, []string{"pol-001", "pol-005"}, got[0].PolicyIDs)
}

func TestPostRefresh(t *testing.T) {
	h, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got api.RefreshResultDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.RunID)
	assert.Equal(t, 5, got.Policies)
	assert.Equal(t, 3, got.Clients)
	assert.Equal(t, 1, got.Duplicates)

	// A second refresh is a new run against the same snapshot.
	second, err := h.Refresh(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, got.RunID, second.RunID)
	assert.Greater(t, second.Revision, got.Revision)
}

func TestHealth(t *testing.T) {
	_, router := newTestServer(t)

	var got map[string]any
	rec := doGET(t, router, "/api/health", &got)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", got["status"])
	assert.EqualValues(t, 5, got["policies"])
}

func TestListPolicies(t *testing.T) {
	_, router := newTestServer(t)

	var got []api.PolicyDTO
	rec := doGET(t, router, "/api/policies", &got)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, got, 5)

	byID := make(map[string]api.PolicyDTO)
	for _, p := range got {
		byID[p.ID] = p
	}
	assert.Equal(t, "María Fernández", byID["pol-001"].ClientName)
	assert.InDelta(t, 5400, byID["pol-002"].Total, 0.001, "string premium coerced")
	assert.Equal(t, "cancelled", byID["pol-004"].LifecycleStage)
	assert.Equal(t, 3, byID["pol-002"].ReceiptCount)
}
