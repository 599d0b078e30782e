package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kasir-api/internal/catalog"
	"github.com/noah-isme/kasir-api/internal/checkout"
	"github.com/noah-isme/kasir-api/internal/loyalty"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Handler) {
	t.Helper()
	store := catalog.NewStore()
	svc, err := checkout.NewService(checkout.ServiceConfig{
		Catalog: store,
		Loyalty: loyalty.NewProgram(1.0, 0.01),
	})
	require.NoError(t, err)

	h := &Handler{Svc: svc, Catalog: store, Mu: &sync.Mutex{}}
	r := chi.NewRouter()
	r.Put("/admin/products/{name}", h.UpsertProduct)
	r.Post("/admin/offers", h.CreateOffer)
	r.Post("/admin/bundles", h.CreateBundle)
	r.Post("/admin/coupons", h.CreateCoupon)
	r.Post("/admin/loyalty/accounts", h.CreateLoyaltyAccount)
	r.Get("/loyalty/accounts/{customerId}", h.GetLoyaltyAccount)
	return r, h
}

func doJSON(t *testing.T, r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUpsertProduct(t *testing.T) {
	r, h := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPut, "/admin/products/toothbrush", map[string]any{
		"unitPrice": 0.99,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	price, err := h.Catalog.UnitPrice(catalog.Product{Name: "toothbrush", Unit: catalog.UnitEach})
	require.NoError(t, err)
	require.Equal(t, 0.99, price)
}

func TestUpsertProductReplacesPrice(t *testing.T) {
	r, h := newTestRouter(t)
	doJSON(t, r, http.MethodPut, "/admin/products/milk", map[string]any{"unitPrice": 1.50})
	rec := doJSON(t, r, http.MethodPut, "/admin/products/milk", map[string]any{"unitPrice": 1.25})
	require.Equal(t, http.StatusOK, rec.Code)

	price, err := h.Catalog.UnitPrice(catalog.Product{Name: "milk", Unit: catalog.UnitEach})
	require.NoError(t, err)
	require.Equal(t, 1.25, price)
}

func TestUpsertProductRejectsZeroPrice(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPut, "/admin/products/milk", map[string]any{"unitPrice": 0})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateOffer(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/admin/offers", map[string]any{
		"kind":     "three_for_two",
		"product":  "toothbrush",
		"argument": 0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateOfferUnknownKind(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/admin/offers", map[string]any{
		"kind":    "buy_one_get_one",
		"product": "toothbrush",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateBundle(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/admin/bundles", map[string]any{
		"products": []map[string]any{
			{"name": "toothbrush"},
			{"name": "toothpaste"},
		},
		"percent":     10,
		"description": "Dental care",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.ID)
}

func TestCreateBundleRejectsEmptyProducts(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/admin/bundles", map[string]any{
		"products": []map[string]any{},
		"percent":  10,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateBundleRejectsPercentOutOfRange(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/admin/bundles", map[string]any{
		"products": []map[string]any{{"name": "milk"}},
		"percent":  120,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateCoupon(t *testing.T) {
	r, h := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/admin/coupons", map[string]any{
		"code":    "SAVE10",
		"kind":    "percentage",
		"value":   10,
		"maxUses": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, h.Svc.Coupons.Get("SAVE10"))
}

func TestCreateCouponRejectsUnknownKind(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/admin/coupons", map[string]any{
		"code":  "BROKEN",
		"kind":  "mystery",
		"value": 10,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateCouponRejectsInvertedWindow(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/admin/coupons", map[string]any{
		"code":       "SUMMER",
		"kind":       "percentage",
		"value":      10,
		"validFrom":  "2026-06-30T00:00:00Z",
		"validUntil": "2026-06-01T00:00:00Z",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLoyaltyAccountLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/admin/loyalty/accounts", map[string]any{
		"customerId": "cust-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// creating again is a no-op
	rec = doJSON(t, r, http.MethodPost, "/admin/loyalty/accounts", map[string]any{
		"customerId": "cust-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/loyalty/accounts/cust-1", nil)
	getRec := httptest.NewRecorder()
	r.ServeHTTP(getRec, req)
	require.Equal(t, http.StatusOK, getRec.Code)

	var body struct {
		Data struct {
			CustomerID string `json:"customerId"`
			Balance    int    `json:"balance"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &body))
	require.Equal(t, "cust-1", body.Data.CustomerID)
	require.Equal(t, 0, body.Data.Balance)
}

func TestGetLoyaltyAccountUnknown(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/loyalty/accounts/ghost", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
