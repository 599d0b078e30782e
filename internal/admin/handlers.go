package admin

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/kasir-api/internal/bundle"
	"github.com/noah-isme/kasir-api/internal/catalog"
	"github.com/noah-isme/kasir-api/internal/checkout"
	"github.com/noah-isme/kasir-api/internal/common"
	"github.com/noah-isme/kasir-api/internal/coupon"
	"github.com/noah-isme/kasir-api/internal/loyalty"
	"github.com/noah-isme/kasir-api/internal/offer"
)

var validate = validator.New()

// Handler exposes the registration endpoints. Every registration is an
// overwrite-by-key upsert; nothing is ever deleted. Mu serializes access to
// the registries shared with the checkout handler.
type Handler struct {
	Svc     *checkout.Service
	Catalog *catalog.Store
	Mu      *sync.Mutex
}

type productPayload struct {
	Unit      string  `json:"unit" validate:"omitempty,oneof=each kilo"`
	UnitPrice float64 `json:"unitPrice" validate:"required,gt=0"`
}

type offerPayload struct {
	Kind     string  `json:"kind" validate:"required"`
	Product  string  `json:"product" validate:"required"`
	Unit     string  `json:"unit" validate:"omitempty,oneof=each kilo"`
	Argument float64 `json:"argument" validate:"gte=0"`
}

type bundleProductPayload struct {
	Name string `json:"name" validate:"required"`
	Unit string `json:"unit" validate:"omitempty,oneof=each kilo"`
}

type bundlePayload struct {
	ID          string                 `json:"id"`
	Products    []bundleProductPayload `json:"products" validate:"required,min=1,dive"`
	Percent     float64                `json:"percent" validate:"gte=0,lte=100"`
	Description string                 `json:"description"`
}

type couponPayload struct {
	Code        string     `json:"code" validate:"required"`
	Kind        string     `json:"kind" validate:"required,oneof=percentage fixed"`
	Value       float64    `json:"value" validate:"required,gt=0"`
	ValidFrom   *time.Time `json:"validFrom"`
	ValidUntil  *time.Time `json:"validUntil"`
	MaxUses     int        `json:"maxUses" validate:"omitempty,gte=1"`
	MinPurchase float64    `json:"minPurchase" validate:"gte=0"`
	Description string     `json:"description"`
}

type accountPayload struct {
	CustomerID string `json:"customerId" validate:"required"`
}

// UpsertProduct registers or replaces a catalog price.
func (h *Handler) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "product name is required", nil)
		return
	}
	var payload productPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	unit, err := catalog.ParseUnit(payload.Unit)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
		return
	}
	p := catalog.Product{Name: name, Unit: unit}
	h.lock()
	h.Catalog.AddProduct(p, payload.UnitPrice)
	h.unlock()
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"product":   p.Name,
		"unit":      string(p.Unit),
		"unitPrice": payload.UnitPrice,
	}})
}

// CreateOffer binds a per-product offer, replacing any existing offer on
// the same product.
func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var payload offerPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	kind := offer.Kind(strings.TrimSpace(payload.Kind))
	if _, err := h.Svc.Calculators.Get(kind); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "unknown offer kind", map[string]any{"kind": payload.Kind})
		return
	}
	unit, err := catalog.ParseUnit(payload.Unit)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
		return
	}
	p := catalog.Product{Name: payload.Product, Unit: unit}
	h.lock()
	h.Svc.AddSpecialOffer(kind, p, payload.Argument)
	h.unlock()
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
		"kind":     string(kind),
		"product":  p.Name,
		"argument": payload.Argument,
	}})
}

// CreateBundle registers a bundle; a missing id is generated.
func (h *Handler) CreateBundle(w http.ResponseWriter, r *http.Request) {
	var payload bundlePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	id := strings.TrimSpace(payload.ID)
	if id == "" {
		id = uuid.NewString()
	}
	products := make([]catalog.Product, 0, len(payload.Products))
	for _, bp := range payload.Products {
		unit, err := catalog.ParseUnit(bp.Unit)
		if err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
			return
		}
		products = append(products, catalog.Product{Name: bp.Name, Unit: unit})
	}
	b, err := bundle.New(id, products, payload.Percent, payload.Description)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
		return
	}
	h.lock()
	h.Svc.RegisterBundle(b)
	h.unlock()
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
		"id":          b.ID,
		"percent":     b.Percent,
		"description": b.Description,
	}})
}

// CreateCoupon registers a coupon; an existing code is replaced together
// with its usage counter.
func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var payload couponPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	if payload.ValidFrom != nil && payload.ValidUntil != nil && payload.ValidUntil.Before(*payload.ValidFrom) {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "validUntil precedes validFrom", nil)
		return
	}
	c := coupon.New(strings.TrimSpace(payload.Code), coupon.Kind(payload.Kind), payload.Value)
	c.ValidFrom = payload.ValidFrom
	c.ValidUntil = payload.ValidUntil
	if payload.MaxUses > 0 {
		c.MaxUses = payload.MaxUses
	}
	c.MinPurchase = payload.MinPurchase
	if strings.TrimSpace(payload.Description) != "" {
		c.Description = payload.Description
	}
	h.lock()
	h.Svc.RegisterCoupon(c)
	h.unlock()
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
		"code":    c.Code,
		"kind":    string(c.Kind),
		"value":   c.Value,
		"maxUses": c.MaxUses,
	}})
}

// CreateLoyaltyAccount creates the account if absent; creating again
// returns the existing balance unchanged.
func (h *Handler) CreateLoyaltyAccount(w http.ResponseWriter, r *http.Request) {
	var payload accountPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	h.lock()
	account := h.Svc.CreateLoyaltyAccount(strings.TrimSpace(payload.CustomerID))
	h.unlock()
	common.JSON(w, http.StatusCreated, map[string]any{"data": accountBody(account)})
}

// GetLoyaltyAccount returns balance and transaction history.
func (h *Handler) GetLoyaltyAccount(w http.ResponseWriter, r *http.Request) {
	customerID := strings.TrimSpace(chi.URLParam(r, "customerId"))
	h.lock()
	account := h.Svc.LoyaltyAccount(customerID)
	h.unlock()
	if account == nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "loyalty account not found", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": accountBody(account)})
}

func accountBody(account *loyalty.Account) map[string]any {
	history := make([]map[string]any, 0, len(account.History()))
	for _, entry := range account.History() {
		history = append(history, map[string]any{
			"id":          entry.ID,
			"kind":        string(entry.Kind),
			"points":      entry.Points,
			"description": entry.Description,
		})
	}
	return map[string]any{
		"customerId": account.CustomerID,
		"balance":    account.Balance(),
		"history":    history,
	}
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, payload any) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return false
	}
	if err := validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid request", err.Error())
		return false
	}
	return true
}

func (h *Handler) lock() {
	if h.Mu != nil {
		h.Mu.Lock()
	}
}

func (h *Handler) unlock() {
	if h.Mu != nil {
		h.Mu.Unlock()
	}
}
