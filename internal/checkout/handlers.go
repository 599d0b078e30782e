package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/kasir-api/internal/cart"
	"github.com/noah-isme/kasir-api/internal/catalog"
	"github.com/noah-isme/kasir-api/internal/common"
	"github.com/noah-isme/kasir-api/internal/loyalty"
	"github.com/noah-isme/kasir-api/internal/obs"
	"github.com/noah-isme/kasir-api/internal/receipt"
)

var validate = validator.New()

// Handler exposes the checkout endpoint. Mu serializes access to the shared
// registries; the engines themselves do no locking.
type Handler struct {
	Svc     *Service
	Mu      *sync.Mutex
	Columns int
}

type checkoutItemPayload struct {
	Product  string  `json:"product" validate:"required"`
	Unit     string  `json:"unit" validate:"omitempty,oneof=each kilo"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

type checkoutPayload struct {
	Items        []checkoutItemPayload `json:"items" validate:"required,min=1,dive"`
	CouponCodes  []string              `json:"couponCodes"`
	CustomerID   string                `json:"customerId"`
	RedeemPoints int                   `json:"redeemPoints" validate:"gte=0"`
}

type itemResponse struct {
	Product    string  `json:"product"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

type discountResponse struct {
	Product     *string `json:"product,omitempty"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type loyaltyResponse struct {
	RedemptionDiscount *discountResponse `json:"redemptionDiscount"`
	PointsEarned       int               `json:"pointsEarned"`
	PointsBalance      int               `json:"pointsBalance"`
}

type checkoutResponse struct {
	Items     []itemResponse     `json:"items"`
	Discounts []discountResponse `json:"discounts"`
	Total     float64            `json:"total"`
	Loyalty   *loyaltyResponse   `json:"loyalty,omitempty"`
}

// Checkout prices one cart. With ?format=text the receipt is rendered by
// the fixed-width printer instead of JSON.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var payload checkoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid checkout request", err.Error())
		return
	}

	c := cart.New()
	for _, item := range payload.Items {
		unit, err := catalog.ParseUnit(item.Unit)
		if err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
			return
		}
		c.AddItemQuantity(catalog.Product{Name: item.Product, Unit: unit}, item.Quantity)
	}

	start := time.Now()
	if h.Mu != nil {
		h.Mu.Lock()
	}
	outcome, err := h.Svc.Checkout(c, Request{
		CouponCodes:  payload.CouponCodes,
		CustomerID:   payload.CustomerID,
		RedeemPoints: payload.RedeemPoints,
	})
	if h.Mu != nil {
		h.Mu.Unlock()
	}
	if err != nil {
		observeCheckout("error", start)
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout failed", nil)
		return
	}
	observeCheckout("ok", start)

	if strings.EqualFold(r.URL.Query().Get("format"), "text") {
		printer := receipt.Printer{Columns: h.Columns}
		common.Text(w, http.StatusOK, printer.Print(outcome.Receipt))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toResponse(outcome)})
}

func toResponse(outcome Outcome) checkoutResponse {
	resp := checkoutResponse{
		Items:     make([]itemResponse, 0, len(outcome.Receipt.Items())),
		Discounts: make([]discountResponse, 0, len(outcome.Receipt.Discounts())),
		Total:     outcome.Receipt.TotalPrice(),
	}
	for _, item := range outcome.Receipt.Items() {
		resp.Items = append(resp.Items, itemResponse{
			Product:    item.Product.Name,
			Unit:       string(item.Product.Unit),
			Quantity:   item.Quantity,
			UnitPrice:  item.Price,
			TotalPrice: item.TotalPrice,
		})
	}
	for _, d := range outcome.Receipt.Discounts() {
		resp.Discounts = append(resp.Discounts, toDiscountResponse(d))
	}
	if outcome.Loyalty != nil {
		resp.Loyalty = toLoyaltyResponse(*outcome.Loyalty)
	}
	return resp
}

func toDiscountResponse(d receipt.Discount) discountResponse {
	out := discountResponse{Description: d.Description, Amount: d.Amount}
	if d.Product != nil {
		name := d.Product.Name
		out.Product = &name
	}
	return out
}

func toLoyaltyResponse(result loyalty.Result) *loyaltyResponse {
	resp := &loyaltyResponse{
		PointsEarned:  result.PointsEarned,
		PointsBalance: result.PointsBalance,
	}
	if result.RedemptionDiscount != nil {
		d := toDiscountResponse(*result.RedemptionDiscount)
		resp.RedemptionDiscount = &d
	}
	return resp
}

func observeCheckout(result string, start time.Time) {
	if obs.CheckoutTotal != nil {
		obs.CheckoutTotal.WithLabelValues(result).Inc()
	}
	if obs.CheckoutDuration != nil {
		obs.CheckoutDuration.Observe(obs.DurationMillis(time.Since(start)))
	}
}
