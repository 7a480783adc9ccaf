package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/EcommerceGo/services/storefront/internal/screen"
	"github.com/utafrali/EcommerceGo/services/storefront/internal/service"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/httputil"
)

// CartHandler serves the cart screen and its actions.
type CartHandler struct {
	store    *service.CartStore
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(store *service.CartStore, checkout *service.CheckoutService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		store:    store,
		checkout: checkout,
		logger:   logger,
	}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w)
}

// Badge handles GET /api/v1/cart/badge
func (h *CartHandler) Badge(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: screen.BadgeView{Count: h.store.ItemCount()},
	})
}

// IncreaseQuantity handles POST /api/v1/cart/items/{id}/increase
func (h *CartHandler) IncreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.withProductID(w, r, h.store.IncreaseQuantity)
}

// DecreaseQuantity handles POST /api/v1/cart/items/{id}/decrease
func (h *CartHandler) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.withProductID(w, r, h.store.DecreaseQuantity)
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.withProductID(w, r, h.store.RemoveFromCart)
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.store.ClearCart()
	h.writeCart(w)
}

// Checkout handles POST /api/v1/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	confirmation, err := h.checkout.Checkout(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: screen.NewCheckoutView(confirmation),
	})
}

func (h *CartHandler) withProductID(w http.ResponseWriter, r *http.Request, op func(productID int)) {
	id, err := productID(r)
	if err != nil {
		writeParamError(w, r, err, h.logger)
		return
	}

	op(id)
	h.writeCart(w)
}

func (h *CartHandler) writeCart(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: screen.NewCartView(h.store.Cart(), h.store.IsLoadingStorage()),
	})
}
