package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/utafrali/EcommerceGo/services/storefront/internal/domain"
	"github.com/utafrali/EcommerceGo/services/storefront/internal/screen"
	"github.com/utafrali/EcommerceGo/services/storefront/internal/service"
	apperrors "github.com/utafrali/EcommerceGo/services/storefront/pkg/errors"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/httputil"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/logger"
)

// Catalog is the product source used by the product screens.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
}

// ProductHandler serves the product list and detail screens.
type ProductHandler struct {
	catalog Catalog
	store   *service.CartStore
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(catalog Catalog, store *service.CartStore, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		store:   store,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	refreshing, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.writeScreenError(w, r, err, screen.ProductListError(refreshing), screen.MsgLoadProductsFailed)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: screen.NewProductList(products, refreshing),
	})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeParamError(w, r, err, h.logger)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		view := screen.ProductDetailError(err)
		h.writeScreenError(w, r, err, view, view.Error.Message)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: screen.NewProductDetail(product, h.store.Quantity(product.ID)),
	})
}

// AddToCart handles POST /api/v1/products/{id}/cart
func (h *ProductHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeParamError(w, r, err, h.logger)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		view := screen.ProductDetailError(err)
		h.writeScreenError(w, r, err, view, view.Error.Message)
		return
	}

	h.store.AddToCart(*product)

	logger.FromContext(r.Context()).InfoContext(r.Context(), "product added to cart",
		slog.Int("product_id", product.ID),
		slog.Int("quantity", h.store.Quantity(product.ID)),
	)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: screen.NewCartView(h.store.Cart(), h.store.IsLoadingStorage()),
	})
}

// writeScreenError answers with the error view of a screen alongside the
// standard error envelope.
func (h *ProductHandler) writeScreenError(w http.ResponseWriter, r *http.Request, err error, view any, message string) {
	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code = "NOT_FOUND"
	case errors.Is(err, apperrors.ErrNetwork):
		code = "NETWORK_ERROR"
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).WarnContext(r.Context(), "screen load failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	httputil.WriteJSON(w, status, httputil.Response{
		Data: view,
		Error: &httputil.ErrorResponse{
			Code:      code,
			Message:   message,
			Retryable: apperrors.IsRetryable(err),
			RequestID: logger.CorrelationIDFromContext(r.Context()),
		},
	})
}

func writeParamError(w http.ResponseWriter, r *http.Request, err error, l *slog.Logger) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		httputil.WriteError(w, r, err, l)
		return
	}
	httputil.WriteValidationError(w, err)
}
