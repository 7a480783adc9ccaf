package screen

import (
	"errors"
	"fmt"

	"github.com/utafrali/EcommerceGo/services/storefront/internal/domain"
	apperrors "github.com/utafrali/EcommerceGo/services/storefront/pkg/errors"
)

// User-facing messages.
const (
	MsgLoadProductsFailed = "Failed to load products. Please try again."
	MsgLoadProductFailed  = "Failed to load product. Please try again."
	MsgProductNotFound    = "Product not found"
	MsgCartEmpty          = "Your cart is empty"
	msgCheckoutThanks     = "Thank you for your purchase!"
)

// ErrorView is an inline error with an optional retry action.
type ErrorView struct {
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// RatingView is the star rating shown on cards and details.
type RatingView struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// ProductCard is one entry of the product list grid.
type ProductCard struct {
	ID       int        `json:"id"`
	Title    string     `json:"title"`
	Category string     `json:"category"`
	Image    string     `json:"image"`
	Price    string     `json:"price"`
	Rating   RatingView `json:"rating"`
}

// ProductListView is the product list screen.
type ProductListView struct {
	Products   []ProductCard `json:"products"`
	Refreshing bool          `json:"refreshing"`
	Error      *ErrorView    `json:"error,omitempty"`
}

// ProductDetail is the full description of one product.
type ProductDetail struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Image       string     `json:"image"`
	Price       string     `json:"price"`
	Rating      RatingView `json:"rating"`
}

// ProductDetailView is the product detail screen.
type ProductDetailView struct {
	Product        *ProductDetail `json:"product,omitempty"`
	InCartQuantity int            `json:"in_cart_quantity"`
	NotFound       bool           `json:"not_found,omitempty"`
	Error          *ErrorView     `json:"error,omitempty"`
}

// CartItemView is one row of the cart screen.
type CartItemView struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// CartView is the cart screen.
type CartView struct {
	Items          []CartItemView `json:"items"`
	TotalPrice     string         `json:"total_price"`
	ItemCount      int            `json:"item_count"`
	Empty          bool           `json:"empty"`
	EmptyMessage   string         `json:"empty_message,omitempty"`
	LoadingStorage bool           `json:"loading_storage"`
}

// BadgeView is the cart tab badge.
type BadgeView struct {
	Count int `json:"count"`
}

// CheckoutView is the checkout confirmation dialog.
type CheckoutView struct {
	ConfirmationID string `json:"confirmation_id"`
	TotalPrice     string `json:"total_price"`
	ItemCount      int    `json:"item_count"`
	Message        string `json:"message"`
}

// NewProductList builds the list screen from catalog products.
func NewProductList(products []domain.Product, refreshing bool) ProductListView {
	cards := make([]ProductCard, len(products))
	for i, p := range products {
		cards[i] = ProductCard{
			ID:       p.ID,
			Title:    p.Title,
			Category: p.Category,
			Image:    p.Image,
			Price:    FormatPrice(p.Price),
			Rating:   RatingView(p.Rating),
		}
	}
	return ProductListView{Products: cards, Refreshing: refreshing}
}

// ProductListError builds the list screen shown when loading failed.
func ProductListError(refreshing bool) ProductListView {
	return ProductListView{
		Products:   []ProductCard{},
		Refreshing: refreshing,
		Error:      &ErrorView{Message: MsgLoadProductsFailed, Retryable: true},
	}
}

// NewProductDetail builds the detail screen for p.
func NewProductDetail(p *domain.Product, inCart int) ProductDetailView {
	return ProductDetailView{
		Product: &ProductDetail{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Category:    p.Category,
			Image:       p.Image,
			Price:       FormatPrice(p.Price),
			Rating:      RatingView(p.Rating),
		},
		InCartQuantity: inCart,
	}
}

// ProductDetailError builds the detail screen for a failed load. A missing
// product gets the static not-found view; anything else may be retried.
func ProductDetailError(err error) ProductDetailView {
	if errors.Is(err, apperrors.ErrNotFound) {
		return ProductDetailView{
			NotFound: true,
			Error:    &ErrorView{Message: MsgProductNotFound},
		}
	}
	return ProductDetailView{
		Error: &ErrorView{Message: MsgLoadProductFailed, Retryable: apperrors.IsRetryable(err)},
	}
}

// NewCartView builds the cart screen.
func NewCartView(cart domain.Cart, loadingStorage bool) CartView {
	items := make([]CartItemView, len(cart.Lines))
	for i, line := range cart.Lines {
		items[i] = CartItemView{
			ID:        line.ID,
			Title:     line.Title,
			Image:     line.Image,
			Price:     FormatPrice(line.Price),
			Quantity:  line.Quantity,
			LineTotal: FormatPrice(line.LineTotal()),
		}
	}

	view := CartView{
		Items:          items,
		TotalPrice:     FormatPrice(cart.TotalPrice()),
		ItemCount:      cart.ItemCount(),
		Empty:          len(items) == 0,
		LoadingStorage: loadingStorage,
	}
	if view.Empty {
		view.EmptyMessage = MsgCartEmpty
	}
	return view
}

// NewCheckoutView builds the confirmation dialog for c.
func NewCheckoutView(c *domain.Confirmation) CheckoutView {
	total := FormatPrice(c.TotalPrice)
	return CheckoutView{
		ConfirmationID: c.ID,
		TotalPrice:     total,
		ItemCount:      c.ItemCount,
		Message:        fmt.Sprintf("Total amount: %s\n\n%s", total, msgCheckoutThanks),
	}
}
