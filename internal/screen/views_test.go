package screen

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/EcommerceGo/services/storefront/internal/domain"
	apperrors "github.com/utafrali/EcommerceGo/services/storefront/pkg/errors"
)

func testProduct() domain.Product {
	return domain.Product{
		ID:          2,
		Title:       "Slim Fit T-Shirt",
		Price:       decimal.RequireFromString("22.3"),
		Description: "Slim-fitting style",
		Category:    "men's clothing",
		Image:       "https://example.com/2.jpg",
		Rating:      domain.Rating{Rate: 4.1, Count: 259},
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$22.30", FormatPrice(decimal.RequireFromString("22.3")))
	assert.Equal(t, "$0.00", FormatPrice(decimal.Zero))
	assert.Equal(t, "$1000.00", FormatPrice(decimal.NewFromInt(1000)))
}

func TestNewProductList(t *testing.T) {
	view := NewProductList([]domain.Product{testProduct()}, true)

	require.Len(t, view.Products, 1)
	assert.True(t, view.Refreshing)
	assert.Nil(t, view.Error)
	assert.Equal(t, ProductCard{
		ID:       2,
		Title:    "Slim Fit T-Shirt",
		Category: "men's clothing",
		Image:    "https://example.com/2.jpg",
		Price:    "$22.30",
		Rating:   RatingView{Rate: 4.1, Count: 259},
	}, view.Products[0])
}

func TestProductListError(t *testing.T) {
	view := ProductListError(false)

	assert.NotNil(t, view.Products)
	require.NotNil(t, view.Error)
	assert.Equal(t, "Failed to load products. Please try again.", view.Error.Message)
	assert.True(t, view.Error.Retryable)
}

func TestNewProductDetail(t *testing.T) {
	p := testProduct()
	view := NewProductDetail(&p, 3)

	require.NotNil(t, view.Product)
	assert.Equal(t, "Slim-fitting style", view.Product.Description)
	assert.Equal(t, "$22.30", view.Product.Price)
	assert.Equal(t, 3, view.InCartQuantity)
	assert.False(t, view.NotFound)
}

func TestProductDetailError(t *testing.T) {
	notFound := ProductDetailError(apperrors.NotFound("product", "9"))
	assert.True(t, notFound.NotFound)
	assert.Equal(t, "Product not found", notFound.Error.Message)
	assert.False(t, notFound.Error.Retryable)

	network := ProductDetailError(apperrors.Network("catalog", errors.New("timeout")))
	assert.False(t, network.NotFound)
	assert.True(t, network.Error.Retryable)
}

func TestNewCartView(t *testing.T) {
	cart := domain.Cart{Lines: []domain.CartLine{
		{Product: testProduct(), Quantity: 2},
		{Product: domain.Product{ID: 7, Title: "Ring", Price: decimal.RequireFromString("9.99")}, Quantity: 1},
	}}

	view := NewCartView(cart, false)

	require.Len(t, view.Items, 2)
	assert.Equal(t, "$44.60", view.Items[0].LineTotal)
	assert.Equal(t, "$9.99", view.Items[1].Price)
	assert.Equal(t, "$54.59", view.TotalPrice)
	assert.Equal(t, 3, view.ItemCount)
	assert.False(t, view.Empty)
	assert.Empty(t, view.EmptyMessage)
}

func TestNewCartView_Empty(t *testing.T) {
	view := NewCartView(domain.Cart{}, true)

	assert.NotNil(t, view.Items)
	assert.True(t, view.Empty)
	assert.True(t, view.LoadingStorage)
	assert.Equal(t, "$0.00", view.TotalPrice)
	assert.Equal(t, MsgCartEmpty, view.EmptyMessage)
}

func TestNewCheckoutView(t *testing.T) {
	view := NewCheckoutView(&domain.Confirmation{
		ID:         "abc",
		TotalPrice: decimal.RequireFromString("20"),
		ItemCount:  2,
	})

	assert.Equal(t, "abc", view.ConfirmationID)
	assert.Equal(t, "$20.00", view.TotalPrice)
	assert.Equal(t, "Total amount: $20.00\n\nThank you for your purchase!", view.Message)
}
