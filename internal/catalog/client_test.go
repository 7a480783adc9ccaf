package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/EcommerceGo/services/storefront/pkg/errors"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/httpclient"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/logger"
)

const productJSON = `{"id":1,"title":"Fjallraven Backpack","price":109.95,"description":"Your perfect pack","category":"men's clothing","image":"https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg","rating":{"rate":3.9,"count":120}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.Timeout = 2 * time.Second
	cfg.MaxRetries = 0
	return NewClient(srv.URL+"/", httpclient.New(cfg), logger.Discard())
}

func TestListProducts_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[" + productJSON + "]"))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, "Fjallraven Backpack", products[0].Title)
	assert.Equal(t, "109.95", products[0].Price.StringFixed(2))
	assert.Equal(t, 120, products[0].Rating.Count)
}

func TestListProducts_EmptyCatalog(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestListProducts_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.ListProducts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNetwork))
	assert.True(t, apperrors.IsRetryable(err))
	assert.Equal(t, http.StatusBadGateway, apperrors.HTTPStatus(err))
}

func TestListProducts_ClientError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.ListProducts(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrNetwork))
}

func TestListProducts_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	})

	_, err := client.ListProducts(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrNetwork))
}

func TestListProducts_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	client := NewClient(srv.URL, httpclient.New(cfg), logger.Discard())

	_, err := client.ListProducts(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrNetwork))
}

func TestGetProduct_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/1", r.URL.Path)
		_, _ = w.Write([]byte(productJSON))
	})

	product, err := client.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, product.ID)
	assert.Equal(t, "Your perfect pack", product.Description)
}

func TestGetProduct_EmptyBodyIsNotFound(t *testing.T) {
	for name, body := range map[string]string{
		"empty":   "",
		"null":    "null",
		"no id":   "{}",
		"spacing": "  \n",
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := client.GetProduct(context.Background(), 999)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrNotFound))
			assert.False(t, apperrors.IsRetryable(err))
		})
	}
}

func TestGetProduct_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetProduct(context.Background(), 1)
	assert.True(t, errors.Is(err, apperrors.ErrNetwork))
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestGetProduct_ThroughCircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cbCfg := httpclient.DefaultCircuitBreakerConfig("catalog-test")
	cbCfg.MinRequests = 2
	cbCfg.FailureRatio = 0.5
	cbCfg.Timeout = time.Minute
	doer := httpclient.NewCircuitBreakerClient(httpclient.New(cfg), cbCfg, logger.Discard())
	client := NewClient(srv.URL, doer, logger.Discard())

	for i := 0; i < 4; i++ {
		_, err := client.GetProduct(context.Background(), 1)
		assert.True(t, errors.Is(err, apperrors.ErrNetwork))
	}
	// The breaker opened after two failures and short-circuited the rest.
	assert.Equal(t, int32(2), calls.Load())
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client := NewClient("", httpclient.New(httpclient.DefaultConfig()), logger.Discard())
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
