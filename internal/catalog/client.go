package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/EcommerceGo/services/storefront/internal/domain"
	apperrors "github.com/utafrali/EcommerceGo/services/storefront/pkg/errors"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/httpclient"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/tracing"
)

// DefaultBaseURL is the public catalog API.
const DefaultBaseURL = "https://fakestoreapi.com"

const (
	dependency   = "catalog"
	maxBodyBytes = 4 << 20
)

// Client reads products from the remote catalog API.
type Client struct {
	baseURL string
	doer    httpclient.Doer
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewClient creates a catalog client issuing requests through doer.
func NewClient(baseURL string, doer httpclient.Doer, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    doer,
		tracer:  tracing.Tracer("storefront/catalog"),
		logger:  logger,
	}
}

// ListProducts fetches every product in the catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.ListProducts")
	defer span.End()

	body, err := c.get(ctx, span, "/products")
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, c.fail(ctx, span, fmt.Errorf("decode product list: %w", err))
	}
	if products == nil {
		products = []domain.Product{}
	}

	span.SetAttributes(attribute.Int("catalog.product_count", len(products)))
	return products, nil
}

// GetProduct fetches one product. A successful response without a product
// is reported as not found.
func (c *Client) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.GetProduct",
		trace.WithAttributes(attribute.Int("catalog.product_id", id)),
	)
	defer span.End()

	body, err := c.get(ctx, span, "/products/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		span.SetAttributes(attribute.Bool("catalog.not_found", true))
		return nil, apperrors.NotFound("product", strconv.Itoa(id))
	}

	var product domain.Product
	if err := json.Unmarshal(trimmed, &product); err != nil {
		return nil, c.fail(ctx, span, fmt.Errorf("decode product %d: %w", id, err))
	}
	if product.ID == 0 {
		span.SetAttributes(attribute.Bool("catalog.not_found", true))
		return nil, apperrors.NotFound("product", strconv.Itoa(id))
	}

	return &product, nil
}

// get issues a GET for path and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, span trace.Span, path string) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, c.fail(ctx, span, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, c.fail(ctx, span, fmt.Errorf("GET %s: %w", path, err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, c.fail(ctx, span, fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.fail(ctx, span, fmt.Errorf("read %s: %w", path, err))
	}

	return body, nil
}

func (c *Client) fail(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.WarnContext(ctx, "catalog request failed", slog.String("error", err.Error()))
	return apperrors.Network(dependency, err)
}
