package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/EcommerceGo/services/storefront/internal/domain"
	pkgkafka "github.com/utafrali/EcommerceGo/services/storefront/pkg/kafka"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/logger"
)

// TopicCheckoutConfirmed carries simulated checkout confirmations.
const TopicCheckoutConfirmed = "storefront.checkout.confirmed"

// AggregateTypeCheckout is the aggregate type of checkout events.
const AggregateTypeCheckout = "checkout"

// SourceStorefront identifies events originating from the storefront.
const SourceStorefront = "storefront"

// CheckoutConfirmedData is the payload of a checkout.confirmed event.
type CheckoutConfirmedData struct {
	ConfirmationID string         `json:"confirmation_id"`
	Items          []CheckoutItem `json:"items"`
	ItemCount      int            `json:"item_count"`
	TotalPrice     string         `json:"total_price"`
	ConfirmedAt    string         `json:"confirmed_at"`
}

// CheckoutItem is one purchased line within a checkout event.
type CheckoutItem struct {
	ProductID int    `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Publisher sends an event to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes storefront domain events.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates an event producer on top of publisher, usually a
// *pkgkafka.Producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// NewCheckoutConfirmedEvent builds the event envelope for c.
func NewCheckoutConfirmedEvent(c *domain.Confirmation) (*pkgkafka.Event, error) {
	items := make([]CheckoutItem, len(c.Lines))
	for i, line := range c.Lines {
		items[i] = CheckoutItem{
			ProductID: line.ID,
			Title:     line.Title,
			Price:     line.Price.StringFixed(2),
			Quantity:  line.Quantity,
		}
	}

	data := CheckoutConfirmedData{
		ConfirmationID: c.ID,
		Items:          items,
		ItemCount:      c.ItemCount,
		TotalPrice:     c.TotalPrice.StringFixed(2),
		ConfirmedAt:    c.ConfirmedAt.Format(time.RFC3339),
	}

	return pkgkafka.NewEvent(TopicCheckoutConfirmed, c.ID, AggregateTypeCheckout, SourceStorefront, data)
}

// PublishCheckoutConfirmed publishes a checkout.confirmed event.
func (p *Producer) PublishCheckoutConfirmed(ctx context.Context, c *domain.Confirmation) error {
	event, err := NewCheckoutConfirmedEvent(c)
	if err != nil {
		return fmt.Errorf("create checkout.confirmed event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.publisher.Publish(ctx, TopicCheckoutConfirmed, event); err != nil {
		return fmt.Errorf("publish checkout.confirmed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published checkout.confirmed event",
		slog.String("confirmation_id", c.ID),
		slog.Int("item_count", c.ItemCount),
	)

	return nil
}
