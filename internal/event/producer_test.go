package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/EcommerceGo/services/storefront/internal/domain"
	pkgkafka "github.com/utafrali/EcommerceGo/services/storefront/pkg/kafka"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/logger"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

func sampleConfirmation() *domain.Confirmation {
	return &domain.Confirmation{
		ID: "c0ffee00-0000-4000-8000-000000000001",
		Lines: []domain.CartLine{
			{Product: domain.Product{ID: 1, Title: "Backpack", Price: decimal.RequireFromString("109.95")}, Quantity: 2},
		},
		TotalPrice:  decimal.RequireFromString("219.90"),
		ItemCount:   2,
		ConfirmedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewCheckoutConfirmedEvent(t *testing.T) {
	event, err := NewCheckoutConfirmedEvent(sampleConfirmation())
	require.NoError(t, err)

	assert.Equal(t, TopicCheckoutConfirmed, event.EventType)
	assert.Equal(t, AggregateTypeCheckout, event.AggregateType)
	assert.Equal(t, SourceStorefront, event.Source)

	var data CheckoutConfirmedData
	require.NoError(t, event.UnmarshalData(&data))
	assert.Equal(t, "219.90", data.TotalPrice)
	assert.Equal(t, "2026-03-01T12:00:00Z", data.ConfirmedAt)
	require.Len(t, data.Items, 1)
	assert.Equal(t, CheckoutItem{ProductID: 1, Title: "Backpack", Price: "109.95", Quantity: 2}, data.Items[0])
}

func TestPublishCheckoutConfirmed(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, TopicCheckoutConfirmed, mock.MatchedBy(func(e *pkgkafka.Event) bool {
		return e.AggregateID == sampleConfirmation().ID
	})).Return(nil)

	p := NewProducer(pub, logger.Discard())
	require.NoError(t, p.PublishCheckoutConfirmed(context.Background(), sampleConfirmation()))
	pub.AssertExpectations(t)
}

func TestPublishCheckoutConfirmed_CarriesCorrelationID(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, TopicCheckoutConfirmed, mock.MatchedBy(func(e *pkgkafka.Event) bool {
		return e.CorrelationID == "req-42"
	})).Return(nil)

	ctx := logger.WithCorrelationID(context.Background(), "req-42")
	p := NewProducer(pub, logger.Discard())
	require.NoError(t, p.PublishCheckoutConfirmed(ctx, sampleConfirmation()))
	pub.AssertExpectations(t)
}

func TestPublishCheckoutConfirmed_Error(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, TopicCheckoutConfirmed, mock.Anything).Return(errors.New("broker down"))

	p := NewProducer(pub, logger.Discard())
	err := p.PublishCheckoutConfirmed(context.Background(), sampleConfirmation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}
