package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/EcommerceGo/services/storefront/internal/domain"
	apperrors "github.com/utafrali/EcommerceGo/services/storefront/pkg/errors"
)

const publishTimeout = 5 * time.Second

// CheckoutPublisher announces confirmed checkouts.
type CheckoutPublisher interface {
	PublishCheckoutConfirmed(ctx context.Context, c *domain.Confirmation) error
}

// CheckoutService performs the simulated checkout of the cart.
type CheckoutService struct {
	store     *CartStore
	publisher CheckoutPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewCheckoutService creates a checkout service. A nil publisher disables
// event publishing.
func NewCheckoutService(store *CartStore, publisher CheckoutPublisher, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Checkout confirms the current cart and clears it. The confirmation event is
// published in the background; failures are only logged.
func (s *CheckoutService) Checkout(ctx context.Context) (*domain.Confirmation, error) {
	lines := s.store.drainIfNonEmpty()
	if len(lines) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	cart := domain.Cart{Lines: lines}
	confirmation := &domain.Confirmation{
		ID:          uuid.New().String(),
		Lines:       lines,
		TotalPrice:  cart.TotalPrice(),
		ItemCount:   cart.ItemCount(),
		ConfirmedAt: s.now().UTC(),
	}
	checkouts.Inc()

	s.logger.InfoContext(ctx, "checkout confirmed",
		slog.String("confirmation_id", confirmation.ID),
		slog.Int("item_count", confirmation.ItemCount),
		slog.String("total_price", confirmation.TotalPrice.StringFixed(2)),
	)

	if s.publisher != nil {
		go s.publish(context.WithoutCancel(ctx), confirmation)
	}

	return confirmation, nil
}

func (s *CheckoutService) publish(ctx context.Context, c *domain.Confirmation) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := s.publisher.PublishCheckoutConfirmed(ctx, c); err != nil {
		s.logger.WarnContext(ctx, "failed to publish checkout event",
			slog.String("confirmation_id", c.ID),
			slog.String("error", err.Error()),
		)
	}
}
