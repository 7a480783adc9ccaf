package repository

import (
	"context"

	"github.com/utafrali/EcommerceGo/services/storefront/internal/domain"
)

// CartStorage persists the whole cart as one snapshot in a single slot.
type CartStorage interface {
	// Load returns the saved lines, or an error wrapping
	// apperrors.ErrNotFound when nothing usable is stored.
	Load(ctx context.Context) ([]domain.CartLine, error)
	// Save atomically replaces the stored snapshot with lines.
	Save(ctx context.Context, lines []domain.CartLine) error
}
