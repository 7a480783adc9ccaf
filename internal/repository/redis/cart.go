package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/EcommerceGo/services/storefront/internal/domain"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/database"
	apperrors "github.com/utafrali/EcommerceGo/services/storefront/pkg/errors"
)

// DefaultKey is the slot the cart snapshot is stored under.
const DefaultKey = "storefront:cart"

// CartStorage implements repository.CartStorage on a single Redis key.
type CartStorage struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

// NewCartStorage creates a Redis-backed cart storage. A zero ttl stores the
// snapshot without expiry.
func NewCartStorage(client redis.UniversalClient, key string, ttl time.Duration, logger *slog.Logger) *CartStorage {
	if key == "" {
		key = DefaultKey
	}
	return &CartStorage{
		client: client,
		key:    key,
		ttl:    ttl,
		logger: logger,
	}
}

// Key returns the Redis key used for the snapshot.
func (s *CartStorage) Key() string {
	return s.key
}

// Load reads the snapshot. An absent key or content that does not decode as
// a list of cart lines is reported as not found.
func (s *CartStorage) Load(ctx context.Context) ([]domain.CartLine, error) {
	var cmdErr error
	ctx, end := database.TraceQuery(ctx, "cart.Load", "GET "+s.key)
	defer func() { end(cmdErr) }()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("cart", s.key)
		}
		cmdErr = err
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		s.logger.WarnContext(ctx, "discarding malformed cart snapshot",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.NotFound("cart", s.key)
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}

	return lines, nil
}

// Save overwrites the snapshot with lines.
func (s *CartStorage) Save(ctx context.Context, lines []domain.CartLine) (err error) {
	ctx, end := database.TraceQuery(ctx, "cart.Save", "SET "+s.key)
	defer func() { end(err) }()

	if lines == nil {
		lines = []domain.CartLine{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Ping checks the Redis connection.
func (s *CartStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
