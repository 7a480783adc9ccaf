package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utafrali/EcommerceGo/services/storefront/internal/domain"
	"github.com/utafrali/EcommerceGo/services/storefront/internal/repository"
	apperrors "github.com/utafrali/EcommerceGo/services/storefront/pkg/errors"
)

// Phase is the lifecycle stage of a CartStore.
type Phase int32

const (
	// PhaseHydrating is the initial phase while the stored cart is loaded.
	// Mutations apply in memory but are not written.
	PhaseHydrating Phase = iota
	// PhaseReady is entered once hydration finishes and never left.
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseHydrating:
		return "hydrating"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// StoreConfig tunes storage access of a CartStore.
type StoreConfig struct {
	// StorageTimeout bounds the hydration load and each snapshot write.
	StorageTimeout time.Duration
}

// DefaultStoreConfig returns the default store settings.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{StorageTimeout: 3 * time.Second}
}

// CartStore owns the in-memory cart. Every mutation is applied synchronously
// and followed by a fire-and-forget write of the full snapshot.
type CartStore struct {
	storage repository.CartStorage
	logger  *slog.Logger
	cfg     StoreConfig

	mu    sync.RWMutex
	cart  domain.Cart
	phase Phase
	dirty bool   // mutated while hydrating
	seq   uint64 // last snapshot sequence handed out
	ready chan struct{}

	// writeMu serializes Save calls; lastWrite is the newest sequence
	// attempted so far.
	writeMu   sync.Mutex
	lastWrite uint64

	pendingMu sync.Mutex
	pending   int
	idle      chan struct{} // closed while pending == 0
}

// NewCartStore creates the store and starts hydrating it from storage.
func NewCartStore(storage repository.CartStorage, logger *slog.Logger, cfg StoreConfig) *CartStore {
	if cfg.StorageTimeout <= 0 {
		cfg.StorageTimeout = DefaultStoreConfig().StorageTimeout
	}

	idle := make(chan struct{})
	close(idle)

	s := &CartStore{
		storage: storage,
		logger:  logger,
		cfg:     cfg,
		cart:    domain.Cart{Lines: []domain.CartLine{}},
		phase:   PhaseHydrating,
		ready:   make(chan struct{}),
		idle:    idle,
	}
	cartLines.Set(0)

	s.begin()
	go s.hydrate()

	return s
}

func (s *CartStore) hydrate() {
	defer s.end()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.StorageTimeout)
	defer cancel()

	lines, err := s.storage.Load(ctx)
	switch {
	case err == nil:
		cartHydrations.WithLabelValues("loaded").Inc()
	case errors.Is(err, apperrors.ErrNotFound):
		cartHydrations.WithLabelValues("empty").Inc()
	default:
		cartHydrations.WithLabelValues("error").Inc()
		s.logger.Warn("cart hydration failed, starting with current cart",
			slog.String("error", err.Error()),
		)
	}

	s.mu.Lock()
	if err == nil {
		s.cart.Lines = domain.NormalizeLines(lines)
	}
	s.phase = PhaseReady

	// Storage had nothing to restore but the user already changed the
	// cart: converge storage with memory once.
	converge := err != nil && s.dirty
	s.dirty = false
	var (
		seq  uint64
		snap []domain.CartLine
	)
	if converge {
		seq, snap = s.snapshotLocked()
		s.begin()
	}
	cartLines.Set(float64(len(s.cart.Lines)))
	count := len(s.cart.Lines)
	close(s.ready)
	s.mu.Unlock()

	s.logger.Info("cart hydrated",
		slog.Int("lines", count),
		slog.Bool("converge_write", converge),
	)

	if converge {
		go s.write(seq, snap)
	}
}

// AddToCart increments the line for product or appends a new line with
// quantity 1.
func (s *CartStore) AddToCart(product domain.Product) {
	s.mutate(func(c *domain.Cart) {
		if i := c.FindLine(product.ID); i >= 0 {
			c.Lines[i].Quantity++
			return
		}
		c.Lines = append(c.Lines, domain.CartLine{Product: product, Quantity: 1})
	})
}

// RemoveFromCart deletes the line for productID, if any.
func (s *CartStore) RemoveFromCart(productID int) {
	s.mutate(func(c *domain.Cart) {
		if i := c.FindLine(productID); i >= 0 {
			c.Lines = removeLine(c.Lines, i)
		}
	})
}

// IncreaseQuantity adds one unit to the line for productID, if any.
func (s *CartStore) IncreaseQuantity(productID int) {
	s.mutate(func(c *domain.Cart) {
		if i := c.FindLine(productID); i >= 0 {
			c.Lines[i].Quantity++
		}
	})
}

// DecreaseQuantity removes one unit from the line for productID. A line
// reaching zero is removed.
func (s *CartStore) DecreaseQuantity(productID int) {
	s.mutate(func(c *domain.Cart) {
		i := c.FindLine(productID)
		if i < 0 {
			return
		}
		c.Lines[i].Quantity--
		if c.Lines[i].Quantity <= 0 {
			c.Lines = removeLine(c.Lines, i)
		}
	})
}

// ClearCart empties the cart.
func (s *CartStore) ClearCart() {
	s.mutate(func(c *domain.Cart) {
		c.Lines = []domain.CartLine{}
	})
}

// drainIfNonEmpty empties the cart and returns the lines it held. An empty
// cart is left untouched and nothing is written.
func (s *CartStore) drainIfNonEmpty() []domain.CartLine {
	var taken []domain.CartLine
	s.update(func(c *domain.Cart) bool {
		if len(c.Lines) == 0 {
			return false
		}
		taken = c.Lines
		c.Lines = []domain.CartLine{}
		return true
	})
	return taken
}

// TotalPrice returns the sum of price times quantity over all lines.
func (s *CartStore) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.TotalPrice()
}

// CartItems returns a copy of the lines in insertion order.
func (s *CartStore) CartItems() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyLines(s.cart.Lines)
}

// Cart returns a copy of the whole cart.
func (s *CartStore) Cart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Cart{Lines: copyLines(s.cart.Lines)}
}

// ItemCount returns the number of units across all lines.
func (s *CartStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.ItemCount()
}

// Quantity returns the quantity held for productID, or 0.
func (s *CartStore) Quantity(productID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.cart.FindLine(productID); i >= 0 {
		return s.cart.Lines[i].Quantity
	}
	return 0
}

// IsLoadingStorage reports whether hydration is still running.
func (s *CartStore) IsLoadingStorage() bool {
	return s.Phase() == PhaseHydrating
}

// Phase returns the current lifecycle phase.
func (s *CartStore) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Ready returns a channel closed once hydration has finished.
func (s *CartStore) Ready() <-chan struct{} {
	return s.ready
}

// Flush blocks until hydration and every write dispatched so far have
// finished, or ctx is done.
func (s *CartStore) Flush(ctx context.Context) error {
	s.pendingMu.Lock()
	idle := s.idle
	s.pendingMu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// mutate applies fn under the lock, then schedules a snapshot write unless
// the store is still hydrating.
func (s *CartStore) mutate(fn func(c *domain.Cart)) {
	s.update(func(c *domain.Cart) bool {
		fn(c)
		return true
	})
}

// update applies fn under the lock and persists only when fn reports a change.
func (s *CartStore) update(fn func(c *domain.Cart) bool) {
	s.mu.Lock()
	if !fn(&s.cart) {
		s.mu.Unlock()
		return
	}
	cartLines.Set(float64(len(s.cart.Lines)))

	if s.phase == PhaseHydrating {
		s.dirty = true
		s.mu.Unlock()
		return
	}

	seq, snap := s.snapshotLocked()
	s.begin()
	s.mu.Unlock()

	go s.write(seq, snap)
}

// snapshotLocked must be called with mu held.
func (s *CartStore) snapshotLocked() (uint64, []domain.CartLine) {
	s.seq++
	return s.seq, copyLines(s.cart.Lines)
}

func (s *CartStore) write(seq uint64, snap []domain.CartLine) {
	defer s.end()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	// A newer snapshot already reached storage.
	if seq < s.lastWrite {
		cartWrites.WithLabelValues("superseded").Inc()
		return
	}
	s.lastWrite = seq

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.StorageTimeout)
	defer cancel()

	if err := s.storage.Save(ctx, snap); err != nil {
		cartWrites.WithLabelValues("error").Inc()
		s.logger.Error("failed to save cart",
			slog.Uint64("seq", seq),
			slog.Int("lines", len(snap)),
			slog.String("error", err.Error()),
		)
		return
	}

	cartWrites.WithLabelValues("ok").Inc()
	s.logger.Debug("cart saved",
		slog.Uint64("seq", seq),
		slog.Int("lines", len(snap)),
	)
}

func (s *CartStore) begin() {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	if s.pending == 0 {
		s.idle = make(chan struct{})
	}
	s.pending++
}

func (s *CartStore) end() {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	s.pending--
	if s.pending == 0 {
		close(s.idle)
	}
}

func removeLine(lines []domain.CartLine, i int) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines)-1)
	out = append(out, lines[:i]...)
	return append(out, lines[i+1:]...)
}

func copyLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}
