package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/kvstore"
)

// WishlistKey is the persistence key of a visitor's wishlist.
const WishlistKey = "vv_wishlist"

// Wishlist is an ordered list of products, unique by id, persisted after
// every change. Persistence is best-effort.
type Wishlist struct {
	mu     sync.Mutex
	items  []domain.Product
	store  kvstore.Store
	cart   *Cart
	logger *slog.Logger
}

// NewWishlist loads the persisted wishlist from store; unreadable values
// yield an empty list.
func NewWishlist(ctx context.Context, store kvstore.Store, cart *Cart, logger *slog.Logger) *Wishlist {
	w := &Wishlist{store: store, cart: cart, logger: logger, items: []domain.Product{}}
	raw, ok, err := store.Get(ctx, WishlistKey)
	if err != nil {
		logger.DebugContext(ctx, "wishlist unavailable", slog.String("error", err.Error()))
		return w
	}
	if !ok || raw == "" {
		return w
	}
	var stored []domain.Product
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logger.DebugContext(ctx, "wishlist corrupt, starting empty", slog.String("error", err.Error()))
		return w
	}
	seen := make(map[string]bool, len(stored))
	for _, p := range stored {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		w.items = append(w.items, p)
	}
	return w
}

// Add appends p unless a product with the same id is already present.
func (w *Wishlist) Add(ctx context.Context, p domain.Product) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p.ID == "" || w.indexLocked(p.ID) >= 0 {
		return false
	}
	w.items = append(w.items, p)
	w.persistLocked(ctx)
	return true
}

// Remove deletes the product with id.
func (w *Wishlist) Remove(ctx context.Context, id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexLocked(id)
	if i < 0 {
		return false
	}
	w.items = append(w.items[:i:i], w.items[i+1:]...)
	w.persistLocked(ctx)
	return true
}

// Toggle adds p when absent and removes it when present. It reports whether
// p is in the wishlist afterwards.
func (w *Wishlist) Toggle(ctx context.Context, p domain.Product) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p.ID == "" {
		return false
	}
	if i := w.indexLocked(p.ID); i >= 0 {
		w.items = append(w.items[:i:i], w.items[i+1:]...)
		w.persistLocked(ctx)
		return false
	}
	w.items = append(w.items, p)
	w.persistLocked(ctx)
	return true
}

// Contains reports whether id is wishlisted.
func (w *Wishlist) Contains(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.indexLocked(id) >= 0
}

// Clear empties the wishlist.
func (w *Wishlist) Clear(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = []domain.Product{}
	w.persistLocked(ctx)
}

// MoveToCart adds p to the cart and removes it from the wishlist. It reports
// false when no cart is attached or the cart rejected the item.
func (w *Wishlist) MoveToCart(ctx context.Context, p domain.Product) bool {
	if w.cart == nil {
		return false
	}
	if _, err := w.cart.Add(p); err != nil {
		return false
	}
	w.Remove(ctx, p.ID)
	return true
}

// Items returns a copy of the wishlist.
func (w *Wishlist) Items() []domain.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.Product{}, w.items...)
}

// Count returns the number of wishlisted products.
func (w *Wishlist) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

func (w *Wishlist) indexLocked(id string) int {
	for i, p := range w.items {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (w *Wishlist) persistLocked(ctx context.Context) {
	data, err := json.Marshal(w.items)
	if err != nil {
		return
	}
	if err := w.store.Set(ctx, WishlistKey, string(data)); err != nil {
		w.logger.DebugContext(ctx, "wishlist write failed", slog.String("error", err.Error()))
	}
}
