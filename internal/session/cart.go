package session

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// MaxCartItems bounds the number of lines in a session cart.
const MaxCartItems = 50

// Cart is an ordered, in-session list of cart lines. Removal and clearing
// can be undone through the returned notice within UndoWindow.
type Cart struct {
	mu       sync.Mutex
	items    []domain.CartItem
	notifier *Notifier
}

// NewCart creates an empty cart reporting through notifier.
func NewCart(notifier *Notifier) *Cart {
	return &Cart{notifier: notifier}
}

// Add appends a line for p.
func (c *Cart) Add(p domain.Product) (domain.CartItem, error) {
	c.mu.Lock()
	if len(c.items) >= MaxCartItems {
		c.mu.Unlock()
		return domain.CartItem{}, apperrors.InvalidInput(fmt.Sprintf("cart must not exceed %d items", MaxCartItems))
	}
	item := domain.NewCartItem(p)
	c.items = append(c.items, item)
	c.mu.Unlock()

	c.notifier.Notify(domain.NoticeSuccess, "", fmt.Sprintf("Added %s to cart", p.Title), NoticeTTL, nil)
	return item, nil
}

// Remove deletes the line at index. Undoing re-appends the removed line.
func (c *Cart) Remove(index int) (domain.Notice, error) {
	c.mu.Lock()
	if index < 0 || index >= len(c.items) {
		c.mu.Unlock()
		return domain.Notice{}, apperrors.NotFound("cart item", strconv.Itoa(index))
	}
	removed := c.items[index]
	c.items = append(c.items[:index:index], c.items[index+1:]...)
	c.mu.Unlock()

	notice, _ := c.notifier.Notify(domain.NoticeUndo, "", fmt.Sprintf("Removed %s", removed.Title), UndoWindow, func() {
		c.mu.Lock()
		c.items = append(c.items, removed)
		c.mu.Unlock()
		c.notifier.Notify(domain.NoticeSuccess, "", fmt.Sprintf("Restored %s", removed.Title), NoticeTTL, nil)
	})
	return notice, nil
}

// Clear empties the cart. Undoing restores the snapshot taken here.
func (c *Cart) Clear() domain.Notice {
	c.mu.Lock()
	snapshot := c.items
	c.items = nil
	c.mu.Unlock()

	notice, _ := c.notifier.Notify(domain.NoticeUndo, "", "Cart cleared", UndoWindow, func() {
		c.mu.Lock()
		c.items = append([]domain.CartItem(nil), snapshot...)
		c.mu.Unlock()
		c.notifier.Notify(domain.NoticeSuccess, "", "Cart restored", NoticeTTL, nil)
	})
	return notice
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.CartItem{}, c.items...)
}

// Count returns the number of lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Total returns the sum of line prices.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, it := range c.items {
		total += it.Price
	}
	return total
}

// Summary returns the cart view.
func (c *Cart) Summary() domain.CartSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := domain.CartSummary{Items: append([]domain.CartItem{}, c.items...), Count: len(c.items)}
	for _, it := range c.items {
		s.Total += it.Price
	}
	return s
}
