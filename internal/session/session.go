// Package session holds per-visitor storefront state: the mounted carousel
// and search box, the cart, the wishlist and transient notices.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/carousel"
	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/input"
	"github.com/utafrali/storefront/internal/kvstore"
	"github.com/utafrali/storefront/internal/schedule"
	"github.com/utafrali/storefront/internal/search"
)

// Catalog is the catalog a session browses.
type Catalog interface {
	catalog.Provider
	Slides() []domain.Slide
}

// Session is one visitor's mounted storefront.
type Session struct {
	ID        string
	VisitorID string
	CreatedAt time.Time

	Bus       *input.Bus
	Carousel  *carousel.Controller
	Search    *search.Engine
	Cart      *Cart
	Wishlist  *Wishlist
	Notifier  *Notifier
	Navigator *Navigator

	mu       sync.Mutex
	lastSeen time.Time
	closed   bool
}

type mountParams struct {
	id            string
	visitorID     string
	sched         schedule.Scheduler
	catalog       Catalog
	store         kvstore.Store
	publisher     Publisher
	interval      time.Duration
	reducedMotion bool
	logger        *slog.Logger
}

func mount(ctx context.Context, p mountParams) *Session {
	now := p.sched.Now()
	logger := p.logger.With(slog.String("session_id", p.id))

	s := &Session{
		ID:        p.id,
		VisitorID: p.visitorID,
		CreatedAt: now,
		Bus:       input.NewBus(),
		lastSeen:  now,
	}
	s.Notifier = NewNotifier(p.sched)
	s.Navigator = NewNavigator(p.id, p.visitorID, p.sched, p.publisher)
	s.Cart = NewCart(s.Notifier)
	s.Wishlist = NewWishlist(ctx, p.store, s.Cart, logger)
	s.Carousel = carousel.New(p.sched, s.Bus, carousel.Config{
		Slides:        p.catalog.Slides(),
		Interval:      p.interval,
		ReducedMotion: p.reducedMotion,
	})
	s.Search = search.New(ctx, search.Deps{
		Scheduler: p.sched,
		Catalog:   p.catalog,
		Store:     p.store,
		Navigator: s.Navigator,
		Bus:       s.Bus,
		Logger:    logger,
	})
	return s
}

// Touch records activity at t.
func (s *Session) Touch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = t
}

// LastSeen returns the time of the latest activity.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close unmounts every component. Later calls are no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.Carousel.Close()
	s.Search.Close()
	s.Notifier.Close()
}
