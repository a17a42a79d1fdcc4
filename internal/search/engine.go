// Package search implements the header search box: debounced suggestions over
// the catalog, the suggestion dropdown, and a persisted most-recent-first
// search history.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/input"
	"github.com/utafrali/storefront/internal/kvstore"
	"github.com/utafrali/storefront/internal/schedule"
)

const (
	DebounceDelay  = 180 * time.Millisecond
	MaxSuggestions = 6
	MaxHistory     = 8
	FeaturedCount  = 6
	HistoryKey     = "vv_search_history_v1"
)

var (
	suggestionsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_search_suggestions_computed_total",
		Help: "Total number of debounced suggestion computations",
	})
	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_search_navigations_total",
		Help: "Total number of search navigations by origin",
	}, []string{"origin"})
)

// Navigator receives the engine's navigation requests.
type Navigator interface {
	Navigate(ctx context.Context, dest domain.Destination) error
}

// Deps are the collaborators of an Engine.
type Deps struct {
	Scheduler schedule.Scheduler
	Catalog   catalog.Provider
	Store     kvstore.Store
	Navigator Navigator
	Bus       *input.Bus
	Logger    *slog.Logger
}

// Engine is one mounted search box. All methods are safe for concurrent use.
type Engine struct {
	mu     sync.Mutex
	sched  schedule.Scheduler
	cat    catalog.Provider
	store  kvstore.Store
	nav    Navigator
	logger *slog.Logger
	subs   input.Group

	mounted     bool
	query       string
	suggestions []domain.Product
	// computed is the trimmed query the current suggestions belong to.
	computed string
	open     bool
	history  []string

	debounce schedule.Slot
	gen      uint64
}

// New mounts an engine. The persisted history is read once here; a missing
// or unreadable value yields an empty history. Outside clicks and Escape on
// deps.Bus close the dropdown until Close is called.
func New(ctx context.Context, deps Deps) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		sched:   deps.Scheduler,
		cat:     deps.Catalog,
		store:   deps.Store,
		nav:     deps.Navigator,
		logger:  logger,
		mounted: true,
	}
	e.history = loadHistory(ctx, e.store, logger)

	if deps.Bus != nil {
		e.subs.Add(deps.Bus.Subscribe(input.Click, e.onClick))
		e.subs.Add(deps.Bus.Subscribe(input.KeyDown, e.onKey))
	}
	return e
}

// Close unmounts the engine, cancelling a pending debounce and releasing its
// listeners.
func (e *Engine) Close() {
	e.mu.Lock()
	e.mounted = false
	e.gen++
	e.debounce.Cancel()
	e.mu.Unlock()

	e.subs.Close()
}

// SetQuery updates the live query. A blank query clears the suggestions at
// once and cancels any pending computation; otherwise the computation is
// (re)scheduled DebounceDelay after this call, so only the latest keystroke is
// ever applied.
func (e *Engine) SetQuery(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted {
		return
	}
	e.query = text
	e.gen++
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		e.debounce.Cancel()
		e.suggestions = nil
		e.computed = ""
		return
	}

	gen := e.gen
	e.debounce.Arm(e.sched.After(DebounceDelay, func() {
		found := e.match(needle)

		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.mounted || gen != e.gen {
			return
		}
		e.debounce.Clear()
		e.suggestions = found
		e.computed = needle
		if len(found) > 0 {
			e.open = true
		}
		suggestionsComputed.Inc()
	}))
}

// match returns the first MaxSuggestions catalog products whose title,
// category, or SKU contains needle.
func (e *Engine) match(needle string) []domain.Product {
	out := make([]domain.Product, 0, MaxSuggestions)
	for _, p := range e.cat.Products() {
		if p.MatchesSuggestion(needle) {
			out = append(out, p)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}

// Query returns the live query string.
func (e *Engine) Query() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query
}

// Suggestions returns the current suggestion list.
func (e *Engine) Suggestions() []domain.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Product(nil), e.suggestions...)
}

// Focus opens the dropdown.
func (e *Engine) Focus() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mounted {
		e.open = true
	}
}

// Dismiss closes the dropdown.
func (e *Engine) Dismiss() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = false
}

// IsOpen reports whether the dropdown is showing.
func (e *Engine) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

func (e *Engine) onClick(ev input.Event) {
	if ev.Target != input.TargetSearch {
		e.Dismiss()
	}
}

func (e *Engine) onKey(ev input.Event) {
	if ev.Key == input.KeyEscape {
		e.Dismiss()
	}
}

// Submit records term and navigates to its results. A blank term is a no-op;
// Submit reports whether a navigation happened.
func (e *Engine) Submit(ctx context.Context, term string) bool {
	t := strings.TrimSpace(term)
	if t == "" {
		return false
	}
	if !e.recordAndClose(ctx, t) {
		return false
	}
	e.navigate(ctx, domain.Results(t), "submit")
	return true
}

// SubmitQuery submits the live query.
func (e *Engine) SubmitQuery(ctx context.Context) bool {
	return e.Submit(ctx, e.Query())
}

// Select records the product title and navigates to the product page.
func (e *Engine) Select(ctx context.Context, p domain.Product) bool {
	if p.ID == "" {
		return false
	}
	if !e.recordAndClose(ctx, p.Title) {
		return false
	}
	e.navigate(ctx, domain.ProductDetail(p.ID), "select_product")
	return true
}

// SelectTerm records a history term and navigates to its results.
func (e *Engine) SelectTerm(ctx context.Context, term string) bool {
	t := strings.TrimSpace(term)
	if t == "" {
		return false
	}
	if !e.recordAndClose(ctx, t) {
		return false
	}
	e.navigate(ctx, domain.Results(t), "select_term")
	return true
}

func (e *Engine) recordAndClose(ctx context.Context, term string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted {
		return false
	}
	e.pushLocked(ctx, term)
	e.open = false
	return true
}

// navigate runs outside the engine lock; failures are logged and dropped.
func (e *Engine) navigate(ctx context.Context, dest domain.Destination, origin string) {
	submissions.WithLabelValues(origin).Inc()
	if e.nav == nil {
		return
	}
	if err := e.nav.Navigate(ctx, dest); err != nil {
		e.logger.WarnContext(ctx, "navigation failed",
			slog.String("destination", dest.Path()),
			slog.String("error", err.Error()),
		)
	}
}
