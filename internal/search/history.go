package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/utafrali/storefront/internal/kvstore"
)

// loadHistory reads the persisted history, dropping blank and repeated
// entries. Every failure yields an empty history.
func loadHistory(ctx context.Context, store kvstore.Store, logger *slog.Logger) []string {
	if store == nil {
		return []string{}
	}
	raw, ok, err := store.Get(ctx, HistoryKey)
	if err != nil {
		logger.DebugContext(ctx, "search history unavailable", slog.String("error", err.Error()))
		return []string{}
	}
	if !ok || raw == "" {
		return []string{}
	}
	var stored []string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logger.DebugContext(ctx, "search history corrupt, starting empty", slog.String("error", err.Error()))
		return []string{}
	}
	history := make([]string, 0, MaxHistory)
	seen := make(map[string]bool, len(stored))
	for _, t := range stored {
		if strings.TrimSpace(t) == "" || seen[t] {
			continue
		}
		seen[t] = true
		history = append(history, t)
		if len(history) == MaxHistory {
			break
		}
	}
	return history
}

// PushToHistory records term at the front of the history. The term is
// trimmed; an existing identical entry (case-sensitive) moves to the front
// instead of duplicating, and the list is capped at MaxHistory. Blank terms
// are ignored.
func (e *Engine) PushToHistory(ctx context.Context, term string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted {
		return
	}
	e.pushLocked(ctx, term)
}

func (e *Engine) pushLocked(ctx context.Context, term string) {
	t := strings.TrimSpace(term)
	if t == "" {
		return
	}
	next := make([]string, 0, MaxHistory)
	next = append(next, t)
	for _, h := range e.history {
		if h == t {
			continue
		}
		if len(next) == MaxHistory {
			break
		}
		next = append(next, h)
	}
	e.history = next
	e.persistLocked(ctx)
}

// ClearHistory empties the history and removes the persisted copy.
func (e *Engine) ClearHistory(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted {
		return
	}
	e.history = []string{}
	if e.store == nil {
		return
	}
	if err := e.store.Remove(ctx, HistoryKey); err != nil {
		e.logger.DebugContext(ctx, "search history remove failed", slog.String("error", err.Error()))
	}
}

// History returns the history, most recent first.
func (e *Engine) History() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string{}, e.history...)
}

// persistLocked writes the history; write failures are dropped.
func (e *Engine) persistLocked(ctx context.Context) {
	if e.store == nil {
		return
	}
	data, err := json.Marshal(e.history)
	if err != nil {
		return
	}
	if err := e.store.Set(ctx, HistoryKey, string(data)); err != nil {
		e.logger.DebugContext(ctx, "search history write failed", slog.String("error", err.Error()))
	}
}
