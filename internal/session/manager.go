package session

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/storefront/internal/kvstore"
	"github.com/utafrali/storefront/internal/schedule"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_sessions_active",
		Help: "Number of mounted storefront sessions",
	})
	sessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_sessions_expired_total",
		Help: "Total number of sessions closed for inactivity",
	})
)

var visitorIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Config controls session lifetime.
type Config struct {
	IdleTTL          time.Duration
	SweepInterval    time.Duration
	MaxSessions      int
	CarouselInterval time.Duration
}

// DefaultConfig returns the default session settings.
func DefaultConfig() Config {
	return Config{
		IdleTTL:       30 * time.Minute,
		SweepInterval: time.Minute,
		MaxSessions:   1000,
	}
}

// Options are the per-session mount options.
type Options struct {
	VisitorID     string
	ReducedMotion bool
}

// Manager owns the mounted sessions and closes idle ones.
type Manager struct {
	mu        sync.Mutex
	cfg       Config
	sched     schedule.Scheduler
	catalog   Catalog
	store     kvstore.Store
	publisher Publisher
	logger    *slog.Logger

	sessions map[string]*Session
	sweeper  schedule.Timer
	closed   bool
}

// NewManager creates a manager and starts the idle sweep. publisher may be
// nil.
func NewManager(cfg Config, sched schedule.Scheduler, cat Catalog, store kvstore.Store, publisher Publisher, logger *slog.Logger) *Manager {
	def := DefaultConfig()
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = def.IdleTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = def.SweepInterval
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = def.MaxSessions
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		cfg:       cfg,
		sched:     sched,
		catalog:   cat,
		store:     store,
		publisher: publisher,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
	m.sweeper = sched.Every(cfg.SweepInterval, m.Sweep)
	return m
}

// Create mounts a new session. A blank visitor id is replaced with a fresh
// one; persisted state is namespaced by visitor.
func (m *Manager) Create(ctx context.Context, opts Options) (*Session, error) {
	visitorID := opts.VisitorID
	if visitorID == "" {
		visitorID = uuid.New().String()
	} else if !visitorIDPattern.MatchString(visitorID) {
		return nil, apperrors.InvalidInput("visitor_id must be 1-64 characters of letters, digits, '-' or '_'")
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, apperrors.Unavailable("session manager is shutting down")
	}
	if len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		return nil, apperrors.Unavailable(fmt.Sprintf("session limit of %d reached", m.cfg.MaxSessions))
	}
	m.mu.Unlock()

	s := mount(ctx, mountParams{
		id:            uuid.New().String(),
		visitorID:     visitorID,
		sched:         m.sched,
		catalog:       m.catalog,
		store:         kvstore.WithPrefix(m.store, "visitor:"+visitorID+":"),
		publisher:     m.publisher,
		interval:      m.cfg.CarouselInterval,
		reducedMotion: opts.ReducedMotion,
		logger:        m.logger,
	})

	m.mu.Lock()
	if m.closed || len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		s.Close()
		return nil, apperrors.Unavailable("session limit reached")
	}
	m.sessions[s.ID] = s
	activeSessions.Inc()
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "session created",
		slog.String("session_id", s.ID),
		slog.String("visitor_id", visitorID),
	)
	return s, nil
}

// Get returns a mounted session and records activity on it.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, apperrors.NotFound("session", id)
	}
	s.Touch(m.sched.Now())
	return s, nil
}

// Close unmounts and forgets a session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		activeSessions.Dec()
	}
	m.mu.Unlock()
	if !ok {
		return apperrors.NotFound("session", id)
	}
	s.Close()
	return nil
}

// Sweep closes sessions idle for longer than the configured TTL.
func (m *Manager) Sweep() {
	cutoff := m.sched.Now().Add(-m.cfg.IdleTTL)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
			activeSessions.Dec()
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
		sessionsExpired.Inc()
	}
	if len(expired) > 0 {
		m.logger.Info("idle sessions closed", slog.Int("count", len(expired)))
	}
}

// Len returns the number of mounted sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// IDs returns the mounted session ids in lexical order.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Shutdown stops the sweep and closes every session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.sweeper.Stop()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	activeSessions.Sub(float64(len(sessions)))
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
