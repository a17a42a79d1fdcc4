package session

import (
	"context"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/schedule"
)

// Publisher forwards navigations to an analytics sink.
type Publisher interface {
	PublishNavigation(ctx context.Context, nav Navigation) error
}

// Navigation is a recorded navigation of one session.
type Navigation struct {
	SessionID   string             `json:"session_id"`
	VisitorID   string             `json:"visitor_id"`
	Destination domain.Destination `json:"destination"`
	Path        string             `json:"path"`
	At          time.Time          `json:"at"`
}

// Navigator records the session's current location and forwards each
// navigation to the publisher, if any.
type Navigator struct {
	mu        sync.Mutex
	sessionID string
	visitorID string
	sched     schedule.Scheduler
	publisher Publisher
	current   *Navigation
}

// NewNavigator creates a navigator for one session. publisher may be nil.
func NewNavigator(sessionID, visitorID string, sched schedule.Scheduler, publisher Publisher) *Navigator {
	return &Navigator{
		sessionID: sessionID,
		visitorID: visitorID,
		sched:     sched,
		publisher: publisher,
	}
}

// Navigate moves the session to dest. The location is updated even when
// publishing fails; the publish error is returned for the caller to log.
func (n *Navigator) Navigate(ctx context.Context, dest domain.Destination) error {
	nav := Navigation{
		SessionID:   n.sessionID,
		VisitorID:   n.visitorID,
		Destination: dest,
		Path:        dest.Path(),
		At:          n.sched.Now(),
	}
	n.mu.Lock()
	n.current = &nav
	n.mu.Unlock()

	if n.publisher == nil {
		return nil
	}
	return n.publisher.PublishNavigation(ctx, nav)
}

// Location returns the last navigation, if any.
func (n *Navigator) Location() (Navigation, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Navigation{}, false
	}
	return *n.current, true
}
