package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/schedule"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const (
	// NoticeTTL is how long informational notices stay visible.
	NoticeTTL = 4 * time.Second
	// UndoWindow is how long an undoable notice can be reverted.
	UndoWindow = 6 * time.Second
)

type activeNotice struct {
	notice domain.Notice
	seq    uint64
	undo   func()
	timer  schedule.Timer
}

// Notifier holds one session's transient notices. Deduplication state lives
// here, per session, never in package globals.
type Notifier struct {
	mu     sync.Mutex
	sched  schedule.Scheduler
	seq    uint64
	active map[string]*activeNotice
	byKey  map[string]string
	issued map[string]bool
	once   map[string]bool
	closed bool
}

// NewNotifier creates an empty notifier.
func NewNotifier(sched schedule.Scheduler) *Notifier {
	return &Notifier{
		sched:  sched,
		active: make(map[string]*activeNotice),
		byKey:  make(map[string]string),
		issued: make(map[string]bool),
		once:   make(map[string]bool),
	}
}

// Notify shows a notice for ttl. When key is non-empty and a notice with the
// same key is still showing, that notice is returned and nothing new is
// created. A non-nil undo makes the notice undoable until it expires.
func (n *Notifier) Notify(kind, key, message string, ttl time.Duration, undo func()) (domain.Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return domain.Notice{}, false
	}
	if key != "" {
		if id, ok := n.byKey[key]; ok {
			return n.active[id].notice, false
		}
	}

	n.seq++
	notice := domain.Notice{
		ID:        uuid.New().String(),
		Key:       key,
		Kind:      kind,
		Message:   message,
		Undoable:  undo != nil,
		ExpiresAt: n.sched.Now().Add(ttl),
	}
	a := &activeNotice{notice: notice, seq: n.seq, undo: undo}
	id := notice.ID
	a.timer = n.sched.After(ttl, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.dropLocked(id)
	})
	n.active[id] = a
	n.issued[id] = true
	if key != "" {
		n.byKey[key] = id
	}
	return notice, true
}

// NotifyOnce shows a notice the first time key is seen in this session and
// reports whether it did.
func (n *Notifier) NotifyOnce(kind, key, message string) bool {
	n.mu.Lock()
	if n.once[key] {
		n.mu.Unlock()
		return false
	}
	n.once[key] = true
	n.mu.Unlock()

	_, shown := n.Notify(kind, key, message, NoticeTTL, nil)
	return shown
}

// Undo runs the undo action of a live notice and dismisses it. Notices that
// expired report ErrGone; unknown ids report ErrNotFound.
func (n *Notifier) Undo(id string) error {
	n.mu.Lock()
	a, ok := n.active[id]
	if !ok {
		issued := n.issued[id]
		n.mu.Unlock()
		if issued {
			return apperrors.Gone("notice", id)
		}
		return apperrors.NotFound("notice", id)
	}
	if a.undo == nil {
		n.mu.Unlock()
		return apperrors.Conflict("notice cannot be undone")
	}
	n.dropLocked(id)
	undo := a.undo
	n.mu.Unlock()

	undo()
	return nil
}

// Dismiss removes a notice early.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dropLocked(id)
}

func (n *Notifier) dropLocked(id string) {
	a, ok := n.active[id]
	if !ok {
		return
	}
	a.timer.Stop()
	delete(n.active, id)
	if a.notice.Key != "" && n.byKey[a.notice.Key] == id {
		delete(n.byKey, a.notice.Key)
	}
}

// Active returns the live notices, oldest first.
func (n *Notifier) Active() []domain.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	list := make([]*activeNotice, 0, len(n.active))
	for _, a := range n.active {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].seq < list[j].seq })
	out := make([]domain.Notice, len(list))
	for i, a := range list {
		out[i] = a.notice
	}
	return out
}

// Close cancels every expiry timer and drops all notices.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for id := range n.active {
		n.dropLocked(id)
	}
}
