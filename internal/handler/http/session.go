package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/carousel"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/input"
	"github.com/utafrali/storefront/internal/session"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/validator"
)

// SessionHandler serves the per-session storefront endpoints.
type SessionHandler struct {
	sessions *session.Manager
	catalog  Catalog
	logger   *slog.Logger
}

// NewSessionHandler creates a new session HTTP handler.
func NewSessionHandler(sessions *session.Manager, cat Catalog, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		catalog:  cat,
		logger:   logger,
	}
}

// --- Request DTOs ---

// CreateSessionRequest is the JSON request body for mounting a session.
type CreateSessionRequest struct {
	VisitorID     string `json:"visitor_id" validate:"omitempty,visitorid"`
	ReducedMotion bool   `json:"reduced_motion"`
}

// EventRequest is a raw input event routed to the session's listeners.
type EventRequest struct {
	Kind   string `json:"kind" validate:"required,oneof=keydown click visibilitychange"`
	Key    string `json:"key" validate:"max=32"`
	Target string `json:"target" validate:"max=64"`
	Hidden bool   `json:"hidden"`
}

// --- Response DTOs ---

// SessionResponse describes a mounted session.
type SessionResponse struct {
	ID            string        `json:"id"`
	VisitorID     string        `json:"visitor_id"`
	CreatedAt     time.Time     `json:"created_at"`
	Carousel      carousel.View `json:"carousel"`
	CartCount     int           `json:"cart_count"`
	WishlistCount int           `json:"wishlist_count"`
}

// EventResponse reports how many listeners received an event.
type EventResponse struct {
	Delivered int `json:"delivered"`
}

// LocationResponse is the session's current navigation target.
type LocationResponse struct {
	Path        string              `json:"path"`
	Destination *domain.Destination `json:"destination,omitempty"`
	At          *time.Time          `json:"at,omitempty"`
}

func newSessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		ID:            s.ID,
		VisitorID:     s.VisitorID,
		CreatedAt:     s.CreatedAt,
		Carousel:      s.Carousel.View(),
		CartCount:     s.Cart.Count(),
		WishlistCount: s.Wishlist.Count(),
	}
}

// --- Helpers ---

// session resolves the {sessionID} path parameter, writing the error
// response when the session does not exist.
func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "sessionID"))
	if !ok {
		return nil, false
	}
	s, err := h.sessions.Get(id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return nil, false
	}
	return s, true
}

// product resolves a catalog product, writing a 404 when it is unknown.
func (h *SessionHandler) product(w http.ResponseWriter, r *http.Request, id string) (domain.Product, bool) {
	p, ok := h.catalog.Get(id)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", id), h.logger)
		return domain.Product{}, false
	}
	return p, true
}

// decode reads and validates a JSON body. An empty body decodes to the zero
// value when allowEmpty is set.
func decode(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	if !(allowEmpty && r.ContentLength == 0) {
		if !httputil.DecodeJSON(w, r, dst, maxBodyBytes) {
			return false
		}
	}
	if err := validator.Validate(dst); err != nil {
		httputil.WriteValidationError(w, err)
		return false
	}
	return true
}

// --- Handlers ---

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decode(w, r, &req, true) {
		return
	}
	if req.VisitorID == "" {
		req.VisitorID = middleware.VisitorIDFromContext(r.Context())
	}

	s, err := h.sessions.Create(r.Context(), session.Options{
		VisitorID:     req.VisitorID,
		ReducedMotion: req.ReducedMotion,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: newSessionResponse(s)})
}

// Get handles GET /api/v1/sessions/{sessionID}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newSessionResponse(s)})
}

// Close handles DELETE /api/v1/sessions/{sessionID}
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "sessionID"))
	if !ok {
		return
	}
	if err := h.sessions.Close(id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DispatchEvent handles POST /api/v1/sessions/{sessionID}/events
func (h *SessionHandler) DispatchEvent(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req EventRequest
	if !decode(w, r, &req, false) {
		return
	}

	n := s.Bus.Dispatch(input.Event{
		Kind:   input.Kind(req.Kind),
		Key:    req.Key,
		Target: strings.TrimSpace(req.Target),
		Hidden: req.Hidden,
	})
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: EventResponse{Delivered: n}})
}

// Location handles GET /api/v1/sessions/{sessionID}/location
func (h *SessionHandler) Location(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: locationOf(s)})
}

func locationOf(s *session.Session) LocationResponse {
	nav, ok := s.Navigator.Location()
	if !ok {
		return LocationResponse{Path: "/"}
	}
	return LocationResponse{Path: nav.Path, Destination: &nav.Destination, At: &nav.At}
}
