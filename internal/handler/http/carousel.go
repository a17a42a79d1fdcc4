package http

import (
	"net/http"

	"github.com/utafrali/storefront/internal/session"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
)

// Carousel interaction types.
const (
	InteractionPointerEnter = "pointer_enter"
	InteractionPointerLeave = "pointer_leave"
	InteractionFocusIn      = "focus_in"
	InteractionFocusOut     = "focus_out"
	InteractionTouchStart   = "touch_start"
	InteractionTouchMove    = "touch_move"
	InteractionTouchEnd     = "touch_end"
	InteractionPause        = "pause"
	InteractionPlay         = "play"
)

// GoToRequest selects a slide.
type GoToRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

// InteractionRequest is a pointer, focus, touch or control interaction with
// the carousel. X is the horizontal touch coordinate.
type InteractionRequest struct {
	Type string   `json:"type" validate:"required,oneof=pointer_enter pointer_leave focus_in focus_out touch_start touch_move touch_end pause play"`
	X    *float64 `json:"x"`
}

// Carousel handles GET /api/v1/sessions/{sessionID}/carousel
func (h *SessionHandler) Carousel(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: s.Carousel.View()})
}

// CarouselNext handles POST /api/v1/sessions/{sessionID}/carousel/next
func (h *SessionHandler) CarouselNext(w http.ResponseWriter, r *http.Request) {
	h.carouselAction(w, r, func(s *session.Session) { s.Carousel.Next() })
}

// CarouselPrev handles POST /api/v1/sessions/{sessionID}/carousel/prev
func (h *SessionHandler) CarouselPrev(w http.ResponseWriter, r *http.Request) {
	h.carouselAction(w, r, func(s *session.Session) { s.Carousel.Prev() })
}

func (h *SessionHandler) carouselAction(w http.ResponseWriter, r *http.Request, act func(*session.Session)) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	act(s)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: s.Carousel.View()})
}

// CarouselGoTo handles POST /api/v1/sessions/{sessionID}/carousel/goto
func (h *SessionHandler) CarouselGoTo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req GoToRequest
	if !decode(w, r, &req, false) {
		return
	}
	if n := s.Carousel.View().Count; *req.Index >= n && n > 0 {
		httputil.WriteError(w, r, apperrors.InvalidInput("index out of range"), h.logger)
		return
	}
	s.Carousel.GoTo(*req.Index)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: s.Carousel.View()})
}

// CarouselInteraction handles POST /api/v1/sessions/{sessionID}/carousel/interaction
func (h *SessionHandler) CarouselInteraction(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req InteractionRequest
	if !decode(w, r, &req, false) {
		return
	}

	c := s.Carousel
	switch req.Type {
	case InteractionPointerEnter:
		c.PointerEnter()
	case InteractionPointerLeave:
		c.PointerLeave()
	case InteractionFocusIn:
		c.FocusIn()
	case InteractionFocusOut:
		c.FocusOut()
	case InteractionTouchStart, InteractionTouchMove:
		if req.X == nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("x is required for touch_start and touch_move"), h.logger)
			return
		}
		if req.Type == InteractionTouchStart {
			c.TouchStart(*req.X)
		} else {
			c.TouchMove(*req.X)
		}
	case InteractionTouchEnd:
		c.TouchEnd()
	case InteractionPause:
		c.Pause()
	case InteractionPlay:
		c.Play()
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: c.View()})
}
