package http

import (
	"net/http"

	"github.com/utafrali/storefront/internal/search"
	"github.com/utafrali/storefront/pkg/httputil"
)

// SetQueryRequest updates the live search query.
type SetQueryRequest struct {
	Query string `json:"query" validate:"max=200"`
}

// SubmitRequest submits a search term. A blank term submits the live query.
type SubmitRequest struct {
	Term string `json:"term" validate:"max=200"`
}

// SelectRequest selects either a suggested product or a history term.
type SelectRequest struct {
	ProductID string `json:"product_id" validate:"required_without=Term,excluded_with=Term"`
	Term      string `json:"term" validate:"max=200"`
}

// NavigationResponse reports whether an action navigated and where the
// session is now.
type NavigationResponse struct {
	Navigated bool             `json:"navigated"`
	Location  LocationResponse `json:"location"`
}

// HistoryResponse lists recent search terms, most recent first.
type HistoryResponse struct {
	Terms []string `json:"terms"`
}

// SetQuery handles PUT /api/v1/sessions/{sessionID}/search/query
func (h *SessionHandler) SetQuery(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req SetQueryRequest
	if !decode(w, r, &req, false) {
		return
	}
	s.Search.SetQuery(req.Query)
	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: s.Search.Dropdown()})
}

// Dropdown handles GET /api/v1/sessions/{sessionID}/search/dropdown
func (h *SessionHandler) Dropdown(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: s.Search.Dropdown()})
}

// Focus handles POST /api/v1/sessions/{sessionID}/search/focus
func (h *SessionHandler) Focus(w http.ResponseWriter, r *http.Request) {
	h.searchAction(w, r, (*search.Engine).Focus)
}

// Dismiss handles POST /api/v1/sessions/{sessionID}/search/dismiss
func (h *SessionHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.searchAction(w, r, (*search.Engine).Dismiss)
}

func (h *SessionHandler) searchAction(w http.ResponseWriter, r *http.Request, act func(*search.Engine)) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	act(s.Search)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: s.Search.Dropdown()})
}

// Submit handles POST /api/v1/sessions/{sessionID}/search/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req SubmitRequest
	if !decode(w, r, &req, true) {
		return
	}

	var navigated bool
	if req.Term == "" {
		navigated = s.Search.SubmitQuery(r.Context())
	} else {
		navigated = s.Search.Submit(r.Context(), req.Term)
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: NavigationResponse{Navigated: navigated, Location: locationOf(s)},
	})
}

// Select handles POST /api/v1/sessions/{sessionID}/search/select
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req SelectRequest
	if !decode(w, r, &req, false) {
		return
	}

	var navigated bool
	if req.ProductID != "" {
		p, ok := h.product(w, r, req.ProductID)
		if !ok {
			return
		}
		navigated = s.Search.Select(r.Context(), p)
	} else {
		navigated = s.Search.SelectTerm(r.Context(), req.Term)
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: NavigationResponse{Navigated: navigated, Location: locationOf(s)},
	})
}

// History handles GET /api/v1/sessions/{sessionID}/search/history
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: HistoryResponse{Terms: s.Search.History()}})
}

// ClearHistory handles DELETE /api/v1/sessions/{sessionID}/search/history
func (h *SessionHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Search.ClearHistory(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
