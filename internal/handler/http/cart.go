package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
)

// AddToCartRequest adds a catalog product to the cart.
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
}

// ToggleWishlistRequest toggles a product in the wishlist.
type ToggleWishlistRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
}

// CartMutationResponse is the cart after a change, with the notice that can
// revert it.
type CartMutationResponse struct {
	Cart   domain.CartSummary `json:"cart"`
	Notice *domain.Notice     `json:"notice,omitempty"`
}

// WishlistResponse is the wishlist view.
type WishlistResponse struct {
	Items []domain.Product `json:"items"`
	Count int              `json:"count"`
}

// ToggleWishlistResponse reports the product's membership after a toggle.
type ToggleWishlistResponse struct {
	InWishlist bool             `json:"in_wishlist"`
	Wishlist   WishlistResponse `json:"wishlist"`
}

// MoveToCartResponse is the state after moving a wishlist item to the cart.
type MoveToCartResponse struct {
	Cart     domain.CartSummary `json:"cart"`
	Wishlist WishlistResponse   `json:"wishlist"`
}

// Cart handles GET /api/v1/sessions/{sessionID}/cart
func (h *SessionHandler) Cart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: s.Cart.Summary()})
}

// AddToCart handles POST /api/v1/sessions/{sessionID}/cart/items
func (h *SessionHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req AddToCartRequest
	if !decode(w, r, &req, false) {
		return
	}
	p, ok := h.product(w, r, req.ProductID)
	if !ok {
		return
	}
	if _, err := s.Cart.Add(p); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: CartMutationResponse{Cart: s.Cart.Summary()}})
}

// RemoveFromCart handles DELETE /api/v1/sessions/{sessionID}/cart/items/{index}
func (h *SessionHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "index must be an integer"},
		})
		return
	}
	notice, err := s.Cart.Remove(index)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: CartMutationResponse{Cart: s.Cart.Summary(), Notice: &notice},
	})
}

// ClearCart handles DELETE /api/v1/sessions/{sessionID}/cart
func (h *SessionHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	notice := s.Cart.Clear()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: CartMutationResponse{Cart: s.Cart.Summary(), Notice: &notice},
	})
}

// Notices handles GET /api/v1/sessions/{sessionID}/notices
func (h *SessionHandler) Notices(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: s.Notifier.Active()})
}

// Undo handles POST /api/v1/sessions/{sessionID}/notices/{noticeID}/undo
func (h *SessionHandler) Undo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	noticeID, ok := httputil.ParseUUID(w, chi.URLParam(r, "noticeID"))
	if !ok {
		return
	}
	if err := s.Notifier.Undo(noticeID.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CartMutationResponse{Cart: s.Cart.Summary()}})
}

// Wishlist handles GET /api/v1/sessions/{sessionID}/wishlist
func (h *SessionHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: wishlistOf(s.Wishlist.Items())})
}

// ToggleWishlist handles POST /api/v1/sessions/{sessionID}/wishlist/toggle
func (h *SessionHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req ToggleWishlistRequest
	if !decode(w, r, &req, false) {
		return
	}
	p, ok := h.product(w, r, req.ProductID)
	if !ok {
		return
	}
	in := s.Wishlist.Toggle(r.Context(), p)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: ToggleWishlistResponse{InWishlist: in, Wishlist: wishlistOf(s.Wishlist.Items())},
	})
}

// RemoveFromWishlist handles DELETE /api/v1/sessions/{sessionID}/wishlist/{productID}
func (h *SessionHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "productID")
	if !s.Wishlist.Remove(r.Context(), id) {
		httputil.WriteError(w, r, apperrors.NotFound("wishlist item", id), h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveToCart handles POST /api/v1/sessions/{sessionID}/wishlist/{productID}/move-to-cart
func (h *SessionHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "productID")
	if !s.Wishlist.Contains(id) {
		httputil.WriteError(w, r, apperrors.NotFound("wishlist item", id), h.logger)
		return
	}
	p, ok := h.product(w, r, id)
	if !ok {
		return
	}
	if !s.Wishlist.MoveToCart(r.Context(), p) {
		httputil.WriteError(w, r, apperrors.Conflict("product could not be added to the cart"), h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: MoveToCartResponse{Cart: s.Cart.Summary(), Wishlist: wishlistOf(s.Wishlist.Items())},
	})
}

func wishlistOf(items []domain.Product) WishlistResponse {
	return WishlistResponse{Items: items, Count: len(items)}
}
