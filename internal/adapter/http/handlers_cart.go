package adapthttp

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/app"
	"storefront/internal/metrics"
	"storefront/internal/session"
)

type addToCartRequest struct {
	Quantity int `validate:"gt=0"`
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	userID := session.FromContext(r.Context()).UserID

	fields, err := readFields(w, r)
	if err != nil {
		metrics.RecordCart(metrics.OpCartAdd, metrics.OutcomeRejected)
		http.Error(w, ErrMsgInvalidQuantity, http.StatusBadRequest)
		return
	}
	var req addToCartRequest
	if req.Quantity, err = intField(fields, "quantity"); err != nil || validate.Struct(req) != nil {
		metrics.RecordCart(metrics.OpCartAdd, metrics.OutcomeRejected)
		http.Error(w, ErrMsgInvalidQuantity, http.StatusBadRequest)
		return
	}

	inventoryID, ok := idParam(r.URL.Query().Get("inventoryId"))
	if !ok {
		metrics.RecordCart(metrics.OpCartAdd, metrics.OutcomeRejected)
		http.Error(w, ErrMsgItemNotFound, http.StatusNotFound)
		return
	}

	_, err = s.carts.AddToCart(r.Context(), userID, inventoryID, req.Quantity)
	switch {
	case err == nil:
		metrics.RecordCart(metrics.OpCartAdd, metrics.OutcomeSuccess)
		http.Redirect(w, r, "/cart", http.StatusFound)
	case errors.Is(err, app.ErrInvalidInput):
		metrics.RecordCart(metrics.OpCartAdd, metrics.OutcomeRejected)
		http.Error(w, ErrMsgInvalidQuantity, http.StatusBadRequest)
	case errors.Is(err, app.ErrItemNotFound):
		metrics.RecordCart(metrics.OpCartAdd, metrics.OutcomeRejected)
		http.Error(w, ErrMsgItemNotFound, http.StatusNotFound)
	case errors.Is(err, app.ErrInsufficientStock):
		metrics.RecordCart(metrics.OpCartAdd, metrics.OutcomeRejected)
		http.Error(w, ErrMsgNotEnoughStock, http.StatusConflict)
	default:
		metrics.RecordCart(metrics.OpCartAdd, metrics.OutcomeError)
		internalError(w, r, "add to cart failed", err)
	}
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	userID := session.FromContext(r.Context()).UserID
	if err := s.carts.Clear(r.Context(), userID); err != nil {
		metrics.RecordCart(metrics.OpCartClear, metrics.OutcomeError)
		internalError(w, r, "clear cart failed", err)
		return
	}
	metrics.RecordCart(metrics.OpCartClear, metrics.OutcomeSuccess)
	http.Redirect(w, r, "/cart", http.StatusFound)
}

func (s *Server) handleUpdateCartLine(w http.ResponseWriter, r *http.Request) {
	userID := session.FromContext(r.Context()).UserID

	cartID, ok := idParam(chi.URLParam(r, "cartId"))
	if !ok {
		metrics.RecordCart(metrics.OpCartUpdate, metrics.OutcomeRejected)
		http.Error(w, ErrMsgLineNotFound, http.StatusNotFound)
		return
	}

	fields, err := readFields(w, r)
	if err != nil {
		metrics.RecordCart(metrics.OpCartUpdate, metrics.OutcomeRejected)
		http.Error(w, ErrMsgInvalidQuantity, http.StatusBadRequest)
		return
	}
	quantity, err := intField(fields, "quantity")
	if err != nil {
		metrics.RecordCart(metrics.OpCartUpdate, metrics.OutcomeRejected)
		http.Error(w, ErrMsgInvalidQuantity, http.StatusBadRequest)
		return
	}

	err = s.carts.UpdateLine(r.Context(), userID, cartID, quantity)
	switch {
	case err == nil:
		metrics.RecordCart(metrics.OpCartUpdate, metrics.OutcomeSuccess)
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, app.ErrCartLineNotFound):
		metrics.RecordCart(metrics.OpCartUpdate, metrics.OutcomeRejected)
		http.Error(w, ErrMsgLineNotFound, http.StatusNotFound)
	case errors.Is(err, app.ErrInsufficientStock):
		metrics.RecordCart(metrics.OpCartUpdate, metrics.OutcomeRejected)
		http.Error(w, ErrMsgNotEnoughStock, http.StatusConflict)
	default:
		metrics.RecordCart(metrics.OpCartUpdate, metrics.OutcomeError)
		internalError(w, r, "update cart line failed", err)
	}
}

func (s *Server) handleDeleteCartLine(w http.ResponseWriter, r *http.Request) {
	userID := session.FromContext(r.Context()).UserID

	cartID, ok := idParam(chi.URLParam(r, "cartId"))
	if !ok {
		metrics.RecordCart(metrics.OpCartRemove, metrics.OutcomeRejected)
		http.Error(w, ErrMsgCartItemMissing, http.StatusNotFound)
		return
	}

	err := s.carts.RemoveLine(r.Context(), userID, cartID)
	switch {
	case err == nil:
		metrics.RecordCart(metrics.OpCartRemove, metrics.OutcomeSuccess)
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, app.ErrCartLineNotFound):
		metrics.RecordCart(metrics.OpCartRemove, metrics.OutcomeRejected)
		http.Error(w, ErrMsgCartItemMissing, http.StatusNotFound)
	default:
		metrics.RecordCart(metrics.OpCartRemove, metrics.OutcomeError)
		internalError(w, r, "delete cart line failed", err)
	}
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := s.carts.GetCart(r.Context(), session.FromContext(r.Context()).UserID)
	if err != nil {
		internalError(w, r, "get cart failed", err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := s.carts.ListInventory(r.Context())
	if err != nil {
		internalError(w, r, "list inventory failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
