package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/bookheaven/bookheaven/internal/domain/cart"
)

type cartEntryResponse struct {
	BookID    string          `json:"bookId"`
	BookTitle string          `json:"bookTitle"`
	Author    string          `json:"author"`
	ImageURL  string          `json:"imageUrl"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	IsOnSale  bool            `json:"isOnSale"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	entries, err := h.carts.Get(r.Context(), mustClaims(r).AccountID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	out := make([]cartEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = cartEntryResponse{
			BookID:    e.BookID,
			BookTitle: e.BookTitle,
			Author:    e.Author,
			ImageURL:  e.ImageURL,
			Quantity:  e.Quantity,
			UnitPrice: e.UnitPrice,
			IsOnSale:  e.IsOnSale,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) putCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookID   string `json:"bookId"`
		Quantity int    `json:"quantity"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.BookID == "" {
		writeError(w, http.StatusBadRequest, "bookId is required")
		return
	}

	err := h.carts.Put(r.Context(), mustClaims(r).AccountID, req.BookID, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrBookNotFound) {
			writeError(w, http.StatusBadRequest, cart.ErrBookNotFound.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cart updated"})
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	err := h.carts.Remove(r.Context(), mustClaims(r).AccountID, chi.URLParam(r, "bookID"))
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "item removed"})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), mustClaims(r).AccountID); err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}
