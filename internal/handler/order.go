package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bookheaven/bookheaven/internal/domain/order"
)

type orderLineResponse struct {
	BookID    string          `json:"bookId"`
	BookTitle string          `json:"bookTitle"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	Lines           []orderLineResponse `json:"lines"`
	TotalPrice      decimal.Decimal     `json:"totalPrice"`
	BulkDiscount    bool                `json:"bulkDiscount"`
	LoyaltyDiscount bool                `json:"loyaltyDiscount"`
	ClaimCode       string              `json:"claimCode"`
	CreatedAt       time.Time           `json:"createdAt"`
}

func toOrderResponse(o *order.Order) orderResponse {
	lines := make([]orderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = orderLineResponse{
			BookID:    l.BookID,
			BookTitle: l.BookTitle,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}
	return orderResponse{
		ID:              o.ID,
		Status:          string(o.Status),
		Lines:           lines,
		TotalPrice:      o.TotalPrice,
		BulkDiscount:    o.BulkDiscount,
		LoyaltyDiscount: o.LoyaltyDiscount,
		ClaimCode:       o.ClaimCode,
		CreatedAt:       o.CreatedAt,
	}
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []struct {
			BookID   string `json:"bookId"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	items := make([]order.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.Item{BookID: it.BookID, Quantity: it.Quantity}
	}

	memberID := mustClaims(r).AccountID
	o, err := h.orders.PlaceOrder(r.Context(), memberID, items)
	if err != nil {
		var notFound *order.BookNotFoundError
		var badQty *order.InvalidQuantityError
		switch {
		case errors.Is(err, order.ErrEmptyItems):
			writeError(w, http.StatusBadRequest, order.ErrEmptyItems.Error())
		case errors.As(err, &notFound), errors.As(err, &badQty):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			// Includes book.ErrCorruptDiscount: a stored discount outside
			// 0..100 is a data fault, not a bad request.
			writeInternalError(w, r, err)
		}
		return
	}

	// The order is already committed; a cart-clearing failure must not turn
	// the response into an error.
	if err := h.carts.RemoveBooks(r.Context(), memberID, o.BookIDs()); err != nil {
		zctx.From(r.Context()).Warn("clear ordered cart items",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	err := h.orders.CancelOrder(r.Context(), mustClaims(r).AccountID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, order.ErrOrderNotFound.Error())
		case errors.Is(err, order.ErrNotCancellable):
			writeError(w, http.StatusBadRequest, order.ErrNotCancellable.Error())
		default:
			writeInternalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "order cancelled"})
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context(), mustClaims(r).AccountID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	writeJSON(w, http.StatusOK, out)
}
