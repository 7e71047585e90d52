package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/bookheaven/bookheaven/internal/domain/fulfillment"
)

func (h *Handler) fulfillOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClaimCode string `json:"claimCode"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	rec, err := h.fulfillments.Fulfill(r.Context(), mustClaims(r).AccountID, req.ClaimCode)
	if err != nil {
		switch {
		case errors.Is(err, fulfillment.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, fulfillment.ErrOrderNotFound.Error())
		case errors.Is(err, fulfillment.ErrAlreadyFulfilled):
			writeError(w, http.StatusBadRequest, fulfillment.ErrAlreadyFulfilled.Error())
		default:
			writeInternalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, struct {
		OrderID     string    `json:"orderId"`
		ProcessedAt time.Time `json:"processedAt"`
	}{
		OrderID:     rec.OrderID,
		ProcessedAt: rec.ProcessedAt,
	})
}

func (h *Handler) listFulfilledOrders(w http.ResponseWriter, r *http.Request) {
	fulfilled, err := h.fulfillments.ListFulfilled(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	type fulfilledResponse struct {
		OrderID     string          `json:"orderId"`
		MemberName  string          `json:"memberName"`
		TotalPrice  decimal.Decimal `json:"totalPrice"`
		ProcessedAt time.Time       `json:"processedAt"`
	}
	out := make([]fulfilledResponse, len(fulfilled))
	for i, f := range fulfilled {
		out[i] = fulfilledResponse{
			OrderID:     f.OrderID,
			MemberName:  f.MemberName,
			TotalPrice:  f.TotalPrice,
			ProcessedAt: f.ProcessedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
