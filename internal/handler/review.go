package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/bookheaven/bookheaven/internal/domain/review"
)

type reviewResponse struct {
	ID         string    `json:"id"`
	MemberName string    `json:"memberName"`
	BookID     string    `json:"bookId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toReviewResponses(reviews []review.Review) []reviewResponse {
	out := make([]reviewResponse, len(reviews))
	for i, rv := range reviews {
		out[i] = reviewResponse{
			ID:         rv.ID,
			MemberName: rv.MemberName,
			BookID:     rv.BookID,
			Rating:     rv.Rating,
			Comment:    rv.Comment,
			CreatedAt:  rv.CreatedAt,
		}
	}
	return out
}

func (h *Handler) listBookReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ForBook(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewResponses(reviews))
}

func (h *Handler) addReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookID  string `json:"bookId"`
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.BookID == "" {
		writeError(w, http.StatusBadRequest, "bookId is required")
		return
	}

	rv, err := h.reviews.Add(r.Context(), mustClaims(r).AccountID, req.BookID, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, review.ErrInvalidRating) {
			writeError(w, http.StatusBadRequest, review.ErrInvalidRating.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, reviewResponse{
		ID:        rv.ID,
		BookID:    rv.BookID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
	})
}

func (h *Handler) listAllReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.All(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewResponses(reviews))
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.reviews.Delete(r.Context(), chi.URLParam(r, "reviewID")); err != nil {
		if errors.Is(err, review.ErrNotFound) {
			writeError(w, http.StatusNotFound, review.ErrNotFound.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "review removed"})
}
